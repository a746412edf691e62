package persistence

import (
	"database/sql"
	"time"

	"skin_market/internal/domain/entity"
)

// refreshRunSchema maps a refresh_runs row.
type refreshRunSchema struct {
	ID         string       `db:"id"`
	Trigger    string       `db:"trigger"`
	Status     string       `db:"status"`
	StartedAt  time.Time    `db:"started_at"`
	FinishedAt sql.NullTime `db:"finished_at"`
	Bytes      int          `db:"bytes"`
	ItemCount  int          `db:"item_count"`
	Error      string       `db:"error"`
}

func fromRefreshRun(r *entity.RefreshRun) refreshRunSchema {
	s := refreshRunSchema{
		ID:        r.ID,
		Trigger:   string(r.Trigger),
		Status:    string(r.Status),
		StartedAt: r.StartedAt,
		Bytes:     r.Bytes,
		ItemCount: r.ItemCount,
		Error:     r.Error,
	}

	if r.FinishedAt != nil {
		s.FinishedAt = sql.NullTime{Time: *r.FinishedAt, Valid: true}
	}

	return s
}

func (s refreshRunSchema) toDomain() entity.RefreshRun {
	r := entity.RefreshRun{
		ID:        s.ID,
		Trigger:   entity.Trigger(s.Trigger),
		Status:    entity.RunStatus(s.Status),
		StartedAt: s.StartedAt,
		Bytes:     s.Bytes,
		ItemCount: s.ItemCount,
		Error:     s.Error,
	}

	if s.FinishedAt.Valid {
		finishedAt := s.FinishedAt.Time
		r.FinishedAt = &finishedAt
	}

	return r
}
