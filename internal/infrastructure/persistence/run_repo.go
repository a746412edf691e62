package persistence

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/jmoiron/sqlx"

	"skin_market/internal/domain"
	"skin_market/internal/domain/entity"
	"skin_market/pkg/errcodes"
	"skin_market/pkg/lox"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies the bundled schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("fs.Glob: %w", err)
	}

	sort.Strings(names)

	for _, name := range names {
		query, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("migrations.ReadFile: %w", err)
		}

		if _, err = db.ExecContext(ctx, string(query)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}

		logger(ctx).Debug("migration applied", slog.String("file", name))
	}

	return nil
}

type RefreshRunRepository struct {
	db *sqlx.DB
}

func NewRefreshRunRepository(db *sqlx.DB) *RefreshRunRepository {
	return &RefreshRunRepository{db: db}
}

func (r *RefreshRunRepository) Create(ctx context.Context, run *entity.RefreshRun) error {
	query := `
		INSERT INTO refresh_runs (
			id, trigger, status, started_at, finished_at, bytes, item_count, error
		) VALUES (
			:id, :trigger, :status, :started_at, :finished_at, :bytes, :item_count, :error
		)`

	if _, err := r.db.NamedExecContext(ctx, query, fromRefreshRun(run)); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to create refresh run")
	}

	return nil
}

func (r *RefreshRunRepository) Finish(ctx context.Context, run *entity.RefreshRun) error {
	query := `
		UPDATE refresh_runs SET
			status = :status,
			finished_at = :finished_at,
			bytes = :bytes,
			item_count = :item_count,
			error = :error
		WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, fromRefreshRun(run))
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to finish refresh run")
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.NewError(errcodes.NotFound, "refresh run not found")
	}

	return nil
}

// ListRecent returns up to limit runs, newest first.
func (r *RefreshRunRepository) ListRecent(ctx context.Context, limit int) ([]entity.RefreshRun, error) {
	query := `SELECT * FROM refresh_runs ORDER BY started_at DESC, id DESC LIMIT $1`

	var rows []refreshRunSchema
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list refresh runs")
	}

	return lox.Map(rows, refreshRunSchema.toDomain), nil
}
