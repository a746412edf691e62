package entity

import "time"

// Trigger names what started a refresh.
type Trigger string

const (
	TriggerSchedule  Trigger = "schedule"
	TriggerColdStart Trigger = "cold_start"
	TriggerManual    Trigger = "manual"
)

func (t Trigger) String() string {
	return string(t)
}

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// RefreshRun is one invocation of the analysis engine.
type RefreshRun struct {
	ID         string
	Trigger    Trigger
	Status     RunStatus
	StartedAt  time.Time
	FinishedAt *time.Time
	Bytes      int
	ItemCount  int
	Error      string
}

func (r *RefreshRun) Succeed(finishedAt time.Time, bytes, itemCount int) {
	r.Status = RunStatusSucceeded
	r.FinishedAt = &finishedAt
	r.Bytes = bytes
	r.ItemCount = itemCount
}

func (r *RefreshRun) Fail(finishedAt time.Time, err error) {
	r.Status = RunStatusFailed
	r.FinishedAt = &finishedAt
	r.Error = err.Error()
}

func (r RefreshRun) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
