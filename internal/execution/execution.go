// Package execution owns the lifecycle of campaign runs: one cancellable
// background worker per execution, a guarded registry for status polling,
// and the results aggregate callers read after (or during) a run.
package execution

import (
	"sync"
	"time"

	"github.com/roarinpenguin/jarvis-coding-sub000/internal/delivery"
	"github.com/roarinpenguin/jarvis-coding-sub000/internal/schedule"
)

// Status is the execution state. Transitions are strictly
// PENDING → RUNNING → {COMPLETED, FAILED, STOPPED}; FAILED may also be
// reached directly from PENDING on a validation error.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusStopped   Status = "STOPPED"
)

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusStopped:
		return true
	}
	return false
}

// ErrorEntry is one structured error attributed to a phase, generator, or
// endpoint, exposed through status and results.
type ErrorEntry struct {
	Phase     string `json:"phase,omitempty"`
	Generator string `json:"generator,omitempty"`
	Endpoint  string `json:"endpoint,omitempty"`
	Message   string `json:"message"`
}

// PhaseProgress tracks one phase's completion counters.
type PhaseProgress struct {
	Name      string `json:"name"`
	Scheduled int    `json:"scheduled"`
	Delivered int    `json:"delivered"`
	Failed    int    `json:"failed"`
}

// Execution is the mutable record of one campaign run. It is mutated only
// by its owning worker goroutine and by explicit stop requests; readers go
// through snapshot methods that take the lock.
type Execution struct {
	mu sync.Mutex

	ID         string
	CampaignID string
	Speed      schedule.Speed
	DryRun     bool

	status     Status
	startedAt  time.Time
	finishedAt time.Time

	totalEvents int
	dispatched  int
	phaseIndex  int
	phases      []PhaseProgress
	errors      []ErrorEntry

	summary *delivery.Summary
	events  []schedule.ScheduledEvent

	cancel func()
	done   chan struct{}
}

// StatusInfo is the point-in-time view returned to status pollers.
type StatusInfo struct {
	ID          string          `json:"execution_id"`
	CampaignID  string          `json:"campaign_id"`
	Status      Status          `json:"status"`
	Speed       schedule.Speed  `json:"speed"`
	DryRun      bool            `json:"dry_run"`
	Progress    float64         `json:"progress"`
	TotalEvents int             `json:"total_events"`
	Dispatched  int             `json:"events_dispatched"`
	Phase       string          `json:"phase,omitempty"`
	Phases      []PhaseProgress `json:"phases"`
	Errors      []ErrorEntry    `json:"errors,omitempty"`
	StartedAt   time.Time       `json:"started_at"`
	FinishedAt  *time.Time      `json:"finished_at,omitempty"`
}

// Results is the terminal (or in-flight) results view.
type Results struct {
	StatusInfo
	Summary *delivery.Summary        `json:"summary,omitempty"`
	Events  []map[string]interface{} `json:"events,omitempty"`
}

// Snapshot returns the current status view.
func (e *Execution) Snapshot() StatusInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Execution) snapshotLocked() StatusInfo {
	info := StatusInfo{
		ID:          e.ID,
		CampaignID:  e.CampaignID,
		Status:      e.status,
		Speed:       e.Speed,
		DryRun:      e.DryRun,
		TotalEvents: e.totalEvents,
		Dispatched:  e.dispatched,
		StartedAt:   e.startedAt,
		Phases:      append([]PhaseProgress(nil), e.phases...),
		Errors:      append([]ErrorEntry(nil), e.errors...),
	}
	if e.totalEvents > 0 {
		info.Progress = float64(e.dispatched) / float64(e.totalEvents)
	}
	if e.phaseIndex >= 0 && e.phaseIndex < len(e.phases) {
		info.Phase = e.phases[e.phaseIndex].Name
	}
	if !e.finishedAt.IsZero() {
		t := e.finishedAt
		info.FinishedAt = &t
	}
	return info
}

// ResultsSnapshot returns the results view, optionally with full payloads.
func (e *Execution) ResultsSnapshot(includeEvents bool) Results {
	e.mu.Lock()
	defer e.mu.Unlock()

	res := Results{StatusInfo: e.snapshotLocked(), Summary: e.summary}
	if includeEvents {
		res.Events = make([]map[string]interface{}, 0, len(e.events))
		for i := range e.events {
			res.Events = append(res.Events, e.events[i].Payload)
		}
	}
	return res
}

// Wait blocks until the worker has finished. Used by the one-shot CLI path.
func (e *Execution) Wait() {
	<-e.done
}
