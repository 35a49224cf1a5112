package delivery

import (
	"time"
)

// Outcome classifies one delivery attempt.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeTimeout Outcome = "timeout"
)

// Attempt is the audit record for one transmission try. Attempts are
// appended and never mutated.
type Attempt struct {
	Sequence int       `json:"sequence"`
	Endpoint string    `json:"endpoint"`
	Auth     string    `json:"auth"`
	Number   int       `json:"number"`
	Outcome  Outcome   `json:"outcome"`
	Error    string    `json:"error,omitempty"`
	Time     time.Time `json:"time"`
}

// GroupCount accumulates per-phase or per-generator delivery counts.
type GroupCount struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// FailedEvent attributes one exhausted event for the results error list.
type FailedEvent struct {
	Sequence    int    `json:"sequence"`
	PhaseName   string `json:"phase"`
	GeneratorID string `json:"generator"`
	Endpoint    string `json:"endpoint"`
	Error       string `json:"error"`
}

// Summary is the delivery result aggregate for one execution.
type Summary struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`

	ByPhase     map[string]*GroupCount `json:"by_phase"`
	ByGenerator map[string]*GroupCount `json:"by_generator"`

	Attempts     []Attempt     `json:"attempts,omitempty"`
	FailedEvents []FailedEvent `json:"failed_events,omitempty"`
}

func newSummary() *Summary {
	return &Summary{
		ByPhase:     make(map[string]*GroupCount),
		ByGenerator: make(map[string]*GroupCount),
	}
}

func (s *Summary) record(phase, gen string, succeeded bool) {
	s.Attempted++
	pc := s.group(s.ByPhase, phase)
	gc := s.group(s.ByGenerator, gen)
	pc.Attempted++
	gc.Attempted++
	if succeeded {
		s.Succeeded++
		pc.Succeeded++
		gc.Succeeded++
	} else {
		s.Failed++
		pc.Failed++
		gc.Failed++
	}
}

func (s *Summary) group(m map[string]*GroupCount, key string) *GroupCount {
	g, ok := m[key]
	if !ok {
		g = &GroupCount{}
		m[key] = g
	}
	return g
}
