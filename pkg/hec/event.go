package hec

import (
	"errors"
	"time"
)

// Event is the envelope accepted by a Splunk-style HTTP Event Collector.
type Event struct {
	Time       float64                `json:"time"`
	Event      map[string]interface{} `json:"event"`
	SourceType string                 `json:"sourcetype"`
	Index      string                 `json:"index,omitempty"`
}

// Collector paths. EventPath expects the structured envelope; RawPath accepts
// newline-delimited raw payloads and is used as a delivery fallback.
const (
	EventPath = "/services/collector/event"
	RawPath   = "/services/collector/raw"
)

// AuthScheme is the scheme prefix carried in the Authorization header.
const AuthScheme = "Splunk"

var (
	ErrNoPayload     = errors.New("event payload is empty")
	ErrNoSourceType  = errors.New("event has no sourcetype")
	ErrZeroTimestamp = errors.New("event timestamp is zero")
)

// NewEvent builds an envelope with the epoch timestamp HEC expects,
// preserving sub-second precision.
func NewEvent(t time.Time, payload map[string]interface{}, sourcetype, index string) Event {
	return Event{
		Time:       EpochFloat(t),
		Event:      payload,
		SourceType: sourcetype,
		Index:      index,
	}
}

// EpochFloat converts a time to fractional unix seconds.
func EpochFloat(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

// Validate checks the envelope shape a collector will reject. Used by the
// dry-run transmitter so a bad payload surfaces without a network call.
func (e Event) Validate() error {
	if len(e.Event) == 0 {
		return ErrNoPayload
	}
	if e.SourceType == "" {
		return ErrNoSourceType
	}
	if e.Time <= 0 {
		return ErrZeroTimestamp
	}
	return nil
}
