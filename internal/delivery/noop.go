package delivery

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roarinpenguin/jarvis-coding-sub000/internal/schedule"
	"github.com/roarinpenguin/jarvis-coding-sub000/pkg/hec"
)

// NopTransmitter replaces the network transmitter in dry-run executions. It
// validates the envelope shape and serializability, so campaign correctness
// can be verified without side effects.
type NopTransmitter struct{}

func (NopTransmitter) Transmit(_ context.Context, _ Target, ev *schedule.ScheduledEvent) error {
	envelope := hec.NewEvent(ev.LogicalTime, ev.Payload, ev.SourceType, ev.Index)
	if err := envelope.Validate(); err != nil {
		return fmt.Errorf("invalid envelope: %w", err)
	}
	if _, err := json.Marshal(envelope); err != nil {
		return fmt.Errorf("payload not serializable: %w", err)
	}
	return nil
}
