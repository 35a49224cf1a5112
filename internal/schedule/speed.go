package schedule

import "fmt"

// Speed is the playback compression setting for an execution.
type Speed string

const (
	// SpeedRealtime paces dispatch at the narrative's own rate: one logical
	// minute of phase time takes one wall-clock minute.
	SpeedRealtime Speed = "realtime"

	// SpeedFast compresses the narrative by a configurable factor.
	SpeedFast Speed = "fast"

	// SpeedInstant collapses all dispatch delays to zero. Logical timestamps
	// embedded in payloads still reflect uncompressed narrative time.
	SpeedInstant Speed = "instant"
)

// ParseSpeed validates a speed mode string. Empty defaults to instant,
// matching the dry-run/testing orientation of the CLI.
func ParseSpeed(s string) (Speed, error) {
	switch Speed(s) {
	case SpeedRealtime, SpeedFast, SpeedInstant:
		return Speed(s), nil
	case "":
		return SpeedInstant, nil
	default:
		return "", fmt.Errorf("unknown speed mode %q (want realtime, fast, or instant)", s)
	}
}

// factor returns the dispatch-time multiplier for the mode. fastFactor is
// the configured compression for SpeedFast (e.g. 1/60 compresses a minute
// into a second).
func (s Speed) factor(fastFactor float64) float64 {
	switch s {
	case SpeedRealtime:
		return 1.0
	case SpeedFast:
		if fastFactor <= 0 || fastFactor > 1 {
			fastFactor = defaultFastFactor
		}
		return fastFactor
	default:
		return 0
	}
}

const defaultFastFactor = 1.0 / 60
