package logging

import "log/slog"

// Common field names for consistent logging across the simulator.
const (
	FieldService   = "service"
	FieldCampaign  = "campaign"
	FieldExecution = "execution_id"
	FieldPhase     = "phase"
	FieldGenerator = "generator"
	FieldEndpoint  = "endpoint"
	FieldError     = "error"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// Campaign returns a slog attribute for the campaign ID.
func Campaign(id string) slog.Attr {
	return slog.String(FieldCampaign, id)
}

// Execution returns a slog attribute for the execution ID.
func Execution(id string) slog.Attr {
	return slog.String(FieldExecution, id)
}

// Phase returns a slog attribute for the phase name.
func Phase(name string) slog.Attr {
	return slog.String(FieldPhase, name)
}

// Generator returns a slog attribute for the generator ID.
func Generator(id string) slog.Attr {
	return slog.String(FieldGenerator, id)
}

// Endpoint returns a slog attribute for the delivery endpoint.
func Endpoint(url string) slog.Attr {
	return slog.String(FieldEndpoint, url)
}

// Error returns a slog attribute for an error value.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}
