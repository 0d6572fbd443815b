package adapters

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"resonance-vars/internal/ports"
	"resonance-vars/internal/types"
)

// StatusLogAdapter writes status updates to a zerolog logger.
type StatusLogAdapter struct {
	Logger *zerolog.Logger
}

func NewStatusLogAdapter() StatusLogAdapter {
	return StatusLogAdapter{}
}

func (a StatusLogAdapter) Update(message string, code types.StatusCode) {
	logger := a.Logger
	if logger == nil {
		logger = &log.Logger
	}
	var event *zerolog.Event
	switch {
	case code >= types.StatusCodeStoreFailure:
		event = logger.Error()
	case code >= types.StatusCodeInvalidInput:
		event = logger.Warn()
	default:
		event = logger.Info()
	}
	if code != types.StatusCodeNone {
		event = event.Int("code", int(code))
	}
	event.Msg(message)
}

var _ ports.StatusSinkPort = StatusLogAdapter{}
