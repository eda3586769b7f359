// Package obslog wraps zerolog with a caller-supplied logger, never the
// package-global, so the core never writes to stdout/stderr on its own
// authority.
package obslog

import (
	"io"

	"github.com/rs/zerolog"
)

// Sink is the logging handle every solver accepts. The zero value discards
// everything, so the core never writes to stdout/stderr on its own when a
// caller supplies nothing.
type Sink struct {
	logger zerolog.Logger
}

// NewSink wraps a caller-supplied zerolog.Logger.
func NewSink(logger zerolog.Logger) Sink {
	return Sink{logger: logger}
}

// Discard returns a Sink that drops every event.
func Discard() Sink {
	return Sink{logger: zerolog.New(io.Discard)}
}

// Iteration logs one heuristic solver step at debug level.
func (s Sink) Iteration(algorithm string, iter int, temperatureOrGen float64, cost float64) {
	s.logger.Debug().
		Str("algorithm", algorithm).
		Int("iteration", iter).
		Float64("control", temperatureOrGen).
		Float64("cost", cost).
		Msg("solver step")
}

// Event logs a structured named event (restart, cancellation, completion).
func (s Sink) Event(name string, fields map[string]any) {
	ev := s.logger.Info()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(name)
}

// Warn logs a recoverable anomaly (repair pass engaged, rescale applied).
func (s Sink) Warn(msg string, fields map[string]any) {
	ev := s.logger.Warn()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}
