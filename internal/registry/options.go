package registry

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/hotelkeys/internal/metrics"
)

// Option configures a Registry.
type Option func(*Registry)

// WithClock replaces the wall clock used for check-in and check-out times.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.clock = now
		}
	}
}

// WithLogger sets the logger used for operation logs.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder metrics.Recorder) Option {
	return func(r *Registry) {
		if recorder != nil {
			r.recorder = recorder
		}
	}
}

// WithWarningHandler receives non-fatal failures, currently StorageWriteFailed.
// The default handler logs them at warn level.
func WithWarningHandler(fn func(error)) Option {
	return func(r *Registry) {
		if fn != nil {
			r.warn = fn
		}
	}
}
