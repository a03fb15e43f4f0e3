package core

import (
	"context"
	"log/slog"
	"time"
)

// Logger is the minimal structured logging surface used by the service.
// Implementations must be safe for concurrent use.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MetricsRecorder receives one observation per completed service operation.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// Tracer opens a span around each service operation.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan terminates a span opened by a Tracer.
type TraceSpan interface {
	End(err error)
}

// SlogLogger adapts *slog.Logger to the Logger interface.
type SlogLogger struct {
	*slog.Logger
}

// NewSlogLogger wraps an slog logger; a nil argument wraps slog.Default().
func NewSlogLogger(logger *slog.Logger) SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return SlogLogger{Logger: logger}
}

// NoopLogger discards all messages. It is the default when no logger option
// is supplied.
type NoopLogger struct{}

// Debug discards the message.
func (NoopLogger) Debug(string, ...any) {}

// Info discards the message.
func (NoopLogger) Info(string, ...any) {}

// Warn discards the message.
func (NoopLogger) Warn(string, ...any) {}

// Error discards the message.
func (NoopLogger) Error(string, ...any) {}

// ServiceOption customizes a Service at construction time.
type ServiceOption func(*Service)

// WithLogger installs a structured logger for operation outcomes.
func WithLogger(logger Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsRecorder installs a metrics sink for operation timing and results.
func WithMetricsRecorder(recorder MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

// WithTracer installs a tracer producing one span per service operation.
func WithTracer(tracer Tracer) ServiceOption {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithClock overrides the time source used for duration measurement.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// observe wraps a service operation with logging, metrics and tracing. The
// returned function must be called exactly once with the operation outcome.
func (s *Service) observe(ctx context.Context, operation string) (context.Context, func(err error)) {
	started := s.now()
	var span TraceSpan
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operation)
	}
	return ctx, func(err error) {
		duration := s.now().Sub(started)
		if span != nil {
			span.End(err)
		}
		if s.metrics != nil {
			s.metrics.Observe(ctx, operation, err == nil, duration)
		}
		if err != nil {
			s.logger.Warn("operation rejected", "operation", operation, "error", err, "duration", duration)
			return
		}
		s.logger.Debug("operation completed", "operation", operation, "duration", duration)
	}
}
