// Package obslog wraps log/slog with the attribute/context conventions
// the teacher's internal/httplog uses for its own structured logging: a
// thin logger value that is safe to pass down the call stack, carries a
// fixed set of build-session attributes, and can be threaded through a
// context.Context the way httplog threads its redaction/allow-list
// settings (internal/httplog/context.go's WithValue/Value pair).
//
// No third-party logging library is introduced; log/slog is itself the
// teacher's choice for this concern, not a stdlib fallback.
package obslog

import (
	"context"
	"log/slog"

	"github.com/aurelia/aot/internal/diag"
)

// Logger is a *slog.Logger that already carries this build session's
// identifying attributes. Passing one down the call stack (rather than a
// bare *slog.Logger) keeps every log line attributable to the session and
// component that produced it without every call site re-specifying them.
type Logger struct {
	*slog.Logger
}

// New returns a root Logger for one analysis session, logging through
// handler (nil uses slog.Default()'s handler).
func New(session string, handler slog.Handler) *Logger {
	var base *slog.Logger
	if handler != nil {
		base = slog.New(handler)
	} else {
		base = slog.Default()
	}
	return &Logger{Logger: base.With(slog.String("session", session))}
}

// With returns a child Logger tagged with component, e.g. "recognize" or
// "plan" — the same sub-logger shape internal/httplog.SlogLogger passes
// its caller's *slog.Logger through unchanged but callers conventionally
// narrow with .With(...) before passing it into a subsystem.
func (l *Logger) With(component string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("component", component))}
}

// Stage returns a child Logger tagged with the pipeline stage that
// produced the diagnostics it will log alongside, so a log line and the
// diag.Diagnostic it explains carry the same stage attribute.
func (l *Logger) Stage(stage diag.Stage) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("stage", string(stage)))}
}

type contextKey struct{}

// ContextWith returns a context carrying l, retrievable with FromContext.
func ContextWith(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the Logger attached to ctx by ContextWith, or a
// session-less root Logger over slog.Default() if none was attached —
// callers that forget to thread a session-scoped Logger still get a
// working one rather than a nil-pointer panic.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return l
	}
	return &Logger{Logger: slog.Default()}
}
