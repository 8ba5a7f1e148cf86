// Package logging provides structured JSON logging shaped for Google Cloud
// Logging, with request-scoped loggers carried on the context.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/janisto/linkbio/internal/platform/timeutil"
)

const (
	levelCritical  = slog.LevelError + 4
	levelAlert     = slog.LevelError + 8
	levelEmergency = slog.LevelError + 12
)

// severities maps slog levels to Cloud Logging severity names.
var severities = map[slog.Level]string{
	slog.LevelDebug: "DEBUG",
	slog.LevelInfo:  "INFO",
	slog.LevelWarn:  "WARNING",
	slog.LevelError: "ERROR",
	levelCritical:   "CRITICAL",
	levelAlert:      "ALERT",
	levelEmergency:  "EMERGENCY",
}

var (
	loggerOnce sync.Once
	baseLogger *slog.Logger
	level      slog.LevelVar
)

// cloudHandler normalizes record times to UTC before delegating.
type cloudHandler struct {
	slog.Handler
}

func (h *cloudHandler) Handle(ctx context.Context, r slog.Record) error {
	r.Time = r.Time.UTC()
	return h.Handler.Handle(ctx, r)
}

func (h *cloudHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &cloudHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *cloudHandler) WithGroup(name string) slog.Handler {
	return &cloudHandler{Handler: h.Handler.WithGroup(name)}
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.TimeKey:
		return slog.String("timestamp", a.Value.Time().UTC().Format(timeutil.RFC3339Micros))
	case slog.LevelKey:
		a.Key = "severity"
		if lvl, ok := a.Value.Any().(slog.Level); ok {
			if name, found := severities[lvl]; found {
				a.Value = slog.StringValue(name)
			}
		}
	case slog.MessageKey:
		a.Key = "message"
	}
	return a
}

// New builds a Cloud Logging shaped JSON logger writing to w.
func New(w io.Writer, lvl slog.Leveler) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       lvl,
		ReplaceAttr: replaceAttr,
	})
	return slog.New(&cloudHandler{Handler: h})
}

// Logger returns the process-wide logger.
func Logger() *slog.Logger {
	loggerOnce.Do(func() {
		baseLogger = New(os.Stdout, &level)
	})
	return baseLogger
}

// SetLevel changes the minimum level of the process-wide logger.
func SetLevel(l slog.Level) {
	level.Set(l)
}
