package shadergraph

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/shadergraph/codegen"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with Compile.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for shadergraph and its code generator.
// By default, shadergraph produces no log output. Pass nil to restore the
// silent default.
//
// Log levels used by shadergraph:
//   - [slog.LevelDebug]: port counts, subgraph layout, program sizes
//   - [slog.LevelInfo]: compile completion
//   - [slog.LevelWarn]: nodes dropped by pruning
//
// Example:
//
//	shadergraph.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	codegen.SetLogger(l)
}

// Logger returns the current logger. Sub-packages such as render call it to
// share the same configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
