package fimg

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. Enabled reports false, so slog never
// builds the attributes for fimg's debug lines unless a logger is installed.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr holds the logger shared by every Image; swapped atomically so
// SetLogger may race with New or Destroy on other goroutines.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger installs the logger fimg writes to. fimg is silent until it is
// called; nil silences it again.
//
// Records emitted:
//   - Debug "fimg: image allocated" from New and the PPM decoder, with
//     width, height, channels and samples
//   - Debug "fimg: image released" from Destroy
//   - Debug "fimg: PPM imported" / "fimg: PPM exported" from ImportPPM and
//     ExportPPM, with path and size
//   - Warn "fimg: destroy called on destroyed image" when Destroy reports
//     ErrNullHandle
//
// fimgtool -v installs a text handler at debug level:
//
//	fimg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the logger installed with SetLogger, or a silent one.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
