package gpubind

import (
	"log/slog"

	"github.com/gogpu/gpubind/hal"
)

// SetLogger configures the logger shared by gpubind, the session driver and
// every registered platform. By default nothing is logged; pass nil to
// return to that state.
//
// Levels in use:
//   - [slog.LevelDebug]: resource creation, command recording, submissions
//   - [slog.LevelInfo]: lifecycle milestones (adapter found, canvas configured)
//   - [slog.LevelWarn]: non-fatal issues (native errors reported out of band)
//
// Example:
//
//	gpubind.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) { hal.SetLogger(l) }

// Logger returns the current logger. It never returns nil and is safe for
// concurrent use.
func Logger() *slog.Logger { return hal.Logger() }
