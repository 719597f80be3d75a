package desim

import (
	"log"
	"os"
)

// Diagnostic is the engine's warning side channel (§6, "Diagnostic side
// channel"). Message text is advisory only, never part of the contract;
// nothing besides this channel is persisted by the core.
type Diagnostic interface {
	Warnf(format string, args ...any)
}

// StdlibDiagnostic is the default Diagnostic, wrapping a standard-library
// *log.Logger the way the teacher's SerialEngine/EventLogger report
// warnings straight through "log" rather than a third-party logging
// framework for this specific, low-volume channel (sim/timing/serialengine.go,
// sim/timing/eventlogger.go).
type StdlibDiagnostic struct {
	logger *log.Logger
}

// NewStdlibDiagnostic wraps logger. If logger is nil, a logger writing to
// os.Stderr is created.
func NewStdlibDiagnostic(logger *log.Logger) *StdlibDiagnostic {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	return &StdlibDiagnostic{logger: logger}
}

// Warnf formats and logs a warning.
func (d *StdlibDiagnostic) Warnf(format string, args ...any) {
	d.logger.Printf("[desim] WARN: "+format, args...)
}

// discardDiagnostic silently drops every warning. Used as the Engine's
// fallback when no Diagnostic is supplied, mirroring how most of the
// akita engine's panics/warnings are opt-in rather than mandatory plumbing.
type discardDiagnostic struct{}

func (discardDiagnostic) Warnf(string, ...any) {}

var _ Diagnostic = discardDiagnostic{}
var _ Diagnostic = (*StdlibDiagnostic)(nil)

// warnf is a small helper so call sites read naturally regardless of
// whether args are present.
func warnf(d Diagnostic, format string, args ...any) {
	if d == nil {
		return
	}

	d.Warnf(format, args...)
}
