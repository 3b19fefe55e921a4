package transform

import "log"

// Logger receives the transformer's non-fatal diagnostics. Implementations
// must not affect control flow.
type Logger interface {
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// StdLogger writes leveled lines through the standard logger.
type StdLogger struct{}

func (StdLogger) Warnf(format string, args ...any) {
	log.Printf("WARNING: "+format, args...)
}

func (StdLogger) Errorf(format string, args ...any) {
	log.Printf("ERROR: "+format, args...)
}
