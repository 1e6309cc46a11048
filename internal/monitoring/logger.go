package monitoring

import (
	"log"
	"time"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// Debugf receives per-stage detail that is only interesting with -verbose.
// It is a no-op until SetVerbose(true) is called.
var Debugf func(format string, v ...interface{}) = func(string, ...interface{}) {}

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetVerbose routes Debugf through Logf when on.
func SetVerbose(on bool) {
	if !on {
		Debugf = func(string, ...interface{}) {}
		return
	}
	Debugf = func(format string, v ...interface{}) {
		Logf(format, v...)
	}
}

// Timed logs label when the returned func is called, along with the time
// elapsed since Timed. Use as: defer monitoring.Timed("resample")()
func Timed(label string) func() {
	start := time.Now()
	return func() {
		Logf("%s took %v", label, time.Since(start).Round(time.Microsecond))
	}
}
