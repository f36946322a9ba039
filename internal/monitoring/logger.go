// Package monitoring holds the diagnostic logging hook. The core itself
// only logs once, at focal-plane construction; batch operations are silent
// and diagnostics are the caller's responsibility.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf
// and may be replaced with SetLogger so the external launcher can redirect
// or mute construction-time diagnostics.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op
// logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
