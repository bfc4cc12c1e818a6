// Package diag provides logging and visible fault indication for the device
// core.
package diag

import (
	"fmt"
	"strings"

	"github.com/golang/glog"
)

// Logger is an optional logging interface accepted by every component.
// This allows integration with any logging framework.
//
// Example with standard log package:
//
//	type StdLogger struct{}
//	func (l *StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (l *StdLogger) Info(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}

// OrNop returns l, or a discarding Logger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return nopLogger{}
	}
	return l
}

type glogLogger struct {
	debug glog.Level
}

// Glog returns a Logger backed by github.com/golang/glog. Debug messages are
// emitted at verbosity 1 and need -v=1 to be shown.
func Glog() Logger {
	return glogLogger{debug: 1}
}

func (g glogLogger) Debug(msg string, keysAndValues ...interface{}) {
	if glog.V(g.debug) {
		glog.InfoDepth(1, msg+formatKV(keysAndValues))
	}
}

func (g glogLogger) Info(msg string, keysAndValues ...interface{}) {
	glog.InfoDepth(1, msg+formatKV(keysAndValues))
}

func (g glogLogger) Error(msg string, keysAndValues ...interface{}) {
	glog.ErrorDepth(1, msg+formatKV(keysAndValues))
}

// formatKV renders key-value pairs as " k=v k=v".
func formatKV(kv []interface{}) string {
	if len(kv) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(kv); i += 2 {
		if i+1 < len(kv) {
			fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
		} else {
			fmt.Fprintf(&b, " %v=(MISSING)", kv[i])
		}
	}
	return b.String()
}
