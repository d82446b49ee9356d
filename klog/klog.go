// Package klog is the kernel's structured logging facade.
//
// It wraps github.com/joeycumines/logiface, the same structured logging
// core used throughout the rest of this codebase's author's ecosystem,
// backed by github.com/joeycumines/izerolog (a github.com/rs/zerolog
// sink). Scheduler decisions, priority donation chains, MLFQS
// recomputation, and kernel assertions are logged through a *Logger
// rather than fmt.Printf, the same way production services in this
// ecosystem are expected to log.
package klog

import (
	"os"

	"github.com/joeycumines/izerolog"
	"github.com/joeycumines/logiface"
	"github.com/rs/zerolog"
)

// Logger is the kernel's structured logger handle.
type Logger = logiface.Logger[*izerolog.Event]

// New returns a Logger writing newline-delimited JSON to w at the given
// minimum level. Pass nil for w to default to os.Stderr.
func New(w *os.File, level logiface.Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return izerolog.L.New(
		izerolog.L.WithZerolog(zerolog.New(w).With().Timestamp().Logger()),
		izerolog.L.WithLevel(level),
	)
}

// Nop returns a Logger with logging disabled, for tests and callers that
// don't want kernel log output.
func Nop() *Logger {
	return New(nil, logiface.LevelDisabled)
}
