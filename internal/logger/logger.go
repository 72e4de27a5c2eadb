// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger wraps zerolog for oni-auth.
//
// Every component receives a *Logger at construction. Request handling code
// does not use that logger directly: the HTTP layer attaches a child logger
// tagged with the trace id to the request context, and services read it
// back with FromContext so their entries correlate with the request.
package logger

import (
	"context"
	"io"
	"net/http"
	"os"
	"runtime"

	"github.com/rs/zerolog"
)

// LevelEnv names the environment variable that overrides the default
// debug level, e.g. LOG_LEVEL=info.
const LevelEnv = "LOG_LEVEL"

// Logger embeds zerolog.Logger, so the whole zerolog API is available.
type Logger struct {
	zerolog.Logger
}

// NewLogger returns a JSON logger writing to stdout. Entries carry the
// role (e.g. "oni-auth-server"), a timestamp and the calling function.
func NewLogger(role string) *Logger {
	return newLogger(os.Stdout, role, levelFromEnv())
}

func newLogger(w io.Writer, role string, level zerolog.Level) *Logger {
	zerolog.SetGlobalLevel(level)
	zerolog.CallerFieldName = "func"
	zerolog.CallerMarshalFunc = callerFuncName

	return &Logger{zerolog.New(w).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()}
}

// callerFuncName reports the fully qualified function instead of file:line.
func callerFuncName(pc uintptr, _ string, _ int) string {
	return runtime.FuncForPC(pc).Name()
}

func levelFromEnv() zerolog.Level {
	level, err := zerolog.ParseLevel(os.Getenv(LevelEnv))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.DebugLevel
	}
	return level
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a copy that can be given more fields without
// touching the receiver.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// FromRequest is FromContext for the request context.
func FromRequest(r *http.Request) *Logger {
	return FromContext(r.Context())
}

// FromContext returns the logger attached to ctx with WithContext. Without
// one it returns a disabled logger, never nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*zerolog.Ctx(ctx)}
}

// WithAccount returns a child logger that tags every entry with the account
// the current request acts on. Only the email is logged, never credentials.
func (l *Logger) WithAccount(email string) *Logger {
	return &Logger{l.With().Str("account", email).Logger()}
}
