package logging

import (
	"context"
	"log/slog"
	"strings"
)

var (
	_ Logger = (*SlogLogger)(nil)
	_ Logger = (*ZerologLogger)(nil)
)

// Redacted replaces the value of every credential-bearing attribute.
const Redacted = "[REDACTED]"

var secretKeys = map[string]struct{}{
	"access":        {},
	"refresh":       {},
	"access_token":  {},
	"refresh_token": {},
	"authorization": {},
	"password":      {},
}

func secret(key string) bool {
	_, ok := secretKeys[strings.ToLower(key)]
	return ok
}

// redact returns args with credential values masked. It walks args the way
// slog pairs them: a string key takes the next value, anything else stands
// alone. args is copied only when something has to change.
func redact(args []any) []any {
	out := args
	copied := false
	mask := func(i int, v any) {
		if !copied {
			out = append([]any(nil), args...)
			copied = true
		}
		out[i] = v
	}

	for i := 0; i < len(args); i++ {
		switch k := args[i].(type) {
		case slog.Attr:
			if secret(k.Key) {
				mask(i, slog.String(k.Key, Redacted))
			}
		case string:
			if i+1 < len(args) && secret(k) {
				mask(i+1, Redacted)
			}
			i++
		}
	}
	return out
}

// SlogLogger adapts *slog.Logger to Logger and masks token values.
type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

func (s *SlogLogger) log(ctx context.Context, level slog.Level, msg string, args []any) {
	if !s.l.Enabled(ctx, level) {
		return
	}
	s.l.Log(ctx, level, msg, redact(args)...)
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelDebug, msg, args)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelInfo, msg, args)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelWarn, msg, args)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.log(ctx, slog.LevelError, msg, args)
}

func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(redact(args)...)}
}
