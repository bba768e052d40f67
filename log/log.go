// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is a thin layer over go-ethereum's slog based logger.
package log

import (
	"context"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = ethlog.LevelDebug
	LevelInfo  = ethlog.LevelInfo
	LevelWarn  = ethlog.LevelWarn
	LevelError = ethlog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// Logger writes key/value pairs at a level.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	With(ctx ...any) Logger
	Enabled(ctx context.Context, level slog.Level) bool
}

type logger struct {
	inner ethlog.Logger
}

func (l *logger) Trace(msg string, ctx ...any) { l.inner.Trace(msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...any) { l.inner.Debug(msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.inner.Info(msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.inner.Warn(msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.inner.Error(msg, ctx...) }

func (l *logger) With(ctx ...any) Logger {
	return &logger{l.inner.With(ctx...)}
}

func (l *logger) Enabled(ctx context.Context, level slog.Level) bool {
	return l.inner.Enabled(ctx, level)
}

// lazyLogger resolves the root logger on every call, so package level loggers created
// before SetDefault still write to the configured handler.
type lazyLogger struct {
	ctx []any
}

func (l *lazyLogger) resolve() ethlog.Logger {
	return ethlog.Root().With(l.ctx...)
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { l.resolve().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.resolve().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.resolve().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.resolve().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.resolve().Error(msg, ctx...) }

func (l *lazyLogger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return &lazyLogger{append(merged, ctx...)}
}

func (l *lazyLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return ethlog.Root().Enabled(ctx, level)
}

// WithContext returns a logger carrying the given key/value pairs, e.g.
//
//	var logger = log.WithContext("pkg", "processor")
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

// NewLogger creates a logger writing to h.
func NewLogger(h slog.Handler) Logger {
	return &logger{ethlog.NewLogger(h)}
}

// Root returns the root logger.
func Root() Logger {
	return &logger{ethlog.Root()}
}

// SetDefault replaces the root logger.
func SetDefault(h slog.Handler) {
	ethlog.SetDefault(ethlog.NewLogger(h))
}

// LevelString returns the lowercase name of a level.
func LevelString(l slog.Level) string {
	return ethlog.LevelString(l)
}

func Trace(msg string, ctx ...any) { ethlog.Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { ethlog.Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { ethlog.Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { ethlog.Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { ethlog.Root().Error(msg, ctx...) }
