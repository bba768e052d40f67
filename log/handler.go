// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"reflect"
	"time"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

const timeFormat = "2006-01-02T15:04:05-0700"

// DiscardHandler returns a no-op handler.
func DiscardHandler() slog.Handler {
	return ethlog.DiscardHandler()
}

// TerminalHandler returns a colored, human readable handler.
//
//	[LEVEL] [TIME] MESSAGE key=value key=value ...
func TerminalHandler(wr io.Writer, level *slog.LevelVar, useColor bool) slog.Handler {
	return ethlog.NewTerminalHandlerWithLevel(wr, level.Level(), useColor)
}

// JSONHandler returns a handler which prints records in JSON format.
func JSONHandler(wr io.Writer, level *slog.LevelVar) slog.Handler {
	return slog.NewJSONHandler(wr, &slog.HandlerOptions{
		ReplaceAttr: builtinReplaceJSON,
		Level:       level,
	})
}

// LogfmtHandler returns a handler which prints records in logfmt format.
func LogfmtHandler(wr io.Writer, level *slog.LevelVar) slog.Handler {
	return slog.NewTextHandler(wr, &slog.HandlerOptions{
		ReplaceAttr: builtinReplaceLogfmt,
		Level:       level,
	})
}

// FromVerbosity maps the legacy 0 (crit) .. 5 (trace) verbosity to a level.
func FromVerbosity(verbosity int) slog.Level {
	return ethlog.FromLegacyLevel(verbosity)
}

func builtinReplaceLogfmt(_ []string, attr slog.Attr) slog.Attr {
	return builtinReplace(attr, true)
}

func builtinReplaceJSON(_ []string, attr slog.Attr) slog.Attr {
	return builtinReplace(attr, false)
}

func builtinReplace(attr slog.Attr, logfmt bool) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		if attr.Value.Kind() == slog.KindTime {
			if logfmt {
				return slog.String("t", attr.Value.Time().Format(timeFormat))
			}
			return slog.Attr{Key: "t", Value: attr.Value}
		}
	case slog.LevelKey:
		if l, ok := attr.Value.Any().(slog.Level); ok {
			return slog.Any("lvl", LevelString(l))
		}
	}

	switch v := attr.Value.Any().(type) {
	case time.Time:
		if logfmt {
			attr = slog.String(attr.Key, v.Format(timeFormat))
		}
	case *big.Int:
		if v == nil {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.String())
		}
	case *uint256.Int:
		if v == nil {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.Dec())
		}
	case fmt.Stringer:
		if v == nil || (reflect.ValueOf(v).Kind() == reflect.Pointer && reflect.ValueOf(v).IsNil()) {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.String())
		}
	}
	return attr
}
