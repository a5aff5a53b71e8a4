// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/holiman/uint256"
)

const (
	timeFormat        = "2006-01-02T15:04:05-0700"
	termTimeFormat    = "01-02|15:04:05.000"
	termMsgJust       = 40
	termCtxMaxPadding = 40
)

func levelColor(l slog.Level) int {
	switch {
	case l >= LevelCrit:
		return 35
	case l >= LevelError:
		return 31
	case l >= LevelWarn:
		return 33
	case l >= LevelInfo:
		return 32
	case l >= LevelDebug:
		return 36
	default:
		return 34
	}
}

// format renders the record as:
//
//	LVL [TIME] MESSAGE key=value key=value ...
func (h *TerminalHandler) format(buf []byte, r slog.Record, usecolor bool) []byte {
	lvl := LevelString(r.Level)
	if usecolor {
		buf = fmt.Appendf(buf, "\x1b[%dm%s\x1b[0m", levelColor(r.Level), lvl)
	} else {
		buf = append(buf, lvl...)
	}
	buf = append(buf, " ["...)
	buf = r.Time.AppendFormat(buf, termTimeFormat)
	buf = append(buf, "] "...)
	buf = append(buf, r.Message...)

	// try to justify the log output for short messages
	if (r.NumAttrs()+len(h.attrs)) > 0 && len(r.Message) < termMsgJust {
		buf = append(buf, strings.Repeat(" ", termMsgJust-len(r.Message))...)
	}

	write := func(attr slog.Attr) {
		buf = append(buf, ' ')
		if usecolor {
			buf = fmt.Appendf(buf, "\x1b[%dm%s\x1b[0m=", levelColor(r.Level), attr.Key)
		} else {
			buf = append(buf, attr.Key...)
			buf = append(buf, '=')
		}
		val := formatValue(attr.Value)
		buf = appendEscaped(buf, val)

		padding := h.fieldPadding[attr.Key]
		length := utf8.RuneCountInString(val)
		if padding < length && length <= termCtxMaxPadding {
			padding = length
			h.fieldPadding[attr.Key] = padding
		}
		if padding > length {
			buf = append(buf, strings.Repeat(" ", padding-length)...)
		}
	}
	for _, attr := range h.attrs {
		write(attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		write(attr)
		return true
	})
	buf = append(buf, '\n')
	return buf
}

func formatValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return string(appendInt64(nil, v.Int64()))
	case slog.KindUint64:
		return string(appendUint64(nil, v.Uint64(), false))
	case slog.KindTime:
		return v.Time().Format(timeFormat)
	case slog.KindDuration:
		return v.Duration().String()
	}
	switch x := v.Any().(type) {
	case nil:
		return "<nil>"
	case error:
		return x.Error()
	case *big.Int:
		if x == nil {
			return "<nil>"
		}
		return x.String()
	case *uint256.Int:
		if x == nil {
			return "<nil>"
		}
		return x.Dec()
	case fmt.Stringer:
		return x.String()
	case time.Time:
		return x.Format(timeFormat)
	}
	return fmt.Sprintf("%+v", v.Any())
}

// appendEscaped quotes the value if it contains spaces or special chars.
func appendEscaped(buf []byte, s string) []byte {
	if s == "" || strings.ContainsAny(s, " =\"\t\r\n") {
		return strconv.AppendQuote(buf, s)
	}
	return append(buf, s...)
}

// appendInt64 formats n with thousand separators.
func appendInt64(dst []byte, n int64) []byte {
	if n < 0 {
		return appendUint64(dst, uint64(-n), true)
	}
	return appendUint64(dst, uint64(n), false)
}

// appendUint64 formats n with thousand separators.
func appendUint64(dst []byte, n uint64, neg bool) []byte {
	if n < 100000 {
		if neg {
			dst = append(dst, '-')
		}
		return strconv.AppendUint(dst, n, 10)
	}
	s := strconv.FormatUint(n, 10)
	if neg {
		dst = append(dst, '-')
	}
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	dst = append(dst, s[:lead]...)
	for i := lead; i < len(s); i += 3 {
		dst = append(dst, ',')
		dst = append(dst, s[i:i+3]...)
	}
	return dst
}
