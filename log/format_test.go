// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"log/slog"
	"math/big"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

var sink []byte

func BenchmarkPrettyUint64Logfmt(b *testing.B) {
	buf := make([]byte, 100)
	b.ReportAllocs()
	for b.Loop() {
		sink = appendUint64(buf, rand.Uint64(), false) //#nosec G404
	}
}

func TestAppendInt(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{99999, "99999"},
		{100000, "100,000"},
		{-1234567, "-1,234,567"},
		{123456789012, "123,456,789,012"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(appendInt64(nil, tt.n)))
	}
}

func TestTerminalHandler(t *testing.T) {
	var out bytes.Buffer
	l := NewLogger(NewTerminalHandler(&out, false))

	l.Info("applied block", "num", 12, "supply", big.NewInt(1000), "fee", uint256.NewInt(7))
	line := out.String()
	assert.True(t, strings.HasPrefix(line, "INFO ["))
	assert.Contains(t, line, "applied block")
	assert.Contains(t, line, "num=12")
	assert.Contains(t, line, "supply=1000")
	assert.Contains(t, line, "fee=7")

	out.Reset()
	l.With("pkg", "chain").Debug("with ctx", "msg", "two words")
	assert.Contains(t, out.String(), "pkg=chain")
	assert.Contains(t, out.String(), `msg="two words"`)
}

func TestHandlerLevel(t *testing.T) {
	var out bytes.Buffer
	var level slog.LevelVar
	level.Set(LevelWarn)
	l := NewLogger(NewTerminalHandlerWithLevel(&out, &level, false))

	l.Info("hidden")
	assert.Empty(t, out.String())
	l.Warn("shown")
	assert.Contains(t, out.String(), "WARN")
}

func TestWithContextFollowsRoot(t *testing.T) {
	saved := Root()
	defer SetDefault(saved)

	var out bytes.Buffer
	pkgLogger := WithContext("pkg", "test")
	SetDefault(NewLogger(JSONHandler(&out)))

	pkgLogger.Info("hello", "k", "v")
	assert.Contains(t, out.String(), `"pkg":"test"`)
	assert.Contains(t, out.String(), `"lvl":"INFO"`)

	out.Reset()
	SetDefault(NewLogger(DiscardHandler()))
	pkgLogger.Error("dropped")
	assert.Empty(t, out.String())
}
