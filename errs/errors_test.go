// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package errs

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	err := New(InsufficientFunds, "balance %d < %d", 1, 2)
	assert.Equal(t, "insufficient funds: balance 1 < 2", err.Error())
	assert.True(t, IsInsufficientFunds(err))
	assert.False(t, IsOverflow(err))
	assert.Equal(t, InsufficientFunds, KindOf(err))

	// kind survives pkg/errors wrapping
	wrapped := errors.Wrap(err, "evaluate")
	assert.True(t, IsInsufficientFunds(wrapped))

	cause := Wrap(MalformedPayload, io.ErrUnexpectedEOF, "decode withdraw")
	assert.Equal(t, io.ErrUnexpectedEOF, errors.Cause(cause.Unwrap()))
	assert.Equal(t, "malformed payload: decode withdraw: unexpected EOF", cause.Error())

	assert.True(t, IsInternal(io.EOF))
	assert.False(t, IsInternal(nil))
	assert.Equal(t, "kind(200)", Kind(200).String())
}
