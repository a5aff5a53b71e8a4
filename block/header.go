// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/vechain/ledger/thor"
)

// Header contains almost all information about a block, except block body.
// It's immutable.
type Header struct {
	body headerBody

	cache struct {
		digest atomic.Pointer[thor.Bytes32]
		id     atomic.Pointer[thor.Hash160]
	}
}

// headerBody body of header
type headerBody struct {
	Previous  thor.Hash160
	Number    uint32
	Timestamp uint64
	TrxDigest thor.Bytes32

	Signature []byte
}

// Previous returns id of parent block.
func (h *Header) Previous() thor.Hash160 {
	return h.body.Previous
}

// Number returns sequential number of this block.
func (h *Header) Number() uint32 {
	return h.body.Number
}

// Timestamp returns timestamp of this block, which is also its production slot.
func (h *Header) Timestamp() uint64 {
	return h.body.Timestamp
}

// TrxDigest returns digest of txs contained in this block.
func (h *Header) TrxDigest() thor.Bytes32 {
	return h.body.TrxDigest
}

// Digest computes hash of all header fields excluding signature.
// It's what the producing delegate signs.
func (h *Header) Digest() thor.Bytes32 {
	if cached := h.cache.digest.Load(); cached != nil {
		return *cached
	}
	digest := thor.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, []interface{}{
			h.body.Previous,
			h.body.Number,
			h.body.Timestamp,
			h.body.TrxDigest,
		})
	})
	h.cache.digest.Store(&digest)
	return digest
}

// ID computes id of block, the short hash of the signed header.
func (h *Header) ID() thor.Hash160 {
	if cached := h.cache.id.Load(); cached != nil {
		return *cached
	}
	data, _ := rlp.EncodeToBytes(&h.body)
	id := thor.Hash160Of(data)
	h.cache.id.Store(&id)
	return id
}

// Signature returns signature.
func (h *Header) Signature() []byte {
	return append([]byte(nil), h.body.Signature...)
}

// WithSignature create a new Header object with signature set.
func (h *Header) WithSignature(sig []byte) *Header {
	cpy := Header{body: h.body}
	cpy.body.Signature = append([]byte(nil), sig...)
	return &cpy
}

// Signer recovers the signing key of the producing delegate.
func (h *Header) Signer() (thor.PublicKey, error) {
	pub, err := crypto.SigToPub(h.Digest().Bytes(), h.body.Signature)
	if err != nil {
		return thor.PublicKey{}, err
	}
	return thor.NewPublicKey(pub), nil
}

// EncodeRLP implements rlp.Encoder
func (h *Header) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &h.body)
}

// DecodeRLP implements rlp.Decoder.
func (h *Header) DecodeRLP(s *rlp.Stream) error {
	var body headerBody
	if err := s.Decode(&body); err != nil {
		return err
	}
	*h = Header{body: body}
	return nil
}

func (h *Header) String() string {
	return fmt.Sprintf(`Header(%v):
	Number:			%v
	Previous:		%v
	Timestamp:		%v
	TrxDigest:		%v
	Signature:		0x%x`, h.ID(), h.body.Number, h.body.Previous, h.body.Timestamp,
		h.body.TrxDigest, h.body.Signature)
}
