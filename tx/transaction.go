// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"github.com/vechain/ledger/thor"
)

// ResultType classifies a transaction with respect to contract execution.
type ResultType uint8

const (
	// Origin is a transaction submitted by users.
	Origin ResultType = iota
	// CompleteResult carries the full effect of an origin transaction's contract calls.
	CompleteResult
	// IncompleteResult carries a partial effect, more results will follow.
	IncompleteResult
)

func (r ResultType) String() string {
	switch r {
	case Origin:
		return "origin"
	case CompleteResult:
		return "complete-result"
	case IncompleteResult:
		return "incomplete-result"
	}
	return fmt.Sprintf("result(%d)", uint8(r))
}

// IsResult returns whether it's one of the result types.
func (r ResultType) IsResult() bool {
	return r == CompleteResult || r == IncompleteResult
}

// Transaction is an immutable tx type.
// The signatures are carried along, but are not part of the id.
type Transaction struct {
	body body

	cache struct {
		digest atomic.Pointer[cachedDigest]
	}
}

type cachedDigest struct {
	chainID thor.Bytes32
	digest  thor.Bytes32
}

// body describes details of a tx.
type body struct {
	Expiration uint64
	Reserved   *thor.Bytes32 `rlp:"nil"`
	ResultType ResultType
	Operations Operations
	Signatures [][]byte
}

// Expiration returns the unix time after which the tx can no longer be included.
func (t *Transaction) Expiration() uint64 {
	return t.body.Expiration
}

// Reserved returns the reserved marker, nil if absent.
func (t *Transaction) Reserved() *thor.Bytes32 {
	if t.body.Reserved == nil {
		return nil
	}
	cpy := *t.body.Reserved
	return &cpy
}

// ResultType returns the result type.
func (t *Transaction) ResultType() ResultType {
	return t.body.ResultType
}

// Operations returns a copy of operations.
func (t *Transaction) Operations() Operations {
	return t.body.Operations.Copy()
}

// Signatures returns a copy of signatures.
func (t *Transaction) Signatures() [][]byte {
	sigs := make([][]byte, 0, len(t.body.Signatures))
	for _, sig := range t.body.Signatures {
		sigs = append(sigs, append([]byte(nil), sig...))
	}
	return sigs
}

// Digest computes the digest of all fields except signatures, salted with the chain id.
func (t *Transaction) Digest(chainID thor.Bytes32) thor.Bytes32 {
	if cached := t.cache.digest.Load(); cached != nil && cached.chainID == chainID {
		return cached.digest
	}

	inner := thor.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, []interface{}{
			t.body.Expiration,
			t.body.Reserved,
			t.body.ResultType,
			t.body.Operations,
		})
	})
	digest := thor.Blake2b(inner[:], chainID[:])
	t.cache.digest.Store(&cachedDigest{chainID, digest})
	return digest
}

// ID returns the id of tx, which is the digest.
func (t *Transaction) ID(chainID thor.Bytes32) thor.Bytes32 {
	return t.Digest(chainID)
}

// WithSignature creates a new tx with the signature appended.
func (t *Transaction) WithSignature(sig []byte) *Transaction {
	newTx := Transaction{body: t.body}
	newTx.body.Signatures = append(t.Signatures(), append([]byte(nil), sig...))
	return &newTx
}

// Signers recovers the public keys of all signatures.
func (t *Transaction) Signers(chainID thor.Bytes32) ([]thor.PublicKey, error) {
	digest := t.Digest(chainID)
	keys := make([]thor.PublicKey, 0, len(t.body.Signatures))
	for i, sig := range t.body.Signatures {
		pub, err := crypto.SigToPub(digest[:], sig)
		if err != nil {
			return nil, errors.Wrapf(err, "recover signature #%d", i)
		}
		keys = append(keys, thor.NewPublicKey(pub))
	}
	return keys, nil
}

// Size returns the encoded size of tx.
func (t *Transaction) Size() uint64 {
	data, _ := rlp.EncodeToBytes(t)
	return uint64(len(data))
}

// EncodeRLP implements rlp.Encoder
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	*t = Transaction{body: body}
	return nil
}

func (t *Transaction) String() string {
	return fmt.Sprintf(`Tx:
	Expiration:     %v
	ResultType:     %v
	Operations:     %v
	Signatures:     %d`, t.body.Expiration, t.body.ResultType, t.body.Operations, len(t.body.Signatures))
}
