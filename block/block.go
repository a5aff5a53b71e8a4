// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"crypto/ecdsa"
	"io"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/vechain/ledger/thor"
	"github.com/vechain/ledger/tx"
)

// Block is an immutable block type.
type Block struct {
	header *Header
	txs    tx.Transactions
}

// New create a block instance.
// The trx digest is not verified.
func New(header *Header, txs tx.Transactions) *Block {
	return &Block{header, txs.Copy()}
}

// Header returns the block header.
func (b *Block) Header() *Header {
	return b.header
}

// Transactions returns a copy of transactions.
func (b *Block) Transactions() tx.Transactions {
	return b.txs.Copy()
}

// Sign creates a new block with the header signed by key.
func (b *Block) Sign(key *ecdsa.PrivateKey) (*Block, error) {
	sig, err := crypto.Sign(b.header.Digest().Bytes(), key)
	if err != nil {
		return nil, err
	}
	return &Block{b.header.WithSignature(sig), b.txs}, nil
}

// EncodeRLP implements rlp.Encoder.
func (b *Block) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, []interface{}{
		b.header,
		b.txs,
	})
}

// DecodeRLP implements rlp.Decoder.
func (b *Block) DecodeRLP(s *rlp.Stream) error {
	payload := struct {
		Header Header
		Txs    tx.Transactions
	}{}
	if err := s.Decode(&payload); err != nil {
		return err
	}
	*b = Block{header: &Header{body: payload.Header.body}, txs: payload.Txs}
	return nil
}

// Builder to make it easy to build a block object.
type Builder struct {
	headerBody headerBody
	txs        tx.Transactions
}

// Previous set parent id.
func (b *Builder) Previous(id thor.Hash160) *Builder {
	b.headerBody.Previous = id
	return b
}

// Number set block number.
func (b *Builder) Number(n uint32) *Builder {
	b.headerBody.Number = n
	return b
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(ts uint64) *Builder {
	b.headerBody.Timestamp = ts
	return b
}

// Transaction add a transaction.
func (b *Builder) Transaction(tx *tx.Transaction) *Builder {
	b.txs = append(b.txs, tx)
	return b
}

// Build build a block object, with trx digest computed.
func (b *Builder) Build() *Block {
	header := Header{body: b.headerBody}
	header.body.TrxDigest = b.txs.Digest()
	return &Block{&header, b.txs.Copy()}
}
