// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import "github.com/vechain/ledger/thor"

// Builder to make it easy to build transaction.
type Builder struct {
	body body
}

// NewBuilder creates a builder for origin transactions.
func NewBuilder() *Builder {
	return &Builder{}
}

// Expiration set expiration.
func (b *Builder) Expiration(exp uint64) *Builder {
	b.body.Expiration = exp
	return b
}

// Reserved set the reserved marker.
func (b *Builder) Reserved(r thor.Bytes32) *Builder {
	b.body.Reserved = &r
	return b
}

// ResultType set result type.
func (b *Builder) ResultType(r ResultType) *Builder {
	b.body.ResultType = r
	return b
}

// Operation appends an operation.
func (b *Builder) Operation(op Operation) *Builder {
	b.body.Operations = append(b.body.Operations, op.Copy())
	return b
}

// Build builds a tx object.
func (b *Builder) Build() *Transaction {
	tx := Transaction{body: b.body}
	tx.body.Operations = b.body.Operations.Copy()
	if b.body.Reserved != nil {
		r := *b.body.Reserved
		tx.body.Reserved = &r
	}
	return &tx
}
