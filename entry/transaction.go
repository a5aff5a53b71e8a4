// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entry

import (
	"slices"

	"github.com/vechain/ledger/thor"
	"github.com/vechain/ledger/tx"
)

// TransactionEntry records a committed transaction.
// OriginID links a result transaction to the transaction it completes.
// ResultID is set on an origin once its complete result is committed.
type TransactionEntry struct {
	ID       thor.Bytes32    `json:"id"`
	Trx      *tx.Transaction `json:"trx"`
	BlockNum uint32          `json:"block_num"`
	TrxNum   uint32          `json:"trx_num"`
	Fees     []AssetAmount   `json:"fees"`
	OriginID *thor.Bytes32   `json:"origin_id" rlp:"nil"`
	ResultID *thor.Bytes32   `json:"result_id" rlp:"nil"`
}

// Clone returns a copy. The transaction itself is immutable and shared.
func (t *TransactionEntry) Clone() *TransactionEntry {
	if t == nil {
		return nil
	}
	cpy := *t
	cpy.Fees = slices.Clone(t.Fees)
	if t.OriginID != nil {
		id := *t.OriginID
		cpy.OriginID = &id
	}
	if t.ResultID != nil {
		id := *t.ResultID
		cpy.ResultID = &id
	}
	return &cpy
}

// StoreTransaction stores the transaction by its id.
func StoreTransaction(db TransactionDB, t *TransactionEntry) error {
	return db.InsertIntoTransactionIDMap(t.ID, t)
}

// RemoveTransaction erases the transaction.
func RemoveTransaction(db TransactionDB, id thor.Bytes32) error {
	return db.EraseFromTransactionIDMap(id)
}
