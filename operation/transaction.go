// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operation

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/errs"
	"github.com/vechain/ledger/tx"
)

// Transaction carries the origin transaction of a result transaction.
// It must be the first operation, so there is at most one. The origin
// signers grant nothing to the result: it may only change the storage and
// spend the balances of the contracts the origin calls.
type Transaction struct {
	Trx *tx.Transaction
}

func (op *Transaction) Type() tx.OpType { return TypeTransaction }

func (op *Transaction) Evaluate(s State) error {
	if !s.Trx().ResultType().IsResult() {
		return errs.New(errs.Unauthorized, "origin transactions are only carried by result transactions")
	}
	if s.OpIndex() != 0 {
		return errs.New(errs.InvalidArgument, "origin transaction must be the first operation, got index %d", s.OpIndex())
	}
	if op.Trx == nil {
		return errs.New(errs.MalformedPayload, "no origin transaction")
	}
	if op.Trx.ResultType().IsResult() {
		return errs.New(errs.InvalidArgument, "origin transaction is itself a result")
	}
	id := op.Trx.ID(s.ChainID())
	committed, err := s.DB().LookupTransactionByID(id)
	if err != nil {
		return err
	}
	if committed == nil {
		return errs.New(errs.UnknownEntity, "origin transaction %v", id)
	}
	if committed.ResultID != nil {
		return errs.New(errs.DuplicateRegistration, "origin transaction %v completed by %v", id, *committed.ResultID)
	}
	s.SetOrigin(op.Trx)
	if s.Trx().ResultType() != tx.CompleteResult {
		return nil
	}
	done := committed.Clone()
	rid := s.TrxID()
	done.ResultID = &rid
	return entry.StoreTransaction(s.DB(), done)
}

type transactionJSON struct {
	Trx hexutil.Bytes `json:"trx"`
}

func (op *Transaction) MarshalJSON() ([]byte, error) {
	var v transactionJSON
	if op.Trx != nil {
		data, err := rlp.EncodeToBytes(op.Trx)
		if err != nil {
			return nil, err
		}
		v.Trx = data
	}
	return json.Marshal(&v)
}

func (op *Transaction) UnmarshalJSON(data []byte) error {
	var v transactionJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	op.Trx = nil
	if len(v.Trx) == 0 {
		return nil
	}
	var trx tx.Transaction
	if err := rlp.DecodeBytes(v.Trx, &trx); err != nil {
		return err
	}
	op.Trx = &trx
	return nil
}
