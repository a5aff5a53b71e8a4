// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operation

import (
	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/errs"
	"github.com/vechain/ledger/thor"
	"github.com/vechain/ledger/tx"
)

// Transfer is a value transfer requested by a contract execution.
type Transfer struct {
	To     entry.WithdrawCondition `json:"to"`
	Amount uint64                  `json:"amount"`
}

// ExecutionResult is what the contract VM hands back for an origin transaction.
type ExecutionResult struct {
	ContractID     thor.Address
	StorageChanges []StorageChange
	Transfers      []Transfer
	// Complete is false if more results of the same origin will follow.
	Complete bool
}

// BuildResultTransaction builds the transaction that applies the result of
// executing origin. It carries origin as its first operation.
func BuildResultTransaction(origin *tx.Transaction, result *ExecutionResult) (*tx.Transaction, error) {
	if origin == nil || origin.ResultType().IsResult() {
		return nil, errs.New(errs.InvalidArgument, "build result: not an origin transaction")
	}
	typ := tx.IncompleteResult
	if result.Complete {
		typ = tx.CompleteResult
	}
	b := tx.NewBuilder().
		Expiration(origin.Expiration()).
		ResultType(typ)

	ops := []Operation{&Transaction{Trx: origin}}
	if len(result.StorageChanges) > 0 {
		ops = append(ops, &Storage{ContractID: result.ContractID, Changes: result.StorageChanges})
	}
	for _, t := range result.Transfers {
		if t.Amount == 0 {
			continue
		}
		if err := t.To.Validate(); err != nil {
			return nil, err
		}
		from := ContractBalance(result.ContractID, t.To.AssetID)
		ops = append(ops,
			&Withdraw{BalanceID: from.Address(), Amount: t.Amount},
			&Deposit{Amount: t.Amount, Condition: t.To},
		)
	}
	for _, op := range ops {
		packed, err := Pack(op)
		if err != nil {
			return nil, err
		}
		b.Operation(packed)
	}
	return b.Build(), nil
}
