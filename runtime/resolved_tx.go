// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/vechain/ledger/errs"
	"github.com/vechain/ledger/thor"
	"github.com/vechain/ledger/tx"
)

// ResolvedTransaction is a transaction with its chain dependent fields resolved.
type ResolvedTransaction struct {
	tx      *tx.Transaction
	ID      thor.Bytes32
	Signers []thor.PublicKey
}

// ResolveTransaction resolves the transaction and performs basic validation.
func ResolveTransaction(trx *tx.Transaction, chainID thor.Bytes32) (*ResolvedTransaction, error) {
	if len(trx.Operations()) == 0 {
		return nil, errs.New(errs.InvalidArgument, "transaction without operations")
	}
	signers, err := trx.Signers(chainID)
	if err != nil {
		return nil, errs.Wrap(errs.Unauthorized, err, "recover signers")
	}
	if len(signers) == 0 && !trx.ResultType().IsResult() {
		return nil, errs.New(errs.Unauthorized, "transaction not signed")
	}
	return &ResolvedTransaction{
		tx:      trx,
		ID:      trx.ID(chainID),
		Signers: signers,
	}, nil
}

// CheckExpiration checks that the transaction expires in (now, now+maxExpiration].
func (r *ResolvedTransaction) CheckExpiration(now, maxExpiration uint64) error {
	exp := r.tx.Expiration()
	if exp <= now {
		return errs.New(errs.InvalidArgument, "transaction %v expired at %d", r.ID, exp)
	}
	if exp-now > maxExpiration {
		return errs.New(errs.InvalidArgument, "transaction %v expires too far in the future at %d", r.ID, exp)
	}
	return nil
}
