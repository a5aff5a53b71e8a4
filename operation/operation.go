// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package operation defines the ledger operations and their dispatch.
package operation

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/errs"
	"github.com/vechain/ledger/thor"
	"github.com/vechain/ledger/tx"
)

// operation type tags.
const (
	TypeWithdraw tx.OpType = iota + 1
	TypeDeposit
	TypeRegisterAccount
	TypeUpdateAccount
	TypeWithdrawPay
	TypeCreateAsset
	TypeUpdateAsset
	TypeIssueAsset
	TypeDefineSlate
	TypeUpdateSigningKey
	TypeUpdateBalanceVote
	TypeReleaseEscrow
	TypeBurn
	TypeUpdateAssetExt
	TypeRegisterContract
	TypeCallContract
	TypeStorage
	TypeTransferContract
	TypeDestroyContract
	TypeTransaction
)

// Operation is a decoded operation.
type Operation interface {
	Type() tx.OpType
	Evaluate(s State) error
}

// State is the transaction evaluation state operations are evaluated against.
type State interface {
	// DB returns the pending ledger the transaction writes to.
	DB() entry.ChainInterface
	Config() *thor.Config
	ChainID() thor.Bytes32
	Now() uint64

	// Trx returns the transaction being evaluated.
	Trx() *tx.Transaction
	TrxID() thor.Bytes32
	// OpIndex returns the index of the operation being evaluated.
	OpIndex() int

	CheckSignature(addr thor.Address) bool
	AccountHasSigned(a *entry.AccountEntry) bool
	AccountOwnerHasSigned(a *entry.AccountEntry) bool
	// SetOrigin records the origin transaction a result transaction carries.
	SetOrigin(origin *tx.Transaction)
	Origin() *tx.Transaction

	// AddWithdrawn records shares entering the transaction.
	AddWithdrawn(asset entry.AssetID, amount uint64) error
	// AddDeposited records shares leaving the transaction.
	AddDeposited(asset entry.AssetID, amount uint64) error
	// AddRequiredFees records base asset fees the transaction must pay.
	AddRequiredFees(amount uint64) error
	// AddVoteDelta records a change of the votes of a delegate.
	AddVoteDelta(id entry.AccountID, delta *big.Int)
}

func safeAdd(a, b uint64) (uint64, error) {
	v, overflow := math.SafeAdd(a, b)
	if overflow {
		return 0, errs.New(errs.Overflow, "%d + %d overflows", a, b)
	}
	return v, nil
}

func safeSub(a, b uint64) (uint64, error) {
	v, overflow := math.SafeSub(a, b)
	if overflow {
		return 0, errs.New(errs.Overflow, "%d - %d underflows", a, b)
	}
	return v, nil
}

// scale returns v * num / denom without intermediate overflow.
func scale(v uint64, num, denom uint64) uint64 {
	r := new(big.Int).SetUint64(v)
	r.Mul(r, new(big.Int).SetUint64(num))
	r.Div(r, new(big.Int).SetUint64(denom))
	return r.Uint64()
}

func lookupAccount(s State, id entry.AccountID) (*entry.AccountEntry, error) {
	a, err := s.DB().LookupAccountByID(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, errs.New(errs.UnknownEntity, "account %d", id)
	}
	return a, nil
}

func lookupAsset(s State, id entry.AssetID) (*entry.AssetEntry, error) {
	a, err := s.DB().LookupAssetByID(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, errs.New(errs.UnknownEntity, "asset %d", id)
	}
	return a, nil
}

func lookupBalance(s State, id thor.Address) (*entry.BalanceEntry, error) {
	b, err := s.DB().LookupBalanceByID(id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, errs.New(errs.UnknownEntity, "balance %v", id)
	}
	return b, nil
}

func lookupContract(s State, id thor.Address) (*entry.ContractEntry, error) {
	c, err := s.DB().LookupContractByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errs.New(errs.UnknownEntity, "contract %v", id)
	}
	return c, nil
}

// requireUnusedKey fails if the key is bound to an account other than owner.
func requireUnusedKey(s State, key thor.PublicKey, owner entry.AccountID) error {
	id, ok, err := s.DB().LookupAccountIDByAddress(key.Address())
	if err != nil {
		return err
	}
	if ok && id != owner {
		return errs.New(errs.DuplicateRegistration, "key %v is used by account %d", key, id)
	}
	return nil
}

// adjustSlateVotes adds delta to the votes of every delegate of the slate.
func adjustSlateVotes(s State, slate entry.SlateID, delta *big.Int) error {
	if slate == 0 || delta.Sign() == 0 {
		return nil
	}
	e, err := s.DB().LookupSlateByID(slate)
	if err != nil {
		return err
	}
	if e == nil {
		return errs.New(errs.UnknownEntity, "slate %d", slate)
	}
	for _, id := range e.Delegates {
		s.AddVoteDelta(id, delta)
	}
	return nil
}

func votes(amount uint64, negative bool) *big.Int {
	v := new(big.Int).SetUint64(amount)
	if negative {
		v.Neg(v)
	}
	return v
}

// credit adds amount to the balance of cond, creating the balance if absent.
func credit(s State, cond entry.WithdrawCondition, amount uint64) (*entry.BalanceEntry, error) {
	db := s.DB()
	b, err := db.LookupBalanceByID(cond.Address())
	if err != nil {
		return nil, err
	}
	if b == nil {
		b = entry.NewBalanceEntry(cond, s.Now())
	}
	if b.Balance, err = safeAdd(b.Balance, amount); err != nil {
		return nil, err
	}
	b.LastUpdate = s.Now()
	if err := entry.StoreBalance(db, b); err != nil {
		return nil, err
	}
	if cond.AssetID == entry.BaseAssetID {
		if err := adjustSlateVotes(s, cond.SlateID, votes(amount, false)); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// debit takes amount from the balance.
func debit(s State, b *entry.BalanceEntry, amount uint64) error {
	if b.Balance < amount {
		return errs.New(errs.InsufficientFunds, "balance %v has %d, want %d", b.ID(), b.Balance, amount)
	}
	b.Balance -= amount
	b.LastUpdate = s.Now()
	if err := entry.StoreBalance(s.DB(), b); err != nil {
		return err
	}
	if b.AssetID() == entry.BaseAssetID {
		return adjustSlateVotes(s, b.SlateID(), votes(amount, true))
	}
	return nil
}
