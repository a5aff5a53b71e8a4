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

// NotDelegate is the pay rate of an account that is not a delegate.
const NotDelegate = 255

// RegisterAccount registers a named account.
type RegisterAccount struct {
	Name            string         `json:"name"`
	PublicData      string         `json:"public_data"`
	OwnerKey        thor.PublicKey `json:"owner_key"`
	ActiveKey       thor.PublicKey `json:"active_key"`
	DelegatePayRate uint8          `json:"delegate_pay_rate"`
}

func (op *RegisterAccount) Type() tx.OpType { return TypeRegisterAccount }

func (op *RegisterAccount) Evaluate(s State) error {
	db := s.DB()
	if !entry.IsValidAccountName(op.Name) {
		return errs.New(errs.InvalidArgument, "register account: invalid name %q", op.Name)
	}
	if !op.OwnerKey.IsValid() || !op.ActiveKey.IsValid() {
		return errs.New(errs.InvalidArgument, "register account: invalid key")
	}
	if _, ok, err := db.LookupAccountIDByName(op.Name); err != nil {
		return err
	} else if ok {
		return errs.New(errs.DuplicateRegistration, "account name %q", op.Name)
	}
	for _, key := range []thor.PublicKey{op.OwnerKey, op.ActiveKey} {
		if err := requireUnusedKey(s, key, 0); err != nil {
			return err
		}
	}

	last, err := entry.GetUint64Property(db, entry.PropertyLastAccountID)
	if err != nil {
		return err
	}
	now := s.Now()
	a := &entry.AccountEntry{
		ID:               entry.AccountID(last + 1),
		Name:             op.Name,
		PublicData:       op.PublicData,
		OwnerKey:         op.OwnerKey,
		ActiveKeyHistory: entry.KeyHistory{{Time: now, Key: op.ActiveKey}},
		RegistrationDate: now,
		LastUpdate:       now,
	}
	if err := s.AddRequiredFees(s.Config().AccountRegistrationFee); err != nil {
		return err
	}
	if op.DelegatePayRate != NotDelegate {
		if err := becomeDelegate(s, a, op.DelegatePayRate); err != nil {
			return err
		}
	}
	if err := a.SanityCheck(); err != nil {
		return err
	}
	if err := entry.SetUint64Property(db, entry.PropertyLastAccountID, uint64(a.ID)); err != nil {
		return err
	}
	return entry.StoreAccount(db, a)
}

// becomeDelegate turns a into a delegate signing with its active key,
// charging the registration fee scaled by the pay rate.
func becomeDelegate(s State, a *entry.AccountEntry, payRate uint8) error {
	if payRate > entry.MaxPayRate {
		return errs.New(errs.InvalidArgument, "pay rate %d > %d", payRate, entry.MaxPayRate)
	}
	a.DelegateInfo = &entry.DelegateStats{
		PayRate:           payRate,
		SigningKeyHistory: entry.KeyHistory{{Time: s.Now(), Key: a.ActiveKey()}},
	}
	return s.AddRequiredFees(scale(s.Config().DelegateRegistrationFee, uint64(payRate), entry.MaxPayRate))
}

// UpdateAccount updates the public data, the active key or the delegate status of an account.
// Setting the active key to the null key retracts the account.
type UpdateAccount struct {
	AccountID  entry.AccountID `json:"account_id"`
	PublicData *string         `json:"public_data" rlp:"nil"`
	ActiveKey  *thor.PublicKey `json:"active_key" rlp:"nil"`
	// DelegatePayRate is NotDelegate to leave it unchanged.
	DelegatePayRate uint8 `json:"delegate_pay_rate"`
}

func (op *UpdateAccount) Type() tx.OpType { return TypeUpdateAccount }

func (op *UpdateAccount) Evaluate(s State) error {
	a, err := lookupAccount(s, op.AccountID)
	if err != nil {
		return err
	}
	if a.IsRetracted() {
		return errs.New(errs.Unauthorized, "account %s is retracted", a.Name)
	}
	now := s.Now()

	if op.ActiveKey != nil && *op.ActiveKey != a.ActiveKey() {
		if !s.AccountOwnerHasSigned(a) {
			return errs.New(errs.Unauthorized, "account %s: changing the active key needs the owner key", a.Name)
		}
		if !op.ActiveKey.IsNull() {
			if !op.ActiveKey.IsValid() {
				return errs.New(errs.InvalidArgument, "account %s: invalid active key", a.Name)
			}
			if err := requireUnusedKey(s, *op.ActiveKey, a.ID); err != nil {
				return err
			}
		}
		a.ActiveKeyHistory = a.ActiveKeyHistory.Set(now, *op.ActiveKey)
	} else if !s.AccountHasSigned(a) {
		return errs.New(errs.Unauthorized, "account %s not signed", a.Name)
	}

	if op.PublicData != nil && *op.PublicData != "" {
		a.PublicData = *op.PublicData
	}

	if op.DelegatePayRate != NotDelegate {
		if a.IsDelegate() {
			if op.DelegatePayRate > a.DelegateInfo.PayRate {
				return errs.New(errs.InvalidArgument, "account %s: pay rate can only decrease", a.Name)
			}
			a.DelegateInfo.PayRate = op.DelegatePayRate
		} else if a.IsRetracted() {
			return errs.New(errs.InvalidArgument, "account %s: retracted accounts cannot be delegates", a.Name)
		} else if err := becomeDelegate(s, a, op.DelegatePayRate); err != nil {
			return err
		}
	}

	a.LastUpdate = now
	if err := a.SanityCheck(); err != nil {
		return err
	}
	return entry.StoreAccount(s.DB(), a)
}

// WithdrawPay moves delegate pay into the transaction.
type WithdrawPay struct {
	AccountID entry.AccountID `json:"account_id"`
	Amount    uint64          `json:"amount"`
}

func (op *WithdrawPay) Type() tx.OpType { return TypeWithdrawPay }

func (op *WithdrawPay) Evaluate(s State) error {
	if op.Amount == 0 {
		return errs.New(errs.InvalidArgument, "withdraw pay: zero amount")
	}
	a, err := lookupAccount(s, op.AccountID)
	if err != nil {
		return err
	}
	if !a.IsDelegate() {
		return errs.New(errs.InvalidArgument, "account %s is not a delegate", a.Name)
	}
	if !s.AccountHasSigned(a) {
		return errs.New(errs.Unauthorized, "account %s not signed", a.Name)
	}
	if a.DelegateInfo.PayBalance < op.Amount {
		return errs.New(errs.InsufficientFunds, "account %s: pay balance %d < %d", a.Name, a.DelegateInfo.PayBalance, op.Amount)
	}
	a.DelegateInfo.PayBalance -= op.Amount
	if err := entry.StoreAccount(s.DB(), a); err != nil {
		return err
	}
	s.AddVoteDelta(a.ID, votes(op.Amount, true))
	return s.AddWithdrawn(entry.BaseAssetID, op.Amount)
}

// UpdateSigningKey rotates the block signing key of a delegate.
type UpdateSigningKey struct {
	AccountID  entry.AccountID `json:"account_id"`
	SigningKey thor.PublicKey  `json:"signing_key"`
}

func (op *UpdateSigningKey) Type() tx.OpType { return TypeUpdateSigningKey }

func (op *UpdateSigningKey) Evaluate(s State) error {
	a, err := lookupAccount(s, op.AccountID)
	if err != nil {
		return err
	}
	if !a.IsDelegate() {
		return errs.New(errs.InvalidArgument, "account %s is not a delegate", a.Name)
	}
	if !s.AccountHasSigned(a) {
		return errs.New(errs.Unauthorized, "account %s not signed", a.Name)
	}
	if !op.SigningKey.IsValid() {
		return errs.New(errs.InvalidArgument, "account %s: invalid signing key", a.Name)
	}
	if err := requireUnusedKey(s, op.SigningKey, a.ID); err != nil {
		return err
	}
	a.DelegateInfo.SigningKeyHistory = a.DelegateInfo.SigningKeyHistory.Set(s.Now(), op.SigningKey)
	a.LastUpdate = s.Now()
	return entry.StoreAccount(s.DB(), a)
}
