// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operation

import (
	"slices"

	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/errs"
	"github.com/vechain/ledger/thor"
	"github.com/vechain/ledger/tx"
)

// Withdraw spends shares of a balance into the transaction.
type Withdraw struct {
	BalanceID      thor.Address `json:"balance_id"`
	Amount         uint64       `json:"amount"`
	ClaimInputData []byte       `json:"claim_input_data"`
}

func (op *Withdraw) Type() tx.OpType { return TypeWithdraw }

func (op *Withdraw) Evaluate(s State) error {
	if op.Amount == 0 {
		return errs.New(errs.InvalidArgument, "withdraw: zero amount")
	}
	b, err := lookupBalance(s, op.BalanceID)
	if err != nil {
		return err
	}
	if err := authorizeWithdraw(s, b); err != nil {
		return err
	}
	if err := debit(s, b, op.Amount); err != nil {
		return err
	}
	return s.AddWithdrawn(b.AssetID(), op.Amount)
}

// authorizeWithdraw checks that the signers of the transaction may spend the balance.
func authorizeWithdraw(s State, b *entry.BalanceEntry) error {
	asset, err := lookupAsset(s, b.AssetID())
	if err != nil {
		return err
	}
	if asset.Flags.Has(entry.FlagHalted) {
		return errs.New(errs.Unauthorized, "asset %s is halted", asset.Symbol)
	}
	if s.Trx().ResultType().IsResult() {
		return authorizeContractWithdraw(s, b)
	}
	if b.RestrictedOwner != nil && !s.CheckSignature(*b.RestrictedOwner) {
		return errs.New(errs.Unauthorized, "balance %v: restricted owner not signed", b.ID())
	}
	if asset.Flags.Has(entry.FlagRetractable) {
		if issuer, err := s.DB().LookupAccountByID(asset.IssuerID); err != nil {
			return err
		} else if issuer != nil && s.AccountHasSigned(issuer) {
			return nil
		}
	}

	switch b.Condition.Type {
	case entry.WithdrawSignature:
		v, err := b.Condition.AsSignature()
		if err != nil {
			return err
		}
		if s.CheckSignature(v.Owner) {
			return nil
		}
		return errs.New(errs.Unauthorized, "balance %v: owner %v not signed", b.ID(), v.Owner)
	case entry.WithdrawMultisig:
		v, err := b.Condition.AsMultisig()
		if err != nil {
			return err
		}
		signed := make(map[thor.Address]struct{}, len(v.Owners))
		for _, owner := range v.Owners {
			if s.CheckSignature(owner) {
				signed[owner] = struct{}{}
			}
		}
		if len(signed) < int(v.Required) {
			return errs.New(errs.Unauthorized, "balance %v: %d of %d owners signed", b.ID(), len(signed), v.Required)
		}
		return nil
	case entry.WithdrawEscrow:
		return errs.New(errs.InvalidWithdrawCondition, "balance %v: escrow balances are released, not withdrawn", b.ID())
	}
	return errs.New(errs.InvalidWithdrawCondition, "balance %v: unsupported condition %v", b.ID(), b.Condition.Type)
}

// authorizeContractWithdraw checks a withdrawal of a result transaction.
// Results only spend the plain balances of the contracts their origin calls.
func authorizeContractWithdraw(s State, b *entry.BalanceEntry) error {
	if b.Condition.Type != entry.WithdrawSignature {
		return errs.New(errs.Unauthorized, "balance %v: not a contract balance", b.ID())
	}
	v, err := b.Condition.AsSignature()
	if err != nil {
		return err
	}
	if !originCalls(s, v.Owner) {
		return errs.New(errs.Unauthorized, "balance %v: origin does not call %v", b.ID(), v.Owner)
	}
	_, err = lookupContract(s, v.Owner)
	return err
}

// Deposit moves shares of the transaction into a balance.
type Deposit struct {
	Amount    uint64                  `json:"amount"`
	Condition entry.WithdrawCondition `json:"condition"`
}

func (op *Deposit) Type() tx.OpType { return TypeDeposit }

func (op *Deposit) Evaluate(s State) error {
	if op.Amount == 0 {
		return errs.New(errs.InvalidArgument, "deposit: zero amount")
	}
	b := entry.NewBalanceEntry(op.Condition, s.Now())
	if err := b.SanityCheck(s.DB()); err != nil {
		return err
	}
	if err := checkRestricted(s, &op.Condition); err != nil {
		return err
	}
	if err := s.AddDeposited(op.Condition.AssetID, op.Amount); err != nil {
		return err
	}
	_, err := credit(s, op.Condition, op.Amount)
	return err
}

// checkRestricted fails if the asset is restricted and an owner of the
// condition is not one of its authorities.
func checkRestricted(s State, cond *entry.WithdrawCondition) error {
	asset, err := lookupAsset(s, cond.AssetID)
	if err != nil {
		return err
	}
	if !asset.Flags.Has(entry.FlagRestricted) {
		return nil
	}
	owners, err := cond.Owners()
	if err != nil {
		return err
	}
	for _, owner := range owners {
		id, ok, err := s.DB().LookupAccountIDByAddress(owner)
		if err != nil {
			return err
		}
		if !ok || !slices.Contains(asset.Authorities, id) {
			return errs.New(errs.Unauthorized, "asset %s is restricted, %v is not an authority", asset.Symbol, owner)
		}
	}
	return nil
}

// UpdateBalanceVote moves a balance to the same owner under another slate.
type UpdateBalanceVote struct {
	BalanceID  thor.Address  `json:"balance_id"`
	NewSlateID entry.SlateID `json:"new_slate_id"`
}

func (op *UpdateBalanceVote) Type() tx.OpType { return TypeUpdateBalanceVote }

func (op *UpdateBalanceVote) Evaluate(s State) error {
	b, err := lookupBalance(s, op.BalanceID)
	if err != nil {
		return err
	}
	v, err := b.Condition.AsSignature()
	if err != nil {
		return err
	}
	if !s.CheckSignature(v.Owner) {
		return errs.New(errs.Unauthorized, "balance %v: owner %v not signed", b.ID(), v.Owner)
	}
	if b.RestrictedOwner != nil && !s.CheckSignature(*b.RestrictedOwner) {
		return errs.New(errs.Unauthorized, "balance %v: restricted owner not signed", b.ID())
	}
	if op.NewSlateID != 0 {
		slate, err := s.DB().LookupSlateByID(op.NewSlateID)
		if err != nil {
			return err
		}
		if slate == nil {
			return errs.New(errs.UnknownEntity, "slate %d", op.NewSlateID)
		}
	}
	if op.NewSlateID == b.SlateID() {
		return nil
	}

	amount := b.Balance
	if err := debit(s, b, amount); err != nil {
		return err
	}
	if err := entry.RemoveBalance(s.DB(), b.ID()); err != nil {
		return err
	}
	cond := b.Condition.Copy()
	cond.SlateID = op.NewSlateID
	moved, err := credit(s, cond, amount)
	if err != nil {
		return err
	}
	if moved.RestrictedOwner == nil && b.RestrictedOwner != nil {
		moved.RestrictedOwner = b.Clone().RestrictedOwner
		return entry.StoreBalance(s.DB(), moved)
	}
	return nil
}

// ReleaseEscrow settles an escrow balance.
type ReleaseEscrow struct {
	EscrowID thor.Address `json:"escrow_id"`
	// ReleasedBy is the sender, the receiver or the escrow agent.
	// The zero address means the sender and the receiver together.
	ReleasedBy       thor.Address `json:"released_by"`
	AmountToReceiver uint64       `json:"amount_to_receiver"`
	AmountToSender   uint64       `json:"amount_to_sender"`
}

func (op *ReleaseEscrow) Type() tx.OpType { return TypeReleaseEscrow }

func (op *ReleaseEscrow) Evaluate(s State) error {
	b, err := lookupBalance(s, op.EscrowID)
	if err != nil {
		return err
	}
	e, err := b.Condition.AsEscrow()
	if err != nil {
		return err
	}

	switch op.ReleasedBy {
	case thor.Address{}:
		if !s.CheckSignature(e.Sender) || !s.CheckSignature(e.Receiver) {
			return errs.New(errs.Unauthorized, "escrow %v: sender and receiver must both sign", b.ID())
		}
	case e.Sender:
		if !s.CheckSignature(e.Sender) {
			return errs.New(errs.Unauthorized, "escrow %v: sender not signed", b.ID())
		}
		if op.AmountToSender != 0 {
			return errs.New(errs.Unauthorized, "escrow %v: sender can only release to the receiver", b.ID())
		}
	case e.Receiver:
		if !s.CheckSignature(e.Receiver) {
			return errs.New(errs.Unauthorized, "escrow %v: receiver not signed", b.ID())
		}
		if op.AmountToReceiver != 0 {
			return errs.New(errs.Unauthorized, "escrow %v: receiver can only refund the sender", b.ID())
		}
	case e.Escrow:
		if !s.CheckSignature(e.Escrow) {
			return errs.New(errs.Unauthorized, "escrow %v: agent not signed", b.ID())
		}
	default:
		return errs.New(errs.Unauthorized, "escrow %v: %v is not a party", b.ID(), op.ReleasedBy)
	}

	total, err := safeAdd(op.AmountToReceiver, op.AmountToSender)
	if err != nil {
		return err
	}
	if total == 0 {
		return errs.New(errs.InvalidArgument, "escrow %v: nothing released", b.ID())
	}
	if err := debit(s, b, total); err != nil {
		return err
	}
	for _, pay := range []struct {
		to     thor.Address
		amount uint64
	}{{e.Receiver, op.AmountToReceiver}, {e.Sender, op.AmountToSender}} {
		if pay.amount == 0 {
			continue
		}
		cond := entry.NewSignatureCondition(pay.to, b.AssetID(), b.SlateID())
		if _, err := credit(s, cond, pay.amount); err != nil {
			return err
		}
	}
	return nil
}
