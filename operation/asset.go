// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operation

import (
	"slices"

	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/errs"
	"github.com/vechain/ledger/tx"
)

// CreateAsset registers a user issued asset.
type CreateAsset struct {
	Symbol             string          `json:"symbol"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	PublicData         string          `json:"public_data"`
	IssuerID           entry.AccountID `json:"issuer_account_id"`
	Precision          uint64          `json:"precision"`
	MaximumShareSupply uint64          `json:"maximum_share_supply"`
}

func (op *CreateAsset) Type() tx.OpType { return TypeCreateAsset }

func (op *CreateAsset) Evaluate(s State) error {
	db := s.DB()
	if !entry.IsValidAssetSymbol(op.Symbol) {
		return errs.New(errs.InvalidArgument, "create asset: invalid symbol %q", op.Symbol)
	}
	if op.Symbol == s.Config().BaseAssetSymbol {
		return errs.New(errs.DuplicateRegistration, "asset symbol %q", op.Symbol)
	}
	if _, ok, err := db.LookupAssetIDBySymbol(op.Symbol); err != nil {
		return err
	} else if ok {
		return errs.New(errs.DuplicateRegistration, "asset symbol %q", op.Symbol)
	}
	issuer, err := lookupAccount(s, op.IssuerID)
	if err != nil {
		return err
	}
	if !s.AccountHasSigned(issuer) {
		return errs.New(errs.Unauthorized, "issuer %s not signed", issuer.Name)
	}

	last, err := entry.GetUint64Property(db, entry.PropertyLastAssetID)
	if err != nil {
		return err
	}
	now := s.Now()
	a := &entry.AssetEntry{
		ID:                 entry.AssetID(last + 1),
		Symbol:             op.Symbol,
		Name:               op.Name,
		Description:        op.Description,
		PublicData:         op.PublicData,
		IssuerID:           op.IssuerID,
		Precision:          op.Precision,
		RegistrationDate:   now,
		LastUpdate:         now,
		MaximumShareSupply: op.MaximumShareSupply,
		IssuerPermissions:  entry.AllAssetFlags,
	}
	if err := a.SanityCheck(s.Config().MaxShareSupply); err != nil {
		return err
	}
	if err := s.AddRequiredFees(s.Config().AssetRegistrationFee); err != nil {
		return err
	}
	if err := entry.SetUint64Property(db, entry.PropertyLastAssetID, uint64(a.ID)); err != nil {
		return err
	}
	return entry.StoreAsset(db, a)
}

// lookupIssuedAsset returns the asset after checking its issuer signed.
func lookupIssuedAsset(s State, id entry.AssetID) (*entry.AssetEntry, error) {
	a, err := lookupAsset(s, id)
	if err != nil {
		return nil, err
	}
	if a.IsMarketIssued() {
		return nil, errs.New(errs.Unauthorized, "asset %s has no issuer", a.Symbol)
	}
	issuer, err := lookupAccount(s, a.IssuerID)
	if err != nil {
		return nil, err
	}
	if !s.AccountHasSigned(issuer) {
		return nil, errs.New(errs.Unauthorized, "issuer %s of %s not signed", issuer.Name, a.Symbol)
	}
	return a, nil
}

// UpdateAsset lets the issuer edit an asset. Nil fields are left unchanged.
type UpdateAsset struct {
	AssetID            entry.AssetID `json:"asset_id"`
	Name               *string       `json:"name" rlp:"nil"`
	Description        *string       `json:"description" rlp:"nil"`
	PublicData         *string       `json:"public_data" rlp:"nil"`
	MaximumShareSupply *uint64       `json:"maximum_share_supply" rlp:"nil"`
	Precision          *uint64       `json:"precision" rlp:"nil"`
}

func (op *UpdateAsset) Type() tx.OpType { return TypeUpdateAsset }

func (op *UpdateAsset) Evaluate(s State) error {
	a, err := lookupIssuedAsset(s, op.AssetID)
	if err != nil {
		return err
	}
	if err := op.apply(a); err != nil {
		return err
	}
	return storeUpdatedAsset(s, a)
}

func (op *UpdateAsset) apply(a *entry.AssetEntry) error {
	set := func(dst *string, src *string) {
		if src != nil && *src != "" {
			*dst = *src
		}
	}
	set(&a.Name, op.Name)
	set(&a.Description, op.Description)
	set(&a.PublicData, op.PublicData)

	supplyChanged := op.MaximumShareSupply != nil && *op.MaximumShareSupply != a.MaximumShareSupply
	precisionChanged := op.Precision != nil && *op.Precision != a.Precision
	if (supplyChanged || precisionChanged) && a.CurrentShareSupply != 0 {
		return errs.New(errs.InvalidArgument, "asset %s: supply and precision are fixed once shares are issued", a.Symbol)
	}
	if supplyChanged {
		a.MaximumShareSupply = *op.MaximumShareSupply
	}
	if precisionChanged {
		a.Precision = *op.Precision
	}
	return nil
}

func storeUpdatedAsset(s State, a *entry.AssetEntry) error {
	a.LastUpdate = s.Now()
	if err := a.SanityCheck(s.Config().MaxShareSupply); err != nil {
		return err
	}
	return entry.StoreAsset(s.DB(), a)
}

// UpdateAssetExt is UpdateAsset that also sets the permission, fee and authority fields.
type UpdateAssetExt struct {
	UpdateAsset
	Flags              entry.AssetFlags  `json:"flags"`
	IssuerPermissions  entry.AssetFlags  `json:"issuer_permissions"`
	TransactionFee     uint64            `json:"transaction_fee"`
	AuthorityThreshold uint32            `json:"authority_threshold"`
	Authorities        []entry.AccountID `json:"authorities"`
}

// NewUpdateAssetExt extends base with the current extended fields of the asset,
// so that it evaluates like base.
func NewUpdateAssetExt(base UpdateAsset, current *entry.AssetEntry) *UpdateAssetExt {
	return &UpdateAssetExt{
		UpdateAsset:        base,
		Flags:              current.Flags,
		IssuerPermissions:  current.IssuerPermissions,
		TransactionFee:     current.TransactionFee,
		AuthorityThreshold: current.AuthorityThreshold,
		Authorities:        slices.Clone(current.Authorities),
	}
}

func (op *UpdateAssetExt) Type() tx.OpType { return TypeUpdateAssetExt }

func (op *UpdateAssetExt) Evaluate(s State) error {
	a, err := lookupIssuedAsset(s, op.AssetID)
	if err != nil {
		return err
	}
	if err := op.UpdateAsset.apply(a); err != nil {
		return err
	}
	if !a.IssuerPermissions.Has(op.IssuerPermissions) {
		return errs.New(errs.Unauthorized, "asset %s: issuer permissions can only be revoked", a.Symbol)
	}
	for _, id := range op.Authorities {
		if _, err := lookupAccount(s, id); err != nil {
			return err
		}
	}
	a.Flags = op.Flags
	a.IssuerPermissions = op.IssuerPermissions
	a.TransactionFee = op.TransactionFee
	a.AuthorityThreshold = op.AuthorityThreshold
	a.Authorities = slices.Compact(slices.Sorted(slices.Values(op.Authorities)))
	return storeUpdatedAsset(s, a)
}

// IssueAsset mints new shares into the transaction.
type IssueAsset struct {
	Amount entry.AssetAmount `json:"amount"`
}

func (op *IssueAsset) Type() tx.OpType { return TypeIssueAsset }

func (op *IssueAsset) Evaluate(s State) error {
	if op.Amount.AssetID == entry.BaseAssetID {
		return errs.New(errs.InvalidArgument, "issue asset: the base asset cannot be issued")
	}
	if op.Amount.Amount == 0 {
		return errs.New(errs.InvalidArgument, "issue asset: zero amount")
	}
	a, err := lookupIssuedAsset(s, op.Amount.AssetID)
	if err != nil {
		return err
	}
	supply, err := safeAdd(a.CurrentShareSupply, op.Amount.Amount)
	if err != nil {
		return err
	}
	if supply > a.MaximumShareSupply {
		return errs.New(errs.Overflow, "asset %s: issuing %d exceeds maximum supply %d", a.Symbol, op.Amount.Amount, a.MaximumShareSupply)
	}
	a.CurrentShareSupply = supply
	if err := storeUpdatedAsset(s, a); err != nil {
		return err
	}
	return s.AddWithdrawn(a.ID, op.Amount.Amount)
}

// Burn destroys shares of the transaction.
type Burn struct {
	Amount entry.AssetAmount `json:"amount"`
	// AccountID optionally attributes the burn to a signing account.
	AccountID entry.AccountID `json:"account_id"`
	Message   string          `json:"message"`
}

func (op *Burn) Type() tx.OpType { return TypeBurn }

func (op *Burn) Evaluate(s State) error {
	if op.Amount.Amount == 0 {
		return errs.New(errs.InvalidArgument, "burn: zero amount")
	}
	if len(op.Message) > maxMessageLength {
		return errs.New(errs.InvalidArgument, "burn: message too long")
	}
	if op.AccountID != 0 {
		a, err := lookupAccount(s, op.AccountID)
		if err != nil {
			return err
		}
		if !s.AccountHasSigned(a) {
			return errs.New(errs.Unauthorized, "account %s not signed", a.Name)
		}
	}
	a, err := lookupAsset(s, op.Amount.AssetID)
	if err != nil {
		return err
	}
	if a.CurrentShareSupply, err = safeSub(a.CurrentShareSupply, op.Amount.Amount); err != nil {
		return err
	}
	if a.CollectedFees > a.CurrentShareSupply {
		return errs.New(errs.Overflow, "asset %s: burning collected fees", a.Symbol)
	}
	if err := storeUpdatedAsset(s, a); err != nil {
		return err
	}
	return s.AddDeposited(a.ID, op.Amount.Amount)
}

const maxMessageLength = 256

// DefineSlate registers a set of delegates balances can vote for.
type DefineSlate struct {
	Delegates []entry.AccountID `json:"delegates"`
}

func (op *DefineSlate) Type() tx.OpType { return TypeDefineSlate }

func (op *DefineSlate) Evaluate(s State) error {
	slate := entry.NewSlateEntry(op.Delegates)
	if err := slate.SanityCheck(s.Config().MaxSlateSize); err != nil {
		return err
	}
	for _, id := range slate.Delegates {
		a, err := lookupAccount(s, id)
		if err != nil {
			return err
		}
		if !a.IsDelegate() {
			return errs.New(errs.InvalidArgument, "define slate: account %s is not a delegate", a.Name)
		}
	}
	prev, err := s.DB().LookupSlateByID(slate.ID)
	if err != nil {
		return err
	}
	if prev != nil {
		if !slices.Equal(prev.Delegates, slate.Delegates) {
			return errs.New(errs.DuplicateRegistration, "define slate: id %d taken by %v", slate.ID, prev.Delegates)
		}
		return nil
	}
	return entry.StoreSlate(s.DB(), slate)
}
