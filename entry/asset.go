// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entry

import (
	"slices"

	"github.com/vechain/ledger/errs"
	"github.com/vechain/ledger/thor"
)

// AssetFlags are asset permission bits.
type AssetFlags uint32

const (
	// FlagRestricted limits balances of the asset to the asset authorities.
	FlagRestricted AssetFlags = 1 << iota
	// FlagRetractable lets the issuer withdraw any balance of the asset.
	FlagRetractable
	// FlagHalted freezes every balance of the asset.
	FlagHalted

	AllAssetFlags = FlagRestricted | FlagRetractable | FlagHalted
)

// Has returns whether all bits of f2 are set.
func (f AssetFlags) Has(f2 AssetFlags) bool {
	return f&f2 == f2
}

// AssetEntry is a registered asset.
type AssetEntry struct {
	ID                 AssetID     `json:"id"`
	Symbol             string      `json:"symbol"`
	Name               string      `json:"name"`
	Description        string      `json:"description"`
	PublicData         string      `json:"public_data"`
	IssuerID           AccountID   `json:"issuer_account_id"`
	Precision          uint64      `json:"precision"`
	RegistrationDate   uint64      `json:"registration_date"`
	LastUpdate         uint64      `json:"last_update"`
	CurrentShareSupply uint64      `json:"current_share_supply"`
	MaximumShareSupply uint64      `json:"maximum_share_supply"`
	CollectedFees      uint64      `json:"collected_fees"`
	Flags              AssetFlags  `json:"flags"`
	IssuerPermissions  AssetFlags  `json:"issuer_permissions"`
	TransactionFee     uint64      `json:"transaction_fee"`
	AuthorityThreshold uint32      `json:"authority_threshold"`
	Authorities        []AccountID `json:"authorities"`
}

// IsMarketIssued returns whether the asset has no issuer account.
func (a *AssetEntry) IsMarketIssued() bool {
	return a.IssuerID == 0
}

// AvailableShares returns the shares that can still be issued.
func (a *AssetEntry) AvailableShares() uint64 {
	return a.MaximumShareSupply - a.CurrentShareSupply
}

// Clone returns a deep copy.
func (a *AssetEntry) Clone() *AssetEntry {
	if a == nil {
		return nil
	}
	cpy := *a
	cpy.Authorities = slices.Clone(a.Authorities)
	return &cpy
}

// SanityCheck checks the invariants of the entry against the chain cap.
func (a *AssetEntry) SanityCheck(maxShareSupply uint64) error {
	if !IsValidAssetSymbol(a.Symbol) {
		return errs.New(errs.InvalidArgument, "asset: invalid symbol %q", a.Symbol)
	}
	if !thor.IsPowerOfTen(a.Precision) {
		return errs.New(errs.InvalidArgument, "asset: precision %d is not a power of ten", a.Precision)
	}
	if a.MaximumShareSupply > maxShareSupply {
		return errs.New(errs.Overflow, "asset: maximum supply %d > chain cap %d", a.MaximumShareSupply, maxShareSupply)
	}
	if a.CurrentShareSupply > a.MaximumShareSupply {
		return errs.New(errs.Overflow, "asset: current supply %d > maximum supply %d", a.CurrentShareSupply, a.MaximumShareSupply)
	}
	if a.CollectedFees > a.CurrentShareSupply {
		return errs.New(errs.Overflow, "asset: collected fees %d > current supply %d", a.CollectedFees, a.CurrentShareSupply)
	}
	if a.Flags&^AllAssetFlags != 0 || a.IssuerPermissions&^AllAssetFlags != 0 {
		return errs.New(errs.InvalidArgument, "asset: unknown flags")
	}
	if !a.IssuerPermissions.Has(a.Flags) {
		return errs.New(errs.InvalidArgument, "asset: flags %b not permitted by %b", a.Flags, a.IssuerPermissions)
	}
	if int(a.AuthorityThreshold) > len(a.Authorities) {
		return errs.New(errs.InvalidArgument, "asset: authority threshold %d > %d authorities", a.AuthorityThreshold, len(a.Authorities))
	}
	return nil
}

// LookupAssetBySymbol finds the asset of the given symbol.
func LookupAssetBySymbol(db AssetDB, symbol string) (*AssetEntry, error) {
	id, ok, err := db.LookupAssetIDBySymbol(symbol)
	if err != nil || !ok {
		return nil, err
	}
	return db.LookupAssetByID(id)
}

// StoreAsset stores the asset and keeps its symbol index consistent.
func StoreAsset(db AssetDB, a *AssetEntry) error {
	prev, err := db.LookupAssetByID(a.ID)
	if err != nil {
		return err
	}
	if prev != nil && prev.Symbol != a.Symbol {
		if err := db.EraseFromAssetSymbolMap(prev.Symbol); err != nil {
			return err
		}
	}
	if err := db.InsertIntoAssetIDMap(a.ID, a); err != nil {
		return err
	}
	return db.InsertIntoAssetSymbolMap(a.Symbol, a.ID)
}

// RemoveAsset erases the asset and its symbol index.
func RemoveAsset(db AssetDB, id AssetID) error {
	prev, err := db.LookupAssetByID(id)
	if err != nil || prev == nil {
		return err
	}
	if err := db.EraseFromAssetSymbolMap(prev.Symbol); err != nil {
		return err
	}
	return db.EraseFromAssetIDMap(id)
}
