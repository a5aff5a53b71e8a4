// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entry

import (
	"github.com/vechain/ledger/errs"
	"github.com/vechain/ledger/thor"
)

// SnapshotInfo records where a balance was imported from.
type SnapshotInfo struct {
	OriginalAddress string `json:"original_address"`
	OriginalBalance uint64 `json:"original_balance"`
}

// BalanceEntry holds shares of one asset under a withdraw condition.
type BalanceEntry struct {
	Condition       WithdrawCondition `json:"condition"`
	Balance         uint64            `json:"balance"`
	DepositDate     uint64            `json:"deposit_date"`
	LastUpdate      uint64            `json:"last_update"`
	RestrictedOwner *thor.Address     `json:"restricted_owner" rlp:"nil"`
	Snapshot        *SnapshotInfo     `json:"snapshot_info" rlp:"nil"`
}

// NewBalanceEntry creates an empty balance for the condition.
func NewBalanceEntry(cond WithdrawCondition, now uint64) *BalanceEntry {
	return &BalanceEntry{Condition: cond.Copy(), DepositDate: now, LastUpdate: now}
}

// ID returns the id of the balance, the address of its condition.
func (b *BalanceEntry) ID() thor.Address {
	return b.Condition.Address()
}

// AssetID returns the asset of the balance.
func (b *BalanceEntry) AssetID() AssetID {
	return b.Condition.AssetID
}

// SlateID returns the slate the balance votes for.
func (b *BalanceEntry) SlateID() SlateID {
	return b.Condition.SlateID
}

// Clone returns a deep copy.
func (b *BalanceEntry) Clone() *BalanceEntry {
	if b == nil {
		return nil
	}
	cpy := *b
	cpy.Condition = b.Condition.Copy()
	if b.RestrictedOwner != nil {
		owner := *b.RestrictedOwner
		cpy.RestrictedOwner = &owner
	}
	if b.Snapshot != nil {
		snap := *b.Snapshot
		cpy.Snapshot = &snap
	}
	return &cpy
}

// SanityCheck checks that the condition is valid and references existing entries.
func (b *BalanceEntry) SanityCheck(db interface {
	AssetDB
	SlateDB
}) error {
	if err := b.Condition.Validate(); err != nil {
		return err
	}
	asset, err := db.LookupAssetByID(b.AssetID())
	if err != nil {
		return err
	}
	if asset == nil {
		return errs.New(errs.UnknownEntity, "balance: asset %d", b.AssetID())
	}
	if b.SlateID() != 0 {
		slate, err := db.LookupSlateByID(b.SlateID())
		if err != nil {
			return err
		}
		if slate == nil {
			return errs.New(errs.UnknownEntity, "balance: slate %d", b.SlateID())
		}
	}
	return nil
}

// StoreBalance stores the balance by its id.
func StoreBalance(db BalanceDB, b *BalanceEntry) error {
	return db.InsertIntoBalanceIDMap(b.ID(), b)
}

// RemoveBalance erases the balance.
func RemoveBalance(db BalanceDB, id thor.Address) error {
	return db.EraseFromBalanceIDMap(id)
}
