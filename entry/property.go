// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entry

import (
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/vechain/ledger/errs"
	"github.com/vechain/ledger/thor"
)

// PropertyID identifies a chain property.
type PropertyID uint8

const (
	PropertyChainID PropertyID = iota + 1
	PropertyLastAccountID
	PropertyLastAssetID
	PropertyActiveDelegateList
	PropertyAccumulatedFees
	PropertyConfirmationRequirement
	PropertyDatabaseVersion
)

func (id PropertyID) String() string {
	switch id {
	case PropertyChainID:
		return "chain_id"
	case PropertyLastAccountID:
		return "last_account_id"
	case PropertyLastAssetID:
		return "last_asset_id"
	case PropertyActiveDelegateList:
		return "active_delegate_list"
	case PropertyAccumulatedFees:
		return "accumulated_fees"
	case PropertyConfirmationRequirement:
		return "confirmation_requirement"
	case PropertyDatabaseVersion:
		return "database_version"
	}
	return fmt.Sprintf("property(%d)", uint8(id))
}

// PropertyEntry is a chain property. Value is the packed form of the property value.
type PropertyEntry struct {
	ID    PropertyID   `json:"id"`
	Value rlp.RawValue `json:"value"`
}

// Clone returns a deep copy.
func (p *PropertyEntry) Clone() *PropertyEntry {
	if p == nil {
		return nil
	}
	return &PropertyEntry{p.ID, slices.Clone(p.Value)}
}

// GetProperty decodes the property into v, and returns false if it is absent.
func GetProperty(db PropertyDB, id PropertyID, v interface{}) (bool, error) {
	p, err := db.LookupPropertyByID(id)
	if err != nil || p == nil {
		return false, err
	}
	if err := rlp.DecodeBytes(p.Value, v); err != nil {
		return false, errs.Wrap(errs.Internal, err, "decode property %v", id)
	}
	return true, nil
}

// SetProperty stores v as the property value.
func SetProperty(db PropertyDB, id PropertyID, v interface{}) error {
	data, err := rlp.EncodeToBytes(v)
	if err != nil {
		return errs.Wrap(errs.Internal, err, "encode property %v", id)
	}
	return db.InsertIntoPropertyIDMap(id, &PropertyEntry{id, data})
}

// GetUint64Property returns the uint64 property, zero if absent.
func GetUint64Property(db PropertyDB, id PropertyID) (uint64, error) {
	var v uint64
	_, err := GetProperty(db, id, &v)
	return v, err
}

// SetUint64Property stores the uint64 property.
func SetUint64Property(db PropertyDB, id PropertyID, v uint64) error {
	return SetProperty(db, id, v)
}

// GetChainID returns the chain id.
func GetChainID(db PropertyDB) (thor.Bytes32, error) {
	var v thor.Bytes32
	_, err := GetProperty(db, PropertyChainID, &v)
	return v, err
}

// GetActiveDelegates returns the active delegate list, ordered by rank.
func GetActiveDelegates(db PropertyDB) ([]AccountID, error) {
	var v []AccountID
	_, err := GetProperty(db, PropertyActiveDelegateList, &v)
	return v, err
}

// SetActiveDelegates stores the active delegate list.
func SetActiveDelegates(db PropertyDB, ids []AccountID) error {
	return SetProperty(db, PropertyActiveDelegateList, ids)
}
