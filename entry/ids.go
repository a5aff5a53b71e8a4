// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entry

import (
	"fmt"
	"regexp"

	"github.com/vechain/ledger/thor"
)

// AccountID identifies an account. Zero means no account.
type AccountID uint64

// AssetID identifies an asset. Zero is the base asset.
type AssetID uint64

// SlateID identifies a delegate slate. Zero means no slate.
type SlateID uint64

// BaseAssetID is the id of the chain's base asset.
const BaseAssetID AssetID = 0

// AssetAmount is an amount of shares of an asset.
type AssetAmount struct {
	Amount  uint64  `json:"amount"`
	AssetID AssetID `json:"asset_id"`
}

func (a AssetAmount) String() string {
	return fmt.Sprintf("%d@%d", a.Amount, a.AssetID)
}

// StorageKey addresses a named storage of a contract.
type StorageKey struct {
	ContractID thor.Address
	Name       string
}

func (k StorageKey) String() string {
	return k.ContractID.String() + "/" + k.Name
}

var (
	accountNameRegexp   = regexp.MustCompile(`^[a-z][a-z0-9-]*(\.[a-z][a-z0-9-]*)*$`)
	assetSymbolRegexp   = regexp.MustCompile(`^[A-Z][A-Z0-9]{2,7}$`)
	contractNameRegexp  = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)
	storageNameRegexp   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)
	maxAccountNameLen   = 63
	maxPublicDataLength = 4096
)

// IsValidAccountName returns whether name is a valid account name.
// Names are lowercase, dot separated segments, each starting with a letter.
func IsValidAccountName(name string) bool {
	if len(name) == 0 || len(name) > maxAccountNameLen {
		return false
	}
	return accountNameRegexp.MatchString(name)
}

// IsValidAssetSymbol returns whether symbol is a valid asset symbol.
func IsValidAssetSymbol(symbol string) bool {
	return assetSymbolRegexp.MatchString(symbol)
}

// IsValidContractName returns whether name is a valid contract name.
func IsValidContractName(name string) bool {
	return contractNameRegexp.MatchString(name)
}

// IsValidStorageName returns whether name is a valid contract storage name.
func IsValidStorageName(name string) bool {
	return storageNameRegexp.MatchString(name)
}

func mustHash(v interface{}) thor.Bytes32 {
	return thor.Blake2b(mustEncode(v))
}
