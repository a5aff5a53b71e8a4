// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pending

import (
	"fmt"

	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/thor"
)

// keys of the stacked map, one type per index.
type (
	accountKey      entry.AccountID
	accountNameKey  string
	accountAddrKey  thor.Address
	voteKey         entry.VoteKey
	assetKey        entry.AssetID
	assetSymbolKey  string
	balanceKey      thor.Address
	slateKey        entry.SlateID
	slotKey         uint64
	propertyKey     entry.PropertyID
	trxKey          thor.Bytes32
	contractKey     thor.Address
	contractNameKey string
	storageKey      entry.StorageKey
	valueKey        thor.Bytes32
	storageIndexKey entry.StorageKey
)

// value is the content of an index slot. An erased slot is not ok.
type value[T any] struct {
	v  T
	ok bool
}

func present[T any](v T) value[T] { return value[T]{v, true} }

func absent[T any]() value[T] { return value[T]{} }

func maybe[T comparable](v T, ok bool) value[T] { return value[T]{v, ok} }

func entryValue[T comparable](e T) value[T] {
	var zero T
	return value[T]{e, e != zero}
}

// load reads the slot of key from db.
func load(db entry.ChainInterface, key interface{}) (interface{}, error) {
	switch k := key.(type) {
	case accountKey:
		e, err := db.LookupAccountByID(entry.AccountID(k))
		return entryValue(e), err
	case accountNameKey:
		id, ok, err := db.LookupAccountIDByName(string(k))
		return maybe(id, ok), err
	case accountAddrKey:
		id, ok, err := db.LookupAccountIDByAddress(thor.Address(k))
		return maybe(id, ok), err
	case voteKey:
		ok, err := db.HasVote(entry.VoteKey(k))
		return maybe(struct{}{}, ok), err
	case assetKey:
		e, err := db.LookupAssetByID(entry.AssetID(k))
		return entryValue(e), err
	case assetSymbolKey:
		id, ok, err := db.LookupAssetIDBySymbol(string(k))
		return maybe(id, ok), err
	case balanceKey:
		e, err := db.LookupBalanceByID(thor.Address(k))
		return entryValue(e), err
	case slateKey:
		e, err := db.LookupSlateByID(entry.SlateID(k))
		return entryValue(e), err
	case slotKey:
		e, err := db.LookupSlotByTimestamp(uint64(k))
		return entryValue(e), err
	case propertyKey:
		e, err := db.LookupPropertyByID(entry.PropertyID(k))
		return entryValue(e), err
	case trxKey:
		e, err := db.LookupTransactionByID(thor.Bytes32(k))
		return entryValue(e), err
	case contractKey:
		e, err := db.LookupContractByID(thor.Address(k))
		return entryValue(e), err
	case contractNameKey:
		id, ok, err := db.LookupContractIDByName(string(k))
		return maybe(id, ok), err
	case storageKey:
		e, err := db.LookupContractStorage(entry.StorageKey(k))
		return entryValue(e), err
	case valueKey:
		e, err := db.LookupContractValueByID(thor.Bytes32(k))
		return entryValue(e), err
	case storageIndexKey:
		ids, err := db.LookupContractStorageIndex(entry.StorageKey(k))
		return value[[]thor.Bytes32]{ids, ids != nil}, err
	}
	panic(fmt.Errorf("unexpected key type %T", key))
}

// store writes the slot of key into db, erasing it if not ok.
func store(db entry.ChainInterface, key, val interface{}) error {
	switch k := key.(type) {
	case accountKey:
		if v := val.(value[*entry.AccountEntry]); v.ok {
			return db.InsertIntoAccountIDMap(entry.AccountID(k), v.v)
		}
		return db.EraseFromAccountIDMap(entry.AccountID(k))
	case accountNameKey:
		if v := val.(value[entry.AccountID]); v.ok {
			return db.InsertIntoAccountNameMap(string(k), v.v)
		}
		return db.EraseFromAccountNameMap(string(k))
	case accountAddrKey:
		if v := val.(value[entry.AccountID]); v.ok {
			return db.InsertIntoAccountAddressMap(thor.Address(k), v.v)
		}
		return db.EraseFromAccountAddressMap(thor.Address(k))
	case voteKey:
		if v := val.(value[struct{}]); v.ok {
			return db.InsertIntoVoteSet(entry.VoteKey(k))
		}
		return db.EraseFromVoteSet(entry.VoteKey(k))
	case assetKey:
		if v := val.(value[*entry.AssetEntry]); v.ok {
			return db.InsertIntoAssetIDMap(entry.AssetID(k), v.v)
		}
		return db.EraseFromAssetIDMap(entry.AssetID(k))
	case assetSymbolKey:
		if v := val.(value[entry.AssetID]); v.ok {
			return db.InsertIntoAssetSymbolMap(string(k), v.v)
		}
		return db.EraseFromAssetSymbolMap(string(k))
	case balanceKey:
		if v := val.(value[*entry.BalanceEntry]); v.ok {
			return db.InsertIntoBalanceIDMap(thor.Address(k), v.v)
		}
		return db.EraseFromBalanceIDMap(thor.Address(k))
	case slateKey:
		if v := val.(value[*entry.SlateEntry]); v.ok {
			return db.InsertIntoSlateIDMap(entry.SlateID(k), v.v)
		}
		return db.EraseFromSlateIDMap(entry.SlateID(k))
	case slotKey:
		if v := val.(value[*entry.SlotEntry]); v.ok {
			return db.InsertIntoSlotTimestampMap(uint64(k), v.v)
		}
		return db.EraseFromSlotTimestampMap(uint64(k))
	case propertyKey:
		if v := val.(value[*entry.PropertyEntry]); v.ok {
			return db.InsertIntoPropertyIDMap(entry.PropertyID(k), v.v)
		}
		return db.EraseFromPropertyIDMap(entry.PropertyID(k))
	case trxKey:
		if v := val.(value[*entry.TransactionEntry]); v.ok {
			return db.InsertIntoTransactionIDMap(thor.Bytes32(k), v.v)
		}
		return db.EraseFromTransactionIDMap(thor.Bytes32(k))
	case contractKey:
		if v := val.(value[*entry.ContractEntry]); v.ok {
			return db.InsertIntoContractIDMap(thor.Address(k), v.v)
		}
		return db.EraseFromContractIDMap(thor.Address(k))
	case contractNameKey:
		if v := val.(value[thor.Address]); v.ok {
			return db.InsertIntoContractNameMap(string(k), v.v)
		}
		return db.EraseFromContractNameMap(string(k))
	case storageKey:
		if v := val.(value[*entry.ContractStorageEntry]); v.ok {
			return db.InsertIntoContractStorageMap(entry.StorageKey(k), v.v)
		}
		return db.EraseFromContractStorageMap(entry.StorageKey(k))
	case valueKey:
		if v := val.(value[*entry.ContractValueEntry]); v.ok {
			return db.InsertIntoContractValueMap(thor.Bytes32(k), v.v)
		}
		return db.EraseFromContractValueMap(thor.Bytes32(k))
	case storageIndexKey:
		if v := val.(value[[]thor.Bytes32]); v.ok {
			return db.InsertIntoContractStorageIndex(entry.StorageKey(k), v.v)
		}
		return db.EraseFromContractStorageIndex(entry.StorageKey(k))
	}
	panic(fmt.Errorf("unexpected key type %T", key))
}
