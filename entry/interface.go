// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entry

import "github.com/vechain/ledger/thor"

// AccountDB is the account part of the ledger interface.
type AccountDB interface {
	LookupAccountByID(id AccountID) (*AccountEntry, error)
	LookupAccountIDByName(name string) (AccountID, bool, error)
	LookupAccountIDByAddress(addr thor.Address) (AccountID, bool, error)
	HasVote(key VoteKey) (bool, error)

	InsertIntoAccountIDMap(id AccountID, e *AccountEntry) error
	InsertIntoAccountNameMap(name string, id AccountID) error
	InsertIntoAccountAddressMap(addr thor.Address, id AccountID) error
	InsertIntoVoteSet(key VoteKey) error

	EraseFromAccountIDMap(id AccountID) error
	EraseFromAccountNameMap(name string) error
	EraseFromAccountAddressMap(addr thor.Address) error
	EraseFromVoteSet(key VoteKey) error
}

// AssetDB is the asset part of the ledger interface.
type AssetDB interface {
	LookupAssetByID(id AssetID) (*AssetEntry, error)
	LookupAssetIDBySymbol(symbol string) (AssetID, bool, error)

	InsertIntoAssetIDMap(id AssetID, e *AssetEntry) error
	InsertIntoAssetSymbolMap(symbol string, id AssetID) error

	EraseFromAssetIDMap(id AssetID) error
	EraseFromAssetSymbolMap(symbol string) error
}

// BalanceDB is the balance part of the ledger interface.
type BalanceDB interface {
	LookupBalanceByID(id thor.Address) (*BalanceEntry, error)
	InsertIntoBalanceIDMap(id thor.Address, e *BalanceEntry) error
	EraseFromBalanceIDMap(id thor.Address) error
}

// SlateDB is the slate part of the ledger interface.
type SlateDB interface {
	LookupSlateByID(id SlateID) (*SlateEntry, error)
	InsertIntoSlateIDMap(id SlateID, e *SlateEntry) error
	EraseFromSlateIDMap(id SlateID) error
}

// SlotDB is the block production slot part of the ledger interface.
type SlotDB interface {
	LookupSlotByTimestamp(ts uint64) (*SlotEntry, error)
	InsertIntoSlotTimestampMap(ts uint64, e *SlotEntry) error
	EraseFromSlotTimestampMap(ts uint64) error
}

// PropertyDB is the chain property part of the ledger interface.
type PropertyDB interface {
	LookupPropertyByID(id PropertyID) (*PropertyEntry, error)
	InsertIntoPropertyIDMap(id PropertyID, e *PropertyEntry) error
	EraseFromPropertyIDMap(id PropertyID) error
}

// TransactionDB is the committed transaction part of the ledger interface.
type TransactionDB interface {
	LookupTransactionByID(id thor.Bytes32) (*TransactionEntry, error)
	InsertIntoTransactionIDMap(id thor.Bytes32, e *TransactionEntry) error
	EraseFromTransactionIDMap(id thor.Bytes32) error
}

// ContractDB is the contract part of the ledger interface.
type ContractDB interface {
	LookupContractByID(id thor.Address) (*ContractEntry, error)
	LookupContractIDByName(name string) (thor.Address, bool, error)

	InsertIntoContractIDMap(id thor.Address, e *ContractEntry) error
	InsertIntoContractNameMap(name string, id thor.Address) error

	EraseFromContractIDMap(id thor.Address) error
	EraseFromContractNameMap(name string) error
}

// ContractStorageDB is the contract storage part of the ledger interface.
type ContractStorageDB interface {
	LookupContractStorage(key StorageKey) (*ContractStorageEntry, error)
	InsertIntoContractStorageMap(key StorageKey, e *ContractStorageEntry) error
	EraseFromContractStorageMap(key StorageKey) error

	LookupContractValueByID(id thor.Bytes32) (*ContractValueEntry, error)
	InsertIntoContractValueMap(id thor.Bytes32, e *ContractValueEntry) error
	EraseFromContractValueMap(id thor.Bytes32) error

	// the reverse index from a storage to the ids of the values it holds.
	LookupContractStorageIndex(key StorageKey) ([]thor.Bytes32, error)
	InsertIntoContractStorageIndex(key StorageKey, ids []thor.Bytes32) error
	EraseFromContractStorageIndex(key StorageKey) error
}

// ChainInterface is the ledger interface, the entire surface entries and operations
// use to access chain state.
// Lookups return nil (or false) when absent, and always return a copy the caller owns.
// Inserts overwrite, erases of absent keys are no-ops. Implementations do no
// deduplication and have no iteration.
type ChainInterface interface {
	AccountDB
	AssetDB
	BalanceDB
	SlateDB
	SlotDB
	PropertyDB
	TransactionDB
	ContractDB
	ContractStorageDB
}
