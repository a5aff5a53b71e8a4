// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entry

import (
	"slices"

	"github.com/vechain/ledger/thor"
)

var _ ChainInterface = (*memDB)(nil)

// memDB is a map backed ChainInterface for tests.
type memDB struct {
	accounts      map[AccountID]*AccountEntry
	accountNames  map[string]AccountID
	accountAddrs  map[thor.Address]AccountID
	votes         map[VoteKey]struct{}
	assets        map[AssetID]*AssetEntry
	assetSymbols  map[string]AssetID
	balances      map[thor.Address]*BalanceEntry
	slates        map[SlateID]*SlateEntry
	slots         map[uint64]*SlotEntry
	properties    map[PropertyID]*PropertyEntry
	trxs          map[thor.Bytes32]*TransactionEntry
	contracts     map[thor.Address]*ContractEntry
	contractNames map[string]thor.Address
	storages      map[StorageKey]*ContractStorageEntry
	values        map[thor.Bytes32]*ContractValueEntry
	indexes       map[StorageKey][]thor.Bytes32
}

func newMemDB() *memDB {
	return &memDB{
		accounts:      make(map[AccountID]*AccountEntry),
		accountNames:  make(map[string]AccountID),
		accountAddrs:  make(map[thor.Address]AccountID),
		votes:         make(map[VoteKey]struct{}),
		assets:        make(map[AssetID]*AssetEntry),
		assetSymbols:  make(map[string]AssetID),
		balances:      make(map[thor.Address]*BalanceEntry),
		slates:        make(map[SlateID]*SlateEntry),
		slots:         make(map[uint64]*SlotEntry),
		properties:    make(map[PropertyID]*PropertyEntry),
		trxs:          make(map[thor.Bytes32]*TransactionEntry),
		contracts:     make(map[thor.Address]*ContractEntry),
		contractNames: make(map[string]thor.Address),
		storages:      make(map[StorageKey]*ContractStorageEntry),
		values:        make(map[thor.Bytes32]*ContractValueEntry),
		indexes:       make(map[StorageKey][]thor.Bytes32),
	}
}

func (m *memDB) LookupAccountByID(id AccountID) (*AccountEntry, error) {
	return m.accounts[id].Clone(), nil
}

func (m *memDB) LookupAccountIDByName(name string) (AccountID, bool, error) {
	id, ok := m.accountNames[name]
	return id, ok, nil
}

func (m *memDB) LookupAccountIDByAddress(addr thor.Address) (AccountID, bool, error) {
	id, ok := m.accountAddrs[addr]
	return id, ok, nil
}

func (m *memDB) HasVote(key VoteKey) (bool, error) {
	_, ok := m.votes[key]
	return ok, nil
}

func (m *memDB) InsertIntoAccountIDMap(id AccountID, e *AccountEntry) error {
	m.accounts[id] = e.Clone()
	return nil
}

func (m *memDB) InsertIntoAccountNameMap(name string, id AccountID) error {
	m.accountNames[name] = id
	return nil
}

func (m *memDB) InsertIntoAccountAddressMap(addr thor.Address, id AccountID) error {
	m.accountAddrs[addr] = id
	return nil
}

func (m *memDB) InsertIntoVoteSet(key VoteKey) error {
	m.votes[key] = struct{}{}
	return nil
}

func (m *memDB) EraseFromAccountIDMap(id AccountID) error { delete(m.accounts, id); return nil }
func (m *memDB) EraseFromAccountNameMap(name string) error {
	delete(m.accountNames, name)
	return nil
}

func (m *memDB) EraseFromAccountAddressMap(addr thor.Address) error {
	delete(m.accountAddrs, addr)
	return nil
}
func (m *memDB) EraseFromVoteSet(key VoteKey) error { delete(m.votes, key); return nil }

func (m *memDB) LookupAssetByID(id AssetID) (*AssetEntry, error) { return m.assets[id].Clone(), nil }
func (m *memDB) LookupAssetIDBySymbol(symbol string) (AssetID, bool, error) {
	id, ok := m.assetSymbols[symbol]
	return id, ok, nil
}

func (m *memDB) InsertIntoAssetIDMap(id AssetID, e *AssetEntry) error {
	m.assets[id] = e.Clone()
	return nil
}

func (m *memDB) InsertIntoAssetSymbolMap(symbol string, id AssetID) error {
	m.assetSymbols[symbol] = id
	return nil
}
func (m *memDB) EraseFromAssetIDMap(id AssetID) error { delete(m.assets, id); return nil }
func (m *memDB) EraseFromAssetSymbolMap(symbol string) error {
	delete(m.assetSymbols, symbol)
	return nil
}

func (m *memDB) LookupBalanceByID(id thor.Address) (*BalanceEntry, error) {
	return m.balances[id].Clone(), nil
}

func (m *memDB) InsertIntoBalanceIDMap(id thor.Address, e *BalanceEntry) error {
	m.balances[id] = e.Clone()
	return nil
}
func (m *memDB) EraseFromBalanceIDMap(id thor.Address) error { delete(m.balances, id); return nil }

func (m *memDB) LookupSlateByID(id SlateID) (*SlateEntry, error) { return m.slates[id].Clone(), nil }
func (m *memDB) InsertIntoSlateIDMap(id SlateID, e *SlateEntry) error {
	m.slates[id] = e.Clone()
	return nil
}
func (m *memDB) EraseFromSlateIDMap(id SlateID) error { delete(m.slates, id); return nil }

func (m *memDB) LookupSlotByTimestamp(ts uint64) (*SlotEntry, error) { return m.slots[ts].Clone(), nil }
func (m *memDB) InsertIntoSlotTimestampMap(ts uint64, e *SlotEntry) error {
	m.slots[ts] = e.Clone()
	return nil
}
func (m *memDB) EraseFromSlotTimestampMap(ts uint64) error { delete(m.slots, ts); return nil }

func (m *memDB) LookupPropertyByID(id PropertyID) (*PropertyEntry, error) {
	return m.properties[id].Clone(), nil
}

func (m *memDB) InsertIntoPropertyIDMap(id PropertyID, e *PropertyEntry) error {
	m.properties[id] = e.Clone()
	return nil
}
func (m *memDB) EraseFromPropertyIDMap(id PropertyID) error { delete(m.properties, id); return nil }

func (m *memDB) LookupTransactionByID(id thor.Bytes32) (*TransactionEntry, error) {
	return m.trxs[id].Clone(), nil
}

func (m *memDB) InsertIntoTransactionIDMap(id thor.Bytes32, e *TransactionEntry) error {
	m.trxs[id] = e.Clone()
	return nil
}
func (m *memDB) EraseFromTransactionIDMap(id thor.Bytes32) error { delete(m.trxs, id); return nil }

func (m *memDB) LookupContractByID(id thor.Address) (*ContractEntry, error) {
	return m.contracts[id].Clone(), nil
}

func (m *memDB) LookupContractIDByName(name string) (thor.Address, bool, error) {
	id, ok := m.contractNames[name]
	return id, ok, nil
}

func (m *memDB) InsertIntoContractIDMap(id thor.Address, e *ContractEntry) error {
	m.contracts[id] = e.Clone()
	return nil
}

func (m *memDB) InsertIntoContractNameMap(name string, id thor.Address) error {
	m.contractNames[name] = id
	return nil
}
func (m *memDB) EraseFromContractIDMap(id thor.Address) error { delete(m.contracts, id); return nil }
func (m *memDB) EraseFromContractNameMap(name string) error {
	delete(m.contractNames, name)
	return nil
}

func (m *memDB) LookupContractStorage(key StorageKey) (*ContractStorageEntry, error) {
	return m.storages[key].Clone(), nil
}

func (m *memDB) InsertIntoContractStorageMap(key StorageKey, e *ContractStorageEntry) error {
	m.storages[key] = e.Clone()
	return nil
}

func (m *memDB) EraseFromContractStorageMap(key StorageKey) error {
	delete(m.storages, key)
	return nil
}

func (m *memDB) LookupContractValueByID(id thor.Bytes32) (*ContractValueEntry, error) {
	return m.values[id].Clone(), nil
}

func (m *memDB) InsertIntoContractValueMap(id thor.Bytes32, e *ContractValueEntry) error {
	m.values[id] = e.Clone()
	return nil
}

func (m *memDB) EraseFromContractValueMap(id thor.Bytes32) error {
	delete(m.values, id)
	return nil
}

func (m *memDB) LookupContractStorageIndex(key StorageKey) ([]thor.Bytes32, error) {
	return slices.Clone(m.indexes[key]), nil
}

func (m *memDB) InsertIntoContractStorageIndex(key StorageKey, ids []thor.Bytes32) error {
	m.indexes[key] = slices.Clone(ids)
	return nil
}

func (m *memDB) EraseFromContractStorageIndex(key StorageKey) error {
	delete(m.indexes, key)
	return nil
}
