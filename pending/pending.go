// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pending implements the copy-on-write ledger overlay.
// Reads fall through to the parent unless the overlay holds the key, writes
// never touch the parent until the changes are applied.
package pending

import (
	"slices"

	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/stackedmap"
	"github.com/vechain/ledger/thor"
)

var _ entry.ChainInterface = (*ChainState)(nil)

// ChainState is a pending chain state over a parent ledger interface.
// It's not safe for concurrent use.
type ChainState struct {
	parent entry.ChainInterface
	sm     *stackedmap.StackedMap
}

// New create a pending chain state over parent.
// The parent can be another pending chain state. A nil parent makes an
// in-memory ledger that starts empty.
func New(parent entry.ChainInterface) *ChainState {
	if parent == nil {
		parent = emptyDB{}
	}
	s := &ChainState{parent: parent}
	s.sm = stackedmap.New(func(key interface{}) (interface{}, bool, error) {
		v, err := load(s.parent, key)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	})
	return s
}

// Parent returns the parent ledger interface.
func (s *ChainState) Parent() entry.ChainInterface {
	return s.parent
}

// Checkpoint makes a checkpoint of current changes.
// It returns a revision to revert to.
func (s *ChainState) Checkpoint() int {
	return s.sm.Push()
}

// RevertTo reverts changes made since the checkpoint.
func (s *ChainState) RevertTo(revision int) {
	if revision < 1 {
		revision = 1
	}
	s.sm.PopTo(revision)
}

// Len returns the count of writes made.
func (s *ChainState) Len() int {
	n := 0
	s.sm.Journal(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

// ApplyChanges replays all writes into the parent, in the order they were made.
func (s *ChainState) ApplyChanges() error {
	return s.ApplyChangesTo(s.parent)
}

// ApplyChangesTo replays all writes into db, in the order they were made.
func (s *ChainState) ApplyChangesTo(db entry.ChainInterface) error {
	var err error
	s.sm.Journal(func(key, val interface{}) bool {
		err = store(db, key, val)
		return err == nil
	})
	return err
}

// Undo builds the inverse of the pending changes: a state that restores
// every touched key to its current value in the parent.
// It must be called before the changes are applied.
func (s *ChainState) Undo() (*ChainState, error) {
	var (
		undo = New(s.parent)
		seen = make(map[interface{}]struct{})
		err  error
	)
	s.sm.Journal(func(key, _ interface{}) bool {
		if _, ok := seen[key]; ok {
			return true
		}
		seen[key] = struct{}{}
		var prior interface{}
		if prior, err = load(s.parent, key); err != nil {
			return false
		}
		undo.sm.Put(key, prior)
		return true
	})
	if err != nil {
		return nil, err
	}
	return undo, nil
}

func get[T any](s *ChainState, key interface{}) (value[T], error) {
	v, _, err := s.sm.Get(key)
	if err != nil {
		return value[T]{}, err
	}
	return v.(value[T]), nil
}

func (s *ChainState) LookupAccountByID(id entry.AccountID) (*entry.AccountEntry, error) {
	v, err := get[*entry.AccountEntry](s, accountKey(id))
	return v.v.Clone(), err
}

func (s *ChainState) LookupAccountIDByName(name string) (entry.AccountID, bool, error) {
	v, err := get[entry.AccountID](s, accountNameKey(name))
	return v.v, v.ok, err
}

func (s *ChainState) LookupAccountIDByAddress(addr thor.Address) (entry.AccountID, bool, error) {
	v, err := get[entry.AccountID](s, accountAddrKey(addr))
	return v.v, v.ok, err
}

func (s *ChainState) HasVote(key entry.VoteKey) (bool, error) {
	v, err := get[struct{}](s, voteKey(key))
	return v.ok, err
}

func (s *ChainState) InsertIntoAccountIDMap(id entry.AccountID, e *entry.AccountEntry) error {
	s.sm.Put(accountKey(id), present(e.Clone()))
	return nil
}

func (s *ChainState) InsertIntoAccountNameMap(name string, id entry.AccountID) error {
	s.sm.Put(accountNameKey(name), present(id))
	return nil
}

func (s *ChainState) InsertIntoAccountAddressMap(addr thor.Address, id entry.AccountID) error {
	s.sm.Put(accountAddrKey(addr), present(id))
	return nil
}

func (s *ChainState) InsertIntoVoteSet(key entry.VoteKey) error {
	s.sm.Put(voteKey(key), present(struct{}{}))
	return nil
}

func (s *ChainState) EraseFromAccountIDMap(id entry.AccountID) error {
	s.sm.Put(accountKey(id), absent[*entry.AccountEntry]())
	return nil
}

func (s *ChainState) EraseFromAccountNameMap(name string) error {
	s.sm.Put(accountNameKey(name), absent[entry.AccountID]())
	return nil
}

func (s *ChainState) EraseFromAccountAddressMap(addr thor.Address) error {
	s.sm.Put(accountAddrKey(addr), absent[entry.AccountID]())
	return nil
}

func (s *ChainState) EraseFromVoteSet(key entry.VoteKey) error {
	s.sm.Put(voteKey(key), absent[struct{}]())
	return nil
}

func (s *ChainState) LookupAssetByID(id entry.AssetID) (*entry.AssetEntry, error) {
	v, err := get[*entry.AssetEntry](s, assetKey(id))
	return v.v.Clone(), err
}

func (s *ChainState) LookupAssetIDBySymbol(symbol string) (entry.AssetID, bool, error) {
	v, err := get[entry.AssetID](s, assetSymbolKey(symbol))
	return v.v, v.ok, err
}

func (s *ChainState) InsertIntoAssetIDMap(id entry.AssetID, e *entry.AssetEntry) error {
	s.sm.Put(assetKey(id), present(e.Clone()))
	return nil
}

func (s *ChainState) InsertIntoAssetSymbolMap(symbol string, id entry.AssetID) error {
	s.sm.Put(assetSymbolKey(symbol), present(id))
	return nil
}

func (s *ChainState) EraseFromAssetIDMap(id entry.AssetID) error {
	s.sm.Put(assetKey(id), absent[*entry.AssetEntry]())
	return nil
}

func (s *ChainState) EraseFromAssetSymbolMap(symbol string) error {
	s.sm.Put(assetSymbolKey(symbol), absent[entry.AssetID]())
	return nil
}

func (s *ChainState) LookupBalanceByID(id thor.Address) (*entry.BalanceEntry, error) {
	v, err := get[*entry.BalanceEntry](s, balanceKey(id))
	return v.v.Clone(), err
}

func (s *ChainState) InsertIntoBalanceIDMap(id thor.Address, e *entry.BalanceEntry) error {
	s.sm.Put(balanceKey(id), present(e.Clone()))
	return nil
}

func (s *ChainState) EraseFromBalanceIDMap(id thor.Address) error {
	s.sm.Put(balanceKey(id), absent[*entry.BalanceEntry]())
	return nil
}

func (s *ChainState) LookupSlateByID(id entry.SlateID) (*entry.SlateEntry, error) {
	v, err := get[*entry.SlateEntry](s, slateKey(id))
	return v.v.Clone(), err
}

func (s *ChainState) InsertIntoSlateIDMap(id entry.SlateID, e *entry.SlateEntry) error {
	s.sm.Put(slateKey(id), present(e.Clone()))
	return nil
}

func (s *ChainState) EraseFromSlateIDMap(id entry.SlateID) error {
	s.sm.Put(slateKey(id), absent[*entry.SlateEntry]())
	return nil
}

func (s *ChainState) LookupSlotByTimestamp(ts uint64) (*entry.SlotEntry, error) {
	v, err := get[*entry.SlotEntry](s, slotKey(ts))
	return v.v.Clone(), err
}

func (s *ChainState) InsertIntoSlotTimestampMap(ts uint64, e *entry.SlotEntry) error {
	s.sm.Put(slotKey(ts), present(e.Clone()))
	return nil
}

func (s *ChainState) EraseFromSlotTimestampMap(ts uint64) error {
	s.sm.Put(slotKey(ts), absent[*entry.SlotEntry]())
	return nil
}

func (s *ChainState) LookupPropertyByID(id entry.PropertyID) (*entry.PropertyEntry, error) {
	v, err := get[*entry.PropertyEntry](s, propertyKey(id))
	return v.v.Clone(), err
}

func (s *ChainState) InsertIntoPropertyIDMap(id entry.PropertyID, e *entry.PropertyEntry) error {
	s.sm.Put(propertyKey(id), present(e.Clone()))
	return nil
}

func (s *ChainState) EraseFromPropertyIDMap(id entry.PropertyID) error {
	s.sm.Put(propertyKey(id), absent[*entry.PropertyEntry]())
	return nil
}

func (s *ChainState) LookupTransactionByID(id thor.Bytes32) (*entry.TransactionEntry, error) {
	v, err := get[*entry.TransactionEntry](s, trxKey(id))
	return v.v.Clone(), err
}

func (s *ChainState) InsertIntoTransactionIDMap(id thor.Bytes32, e *entry.TransactionEntry) error {
	s.sm.Put(trxKey(id), present(e.Clone()))
	return nil
}

func (s *ChainState) EraseFromTransactionIDMap(id thor.Bytes32) error {
	s.sm.Put(trxKey(id), absent[*entry.TransactionEntry]())
	return nil
}

func (s *ChainState) LookupContractByID(id thor.Address) (*entry.ContractEntry, error) {
	v, err := get[*entry.ContractEntry](s, contractKey(id))
	return v.v.Clone(), err
}

func (s *ChainState) LookupContractIDByName(name string) (thor.Address, bool, error) {
	v, err := get[thor.Address](s, contractNameKey(name))
	return v.v, v.ok, err
}

func (s *ChainState) InsertIntoContractIDMap(id thor.Address, e *entry.ContractEntry) error {
	s.sm.Put(contractKey(id), present(e.Clone()))
	return nil
}

func (s *ChainState) InsertIntoContractNameMap(name string, id thor.Address) error {
	s.sm.Put(contractNameKey(name), present(id))
	return nil
}

func (s *ChainState) EraseFromContractIDMap(id thor.Address) error {
	s.sm.Put(contractKey(id), absent[*entry.ContractEntry]())
	return nil
}

func (s *ChainState) EraseFromContractNameMap(name string) error {
	s.sm.Put(contractNameKey(name), absent[thor.Address]())
	return nil
}

func (s *ChainState) LookupContractStorage(key entry.StorageKey) (*entry.ContractStorageEntry, error) {
	v, err := get[*entry.ContractStorageEntry](s, storageKey(key))
	return v.v.Clone(), err
}

func (s *ChainState) InsertIntoContractStorageMap(key entry.StorageKey, e *entry.ContractStorageEntry) error {
	s.sm.Put(storageKey(key), present(e.Clone()))
	return nil
}

func (s *ChainState) EraseFromContractStorageMap(key entry.StorageKey) error {
	s.sm.Put(storageKey(key), absent[*entry.ContractStorageEntry]())
	return nil
}

func (s *ChainState) LookupContractValueByID(id thor.Bytes32) (*entry.ContractValueEntry, error) {
	v, err := get[*entry.ContractValueEntry](s, valueKey(id))
	return v.v.Clone(), err
}

func (s *ChainState) InsertIntoContractValueMap(id thor.Bytes32, e *entry.ContractValueEntry) error {
	s.sm.Put(valueKey(id), present(e.Clone()))
	return nil
}

func (s *ChainState) EraseFromContractValueMap(id thor.Bytes32) error {
	s.sm.Put(valueKey(id), absent[*entry.ContractValueEntry]())
	return nil
}

func (s *ChainState) LookupContractStorageIndex(key entry.StorageKey) ([]thor.Bytes32, error) {
	v, err := get[[]thor.Bytes32](s, storageIndexKey(key))
	if !v.ok {
		return nil, err
	}
	return slices.Clone(v.v), err
}

func (s *ChainState) InsertIntoContractStorageIndex(key entry.StorageKey, ids []thor.Bytes32) error {
	if ids == nil {
		ids = []thor.Bytes32{}
	}
	s.sm.Put(storageIndexKey(key), present(slices.Clone(ids)))
	return nil
}

func (s *ChainState) EraseFromContractStorageIndex(key entry.StorageKey) error {
	s.sm.Put(storageIndexKey(key), absent[[]thor.Bytes32]())
	return nil
}
