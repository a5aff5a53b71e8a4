// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pending

import (
	"github.com/pkg/errors"

	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/thor"
)

var errReadOnly = errors.New("write to empty ledger")

// emptyDB is the parent of a root pending state. It holds nothing and rejects writes.
type emptyDB struct{}

var _ entry.ChainInterface = emptyDB{}

func (emptyDB) LookupAccountByID(entry.AccountID) (*entry.AccountEntry, error) { return nil, nil }
func (emptyDB) LookupAccountIDByName(string) (entry.AccountID, bool, error)    { return 0, false, nil }
func (emptyDB) LookupAccountIDByAddress(thor.Address) (entry.AccountID, bool, error) {
	return 0, false, nil
}
func (emptyDB) HasVote(entry.VoteKey) (bool, error)                               { return false, nil }
func (emptyDB) LookupAssetByID(entry.AssetID) (*entry.AssetEntry, error)          { return nil, nil }
func (emptyDB) LookupAssetIDBySymbol(string) (entry.AssetID, bool, error)         { return 0, false, nil }
func (emptyDB) LookupBalanceByID(thor.Address) (*entry.BalanceEntry, error)       { return nil, nil }
func (emptyDB) LookupSlateByID(entry.SlateID) (*entry.SlateEntry, error)          { return nil, nil }
func (emptyDB) LookupSlotByTimestamp(uint64) (*entry.SlotEntry, error)            { return nil, nil }
func (emptyDB) LookupPropertyByID(entry.PropertyID) (*entry.PropertyEntry, error) { return nil, nil }
func (emptyDB) LookupTransactionByID(thor.Bytes32) (*entry.TransactionEntry, error) {
	return nil, nil
}
func (emptyDB) LookupContractByID(thor.Address) (*entry.ContractEntry, error) { return nil, nil }
func (emptyDB) LookupContractIDByName(string) (thor.Address, bool, error) {
	return thor.Address{}, false, nil
}
func (emptyDB) LookupContractStorage(entry.StorageKey) (*entry.ContractStorageEntry, error) {
	return nil, nil
}
func (emptyDB) LookupContractValueByID(thor.Bytes32) (*entry.ContractValueEntry, error) {
	return nil, nil
}
func (emptyDB) LookupContractStorageIndex(entry.StorageKey) ([]thor.Bytes32, error) { return nil, nil }

func (emptyDB) InsertIntoAccountIDMap(entry.AccountID, *entry.AccountEntry) error { return errReadOnly }
func (emptyDB) InsertIntoAccountNameMap(string, entry.AccountID) error            { return errReadOnly }
func (emptyDB) InsertIntoAccountAddressMap(thor.Address, entry.AccountID) error   { return errReadOnly }
func (emptyDB) InsertIntoVoteSet(entry.VoteKey) error                             { return errReadOnly }
func (emptyDB) EraseFromAccountIDMap(entry.AccountID) error                       { return errReadOnly }
func (emptyDB) EraseFromAccountNameMap(string) error                              { return errReadOnly }
func (emptyDB) EraseFromAccountAddressMap(thor.Address) error                     { return errReadOnly }
func (emptyDB) EraseFromVoteSet(entry.VoteKey) error                              { return errReadOnly }
func (emptyDB) InsertIntoAssetIDMap(entry.AssetID, *entry.AssetEntry) error       { return errReadOnly }
func (emptyDB) InsertIntoAssetSymbolMap(string, entry.AssetID) error              { return errReadOnly }
func (emptyDB) EraseFromAssetIDMap(entry.AssetID) error                           { return errReadOnly }
func (emptyDB) EraseFromAssetSymbolMap(string) error                              { return errReadOnly }
func (emptyDB) InsertIntoBalanceIDMap(thor.Address, *entry.BalanceEntry) error    { return errReadOnly }
func (emptyDB) EraseFromBalanceIDMap(thor.Address) error                          { return errReadOnly }
func (emptyDB) InsertIntoSlateIDMap(entry.SlateID, *entry.SlateEntry) error       { return errReadOnly }
func (emptyDB) EraseFromSlateIDMap(entry.SlateID) error                           { return errReadOnly }
func (emptyDB) InsertIntoSlotTimestampMap(uint64, *entry.SlotEntry) error         { return errReadOnly }
func (emptyDB) EraseFromSlotTimestampMap(uint64) error                            { return errReadOnly }
func (emptyDB) InsertIntoPropertyIDMap(entry.PropertyID, *entry.PropertyEntry) error {
	return errReadOnly
}
func (emptyDB) EraseFromPropertyIDMap(entry.PropertyID) error { return errReadOnly }
func (emptyDB) InsertIntoTransactionIDMap(thor.Bytes32, *entry.TransactionEntry) error {
	return errReadOnly
}
func (emptyDB) EraseFromTransactionIDMap(thor.Bytes32) error { return errReadOnly }
func (emptyDB) InsertIntoContractIDMap(thor.Address, *entry.ContractEntry) error {
	return errReadOnly
}
func (emptyDB) InsertIntoContractNameMap(string, thor.Address) error { return errReadOnly }
func (emptyDB) EraseFromContractIDMap(thor.Address) error            { return errReadOnly }
func (emptyDB) EraseFromContractNameMap(string) error                { return errReadOnly }
func (emptyDB) InsertIntoContractStorageMap(entry.StorageKey, *entry.ContractStorageEntry) error {
	return errReadOnly
}
func (emptyDB) EraseFromContractStorageMap(entry.StorageKey) error { return errReadOnly }
func (emptyDB) InsertIntoContractValueMap(thor.Bytes32, *entry.ContractValueEntry) error {
	return errReadOnly
}
func (emptyDB) EraseFromContractValueMap(thor.Bytes32) error { return errReadOnly }
func (emptyDB) InsertIntoContractStorageIndex(entry.StorageKey, []thor.Bytes32) error {
	return errReadOnly
}
func (emptyDB) EraseFromContractStorageIndex(entry.StorageKey) error { return errReadOnly }
