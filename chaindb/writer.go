// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chaindb

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/kv"
	"github.com/vechain/ledger/thor"
)

// writer writes ledger indexes through a putter.
// Cache updates of a bulk writer are deferred until the bulk is written.
type writer struct {
	db       *ChainDB
	p        kv.Putter
	bulk     bool
	deferred []func()
}

func (w *writer) after(fn func()) {
	if w.bulk {
		w.deferred = append(w.deferred, fn)
	} else {
		fn()
	}
}

func (w *writer) put(b kv.Bucket, key []byte, v interface{}) error {
	data, err := rlp.EncodeToBytes(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s", b)
	}
	return errors.Wrapf(w.p.Put(b.Key(key), data), "put %s", b)
}

func (w *writer) del(b kv.Bucket, key []byte) error {
	return errors.Wrapf(w.p.Delete(b.Key(key)), "delete %s", b)
}

func (w *writer) InsertIntoAccountIDMap(id entry.AccountID, e *entry.AccountEntry) error {
	w.after(func() { w.db.accounts.Remove(id) })
	return w.put(accountBucket, uint64Key(uint64(id)), e)
}

func (w *writer) InsertIntoAccountNameMap(name string, id entry.AccountID) error {
	return w.put(accountNameBucket, []byte(name), id)
}

func (w *writer) InsertIntoAccountAddressMap(addr thor.Address, id entry.AccountID) error {
	return w.put(accountAddrBucket, addr[:], id)
}

func (w *writer) InsertIntoVoteSet(key entry.VoteKey) error {
	return errors.Wrap(w.p.Put(voteBucket.Key(voteKey(key)), nil), "put vote")
}

func (w *writer) EraseFromAccountIDMap(id entry.AccountID) error {
	w.after(func() { w.db.accounts.Remove(id) })
	return w.del(accountBucket, uint64Key(uint64(id)))
}

func (w *writer) EraseFromAccountNameMap(name string) error {
	return w.del(accountNameBucket, []byte(name))
}

func (w *writer) EraseFromAccountAddressMap(addr thor.Address) error {
	return w.del(accountAddrBucket, addr[:])
}

func (w *writer) EraseFromVoteSet(key entry.VoteKey) error {
	return w.del(voteBucket, voteKey(key))
}

func (w *writer) InsertIntoAssetIDMap(id entry.AssetID, e *entry.AssetEntry) error {
	w.after(func() { w.db.assets.Remove(id) })
	return w.put(assetBucket, uint64Key(uint64(id)), e)
}

func (w *writer) InsertIntoAssetSymbolMap(symbol string, id entry.AssetID) error {
	return w.put(assetSymbolBucket, []byte(symbol), id)
}

func (w *writer) EraseFromAssetIDMap(id entry.AssetID) error {
	w.after(func() { w.db.assets.Remove(id) })
	return w.del(assetBucket, uint64Key(uint64(id)))
}

func (w *writer) EraseFromAssetSymbolMap(symbol string) error {
	return w.del(assetSymbolBucket, []byte(symbol))
}

func (w *writer) InsertIntoBalanceIDMap(id thor.Address, e *entry.BalanceEntry) error {
	return w.put(balanceBucket, id[:], e)
}

func (w *writer) EraseFromBalanceIDMap(id thor.Address) error {
	return w.del(balanceBucket, id[:])
}

func (w *writer) InsertIntoSlateIDMap(id entry.SlateID, e *entry.SlateEntry) error {
	return w.put(slateBucket, uint64Key(uint64(id)), e)
}

func (w *writer) EraseFromSlateIDMap(id entry.SlateID) error {
	return w.del(slateBucket, uint64Key(uint64(id)))
}

func (w *writer) InsertIntoSlotTimestampMap(ts uint64, e *entry.SlotEntry) error {
	return w.put(slotBucket, uint64Key(ts), e)
}

func (w *writer) EraseFromSlotTimestampMap(ts uint64) error {
	return w.del(slotBucket, uint64Key(ts))
}

func (w *writer) InsertIntoPropertyIDMap(id entry.PropertyID, e *entry.PropertyEntry) error {
	return w.put(propertyBucket, []byte{byte(id)}, e)
}

func (w *writer) EraseFromPropertyIDMap(id entry.PropertyID) error {
	return w.del(propertyBucket, []byte{byte(id)})
}

// InsertIntoTransactionIDMap stores the transaction compressed.
func (w *writer) InsertIntoTransactionIDMap(id thor.Bytes32, e *entry.TransactionEntry) error {
	raw, err := rlp.EncodeToBytes(e)
	if err != nil {
		return errors.Wrap(err, "encode transaction")
	}
	data := snappy.Encode(nil, raw)
	if err := w.p.Put(trxBucket.Key(id[:]), data); err != nil {
		return errors.Wrap(err, "put transaction")
	}
	w.after(func() { w.db.trxs.Set(id[:], data) })
	return nil
}

func (w *writer) EraseFromTransactionIDMap(id thor.Bytes32) error {
	w.after(func() { w.db.trxs.Del(id[:]) })
	return w.del(trxBucket, id[:])
}

func (w *writer) InsertIntoContractIDMap(id thor.Address, e *entry.ContractEntry) error {
	return w.put(contractBucket, id[:], e)
}

func (w *writer) InsertIntoContractNameMap(name string, id thor.Address) error {
	return w.put(contractNameBucket, []byte(name), id)
}

func (w *writer) EraseFromContractIDMap(id thor.Address) error {
	return w.del(contractBucket, id[:])
}

func (w *writer) EraseFromContractNameMap(name string) error {
	return w.del(contractNameBucket, []byte(name))
}

func (w *writer) InsertIntoContractStorageMap(key entry.StorageKey, e *entry.ContractStorageEntry) error {
	return w.put(storageBucket, storageKey(key), e)
}

func (w *writer) EraseFromContractStorageMap(key entry.StorageKey) error {
	return w.del(storageBucket, storageKey(key))
}

func (w *writer) InsertIntoContractValueMap(id thor.Bytes32, e *entry.ContractValueEntry) error {
	return w.put(valueBucket, id[:], e)
}

func (w *writer) EraseFromContractValueMap(id thor.Bytes32) error {
	return w.del(valueBucket, id[:])
}

func (w *writer) InsertIntoContractStorageIndex(key entry.StorageKey, ids []thor.Bytes32) error {
	return w.put(storageIndexBucket, storageKey(key), ids)
}

func (w *writer) EraseFromContractStorageIndex(key entry.StorageKey) error {
	return w.del(storageIndexBucket, storageKey(key))
}
