// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package chaindb implements the committed ledger over a kv store.
package chaindb

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"github.com/qianbin/directcache"
	"github.com/vechain/ledger/cache"
	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/kv"
	"github.com/vechain/ledger/log"
	"github.com/vechain/ledger/thor"
)

var logger = log.WithContext("pkg", "chaindb")

// Version is the version of the stored data layout.
const Version = 1

var _ entry.ChainInterface = (*ChainDB)(nil)

// Options options for the committed store.
type Options struct {
	EntryCacheSize int // count of decoded accounts and assets kept
	TrxCacheSize   int // bytes of encoded transactions kept
}

// ChainDB is the committed ledger. Writes made through its ledger interface
// methods go straight to the store, Apply writes a whole change set atomically.
type ChainDB struct {
	writer
	store    kv.Store
	accounts *cache.LRU
	assets   *cache.LRU
	trxs     *directcache.Cache
}

// New opens the committed ledger on store.
func New(store kv.Store, opts Options) (*ChainDB, error) {
	if opts.EntryCacheSize <= 0 {
		opts.EntryCacheSize = 4096
	}
	if opts.TrxCacheSize <= 0 {
		opts.TrxCacheSize = 16 * 1024 * 1024
	}
	accounts, err := cache.NewLRU(opts.EntryCacheSize)
	if err != nil {
		return nil, err
	}
	assets, err := cache.NewLRU(opts.EntryCacheSize)
	if err != nil {
		return nil, err
	}
	db := &ChainDB{
		store:    store,
		accounts: accounts,
		assets:   assets,
		trxs:     directcache.New(opts.TrxCacheSize),
	}
	db.writer = writer{db: db, p: store}

	ver, err := entry.GetUint64Property(db, entry.PropertyDatabaseVersion)
	if err != nil {
		return nil, err
	}
	switch ver {
	case 0:
		if err := entry.SetUint64Property(db, entry.PropertyDatabaseVersion, Version); err != nil {
			return nil, err
		}
	case Version:
	default:
		return nil, fmt.Errorf("unsupported database version %d, want %d", ver, Version)
	}
	return db, nil
}

// Changes is a change set that can be replayed into a ledger interface.
type Changes interface {
	ApplyChangesTo(db entry.ChainInterface) error
}

// Apply writes changes atomically.
func (db *ChainDB) Apply(changes Changes) error {
	bulk := db.store.Bulk()
	w := &writer{db: db, p: bulk, bulk: true}
	if err := changes.ApplyChangesTo(&bulkDB{db, w}); err != nil {
		return err
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "write bulk")
	}
	for _, fn := range w.deferred {
		fn()
	}
	db.reportCacheStats()
	return nil
}

// bulkDB reads the committed ledger and writes into a bulk.
type bulkDB struct {
	*ChainDB
	*writer
}

func (db *ChainDB) reportCacheStats() {
	for name, c := range map[string]*cache.LRU{"account": db.accounts, "asset": db.assets} {
		changed, hit, miss := c.Stats().Stats()
		metricCacheHitMiss().SetWithLabel(hit, map[string]string{"type": name, "event": "hit"})
		metricCacheHitMiss().SetWithLabel(miss, map[string]string{"type": name, "event": "miss"})
		if changed {
			logger.Debug("cache stats", "type", name, "hit", hit, "miss", miss)
		}
	}
}

// get decodes the value of key into v. It returns false if not found.
func (db *ChainDB) get(b kv.Bucket, key []byte, v interface{}) (bool, error) {
	data, err := db.store.Get(b.Key(key))
	if err != nil {
		if db.store.IsNotFound(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "get %s", b)
	}
	if err := rlp.DecodeBytes(data, v); err != nil {
		return false, errors.Wrapf(err, "decode %s", b)
	}
	return true, nil
}

func (db *ChainDB) has(b kv.Bucket, key []byte) (bool, error) {
	has, err := db.store.Has(b.Key(key))
	return has, errors.Wrapf(err, "has %s", b)
}

func getEntry[T any](db *ChainDB, b kv.Bucket, key []byte) (*T, error) {
	var v T
	ok, err := db.get(b, key, &v)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

func getID[T any](db *ChainDB, b kv.Bucket, key []byte) (T, bool, error) {
	var v T
	ok, err := db.get(b, key, &v)
	return v, ok, err
}

func (db *ChainDB) LookupAccountByID(id entry.AccountID) (*entry.AccountEntry, error) {
	v, err := db.accounts.GetOrLoad(id, func(interface{}) (interface{}, error) {
		return getEntry[entry.AccountEntry](db, accountBucket, uint64Key(uint64(id)))
	})
	if err != nil {
		return nil, err
	}
	return v.(*entry.AccountEntry).Clone(), nil
}

func (db *ChainDB) LookupAccountIDByName(name string) (entry.AccountID, bool, error) {
	return getID[entry.AccountID](db, accountNameBucket, []byte(name))
}

func (db *ChainDB) LookupAccountIDByAddress(addr thor.Address) (entry.AccountID, bool, error) {
	return getID[entry.AccountID](db, accountAddrBucket, addr[:])
}

func (db *ChainDB) HasVote(key entry.VoteKey) (bool, error) {
	return db.has(voteBucket, voteKey(key))
}

func (db *ChainDB) LookupAssetByID(id entry.AssetID) (*entry.AssetEntry, error) {
	v, err := db.assets.GetOrLoad(id, func(interface{}) (interface{}, error) {
		return getEntry[entry.AssetEntry](db, assetBucket, uint64Key(uint64(id)))
	})
	if err != nil {
		return nil, err
	}
	return v.(*entry.AssetEntry).Clone(), nil
}

func (db *ChainDB) LookupAssetIDBySymbol(symbol string) (entry.AssetID, bool, error) {
	return getID[entry.AssetID](db, assetSymbolBucket, []byte(symbol))
}

func (db *ChainDB) LookupBalanceByID(id thor.Address) (*entry.BalanceEntry, error) {
	return getEntry[entry.BalanceEntry](db, balanceBucket, id[:])
}

func (db *ChainDB) LookupSlateByID(id entry.SlateID) (*entry.SlateEntry, error) {
	return getEntry[entry.SlateEntry](db, slateBucket, uint64Key(uint64(id)))
}

func (db *ChainDB) LookupSlotByTimestamp(ts uint64) (*entry.SlotEntry, error) {
	return getEntry[entry.SlotEntry](db, slotBucket, uint64Key(ts))
}

func (db *ChainDB) LookupPropertyByID(id entry.PropertyID) (*entry.PropertyEntry, error) {
	return getEntry[entry.PropertyEntry](db, propertyBucket, []byte{byte(id)})
}

// LookupTransactionByID loads the transaction, the encoded form is cached.
func (db *ChainDB) LookupTransactionByID(id thor.Bytes32) (*entry.TransactionEntry, error) {
	var data []byte
	if !db.trxs.AdvGet(id[:], func(val []byte) { data = append([]byte(nil), val...) }, false) {
		var err error
		data, err = db.store.Get(trxBucket.Key(id[:]))
		if err != nil {
			if db.store.IsNotFound(err) {
				return nil, nil
			}
			return nil, errors.Wrap(err, "get transaction")
		}
		db.trxs.Set(id[:], data)
	}
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, errors.Wrap(err, "decompress transaction")
	}
	var e entry.TransactionEntry
	if err := rlp.DecodeBytes(raw, &e); err != nil {
		return nil, errors.Wrap(err, "decode transaction")
	}
	return &e, nil
}

func (db *ChainDB) LookupContractByID(id thor.Address) (*entry.ContractEntry, error) {
	return getEntry[entry.ContractEntry](db, contractBucket, id[:])
}

func (db *ChainDB) LookupContractIDByName(name string) (thor.Address, bool, error) {
	return getID[thor.Address](db, contractNameBucket, []byte(name))
}

func (db *ChainDB) LookupContractStorage(key entry.StorageKey) (*entry.ContractStorageEntry, error) {
	return getEntry[entry.ContractStorageEntry](db, storageBucket, storageKey(key))
}

func (db *ChainDB) LookupContractValueByID(id thor.Bytes32) (*entry.ContractValueEntry, error) {
	return getEntry[entry.ContractValueEntry](db, valueBucket, id[:])
}

func (db *ChainDB) LookupContractStorageIndex(key entry.StorageKey) ([]thor.Bytes32, error) {
	ids, ok, err := getID[[]thor.Bytes32](db, storageIndexBucket, storageKey(key))
	if err != nil || !ok {
		return nil, err
	}
	if ids == nil {
		ids = []thor.Bytes32{}
	}
	return ids, nil
}

// TopDelegates returns up to n delegates with the most votes.
func (db *ChainDB) TopDelegates(n int) ([]entry.VoteKey, error) {
	it := voteBucket.NewStore(db.store).Iterate(kv.Range{})
	defer it.Release()

	var keys []entry.VoteKey
	for len(keys) < n && it.Next() {
		keys = append(keys, decodeVoteKey(it.Key()))
	}
	if err := it.Error(); err != nil {
		return nil, errors.Wrap(err, "iterate votes")
	}
	return keys, nil
}
