// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/vechain/ledger/block"
	"github.com/vechain/ledger/cache"
	"github.com/vechain/ledger/kv"
	"github.com/vechain/ledger/thor"
)

var errNotFound = errors.New("not found")

// Repository stores blocks and the canonical number index.
//
// It's thread-safe.
type Repository struct {
	store   kv.Store
	genesis *block.Block
	blocks  *cache.LRU

	mu   sync.RWMutex
	best *block.Header
}

// NewRepository opens the block repository, saving genesis if the store is empty.
func NewRepository(store kv.Store, genesis *block.Block, cacheSize int) (*Repository, error) {
	if genesis.Header().Number() != 0 {
		return nil, errors.New("genesis number != 0")
	}
	if len(genesis.Transactions()) != 0 {
		return nil, errors.New("genesis block should not have transactions")
	}
	if cacheSize <= 0 {
		cacheSize = 256
	}
	blocks, err := cache.NewLRU(cacheSize)
	if err != nil {
		return nil, err
	}
	r := &Repository{store: store, genesis: genesis, blocks: blocks}

	genesisID := genesis.Header().ID()
	props := propBucket.NewStore(store)
	bestID, err := loadID(props, bestBlockIDKey)
	switch {
	case err == nil:
		canonical, err := r.CanonicalID(0)
		if err != nil {
			return nil, errors.Wrap(err, "load genesis id")
		}
		if canonical != genesisID {
			return nil, errors.New("genesis mismatch")
		}
		best, err := r.GetBlock(bestID)
		if err != nil {
			return nil, errors.Wrap(err, "load best block")
		}
		r.best = best.Header()
	case store.IsNotFound(err):
		if err := r.Append(genesis); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Wrap(err, "load best block id")
	}
	return r, nil
}

// GenesisBlock returns the genesis block.
func (r *Repository) GenesisBlock() *block.Block {
	return r.genesis
}

// BestBlock returns the header of the canonical head.
func (r *Repository) BestBlock() *block.Header {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.best
}

// Append saves blk and makes it the canonical head.
func (r *Repository) Append(blk *block.Block) error {
	id := blk.Header().ID()
	bulk := r.store.Bulk()
	if err := saveBlock(bulk, blk); err != nil {
		return err
	}
	if err := numberBucket.NewPutter(bulk).Put(numberKey(blk.Header().Number()), id[:]); err != nil {
		return err
	}
	if err := propBucket.NewPutter(bulk).Put(bestBlockIDKey, id[:]); err != nil {
		return err
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "write block")
	}
	r.blocks.Add(id, blk)

	r.mu.Lock()
	r.best = blk.Header()
	r.mu.Unlock()
	metricBlockRepositoryCounter().AddWithLabel(1, map[string]string{"type": "write"})
	return nil
}

// Truncate drops the canonical head, making its parent the new head.
// The dropped block stays retrievable by id.
func (r *Repository) Truncate() (*block.Header, error) {
	head := r.BestBlock()
	if head.Number() == 0 {
		return nil, errors.New("cannot truncate genesis")
	}
	parent, err := r.GetBlock(head.Previous())
	if err != nil {
		return nil, errors.Wrap(err, "load parent")
	}
	parentID := parent.Header().ID()

	bulk := r.store.Bulk()
	if err := numberBucket.NewPutter(bulk).Delete(numberKey(head.Number())); err != nil {
		return nil, err
	}
	if err := propBucket.NewPutter(bulk).Put(bestBlockIDKey, parentID[:]); err != nil {
		return nil, err
	}
	if err := bulk.Write(); err != nil {
		return nil, errors.Wrap(err, "write truncate")
	}

	r.mu.Lock()
	r.best = parent.Header()
	r.mu.Unlock()
	return parent.Header(), nil
}

// GetBlock returns the block of the id.
func (r *Repository) GetBlock(id thor.Hash160) (*block.Block, error) {
	v, err := r.blocks.GetOrLoad(id, func(interface{}) (interface{}, error) {
		metricBlockRepositoryCounter().AddWithLabel(1, map[string]string{"type": "read"})
		return loadBlock(r.store, id)
	})
	if err != nil {
		if r.store.IsNotFound(err) {
			return nil, errNotFound
		}
		return nil, err
	}
	return v.(*block.Block), nil
}

// CanonicalID returns the id of the canonical block at num.
func (r *Repository) CanonicalID(num uint32) (thor.Hash160, error) {
	id, err := loadID(numberBucket.NewGetter(r.store), numberKey(num))
	if err != nil && r.store.IsNotFound(err) {
		return id, errNotFound
	}
	return id, err
}

// IsNotFound returns whether err is a not found error.
func (r *Repository) IsNotFound(err error) bool {
	return err == errNotFound || r.store.IsNotFound(err)
}
