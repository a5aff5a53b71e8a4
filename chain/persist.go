// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/vechain/ledger/block"
	"github.com/vechain/ledger/kv"
	"github.com/vechain/ledger/thor"
)

const (
	blockBucket  = kv.Bucket("b") // block id => block
	numberBucket = kv.Bucket("n") // block number => canonical block id
	propBucket   = kv.Bucket("p") // named block ids
)

var bestBlockIDKey = []byte("best-block-id")

func numberKey(num uint32) []byte {
	var k [4]byte
	binary.BigEndian.PutUint32(k[:], num)
	return k[:]
}

func saveRLP(w kv.Putter, key []byte, val interface{}) error {
	data, err := rlp.EncodeToBytes(val)
	if err != nil {
		return err
	}
	return w.Put(key, data)
}

func loadRLP(r kv.Getter, key []byte, val interface{}) error {
	data, err := r.Get(key)
	if err != nil {
		return err
	}
	return rlp.DecodeBytes(data, val)
}

func saveBlock(w kv.Putter, blk *block.Block) error {
	id := blk.Header().ID()
	return saveRLP(blockBucket.NewPutter(w), id[:], blk)
}

func loadBlock(r kv.Getter, id thor.Hash160) (*block.Block, error) {
	var blk block.Block
	if err := loadRLP(blockBucket.NewGetter(r), id[:], &blk); err != nil {
		return nil, err
	}
	return &blk, nil
}

func loadID(r kv.Getter, key []byte) (thor.Hash160, error) {
	var id thor.Hash160
	data, err := r.Get(key)
	if err != nil {
		return id, err
	}
	copy(id[:], data)
	return id, nil
}
