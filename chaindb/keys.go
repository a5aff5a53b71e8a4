// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chaindb

import (
	"encoding/binary"

	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/kv"
	"github.com/vechain/ledger/thor"
)

// one bucket per index. Prefixes must not be prefixes of each other.
const (
	accountBucket      = kv.Bucket("a")
	accountNameBucket  = kv.Bucket("n")
	accountAddrBucket  = kv.Bucket("d")
	voteBucket         = kv.Bucket("v")
	assetBucket        = kv.Bucket("s")
	assetSymbolBucket  = kv.Bucket("y")
	balanceBucket      = kv.Bucket("b")
	slateBucket        = kv.Bucket("l")
	slotBucket         = kv.Bucket("t")
	propertyBucket     = kv.Bucket("p")
	trxBucket          = kv.Bucket("x")
	contractBucket     = kv.Bucket("c")
	contractNameBucket = kv.Bucket("m")
	storageBucket      = kv.Bucket("g")
	valueBucket        = kv.Bucket("e")
	storageIndexBucket = kv.Bucket("i")
)

func uint64Key(v uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, v)
}

// voteKey orders the vote bucket the way delegates are ranked.
func voteKey(k entry.VoteKey) []byte {
	key := binary.BigEndian.AppendUint64(make([]byte, 0, 16), ^k.Votes)
	return binary.BigEndian.AppendUint64(key, uint64(k.ID))
}

func decodeVoteKey(key []byte) entry.VoteKey {
	return entry.VoteKey{
		Votes: ^binary.BigEndian.Uint64(key),
		ID:    entry.AccountID(binary.BigEndian.Uint64(key[8:])),
	}
}

func storageKey(k entry.StorageKey) []byte {
	return append(append(make([]byte, 0, thor.AddressLength+len(k.Name)), k.ContractID[:]...), k.Name...)
}
