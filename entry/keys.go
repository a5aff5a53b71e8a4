// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entry

import (
	"sort"

	"github.com/vechain/ledger/thor"
)

// KeyAt is a key effective since Time.
type KeyAt struct {
	Time uint64         `json:"time"`
	Key  thor.PublicKey `json:"key"`
}

// KeyHistory is a time ordered list of keys, the latest wins.
type KeyHistory []KeyAt

// Latest returns the latest key, the null key if empty.
func (h KeyHistory) Latest() thor.PublicKey {
	if len(h) == 0 {
		return thor.PublicKey{}
	}
	return h[len(h)-1].Key
}

// At returns the key effective at the given time.
func (h KeyHistory) At(time uint64) (thor.PublicKey, bool) {
	i := sort.Search(len(h), func(i int) bool { return h[i].Time > time })
	if i == 0 {
		return thor.PublicKey{}, false
	}
	return h[i-1].Key, true
}

// Set returns a new history with key effective since time.
// A key set at an existing time replaces it.
func (h KeyHistory) Set(time uint64, key thor.PublicKey) KeyHistory {
	i := sort.Search(len(h), func(i int) bool { return h[i].Time >= time })
	out := make(KeyHistory, 0, len(h)+1)
	out = append(out, h[:i]...)
	out = append(out, KeyAt{time, key})
	if i < len(h) && h[i].Time == time {
		i++
	}
	return append(out, h[i:]...)
}

// Copy returns a copy.
func (h KeyHistory) Copy() KeyHistory {
	if h == nil {
		return nil
	}
	return append(KeyHistory(nil), h...)
}

// isOrdered returns whether times are strictly increasing.
func (h KeyHistory) isOrdered() bool {
	for i := 1; i < len(h); i++ {
		if h[i].Time <= h[i-1].Time {
			return false
		}
	}
	return true
}
