// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entry

import "github.com/vechain/ledger/thor"

// SlotEntry assigns a block production slot to a delegate.
// BlockID is nil if the slot was missed.
type SlotEntry struct {
	Timestamp  uint64        `json:"timestamp"`
	DelegateID AccountID     `json:"delegate_id"`
	BlockID    *thor.Hash160 `json:"block_id" rlp:"nil"`
}

// Missed returns whether no block was produced in the slot.
func (s *SlotEntry) Missed() bool {
	return s.BlockID == nil
}

// Clone returns a deep copy.
func (s *SlotEntry) Clone() *SlotEntry {
	if s == nil {
		return nil
	}
	cpy := *s
	if s.BlockID != nil {
		id := *s.BlockID
		cpy.BlockID = &id
	}
	return &cpy
}

// StoreSlot stores the slot by its timestamp.
func StoreSlot(db SlotDB, s *SlotEntry) error {
	return db.InsertIntoSlotTimestampMap(s.Timestamp, s)
}

// RemoveSlot erases the slot.
func RemoveSlot(db SlotDB, ts uint64) error {
	return db.EraseFromSlotTimestampMap(ts)
}
