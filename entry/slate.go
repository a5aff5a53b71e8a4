// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entry

import (
	"encoding/binary"
	"slices"

	"github.com/vechain/ledger/errs"
)

// SlateEntry is a set of delegates balances vote for.
type SlateEntry struct {
	ID        SlateID     `json:"id"`
	Delegates []AccountID `json:"delegates"`
}

// NewSlateEntry creates the slate of the given delegates.
func NewSlateEntry(delegates []AccountID) *SlateEntry {
	ids := normalizeSlate(delegates)
	return &SlateEntry{SlateIDOf(ids), ids}
}

func normalizeSlate(delegates []AccountID) []AccountID {
	ids := slices.Clone(delegates)
	slices.Sort(ids)
	return slices.Compact(ids)
}

// SlateIDOf derives the id of a slate from its sorted delegates.
// The id is never zero.
func SlateIDOf(sorted []AccountID) SlateID {
	hash := mustHash(sorted)
	id := SlateID(binary.BigEndian.Uint64(hash[:8]))
	if id == 0 {
		id = 1
	}
	return id
}

// Clone returns a deep copy.
func (s *SlateEntry) Clone() *SlateEntry {
	if s == nil {
		return nil
	}
	return &SlateEntry{s.ID, slices.Clone(s.Delegates)}
}

// SanityCheck checks that delegates are sorted, unique and bounded.
func (s *SlateEntry) SanityCheck(maxSize int) error {
	if len(s.Delegates) == 0 {
		return errs.New(errs.InvalidArgument, "slate: empty")
	}
	if len(s.Delegates) > maxSize {
		return errs.New(errs.InvalidArgument, "slate: %d delegates > %d", len(s.Delegates), maxSize)
	}
	for i := 1; i < len(s.Delegates); i++ {
		if s.Delegates[i] <= s.Delegates[i-1] {
			return errs.New(errs.InvalidArgument, "slate: delegates not sorted")
		}
	}
	if s.ID != SlateIDOf(s.Delegates) {
		return errs.New(errs.InvalidArgument, "slate: id mismatch")
	}
	return nil
}

// StoreSlate stores the slate by its id.
func StoreSlate(db SlateDB, s *SlateEntry) error {
	return db.InsertIntoSlateIDMap(s.ID, s)
}

// RemoveSlate erases the slate.
func RemoveSlate(db SlateDB, id SlateID) error {
	return db.EraseFromSlateIDMap(id)
}
