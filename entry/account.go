// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entry

import (
	"slices"

	"github.com/vechain/ledger/errs"
	"github.com/vechain/ledger/thor"
)

// MaxPayRate is the max delegate pay rate, in percent.
const MaxPayRate = 100

// AccountEntry is a named account.
type AccountEntry struct {
	ID               AccountID      `json:"id"`
	Name             string         `json:"name"`
	PublicData       string         `json:"public_data"`
	OwnerKey         thor.PublicKey `json:"owner_key"`
	ActiveKeyHistory KeyHistory     `json:"active_key_history"`
	RegistrationDate uint64         `json:"registration_date"`
	LastUpdate       uint64         `json:"last_update"`
	DelegateInfo     *DelegateStats `json:"delegate_info" rlp:"nil"`
}

// DelegateStats is present iff the account is a delegate.
type DelegateStats struct {
	VotesFor             uint64     `json:"votes_for"`
	PayRate              uint8      `json:"pay_rate"`
	PayBalance           uint64     `json:"pay_balance"`
	TotalPaid            uint64     `json:"total_paid"`
	SigningKeyHistory    KeyHistory `json:"signing_key_history"`
	BlocksProduced       uint32     `json:"blocks_produced"`
	BlocksMissed         uint32     `json:"blocks_missed"`
	LastBlockNumProduced uint32     `json:"last_block_num_produced"`
}

// ActiveKey returns the current active key.
func (a *AccountEntry) ActiveKey() thor.PublicKey {
	return a.ActiveKeyHistory.Latest()
}

// IsDelegate returns whether the account is a delegate.
func (a *AccountEntry) IsDelegate() bool {
	return a.DelegateInfo != nil
}

// IsRetracted returns whether the account gave up its active key.
func (a *AccountEntry) IsRetracted() bool {
	return a.ActiveKey().IsNull()
}

// SigningKey returns the current block signing key of a delegate.
func (a *AccountEntry) SigningKey() thor.PublicKey {
	if a.DelegateInfo == nil {
		return thor.PublicKey{}
	}
	return a.DelegateInfo.SigningKeyHistory.Latest()
}

// VoteKey returns the vote ordering key, and whether the account belongs to the vote set.
func (a *AccountEntry) VoteKey() (VoteKey, bool) {
	if a.DelegateInfo == nil || a.IsRetracted() {
		return VoteKey{}, false
	}
	return VoteKey{a.DelegateInfo.VotesFor, a.ID}, true
}

// Clone returns a deep copy.
func (a *AccountEntry) Clone() *AccountEntry {
	if a == nil {
		return nil
	}
	cpy := *a
	cpy.ActiveKeyHistory = a.ActiveKeyHistory.Copy()
	if a.DelegateInfo != nil {
		info := *a.DelegateInfo
		info.SigningKeyHistory = a.DelegateInfo.SigningKeyHistory.Copy()
		cpy.DelegateInfo = &info
	}
	return &cpy
}

// SanityCheck checks the invariants of the entry.
func (a *AccountEntry) SanityCheck() error {
	if a.ID == 0 {
		return errs.New(errs.InvalidArgument, "account: zero id")
	}
	if !IsValidAccountName(a.Name) {
		return errs.New(errs.InvalidArgument, "account: invalid name %q", a.Name)
	}
	if len(a.PublicData) > maxPublicDataLength {
		return errs.New(errs.InvalidArgument, "account: public data too long")
	}
	if len(a.ActiveKeyHistory) == 0 {
		return errs.New(errs.InvalidArgument, "account: no active key")
	}
	if !a.ActiveKeyHistory.isOrdered() {
		return errs.New(errs.InvalidArgument, "account: active key history not ordered")
	}
	if info := a.DelegateInfo; info != nil {
		if info.PayRate > MaxPayRate {
			return errs.New(errs.InvalidArgument, "account: pay rate %d > %d", info.PayRate, MaxPayRate)
		}
		if len(info.SigningKeyHistory) == 0 {
			return errs.New(errs.InvalidArgument, "account: delegate without signing key")
		}
		if !info.SigningKeyHistory.isOrdered() {
			return errs.New(errs.InvalidArgument, "account: signing key history not ordered")
		}
	}
	return nil
}

// indexedAddresses returns the distinct addresses the address map holds for the account.
func (a *AccountEntry) indexedAddresses() []thor.Address {
	addrs := make([]thor.Address, 0, 3)
	for _, key := range []thor.PublicKey{a.OwnerKey, a.ActiveKey(), a.SigningKey()} {
		if key.IsNull() {
			continue
		}
		if addr := key.Address(); !slices.Contains(addrs, addr) {
			addrs = append(addrs, addr)
		}
	}
	return addrs
}

// VoteKey orders delegates by votes, the most voted first, then by id.
type VoteKey struct {
	Votes uint64
	ID    AccountID
}

// Less returns whether k is ordered before other.
func (k VoteKey) Less(other VoteKey) bool {
	if k.Votes != other.Votes {
		return k.Votes > other.Votes
	}
	return k.ID < other.ID
}

// LookupAccountByName finds the account of the given name.
func LookupAccountByName(db AccountDB, name string) (*AccountEntry, error) {
	id, ok, err := db.LookupAccountIDByName(name)
	if err != nil || !ok {
		return nil, err
	}
	return db.LookupAccountByID(id)
}

// LookupAccountByAddress finds the account that holds the key of the given address.
func LookupAccountByAddress(db AccountDB, addr thor.Address) (*AccountEntry, error) {
	id, ok, err := db.LookupAccountIDByAddress(addr)
	if err != nil || !ok {
		return nil, err
	}
	return db.LookupAccountByID(id)
}

// StoreAccount stores the account and keeps its secondary indexes consistent.
// Index entries of the previous version are erased only if no longer implied
// by the new version.
func StoreAccount(db AccountDB, a *AccountEntry) error {
	prev, err := db.LookupAccountByID(a.ID)
	if err != nil {
		return err
	}

	addrs := a.indexedAddresses()
	voteKey, voting := a.VoteKey()

	if prev != nil {
		if prev.Name != a.Name {
			if err := db.EraseFromAccountNameMap(prev.Name); err != nil {
				return err
			}
		}
		for _, addr := range prev.indexedAddresses() {
			if !slices.Contains(addrs, addr) {
				if err := db.EraseFromAccountAddressMap(addr); err != nil {
					return err
				}
			}
		}
		if prevKey, ok := prev.VoteKey(); ok && (!voting || prevKey != voteKey) {
			if err := db.EraseFromVoteSet(prevKey); err != nil {
				return err
			}
		}
	}

	if err := db.InsertIntoAccountIDMap(a.ID, a); err != nil {
		return err
	}
	if err := db.InsertIntoAccountNameMap(a.Name, a.ID); err != nil {
		return err
	}
	for _, addr := range addrs {
		if err := db.InsertIntoAccountAddressMap(addr, a.ID); err != nil {
			return err
		}
	}
	if voting {
		return db.InsertIntoVoteSet(voteKey)
	}
	return nil
}

// RemoveAccount erases the account and every index it populated.
func RemoveAccount(db AccountDB, id AccountID) error {
	prev, err := db.LookupAccountByID(id)
	if err != nil || prev == nil {
		return err
	}
	if err := db.EraseFromAccountNameMap(prev.Name); err != nil {
		return err
	}
	for _, addr := range prev.indexedAddresses() {
		if err := db.EraseFromAccountAddressMap(addr); err != nil {
			return err
		}
	}
	if key, ok := prev.VoteKey(); ok {
		if err := db.EraseFromVoteSet(key); err != nil {
			return err
		}
	}
	return db.EraseFromAccountIDMap(id)
}
