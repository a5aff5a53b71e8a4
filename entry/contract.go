// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entry

import (
	"slices"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/vechain/ledger/errs"
	"github.com/vechain/ledger/thor"
)

// Code is the bytecode of a contract and the names of its entry points.
type Code struct {
	Bytecode    []byte       `json:"bytecode"`
	CodeHash    thor.Bytes32 `json:"code_hash"`
	ABIs        []string     `json:"abis"`         // chain-callable
	OfflineABIs []string     `json:"offline_abis"` // offline-callable
	Events      []string     `json:"events"`       // event handlers
}

// NewCode creates code with the hash computed and the name sets normalized.
func NewCode(bytecode []byte, abis, offlineABIs, events []string) Code {
	return Code{
		Bytecode:    slices.Clone(bytecode),
		CodeHash:    thor.Keccak256(bytecode),
		ABIs:        normalizeNames(abis),
		OfflineABIs: normalizeNames(offlineABIs),
		Events:      normalizeNames(events),
	}
}

func normalizeNames(names []string) []string {
	out := append([]string{}, names...)
	slices.Sort(out)
	return slices.Compact(out)
}

// Validate verifies the code hash.
func (c *Code) Validate() error {
	if thor.Keccak256(c.Bytecode) != c.CodeHash {
		return errs.New(errs.InvalidArgument, "code: hash mismatch")
	}
	return nil
}

// HasABI returns whether the method is chain-callable.
func (c *Code) HasABI(method string) bool {
	_, found := slices.BinarySearch(c.ABIs, method)
	return found
}

// HasOfflineABI returns whether the method is offline-callable.
func (c *Code) HasOfflineABI(method string) bool {
	_, found := slices.BinarySearch(c.OfflineABIs, method)
	return found
}

// HasEvent returns whether the contract handles the event.
func (c *Code) HasEvent(event string) bool {
	_, found := slices.BinarySearch(c.Events, event)
	return found
}

// Copy returns a deep copy.
func (c Code) Copy() Code {
	c.Bytecode = slices.Clone(c.Bytecode)
	c.ABIs = slices.Clone(c.ABIs)
	c.OfflineABIs = slices.Clone(c.OfflineABIs)
	c.Events = slices.Clone(c.Events)
	return c
}

type codeBody Code

// DecodeRLP implements rlp.Decoder, the code hash is verified on load.
func (c *Code) DecodeRLP(s *rlp.Stream) error {
	var body codeBody
	if err := s.Decode(&body); err != nil {
		return err
	}
	code := Code(body)
	if err := code.Validate(); err != nil {
		return err
	}
	*c = code
	return nil
}

// ContractEntry is a registered contract.
type ContractEntry struct {
	ID           thor.Address   `json:"id"`
	Name         string         `json:"name"`
	Owner        thor.PublicKey `json:"owner"`
	Code         Code           `json:"code"`
	Description  string         `json:"description"`
	RegisteredAt uint64         `json:"registered_at"`
}

// Clone returns a deep copy.
func (c *ContractEntry) Clone() *ContractEntry {
	if c == nil {
		return nil
	}
	cpy := *c
	cpy.Code = c.Code.Copy()
	return &cpy
}

// SanityCheck checks the invariants of the entry.
func (c *ContractEntry) SanityCheck() error {
	if !IsValidContractName(c.Name) {
		return errs.New(errs.InvalidArgument, "contract: invalid name %q", c.Name)
	}
	if !c.Owner.IsValid() {
		return errs.New(errs.InvalidArgument, "contract: invalid owner key")
	}
	return c.Code.Validate()
}

// NewContractID derives the id of a contract registered by the given operation of a transaction.
func NewContractID(trxID thor.Bytes32, opIndex uint32) thor.Address {
	data, _ := rlp.EncodeToBytes([]interface{}{trxID, opIndex})
	return thor.AddressOf(data)
}

// LookupContractByName finds the contract of the given name.
func LookupContractByName(db ContractDB, name string) (*ContractEntry, error) {
	id, ok, err := db.LookupContractIDByName(name)
	if err != nil || !ok {
		return nil, err
	}
	return db.LookupContractByID(id)
}

// StoreContract stores the contract and keeps its name index consistent.
func StoreContract(db ContractDB, c *ContractEntry) error {
	prev, err := db.LookupContractByID(c.ID)
	if err != nil {
		return err
	}
	if prev != nil && prev.Name != c.Name {
		if err := db.EraseFromContractNameMap(prev.Name); err != nil {
			return err
		}
	}
	if err := db.InsertIntoContractIDMap(c.ID, c); err != nil {
		return err
	}
	return db.InsertIntoContractNameMap(c.Name, c.ID)
}

// RemoveContract erases the contract and its name index.
func RemoveContract(db ContractDB, id thor.Address) error {
	prev, err := db.LookupContractByID(id)
	if err != nil || prev == nil {
		return err
	}
	if err := db.EraseFromContractNameMap(prev.Name); err != nil {
		return err
	}
	return db.EraseFromContractIDMap(id)
}
