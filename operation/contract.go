// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operation

import (
	"bytes"
	"slices"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/errs"
	"github.com/vechain/ledger/thor"
	"github.com/vechain/ledger/tx"
)

// RegisterContract registers contract code under a name.
type RegisterContract struct {
	Name        string         `json:"name"`
	Owner       thor.PublicKey `json:"owner"`
	Code        entry.Code     `json:"code"`
	InitCost    uint64         `json:"init_cost"`
	Description string         `json:"description"`
}

func (op *RegisterContract) Type() tx.OpType { return TypeRegisterContract }

func (op *RegisterContract) Evaluate(s State) error {
	db := s.DB()
	c := &entry.ContractEntry{
		ID:           entry.NewContractID(s.TrxID(), uint32(s.OpIndex())),
		Name:         op.Name,
		Owner:        op.Owner,
		Code:         op.Code.Copy(),
		Description:  op.Description,
		RegisteredAt: s.Now(),
	}
	if err := c.SanityCheck(); err != nil {
		return err
	}
	if !s.CheckSignature(op.Owner.Address()) {
		return errs.New(errs.Unauthorized, "contract %s: owner not signed", op.Name)
	}
	if _, ok, err := db.LookupContractIDByName(op.Name); err != nil {
		return err
	} else if ok {
		return errs.New(errs.DuplicateRegistration, "contract name %q", op.Name)
	}
	if prev, err := db.LookupContractByID(c.ID); err != nil {
		return err
	} else if prev != nil {
		return errs.New(errs.DuplicateRegistration, "contract %v", c.ID)
	}
	if err := s.AddRequiredFees(op.InitCost); err != nil {
		return err
	}
	return entry.StoreContract(db, c)
}

// CallContract requests the execution of a contract method.
// The effect of the call arrives later in result transactions.
type CallContract struct {
	Caller     thor.PublicKey `json:"caller"`
	ContractID thor.Address   `json:"contract_id"`
	Method     string         `json:"method"`
	Args       string         `json:"args"`
	Costs      uint64         `json:"costs"`
}

func (op *CallContract) Type() tx.OpType { return TypeCallContract }

func (op *CallContract) Evaluate(s State) error {
	c, err := lookupContract(s, op.ContractID)
	if err != nil {
		return err
	}
	if !c.Code.HasABI(op.Method) {
		return errs.New(errs.InvalidArgument, "contract %s has no method %q", c.Name, op.Method)
	}
	if !s.CheckSignature(op.Caller.Address()) {
		return errs.New(errs.Unauthorized, "contract %s: caller not signed", c.Name)
	}
	return s.AddRequiredFees(op.Costs)
}

// StorageChange is the change of one named storage of a contract.
// A nil Before means the storage was absent, a nil After means it is deleted.
type StorageChange struct {
	Name   string             `json:"name"`
	Before *entry.StorageData `json:"before" rlp:"nil"`
	After  *entry.StorageData `json:"after" rlp:"nil"`
}

// Storage applies the storage changes produced by a contract execution.
type Storage struct {
	ContractID thor.Address    `json:"contract_id"`
	Changes    []StorageChange `json:"changes"`
}

func (op *Storage) Type() tx.OpType { return TypeStorage }

func (op *Storage) Evaluate(s State) error {
	if !s.Trx().ResultType().IsResult() {
		return errs.New(errs.Unauthorized, "storage changes are only accepted in result transactions")
	}
	if _, err := lookupContract(s, op.ContractID); err != nil {
		return err
	}
	if !originCalls(s, op.ContractID) {
		return errs.New(errs.Unauthorized, "storage: origin does not call contract %v", op.ContractID)
	}
	for _, change := range op.Changes {
		if err := applyStorageChange(s.DB(), op.ContractID, &change); err != nil {
			return err
		}
	}
	return nil
}

func applyStorageChange(db entry.ContractStorageDB, contract thor.Address, change *StorageChange) error {
	if !entry.IsValidStorageName(change.Name) {
		return errs.New(errs.InvalidArgument, "storage: invalid name %q", change.Name)
	}
	before, after := change.Before, change.After
	if before != nil && after != nil && before.Type != after.Type {
		return errs.New(errs.TypeMismatch, "storage %s: %v changed to %v", change.Name, before.Type, after.Type)
	}
	key := entry.StorageKey{ContractID: contract, Name: change.Name}

	if after == nil {
		if before == nil {
			return nil
		}
		if before.Type.IsScalar() {
			return db.EraseFromContractStorageMap(key)
		}
		return eraseContainer(db, key)
	}

	if err := after.Validate(); err != nil {
		return err
	}
	if after.Type.IsScalar() {
		return db.InsertIntoContractStorageMap(key, &entry.ContractStorageEntry{
			ContractID: contract,
			Name:       change.Name,
			Data:       after.Copy(),
		})
	}

	keys, values, err := after.Items()
	if err != nil {
		return err
	}
	ids, err := db.LookupContractStorageIndex(key)
	if err != nil {
		return err
	}
	index := newIDSet(ids)
	for i, k := range keys {
		v := entry.NewContractValueEntry(contract, change.Name, k, values[i])
		if err := db.InsertIntoContractValueMap(v.ID, v); err != nil {
			return err
		}
		index.add(v.ID)
	}
	return db.InsertIntoContractStorageIndex(key, index.list())
}

// eraseContainer deletes every item of a table or array storage and its index.
func eraseContainer(db entry.ContractStorageDB, key entry.StorageKey) error {
	ids, err := db.LookupContractStorageIndex(key)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := db.EraseFromContractValueMap(id); err != nil {
			return err
		}
	}
	return db.EraseFromContractStorageIndex(key)
}

// TransferContract deposits shares of the transaction into the balance of a contract.
type TransferContract struct {
	ContractID thor.Address      `json:"contract_id"`
	Amount     entry.AssetAmount `json:"amount"`
}

func (op *TransferContract) Type() tx.OpType { return TypeTransferContract }

func (op *TransferContract) Evaluate(s State) error {
	if op.Amount.Amount == 0 {
		return errs.New(errs.InvalidArgument, "transfer contract: zero amount")
	}
	if _, err := lookupContract(s, op.ContractID); err != nil {
		return err
	}
	if _, err := lookupAsset(s, op.Amount.AssetID); err != nil {
		return err
	}
	if err := s.AddDeposited(op.Amount.AssetID, op.Amount.Amount); err != nil {
		return err
	}
	_, err := credit(s, ContractBalance(op.ContractID, op.Amount.AssetID), op.Amount.Amount)
	return err
}

// ContractBalance returns the condition of the balance a contract holds of an asset.
func ContractBalance(contract thor.Address, asset entry.AssetID) entry.WithdrawCondition {
	return entry.NewSignatureCondition(contract, asset, 0)
}

// DestroyContract removes a contract. Its storage stays addressable by id.
type DestroyContract struct {
	ContractID thor.Address `json:"contract_id"`
}

func (op *DestroyContract) Type() tx.OpType { return TypeDestroyContract }

func (op *DestroyContract) Evaluate(s State) error {
	c, err := lookupContract(s, op.ContractID)
	if err != nil {
		return err
	}
	if !s.CheckSignature(c.Owner.Address()) {
		return errs.New(errs.Unauthorized, "contract %s: owner not signed", c.Name)
	}
	return entry.RemoveContract(s.DB(), c.ID)
}

// originCalls returns whether the origin of a result transaction calls the contract.
func originCalls(s State, contract thor.Address) bool {
	origin := s.Origin()
	if origin == nil {
		return false
	}
	for _, op := range origin.Operations() {
		if op.Type != TypeCallContract {
			continue
		}
		var call CallContract
		if rlp.DecodeBytes(op.Data, &call) == nil && call.ContractID == contract {
			return true
		}
	}
	return false
}

type idSet map[thor.Bytes32]struct{}

func newIDSet(ids []thor.Bytes32) idSet {
	set := make(idSet, len(ids))
	for _, id := range ids {
		set.add(id)
	}
	return set
}

func (set idSet) add(id thor.Bytes32) { set[id] = struct{}{} }

// list returns the ids in byte order.
func (set idSet) list() []thor.Bytes32 {
	ids := make([]thor.Bytes32, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b thor.Bytes32) int { return bytes.Compare(a[:], b[:]) })
	return ids
}
