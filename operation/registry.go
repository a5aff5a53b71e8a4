// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operation

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/vechain/ledger/errs"
	"github.com/vechain/ledger/log"
	"github.com/vechain/ledger/tx"
)

var logger = log.WithContext("pkg", "operation")

// Converter binds an operation type tag to the struct carrying its payload.
type Converter struct {
	Type tx.OpType
	Name string
	New  func() Operation
}

// Registry maps operation type tags to their converters.
// It is built once and read only afterwards.
type Registry struct {
	converters map[tx.OpType]Converter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{converters: make(map[tx.OpType]Converter)}
}

// NewDefaultRegistry creates a registry with every operation of the ledger.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, c := range defaultConverters {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}
	return r
}

var defaultConverters = []Converter{
	{TypeWithdraw, "withdraw", func() Operation { return new(Withdraw) }},
	{TypeDeposit, "deposit", func() Operation { return new(Deposit) }},
	{TypeRegisterAccount, "register_account", func() Operation { return new(RegisterAccount) }},
	{TypeUpdateAccount, "update_account", func() Operation { return new(UpdateAccount) }},
	{TypeWithdrawPay, "withdraw_pay", func() Operation { return new(WithdrawPay) }},
	{TypeCreateAsset, "create_asset", func() Operation { return new(CreateAsset) }},
	{TypeUpdateAsset, "update_asset", func() Operation { return new(UpdateAsset) }},
	{TypeIssueAsset, "issue_asset", func() Operation { return new(IssueAsset) }},
	{TypeDefineSlate, "define_slate", func() Operation { return new(DefineSlate) }},
	{TypeUpdateSigningKey, "update_signing_key", func() Operation { return new(UpdateSigningKey) }},
	{TypeUpdateBalanceVote, "update_balance_vote", func() Operation { return new(UpdateBalanceVote) }},
	{TypeReleaseEscrow, "release_escrow", func() Operation { return new(ReleaseEscrow) }},
	{TypeBurn, "burn", func() Operation { return new(Burn) }},
	{TypeUpdateAssetExt, "update_asset_ext", func() Operation { return new(UpdateAssetExt) }},
	{TypeRegisterContract, "register_contract", func() Operation { return new(RegisterContract) }},
	{TypeCallContract, "call_contract", func() Operation { return new(CallContract) }},
	{TypeStorage, "storage", func() Operation { return new(Storage) }},
	{TypeTransferContract, "transfer_contract", func() Operation { return new(TransferContract) }},
	{TypeDestroyContract, "destroy_contract", func() Operation { return new(DestroyContract) }},
	{TypeTransaction, "transaction", func() Operation { return new(Transaction) }},
}

// Register adds a converter. A tag can be registered only once.
func (r *Registry) Register(c Converter) error {
	if c.New == nil {
		return errs.New(errs.InvalidArgument, "operation %d: nil constructor", c.Type)
	}
	if prev, ok := r.converters[c.Type]; ok {
		return errs.New(errs.DuplicateRegistration, "operation %d: already registered as %s", c.Type, prev.Name)
	}
	r.converters[c.Type] = c
	return nil
}

// Lookup returns the converter of the tag.
func (r *Registry) Lookup(typ tx.OpType) (Converter, bool) {
	c, ok := r.converters[typ]
	return c, ok
}

func (r *Registry) converter(typ tx.OpType) (Converter, error) {
	c, ok := r.converters[typ]
	if !ok {
		return Converter{}, errs.New(errs.UnsupportedOperation, "operation type %d", typ)
	}
	return c, nil
}

// Unpack decodes the payload of op.
func (r *Registry) Unpack(op tx.Operation) (Operation, error) {
	c, err := r.converter(op.Type)
	if err != nil {
		return nil, err
	}
	v := c.New()
	if err := rlp.DecodeBytes(op.Data, v); err != nil {
		return nil, errs.Wrap(errs.MalformedPayload, err, "decode %s", c.Name)
	}
	return v, nil
}

// Evaluate decodes op and evaluates it against the state.
func (r *Registry) Evaluate(s State, op tx.Operation) error {
	v, err := r.Unpack(op)
	if err != nil {
		return err
	}
	if err := v.Evaluate(s); err != nil {
		logger.Trace("operation rejected", "type", op.Type, "index", s.OpIndex(), "err", err)
		return err
	}
	return nil
}

// Pack encodes op into its tagged binary form.
func Pack(op Operation) (tx.Operation, error) {
	data, err := rlp.EncodeToBytes(op)
	if err != nil {
		return tx.Operation{}, errs.Wrap(errs.MalformedPayload, err, "encode operation %d", op.Type())
	}
	return tx.Operation{Type: op.Type(), Data: data}, nil
}

// MustPack is Pack that panics on error.
func MustPack(op Operation) tx.Operation {
	packed, err := Pack(op)
	if err != nil {
		panic(err)
	}
	return packed
}

type variant struct {
	Type tx.OpType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ToVariant converts op into its self-describing json form.
func (r *Registry) ToVariant(op tx.Operation) ([]byte, error) {
	v, err := r.Unpack(op)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errs.Wrap(errs.MalformedPayload, err, "marshal operation %d", op.Type)
	}
	return json.Marshal(&variant{op.Type, data})
}

// FromVariant converts the json form back into a tagged operation.
func (r *Registry) FromVariant(data []byte) (tx.Operation, error) {
	var v variant
	if err := json.Unmarshal(data, &v); err != nil {
		return tx.Operation{}, errs.Wrap(errs.MalformedPayload, err, "unmarshal variant")
	}
	c, err := r.converter(v.Type)
	if err != nil {
		return tx.Operation{}, err
	}
	op := c.New()
	if err := json.Unmarshal(v.Data, op); err != nil {
		return tx.Operation{}, errs.Wrap(errs.MalformedPayload, err, "unmarshal %s", c.Name)
	}
	return Pack(op)
}
