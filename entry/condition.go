// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entry

import (
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/vechain/ledger/errs"
	"github.com/vechain/ledger/thor"
)

// WithdrawType is the kind of a withdraw condition.
type WithdrawType uint8

const (
	WithdrawSignature WithdrawType = iota + 1
	WithdrawMultisig
	WithdrawEscrow
)

func (t WithdrawType) String() string {
	switch t {
	case WithdrawSignature:
		return "signature"
	case WithdrawMultisig:
		return "multisig"
	case WithdrawEscrow:
		return "escrow"
	}
	return fmt.Sprintf("withdraw(%d)", uint8(t))
}

// maxMultisigOwners bounds the owners of a multisig condition.
const maxMultisigOwners = 64

// WithdrawCondition is the authorization predicate of a balance.
// Data is the packed form of the struct matching Type.
type WithdrawCondition struct {
	AssetID AssetID      `json:"asset_id"`
	SlateID SlateID      `json:"slate_id"`
	Type    WithdrawType `json:"type"`
	Data    []byte       `json:"data"`
}

// WithSignature lets the owner key spend.
type WithSignature struct {
	Owner thor.Address `json:"owner"`
}

// WithMultisig lets any Required of the owners spend together.
type WithMultisig struct {
	Required uint32         `json:"required"`
	Owners   []thor.Address `json:"owners"`
}

// WithEscrow holds funds until released by the parties.
type WithEscrow struct {
	Sender          thor.Address `json:"sender"`
	Receiver        thor.Address `json:"receiver"`
	Escrow          thor.Address `json:"escrow"`
	AgreementDigest thor.Bytes32 `json:"agreement_digest"`
}

func newCondition(asset AssetID, slate SlateID, typ WithdrawType, v interface{}) WithdrawCondition {
	data, err := rlp.EncodeToBytes(v)
	if err != nil {
		panic(err) // plain structs always encode
	}
	return WithdrawCondition{asset, slate, typ, data}
}

// NewSignatureCondition creates a single owner condition.
func NewSignatureCondition(owner thor.Address, asset AssetID, slate SlateID) WithdrawCondition {
	return newCondition(asset, slate, WithdrawSignature, &WithSignature{owner})
}

// NewMultisigCondition creates a multisig condition.
func NewMultisigCondition(required uint32, owners []thor.Address, asset AssetID, slate SlateID) WithdrawCondition {
	return newCondition(asset, slate, WithdrawMultisig, &WithMultisig{required, owners})
}

// NewEscrowCondition creates an escrow condition.
func NewEscrowCondition(e WithEscrow, asset AssetID, slate SlateID) WithdrawCondition {
	return newCondition(asset, slate, WithdrawEscrow, &e)
}

// Address returns the address of the condition, which is the id of its balance.
func (c WithdrawCondition) Address() thor.Address {
	data, _ := rlp.EncodeToBytes(c)
	return thor.AddressOf(data)
}

// Copy returns a deep copy.
func (c WithdrawCondition) Copy() WithdrawCondition {
	c.Data = slices.Clone(c.Data)
	return c
}

func (c WithdrawCondition) decode(typ WithdrawType, v interface{}) error {
	if c.Type != typ {
		return errs.New(errs.InvalidWithdrawCondition, "condition is %v, not %v", c.Type, typ)
	}
	if err := rlp.DecodeBytes(c.Data, v); err != nil {
		return errs.Wrap(errs.InvalidWithdrawCondition, err, "decode %v condition", typ)
	}
	return nil
}

// AsSignature decodes a signature condition.
func (c WithdrawCondition) AsSignature() (*WithSignature, error) {
	var v WithSignature
	return &v, c.decode(WithdrawSignature, &v)
}

// AsMultisig decodes a multisig condition.
func (c WithdrawCondition) AsMultisig() (*WithMultisig, error) {
	var v WithMultisig
	return &v, c.decode(WithdrawMultisig, &v)
}

// AsEscrow decodes an escrow condition.
func (c WithdrawCondition) AsEscrow() (*WithEscrow, error) {
	var v WithEscrow
	return &v, c.decode(WithdrawEscrow, &v)
}

// Owners returns the addresses entitled to the balance.
func (c WithdrawCondition) Owners() ([]thor.Address, error) {
	switch c.Type {
	case WithdrawSignature:
		v, err := c.AsSignature()
		if err != nil {
			return nil, err
		}
		return []thor.Address{v.Owner}, nil
	case WithdrawMultisig:
		v, err := c.AsMultisig()
		if err != nil {
			return nil, err
		}
		return v.Owners, nil
	case WithdrawEscrow:
		v, err := c.AsEscrow()
		if err != nil {
			return nil, err
		}
		return []thor.Address{v.Sender, v.Receiver, v.Escrow}, nil
	}
	return nil, errs.New(errs.InvalidWithdrawCondition, "unsupported condition type %d", uint8(c.Type))
}

// Validate checks the condition type and its data.
func (c WithdrawCondition) Validate() error {
	switch c.Type {
	case WithdrawSignature:
		_, err := c.AsSignature()
		return err
	case WithdrawMultisig:
		v, err := c.AsMultisig()
		if err != nil {
			return err
		}
		if len(v.Owners) == 0 || len(v.Owners) > maxMultisigOwners {
			return errs.New(errs.InvalidWithdrawCondition, "multisig: %d owners", len(v.Owners))
		}
		if v.Required == 0 || int(v.Required) > len(v.Owners) {
			return errs.New(errs.InvalidWithdrawCondition, "multisig: requires %d of %d", v.Required, len(v.Owners))
		}
		seen := make(map[thor.Address]struct{}, len(v.Owners))
		for _, owner := range v.Owners {
			if _, ok := seen[owner]; ok {
				return errs.New(errs.InvalidWithdrawCondition, "multisig: duplicate owner %v", owner)
			}
			seen[owner] = struct{}{}
		}
		return nil
	case WithdrawEscrow:
		v, err := c.AsEscrow()
		if err != nil {
			return err
		}
		if v.Sender == v.Receiver {
			return errs.New(errs.InvalidWithdrawCondition, "escrow: sender is receiver")
		}
		if v.Sender.IsZero() || v.Receiver.IsZero() || v.Escrow.IsZero() {
			return errs.New(errs.InvalidWithdrawCondition, "escrow: zero party")
		}
		return nil
	}
	return errs.New(errs.InvalidWithdrawCondition, "unsupported condition type %d", uint8(c.Type))
}
