// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"slices"

	"github.com/pkg/errors"
	"github.com/vechain/ledger/block"
	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/thor"
)

// Builder helper to build the genesis state and block.
type Builder struct {
	timestamp  uint64
	chainID    thor.Bytes32
	delegates  []delegate
	balances   []allocation
	stateProcs []func(db entry.ChainInterface) error
}

type delegate struct {
	name    string
	key     thor.PublicKey
	payRate uint8
}

type allocation struct {
	owner  thor.Address
	amount uint64
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// ChainID set the chain id transactions are signed for.
func (b *Builder) ChainID(id thor.Bytes32) *Builder {
	b.chainID = id
	return b
}

// Delegate adds an initial delegate, using key as owner, active and signing key.
func (b *Builder) Delegate(name string, key thor.PublicKey, payRate uint8) *Builder {
	b.delegates = append(b.delegates, delegate{name, key, payRate})
	return b
}

// Balance allocates base asset shares to owner.
// Initial balances vote for the slate of all initial delegates.
func (b *Builder) Balance(owner thor.Address, amount uint64) *Builder {
	b.balances = append(b.balances, allocation{owner, amount})
	return b
}

// State add a state process
func (b *Builder) State(proc func(db entry.ChainInterface) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Build writes the genesis state into db and returns the genesis block.
func (b *Builder) Build(db entry.ChainInterface, cfg *thor.Config) (*block.Block, error) {
	if b.chainID.IsZero() {
		return nil, errors.New("genesis: zero chain id")
	}
	if err := entry.SetProperty(db, entry.PropertyChainID, b.chainID); err != nil {
		return nil, errors.Wrap(err, "set chain id")
	}

	ids := make([]entry.AccountID, 0, len(b.delegates))
	for i, d := range b.delegates {
		a := &entry.AccountEntry{
			ID:               entry.AccountID(i + 1),
			Name:             d.name,
			OwnerKey:         d.key,
			ActiveKeyHistory: entry.KeyHistory{{Time: b.timestamp, Key: d.key}},
			RegistrationDate: b.timestamp,
			LastUpdate:       b.timestamp,
			DelegateInfo: &entry.DelegateStats{
				PayRate:           d.payRate,
				SigningKeyHistory: entry.KeyHistory{{Time: b.timestamp, Key: d.key}},
			},
		}
		if err := a.SanityCheck(); err != nil {
			return nil, errors.Wrapf(err, "delegate %s", d.name)
		}
		ids = append(ids, a.ID)
		if err := entry.StoreAccount(db, a); err != nil {
			return nil, errors.Wrapf(err, "store delegate %s", d.name)
		}
	}
	if err := entry.SetUint64Property(db, entry.PropertyLastAccountID, uint64(len(ids))); err != nil {
		return nil, err
	}

	var slate entry.SlateID
	if len(ids) > 0 {
		s := entry.NewSlateEntry(ids)
		if len(s.Delegates) > cfg.MaxSlateSize {
			s = entry.NewSlateEntry(ids[:cfg.MaxSlateSize])
		}
		if err := entry.StoreSlate(db, s); err != nil {
			return nil, err
		}
		slate = s.ID
	}

	var supply uint64
	for _, alloc := range b.balances {
		if supply+alloc.amount < supply || supply+alloc.amount > cfg.MaxShareSupply {
			return nil, errors.New("genesis: balances exceed max share supply")
		}
		supply += alloc.amount
		cond := entry.NewSignatureCondition(alloc.owner, entry.BaseAssetID, slate)
		bal, err := db.LookupBalanceByID(cond.Address())
		if err != nil {
			return nil, err
		}
		if bal == nil {
			bal = entry.NewBalanceEntry(cond, b.timestamp)
		}
		bal.Balance += alloc.amount
		if err := entry.StoreBalance(db, bal); err != nil {
			return nil, err
		}
		if slate != 0 {
			if err := b.addVotes(db, slate, alloc.amount); err != nil {
				return nil, err
			}
		}
	}

	base := &entry.AssetEntry{
		ID:                 entry.BaseAssetID,
		Symbol:             cfg.BaseAssetSymbol,
		Name:               cfg.BaseAssetSymbol,
		Precision:          cfg.BaseAssetPrecision,
		RegistrationDate:   b.timestamp,
		LastUpdate:         b.timestamp,
		CurrentShareSupply: supply,
		MaximumShareSupply: cfg.MaxShareSupply,
	}
	if err := base.SanityCheck(cfg.MaxShareSupply); err != nil {
		return nil, errors.Wrap(err, "base asset")
	}
	if err := entry.StoreAsset(db, base); err != nil {
		return nil, err
	}
	if err := entry.SetUint64Property(db, entry.PropertyLastAssetID, 0); err != nil {
		return nil, err
	}

	active := ids
	if len(active) > cfg.NumDelegates {
		active = active[:cfg.NumDelegates]
	}
	if err := entry.SetActiveDelegates(db, slices.Clone(active)); err != nil {
		return nil, err
	}

	for _, proc := range b.stateProcs {
		if err := proc(db); err != nil {
			return nil, errors.Wrap(err, "state process")
		}
	}

	return new(block.Builder).
		Timestamp(b.timestamp).
		Build(), nil
}

func (b *Builder) addVotes(db entry.ChainInterface, slate entry.SlateID, amount uint64) error {
	s, err := db.LookupSlateByID(slate)
	if err != nil {
		return err
	}
	for _, id := range s.Delegates {
		a, err := db.LookupAccountByID(id)
		if err != nil {
			return err
		}
		a.DelegateInfo.VotesFor += amount
		if err := entry.StoreAccount(db, a); err != nil {
			return err
		}
	}
	return nil
}
