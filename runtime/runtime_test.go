// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"crypto/ecdsa"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/errs"
	"github.com/vechain/ledger/genesis"
	"github.com/vechain/ledger/operation"
	"github.com/vechain/ledger/pending"
	"github.com/vechain/ledger/runtime"
	"github.com/vechain/ledger/thor"
	"github.com/vechain/ledger/tx"
)

const fee = 10

type fixture struct {
	cfg   thor.Config
	db    *pending.ChainState
	rt    *runtime.Runtime
	now   uint64
	nonce uint64
}

func newFixture(t *testing.T) *fixture {
	cfg := thor.DefaultConfig()
	cfg.TransactionFee = fee

	db := pending.New(nil)
	gene := genesis.NewDevnet()
	_, err := gene.Build(db, &cfg)
	require.NoError(t, err)

	return &fixture{
		cfg: cfg,
		db:  db,
		rt:  runtime.New(operation.NewDefaultRegistry(), &cfg, gene.ChainID()),
		now: gene.Timestamp() + 10,
	}
}

func devKey(i int) *ecdsa.PrivateKey { return genesis.DevAccounts()[i].PrivateKey }

func devBalance(i int) entry.WithdrawCondition {
	ids := make([]entry.AccountID, len(genesis.DevAccounts()))
	for i := range ids {
		ids[i] = entry.AccountID(i + 1)
	}
	slate := entry.NewSlateEntry(ids).ID
	return entry.NewSignatureCondition(genesis.DevAccounts()[i].Address, entry.BaseAssetID, slate)
}

func (f *fixture) build(expiration uint64, key *ecdsa.PrivateKey, ops ...operation.Operation) *tx.Transaction {
	f.nonce++
	var reserved thor.Bytes32
	reserved[31] = byte(f.nonce)
	b := tx.NewBuilder().Expiration(expiration).Reserved(reserved)
	for _, op := range ops {
		b.Operation(operation.MustPack(op))
	}
	trx := b.Build()
	if key != nil {
		trx = tx.MustSign(trx, f.rt.ChainID(), key)
	}
	return trx
}

func (f *fixture) payFee(i int, amount uint64) *tx.Transaction {
	return f.build(f.now+60, devKey(i), &operation.Withdraw{BalanceID: devBalance(i).Address(), Amount: amount})
}

func (f *fixture) balance(t *testing.T, cond entry.WithdrawCondition) uint64 {
	b, err := f.db.LookupBalanceByID(cond.Address())
	require.NoError(t, err)
	require.NotNil(t, b)
	return b.Balance
}

func TestResolveTransaction(t *testing.T) {
	f := newFixture(t)
	chainID := f.rt.ChainID()

	_, err := runtime.ResolveTransaction(tx.NewBuilder().Expiration(1).Build(), chainID)
	assert.True(t, errs.IsInvalidArgument(err), "%v", err)

	unsigned := f.build(f.now+60, nil, &operation.Withdraw{BalanceID: devBalance(0).Address(), Amount: fee})
	_, err = runtime.ResolveTransaction(unsigned, chainID)
	assert.True(t, errs.IsUnauthorized(err), "%v", err)

	result := tx.NewBuilder().
		Expiration(f.now + 60).
		ResultType(tx.CompleteResult).
		Operation(operation.MustPack(&operation.Withdraw{Amount: 1})).
		Build()
	r, err := runtime.ResolveTransaction(result, chainID)
	require.NoError(t, err)
	assert.Empty(t, r.Signers)

	signed := f.payFee(0, fee)
	r, err = runtime.ResolveTransaction(signed, chainID)
	require.NoError(t, err)
	assert.Equal(t, []thor.PublicKey{genesis.DevAccounts()[0].PublicKey}, r.Signers)
	assert.Equal(t, signed.ID(chainID), r.ID)
}

func TestCheckExpiration(t *testing.T) {
	f := newFixture(t)
	maxExp := f.cfg.MaxTransactionExpiration

	tests := []struct {
		expiration uint64
		ok         bool
	}{
		{f.now - 1, false},
		{f.now, false},
		{f.now + 1, true},
		{f.now + maxExp, true},
		{f.now + maxExp + 1, false},
	}
	for _, tt := range tests {
		r, err := runtime.ResolveTransaction(f.build(tt.expiration, devKey(0), &operation.Withdraw{Amount: 1}), f.rt.ChainID())
		require.NoError(t, err)
		err = r.CheckExpiration(f.now, maxExp)
		if tt.ok {
			assert.NoError(t, err, "expiration %d", tt.expiration)
		} else {
			assert.True(t, errs.IsInvalidArgument(err), "expiration %d: %v", tt.expiration, err)
		}
	}
}

func TestExecuteTransaction(t *testing.T) {
	f := newFixture(t)
	before := f.balance(t, devBalance(0))

	trx := f.payFee(0, fee)
	s, err := f.rt.ExecuteTransaction(f.db, trx, f.now, 3, 7)
	require.NoError(t, err)
	assert.Equal(t, trx.ID(f.rt.ChainID()), s.TrxID())
	assert.Equal(t, []entry.AssetAmount{{Amount: fee, AssetID: entry.BaseAssetID}}, s.Fees())
	assert.Equal(t, big.NewInt(fee), s.Balance(entry.BaseAssetID))
	assert.Equal(t, before-fee, f.balance(t, devBalance(0)))

	acc, err := entry.GetUint64Property(f.db, entry.PropertyAccumulatedFees)
	require.NoError(t, err)
	assert.Equal(t, uint64(fee), acc)

	e, err := f.db.LookupTransactionByID(s.TrxID())
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, uint32(3), e.BlockNum)
	assert.Equal(t, uint32(7), e.TrxNum)
	assert.Nil(t, e.OriginID)

	_, err = f.rt.ExecuteTransaction(f.db, trx, f.now, 3, 8)
	assert.True(t, errs.IsDuplicateRegistration(err), "%v", err)

	// a failed transaction leaves no trace
	failing := f.build(f.now+60, devKey(0),
		&operation.Withdraw{BalanceID: devBalance(0).Address(), Amount: 100},
		&operation.Deposit{Amount: 200, Condition: devBalance(1)},
	)
	_, err = f.rt.ExecuteTransaction(f.db, failing, f.now, 3, 8)
	assert.True(t, errs.IsInsufficientFunds(err), "%v", err)
	assert.Equal(t, before-fee, f.balance(t, devBalance(0)))
	e, err = f.db.LookupTransactionByID(failing.ID(f.rt.ChainID()))
	require.NoError(t, err)
	assert.Nil(t, e)

	// fee below the transaction fee
	_, err = f.rt.ExecuteTransaction(f.db, f.payFee(0, fee-1), f.now, 3, 8)
	assert.True(t, errs.IsInsufficientFunds(err), "%v", err)

	// expired
	_, err = f.rt.ExecuteTransaction(f.db, f.build(f.now, devKey(0), &operation.Withdraw{BalanceID: devBalance(0).Address(), Amount: fee}), f.now, 3, 8)
	assert.True(t, errs.IsInvalidArgument(err), "%v", err)

	// unknown tag
	odd := tx.NewBuilder().Expiration(f.now + 60).Operation(tx.Operation{Type: 250, Data: []byte{0xc0}}).Build()
	odd = tx.MustSign(odd, f.rt.ChainID(), devKey(0))
	_, err = f.rt.ExecuteTransaction(f.db, odd, f.now, 3, 8)
	assert.True(t, errs.IsUnsupportedOperation(err), "%v", err)
}

func TestEvalStateReuse(t *testing.T) {
	f := newFixture(t)
	s := f.rt.NewEvalState(pending.New(f.db), f.now)
	require.NoError(t, s.Evaluate(f.payFee(0, fee)))

	err := s.Evaluate(f.payFee(0, fee))
	assert.True(t, errs.KindOf(err) == errs.Internal, "%v", err)
}

func TestEvalStateSigners(t *testing.T) {
	f := newFixture(t)
	s := f.rt.NewEvalState(pending.New(f.db), f.now)
	devs := genesis.DevAccounts()

	s.AddSigners([]thor.PublicKey{devs[1].PublicKey, devs[0].PublicKey, devs[1].PublicKey})
	assert.Len(t, s.Signers(), 2)
	assert.True(t, s.CheckSignature(devs[0].Address))
	assert.False(t, s.CheckSignature(devs[2].Address))

	a, err := f.db.LookupAccountByID(1)
	require.NoError(t, err)
	assert.True(t, s.AccountHasSigned(a))
	assert.True(t, s.AccountOwnerHasSigned(a))
}

func TestEvalStateCounters(t *testing.T) {
	f := newFixture(t)
	s := f.rt.NewEvalState(pending.New(f.db), f.now)

	require.NoError(t, s.AddWithdrawn(1, 5))
	require.NoError(t, s.AddDeposited(1, 8))
	assert.Equal(t, big.NewInt(-3), s.Balance(1))
	assert.Equal(t, uint64(5), s.Withdrawn(1))
	assert.Equal(t, uint64(8), s.Deposited(1))

	require.NoError(t, s.AddWithdrawn(2, math.MaxUint64))
	assert.True(t, errs.IsOverflow(s.AddWithdrawn(2, 1)))
	require.NoError(t, s.AddRequiredFees(math.MaxUint64))
	assert.True(t, errs.IsOverflow(s.AddRequiredFees(1)))

	s.AddVoteDelta(4, big.NewInt(10))
	s.AddVoteDelta(4, big.NewInt(-3))
	assert.Equal(t, big.NewInt(7), s.VoteDelta(4))
	assert.Equal(t, 0, s.VoteDelta(5).Sign())
}

func TestVotesClamped(t *testing.T) {
	f := newFixture(t)
	overlay := pending.New(f.db)
	s := f.rt.NewEvalState(overlay, f.now)

	huge := new(big.Int).Lsh(big.NewInt(1), 80)
	s.AddVoteDelta(1, new(big.Int).Neg(huge))
	s.AddVoteDelta(2, huge)
	require.NoError(t, s.Evaluate(f.payFee(0, fee)))

	a, err := overlay.LookupAccountByID(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), a.DelegateInfo.VotesFor)
	a, err = overlay.LookupAccountByID(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), a.DelegateInfo.VotesFor)
	a, err = overlay.LookupAccountByID(3)
	require.NoError(t, err)
	assert.Equal(t, genesis.DevBalance*uint64(len(genesis.DevAccounts()))-fee, a.DelegateInfo.VotesFor)
}
