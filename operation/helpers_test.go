// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operation_test

import (
	"crypto/ecdsa"
	"encoding/binary"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/genesis"
	"github.com/vechain/ledger/operation"
	"github.com/vechain/ledger/pending"
	"github.com/vechain/ledger/runtime"
	"github.com/vechain/ledger/thor"
	"github.com/vechain/ledger/tx"
)

const testFee = 10

type testChain struct {
	t     *testing.T
	cfg   thor.Config
	db    *pending.ChainState
	rt    *runtime.Runtime
	now   uint64
	nonce uint64
}

func newTestChain(t *testing.T) *testChain {
	cfg := thor.DefaultConfig()
	cfg.TransactionFee = testFee
	cfg.DelegateRegistrationFee = 1000
	cfg.AssetRegistrationFee = 100

	db := pending.New(nil)
	gene := genesis.NewDevnet()
	_, err := gene.Build(db, &cfg)
	require.NoError(t, err)

	return &testChain{
		t:   t,
		cfg: cfg,
		db:  db,
		rt:  runtime.New(operation.NewDefaultRegistry(), &cfg, gene.ChainID()),
		now: gene.Timestamp() + 100,
	}
}

// build builds a transaction of ops signed by keys. Each one is unique.
func (c *testChain) build(resultType tx.ResultType, keys []*ecdsa.PrivateKey, ops ...operation.Operation) *tx.Transaction {
	c.nonce++
	var reserved thor.Bytes32
	binary.BigEndian.PutUint64(reserved[24:], c.nonce)

	b := tx.NewBuilder().
		Expiration(c.now + 60).
		Reserved(reserved).
		ResultType(resultType)
	for _, op := range ops {
		b.Operation(operation.MustPack(op))
	}
	trx := b.Build()
	for _, key := range keys {
		trx = tx.MustSign(trx, c.rt.ChainID(), key)
	}
	return trx
}

func (c *testChain) execTrx(trx *tx.Transaction) (*runtime.EvalState, error) {
	return c.rt.ExecuteBlockTransaction(c.db, trx, c.now, 1, 0)
}

func (c *testChain) exec(keys []*ecdsa.PrivateKey, ops ...operation.Operation) (*runtime.EvalState, error) {
	return c.execTrx(c.build(tx.Origin, keys, ops...))
}

func (c *testChain) mustExec(keys []*ecdsa.PrivateKey, ops ...operation.Operation) *runtime.EvalState {
	s, err := c.exec(keys, ops...)
	require.NoError(c.t, err)
	return s
}

func (c *testChain) account(id entry.AccountID) *entry.AccountEntry {
	a, err := c.db.LookupAccountByID(id)
	require.NoError(c.t, err)
	require.NotNil(c.t, a)
	return a
}

func (c *testChain) asset(id entry.AssetID) *entry.AssetEntry {
	a, err := c.db.LookupAssetByID(id)
	require.NoError(c.t, err)
	require.NotNil(c.t, a)
	return a
}

// balance returns the balance of cond, zero if absent.
func (c *testChain) balance(cond entry.WithdrawCondition) uint64 {
	b, err := c.db.LookupBalanceByID(cond.Address())
	require.NoError(c.t, err)
	if b == nil {
		return 0
	}
	return b.Balance
}

func dev(i int) genesis.DevAccount { return genesis.DevAccounts()[i] }

func devKeys(is ...int) []*ecdsa.PrivateKey {
	keys := make([]*ecdsa.PrivateKey, 0, len(is))
	for _, i := range is {
		keys = append(keys, dev(i).PrivateKey)
	}
	return keys
}

// devSlate is the slate the genesis balances vote for.
func devSlate() entry.SlateID {
	ids := make([]entry.AccountID, len(genesis.DevAccounts()))
	for i := range ids {
		ids[i] = entry.AccountID(i + 1)
	}
	return entry.NewSlateEntry(ids).ID
}

// devBalance returns the condition of the genesis balance of dev account i.
func devBalance(i int) entry.WithdrawCondition {
	return entry.NewSignatureCondition(dev(i).Address, entry.BaseAssetID, devSlate())
}

// payFee withdraws amount from the genesis balance of dev account i.
func payFee(i int, amount uint64) *operation.Withdraw {
	return &operation.Withdraw{BalanceID: devBalance(i).Address(), Amount: amount}
}

func newKey(t *testing.T) (*ecdsa.PrivateKey, thor.PublicKey) {
	pk, err := crypto.GenerateKey()
	require.NoError(t, err)
	return pk, thor.NewPublicKey(&pk.PublicKey)
}
