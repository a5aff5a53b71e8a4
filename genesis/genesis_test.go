// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/genesis"
	"github.com/vechain/ledger/pending"
	"github.com/vechain/ledger/thor"
)

func TestDevGenesis(t *testing.T) {
	cfg := thor.DefaultConfig()
	db := pending.New(nil)
	gene := genesis.NewDevnet()

	b0, err := gene.Build(db, &cfg)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), b0.Header().Number())
	assert.Equal(t, gene.Timestamp(), b0.Header().Timestamp())

	chainID, err := entry.GetChainID(db)
	require.NoError(t, err)
	assert.Equal(t, gene.ChainID(), chainID)

	accs := genesis.DevAccounts()
	base, err := db.LookupAssetByID(entry.BaseAssetID)
	require.NoError(t, err)
	assert.Equal(t, cfg.BaseAssetSymbol, base.Symbol)
	assert.Equal(t, uint64(len(accs))*genesis.DevBalance, base.CurrentShareSupply)

	active, err := entry.GetActiveDelegates(db)
	require.NoError(t, err)
	assert.Len(t, active, len(accs))

	for i, acc := range accs {
		a, err := entry.LookupAccountByAddress(db, acc.Address)
		require.NoError(t, err)
		require.NotNil(t, a)
		assert.Equal(t, entry.AccountID(i+1), a.ID)
		assert.True(t, a.IsDelegate())
		assert.Equal(t, acc.PublicKey, a.SigningKey())
		assert.Equal(t, uint64(len(accs))*genesis.DevBalance, a.DelegateInfo.VotesFor)
	}

	last, err := entry.GetUint64Property(db, entry.PropertyLastAccountID)
	require.NoError(t, err)
	assert.Equal(t, uint64(len(accs)), last)
}

func TestBuilderRejectsOversupply(t *testing.T) {
	cfg := thor.DefaultConfig()
	cfg.MaxShareSupply = 100

	_, err := new(genesis.Builder).
		ChainID(thor.Blake2b([]byte("test"))).
		Balance(genesis.DevAccounts()[0].Address, 101).
		Build(pending.New(nil), &cfg)
	assert.Error(t, err)
}

func TestBuilderRequiresChainID(t *testing.T) {
	cfg := thor.DefaultConfig()
	_, err := new(genesis.Builder).Build(pending.New(nil), &cfg)
	assert.Error(t, err)
}
