// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/errs"
	"github.com/vechain/ledger/operation"
)

const usd entry.AssetID = 1

func usdBalance(i int) entry.WithdrawCondition {
	return entry.NewSignatureCondition(dev(i).Address, usd, 0)
}

// createUSD creates USD issued by dev account 0 and issues supply to it.
func createUSD(t *testing.T, c *testChain, supply uint64) {
	c.mustExec(devKeys(0),
		payFee(0, testFee+100),
		&operation.CreateAsset{Symbol: "USD", Name: "dollar", IssuerID: 1, Precision: 100, MaximumShareSupply: 1_000_000},
	)
	if supply > 0 {
		c.mustExec(devKeys(0),
			payFee(0, testFee),
			&operation.IssueAsset{Amount: entry.AssetAmount{Amount: supply, AssetID: usd}},
			&operation.Deposit{Amount: supply, Condition: usdBalance(0)},
		)
	}
}

func TestCreateAndIssueAsset(t *testing.T) {
	c := newTestChain(t)
	createUSD(t, c, 500)

	a := c.asset(usd)
	assert.Equal(t, "USD", a.Symbol)
	assert.Equal(t, uint64(500), a.CurrentShareSupply)
	assert.Equal(t, uint64(500), c.balance(usdBalance(0)))

	_, err := c.exec(devKeys(0),
		payFee(0, testFee),
		&operation.IssueAsset{Amount: entry.AssetAmount{Amount: 999_501, AssetID: usd}},
		&operation.Deposit{Amount: 999_501, Condition: usdBalance(0)},
	)
	assert.True(t, errs.IsOverflow(err), "%v", err)
	assert.Equal(t, uint64(500), c.asset(usd).CurrentShareSupply)

	_, err = c.exec(devKeys(1),
		payFee(1, testFee),
		&operation.IssueAsset{Amount: entry.AssetAmount{Amount: 1, AssetID: usd}},
		&operation.Deposit{Amount: 1, Condition: usdBalance(1)},
	)
	assert.True(t, errs.IsUnauthorized(err), "%v", err)

	_, err = c.exec(devKeys(0),
		payFee(0, testFee),
		&operation.IssueAsset{Amount: entry.AssetAmount{Amount: 1, AssetID: entry.BaseAssetID}},
	)
	assert.True(t, errs.IsInvalidArgument(err), "%v", err)
}

func TestCreateAssetRejections(t *testing.T) {
	c := newTestChain(t)
	createUSD(t, c, 0)

	for _, tt := range []struct {
		op   *operation.CreateAsset
		kind errs.Kind
	}{
		{&operation.CreateAsset{Symbol: "USD", IssuerID: 1, Precision: 100, MaximumShareSupply: 10}, errs.DuplicateRegistration},
		{&operation.CreateAsset{Symbol: c.cfg.BaseAssetSymbol, IssuerID: 1, Precision: 100, MaximumShareSupply: 10}, errs.DuplicateRegistration},
		{&operation.CreateAsset{Symbol: "usd", IssuerID: 1, Precision: 100, MaximumShareSupply: 10}, errs.InvalidArgument},
		{&operation.CreateAsset{Symbol: "EUR", IssuerID: 1, Precision: 30, MaximumShareSupply: 10}, errs.InvalidArgument},
		{&operation.CreateAsset{Symbol: "EUR", IssuerID: 1, Precision: 100, MaximumShareSupply: c.cfg.MaxShareSupply + 1}, errs.Overflow},
		{&operation.CreateAsset{Symbol: "EUR", IssuerID: 99, Precision: 100, MaximumShareSupply: 10}, errs.UnknownEntity},
		{&operation.CreateAsset{Symbol: "EUR", IssuerID: 2, Precision: 100, MaximumShareSupply: 10}, errs.Unauthorized},
	} {
		_, err := c.exec(devKeys(0), payFee(0, testFee+100), tt.op)
		assert.True(t, errs.Is(err, tt.kind), "%s: %v", tt.op.Symbol, err)
	}
}

func TestUpdateAsset(t *testing.T) {
	c := newTestChain(t)
	createUSD(t, c, 500)

	name := "us dollar"
	maxSupply := uint64(2_000_000)
	c.mustExec(devKeys(0),
		payFee(0, testFee),
		&operation.UpdateAsset{AssetID: usd, Name: &name},
	)
	assert.Equal(t, name, c.asset(usd).Name)

	_, err := c.exec(devKeys(0),
		payFee(0, testFee),
		&operation.UpdateAsset{AssetID: usd, MaximumShareSupply: &maxSupply},
	)
	assert.True(t, errs.IsInvalidArgument(err), "%v", err)

	_, err = c.exec(devKeys(0),
		payFee(0, testFee),
		&operation.UpdateAsset{AssetID: entry.BaseAssetID, Name: &name},
	)
	assert.True(t, errs.IsUnauthorized(err), "%v", err)
}

func TestUpdateAssetExtRetractable(t *testing.T) {
	c := newTestChain(t)
	createUSD(t, c, 500)

	c.mustExec(devKeys(0),
		payFee(0, testFee),
		&operation.Withdraw{BalanceID: usdBalance(0).Address(), Amount: 100},
		&operation.Deposit{Amount: 100, Condition: usdBalance(1)},
	)

	ext := operation.NewUpdateAssetExt(operation.UpdateAsset{AssetID: usd}, c.asset(usd))
	ext.Flags = entry.FlagRetractable
	c.mustExec(devKeys(0), payFee(0, testFee), ext)
	assert.Equal(t, entry.FlagRetractable, c.asset(usd).Flags)

	// the issuer takes back shares without the owner's signature
	c.mustExec(devKeys(0),
		payFee(0, testFee),
		&operation.Withdraw{BalanceID: usdBalance(1).Address(), Amount: 40},
		&operation.Deposit{Amount: 40, Condition: usdBalance(0)},
	)
	assert.Equal(t, uint64(60), c.balance(usdBalance(1)))
	assert.Equal(t, uint64(440), c.balance(usdBalance(0)))

	ext = operation.NewUpdateAssetExt(operation.UpdateAsset{AssetID: usd}, c.asset(usd))
	ext.IssuerPermissions = 0
	_, err := c.exec(devKeys(0), payFee(0, testFee), ext)
	assert.True(t, errs.IsInvalidArgument(err), "%v", err)

	ext.Flags = 0
	c.mustExec(devKeys(0), payFee(0, testFee), ext)

	ext = operation.NewUpdateAssetExt(operation.UpdateAsset{AssetID: usd}, c.asset(usd))
	ext.IssuerPermissions = entry.FlagHalted
	_, err = c.exec(devKeys(0), payFee(0, testFee), ext)
	assert.True(t, errs.IsUnauthorized(err), "%v", err)
}

func TestHaltedAsset(t *testing.T) {
	c := newTestChain(t)
	createUSD(t, c, 500)

	ext := operation.NewUpdateAssetExt(operation.UpdateAsset{AssetID: usd}, c.asset(usd))
	ext.Flags = entry.FlagHalted
	c.mustExec(devKeys(0), payFee(0, testFee), ext)

	_, err := c.exec(devKeys(0),
		payFee(0, testFee),
		&operation.Withdraw{BalanceID: usdBalance(0).Address(), Amount: 1},
		&operation.Deposit{Amount: 1, Condition: usdBalance(1)},
	)
	assert.True(t, errs.IsUnauthorized(err), "%v", err)
}

func TestBurnAndCollectedFees(t *testing.T) {
	c := newTestChain(t)
	createUSD(t, c, 500)

	s := c.mustExec(devKeys(0),
		payFee(0, testFee),
		&operation.Withdraw{BalanceID: usdBalance(0).Address(), Amount: 100},
		&operation.Burn{Amount: entry.AssetAmount{Amount: 90, AssetID: usd}, AccountID: 1, Message: "bye"},
	)
	a := c.asset(usd)
	assert.Equal(t, uint64(410), a.CurrentShareSupply)
	assert.Equal(t, uint64(10), a.CollectedFees)
	assert.Equal(t, []entry.AssetAmount{{Amount: testFee, AssetID: entry.BaseAssetID}, {Amount: 10, AssetID: usd}}, s.Fees())

	_, err := c.exec(devKeys(0),
		payFee(0, testFee),
		&operation.Burn{Amount: entry.AssetAmount{Amount: 1, AssetID: usd}},
	)
	assert.True(t, errs.IsInsufficientFunds(err), "%v", err)

	fees, err := entry.GetUint64Property(c.db, entry.PropertyAccumulatedFees)
	require.NoError(t, err)
	assert.True(t, fees > 0)
}

func TestAssetTransactionFee(t *testing.T) {
	c := newTestChain(t)
	createUSD(t, c, 500)

	ext := operation.NewUpdateAssetExt(operation.UpdateAsset{AssetID: usd}, c.asset(usd))
	ext.TransactionFee = 5
	c.mustExec(devKeys(0), payFee(0, testFee), ext)

	_, err := c.exec(devKeys(0),
		payFee(0, testFee),
		&operation.Withdraw{BalanceID: usdBalance(0).Address(), Amount: 100},
		&operation.Deposit{Amount: 100, Condition: usdBalance(1)},
	)
	assert.True(t, errs.IsInsufficientFunds(err), "%v", err)

	s := c.mustExec(devKeys(0),
		payFee(0, testFee),
		&operation.Withdraw{BalanceID: usdBalance(0).Address(), Amount: 100},
		&operation.Deposit{Amount: 95, Condition: usdBalance(1)},
	)
	assert.Equal(t, []entry.AssetAmount{{Amount: testFee, AssetID: entry.BaseAssetID}, {Amount: 5, AssetID: usd}}, s.Fees())
	assert.Equal(t, uint64(5), c.asset(usd).CollectedFees)
	assert.Equal(t, uint64(95), c.balance(usdBalance(1)))

	// transactions not moving the asset pay nothing in it
	c.mustExec(devKeys(0), payFee(0, testFee))
	assert.Equal(t, uint64(5), c.asset(usd).CollectedFees)
}
