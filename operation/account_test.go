// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operation_test

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/errs"
	"github.com/vechain/ledger/operation"
	"github.com/vechain/ledger/thor"
)

func TestRegisterDelegateAndWithdrawPay(t *testing.T) {
	c := newTestChain(t)
	alicePK, aliceKey := newKey(t)

	c.mustExec(devKeys(0),
		payFee(0, testFee+100),
		&operation.RegisterAccount{Name: "alice", OwnerKey: aliceKey, ActiveKey: aliceKey, DelegatePayRate: 10},
	)
	alice, err := entry.LookupAccountByName(c.db, "alice")
	require.NoError(t, err)
	require.NotNil(t, alice)
	assert.Equal(t, entry.AccountID(11), alice.ID)
	require.True(t, alice.IsDelegate())
	assert.Equal(t, uint64(0), alice.DelegateInfo.VotesFor)
	assert.Equal(t, entry.KeyHistory{{Time: c.now, Key: aliceKey}}, alice.DelegateInfo.SigningKeyHistory)

	alice.DelegateInfo.PayBalance = 1000
	require.NoError(t, entry.StoreAccount(c.db, alice))

	aliceBalance := entry.NewSignatureCondition(aliceKey.Address(), entry.BaseAssetID, 0)
	s := c.mustExec([]*ecdsa.PrivateKey{alicePK},
		&operation.WithdrawPay{AccountID: alice.ID, Amount: 500},
		&operation.Deposit{Amount: 500 - testFee, Condition: aliceBalance},
	)
	assert.Equal(t, big.NewInt(-500), s.VoteDelta(alice.ID))
	assert.Equal(t, uint64(500), c.account(alice.ID).DelegateInfo.PayBalance)
	assert.Equal(t, uint64(0), c.account(alice.ID).DelegateInfo.VotesFor)
	assert.Equal(t, uint64(500-testFee), c.balance(aliceBalance))

	_, err = c.exec([]*ecdsa.PrivateKey{alicePK}, &operation.WithdrawPay{AccountID: alice.ID, Amount: 600})
	assert.True(t, errs.IsInsufficientFunds(err), "%v", err)

	_, err = c.exec(devKeys(1), &operation.WithdrawPay{AccountID: alice.ID, Amount: 100})
	assert.True(t, errs.IsUnauthorized(err), "%v", err)
	assert.Equal(t, uint64(500), c.account(alice.ID).DelegateInfo.PayBalance)
}

func TestRegisterAccountDuplicates(t *testing.T) {
	c := newTestChain(t)
	_, key := newKey(t)

	_, err := c.exec(devKeys(0),
		payFee(0, testFee),
		&operation.RegisterAccount{Name: "init0", OwnerKey: key, ActiveKey: key, DelegatePayRate: operation.NotDelegate},
	)
	assert.True(t, errs.IsDuplicateRegistration(err), "%v", err)

	_, err = c.exec(devKeys(0),
		payFee(0, testFee),
		&operation.RegisterAccount{Name: "bob", OwnerKey: key, ActiveKey: dev(3).PublicKey, DelegatePayRate: operation.NotDelegate},
	)
	assert.True(t, errs.IsDuplicateRegistration(err), "%v", err)

	_, err = c.exec(devKeys(0),
		payFee(0, testFee),
		&operation.RegisterAccount{Name: "Bob", OwnerKey: key, ActiveKey: key, DelegatePayRate: operation.NotDelegate},
	)
	assert.True(t, errs.IsInvalidArgument(err), "%v", err)

	// registration fee not covered
	_, err = c.exec(devKeys(0),
		payFee(0, testFee),
		&operation.RegisterAccount{Name: "bob", OwnerKey: key, ActiveKey: key, DelegatePayRate: 50},
	)
	assert.True(t, errs.IsInsufficientFunds(err), "%v", err)
}

func TestRetraction(t *testing.T) {
	c := newTestChain(t)
	ownerPK, ownerKey := newKey(t)
	activePK, activeKey := newKey(t)

	c.mustExec(devKeys(0),
		payFee(0, testFee),
		&operation.RegisterAccount{Name: "carol", OwnerKey: ownerKey, ActiveKey: activeKey, DelegatePayRate: operation.NotDelegate},
	)
	carol, err := entry.LookupAccountByName(c.db, "carol")
	require.NoError(t, err)
	retract := &operation.UpdateAccount{AccountID: carol.ID, ActiveKey: &thor.PublicKey{}, DelegatePayRate: operation.NotDelegate}

	_, err = c.exec([]*ecdsa.PrivateKey{activePK}, retract)
	assert.True(t, errs.IsUnauthorized(err), "%v", err)
	assert.False(t, c.account(carol.ID).IsRetracted())

	c.mustExec([]*ecdsa.PrivateKey{ownerPK, dev(0).PrivateKey}, payFee(0, testFee), retract)
	assert.True(t, c.account(carol.ID).IsRetracted())

	_, ok, err := c.db.LookupAccountIDByAddress(activeKey.Address())
	require.NoError(t, err)
	assert.False(t, ok)
	id, ok, err := c.db.LookupAccountIDByAddress(ownerKey.Address())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, carol.ID, id)

	data := "hello"
	_, err = c.exec([]*ecdsa.PrivateKey{ownerPK, dev(0).PrivateKey},
		payFee(0, testFee),
		&operation.UpdateAccount{AccountID: carol.ID, PublicData: &data, DelegatePayRate: operation.NotDelegate},
	)
	assert.True(t, errs.IsUnauthorized(err), "%v", err)
}

func TestUpdateAccount(t *testing.T) {
	c := newTestChain(t)
	data := "about init0"

	_, err := c.exec(devKeys(0),
		payFee(0, testFee),
		&operation.UpdateAccount{AccountID: 1, DelegatePayRate: 20},
	)
	assert.True(t, errs.IsInvalidArgument(err), "%v", err)

	c.mustExec(devKeys(0),
		payFee(0, testFee),
		&operation.UpdateAccount{AccountID: 1, PublicData: &data, DelegatePayRate: 5},
	)
	a := c.account(1)
	assert.Equal(t, data, a.PublicData)
	assert.Equal(t, uint8(5), a.DelegateInfo.PayRate)

	_, err = c.exec(devKeys(1),
		payFee(1, testFee),
		&operation.UpdateAccount{AccountID: 1, PublicData: &data, DelegatePayRate: operation.NotDelegate},
	)
	assert.True(t, errs.IsUnauthorized(err), "%v", err)

	// a plain account becomes a delegate by paying the scaled fee
	davePK, key := newKey(t)
	c.mustExec(devKeys(0),
		payFee(0, testFee),
		&operation.RegisterAccount{Name: "dave", OwnerKey: key, ActiveKey: key, DelegatePayRate: operation.NotDelegate},
	)
	dave, err := entry.LookupAccountByName(c.db, "dave")
	require.NoError(t, err)
	c.mustExec([]*ecdsa.PrivateKey{davePK, dev(0).PrivateKey},
		payFee(0, testFee+500),
		&operation.UpdateAccount{AccountID: dave.ID, DelegatePayRate: 50},
	)
	dave = c.account(dave.ID)
	require.True(t, dave.IsDelegate())
	assert.Equal(t, key, dave.SigningKey())
}

func TestUpdateSigningKey(t *testing.T) {
	c := newTestChain(t)
	_, key := newKey(t)

	c.mustExec(devKeys(0),
		payFee(0, testFee),
		&operation.UpdateSigningKey{AccountID: 1, SigningKey: key},
	)
	a := c.account(1)
	assert.Len(t, a.DelegateInfo.SigningKeyHistory, 2)
	assert.Equal(t, key, a.SigningKey())
	id, ok, err := c.db.LookupAccountIDByAddress(key.Address())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, entry.AccountID(1), id)

	_, err = c.exec(devKeys(0),
		payFee(0, testFee),
		&operation.UpdateSigningKey{AccountID: 1, SigningKey: dev(1).PublicKey},
	)
	assert.True(t, errs.IsDuplicateRegistration(err), "%v", err)
}
