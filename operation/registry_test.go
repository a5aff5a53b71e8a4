// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operation_test

import (
	"encoding/json"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/ledger/entry"
	"github.com/vechain/ledger/errs"
	"github.com/vechain/ledger/operation"
	"github.com/vechain/ledger/thor"
	"github.com/vechain/ledger/tx"
)

type note struct {
	Text string
}

func (n *note) Type() tx.OpType                  { return 100 }
func (n *note) Evaluate(s operation.State) error { return nil }

func TestRegister(t *testing.T) {
	r := operation.NewRegistry()
	c := operation.Converter{Type: 100, Name: "note", New: func() operation.Operation { return new(note) }}
	require.NoError(t, r.Register(c))

	err := r.Register(c)
	assert.True(t, errs.IsDuplicateRegistration(err), "%v", err)
	err = r.Register(operation.Converter{Type: 101, Name: "broken"})
	assert.True(t, errs.IsInvalidArgument(err), "%v", err)

	got, ok := r.Lookup(100)
	assert.True(t, ok)
	assert.Equal(t, "note", got.Name)
	_, ok = r.Lookup(101)
	assert.False(t, ok)

	op, err := r.Unpack(operation.MustPack(&note{"hi"}))
	require.NoError(t, err)
	assert.Equal(t, &note{"hi"}, op)

	// default registry refuses the same tag twice
	def := operation.NewDefaultRegistry()
	err = def.Register(operation.Converter{Type: operation.TypeWithdraw, Name: "withdraw", New: func() operation.Operation { return new(operation.Withdraw) }})
	assert.True(t, errs.IsDuplicateRegistration(err), "%v", err)
}

func TestUnpackErrors(t *testing.T) {
	r := operation.NewDefaultRegistry()

	_, err := r.Unpack(tx.Operation{Type: 99, Data: []byte{0xc0}})
	assert.True(t, errs.IsUnsupportedOperation(err), "%v", err)

	_, err = r.Unpack(tx.Operation{Type: operation.TypeWithdraw, Data: []byte{0x01, 0x02}})
	assert.True(t, errs.IsMalformedPayload(err), "%v", err)

	// a code whose hash does not match its bytecode is rejected on decode
	code := entry.NewCode([]byte{1, 2, 3}, []string{"run"}, nil, nil)
	code.Bytecode = []byte{4}
	packed := operation.MustPack(&operation.RegisterContract{Name: "bad", Code: code})
	_, err = r.Unpack(packed)
	assert.True(t, errs.IsMalformedPayload(err), "%v", err)

	_, err = r.FromVariant([]byte(`{"type":99,"data":{}}`))
	assert.True(t, errs.IsUnsupportedOperation(err), "%v", err)
	_, err = r.FromVariant([]byte(`{"type":1,"data":[]}`))
	assert.True(t, errs.IsMalformedPayload(err), "%v", err)
	_, err = r.FromVariant([]byte(`not json`))
	assert.True(t, errs.IsMalformedPayload(err), "%v", err)
}

func TestVariant(t *testing.T) {
	r := operation.NewDefaultRegistry()
	op := operation.MustPack(&operation.Deposit{Amount: 42, Condition: devBalance(3)})

	data, err := r.ToVariant(op)
	require.NoError(t, err)

	var v struct {
		Type uint            `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &v))
	assert.Equal(t, uint(operation.TypeDeposit), v.Type)
	assert.Contains(t, string(v.Data), `"amount":42`)

	back, err := r.FromVariant(data)
	require.NoError(t, err)
	assert.Equal(t, op, back)
}

func TestTransactionVariant(t *testing.T) {
	chainID := thor.Blake2b([]byte("variant"))
	r := operation.NewDefaultRegistry()
	origin := tx.NewBuilder().
		Expiration(1000).
		Operation(operation.MustPack(&operation.Withdraw{BalanceID: devBalance(0).Address(), Amount: 10})).
		Build()
	origin = tx.MustSign(origin, chainID, dev(0).PrivateKey)
	op := operation.MustPack(&operation.Transaction{Trx: origin})

	data, err := r.ToVariant(op)
	require.NoError(t, err)
	back, err := r.FromVariant(data)
	require.NoError(t, err)
	assert.Equal(t, op, back)

	unpacked, err := r.Unpack(back)
	require.NoError(t, err)
	carried := unpacked.(*operation.Transaction).Trx
	assert.Equal(t, origin.ID(chainID), carried.ID(chainID))
}

// TestCodecRoundTrip checks that every payload survives both the binary and
// the json codec unchanged.
func TestCodecRoundTrip(t *testing.T) {
	r := operation.NewDefaultRegistry()
	f := fuzz.New().NilChance(0.2).NumElements(0, 3).Funcs(
		func(c *entry.Code, cont fuzz.Continue) {
			var (
				bytecode           []byte
				abis, offline, evs []string
			)
			cont.Fuzz(&bytecode)
			cont.Fuzz(&abis)
			cont.Fuzz(&offline)
			cont.Fuzz(&evs)
			*c = entry.NewCode(bytecode, abis, offline, evs)
		},
	)

	for typ := operation.TypeWithdraw; typ <= operation.TypeTransaction; typ++ {
		if typ == operation.TypeTransaction {
			continue
		}
		c, ok := r.Lookup(typ)
		require.True(t, ok, "type %d", typ)
		for i := 0; i < 50; i++ {
			op := c.New()
			f.Fuzz(op)
			packed, err := operation.Pack(op)
			require.NoError(t, err, c.Name)

			unpacked, err := r.Unpack(packed)
			require.NoError(t, err, c.Name)
			again, err := operation.Pack(unpacked)
			require.NoError(t, err, c.Name)
			assert.Equal(t, packed, again, c.Name)

			data, err := r.ToVariant(packed)
			require.NoError(t, err, c.Name)
			fromJSON, err := r.FromVariant(data)
			require.NoError(t, err, c.Name)
			assert.Equal(t, packed, fromJSON, c.Name)
		}
	}
}
