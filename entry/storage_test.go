// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/ledger/errs"
	"github.com/vechain/ledger/thor"
)

func TestStorageType(t *testing.T) {
	assert.True(t, StorageInt.IsScalar())
	assert.True(t, StorageBoolTable.IsTable())
	assert.True(t, StorageStringArray.IsArray())
	assert.False(t, StorageNull.IsTable())
	assert.Equal(t, StorageNumber, StorageNumberTable.Elem())
	assert.Equal(t, StorageBool, StorageBoolArray.Elem())
	assert.Equal(t, StorageStringTable, TableOf(StorageString))
	assert.Equal(t, StorageIntArray, ArrayOf(StorageInt))
	assert.Equal(t, "number_array", StorageNumberArray.String())
	assert.False(t, numStorageTypes.IsValid())
}

func TestStorageScalars(t *testing.T) {
	i := NewInt(-42)
	v, err := i.AsInt()
	require.NoError(t, err)
	assert.Equal(t, int64(-42), v)

	n := NewNumber(3.25)
	f, err := n.AsNumber()
	require.NoError(t, err)
	assert.Equal(t, 3.25, f)

	b := NewBool(true)
	ok, err := b.AsBool()
	require.NoError(t, err)
	assert.True(t, ok)

	s := NewString("hi")
	str, err := s.AsString()
	require.NoError(t, err)
	assert.Equal(t, "hi", str)

	null := Null()
	assert.NoError(t, null.Validate())

	_, err = s.AsInt()
	assert.True(t, errs.IsTypeMismatch(err))
}

func TestStorageContainers(t *testing.T) {
	table, err := NewTable(StorageInt, map[string]StorageData{"bob": NewInt(100), "alice": NewInt(5)})
	require.NoError(t, err)
	assert.Equal(t, StorageIntTable, table.Type)
	assert.NoError(t, table.Validate())

	keys, values, err := table.Items()
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, keys)
	v, _ := values[1].AsInt()
	assert.Equal(t, int64(100), v)

	_, err = NewTable(StorageInt, map[string]StorageData{"x": NewString("no")})
	assert.True(t, errs.IsTypeMismatch(err))

	arr, err := NewArray(StorageString, []StorageData{NewString("a"), NewString("b")})
	require.NoError(t, err)
	keys, _, err = arr.Items()
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1"}, keys)
}

func TestStorageStrictDecode(t *testing.T) {
	table, err := NewTable(StorageInt, map[string]StorageData{"bob": NewInt(100)})
	require.NoError(t, err)

	tests := []struct {
		name string
		data StorageData
	}{
		{"table as scalar", StorageData{StorageInt, table.Payload}},
		{"scalar as table", StorageData{StorageIntTable, NewInt(1).Payload}},
		{"table as array", StorageData{StorageIntArray, table.Payload}},
		{"string items as bool", StorageData{StorageBoolTable, mustEncode([]StorageItem{{"k", NewString("long string").Payload}})}},
		{"unsorted keys", StorageData{StorageIntTable, mustEncode([]StorageItem{{"b", NewInt(1).Payload}, {"a", NewInt(2).Payload}})}},
		{"null with payload", StorageData{StorageNull, []byte{1}}},
		{"unknown type", StorageData{99, nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errs.IsTypeMismatch(tt.data.Validate()))
		})
	}
}

func TestContractValueEntry(t *testing.T) {
	contract := thor.BytesToAddress([]byte("contract"))
	e := NewContractValueEntry(contract, "balances", "bob", NewInt(100))
	assert.Equal(t, ValueID(contract, "balances", "bob"), e.ID)
	assert.NotEqual(t, e.ID, ValueID(contract, "balances", "alice"))
	assert.NotEqual(t, e.ID, ValueID(contract, "balance", "sbob"))

	db := newMemDB()
	key := StorageKey{contract, "balances"}
	require.NoError(t, db.InsertIntoContractValueMap(e.ID, e))
	require.NoError(t, db.InsertIntoContractStorageIndex(key, []thor.Bytes32{e.ID}))

	values, err := LookupContractStorageValues(db, key)
	require.NoError(t, err)
	assert.Equal(t, []*ContractValueEntry{e}, values)

	require.NoError(t, db.EraseFromContractValueMap(e.ID))
	_, err = LookupContractStorageValues(db, key)
	assert.True(t, errs.IsInternal(err))
}
