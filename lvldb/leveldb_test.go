// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/ledger/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	disk, err := New(filepath.Join(t.TempDir(), "lvldb"), Options{16, 16})
	require.NoError(t, err)
	defer disk.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{disk, mem} {
		require.NoError(t, db.Put(key, value))

		got, err := db.Get(key)
		assert.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := db.Has(key)
		assert.NoError(t, err)
		assert.True(t, has)

		has, err = db.Has(inValidKey)
		assert.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, db.Delete(key))
		_, err = db.Get(key)
		assert.True(t, db.IsNotFound(err))
	}
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lvldb")

	db, err := New(path, Options{})
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	require.NoError(t, db.Close())

	db, err = New(path, Options{})
	require.NoError(t, err)
	defer db.Close()
	got, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestBulkAndSnapshot(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("a"), []byte("1")))
	snap := db.Snapshot()
	defer snap.Release()

	bulk := db.Bulk()
	require.NoError(t, bulk.Put([]byte("b"), []byte("2")))
	require.NoError(t, bulk.Delete([]byte("a")))

	// nothing visible before write
	has, err := db.Has([]byte("b"))
	assert.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, bulk.Write())

	has, _ = db.Has([]byte("a"))
	assert.False(t, has)
	has, _ = db.Has([]byte("b"))
	assert.True(t, has)

	// snapshot keeps the old view
	v, err := snap.Get([]byte("a"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("1"), v)
	_, err = snap.Get([]byte("b"))
	assert.True(t, snap.IsNotFound(err))
}

func TestBucketIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	store := kv.Bucket("v").NewStore(db)
	require.NoError(t, db.Put([]byte("u1"), []byte("x")))
	for _, k := range []string{"3", "1", "2"} {
		require.NoError(t, store.Put([]byte(k), []byte(k)))
	}

	var keys []string
	it := store.Iterate(kv.Range{})
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	it.Release()
	require.NoError(t, it.Error())
	assert.Equal(t, []string{"1", "2", "3"}, keys)
}
