// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPutGetInsideTransaction(t *testing.T) {
	trx, err := NewDBTransaction()
	assert.Nil(t, err)

	key := []byte("key-one")
	value := []byte("value-one")

	Pool.TestData.Put(key, value)

	// read-your-writes before commit
	assert.Equal(t, value, Pool.TestData.Get(key))
	assert.True(t, Pool.TestData.Has(key))

	assert.Nil(t, trx.Commit())

	// still present after commit
	assert.Equal(t, value, Pool.TestData.Get(key))
}

func TestAbortDiscardsWrites(t *testing.T) {
	trx, err := NewDBTransaction()
	assert.Nil(t, err)

	key := []byte("key-aborted")
	Pool.TestData.Put(key, []byte("doomed"))
	assert.True(t, Pool.TestData.Has(key))

	trx.Abort()

	assert.Nil(t, Pool.TestData.Get(key))
	assert.False(t, Pool.TestData.Has(key))
}

func TestDeleteInsideTransaction(t *testing.T) {
	trx, err := NewDBTransaction()
	assert.Nil(t, err)
	key := []byte("key-deleted")
	Pool.TestData.Put(key, []byte("temporary"))
	assert.Nil(t, trx.Commit())

	trx, err = NewDBTransaction()
	assert.Nil(t, err)
	Pool.TestData.Delete(key)

	// the pending delete must hide the committed record
	assert.Nil(t, Pool.TestData.Get(key))
	assert.False(t, Pool.TestData.Has(key))

	assert.Nil(t, trx.Commit())
	assert.Nil(t, Pool.TestData.Get(key))
}

func TestGetN(t *testing.T) {
	trx, err := NewDBTransaction()
	assert.Nil(t, err)

	key := []byte("counter")
	_, found := Pool.TestData.GetN(key)
	assert.False(t, found)

	Pool.TestData.PutN(key, 42)
	n, found := Pool.TestData.GetN(key)
	assert.True(t, found)
	assert.Equal(t, uint64(42), n)

	trx.Abort()
}

func TestOnlyOneTransaction(t *testing.T) {
	trx, err := NewDBTransaction()
	assert.Nil(t, err)

	_, err = NewDBTransaction()
	assert.NotNil(t, err, "second Begin must fail while one is open")

	trx.Abort()

	trx, err = NewDBTransaction()
	assert.Nil(t, err, "Begin must succeed after Abort")
	trx.Abort()
}

func TestCursorFetch(t *testing.T) {
	trx, err := NewDBTransaction()
	assert.Nil(t, err)
	Pool.TestData.Put([]byte("scan-a"), []byte{1})
	Pool.TestData.Put([]byte("scan-b"), []byte{2})
	Pool.TestData.Put([]byte("scan-c"), []byte{3})
	assert.Nil(t, trx.Commit())

	cursor := Pool.TestData.NewFetchCursor().Seek([]byte("scan-"))
	items, err := cursor.Fetch(2)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(items))
	assert.Equal(t, []byte("scan-a"), items[0].Key)
	assert.Equal(t, []byte{1}, items[0].Value)

	// cursor advances past the last returned key
	items, err = cursor.Fetch(2)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(items))
	assert.Equal(t, []byte("scan-c"), items[0].Key)
}
