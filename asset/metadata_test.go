// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridian-inc/meridiand/asset"
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/storage"
)

func TestRegisterMetadataKeys(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x31)
	tick := makeAsset(t, owner, "META", true)

	global, err := asset.RegisterGlobalKey(asset.MetadataSpec{Name: "cusip-status"})
	assert.Nil(t, err)
	assert.Equal(t, asset.GlobalKey, global.Kind)

	_, err = asset.RegisterGlobalKey(asset.MetadataSpec{Name: "cusip-status"})
	assert.Equal(t, fault.ErrMetadataKeyAlreadyExists, err)

	local, err := asset.RegisterLocalKey(tick, asset.MetadataSpec{Name: "series"})
	assert.Nil(t, err)
	assert.Equal(t, asset.LocalKey, local.Kind)

	_, err = asset.RegisterLocalKey(tick, asset.MetadataSpec{Name: "series"})
	assert.Equal(t, fault.ErrMetadataKeyAlreadyExists, err)

	// a second asset reuses the same local name
	other := makeAsset(t, owner, "METB", true)
	_, err = asset.RegisterLocalKey(other, asset.MetadataSpec{Name: "series"})
	assert.Nil(t, err)

	assert.True(t, asset.KeyExists(tick, global))
	assert.True(t, asset.KeyExists(tick, local))
	assert.False(t, asset.KeyExists(tick, asset.MetadataKey{Kind: asset.LocalKey, Id: 99}))
}

func TestMetadataValueLifecycle(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x32)
	tick := makeAsset(t, owner, "MVAL", true)

	key, err := asset.RegisterLocalKey(tick, asset.MetadataSpec{Name: "rating"})
	assert.Nil(t, err)

	err = asset.SetValue(tick, key, nil, nil, 100)
	assert.Equal(t, fault.ErrEmptyMetadataValue, err)

	err = asset.SetValue(tick, asset.MetadataKey{Kind: asset.LocalKey, Id: 99},
		[]byte("x"), nil, 100)
	assert.Equal(t, fault.ErrMetadataKeyNotFound, err)

	err = asset.SetValue(tick, key, []byte("AAA"), nil, 100)
	assert.Nil(t, err)

	value, err := asset.GetValue(tick, key)
	assert.Nil(t, err)
	assert.Equal(t, []byte("AAA"), value)

	err = asset.RemoveValue(tick, key, 100)
	assert.Nil(t, err)
	_, err = asset.GetValue(tick, key)
	assert.Equal(t, fault.ErrMetadataValueNotFound, err)
}

func TestMetadataLocking(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x33)
	tick := makeAsset(t, owner, "MLCK", true)

	key, err := asset.RegisterLocalKey(tick, asset.MetadataSpec{Name: "terms"})
	assert.Nil(t, err)

	// locking needs a value to lock
	err = asset.SetDetails(tick, key, asset.MetadataDetail{Lock: asset.Locked}, 100)
	assert.Equal(t, fault.ErrMetadataLockWithoutValue, err)

	err = asset.SetValue(tick, key, []byte("v1"), nil, 100)
	assert.Nil(t, err)

	err = asset.SetDetails(tick, key,
		asset.MetadataDetail{Lock: asset.LockedUntil, LockUntil: 500}, 100)
	assert.Nil(t, err)

	err = asset.SetValue(tick, key, []byte("v2"), nil, 200)
	assert.Equal(t, fault.ErrMetadataValueLocked, err)
	err = asset.RemoveValue(tick, key, 200)
	assert.Equal(t, fault.ErrMetadataValueLocked, err)
	err = asset.RemoveLocalKey(tick, key, 200)
	assert.Equal(t, fault.ErrMetadataValueLocked, err)

	// the time lock lapses
	err = asset.SetValue(tick, key, []byte("v2"), nil, 500)
	assert.Nil(t, err)
}

func TestRemoveLocalKey(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x34)
	tick := makeAsset(t, owner, "MRMK", true)

	key, err := asset.RegisterLocalKey(tick, asset.MetadataSpec{Name: "note"})
	assert.Nil(t, err)
	assert.Nil(t, asset.SetValue(tick, key, []byte("n"), nil, 100))

	global, err := asset.RegisterGlobalKey(asset.MetadataSpec{Name: "global-note"})
	assert.Nil(t, err)
	err = asset.RemoveLocalKey(tick, global, 100)
	assert.Equal(t, fault.ErrInvalidKeyType, err)

	err = asset.RemoveLocalKey(tick, key, 100)
	assert.Nil(t, err)
	assert.False(t, asset.KeyExists(tick, key))

	// the name is free again after removal
	_, err = asset.RegisterLocalKey(tick, asset.MetadataSpec{Name: "note"})
	assert.Nil(t, err)
}

func TestCollectionKeyCannotBeRemoved(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x35)
	tick := makeAsset(t, owner, "MNFT", true)

	key, err := asset.RegisterLocalKey(tick, asset.MetadataSpec{Name: "image"})
	assert.Nil(t, err)
	assert.Nil(t, asset.MarkCollectionKey(tick, key))

	err = asset.RemoveLocalKey(tick, key, 100)
	assert.Equal(t, fault.ErrNftCollectionKey, err)
}
