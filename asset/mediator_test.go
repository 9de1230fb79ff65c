// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridian-inc/meridiand/asset"
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/storage"
)

func TestMediators(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x41)
	tick := makeAsset(t, owner, "MED", true)

	a := makeIdentity(t, 0x42)
	b := makeIdentity(t, 0x43)
	c := makeIdentity(t, 0x44)

	assert.Empty(t, asset.Mediators(tick))

	err = asset.AddMediators(tick, []identity.Identity{b, a})
	assert.Nil(t, err)

	set := asset.Mediators(tick)
	assert.Len(t, set, 2)
	assert.True(t, sort.SliceIsSorted(set, func(i, j int) bool {
		return string(set[i][:]) < string(set[j][:])
	}))

	err = asset.AddMediators(tick, []identity.Identity{a})
	assert.Equal(t, fault.ErrDuplicateMediator, err)

	// removal of an absent identity is a no-op
	err = asset.RemoveMediators(tick, []identity.Identity{c, a})
	assert.Nil(t, err)
	assert.Len(t, asset.Mediators(tick), 1)

	err = asset.RemoveMediators(tick, []identity.Identity{b})
	assert.Nil(t, err)
	assert.Empty(t, asset.Mediators(tick))
}

func TestMediatorBounds(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x45)
	tick := makeAsset(t, owner, "MEDB", true)

	batch := make([]identity.Identity, 0, asset.DefaultLimits.MaxAssetMediators+1)
	for i := 0; i <= asset.DefaultLimits.MaxAssetMediators; i += 1 {
		batch = append(batch, makeIdentity(t, byte(0x50+i)))
	}

	err = asset.AddMediators(tick, batch)
	assert.Equal(t, fault.ErrTooManyMediators, err)

	unregistered := identity.Identity{0xff}
	err = asset.AddMediators(tick, []identity.Identity{unregistered})
	assert.Equal(t, fault.ErrIdentityNotFound, err)
}

func TestCustomTypes(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	id, err := asset.RegisterCustomType("REIT")
	assert.Nil(t, err)
	assert.NotZero(t, id)
	assert.True(t, asset.HasCustomType(id))

	// re-registration returns the existing id
	again, err := asset.RegisterCustomType("REIT")
	assert.Nil(t, err)
	assert.Equal(t, id, again)

	name, err := asset.CustomTypeName(id)
	assert.Nil(t, err)
	assert.Equal(t, "REIT", name)

	assert.False(t, asset.HasCustomType(id+1))
	_, err = asset.CustomTypeName(id + 1)
	assert.Equal(t, fault.ErrCustomTypeNotFound, err)

	// a custom typed asset needs a registered id
	owner := makeIdentity(t, 0x46)
	tick := makeAsset(t, owner, "CSTM", true)
	err = asset.UpdateType(tick, asset.Type{Kind: asset.Custom, CustomId: id})
	assert.Nil(t, err)
}

func TestPreApprovals(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x47)
	holder := makeIdentity(t, 0x48)
	tick := makeAsset(t, owner, "PREA", true)

	assert.False(t, asset.IsPreApproved(holder, tick))

	asset.PreApprove(holder, tick, true)
	assert.True(t, asset.IsPreApproved(holder, tick))

	asset.PreApprove(holder, tick, false)
	assert.False(t, asset.IsPreApproved(holder, tick))

	// the root level exemption covers every identity
	asset.ExemptTicker(tick, true)
	assert.True(t, asset.IsPreApproved(holder, tick))
	assert.True(t, asset.IsTickerExempt(tick))

	asset.ExemptTicker(tick, false)
	assert.False(t, asset.IsPreApproved(holder, tick))
}
