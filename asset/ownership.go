// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/ticker"
)

// Relation - how an identity relates to a ticker
type Relation byte

// all relations
const (
	NotOwned Relation = iota
	TickerOwned
	AssetOwned
)

func relationKey(id identity.Identity, symbol ticker.Ticker) []byte {
	key := make([]byte, 0, identity.IdentityLength+len(symbol)+1)
	key = append(key, id[:]...)
	return append(key, symbol.Pack()...)
}

// OwnershipRelation - the stored relation, NotOwned when absent
func OwnershipRelation(id identity.Identity, symbol ticker.Ticker) Relation {
	value := storage.Pool.OwnershipRelation.Get(relationKey(id, symbol))
	if nil == value || 0 == len(value) {
		return NotOwned
	}
	return Relation(value[0])
}

func setRelation(id identity.Identity, symbol ticker.Ticker, relation Relation) {
	key := relationKey(id, symbol)
	if NotOwned == relation {
		storage.Pool.OwnershipRelation.Delete(key)
		return
	}
	storage.Pool.OwnershipRelation.Put(key, []byte{byte(relation)})
}

// ReserveTicker - reserve a fresh ticker for an identity
func ReserveTicker(caller identity.Identity, symbol ticker.Ticker, now int64, expiry int64) error {
	if !symbol.IsFresh(now) {
		if symbol.IsAsset() {
			return fault.ErrAssetAlreadyExists
		}
		return fault.ErrTickerAlreadyReserved
	}

	// a lapsed reservation by another identity is displaced here
	if previous, ok := previousReservationOwner(symbol); ok && previous != caller {
		setRelation(previous, symbol, NotOwned)
	}

	symbol.Reserve(caller, expiry)
	setRelation(caller, symbol, TickerOwned)
	return nil
}

// the recorded owner even when the reservation has lapsed
func previousReservationOwner(symbol ticker.Ticker) (identity.Identity, bool) {
	value := storage.Pool.TickerReservations.Get(symbol.Pack())
	if nil == value || len(value) < identity.IdentityLength {
		return identity.Identity{}, false
	}
	var id identity.Identity
	copy(id[:], value[:identity.IdentityLength])
	return id, true
}

// AcceptTickerTransfer - consume a TransferTicker authorization
//
// moves the reservation and the ownership relation from the issuer
// to the caller; a ticker that became an asset can no longer move
// this way
func AcceptTickerTransfer(caller identity.Identity, authId uint64, now int64, expiry int64) (ticker.Ticker, error) {
	auth, err := identity.TakeAuthorization(authId, caller, identity.TransferTicker)
	if nil != err {
		return "", err
	}

	symbol, n := ticker.Unpack(auth.Ticker)
	if 0 == n {
		return "", fault.ErrTickerNotFound
	}
	if symbol.IsAsset() {
		return "", fault.ErrAssetAlreadyExists
	}
	if err := symbol.EnsureOwner(auth.Issuer, now); nil != err {
		return "", err
	}

	symbol.Reserve(caller, expiry)
	setRelation(auth.Issuer, symbol, NotOwned)
	setRelation(caller, symbol, TickerOwned)
	return symbol, nil
}

// AcceptAssetOwnership - consume a TransferAssetOwnership authorization
//
// the authorization must have been created by an identity that still
// holds the agent role over the asset
func AcceptAssetOwnership(caller identity.Identity, authId uint64) (ticker.Ticker, error) {
	auth, err := identity.TakeAuthorization(authId, caller, identity.TransferAssetOwnership)
	if nil != err {
		return "", err
	}

	symbol, n := ticker.Unpack(auth.Ticker)
	if 0 == n {
		return "", fault.ErrTickerNotFound
	}
	if !identity.IsAgent(symbol.Pack(), auth.Issuer) {
		return "", fault.ErrNotAnAgent
	}
	if err := SetOwner(symbol, caller); nil != err {
		return "", err
	}
	return symbol, nil
}
