// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package identity

import (
	"encoding/binary"

	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/util"
)

// AuthorizationKind - what the issuer is offering
type AuthorizationKind byte

// all authorization kinds
const (
	TransferTicker AuthorizationKind = iota + 1
	TransferAssetOwnership
)

// Authorization - a pending offer consumed exactly once by its target
type Authorization struct {
	Id     uint64
	Issuer Identity
	Target Identity
	Kind   AuthorizationKind
	Ticker []byte
}

var nextAuthorizationKey = []byte{'N'}

// pack an authorization record
func (a Authorization) pack() []byte {
	buffer := make([]byte, 0, 2*IdentityLength+len(a.Ticker)+4)
	buffer = append(buffer, a.Issuer[:]...)
	buffer = append(buffer, a.Target[:]...)
	buffer = append(buffer, byte(a.Kind))
	return util.AppendBytes(buffer, a.Ticker)
}

func unpackAuthorization(id uint64, buffer []byte) (Authorization, error) {
	if len(buffer) < 2*IdentityLength+2 {
		return Authorization{}, fault.ErrAuthorizationNotFound
	}
	a := Authorization{Id: id}
	copy(a.Issuer[:], buffer[:IdentityLength])
	copy(a.Target[:], buffer[IdentityLength:2*IdentityLength])
	a.Kind = AuthorizationKind(buffer[2*IdentityLength])
	ticker, n := util.NextBytes(buffer[2*IdentityLength+1:])
	if 0 == n {
		return Authorization{}, fault.ErrAuthorizationNotFound
	}
	a.Ticker = append([]byte{}, ticker...)
	return a, nil
}

func authorizationKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}

// CreateAuthorization - add an offer to the target's inbox
//
// returns the allocated authorization id
func CreateAuthorization(issuer Identity, target Identity, kind AuthorizationKind, packedTicker []byte) uint64 {
	next, _ := storage.Pool.NextAuthorizationId.GetN(nextAuthorizationKey)
	next += 1
	storage.Pool.NextAuthorizationId.PutN(nextAuthorizationKey, next)

	a := Authorization{
		Id:     next,
		Issuer: issuer,
		Target: target,
		Kind:   kind,
		Ticker: packedTicker,
	}
	storage.Pool.Authorizations.Put(authorizationKey(next), a.pack())
	return next
}

// TakeAuthorization - consume a pending offer
//
// the caller must be the target and the kind must match; the record
// is removed so a second accept fails with not found
func TakeAuthorization(id uint64, target Identity, kind AuthorizationKind) (Authorization, error) {
	value := storage.Pool.Authorizations.Get(authorizationKey(id))
	if nil == value {
		return Authorization{}, fault.ErrAuthorizationNotFound
	}
	a, err := unpackAuthorization(id, value)
	if nil != err {
		return Authorization{}, err
	}
	if a.Target != target {
		return Authorization{}, fault.ErrNotAuthorizationTarget
	}
	if a.Kind != kind {
		return Authorization{}, fault.ErrAuthorizationNotFound
	}
	storage.Pool.Authorizations.Delete(authorizationKey(id))
	return a, nil
}
