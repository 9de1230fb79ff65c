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

// ClaimType - the closed set of attestation types
type ClaimType byte

// all claim types
const (
	CustomerDueDiligence ClaimType = iota + 1
	KnowYourCustomer
	Jurisdiction
	Accredited
	Affiliate
	Exempted
	Blocked
	claimTypeLimit
)

// IsValid - range check
func (c ClaimType) IsValid() bool {
	return c >= CustomerDueDiligence && c < claimTypeLimit
}

// ScopeKind - what a claim scope refers to
type ScopeKind byte

// all scope kinds
const (
	ScopeIdentity ScopeKind = iota + 1
	ScopeTicker
	ScopeCustom
)

// Scope - optional narrowing of a claim
type Scope struct {
	Kind  ScopeKind
	Value []byte
}

// Claim - an attestation type with an optional scope
type Claim struct {
	Type  ClaimType
	Scope *Scope
}

// pack a scope, a nil scope packs to a zero kind byte
func packScope(scope *Scope) []byte {
	if nil == scope {
		return []byte{0}
	}
	buffer := []byte{byte(scope.Kind)}
	return util.AppendBytes(buffer, scope.Value)
}

// Pack - serialize a claim for embedding in other records
func (c Claim) Pack() []byte {
	return append([]byte{byte(c.Type)}, packScope(c.Scope)...)
}

// UnpackClaim - recover an embedded claim
//
// also return the number of bytes consumed, zero on truncation
func UnpackClaim(buffer []byte) (Claim, int) {
	if len(buffer) < 2 {
		return Claim{}, 0
	}
	c := Claim{Type: ClaimType(buffer[0])}
	if !c.Type.IsValid() {
		return Claim{}, 0
	}
	if 0 == buffer[1] {
		return c, 2
	}
	scope := Scope{Kind: ScopeKind(buffer[1])}
	value, n := util.NextBytes(buffer[2:])
	if 0 == n {
		return Claim{}, 0
	}
	scope.Value = append([]byte{}, value...)
	c.Scope = &scope
	return c, 2 + n
}

// claim storage key: target ⧺ type ⧺ issuer ⧺ packed scope
func claimKey(target Identity, claim Claim, issuer Identity) []byte {
	key := make([]byte, 0, 2*IdentityLength+8)
	key = append(key, target[:]...)
	key = append(key, byte(claim.Type))
	key = append(key, issuer[:]...)
	return append(key, packScope(claim.Scope)...)
}

// AddClaim - attach an attestation to an identity
//
// expiresAt of zero means the claim never expires
func AddClaim(target Identity, claim Claim, issuer Identity, expiresAt int64) error {
	if !claim.Type.IsValid() {
		return fault.ErrInvalidKeyType
	}
	if !Exists(target) {
		return fault.ErrIdentityNotFound
	}
	value := make([]byte, 8)
	binary.BigEndian.PutUint64(value, uint64(expiresAt))
	storage.Pool.Claims.Put(claimKey(target, claim, issuer), value)
	return nil
}

// RevokeClaim - remove an attestation
func RevokeClaim(target Identity, claim Claim, issuer Identity) {
	storage.Pool.Claims.Delete(claimKey(target, claim, issuer))
}

// HasValidClaim - check for a live attestation by one issuer
func HasValidClaim(target Identity, claim Claim, issuer Identity, now int64) bool {
	value := storage.Pool.Claims.Get(claimKey(target, claim, issuer))
	if nil == value || len(value) < 8 {
		return false
	}
	expiresAt := int64(binary.BigEndian.Uint64(value[:8]))
	return 0 == expiresAt || now < expiresAt
}
