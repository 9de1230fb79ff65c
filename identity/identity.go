// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package identity - the identity service
//
// maps account keys to identities, stores claims attached to
// identities, the per-asset agent lists and the authorization inbox
package identity

import (
	"bytes"

	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/sha3"

	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/util"
)

// IdentityLength - bytes in an identity
const IdentityLength = 32

// checksum appended to the textual form
const checksumLength = 4

// Identity - opaque identifier of a legal or operational entity
type Identity [IdentityLength]byte

// FromPublicKey - derive the identity of a registration key
func FromPublicKey(publicKey []byte) (Identity, error) {
	if ed25519.PublicKeySize != len(publicKey) {
		return Identity{}, fault.ErrInvalidKeyLength
	}
	return Identity(sha3.Sum256(publicKey)), nil
}

// String - Base58 with a truncated SHA3-256 checksum
func (id Identity) String() string {
	buffer := make([]byte, 0, IdentityLength+checksumLength)
	buffer = append(buffer, id[:]...)
	checksum := sha3.Sum256(id[:])
	buffer = append(buffer, checksum[:checksumLength]...)
	return util.ToBase58(buffer)
}

// MarshalText - for JSON rendering in the inspection tools
func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// FromBase58 - decode and verify a textual identity
func FromBase58(s string) (Identity, error) {
	decoded := util.FromBase58(s)
	if IdentityLength+checksumLength != len(decoded) {
		return Identity{}, fault.ErrCannotDecodeIdentity
	}
	checksum := sha3.Sum256(decoded[:IdentityLength])
	if !bytes.Equal(checksum[:checksumLength], decoded[IdentityLength:]) {
		return Identity{}, fault.ErrChecksumMismatch
	}
	var id Identity
	copy(id[:], decoded[:IdentityLength])
	return id, nil
}

// IsZero - true for the zero identity
func (id Identity) IsZero() bool {
	return id == Identity{}
}

// Register - create the identity for an account key
//
// fails if the key is already linked
func Register(publicKey []byte) (Identity, error) {
	id, err := FromPublicKey(publicKey)
	if nil != err {
		return Identity{}, err
	}
	if storage.Pool.AccountIdentities.Has(publicKey) {
		return Identity{}, fault.ErrIdentityAlreadyRegistered
	}
	storage.Pool.AccountIdentities.Put(publicKey, id[:])

	record := Record{PrimaryKey: publicKey}
	storage.Pool.IdentityRecords.Put(id[:], record.Pack())
	return id, nil
}

// FromAccount - the identity linked to an account key
func FromAccount(publicKey []byte) (Identity, error) {
	value := storage.Pool.AccountIdentities.Get(publicKey)
	if nil == value {
		return Identity{}, fault.ErrIdentityNotFound
	}
	var id Identity
	copy(id[:], value)
	return id, nil
}

// Exists - check a registered identity
func Exists(id Identity) bool {
	return storage.Pool.IdentityRecords.Has(id[:])
}
