// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package identity

import (
	"bytes"

	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/util"
)

// Permission - capability bits granted to a secondary key
type Permission uint64

// permission bits
const (
	PermitAsset Permission = 1 << iota
	PermitCompliance
	PermitCorporateAction
	PermitPortfolio

	PermitAll = PermitAsset | PermitCompliance | PermitCorporateAction | PermitPortfolio
)

// SecondaryKey - an additional account key with restricted permissions
type SecondaryKey struct {
	PublicKey   []byte
	Permissions Permission
}

// Record - the stored identity record
type Record struct {
	PrimaryKey    []byte
	SecondaryKeys []SecondaryKey
}

// Pack - serialize an identity record
func (r Record) Pack() []byte {
	buffer := util.AppendBytes(nil, r.PrimaryKey)
	buffer = append(buffer, util.ToVarint64(uint64(len(r.SecondaryKeys)))...)
	for _, sk := range r.SecondaryKeys {
		buffer = util.AppendBytes(buffer, sk.PublicKey)
		buffer = append(buffer, util.ToVarint64(uint64(sk.Permissions))...)
	}
	return buffer
}

// UnpackRecord - recover an identity record
func UnpackRecord(buffer []byte) (Record, error) {
	primary, n := util.NextBytes(buffer)
	if 0 == n {
		return Record{}, fault.ErrCannotDecodeIdentity
	}
	buffer = buffer[n:]

	count, n := util.FromVarint64(buffer)
	if 0 == n {
		return Record{}, fault.ErrCannotDecodeIdentity
	}
	buffer = buffer[n:]

	record := Record{PrimaryKey: append([]byte{}, primary...)}
	for i := uint64(0); i < count; i += 1 {
		key, n := util.NextBytes(buffer)
		if 0 == n {
			return Record{}, fault.ErrCannotDecodeIdentity
		}
		buffer = buffer[n:]

		permissions, n := util.FromVarint64(buffer)
		if 0 == n {
			return Record{}, fault.ErrCannotDecodeIdentity
		}
		buffer = buffer[n:]

		record.SecondaryKeys = append(record.SecondaryKeys, SecondaryKey{
			PublicKey:   append([]byte{}, key...),
			Permissions: Permission(permissions),
		})
	}
	return record, nil
}

// fetch a stored record
func getRecord(id Identity) (Record, error) {
	value := storage.Pool.IdentityRecords.Get(id[:])
	if nil == value {
		return Record{}, fault.ErrIdentityNotFound
	}
	return UnpackRecord(value)
}

// AddSecondaryKey - attach an additional account key to an identity
func AddSecondaryKey(id Identity, publicKey []byte, permissions Permission) error {
	record, err := getRecord(id)
	if nil != err {
		return err
	}
	if storage.Pool.AccountIdentities.Has(publicKey) {
		return fault.ErrIdentityAlreadyRegistered
	}
	record.SecondaryKeys = append(record.SecondaryKeys, SecondaryKey{
		PublicKey:   publicKey,
		Permissions: permissions,
	})
	storage.Pool.AccountIdentities.Put(publicKey, id[:])
	storage.Pool.IdentityRecords.Put(id[:], record.Pack())
	return nil
}

// KeyPermissions - the permissions an account key holds over an identity
//
// the primary key holds every permission
func KeyPermissions(id Identity, publicKey []byte) (Permission, error) {
	record, err := getRecord(id)
	if nil != err {
		return 0, err
	}
	if bytes.Equal(record.PrimaryKey, publicKey) {
		return PermitAll, nil
	}
	for _, sk := range record.SecondaryKeys {
		if bytes.Equal(sk.PublicKey, publicKey) {
			return sk.Permissions, nil
		}
	}
	return 0, fault.ErrIdentityNotFound
}
