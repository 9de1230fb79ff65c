// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"encoding/binary"

	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/storage"
)

// singleton counter pools hold one record under this key
var counterKey = []byte{'N'}

// RegisterCustomType - register a named asset type
//
// registering a name that already exists returns its existing id
// rather than an error, so repeated registrations are stable
func RegisterCustomType(name string) (uint64, error) {
	if "" == name {
		return 0, fault.ErrCustomTypeNotFound
	}
	if len(name) > CurrentLimits().MaxAssetNameLen {
		return 0, fault.ErrCustomTypeNameTooLong
	}

	if id, ok := storage.Pool.CustomTypeByName.GetN([]byte(name)); ok {
		return id, nil
	}

	next, _ := storage.Pool.NextCustomTypeId.GetN(counterKey)
	next += 1

	idKey := make([]byte, 8)
	binary.BigEndian.PutUint64(idKey, next)

	storage.Pool.CustomTypeByName.PutN([]byte(name), next)
	storage.Pool.CustomTypeById.Put(idKey, []byte(name))
	storage.Pool.NextCustomTypeId.PutN(counterKey, next)
	return next, nil
}

// HasCustomType - check that a custom type id is registered
func HasCustomType(id uint64) bool {
	if 0 == id {
		return false
	}
	idKey := make([]byte, 8)
	binary.BigEndian.PutUint64(idKey, id)
	return storage.Pool.CustomTypeById.Has(idKey)
}

// CustomTypeName - the name behind a custom type id
func CustomTypeName(id uint64) (string, error) {
	idKey := make([]byte, 8)
	binary.BigEndian.PutUint64(idKey, id)
	value := storage.Pool.CustomTypeById.Get(idKey)
	if nil == value {
		return "", fault.ErrCustomTypeNotFound
	}
	return string(value), nil
}
