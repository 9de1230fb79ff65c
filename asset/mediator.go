// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"bytes"

	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/ticker"
)

// mediators are stored as one record per asset: a sorted
// concatenation of 32 byte identities, so the set stays
// deterministic regardless of insertion order

func unpackMediators(buffer []byte) []identity.Identity {
	count := len(buffer) / identity.IdentityLength
	list := make([]identity.Identity, 0, count)
	for i := 0; i < count; i += 1 {
		m := identity.Identity{}
		copy(m[:], buffer[i*identity.IdentityLength:])
		list = append(list, m)
	}
	return list
}

func packMediators(list []identity.Identity) []byte {
	buffer := make([]byte, 0, len(list)*identity.IdentityLength)
	for _, m := range list {
		buffer = append(buffer, m[:]...)
	}
	return buffer
}

// Mediators - the current mediator set of an asset
func Mediators(symbol ticker.Ticker) []identity.Identity {
	return unpackMediators(storage.Pool.Mediators.Get(symbol.Pack()))
}

// AddMediators - merge identities into the mediator set
//
// fails without modification on any duplicate or if the merged set
// would exceed the configured bound
func AddMediators(symbol ticker.Ticker, mediators []identity.Identity) error {
	if !symbol.IsAsset() {
		return fault.ErrAssetNotFound
	}
	current := Mediators(symbol)

	for _, m := range mediators {
		if !identity.Exists(m) {
			return fault.ErrIdentityNotFound
		}
		inserted := false
	insert:
		for i, present := range current {
			switch bytes.Compare(m[:], present[:]) {
			case 0:
				return fault.ErrDuplicateMediator
			case -1:
				current = append(current, identity.Identity{})
				copy(current[i+1:], current[i:])
				current[i] = m
				inserted = true
				break insert
			}
		}
		if !inserted {
			current = append(current, m)
		}
	}

	if len(current) > CurrentLimits().MaxAssetMediators {
		return fault.ErrTooManyMediators
	}
	storage.Pool.Mediators.Put(symbol.Pack(), packMediators(current))
	return nil
}

// RemoveMediators - drop identities from the mediator set
//
// removing an absent identity is a no-op
func RemoveMediators(symbol ticker.Ticker, mediators []identity.Identity) error {
	if !symbol.IsAsset() {
		return fault.ErrAssetNotFound
	}
	current := Mediators(symbol)

	for _, m := range mediators {
		for i, present := range current {
			if m == present {
				current = append(current[:i], current[i+1:]...)
				break
			}
		}
	}

	if 0 == len(current) {
		storage.Pool.Mediators.Delete(symbol.Pack())
	} else {
		storage.Pool.Mediators.Put(symbol.Pack(), packMediators(current))
	}
	return nil
}
