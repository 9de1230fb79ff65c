// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ticker - asset symbols and their reservations
//
// a ticker is fresh while no token record exists against it; only a
// fresh ticker can be reserved, transferred by authorization, or
// turned into an asset
package ticker

import (
	"encoding/binary"

	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/util"
)

// Ticker - an uppercase asset symbol
type Ticker string

// New - validate and construct a ticker
func New(symbol string, maxLength int) (Ticker, error) {
	if 0 == len(symbol) || len(symbol) > maxLength {
		return "", fault.ErrTickerTooLong
	}
	for i := 0; i < len(symbol); i += 1 {
		c := symbol[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case '.' == c || '-' == c || '_' == c:
		default:
			return "", fault.ErrInvalidTickerCharacter
		}
	}
	return Ticker(symbol), nil
}

// Pack - varint64 length prefixed symbol bytes, usable as a key part
func (t Ticker) Pack() []byte {
	return util.AppendString(nil, string(t))
}

// Unpack - recover a ticker from the start of a buffer
//
// also return the number of bytes consumed as second value
func Unpack(buffer []byte) (Ticker, int) {
	s, n := util.NextString(buffer)
	if 0 == n {
		return "", 0
	}
	return Ticker(s), n
}

// String - the plain symbol
func (t Ticker) String() string {
	return string(t)
}

// Reservation - a reserved ticker awaiting asset creation
type Reservation struct {
	Owner   identity.Identity
	Expiry  int64 // seconds, zero means never
}

func (r Reservation) pack() []byte {
	buffer := make([]byte, identity.IdentityLength+8)
	copy(buffer, r.Owner[:])
	binary.BigEndian.PutUint64(buffer[identity.IdentityLength:], uint64(r.Expiry))
	return buffer
}

func unpackReservation(buffer []byte) (Reservation, bool) {
	if len(buffer) < identity.IdentityLength+8 {
		return Reservation{}, false
	}
	r := Reservation{}
	copy(r.Owner[:], buffer[:identity.IdentityLength])
	r.Expiry = int64(binary.BigEndian.Uint64(buffer[identity.IdentityLength:]))
	return r, true
}

// IsAsset - true once a token record exists
func (t Ticker) IsAsset() bool {
	return storage.Pool.Tokens.Has(t.Pack())
}

// CurrentReservation - the live reservation, if any
//
// an expired reservation reads as absent
func (t Ticker) CurrentReservation(now int64) (Reservation, bool) {
	value := storage.Pool.TickerReservations.Get(t.Pack())
	if nil == value {
		return Reservation{}, false
	}
	r, ok := unpackReservation(value)
	if !ok {
		return Reservation{}, false
	}
	if 0 != r.Expiry && now >= r.Expiry {
		return Reservation{}, false
	}
	return r, true
}

// IsFresh - available for reservation by a new owner
func (t Ticker) IsFresh(now int64) bool {
	if t.IsAsset() {
		return false
	}
	_, reserved := t.CurrentReservation(now)
	return !reserved
}

// Reserve - record a reservation for an owner
//
// expiry of zero means the reservation never lapses
func (t Ticker) Reserve(owner identity.Identity, expiry int64) {
	r := Reservation{Owner: owner, Expiry: expiry}
	storage.Pool.TickerReservations.Put(t.Pack(), r.pack())
}

// ClearReservation - drop the reservation record
func (t Ticker) ClearReservation() {
	storage.Pool.TickerReservations.Delete(t.Pack())
}

// EnsureOwner - check the live reservation belongs to an identity
func (t Ticker) EnsureOwner(owner identity.Identity, now int64) error {
	r, ok := t.CurrentReservation(now)
	if !ok {
		if storage.Pool.TickerReservations.Has(t.Pack()) {
			return fault.ErrReservationExpired
		}
		return fault.ErrTickerNotFound
	}
	if r.Owner != owner {
		return fault.ErrNotTickerOwner
	}
	return nil
}
