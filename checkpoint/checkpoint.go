// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package checkpoint - monotonic balance snapshots per asset
//
// a checkpoint captures total supply eagerly. per-holder balances
// are materialized lazily: the ledger records a holder's balance
// the first time it changes after a checkpoint, so an untouched
// holder has no snapshot row and the live balance is still correct
// for every past checkpoint.
package checkpoint

import (
	"bytes"
	"encoding/binary"

	"github.com/meridian-inc/meridiand/balance"
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/ticker"
)

func checkpointKey(symbol ticker.Ticker, id uint64) []byte {
	key := symbol.Pack()
	suffix := make([]byte, 8)
	binary.BigEndian.PutUint64(suffix, id)
	return append(key, suffix...)
}

func holderKey(symbol ticker.Ticker, holder identity.Identity) []byte {
	return append(symbol.Pack(), holder[:]...)
}

func holderCheckpointKey(symbol ticker.Ticker, holder identity.Identity, id uint64) []byte {
	key := holderKey(symbol, holder)
	suffix := make([]byte, 8)
	binary.BigEndian.PutUint64(suffix, id)
	return append(key, suffix...)
}

// Latest - the newest checkpoint id, zero when none exist
func Latest(symbol ticker.Ticker) uint64 {
	id, _ := storage.Pool.NextCheckpointId.GetN(symbol.Pack())
	return id
}

// Create - take a snapshot of an asset
//
// total supply is captured immediately, holder balances follow
// lazily; returns the new checkpoint id
func Create(symbol ticker.Ticker, supply balance.Amount, now int64) (uint64, error) {
	if !symbol.IsAsset() {
		return 0, fault.ErrAssetNotFound
	}
	id := Latest(symbol) + 1

	timestamp := make([]byte, 8)
	binary.BigEndian.PutUint64(timestamp, uint64(now))

	storage.Pool.NextCheckpointId.PutN(symbol.Pack(), id)
	storage.Pool.CheckpointSupply.Put(checkpointKey(symbol, id), supply.Pack())
	storage.Pool.CheckpointTimestamps.Put(checkpointKey(symbol, id), timestamp)
	return id, nil
}

// Timestamp - creation time of a checkpoint
func Timestamp(symbol ticker.Ticker, id uint64) (int64, error) {
	value := storage.Pool.CheckpointTimestamps.Get(checkpointKey(symbol, id))
	if len(value) < 8 {
		return 0, fault.ErrCheckpointNotFound
	}
	return int64(binary.BigEndian.Uint64(value)), nil
}

// SupplyAt - total supply captured by a checkpoint
func SupplyAt(symbol ticker.Ticker, id uint64) (balance.Amount, error) {
	value := storage.Pool.CheckpointSupply.Get(checkpointKey(symbol, id))
	if nil == value {
		return balance.Zero, fault.ErrCheckpointNotFound
	}
	supply, n := balance.Unpack(value)
	if 0 == n {
		return balance.Zero, fault.ErrCheckpointNotFound
	}
	return supply, nil
}

// RecordBalance - snapshot a holder's balance before a mutation
//
// the ledger calls this with the pre-mutation balance on every
// balance change; only the first change after the newest checkpoint
// writes a row
func RecordBalance(symbol ticker.Ticker, holder identity.Identity, current balance.Amount) {
	latest := Latest(symbol)
	if 0 == latest {
		return
	}
	mark, _ := storage.Pool.BalanceMarks.GetN(holderKey(symbol, holder))
	if mark >= latest {
		return
	}
	storage.Pool.CheckpointBalances.Put(
		holderCheckpointKey(symbol, holder, latest), current.Pack())
	storage.Pool.BalanceMarks.PutN(holderKey(symbol, holder), latest)
}

// BalanceAt - a holder's balance as of a checkpoint
//
// the first snapshot row at or after the requested checkpoint is
// the answer; with no row the balance has not changed since, so the
// live balance passed by the caller stands
func BalanceAt(symbol ticker.Ticker, holder identity.Identity, id uint64, live balance.Amount) (balance.Amount, error) {
	if 0 == id || id > Latest(symbol) {
		return balance.Zero, fault.ErrInvalidCheckpoint
	}

	prefix := holderKey(symbol, holder)
	cursor := storage.Pool.CheckpointBalances.NewFetchCursor()
	cursor.Seek(holderCheckpointKey(symbol, holder, id))

	found := false
	result := balance.Zero
	stop := fault.ErrCheckpointNotFound
	err := cursor.Map(func(key []byte, value []byte) error {
		if !bytes.HasPrefix(key, prefix) {
			return stop
		}
		amount, n := balance.Unpack(value)
		if 0 == n {
			return stop
		}
		found = true
		result = amount
		return stop
	})
	if nil != err && stop != err {
		return balance.Zero, err
	}
	if found {
		return result, nil
	}
	return live, nil
}

// FirstOnOrAfter - resolve a record date to a checkpoint id
//
// the first checkpoint created at or after the instant; zero when
// every checkpoint predates it
func FirstOnOrAfter(symbol ticker.Ticker, at int64) uint64 {
	latest := Latest(symbol)
	for id := uint64(1); id <= latest; id += 1 {
		created, err := Timestamp(symbol, id)
		if nil != err {
			continue
		}
		if created >= at {
			return id
		}
	}
	return 0
}
