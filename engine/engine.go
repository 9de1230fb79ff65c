// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package engine - the request dispatcher
//
// every verb runs inside one storage transaction: charge the
// protocol fee, run the handler, commit, then emit the canonical
// event. any failure aborts the transaction and nothing is visible.
package engine

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/meridian-inc/meridiand/counter"
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/identity"
)

// Charger - protocol fee collection capability
//
// charged once per dispatched verb before the handler runs; an
// error rejects the request
type Charger interface {
	Charge(actor identity.Identity, verb string) error
}

// FreeCharger - collects nothing
type FreeCharger struct{}

// Charge - always succeeds
func (FreeCharger) Charge(identity.Identity, string) error {
	return nil
}

// Clock - the block provided monotonic timestamp
type Clock interface {
	Now() int64
}

// ClockFunc - adapt a function to the Clock interface
type ClockFunc func() int64

// Now - call the function
func (f ClockFunc) Now() int64 {
	return f()
}

// globals
var globalData struct {
	sync.RWMutex
	log         *logger.L
	charger     Charger
	clock       Clock
	dispatched  counter.Counter
	failed      counter.Counter
	initialised bool
}

// Initialise - set up the dispatcher
//
// a nil charger collects no fees
func Initialise(charger Charger, clock Clock) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}
	if nil == clock {
		return fault.ErrNotInitialised
	}
	if nil == charger {
		charger = FreeCharger{}
	}

	globalData.log = logger.New("engine")
	globalData.log.Info("starting…")

	globalData.charger = charger
	globalData.clock = clock
	globalData.initialised = true
	return nil
}

// Finalise - shut down the dispatcher
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}
	globalData.initialised = false
	return nil
}

// Counters - dispatched and failed request totals
func Counters() (uint64, uint64) {
	return globalData.dispatched.Uint64(), globalData.failed.Uint64()
}
