// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - the balance ledger
//
// per-(asset, identity) totals with portfolio sub-accounting, total
// supply maintenance and holder statistics. every mutation snapshots
// the pre-mutation balance for the checkpoint subsystem first.
package ledger

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/meridian-inc/meridiand/asset"
	"github.com/meridian-inc/meridiand/balance"
	"github.com/meridian-inc/meridiand/checkpoint"
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/portfolio"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/ticker"
)

// Reason - why a balance moved, carried on the emitted event
type Reason byte

// all movement reasons
const (
	Issued Reason = iota + 1
	Redeemed
	Transferred
	Controller
	Reorganization
)

func (r Reason) String() string {
	switch r {
	case Issued:
		return "issued"
	case Redeemed:
		return "redeemed"
	case Transferred:
		return "transferred"
	case Controller:
		return "controller"
	case Reorganization:
		return "reorganization"
	}
	return "unknown"
}

// AdmissionHook - statistics veto consulted on every transfer
//
// a nil error admits; the hook sees post-transfer holder counts
type AdmissionHook func(symbol ticker.Ticker, sender identity.Identity, receiver identity.Identity, amount balance.Amount) error

// globals
var globalData struct {
	sync.RWMutex
	log         *logger.L
	admission   AdmissionHook
	initialised bool
}

// Initialise - set up the ledger
func Initialise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	globalData.log = logger.New("ledger")
	globalData.log.Info("starting…")

	globalData.initialised = true
	return nil
}

// Finalise - shut down the ledger
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}
	globalData.admission = nil
	globalData.initialised = false
	return nil
}

// SetAdmissionHook - install a statistics veto
func SetAdmissionHook(hook AdmissionHook) {
	globalData.Lock()
	globalData.admission = hook
	globalData.Unlock()
}

func admissionHook() AdmissionHook {
	globalData.RLock()
	defer globalData.RUnlock()
	return globalData.admission
}

func balanceKey(symbol ticker.Ticker, holder identity.Identity) []byte {
	return append(symbol.Pack(), holder[:]...)
}

// Balance - an identity's total holding across all portfolios
func Balance(symbol ticker.Ticker, holder identity.Identity) balance.Amount {
	value := storage.Pool.Balances.Get(balanceKey(symbol, holder))
	if nil == value {
		return balance.Zero
	}
	amount, n := balance.Unpack(value)
	if 0 == n {
		return balance.Zero
	}
	return amount
}

// HolderCount - number of identities with a non-zero balance
func HolderCount(symbol ticker.Ticker) uint64 {
	count, _ := storage.Pool.HolderCounts.GetN(symbol.Pack())
	return count
}

// write a holder's total, maintaining the holder count and taking
// the checkpoint snapshot of the previous value
func setBalance(symbol ticker.Ticker, holder identity.Identity, amount balance.Amount) {
	previous := Balance(symbol, holder)
	checkpoint.RecordBalance(symbol, holder, previous)

	count := HolderCount(symbol)
	if previous.IsZero() && !amount.IsZero() {
		storage.Pool.HolderCounts.PutN(symbol.Pack(), count+1)
	} else if !previous.IsZero() && amount.IsZero() {
		storage.Pool.HolderCounts.PutN(symbol.Pack(), count-1)
	}

	if amount.IsZero() {
		storage.Pool.Balances.Delete(balanceKey(symbol, holder))
		return
	}
	storage.Pool.Balances.Put(balanceKey(symbol, holder), amount.Pack())
}

// shared validation of amount against the token record
func checkAmount(token asset.Token, amount balance.Amount) error {
	if amount.IsZero() {
		return fault.ErrAmountZero
	}
	if !token.Divisible && !amount.IsWholeUnits() {
		return fault.ErrAssetNotDivisible
	}
	return nil
}

// Issue - mint new tokens into a portfolio
func Issue(symbol ticker.Ticker, amount balance.Amount, to portfolio.Portfolio) error {
	token, err := asset.Get(symbol)
	if nil != err {
		return err
	}
	if asset.IsFrozen(symbol) {
		return fault.ErrAssetFrozen
	}
	if !token.Type.IsFungible() {
		return fault.ErrFungibilityMismatch
	}
	if err := checkAmount(token, amount); nil != err {
		return err
	}

	supply, err := token.TotalSupply.Add(amount)
	if nil != err {
		return fault.ErrSupplyOverflow
	}
	total, err := Balance(symbol, to.Owner).Add(amount)
	if nil != err {
		return fault.ErrBalanceOverflow
	}

	if err := portfolio.Deposit(to, symbol, amount); nil != err {
		return err
	}
	if err := asset.SetSupply(symbol, supply); nil != err {
		return err
	}
	setBalance(symbol, to.Owner, total)
	return nil
}

// Redeem - burn tokens out of a portfolio's free pool
func Redeem(symbol ticker.Ticker, amount balance.Amount, from portfolio.Portfolio) error {
	token, err := asset.Get(symbol)
	if nil != err {
		return err
	}
	if err := checkAmount(token, amount); nil != err {
		return err
	}

	supply, err := token.TotalSupply.Sub(amount)
	if nil != err {
		return fault.ErrSupplyUnderflow
	}
	total, err := Balance(symbol, from.Owner).Sub(amount)
	if nil != err {
		return fault.ErrInsufficientBalance
	}

	if err := portfolio.Withdraw(from, symbol, amount); nil != err {
		return err
	}
	if err := asset.SetSupply(symbol, supply); nil != err {
		return err
	}
	setBalance(symbol, from.Owner, total)
	return nil
}
