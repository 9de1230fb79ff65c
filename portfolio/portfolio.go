// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package portfolio - sub-accounts of an identity
//
// every registered identity has an implicit default portfolio;
// numbered user portfolios are created explicitly. balances are
// split into a free pool and a locked pool, locks never overlap.
package portfolio

import (
	"encoding/binary"

	"github.com/meridian-inc/meridiand/balance"
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/ticker"
	"github.com/meridian-inc/meridiand/util"
)

// Portfolio - reference to one sub-account
//
// Number zero is the default portfolio
type Portfolio struct {
	Owner  identity.Identity
	Number uint64
}

// Default - the implicit portfolio of an identity
func Default(owner identity.Identity) Portfolio {
	return Portfolio{Owner: owner}
}

// IsDefault - check for the implicit portfolio
func (p Portfolio) IsDefault() bool {
	return 0 == p.Number
}

// Pack - 40 byte key: owner then big-endian number
func (p Portfolio) Pack() []byte {
	buffer := make([]byte, identity.IdentityLength+8)
	copy(buffer, p.Owner[:])
	binary.BigEndian.PutUint64(buffer[identity.IdentityLength:], p.Number)
	return buffer
}

// Unpack - recover a portfolio reference from a packed key
func Unpack(buffer []byte) (Portfolio, error) {
	if identity.IdentityLength+8 != len(buffer) {
		return Portfolio{}, fault.ErrInvalidPortfolioKind
	}
	p := Portfolio{}
	copy(p.Owner[:], buffer)
	p.Number = binary.BigEndian.Uint64(buffer[identity.IdentityLength:])
	return p, nil
}

// record of a user portfolio: name then custodian
type record struct {
	Name      string
	Custodian identity.Identity
}

func (r record) pack() []byte {
	buffer := util.AppendString(nil, r.Name)
	return append(buffer, r.Custodian[:]...)
}

func unpackRecord(buffer []byte) (record, error) {
	r := record{}
	name, n := util.NextString(buffer)
	if 0 == n || len(buffer)-n != identity.IdentityLength {
		return r, fault.ErrPortfolioNotFound
	}
	r.Name = name
	copy(r.Custodian[:], buffer[n:])
	return r, nil
}

// the per-owner number counter lives under the bare owner key, user
// portfolio records under the 40 byte packed reference

// Create - allocate the next numbered portfolio for an identity
func Create(owner identity.Identity, name string) (Portfolio, error) {
	if !identity.Exists(owner) {
		return Portfolio{}, fault.ErrIdentityNotFound
	}
	next, _ := storage.Pool.Portfolios.GetN(owner[:])
	next += 1

	p := Portfolio{Owner: owner, Number: next}
	storage.Pool.Portfolios.PutN(owner[:], next)
	storage.Pool.Portfolios.Put(p.Pack(), record{Name: name, Custodian: owner}.pack())
	return p, nil
}

// Exists - default portfolios exist for every registered identity
func Exists(p Portfolio) bool {
	if p.IsDefault() {
		return identity.Exists(p.Owner)
	}
	return storage.Pool.Portfolios.Has(p.Pack())
}

// Custodian - the identity allowed to move the portfolio's funds
//
// the owner, unless custody was handed over
func Custodian(p Portfolio) (identity.Identity, error) {
	if p.IsDefault() {
		if !identity.Exists(p.Owner) {
			return identity.Identity{}, fault.ErrPortfolioNotFound
		}
		return p.Owner, nil
	}
	value := storage.Pool.Portfolios.Get(p.Pack())
	if nil == value {
		return identity.Identity{}, fault.ErrPortfolioNotFound
	}
	r, err := unpackRecord(value)
	if nil != err {
		return identity.Identity{}, err
	}
	return r.Custodian, nil
}

// EnsureCustodian - reject a caller without custody
func EnsureCustodian(p Portfolio, caller identity.Identity) error {
	custodian, err := Custodian(p)
	if nil != err {
		return err
	}
	if custodian != caller {
		return fault.ErrNotPortfolioCustodian
	}
	return nil
}

// SetCustodian - hand custody of a user portfolio to another identity
func SetCustodian(p Portfolio, caller identity.Identity, custodian identity.Identity) error {
	if p.IsDefault() {
		return fault.ErrInvalidPortfolioKind
	}
	if err := EnsureCustodian(p, caller); nil != err {
		return err
	}
	if !identity.Exists(custodian) {
		return fault.ErrIdentityNotFound
	}
	value := storage.Pool.Portfolios.Get(p.Pack())
	if nil == value {
		return fault.ErrPortfolioNotFound
	}
	r, err := unpackRecord(value)
	if nil != err {
		return err
	}
	r.Custodian = custodian
	storage.Pool.Portfolios.Put(p.Pack(), r.pack())
	return nil
}

func balanceKey(p Portfolio, symbol ticker.Ticker) []byte {
	return append(p.Pack(), symbol.Pack()...)
}

func readAmount(pool *storage.PoolHandle, key []byte) balance.Amount {
	value := pool.Get(key)
	if nil == value {
		return balance.Zero
	}
	amount, n := balance.Unpack(value)
	if 0 == n {
		return balance.Zero
	}
	return amount
}

func writeAmount(pool *storage.PoolHandle, key []byte, amount balance.Amount) {
	if amount.IsZero() {
		pool.Delete(key)
		return
	}
	pool.Put(key, amount.Pack())
}

// Balance - total holding of one ticker, locked included
func Balance(p Portfolio, symbol ticker.Ticker) balance.Amount {
	return readAmount(storage.Pool.PortfolioBalances, balanceKey(p, symbol))
}

// LockedBalance - the portion held by open locks
func LockedBalance(p Portfolio, symbol ticker.Ticker) balance.Amount {
	return readAmount(storage.Pool.PortfolioLocks, balanceKey(p, symbol))
}

// FreeBalance - what withdraw and lock can spend
func FreeBalance(p Portfolio, symbol ticker.Ticker) balance.Amount {
	free, err := Balance(p, symbol).Sub(LockedBalance(p, symbol))
	if nil != err {
		return balance.Zero
	}
	return free
}

// Deposit - add to the free pool
func Deposit(p Portfolio, symbol ticker.Ticker, amount balance.Amount) error {
	if !Exists(p) {
		return fault.ErrPortfolioNotFound
	}
	total, err := Balance(p, symbol).Add(amount)
	if nil != err {
		return err
	}
	writeAmount(storage.Pool.PortfolioBalances, balanceKey(p, symbol), total)
	return nil
}

// Withdraw - remove from the free pool
func Withdraw(p Portfolio, symbol ticker.Ticker, amount balance.Amount) error {
	if !Exists(p) {
		return fault.ErrPortfolioNotFound
	}
	if FreeBalance(p, symbol).Cmp(amount) < 0 {
		return fault.ErrInsufficientPortfolioBalance
	}
	total, err := Balance(p, symbol).Sub(amount)
	if nil != err {
		return err
	}
	writeAmount(storage.Pool.PortfolioBalances, balanceKey(p, symbol), total)
	return nil
}

// Lock - move part of the free pool under lock
func Lock(p Portfolio, symbol ticker.Ticker, amount balance.Amount) error {
	if !Exists(p) {
		return fault.ErrPortfolioNotFound
	}
	if FreeBalance(p, symbol).Cmp(amount) < 0 {
		return fault.ErrInsufficientPortfolioBalance
	}
	locked, err := LockedBalance(p, symbol).Add(amount)
	if nil != err {
		return err
	}
	writeAmount(storage.Pool.PortfolioLocks, balanceKey(p, symbol), locked)
	return nil
}

// Unlock - release part of the locked pool back to free
func Unlock(p Portfolio, symbol ticker.Ticker, amount balance.Amount) error {
	locked, err := LockedBalance(p, symbol).Sub(amount)
	if nil != err {
		return fault.ErrBalanceUnderflow
	}
	writeAmount(storage.Pool.PortfolioLocks, balanceKey(p, symbol), locked)
	return nil
}

// SpendLocked - consume part of the locked pool outright
//
// the distribution claim path pays holders from locked funds, so
// the lock and the balance shrink together
func SpendLocked(p Portfolio, symbol ticker.Ticker, amount balance.Amount) error {
	locked, err := LockedBalance(p, symbol).Sub(amount)
	if nil != err {
		return fault.ErrBalanceUnderflow
	}
	total, err := Balance(p, symbol).Sub(amount)
	if nil != err {
		return fault.ErrBalanceUnderflow
	}
	writeAmount(storage.Pool.PortfolioLocks, balanceKey(p, symbol), locked)
	writeAmount(storage.Pool.PortfolioBalances, balanceKey(p, symbol), total)
	return nil
}

// Move - shift free balance between two portfolios of one identity
func Move(from Portfolio, to Portfolio, symbol ticker.Ticker, amount balance.Amount) error {
	if from.Owner != to.Owner {
		return fault.ErrInvalidPortfolioKind
	}
	if err := Withdraw(from, symbol, amount); nil != err {
		return err
	}
	return Deposit(to, symbol, amount)
}
