// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package distribution - capital distributions against a benefit CA
//
// an agent locks a pot of some currency in a source portfolio; each
// targeted holder is owed per share of their record date balance.
// withheld tax stays locked at the source and is released to the
// custodian on reclaim after expiry.
package distribution

import (
	"encoding/binary"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/meridian-inc/meridiand/asset"
	"github.com/meridian-inc/meridiand/balance"
	"github.com/meridian-inc/meridiand/corporateaction"
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/ledger"
	"github.com/meridian-inc/meridiand/portfolio"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/ticker"
)

// one millionth of a token is the per share unit
const PerSharePrecision = 1000000

// globals
var globalData struct {
	sync.RWMutex
	log         *logger.L
	allowSelf   bool
	initialised bool
}

// Initialise - set up the distribution engine
//
// allowSelf permits an asset to distribute its own token as the
// payout currency
func Initialise(allowSelf bool) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	globalData.log = logger.New("distribution")
	globalData.log.Info("starting…")

	globalData.allowSelf = allowSelf
	globalData.initialised = true
	return nil
}

// Finalise - shut down the distribution engine
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}
	globalData.initialised = false
	return nil
}

// SelfDistributionAllowed - the configured policy
func SelfDistributionAllowed() bool {
	globalData.RLock()
	defer globalData.RUnlock()
	return globalData.allowSelf
}

// Distribution - the stored record
//
// Remaining tracks the locked part of the pot still at the source;
// ExpiresAt of zero means the distribution never expires
type Distribution struct {
	From      portfolio.Portfolio
	Currency  ticker.Ticker
	PerShare  balance.Amount
	Amount    balance.Amount
	Remaining balance.Amount
	Reclaimed bool
	PaymentAt int64
	ExpiresAt int64
}

func (d Distribution) pack() []byte {
	buffer := d.From.Pack()
	buffer = append(buffer, d.Currency.Pack()...)
	buffer = append(buffer, d.PerShare.Pack()...)
	buffer = append(buffer, d.Amount.Pack()...)
	buffer = append(buffer, d.Remaining.Pack()...)
	if d.Reclaimed {
		buffer = append(buffer, 1)
	} else {
		buffer = append(buffer, 0)
	}
	times := make([]byte, 16)
	binary.BigEndian.PutUint64(times[:8], uint64(d.PaymentAt))
	binary.BigEndian.PutUint64(times[8:], uint64(d.ExpiresAt))
	return append(buffer, times...)
}

func unpackDistribution(buffer []byte) (Distribution, error) {
	d := Distribution{}

	const portfolioLength = identity.IdentityLength + 8
	if len(buffer) < portfolioLength {
		return d, fault.ErrDistributionNotFound
	}
	from, err := portfolio.Unpack(buffer[:portfolioLength])
	if nil != err {
		return d, err
	}
	d.From = from
	buffer = buffer[portfolioLength:]

	currency, n := ticker.Unpack(buffer)
	if 0 == n {
		return d, fault.ErrDistributionNotFound
	}
	d.Currency = currency
	buffer = buffer[n:]

	for _, amount := range []*balance.Amount{&d.PerShare, &d.Amount, &d.Remaining} {
		value, n := balance.Unpack(buffer)
		if 0 == n {
			return d, fault.ErrDistributionNotFound
		}
		*amount = value
		buffer = buffer[n:]
	}

	if len(buffer) < 17 {
		return d, fault.ErrDistributionNotFound
	}
	d.Reclaimed = 0 != buffer[0]
	d.PaymentAt = int64(binary.BigEndian.Uint64(buffer[1:9]))
	d.ExpiresAt = int64(binary.BigEndian.Uint64(buffer[9:17]))
	return d, nil
}

func paidKey(id corporateaction.ID, holder identity.Identity) []byte {
	return append(id.Pack(), holder[:]...)
}

// Get - read a distribution record
func Get(id corporateaction.ID) (Distribution, error) {
	value := storage.Pool.Distributions.Get(id.Pack())
	if nil == value {
		return Distribution{}, fault.ErrDistributionNotFound
	}
	return unpackDistribution(value)
}

// WasPaid - whether a holder has already received their benefit
func WasPaid(id corporateaction.ID, holder identity.Identity) bool {
	return nil != storage.Pool.HolderPaid.Get(paidKey(id, holder))
}

// Distribute - declare a distribution and lock the pot
func Distribute(id corporateaction.ID, from portfolio.Portfolio, currency ticker.Ticker,
	perShare balance.Amount, amount balance.Amount, paymentAt int64, expiresAt int64) error {

	ca, err := corporateaction.Get(id)
	if nil != err {
		return err
	}
	if !ca.Kind.IsBenefit() {
		return fault.ErrNotBenefitKind
	}
	if currency == id.Symbol && !SelfDistributionAllowed() {
		return fault.ErrSelfDistributionForbidden
	}
	if amount.IsZero() {
		return fault.ErrDistributionAmountZero
	}
	if perShare.IsZero() {
		return fault.ErrInvalidPerShare
	}
	if 0 != expiresAt && expiresAt <= paymentAt {
		return fault.ErrExpiryBeforePayment
	}
	err = corporateaction.EnsureRecordDateBeforeStart(id, paymentAt)
	if nil != err {
		return err
	}
	if nil != storage.Pool.Distributions.Get(id.Pack()) {
		return fault.ErrDistributionAlreadyExists
	}

	err = portfolio.Lock(from, currency, amount)
	if nil != err {
		return err
	}

	d := Distribution{
		From:      from,
		Currency:  currency,
		PerShare:  perShare,
		Amount:    amount,
		Remaining: amount,
		PaymentAt: paymentAt,
		ExpiresAt: expiresAt,
	}
	storage.Pool.Distributions.Put(id.Pack(), d.pack())
	return nil
}

// Claim - pay out one holder's benefit
//
// benefit is floored per share arithmetic; the holder receives the
// benefit less withholding, the withheld part stays locked at the
// source inside Remaining
func Claim(id corporateaction.ID, holder identity.Identity, now int64) error {
	d, err := Get(id)
	if nil != err {
		return err
	}
	if now < d.PaymentAt {
		return fault.ErrCannotClaimBeforePayment
	}
	if d.Reclaimed || (0 != d.ExpiresAt && now >= d.ExpiresAt) {
		return fault.ErrCannotClaimAfterExpiry
	}
	if WasPaid(id, holder) {
		return fault.ErrHolderAlreadyPaid
	}
	err = corporateaction.EnsureTargeted(id, holder)
	if nil != err {
		return err
	}

	ca, err := corporateaction.Get(id)
	if nil != err {
		return err
	}
	held, err := corporateaction.BalanceAtRecord(id, holder, now)
	if nil != err {
		return err
	}

	benefit, err := held.MulDiv(d.PerShare, PerSharePrecision)
	if nil != err {
		return err
	}
	if d.Remaining.Cmp(benefit) < 0 {
		return fault.ErrInsufficientRemaining
	}

	withheld, err := benefit.MulDiv(balance.New(uint64(ca.TaxOf(holder))), corporateaction.TaxPrecision)
	if nil != err {
		return err
	}
	gain, err := benefit.Sub(withheld)
	if nil != err {
		return err
	}

	token, err := asset.Get(d.Currency)
	if nil != err {
		return err
	}
	if !token.Divisible {
		gain = gain.FloorToUnit()
	}

	err = ledger.DistributionTransfer(d.Currency, d.From, holder, gain)
	if nil != err {
		return err
	}

	d.Remaining, err = d.Remaining.Sub(gain)
	if nil != err {
		return err
	}
	storage.Pool.Distributions.Put(id.Pack(), d.pack())
	storage.Pool.HolderPaid.Put(paidKey(id, holder), []byte{1})
	return nil
}

// Reclaim - recover the unclaimed pot after expiry
func Reclaim(id corporateaction.ID, caller identity.Identity, now int64) error {
	d, err := Get(id)
	if nil != err {
		return err
	}
	if d.Reclaimed {
		return fault.ErrDistributionAlreadyReclaimed
	}
	if 0 == d.ExpiresAt || now < d.ExpiresAt {
		return fault.ErrDistributionNotExpired
	}
	err = portfolio.EnsureCustodian(d.From, caller)
	if nil != err {
		return err
	}

	err = portfolio.Unlock(d.From, d.Currency, d.Remaining)
	if nil != err {
		return err
	}
	d.Remaining = balance.Zero
	d.Reclaimed = true
	storage.Pool.Distributions.Put(id.Pack(), d.pack())
	return nil
}

// Remove - cancel a distribution before payment opens
func Remove(id corporateaction.ID, now int64) error {
	d, err := Get(id)
	if nil != err {
		return err
	}
	if now >= d.PaymentAt {
		return fault.ErrDistributionStarted
	}

	// nothing can have been claimed yet, the full pot is intact
	err = portfolio.Unlock(d.From, d.Currency, d.Amount)
	if nil != err {
		return err
	}
	storage.Pool.Distributions.Delete(id.Pack())
	return nil
}
