// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fees - flat per-verb protocol fee collection
//
// every dispatched verb pays a fixed amount of one currency into
// the treasury's default portfolio before the handler runs. the
// charge shares the request's storage transaction, so a verb that
// fails later also returns its fee.
package fees

import (
	"github.com/meridian-inc/meridiand/balance"
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/ledger"
	"github.com/meridian-inc/meridiand/portfolio"
	"github.com/meridian-inc/meridiand/ticker"
)

// FlatCharger - a fee schedule with one flat amount and per-verb overrides
type FlatCharger struct {
	currency ticker.Ticker
	treasury identity.Identity
	flat     balance.Amount
	verbs    map[string]balance.Amount
}

// NewFlatCharger - a schedule charging flat for every verb
func NewFlatCharger(currency ticker.Ticker, treasury identity.Identity, flat balance.Amount) *FlatCharger {
	return &FlatCharger{
		currency: currency,
		treasury: treasury,
		flat:     flat,
		verbs:    map[string]balance.Amount{},
	}
}

// SetVerbFee - override the flat amount for one verb
//
// zero makes the verb free
func (c *FlatCharger) SetVerbFee(verb string, amount balance.Amount) {
	c.verbs[verb] = amount
}

// Charge - debit the fee from the actor's default portfolio
//
// an actor that cannot cover the fee is rejected before the verb
// runs; the treasury itself is never charged
func (c *FlatCharger) Charge(actor identity.Identity, verb string) error {
	fee, ok := c.verbs[verb]
	if !ok {
		fee = c.flat
	}
	if fee.IsZero() {
		return nil
	}
	if actor == c.treasury {
		return nil
	}
	err := ledger.FeeTransfer(c.currency, portfolio.Default(actor), portfolio.Default(c.treasury), fee)
	if fault.ErrInsufficientBalance == err {
		return fault.ErrProtocolFeeUnpaid
	}
	return err
}
