// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/meridian-inc/meridiand/asset"
	"github.com/meridian-inc/meridiand/balance"
	"github.com/meridian-inc/meridiand/compliance"
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/portfolio"
	"github.com/meridian-inc/meridiand/ticker"
	"github.com/meridian-inc/meridiand/weight"
)

// the raw movement shared by every transfer flavour: portfolio free
// pools and ledger totals move together, no policy checks
func unsafeTransfer(symbol ticker.Ticker, from portfolio.Portfolio, to portfolio.Portfolio, amount balance.Amount) error {
	senderTotal, err := Balance(symbol, from.Owner).Sub(amount)
	if nil != err {
		return fault.ErrInsufficientBalance
	}
	receiverTotal, err := Balance(symbol, to.Owner).Add(amount)
	if nil != err {
		return fault.ErrBalanceOverflow
	}

	if err := portfolio.Withdraw(from, symbol, amount); nil != err {
		return err
	}
	if err := portfolio.Deposit(to, symbol, amount); nil != err {
		return err
	}
	setBalance(symbol, from.Owner, senderTotal)
	setBalance(symbol, to.Owner, receiverTotal)
	return nil
}

// Transfer - the compliant transfer path
//
// checks the freeze flag, divisibility, compliance under the weight
// meter and the statistics hook, then moves free balances
func Transfer(symbol ticker.Ticker, from portfolio.Portfolio, to portfolio.Portfolio, amount balance.Amount, now int64, meter *weight.Meter) error {
	token, err := asset.Get(symbol)
	if nil != err {
		return err
	}
	if asset.IsFrozen(symbol) {
		return fault.ErrAssetFrozen
	}
	if err := checkAmount(token, amount); nil != err {
		return err
	}

	if err := compliance.EnsureCompliant(symbol, from.Owner, to.Owner, now, meter); nil != err {
		return err
	}
	if hook := admissionHook(); nil != hook {
		if err := hook(symbol, from.Owner, to.Owner, amount); nil != err {
			return err
		}
	}
	return unsafeTransfer(symbol, from, to, amount)
}

// ControllerTransfer - seize tokens into an agent's default portfolio
//
// the corporate-action path: no compliance, no freeze check, the
// movement is still recorded through the common path
func ControllerTransfer(symbol ticker.Ticker, agent identity.Identity, from portfolio.Portfolio, amount balance.Amount) error {
	token, err := asset.Get(symbol)
	if nil != err {
		return err
	}
	if !identity.IsAgent(symbol.Pack(), agent) {
		return fault.ErrNotAnAgent
	}
	if err := checkAmount(token, amount); nil != err {
		return err
	}
	return unsafeTransfer(symbol, from, portfolio.Default(agent), amount)
}

// FeeTransfer - collect a protocol charge into the treasury
//
// charged before the verb runs: no compliance, no freeze check, the
// movement still goes through the common path
func FeeTransfer(symbol ticker.Ticker, from portfolio.Portfolio, to portfolio.Portfolio, amount balance.Amount) error {
	token, err := asset.Get(symbol)
	if nil != err {
		return err
	}
	if err := checkAmount(token, amount); nil != err {
		return err
	}
	return unsafeTransfer(symbol, from, to, amount)
}

// DistributionTransfer - pay out from locked funds
//
// the gain leaves the source's locked pool into the holder's
// default portfolio; tax withheld by the caller simply stays locked
// at the source
func DistributionTransfer(symbol ticker.Ticker, from portfolio.Portfolio, to identity.Identity, gain balance.Amount) error {
	if err := portfolio.SpendLocked(from, symbol, gain); nil != err {
		return err
	}

	senderTotal, err := Balance(symbol, from.Owner).Sub(gain)
	if nil != err {
		return fault.ErrInsufficientBalance
	}
	receiverTotal, err := Balance(symbol, to).Add(gain)
	if nil != err {
		return fault.ErrBalanceOverflow
	}
	if err := portfolio.Deposit(portfolio.Default(to), symbol, gain); nil != err {
		return err
	}
	setBalance(symbol, from.Owner, senderTotal)
	setBalance(symbol, to, receiverTotal)
	return nil
}
