// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridian-inc/meridiand/asset"
	"github.com/meridian-inc/meridiand/balance"
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/ledger"
	"github.com/meridian-inc/meridiand/portfolio"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/ticker"
	"github.com/meridian-inc/meridiand/weight"
)

func TestIssueThenRedeem(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x91)
	tick := makeAsset(t, owner, "ACME", true)
	home := portfolio.Default(owner)

	err = ledger.Issue(tick, balance.NewUnits(1000000), home)
	assert.Nil(t, err)

	err = ledger.Redeem(tick, balance.NewUnits(400000), home)
	assert.Nil(t, err)

	token, err := asset.Get(tick)
	assert.Nil(t, err)
	assert.Equal(t, 0, token.TotalSupply.Cmp(balance.NewUnits(600000)))
	assert.Equal(t, 0, ledger.Balance(tick, owner).Cmp(balance.NewUnits(600000)))
	assert.Equal(t, 0, portfolio.Balance(home, tick).Cmp(balance.NewUnits(600000)))
	assert.True(t, portfolio.LockedBalance(home, tick).IsZero())
	assert.Equal(t, uint64(1), ledger.HolderCount(tick))

	err = ledger.Redeem(tick, balance.NewUnits(600001), home)
	assert.Equal(t, fault.ErrInsufficientBalance, err)
}

func TestIssueGuards(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x92)
	tick := makeAsset(t, owner, "GRD", false)
	home := portfolio.Default(owner)

	err = ledger.Issue(tick, balance.Zero, home)
	assert.Equal(t, fault.ErrAmountZero, err)

	// an indivisible asset only moves in whole units
	err = ledger.Issue(tick, balance.New(1), home)
	assert.Equal(t, fault.ErrAssetNotDivisible, err)

	assert.Nil(t, asset.SetFreeze(tick, true))
	err = ledger.Issue(tick, balance.NewUnits(1), home)
	assert.Equal(t, fault.ErrAssetFrozen, err)
	assert.Nil(t, asset.SetFreeze(tick, false))

	err = ledger.Issue(tick, balance.NewUnits(1), home)
	assert.Nil(t, err)
}

func TestTransfer(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x93)
	holder := makeIdentity(t, 0x94)
	tick := makeAsset(t, owner, "XFER", true)
	from := portfolio.Default(owner)
	to := portfolio.Default(holder)

	assert.Nil(t, ledger.Issue(tick, balance.NewUnits(100), from))

	err = ledger.Transfer(tick, from, to, balance.NewUnits(30), 100, weight.Unlimited())
	assert.Nil(t, err)

	assert.Equal(t, 0, ledger.Balance(tick, owner).Cmp(balance.NewUnits(70)))
	assert.Equal(t, 0, ledger.Balance(tick, holder).Cmp(balance.NewUnits(30)))
	assert.Equal(t, uint64(2), ledger.HolderCount(tick))

	// draining a holder shrinks the count
	err = ledger.Transfer(tick, to, from, balance.NewUnits(30), 100, weight.Unlimited())
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), ledger.HolderCount(tick))

	err = ledger.Transfer(tick, to, from, balance.NewUnits(1), 100, weight.Unlimited())
	assert.Equal(t, fault.ErrInsufficientPortfolioBalance, err)

	assert.Nil(t, asset.SetFreeze(tick, true))
	err = ledger.Transfer(tick, from, to, balance.NewUnits(1), 100, weight.Unlimited())
	assert.Equal(t, fault.ErrAssetFrozen, err)
}

func TestTransferLockedFundsStay(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x95)
	holder := makeIdentity(t, 0x96)
	tick := makeAsset(t, owner, "LOCK", true)
	from := portfolio.Default(owner)

	assert.Nil(t, ledger.Issue(tick, balance.NewUnits(100), from))
	assert.Nil(t, portfolio.Lock(from, tick, balance.NewUnits(80)))

	err = ledger.Transfer(tick, from, portfolio.Default(holder),
		balance.NewUnits(30), 100, weight.Unlimited())
	assert.Equal(t, fault.ErrInsufficientPortfolioBalance, err)

	err = ledger.Transfer(tick, from, portfolio.Default(holder),
		balance.NewUnits(20), 100, weight.Unlimited())
	assert.Nil(t, err)
}

func TestAdmissionHook(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x97)
	holder := makeIdentity(t, 0x98)
	tick := makeAsset(t, owner, "STAT", true)
	from := portfolio.Default(owner)
	to := portfolio.Default(holder)

	assert.Nil(t, ledger.Issue(tick, balance.NewUnits(100), from))

	ledger.SetAdmissionHook(func(symbol ticker.Ticker, sender identity.Identity, receiver identity.Identity, amount balance.Amount) error {
		if receiver == holder {
			return fault.ErrStatisticsRejected
		}
		return nil
	})
	defer ledger.SetAdmissionHook(nil)

	err = ledger.Transfer(tick, from, to, balance.NewUnits(10), 100, weight.Unlimited())
	assert.Equal(t, fault.ErrStatisticsRejected, err)
	assert.Equal(t, 0, ledger.Balance(tick, owner).Cmp(balance.NewUnits(100)))

	// the reverse direction is admitted
	err = ledger.Transfer(tick, to, from, balance.NewUnits(1), 100, weight.Unlimited())
	assert.Equal(t, fault.ErrInsufficientPortfolioBalance, err)
}

func TestControllerTransfer(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x99)
	holder := makeIdentity(t, 0x9a)
	tick := makeAsset(t, owner, "CTRL", true)

	assert.Nil(t, ledger.Issue(tick, balance.NewUnits(50), portfolio.Default(holder)))

	// freeze does not stop the controller path
	assert.Nil(t, asset.SetFreeze(tick, true))

	err = ledger.ControllerTransfer(tick, owner, portfolio.Default(holder), balance.NewUnits(50))
	assert.Nil(t, err)
	assert.Equal(t, 0, ledger.Balance(tick, owner).Cmp(balance.NewUnits(50)))
	assert.True(t, ledger.Balance(tick, holder).IsZero())

	err = ledger.ControllerTransfer(tick, holder, portfolio.Default(owner), balance.NewUnits(1))
	assert.Equal(t, fault.ErrNotAnAgent, err)
}

func TestDistributionTransfer(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x9b)
	holder := makeIdentity(t, 0x9c)
	tick := makeAsset(t, owner, "PAYQ", true)
	source := portfolio.Default(owner)

	assert.Nil(t, ledger.Issue(tick, balance.NewUnits(100), source))
	assert.Nil(t, portfolio.Lock(source, tick, balance.NewUnits(100)))

	// benefit 10, 2 withheld: only the gain of 8 moves
	err = ledger.DistributionTransfer(tick, source, holder, balance.NewUnits(8))
	assert.Nil(t, err)

	assert.Equal(t, 0, ledger.Balance(tick, holder).Cmp(balance.NewUnits(8)))
	assert.Equal(t, 0, ledger.Balance(tick, owner).Cmp(balance.NewUnits(92)))
	assert.Equal(t, 0, portfolio.LockedBalance(source, tick).Cmp(balance.NewUnits(92)))
	assert.Equal(t, 0,
		portfolio.Balance(portfolio.Default(holder), tick).Cmp(balance.NewUnits(8)))
}
