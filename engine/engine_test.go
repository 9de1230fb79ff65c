// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridian-inc/meridiand/asset"
	"github.com/meridian-inc/meridiand/balance"
	"github.com/meridian-inc/meridiand/compliance"
	"github.com/meridian-inc/meridiand/corporateaction"
	"github.com/meridian-inc/meridiand/engine"
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/fees"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/ledger"
	"github.com/meridian-inc/meridiand/messagebus"
	"github.com/meridian-inc/meridiand/mode"
	"github.com/meridian-inc/meridiand/portfolio"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/ticker"
)

// drain all queued events
func drainEvents() []messagebus.Event {
	events := []messagebus.Event{}
loop:
	for {
		select {
		case e := <-messagebus.Chan():
			events = append(events, e)
		default:
			break loop
		}
	}
	return events
}

func dispatch(t *testing.T, o engine.Origin, verb string, payload interface{}) {
	err := engine.Dispatch(o, verb, payload, nil)
	if nil != err {
		t.Fatalf("%s failed: %s", verb, err)
	}
}

func mustTicker(t *testing.T, symbol string) ticker.Ticker {
	tick, err := ticker.New(symbol, asset.DefaultLimits.MaxTickerLength)
	if nil != err {
		t.Fatalf("ticker %q: %s", symbol, err)
	}
	return tick
}

// create a fully set up asset through the dispatcher
func buildAsset(t *testing.T, owner identity.Identity, symbol string) ticker.Ticker {
	o := engine.SignedOrigin(owner)
	dispatch(t, o, "reserve_ticker", engine.ReserveTicker{Symbol: symbol, Expiry: 1000000})
	dispatch(t, o, "create_asset", engine.CreateAsset{
		Symbol:    symbol,
		Name:      symbol + " token",
		Divisible: true,
		AssetType: asset.Type{Kind: asset.EquityCommon},
	})
	return mustTicker(t, symbol)
}

func addKycClaim(t *testing.T, target identity.Identity, issuer identity.Identity) {
	trx, err := storage.NewDBTransaction()
	if nil != err {
		t.Fatalf("transaction: %s", err)
	}
	kyc := identity.Claim{Type: identity.KnowYourCustomer}
	err = identity.AddClaim(target, kyc, issuer, 0)
	if nil != err {
		trx.Abort()
		t.Fatalf("add claim: %s", err)
	}
	if err := trx.Commit(); nil != err {
		t.Fatalf("commit: %s", err)
	}
}

func TestIssueThenRedeem(t *testing.T) {
	owner := makeIdentity(t, 0x10)
	o := engine.SignedOrigin(owner)
	drainEvents()

	tick := buildAsset(t, owner, "ACME")
	account := portfolio.Default(owner)

	dispatch(t, o, "issue", engine.Issue{
		Symbol:    "ACME",
		Amount:    balance.New(1000000),
		Portfolio: account,
	})
	dispatch(t, o, "redeem", engine.Redeem{
		Symbol:    "ACME",
		Amount:    balance.New(400000),
		Portfolio: account,
	})

	token, err := asset.Get(tick)
	assert.Nil(t, err)
	assert.Equal(t, 0, token.TotalSupply.Cmp(balance.New(600000)))
	assert.Equal(t, 0, portfolio.Balance(account, tick).Cmp(balance.New(600000)))
	assert.True(t, portfolio.LockedBalance(account, tick).IsZero())

	events := drainEvents()
	verbs := make([]string, len(events))
	for i, e := range events {
		verbs[i] = e.Verb
		assert.Equal(t, owner.String(), e.Actor)
	}
	assert.Equal(t, []string{"reserve_ticker", "create_asset", "issue", "redeem"}, verbs)

	issued, ok := events[2].Item.(engine.Issue)
	assert.True(t, ok)
	assert.Equal(t, 0, issued.Amount.Cmp(balance.New(1000000)))
}

func TestComplianceGatedTransfer(t *testing.T) {
	owner := makeIdentity(t, 0x20)
	holder := makeIdentity(t, 0x21)
	claimIssuer := makeIdentity(t, 0x22)
	o := engine.SignedOrigin(owner)

	tick := buildAsset(t, owner, "GATE")
	from := portfolio.Default(owner)
	to := portfolio.Default(holder)

	dispatch(t, o, "issue", engine.Issue{
		Symbol:    "GATE",
		Amount:    balance.New(1000),
		Portfolio: from,
	})
	dispatch(t, o, "add_default_trusted_claim_issuer", engine.AddDefaultTrustedClaimIssuer{
		Symbol: "GATE",
		Issuer: compliance.TrustedIssuer{Issuer: claimIssuer},
	})
	dispatch(t, o, "add_compliance_requirement", engine.AddComplianceRequirement{
		Symbol: "GATE",
		Requirement: compliance.Requirement{
			ReceiverConditions: []compliance.Condition{{
				Kind:   compliance.IsPresent,
				Claims: []identity.Claim{{Type: identity.KnowYourCustomer}},
			}},
		},
	})
	drainEvents()

	move := engine.Transfer{
		Symbol: "GATE",
		From:   from,
		To:     to,
		Amount: balance.New(100),
	}
	err := engine.Dispatch(o, "transfer", move, nil)
	assert.Equal(t, fault.ErrComplianceFailed, err)
	assert.True(t, portfolio.Balance(to, tick).IsZero())
	assert.Empty(t, drainEvents())

	// attested receivers pass the identical transfer
	addKycClaim(t, holder, claimIssuer)
	dispatch(t, o, "transfer", move)
	assert.Equal(t, 0, portfolio.Balance(to, tick).Cmp(balance.New(100)))
	assert.Equal(t, 0, portfolio.Balance(from, tick).Cmp(balance.New(900)))
}

func TestPauseThenResumeCompliance(t *testing.T) {
	owner := makeIdentity(t, 0x30)
	holder := makeIdentity(t, 0x31)
	o := engine.SignedOrigin(owner)

	tick := buildAsset(t, owner, "HALT")
	from := portfolio.Default(owner)
	to := portfolio.Default(holder)

	dispatch(t, o, "issue", engine.Issue{
		Symbol:    "HALT",
		Amount:    balance.New(1000),
		Portfolio: from,
	})
	dispatch(t, o, "add_compliance_requirement", engine.AddComplianceRequirement{
		Symbol: "HALT",
		Requirement: compliance.Requirement{
			ReceiverConditions: []compliance.Condition{{
				Kind:   compliance.IsPresent,
				Claims: []identity.Claim{{Type: identity.KnowYourCustomer}},
			}},
		},
	})

	move := engine.Transfer{
		Symbol: "HALT",
		From:   from,
		To:     to,
		Amount: balance.New(100),
	}
	err := engine.Dispatch(o, "transfer", move, nil)
	assert.Equal(t, fault.ErrComplianceFailed, err)

	dispatch(t, o, "pause_asset_compliance", engine.PauseAssetCompliance{Symbol: "HALT"})
	dispatch(t, o, "transfer", move)
	assert.Equal(t, 0, portfolio.Balance(to, tick).Cmp(balance.New(100)))

	dispatch(t, o, "resume_asset_compliance", engine.ResumeAssetCompliance{Symbol: "HALT"})
	err = engine.Dispatch(o, "transfer", move, nil)
	assert.Equal(t, fault.ErrComplianceFailed, err)
	assert.Equal(t, 0, portfolio.Balance(to, tick).Cmp(balance.New(100)))
}

func TestPermissionChecks(t *testing.T) {
	owner := makeIdentity(t, 0x40)
	stranger := makeIdentity(t, 0x41)
	buildAsset(t, owner, "PERM")

	// host only verbs reject signed callers
	err := engine.Dispatch(engine.SignedOrigin(owner), "exempt_ticker_affirmation",
		engine.ExemptTickerAffirmation{Symbol: "PERM"}, nil)
	assert.Equal(t, fault.ErrNotRoot, err)

	// restricted secondary keys need the capability bit
	limited := engine.SecondaryOrigin(owner, identity.PermitPortfolio)
	err = engine.Dispatch(limited, "reserve_ticker",
		engine.ReserveTicker{Symbol: "OTHER", Expiry: 1000000}, nil)
	assert.Equal(t, fault.ErrSecondaryKeyNotPermitted, err)

	// only agents of the asset may mint
	err = engine.Dispatch(engine.SignedOrigin(stranger), "issue", engine.Issue{
		Symbol:    "PERM",
		Amount:    balance.New(1),
		Portfolio: portfolio.Default(stranger),
	}, nil)
	assert.Equal(t, fault.ErrNotAnAgent, err)

	// unregistered identities are rejected outright
	err = engine.Dispatch(engine.SignedOrigin(identity.Identity{0xff}), "reserve_ticker",
		engine.ReserveTicker{Symbol: "GHOST", Expiry: 1000000}, nil)
	assert.Equal(t, fault.ErrIdentityNotFound, err)

	// root origin passes the exemption verb
	err = engine.Dispatch(engine.RootOrigin(), "exempt_ticker_affirmation",
		engine.ExemptTickerAffirmation{Symbol: "PERM"}, nil)
	assert.Nil(t, err)

	events := drainEvents()
	assert.Equal(t, "exempt_ticker_affirmation", events[len(events)-1].Verb)
	assert.Equal(t, "root", events[len(events)-1].Actor)
}

func TestDispatchRejections(t *testing.T) {
	owner := makeIdentity(t, 0x50)
	o := engine.SignedOrigin(owner)
	drainEvents()

	err := engine.Dispatch(o, "no_such_verb", nil, nil)
	assert.Equal(t, fault.ErrUnknownVerb, err)

	// wrong payload struct for the verb
	err = engine.Dispatch(o, "reserve_ticker", engine.CreateAsset{Symbol: "BAD"}, nil)
	assert.Equal(t, fault.ErrInvalidPayload, err)

	// failures never reach the event stream
	assert.Empty(t, drainEvents())

	dispatched, failed := engine.Counters()
	assert.True(t, dispatched > 0)
	assert.True(t, failed >= 1)
}

func TestStoppedEngine(t *testing.T) {
	owner := makeIdentity(t, 0x60)
	o := engine.SignedOrigin(owner)

	mode.Set(mode.Stopped)
	err := engine.Dispatch(o, "reserve_ticker",
		engine.ReserveTicker{Symbol: "STOP", Expiry: 1000000}, nil)
	assert.Equal(t, fault.ErrEngineStopped, err)

	mode.Set(mode.Normal)
	dispatch(t, o, "reserve_ticker", engine.ReserveTicker{Symbol: "STOP", Expiry: 1000000})
	drainEvents()
}

func TestDistributeRequiresCustody(t *testing.T) {
	agent := makeIdentity(t, 0x80)
	holder := makeIdentity(t, 0x81)

	buildAsset(t, agent, "DIVA")
	cash := buildAsset(t, holder, "DIVC")

	ho := engine.SignedOrigin(holder)
	dispatch(t, ho, "issue", engine.Issue{
		Symbol:    "DIVC",
		Amount:    balance.New(1000),
		Portfolio: portfolio.Default(holder),
	})

	ao := engine.SignedOrigin(agent)
	dispatch(t, ao, "initiate_corporate_action", engine.InitiateCorporateAction{
		Symbol: "DIVA",
		Action: corporateaction.CorporateAction{
			Kind:       corporateaction.PredictableBenefit,
			DeclaredAt: 50,
			RecordDate: 50,
		},
	})
	events := drainEvents()
	initiated, ok := events[len(events)-1].Item.(engine.InitiatedCorporateAction)
	assert.True(t, ok)

	// an agent of the asset still cannot source the pot from a
	// portfolio it does not custody
	pot := engine.Distribute{
		Symbol:    "DIVA",
		Local:     initiated.Id.Local,
		From:      portfolio.Default(holder),
		Currency:  "DIVC",
		PerShare:  balance.New(1),
		Amount:    balance.New(500),
		PaymentAt: 200,
	}
	err := engine.Dispatch(ao, "distribute", pot, nil)
	assert.Equal(t, fault.ErrNotPortfolioCustodian, err)
	assert.True(t, portfolio.LockedBalance(portfolio.Default(holder), cash).IsZero())
	assert.Empty(t, drainEvents())

	dispatch(t, ho, "transfer", engine.Transfer{
		Symbol: "DIVC",
		From:   portfolio.Default(holder),
		To:     portfolio.Default(agent),
		Amount: balance.New(600),
	})

	pot.From = portfolio.Default(agent)
	dispatch(t, ao, "distribute", pot)
	assert.Equal(t, 0, portfolio.LockedBalance(portfolio.Default(agent), cash).Cmp(balance.New(500)))
	assert.True(t, portfolio.LockedBalance(portfolio.Default(holder), cash).IsZero())
	drainEvents()
}

func TestProtocolFeeCharge(t *testing.T) {
	treasury := makeIdentity(t, 0x90)
	payer := makeIdentity(t, 0x91)
	broke := makeIdentity(t, 0x92)
	po := engine.SignedOrigin(payer)

	cash := buildAsset(t, payer, "FEEC")
	dispatch(t, po, "issue", engine.Issue{
		Symbol:    "FEEC",
		Amount:    balance.New(1000),
		Portfolio: portfolio.Default(payer),
	})
	drainEvents()

	// swap in a paid schedule for the rest of this test
	charger := fees.NewFlatCharger(cash, treasury, balance.New(10))
	charger.SetVerbFee("reserve_ticker", balance.New(400))
	if err := engine.Finalise(); nil != err {
		t.Fatalf("finalise: %s", err)
	}
	if err := engine.Initialise(charger, testClock()); nil != err {
		t.Fatalf("initialise: %s", err)
	}
	defer func() {
		_ = engine.Finalise()
		_ = engine.Initialise(nil, testClock())
	}()

	dispatch(t, po, "reserve_ticker", engine.ReserveTicker{Symbol: "FEEP", Expiry: 1000000})
	assert.Equal(t, 0, portfolio.Balance(portfolio.Default(payer), cash).Cmp(balance.New(600)))
	assert.Equal(t, 0, portfolio.Balance(portfolio.Default(treasury), cash).Cmp(balance.New(400)))
	assert.Equal(t, 0, ledger.Balance(cash, treasury).Cmp(balance.New(400)))

	// an unpayable fee rejects the verb before it runs
	err := engine.Dispatch(engine.SignedOrigin(broke), "reserve_ticker",
		engine.ReserveTicker{Symbol: "FEEQ", Expiry: 1000000}, nil)
	assert.Equal(t, fault.ErrProtocolFeeUnpaid, err)
	assert.Equal(t, 0, portfolio.Balance(portfolio.Default(treasury), cash).Cmp(balance.New(400)))

	// that rejection left no reservation behind
	dispatch(t, po, "reserve_ticker", engine.ReserveTicker{Symbol: "FEEQ", Expiry: 1000000})
	assert.Equal(t, 0, portfolio.Balance(portfolio.Default(payer), cash).Cmp(balance.New(200)))

	// root verbs are free
	err = engine.Dispatch(engine.RootOrigin(), "exempt_ticker_affirmation",
		engine.ExemptTickerAffirmation{Symbol: "FEEC"}, nil)
	assert.Nil(t, err)
	assert.Equal(t, 0, portfolio.Balance(portfolio.Default(treasury), cash).Cmp(balance.New(800)))
	drainEvents()
}

func TestFailedVerbRollsBack(t *testing.T) {
	owner := makeIdentity(t, 0x70)
	o := engine.SignedOrigin(owner)

	tick := buildAsset(t, owner, "ROLL")
	account := portfolio.Default(owner)
	dispatch(t, o, "issue", engine.Issue{
		Symbol:    "ROLL",
		Amount:    balance.New(500),
		Portfolio: account,
	})

	err := engine.Dispatch(o, "redeem", engine.Redeem{
		Symbol:    "ROLL",
		Amount:    balance.New(501),
		Portfolio: account,
	}, nil)
	assert.Equal(t, fault.ErrSupplyUnderflow, err)

	token, err := asset.Get(tick)
	assert.Nil(t, err)
	assert.Equal(t, 0, token.TotalSupply.Cmp(balance.New(500)))
	assert.Equal(t, 0, portfolio.Balance(account, tick).Cmp(balance.New(500)))
	drainEvents()
}
