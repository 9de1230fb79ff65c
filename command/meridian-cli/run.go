// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/meridian-inc/meridiand/asset"
	"github.com/meridian-inc/meridiand/ballot"
	"github.com/meridian-inc/meridiand/compliance"
	"github.com/meridian-inc/meridiand/corporateaction"
	"github.com/meridian-inc/meridiand/distribution"
	"github.com/meridian-inc/meridiand/ledger"
	"github.com/meridian-inc/meridiand/portfolio"
)

func runAsset(c *cli.Context) error {
	tick, err := tickerArgument(c, 0)
	if nil != err {
		return err
	}

	closer, err := openDatabase(c)
	if nil != err {
		return err
	}
	defer closer()

	token, err := asset.Get(tick)
	if nil != err {
		return err
	}

	return printJson(c.App.Writer, map[string]interface{}{
		"symbol":        tick.String(),
		"owner":         token.Owner.String(),
		"name":          token.Name,
		"total_supply":  token.TotalSupply.String(),
		"divisible":     token.Divisible,
		"type":          token.Type,
		"funding_round": token.FundingRound,
		"identifiers":   token.Identifiers,
		"frozen":        asset.IsFrozen(tick),
	})
}

func runBalance(c *cli.Context) error {
	tick, err := tickerArgument(c, 0)
	if nil != err {
		return err
	}
	holder, err := identityArgument(c, 1)
	if nil != err {
		return err
	}

	closer, err := openDatabase(c)
	if nil != err {
		return err
	}
	defer closer()

	account := portfolio.Default(holder)

	return printJson(c.App.Writer, map[string]interface{}{
		"symbol":         tick.String(),
		"holder":         holder.String(),
		"total":          ledger.Balance(tick, holder).String(),
		"default_free":   portfolio.FreeBalance(account, tick).String(),
		"default_locked": portfolio.LockedBalance(account, tick).String(),
	})
}

func runCompliance(c *cli.Context) error {
	tick, err := tickerArgument(c, 0)
	if nil != err {
		return err
	}

	closer, err := openDatabase(c)
	if nil != err {
		return err
	}
	defer closer()

	rules := compliance.Get(tick)
	issuers := compliance.DefaultTrustedIssuers(tick)

	defaults := make([]string, len(issuers))
	for i, issuer := range issuers {
		defaults[i] = issuer.Issuer.String()
	}

	return printJson(c.App.Writer, map[string]interface{}{
		"symbol":                  tick.String(),
		"paused":                  rules.Paused,
		"requirements":            rules.Requirements,
		"default_trusted_issuers": defaults,
	})
}

func runCorporateAction(c *cli.Context) error {
	id, err := actionArgument(c)
	if nil != err {
		return err
	}

	closer, err := openDatabase(c)
	if nil != err {
		return err
	}
	defer closer()

	ca, err := corporateaction.Get(id)
	if nil != err {
		return err
	}

	return printJson(c.App.Writer, map[string]interface{}{
		"symbol":          id.Symbol.String(),
		"local":           id.Local,
		"kind":            ca.Kind,
		"declared_at":     ca.DeclaredAt,
		"record_date":     ca.RecordDate,
		"default_tax_ppm": ca.DefaultTaxPpm,
		"targets":         ca.Targets,
		"tax_overrides":   ca.TaxOverrides,
	})
}

func runBallot(c *cli.Context) error {
	id, err := actionArgument(c)
	if nil != err {
		return err
	}

	closer, err := openDatabase(c)
	if nil != err {
		return err
	}
	defer closer()

	rng, err := ballot.RangeOf(id)
	if nil != err {
		return err
	}
	meta, err := ballot.MetaOf(id)
	if nil != err {
		return err
	}
	results, err := ballot.Results(id)
	if nil != err {
		return err
	}

	tallies := make([]string, len(results))
	for i, r := range results {
		tallies[i] = r.String()
	}

	return printJson(c.App.Writer, map[string]interface{}{
		"symbol":      id.Symbol.String(),
		"local":       id.Local,
		"start":       rng.Start,
		"end":         rng.End,
		"title":       meta.Title,
		"motions":     meta.Motions,
		"rcv_enabled": ballot.RcvEnabled(id),
		"results":     tallies,
	})
}

func runDistribution(c *cli.Context) error {
	id, err := actionArgument(c)
	if nil != err {
		return err
	}

	closer, err := openDatabase(c)
	if nil != err {
		return err
	}
	defer closer()

	d, err := distribution.Get(id)
	if nil != err {
		return err
	}

	return printJson(c.App.Writer, map[string]interface{}{
		"symbol":     id.Symbol.String(),
		"local":      id.Local,
		"currency":   d.Currency.String(),
		"per_share":  d.PerShare.String(),
		"amount":     d.Amount.String(),
		"remaining":  d.Remaining.String(),
		"reclaimed":  d.Reclaimed,
		"payment_at": d.PaymentAt,
		"expires_at": d.ExpiresAt,
	})
}

func runVersion(c *cli.Context) error {
	fmt.Fprintf(c.App.Writer, "%s\n", version)
	return nil
}
