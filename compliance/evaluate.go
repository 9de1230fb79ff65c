// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package compliance

import (
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/ticker"
	"github.com/meridian-inc/meridiand/weight"
)

// metering costs
const (
	weightPerCondition  = 1
	weightPerClaimFetch = 1
)

// one trusted issuer holding a live matching claim satisfies a fetch
func claimPresent(target identity.Identity, claim identity.Claim, issuers []TrustedIssuer, now int64, meter *weight.Meter) (bool, error) {
	for _, t := range issuers {
		if err := meter.Consume(weightPerClaimFetch); nil != err {
			return false, err
		}
		if !t.TrustsType(claim.Type) {
			continue
		}
		if identity.HasValidClaim(target, claim, t.Issuer, now) {
			return true, nil
		}
	}
	return false, nil
}

func anyClaimPresent(target identity.Identity, claims []identity.Claim, issuers []TrustedIssuer, now int64, meter *weight.Meter) (bool, error) {
	for _, claim := range claims {
		present, err := claimPresent(target, claim, issuers, now, meter)
		if nil != err {
			return false, err
		}
		if present {
			return true, nil
		}
	}
	return false, nil
}

// evaluate one condition against one identity
func evaluateCondition(symbol ticker.Ticker, target identity.Identity, c Condition, defaults []TrustedIssuer, now int64, meter *weight.Meter) (bool, error) {
	if err := meter.Consume(weightPerCondition); nil != err {
		return false, err
	}

	issuers := c.Issuers
	if 0 == len(issuers) {
		issuers = defaults
	}

	switch c.Kind {
	case IsPresent:
		if 0 == len(c.Claims) {
			return false, nil
		}
		return claimPresent(target, c.Claims[0], issuers, now, meter)

	case IsAbsent:
		if 0 == len(c.Claims) {
			return true, nil
		}
		present, err := claimPresent(target, c.Claims[0], issuers, now, meter)
		return !present, err

	case IsAnyOf:
		return anyClaimPresent(target, c.Claims, issuers, now, meter)

	case IsNoneOf:
		present, err := anyClaimPresent(target, c.Claims, issuers, now, meter)
		return !present, err

	case IsExternalAgent:
		return identity.IsAgent(symbol.Pack(), target), nil

	case IsSpecificIdentity:
		return target == c.Identity, nil
	}
	return false, nil
}

// all conditions of one side must hold
func evaluateConditions(symbol ticker.Ticker, target identity.Identity, conditions []Condition, defaults []TrustedIssuer, now int64, meter *weight.Meter) (bool, error) {
	for _, c := range conditions {
		ok, err := evaluateCondition(symbol, target, c, defaults, now, meter)
		if nil != err {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// IsCompliant - admit or reject a transfer
//
// paused assets and assets without requirements admit everything;
// otherwise the first fully satisfied requirement admits. the only
// error returned is weight exhaustion, a plain rejection is false
// with a nil error
func IsCompliant(symbol ticker.Ticker, sender identity.Identity, receiver identity.Identity, now int64, meter *weight.Meter) (bool, error) {
	rules := Get(symbol)
	if rules.Paused || 0 == len(rules.Requirements) {
		return true, nil
	}
	defaults := DefaultTrustedIssuers(symbol)

	for _, r := range rules.Requirements {
		ok, err := evaluateConditions(symbol, sender, r.SenderConditions, defaults, now, meter)
		if nil != err {
			return false, err
		}
		if !ok {
			continue
		}
		ok, err = evaluateConditions(symbol, receiver, r.ReceiverConditions, defaults, now, meter)
		if nil != err {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// EnsureCompliant - IsCompliant folded to a single error
func EnsureCompliant(symbol ticker.Ticker, sender identity.Identity, receiver identity.Identity, now int64, meter *weight.Meter) error {
	ok, err := IsCompliant(symbol, sender, receiver, now, meter)
	if nil != err {
		return err
	}
	if !ok {
		return fault.ErrComplianceFailed
	}
	return nil
}

// RequirementReport - the truth table of one requirement
type RequirementReport struct {
	Id        uint32
	Satisfied bool
	Sender    []bool
	Receiver  []bool
}

// ComplianceReport - full diagnostic evaluation
type ComplianceReport struct {
	Paused       bool
	Compliant    bool
	Requirements []RequirementReport
}

// VerifyRestrictionGranular - evaluate without short-circuiting
//
// every condition of every requirement is reported, so the cost is
// the full rule set; diagnostic callers bring a generous meter
func VerifyRestrictionGranular(symbol ticker.Ticker, sender identity.Identity, receiver identity.Identity, now int64, meter *weight.Meter) (ComplianceReport, error) {
	rules := Get(symbol)
	report := ComplianceReport{Paused: rules.Paused}
	if rules.Paused || 0 == len(rules.Requirements) {
		report.Compliant = true
		return report, nil
	}
	defaults := DefaultTrustedIssuers(symbol)

	for _, r := range rules.Requirements {
		rr := RequirementReport{Id: r.Id, Satisfied: true}
		for _, c := range r.SenderConditions {
			ok, err := evaluateCondition(symbol, sender, c, defaults, now, meter)
			if nil != err {
				return ComplianceReport{}, err
			}
			rr.Sender = append(rr.Sender, ok)
			rr.Satisfied = rr.Satisfied && ok
		}
		for _, c := range r.ReceiverConditions {
			ok, err := evaluateCondition(symbol, receiver, c, defaults, now, meter)
			if nil != err {
				return ComplianceReport{}, err
			}
			rr.Receiver = append(rr.Receiver, ok)
			rr.Satisfied = rr.Satisfied && ok
		}
		report.Requirements = append(report.Requirements, rr)
		report.Compliant = report.Compliant || rr.Satisfied
	}
	return report, nil
}
