// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package compliance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridian-inc/meridiand/compliance"
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/weight"
)

func kycPresent(issuers ...compliance.TrustedIssuer) compliance.Condition {
	return compliance.Condition{
		Kind:    compliance.IsPresent,
		Claims:  []identity.Claim{{Type: identity.KnowYourCustomer}},
		Issuers: issuers,
	}
}

func TestRequirementMutations(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x61)
	tick := makeAsset(t, owner, "CMPL")

	id1, err := compliance.AddRequirement(tick, compliance.Requirement{
		SenderConditions: []compliance.Condition{kycPresent()},
	})
	assert.Nil(t, err)
	assert.Equal(t, uint32(1), id1)

	id2, err := compliance.AddRequirement(tick, compliance.Requirement{
		ReceiverConditions: []compliance.Condition{kycPresent()},
	})
	assert.Nil(t, err)
	assert.Equal(t, uint32(2), id2)

	rules := compliance.Get(tick)
	assert.Len(t, rules.Requirements, 2)
	assert.False(t, rules.Paused)

	err = compliance.RemoveRequirement(tick, id1)
	assert.Nil(t, err)
	err = compliance.RemoveRequirement(tick, id1)
	assert.Equal(t, fault.ErrComplianceRequirementNotFound, err)

	// ids never rewind
	id3, err := compliance.AddRequirement(tick, compliance.Requirement{})
	assert.Nil(t, err)
	assert.Equal(t, uint32(3), id3)

	err = compliance.ChangeRequirement(tick, compliance.Requirement{
		Id:               id3,
		SenderConditions: []compliance.Condition{kycPresent()},
	})
	assert.Nil(t, err)
	err = compliance.ChangeRequirement(tick, compliance.Requirement{Id: 99})
	assert.Equal(t, fault.ErrComplianceRequirementNotFound, err)

	err = compliance.ResetRequirements(tick)
	assert.Nil(t, err)
	assert.Empty(t, compliance.Get(tick).Requirements)
}

func TestReplaceRequirements(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x62)
	tick := makeAsset(t, owner, "REPL")

	err = compliance.ReplaceRequirements(tick, []compliance.Requirement{
		{Id: 1}, {Id: 1},
	})
	assert.Equal(t, fault.ErrDuplicateRequirementId, err)

	err = compliance.ReplaceRequirements(tick, []compliance.Requirement{
		{Id: 2}, {Id: 1},
	})
	assert.Equal(t, fault.ErrDuplicateRequirementId, err)

	err = compliance.ReplaceRequirements(tick, []compliance.Requirement{
		{Id: 1, SenderConditions: []compliance.Condition{kycPresent()}},
		{Id: 5},
	})
	assert.Nil(t, err)
	assert.Len(t, compliance.Get(tick).Requirements, 2)
}

func TestComplexityBound(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x63)
	issuer := makeIdentity(t, 0x64)
	tick := makeAsset(t, owner, "CPLX")

	// many claims times many issuers exceeds the default budget
	claims := make([]identity.Claim, 0, 7)
	for c := identity.CustomerDueDiligence; c <= identity.Blocked; c += 1 {
		claims = append(claims, identity.Claim{Type: c})
	}
	issuers := make([]compliance.TrustedIssuer, 8)
	for i := range issuers {
		issuers[i] = compliance.TrustedIssuer{Issuer: issuer}
	}
	big := compliance.Condition{
		Kind:    compliance.IsAnyOf,
		Claims:  claims,
		Issuers: issuers,
	}

	_, err = compliance.AddRequirement(tick, compliance.Requirement{
		SenderConditions: []compliance.Condition{big},
	})
	assert.Equal(t, fault.ErrComplianceTooComplex, err)
}

func TestTrustedIssuerList(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x65)
	issuer := makeIdentity(t, 0x66)
	tick := makeAsset(t, owner, "TRST")

	err = compliance.AddDefaultTrustedIssuer(tick, compliance.TrustedIssuer{
		Issuer: issuer,
		ClaimTypes: []identity.ClaimType{
			identity.KnowYourCustomer,
			identity.Accredited,
			identity.KnowYourCustomer, // deduplicated
		},
	})
	assert.Nil(t, err)

	list := compliance.DefaultTrustedIssuers(tick)
	assert.Len(t, list, 1)
	assert.Equal(t, []identity.ClaimType{
		identity.KnowYourCustomer,
		identity.Accredited,
	}, list[0].ClaimTypes)

	err = compliance.AddDefaultTrustedIssuer(tick, compliance.TrustedIssuer{Issuer: issuer})
	assert.Equal(t, fault.ErrDuplicateTrustedIssuer, err)

	err = compliance.RemoveDefaultTrustedIssuer(tick, owner)
	assert.Equal(t, fault.ErrTrustedIssuerNotFound, err)
	err = compliance.RemoveDefaultTrustedIssuer(tick, issuer)
	assert.Nil(t, err)
	assert.Empty(t, compliance.DefaultTrustedIssuers(tick))
}

func TestIsCompliant(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x67)
	issuer := makeIdentity(t, 0x68)
	sender := makeIdentity(t, 0x69)
	receiver := makeIdentity(t, 0x6a)
	tick := makeAsset(t, owner, "EVAL")

	// an asset without rules admits everything
	ok, err := compliance.IsCompliant(tick, sender, receiver, 100, weight.Unlimited())
	assert.Nil(t, err)
	assert.True(t, ok)

	trusted := compliance.TrustedIssuer{Issuer: issuer}
	_, err = compliance.AddRequirement(tick, compliance.Requirement{
		SenderConditions:   []compliance.Condition{kycPresent(trusted)},
		ReceiverConditions: []compliance.Condition{kycPresent(trusted)},
	})
	assert.Nil(t, err)

	ok, err = compliance.IsCompliant(tick, sender, receiver, 100, weight.Unlimited())
	assert.Nil(t, err)
	assert.False(t, ok)

	kyc := identity.Claim{Type: identity.KnowYourCustomer}
	assert.Nil(t, identity.AddClaim(sender, kyc, issuer, 0))

	// the receiver still lacks the claim
	ok, err = compliance.IsCompliant(tick, sender, receiver, 100, weight.Unlimited())
	assert.Nil(t, err)
	assert.False(t, ok)

	assert.Nil(t, identity.AddClaim(receiver, kyc, issuer, 0))
	ok, err = compliance.IsCompliant(tick, sender, receiver, 100, weight.Unlimited())
	assert.Nil(t, err)
	assert.True(t, ok)

	// a claim by an untrusted issuer does not count
	stranger := makeIdentity(t, 0x6b)
	assert.Nil(t, identity.AddClaim(receiver, kyc, stranger, 0))
	identity.RevokeClaim(receiver, kyc, issuer)
	ok, err = compliance.IsCompliant(tick, sender, receiver, 100, weight.Unlimited())
	assert.Nil(t, err)
	assert.False(t, ok)

	// pausing admits everything again
	assert.Nil(t, compliance.SetPaused(tick, true))
	ok, err = compliance.IsCompliant(tick, sender, receiver, 100, weight.Unlimited())
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Nil(t, compliance.SetPaused(tick, false))

	err = compliance.EnsureCompliant(tick, sender, receiver, 100, weight.Unlimited())
	assert.Equal(t, fault.ErrComplianceFailed, err)
}

func TestDisjunctionAndDefaults(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x6c)
	issuer := makeIdentity(t, 0x6d)
	holder := makeIdentity(t, 0x6e)
	tick := makeAsset(t, owner, "DISJ")

	// conditions without issuers fall back to the asset defaults
	assert.Nil(t, compliance.AddDefaultTrustedIssuer(tick,
		compliance.TrustedIssuer{Issuer: issuer}))

	_, err = compliance.AddRequirement(tick, compliance.Requirement{
		SenderConditions: []compliance.Condition{{
			Kind:   compliance.IsPresent,
			Claims: []identity.Claim{{Type: identity.Accredited}},
		}},
	})
	assert.Nil(t, err)
	_, err = compliance.AddRequirement(tick, compliance.Requirement{
		SenderConditions: []compliance.Condition{{
			Kind:     compliance.IsSpecificIdentity,
			Identity: owner,
		}},
	})
	assert.Nil(t, err)

	// the first requirement fails, the second admits the owner
	ok, err := compliance.IsCompliant(tick, owner, holder, 100, weight.Unlimited())
	assert.Nil(t, err)
	assert.True(t, ok)

	// a default-trusted claim satisfies the first requirement
	assert.Nil(t, identity.AddClaim(holder,
		identity.Claim{Type: identity.Accredited}, issuer, 0))
	ok, err = compliance.IsCompliant(tick, holder, owner, 100, weight.Unlimited())
	assert.Nil(t, err)
	assert.True(t, ok)

	// an external-agent condition admits the owner as receiver
	err = compliance.ReplaceRequirements(tick, []compliance.Requirement{
		{Id: 1, ReceiverConditions: []compliance.Condition{{
			Kind: compliance.IsExternalAgent,
		}}},
	})
	assert.Nil(t, err)
	ok, err = compliance.IsCompliant(tick, holder, owner, 100, weight.Unlimited())
	assert.Nil(t, err)
	assert.True(t, ok)
	ok, err = compliance.IsCompliant(tick, owner, holder, 100, weight.Unlimited())
	assert.Nil(t, err)
	assert.False(t, ok)
}

func TestWeightMetering(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x6f)
	issuer := makeIdentity(t, 0x70)
	sender := makeIdentity(t, 0x71)
	receiver := makeIdentity(t, 0x72)
	tick := makeAsset(t, owner, "WGHT")

	trusted := compliance.TrustedIssuer{Issuer: issuer}
	_, err = compliance.AddRequirement(tick, compliance.Requirement{
		SenderConditions:   []compliance.Condition{kycPresent(trusted)},
		ReceiverConditions: []compliance.Condition{kycPresent(trusted)},
	})
	assert.Nil(t, err)

	meter := weight.NewMeter(1)
	_, err = compliance.IsCompliant(tick, sender, receiver, 100, meter)
	assert.Equal(t, fault.ErrWeightLimitExceeded, err)
}

func TestGranularReport(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0x73)
	issuer := makeIdentity(t, 0x74)
	sender := makeIdentity(t, 0x75)
	receiver := makeIdentity(t, 0x76)
	tick := makeAsset(t, owner, "GRAN")

	trusted := compliance.TrustedIssuer{Issuer: issuer}
	_, err = compliance.AddRequirement(tick, compliance.Requirement{
		SenderConditions:   []compliance.Condition{kycPresent(trusted)},
		ReceiverConditions: []compliance.Condition{kycPresent(trusted)},
	})
	assert.Nil(t, err)
	_, err = compliance.AddRequirement(tick, compliance.Requirement{
		SenderConditions: []compliance.Condition{{
			Kind:     compliance.IsSpecificIdentity,
			Identity: sender,
		}},
	})
	assert.Nil(t, err)

	kyc := identity.Claim{Type: identity.KnowYourCustomer}
	assert.Nil(t, identity.AddClaim(sender, kyc, issuer, 0))

	report, err := compliance.VerifyRestrictionGranular(tick, sender, receiver, 100, weight.Unlimited())
	assert.Nil(t, err)
	assert.True(t, report.Compliant)
	assert.Len(t, report.Requirements, 2)

	// the first requirement fails on the receiver side only
	assert.False(t, report.Requirements[0].Satisfied)
	assert.Equal(t, []bool{true}, report.Requirements[0].Sender)
	assert.Equal(t, []bool{false}, report.Requirements[0].Receiver)

	assert.True(t, report.Requirements[1].Satisfied)
}
