// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package compliance

import (
	"sort"

	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/ticker"
)

// normalise a trusted issuer list in place: claim-type sets are
// deduplicated and sorted
func normaliseIssuers(issuers []TrustedIssuer) error {
	if len(issuers) > CurrentLimits().MaxIssuersPerCondition {
		return fault.ErrTooManyTrustedIssuers
	}
	for i := range issuers {
		types := issuers[i].ClaimTypes
		if 0 == len(types) {
			continue
		}
		sort.Slice(types, func(a, b int) bool { return types[a] < types[b] })
		deduped := types[:1]
		for _, c := range types[1:] {
			if c != deduped[len(deduped)-1] {
				deduped = append(deduped, c)
			}
		}
		issuers[i].ClaimTypes = deduped
	}
	return nil
}

func checkRequirement(r *Requirement) error {
	for i := range r.SenderConditions {
		if !r.SenderConditions[i].Kind.IsValid() {
			return fault.ErrInvalidKeyType
		}
		if err := normaliseIssuers(r.SenderConditions[i].Issuers); nil != err {
			return err
		}
	}
	for i := range r.ReceiverConditions {
		if !r.ReceiverConditions[i].Kind.IsValid() {
			return fault.ErrInvalidKeyType
		}
		if err := normaliseIssuers(r.ReceiverConditions[i].Issuers); nil != err {
			return err
		}
	}
	return nil
}

func checkComplexity(symbol ticker.Ticker, requirements []Requirement) error {
	defaults := len(DefaultTrustedIssuers(symbol))
	if totalComplexity(requirements, defaults) > CurrentLimits().MaxConditionComplexity {
		return fault.ErrComplianceTooComplex
	}
	return nil
}

// AddRequirement - append a requirement with the next free id
//
// returns the allocated id
func AddRequirement(symbol ticker.Ticker, r Requirement) (uint32, error) {
	if !symbol.IsAsset() {
		return 0, fault.ErrAssetNotFound
	}
	if err := checkRequirement(&r); nil != err {
		return 0, err
	}

	current := Get(symbol)
	id := uint32(1)
	if n := len(current.Requirements); n > 0 {
		id = current.Requirements[n-1].Id + 1
	}
	r.Id = id
	current.Requirements = append(current.Requirements, r)

	if err := checkComplexity(symbol, current.Requirements); nil != err {
		return 0, err
	}
	put(symbol, current)
	return id, nil
}

// RemoveRequirement - delete one requirement by id
func RemoveRequirement(symbol ticker.Ticker, id uint32) error {
	if !symbol.IsAsset() {
		return fault.ErrAssetNotFound
	}
	current := Get(symbol)
	for i, r := range current.Requirements {
		if r.Id == id {
			current.Requirements = append(current.Requirements[:i], current.Requirements[i+1:]...)
			put(symbol, current)
			return nil
		}
	}
	return fault.ErrComplianceRequirementNotFound
}

// ChangeRequirement - replace one requirement in place, same id
func ChangeRequirement(symbol ticker.Ticker, r Requirement) error {
	if !symbol.IsAsset() {
		return fault.ErrAssetNotFound
	}
	if err := checkRequirement(&r); nil != err {
		return err
	}
	current := Get(symbol)
	for i := range current.Requirements {
		if current.Requirements[i].Id == r.Id {
			current.Requirements[i] = r
			if err := checkComplexity(symbol, current.Requirements); nil != err {
				return err
			}
			put(symbol, current)
			return nil
		}
	}
	return fault.ErrComplianceRequirementNotFound
}

// ReplaceRequirements - swap the whole rule set
//
// the new set must be sorted ascending by id with no duplicates
func ReplaceRequirements(symbol ticker.Ticker, requirements []Requirement) error {
	if !symbol.IsAsset() {
		return fault.ErrAssetNotFound
	}
	for i := range requirements {
		if i > 0 && requirements[i].Id <= requirements[i-1].Id {
			return fault.ErrDuplicateRequirementId
		}
		if err := checkRequirement(&requirements[i]); nil != err {
			return err
		}
	}
	if err := checkComplexity(symbol, requirements); nil != err {
		return err
	}

	current := Get(symbol)
	current.Requirements = requirements
	put(symbol, current)
	return nil
}

// ResetRequirements - drop every requirement, keep the paused flag
func ResetRequirements(symbol ticker.Ticker) error {
	if !symbol.IsAsset() {
		return fault.ErrAssetNotFound
	}
	current := Get(symbol)
	current.Requirements = nil
	put(symbol, current)
	return nil
}

// SetPaused - pause or resume evaluation, idempotent
func SetPaused(symbol ticker.Ticker, paused bool) error {
	if !symbol.IsAsset() {
		return fault.ErrAssetNotFound
	}
	current := Get(symbol)
	current.Paused = paused
	put(symbol, current)
	return nil
}

// AddDefaultTrustedIssuer - extend the per-asset fallback list
func AddDefaultTrustedIssuer(symbol ticker.Ticker, issuer TrustedIssuer) error {
	if !symbol.IsAsset() {
		return fault.ErrAssetNotFound
	}
	single := []TrustedIssuer{issuer}
	if err := normaliseIssuers(single); nil != err {
		return err
	}

	current := DefaultTrustedIssuers(symbol)
	for _, t := range current {
		if t.Issuer == issuer.Issuer {
			return fault.ErrDuplicateTrustedIssuer
		}
	}
	current = append(current, single[0])
	if len(current) > CurrentLimits().MaxDefaultTrustedIssuers {
		return fault.ErrTooManyTrustedIssuers
	}

	// a longer fallback list raises the cost of conditions that
	// depend on it
	if totalComplexity(Get(symbol).Requirements, len(current)) > CurrentLimits().MaxConditionComplexity {
		return fault.ErrComplianceTooComplex
	}
	putDefaultTrustedIssuers(symbol, current)
	return nil
}

// RemoveDefaultTrustedIssuer - shrink the per-asset fallback list
func RemoveDefaultTrustedIssuer(symbol ticker.Ticker, issuer identity.Identity) error {
	if !symbol.IsAsset() {
		return fault.ErrAssetNotFound
	}
	current := DefaultTrustedIssuers(symbol)
	for i, t := range current {
		if t.Issuer == issuer {
			current = append(current[:i], current[i+1:]...)
			putDefaultTrustedIssuers(symbol, current)
			return nil
		}
	}
	return fault.ErrTrustedIssuerNotFound
}
