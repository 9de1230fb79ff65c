// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package compliance - per-asset transfer rules
//
// requirements are disjunctive: one fully satisfied requirement
// admits the transfer. conditions inside a requirement are
// conjunctive. evaluation cost is metered so a transfer cannot buy
// unbounded work.
package compliance

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/ticker"
	"github.com/meridian-inc/meridiand/util"
)

// Limits - bounded sizes from the engine configuration
type Limits struct {
	MaxConditionComplexity  uint64
	MaxIssuersPerCondition  int
	MaxDefaultTrustedIssuers int
}

// DefaultLimits - used when no configuration overrides are given
var DefaultLimits = Limits{
	MaxConditionComplexity:   50,
	MaxIssuersPerCondition:   8,
	MaxDefaultTrustedIssuers: 8,
}

// globals
var globalData struct {
	sync.RWMutex
	log         *logger.L
	limits      Limits
	initialised bool
}

// Initialise - set up the compliance engine
func Initialise(limits Limits) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	globalData.log = logger.New("compliance")
	globalData.log.Info("starting…")

	globalData.limits = limits
	globalData.initialised = true
	return nil
}

// Finalise - shut down the compliance engine
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}
	globalData.initialised = false
	return nil
}

// CurrentLimits - the active limit set
func CurrentLimits() Limits {
	globalData.RLock()
	defer globalData.RUnlock()
	return globalData.limits
}

// ConditionKind - the closed set of condition types
type ConditionKind byte

// all condition kinds
const (
	IsPresent ConditionKind = iota + 1
	IsAbsent
	IsAnyOf
	IsNoneOf
	IsExternalAgent
	IsSpecificIdentity
	conditionKindLimit
)

// IsValid - range check
func (k ConditionKind) IsValid() bool {
	return k >= IsPresent && k < conditionKindLimit
}

// TrustedIssuer - an issuer whose claims a condition accepts
//
// an empty ClaimTypes list means trusted for any claim type
type TrustedIssuer struct {
	Issuer     identity.Identity
	ClaimTypes []identity.ClaimType
}

// TrustsType - whether the issuer covers one claim type
func (t TrustedIssuer) TrustsType(claimType identity.ClaimType) bool {
	if 0 == len(t.ClaimTypes) {
		return true
	}
	for _, c := range t.ClaimTypes {
		if c == claimType {
			return true
		}
	}
	return false
}

func (t TrustedIssuer) pack() []byte {
	buffer := append([]byte{}, t.Issuer[:]...)
	buffer = append(buffer, util.ToVarint64(uint64(len(t.ClaimTypes)))...)
	for _, c := range t.ClaimTypes {
		buffer = append(buffer, byte(c))
	}
	return buffer
}

func unpackTrustedIssuer(buffer []byte) (TrustedIssuer, int) {
	if len(buffer) < identity.IdentityLength+1 {
		return TrustedIssuer{}, 0
	}
	t := TrustedIssuer{}
	copy(t.Issuer[:], buffer)
	count, n := util.FromVarint64(buffer[identity.IdentityLength:])
	if 0 == n {
		return TrustedIssuer{}, 0
	}
	offset := identity.IdentityLength + n
	if offset+int(count) > len(buffer) {
		return TrustedIssuer{}, 0
	}
	for i := uint64(0); i < count; i += 1 {
		t.ClaimTypes = append(t.ClaimTypes, identity.ClaimType(buffer[offset]))
		offset += 1
	}
	return t, offset
}

// Condition - one predicate over an identity
type Condition struct {
	Kind     ConditionKind
	Claims   []identity.Claim  // IsPresent/IsAbsent use Claims[0]
	Identity identity.Identity // only for IsSpecificIdentity
	Issuers  []TrustedIssuer   // empty falls back to the asset defaults
}

// Complexity - metering cost of one condition
//
// claims times issuers, each floored at one so agent and identity
// conditions still cost a unit
func (c Condition) Complexity(defaultIssuerCount int) uint64 {
	claims := uint64(len(c.Claims))
	if 0 == claims {
		claims = 1
	}
	issuers := uint64(len(c.Issuers))
	if 0 == issuers {
		issuers = uint64(defaultIssuerCount)
		if 0 == issuers {
			issuers = 1
		}
	}
	return claims * issuers
}

func (c Condition) pack() []byte {
	buffer := []byte{byte(c.Kind)}
	buffer = append(buffer, util.ToVarint64(uint64(len(c.Claims)))...)
	for _, claim := range c.Claims {
		buffer = append(buffer, claim.Pack()...)
	}
	buffer = append(buffer, c.Identity[:]...)
	buffer = append(buffer, util.ToVarint64(uint64(len(c.Issuers)))...)
	for _, issuer := range c.Issuers {
		buffer = append(buffer, issuer.pack()...)
	}
	return buffer
}

func unpackCondition(buffer []byte) (Condition, int) {
	if len(buffer) < 2 {
		return Condition{}, 0
	}
	c := Condition{Kind: ConditionKind(buffer[0])}
	if !c.Kind.IsValid() {
		return Condition{}, 0
	}
	offset := 1

	count, n := util.FromVarint64(buffer[offset:])
	if 0 == n {
		return Condition{}, 0
	}
	offset += n
	for i := uint64(0); i < count; i += 1 {
		claim, n := identity.UnpackClaim(buffer[offset:])
		if 0 == n {
			return Condition{}, 0
		}
		c.Claims = append(c.Claims, claim)
		offset += n
	}

	if offset+identity.IdentityLength > len(buffer) {
		return Condition{}, 0
	}
	copy(c.Identity[:], buffer[offset:])
	offset += identity.IdentityLength

	count, n = util.FromVarint64(buffer[offset:])
	if 0 == n {
		return Condition{}, 0
	}
	offset += n
	for i := uint64(0); i < count; i += 1 {
		issuer, n := unpackTrustedIssuer(buffer[offset:])
		if 0 == n {
			return Condition{}, 0
		}
		c.Issuers = append(c.Issuers, issuer)
		offset += n
	}
	return c, offset
}

// Requirement - a conjunctive block of sender and receiver conditions
type Requirement struct {
	Id                 uint32
	SenderConditions   []Condition
	ReceiverConditions []Condition
}

func packConditions(buffer []byte, conditions []Condition) []byte {
	buffer = append(buffer, util.ToVarint64(uint64(len(conditions)))...)
	for _, c := range conditions {
		buffer = append(buffer, c.pack()...)
	}
	return buffer
}

func unpackConditions(buffer []byte) ([]Condition, int) {
	count, n := util.FromVarint64(buffer)
	if 0 == n {
		return nil, 0
	}
	offset := n
	conditions := make([]Condition, 0, count)
	for i := uint64(0); i < count; i += 1 {
		c, n := unpackCondition(buffer[offset:])
		if 0 == n {
			return nil, 0
		}
		conditions = append(conditions, c)
		offset += n
	}
	return conditions, offset
}

func (r Requirement) pack() []byte {
	buffer := util.ToVarint64(uint64(r.Id))
	buffer = packConditions(buffer, r.SenderConditions)
	return packConditions(buffer, r.ReceiverConditions)
}

func unpackRequirement(buffer []byte) (Requirement, int) {
	id, n := util.FromVarint64(buffer)
	if 0 == n {
		return Requirement{}, 0
	}
	r := Requirement{Id: uint32(id)}
	offset := n

	sender, n := unpackConditions(buffer[offset:])
	if 0 == n {
		return Requirement{}, 0
	}
	r.SenderConditions = sender
	offset += n

	receiver, n := unpackConditions(buffer[offset:])
	if 0 == n {
		return Requirement{}, 0
	}
	r.ReceiverConditions = receiver
	return r, offset + n
}

// AssetCompliance - the full rule set of one asset
type AssetCompliance struct {
	Paused       bool
	Requirements []Requirement
}

func (a AssetCompliance) pack() []byte {
	flag := byte(0)
	if a.Paused {
		flag = 1
	}
	buffer := []byte{flag}
	buffer = append(buffer, util.ToVarint64(uint64(len(a.Requirements)))...)
	for _, r := range a.Requirements {
		buffer = append(buffer, r.pack()...)
	}
	return buffer
}

func unpackAssetCompliance(buffer []byte) (AssetCompliance, error) {
	if len(buffer) < 2 {
		return AssetCompliance{}, fault.ErrComplianceRequirementNotFound
	}
	a := AssetCompliance{Paused: 1 == buffer[0]}
	count, n := util.FromVarint64(buffer[1:])
	if 0 == n {
		return AssetCompliance{}, fault.ErrComplianceRequirementNotFound
	}
	offset := 1 + n
	for i := uint64(0); i < count; i += 1 {
		r, n := unpackRequirement(buffer[offset:])
		if 0 == n {
			return AssetCompliance{}, fault.ErrComplianceRequirementNotFound
		}
		a.Requirements = append(a.Requirements, r)
		offset += n
	}
	return a, nil
}

// Get - the stored rule set, empty and unpaused when absent
func Get(symbol ticker.Ticker) AssetCompliance {
	value := storage.Pool.Compliance.Get(symbol.Pack())
	if nil == value {
		return AssetCompliance{}
	}
	a, err := unpackAssetCompliance(value)
	if nil != err {
		return AssetCompliance{}
	}
	return a
}

func put(symbol ticker.Ticker, a AssetCompliance) {
	storage.Pool.Compliance.Put(symbol.Pack(), a.pack())
}

// DefaultTrustedIssuers - the per-asset fallback issuer list
func DefaultTrustedIssuers(symbol ticker.Ticker) []TrustedIssuer {
	buffer := storage.Pool.DefaultTrustedIssuers.Get(symbol.Pack())
	issuers := []TrustedIssuer{}
	for 0 != len(buffer) {
		t, n := unpackTrustedIssuer(buffer)
		if 0 == n {
			return issuers
		}
		issuers = append(issuers, t)
		buffer = buffer[n:]
	}
	return issuers
}

func putDefaultTrustedIssuers(symbol ticker.Ticker, issuers []TrustedIssuer) {
	if 0 == len(issuers) {
		storage.Pool.DefaultTrustedIssuers.Delete(symbol.Pack())
		return
	}
	buffer := []byte{}
	for _, t := range issuers {
		buffer = append(buffer, t.pack()...)
	}
	storage.Pool.DefaultTrustedIssuers.Put(symbol.Pack(), buffer)
}

// totalComplexity - aggregate cost of a rule set
func totalComplexity(requirements []Requirement, defaultIssuerCount int) uint64 {
	total := uint64(0)
	for _, r := range requirements {
		for _, c := range r.SenderConditions {
			total += c.Complexity(defaultIssuerCount)
		}
		for _, c := range r.ReceiverConditions {
			total += c.Complexity(defaultIssuerCount)
		}
	}
	return total
}
