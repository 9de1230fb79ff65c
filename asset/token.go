// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"github.com/meridian-inc/meridiand/balance"
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/ticker"
	"github.com/meridian-inc/meridiand/util"
)

// TypeKind - the closed set of asset types
type TypeKind byte

// all asset type kinds
const (
	EquityCommon TypeKind = iota + 1
	EquityPreferred
	Commodity
	FixedIncome
	REIT
	Fund
	RevenueShareAgreement
	StructuredProduct
	Derivative
	StableCoin
	Custom
	NonFungible
	typeKindLimit
)

// Type - an asset type, possibly a registered custom one
type Type struct {
	Kind     TypeKind
	CustomId uint64 // only for Kind == Custom
}

// IsFungible - fungibility polarity of the type
func (a Type) IsFungible() bool {
	return NonFungible != a.Kind
}

// IsValid - range check plus custom-type registration check
func (a Type) IsValid() bool {
	if a.Kind < EquityCommon || a.Kind >= typeKindLimit {
		return false
	}
	if Custom == a.Kind {
		return HasCustomType(a.CustomId)
	}
	return 0 == a.CustomId
}

// Token - the stored token record of an asset
type Token struct {
	Owner        identity.Identity
	Name         string
	TotalSupply  balance.Amount
	Divisible    bool
	Type         Type
	FundingRound string
	Identifiers  []Identifier
}

// Pack - serialize a token record
func (t Token) Pack() []byte {
	buffer := make([]byte, 0, 128)
	buffer = append(buffer, t.Owner[:]...)
	buffer = util.AppendString(buffer, t.Name)
	buffer = append(buffer, t.TotalSupply.Pack()...)
	divisible := byte(0x00)
	if t.Divisible {
		divisible = 0x01
	}
	buffer = append(buffer, divisible, byte(t.Type.Kind))
	buffer = append(buffer, util.ToVarint64(t.Type.CustomId)...)
	buffer = util.AppendString(buffer, t.FundingRound)
	buffer = append(buffer, util.ToVarint64(uint64(len(t.Identifiers)))...)
	for _, id := range t.Identifiers {
		buffer = append(buffer, byte(id.Kind))
		buffer = util.AppendString(buffer, id.Value)
	}
	return buffer
}

// UnpackToken - recover a token record
func UnpackToken(buffer []byte) (Token, error) {
	t := Token{}
	if len(buffer) < identity.IdentityLength {
		return t, fault.ErrAssetNotFound
	}
	copy(t.Owner[:], buffer[:identity.IdentityLength])
	buffer = buffer[identity.IdentityLength:]

	name, n := util.NextString(buffer)
	if 0 == n {
		return t, fault.ErrAssetNotFound
	}
	t.Name = name
	buffer = buffer[n:]

	supply, n := balance.Unpack(buffer)
	if 0 == n {
		return t, fault.ErrAssetNotFound
	}
	t.TotalSupply = supply
	buffer = buffer[n:]

	if len(buffer) < 2 {
		return t, fault.ErrAssetNotFound
	}
	t.Divisible = 0x01 == buffer[0]
	t.Type.Kind = TypeKind(buffer[1])
	buffer = buffer[2:]

	customId, n := util.FromVarint64(buffer)
	if 0 == n {
		return t, fault.ErrAssetNotFound
	}
	t.Type.CustomId = customId
	buffer = buffer[n:]

	round, n := util.NextString(buffer)
	if 0 == n {
		return t, fault.ErrAssetNotFound
	}
	t.FundingRound = round
	buffer = buffer[n:]

	count, n := util.FromVarint64(buffer)
	if 0 == n {
		return t, fault.ErrAssetNotFound
	}
	buffer = buffer[n:]
	for i := uint64(0); i < count; i += 1 {
		if 0 == len(buffer) {
			return t, fault.ErrAssetNotFound
		}
		kind := IdentifierKind(buffer[0])
		buffer = buffer[1:]
		value, n := util.NextString(buffer)
		if 0 == n {
			return t, fault.ErrAssetNotFound
		}
		buffer = buffer[n:]
		t.Identifiers = append(t.Identifiers, Identifier{Kind: kind, Value: value})
	}
	return t, nil
}

// Get - read a token record
func Get(symbol ticker.Ticker) (Token, error) {
	value := storage.Pool.Tokens.Get(symbol.Pack())
	if nil == value {
		return Token{}, fault.ErrAssetNotFound
	}
	return UnpackToken(value)
}

// put - store a token record
func put(symbol ticker.Ticker, t Token) {
	storage.Pool.Tokens.Put(symbol.Pack(), t.Pack())
}

// Create - commit a token record against a ticker
//
// total supply starts at zero, issuance is a separate operation;
// the caller identity must hold the ticker reservation, or the
// ticker must be fresh, in which case it is claimed implicitly
func Create(caller identity.Identity, symbol ticker.Ticker, name string, divisible bool, assetType Type, identifiers []Identifier, fundingRound string, now int64) error {
	limits := CurrentLimits()

	if symbol.IsAsset() {
		return fault.ErrAssetAlreadyExists
	}
	if len(name) > limits.MaxAssetNameLen {
		return fault.ErrAssetNameTooLong
	}
	if len(fundingRound) > limits.MaxFundingRoundNameLen {
		return fault.ErrFundingRoundNameTooLong
	}
	if !assetType.IsValid() {
		return fault.ErrInvalidAssetType
	}
	if err := ValidateIdentifiers(identifiers); nil != err {
		return err
	}

	if reservation, reserved := symbol.CurrentReservation(now); reserved {
		if reservation.Owner != caller {
			return fault.ErrNotTickerOwner
		}
	} else if !symbol.IsFresh(now) {
		return fault.ErrReservationExpired
	}

	token := Token{
		Owner:        caller,
		Name:         name,
		TotalSupply:  balance.Zero,
		Divisible:    divisible,
		Type:         assetType,
		FundingRound: fundingRound,
		Identifiers:  identifiers,
	}
	put(symbol, token)
	symbol.ClearReservation()
	setRelation(caller, symbol, AssetOwned)

	// the owner acts as the first agent of the asset
	identity.AddAgent(symbol.Pack(), caller)
	return nil
}

// Rename - change the asset name
func Rename(symbol ticker.Ticker, name string) error {
	if len(name) > CurrentLimits().MaxAssetNameLen {
		return fault.ErrAssetNameTooLong
	}
	token, err := Get(symbol)
	if nil != err {
		return err
	}
	token.Name = name
	put(symbol, token)
	return nil
}

// SetFundingRound - change the funding round name
func SetFundingRound(symbol ticker.Ticker, round string) error {
	if len(round) > CurrentLimits().MaxFundingRoundNameLen {
		return fault.ErrFundingRoundNameTooLong
	}
	token, err := Get(symbol)
	if nil != err {
		return err
	}
	token.FundingRound = round
	put(symbol, token)
	return nil
}

// UpdateIdentifiers - replace the external identifier list
func UpdateIdentifiers(symbol ticker.Ticker, identifiers []Identifier) error {
	if err := ValidateIdentifiers(identifiers); nil != err {
		return err
	}
	token, err := Get(symbol)
	if nil != err {
		return err
	}
	token.Identifiers = identifiers
	put(symbol, token)
	return nil
}

// UpdateType - change the asset type
//
// fungible and non-fungible assets are never interchanged
func UpdateType(symbol ticker.Ticker, assetType Type) error {
	if !assetType.IsValid() {
		return fault.ErrInvalidAssetType
	}
	token, err := Get(symbol)
	if nil != err {
		return err
	}
	if token.Type.IsFungible() != assetType.IsFungible() {
		return fault.ErrFungibilityMismatch
	}
	token.Type = assetType
	put(symbol, token)
	return nil
}

// MakeDivisible - one way switch from indivisible to divisible
func MakeDivisible(symbol ticker.Ticker) error {
	token, err := Get(symbol)
	if nil != err {
		return err
	}
	token.Divisible = true
	put(symbol, token)
	return nil
}

// SetSupply - update the recorded total supply
//
// only the ledger package calls this, inside its own checks
func SetSupply(symbol ticker.Ticker, supply balance.Amount) error {
	token, err := Get(symbol)
	if nil != err {
		return err
	}
	token.TotalSupply = supply
	put(symbol, token)
	return nil
}

// SetOwner - move asset ownership to a new identity
func SetOwner(symbol ticker.Ticker, newOwner identity.Identity) error {
	token, err := Get(symbol)
	if nil != err {
		return err
	}
	setRelation(token.Owner, symbol, NotOwned)
	token.Owner = newOwner
	put(symbol, token)
	setRelation(newOwner, symbol, AssetOwned)
	return nil
}
