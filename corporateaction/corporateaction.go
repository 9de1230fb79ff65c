// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package corporateaction - the base record shared by ballots and
// capital distributions
//
// a corporate action belongs to one asset, is numbered locally per
// asset and optionally carries a record date that pins holder
// balances to a checkpoint.
package corporateaction

import (
	"encoding/binary"

	"github.com/meridian-inc/meridiand/asset"
	"github.com/meridian-inc/meridiand/balance"
	"github.com/meridian-inc/meridiand/checkpoint"
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/ledger"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/ticker"
	"github.com/meridian-inc/meridiand/util"
)

// Kind - what the corporate action does
type Kind byte

// all corporate action kinds
const (
	PredictableBenefit Kind = iota + 1
	UnpredictableBenefit
	IssuerNotice
	Reorganization
	Other
	kindLimit
)

// IsValid - range check
func (k Kind) IsValid() bool {
	return k >= PredictableBenefit && k < kindLimit
}

// IsBenefit - benefit kinds can carry a capital distribution
func (k Kind) IsBenefit() bool {
	return PredictableBenefit == k || UnpredictableBenefit == k
}

// TargetTreatment - whether the listed identities are in or out
type TargetTreatment byte

// treatments
const (
	Include TargetTreatment = iota + 1
	Exclude
)

// Targets - identity selection of a corporate action
//
// the zero value excludes nobody, so it targets everyone
type Targets struct {
	Treatment  TargetTreatment
	Identities []identity.Identity
}

// Covers - whether an identity is targeted
func (t Targets) Covers(id identity.Identity) bool {
	listed := false
	for _, i := range t.Identities {
		if i == id {
			listed = true
			break
		}
	}
	switch t.Treatment {
	case Include:
		return listed
	default:
		return !listed
	}
}

// withholding is expressed in parts per million
const TaxPrecision = 1000000

// TaxEntry - a per-identity withholding override
type TaxEntry struct {
	Identity identity.Identity
	Ppm      uint32
}

// CorporateAction - the stored record
type CorporateAction struct {
	Kind          Kind
	DeclaredAt    int64
	RecordDate    int64 // zero means none
	Targets       Targets
	DefaultTaxPpm uint32
	TaxOverrides  []TaxEntry
}

// TaxOf - withholding fraction of one identity, in ppm
func (ca CorporateAction) TaxOf(id identity.Identity) uint32 {
	for _, e := range ca.TaxOverrides {
		if e.Identity == id {
			return e.Ppm
		}
	}
	return ca.DefaultTaxPpm
}

// ID - reference to one corporate action
type ID struct {
	Symbol ticker.Ticker
	Local  uint64
}

// Pack - packed ticker then big-endian local id
func (id ID) Pack() []byte {
	key := id.Symbol.Pack()
	suffix := make([]byte, 8)
	binary.BigEndian.PutUint64(suffix, id.Local)
	return append(key, suffix...)
}

// UnpackID - recover a reference
func UnpackID(buffer []byte) (ID, error) {
	symbol, n := ticker.Unpack(buffer)
	if 0 == n || len(buffer)-n != 8 {
		return ID{}, fault.ErrCorporateActionNotFound
	}
	return ID{
		Symbol: symbol,
		Local:  binary.BigEndian.Uint64(buffer[n:]),
	}, nil
}

func packIdentities(buffer []byte, ids []identity.Identity) []byte {
	buffer = append(buffer, util.ToVarint64(uint64(len(ids)))...)
	for _, id := range ids {
		buffer = append(buffer, id[:]...)
	}
	return buffer
}

func unpackIdentities(buffer []byte) ([]identity.Identity, int) {
	count, n := util.FromVarint64(buffer)
	if 0 == n {
		return nil, 0
	}
	offset := n
	if offset+int(count)*identity.IdentityLength > len(buffer) {
		return nil, 0
	}
	ids := make([]identity.Identity, count)
	for i := range ids {
		copy(ids[i][:], buffer[offset:])
		offset += identity.IdentityLength
	}
	return ids, offset
}

func (ca CorporateAction) pack() []byte {
	buffer := []byte{byte(ca.Kind), byte(ca.Targets.Treatment)}

	fixed := make([]byte, 20)
	binary.BigEndian.PutUint64(fixed, uint64(ca.DeclaredAt))
	binary.BigEndian.PutUint64(fixed[8:], uint64(ca.RecordDate))
	binary.BigEndian.PutUint32(fixed[16:], ca.DefaultTaxPpm)
	buffer = append(buffer, fixed...)

	buffer = packIdentities(buffer, ca.Targets.Identities)
	buffer = append(buffer, util.ToVarint64(uint64(len(ca.TaxOverrides)))...)
	for _, e := range ca.TaxOverrides {
		buffer = append(buffer, e.Identity[:]...)
		ppm := make([]byte, 4)
		binary.BigEndian.PutUint32(ppm, e.Ppm)
		buffer = append(buffer, ppm...)
	}
	return buffer
}

func unpackCorporateAction(buffer []byte) (CorporateAction, error) {
	if len(buffer) < 23 {
		return CorporateAction{}, fault.ErrCorporateActionNotFound
	}
	ca := CorporateAction{
		Kind: Kind(buffer[0]),
		Targets: Targets{
			Treatment: TargetTreatment(buffer[1]),
		},
		DeclaredAt:    int64(binary.BigEndian.Uint64(buffer[2:])),
		RecordDate:    int64(binary.BigEndian.Uint64(buffer[10:])),
		DefaultTaxPpm: binary.BigEndian.Uint32(buffer[18:]),
	}
	offset := 22

	ids, n := unpackIdentities(buffer[offset:])
	if 0 == n {
		return CorporateAction{}, fault.ErrCorporateActionNotFound
	}
	ca.Targets.Identities = ids
	offset += n

	count, n := util.FromVarint64(buffer[offset:])
	if 0 == n {
		return CorporateAction{}, fault.ErrCorporateActionNotFound
	}
	offset += n
	for i := uint64(0); i < count; i += 1 {
		if offset+identity.IdentityLength+4 > len(buffer) {
			return CorporateAction{}, fault.ErrCorporateActionNotFound
		}
		e := TaxEntry{}
		copy(e.Identity[:], buffer[offset:])
		offset += identity.IdentityLength
		e.Ppm = binary.BigEndian.Uint32(buffer[offset:])
		offset += 4
		ca.TaxOverrides = append(ca.TaxOverrides, e)
	}
	return ca, nil
}

// Initiate - declare a corporate action against an asset
//
// allocates the next local id; a record date at or before now is
// resolved to a checkpoint immediately, a future one resolves
// lazily when first needed
func Initiate(symbol ticker.Ticker, ca CorporateAction, now int64) (ID, error) {
	if !symbol.IsAsset() {
		return ID{}, fault.ErrAssetNotFound
	}
	if !ca.Kind.IsValid() {
		return ID{}, fault.ErrInvalidCorporateActionKind
	}
	if ca.DefaultTaxPpm > TaxPrecision {
		return ID{}, fault.ErrInvalidWithholding
	}
	for _, e := range ca.TaxOverrides {
		if e.Ppm > TaxPrecision {
			return ID{}, fault.ErrInvalidWithholding
		}
	}

	next, _ := storage.Pool.NextCorporateActionId.GetN(symbol.Pack())
	next += 1

	id := ID{Symbol: symbol, Local: next}
	storage.Pool.NextCorporateActionId.PutN(symbol.Pack(), next)
	storage.Pool.CorporateActions.Put(id.Pack(), ca.pack())

	if 0 != ca.RecordDate && ca.RecordDate <= now {
		if _, err := resolveRecordDate(id, ca, now); nil != err {
			return ID{}, err
		}
	}
	return id, nil
}

// Get - read a corporate action
func Get(id ID) (CorporateAction, error) {
	value := storage.Pool.CorporateActions.Get(id.Pack())
	if nil == value {
		return CorporateAction{}, fault.ErrCorporateActionNotFound
	}
	return unpackCorporateAction(value)
}

// bind the record date to a checkpoint, creating one when no
// checkpoint covers the date yet
func resolveRecordDate(id ID, ca CorporateAction, now int64) (uint64, error) {
	if cp, ok := storage.Pool.RecordDates.GetN(id.Pack()); ok {
		return cp, nil
	}
	if 0 == ca.RecordDate {
		return 0, fault.ErrNoRecordDate
	}
	if ca.RecordDate > now {
		return 0, fault.ErrNoRecordDate
	}

	cp := checkpoint.FirstOnOrAfter(id.Symbol, ca.RecordDate)
	if 0 == cp {
		token, err := asset.Get(id.Symbol)
		if nil != err {
			return 0, err
		}
		cp, err = checkpoint.Create(id.Symbol, token.TotalSupply, now)
		if nil != err {
			return 0, err
		}
	}
	storage.Pool.RecordDates.PutN(id.Pack(), cp)
	return cp, nil
}

// RecordDateCheckpoint - the checkpoint a record date resolved to
func RecordDateCheckpoint(id ID, now int64) (uint64, error) {
	ca, err := Get(id)
	if nil != err {
		return 0, err
	}
	return resolveRecordDate(id, ca, now)
}

// BalanceAtRecord - a holder's balance at the record date
func BalanceAtRecord(id ID, holder identity.Identity, now int64) (balance.Amount, error) {
	cp, err := RecordDateCheckpoint(id, now)
	if nil != err {
		return balance.Zero, err
	}
	return checkpoint.BalanceAt(id.Symbol, holder, cp, ledger.Balance(id.Symbol, holder))
}

// SupplyAtRecord - the captured total supply at the record date
func SupplyAtRecord(id ID, now int64) (balance.Amount, error) {
	cp, err := RecordDateCheckpoint(id, now)
	if nil != err {
		return balance.Zero, err
	}
	return checkpoint.SupplyAt(id.Symbol, cp)
}

// EnsureRecordDateBeforeStart - a record date must exist and must
// not follow the given start
func EnsureRecordDateBeforeStart(id ID, start int64) error {
	ca, err := Get(id)
	if nil != err {
		return err
	}
	if 0 == ca.RecordDate {
		return fault.ErrNoRecordDate
	}
	if ca.RecordDate > start {
		return fault.ErrRecordDateAfterStart
	}
	return nil
}

// EnsureTargeted - reject identities outside the CA's target set
func EnsureTargeted(id ID, holder identity.Identity) error {
	ca, err := Get(id)
	if nil != err {
		return err
	}
	if !ca.Targets.Covers(holder) {
		return fault.ErrNotTargetedByCorporateAction
	}
	return nil
}
