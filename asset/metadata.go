// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"encoding/binary"

	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/ticker"
	"github.com/meridian-inc/meridiand/util"
)

// MetadataKeyKind - global keys are registered once by root, local
// keys belong to a single asset
type MetadataKeyKind byte

const (
	GlobalKey MetadataKeyKind = iota
	LocalKey
)

// MetadataKey - reference to a registered key
type MetadataKey struct {
	Kind MetadataKeyKind
	Id   uint64
}

// Pack - fixed 9 byte encoding, kind then big-endian id
func (k MetadataKey) Pack() []byte {
	buffer := make([]byte, 9)
	buffer[0] = byte(k.Kind)
	binary.BigEndian.PutUint64(buffer[1:], k.Id)
	return buffer
}

// UnpackMetadataKey - recover a key reference
func UnpackMetadataKey(buffer []byte) (MetadataKey, error) {
	if 9 != len(buffer) || buffer[0] > byte(LocalKey) {
		return MetadataKey{}, fault.ErrInvalidKeyType
	}
	return MetadataKey{
		Kind: MetadataKeyKind(buffer[0]),
		Id:   binary.BigEndian.Uint64(buffer[1:]),
	}, nil
}

// MetadataSpec - the registered description of a key
type MetadataSpec struct {
	Name        string
	URL         string
	Description string
	TypeDef     string
}

// Pack - serialize a key specification
func (s MetadataSpec) Pack() []byte {
	buffer := util.AppendString(nil, s.Name)
	buffer = util.AppendString(buffer, s.URL)
	buffer = util.AppendString(buffer, s.Description)
	return util.AppendString(buffer, s.TypeDef)
}

// UnpackMetadataSpec - recover a key specification
func UnpackMetadataSpec(buffer []byte) (MetadataSpec, error) {
	s := MetadataSpec{}
	fields := []*string{&s.Name, &s.URL, &s.Description, &s.TypeDef}
	for _, f := range fields {
		value, n := util.NextString(buffer)
		if 0 == n {
			return s, fault.ErrMetadataKeyNotFound
		}
		*f = value
		buffer = buffer[n:]
	}
	return s, nil
}

// LockStatus - whether a metadata value can still be changed
type LockStatus byte

const (
	Unlocked LockStatus = iota
	Locked
	LockedUntil
)

// MetadataDetail - optional expiry and lock of a stored value
type MetadataDetail struct {
	ExpiresAt int64 // zero means never
	Lock      LockStatus
	LockUntil int64 // only for Lock == LockedUntil
}

// Pack - fixed 17 byte encoding
func (d MetadataDetail) Pack() []byte {
	buffer := make([]byte, 17)
	binary.BigEndian.PutUint64(buffer, uint64(d.ExpiresAt))
	buffer[8] = byte(d.Lock)
	binary.BigEndian.PutUint64(buffer[9:], uint64(d.LockUntil))
	return buffer
}

// UnpackMetadataDetail - recover a value detail
func UnpackMetadataDetail(buffer []byte) (MetadataDetail, error) {
	if 17 != len(buffer) || buffer[8] > byte(LockedUntil) {
		return MetadataDetail{}, fault.ErrMetadataValueNotFound
	}
	return MetadataDetail{
		ExpiresAt: int64(binary.BigEndian.Uint64(buffer)),
		Lock:      LockStatus(buffer[8]),
		LockUntil: int64(binary.BigEndian.Uint64(buffer[9:])),
	}, nil
}

// IsLocked - lock state at an instant
func (d MetadataDetail) IsLocked(now int64) bool {
	switch d.Lock {
	case Locked:
		return true
	case LockedUntil:
		return now < d.LockUntil
	}
	return false
}

func checkSpec(spec MetadataSpec) error {
	limits := CurrentLimits()
	if "" == spec.Name {
		return fault.ErrMetadataKeyNotFound
	}
	if len(spec.Name) > limits.MaxMetadataNameLen {
		return fault.ErrMetadataNameTooLong
	}
	if len(spec.TypeDef) > limits.MaxMetadataTypeDefLen {
		return fault.ErrMetadataTypeDefTooLong
	}
	return nil
}

// RegisterGlobalKey - register a global metadata key
//
// names are unique across the whole registry; root only at the
// dispatch layer
func RegisterGlobalKey(spec MetadataSpec) (MetadataKey, error) {
	if err := checkSpec(spec); nil != err {
		return MetadataKey{}, err
	}
	if storage.Pool.GlobalKeyByName.Has([]byte(spec.Name)) {
		return MetadataKey{}, fault.ErrMetadataKeyAlreadyExists
	}

	next, _ := storage.Pool.NextGlobalKey.GetN(counterKey)
	next += 1

	key := MetadataKey{Kind: GlobalKey, Id: next}
	storage.Pool.GlobalKeyByName.PutN([]byte(spec.Name), next)
	storage.Pool.GlobalKeySpecs.Put(key.Pack()[1:], spec.Pack())
	storage.Pool.NextGlobalKey.PutN(counterKey, next)
	return key, nil
}

// RegisterLocalKey - register a metadata key scoped to one asset
//
// names are unique within the asset
func RegisterLocalKey(symbol ticker.Ticker, spec MetadataSpec) (MetadataKey, error) {
	if !symbol.IsAsset() {
		return MetadataKey{}, fault.ErrAssetNotFound
	}
	if err := checkSpec(spec); nil != err {
		return MetadataKey{}, err
	}
	nameKey := append(symbol.Pack(), spec.Name...)
	if storage.Pool.LocalKeyByName.Has(nameKey) {
		return MetadataKey{}, fault.ErrMetadataKeyAlreadyExists
	}

	next, _ := storage.Pool.NextLocalKey.GetN(symbol.Pack())
	next += 1

	key := MetadataKey{Kind: LocalKey, Id: next}
	storage.Pool.LocalKeyByName.PutN(nameKey, next)
	storage.Pool.LocalKeySpecs.Put(localSpecKey(symbol, next), spec.Pack())
	storage.Pool.NextLocalKey.PutN(symbol.Pack(), next)
	return key, nil
}

func localSpecKey(symbol ticker.Ticker, id uint64) []byte {
	suffix := make([]byte, 8)
	binary.BigEndian.PutUint64(suffix, id)
	return append(symbol.Pack(), suffix...)
}

// KeyExists - check that a key is registered and usable for an asset
func KeyExists(symbol ticker.Ticker, key MetadataKey) bool {
	switch key.Kind {
	case GlobalKey:
		return storage.Pool.GlobalKeySpecs.Has(key.Pack()[1:])
	case LocalKey:
		return storage.Pool.LocalKeySpecs.Has(localSpecKey(symbol, key.Id))
	}
	return false
}

func valueKey(symbol ticker.Ticker, key MetadataKey) []byte {
	return append(symbol.Pack(), key.Pack()...)
}

func currentDetail(symbol ticker.Ticker, key MetadataKey) (MetadataDetail, bool) {
	buffer := storage.Pool.MetadataDetails.Get(valueKey(symbol, key))
	if nil == buffer {
		return MetadataDetail{}, false
	}
	detail, err := UnpackMetadataDetail(buffer)
	if nil != err {
		return MetadataDetail{}, false
	}
	return detail, true
}

// SetValue - store a metadata value, optionally with a detail
//
// fails while an existing value is locked
func SetValue(symbol ticker.Ticker, key MetadataKey, value []byte, detail *MetadataDetail, now int64) error {
	if !symbol.IsAsset() {
		return fault.ErrAssetNotFound
	}
	if !KeyExists(symbol, key) {
		return fault.ErrMetadataKeyNotFound
	}
	if 0 == len(value) {
		return fault.ErrEmptyMetadataValue
	}
	if len(value) > CurrentLimits().MaxMetadataValueLen {
		return fault.ErrMetadataValueTooLong
	}
	if d, ok := currentDetail(symbol, key); ok && d.IsLocked(now) {
		return fault.ErrMetadataValueLocked
	}

	storage.Pool.MetadataValues.Put(valueKey(symbol, key), value)
	if nil != detail {
		storage.Pool.MetadataDetails.Put(valueKey(symbol, key), detail.Pack())
	}
	return nil
}

// SetDetails - replace the detail of an existing value
//
// the key must exist, the current value must not be locked, and a
// locking detail needs a stored value to lock
func SetDetails(symbol ticker.Ticker, key MetadataKey, detail MetadataDetail, now int64) error {
	if !symbol.IsAsset() {
		return fault.ErrAssetNotFound
	}
	if !KeyExists(symbol, key) {
		return fault.ErrMetadataKeyNotFound
	}
	if d, ok := currentDetail(symbol, key); ok && d.IsLocked(now) {
		return fault.ErrMetadataValueLocked
	}
	if Unlocked != detail.Lock && !storage.Pool.MetadataValues.Has(valueKey(symbol, key)) {
		return fault.ErrMetadataLockWithoutValue
	}

	storage.Pool.MetadataDetails.Put(valueKey(symbol, key), detail.Pack())
	return nil
}

// GetValue - read a stored value
func GetValue(symbol ticker.Ticker, key MetadataKey) ([]byte, error) {
	value := storage.Pool.MetadataValues.Get(valueKey(symbol, key))
	if nil == value {
		return nil, fault.ErrMetadataValueNotFound
	}
	return value, nil
}

// RemoveValue - delete a stored value and its detail
//
// fails while the value is locked
func RemoveValue(symbol ticker.Ticker, key MetadataKey, now int64) error {
	if !storage.Pool.MetadataValues.Has(valueKey(symbol, key)) {
		return fault.ErrMetadataValueNotFound
	}
	if d, ok := currentDetail(symbol, key); ok && d.IsLocked(now) {
		return fault.ErrMetadataValueLocked
	}
	storage.Pool.MetadataValues.Delete(valueKey(symbol, key))
	storage.Pool.MetadataDetails.Delete(valueKey(symbol, key))
	return nil
}

// RemoveLocalKey - delete a local key, its name mapping, value and
// detail
//
// collection keys of an NFT asset and locked values stay
func RemoveLocalKey(symbol ticker.Ticker, key MetadataKey, now int64) error {
	if LocalKey != key.Kind {
		return fault.ErrInvalidKeyType
	}
	specBuffer := storage.Pool.LocalKeySpecs.Get(localSpecKey(symbol, key.Id))
	if nil == specBuffer {
		return fault.ErrMetadataKeyNotFound
	}
	if storage.Pool.CollectionKeys.Has(valueKey(symbol, key)) {
		return fault.ErrNftCollectionKey
	}
	if d, ok := currentDetail(symbol, key); ok && d.IsLocked(now) {
		return fault.ErrMetadataValueLocked
	}

	spec, err := UnpackMetadataSpec(specBuffer)
	if nil == err {
		storage.Pool.LocalKeyByName.Delete(append(symbol.Pack(), spec.Name...))
	}
	storage.Pool.LocalKeySpecs.Delete(localSpecKey(symbol, key.Id))
	storage.Pool.MetadataValues.Delete(valueKey(symbol, key))
	storage.Pool.MetadataDetails.Delete(valueKey(symbol, key))
	return nil
}

// MarkCollectionKey - tie a local key to an NFT collection so it
// cannot be removed
func MarkCollectionKey(symbol ticker.Ticker, key MetadataKey) error {
	if !KeyExists(symbol, key) {
		return fault.ErrMetadataKeyNotFound
	}
	storage.Pool.CollectionKeys.Put(valueKey(symbol, key), flagValue)
	return nil
}
