// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"github.com/meridian-inc/meridiand/fault"
)

// IdentifierKind - external security identifier schemes
type IdentifierKind byte

// all identifier kinds
const (
	ISIN IdentifierKind = iota + 1
	CUSIP
	CINS
	LEI
	FIGI
	identifierKindLimit
)

// Identifier - an external identifier attached to an asset
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

// expected value length per scheme
var identifierLengths = map[IdentifierKind]int{
	ISIN:  12,
	CUSIP: 9,
	CINS:  9,
	LEI:   20,
	FIGI:  12,
}

// IsValid - well-formedness of a single identifier
//
// length per scheme and uppercase alphanumeric characters only;
// checksum digits are not recomputed here
func (i Identifier) IsValid() bool {
	if i.Kind < ISIN || i.Kind >= identifierKindLimit {
		return false
	}
	if len(i.Value) != identifierLengths[i.Kind] {
		return false
	}
	for j := 0; j < len(i.Value); j += 1 {
		c := i.Value[j]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

// ValidateIdentifiers - check a whole identifier list
func ValidateIdentifiers(identifiers []Identifier) error {
	for _, id := range identifiers {
		if !id.IsValid() {
			return fault.ErrInvalidIdentifier
		}
	}
	return nil
}
