// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package balance

import (
	"encoding/binary"
	"math/bits"
	"strconv"

	"github.com/meridian-inc/meridiand/fault"
)

// amounts are unsigned 128 bit integers in base sub-units
const (
	// OneUnit - sub-units per whole token
	OneUnit = 1000000

	// PerSharePrecision - denominator for all per-share arithmetic
	PerSharePrecision = 1000000

	// PackedLength - bytes in a packed amount
	PackedLength = 16
)

// Amount - an unsigned 128 bit quantity of base sub-units
type Amount struct {
	Hi uint64
	Lo uint64
}

// Zero - the zero amount
var Zero = Amount{}

// New - an amount from a 64 bit count of sub-units
func New(value uint64) Amount {
	return Amount{Lo: value}
}

// NewUnits - an amount from a count of whole tokens
func NewUnits(tokens uint64) Amount {
	hi, lo := bits.Mul64(tokens, OneUnit)
	return Amount{Hi: hi, Lo: lo}
}

// IsZero - true for the zero amount
func (a Amount) IsZero() bool {
	return 0 == a.Hi && 0 == a.Lo
}

// Cmp - three way comparison, -1 / 0 / +1
func (a Amount) Cmp(b Amount) int {
	switch {
	case a.Hi < b.Hi:
		return -1
	case a.Hi > b.Hi:
		return 1
	case a.Lo < b.Lo:
		return -1
	case a.Lo > b.Lo:
		return 1
	default:
		return 0
	}
}

// Add - checked addition
func (a Amount) Add(b Amount) (Amount, error) {
	lo, carry := bits.Add64(a.Lo, b.Lo, 0)
	hi, carry := bits.Add64(a.Hi, b.Hi, carry)
	if 0 != carry {
		return Zero, fault.ErrBalanceOverflow
	}
	return Amount{Hi: hi, Lo: lo}, nil
}

// Sub - checked subtraction
func (a Amount) Sub(b Amount) (Amount, error) {
	lo, borrow := bits.Sub64(a.Lo, b.Lo, 0)
	hi, borrow := bits.Sub64(a.Hi, b.Hi, borrow)
	if 0 != borrow {
		return Zero, fault.ErrBalanceUnderflow
	}
	return Amount{Hi: hi, Lo: lo}, nil
}

// DivMod64 - divide by a small divisor, returning quotient and remainder
//
// panics on a zero divisor, this is always a programming error
func (a Amount) DivMod64(divisor uint64) (Amount, uint64) {
	qHi := a.Hi / divisor
	rem := a.Hi % divisor
	qLo, rem := bits.Div64(rem, a.Lo, divisor)
	return Amount{Hi: qHi, Lo: qLo}, rem
}

// MulDiv - floor(a × m ÷ divisor) with a 256 bit intermediate product
//
// fails if the result does not fit in 128 bits
func (a Amount) MulDiv(m Amount, divisor uint64) (Amount, error) {
	// 128 × 128 → 256 bit product, little endian words
	var w [4]uint64
	var carry uint64

	hi, lo := bits.Mul64(a.Lo, m.Lo)
	w[0] = lo
	w[1] = hi

	hi, lo = bits.Mul64(a.Lo, m.Hi)
	w[1], carry = bits.Add64(w[1], lo, 0)
	w[2], _ = bits.Add64(hi, 0, carry)

	hi, lo = bits.Mul64(a.Hi, m.Lo)
	w[1], carry = bits.Add64(w[1], lo, 0)
	w[2], carry = bits.Add64(w[2], hi, carry)
	w[3], _ = bits.Add64(0, 0, carry)

	hi, lo = bits.Mul64(a.Hi, m.Hi)
	w[2], carry = bits.Add64(w[2], lo, 0)
	w[3], _ = bits.Add64(w[3], hi, carry)

	// long division of the 256 bit product by the 64 bit divisor
	var q [4]uint64
	rem := uint64(0)
	for i := 3; i >= 0; i -= 1 {
		q[i], rem = bits.Div64(rem, w[i], divisor)
	}

	if 0 != q[2] || 0 != q[3] {
		return Zero, fault.ErrBalanceOverflow
	}
	return Amount{Hi: q[1], Lo: q[0]}, nil
}

// IsWholeUnits - true if the amount is a whole multiple of OneUnit
func (a Amount) IsWholeUnits() bool {
	_, rem := a.DivMod64(OneUnit)
	return 0 == rem
}

// FloorToUnit - round down to a whole multiple of OneUnit
func (a Amount) FloorToUnit() Amount {
	_, rem := a.DivMod64(OneUnit)
	result, _ := a.Sub(New(rem))
	return result
}

// String - decimal rendering of the raw sub-unit count
func (a Amount) String() string {
	if 0 == a.Hi {
		return strconv.FormatUint(a.Lo, 10)
	}
	digits := make([]byte, 0, 39)
	n := a
	for !n.IsZero() {
		var rem uint64
		n, rem = n.DivMod64(10)
		digits = append(digits, byte('0'+rem))
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}

// Pack - fixed 16 byte big endian representation
func (a Amount) Pack() []byte {
	buffer := make([]byte, PackedLength)
	binary.BigEndian.PutUint64(buffer[:8], a.Hi)
	binary.BigEndian.PutUint64(buffer[8:], a.Lo)
	return buffer
}

// Unpack - recover an amount from the start of a buffer
//
// also return the number of bytes consumed as second value
// returns Zero, 0 if the buffer is truncated
func Unpack(buffer []byte) (Amount, int) {
	if len(buffer) < PackedLength {
		return Zero, 0
	}
	return Amount{
		Hi: binary.BigEndian.Uint64(buffer[:8]),
		Lo: binary.BigEndian.Uint64(buffer[8:PackedLength]),
	}, PackedLength
}
