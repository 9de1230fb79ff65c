// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package weight - per-request execution budget
//
// every metered operation deducts from the meter; exhausting the
// budget is a hard failure that aborts the enclosing transaction
package weight

import (
	"github.com/meridian-inc/meridiand/fault"
)

// Meter - a mutable weight budget, passed by reference through a request
type Meter struct {
	limit uint64
	used  uint64
}

// NewMeter - a meter with a fixed budget
func NewMeter(limit uint64) *Meter {
	return &Meter{limit: limit}
}

// Unlimited - a meter that never fails, for unmetered internal paths
func Unlimited() *Meter {
	return &Meter{limit: ^uint64(0)}
}

// Consume - deduct from the budget
func (m *Meter) Consume(amount uint64) error {
	if amount > m.limit-m.used {
		m.used = m.limit
		return fault.ErrWeightLimitExceeded
	}
	m.used += amount
	return nil
}

// Used - total weight consumed so far
func (m *Meter) Used() uint64 {
	return m.used
}

// Remaining - budget still available
func (m *Meter) Remaining() uint64 {
	return m.limit - m.used
}
