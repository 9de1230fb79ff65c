// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/ticker"
)

// a present record is the flag, the value carries nothing
var flagValue = []byte{1}

func preApprovalKey(holder identity.Identity, symbol ticker.Ticker) []byte {
	return append(holder[:], symbol.Pack()...)
}

// ExemptTicker - exempt a ticker from affirmation for all identities
//
// idempotent, root only at the dispatch layer
func ExemptTicker(symbol ticker.Ticker, exempt bool) {
	if exempt {
		storage.Pool.TickerExempt.Put(symbol.Pack(), flagValue)
	} else {
		storage.Pool.TickerExempt.Delete(symbol.Pack())
	}
}

// IsTickerExempt - check the root level exemption
func IsTickerExempt(symbol ticker.Ticker) bool {
	return storage.Pool.TickerExempt.Has(symbol.Pack())
}

// PreApprove - record a per identity pre-approval for a ticker
//
// idempotent in both directions
func PreApprove(holder identity.Identity, symbol ticker.Ticker, approved bool) {
	key := preApprovalKey(holder, symbol)
	if approved {
		storage.Pool.PreApproved.Put(key, flagValue)
	} else {
		storage.Pool.PreApproved.Delete(key)
	}
}

// IsPreApproved - true when the ticker is exempt outright or the
// identity recorded a pre-approval
func IsPreApproved(holder identity.Identity, symbol ticker.Ticker) bool {
	if IsTickerExempt(symbol) {
		return true
	}
	return storage.Pool.PreApproved.Has(preApprovalKey(holder, symbol))
}
