// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/ticker"
)

// IsFrozen - check the per-asset freeze flag
func IsFrozen(symbol ticker.Ticker) bool {
	return storage.Pool.Frozen.Has(symbol.Pack())
}

// SetFreeze - toggle the freeze flag
//
// setting the flag to its current value is an error, not a no-op
func SetFreeze(symbol ticker.Ticker, freeze bool) error {
	if !symbol.IsAsset() {
		return fault.ErrAssetNotFound
	}
	frozen := IsFrozen(symbol)
	if freeze {
		if frozen {
			return fault.ErrAlreadyFrozen
		}
		storage.Pool.Frozen.Put(symbol.Pack(), []byte{0x01})
		return nil
	}
	if !frozen {
		return fault.ErrNotFrozen
	}
	storage.Pool.Frozen.Delete(symbol.Pack())
	return nil
}
