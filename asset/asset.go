// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package asset - the asset registry
//
// token records, documents, metadata, mandatory mediators,
// pre-approvals and the ownership relation; balances live in the
// ledger package
package asset

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/meridian-inc/meridiand/fault"
)

// Limits - bounded sizes from the engine configuration
type Limits struct {
	MaxTickerLength        int
	MaxAssetNameLen        int
	MaxFundingRoundNameLen int
	MaxMetadataNameLen     int
	MaxMetadataValueLen    int
	MaxMetadataTypeDefLen  int
	MaxDocsPerBatch        int
	MaxAssetMediators      int
}

// DefaultLimits - used when no configuration overrides are given
var DefaultLimits = Limits{
	MaxTickerLength:        12,
	MaxAssetNameLen:        128,
	MaxFundingRoundNameLen: 128,
	MaxMetadataNameLen:     256,
	MaxMetadataValueLen:    8192,
	MaxMetadataTypeDefLen:  8192,
	MaxDocsPerBatch:        64,
	MaxAssetMediators:      4,
}

// globals
var globalData struct {
	sync.RWMutex
	log         *logger.L
	limits      Limits
	initialised bool
}

// Initialise - set up the registry limits
func Initialise(limits Limits) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	globalData.log = logger.New("asset")
	globalData.log.Info("starting…")

	globalData.limits = limits
	globalData.initialised = true
	return nil
}

// Finalise - shut down the registry
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
