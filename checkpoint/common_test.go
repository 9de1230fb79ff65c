// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package checkpoint_test

import (
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
	"golang.org/x/crypto/ed25519"

	"github.com/meridian-inc/meridiand/asset"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/ticker"
)

const testingDirName = "testing"

func TestMain(m *testing.M) {
	os.RemoveAll(testingDirName)
	_ = os.Mkdir(testingDirName, 0700)

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}
	_ = logger.Initialise(logging)

	err := storage.Initialise(testingDirName+"/test", false)
	if nil != err {
		panic("storage initialise failed: " + err.Error())
	}
	err = asset.Initialise(asset.DefaultLimits)
	if nil != err {
		panic("asset initialise failed: " + err.Error())
	}

	result := m.Run()

	asset.Finalise()
	storage.Finalise()
	os.RemoveAll(testingDirName)
	os.Exit(result)
}

func makeIdentity(t *testing.T, seedByte byte) identity.Identity {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = seedByte
	}
	key := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
	id, err := identity.Register(key)
	if nil != err {
		t.Fatalf("register identity: %s", err)
	}
	return id
}

func makeAsset(t *testing.T, owner identity.Identity, symbol string) ticker.Ticker {
	tick, err := ticker.New(symbol, asset.DefaultLimits.MaxTickerLength)
	if nil != err {
		t.Fatalf("ticker %q: %s", symbol, err)
	}
	tick.Reserve(owner, 10000)
	err = asset.Create(owner, tick, symbol+" token", true,
		asset.Type{Kind: asset.EquityCommon}, nil, "", 100)
	if nil != err {
		t.Fatalf("create asset %q: %s", symbol, err)
	}
	return tick
}
