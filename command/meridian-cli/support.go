// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/meridian-inc/meridiand/asset"
	"github.com/meridian-inc/meridiand/corporateaction"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/ticker"
)

// open the node's database read only
//
// the returned function closes it again
func openDatabase(c *cli.Context) (func(), error) {
	database := c.GlobalString("database")
	if "" == database {
		return nil, fmt.Errorf("missing --database option")
	}

	logging := logger.Configuration{
		Directory: os.TempDir(),
		File:      "meridian-cli.log",
		Size:      1048576,
		Count:     2,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}
	if err := logger.Initialise(logging); nil != err {
		return nil, err
	}

	if err := storage.Initialise(database, true); nil != err {
		logger.Finalise()
		return nil, err
	}

	return func() {
		storage.Finalise()
		logger.Finalise()
	}, nil
}

func tickerArgument(c *cli.Context, n int) (ticker.Ticker, error) {
	symbol := c.Args().Get(n)
	if "" == symbol {
		return "", fmt.Errorf("missing SYMBOL argument")
	}
	return ticker.New(symbol, asset.DefaultLimits.MaxTickerLength)
}

func identityArgument(c *cli.Context, n int) (identity.Identity, error) {
	s := c.Args().Get(n)
	if "" == s {
		return identity.Identity{}, fmt.Errorf("missing IDENTITY argument")
	}
	return identity.FromBase58(s)
}

func actionArgument(c *cli.Context) (corporateaction.ID, error) {
	tick, err := tickerArgument(c, 0)
	if nil != err {
		return corporateaction.ID{}, err
	}
	s := c.Args().Get(1)
	if "" == s {
		return corporateaction.ID{}, fmt.Errorf("missing LOCAL-ID argument")
	}
	local, err := strconv.ParseUint(s, 10, 64)
	if nil != err {
		return corporateaction.ID{}, fmt.Errorf("invalid LOCAL-ID: %q", s)
	}
	return corporateaction.ID{Symbol: tick, Local: local}, nil
}
