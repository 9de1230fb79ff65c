// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/urfave/cli"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "meridian-cli"
	app.Usage = "inspect a meridiand database"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "database, f",
			Value: "",
			Usage: "*database path prefix `FILE`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "asset",
			Usage:     "show one asset record",
			ArgsUsage: "SYMBOL",
			Action:    runAsset,
		},
		{
			Name:      "balance",
			Usage:     "show a holder balance of one asset",
			ArgsUsage: "SYMBOL IDENTITY",
			Action:    runBalance,
		},
		{
			Name:      "compliance",
			Usage:     "show the compliance rules of one asset",
			ArgsUsage: "SYMBOL",
			Action:    runCompliance,
		},
		{
			Name:      "corporate-action",
			Usage:     "show one corporate action",
			ArgsUsage: "SYMBOL LOCAL-ID",
			Action:    runCorporateAction,
		},
		{
			Name:      "ballot",
			Usage:     "show a ballot and its running results",
			ArgsUsage: "SYMBOL LOCAL-ID",
			Action:    runBallot,
		},
		{
			Name:      "distribution",
			Usage:     "show a capital distribution",
			ArgsUsage: "SYMBOL LOCAL-ID",
			Action:    runDistribution,
		},
		{
			Name:   "version",
			Usage:  "display meridian-cli version",
			Action: runVersion,
		},
	}

	err := app.Run(os.Args)
	if nil != err {
		os.Exit(1)
	}
}
