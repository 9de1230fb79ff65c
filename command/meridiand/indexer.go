// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/bitmark-inc/logger"

	"github.com/meridian-inc/meridiand/messagebus"
)

// background process draining committed events
//
// the host normally forwards these to its indexing pipeline, a
// standalone node just logs them
func eventIndexer(args interface{}, shutdown <-chan bool, done chan<- bool) {
	log := args.(*logger.L)

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case event := <-messagebus.Chan():
			log.Infof("event: %s by %s: %v", event.Verb, event.Actor, event.Item)
		}
	}
	close(done)
}
