// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

// internal constants
const (
	queueSize = 1000
)

// Event - one committed verb
//
// Item carries the verb specific payload struct
type Event struct {
	Verb  string
	Actor string
	Item  interface{}
}

var (
	// for queueing events
	queue = make(chan Event, queueSize)
)

// Send - queue one event
//
// drops the event if no reader has drained the queue, a slow
// indexer must not stall the state machine
func Send(verb string, actor string, item interface{}) {
	e := Event{
		Verb:  verb,
		Actor: actor,
		Item:  item,
	}
	select {
	case queue <- e:
	default:
	}
}

// Chan - channel to read events from
func Chan() <-chan Event {
	return queue
}
