// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/meridian-inc/meridiand/background"
)

func TestStartStop(t *testing.T) {

	var ticks int64
	var stopped int64

	ticker := func(args interface{}, shutdown <-chan bool, done chan<- bool) {
	loop:
		for {
			select {
			case <-shutdown:
				break loop
			default:
			}
			atomic.AddInt64(&ticks, 1)
			time.Sleep(time.Millisecond)
		}
		atomic.AddInt64(&stopped, 1)
		close(done)
	}

	processes := background.Processes{
		ticker,
		ticker,
	}

	p := background.Start(processes, nil)
	time.Sleep(50 * time.Millisecond)
	background.Stop(p)

	if 2 != atomic.LoadInt64(&stopped) {
		t.Fatalf("stop failed: %d of 2 processes finished", atomic.LoadInt64(&stopped))
	}
	if 0 == atomic.LoadInt64(&ticks) {
		t.Fatal("processes never ran")
	}
}

func TestArgsDelivery(t *testing.T) {

	received := make(chan interface{}, 1)

	capture := func(args interface{}, shutdown <-chan bool, done chan<- bool) {
		received <- args
		<-shutdown
		close(done)
	}

	expected := "shared state"
	p := background.Start(background.Processes{capture}, expected)

	select {
	case actual := <-received:
		if expected != actual {
			t.Fatalf("args expected: %q  actual: %v", expected, actual)
		}
	case <-time.After(time.Second):
		t.Fatal("process never started")
	}
	background.Stop(p)
}
