// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package background - keep a set of daemon goroutines running
// until an orderly shutdown is requested
package background

// Process - a long running routine; it must loop until shutdown is
// closed and close done on the way out
type Process func(args interface{}, shutdown <-chan bool, done chan<- bool)

// Processes - the set to start together
type Processes []Process

// channel pair watching one running process
type watcher struct {
	shutdown chan bool
	done     chan bool
}

// T - handle over the started set
type T struct {
	watchers []watcher
}

// Start - launch every process with a shared args value
func Start(processes Processes, args interface{}) *T {

	register := &T{
		watchers: make([]watcher, len(processes)),
	}

	for i, p := range processes {
		w := watcher{
			shutdown: make(chan bool),
			done:     make(chan bool),
		}
		register.watchers[i] = w
		go p(args, w.shutdown, w.done)
	}
	return register
}

// Stop - request shutdown of every process and wait for all of
// them to finish
func Stop(t *T) {

	for _, w := range t.watchers {
		close(w.shutdown)
	}

	for _, w := range t.watchers {
		<-w.done
	}
}
