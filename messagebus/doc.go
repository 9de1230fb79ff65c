// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package messagebus - the canonical event stream
//
// every successful verb emits exactly one event after its storage
// transaction commits; indexers read the channel returned by Chan
package messagebus
