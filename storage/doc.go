// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk state store
//
// Two LevelDB databases, each split into a series of pools.  Each
// pool is defined by a single prefix byte obtained from the prefix
// tag in the struct defining the available pools.  All writes of one
// request are buffered in a batch and committed, or discarded, as a
// unit; reads inside the request observe the buffered writes through
// a write-through cache.
//
// Notes:
// 1. each pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ⧺         = concatenation of byte data
// 3. identity  = 32 byte identifier (SHA3-256 of the registration key)
// 4. ticker    = varint64 length ⧺ symbol bytes
// 5. count     = big endian uint64 (8 bytes)
// 6. amount    = big endian unsigned 128 bit (16 bytes)
// 7. kind      = portfolio kind: tag byte ⧺ 8 byte number
// 8. ca        = ticker ⧺ 8 byte local corporate action id
//
// State database:
//
//   R ⧺ ticker               - ticker reservation
//                               data: owner identity ⧺ expiry seconds
//   T ⧺ ticker               - token record
//                               data: packed token record
//   W ⧺ identity ⧺ ticker    - asset ownership relation
//                               data: 00=none  01=ticker owned  02=asset owned
//   B ⧺ ticker ⧺ identity    - holder balance
//                               data: amount
//   F ⧺ ticker               - freeze flag (present = frozen)
//   s ⧺ ticker               - holder count
//                               data: count
//   S ⧺ ticker ⧺ identity    - asset agent (present = agent)
//   D ⧺ ticker ⧺ count       - document
//                               data: packed document
//   d ⧺ ticker               - next document id
//                               data: count
//   M ⧺ ticker               - mandatory mediators
//                               data: count ⧺ identities
//   E ⧺ ticker               - ticker affirmation exemption (present = exempt)
//   e ⧺ identity ⧺ ticker    - pre-approval (present = approved)
//   g ⧺ name                 - global metadata key by name
//                               data: count (key id)
//   G ⧺ count                - global metadata key specification
//                               data: packed specification
//   h                        - next global metadata key id
//   l ⧺ ticker ⧺ name        - local metadata key by name
//                               data: count (key id)
//   L ⧺ ticker ⧺ count       - local metadata key specification
//                               data: packed specification
//   m ⧺ ticker               - next local metadata key id
//   V ⧺ ticker ⧺ tag ⧺ count - metadata value (tag: 00=local 01=global)
//   v ⧺ ticker ⧺ tag ⧺ count - metadata value detail
//                               data: lock until seconds ⧺ expiry seconds
//   K ⧺ ticker               - collection key set
//                               data: count ⧺ local key ids
//   C ⧺ ticker               - asset compliance
//                               data: packed requirements
//   I ⧺ ticker               - default trusted issuers
//                               data: packed issuers
//   Y ⧺ name                 - custom asset type by name
//   y ⧺ count                - custom asset type name by id
//   z                        - next custom asset type id
//   A ⧺ ca                   - corporate action record
//   a ⧺ ticker               - next corporate action local id
//   r ⧺ ca                   - record date
//                               data: 00 ⧺ schedule seconds  or  01 ⧺ checkpoint id ⧺ seconds
//   Q ⧺ ca                   - ballot voting range
//   q ⧺ ca                   - ballot metadata
//   c ⧺ ca                   - ballot motion choice counts
//   j ⧺ ca                   - ranked choice flag (present = enabled)
//   u ⧺ ca                   - ballot results (amount per choice)
//   w ⧺ ca ⧺ identity        - votes of one identity
//   X ⧺ ca                   - capital distribution record
//   x ⧺ ca ⧺ identity        - holder paid flag (present = paid)
//   i ⧺ public key           - identity of an account key
//   n ⧺ identity             - identity record
//   J ⧺ identity ⧺ type ⧺ issuer ⧺ scope
//                            - claim, data: expiry seconds ⧺ packed scope
//   U ⧺ count                - authorization inbox entry
//   0                        - next authorization id
//   P ⧺ identity ⧺ kind      - portfolio record
//   p ⧺ identity ⧺ kind ⧺ ticker
//                            - portfolio balance, data: amount
//   k ⧺ identity ⧺ kind ⧺ ticker
//                            - portfolio locked amount, data: amount
//   Z ⧺ key                  - testing data
//
// Checkpoint database:
//
//   1 ⧺ ticker               - next checkpoint id
//   2 ⧺ ticker ⧺ count       - total supply at checkpoint
//   3 ⧺ ticker ⧺ count       - creation time of checkpoint
//   4 ⧺ ticker ⧺ identity ⧺ count
//                            - holder balance recorded at checkpoint
//   5 ⧺ ticker ⧺ identity    - last checkpoint id seen by a balance update
package storage
