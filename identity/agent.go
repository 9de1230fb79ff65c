// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package identity

import (
	"github.com/meridian-inc/meridiand/storage"
)

// agent storage key: packed ticker ⧺ identity
func agentKey(packedTicker []byte, id Identity) []byte {
	key := make([]byte, 0, len(packedTicker)+IdentityLength)
	key = append(key, packedTicker...)
	return append(key, id[:]...)
}

// AddAgent - grant an identity the agent role over an asset
func AddAgent(packedTicker []byte, id Identity) {
	storage.Pool.Agents.Put(agentKey(packedTicker, id), []byte{0x01})
}

// RemoveAgent - revoke the agent role
func RemoveAgent(packedTicker []byte, id Identity) {
	storage.Pool.Agents.Delete(agentKey(packedTicker, id))
}

// IsAgent - check the agent role
func IsAgent(packedTicker []byte, id Identity) bool {
	return storage.Pool.Agents.Has(agentKey(packedTicker, id))
}
