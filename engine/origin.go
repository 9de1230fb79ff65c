// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package engine

import (
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/ticker"
)

// OriginKind - how the caller was authenticated by the host
type OriginKind byte

// all origin kinds
const (
	RootKind OriginKind = iota + 1
	SignedKind
)

// Origin - the caller envelope attached to every request
//
// a signed origin carries the acting identity and the capability
// bits of the key that signed the request; the primary key holds
// every capability
type Origin struct {
	Kind        OriginKind
	Identity    identity.Identity
	Permissions identity.Permission
}

// RootOrigin - the privileged host origin
func RootOrigin() Origin {
	return Origin{Kind: RootKind}
}

// SignedOrigin - a request signed by an identity's primary key
func SignedOrigin(id identity.Identity) Origin {
	return Origin{
		Kind:        SignedKind,
		Identity:    id,
		Permissions: identity.PermitAll,
	}
}

// SecondaryOrigin - a request signed by a restricted secondary key
func SecondaryOrigin(id identity.Identity, permissions identity.Permission) Origin {
	return Origin{
		Kind:        SignedKind,
		Identity:    id,
		Permissions: permissions,
	}
}

// Actor - the identity string for the event stream
func (o Origin) Actor() string {
	if RootKind == o.Kind {
		return "root"
	}
	return o.Identity.String()
}

func (o Origin) ensureRoot() error {
	if RootKind != o.Kind {
		return fault.ErrNotRoot
	}
	return nil
}

func (o Origin) ensureSigned(required identity.Permission) error {
	if SignedKind != o.Kind {
		return fault.ErrIdentityNotFound
	}
	if !identity.Exists(o.Identity) {
		return fault.ErrIdentityNotFound
	}
	if required != o.Permissions&required {
		return fault.ErrSecondaryKeyNotPermitted
	}
	return nil
}

func (o Origin) ensureAgent(symbol ticker.Ticker, required identity.Permission) error {
	if err := o.ensureSigned(required); nil != err {
		return err
	}
	if !identity.IsAgent(symbol.Pack(), o.Identity) {
		return fault.ErrNotAnAgent
	}
	return nil
}
