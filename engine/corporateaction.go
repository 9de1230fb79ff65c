// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package engine

import (
	"github.com/meridian-inc/meridiand/ballot"
	"github.com/meridian-inc/meridiand/corporateaction"
	"github.com/meridian-inc/meridiand/distribution"
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/portfolio"
	"github.com/meridian-inc/meridiand/weight"
)

// caID - resolve a symbol and asset-local counter into an action reference
func caID(symbol string, local uint64) (corporateaction.ID, error) {
	tick, err := parseTicker(symbol)
	if nil != err {
		return corporateaction.ID{}, err
	}
	return corporateaction.ID{Symbol: tick, Local: local}, nil
}

func initiateCorporateAction(o Origin, payload interface{}, now int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(InitiateCorporateAction)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitCorporateAction); nil != err {
		return nil, err
	}
	id, err := corporateaction.Initiate(tick, arg.Action, now)
	if nil != err {
		return nil, err
	}
	return InitiatedCorporateAction{Id: id, Action: arg.Action}, nil
}

func attachBallot(o Origin, payload interface{}, now int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(AttachBallot)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	id, err := caID(arg.Symbol, arg.Local)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(id.Symbol, identity.PermitCorporateAction); nil != err {
		return nil, err
	}
	err = ballot.Attach(id, arg.Range, arg.Meta, arg.RcvEnabled, now)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func castVote(o Origin, payload interface{}, now int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(CastVote)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	if err := o.ensureSigned(identity.PermitCorporateAction); nil != err {
		return nil, err
	}
	id, err := caID(arg.Symbol, arg.Local)
	if nil != err {
		return nil, err
	}
	err = ballot.Cast(id, o.Identity, arg.Votes, now)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func changeBallotEnd(o Origin, payload interface{}, now int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(ChangeBallotEnd)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	id, err := caID(arg.Symbol, arg.Local)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(id.Symbol, identity.PermitCorporateAction); nil != err {
		return nil, err
	}
	err = ballot.ChangeEnd(id, arg.End, now)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func changeBallotMeta(o Origin, payload interface{}, now int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(ChangeBallotMeta)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	id, err := caID(arg.Symbol, arg.Local)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(id.Symbol, identity.PermitCorporateAction); nil != err {
		return nil, err
	}
	err = ballot.ChangeMeta(id, arg.Meta, now)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func changeBallotRcv(o Origin, payload interface{}, now int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(ChangeBallotRcv)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	id, err := caID(arg.Symbol, arg.Local)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(id.Symbol, identity.PermitCorporateAction); nil != err {
		return nil, err
	}
	err = ballot.ChangeRcv(id, arg.RcvEnabled, now)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func removeBallot(o Origin, payload interface{}, now int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(RemoveBallot)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	id, err := caID(arg.Symbol, arg.Local)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(id.Symbol, identity.PermitCorporateAction); nil != err {
		return nil, err
	}
	err = ballot.Remove(id, now)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func distribute(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(Distribute)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	id, err := caID(arg.Symbol, arg.Local)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(id.Symbol, identity.PermitCorporateAction); nil != err {
		return nil, err
	}
	if err := portfolio.EnsureCustodian(arg.From, o.Identity); nil != err {
		return nil, err
	}
	currency, err := parseTicker(arg.Currency)
	if nil != err {
		return nil, err
	}
	err = distribution.Distribute(id, arg.From, currency, arg.PerShare, arg.Amount, arg.PaymentAt, arg.ExpiresAt)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func claimBenefit(o Origin, payload interface{}, now int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(ClaimBenefit)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	if err := o.ensureSigned(identity.PermitCorporateAction); nil != err {
		return nil, err
	}
	id, err := caID(arg.Symbol, arg.Local)
	if nil != err {
		return nil, err
	}
	err = distribution.Claim(id, o.Identity, now)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func pushBenefit(o Origin, payload interface{}, now int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(PushBenefit)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	id, err := caID(arg.Symbol, arg.Local)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(id.Symbol, identity.PermitCorporateAction); nil != err {
		return nil, err
	}
	err = distribution.Claim(id, arg.Holder, now)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func reclaimDistribution(o Origin, payload interface{}, now int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(ReclaimDistribution)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	if err := o.ensureSigned(identity.PermitCorporateAction); nil != err {
		return nil, err
	}
	id, err := caID(arg.Symbol, arg.Local)
	if nil != err {
		return nil, err
	}
	err = distribution.Reclaim(id, o.Identity, now)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func removeDistribution(o Origin, payload interface{}, now int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(RemoveDistribution)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	id, err := caID(arg.Symbol, arg.Local)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(id.Symbol, identity.PermitCorporateAction); nil != err {
		return nil, err
	}
	err = distribution.Remove(id, now)
	if nil != err {
		return nil, err
	}
	return arg, nil
}
