// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package engine

import (
	"github.com/meridian-inc/meridiand/compliance"
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/weight"
)

func addComplianceRequirement(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(AddComplianceRequirement)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitCompliance); nil != err {
		return nil, err
	}
	id, err := compliance.AddRequirement(tick, arg.Requirement)
	if nil != err {
		return nil, err
	}
	return RemoveComplianceRequirement{Symbol: arg.Symbol, Id: id}, nil
}

func removeComplianceRequirement(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(RemoveComplianceRequirement)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitCompliance); nil != err {
		return nil, err
	}
	err = compliance.RemoveRequirement(tick, arg.Id)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func changeComplianceRequirement(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(ChangeComplianceRequirement)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitCompliance); nil != err {
		return nil, err
	}
	err = compliance.ChangeRequirement(tick, arg.Requirement)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func replaceAssetCompliance(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(ReplaceAssetCompliance)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitCompliance); nil != err {
		return nil, err
	}
	err = compliance.ReplaceRequirements(tick, arg.Requirements)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func resetAssetCompliance(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(ResetAssetCompliance)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitCompliance); nil != err {
		return nil, err
	}
	err = compliance.ResetRequirements(tick)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func pauseAssetCompliance(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(PauseAssetCompliance)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitCompliance); nil != err {
		return nil, err
	}
	err = compliance.SetPaused(tick, true)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func resumeAssetCompliance(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(ResumeAssetCompliance)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitCompliance); nil != err {
		return nil, err
	}
	err = compliance.SetPaused(tick, false)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func addDefaultTrustedClaimIssuer(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(AddDefaultTrustedClaimIssuer)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitCompliance); nil != err {
		return nil, err
	}
	err = compliance.AddDefaultTrustedIssuer(tick, arg.Issuer)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func removeDefaultTrustedClaimIssuer(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(RemoveDefaultTrustedClaimIssuer)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitCompliance); nil != err {
		return nil, err
	}
	err = compliance.RemoveDefaultTrustedIssuer(tick, arg.Issuer)
	if nil != err {
		return nil, err
	}
	return arg, nil
}
