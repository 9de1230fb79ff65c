// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package engine

import (
	"github.com/meridian-inc/meridiand/asset"
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/ledger"
	"github.com/meridian-inc/meridiand/portfolio"
	"github.com/meridian-inc/meridiand/weight"
)

func reserveTicker(o Origin, payload interface{}, now int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(ReserveTicker)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	if err := o.ensureSigned(identity.PermitAsset); nil != err {
		return nil, err
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	err = asset.ReserveTicker(o.Identity, tick, now, arg.Expiry)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func acceptTickerTransfer(o Origin, payload interface{}, now int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(AcceptTickerTransfer)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	if err := o.ensureSigned(identity.PermitAsset); nil != err {
		return nil, err
	}
	tick, err := asset.AcceptTickerTransfer(o.Identity, arg.AuthId, now, arg.Expiry)
	if nil != err {
		return nil, err
	}
	return ReserveTicker{Symbol: tick.String(), Expiry: arg.Expiry}, nil
}

func acceptAssetOwnership(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(AcceptAssetOwnership)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	if err := o.ensureSigned(identity.PermitAsset); nil != err {
		return nil, err
	}
	tick, err := asset.AcceptAssetOwnership(o.Identity, arg.AuthId)
	if nil != err {
		return nil, err
	}
	return RenameAsset{Symbol: tick.String()}, nil
}

func createAsset(o Origin, payload interface{}, now int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(CreateAsset)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	if err := o.ensureSigned(identity.PermitAsset); nil != err {
		return nil, err
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	err = asset.Create(o.Identity, tick, arg.Name, arg.Divisible,
		arg.AssetType, arg.Identifiers, arg.FundingRound, now)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func setFreeze(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(SetFreeze)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitAsset); nil != err {
		return nil, err
	}
	err = asset.SetFreeze(tick, arg.Freeze)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func renameAsset(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(RenameAsset)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitAsset); nil != err {
		return nil, err
	}
	err = asset.Rename(tick, arg.Name)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func issue(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(Issue)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitAsset); nil != err {
		return nil, err
	}
	if err := portfolio.EnsureCustodian(arg.Portfolio, o.Identity); nil != err {
		return nil, err
	}
	err = ledger.Issue(tick, arg.Amount, arg.Portfolio)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func redeem(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(Redeem)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitAsset); nil != err {
		return nil, err
	}
	if err := portfolio.EnsureCustodian(arg.Portfolio, o.Identity); nil != err {
		return nil, err
	}
	err = ledger.Redeem(tick, arg.Amount, arg.Portfolio)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func transfer(o Origin, payload interface{}, now int64, meter *weight.Meter) (interface{}, error) {
	arg, ok := payload.(Transfer)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	if err := o.ensureSigned(identity.PermitPortfolio); nil != err {
		return nil, err
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := portfolio.EnsureCustodian(arg.From, o.Identity); nil != err {
		return nil, err
	}
	err = ledger.Transfer(tick, arg.From, arg.To, arg.Amount, now, meter)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func controllerTransfer(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(ControllerTransfer)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	if err := o.ensureSigned(identity.PermitAsset); nil != err {
		return nil, err
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	err = ledger.ControllerTransfer(tick, o.Identity, arg.From, arg.Amount)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func makeDivisible(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(MakeDivisible)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitAsset); nil != err {
		return nil, err
	}
	err = asset.MakeDivisible(tick)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func addDocuments(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(AddDocuments)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitAsset); nil != err {
		return nil, err
	}
	ids, err := asset.AddDocuments(tick, arg.Documents)
	if nil != err {
		return nil, err
	}
	return RemoveDocuments{Symbol: arg.Symbol, Ids: ids}, nil
}

func removeDocuments(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(RemoveDocuments)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitAsset); nil != err {
		return nil, err
	}
	err = asset.RemoveDocuments(tick, arg.Ids)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func setFundingRound(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(SetFundingRound)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitAsset); nil != err {
		return nil, err
	}
	err = asset.SetFundingRound(tick, arg.Round)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func updateIdentifiers(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(UpdateIdentifiers)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitAsset); nil != err {
		return nil, err
	}
	err = asset.UpdateIdentifiers(tick, arg.Identifiers)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func updateAssetType(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(UpdateAssetType)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitAsset); nil != err {
		return nil, err
	}
	err = asset.UpdateType(tick, arg.AssetType)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func registerCustomAssetType(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(RegisterCustomAssetType)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	if err := o.ensureSigned(identity.PermitAsset); nil != err {
		return nil, err
	}
	id, err := asset.RegisterCustomType(arg.Name)
	if nil != err {
		return nil, err
	}
	return asset.Type{Kind: asset.Custom, CustomId: id}, nil
}

func setAssetMetadata(o Origin, payload interface{}, now int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(SetAssetMetadata)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitAsset); nil != err {
		return nil, err
	}
	err = asset.SetValue(tick, arg.Key, arg.Value, arg.Detail, now)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func setAssetMetadataDetails(o Origin, payload interface{}, now int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(SetAssetMetadataDetails)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitAsset); nil != err {
		return nil, err
	}
	err = asset.SetDetails(tick, arg.Key, arg.Detail, now)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func registerAndSetLocalMetadata(o Origin, payload interface{}, now int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(RegisterAndSetLocalMetadata)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitAsset); nil != err {
		return nil, err
	}
	key, err := asset.RegisterLocalKey(tick, arg.Spec)
	if nil != err {
		return nil, err
	}
	err = asset.SetValue(tick, key, arg.Value, arg.Detail, now)
	if nil != err {
		return nil, err
	}
	return SetAssetMetadata{Symbol: arg.Symbol, Key: key, Value: arg.Value, Detail: arg.Detail}, nil
}

func registerLocalMetadataType(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(RegisterLocalMetadataType)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitAsset); nil != err {
		return nil, err
	}
	key, err := asset.RegisterLocalKey(tick, arg.Spec)
	if nil != err {
		return nil, err
	}
	return RemoveLocalMetadataKey{Symbol: arg.Symbol, Key: key}, nil
}

func registerGlobalMetadataType(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(RegisterGlobalMetadataType)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	if err := o.ensureRoot(); nil != err {
		return nil, err
	}
	key, err := asset.RegisterGlobalKey(arg.Spec)
	if nil != err {
		return nil, err
	}
	return key, nil
}

func removeLocalMetadataKey(o Origin, payload interface{}, now int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(RemoveLocalMetadataKey)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitAsset); nil != err {
		return nil, err
	}
	err = asset.RemoveLocalKey(tick, arg.Key, now)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func removeMetadataValue(o Origin, payload interface{}, now int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(RemoveMetadataValue)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitAsset); nil != err {
		return nil, err
	}
	err = asset.RemoveValue(tick, arg.Key, now)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func exemptTickerAffirmation(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(ExemptTickerAffirmation)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	if err := o.ensureRoot(); nil != err {
		return nil, err
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	asset.ExemptTicker(tick, true)
	return arg, nil
}

func removeTickerAffirmationExemption(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(RemoveTickerAffirmationExemption)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	if err := o.ensureRoot(); nil != err {
		return nil, err
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	asset.ExemptTicker(tick, false)
	return arg, nil
}

func preApproveTicker(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(PreApproveTicker)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	if err := o.ensureSigned(identity.PermitAsset); nil != err {
		return nil, err
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	asset.PreApprove(o.Identity, tick, true)
	return arg, nil
}

func removeTickerPreApproval(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(RemoveTickerPreApproval)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	if err := o.ensureSigned(identity.PermitAsset); nil != err {
		return nil, err
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	asset.PreApprove(o.Identity, tick, false)
	return arg, nil
}

func addMandatoryMediators(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(AddMandatoryMediators)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitAsset); nil != err {
		return nil, err
	}
	err = asset.AddMediators(tick, arg.Mediators)
	if nil != err {
		return nil, err
	}
	return arg, nil
}

func removeMandatoryMediators(o Origin, payload interface{}, _ int64, _ *weight.Meter) (interface{}, error) {
	arg, ok := payload.(RemoveMandatoryMediators)
	if !ok {
		return nil, fault.ErrInvalidPayload
	}
	tick, err := parseTicker(arg.Symbol)
	if nil != err {
		return nil, err
	}
	if err := o.ensureAgent(tick, identity.PermitAsset); nil != err {
		return nil, err
	}
	err = asset.RemoveMediators(tick, arg.Mediators)
	if nil != err {
		return nil, err
	}
	return arg, nil
}
