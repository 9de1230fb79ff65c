// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package engine

import (
	"github.com/meridian-inc/meridiand/asset"
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/messagebus"
	"github.com/meridian-inc/meridiand/mode"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/ticker"
	"github.com/meridian-inc/meridiand/weight"
)

// a handler runs one verb inside the open transaction and returns
// the event item for the canonical event stream
type handler func(o Origin, payload interface{}, now int64, meter *weight.Meter) (interface{}, error)

var handlers = map[string]handler{
	// asset
	"reserve_ticker":                      reserveTicker,
	"accept_ticker_transfer":              acceptTickerTransfer,
	"accept_asset_ownership_transfer":     acceptAssetOwnership,
	"create_asset":                        createAsset,
	"set_freeze":                          setFreeze,
	"rename_asset":                        renameAsset,
	"issue":                               issue,
	"redeem":                              redeem,
	"transfer":                            transfer,
	"controller_transfer":                 controllerTransfer,
	"make_divisible":                      makeDivisible,
	"add_documents":                       addDocuments,
	"remove_documents":                    removeDocuments,
	"set_funding_round":                   setFundingRound,
	"update_identifiers":                  updateIdentifiers,
	"update_asset_type":                   updateAssetType,
	"register_custom_asset_type":          registerCustomAssetType,
	"set_asset_metadata":                  setAssetMetadata,
	"set_asset_metadata_details":          setAssetMetadataDetails,
	"register_and_set_local_asset_metadata": registerAndSetLocalMetadata,
	"register_asset_metadata_local_type":  registerLocalMetadataType,
	"register_asset_metadata_global_type": registerGlobalMetadataType,
	"remove_local_metadata_key":           removeLocalMetadataKey,
	"remove_metadata_value":               removeMetadataValue,
	"exempt_ticker_affirmation":           exemptTickerAffirmation,
	"remove_ticker_affirmation_exemption": removeTickerAffirmationExemption,
	"pre_approve_ticker":                  preApproveTicker,
	"remove_ticker_pre_approval":          removeTickerPreApproval,
	"add_mandatory_mediators":             addMandatoryMediators,
	"remove_mandatory_mediators":          removeMandatoryMediators,

	// compliance
	"add_compliance_requirement":          addComplianceRequirement,
	"remove_compliance_requirement":       removeComplianceRequirement,
	"change_compliance_requirement":       changeComplianceRequirement,
	"replace_asset_compliance":            replaceAssetCompliance,
	"reset_asset_compliance":              resetAssetCompliance,
	"pause_asset_compliance":              pauseAssetCompliance,
	"resume_asset_compliance":             resumeAssetCompliance,
	"add_default_trusted_claim_issuer":    addDefaultTrustedClaimIssuer,
	"remove_default_trusted_claim_issuer": removeDefaultTrustedClaimIssuer,

	// corporate actions
	"initiate_corporate_action": initiateCorporateAction,

	// ballots
	"attach_ballot": attachBallot,
	"vote":          castVote,
	"change_end":    changeBallotEnd,
	"change_meta":   changeBallotMeta,
	"change_rcv":    changeBallotRcv,
	"remove_ballot": removeBallot,

	// distributions
	"distribute":          distribute,
	"claim":               claimBenefit,
	"push_benefit":        pushBenefit,
	"reclaim":             reclaimDistribution,
	"remove_distribution": removeDistribution,
}

// Dispatch - run one verb as a single atomic request
//
// on success exactly one event reaches the message bus after the
// storage transaction commits; on failure every write is reverted
func Dispatch(o Origin, verb string, payload interface{}, meter *weight.Meter) error {
	globalData.RLock()
	initialised := globalData.initialised
	charger := globalData.charger
	clock := globalData.clock
	globalData.RUnlock()

	if !initialised {
		return fault.ErrNotInitialised
	}
	if mode.IsNot(mode.Normal) {
		return fault.ErrEngineStopped
	}
	h, ok := handlers[verb]
	if !ok {
		return fault.ErrUnknownVerb
	}
	if nil == meter {
		meter = weight.Unlimited()
	}

	globalData.dispatched.Increment()

	trx, err := storage.NewDBTransaction()
	if nil != err {
		globalData.failed.Increment()
		return err
	}

	now := clock.Now()
	item, err := runVerb(charger, h, o, verb, payload, now, meter)
	if nil != err {
		trx.Abort()
		globalData.failed.Increment()
		globalData.log.Debugf("%s by %s failed: %s", verb, o.Actor(), err)
		return err
	}
	err = trx.Commit()
	if nil != err {
		globalData.failed.Increment()
		return err
	}

	messagebus.Send(verb, o.Actor(), item)
	return nil
}

func runVerb(charger Charger, h handler, o Origin, verb string, payload interface{}, now int64, meter *weight.Meter) (interface{}, error) {
	// the host origin is never charged
	if RootKind != o.Kind {
		if err := charger.Charge(o.Identity, verb); nil != err {
			return nil, err
		}
	}
	return h(o, payload, now, meter)
}

// symbols arrive as strings from the host envelope
func parseTicker(symbol string) (ticker.Ticker, error) {
	return ticker.New(symbol, asset.CurrentLimits().MaxTickerLength)
}
