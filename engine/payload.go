// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package engine

import (
	"github.com/meridian-inc/meridiand/asset"
	"github.com/meridian-inc/meridiand/balance"
	"github.com/meridian-inc/meridiand/ballot"
	"github.com/meridian-inc/meridiand/compliance"
	"github.com/meridian-inc/meridiand/corporateaction"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/portfolio"
)

// asset verbs

type ReserveTicker struct {
	Symbol string
	Expiry int64
}

type AcceptTickerTransfer struct {
	AuthId uint64
	Expiry int64
}

type AcceptAssetOwnership struct {
	AuthId uint64
}

type CreateAsset struct {
	Symbol       string
	Name         string
	Divisible    bool
	AssetType    asset.Type
	Identifiers  []asset.Identifier
	FundingRound string
}

type SetFreeze struct {
	Symbol string
	Freeze bool
}

type RenameAsset struct {
	Symbol string
	Name   string
}

type Issue struct {
	Symbol    string
	Amount    balance.Amount
	Portfolio portfolio.Portfolio
}

type Redeem struct {
	Symbol    string
	Amount    balance.Amount
	Portfolio portfolio.Portfolio
}

type Transfer struct {
	Symbol string
	From   portfolio.Portfolio
	To     portfolio.Portfolio
	Amount balance.Amount
}

type ControllerTransfer struct {
	Symbol string
	From   portfolio.Portfolio
	Amount balance.Amount
}

type MakeDivisible struct {
	Symbol string
}

type AddDocuments struct {
	Symbol    string
	Documents []asset.Document
}

type RemoveDocuments struct {
	Symbol string
	Ids    []uint64
}

type SetFundingRound struct {
	Symbol string
	Round  string
}

type UpdateIdentifiers struct {
	Symbol      string
	Identifiers []asset.Identifier
}

type UpdateAssetType struct {
	Symbol    string
	AssetType asset.Type
}

type RegisterCustomAssetType struct {
	Name string
}

type SetAssetMetadata struct {
	Symbol string
	Key    asset.MetadataKey
	Value  []byte
	Detail *asset.MetadataDetail
}

type SetAssetMetadataDetails struct {
	Symbol string
	Key    asset.MetadataKey
	Detail asset.MetadataDetail
}

type RegisterAndSetLocalMetadata struct {
	Symbol string
	Spec   asset.MetadataSpec
	Value  []byte
	Detail *asset.MetadataDetail
}

type RegisterLocalMetadataType struct {
	Symbol string
	Spec   asset.MetadataSpec
}

type RegisterGlobalMetadataType struct {
	Spec asset.MetadataSpec
}

type RemoveLocalMetadataKey struct {
	Symbol string
	Key    asset.MetadataKey
}

type RemoveMetadataValue struct {
	Symbol string
	Key    asset.MetadataKey
}

type ExemptTickerAffirmation struct {
	Symbol string
}

type RemoveTickerAffirmationExemption struct {
	Symbol string
}

type PreApproveTicker struct {
	Symbol string
}

type RemoveTickerPreApproval struct {
	Symbol string
}

type AddMandatoryMediators struct {
	Symbol    string
	Mediators []identity.Identity
}

type RemoveMandatoryMediators struct {
	Symbol    string
	Mediators []identity.Identity
}

// compliance verbs

type AddComplianceRequirement struct {
	Symbol      string
	Requirement compliance.Requirement
}

type RemoveComplianceRequirement struct {
	Symbol string
	Id     uint32
}

type ChangeComplianceRequirement struct {
	Symbol      string
	Requirement compliance.Requirement
}

type ReplaceAssetCompliance struct {
	Symbol       string
	Requirements []compliance.Requirement
}

type ResetAssetCompliance struct {
	Symbol string
}

type PauseAssetCompliance struct {
	Symbol string
}

type ResumeAssetCompliance struct {
	Symbol string
}

type AddDefaultTrustedClaimIssuer struct {
	Symbol string
	Issuer compliance.TrustedIssuer
}

type RemoveDefaultTrustedClaimIssuer struct {
	Symbol string
	Issuer identity.Identity
}

// corporate action, ballot and distribution verbs

type InitiateCorporateAction struct {
	Symbol string
	Action corporateaction.CorporateAction
}

// InitiatedCorporateAction - the event item for a successful initiate
type InitiatedCorporateAction struct {
	Id     corporateaction.ID
	Action corporateaction.CorporateAction
}

type AttachBallot struct {
	Symbol     string
	Local      uint64
	Range      ballot.Range
	Meta       ballot.Meta
	RcvEnabled bool
}

type CastVote struct {
	Symbol string
	Local  uint64
	Votes  []ballot.Vote
}

type ChangeBallotEnd struct {
	Symbol string
	Local  uint64
	End    int64
}

type ChangeBallotMeta struct {
	Symbol string
	Local  uint64
	Meta   ballot.Meta
}

type ChangeBallotRcv struct {
	Symbol     string
	Local      uint64
	RcvEnabled bool
}

type RemoveBallot struct {
	Symbol string
	Local  uint64
}

type Distribute struct {
	Symbol    string
	Local     uint64
	From      portfolio.Portfolio
	Currency  string
	PerShare  balance.Amount
	Amount    balance.Amount
	PaymentAt int64
	ExpiresAt int64
}

type ClaimBenefit struct {
	Symbol string
	Local  uint64
}

type PushBenefit struct {
	Symbol string
	Local  uint64
	Holder identity.Identity
}

type ReclaimDistribution struct {
	Symbol string
	Local  uint64
}

type RemoveDistribution struct {
	Symbol string
	Local  uint64
}
