// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type PermissionError GenericError
type ProcessError GenericError
type RejectedError GenericError

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string    { return string(e) }
func (e InvalidError) Error() string   { return string(e) }
func (e LengthError) Error() string    { return string(e) }
func (e NotFoundError) Error() string  { return string(e) }
func (e PermissionError) Error() string { return string(e) }
func (e ProcessError) Error() string   { return string(e) }
func (e RejectedError) Error() string  { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool     { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool    { _, ok := e.(InvalidError); return ok }
func IsErrLength(e error) bool     { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool   { _, ok := e.(NotFoundError); return ok }
func IsErrPermission(e error) bool { _, ok := e.(PermissionError); return ok }
func IsErrProcess(e error) bool    { _, ok := e.(ProcessError); return ok }
func IsErrRejected(e error) bool   { _, ok := e.(RejectedError); return ok }

// common errors - keep in alphabetic order within each class
var (
	// existence
	ErrAssetAlreadyExists          = ExistsError("asset already exists")
	ErrAuthorizationAlreadyHandled = ExistsError("authorization already handled")
	ErrBallotAlreadyAttached       = ExistsError("ballot already attached")
	ErrComplianceRequirementExists = ExistsError("compliance requirement id already exists")
	ErrDistributionAlreadyExists   = ExistsError("distribution already exists")
	ErrDistributionAlreadyReclaimed = ExistsError("distribution already reclaimed")
	ErrDuplicateMediator           = ExistsError("mediator already present")
	ErrDuplicateTrustedIssuer      = ExistsError("trusted issuer already present")
	ErrHolderAlreadyPaid           = ExistsError("holder already paid")
	ErrIdentityAlreadyRegistered   = ExistsError("identity already registered")
	ErrMetadataKeyAlreadyExists    = ExistsError("metadata key already exists")
	ErrPortfolioAlreadyExists      = ExistsError("portfolio already exists")
	ErrTickerAlreadyReserved       = ExistsError("ticker already reserved")

	// invalid data / invariants
	ErrAmountZero                 = InvalidError("amount cannot be zero")
	ErrAssetNotDivisible          = InvalidError("asset is not divisible")
	ErrBallotVoteCountMismatch    = InvalidError("vote count does not match total choices")
	ErrDuplicateRequirementId     = InvalidError("duplicate compliance requirement id")
	ErrEmptyMetadataValue         = InvalidError("metadata value is empty")
	ErrFungibilityMismatch        = InvalidError("asset type fungibility cannot change")
	ErrInvalidAssetType           = InvalidError("asset type is invalid")
	ErrInvalidCheckpoint          = InvalidError("checkpoint id is invalid")
	ErrInvalidCorporateActionKind = InvalidError("corporate action kind is invalid")
	ErrInvalidIdentifier          = InvalidError("asset identifier is invalid")
	ErrInvalidKeyLength           = InvalidError("key length is invalid")
	ErrInvalidKeyType             = InvalidError("key type is invalid")
	ErrInvalidPerShare            = InvalidError("per share rate cannot be zero")
	ErrInvalidPortfolioKind       = InvalidError("portfolio kind is invalid")
	ErrInvalidWithholding         = InvalidError("withholding tax exceeds the whole")
	ErrInvalidRange               = InvalidError("range start is after range end")
	ErrInvalidTickerCharacter     = InvalidError("ticker contains an invalid character")
	ErrCannotDecodeIdentity       = InvalidError("cannot decode identity")
	ErrChecksumMismatch           = InvalidError("checksum mismatch")
	ErrDistributionAmountZero     = InvalidError("distribution amount cannot be zero")
	ErrExpiryBeforePayment        = InvalidError("expiry must follow the payment date")
	ErrMetadataValueLocked        = InvalidError("metadata value is locked")
	ErrMetadataLockWithoutValue   = InvalidError("cannot lock a metadata key with no value")
	ErrNftCollectionKey           = InvalidError("metadata key belongs to a collection")
	ErrRecordDateAfterStart       = InvalidError("record date is after the start")
	ErrRcvFallbackForbidden       = InvalidError("fallback votes require ranked choice")
	ErrRcvFallbackOutOfRange      = InvalidError("fallback is outside the motion")
	ErrRcvSelfCycle               = InvalidError("fallback cannot point at its own choice")
	ErrSelfDistributionForbidden  = InvalidError("asset cannot distribute itself")
	ErrNotBenefitKind             = InvalidError("corporate action is not a benefit")
	ErrNotIssuerNoticeKind        = InvalidError("corporate action is not an issuer notice")
	ErrNoRecordDate               = InvalidError("corporate action has no record date")

	// length / bounds
	ErrAssetNameTooLong           = LengthError("asset name is too long")
	ErrBallotTitleTooLong         = LengthError("ballot title is too long")
	ErrChoicesOverflow            = LengthError("number of choices exceeds the limit")
	ErrComplianceTooComplex       = LengthError("compliance requirements are too complex")
	ErrDocumentCounterOverflow    = LengthError("document counter overflow")
	ErrFundingRoundNameTooLong    = LengthError("funding round name is too long")
	ErrMetadataNameTooLong        = LengthError("metadata name is too long")
	ErrMetadataTypeDefTooLong     = LengthError("metadata type definition is too long")
	ErrMetadataValueTooLong       = LengthError("metadata value is too long")
	ErrCustomTypeNameTooLong      = LengthError("custom asset type name is too long")
	ErrTickerTooLong              = LengthError("ticker is too long")
	ErrTooManyDocuments           = LengthError("too many documents in one batch")
	ErrTooManyMediators           = LengthError("too many mediators")
	ErrTooManyTrustedIssuers      = LengthError("too many trusted issuers")

	// not found
	ErrAssetNotFound              = NotFoundError("asset not found")
	ErrAuthorizationNotFound      = NotFoundError("authorization not found")
	ErrBallotNotFound             = NotFoundError("ballot not found")
	ErrCheckpointNotFound         = NotFoundError("checkpoint not found")
	ErrComplianceRequirementNotFound = NotFoundError("compliance requirement not found")
	ErrCorporateActionNotFound    = NotFoundError("corporate action not found")
	ErrCustomTypeNotFound         = NotFoundError("custom asset type not found")
	ErrDistributionNotFound       = NotFoundError("distribution not found")
	ErrDocumentNotFound           = NotFoundError("document not found")
	ErrIdentityNotFound           = NotFoundError("identity not found")
	ErrMetadataKeyNotFound        = NotFoundError("metadata key not found")
	ErrMetadataValueNotFound      = NotFoundError("metadata value not found")
	ErrPortfolioNotFound          = NotFoundError("portfolio not found")
	ErrTickerNotFound             = NotFoundError("ticker not found")
	ErrTrustedIssuerNotFound      = NotFoundError("trusted issuer not found")

	// permission
	ErrNotAnAgent                 = PermissionError("caller is not an agent of the asset")
	ErrNotAuthorizationIssuer     = PermissionError("issuer is no longer the owner")
	ErrNotAuthorizationTarget     = PermissionError("caller is not the authorization target")
	ErrNotPortfolioCustodian      = PermissionError("caller is not the portfolio custodian")
	ErrNotRoot                    = PermissionError("operation requires the root origin")
	ErrNotTargetedByCorporateAction = PermissionError("identity is not targeted")
	ErrNotTickerOwner             = PermissionError("caller does not own the ticker")
	ErrSecondaryKeyNotPermitted   = PermissionError("secondary key lacks the permission")

	// process
	ErrAlreadyInitialised        = ProcessError("already initialised")
	ErrEngineStopped             = ProcessError("engine is stopped")
	ErrInvalidPayload            = ProcessError("payload type does not match the verb")
	ErrNotInitialised            = ProcessError("not initialised")
	ErrUnknownVerb               = ProcessError("unknown verb")
	ErrTransactionAlreadyInUse   = ProcessError("transaction already in use")
	ErrInvalidLoggerChannel      = ProcessError("invalid logger channel")
	ErrBalanceOverflow           = ProcessError("balance overflow")
	ErrBalanceUnderflow          = ProcessError("balance underflow")
	ErrSupplyOverflow            = ProcessError("total supply overflow")
	ErrSupplyUnderflow           = ProcessError("total supply underflow")

	// transfer / state rejection
	ErrAssetFrozen               = RejectedError("asset is frozen")
	ErrAlreadyFrozen             = RejectedError("asset is already frozen")
	ErrNotFrozen                 = RejectedError("asset is not frozen")
	ErrBallotNotStarted          = RejectedError("ballot has not started")
	ErrBallotAlreadyStarted      = RejectedError("ballot already started")
	ErrBallotEnded               = RejectedError("ballot has ended")
	ErrCannotClaimAfterExpiry    = RejectedError("distribution has expired")
	ErrCannotClaimBeforePayment  = RejectedError("distribution payment date not reached")
	ErrComplianceFailed          = RejectedError("compliance requirements not satisfied")
	ErrDistributionNotExpired    = RejectedError("distribution has not expired")
	ErrDistributionStarted       = RejectedError("distribution payment has started")
	ErrInsufficientBalance       = RejectedError("insufficient balance")
	ErrInsufficientPortfolioBalance = RejectedError("insufficient portfolio balance")
	ErrInsufficientRemaining     = RejectedError("distribution pot exhausted")
	ErrInsufficientVotes         = RejectedError("votes exceed the record date balance")
	ErrProtocolFeeUnpaid         = RejectedError("protocol fee unpaid")
	ErrReservationExpired        = RejectedError("ticker reservation has expired")
	ErrStatisticsRejected        = RejectedError("transfer rejected by statistics")
	ErrWeightLimitExceeded       = RejectedError("weight limit exceeded")
)
