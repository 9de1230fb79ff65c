// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ballot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridian-inc/meridiand/balance"
	"github.com/meridian-inc/meridiand/ballot"
	"github.com/meridian-inc/meridiand/corporateaction"
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/ledger"
	"github.com/meridian-inc/meridiand/portfolio"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/ticker"
)

func makeNotice(t *testing.T, tick ticker.Ticker, targets corporateaction.Targets) corporateaction.ID {
	id, err := corporateaction.Initiate(tick, corporateaction.CorporateAction{
		Kind:       corporateaction.IssuerNotice,
		DeclaredAt: 100,
		RecordDate: 100,
		Targets:    targets,
	}, 100)
	if nil != err {
		t.Fatalf("initiate notice: %s", err)
	}
	return id
}

func twoMotions() ballot.Meta {
	return ballot.Meta{
		Title: "annual general meeting",
		Motions: []ballot.Motion{
			{
				Title:   "ratify the auditor",
				Choices: []string{"yes", "no"},
			},
			{
				Title:    "elect a director",
				InfoLink: "https://example.com/agm",
				Choices:  []string{"alice", "bob", "carol"},
			},
		},
	}
}

func TestAttach(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0xb1)
	tick := makeAsset(t, owner, "BATT")
	rng := ballot.Range{Start: 200, End: 300}
	meta := twoMotions()

	// only issuer notices carry ballots
	benefit, err := corporateaction.Initiate(tick, corporateaction.CorporateAction{
		Kind:       corporateaction.PredictableBenefit,
		DeclaredAt: 100,
		RecordDate: 100,
	}, 100)
	assert.Nil(t, err)
	assert.Equal(t, fault.ErrNotIssuerNoticeKind,
		ballot.Attach(benefit, rng, meta, false, 100))

	id := makeNotice(t, tick, corporateaction.Targets{})

	assert.Equal(t, fault.ErrInvalidRange,
		ballot.Attach(id, ballot.Range{Start: 300, End: 200}, meta, false, 100))
	assert.Equal(t, fault.ErrBallotEnded,
		ballot.Attach(id, rng, meta, false, 400))
	assert.Equal(t, fault.ErrRecordDateAfterStart,
		ballot.Attach(id, ballot.Range{Start: 50, End: 300}, meta, false, 40))

	long := meta
	long.Title = string(make([]byte, ballot.MaxTitleLen+1))
	assert.Equal(t, fault.ErrBallotTitleTooLong,
		ballot.Attach(id, rng, long, false, 100))

	assert.Nil(t, ballot.Attach(id, rng, meta, true, 100))
	assert.Equal(t, fault.ErrBallotAlreadyAttached,
		ballot.Attach(id, rng, meta, true, 100))

	stored, err := ballot.RangeOf(id)
	assert.Nil(t, err)
	assert.Equal(t, rng, stored)

	counts, err := ballot.ChoiceCounts(id)
	assert.Nil(t, err)
	assert.Equal(t, []int{2, 3}, counts)

	readBack, err := ballot.MetaOf(id)
	assert.Nil(t, err)
	assert.Equal(t, meta, readBack)

	assert.True(t, ballot.RcvEnabled(id))

	results, err := ballot.Results(id)
	assert.Nil(t, err)
	assert.Equal(t, 5, len(results))
	for _, r := range results {
		assert.True(t, r.IsZero())
	}
}

func TestRankedChoiceVoting(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0xb2)
	voter := makeIdentity(t, 0xb3)
	tick := makeAsset(t, owner, "BVOT")
	assert.Nil(t, ledger.Issue(tick, balance.NewUnits(900), portfolio.Default(owner)))
	assert.Nil(t, ledger.Issue(tick, balance.NewUnits(100), portfolio.Default(voter)))

	id := makeNotice(t, tick, corporateaction.Targets{})
	assert.Nil(t, ballot.Attach(id, ballot.Range{Start: 200, End: 300},
		twoMotions(), true, 100))

	vote := func(powers [5]uint64, fallbackAt int, fallback uint16) []ballot.Vote {
		votes := make([]ballot.Vote, 5)
		for i, p := range powers {
			votes[i].Power = balance.NewUnits(p)
		}
		if fallbackAt >= 0 {
			votes[fallbackAt].HasFallback = true
			votes[fallbackAt].Fallback = fallback
		}
		return votes
	}

	good := vote([5]uint64{100, 0, 41, 49, 10}, 4, 0)

	assert.Equal(t, fault.ErrBallotNotStarted,
		ballot.Cast(id, voter, good, 150))
	assert.Equal(t, fault.ErrBallotEnded,
		ballot.Cast(id, voter, good, 350))
	assert.Equal(t, fault.ErrBallotVoteCountMismatch,
		ballot.Cast(id, voter, good[:4], 250))

	// the last choice of the second motion is local index 2
	assert.Equal(t, fault.ErrRcvSelfCycle,
		ballot.Cast(id, voter, vote([5]uint64{100, 0, 41, 49, 10}, 4, 2), 250))
	assert.Equal(t, fault.ErrRcvFallbackOutOfRange,
		ballot.Cast(id, voter, vote([5]uint64{100, 0, 41, 49, 10}, 4, 3), 250))

	// each motion is limited by the record date balance independently
	assert.Equal(t, fault.ErrInsufficientVotes,
		ballot.Cast(id, voter, vote([5]uint64{101, 0, 41, 49, 10}, 4, 0), 250))

	assert.Nil(t, ballot.Cast(id, voter, good, 250))

	results, err := ballot.Results(id)
	assert.Nil(t, err)
	assert.Equal(t, 0, results[0].Cmp(balance.NewUnits(100)))
	assert.True(t, results[1].IsZero())
	assert.Equal(t, 0, results[2].Cmp(balance.NewUnits(41)))
	assert.Equal(t, 0, results[3].Cmp(balance.NewUnits(49)))
	assert.Equal(t, 0, results[4].Cmp(balance.NewUnits(10)))

	// a second ballot replaces the first in the tallies
	assert.Nil(t, ballot.Cast(id, voter,
		vote([5]uint64{60, 40, 0, 100, 0}, -1, 0), 260))

	results, err = ballot.Results(id)
	assert.Nil(t, err)
	assert.Equal(t, 0, results[0].Cmp(balance.NewUnits(60)))
	assert.Equal(t, 0, results[1].Cmp(balance.NewUnits(40)))
	assert.True(t, results[2].IsZero())
	assert.Equal(t, 0, results[3].Cmp(balance.NewUnits(100)))
	assert.True(t, results[4].IsZero())

	saved, err := ballot.VotesOf(id, voter)
	assert.Nil(t, err)
	assert.Equal(t, 5, len(saved))
	assert.Equal(t, 0, saved[0].Power.Cmp(balance.NewUnits(60)))
}

func TestFallbackRequiresRcv(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0xb4)
	tick := makeAsset(t, owner, "BNRC")
	assert.Nil(t, ledger.Issue(tick, balance.NewUnits(100), portfolio.Default(owner)))

	id := makeNotice(t, tick, corporateaction.Targets{})
	assert.Nil(t, ballot.Attach(id, ballot.Range{Start: 200, End: 300},
		twoMotions(), false, 100))

	votes := make([]ballot.Vote, 5)
	votes[4].Power = balance.NewUnits(10)
	votes[4].HasFallback = true

	assert.Equal(t, fault.ErrRcvFallbackForbidden,
		ballot.Cast(id, owner, votes, 250))
}

func TestVoterMustBeTargeted(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0xb5)
	outsider := makeIdentity(t, 0xb6)
	tick := makeAsset(t, owner, "BTGT")
	assert.Nil(t, ledger.Issue(tick, balance.NewUnits(100), portfolio.Default(owner)))

	id := makeNotice(t, tick, corporateaction.Targets{
		Treatment:  corporateaction.Exclude,
		Identities: []identity.Identity{outsider},
	})
	assert.Nil(t, ballot.Attach(id, ballot.Range{Start: 200, End: 300},
		twoMotions(), false, 100))

	votes := make([]ballot.Vote, 5)
	assert.Equal(t, fault.ErrNotTargetedByCorporateAction,
		ballot.Cast(id, outsider, votes, 250))
}

func TestMutationOnlyBeforeStart(t *testing.T) {
	trx, err := storage.NewDBTransaction()
	assert.Nil(t, err)
	defer trx.Abort()

	owner := makeIdentity(t, 0xb7)
	tick := makeAsset(t, owner, "BMUT")

	id := makeNotice(t, tick, corporateaction.Targets{})
	assert.Nil(t, ballot.Attach(id, ballot.Range{Start: 500, End: 600},
		twoMotions(), false, 100))

	assert.Nil(t, ballot.ChangeEnd(id, 550, 100))
	assert.Equal(t, fault.ErrInvalidRange, ballot.ChangeEnd(id, 400, 100))

	single := ballot.Meta{
		Title: "adjourned meeting",
		Motions: []ballot.Motion{
			{Title: "adjourn", Choices: []string{"yes", "no"}},
		},
	}
	assert.Nil(t, ballot.ChangeMeta(id, single, 100))
	counts, err := ballot.ChoiceCounts(id)
	assert.Nil(t, err)
	assert.Equal(t, []int{2}, counts)

	assert.False(t, ballot.RcvEnabled(id))
	assert.Nil(t, ballot.ChangeRcv(id, true, 100))
	assert.True(t, ballot.RcvEnabled(id))

	// voting has opened, the ballot is frozen
	assert.Equal(t, fault.ErrBallotAlreadyStarted, ballot.ChangeEnd(id, 650, 500))
	assert.Equal(t, fault.ErrBallotAlreadyStarted, ballot.ChangeMeta(id, single, 500))
	assert.Equal(t, fault.ErrBallotAlreadyStarted, ballot.ChangeRcv(id, false, 500))
	assert.Equal(t, fault.ErrBallotAlreadyStarted, ballot.Remove(id, 500))

	assert.Nil(t, ballot.Remove(id, 100))
	_, err = ballot.RangeOf(id)
	assert.Equal(t, fault.ErrBallotNotFound, err)
}
