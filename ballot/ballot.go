// SPDX-License-Identifier: ISC
// Copyright (c) 2018-2020 Meridian Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ballot - motions and votes attached to an issuer notice
//
// a ballot binds a voting window to a corporate action of the notice
// kind; voting power is the holder's balance at the record date and a
// later vote replaces the earlier one.
package ballot

import (
	"encoding/binary"

	"github.com/meridian-inc/meridiand/balance"
	"github.com/meridian-inc/meridiand/corporateaction"
	"github.com/meridian-inc/meridiand/fault"
	"github.com/meridian-inc/meridiand/identity"
	"github.com/meridian-inc/meridiand/storage"
	"github.com/meridian-inc/meridiand/util"
)

// longest title, motion text, link or choice text
const MaxTitleLen = 1024

// Range - the voting window, both ends inclusive
type Range struct {
	Start int64
	End   int64
}

func (r Range) pack() []byte {
	buffer := make([]byte, 16)
	binary.BigEndian.PutUint64(buffer[:8], uint64(r.Start))
	binary.BigEndian.PutUint64(buffer[8:], uint64(r.End))
	return buffer
}

func unpackRange(buffer []byte) (Range, error) {
	if 16 != len(buffer) {
		return Range{}, fault.ErrBallotNotFound
	}
	return Range{
		Start: int64(binary.BigEndian.Uint64(buffer[:8])),
		End:   int64(binary.BigEndian.Uint64(buffer[8:])),
	}, nil
}

// Motion - one question with its choices
type Motion struct {
	Title    string
	InfoLink string
	Choices  []string
}

// Meta - the human readable part of a ballot
type Meta struct {
	Title   string
	Motions []Motion
}

func (m Meta) pack() []byte {
	buffer := util.AppendString(nil, m.Title)
	buffer = append(buffer, util.ToVarint64(uint64(len(m.Motions)))...)
	for _, motion := range m.Motions {
		buffer = util.AppendString(buffer, motion.Title)
		buffer = util.AppendString(buffer, motion.InfoLink)
		buffer = append(buffer, util.ToVarint64(uint64(len(motion.Choices)))...)
		for _, choice := range motion.Choices {
			buffer = util.AppendString(buffer, choice)
		}
	}
	return buffer
}

func unpackMeta(buffer []byte) (Meta, error) {
	m := Meta{}

	title, n := util.NextString(buffer)
	if 0 == n {
		return m, fault.ErrBallotNotFound
	}
	m.Title = title
	buffer = buffer[n:]

	motionCount, n := util.FromVarint64(buffer)
	if 0 == n {
		return m, fault.ErrBallotNotFound
	}
	buffer = buffer[n:]

	for i := uint64(0); i < motionCount; i += 1 {
		motion := Motion{}
		motion.Title, n = util.NextString(buffer)
		if 0 == n {
			return m, fault.ErrBallotNotFound
		}
		buffer = buffer[n:]
		motion.InfoLink, n = util.NextString(buffer)
		if 0 == n {
			return m, fault.ErrBallotNotFound
		}
		buffer = buffer[n:]

		choiceCount, n := util.FromVarint64(buffer)
		if 0 == n {
			return m, fault.ErrBallotNotFound
		}
		buffer = buffer[n:]
		for j := uint64(0); j < choiceCount; j += 1 {
			choice, n := util.NextString(buffer)
			if 0 == n {
				return m, fault.ErrBallotNotFound
			}
			buffer = buffer[n:]
			motion.Choices = append(motion.Choices, choice)
		}
		m.Motions = append(m.Motions, motion)
	}
	return m, nil
}

func checkMeta(m Meta) error {
	if len(m.Title) > MaxTitleLen {
		return fault.ErrBallotTitleTooLong
	}
	for _, motion := range m.Motions {
		if len(motion.Title) > MaxTitleLen || len(motion.InfoLink) > MaxTitleLen {
			return fault.ErrBallotTitleTooLong
		}
		for _, choice := range motion.Choices {
			if len(choice) > MaxTitleLen {
				return fault.ErrBallotTitleTooLong
			}
		}
	}
	return nil
}

func choiceCounts(m Meta) []int {
	counts := make([]int, len(m.Motions))
	for i, motion := range m.Motions {
		counts[i] = len(motion.Choices)
	}
	return counts
}

func packCounts(counts []int) []byte {
	buffer := util.ToVarint64(uint64(len(counts)))
	for _, n := range counts {
		buffer = append(buffer, util.ToVarint64(uint64(n))...)
	}
	return buffer
}

func unpackCounts(buffer []byte) ([]int, error) {
	count, n := util.FromVarint64(buffer)
	if 0 == n {
		return nil, fault.ErrBallotNotFound
	}
	buffer = buffer[n:]
	counts := make([]int, count)
	for i := uint64(0); i < count; i += 1 {
		value, n := util.FromVarint64(buffer)
		if 0 == n {
			return nil, fault.ErrBallotNotFound
		}
		buffer = buffer[n:]
		counts[i] = int(value)
	}
	return counts, nil
}

// Vote - power committed to one choice
//
// a fallback redirects the power to another choice of the same motion
// when ranked choice is enabled
type Vote struct {
	Power       balance.Amount
	HasFallback bool
	Fallback    uint16
}

func packVotes(votes []Vote) []byte {
	buffer := util.ToVarint64(uint64(len(votes)))
	for _, v := range votes {
		buffer = append(buffer, v.Power.Pack()...)
		if v.HasFallback {
			fallback := make([]byte, 3)
			fallback[0] = 1
			binary.BigEndian.PutUint16(fallback[1:], v.Fallback)
			buffer = append(buffer, fallback...)
		} else {
			buffer = append(buffer, 0)
		}
	}
	return buffer
}

func unpackVotes(buffer []byte) ([]Vote, error) {
	count, n := util.FromVarint64(buffer)
	if 0 == n {
		return nil, fault.ErrBallotNotFound
	}
	buffer = buffer[n:]
	votes := make([]Vote, count)
	for i := uint64(0); i < count; i += 1 {
		power, n := balance.Unpack(buffer)
		if 0 == n {
			return nil, fault.ErrBallotNotFound
		}
		buffer = buffer[n:]
		if 0 == len(buffer) {
			return nil, fault.ErrBallotNotFound
		}
		votes[i].Power = power
		if 0 != buffer[0] {
			if len(buffer) < 3 {
				return nil, fault.ErrBallotNotFound
			}
			votes[i].HasFallback = true
			votes[i].Fallback = binary.BigEndian.Uint16(buffer[1:3])
			buffer = buffer[3:]
		} else {
			buffer = buffer[1:]
		}
	}
	return votes, nil
}

func voteKey(id corporateaction.ID, voter identity.Identity) []byte {
	return append(id.Pack(), voter[:]...)
}

// Attach - bind a ballot to an issuer notice
//
// only one ballot per corporate action; the record date must not
// follow the start of voting
func Attach(id corporateaction.ID, rng Range, meta Meta, rcvEnabled bool, now int64) error {
	ca, err := corporateaction.Get(id)
	if nil != err {
		return err
	}
	if corporateaction.IssuerNotice != ca.Kind {
		return fault.ErrNotIssuerNoticeKind
	}
	if rng.Start > rng.End {
		return fault.ErrInvalidRange
	}
	if now > rng.End {
		return fault.ErrBallotEnded
	}
	err = corporateaction.EnsureRecordDateBeforeStart(id, rng.Start)
	if nil != err {
		return err
	}
	err = checkMeta(meta)
	if nil != err {
		return err
	}

	key := id.Pack()
	if nil != storage.Pool.BallotRanges.Get(key) {
		return fault.ErrBallotAlreadyAttached
	}

	storage.Pool.BallotRanges.Put(key, rng.pack())
	storage.Pool.BallotMetas.Put(key, meta.pack())
	storage.Pool.BallotChoiceCounts.Put(key, packCounts(choiceCounts(meta)))
	if rcvEnabled {
		storage.Pool.BallotRCV.Put(key, []byte{1})
	}
	return nil
}

// RangeOf - the voting window
func RangeOf(id corporateaction.ID) (Range, error) {
	value := storage.Pool.BallotRanges.Get(id.Pack())
	if nil == value {
		return Range{}, fault.ErrBallotNotFound
	}
	return unpackRange(value)
}

// MetaOf - title and motions
func MetaOf(id corporateaction.ID) (Meta, error) {
	value := storage.Pool.BallotMetas.Get(id.Pack())
	if nil == value {
		return Meta{}, fault.ErrBallotNotFound
	}
	return unpackMeta(value)
}

// ChoiceCounts - choices per motion, cached at attach time
func ChoiceCounts(id corporateaction.ID) ([]int, error) {
	value := storage.Pool.BallotChoiceCounts.Get(id.Pack())
	if nil == value {
		return nil, fault.ErrBallotNotFound
	}
	return unpackCounts(value)
}

// RcvEnabled - whether fallback votes are accepted
func RcvEnabled(id corporateaction.ID) bool {
	return nil != storage.Pool.BallotRCV.Get(id.Pack())
}

// Results - accumulated power per choice, all motions concatenated
func Results(id corporateaction.ID) ([]balance.Amount, error) {
	counts, err := ChoiceCounts(id)
	if nil != err {
		return nil, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	results := make([]balance.Amount, total)

	value := storage.Pool.BallotResults.Get(id.Pack())
	if nil == value {
		return results, nil
	}
	for i := 0; i < total; i += 1 {
		amount, n := balance.Unpack(value)
		if 0 == n {
			return nil, fault.ErrBallotNotFound
		}
		value = value[n:]
		results[i] = amount
	}
	return results, nil
}

func packResults(results []balance.Amount) []byte {
	buffer := make([]byte, 0, 16*len(results))
	for _, amount := range results {
		buffer = append(buffer, amount.Pack()...)
	}
	return buffer
}

// VotesOf - a voter's current ballot, nil when they have not voted
func VotesOf(id corporateaction.ID, voter identity.Identity) ([]Vote, error) {
	value := storage.Pool.BallotVotes.Get(voteKey(id, voter))
	if nil == value {
		return nil, nil
	}
	return unpackVotes(value)
}

// Cast - submit or replace a voter's ballot
//
// one vote slot per choice across all motions; per motion the power
// must fit inside the voter's record date balance
func Cast(id corporateaction.ID, voter identity.Identity, votes []Vote, now int64) error {
	rng, err := RangeOf(id)
	if nil != err {
		return err
	}
	if now < rng.Start {
		return fault.ErrBallotNotStarted
	}
	if now > rng.End {
		return fault.ErrBallotEnded
	}
	err = corporateaction.EnsureTargeted(id, voter)
	if nil != err {
		return err
	}

	counts, err := ChoiceCounts(id)
	if nil != err {
		return err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	if len(votes) != total {
		return fault.ErrBallotVoteCountMismatch
	}

	rcv := RcvEnabled(id)
	available, err := corporateaction.BalanceAtRecord(id, voter, now)
	if nil != err {
		return err
	}

	offset := 0
	for _, n := range counts {
		power := balance.Zero
		for i := 0; i < n; i += 1 {
			v := votes[offset+i]
			if v.HasFallback {
				if !rcv {
					return fault.ErrRcvFallbackForbidden
				}
				if int(v.Fallback) >= n {
					return fault.ErrRcvFallbackOutOfRange
				}
				if int(v.Fallback) == i {
					return fault.ErrRcvSelfCycle
				}
			}
			power, err = power.Add(v.Power)
			if nil != err {
				return err
			}
		}
		if power.Cmp(available) > 0 {
			return fault.ErrInsufficientVotes
		}
		offset += n
	}

	results, err := Results(id)
	if nil != err {
		return err
	}
	previous, err := VotesOf(id, voter)
	if nil != err {
		return err
	}
	for i, v := range previous {
		results[i], err = results[i].Sub(v.Power)
		if nil != err {
			return err
		}
	}
	for i, v := range votes {
		results[i], err = results[i].Add(v.Power)
		if nil != err {
			return err
		}
	}

	storage.Pool.BallotResults.Put(id.Pack(), packResults(results))
	storage.Pool.BallotVotes.Put(voteKey(id, voter), packVotes(votes))
	return nil
}

// mutation is only allowed before voting opens
func ensureNotStarted(id corporateaction.ID, now int64) (Range, error) {
	rng, err := RangeOf(id)
	if nil != err {
		return Range{}, err
	}
	if now >= rng.Start {
		return Range{}, fault.ErrBallotAlreadyStarted
	}
	return rng, nil
}

// ChangeEnd - move the close of voting
func ChangeEnd(id corporateaction.ID, end int64, now int64) error {
	rng, err := ensureNotStarted(id, now)
	if nil != err {
		return err
	}
	if end < rng.Start {
		return fault.ErrInvalidRange
	}
	rng.End = end
	storage.Pool.BallotRanges.Put(id.Pack(), rng.pack())
	return nil
}

// ChangeMeta - replace title and motions, recomputing choice counts
func ChangeMeta(id corporateaction.ID, meta Meta, now int64) error {
	_, err := ensureNotStarted(id, now)
	if nil != err {
		return err
	}
	err = checkMeta(meta)
	if nil != err {
		return err
	}
	storage.Pool.BallotMetas.Put(id.Pack(), meta.pack())
	storage.Pool.BallotChoiceCounts.Put(id.Pack(), packCounts(choiceCounts(meta)))
	return nil
}

// ChangeRcv - toggle ranked choice fallback
func ChangeRcv(id corporateaction.ID, enabled bool, now int64) error {
	_, err := ensureNotStarted(id, now)
	if nil != err {
		return err
	}
	if enabled {
		storage.Pool.BallotRCV.Put(id.Pack(), []byte{1})
	} else {
		storage.Pool.BallotRCV.Delete(id.Pack())
	}
	return nil
}

// Remove - detach an unstarted ballot
//
// no votes can exist yet, voting has not opened
func Remove(id corporateaction.ID, now int64) error {
	_, err := ensureNotStarted(id, now)
	if nil != err {
		return err
	}
	key := id.Pack()
	storage.Pool.BallotRanges.Delete(key)
	storage.Pool.BallotMetas.Delete(key)
	storage.Pool.BallotChoiceCounts.Delete(key)
	storage.Pool.BallotRCV.Delete(key)
	storage.Pool.BallotResults.Delete(key)
	return nil
}
