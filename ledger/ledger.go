// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"errors"

	"github.com/danielhkuo/boardroom/models"
)

var (
	ErrTallyMissing   = errors.New("decision has no vote tally")
	ErrMemberNotFound = errors.New("member is not eligible to vote on this decision")
	ErrInvalidChoice  = errors.New("vote must be in-favor, against, or abstain")
)

// Rejection reasons reported to clients
const (
	ReasonTallyMissing   = "tally-missing"
	ReasonMemberNotFound = "member-not-found"
	ReasonInvalidChoice  = "invalid-choice"
)

// Reason maps a ledger error to its machine-readable reason.
// Returns "" for nil or unrelated errors.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrTallyMissing):
		return ReasonTallyMissing
	case errors.Is(err, ErrMemberNotFound):
		return ReasonMemberNotFound
	case errors.Is(err, ErrInvalidChoice):
		return ReasonInvalidChoice
	}
	return ""
}

// ApplyVote records memberID's choice on a copy of the decision and
// returns the copy. The input is never modified.
//
// The previous vote, if any, is taken back first (its counter is clamped
// at zero), then the new choice is counted. Resubmitting the same choice
// leaves the totals unchanged.
//
// On error the input decision is returned as-is.
func ApplyVote(decision models.Decision, memberID string, choice models.Choice) (models.Decision, error) {
	if decision.Voting == nil || len(decision.Voting.Votes) == 0 {
		return decision, ErrTallyMissing
	}

	idx := -1
	for i, v := range decision.Voting.Votes {
		if v.MemberID == memberID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return decision, ErrMemberNotFound
	}

	if !choice.Valid() {
		return decision, ErrInvalidChoice
	}

	updated := decision.Clone()
	tally := updated.Voting

	previous := tally.Votes[idx].Vote
	if previous != models.ChoiceNone {
		if counter := counterFor(tally, previous); counter != nil {
			*counter = max(0, *counter-1)
		}
	}

	tally.Votes[idx].Vote = choice
	*counterFor(tally, choice)++

	return updated, nil
}

func counterFor(tally *models.VoteTally, choice models.Choice) *int {
	switch choice {
	case models.ChoiceInFavor:
		return &tally.InFavor
	case models.ChoiceAgainst:
		return &tally.Against
	case models.ChoiceAbstain:
		return &tally.Abstain
	}
	return nil
}

// Consistent reports whether the counters agree with the per-member votes
// and none of them is negative.
func Consistent(tally *models.VoteTally) bool {
	if tally == nil {
		return true
	}
	if tally.InFavor < 0 || tally.Against < 0 || tally.Abstain < 0 {
		return false
	}
	var inFavor, against, abstain int
	for _, v := range tally.Votes {
		switch v.Vote {
		case models.ChoiceInFavor:
			inFavor++
		case models.ChoiceAgainst:
			against++
		case models.ChoiceAbstain:
			abstain++
		case models.ChoiceNone:
		default:
			return false
		}
	}
	return inFavor == tally.InFavor && against == tally.Against && abstain == tally.Abstain
}

// VoteOf returns memberID's current vote and whether the member is on the
// tally at all.
func VoteOf(tally *models.VoteTally, memberID string) (models.Choice, bool) {
	if tally == nil {
		return models.ChoiceNone, false
	}
	for _, v := range tally.Votes {
		if v.MemberID == memberID {
			return v.Vote, true
		}
	}
	return models.ChoiceNone, false
}

// NewTally returns an open tally with an unset vote for every member.
func NewTally(memberIDs []string) *models.VoteTally {
	votes := make([]models.MemberVote, len(memberIDs))
	for i, id := range memberIDs {
		votes[i] = models.MemberVote{MemberID: id}
	}
	return &models.VoteTally{
		Status: models.VotingOpen,
		Votes:  votes,
	}
}
