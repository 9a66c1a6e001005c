// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"math"

	"github.com/danielhkuo/boardroom/models"
)

// Stats folds a collection of decisions into voting totals. Decisions
// without a tally count toward Total only.
func Stats(decisions []models.Decision) models.VotingStats {
	var stats models.VotingStats
	for _, d := range decisions {
		stats.Total++
		if d.Voting == nil {
			continue
		}
		switch d.Voting.Status {
		case models.VotingOpen:
			stats.Open++
		case models.VotingClosed:
			stats.Closed++
		}
		stats.InFavor += d.Voting.InFavor
		stats.Against += d.Voting.Against
		stats.Abstain += d.Voting.Abstain
	}
	return stats
}

// Outcomes counts decisions by their authored outcome label.
func Outcomes(decisions []models.Decision) models.OutcomeCounts {
	var counts models.OutcomeCounts
	for _, d := range decisions {
		switch d.Outcome {
		case models.OutcomeSuccess:
			counts.Success++
		case models.OutcomeFailure:
			counts.Failure++
		case models.OutcomeNeedsReview:
			counts.NeedsReview++
		case models.OutcomePending:
			counts.Pending++
		}
	}
	return counts
}

// Breakdown summarizes a single tally for display. eligible is the number of
// board members entitled to vote; percentages are of votes cast.
func Breakdown(tally *models.VoteTally, eligible int) models.TallyBreakdown {
	b := models.TallyBreakdown{Eligible: eligible}
	if tally == nil {
		return b
	}

	b.TotalVotes = tally.InFavor + tally.Against + tally.Abstain
	for _, v := range tally.Votes {
		if v.Vote != models.ChoiceNone {
			b.Voted++
		}
	}

	b.InFavorPercentage = Percentage(tally.InFavor, b.TotalVotes)
	b.AgainstPercentage = Percentage(tally.Against, b.TotalVotes)
	b.AbstainPercentage = Percentage(tally.Abstain, b.TotalVotes)
	return b
}

// Percentage rounds part/total to a whole percent, half up. A zero total gives 0.
func Percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(part)*100/float64(total) + 0.5))
}

// AwaitingVote returns the open decisions on which memberID is eligible but
// has not voted yet.
func AwaitingVote(decisions []models.MeetingDecision, memberID string) []models.MeetingDecision {
	out := []models.MeetingDecision{}
	for _, d := range decisions {
		if d.Voting == nil || d.Voting.Status != models.VotingOpen {
			continue
		}
		vote, ok := VoteOf(d.Voting, memberID)
		if ok && vote == models.ChoiceNone {
			out = append(out, d)
		}
	}
	return out
}

// OpenVotes returns the decisions whose tally is open.
func OpenVotes(decisions []models.MeetingDecision) []models.MeetingDecision {
	out := []models.MeetingDecision{}
	for _, d := range decisions {
		if d.Voting != nil && d.Voting.Status == models.VotingOpen {
			out = append(out, d)
		}
	}
	return out
}

// Plain strips the meeting annotation from a list of decisions.
func Plain(decisions []models.MeetingDecision) []models.Decision {
	out := make([]models.Decision, len(decisions))
	for i, d := range decisions {
		out[i] = d.Decision
	}
	return out
}
