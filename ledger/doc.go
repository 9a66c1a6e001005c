// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger applies board votes to decisions and derives tallies.

# Applying a Vote

ApplyVote is a pure function: it copies the decision, moves the member's
vote from the previous choice to the new one, and returns the copy.

	updated, err := ledger.ApplyVote(decision, "bm1", models.ChoiceAgainst)
	if err != nil {
		// ErrTallyMissing, ErrMemberNotFound or ErrInvalidChoice;
		// decision is unchanged
	}

The counters always equal the number of non-null votes per choice and are
never negative.

# Derived Values

Stats, Outcomes and Breakdown are folds recomputed from the decisions on
every call. Nothing is cached, so two calls over the same input always
agree. A decision's Outcome is authored, never derived from its counters.
*/
package ledger
