// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the boardroom API.

# Handler Types

Each handler is a struct holding the stores it reads and writes:

  - MeetingHandler: Meetings, calendar and meeting creation
  - DecisionHandler: Voting dashboard, votes, outcomes and tally status
  - MemberHandler: Board members and voter rankings
  - ComplianceHandler: Governance portal submissions
  - TenderHandler: Tender listings and the viewed flag
  - DocumentHandler: Meeting and other documents by meeting or month

Handlers are created via constructor functions:

	decisionHandler := handlers.NewDecisionHandler(board, resolver)
	meetingHandler := handlers.NewMeetingHandler(board, catalog, time.Now)

The Clock argument pins "today" for relative dates; nil means time.Now.

# Voting

Votes are cast by the acting member, resolved from the session:

	POST /decisions/{id}/votes   → SubmitVote
	PUT  /decisions/{id}/outcome → SetOutcome
	PUT  /decisions/{id}/status  → SetVotingStatus

Rejected votes leave the decision unchanged and answer with a reason:

	decision-not-found  404
	member-not-found    403
	voting-closed       409
	tally-missing       409
	invalid-choice      400

The outcome label is authored separately and never derived from the tally.
*/
package handlers
