// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateMeetingRequest: title, date, start/end time, agenda, voting items, documents
  - SubmitVoteRequest: vote ("in-favor", "against", "abstain")
  - SetOutcomeRequest: outcome (or null)
  - SetVotingStatusRequest: status ("open", "closed")

# Response Types

Types for JSON responses:

  - DashboardResponse: all decisions, open votes, awaiting the current user
  - DecisionDetailResponse: decision, breakdown, per-member votes
  - MeetingDetailResponse: meeting, voting stats, outcome counts, documents
  - CalendarResponse, RankingsResponse, ComplianceResponse, TendersResponse
  - ErrorResponse: error, message, reason

# Domain Types

  - Meeting: calendar entry with agenda, attendees and decisions
  - Decision: agenda item put to a vote, with an authored Outcome
  - VoteTally: open/closed status, counters, one MemberVote per eligible member
  - BoardMember, Document, ComplianceItem, Tender: reference data

# Nullable Enums

Choice and Outcome use their zero value for "not voted" and "undecided"
and encode it as JSON null:

	{"member_id": "bm5", "vote": null}

Clone methods return deep copies so that callers holding a value never
share slices with the store.
*/
package models
