// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/danielhkuo/boardroom/dates"
	"github.com/danielhkuo/boardroom/models"
)

var (
	ErrMeetingNotFound  = errors.New("meeting not found")
	ErrDecisionNotFound = errors.New("decision not found")
	ErrMemberNotFound   = errors.New("board member not found")
	ErrTenderNotFound   = errors.New("tender not found")
	ErrVotingClosed     = errors.New("voting is closed for this decision")
	ErrMissingFields    = errors.New("please fill all required fields")
	ErrInvalidInput     = errors.New("invalid input")
	ErrDuplicateID      = errors.New("duplicate id")
)

// Rejection reasons for store-level vote failures
const (
	ReasonDecisionNotFound = "decision-not-found"
	ReasonVotingClosed     = "voting-closed"
)

// Board is the single source of truth for members, meetings and the
// decisions voted on in them. Every read returns a deep copy; every write
// goes through the ledger and replaces the stored decision.
type Board interface {
	Members(ctx context.Context) ([]models.BoardMember, error)
	Member(ctx context.Context, id string) (models.BoardMember, error)

	Meetings(ctx context.Context) ([]models.Meeting, error)
	Meeting(ctx context.Context, id string) (models.Meeting, error)
	CreateMeeting(ctx context.Context, meeting models.Meeting) (models.Meeting, error)

	Decision(ctx context.Context, id string) (models.MeetingDecision, error)
	Decisions(ctx context.Context) ([]models.MeetingDecision, error)

	ApplyVote(ctx context.Context, decisionID, memberID string, choice models.Choice) (models.Decision, error)
	SetOutcome(ctx context.Context, decisionID string, outcome models.Outcome) (models.Decision, error)
	SetVotingStatus(ctx context.Context, decisionID, status string) (models.Decision, error)
}

// Options controls write policy shared by Board implementations.
type Options struct {
	// AllowClosedVoting lets members change votes after a tally is closed.
	AllowClosedVoting bool
	Logger            *slog.Logger
}

// ResolveLogger guarantees a non-nil logger.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// ValidateMeeting checks the fields a new meeting must carry. It is shared
// by every Board implementation so they reject the same input.
func ValidateMeeting(m models.Meeting) error {
	if strings.TrimSpace(m.Title) == "" || strings.TrimSpace(m.Date) == "" || strings.TrimSpace(m.Time) == "" {
		return ErrMissingFields
	}
	if !dates.Valid(m.Date) {
		return fmt.Errorf("%w: date must be yyyy-MM-dd", ErrInvalidInput)
	}
	switch m.Status {
	case models.MeetingConfirmed, models.MeetingTentative, models.MeetingCanceled:
	default:
		return fmt.Errorf("%w: status must be confirmed, tentative, or canceled", ErrInvalidInput)
	}
	for _, d := range m.Decisions {
		if strings.TrimSpace(d.Title) == "" {
			return fmt.Errorf("%w: voting item title is required", ErrInvalidInput)
		}
		if !ValidCategory(d.Category) {
			return fmt.Errorf("%w: category must be strategic, operational, or governance", ErrInvalidInput)
		}
	}
	return nil
}

// ValidCategory reports whether c is a known decision category.
func ValidCategory(c string) bool {
	switch c {
	case models.CategoryStrategic, models.CategoryOperational, models.CategoryGovernance:
		return true
	}
	return false
}

// ValidVotingStatus reports whether s is open or closed.
func ValidVotingStatus(s string) bool {
	return s == models.VotingOpen || s == models.VotingClosed
}
