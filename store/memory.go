// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/danielhkuo/boardroom/ledger"
	"github.com/danielhkuo/boardroom/models"
)

type decisionRef struct {
	meeting int
	index   int
}

// Memory is a Board kept entirely in process memory.
type Memory struct {
	mu sync.RWMutex

	members     []models.BoardMember
	memberIndex map[string]int

	meetings     []models.Meeting
	meetingIndex map[string]int
	decisions    map[string]decisionRef

	allowClosedVoting bool
	newID             func() string
	logger            *slog.Logger
}

var _ Board = (*Memory)(nil)

// NewMemory builds a store from seed data. Members and meetings are copied;
// the caller keeps ownership of its slices.
func NewMemory(members []models.BoardMember, meetings []models.Meeting, opts Options) (*Memory, error) {
	s := &Memory{
		memberIndex:       make(map[string]int, len(members)),
		meetingIndex:      make(map[string]int, len(meetings)),
		decisions:         make(map[string]decisionRef),
		allowClosedVoting: opts.AllowClosedVoting,
		newID:             uuid.NewString,
		logger:            ResolveLogger(opts.Logger),
	}

	for _, m := range members {
		id := strings.TrimSpace(m.ID)
		if _, dup := s.memberIndex[id]; dup {
			return nil, fmt.Errorf("%w: member %s", ErrDuplicateID, id)
		}
		s.memberIndex[id] = len(s.members)
		s.members = append(s.members, m.Clone())
	}
	for _, m := range meetings {
		if err := s.insertMeeting(m.Clone()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Memory) insertMeeting(m models.Meeting) error {
	if _, dup := s.meetingIndex[m.ID]; dup {
		return fmt.Errorf("%w: meeting %s", ErrDuplicateID, m.ID)
	}
	for _, d := range m.Decisions {
		if _, dup := s.decisions[d.ID]; dup {
			return fmt.Errorf("%w: decision %s", ErrDuplicateID, d.ID)
		}
	}

	pos := len(s.meetings)
	s.meetingIndex[m.ID] = pos
	for i, d := range m.Decisions {
		s.decisions[d.ID] = decisionRef{meeting: pos, index: i}
	}
	s.meetings = append(s.meetings, m)
	return nil
}

func (s *Memory) Members(_ context.Context) ([]models.BoardMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.BoardMember, len(s.members))
	for i, m := range s.members {
		out[i] = m.Clone()
	}
	return out, nil
}

func (s *Memory) Member(_ context.Context, id string) (models.BoardMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.memberIndex[strings.TrimSpace(id)]
	if !ok {
		return models.BoardMember{}, fmt.Errorf("%w: %s", ErrMemberNotFound, id)
	}
	return s.members[i].Clone(), nil
}

func (s *Memory) Meetings(_ context.Context) ([]models.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Meeting, len(s.meetings))
	for i, m := range s.meetings {
		out[i] = m.Clone()
	}
	return out, nil
}

func (s *Memory) Meeting(_ context.Context, id string) (models.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.meetingIndex[strings.TrimSpace(id)]
	if !ok {
		return models.Meeting{}, fmt.Errorf("%w: %s", ErrMeetingNotFound, id)
	}
	return s.meetings[i].Clone(), nil
}

// CreateMeeting stores a new meeting. Missing ids are generated, and every
// decision gets a fresh open tally with one unset vote per board member.
func (s *Memory) CreateMeeting(_ context.Context, meeting models.Meeting) (models.Meeting, error) {
	if err := ValidateMeeting(meeting); err != nil {
		return models.Meeting{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := meeting.Clone()
	if m.ID == "" {
		m.ID = s.newID()
	}
	memberIDs := make([]string, len(s.members))
	for i, member := range s.members {
		memberIDs[i] = member.ID
	}
	for i := range m.Decisions {
		if m.Decisions[i].ID == "" {
			m.Decisions[i].ID = s.newID()
		}
		m.Decisions[i].Outcome = models.OutcomePending
		m.Decisions[i].Voting = ledger.NewTally(memberIDs)
	}

	if err := s.insertMeeting(m); err != nil {
		return models.Meeting{}, err
	}

	s.logger.Info("meeting stored", "meeting_id", m.ID, "decisions", len(m.Decisions))
	return m.Clone(), nil
}

func (s *Memory) Decision(_ context.Context, id string) (models.MeetingDecision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ref, ok := s.decisions[strings.TrimSpace(id)]
	if !ok {
		return models.MeetingDecision{}, fmt.Errorf("%w: %s", ErrDecisionNotFound, id)
	}
	return s.annotate(ref), nil
}

// Decisions lists every decision in meeting order.
func (s *Memory) Decisions(_ context.Context) ([]models.MeetingDecision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.MeetingDecision, 0, len(s.decisions))
	for mi, m := range s.meetings {
		for di := range m.Decisions {
			out = append(out, s.annotate(decisionRef{meeting: mi, index: di}))
		}
	}
	return out, nil
}

func (s *Memory) annotate(ref decisionRef) models.MeetingDecision {
	m := s.meetings[ref.meeting]
	return models.MeetingDecision{
		Decision:     m.Decisions[ref.index].Clone(),
		MeetingID:    m.ID,
		MeetingTitle: m.Title,
	}
}

// ApplyVote records a member's vote through the ledger and replaces the
// stored decision with the result.
func (s *Memory) ApplyVote(_ context.Context, decisionID, memberID string, choice models.Choice) (models.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref, ok := s.decisions[strings.TrimSpace(decisionID)]
	if !ok {
		return models.Decision{}, fmt.Errorf("%w: %s", ErrDecisionNotFound, decisionID)
	}
	current := &s.meetings[ref.meeting].Decisions[ref.index]

	if current.Voting != nil && current.Voting.Status == models.VotingClosed && !s.allowClosedVoting {
		return current.Clone(), ErrVotingClosed
	}

	updated, err := ledger.ApplyVote(*current, memberID, choice)
	if err != nil {
		return current.Clone(), err
	}

	*current = updated
	return updated.Clone(), nil
}

// SetOutcome overwrites the authored outcome. The tally is left untouched.
func (s *Memory) SetOutcome(_ context.Context, decisionID string, outcome models.Outcome) (models.Decision, error) {
	if !outcome.Valid() {
		return models.Decision{}, fmt.Errorf("%w: unknown outcome %q", ErrInvalidInput, outcome)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ref, ok := s.decisions[strings.TrimSpace(decisionID)]
	if !ok {
		return models.Decision{}, fmt.Errorf("%w: %s", ErrDecisionNotFound, decisionID)
	}
	current := &s.meetings[ref.meeting].Decisions[ref.index]
	current.Outcome = outcome
	return current.Clone(), nil
}

// SetVotingStatus opens or closes the tally of a decision.
func (s *Memory) SetVotingStatus(_ context.Context, decisionID, status string) (models.Decision, error) {
	if !ValidVotingStatus(status) {
		return models.Decision{}, fmt.Errorf("%w: unknown voting status %q", ErrInvalidInput, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ref, ok := s.decisions[strings.TrimSpace(decisionID)]
	if !ok {
		return models.Decision{}, fmt.Errorf("%w: %s", ErrDecisionNotFound, decisionID)
	}
	current := &s.meetings[ref.meeting].Decisions[ref.index]
	if current.Voting == nil {
		return current.Clone(), ledger.ErrTallyMissing
	}

	updated := current.Clone()
	updated.Voting.Status = status
	*current = updated
	return updated.Clone(), nil
}
