// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/danielhkuo/boardroom/ledger"
	"github.com/danielhkuo/boardroom/models"
	"github.com/danielhkuo/boardroom/store"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is a store.Board backed by SQL tables. Vote writes run the ledger
// inside a transaction.
type Store struct {
	db                *sql.DB
	allowClosedVoting bool
	logger            *slog.Logger
}

var _ store.Board = (*Store)(nil)

// NewStore wraps an open connection whose schema already exists.
func NewStore(db *sql.DB, opts store.Options) *Store {
	return &Store{
		db:                db,
		allowClosedVoting: opts.AllowClosedVoting,
		logger:            store.ResolveLogger(opts.Logger),
	}
}

// Import loads seed members and meetings in one transaction.
func (s *Store) Import(ctx context.Context, members []models.BoardMember, meetings []models.Meeting) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, m := range members {
		keyAreas, err := json.Marshal(m.VotingStats.KeyAreas)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO member (id, position, name, role, email, total_votes, correct_votes, success_rate, key_areas)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, m.ID, i, m.Name, m.Role, m.Email,
			m.VotingStats.TotalVotes, m.VotingStats.CorrectVotes, m.VotingStats.SuccessRate, string(keyAreas))
		if err != nil {
			return fmt.Errorf("failed to insert member %s: %w", m.ID, err)
		}
	}

	for _, m := range meetings {
		if err := insertMeeting(ctx, tx, m); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.logger.Info("board imported", "members", len(members), "meetings", len(meetings))
	return nil
}

// Empty reports whether no board members are stored yet. A file database
// that survived a restart is not empty and must not be imported again.
func (s *Store) Empty(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM member").Scan(&n); err != nil {
		return false, fmt.Errorf("failed to count members: %w", err)
	}
	return n == 0, nil
}

func insertMeeting(ctx context.Context, q querier, m models.Meeting) error {
	var exists int
	err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM meeting WHERE id = ?", m.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check meeting: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: meeting %s", store.ErrDuplicateID, m.ID)
	}

	agenda, err := json.Marshal(m.Agenda)
	if err != nil {
		return err
	}
	attendees, err := json.Marshal(m.Attendees)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO meeting (id, position, title, date, time, location, status, summary, agenda, attendees)
		VALUES (?, (SELECT COALESCE(MAX(position) + 1, 0) FROM meeting), ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Title, m.Date, m.Time, m.Location, m.Status, m.Summary, string(agenda), string(attendees))
	if err != nil {
		return fmt.Errorf("failed to insert meeting %s: %w", m.ID, err)
	}

	for i, d := range m.Decisions {
		if err := insertDecision(ctx, q, m.ID, i, d); err != nil {
			return err
		}
	}
	return nil
}

func insertDecision(ctx context.Context, q querier, meetingID string, position int, d models.Decision) error {
	var exists int
	err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM decision WHERE id = ?", d.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check decision: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: decision %s", store.ErrDuplicateID, d.ID)
	}

	var status any
	var inFavor, against, abstain int
	if d.Voting != nil {
		status = d.Voting.Status
		inFavor, against, abstain = d.Voting.InFavor, d.Voting.Against, d.Voting.Abstain
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO decision (id, meeting_id, position, title, category, outcome, notes, tally_status, in_favor, against, abstain)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, d.ID, meetingID, position, d.Title, d.Category, nullable(string(d.Outcome)), d.Notes,
		status, inFavor, against, abstain)
	if err != nil {
		return fmt.Errorf("failed to insert decision %s: %w", d.ID, err)
	}

	if d.Voting == nil {
		return nil
	}
	for i, v := range d.Voting.Votes {
		_, err := q.ExecContext(ctx, `
			INSERT INTO member_vote (decision_id, member_id, position, vote)
			VALUES (?, ?, ?, ?)
		`, d.ID, v.MemberID, i, nullable(string(v.Vote)))
		if err != nil {
			return fmt.Errorf("failed to insert vote for %s on %s: %w", v.MemberID, d.ID, err)
		}
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// view runs fn inside a read-only transaction so a decision row and its
// vote rows come from the same committed state.
func (s *Store) view(ctx context.Context, fn func(q querier) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Members(ctx context.Context) ([]models.BoardMember, error) {
	var members []models.BoardMember
	err := s.view(ctx, func(q querier) (err error) {
		members, err = readMembers(ctx, q, "")
		return err
	})
	return members, err
}

func (s *Store) Member(ctx context.Context, id string) (models.BoardMember, error) {
	var members []models.BoardMember
	err := s.view(ctx, func(q querier) (err error) {
		members, err = readMembers(ctx, q, "WHERE id = ?", strings.TrimSpace(id))
		return err
	})
	if err != nil {
		return models.BoardMember{}, err
	}
	if len(members) == 0 {
		return models.BoardMember{}, fmt.Errorf("%w: %s", store.ErrMemberNotFound, id)
	}
	return members[0], nil
}

func readMembers(ctx context.Context, q querier, clause string, args ...any) ([]models.BoardMember, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, role, email, total_votes, correct_votes, success_rate, key_areas
		FROM member `+clause+`
		ORDER BY position
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	members := []models.BoardMember{}
	for rows.Next() {
		var m models.BoardMember
		var keyAreas string
		err := rows.Scan(&m.ID, &m.Name, &m.Role, &m.Email,
			&m.VotingStats.TotalVotes, &m.VotingStats.CorrectVotes, &m.VotingStats.SuccessRate, &keyAreas)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		if err := json.Unmarshal([]byte(keyAreas), &m.VotingStats.KeyAreas); err != nil {
			return nil, fmt.Errorf("failed to decode key areas of %s: %w", m.ID, err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Store) Meetings(ctx context.Context) ([]models.Meeting, error) {
	var meetings []models.Meeting
	err := s.view(ctx, func(q querier) (err error) {
		meetings, err = readMeetings(ctx, q, "")
		return err
	})
	return meetings, err
}

func (s *Store) Meeting(ctx context.Context, id string) (models.Meeting, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Meeting{}, fmt.Errorf("%w: empty id", store.ErrMeetingNotFound)
	}
	var meetings []models.Meeting
	err := s.view(ctx, func(q querier) (err error) {
		meetings, err = readMeetings(ctx, q, id)
		return err
	})
	if err != nil {
		return models.Meeting{}, err
	}
	if len(meetings) == 0 {
		return models.Meeting{}, fmt.Errorf("%w: %s", store.ErrMeetingNotFound, id)
	}
	return meetings[0], nil
}

// readMeetings loads every meeting, or just meetingID when it is set.
// Rows are drained before the next query; the pool has a single connection.
func readMeetings(ctx context.Context, q querier, meetingID string) ([]models.Meeting, error) {
	clause, args := "", []any(nil)
	if meetingID != "" {
		clause, args = "WHERE id = ?", []any{meetingID}
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, title, date, time, location, status, summary, agenda, attendees
		FROM meeting `+clause+`
		ORDER BY position
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query meetings: %w", err)
	}

	meetings := []models.Meeting{}
	for rows.Next() {
		var m models.Meeting
		var agenda, attendees string
		if err := rows.Scan(&m.ID, &m.Title, &m.Date, &m.Time, &m.Location, &m.Status, &m.Summary, &agenda, &attendees); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		if err := json.Unmarshal([]byte(agenda), &m.Agenda); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to decode agenda of %s: %w", m.ID, err)
		}
		if err := json.Unmarshal([]byte(attendees), &m.Attendees); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to decode attendees of %s: %w", m.ID, err)
		}
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	decisionClause := ""
	if meetingID != "" {
		decisionClause = "WHERE d.meeting_id = ?"
	}
	decisions, err := readDecisions(ctx, q, decisionClause, args...)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(meetings))
	for i, m := range meetings {
		index[m.ID] = i
	}
	for _, d := range decisions {
		i := index[d.MeetingID]
		meetings[i].Decisions = append(meetings[i].Decisions, d.Decision)
	}
	return meetings, nil
}

// readDecisions loads decisions with their tallies in meeting order.
func readDecisions(ctx context.Context, q querier, clause string, args ...any) ([]models.MeetingDecision, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT d.id, d.meeting_id, m.title, d.title, d.category, d.outcome, d.notes,
		       d.tally_status, d.in_favor, d.against, d.abstain
		FROM decision d
		JOIN meeting m ON m.id = d.meeting_id
		`+clause+`
		ORDER BY m.position, d.position
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}

	decisions := []models.MeetingDecision{}
	index := make(map[string]int)
	for rows.Next() {
		var d models.MeetingDecision
		var outcome, status sql.NullString
		var inFavor, against, abstain int
		err := rows.Scan(&d.ID, &d.MeetingID, &d.MeetingTitle, &d.Title, &d.Category, &outcome, &d.Notes,
			&status, &inFavor, &against, &abstain)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		d.Outcome = models.Outcome(outcome.String)
		if status.Valid {
			d.Voting = &models.VoteTally{
				Status:  status.String,
				InFavor: inFavor,
				Against: against,
				Abstain: abstain,
			}
		}
		index[d.ID] = len(decisions)
		decisions = append(decisions, d)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	rows, err = q.QueryContext(ctx, `
		SELECT v.decision_id, v.member_id, v.vote
		FROM member_vote v
		JOIN decision d ON d.id = v.decision_id
		JOIN meeting m ON m.id = d.meeting_id
		`+clause+`
		ORDER BY m.position, d.position, v.position
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var decisionID string
		var v models.MemberVote
		var vote sql.NullString
		if err := rows.Scan(&decisionID, &v.MemberID, &vote); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		v.Vote = models.Choice(vote.String)
		i, ok := index[decisionID]
		if !ok || decisions[i].Voting == nil {
			continue
		}
		decisions[i].Voting.Votes = append(decisions[i].Voting.Votes, v)
	}
	return decisions, rows.Err()
}

func (s *Store) CreateMeeting(ctx context.Context, meeting models.Meeting) (models.Meeting, error) {
	if err := store.ValidateMeeting(meeting); err != nil {
		return models.Meeting{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Meeting{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	members, err := readMembers(ctx, tx, "")
	if err != nil {
		return models.Meeting{}, err
	}
	memberIDs := make([]string, len(members))
	for i, m := range members {
		memberIDs[i] = m.ID
	}

	m := meeting.Clone()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	for i := range m.Decisions {
		if m.Decisions[i].ID == "" {
			m.Decisions[i].ID = uuid.NewString()
		}
		m.Decisions[i].Outcome = models.OutcomePending
		m.Decisions[i].Voting = ledger.NewTally(memberIDs)
	}

	if err := insertMeeting(ctx, tx, m); err != nil {
		return models.Meeting{}, err
	}
	created, err := readMeetings(ctx, tx, m.ID)
	if err != nil {
		return models.Meeting{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Meeting{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("meeting stored", "meeting_id", m.ID, "decisions", len(m.Decisions))
	return created[0], nil
}

func (s *Store) Decision(ctx context.Context, id string) (models.MeetingDecision, error) {
	var d models.MeetingDecision
	err := s.view(ctx, func(q querier) (err error) {
		d, err = readDecision(ctx, q, id)
		return err
	})
	return d, err
}

func readDecision(ctx context.Context, q querier, id string) (models.MeetingDecision, error) {
	decisions, err := readDecisions(ctx, q, "WHERE d.id = ?", strings.TrimSpace(id))
	if err != nil {
		return models.MeetingDecision{}, err
	}
	if len(decisions) == 0 {
		return models.MeetingDecision{}, fmt.Errorf("%w: %s", store.ErrDecisionNotFound, id)
	}
	return decisions[0], nil
}

func (s *Store) Decisions(ctx context.Context) ([]models.MeetingDecision, error) {
	var decisions []models.MeetingDecision
	err := s.view(ctx, func(q querier) (err error) {
		decisions, err = readDecisions(ctx, q, "")
		return err
	})
	return decisions, err
}

// ApplyVote reads the decision, runs the ledger and writes the new tally
// back in one transaction.
func (s *Store) ApplyVote(ctx context.Context, decisionID, memberID string, choice models.Choice) (models.Decision, error) {
	var result models.Decision
	err := s.update(ctx, decisionID, func(current models.Decision) (models.Decision, error) {
		if current.Voting != nil && current.Voting.Status == models.VotingClosed && !s.allowClosedVoting {
			result = current
			return current, store.ErrVotingClosed
		}
		updated, err := ledger.ApplyVote(current, memberID, choice)
		result = updated
		return updated, err
	})
	return result, err
}

func (s *Store) SetOutcome(ctx context.Context, decisionID string, outcome models.Outcome) (models.Decision, error) {
	if !outcome.Valid() {
		return models.Decision{}, fmt.Errorf("%w: unknown outcome %q", store.ErrInvalidInput, outcome)
	}
	var result models.Decision
	err := s.update(ctx, decisionID, func(current models.Decision) (models.Decision, error) {
		current.Outcome = outcome
		result = current
		return current, nil
	})
	return result, err
}

func (s *Store) SetVotingStatus(ctx context.Context, decisionID, status string) (models.Decision, error) {
	if !store.ValidVotingStatus(status) {
		return models.Decision{}, fmt.Errorf("%w: unknown voting status %q", store.ErrInvalidInput, status)
	}
	var result models.Decision
	err := s.update(ctx, decisionID, func(current models.Decision) (models.Decision, error) {
		result = current
		if current.Voting == nil {
			return current, ledger.ErrTallyMissing
		}
		current.Voting.Status = status
		return current, nil
	})
	return result, err
}

// update runs fn on the stored decision inside a transaction and persists
// what it returns. Nothing is written when fn fails.
func (s *Store) update(ctx context.Context, decisionID string, fn func(models.Decision) (models.Decision, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := readDecision(ctx, tx, decisionID)
	if err != nil {
		return err
	}

	updated, err := fn(current.Decision.Clone())
	if err != nil {
		return err
	}
	if err := writeDecision(ctx, tx, updated); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func writeDecision(ctx context.Context, q querier, d models.Decision) error {
	var status any
	var inFavor, against, abstain int
	if d.Voting != nil {
		status = d.Voting.Status
		inFavor, against, abstain = d.Voting.InFavor, d.Voting.Against, d.Voting.Abstain
	}

	_, err := q.ExecContext(ctx, `
		UPDATE decision
		SET outcome = ?, tally_status = ?, in_favor = ?, against = ?, abstain = ?
		WHERE id = ?
	`, nullable(string(d.Outcome)), status, inFavor, against, abstain, d.ID)
	if err != nil {
		return fmt.Errorf("failed to update decision %s: %w", d.ID, err)
	}

	if d.Voting == nil {
		return nil
	}
	for _, v := range d.Voting.Votes {
		_, err := q.ExecContext(ctx, `
			UPDATE member_vote SET vote = ? WHERE decision_id = ? AND member_id = ?
		`, nullable(string(v.Vote)), d.ID, v.MemberID)
		if err != nil {
			return fmt.Errorf("failed to update vote for %s on %s: %w", v.MemberID, d.ID, err)
		}
	}
	return nil
}
