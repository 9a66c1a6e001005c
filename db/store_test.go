package db

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/boardroom/ledger"
	"github.com/danielhkuo/boardroom/models"
	"github.com/danielhkuo/boardroom/seed"
	"github.com/danielhkuo/boardroom/store"
)

var now = time.Date(2025, 3, 28, 15, 30, 0, 0, time.UTC)

func setupStore(t *testing.T, opts store.Options) *Store {
	t.Helper()

	conn, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, CreateSchema(conn))

	data, err := seed.Load("", now)
	require.NoError(t, err)

	s := NewStore(conn, opts)
	require.NoError(t, s.Import(context.Background(), data.Members, data.Meetings))
	return s
}

func TestCreateSchemaIsIdempotent(t *testing.T) {
	conn, err := Open(":memory:")
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, CreateSchema(conn))
	require.NoError(t, CreateSchema(conn))
}

func TestStore_Empty(t *testing.T) {
	conn, err := Open(":memory:")
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, CreateSchema(conn))

	s := NewStore(conn, store.Options{})
	empty, err := s.Empty(context.Background())
	require.NoError(t, err)
	assert.True(t, empty)

	data, err := seed.Load("", now)
	require.NoError(t, err)
	require.NoError(t, s.Import(context.Background(), data.Members, data.Meetings))

	empty, err = s.Empty(context.Background())
	require.NoError(t, err)
	assert.False(t, empty)

	// A second import collides with the stored ids
	err = s.Import(context.Background(), data.Members, data.Meetings)
	assert.Error(t, err)
}

// TestStoreMatchesMemory checks that both Board implementations return the
// same values for the seeded board.
func TestStoreMatchesMemory(t *testing.T) {
	ctx := context.Background()
	data, err := seed.Load("", now)
	require.NoError(t, err)

	mem, err := store.NewMemory(data.Members, data.Meetings, store.Options{})
	require.NoError(t, err)
	sqlStore := setupStore(t, store.Options{})

	memMembers, _ := mem.Members(ctx)
	sqlMembers, err := sqlStore.Members(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(memMembers, sqlMembers); diff != "" {
		t.Errorf("members differ (-memory +sqlite):\n%s", diff)
	}

	memMeetings, _ := mem.Meetings(ctx)
	sqlMeetings, err := sqlStore.Meetings(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(memMeetings, sqlMeetings); diff != "" {
		t.Errorf("meetings differ (-memory +sqlite):\n%s", diff)
	}

	memDecisions, _ := mem.Decisions(ctx)
	sqlDecisions, err := sqlStore.Decisions(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(memDecisions, sqlDecisions); diff != "" {
		t.Errorf("decisions differ (-memory +sqlite):\n%s", diff)
	}
}

// A tally without vote entries is rejected the same way by both stores.
func TestStoreMatchesMemory_TallyWithoutVotes(t *testing.T) {
	ctx := context.Background()
	members := []models.BoardMember{{ID: "bm1", Name: "Abdullah Al-Qahtani"}}
	meetings := []models.Meeting{{
		ID:     "1",
		Title:  "Review",
		Date:   "2025-03-28",
		Status: models.MeetingConfirmed,
		Decisions: []models.Decision{
			{ID: "d1", Title: "No votes", Category: models.CategoryStrategic, Voting: &models.VoteTally{Status: models.VotingOpen}},
			{ID: "d2", Title: "Empty votes", Category: models.CategoryStrategic, Voting: &models.VoteTally{Status: models.VotingOpen, Votes: []models.MemberVote{}}},
		},
	}}

	mem, err := store.NewMemory(members, meetings, store.Options{})
	require.NoError(t, err)

	conn, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, CreateSchema(conn))
	sqlStore := NewStore(conn, store.Options{})
	require.NoError(t, sqlStore.Import(ctx, members, meetings))

	for _, id := range []string{"d1", "d2"} {
		_, memErr := mem.ApplyVote(ctx, id, "bm1", models.ChoiceInFavor)
		_, sqlErr := sqlStore.ApplyVote(ctx, id, "bm1", models.ChoiceInFavor)
		assert.ErrorIs(t, memErr, ledger.ErrTallyMissing, "memory %s", id)
		assert.ErrorIs(t, sqlErr, ledger.ErrTallyMissing, "sqlite %s", id)
	}

	memDecisions, _ := mem.Decisions(ctx)
	sqlDecisions, err := sqlStore.Decisions(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(memDecisions, sqlDecisions, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("decisions differ (-memory +sqlite):\n%s", diff)
	}
}

func TestStore_ApplyVote(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t, store.Options{})

	// d2: 2 in favor, 1 against, 1 abstain, bm5 has not voted.
	got, err := s.ApplyVote(ctx, "d2", "bm5", models.ChoiceAgainst)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Voting.InFavor)
	assert.Equal(t, 2, got.Voting.Against)
	assert.Equal(t, 1, got.Voting.Abstain)

	stored, err := s.Decision(ctx, "d2")
	require.NoError(t, err)
	if diff := cmp.Diff(got, stored.Decision); diff != "" {
		t.Errorf("stored decision differs (-returned +stored):\n%s", diff)
	}
	assert.Equal(t, "1", stored.MeetingID)
	assert.Equal(t, "Q1 Strategic Review", stored.MeetingTitle)

	// Change of mind moves the vote between counters.
	got, err = s.ApplyVote(ctx, "d2", "bm5", models.ChoiceInFavor)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Voting.InFavor)
	assert.Equal(t, 1, got.Voting.Against)
	assert.True(t, ledger.Consistent(got.Voting))
}

func TestStore_ApplyVoteRejections(t *testing.T) {
	tests := []struct {
		name       string
		decisionID string
		memberID   string
		choice     models.Choice
		wantErr    error
	}{
		{"unknown decision", "d99", "bm1", models.ChoiceInFavor, store.ErrDecisionNotFound},
		{"member not on tally", "d2", "bm9", models.ChoiceInFavor, ledger.ErrMemberNotFound},
		{"invalid choice", "d2", "bm5", models.ChoiceNone, ledger.ErrInvalidChoice},
		{"closed tally", "d1", "bm1", models.ChoiceAgainst, store.ErrVotingClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := setupStore(t, store.Options{})
			before, err := s.Decisions(ctx)
			require.NoError(t, err)

			_, err = s.ApplyVote(ctx, tt.decisionID, tt.memberID, tt.choice)
			require.ErrorIs(t, err, tt.wantErr)

			after, err := s.Decisions(ctx)
			require.NoError(t, err)
			if diff := cmp.Diff(before, after); diff != "" {
				t.Errorf("rejected vote changed the database (-before +after):\n%s", diff)
			}
		})
	}
}

func TestStore_AllowClosedVoting(t *testing.T) {
	s := setupStore(t, store.Options{AllowClosedVoting: true})

	got, err := s.ApplyVote(context.Background(), "d1", "bm1", models.ChoiceAgainst)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Voting.InFavor)
	assert.Equal(t, 1, got.Voting.Against)
}

func TestStore_SetOutcomeAndStatus(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t, store.Options{})

	got, err := s.SetOutcome(ctx, "d9", models.OutcomeFailure)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeFailure, got.Outcome)

	got, err = s.SetOutcome(ctx, "d9", models.OutcomePending)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomePending, got.Outcome)

	stored, err := s.Decision(ctx, "d9")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomePending, stored.Outcome)

	got, err = s.SetVotingStatus(ctx, "d9", models.VotingClosed)
	require.NoError(t, err)
	assert.Equal(t, models.VotingClosed, got.Voting.Status)

	_, err = s.ApplyVote(ctx, "d9", "bm1", models.ChoiceInFavor)
	require.ErrorIs(t, err, store.ErrVotingClosed)

	_, err = s.SetVotingStatus(ctx, "d9", "archived")
	require.ErrorIs(t, err, store.ErrInvalidInput)
	_, err = s.SetOutcome(ctx, "d9", models.Outcome("great"))
	require.ErrorIs(t, err, store.ErrInvalidInput)
	_, err = s.SetOutcome(ctx, "d99", models.OutcomeSuccess)
	require.ErrorIs(t, err, store.ErrDecisionNotFound)
}

func TestStore_CreateMeeting(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t, store.Options{})

	created, err := s.CreateMeeting(ctx, models.Meeting{
		Title:    "Budget Workshop",
		Date:     "2025-05-20",
		Time:     "09:00 - 10:00",
		Location: "Main Boardroom",
		Status:   models.MeetingTentative,
		Decisions: []models.Decision{
			{Title: "Adopt FY26 budget", Category: models.CategoryOperational},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Len(t, created.Decisions, 1)

	d := created.Decisions[0]
	require.NotNil(t, d.Voting)
	assert.Len(t, d.Voting.Votes, 9)
	assert.Equal(t, models.VotingOpen, d.Voting.Status)
	assert.Equal(t, models.OutcomePending, d.Outcome)

	_, err = s.ApplyVote(ctx, d.ID, "bm9", models.ChoiceAbstain)
	require.NoError(t, err)

	meetings, err := s.Meetings(ctx)
	require.NoError(t, err)
	require.Len(t, meetings, 9)
	assert.Equal(t, created.ID, meetings[8].ID)

	_, err = s.CreateMeeting(ctx, models.Meeting{Title: "No date"})
	require.ErrorIs(t, err, store.ErrMissingFields)
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t, store.Options{})

	_, err := s.Meeting(ctx, "404")
	require.ErrorIs(t, err, store.ErrMeetingNotFound)
	_, err = s.Meeting(ctx, "")
	require.ErrorIs(t, err, store.ErrMeetingNotFound)
	_, err = s.Member(ctx, "bm42")
	require.ErrorIs(t, err, store.ErrMemberNotFound)
	_, err = s.Decision(ctx, "d404")
	require.ErrorIs(t, err, store.ErrDecisionNotFound)
}

func TestStore_ConcurrentVotes(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t, store.Options{})
	members := []string{"bm1", "bm2", "bm3", "bm4", "bm5"}
	choices := []models.Choice{models.ChoiceInFavor, models.ChoiceAgainst, models.ChoiceAbstain}

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.ApplyVote(ctx, "d9", members[i%len(members)], choices[i%len(choices)])
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	d, err := s.Decision(ctx, "d9")
	require.NoError(t, err)
	assert.True(t, ledger.Consistent(d.Voting), "%+v", d.Voting)
	assert.Equal(t, len(members), d.Voting.InFavor+d.Voting.Against+d.Voting.Abstain)
}

// Reads must never see a decision row from before a vote together with
// vote rows from after it.
func TestStore_ReadsDuringVoting(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t, store.Options{})
	choices := []models.Choice{models.ChoiceInFavor, models.ChoiceAgainst, models.ChoiceAbstain}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			if _, err := s.ApplyVote(ctx, "d8", "bm5", choices[i%len(choices)]); err != nil {
				t.Errorf("ApplyVote: %v", err)
				return
			}
		}
	}()

	var torn int
	for i := 0; i < 2000; i++ {
		d, err := s.Decision(ctx, "d8")
		if err != nil {
			close(done)
			wg.Wait()
			t.Fatalf("Decision: %v", err)
		}
		if !ledger.Consistent(d.Voting) {
			torn++
		}
		if _, err := s.Decisions(ctx); err != nil {
			close(done)
			wg.Wait()
			t.Fatalf("Decisions: %v", err)
		}
	}
	close(done)
	wg.Wait()

	assert.Zero(t, torn, "reads with counters out of step with votes")
}
