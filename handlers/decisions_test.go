package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/boardroom/models"
	"github.com/danielhkuo/boardroom/session"
	"github.com/danielhkuo/boardroom/store"
	"github.com/danielhkuo/boardroom/testutil"
)

// newDecisionHandler acts as bm1 and honors X-Member-ID.
func newDecisionHandler(t *testing.T, opts store.Options) *DecisionHandler {
	t.Helper()
	board, _ := testutil.SetupBoardWithOptions(t, opts)
	return NewDecisionHandler(board, session.NewResolver("bm1", true))
}

func voteRequest(decisionID string, body any, headers map[string]string) *http.Request {
	req := testutil.MakeRequest("POST", "/decisions/"+decisionID+"/votes", body, headers)
	req.SetPathValue("id", decisionID)
	return req
}

func TestDashboard(t *testing.T) {
	handler := newDecisionHandler(t, store.Options{})

	req := testutil.MakeRequest("GET", "/decisions", nil, nil)
	w := httptest.NewRecorder()
	handler.Dashboard(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.DashboardResponse
	testutil.AssertJSON(t, w, &resp)

	assert.Len(t, resp.Decisions, 15)
	assert.Equal(t, "Q1 Strategic Review", resp.Decisions[0].MeetingTitle)
	assert.Len(t, resp.OpenVotes, 4)

	var awaiting []string
	for _, d := range resp.AwaitingMyVote {
		awaiting = append(awaiting, d.ID)
	}
	assert.Equal(t, []string{"d8", "d9"}, awaiting)

	assert.Equal(t, models.OutcomeCounts{Success: 10, Failure: 1, NeedsReview: 3, Pending: 1}, resp.Outcomes)
	assert.Equal(t, 15, resp.Stats.Total)
	assert.Equal(t, 4, resp.Stats.Open)
	assert.Equal(t, 11, resp.Stats.Closed)
}

func TestDashboard_AwaitingFollowsActingMember(t *testing.T) {
	handler := newDecisionHandler(t, store.Options{})

	req := testutil.MakeRequest("GET", "/decisions", nil, map[string]string{session.MemberHeader: "bm5"})
	w := httptest.NewRecorder()
	handler.Dashboard(w, req)

	var resp models.DashboardResponse
	testutil.AssertJSON(t, w, &resp)

	// bm5 has not voted on any open decision
	assert.Len(t, resp.AwaitingMyVote, 4)
}

func TestGetDecision(t *testing.T) {
	handler := newDecisionHandler(t, store.Options{})

	t.Run("open decision", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/decisions/d2", nil, nil)
		req.SetPathValue("id", "d2")
		w := httptest.NewRecorder()
		handler.GetDecision(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.DecisionDetailResponse
		testutil.AssertJSON(t, w, &resp)

		assert.Equal(t, "d2", resp.Decision.ID)
		assert.Equal(t, "1", resp.Decision.MeetingID)
		assert.Equal(t, models.ChoiceInFavor, resp.MyVote)
		assert.True(t, resp.VotingIsOpen)
		assert.Equal(t, models.TallyBreakdown{
			TotalVotes:        4,
			Voted:             4,
			Eligible:          5,
			InFavorPercentage: 50,
			AgainstPercentage: 25,
			AbstainPercentage: 25,
		}, resp.Breakdown)

		require.Len(t, resp.MemberVotes, 5)
		assert.Equal(t, "Abdullah Al-Qahtani", resp.MemberVotes[0].Name)
		assert.True(t, resp.MemberVotes[0].IsCurrentUser)
		assert.False(t, resp.MemberVotes[1].IsCurrentUser)
		assert.Equal(t, models.ChoiceNone, resp.MemberVotes[4].Vote)
	})

	t.Run("not found", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/decisions/d404", nil, nil)
		req.SetPathValue("id", "d404")
		w := httptest.NewRecorder()
		handler.GetDecision(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)

		var resp models.ErrorResponse
		testutil.AssertJSON(t, w, &resp)
		assert.Equal(t, store.ReasonDecisionNotFound, resp.Reason)
	})
}

func TestSubmitVote(t *testing.T) {
	tests := []struct {
		name           string
		decisionID     string
		body           any
		headers        map[string]string
		expectedStatus int
		expectedReason string
		check          func(t *testing.T, resp models.SubmitVoteResponse)
	}{
		{
			name:           "first vote",
			decisionID:     "d9",
			body:           models.SubmitVoteRequest{Vote: models.ChoiceInFavor},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, resp models.SubmitVoteResponse) {
				assert.Equal(t, 1, resp.Decision.Voting.InFavor)
				assert.Equal(t, 1, resp.Breakdown.Voted)
				assert.Equal(t, 100, resp.Breakdown.InFavorPercentage)
				assert.Equal(t, "Vote recorded", resp.Message)
			},
		},
		{
			name:           "change vote",
			decisionID:     "d2",
			body:           models.SubmitVoteRequest{Vote: models.ChoiceAgainst},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, resp models.SubmitVoteResponse) {
				tally := resp.Decision.Voting
				assert.Equal(t, 1, tally.InFavor)
				assert.Equal(t, 2, tally.Against)
				assert.Equal(t, 1, tally.Abstain)
				assert.Equal(t, models.ChoiceAgainst, tally.Votes[0].Vote)
			},
		},
		{
			name:           "same vote again",
			decisionID:     "d2",
			body:           models.SubmitVoteRequest{Vote: models.ChoiceInFavor},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, resp models.SubmitVoteResponse) {
				assert.Equal(t, 2, resp.Decision.Voting.InFavor)
			},
		},
		{
			name:           "acting member from header",
			decisionID:     "d9",
			body:           models.SubmitVoteRequest{Vote: models.ChoiceAbstain},
			headers:        map[string]string{session.MemberHeader: "bm3"},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, resp models.SubmitVoteResponse) {
				assert.Equal(t, models.ChoiceAbstain, resp.Decision.Voting.Votes[2].Vote)
				assert.Equal(t, models.ChoiceNone, resp.Decision.Voting.Votes[0].Vote)
			},
		},
		{
			name:           "closed tally",
			decisionID:     "d1",
			body:           models.SubmitVoteRequest{Vote: models.ChoiceAgainst},
			expectedStatus: http.StatusConflict,
			expectedReason: store.ReasonVotingClosed,
		},
		{
			name:           "unknown decision",
			decisionID:     "d404",
			body:           models.SubmitVoteRequest{Vote: models.ChoiceAgainst},
			expectedStatus: http.StatusNotFound,
			expectedReason: store.ReasonDecisionNotFound,
		},
		{
			name:           "member not on tally",
			decisionID:     "d2",
			body:           models.SubmitVoteRequest{Vote: models.ChoiceAgainst},
			headers:        map[string]string{session.MemberHeader: "bm7"},
			expectedStatus: http.StatusForbidden,
			expectedReason: "member-not-found",
		},
		{
			name:           "unknown choice",
			decisionID:     "d2",
			body:           map[string]string{"vote": "maybe"},
			expectedStatus: http.StatusBadRequest,
			expectedReason: "invalid-choice",
		},
		{
			name:           "null choice",
			decisionID:     "d2",
			body:           map[string]any{"vote": nil},
			expectedStatus: http.StatusBadRequest,
			expectedReason: "invalid-choice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newDecisionHandler(t, store.Options{})

			w := httptest.NewRecorder()
			handler.SubmitVote(w, voteRequest(tt.decisionID, tt.body, tt.headers))

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus != http.StatusOK {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				assert.Equal(t, tt.expectedReason, resp.Reason)
				assert.NotEmpty(t, resp.Message)
				return
			}

			var resp models.SubmitVoteResponse
			testutil.AssertJSON(t, w, &resp)
			if tt.check != nil {
				tt.check(t, resp)
			}
		})
	}
}

func TestSubmitVote_InvalidJSON(t *testing.T) {
	handler := newDecisionHandler(t, store.Options{})

	req := httptest.NewRequest("POST", "/decisions/d2/votes", strings.NewReader(`{"vote":`))
	req.SetPathValue("id", "d2")
	w := httptest.NewRecorder()
	handler.SubmitVote(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestSubmitVote_RejectionLeavesDecisionUnchanged(t *testing.T) {
	handler := newDecisionHandler(t, store.Options{})

	w := httptest.NewRecorder()
	handler.SubmitVote(w, voteRequest("d1", models.SubmitVoteRequest{Vote: models.ChoiceAgainst}, nil))
	testutil.AssertStatus(t, w, http.StatusConflict)

	req := testutil.MakeRequest("GET", "/decisions/d1", nil, nil)
	req.SetPathValue("id", "d1")
	w = httptest.NewRecorder()
	handler.GetDecision(w, req)

	var resp models.DecisionDetailResponse
	testutil.AssertJSON(t, w, &resp)
	assert.Equal(t, 5, resp.Decision.Voting.InFavor)
	assert.Equal(t, 0, resp.Decision.Voting.Against)
	assert.False(t, resp.VotingIsOpen)
}

func TestSubmitVote_RejectionLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	previous := slog.Default()
	slog.SetDefault(logger)
	t.Cleanup(func() { slog.SetDefault(previous) })

	handler := newDecisionHandler(t, store.Options{Logger: logger})

	w := httptest.NewRecorder()
	handler.SubmitVote(w, voteRequest("d2", models.SubmitVoteRequest{Vote: models.ChoiceAbstain},
		map[string]string{session.MemberHeader: "bm7"}))
	testutil.AssertStatus(t, w, http.StatusForbidden)

	assert.Equal(t, 1, strings.Count(buf.String(), "vote rejected"))
	assert.Contains(t, buf.String(), "reason=member-not-found")
}

func TestSubmitVote_AllowClosedVoting(t *testing.T) {
	handler := newDecisionHandler(t, store.Options{AllowClosedVoting: true})

	w := httptest.NewRecorder()
	handler.SubmitVote(w, voteRequest("d1", models.SubmitVoteRequest{Vote: models.ChoiceAgainst}, nil))

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SubmitVoteResponse
	testutil.AssertJSON(t, w, &resp)
	assert.Equal(t, 4, resp.Decision.Voting.InFavor)
	assert.Equal(t, 1, resp.Decision.Voting.Against)
	assert.Equal(t, models.VotingClosed, resp.Decision.Voting.Status)
}

func TestTallyMissing(t *testing.T) {
	members := testutil.SeedData(t).Members
	board, err := store.NewMemory(members, []models.Meeting{{
		ID:     "m1",
		Title:  "Planning Session",
		Date:   "2025-04-01",
		Time:   "09:00 - 10:00",
		Status: models.MeetingConfirmed,
		Decisions: []models.Decision{
			{ID: "dx", Title: "Adopt Charter", Category: models.CategoryGovernance},
		},
	}}, store.Options{})
	require.NoError(t, err)
	handler := NewDecisionHandler(board, session.NewResolver("bm1", false))

	w := httptest.NewRecorder()
	handler.SubmitVote(w, voteRequest("dx", models.SubmitVoteRequest{Vote: models.ChoiceInFavor}, nil))
	testutil.AssertStatus(t, w, http.StatusConflict)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	assert.Equal(t, "tally-missing", resp.Reason)

	req := testutil.MakeRequest("PUT", "/decisions/dx/status", models.SetVotingStatusRequest{Status: models.VotingClosed}, nil)
	req.SetPathValue("id", "dx")
	w = httptest.NewRecorder()
	handler.SetVotingStatus(w, req)
	testutil.AssertStatus(t, w, http.StatusConflict)

	req = testutil.MakeRequest("GET", "/decisions/dx", nil, nil)
	req.SetPathValue("id", "dx")
	w = httptest.NewRecorder()
	handler.GetDecision(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var detail models.DecisionDetailResponse
	testutil.AssertJSON(t, w, &detail)
	assert.False(t, detail.VotingIsOpen)
	assert.Empty(t, detail.MemberVotes)
}

func TestSetOutcome(t *testing.T) {
	tests := []struct {
		name           string
		decisionID     string
		body           any
		expectedStatus int
		expected       models.Outcome
	}{
		{"set success", "d9", models.SetOutcomeRequest{Outcome: models.OutcomeSuccess}, http.StatusOK, models.OutcomeSuccess},
		{"clear to undecided", "d1", map[string]any{"outcome": nil}, http.StatusOK, models.OutcomePending},
		{"unknown outcome", "d1", map[string]string{"outcome": "approved"}, http.StatusBadRequest, ""},
		{"unknown decision", "d404", models.SetOutcomeRequest{Outcome: models.OutcomeFailure}, http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newDecisionHandler(t, store.Options{})

			req := testutil.MakeRequest("PUT", "/decisions/"+tt.decisionID+"/outcome", tt.body, nil)
			req.SetPathValue("id", tt.decisionID)
			w := httptest.NewRecorder()
			handler.SetOutcome(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var resp models.Decision
			testutil.AssertJSON(t, w, &resp)
			assert.Equal(t, tt.expected, resp.Outcome)
		})
	}
}

func TestSetOutcome_DoesNotTouchTally(t *testing.T) {
	handler := newDecisionHandler(t, store.Options{})

	req := testutil.MakeRequest("PUT", "/decisions/d4/outcome", models.SetOutcomeRequest{Outcome: models.OutcomeSuccess}, nil)
	req.SetPathValue("id", "d4")
	w := httptest.NewRecorder()
	handler.SetOutcome(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.Decision
	testutil.AssertJSON(t, w, &resp)
	assert.Equal(t, models.OutcomeSuccess, resp.Outcome)
	assert.Equal(t, models.VotingClosed, resp.Voting.Status)
}

func TestSetVotingStatus(t *testing.T) {
	handler := newDecisionHandler(t, store.Options{})

	t.Run("close then reject votes", func(t *testing.T) {
		req := testutil.MakeRequest("PUT", "/decisions/d2/status", models.SetVotingStatusRequest{Status: models.VotingClosed}, nil)
		req.SetPathValue("id", "d2")
		w := httptest.NewRecorder()
		handler.SetVotingStatus(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.Decision
		testutil.AssertJSON(t, w, &resp)
		assert.Equal(t, models.VotingClosed, resp.Voting.Status)

		w = httptest.NewRecorder()
		handler.SubmitVote(w, voteRequest("d2", models.SubmitVoteRequest{Vote: models.ChoiceAgainst}, nil))
		testutil.AssertStatus(t, w, http.StatusConflict)
	})

	t.Run("reopen", func(t *testing.T) {
		req := testutil.MakeRequest("PUT", "/decisions/d2/status", models.SetVotingStatusRequest{Status: models.VotingOpen}, nil)
		req.SetPathValue("id", "d2")
		w := httptest.NewRecorder()
		handler.SetVotingStatus(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		w = httptest.NewRecorder()
		handler.SubmitVote(w, voteRequest("d2", models.SubmitVoteRequest{Vote: models.ChoiceAgainst}, nil))
		testutil.AssertStatus(t, w, http.StatusOK)
	})

	t.Run("unknown status", func(t *testing.T) {
		req := testutil.MakeRequest("PUT", "/decisions/d2/status", models.SetVotingStatusRequest{Status: "paused"}, nil)
		req.SetPathValue("id", "d2")
		w := httptest.NewRecorder()
		handler.SetVotingStatus(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}
