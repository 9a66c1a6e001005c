// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/boardroom/models"
	"github.com/danielhkuo/boardroom/session"
	"github.com/danielhkuo/boardroom/testutil"
)

func setupRouter(t *testing.T) *http.ServeMux {
	t.Helper()
	board, catalog := testutil.SetupBoard(t)
	return NewRouter(board, catalog, testutil.GetTestConfig())
}

func TestHealthEndpoint(t *testing.T) {
	mux := setupRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux := setupRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "boardroom API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux := setupRouter(t)

	// Test that routes respond (handler is invoked)
	// Note: Some routes return 400 or 404 for missing bodies or ids, which is valid handler behavior
	testCases := []struct {
		method string
		path   string
	}{
		// Health and root
		{"GET", "/health"},
		{"GET", "/"},

		// Members
		{"GET", "/members"},
		{"GET", "/members/rankings"},

		// Meetings
		{"GET", "/meetings"},
		{"GET", "/meetings/upcoming"},
		{"GET", "/meetings/1"},
		{"POST", "/meetings"},
		{"GET", "/calendar"},
		{"GET", "/documents"},

		// Voting
		{"GET", "/decisions"},
		{"GET", "/decisions/d1"},
		{"POST", "/decisions/d1/votes"},
		{"PUT", "/decisions/d1/outcome"},
		{"PUT", "/decisions/d1/status"},

		// Governance and tenders
		{"GET", "/compliance"},
		{"GET", "/tenders"},
		{"POST", "/tenders/NT-2025-001/viewed"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			// Route should be matched (not 405 Method Not Allowed for these specific routes)
			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestSpecificMethodRouting(t *testing.T) {
	mux := setupRouter(t)

	// Test that method-specific routes are enforced
	testCases := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"POST to health endpoint", "POST", "/health", http.StatusMethodNotAllowed},
		{"DELETE a decision", "DELETE", "/decisions/d1", http.StatusMethodNotAllowed},
		{"POST outcome", "POST", "/decisions/d1/outcome", http.StatusMethodNotAllowed},
		{"PUT a meeting", "PUT", "/meetings/1", http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected %d for %s %s, got %d", tc.expectedStatus, tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestPathParameterExtraction(t *testing.T) {
	mux := setupRouter(t)

	t.Run("upcoming is not a meeting id", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest("GET", "/meetings/upcoming", nil))

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp []models.MeetingSummary
		testutil.AssertJSON(t, w, &resp)
	})

	t.Run("decision id extraction", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest("GET", "/decisions/d3", nil))

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.DecisionDetailResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Decision.ID != "d3" {
			t.Errorf("Expected decision d3, got %s", resp.Decision.ID)
		}
	})
}

func TestVoteThroughRouter(t *testing.T) {
	mux := setupRouter(t)

	req := testutil.MakeRequest("POST", "/decisions/d9/votes", models.SubmitVoteRequest{Vote: models.ChoiceAgainst}, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SubmitVoteResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Decision.Voting.Against != 1 {
		t.Errorf("Expected 1 vote against, got %d", resp.Decision.Voting.Against)
	}
}

func TestMemberHeaderRequiresOptIn(t *testing.T) {
	testCases := []struct {
		name        string
		allowHeader bool
		expected    int
	}{
		// bm7 is not on the tally of d2
		{"header ignored by default", false, http.StatusOK},
		{"header honored when enabled", true, http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			board, catalog := testutil.SetupBoard(t)
			cfg := testutil.GetTestConfig()
			cfg.AllowMemberHeader = tc.allowHeader
			mux := NewRouter(board, catalog, cfg)

			req := testutil.MakeRequest("POST", "/decisions/d2/votes",
				models.SubmitVoteRequest{Vote: models.ChoiceAbstain},
				map[string]string{session.MemberHeader: "bm7"})
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			testutil.AssertStatus(t, w, tc.expected)
		})
	}
}
