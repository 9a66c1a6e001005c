// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"cmp"
	"net/http"
	"slices"

	"github.com/danielhkuo/boardroom/ledger"
	"github.com/danielhkuo/boardroom/middleware"
	"github.com/danielhkuo/boardroom/models"
	"github.com/danielhkuo/boardroom/session"
	"github.com/danielhkuo/boardroom/store"
)

// topAreaCount is how many key areas the rankings report.
const topAreaCount = 5

// Success rate thresholds for the performance shares.
const (
	improvingRate = 80.0
	attentionRate = 70.0
)

type MemberHandler struct {
	board    store.Board
	resolver *session.Resolver
}

func NewMemberHandler(board store.Board, resolver *session.Resolver) *MemberHandler {
	return &MemberHandler{board: board, resolver: resolver}
}

// members loads the board and flags the member acting on r
func (h *MemberHandler) members(r *http.Request) ([]models.BoardMember, error) {
	members, err := h.board.Members(r.Context())
	if err != nil {
		return nil, err
	}
	current := h.resolver.MemberID(r)
	for i := range members {
		members[i].IsCurrentUser = members[i].ID == current
	}
	return members, nil
}

// ListMembers handles GET /members
func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.members(r)
	if err != nil {
		writeError(w, err, "load board members")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, members)
}

// Rankings handles GET /members/rankings?q=
// q filters the success-rate list by name or role. The activity list, top
// areas and performance shares always cover the whole board.
func (h *MemberHandler) Rankings(w http.ResponseWriter, r *http.Request) {
	members, err := h.members(r)
	if err != nil {
		writeError(w, err, "load board members")
		return
	}

	q := r.URL.Query().Get("q")
	filtered := []models.BoardMember{}
	for _, m := range members {
		if matchesQuery(q, m.Name, m.Role) {
			filtered = append(filtered, m)
		}
	}

	bySuccess := slices.Clone(filtered)
	slices.SortStableFunc(bySuccess, func(a, b models.BoardMember) int {
		return cmp.Compare(b.VotingStats.SuccessRate, a.VotingStats.SuccessRate)
	})

	byActivity := slices.Clone(members)
	slices.SortStableFunc(byActivity, func(a, b models.BoardMember) int {
		return cmp.Compare(b.VotingStats.TotalVotes, a.VotingStats.TotalVotes)
	})

	middleware.JSONResponse(w, http.StatusOK, models.RankingsResponse{
		BySuccessRate: bySuccess,
		ByActivity:    byActivity,
		TopAreas:      topAreas(members, topAreaCount),
		Performance:   performance(members),
	})
}

func performance(members []models.BoardMember) models.PerformanceShares {
	var improving, attention int
	for _, m := range members {
		switch {
		case m.VotingStats.SuccessRate > improvingRate:
			improving++
		case m.VotingStats.SuccessRate < attentionRate:
			attention++
		}
	}
	return models.PerformanceShares{
		Improving:      ledger.Percentage(improving, len(members)),
		NeedsAttention: ledger.Percentage(attention, len(members)),
	}
}

// topAreas counts key areas across members, most common first with ties
// broken alphabetically.
func topAreas(members []models.BoardMember, n int) []models.AreaCount {
	counts := map[string]int{}
	for _, m := range members {
		for _, area := range m.VotingStats.KeyAreas {
			counts[area]++
		}
	}

	areas := make([]models.AreaCount, 0, len(counts))
	for area, count := range counts {
		areas = append(areas, models.AreaCount{Area: area, Count: count})
	}
	slices.SortFunc(areas, func(a, b models.AreaCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Area, b.Area)
	})

	if len(areas) > n {
		areas = areas[:n]
	}
	return areas
}
