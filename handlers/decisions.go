// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/boardroom/ledger"
	"github.com/danielhkuo/boardroom/middleware"
	"github.com/danielhkuo/boardroom/models"
	"github.com/danielhkuo/boardroom/session"
	"github.com/danielhkuo/boardroom/store"
)

type DecisionHandler struct {
	board    store.Board
	resolver *session.Resolver
}

func NewDecisionHandler(board store.Board, resolver *session.Resolver) *DecisionHandler {
	return &DecisionHandler{board: board, resolver: resolver}
}

// Dashboard handles GET /decisions
func (h *DecisionHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	decisions, err := h.board.Decisions(r.Context())
	if err != nil {
		writeError(w, err, "load decisions")
		return
	}

	memberID := h.resolver.MemberID(r)
	plain := ledger.Plain(decisions)

	middleware.JSONResponse(w, http.StatusOK, models.DashboardResponse{
		Decisions:      decisions,
		OpenVotes:      ledger.OpenVotes(decisions),
		AwaitingMyVote: ledger.AwaitingVote(decisions, memberID),
		Outcomes:       ledger.Outcomes(plain),
		Stats:          ledger.Stats(plain),
	})
}

// GetDecision handles GET /decisions/{id}
func (h *DecisionHandler) GetDecision(w http.ResponseWriter, r *http.Request) {
	decisionID := strings.TrimSpace(r.PathValue("id"))
	if decisionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "decision id is required")
		return
	}

	decision, err := h.board.Decision(r.Context(), decisionID)
	if err != nil {
		writeError(w, err, "load decision")
		return
	}

	members, err := h.board.Members(r.Context())
	if err != nil {
		writeError(w, err, "load board members")
		return
	}
	byID := make(map[string]models.BoardMember, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}

	memberID := h.resolver.MemberID(r)
	myVote, _ := ledger.VoteOf(decision.Voting, memberID)

	resp := models.DecisionDetailResponse{
		Decision:     decision,
		MyVote:       myVote,
		MemberVotes:  []models.MemberVoteView{},
		VotingIsOpen: decision.Voting != nil && decision.Voting.Status == models.VotingOpen,
	}
	if decision.Voting != nil {
		resp.Breakdown = ledger.Breakdown(decision.Voting, len(decision.Voting.Votes))
		for _, v := range decision.Voting.Votes {
			m := byID[v.MemberID]
			resp.MemberVotes = append(resp.MemberVotes, models.MemberVoteView{
				MemberID:      v.MemberID,
				Name:          m.Name,
				Role:          m.Role,
				IsCurrentUser: v.MemberID == memberID,
				Vote:          v.Vote,
			})
		}
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// SubmitVote handles POST /decisions/{id}/votes
// The acting member comes from the session, never from the body.
func (h *DecisionHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	decisionID := strings.TrimSpace(r.PathValue("id"))
	if decisionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "decision id is required")
		return
	}

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	memberID := h.resolver.MemberID(r)
	decision, err := h.board.ApplyVote(r.Context(), decisionID, memberID, req.Vote)
	if err != nil {
		code, reason := rejection(err)
		if code == http.StatusInternalServerError {
			writeError(w, err, "record vote")
			return
		}
		slog.Info("vote rejected", "decision_id", decisionID, "member_id", memberID, "reason", reason)
		middleware.RejectResponse(w, code, reason, message(err))
		return
	}

	slog.Info("vote recorded", "decision_id", decisionID, "member_id", memberID, "vote", string(req.Vote))

	middleware.JSONResponse(w, http.StatusOK, models.SubmitVoteResponse{
		Decision:  decision,
		Breakdown: ledger.Breakdown(decision.Voting, len(decision.Voting.Votes)),
		Message:   "Vote recorded",
	})
}

// SetOutcome handles PUT /decisions/{id}/outcome
func (h *DecisionHandler) SetOutcome(w http.ResponseWriter, r *http.Request) {
	decisionID := strings.TrimSpace(r.PathValue("id"))
	if decisionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "decision id is required")
		return
	}

	var req models.SetOutcomeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	decision, err := h.board.SetOutcome(r.Context(), decisionID, req.Outcome)
	if err != nil {
		writeError(w, err, "set outcome")
		return
	}

	slog.Info("outcome set", "decision_id", decisionID, "outcome", string(req.Outcome))
	middleware.JSONResponse(w, http.StatusOK, decision)
}

// SetVotingStatus handles PUT /decisions/{id}/status
func (h *DecisionHandler) SetVotingStatus(w http.ResponseWriter, r *http.Request) {
	decisionID := strings.TrimSpace(r.PathValue("id"))
	if decisionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "decision id is required")
		return
	}

	var req models.SetVotingStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	decision, err := h.board.SetVotingStatus(r.Context(), decisionID, req.Status)
	if err != nil {
		writeError(w, err, "set voting status")
		return
	}

	slog.Info("voting status set", "decision_id", decisionID, "status", req.Status)
	middleware.JSONResponse(w, http.StatusOK, decision)
}
