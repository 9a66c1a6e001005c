// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"time"

	"github.com/danielhkuo/boardroom/cliparse"
	"github.com/danielhkuo/boardroom/handlers"
	"github.com/danielhkuo/boardroom/middleware"
	"github.com/danielhkuo/boardroom/session"
	"github.com/danielhkuo/boardroom/store"
)

func NewRouter(board store.Board, catalog *store.Catalog, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	resolver := session.NewResolver(cfg.CurrentMemberID, cfg.AllowMemberHeader)

	// Initialize handlers
	memberHandler := handlers.NewMemberHandler(board, resolver)
	meetingHandler := handlers.NewMeetingHandler(board, catalog, time.Now)
	decisionHandler := handlers.NewDecisionHandler(board, resolver)
	complianceHandler := handlers.NewComplianceHandler(catalog, time.Now)
	tenderHandler := handlers.NewTenderHandler(catalog, time.Now)
	documentHandler := handlers.NewDocumentHandler(catalog)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Board members
	mux.HandleFunc("GET /members", middleware.WithLogging(memberHandler.ListMembers))
	mux.HandleFunc("GET /members/rankings", middleware.WithLogging(memberHandler.Rankings))

	// Meetings and calendar
	mux.HandleFunc("GET /meetings", middleware.WithLogging(meetingHandler.ListMeetings))
	mux.HandleFunc("GET /meetings/upcoming", middleware.WithLogging(meetingHandler.UpcomingMeetings))
	mux.HandleFunc("GET /meetings/{id}", middleware.WithLogging(meetingHandler.GetMeeting))
	mux.HandleFunc("POST /meetings", middleware.WithLogging(meetingHandler.CreateMeeting))
	mux.HandleFunc("GET /calendar", middleware.WithLogging(meetingHandler.Calendar))

	// Documents
	mux.HandleFunc("GET /documents", middleware.WithLogging(documentHandler.ListDocuments))

	// Voting
	mux.HandleFunc("GET /decisions", middleware.WithLogging(decisionHandler.Dashboard))
	mux.HandleFunc("GET /decisions/{id}", middleware.WithLogging(decisionHandler.GetDecision))
	mux.HandleFunc("POST /decisions/{id}/votes", middleware.WithLogging(decisionHandler.SubmitVote))
	mux.HandleFunc("PUT /decisions/{id}/outcome", middleware.WithLogging(decisionHandler.SetOutcome))
	mux.HandleFunc("PUT /decisions/{id}/status", middleware.WithLogging(decisionHandler.SetVotingStatus))

	// Governance
	mux.HandleFunc("GET /compliance", middleware.WithLogging(complianceHandler.ListCompliance))

	// Tenders
	mux.HandleFunc("GET /tenders", middleware.WithLogging(tenderHandler.ListTenders))
	mux.HandleFunc("POST /tenders/{id}/viewed", middleware.WithLogging(tenderHandler.MarkViewed))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("boardroom API v1"))
	})

	return mux
}
