// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/danielhkuo/boardroom/dates"
	"github.com/danielhkuo/boardroom/ledger"
	"github.com/danielhkuo/boardroom/middleware"
	"github.com/danielhkuo/boardroom/models"
	"github.com/danielhkuo/boardroom/store"
)

// monthLayout is the calendar query format (yyyy-MM).
const monthLayout = "2006-01"

var blankLines = regexp.MustCompile(`\n\s*\n`)

type MeetingHandler struct {
	board   store.Board
	catalog *store.Catalog
	now     Clock
}

func NewMeetingHandler(board store.Board, catalog *store.Catalog, now Clock) *MeetingHandler {
	if now == nil {
		now = time.Now
	}
	return &MeetingHandler{board: board, catalog: catalog, now: now}
}

// ListMeetings handles GET /meetings
func (h *MeetingHandler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	meetings, err := h.board.Meetings(r.Context())
	if err != nil {
		writeError(w, err, "load meetings")
		return
	}
	sortByDate(meetings)
	middleware.JSONResponse(w, http.StatusOK, summarize(meetings))
}

// UpcomingMeetings handles GET /meetings/upcoming
// Meetings dated today or later; unparseable dates are left out.
func (h *MeetingHandler) UpcomingMeetings(w http.ResponseWriter, r *http.Request) {
	meetings, err := h.board.Meetings(r.Context())
	if err != nil {
		writeError(w, err, "load meetings")
		return
	}

	now := h.now()
	upcoming := slices.DeleteFunc(meetings, func(m models.Meeting) bool {
		return !dates.OnOrAfter(m.Date, now)
	})
	sortByDate(upcoming)
	middleware.JSONResponse(w, http.StatusOK, summarize(upcoming))
}

// GetMeeting handles GET /meetings/{id}
func (h *MeetingHandler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	meetingID := strings.TrimSpace(r.PathValue("id"))
	if meetingID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "meeting id is required")
		return
	}

	meeting, err := h.board.Meeting(r.Context(), meetingID)
	if err != nil {
		writeError(w, err, "load meeting")
		return
	}

	documents := h.catalog.Documents(meeting.ID)
	middleware.JSONResponse(w, http.StatusOK, models.MeetingDetailResponse{
		Meeting:           meeting,
		Stats:             ledger.Stats(meeting.Decisions),
		Outcomes:          ledger.Outcomes(meeting.Decisions),
		AgendaShares:      agendaShares(meeting.Agenda),
		Paragraphs:        paragraphs(meeting.Summary),
		Documents:         documents,
		DecisionDocuments: decisionDocuments(meeting.Decisions, documents),
		DateLabel:         dates.Label(meeting.Date),
	})
}

// CreateMeeting handles POST /meetings
// Voting items become decisions with a fresh open tally; documents are
// linked to the new meeting.
func (h *MeetingHandler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMeetingRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if strings.TrimSpace(req.StartTime) == "" || strings.TrimSpace(req.EndTime) == "" {
		writeError(w, store.ErrMissingFields, "create meeting")
		return
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = models.MeetingConfirmed
	}

	meeting := models.Meeting{
		Title:    strings.TrimSpace(req.Title),
		Date:     strings.TrimSpace(req.Date),
		Time:     strings.TrimSpace(req.StartTime) + " - " + strings.TrimSpace(req.EndTime),
		Location: strings.TrimSpace(req.Location),
		Status:   status,
		Summary:  req.Summary,
		Agenda:   req.Agenda,
	}
	for _, item := range req.VotingItems {
		meeting.Decisions = append(meeting.Decisions, models.Decision{
			Title:    strings.TrimSpace(item.Title),
			Category: item.Category,
			Notes:    item.Notes,
		})
	}

	created, err := h.board.CreateMeeting(r.Context(), meeting)
	if err != nil {
		writeError(w, err, "create meeting")
		return
	}

	today := dates.Offset(h.now(), 0)
	docs := make([]models.Document, 0, len(req.Documents))
	for _, d := range req.Documents {
		if strings.TrimSpace(d.Title) == "" {
			continue
		}
		docs = append(docs, models.Document{
			Title:       strings.TrimSpace(d.Title),
			Type:        d.Type,
			Date:        today,
			Sensitive:   d.Sensitive,
			Watermarked: d.Watermarked,
		})
	}
	linked := h.catalog.AddDocuments(created.ID, docs)

	slog.Info("meeting created",
		"meeting_id", created.ID,
		"decisions", len(created.Decisions),
		"documents", len(linked))

	middleware.JSONResponse(w, http.StatusCreated, models.CreateMeetingResponse{
		Meeting:   created,
		Documents: linked,
	})
}

// Calendar handles GET /calendar?month=yyyy-MM
// Days without meetings are omitted. The month defaults to the current one.
func (h *MeetingHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		month = now.Format(monthLayout)
	}
	if _, err := time.Parse(monthLayout, month); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "month must be yyyy-MM")
		return
	}

	meetings, err := h.board.Meetings(r.Context())
	if err != nil {
		writeError(w, err, "load meetings")
		return
	}
	sortByDate(meetings)

	days := []models.CalendarDay{}
	for _, m := range meetings {
		if !dates.Valid(m.Date) || !strings.HasPrefix(m.Date, month+"-") {
			continue
		}
		summary := summarizeOne(m)
		if n := len(days); n > 0 && days[n-1].Date == m.Date {
			days[n-1].Meetings = append(days[n-1].Meetings, summary)
			continue
		}
		days = append(days, models.CalendarDay{Date: m.Date, Meetings: []models.MeetingSummary{summary}})
	}

	middleware.JSONResponse(w, http.StatusOK, models.CalendarResponse{Month: month, Days: days})
}

// sortByDate orders meetings chronologically. Unparseable dates sort last
// in their original order.
func sortByDate(meetings []models.Meeting) {
	slices.SortStableFunc(meetings, func(a, b models.Meeting) int {
		aValid, bValid := dates.Valid(a.Date), dates.Valid(b.Date)
		switch {
		case aValid && !bValid:
			return -1
		case !aValid && bValid:
			return 1
		case !aValid && !bValid:
			return 0
		}
		return strings.Compare(a.Date, b.Date)
	})
}

func summarize(meetings []models.Meeting) []models.MeetingSummary {
	out := make([]models.MeetingSummary, len(meetings))
	for i, m := range meetings {
		out[i] = summarizeOne(m)
	}
	return out
}

func summarizeOne(m models.Meeting) models.MeetingSummary {
	confirmed := 0
	for _, a := range m.Attendees {
		if a.Confirmed {
			confirmed++
		}
	}
	return models.MeetingSummary{
		Meeting:            m,
		DateLabel:          dates.Label(m.Date),
		ConfirmedAttendees: confirmed,
		TotalAttendees:     len(m.Attendees),
	}
}

func agendaShares(a models.Agenda) models.AgendaShares {
	total := len(a.Strategic) + len(a.Operational) + len(a.Governance)
	return models.AgendaShares{
		Strategic:   ledger.Percentage(len(a.Strategic), total),
		Operational: ledger.Percentage(len(a.Operational), total),
		Governance:  ledger.Percentage(len(a.Governance), total),
	}
}

// decisionDocuments matches documents to decisions when either title
// contains the other, ignoring case.
func decisionDocuments(decisions []models.Decision, documents []models.Document) map[string][]models.Document {
	out := make(map[string][]models.Document, len(decisions))
	for _, d := range decisions {
		matched := []models.Document{}
		title := strings.ToLower(strings.TrimSpace(d.Title))
		for _, doc := range documents {
			docTitle := strings.ToLower(strings.TrimSpace(doc.Title))
			if title == "" || docTitle == "" {
				continue
			}
			if strings.Contains(docTitle, title) || strings.Contains(title, docTitle) {
				matched = append(matched, doc)
			}
		}
		out[d.ID] = matched
	}
	return out
}

// paragraphs splits a summary on blank lines.
func paragraphs(summary string) []string {
	out := []string{}
	for _, p := range blankLines.Split(summary, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
