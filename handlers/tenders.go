// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/boardroom/dates"
	"github.com/danielhkuo/boardroom/middleware"
	"github.com/danielhkuo/boardroom/models"
	"github.com/danielhkuo/boardroom/store"
)

type TenderHandler struct {
	catalog *store.Catalog
	now     Clock
}

func NewTenderHandler(catalog *store.Catalog, now Clock) *TenderHandler {
	if now == nil {
		now = time.Now
	}
	return &TenderHandler{catalog: catalog, now: now}
}

// ListTenders handles GET /tenders?status=&q=
func (h *TenderHandler) ListTenders(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	q := r.URL.Query().Get("q")
	now := h.now()

	resp := models.TendersResponse{Tenders: []models.TenderView{}}
	for _, t := range h.catalog.Tenders() {
		if t.IsNew && !t.IsViewed {
			resp.NewCount++
		}
		if matchesStatus(status, t.Status) && matchesQuery(q, t.Title, t.Description) {
			resp.Tenders = append(resp.Tenders, tenderView(t, now))
		}
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// MarkViewed handles POST /tenders/{id}/viewed
func (h *TenderHandler) MarkViewed(w http.ResponseWriter, r *http.Request) {
	tenderID := strings.TrimSpace(r.PathValue("id"))
	if tenderID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "tender id is required")
		return
	}

	tender, err := h.catalog.MarkTenderViewed(tenderID)
	if err != nil {
		writeError(w, err, "mark tender viewed")
		return
	}

	slog.Info("tender viewed", "tender_id", tenderID)
	middleware.JSONResponse(w, http.StatusOK, tenderView(tender, h.now()))
}

// tenderView adds display dates. Tenders that no longer accept bids get no
// days-left label.
func tenderView(t models.Tender, now time.Time) models.TenderView {
	view := models.TenderView{
		Tender:      t,
		ClosesIn:    dates.Relative(t.ClosingDate, now),
		ClosesOn:    dates.Label(t.ClosingDate),
		PublishedOn: dates.Label(t.PublishDate),
	}
	switch t.Status {
	case models.TenderOpen, models.TenderClosingSoon:
		view.DaysLeft = dates.DaysLeft(t.ClosingDate, now)
	}
	return view
}
