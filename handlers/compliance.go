// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/danielhkuo/boardroom/dates"
	"github.com/danielhkuo/boardroom/middleware"
	"github.com/danielhkuo/boardroom/models"
	"github.com/danielhkuo/boardroom/store"
)

// deadlineWindowDays bounds the upcoming deadlines list.
const deadlineWindowDays = 30

type ComplianceHandler struct {
	catalog *store.Catalog
	now     Clock
}

func NewComplianceHandler(catalog *store.Catalog, now Clock) *ComplianceHandler {
	if now == nil {
		now = time.Now
	}
	return &ComplianceHandler{catalog: catalog, now: now}
}

// ListCompliance handles GET /compliance?status=&q=
// Counts and deadlines are computed over every item, not just the filtered
// ones.
func (h *ComplianceHandler) ListCompliance(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	q := r.URL.Query().Get("q")

	all := h.catalog.Compliance()

	items := []models.ComplianceItem{}
	var counts models.ComplianceCounts
	for _, item := range all {
		switch item.Status {
		case models.ComplianceCompleted:
			counts.Completed++
		case models.CompliancePending:
			counts.Pending++
		case models.ComplianceOverdue:
			counts.Overdue++
		}
		if matchesStatus(status, item.Status) && matchesQuery(q, item.PortalName, item.Purpose) {
			items = append(items, item)
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.ComplianceResponse{
		Items:             items,
		Counts:            counts,
		UpcomingDeadlines: upcomingDeadlines(all, h.now()),
	})
}

// upcomingDeadlines returns unfinished items due after today and within the
// deadline window, soonest first.
func upcomingDeadlines(items []models.ComplianceItem, now time.Time) []models.ComplianceItem {
	today := dates.StartOfDay(now)
	out := []models.ComplianceItem{}
	for _, item := range items {
		if item.Status == models.ComplianceCompleted {
			continue
		}
		due, err := dates.Parse(item.NextDue, now.Location())
		if err != nil {
			continue
		}
		days := dates.DaysBetween(today, due)
		if days > 0 && days <= deadlineWindowDays {
			out = append(out, item)
		}
	}
	slices.SortStableFunc(out, func(a, b models.ComplianceItem) int {
		return strings.Compare(a.NextDue, b.NextDue)
	})
	return out
}
