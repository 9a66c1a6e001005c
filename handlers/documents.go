// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/boardroom/dates"
	"github.com/danielhkuo/boardroom/middleware"
	"github.com/danielhkuo/boardroom/models"
	"github.com/danielhkuo/boardroom/store"
)

type DocumentHandler struct {
	catalog *store.Catalog
}

func NewDocumentHandler(catalog *store.Catalog) *DocumentHandler {
	return &DocumentHandler{catalog: catalog}
}

// ListDocuments handles GET /documents?meeting=&month=yyyy-MM
// meeting wins over month; with neither, every document is listed.
// Documents with unparseable dates never match a month.
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	meetingID := strings.TrimSpace(r.URL.Query().Get("meeting"))
	month := strings.TrimSpace(r.URL.Query().Get("month"))

	var docs []models.Document
	switch {
	case meetingID != "":
		docs = h.catalog.Documents(meetingID)
		month = ""
	case month != "":
		if _, err := time.Parse(monthLayout, month); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "month must be yyyy-MM")
			return
		}
		for _, d := range h.catalog.AllDocuments() {
			if dates.Valid(d.Date) && strings.HasPrefix(d.Date, month+"-") {
				docs = append(docs, d)
			}
		}
	default:
		docs = h.catalog.AllDocuments()
	}

	resp := models.DocumentsResponse{
		Month:            month,
		MeetingDocuments: []models.Document{},
		OtherDocuments:   []models.Document{},
	}
	for _, d := range docs {
		if d.MeetingID != nil {
			resp.MeetingDocuments = append(resp.MeetingDocuments, d)
		} else {
			resp.OtherDocuments = append(resp.OtherDocuments, d)
		}
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}
