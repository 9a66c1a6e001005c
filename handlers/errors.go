// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/boardroom/ledger"
	"github.com/danielhkuo/boardroom/middleware"
	"github.com/danielhkuo/boardroom/models"
	"github.com/danielhkuo/boardroom/store"
)

// Clock returns the current time. Handlers that render relative dates take
// one so tests can pin "today".
type Clock func() time.Time

// rejection maps a store or ledger error to its HTTP status and reason.
// Unknown errors map to 500 with no reason.
func rejection(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrDecisionNotFound):
		return http.StatusNotFound, store.ReasonDecisionNotFound
	case errors.Is(err, store.ErrVotingClosed):
		return http.StatusConflict, store.ReasonVotingClosed
	case errors.Is(err, ledger.ErrMemberNotFound):
		return http.StatusForbidden, ledger.ReasonMemberNotFound
	case errors.Is(err, ledger.ErrTallyMissing):
		return http.StatusConflict, ledger.ReasonTallyMissing
	case errors.Is(err, ledger.ErrInvalidChoice):
		return http.StatusBadRequest, ledger.ReasonInvalidChoice
	case errors.Is(err, store.ErrMissingFields), errors.Is(err, store.ErrInvalidInput):
		return http.StatusBadRequest, ""
	case errors.Is(err, store.ErrMeetingNotFound),
		errors.Is(err, store.ErrMemberNotFound),
		errors.Is(err, store.ErrTenderNotFound):
		return http.StatusNotFound, ""
	case errors.Is(err, store.ErrDuplicateID):
		return http.StatusConflict, ""
	}
	return http.StatusInternalServerError, ""
}

// writeError renders err with the status and reason from rejection.
// Server errors are logged and their detail hidden from the client.
func writeError(w http.ResponseWriter, err error, action string) {
	code, reason := rejection(err)
	if code == http.StatusInternalServerError {
		slog.Error("failed to "+action, "error", err)
		middleware.ErrorResponse(w, code, "Failed to "+action)
		return
	}
	middleware.RejectResponse(w, code, reason, message(err))
}

func message(err error) string {
	if errors.Is(err, store.ErrMissingFields) {
		return "Please fill all required fields"
	}
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// matchesQuery reports whether any field contains q, ignoring case.
// An empty query matches everything.
func matchesQuery(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// matchesStatus reports whether status passes the filter. Empty and
// FilterAll match everything.
func matchesStatus(filter, status string) bool {
	filter = strings.TrimSpace(filter)
	return filter == "" || filter == models.FilterAll || filter == status
}
