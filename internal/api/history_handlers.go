/*-------------------------------------------------------------------------
 *
 * history_handlers.go
 *    History log endpoints
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/api/history_handlers.go
 *
 *-------------------------------------------------------------------------
 */

package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
)

func (h *Handlers) ListHistoryLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := paginationParams(r)
	ctx := r.Context()
	query := r.URL.Query()

	var logs []db.HistoryLog
	var err error
	switch {
	case query.Get("entity") != "" && query.Get("entity_id") != "":
		id, parseErr := parseQueryID(query.Get("entity_id"))
		if parseErr != nil {
			respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid entity id")
			return
		}
		logs, err = h.audit.ListByEntity(ctx, query.Get("entity"), id)
	case query.Get("requested_by") != "":
		id, parseErr := parseQueryID(query.Get("requested_by"))
		if parseErr != nil {
			respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid requester id")
			return
		}
		logs, err = h.audit.ListByRequester(ctx, id)
	case query.Get("approved_by") != "":
		id, parseErr := parseQueryID(query.Get("approved_by"))
		if parseErr != nil {
			respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid approver id")
			return
		}
		logs, err = h.audit.ListByApprover(ctx, id)
	default:
		logs, err = h.audit.List(ctx, limit)
	}
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, logs)
}

func (h *Handlers) GetHistoryLog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid history log id")
		return
	}

	entry, err := h.audit.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, r, http.StatusNotFound, "not_found", "history log not found")
			return
		}
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}
