/*-------------------------------------------------------------------------
 *
 * approval_handlers.go
 *    Pending approval endpoints
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/api/approval_handlers.go
 *
 *-------------------------------------------------------------------------
 */

package api

import (
	"net/http"
)

func (h *Handlers) ListPendingApprovals(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)

	approvals, total, err := h.workflow.List(r.Context(), limit, offset)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"pending_approvals": approvals,
		"total":             total,
	})
}

func (h *Handlers) GetPendingApproval(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid pending approval id")
		return
	}

	pending, err := h.workflow.Get(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, pending)
}

/* ResolvePendingApproval handles both decisions; approve is set per route */
func (h *Handlers) ResolvePendingApproval(approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid pending approval id")
			return
		}
		claims := ClaimsFromContext(r.Context())

		result, err := h.workflow.Resolve(r.Context(), claims.UserID, id, approve)
		if err != nil {
			respondDomainError(w, r, err)
			return
		}

		body := map[string]interface{}{"status": result.Status}
		if result.EntityID != nil {
			body["entity_id"] = *result.EntityID
		}
		respondJSON(w, http.StatusOK, body)
	}
}
