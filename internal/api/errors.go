/*-------------------------------------------------------------------------
 *
 * errors.go
 *    API error types and response helpers
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/api/errors.go
 *
 *-------------------------------------------------------------------------
 */

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/approval"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/metrics"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/registry"
)

/* ErrorResponse is the JSON error envelope */
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	requestID := metrics.GetRequestIDFromContext(r.Context())
	respondJSON(w, status, ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestID,
	})
}

/* respondDomainError maps workflow and storage errors onto HTTP statuses */
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, approval.ErrNotFound), errors.Is(err, sql.ErrNoRows):
		respondError(w, r, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, approval.ErrDuplicateRequest):
		respondError(w, r, http.StatusBadRequest, "duplicate_request", err.Error())
	case errors.Is(err, approval.ErrAlreadyResolved):
		respondError(w, r, http.StatusBadRequest, "already_resolved", err.Error())
	case errors.Is(err, approval.ErrForbidden):
		respondError(w, r, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, approval.ErrUnknownAction), errors.Is(err, registry.ErrUnknownEntity):
		respondError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, approval.ErrReplayConflict):
		respondError(w, r, http.StatusConflict, "replay_conflict", err.Error())
	default:
		metrics.ErrorWithContext(r.Context(), "Request failed", err, nil)
		respondError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
