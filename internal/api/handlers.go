/*-------------------------------------------------------------------------
 *
 * handlers.go
 *    HTTP handler set and authentication endpoints
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/api/handlers.go
 *
 *-------------------------------------------------------------------------
 */

package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/approval"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/audit"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/auth"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/entities"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/metrics"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/validation"
)

/* resourceEntities maps URL resource names to entity type names */
var resourceEntities = map[string]string{
	"users":       "user",
	"departments": "department",
	"items":       "item",
	"locations":   "location",
	"warehouses":  "warehouse",
	"projects":    "project",
	"stocks":      "stock",
}

type Handlers struct {
	queries    *db.Queries
	evaluator  *auth.Evaluator
	grantCache *auth.GrantCache
	tokens     *auth.TokenManager
	workflow   *approval.Workflow
	service    *entities.Service
	audit      *audit.Logger
}

func NewHandlers(queries *db.Queries, evaluator *auth.Evaluator, grantCache *auth.GrantCache,
	tokens *auth.TokenManager, workflow *approval.Workflow, service *entities.Service,
	auditLogger *audit.Logger) *Handlers {
	return &Handlers{
		queries:    queries,
		evaluator:  evaluator,
		grantCache: grantCache,
		tokens:     tokens,
		workflow:   workflow,
		service:    service,
		audit:      auditLogger,
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

func decodeBody(r *http.Request, dest interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dest)
}

func parseQueryID(value string) (int64, error) {
	return strconv.ParseInt(value, 10, 64)
}

func paginationParams(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return validation.ValidatePagination(limit, offset)
}

/* Login issues a token for valid credentials */
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if err := validation.ValidateRequired("username", req.Username); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	user, err := h.queries.GetUserByUsername(r.Context(), req.Username)
	if err != nil || !user.IsActive || !auth.CheckPassword(user.HashedPassword, req.Password) {
		metrics.WarnWithContext(r.Context(), "Login rejected", map[string]interface{}{
			"username": req.Username,
		})
		respondError(w, r, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Username, user.Role)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": token,
		"token_type":   "bearer",
		"user_id":      user.ID,
		"role":         user.Role,
	})
}

/* Health reports liveness plus database reachability */
func (h *Handlers) Health(db *db.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK
		if err := db.HealthCheck(r.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		respondJSON(w, code, map[string]string{"status": status})
	}
}
