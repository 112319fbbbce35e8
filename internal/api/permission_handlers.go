/*-------------------------------------------------------------------------
 *
 * permission_handlers.go
 *    Permission grant endpoints
 *
 * Grants are immutable tuples; assignment and revocation are the only
 * writes. Both invalidate the target user's cached grants so the change
 * takes effect on the next authorization check.
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/api/permission_handlers.go
 *
 *-------------------------------------------------------------------------
 */

package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/metrics"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/validation"
)

var knownAccessTypes = map[string]bool{
	"read": true, "write": true, "delete": true, "create": true,
	"manage": true, "assign": true, "export": true, "approve": true,
	"revoke": true, "archive": true, "restore": true, "share": true,
	"execute": true,
}

type grantRequest struct {
	UserID     int64  `json:"user_id"`
	Entity     string `json:"entity"`
	EntityID   string `json:"entity_id"`
	AccessType string `json:"access_type"`
}

func (g *grantRequest) validate() error {
	if g.UserID == 0 {
		return errors.New("user_id is required")
	}
	if g.Entity != "*" {
		if err := validation.ValidateEntityName(g.Entity); err != nil {
			return err
		}
	}
	if err := validation.ValidateRequired("entity_id", g.EntityID); err != nil {
		return err
	}
	return validation.ValidateAccessType(g.AccessType, knownAccessTypes)
}

func (h *Handlers) AssignPermission(w http.ResponseWriter, r *http.Request) {
	var req grantRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	perm, err := h.assignGrant(r, req)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, perm)
}

/* AssignPermissionsBulk creates several grants in one transaction */
func (h *Handlers) AssignPermissionsBulk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Grants []grantRequest `json:"grants"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if len(req.Grants) == 0 {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "grants is required")
		return
	}
	for _, g := range req.Grants {
		if err := g.validate(); err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
	}

	created := make([]db.Permission, 0, len(req.Grants))
	err := h.queries.InTx(r.Context(), func(tx *db.Queries) error {
		for _, g := range req.Grants {
			perm := &db.Permission{
				UserID:     g.UserID,
				Entity:     g.Entity,
				EntityID:   g.EntityID,
				AccessType: g.AccessType,
			}
			existing, err := tx.FindPermission(r.Context(), g.UserID, g.Entity, g.EntityID, g.AccessType)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			if err := tx.CreatePermission(r.Context(), perm); err != nil {
				return err
			}
			created = append(created, *perm)
		}
		return nil
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	for _, g := range req.Grants {
		h.grantCache.Invalidate(g.UserID)
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{"created": created})
}

func (h *Handlers) assignGrant(r *http.Request, req grantRequest) (*db.Permission, error) {
	existing, err := h.queries.FindPermission(r.Context(), req.UserID, req.Entity, req.EntityID, req.AccessType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	perm := &db.Permission{
		UserID:     req.UserID,
		Entity:     req.Entity,
		EntityID:   req.EntityID,
		AccessType: req.AccessType,
	}
	if err := h.queries.CreatePermission(r.Context(), perm); err != nil {
		return nil, err
	}

	h.grantCache.Invalidate(req.UserID)
	metrics.InfoWithContext(r.Context(), "Permission granted", map[string]interface{}{
		"user_id":     req.UserID,
		"entity":      req.Entity,
		"entity_id":   req.EntityID,
		"access_type": req.AccessType,
	})
	return perm, nil
}

func (h *Handlers) RevokePermission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid permission id")
		return
	}

	perm, err := h.queries.GetPermission(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, r, http.StatusNotFound, "not_found", "permission not found")
			return
		}
		respondDomainError(w, r, err)
		return
	}

	if err := h.queries.DeletePermission(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}

	h.grantCache.Invalidate(perm.UserID)
	metrics.InfoWithContext(r.Context(), "Permission revoked", map[string]interface{}{
		"permission_id": id,
		"user_id":       perm.UserID,
	})
	respondJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

func (h *Handlers) ListUserPermissions(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid user id")
		return
	}

	perms, err := h.queries.ListPermissionsByUser(r.Context(), userID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, perms)
}

/* ListResourcePermissions answers "who can touch this resource" */
func (h *Handlers) ListResourcePermissions(w http.ResponseWriter, r *http.Request) {
	entity := r.URL.Query().Get("entity")
	entityID := r.URL.Query().Get("entity_id")
	if entity == "" {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "entity is required")
		return
	}
	if entityID == "" {
		entityID = "*"
	}

	perms, err := h.queries.ListPermissionsByResource(r.Context(), entity, entityID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, perms)
}
