/*-------------------------------------------------------------------------
 *
 * entity_handlers.go
 *    Entity read and mutation endpoints
 *
 * Reads go straight to the query layer. Mutations never touch storage
 * here: they are submitted to the approval workflow, which either applies
 * them directly for privileged callers or queues a pending approval. The
 * response status tells the caller which happened (200/201 vs 202).
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/api/entity_handlers.go
 *
 *-------------------------------------------------------------------------
 */

package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/approval"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/auth"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/validation"
)

func entityFromRequest(r *http.Request) (string, bool) {
	entity, ok := resourceEntities[mux.Vars(r)["resource"]]
	return entity, ok
}

/* submitResponse renders a workflow submission outcome */
func submitResponse(w http.ResponseWriter, r *http.Request, result *approval.SubmitResult, createdStatus int) {
	if result.Applied {
		body := map[string]interface{}{"status": "applied"}
		if result.EntityID != nil {
			body["entity_id"] = *result.EntityID
		}
		respondJSON(w, createdStatus, body)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"status":     "pending_approval",
		"pending_id": result.Pending.ID,
	})
}

func (h *Handlers) CreateEntity(w http.ResponseWriter, r *http.Request) {
	entity, ok := entityFromRequest(r)
	if !ok {
		respondError(w, r, http.StatusNotFound, "not_found", "unknown resource")
		return
	}
	claims := ClaimsFromContext(r.Context())

	var payload db.JSONBMap
	if err := decodeBody(r, &payload); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	/* User payloads carry a cleartext password; hash it before the payload
	 * is stored or replayed. */
	if entity == "user" {
		password := payload.GetString("password")
		if err := validation.ValidatePassword(password); err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		if err := validation.ValidateUsername(payload.GetString("username")); err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		if err := validation.ValidateEmail(payload.GetString("email")); err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		hashed, err := auth.HashPassword(password)
		if err != nil {
			respondDomainError(w, r, err)
			return
		}
		delete(payload, "password")
		payload["hashed_password"] = hashed
	}

	result, err := h.service.SubmitCreate(r.Context(), claims.UserID, entity, payload)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	submitResponse(w, r, result, http.StatusCreated)
}

func (h *Handlers) UpdateEntity(w http.ResponseWriter, r *http.Request) {
	entity, ok := entityFromRequest(r)
	if !ok {
		respondError(w, r, http.StatusNotFound, "not_found", "unknown resource")
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid entity id")
		return
	}
	claims := ClaimsFromContext(r.Context())

	var payload db.JSONBMap
	if err := decodeBody(r, &payload); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	result, err := h.service.SubmitUpdate(r.Context(), claims.UserID, entity, id, payload)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	submitResponse(w, r, result, http.StatusOK)
}

/* LifecycleEntity handles soft delete, archive, restore, and permanent
 * delete submissions. */
func (h *Handlers) LifecycleEntity(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entity, ok := entityFromRequest(r)
		if !ok {
			respondError(w, r, http.StatusNotFound, "not_found", "unknown resource")
			return
		}
		id, err := pathID(r, "id")
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid entity id")
			return
		}
		claims := ClaimsFromContext(r.Context())

		result, err := h.service.SubmitLifecycle(r.Context(), claims.UserID, entity, id, action)
		if err != nil {
			respondDomainError(w, r, err)
			return
		}
		submitResponse(w, r, result, http.StatusOK)
	}
}

func (h *Handlers) GetEntity(w http.ResponseWriter, r *http.Request) {
	entity, ok := entityFromRequest(r)
	if !ok {
		respondError(w, r, http.StatusNotFound, "not_found", "unknown resource")
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid entity id")
		return
	}

	ctx := r.Context()
	var row interface{}
	switch entity {
	case "user":
		var u *db.User
		if u, err = h.queries.GetUserByID(ctx, id); err == nil {
			u.HashedPassword = ""
			row = u
		}
	case "department":
		row, err = h.queries.GetDepartmentByID(ctx, id)
	case "item":
		row, err = h.queries.GetItemByID(ctx, id)
	case "location":
		row, err = h.queries.GetLocationByID(ctx, id)
	case "warehouse":
		row, err = h.queries.GetWarehouseByID(ctx, id)
	case "project":
		row, err = h.queries.GetProjectByID(ctx, id)
	case "stock":
		row, err = h.queries.GetStockByID(ctx, id)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, r, http.StatusNotFound, "not_found", "entity not found")
			return
		}
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, row)
}

func (h *Handlers) ListEntities(w http.ResponseWriter, r *http.Request) {
	entity, ok := entityFromRequest(r)
	if !ok {
		respondError(w, r, http.StatusNotFound, "not_found", "unknown resource")
		return
	}

	ctx := r.Context()
	var rows interface{}
	var err error
	switch entity {
	case "user":
		var users []db.User
		if users, err = h.queries.ListUsers(ctx); err == nil {
			for i := range users {
				users[i].HashedPassword = ""
			}
			rows = users
		}
	case "department":
		rows, err = h.queries.ListDepartments(ctx)
	case "item":
		rows, err = h.queries.ListItems(ctx)
	case "location":
		rows, err = h.queries.ListLocations(ctx)
	case "warehouse":
		if locationID := r.URL.Query().Get("location_id"); locationID != "" {
			var id int64
			if id, err = parseQueryID(locationID); err == nil {
				rows, err = h.queries.ListWarehousesByLocation(ctx, id)
			}
		} else {
			rows, err = h.queries.ListWarehouses(ctx)
		}
	case "project":
		if locationID := r.URL.Query().Get("location_id"); locationID != "" {
			var id int64
			if id, err = parseQueryID(locationID); err == nil {
				rows, err = h.queries.ListProjectsByLocation(ctx, id)
			}
		} else {
			rows, err = h.queries.ListProjects(ctx)
		}
	case "stock":
		rows, err = h.listStocks(r)
	}
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

func (h *Handlers) listStocks(r *http.Request) (interface{}, error) {
	ctx := r.Context()
	if warehouseID := r.URL.Query().Get("warehouse_id"); warehouseID != "" {
		id, err := parseQueryID(warehouseID)
		if err != nil {
			return nil, err
		}
		return h.queries.ListStocksByWarehouse(ctx, id)
	}
	if projectID := r.URL.Query().Get("project_id"); projectID != "" {
		id, err := parseQueryID(projectID)
		if err != nil {
			return nil, err
		}
		return h.queries.ListStocksByProject(ctx, id)
	}
	return h.queries.ListStocks(ctx)
}

/* ListArchived serves the restore surface: archived or soft-deleted rows
 * across entity tables, optionally filtered to one type. */
func (h *Handlers) ListArchived(w http.ResponseWriter, r *http.Request) {
	entity := r.URL.Query().Get("entity")
	limit, offset := paginationParams(r)

	rows, err := h.queries.ListArchivedEntities(r.Context(), entity, limit, offset)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}
