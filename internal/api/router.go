/*-------------------------------------------------------------------------
 *
 * router.go
 *    HTTP route wiring
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/api/router.go
 *
 *-------------------------------------------------------------------------
 */

package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/auth"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/metrics"
)

/* NewRouter builds the full route table. Login, health, and metrics are
 * open; everything under /api/v1 requires a valid token and passes the
 * grant evaluator. */
func NewRouter(h *Handlers, database *db.DB, tokens *auth.TokenManager, evaluator *auth.Evaluator) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestIDMiddleware, CORSMiddleware, LoggingMiddleware)

	router.HandleFunc("/health", h.Health(database)).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/auth/login", h.Login).Methods(http.MethodPost)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens), AuthorizeMiddleware(evaluator))

	/* Permission grants */
	api.HandleFunc("/permissions", h.AssignPermission).Methods(http.MethodPost)
	api.HandleFunc("/permissions/bulk", h.AssignPermissionsBulk).Methods(http.MethodPost)
	api.HandleFunc("/permissions/{id:[0-9]+}", h.RevokePermission).Methods(http.MethodDelete)
	api.HandleFunc("/permissions/user/{user_id:[0-9]+}", h.ListUserPermissions).Methods(http.MethodGet)
	api.HandleFunc("/permissions/resource", h.ListResourcePermissions).Methods(http.MethodGet)

	/* Pending approvals */
	api.HandleFunc("/pending_approvals", h.ListPendingApprovals).Methods(http.MethodGet)
	api.HandleFunc("/pending_approvals/{id:[0-9]+}", h.GetPendingApproval).Methods(http.MethodGet)
	api.HandleFunc("/pending_approvals/{id:[0-9]+}/approve", h.ResolvePendingApproval(true)).Methods(http.MethodPost, http.MethodPut)
	api.HandleFunc("/pending_approvals/{id:[0-9]+}/reject", h.ResolvePendingApproval(false)).Methods(http.MethodPost, http.MethodPut)

	/* History logs */
	api.HandleFunc("/history_logs", h.ListHistoryLogs).Methods(http.MethodGet)
	api.HandleFunc("/history_logs/{id:[0-9]+}", h.GetHistoryLog).Methods(http.MethodGet)

	/* Restore surface */
	api.HandleFunc("/restore", h.ListArchived).Methods(http.MethodGet)

	/* Inventory entities share one handler set, keyed by the resource
	 * segment. */
	resource := "/{resource:users|departments|items|locations|warehouses|projects|stocks}"
	api.HandleFunc(resource, h.ListEntities).Methods(http.MethodGet)
	api.HandleFunc(resource, h.CreateEntity).Methods(http.MethodPost)
	api.HandleFunc(resource+"/{id:[0-9]+}", h.GetEntity).Methods(http.MethodGet)
	api.HandleFunc(resource+"/{id:[0-9]+}", h.UpdateEntity).Methods(http.MethodPut, http.MethodPatch)
	api.HandleFunc(resource+"/{id:[0-9]+}", h.LifecycleEntity(db.ActionSoftDelete)).Methods(http.MethodDelete)
	api.HandleFunc(resource+"/{id:[0-9]+}/archive", h.LifecycleEntity(db.ActionArchive)).Methods(http.MethodPost, http.MethodPut)
	api.HandleFunc(resource+"/{id:[0-9]+}/restore", h.LifecycleEntity(db.ActionRestore)).Methods(http.MethodPost, http.MethodPut)
	api.HandleFunc(resource+"/{id:[0-9]+}/permanent", h.LifecycleEntity(db.ActionDeletePermanent)).Methods(http.MethodDelete)

	return router
}
