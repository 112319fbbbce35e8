/*-------------------------------------------------------------------------
 *
 * user.go
 *    User entity handler
 *
 * User creation hashes the payload password before storage; a pending
 * create therefore carries the hash, never the cleartext.
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/entities/user.go
 *
 *-------------------------------------------------------------------------
 */

package entities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
)

type UserHandler struct {
	lifecycleHandler
}

func NewUserHandler() *UserHandler {
	return &UserHandler{lifecycleHandler{entity: "user"}}
}

func (h *UserHandler) NaturalKey() string {
	return "username"
}

func (h *UserHandler) DirectCreate(ctx context.Context, queries *db.Queries, payload db.JSONBMap) (int64, error) {
	username := payload.GetString("username")
	if username == "" {
		return 0, fmt.Errorf("user payload missing username")
	}
	email := payload.GetString("email")
	if email == "" {
		return 0, fmt.Errorf("user payload missing email")
	}
	hashed := payload.GetString("hashed_password")
	if hashed == "" {
		return 0, fmt.Errorf("user payload missing hashed_password")
	}

	existing, err := queries.GetUserByUsername(ctx, username)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	if existing != nil {
		return 0, conflictf("username %q already exists", username)
	}

	role := payload.GetString("role")
	if role == "" {
		role = db.RoleNormal
	}

	user := &db.User{
		EmployeeID:      optInt64(payload, "employee_id"),
		Username:        username,
		Email:           email,
		HashedPassword:  hashed,
		Role:            role,
		DirectManagerID: optInt64(payload, "direct_manager_id"),
		DepartmentID:    optInt64(payload, "department_id"),
		Lifecycle:       approvedLifecycle(),
	}
	if err := queries.CreateUser(ctx, user); err != nil {
		return 0, err
	}
	return user.ID, nil
}

func (h *UserHandler) DirectUpdate(ctx context.Context, queries *db.Queries, entityID int64, payload db.JSONBMap) error {
	if username := payload.GetString("username"); username != "" {
		existing, err := queries.GetUserByUsername(ctx, username)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if existing != nil && existing.ID != entityID {
			return conflictf("username %q already exists", username)
		}
	}
	return h.directUpdate(ctx, queries, entityID, payload)
}
