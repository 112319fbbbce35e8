/*-------------------------------------------------------------------------
 *
 * department.go
 *    Department entity handler
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/entities/department.go
 *
 *-------------------------------------------------------------------------
 */

package entities

import (
	"context"
	"fmt"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
)

type DepartmentHandler struct {
	lifecycleHandler
}

func NewDepartmentHandler() *DepartmentHandler {
	return &DepartmentHandler{lifecycleHandler{entity: "department"}}
}

func (h *DepartmentHandler) NaturalKey() string {
	return "name"
}

func (h *DepartmentHandler) DirectCreate(ctx context.Context, queries *db.Queries, payload db.JSONBMap) (int64, error) {
	name := payload.GetString("name")
	if name == "" {
		return 0, fmt.Errorf("department payload missing name")
	}

	existing, err := queries.GetDepartmentByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, conflictf("department %q already exists", name)
	}

	department := &db.Department{
		Name:            name,
		ManagerID:       optInt64(payload, "manager_id"),
		DeputyManagerID: optInt64(payload, "deputy_manager_id"),
		Lifecycle:       approvedLifecycle(),
		CreatedBy:       actorRef(ctx),
	}
	if err := queries.CreateDepartment(ctx, department); err != nil {
		return 0, err
	}
	return department.ID, nil
}

func (h *DepartmentHandler) DirectUpdate(ctx context.Context, queries *db.Queries, entityID int64, payload db.JSONBMap) error {
	if name := payload.GetString("name"); name != "" {
		existing, err := queries.GetDepartmentByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != entityID {
			return conflictf("department %q already exists", name)
		}
	}
	return h.directUpdate(ctx, queries, entityID, payload)
}
