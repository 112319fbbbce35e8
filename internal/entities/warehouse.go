/*-------------------------------------------------------------------------
 *
 * warehouse.go
 *    Warehouse entity handler
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/entities/warehouse.go
 *
 *-------------------------------------------------------------------------
 */

package entities

import (
	"context"
	"fmt"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
)

type WarehouseHandler struct {
	lifecycleHandler
}

func NewWarehouseHandler() *WarehouseHandler {
	return &WarehouseHandler{lifecycleHandler{entity: "warehouse"}}
}

func (h *WarehouseHandler) NaturalKey() string {
	return "name"
}

func (h *WarehouseHandler) DirectCreate(ctx context.Context, queries *db.Queries, payload db.JSONBMap) (int64, error) {
	name := payload.GetString("name")
	if name == "" {
		return 0, fmt.Errorf("warehouse payload missing name")
	}
	locationID, ok := payload.GetInt64("location_id")
	if !ok {
		return 0, fmt.Errorf("warehouse payload missing location_id")
	}

	existing, err := queries.GetWarehouseByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, conflictf("warehouse %q already exists", name)
	}

	/* The referenced location must still be active at replay time */
	active, err := queries.EntityExistsActive(ctx, "location", locationID)
	if err != nil {
		return 0, err
	}
	if !active {
		return 0, conflictf("location %d is not active", locationID)
	}

	warehouse := &db.Warehouse{
		Name:        name,
		LocationID:  locationID,
		Capacity:    optFloat64(payload, "capacity"),
		Description: optString(payload, "description"),
		Lifecycle:   approvedLifecycle(),
		CreatedBy:   actorRef(ctx),
	}
	if err := queries.CreateWarehouse(ctx, warehouse); err != nil {
		return 0, err
	}
	return warehouse.ID, nil
}

func (h *WarehouseHandler) DirectUpdate(ctx context.Context, queries *db.Queries, entityID int64, payload db.JSONBMap) error {
	if name := payload.GetString("name"); name != "" {
		existing, err := queries.GetWarehouseByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != entityID {
			return conflictf("warehouse %q already exists", name)
		}
	}
	if locationID, ok := payload.GetInt64("location_id"); ok {
		active, err := queries.EntityExistsActive(ctx, "location", locationID)
		if err != nil {
			return err
		}
		if !active {
			return conflictf("location %d is not active", locationID)
		}
	}
	return h.directUpdate(ctx, queries, entityID, payload)
}
