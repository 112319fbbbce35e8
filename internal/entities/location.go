/*-------------------------------------------------------------------------
 *
 * location.go
 *    Location entity handler
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/entities/location.go
 *
 *-------------------------------------------------------------------------
 */

package entities

import (
	"context"
	"fmt"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
)

type LocationHandler struct {
	lifecycleHandler
}

func NewLocationHandler() *LocationHandler {
	return &LocationHandler{lifecycleHandler{entity: "location"}}
}

func (h *LocationHandler) NaturalKey() string {
	return "name"
}

func (h *LocationHandler) DirectCreate(ctx context.Context, queries *db.Queries, payload db.JSONBMap) (int64, error) {
	name := payload.GetString("name")
	if name == "" {
		return 0, fmt.Errorf("location payload missing name")
	}

	existing, err := queries.GetLocationByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, conflictf("location %q already exists", name)
	}

	location := &db.Location{
		Name:      name,
		Lifecycle: approvedLifecycle(),
		CreatedBy: actorRef(ctx),
	}
	if err := queries.CreateLocation(ctx, location); err != nil {
		return 0, err
	}
	return location.ID, nil
}

func (h *LocationHandler) DirectUpdate(ctx context.Context, queries *db.Queries, entityID int64, payload db.JSONBMap) error {
	if name := payload.GetString("name"); name != "" {
		existing, err := queries.GetLocationByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != entityID {
			return conflictf("location %q already exists", name)
		}
	}
	return h.directUpdate(ctx, queries, entityID, payload)
}
