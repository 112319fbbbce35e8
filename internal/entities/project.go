/*-------------------------------------------------------------------------
 *
 * project.go
 *    Project entity handler
 *
 * Projects are unique per (name, location), so both create and rename
 * re-validation check the composite key.
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/entities/project.go
 *
 *-------------------------------------------------------------------------
 */

package entities

import (
	"context"
	"fmt"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
)

type ProjectHandler struct {
	lifecycleHandler
}

func NewProjectHandler() *ProjectHandler {
	return &ProjectHandler{lifecycleHandler{entity: "project"}}
}

func (h *ProjectHandler) NaturalKey() string {
	return "name"
}

func (h *ProjectHandler) DirectCreate(ctx context.Context, queries *db.Queries, payload db.JSONBMap) (int64, error) {
	name := payload.GetString("name")
	if name == "" {
		return 0, fmt.Errorf("project payload missing name")
	}
	locationID, ok := payload.GetInt64("location_id")
	if !ok {
		return 0, fmt.Errorf("project payload missing location_id")
	}

	existing, err := queries.GetProjectByNameAndLocation(ctx, name, locationID)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, conflictf("project %q already exists at location %d", name, locationID)
	}

	active, err := queries.EntityExistsActive(ctx, "location", locationID)
	if err != nil {
		return 0, err
	}
	if !active {
		return 0, conflictf("location %d is not active", locationID)
	}

	project := &db.Project{
		Name:       name,
		LocationID: locationID,
		Lifecycle:  approvedLifecycle(),
		CreatedBy:  actorRef(ctx),
	}
	if err := queries.CreateProject(ctx, project); err != nil {
		return 0, err
	}
	return project.ID, nil
}

func (h *ProjectHandler) DirectUpdate(ctx context.Context, queries *db.Queries, entityID int64, payload db.JSONBMap) error {
	name := payload.GetString("name")
	locationID, hasLocation := payload.GetInt64("location_id")

	if name != "" || hasLocation {
		current, err := queries.GetProjectByID(ctx, entityID)
		if err != nil {
			return conflictf("project %d no longer exists", entityID)
		}
		checkName := current.Name
		if name != "" {
			checkName = name
		}
		checkLocation := current.LocationID
		if hasLocation {
			checkLocation = locationID
		}
		existing, err := queries.GetProjectByNameAndLocation(ctx, checkName, checkLocation)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != entityID {
			return conflictf("project %q already exists at location %d", checkName, checkLocation)
		}
	}
	if hasLocation {
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
