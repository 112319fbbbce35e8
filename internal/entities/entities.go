/*-------------------------------------------------------------------------
 *
 * entities.go
 *    Shared entity handler plumbing
 *
 * Every inventory entity handler embeds lifecycleHandler for the generic
 * soft-delete, archive, restore, and permanent-delete operations and adds
 * its own create and update logic with natural-key re-validation. Replay
 * happens after an arbitrary delay, so each handler re-checks the state
 * the stored request assumed and reports a replay conflict when it no
 * longer holds.
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/entities/entities.go
 *
 *-------------------------------------------------------------------------
 */

package entities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/approval"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/metrics"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/registry"
)

/* Handler extends the replay interface with the entity's registry name and
 * its natural key, used for in-flight create deduplication. */
type Handler interface {
	registry.EntityHandler
	Entity() string
	NaturalKey() string
}

/* lifecycleHandler supplies the four generic lifecycle operations. The
 * acting user comes from the request context set by the auth middleware. */
type lifecycleHandler struct {
	entity string
}

func (h lifecycleHandler) Entity() string {
	return h.entity
}

func (h lifecycleHandler) DirectSoftDelete(ctx context.Context, queries *db.Queries, entityID int64) error {
	err := queries.SoftDeleteEntity(ctx, h.entity, entityID, actorRef(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return conflictf("%s %d no longer exists", h.entity, entityID)
	}
	return err
}

func (h lifecycleHandler) DirectArchive(ctx context.Context, queries *db.Queries, entityID int64) error {
	err := queries.ArchiveEntity(ctx, h.entity, entityID, actorRef(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return conflictf("%s %d no longer exists", h.entity, entityID)
	}
	return err
}

func (h lifecycleHandler) DirectRestore(ctx context.Context, queries *db.Queries, entityID int64) error {
	err := queries.RestoreEntity(ctx, h.entity, entityID)
	if errors.Is(err, sql.ErrNoRows) {
		return conflictf("%s %d no longer exists", h.entity, entityID)
	}
	return err
}

func (h lifecycleHandler) DirectDeletePermanent(ctx context.Context, queries *db.Queries, entityID int64) error {
	err := queries.DeleteEntityPermanent(ctx, h.entity, entityID)
	if errors.Is(err, sql.ErrNoRows) {
		return conflictf("%s %d no longer exists", h.entity, entityID)
	}
	return err
}

/* directUpdate applies the payload columns after confirming the row still
 * exists. Shared by every handler's DirectUpdate. */
func (h lifecycleHandler) directUpdate(ctx context.Context, queries *db.Queries, entityID int64, payload db.JSONBMap) error {
	err := queries.UpdateEntityColumns(ctx, h.entity, entityID, payload)
	if errors.Is(err, sql.ErrNoRows) {
		return conflictf("%s %d no longer exists", h.entity, entityID)
	}
	return err
}

func conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", approval.ErrReplayConflict, fmt.Sprintf(format, args...))
}

/* approvedLifecycle is the lifecycle state for rows created through an
 * approved or privileged request */
func approvedLifecycle() db.Lifecycle {
	return db.Lifecycle{
		IsApproved:     true,
		ApprovalStatus: db.StatusApproved,
		IsActive:       true,
	}
}

func actorRef(ctx context.Context) *int64 {
	actor := metrics.GetUserIDFromContext(ctx)
	if actor == 0 {
		return nil
	}
	return &actor
}

/* Payload field helpers. Absent keys yield nil pointers so optional
 * columns stay NULL. */

func optString(payload db.JSONBMap, key string) *string {
	if v := payload.GetString(key); v != "" {
		return &v
	}
	return nil
}

func optInt64(payload db.JSONBMap, key string) *int64 {
	if v, ok := payload.GetInt64(key); ok {
		return &v
	}
	return nil
}

func optFloat64(payload db.JSONBMap, key string) *float64 {
	if v, ok := payload.GetFloat64(key); ok {
		return &v
	}
	return nil
}
