/*-------------------------------------------------------------------------
 *
 * registry.go
 *    Entity handler registry for approval replay
 *
 * Approved actions are replayed against the target entity through a
 * handler registered per entity type. The registry is populated once at
 * startup; lookups after that are read-only and safe for concurrent use.
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/registry/registry.go
 *
 *-------------------------------------------------------------------------
 */

package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
)

var ErrUnknownEntity = errors.New("no handler registered for entity")

/* EntityHandler replays resolved actions against one entity type. Every
 * method receives the query set bound to the resolution transaction, so
 * the replay commits or rolls back with the approval bookkeeping. */
type EntityHandler interface {
	/* DirectCreate materializes the entity from the stored payload and
	 * returns the new entity id. Natural-key collisions that arose while
	 * the request was pending must surface as a replay conflict. */
	DirectCreate(ctx context.Context, queries *db.Queries, payload db.JSONBMap) (int64, error)

	/* DirectUpdate applies the stored column changes to an existing row */
	DirectUpdate(ctx context.Context, queries *db.Queries, entityID int64, payload db.JSONBMap) error

	DirectSoftDelete(ctx context.Context, queries *db.Queries, entityID int64) error
	DirectArchive(ctx context.Context, queries *db.Queries, entityID int64) error
	DirectRestore(ctx context.Context, queries *db.Queries, entityID int64) error
	DirectDeletePermanent(ctx context.Context, queries *db.Queries, entityID int64) error
}

/* Registry maps entity type names to their handlers */
type Registry struct {
	handlers map[string]EntityHandler
}

func New() *Registry {
	return &Registry{handlers: make(map[string]EntityHandler)}
}

/* Register binds a handler to an entity type. Duplicate registration is a
 * wiring bug and panics at startup. */
func (r *Registry) Register(entity string, handler EntityHandler) {
	if _, exists := r.handlers[entity]; exists {
		panic(fmt.Sprintf("handler already registered for entity %q", entity))
	}
	r.handlers[entity] = handler
}

func (r *Registry) Lookup(entity string) (EntityHandler, error) {
	handler, ok := r.handlers[entity]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	return handler, nil
}

/* Entities returns the registered entity type names */
func (r *Registry) Entities() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}
