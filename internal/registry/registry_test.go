/*-------------------------------------------------------------------------
 *
 * registry_test.go
 *    Tests for the entity handler registry
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/registry/registry_test.go
 *
 *-------------------------------------------------------------------------
 */

package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
)

type stubHandler struct{}

func (stubHandler) DirectCreate(ctx context.Context, q *db.Queries, payload db.JSONBMap) (int64, error) {
	return 1, nil
}
func (stubHandler) DirectUpdate(ctx context.Context, q *db.Queries, id int64, payload db.JSONBMap) error {
	return nil
}
func (stubHandler) DirectSoftDelete(ctx context.Context, q *db.Queries, id int64) error { return nil }
func (stubHandler) DirectArchive(ctx context.Context, q *db.Queries, id int64) error    { return nil }
func (stubHandler) DirectRestore(ctx context.Context, q *db.Queries, id int64) error    { return nil }
func (stubHandler) DirectDeletePermanent(ctx context.Context, q *db.Queries, id int64) error {
	return nil
}

func TestRegistryLookup(t *testing.T) {
	reg := New()
	reg.Register("item", stubHandler{})

	handler, err := reg.Lookup("item")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if handler == nil {
		t.Fatal("Lookup() returned nil handler")
	}
}

func TestRegistryUnknownEntity(t *testing.T) {
	reg := New()

	if _, err := reg.Lookup("gadget"); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("expected ErrUnknownEntity, got %v", err)
	}
}

func TestRegistryDuplicatePanics(t *testing.T) {
	reg := New()
	reg.Register("item", stubHandler{})

	defer func() {
		if recover() == nil {
			t.Error("expected duplicate registration to panic")
		}
	}()
	reg.Register("item", stubHandler{})
}

func TestRegistryEntities(t *testing.T) {
	reg := New()
	reg.Register("item", stubHandler{})
	reg.Register("stock", stubHandler{})

	entities := reg.Entities()
	if len(entities) != 2 {
		t.Errorf("Entities() returned %d names, want 2", len(entities))
	}
}
