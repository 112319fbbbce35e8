/*-------------------------------------------------------------------------
 *
 * item.go
 *    Item entity handler
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/entities/item.go
 *
 *-------------------------------------------------------------------------
 */

package entities

import (
	"context"
	"fmt"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
)

type ItemHandler struct {
	lifecycleHandler
}

func NewItemHandler() *ItemHandler {
	return &ItemHandler{lifecycleHandler{entity: "item"}}
}

func (h *ItemHandler) NaturalKey() string {
	return "item_code"
}

func (h *ItemHandler) DirectCreate(ctx context.Context, queries *db.Queries, payload db.JSONBMap) (int64, error) {
	code := payload.GetString("item_code")
	if code == "" {
		return 0, fmt.Errorf("item payload missing item_code")
	}
	unit := payload.GetString("unit_of_measure")
	if unit == "" {
		return 0, fmt.Errorf("item payload missing unit_of_measure")
	}

	existing, err := queries.GetItemByCode(ctx, code)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, conflictf("item code %q already exists", code)
	}

	item := &db.Item{
		ItemCode:      code,
		Description:   optString(payload, "description"),
		Photo:         optString(payload, "photo"),
		UnitOfMeasure: unit,
		Lifecycle:     approvedLifecycle(),
		CreatedBy:     actorRef(ctx),
	}
	if err := queries.CreateItem(ctx, item); err != nil {
		return 0, err
	}
	return item.ID, nil
}

func (h *ItemHandler) DirectUpdate(ctx context.Context, queries *db.Queries, entityID int64, payload db.JSONBMap) error {
	if code := payload.GetString("item_code"); code != "" {
		existing, err := queries.GetItemByCode(ctx, code)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != entityID {
			return conflictf("item code %q already exists", code)
		}
	}
	return h.directUpdate(ctx, queries, entityID, payload)
}
