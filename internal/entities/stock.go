/*-------------------------------------------------------------------------
 *
 * stock.go
 *    Stock entity handler
 *
 * A stock row holds an item quantity in exactly one holder, a warehouse
 * or a project. Creates enforce the single-holder rule and reject a
 * second row for the same item and holder.
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/entities/stock.go
 *
 *-------------------------------------------------------------------------
 */

package entities

import (
	"context"
	"fmt"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
)

type StockHandler struct {
	lifecycleHandler
}

func NewStockHandler() *StockHandler {
	return &StockHandler{lifecycleHandler{entity: "stock"}}
}

func (h *StockHandler) NaturalKey() string {
	return "item_id"
}

func (h *StockHandler) DirectCreate(ctx context.Context, queries *db.Queries, payload db.JSONBMap) (int64, error) {
	itemID, ok := payload.GetInt64("item_id")
	if !ok {
		return 0, fmt.Errorf("stock payload missing item_id")
	}
	quantity, ok := payload.GetFloat64("quantity")
	if !ok {
		return 0, fmt.Errorf("stock payload missing quantity")
	}
	if quantity < 0 {
		return 0, fmt.Errorf("stock quantity must not be negative")
	}

	warehouseID := optInt64(payload, "warehouse_id")
	projectID := optInt64(payload, "project_id")
	if (warehouseID == nil) == (projectID == nil) {
		return 0, fmt.Errorf("stock requires exactly one of warehouse_id or project_id")
	}

	active, err := queries.EntityExistsActive(ctx, "item", itemID)
	if err != nil {
		return 0, err
	}
	if !active {
		return 0, conflictf("item %d is not active", itemID)
	}
	if warehouseID != nil {
		active, err = queries.EntityExistsActive(ctx, "warehouse", *warehouseID)
		if err != nil {
			return 0, err
		}
		if !active {
			return 0, conflictf("warehouse %d is not active", *warehouseID)
		}
	}
	if projectID != nil {
		active, err = queries.EntityExistsActive(ctx, "project", *projectID)
		if err != nil {
			return 0, err
		}
		if !active {
			return 0, conflictf("project %d is not active", *projectID)
		}
	}

	existing, err := queries.FindStockByHolder(ctx, itemID, warehouseID, projectID)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, conflictf("stock for item %d already exists at this holder", itemID)
	}

	stock := &db.Stock{
		ItemID:      itemID,
		WarehouseID: warehouseID,
		ProjectID:   projectID,
		Quantity:    quantity,
		Lifecycle:   approvedLifecycle(),
		CreatedBy:   actorRef(ctx),
	}
	if err := queries.CreateStock(ctx, stock); err != nil {
		return 0, err
	}
	return stock.ID, nil
}

func (h *StockHandler) DirectUpdate(ctx context.Context, queries *db.Queries, entityID int64, payload db.JSONBMap) error {
	if quantity, ok := payload.GetFloat64("quantity"); ok && quantity < 0 {
		return fmt.Errorf("stock quantity must not be negative")
	}

	_, hasWarehouse := payload.GetInt64("warehouse_id")
	_, hasProject := payload.GetInt64("project_id")
	if hasWarehouse && hasProject {
		return fmt.Errorf("stock requires exactly one of warehouse_id or project_id")
	}

	current, err := queries.GetStockByID(ctx, entityID)
	if err != nil {
		return conflictf("stock %d no longer exists", entityID)
	}

	/* Moving the stock to the other holder kind must clear the old one */
	if hasWarehouse && current.ProjectID != nil {
		payload["project_id"] = nil
	}
	if hasProject && current.WarehouseID != nil {
		payload["warehouse_id"] = nil
	}

	return h.directUpdate(ctx, queries, entityID, payload)
}
