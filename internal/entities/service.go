/*-------------------------------------------------------------------------
 *
 * service.go
 *    Entity mutation service
 *
 * Thin facade between the HTTP layer and the approval workflow. Adds the
 * submission-side duplicate check for creates: an in-flight create whose
 * stored payload carries the same natural-key value is rejected before a
 * second pending row is queued.
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/entities/service.go
 *
 *-------------------------------------------------------------------------
 */

package entities

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/approval"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/registry"
)

type Service struct {
	queries  *db.Queries
	workflow *approval.Workflow
	handlers map[string]Handler
}

func NewService(queries *db.Queries, workflow *approval.Workflow, handlers []Handler) *Service {
	byName := make(map[string]Handler, len(handlers))
	for _, h := range handlers {
		byName[h.Entity()] = h
	}
	return &Service{queries: queries, workflow: workflow, handlers: byName}
}

/* DefaultHandlers returns one handler per inventory entity type */
func DefaultHandlers() []Handler {
	return []Handler{
		NewUserHandler(),
		NewDepartmentHandler(),
		NewItemHandler(),
		NewLocationHandler(),
		NewWarehouseHandler(),
		NewProjectHandler(),
		NewStockHandler(),
	}
}

/* RegisterAll binds the handlers into the replay registry */
func RegisterAll(reg *registry.Registry, handlers []Handler) {
	for _, h := range handlers {
		reg.Register(h.Entity(), h)
	}
}

/* SubmitCreate routes a create request through the workflow after checking
 * for an equivalent in-flight create. */
func (s *Service) SubmitCreate(ctx context.Context, requesterID int64, entity string, payload db.JSONBMap) (*approval.SubmitResult, error) {
	handler, ok := s.handlers[entity]
	if !ok {
		return nil, fmt.Errorf("%w: %s", registry.ErrUnknownEntity, entity)
	}

	key := handler.NaturalKey()
	if value := payloadKeyValue(payload, key); value != "" {
		pending, err := s.queries.FindPendingCreateByPayloadKey(ctx, entity, key, value)
		if err != nil {
			return nil, err
		}
		if pending != nil {
			return nil, fmt.Errorf("%w: create of %s %q", approval.ErrDuplicateRequest, entity, value)
		}
	}

	return s.workflow.Submit(ctx, requesterID, entity, nil, db.ActionCreate, payload)
}

/* payloadKeyValue renders a payload field as the text produced by the
 * JSONB ->> operator, so numeric natural keys compare correctly. */
func payloadKeyValue(payload db.JSONBMap, key string) string {
	switch v := payload[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

/* SubmitUpdate routes a column update through the workflow */
func (s *Service) SubmitUpdate(ctx context.Context, requesterID int64, entity string, entityID int64, payload db.JSONBMap) (*approval.SubmitResult, error) {
	return s.workflow.Submit(ctx, requesterID, entity, &entityID, db.ActionUpdate, payload)
}

/* SubmitLifecycle routes a soft delete, archive, restore, or permanent
 * delete through the workflow. */
func (s *Service) SubmitLifecycle(ctx context.Context, requesterID int64, entity string, entityID int64, action string) (*approval.SubmitResult, error) {
	return s.workflow.Submit(ctx, requesterID, entity, &entityID, action, nil)
}
