/*-------------------------------------------------------------------------
 *
 * workflow.go
 *    Pending approval submission and resolution
 *
 * Submission routes a proposed mutation either directly to the entity
 * handler (privileged requesters) or into the pending_approvals queue.
 * Resolution replays the stored action through the handler on approval,
 * closes the linked history log entry, and removes the pending row. Every
 * path runs inside one transaction so the replay, the audit update, and
 * the queue bookkeeping commit or roll back together.
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/approval/workflow.go
 *
 *-------------------------------------------------------------------------
 */

package approval

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/audit"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/auth"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/metrics"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/registry"
)

var validActions = map[string]bool{
	db.ActionCreate:          true,
	db.ActionUpdate:          true,
	db.ActionSoftDelete:      true,
	db.ActionDeletePermanent: true,
	db.ActionArchive:         true,
	db.ActionRestore:         true,
}

/* Workflow coordinates submission and resolution of entity mutations */
type Workflow struct {
	queries  *db.Queries
	registry *registry.Registry
	audit    *audit.Logger
}

func NewWorkflow(queries *db.Queries, reg *registry.Registry, auditLogger *audit.Logger) *Workflow {
	return &Workflow{queries: queries, registry: reg, audit: auditLogger}
}

/* SubmitResult reports how a submission was handled. Applied means the
 * mutation ran directly; otherwise Pending carries the queued request. */
type SubmitResult struct {
	Applied      bool
	EntityID     *int64
	Pending      *db.PendingApproval
	HistoryLogID int64
}

/* ResolveResult reports the outcome of a resolution */
type ResolveResult struct {
	Status   string
	EntityID *int64
}

/* Submit records a mutation attempt for the entity. Privileged requesters
 * have the action applied immediately; everyone else gets a pending row.
 * For non-create actions an in-flight request for the same action on the
 * same entity row is rejected with ErrDuplicateRequest. */
func (w *Workflow) Submit(ctx context.Context, requesterID int64, entity string, entityID *int64, action string, payload db.JSONBMap) (*SubmitResult, error) {
	if !validActions[action] {
		metrics.RecordApprovalSubmission(entity, action, "invalid")
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	handler, err := w.registry.Lookup(entity)
	if err != nil {
		metrics.RecordApprovalSubmission(entity, action, "invalid")
		return nil, err
	}

	/* Lifecycle actions carry no payload; the stored new_value column
	 * still expects a JSON object. */
	if payload == nil {
		payload = db.JSONBMap{}
	}

	requester, err := w.queries.GetUserByID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("requester lookup failed: %w", err)
	}
	privileged := auth.HasApprovalPrivilege(requester)

	if action != db.ActionCreate {
		if entityID == nil {
			return nil, fmt.Errorf("%w: %s requires an entity id", ErrUnknownAction, action)
		}
		pending, err := w.queries.FindPendingByEntityAction(ctx, entity, *entityID, action)
		if err != nil {
			return nil, err
		}
		if pending != nil {
			metrics.RecordApprovalSubmission(entity, action, "duplicate")
			return nil, fmt.Errorf("%w: request %d", ErrDuplicateRequest, pending.ID)
		}
	}

	var result *SubmitResult
	err = w.queries.InTx(ctx, func(tx *db.Queries) error {
		if privileged {
			applied, txErr := w.applyDirect(ctx, tx, handler, entity, entityID, action, payload, requesterID)
			if txErr != nil {
				return txErr
			}
			result = applied
			return nil
		}

		logID, txErr := w.audit.WithQueries(tx).LogAttempt(ctx, requesterID, entity, entityID, action, false)
		if txErr != nil {
			return txErr
		}

		pending := &db.PendingApproval{
			Entity:       entity,
			EntityID:     entityID,
			Action:       action,
			NewValue:     payload,
			RequestedBy:  requesterID,
			HistoryLogID: &logID,
		}
		if txErr := tx.CreatePendingApproval(ctx, pending); txErr != nil {
			if db.IsUniqueViolation(txErr, db.PendingUniqueConstraint) {
				return fmt.Errorf("%w: %s %s", ErrDuplicateRequest, entity, action)
			}
			return txErr
		}

		result = &SubmitResult{Pending: pending, HistoryLogID: logID}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateRequest) {
			metrics.RecordApprovalSubmission(entity, action, "duplicate")
		} else {
			metrics.RecordApprovalSubmission(entity, action, "error")
		}
		return nil, err
	}

	if result.Applied {
		metrics.RecordApprovalSubmission(entity, action, "applied")
	} else {
		metrics.RecordApprovalSubmission(entity, action, "queued")
	}
	w.refreshPendingGauge(ctx)

	metrics.InfoWithContext(ctx, "Mutation submitted", map[string]interface{}{
		"entity":     entity,
		"action":     action,
		"requester":  requesterID,
		"privileged": privileged,
		"applied":    result.Applied,
	})
	return result, nil
}

/* applyDirect runs the action immediately for a privileged requester and
 * writes the history log entry resolved in place. */
func (w *Workflow) applyDirect(ctx context.Context, tx *db.Queries, handler registry.EntityHandler, entity string, entityID *int64, action string, payload db.JSONBMap, requesterID int64) (*SubmitResult, error) {
	resolvedID := entityID

	switch action {
	case db.ActionCreate:
		newID, err := handler.DirectCreate(ctx, tx, payload)
		if err != nil {
			return nil, err
		}
		resolvedID = &newID
	case db.ActionUpdate:
		if err := handler.DirectUpdate(ctx, tx, *entityID, payload); err != nil {
			return nil, err
		}
	case db.ActionSoftDelete:
		if err := handler.DirectSoftDelete(ctx, tx, *entityID); err != nil {
			return nil, err
		}
	case db.ActionArchive:
		if err := handler.DirectArchive(ctx, tx, *entityID); err != nil {
			return nil, err
		}
	case db.ActionRestore:
		if err := handler.DirectRestore(ctx, tx, *entityID); err != nil {
			return nil, err
		}
	case db.ActionDeletePermanent:
		if err := handler.DirectDeletePermanent(ctx, tx, *entityID); err != nil {
			return nil, err
		}
	}

	logID, err := w.audit.WithQueries(tx).LogAttempt(ctx, requesterID, entity, resolvedID, action, true)
	if err != nil {
		return nil, err
	}

	return &SubmitResult{Applied: true, EntityID: resolvedID, HistoryLogID: logID}, nil
}

/* Resolve applies an approver's decision to a pending approval. Approvers
 * must hold approval privileges or be the requester's direct manager. */
func (w *Workflow) Resolve(ctx context.Context, approverID, pendingID int64, approve bool) (*ResolveResult, error) {
	approver, err := w.queries.GetUserByID(ctx, approverID)
	if err != nil {
		return nil, fmt.Errorf("approver lookup failed: %w", err)
	}

	decision := db.StatusRejected
	if approve {
		decision = db.StatusApproved
	}

	var result *ResolveResult
	err = w.queries.InTx(ctx, func(tx *db.Queries) error {
		pending, txErr := tx.GetPendingApprovalForUpdate(ctx, pendingID)
		if txErr != nil {
			if errors.Is(txErr, sql.ErrNoRows) {
				return fmt.Errorf("%w: id %d", ErrNotFound, pendingID)
			}
			return txErr
		}
		if pending.ApprovalStatus != db.StatusPending {
			return fmt.Errorf("%w: id %d", ErrAlreadyResolved, pendingID)
		}

		if !auth.HasApprovalPrivilege(approver) {
			requester, txErr := tx.GetUserByID(ctx, pending.RequestedBy)
			if txErr != nil {
				return fmt.Errorf("requester lookup failed: %w", txErr)
			}
			if requester.DirectManagerID == nil || *requester.DirectManagerID != approverID {
				return fmt.Errorf("%w: user %d", ErrForbidden, approverID)
			}
		}

		entityID := pending.EntityID
		if approve {
			replayID, txErr := w.replay(ctx, tx, pending)
			if txErr != nil {
				return txErr
			}
			entityID = replayID
		}

		ok, txErr := tx.ResolvePendingApproval(ctx, pendingID, decision, approverID)
		if txErr != nil {
			return txErr
		}
		if !ok {
			return fmt.Errorf("%w: id %d", ErrAlreadyResolved, pendingID)
		}

		details := fmt.Sprintf("%s - rejected", pending.Action)
		if approve {
			details = fmt.Sprintf("%s - approved", pending.Action)
		}
		auditTx := w.audit.WithQueries(tx)
		if txErr := auditTx.LogResolution(ctx, pending.HistoryLogID, pending.Entity, entityID, approverID, details); txErr != nil {
			return txErr
		}

		if txErr := tx.DeletePendingApproval(ctx, pendingID); txErr != nil {
			return txErr
		}

		result = &ResolveResult{Status: decision, EntityID: entityID}
		metrics.InfoWithContext(ctx, "Pending approval resolved", map[string]interface{}{
			"pending_id": pendingID,
			"entity":     pending.Entity,
			"action":     pending.Action,
			"decision":   decision,
			"approver":   approverID,
		})
		metrics.RecordApprovalResolution(pending.Entity, pending.Action, decision, "ok")
		return nil
	})
	if err != nil {
		return nil, err
	}

	w.refreshPendingGauge(ctx)
	return result, nil
}

/* replay dispatches the stored action through the registered handler */
func (w *Workflow) replay(ctx context.Context, tx *db.Queries, pending *db.PendingApproval) (*int64, error) {
	handler, err := w.registry.Lookup(pending.Entity)
	if err != nil {
		return nil, err
	}

	switch pending.Action {
	case db.ActionCreate:
		newID, err := handler.DirectCreate(ctx, tx, pending.NewValue)
		if err != nil {
			return nil, err
		}
		return &newID, nil
	case db.ActionUpdate:
		return pending.EntityID, handler.DirectUpdate(ctx, tx, *pending.EntityID, pending.NewValue)
	case db.ActionSoftDelete:
		return pending.EntityID, handler.DirectSoftDelete(ctx, tx, *pending.EntityID)
	case db.ActionArchive:
		return pending.EntityID, handler.DirectArchive(ctx, tx, *pending.EntityID)
	case db.ActionRestore:
		return pending.EntityID, handler.DirectRestore(ctx, tx, *pending.EntityID)
	case db.ActionDeletePermanent:
		return pending.EntityID, handler.DirectDeletePermanent(ctx, tx, *pending.EntityID)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, pending.Action)
	}
}

/* List returns the pending queue page plus the total count */
func (w *Workflow) List(ctx context.Context, limit, offset int) ([]db.PendingApproval, int64, error) {
	approvals, err := w.queries.ListPendingApprovals(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := w.queries.CountPendingApprovals(ctx)
	if err != nil {
		return nil, 0, err
	}
	return approvals, total, nil
}

/* Get returns one pending approval */
func (w *Workflow) Get(ctx context.Context, id int64) (*db.PendingApproval, error) {
	pending, err := w.queries.GetPendingApproval(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return nil, err
	}
	return pending, nil
}

func (w *Workflow) refreshPendingGauge(ctx context.Context) {
	if count, err := w.queries.CountPendingApprovals(ctx); err == nil {
		metrics.SetPendingApprovals(count)
	}
}
