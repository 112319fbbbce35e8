/*-------------------------------------------------------------------------
 *
 * approval_queries.go
 *    Database queries for pending approvals
 *
 * The pending_approvals table carries a partial unique index on
 * (entity, entity_id, action) over rows still in 'pending' state, so two
 * concurrent submissions of the same mutation deterministically yield one
 * insert and one unique violation.
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/db/approval_queries.go
 *
 *-------------------------------------------------------------------------
 */

package db

import (
	"context"
	"database/sql"
	"fmt"
)

/* Name of the partial unique index guarding in-flight duplicates */
const PendingUniqueConstraint = "uq_pending_entity_entityid_action"

/* Pending approval queries */
const (
	createPendingApprovalQuery = `
		INSERT INTO pending_approvals
		(entity, entity_id, action, new_value, requested_by, history_log_id, approval_status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING id, requested_at, approval_status`

	getPendingApprovalQuery = `SELECT * FROM pending_approvals WHERE id = $1`

	getPendingApprovalForUpdateQuery = `SELECT * FROM pending_approvals WHERE id = $1 FOR UPDATE`

	resolvePendingApprovalQuery = `
		UPDATE pending_approvals
		SET approval_status = $2, approved_by = $3, approved_at = NOW()
		WHERE id = $1 AND approval_status = 'pending'`

	deletePendingApprovalQuery = `DELETE FROM pending_approvals WHERE id = $1`

	findPendingByEntityActionQuery = `
		SELECT * FROM pending_approvals
		WHERE entity = $1 AND entity_id = $2 AND action = $3
		AND approval_status = 'pending'
		LIMIT 1`

	findPendingCreateByPayloadKeyQuery = `
		SELECT * FROM pending_approvals
		WHERE entity = $1 AND action = 'create' AND approval_status = 'pending'
		AND new_value->>$2 = $3
		LIMIT 1`

	listPendingApprovalsQuery = `
		SELECT * FROM pending_approvals
		WHERE approval_status = 'pending'
		ORDER BY requested_at ASC
		LIMIT $1 OFFSET $2`

	countPendingApprovalsQuery = `
		SELECT COUNT(*) FROM pending_approvals WHERE approval_status = 'pending'`
)

func (q *Queries) CreatePendingApproval(ctx context.Context, p *PendingApproval) error {
	err := q.DB.GetContext(ctx, p, createPendingApprovalQuery,
		p.Entity, p.EntityID, p.Action, p.NewValue, p.RequestedBy, p.HistoryLogID)
	if err != nil {
		return fmt.Errorf("pending approval creation failed: %w", err)
	}
	return nil
}

func (q *Queries) GetPendingApproval(ctx context.Context, id int64) (*PendingApproval, error) {
	var p PendingApproval
	err := q.DB.GetContext(ctx, &p, getPendingApprovalQuery, id)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending approval: %w", err)
	}
	return &p, nil
}

/* GetPendingApprovalForUpdate row-locks the pending approval for the
 * duration of the surrounding transaction. */
func (q *Queries) GetPendingApprovalForUpdate(ctx context.Context, id int64) (*PendingApproval, error) {
	var p PendingApproval
	err := q.DB.GetContext(ctx, &p, getPendingApprovalForUpdateQuery, id)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock pending approval: %w", err)
	}
	return &p, nil
}

/* ResolvePendingApproval performs the status-conditional transition out of
 * 'pending'. Returns false when the row was already resolved or gone. */
func (q *Queries) ResolvePendingApproval(ctx context.Context, id int64, status string, approverID int64) (bool, error) {
	result, err := q.DB.ExecContext(ctx, resolvePendingApprovalQuery, id, status, approverID)
	if err != nil {
		return false, fmt.Errorf("pending approval resolution failed: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return rows == 1, nil
}

func (q *Queries) DeletePendingApproval(ctx context.Context, id int64) error {
	if _, err := q.DB.ExecContext(ctx, deletePendingApprovalQuery, id); err != nil {
		return fmt.Errorf("pending approval deletion failed: %w", err)
	}
	return nil
}

/* FindPendingByEntityAction returns the in-flight request for the same
 * action on the given entity row, or nil when none is pending. */
func (q *Queries) FindPendingByEntityAction(ctx context.Context, entity string, entityID int64, action string) (*PendingApproval, error) {
	var p PendingApproval
	err := q.DB.GetContext(ctx, &p, findPendingByEntityActionQuery, entity, entityID, action)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check pending approvals: %w", err)
	}
	return &p, nil
}

/* FindPendingCreateByPayloadKey looks for an in-flight create request whose
 * JSONB payload carries the given natural-key value, e.g. an item code. */
func (q *Queries) FindPendingCreateByPayloadKey(ctx context.Context, entity, key, value string) (*PendingApproval, error) {
	var p PendingApproval
	err := q.DB.GetContext(ctx, &p, findPendingCreateByPayloadKeyQuery, entity, key, value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check pending creates: %w", err)
	}
	return &p, nil
}

func (q *Queries) ListPendingApprovals(ctx context.Context, limit, offset int) ([]PendingApproval, error) {
	var approvals []PendingApproval
	if err := q.DB.SelectContext(ctx, &approvals, listPendingApprovalsQuery, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list pending approvals: %w", err)
	}
	return approvals, nil
}

func (q *Queries) CountPendingApprovals(ctx context.Context) (int64, error) {
	var count int64
	if err := q.DB.GetContext(ctx, &count, countPendingApprovalsQuery); err != nil {
		return 0, fmt.Errorf("failed to count pending approvals: %w", err)
	}
	return count, nil
}
