/*-------------------------------------------------------------------------
 *
 * history_queries.go
 *    Database queries for history logs
 *
 * History logs are append-only. An entry is inserted at request time and
 * receives a single resolution update (approver, time, details) when the
 * action is decided; nothing is ever deleted.
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/db/history_queries.go
 *
 *-------------------------------------------------------------------------
 */

package db

import (
	"context"
	"database/sql"
	"fmt"
)

/* History log queries */
const (
	createHistoryLogQuery = `
		INSERT INTO history_logs
		(entity, entity_id, entity_metadata, action, requested_by, request_at,
		 details, approved_by, approval_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), $6, $7,
		        CASE WHEN $7::bigint IS NULL THEN NULL ELSE NOW() END)
		RETURNING id, request_at`

	getHistoryLogQuery = `SELECT * FROM history_logs WHERE id = $1`

	resolveHistoryLogQuery = `
		UPDATE history_logs
		SET details = $2, approved_by = $3, approval_at = NOW()
		WHERE id = $1
		RETURNING approval_at`

	findUnresolvedHistoryLogQuery = `
		SELECT * FROM history_logs
		WHERE entity = $1
		AND ($2::bigint IS NULL OR entity_id = $2)
		AND approved_by IS NULL
		ORDER BY request_at DESC
		LIMIT 1`

	listHistoryLogsByEntityQuery = `
		SELECT * FROM history_logs
		WHERE entity = $1 AND entity_id = $2
		ORDER BY request_at DESC`

	listHistoryLogsByRequesterQuery = `
		SELECT * FROM history_logs
		WHERE requested_by = $1
		ORDER BY request_at DESC`

	listHistoryLogsByApproverQuery = `
		SELECT * FROM history_logs
		WHERE approved_by = $1
		ORDER BY request_at DESC`

	listHistoryLogsQuery = `
		SELECT * FROM history_logs
		ORDER BY request_at DESC
		LIMIT $1`
)

/* CreateHistoryLog inserts the attempt row. Entries carrying an approver
 * are stamped resolved in the same insert. */
func (q *Queries) CreateHistoryLog(ctx context.Context, h *HistoryLog) error {
	err := q.DB.GetContext(ctx, h, createHistoryLogQuery,
		h.Entity, h.EntityID, h.Metadata, h.Action, h.RequestedBy,
		h.Details, h.ApprovedBy)
	if err != nil {
		return fmt.Errorf("history log creation failed: %w", err)
	}
	return nil
}

func (q *Queries) GetHistoryLog(ctx context.Context, id int64) (*HistoryLog, error) {
	var h HistoryLog
	err := q.DB.GetContext(ctx, &h, getHistoryLogQuery, id)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get history log: %w", err)
	}
	return &h, nil
}

/* ResolveHistoryLog applies the one-shot resolution update */
func (q *Queries) ResolveHistoryLog(ctx context.Context, id int64, details string, approverID int64) error {
	var approvalAt sql.NullTime
	err := q.DB.GetContext(ctx, &approvalAt, resolveHistoryLogQuery, id, details, approverID)
	if err == sql.ErrNoRows {
		return err
	}
	if err != nil {
		return fmt.Errorf("history log resolution failed: %w", err)
	}
	return nil
}

/* FindUnresolvedHistoryLog is the fallback lookup for resolutions that do
 * not carry an explicit log id. Returns the latest unresolved attempt for
 * the entity. */
func (q *Queries) FindUnresolvedHistoryLog(ctx context.Context, entity string, entityID *int64) (*HistoryLog, error) {
	var h HistoryLog
	err := q.DB.GetContext(ctx, &h, findUnresolvedHistoryLogQuery, entity, entityID)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find unresolved history log: %w", err)
	}
	return &h, nil
}

func (q *Queries) ListHistoryLogsByEntity(ctx context.Context, entity string, entityID int64) ([]HistoryLog, error) {
	var logs []HistoryLog
	if err := q.DB.SelectContext(ctx, &logs, listHistoryLogsByEntityQuery, entity, entityID); err != nil {
		return nil, fmt.Errorf("failed to list history logs: %w", err)
	}
	return logs, nil
}

func (q *Queries) ListHistoryLogsByRequester(ctx context.Context, userID int64) ([]HistoryLog, error) {
	var logs []HistoryLog
	if err := q.DB.SelectContext(ctx, &logs, listHistoryLogsByRequesterQuery, userID); err != nil {
		return nil, fmt.Errorf("failed to list history logs: %w", err)
	}
	return logs, nil
}

func (q *Queries) ListHistoryLogsByApprover(ctx context.Context, userID int64) ([]HistoryLog, error) {
	var logs []HistoryLog
	if err := q.DB.SelectContext(ctx, &logs, listHistoryLogsByApproverQuery, userID); err != nil {
		return nil, fmt.Errorf("failed to list history logs: %w", err)
	}
	return logs, nil
}

func (q *Queries) ListHistoryLogs(ctx context.Context, limit int) ([]HistoryLog, error) {
	var logs []HistoryLog
	if err := q.DB.SelectContext(ctx, &logs, listHistoryLogsQuery, limit); err != nil {
		return nil, fmt.Errorf("failed to list history logs: %w", err)
	}
	return logs, nil
}
