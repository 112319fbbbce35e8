/*-------------------------------------------------------------------------
 *
 * logger.go
 *    History log recording for entity mutations
 *
 * Every mutation attempt is recorded before the mutation is applied or
 * queued. When the requester holds approval privileges the entry is
 * resolved inline (approver = requester, details "Done with privileges");
 * otherwise it stays open until the pending approval is resolved.
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/audit/logger.go
 *
 *-------------------------------------------------------------------------
 */

package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/metrics"
)

/* DetailsPrivileged marks entries auto-resolved at submission time */
const DetailsPrivileged = "Done with privileges"

/* Logger records and resolves history log entries */
type Logger struct {
	queries *db.Queries
}

func NewLogger(queries *db.Queries) *Logger {
	return &Logger{queries: queries}
}

/* WithQueries rebinds the logger to another query set, typically one
 * bound to an open transaction. */
func (l *Logger) WithQueries(queries *db.Queries) *Logger {
	return &Logger{queries: queries}
}

/* LogAttempt records a mutation attempt and returns the new entry id.
 * Privileged attempts are resolved in the same insert. */
func (l *Logger) LogAttempt(ctx context.Context, requesterID int64, entity string, entityID *int64, action string, privileged bool) (int64, error) {
	entry := &db.HistoryLog{
		RequestedBy: requesterID,
		Entity:      entity,
		EntityID:    entityID,
		Action:      action,
	}
	if privileged {
		entry.ApprovedBy = &requesterID
		details := DetailsPrivileged
		entry.Details = &details
	}

	if err := l.queries.CreateHistoryLog(ctx, entry); err != nil {
		return 0, fmt.Errorf("history log insert failed: %w", err)
	}

	metrics.DebugWithContext(ctx, "History log recorded", map[string]interface{}{
		"history_log_id": entry.ID,
		"entity":         entity,
		"action":         action,
		"privileged":     privileged,
	})
	return entry.ID, nil
}

/* LogResolution closes an open entry with the approver's decision. When
 * logID is nil the latest unresolved entry for the entity/id pair is
 * resolved instead, covering rows queued before log linkage existed. */
func (l *Logger) LogResolution(ctx context.Context, logID *int64, entity string, entityID *int64, approverID int64, details string) error {
	id := int64(0)
	if logID != nil {
		id = *logID
	} else {
		entry, err := l.queries.FindUnresolvedHistoryLog(ctx, entity, entityID)
		if errors.Is(err, sql.ErrNoRows) {
			metrics.WarnWithContext(ctx, "No unresolved history log to close", map[string]interface{}{
				"entity":    entity,
				"entity_id": entityID,
			})
			return nil
		}
		if err != nil {
			return fmt.Errorf("unresolved history log lookup failed: %w", err)
		}
		id = entry.ID
	}

	if err := l.queries.ResolveHistoryLog(ctx, id, details, approverID); err != nil {
		return fmt.Errorf("history log resolution failed: %w", err)
	}
	return nil
}

/* Read APIs */

func (l *Logger) ListByEntity(ctx context.Context, entity string, entityID int64) ([]db.HistoryLog, error) {
	return l.queries.ListHistoryLogsByEntity(ctx, entity, entityID)
}

func (l *Logger) ListByRequester(ctx context.Context, requesterID int64) ([]db.HistoryLog, error) {
	return l.queries.ListHistoryLogsByRequester(ctx, requesterID)
}

func (l *Logger) ListByApprover(ctx context.Context, approverID int64) ([]db.HistoryLog, error) {
	return l.queries.ListHistoryLogsByApprover(ctx, approverID)
}

func (l *Logger) List(ctx context.Context, limit int) ([]db.HistoryLog, error) {
	return l.queries.ListHistoryLogs(ctx, limit)
}

func (l *Logger) Get(ctx context.Context, id int64) (*db.HistoryLog, error) {
	return l.queries.GetHistoryLog(ctx, id)
}
