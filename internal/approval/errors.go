/*-------------------------------------------------------------------------
 *
 * errors.go
 *    Sentinel errors for the approval workflow
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/approval/errors.go
 *
 *-------------------------------------------------------------------------
 */

package approval

import "errors"

var (
	/* ErrNotFound is returned when the pending approval does not exist */
	ErrNotFound = errors.New("pending approval not found")

	/* ErrDuplicateRequest is returned when an equivalent request is
	 * already pending for the same entity */
	ErrDuplicateRequest = errors.New("request already pending for this entity")

	/* ErrAlreadyResolved is returned when the pending approval was
	 * approved or rejected by a concurrent resolver */
	ErrAlreadyResolved = errors.New("pending approval already resolved")

	/* ErrForbidden is returned when the caller may not resolve the
	 * pending approval */
	ErrForbidden = errors.New("caller may not resolve this pending approval")

	/* ErrUnknownAction is returned for an action outside the workflow's
	 * action set */
	ErrUnknownAction = errors.New("unknown action")

	/* ErrReplayConflict is returned by entity handlers when the target
	 * state changed while the request was pending and the stored action
	 * can no longer be applied */
	ErrReplayConflict = errors.New("entity state conflicts with stored request")
)
