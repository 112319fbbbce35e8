/*-------------------------------------------------------------------------
 *
 * privilege.go
 *    Approval privilege predicate
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/auth/privilege.go
 *
 *-------------------------------------------------------------------------
 */

package auth

import (
	"context"
	"fmt"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
)

/* HasApprovalPrivilege reports whether the user may mutate entities without
 * going through the pending-approval workflow. Superusers, admins, and
 * users without a direct manager are privileged. */
func HasApprovalPrivilege(user *db.User) bool {
	if user == nil {
		return false
	}
	if user.IsSuperuser || user.Role == db.RoleAdmin {
		return true
	}
	return user.DirectManagerID == nil
}

/* HasApprovalPrivilegeByID loads the user and applies the predicate */
func HasApprovalPrivilegeByID(ctx context.Context, queries *db.Queries, userID int64) (bool, error) {
	user, err := queries.GetUserByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("privilege check failed: %w", err)
	}
	return HasApprovalPrivilege(user), nil
}
