/*-------------------------------------------------------------------------
 *
 * privilege_test.go
 *    Tests for the approval privilege predicate
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/auth/privilege_test.go
 *
 *-------------------------------------------------------------------------
 */

package auth

import (
	"testing"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
)

func TestHasApprovalPrivilege(t *testing.T) {
	manager := int64(7)

	tests := []struct {
		name string
		user *db.User
		want bool
	}{
		{"nil user", nil, false},
		{"superuser", &db.User{IsSuperuser: true, Role: db.RoleNormal, DirectManagerID: &manager}, true},
		{"admin role", &db.User{Role: db.RoleAdmin, DirectManagerID: &manager}, true},
		{"no direct manager", &db.User{Role: db.RoleNormal}, true},
		{"normal with manager", &db.User{Role: db.RoleNormal, DirectManagerID: &manager}, false},
		{"superuser without manager", &db.User{IsSuperuser: true, Role: db.RoleSuperuser}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasApprovalPrivilege(tt.user); got != tt.want {
				t.Errorf("HasApprovalPrivilege() = %v, want %v", got, tt.want)
			}
		})
	}
}
