/*-------------------------------------------------------------------------
 *
 * common_test.go
 *    Tests for request validation helpers
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/validation/common_test.go
 *
 *-------------------------------------------------------------------------
 */

package validation

import "testing"

func TestValidateUsername(t *testing.T) {
	valid := []string{"alice", "bob.smith", "user_42", "a-b-c"}
	invalid := []string{"", "ab", "has space", "bad@name", "x"}

	for _, u := range valid {
		if err := ValidateUsername(u); err != nil {
			t.Errorf("ValidateUsername(%q) unexpected error: %v", u, err)
		}
	}
	for _, u := range invalid {
		if err := ValidateUsername(u); err == nil {
			t.Errorf("ValidateUsername(%q) expected error", u)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("alice@example.com"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, e := range []string{"", "plain", "a@b", "a b@c.com"} {
		if err := ValidateEmail(e); err == nil {
			t.Errorf("ValidateEmail(%q) expected error", e)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("short"); err == nil {
		t.Error("expected error for short password")
	}
	if err := ValidatePassword("long-enough-password"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateEntityName(t *testing.T) {
	for _, e := range []string{"items", "pending_approvals", "history_logs"} {
		if err := ValidateEntityName(e); err != nil {
			t.Errorf("ValidateEntityName(%q) unexpected error: %v", e, err)
		}
	}
	for _, e := range []string{"", "Items", "items2", "items-x"} {
		if err := ValidateEntityName(e); err == nil {
			t.Errorf("ValidateEntityName(%q) expected error", e)
		}
	}
}

func TestValidateAccessType(t *testing.T) {
	known := map[string]bool{"read": true, "write": true}

	if err := ValidateAccessType("read", known); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateAccessType("*", known); err != nil {
		t.Errorf("wildcard should validate: %v", err)
	}
	if err := ValidateAccessType("fly", known); err == nil {
		t.Error("expected error for unknown access type")
	}
}

func TestValidatePagination(t *testing.T) {
	tests := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{0, 0, 100, 0},
		{-5, -1, 100, 0},
		{50, 20, 50, 20},
		{1000, 5, 100, 5},
	}

	for _, tt := range tests {
		limit, offset := ValidatePagination(tt.limit, tt.offset)
		if limit != tt.wantLimit || offset != tt.wantOffset {
			t.Errorf("ValidatePagination(%d, %d) = (%d, %d), want (%d, %d)",
				tt.limit, tt.offset, limit, offset, tt.wantLimit, tt.wantOffset)
		}
	}
}
