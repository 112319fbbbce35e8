/*-------------------------------------------------------------------------
 *
 * common.go
 *    Request validation helpers
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/validation/common.go
 *
 *-------------------------------------------------------------------------
 */

package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,64}$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	entityPattern   = regexp.MustCompile(`^[a-z_]+$`)
)

func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username must be 3-64 characters of letters, digits, '_', '.', or '-'")
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

func ValidateEntityName(entity string) error {
	if entity == "" {
		return fmt.Errorf("entity is required")
	}
	if !entityPattern.MatchString(entity) {
		return fmt.Errorf("invalid entity name: %s", entity)
	}
	return nil
}

/* ValidateAccessType accepts a known access kind or the wildcard */
func ValidateAccessType(accessType string, known map[string]bool) error {
	if accessType == "*" {
		return nil
	}
	if !known[strings.ToLower(accessType)] {
		return fmt.Errorf("invalid access type: %s", accessType)
	}
	return nil
}

func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

/* ValidatePagination clamps limit and offset to sane bounds */
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
