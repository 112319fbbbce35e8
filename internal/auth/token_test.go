/*-------------------------------------------------------------------------
 *
 * token_test.go
 *    Tests for JWT issuance and validation
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/auth/token_test.go
 *
 *-------------------------------------------------------------------------
 */

package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	token, err := manager.Generate(42, "alice", "normal")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("Username = %q, want alice", claims.Username)
	}
	if claims.Role != "normal" {
		t.Errorf("Role = %q, want normal", claims.Role)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Generate(1, "bob", "admin")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if _, err := NewTokenManager("secret-b", time.Hour).Validate(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenExpired(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Millisecond)

	token, err := manager.Generate(1, "bob", "normal")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if _, err := manager.Validate(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)
	if _, err := manager.Validate("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2-long-enough")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}

	if !CheckPassword(hash, "hunter2-long-enough") {
		t.Error("expected correct password to verify")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Error("expected wrong password to fail")
	}
}
