/*-------------------------------------------------------------------------
 *
 * evaluator_test.go
 *    Tests for access control evaluation
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/auth/evaluator_test.go
 *
 *-------------------------------------------------------------------------
 */

package auth

import (
	"testing"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
)

func grant(entity, entityID, accessType string) db.Permission {
	return db.Permission{UserID: 1, Entity: entity, EntityID: entityID, AccessType: accessType}
}

func TestMatchGrant(t *testing.T) {
	tests := []struct {
		name       string
		grant      db.Permission
		entity     string
		entityID   string
		accessKind string
		verbMode   bool
		want       bool
	}{
		{"exact match", grant("items", "5", "read"), "items", "5", "read", false, true},
		{"wrong entity", grant("items", "5", "read"), "warehouses", "5", "read", false, false},
		{"wrong entity id", grant("items", "5", "read"), "items", "6", "read", false, false},
		{"wrong access kind", grant("items", "5", "read"), "items", "5", "write", false, false},
		{"entity wildcard", grant("*", "5", "read"), "items", "5", "read", false, true},
		{"entity id wildcard", grant("items", "*", "read"), "items", "99", "read", false, true},
		{"access wildcard", grant("items", "5", "*"), "items", "5", "delete", false, true},
		{"full wildcard", grant("*", "*", "*"), "stocks", "12", "manage", false, true},
		{"wildcard excludes users", grant("*", "*", "*"), "users", "1", "read", false, false},
		{"wildcard excludes permissions", grant("*", "*", "*"), "permissions", "*", "read", false, false},
		{"wildcard excludes pending approvals", grant("*", "*", "*"), "pending_approvals", "*", "read", false, false},
		{"wildcard excludes history logs", grant("*", "*", "*"), "history_logs", "*", "read", false, false},
		{"wildcard excludes restore", grant("*", "*", "*"), "restore", "*", "read", false, false},
		{"wildcard excludes departments", grant("*", "*", "read"), "departments", "2", "read", false, false},
		{"explicit admin entity grant", grant("users", "*", "read"), "users", "7", "read", false, true},
		{"verb mode read covers get", grant("items", "*", "read"), "items", "5", "GET", true, true},
		{"verb mode read rejects post", grant("items", "*", "read"), "items", "5", "POST", true, false},
		{"verb mode write covers put", grant("items", "*", "write"), "items", "5", "PUT", true, true},
		{"verb mode manage covers delete", grant("items", "*", "manage"), "items", "5", "DELETE", true, true},
		{"verb mode access wildcard", grant("items", "*", "*"), "items", "5", "DELETE", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchGrant(tt.grant, tt.entity, tt.entityID, tt.accessKind, tt.verbMode)
			if got != tt.want {
				t.Errorf("MatchGrant() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerbSatisfies(t *testing.T) {
	tests := []struct {
		accessType string
		verb       string
		want       bool
	}{
		{AccessRead, "get", true},
		{AccessRead, "GET", true},
		{AccessRead, "post", false},
		{AccessWrite, "post", true},
		{AccessWrite, "put", true},
		{AccessWrite, "patch", true},
		{AccessWrite, "delete", false},
		{AccessDelete, "delete", true},
		{AccessDelete, "get", false},
		{AccessCreate, "post", true},
		{AccessCreate, "put", false},
		{AccessManage, "get", true},
		{AccessManage, "post", true},
		{AccessManage, "put", true},
		{AccessManage, "patch", true},
		{AccessManage, "delete", true},
		{AccessAssign, "post", true},
		{AccessAssign, "put", true},
		{AccessAssign, "get", false},
		{AccessExport, "get", true},
		{AccessExport, "post", false},
		{AccessApprove, "put", true},
		{AccessRevoke, "post", true},
		{AccessArchive, "put", true},
		{AccessRestore, "post", true},
		{AccessShare, "put", true},
		{AccessExecute, "patch", true},
		{AccessExecute, "delete", false},
		{Wildcard, "delete", true},
		{Wildcard, "get", true},
		{"bogus", "get", false},
	}

	for _, tt := range tests {
		t.Run(tt.accessType+"_"+tt.verb, func(t *testing.T) {
			if got := VerbSatisfies(tt.accessType, tt.verb); got != tt.want {
				t.Errorf("VerbSatisfies(%q, %q) = %v, want %v", tt.accessType, tt.verb, got, tt.want)
			}
		})
	}
}

func TestResourceFromPath(t *testing.T) {
	tests := []struct {
		path       string
		wantEntity string
		wantID     string
	}{
		{"/api/v1/items/5", "items", "5"},
		{"/api/v1/items", "items", "*"},
		{"/api/v1/items/5/archive", "items", "5"},
		{"/api/v1/pending_approvals/3/approve", "pending_approvals", "3"},
		{"/items/12", "items", "12"},
		{"/api/v1/permissions/user/4", "permissions", "*"},
		{"/", "*", "*"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			entity, entityID := ResourceFromPath(tt.path)
			if entity != tt.wantEntity || entityID != tt.wantID {
				t.Errorf("ResourceFromPath(%q) = (%q, %q), want (%q, %q)",
					tt.path, entity, entityID, tt.wantEntity, tt.wantID)
			}
		})
	}
}

func TestIsAdministrativeEntity(t *testing.T) {
	for _, entity := range []string{"users", "departments", "permissions", "pending_approvals", "history_logs", "restore"} {
		if !IsAdministrativeEntity(entity) {
			t.Errorf("expected %q to be administrative", entity)
		}
	}
	for _, entity := range []string{"items", "warehouses", "projects", "stocks", "locations"} {
		if IsAdministrativeEntity(entity) {
			t.Errorf("did not expect %q to be administrative", entity)
		}
	}
}
