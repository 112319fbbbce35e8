/*-------------------------------------------------------------------------
 *
 * models.go
 *    Database models for warehouse-management
 *
 * Defines data structures for users, permissions, pending approvals,
 * history logs, and the inventory entities (departments, items, locations,
 * warehouses, projects, stocks).
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/db/models.go
 *
 *-------------------------------------------------------------------------
 */

package db

import (
	"time"
)

/* User roles */
const (
	RoleNormal    = "normal"
	RoleAdmin     = "admin"
	RoleSuperuser = "superuser"
)

/* Approval statuses for pending approvals and entity lifecycle */
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

/* Action tags accepted by the pending-approval workflow */
const (
	ActionCreate          = "create"
	ActionUpdate          = "update"
	ActionSoftDelete      = "soft_delete"
	ActionDeletePermanent = "delete_permanent"
	ActionArchive         = "archive"
	ActionRestore         = "restore"
)

type User struct {
	ID              int64  `db:"id"`
	EmployeeID      *int64 `db:"employee_id"`
	Username        string `db:"username"`
	Email           string `db:"email"`
	HashedPassword  string `db:"hashed_password"`
	Role            string `db:"role"`
	IsSuperuser     bool   `db:"is_superuser"`
	DirectManagerID *int64 `db:"direct_manager_id"`
	DepartmentID    *int64 `db:"department_id"`
	Lifecycle
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

/* Permission is an immutable grant tuple. EntityID is stored as text so a
 * literal "*" wildcard and numeric ids share one column. */
type Permission struct {
	ID         int64  `db:"id"`
	UserID     int64  `db:"user_id"`
	Entity     string `db:"entity"`
	EntityID   string `db:"entity_id"`
	AccessType string `db:"access_type"`
}

/* PendingApproval represents one proposed mutation awaiting a decision */
type PendingApproval struct {
	ID             int64      `db:"id"`
	Entity         string     `db:"entity"`
	EntityID       *int64     `db:"entity_id"`
	Action         string     `db:"action"`
	NewValue       JSONBMap   `db:"new_value"`
	RequestedBy    int64      `db:"requested_by"`
	RequestedAt    time.Time  `db:"requested_at"`
	ApprovedBy     *int64     `db:"approved_by"`
	ApprovedAt     *time.Time `db:"approved_at"`
	ApprovalStatus string     `db:"approval_status"`
	HistoryLogID   *int64     `db:"history_log_id"`
}

/* HistoryLog is an append-only audit record. An entry is written at request
 * time and updated at most once with the resolution fields. */
type HistoryLog struct {
	ID          int64      `db:"id"`
	Entity      string     `db:"entity"`
	EntityID    *int64     `db:"entity_id"`
	Metadata    JSONBMap   `db:"entity_metadata"`
	Action      string     `db:"action"`
	Details     *string    `db:"details"`
	RequestedBy int64      `db:"requested_by"`
	RequestAt   time.Time  `db:"request_at"`
	ApprovedBy  *int64     `db:"approved_by"`
	ApprovalAt  *time.Time `db:"approval_at"`
}

/* Lifecycle carries the shared approval/archive/soft-delete columns every
 * inventory entity has */
type Lifecycle struct {
	IsApproved     bool       `db:"is_approved"`
	ApprovalStatus string     `db:"approval_status"`
	IsArchived     bool       `db:"is_archived"`
	ArchivedAt     *time.Time `db:"archived_at"`
	ArchivedBy     *int64     `db:"archived_by"`
	IsDeleted      bool       `db:"is_deleted"`
	DeletedAt      *time.Time `db:"deleted_at"`
	DeletedBy      *int64     `db:"deleted_by"`
	IsActive       bool       `db:"is_active"`
}

type Department struct {
	ID              int64  `db:"id"`
	Name            string `db:"name"`
	ManagerID       *int64 `db:"manager_id"`
	DeputyManagerID *int64 `db:"deputy_manager_id"`
	Lifecycle
	CreatedAt time.Time  `db:"created_at"`
	CreatedBy *int64     `db:"created_by"`
	UpdatedAt *time.Time `db:"updated_at"`
	UpdatedBy *int64     `db:"updated_by"`
}

type Item struct {
	ID            int64   `db:"id"`
	ItemCode      string  `db:"item_code"`
	Description   *string `db:"description"`
	Photo         *string `db:"photo"`
	UnitOfMeasure string  `db:"unit_of_measure"`
	Lifecycle
	CreatedAt time.Time  `db:"created_at"`
	CreatedBy *int64     `db:"created_by"`
	UpdatedAt *time.Time `db:"updated_at"`
	UpdatedBy *int64     `db:"updated_by"`
}

type Location struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Lifecycle
	CreatedAt time.Time  `db:"created_at"`
	CreatedBy *int64     `db:"created_by"`
	UpdatedAt *time.Time `db:"updated_at"`
	UpdatedBy *int64     `db:"updated_by"`
}

type Warehouse struct {
	ID          int64    `db:"id"`
	Name        string   `db:"name"`
	LocationID  int64    `db:"location_id"`
	Capacity    *float64 `db:"capacity"`
	Description *string  `db:"description"`
	Lifecycle
	CreatedAt time.Time  `db:"created_at"`
	CreatedBy *int64     `db:"created_by"`
	UpdatedAt *time.Time `db:"updated_at"`
	UpdatedBy *int64     `db:"updated_by"`
}

type Project struct {
	ID         int64  `db:"id"`
	Name       string `db:"name"`
	LocationID int64  `db:"location_id"`
	Lifecycle
	CreatedAt time.Time  `db:"created_at"`
	CreatedBy *int64     `db:"created_by"`
	UpdatedAt *time.Time `db:"updated_at"`
	UpdatedBy *int64     `db:"updated_by"`
}

/* Stock ties an item quantity to either a warehouse or a project, never both */
type Stock struct {
	ID          int64   `db:"id"`
	ItemID      int64   `db:"item_id"`
	ProjectID   *int64  `db:"project_id"`
	WarehouseID *int64  `db:"warehouse_id"`
	Quantity    float64 `db:"quantity"`
	Lifecycle
	LastUpdated time.Time  `db:"last_updated"`
	CreatedAt   time.Time  `db:"created_at"`
	CreatedBy   *int64     `db:"created_by"`
	UpdatedAt   *time.Time `db:"updated_at"`
	UpdatedBy   *int64     `db:"updated_by"`
}

/* ArchivedEntity is the cross-entity row shape returned by the restore surface */
type ArchivedEntity struct {
	EntityType string `db:"entity_type"`
	EntityID   int64  `db:"entity_id"`
	Name       string `db:"name"`
	IsArchived bool   `db:"is_archived"`
	IsDeleted  bool   `db:"is_deleted"`
}
