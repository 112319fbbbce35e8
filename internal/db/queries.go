/*-------------------------------------------------------------------------
 *
 * queries.go
 *    Database queries for warehouse-management
 *
 * Provides the Queries handle, transaction support, and query functions
 * for users and permission grants. Entity, approval, and history queries
 * live in their own files.
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/db/queries.go
 *
 *-------------------------------------------------------------------------
 */

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

/* DBTX is the query surface shared by *sqlx.DB and *sqlx.Tx, so the same
 * query functions run inside and outside a transaction. */
type DBTX interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

type Queries struct {
	DB   DBTX
	pool *sqlx.DB /* nil when tx-bound */
}

func NewQueries(db *sqlx.DB) *Queries {
	return &Queries{DB: db, pool: db}
}

/* WithTx returns a Queries bound to the given transaction */
func (q *Queries) WithTx(tx *sqlx.Tx) *Queries {
	return &Queries{DB: tx}
}

/* InTx runs fn inside a transaction with a tx-bound Queries. The transaction
 * commits when fn returns nil and rolls back otherwise. */
func (q *Queries) InTx(ctx context.Context, fn func(q *Queries) error) error {
	if q.pool == nil {
		/* Already tx-bound; nested transactions are not supported, reuse */
		return fn(q)
	}

	tx, err := q.pool.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(q.WithTx(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

/* IsUniqueViolation reports whether err is a PostgreSQL unique constraint
 * violation, optionally for a specific constraint name. */
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

/* User queries */
const (
	createUserQuery = `
		INSERT INTO users
		(employee_id, username, email, hashed_password, role, is_superuser, direct_manager_id, department_id,
		 is_approved, approval_status, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	getUserByIDQuery = `SELECT * FROM users WHERE id = $1`

	getUserByUsernameQuery = `SELECT * FROM users WHERE username = $1`

	listUsersQuery = `SELECT * FROM users WHERE is_active = TRUE ORDER BY username`
)

func (q *Queries) CreateUser(ctx context.Context, u *User) error {
	err := q.DB.GetContext(ctx, u, createUserQuery,
		u.EmployeeID, u.Username, u.Email, u.HashedPassword, u.Role, u.IsSuperuser,
		u.DirectManagerID, u.DepartmentID, u.IsApproved, u.ApprovalStatus, u.IsActive)
	if err != nil {
		return fmt.Errorf("user creation failed: %w", err)
	}
	return nil
}

func (q *Queries) GetUserByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := q.DB.GetContext(ctx, &u, getUserByIDQuery, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := q.DB.GetContext(ctx, &u, getUserByUsernameQuery, username)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (q *Queries) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := q.DB.SelectContext(ctx, &users, listUsersQuery); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

/* Permission queries */
const (
	createPermissionQuery = `
		INSERT INTO permissions (user_id, entity, entity_id, access_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	getPermissionQuery = `SELECT * FROM permissions WHERE id = $1`

	deletePermissionQuery = `DELETE FROM permissions WHERE id = $1`

	listPermissionsByUserQuery = `SELECT * FROM permissions WHERE user_id = $1`

	findPermissionQuery = `
		SELECT * FROM permissions
		WHERE user_id = $1 AND entity = $2 AND entity_id = $3 AND access_type = $4`

	listPermissionsByResourceQuery = `
		SELECT * FROM permissions
		WHERE (entity = $1 OR entity = '*')
		AND (entity_id = $2 OR entity_id = '*')`
)

func (q *Queries) CreatePermission(ctx context.Context, p *Permission) error {
	err := q.DB.GetContext(ctx, p, createPermissionQuery, p.UserID, p.Entity, p.EntityID, p.AccessType)
	if err != nil {
		return fmt.Errorf("permission creation failed: %w", err)
	}
	return nil
}

func (q *Queries) GetPermission(ctx context.Context, id int64) (*Permission, error) {
	var p Permission
	err := q.DB.GetContext(ctx, &p, getPermissionQuery, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("permission not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}
	return &p, nil
}

func (q *Queries) DeletePermission(ctx context.Context, id int64) error {
	result, err := q.DB.ExecContext(ctx, deletePermissionQuery, id)
	if err != nil {
		return fmt.Errorf("permission deletion failed: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (q *Queries) ListPermissionsByUser(ctx context.Context, userID int64) ([]Permission, error) {
	var perms []Permission
	if err := q.DB.SelectContext(ctx, &perms, listPermissionsByUserQuery, userID); err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return perms, nil
}

func (q *Queries) FindPermission(ctx context.Context, userID int64, entity, entityID, accessType string) (*Permission, error) {
	var p Permission
	err := q.DB.GetContext(ctx, &p, findPermissionQuery, userID, entity, entityID, accessType)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find permission: %w", err)
	}
	return &p, nil
}

func (q *Queries) ListPermissionsByResource(ctx context.Context, entity, entityID string) ([]Permission, error) {
	var perms []Permission
	if err := q.DB.SelectContext(ctx, &perms, listPermissionsByResourceQuery, entity, entityID); err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return perms, nil
}
