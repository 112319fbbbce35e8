/*-------------------------------------------------------------------------
 *
 * entity_queries.go
 *    Database queries for inventory entities
 *
 * Provides per-entity creation and lookup queries plus the shared lifecycle
 * operations (soft delete, archive, restore, permanent delete) and the
 * column-wise update used by approval replay. Lifecycle operations are
 * generic over a whitelist of entity tables; everything else is static SQL.
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/db/entity_queries.go
 *
 *-------------------------------------------------------------------------
 */

package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

/* entityTables maps entity-type names to their table names. Only names in
 * this map ever reach a SQL string. */
var entityTables = map[string]string{
	"user":       "users",
	"department": "departments",
	"item":       "items",
	"location":   "locations",
	"warehouse":  "warehouses",
	"project":    "projects",
	"stock":      "stocks",
}

/* updatableColumns whitelists the columns approval replay may overwrite */
var updatableColumns = map[string]map[string]bool{
	"user":       {"employee_id": true, "username": true, "email": true, "role": true, "direct_manager_id": true, "department_id": true},
	"department": {"name": true, "manager_id": true, "deputy_manager_id": true},
	"item":       {"item_code": true, "description": true, "photo": true, "unit_of_measure": true},
	"location":   {"name": true},
	"warehouse":  {"name": true, "location_id": true, "capacity": true, "description": true},
	"project":    {"name": true, "location_id": true},
	"stock":      {"item_id": true, "project_id": true, "warehouse_id": true, "quantity": true},
}

/* EntityTable resolves an entity-type name to its table, reporting whether
 * the type is known. */
func EntityTable(entity string) (string, bool) {
	table, ok := entityTables[entity]
	return table, ok
}

func (q *Queries) lifecycleExec(ctx context.Context, entity string, id int64, query string, args ...interface{}) error {
	result, err := q.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s lifecycle update failed: %w", entity, err)
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

/* SoftDeleteEntity marks the row deleted and inactive. actorID may be nil
 * when no authenticated actor is attached to the operation. */
func (q *Queries) SoftDeleteEntity(ctx context.Context, entity string, id int64, actorID *int64) error {
	table, ok := EntityTable(entity)
	if !ok {
		return fmt.Errorf("unknown entity table: %s", entity)
	}
	query := fmt.Sprintf(`UPDATE %s
		SET is_deleted = TRUE, is_active = FALSE, deleted_at = NOW(), deleted_by = $2
		WHERE id = $1`, table)
	return q.lifecycleExec(ctx, entity, id, query, id, actorID)
}

/* ArchiveEntity marks the row archived and inactive */
func (q *Queries) ArchiveEntity(ctx context.Context, entity string, id int64, actorID *int64) error {
	table, ok := EntityTable(entity)
	if !ok {
		return fmt.Errorf("unknown entity table: %s", entity)
	}
	query := fmt.Sprintf(`UPDATE %s
		SET is_archived = TRUE, is_active = FALSE, archived_at = NOW(), archived_by = $2
		WHERE id = $1`, table)
	return q.lifecycleExec(ctx, entity, id, query, id, actorID)
}

/* RestoreEntity clears deletion and archive flags and reactivates the row */
func (q *Queries) RestoreEntity(ctx context.Context, entity string, id int64) error {
	table, ok := EntityTable(entity)
	if !ok {
		return fmt.Errorf("unknown entity table: %s", entity)
	}
	query := fmt.Sprintf(`UPDATE %s
		SET is_deleted = FALSE, is_archived = FALSE, is_active = TRUE,
		    deleted_at = NULL, deleted_by = NULL, archived_at = NULL, archived_by = NULL
		WHERE id = $1`, table)
	return q.lifecycleExec(ctx, entity, id, query, id)
}

/* DeleteEntityPermanent removes the row outright */
func (q *Queries) DeleteEntityPermanent(ctx context.Context, entity string, id int64) error {
	table, ok := EntityTable(entity)
	if !ok {
		return fmt.Errorf("unknown entity table: %s", entity)
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table)
	return q.lifecycleExec(ctx, entity, id, query, id)
}

/* UpdateEntityColumns overwrites the whitelisted columns present in the
 * payload. Replay applies the full recorded payload, so fields the payload
 * carries win over any concurrent edits. */
func (q *Queries) UpdateEntityColumns(ctx context.Context, entity string, id int64, payload JSONBMap) error {
	table, ok := EntityTable(entity)
	if !ok {
		return fmt.Errorf("unknown entity table: %s", entity)
	}
	allowed := updatableColumns[entity]

	cols := make([]string, 0, len(payload))
	for col := range payload {
		if allowed[col] {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		return fmt.Errorf("no updatable columns in payload for %s", entity)
	}
	sort.Strings(cols)

	setClauses := make([]string, 0, len(cols)+1)
	args := make([]interface{}, 0, len(cols)+1)
	args = append(args, id)
	for i, col := range cols {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i+2))
		args = append(args, payload[col])
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $1`, table, strings.Join(setClauses, ", "))
	return q.lifecycleExec(ctx, entity, id, query, args...)
}

/* EntityExistsActive reports whether an active row with the id exists */
func (q *Queries) EntityExistsActive(ctx context.Context, entity string, id int64) (bool, error) {
	table, ok := EntityTable(entity)
	if !ok {
		return false, fmt.Errorf("unknown entity table: %s", entity)
	}
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1 AND is_active = TRUE)`, table)
	if err := q.DB.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("existence check failed: %w", err)
	}
	return exists, nil
}

/* ListArchivedEntities returns archived or soft-deleted rows for the restore
 * surface. An empty entity lists across every entity table. */
func (q *Queries) ListArchivedEntities(ctx context.Context, entity string, limit, offset int) ([]ArchivedEntity, error) {
	nameExpr := map[string]string{
		"user":       "username",
		"department": "name",
		"item":       "item_code",
		"location":   "name",
		"warehouse":  "name",
		"project":    "name",
		"stock":      "CAST(id AS text)",
	}

	types := make([]string, 0, len(entityTables))
	if entity != "" {
		if _, ok := EntityTable(entity); !ok {
			return nil, fmt.Errorf("unknown entity table: %s", entity)
		}
		types = append(types, entity)
	} else {
		for e := range entityTables {
			types = append(types, e)
		}
		sort.Strings(types)
	}

	selects := make([]string, 0, len(types))
	for _, e := range types {
		selects = append(selects, fmt.Sprintf(
			`SELECT '%s' AS entity_type, id AS entity_id, %s AS name, is_archived, is_deleted
			 FROM %s WHERE is_archived = TRUE OR is_deleted = TRUE`,
			e, nameExpr[e], entityTables[e]))
	}
	query := strings.Join(selects, " UNION ALL ") +
		fmt.Sprintf(" ORDER BY entity_type, entity_id LIMIT %d OFFSET %d", limit, offset)

	var rows []ArchivedEntity
	if err := q.DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list archived entities: %w", err)
	}
	return rows, nil
}

/* Department queries */
const (
	createDepartmentQuery = `
		INSERT INTO departments
		(name, manager_id, deputy_manager_id, is_approved, approval_status, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	getDepartmentByIDQuery   = `SELECT * FROM departments WHERE id = $1`
	getDepartmentByNameQuery = `SELECT * FROM departments WHERE name = $1`
	listDepartmentsQuery     = `SELECT * FROM departments WHERE is_active = TRUE ORDER BY name`
)

func (q *Queries) CreateDepartment(ctx context.Context, d *Department) error {
	err := q.DB.GetContext(ctx, d, createDepartmentQuery,
		d.Name, d.ManagerID, d.DeputyManagerID, d.IsApproved, d.ApprovalStatus, d.IsActive, d.CreatedBy)
	if err != nil {
		return fmt.Errorf("department creation failed: %w", err)
	}
	return nil
}

func (q *Queries) GetDepartmentByID(ctx context.Context, id int64) (*Department, error) {
	var d Department
	err := q.DB.GetContext(ctx, &d, getDepartmentByIDQuery, id)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return &d, nil
}

func (q *Queries) GetDepartmentByName(ctx context.Context, name string) (*Department, error) {
	var d Department
	err := q.DB.GetContext(ctx, &d, getDepartmentByNameQuery, name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return &d, nil
}

func (q *Queries) ListDepartments(ctx context.Context) ([]Department, error) {
	var departments []Department
	if err := q.DB.SelectContext(ctx, &departments, listDepartmentsQuery); err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

/* Item queries */
const (
	createItemQuery = `
		INSERT INTO items
		(item_code, description, photo, unit_of_measure, is_approved, approval_status, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	getItemByIDQuery   = `SELECT * FROM items WHERE id = $1`
	getItemByCodeQuery = `SELECT * FROM items WHERE item_code = $1`
	listItemsQuery     = `SELECT * FROM items WHERE is_active = TRUE ORDER BY item_code`
)

func (q *Queries) CreateItem(ctx context.Context, i *Item) error {
	err := q.DB.GetContext(ctx, i, createItemQuery,
		i.ItemCode, i.Description, i.Photo, i.UnitOfMeasure, i.IsApproved, i.ApprovalStatus, i.IsActive, i.CreatedBy)
	if err != nil {
		return fmt.Errorf("item creation failed: %w", err)
	}
	return nil
}

func (q *Queries) GetItemByID(ctx context.Context, id int64) (*Item, error) {
	var i Item
	err := q.DB.GetContext(ctx, &i, getItemByIDQuery, id)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &i, nil
}

func (q *Queries) GetItemByCode(ctx context.Context, code string) (*Item, error) {
	var i Item
	err := q.DB.GetContext(ctx, &i, getItemByCodeQuery, code)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &i, nil
}

func (q *Queries) ListItems(ctx context.Context) ([]Item, error) {
	var items []Item
	if err := q.DB.SelectContext(ctx, &items, listItemsQuery); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

/* Location queries */
const (
	createLocationQuery = `
		INSERT INTO locations
		(name, is_approved, approval_status, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	getLocationByIDQuery   = `SELECT * FROM locations WHERE id = $1`
	getLocationByNameQuery = `SELECT * FROM locations WHERE name = $1`
	listLocationsQuery     = `SELECT * FROM locations WHERE is_active = TRUE ORDER BY name`
)

func (q *Queries) CreateLocation(ctx context.Context, l *Location) error {
	err := q.DB.GetContext(ctx, l, createLocationQuery,
		l.Name, l.IsApproved, l.ApprovalStatus, l.IsActive, l.CreatedBy)
	if err != nil {
		return fmt.Errorf("location creation failed: %w", err)
	}
	return nil
}

func (q *Queries) GetLocationByID(ctx context.Context, id int64) (*Location, error) {
	var l Location
	err := q.DB.GetContext(ctx, &l, getLocationByIDQuery, id)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	return &l, nil
}

func (q *Queries) GetLocationByName(ctx context.Context, name string) (*Location, error) {
	var l Location
	err := q.DB.GetContext(ctx, &l, getLocationByNameQuery, name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	return &l, nil
}

func (q *Queries) ListLocations(ctx context.Context) ([]Location, error) {
	var locations []Location
	if err := q.DB.SelectContext(ctx, &locations, listLocationsQuery); err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

/* Warehouse queries */
const (
	createWarehouseQuery = `
		INSERT INTO warehouses
		(name, location_id, capacity, description, is_approved, approval_status, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	getWarehouseByIDQuery   = `SELECT * FROM warehouses WHERE id = $1`
	getWarehouseByNameQuery = `SELECT * FROM warehouses WHERE name = $1`
	listWarehousesQuery     = `SELECT * FROM warehouses WHERE is_active = TRUE ORDER BY name`

	listWarehousesByLocationQuery = `
		SELECT * FROM warehouses
		WHERE location_id = $1 AND is_active = TRUE
		ORDER BY name`
)

func (q *Queries) CreateWarehouse(ctx context.Context, w *Warehouse) error {
	err := q.DB.GetContext(ctx, w, createWarehouseQuery,
		w.Name, w.LocationID, w.Capacity, w.Description, w.IsApproved, w.ApprovalStatus, w.IsActive, w.CreatedBy)
	if err != nil {
		return fmt.Errorf("warehouse creation failed: %w", err)
	}
	return nil
}

func (q *Queries) GetWarehouseByID(ctx context.Context, id int64) (*Warehouse, error) {
	var w Warehouse
	err := q.DB.GetContext(ctx, &w, getWarehouseByIDQuery, id)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get warehouse: %w", err)
	}
	return &w, nil
}

func (q *Queries) GetWarehouseByName(ctx context.Context, name string) (*Warehouse, error) {
	var w Warehouse
	err := q.DB.GetContext(ctx, &w, getWarehouseByNameQuery, name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get warehouse: %w", err)
	}
	return &w, nil
}

func (q *Queries) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	var warehouses []Warehouse
	if err := q.DB.SelectContext(ctx, &warehouses, listWarehousesQuery); err != nil {
		return nil, fmt.Errorf("failed to list warehouses: %w", err)
	}
	return warehouses, nil
}

func (q *Queries) ListWarehousesByLocation(ctx context.Context, locationID int64) ([]Warehouse, error) {
	var warehouses []Warehouse
	if err := q.DB.SelectContext(ctx, &warehouses, listWarehousesByLocationQuery, locationID); err != nil {
		return nil, fmt.Errorf("failed to list warehouses: %w", err)
	}
	return warehouses, nil
}

/* Project queries */
const (
	createProjectQuery = `
		INSERT INTO projects
		(name, location_id, is_approved, approval_status, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	getProjectByIDQuery = `SELECT * FROM projects WHERE id = $1`

	getProjectByNameAndLocationQuery = `
		SELECT * FROM projects WHERE name = $1 AND location_id = $2`

	getProjectByNameQuery = `SELECT * FROM projects WHERE name = $1`

	listProjectsQuery = `SELECT * FROM projects WHERE is_active = TRUE ORDER BY name`

	listProjectsByLocationQuery = `
		SELECT * FROM projects
		WHERE location_id = $1 AND is_active = TRUE
		ORDER BY name`
)

func (q *Queries) CreateProject(ctx context.Context, p *Project) error {
	err := q.DB.GetContext(ctx, p, createProjectQuery,
		p.Name, p.LocationID, p.IsApproved, p.ApprovalStatus, p.IsActive, p.CreatedBy)
	if err != nil {
		return fmt.Errorf("project creation failed: %w", err)
	}
	return nil
}

func (q *Queries) GetProjectByID(ctx context.Context, id int64) (*Project, error) {
	var p Project
	err := q.DB.GetContext(ctx, &p, getProjectByIDQuery, id)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

func (q *Queries) GetProjectByNameAndLocation(ctx context.Context, name string, locationID int64) (*Project, error) {
	var p Project
	err := q.DB.GetContext(ctx, &p, getProjectByNameAndLocationQuery, name, locationID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

func (q *Queries) GetProjectByName(ctx context.Context, name string) (*Project, error) {
	var p Project
	err := q.DB.GetContext(ctx, &p, getProjectByNameQuery, name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

func (q *Queries) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := q.DB.SelectContext(ctx, &projects, listProjectsQuery); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (q *Queries) ListProjectsByLocation(ctx context.Context, locationID int64) ([]Project, error) {
	var projects []Project
	if err := q.DB.SelectContext(ctx, &projects, listProjectsByLocationQuery, locationID); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

/* Stock queries */
const (
	createStockQuery = `
		INSERT INTO stocks
		(item_id, project_id, warehouse_id, quantity, is_approved, approval_status, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, last_updated`

	getStockByIDQuery = `SELECT * FROM stocks WHERE id = $1`

	findStockByHolderQuery = `
		SELECT * FROM stocks
		WHERE item_id = $1
		AND ($2::bigint IS NULL OR warehouse_id = $2)
		AND ($3::bigint IS NULL OR project_id = $3)
		AND is_active = TRUE
		LIMIT 1`

	listStocksQuery = `SELECT * FROM stocks WHERE is_active = TRUE ORDER BY item_id`

	listStocksByWarehouseQuery = `
		SELECT * FROM stocks
		WHERE warehouse_id = $1 AND is_active = TRUE
		ORDER BY item_id`

	listStocksByProjectQuery = `
		SELECT * FROM stocks
		WHERE project_id = $1 AND is_active = TRUE
		ORDER BY item_id`
)

func (q *Queries) CreateStock(ctx context.Context, s *Stock) error {
	err := q.DB.GetContext(ctx, s, createStockQuery,
		s.ItemID, s.ProjectID, s.WarehouseID, s.Quantity, s.IsApproved, s.ApprovalStatus, s.IsActive, s.CreatedBy)
	if err != nil {
		return fmt.Errorf("stock creation failed: %w", err)
	}
	return nil
}

func (q *Queries) GetStockByID(ctx context.Context, id int64) (*Stock, error) {
	var s Stock
	err := q.DB.GetContext(ctx, &s, getStockByIDQuery, id)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stock: %w", err)
	}
	return &s, nil
}

func (q *Queries) FindStockByHolder(ctx context.Context, itemID int64, warehouseID, projectID *int64) (*Stock, error) {
	var s Stock
	err := q.DB.GetContext(ctx, &s, findStockByHolderQuery, itemID, warehouseID, projectID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find stock: %w", err)
	}
	return &s, nil
}

func (q *Queries) ListStocks(ctx context.Context) ([]Stock, error) {
	var stocks []Stock
	if err := q.DB.SelectContext(ctx, &stocks, listStocksQuery); err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}
	return stocks, nil
}

func (q *Queries) ListStocksByWarehouse(ctx context.Context, warehouseID int64) ([]Stock, error) {
	var stocks []Stock
	if err := q.DB.SelectContext(ctx, &stocks, listStocksByWarehouseQuery, warehouseID); err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}
	return stocks, nil
}

func (q *Queries) ListStocksByProject(ctx context.Context, projectID int64) ([]Stock, error) {
	var stocks []Stock
	if err := q.DB.SelectContext(ctx, &stocks, listStocksByProjectQuery, projectID); err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}
	return stocks, nil
}
