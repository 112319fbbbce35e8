/*-------------------------------------------------------------------------
 *
 * workflow_test.go
 *    Integration tests for the approval workflow
 *
 * These tests need a PostgreSQL instance; set TEST_DATABASE_URL to run
 * them, e.g. postgres://warehouse:pw@localhost:5432/warehouse_test.
 * Without it the suite skips.
 *
 * Copyright (c) 2024-2026, Hazem Saifelnasr
 *
 * IDENTIFICATION
 *    warehouse-management/internal/approval/workflow_test.go
 *
 *-------------------------------------------------------------------------
 */

package approval_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/Hazem-Saifelnasr/warehouse-management/internal/approval"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/audit"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/db"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/entities"
	"github.com/Hazem-Saifelnasr/warehouse-management/internal/registry"
)

func setupTestDB(t *testing.T) *db.Queries {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}

	conn, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("test database connection failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	runner, err := db.NewMigrationRunner(conn, "../../migrations")
	if err != nil {
		t.Fatalf("migration setup failed: %v", err)
	}
	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}

	tables := []string{"pending_approvals", "history_logs", "permissions", "stocks",
		"projects", "warehouses", "items", "locations", "users", "departments"}
	for _, table := range tables {
		if _, err := conn.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("cleanup of %s failed: %v", table, err)
		}
	}

	return db.NewQueries(conn)
}

func newWorkflow(queries *db.Queries) *approval.Workflow {
	reg := registry.New()
	entities.RegisterAll(reg, entities.DefaultHandlers())
	return approval.NewWorkflow(queries, reg, audit.NewLogger(queries))
}

func activeLifecycle() db.Lifecycle {
	return db.Lifecycle{
		IsApproved:     true,
		ApprovalStatus: db.StatusApproved,
		IsActive:       true,
	}
}

func createTestUser(t *testing.T, queries *db.Queries, username string, managerID *int64) *db.User {
	t.Helper()

	user := &db.User{
		Username:        username,
		Email:           username + "@example.com",
		HashedPassword:  "x",
		Role:            db.RoleNormal,
		DirectManagerID: managerID,
		Lifecycle:       activeLifecycle(),
	}
	if err := queries.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("test user creation failed: %v", err)
	}
	return user
}

func itemPayload(code string) db.JSONBMap {
	return db.JSONBMap{
		"item_code":       code,
		"unit_of_measure": "pcs",
		"description":     "test item",
	}
}

func TestSubmitPrivilegedAppliesDirectly(t *testing.T) {
	queries := setupTestDB(t)
	workflow := newWorkflow(queries)
	ctx := context.Background()

	/* No direct manager, so the requester holds approval privileges */
	requester := createTestUser(t, queries, "lead", nil)

	result, err := workflow.Submit(ctx, requester.ID, "item", nil, db.ActionCreate, itemPayload("VLV-001"))
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if !result.Applied {
		t.Fatal("expected privileged submission to apply directly")
	}
	if result.EntityID == nil {
		t.Fatal("expected created entity id")
	}

	item, err := queries.GetItemByCode(ctx, "VLV-001")
	if err != nil || item == nil {
		t.Fatalf("expected item to exist: %v", err)
	}

	entry, err := queries.GetHistoryLog(ctx, result.HistoryLogID)
	if err != nil {
		t.Fatalf("history log lookup failed: %v", err)
	}
	if entry.ApprovedBy == nil || *entry.ApprovedBy != requester.ID {
		t.Error("expected history entry resolved by requester")
	}
	if entry.Details == nil || *entry.Details != audit.DetailsPrivileged {
		t.Errorf("details = %v, want %q", entry.Details, audit.DetailsPrivileged)
	}
	if entry.ApprovalAt == nil {
		t.Error("expected approval timestamp on privileged entry")
	}
}

func TestSubmitQueuesForNormalUser(t *testing.T) {
	queries := setupTestDB(t)
	workflow := newWorkflow(queries)
	ctx := context.Background()

	manager := createTestUser(t, queries, "manager", nil)
	requester := createTestUser(t, queries, "worker", &manager.ID)

	result, err := workflow.Submit(ctx, requester.ID, "item", nil, db.ActionCreate, itemPayload("VLV-002"))
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if result.Applied {
		t.Fatal("expected submission to queue, not apply")
	}
	if result.Pending == nil || result.Pending.ApprovalStatus != db.StatusPending {
		t.Fatalf("unexpected pending row: %+v", result.Pending)
	}

	/* Nothing materialized yet */
	if item, _ := queries.GetItemByCode(ctx, "VLV-002"); item != nil {
		t.Error("item must not exist before approval")
	}

	entry, err := queries.GetHistoryLog(ctx, result.HistoryLogID)
	if err != nil {
		t.Fatalf("history log lookup failed: %v", err)
	}
	if entry.ApprovedBy != nil {
		t.Error("expected history entry unresolved while pending")
	}
}

func TestApproveReplaysCreate(t *testing.T) {
	queries := setupTestDB(t)
	workflow := newWorkflow(queries)
	ctx := context.Background()

	manager := createTestUser(t, queries, "manager", nil)
	requester := createTestUser(t, queries, "worker", &manager.ID)

	submitted, err := workflow.Submit(ctx, requester.ID, "item", nil, db.ActionCreate, itemPayload("VLV-003"))
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	resolved, err := workflow.Resolve(ctx, manager.ID, submitted.Pending.ID, true)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if resolved.Status != db.StatusApproved {
		t.Errorf("status = %q, want approved", resolved.Status)
	}

	item, err := queries.GetItemByCode(ctx, "VLV-003")
	if err != nil || item == nil {
		t.Fatalf("expected item to exist after approval: %v", err)
	}

	/* Pending row is gone once processed */
	if _, err := workflow.Get(ctx, submitted.Pending.ID); !errors.Is(err, approval.ErrNotFound) {
		t.Errorf("expected ErrNotFound for processed request, got %v", err)
	}

	entry, err := queries.GetHistoryLog(ctx, submitted.HistoryLogID)
	if err != nil {
		t.Fatalf("history log lookup failed: %v", err)
	}
	if entry.Details == nil || *entry.Details != "create - approved" {
		t.Errorf("details = %v, want %q", entry.Details, "create - approved")
	}
	if entry.ApprovedBy == nil || *entry.ApprovedBy != manager.ID {
		t.Error("expected approver recorded on history entry")
	}
}

func TestRejectLeavesEntityUntouched(t *testing.T) {
	queries := setupTestDB(t)
	workflow := newWorkflow(queries)
	ctx := context.Background()

	manager := createTestUser(t, queries, "manager", nil)
	requester := createTestUser(t, queries, "worker", &manager.ID)

	submitted, err := workflow.Submit(ctx, requester.ID, "item", nil, db.ActionCreate, itemPayload("VLV-004"))
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	resolved, err := workflow.Resolve(ctx, manager.ID, submitted.Pending.ID, false)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if resolved.Status != db.StatusRejected {
		t.Errorf("status = %q, want rejected", resolved.Status)
	}

	if item, _ := queries.GetItemByCode(ctx, "VLV-004"); item != nil {
		t.Error("item must not exist after rejection")
	}

	entry, err := queries.GetHistoryLog(ctx, submitted.HistoryLogID)
	if err != nil {
		t.Fatalf("history log lookup failed: %v", err)
	}
	if entry.Details == nil || *entry.Details != "create - rejected" {
		t.Errorf("details = %v, want %q", entry.Details, "create - rejected")
	}
}

func TestDuplicatePendingRejected(t *testing.T) {
	queries := setupTestDB(t)
	workflow := newWorkflow(queries)
	ctx := context.Background()

	lead := createTestUser(t, queries, "lead", nil)
	manager := createTestUser(t, queries, "manager", nil)
	requester := createTestUser(t, queries, "worker", &manager.ID)

	created, err := workflow.Submit(ctx, lead.ID, "item", nil, db.ActionCreate, itemPayload("VLV-005"))
	if err != nil {
		t.Fatalf("direct create failed: %v", err)
	}

	payload := db.JSONBMap{"description": "updated"}
	if _, err := workflow.Submit(ctx, requester.ID, "item", created.EntityID, db.ActionUpdate, payload); err != nil {
		t.Fatalf("first update submission failed: %v", err)
	}

	payload = db.JSONBMap{"description": "updated again"}
	_, err = workflow.Submit(ctx, requester.ID, "item", created.EntityID, db.ActionUpdate, payload)
	if !errors.Is(err, approval.ErrDuplicateRequest) {
		t.Errorf("expected ErrDuplicateRequest, got %v", err)
	}

	/* A different action on the same row is its own request */
	result, err := workflow.Submit(ctx, requester.ID, "item", created.EntityID, db.ActionSoftDelete, nil)
	if err != nil {
		t.Fatalf("soft delete submission failed: %v", err)
	}
	if result.Applied || result.Pending == nil {
		t.Errorf("expected soft delete to queue alongside the pending update")
	}
}

func TestResolveForbiddenForUnrelatedUser(t *testing.T) {
	queries := setupTestDB(t)
	workflow := newWorkflow(queries)
	ctx := context.Background()

	manager := createTestUser(t, queries, "manager", nil)
	requester := createTestUser(t, queries, "worker", &manager.ID)
	outsider := createTestUser(t, queries, "outsider", &manager.ID)

	submitted, err := workflow.Submit(ctx, requester.ID, "item", nil, db.ActionCreate, itemPayload("VLV-006"))
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	if _, err := workflow.Resolve(ctx, outsider.ID, submitted.Pending.ID, true); !errors.Is(err, approval.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	/* The request is still resolvable by the right approver */
	if _, err := workflow.Resolve(ctx, manager.ID, submitted.Pending.ID, true); err != nil {
		t.Errorf("manager resolution failed: %v", err)
	}
}

func TestResolveUnknownID(t *testing.T) {
	queries := setupTestDB(t)
	workflow := newWorkflow(queries)

	manager := createTestUser(t, queries, "manager", nil)

	if _, err := workflow.Resolve(context.Background(), manager.ID, 999999, true); !errors.Is(err, approval.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestApproveConflictingCreate(t *testing.T) {
	queries := setupTestDB(t)
	workflow := newWorkflow(queries)
	ctx := context.Background()

	lead := createTestUser(t, queries, "lead", nil)
	manager := createTestUser(t, queries, "manager", nil)
	requester := createTestUser(t, queries, "worker", &manager.ID)

	submitted, err := workflow.Submit(ctx, requester.ID, "item", nil, db.ActionCreate, itemPayload("VLV-007"))
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	/* The same code gets created directly while the request is pending */
	if _, err := workflow.Submit(ctx, lead.ID, "item", nil, db.ActionCreate, itemPayload("VLV-007")); err != nil {
		t.Fatalf("direct create failed: %v", err)
	}

	if _, err := workflow.Resolve(ctx, manager.ID, submitted.Pending.ID, true); !errors.Is(err, approval.ErrReplayConflict) {
		t.Errorf("expected ErrReplayConflict, got %v", err)
	}

	/* The failed approval rolled back, so the request stays pending */
	pending, err := workflow.Get(ctx, submitted.Pending.ID)
	if err != nil {
		t.Fatalf("pending lookup failed: %v", err)
	}
	if pending.ApprovalStatus != db.StatusPending {
		t.Errorf("status = %q, want pending after rollback", pending.ApprovalStatus)
	}
}

func TestUnknownActionRejected(t *testing.T) {
	queries := setupTestDB(t)
	workflow := newWorkflow(queries)

	lead := createTestUser(t, queries, "lead", nil)

	_, err := workflow.Submit(context.Background(), lead.ID, "item", nil, "detonate", nil)
	if !errors.Is(err, approval.ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
}

func TestQueuedSoftDeleteApproved(t *testing.T) {
	queries := setupTestDB(t)
	workflow := newWorkflow(queries)
	ctx := context.Background()

	lead := createTestUser(t, queries, "lead", nil)
	manager := createTestUser(t, queries, "manager", nil)
	requester := createTestUser(t, queries, "worker", &manager.ID)

	created, err := workflow.Submit(ctx, lead.ID, "item", nil, db.ActionCreate, itemPayload("VLV-009"))
	if err != nil {
		t.Fatalf("direct create failed: %v", err)
	}

	submitted, err := workflow.Submit(ctx, requester.ID, "item", created.EntityID, db.ActionSoftDelete, nil)
	if err != nil {
		t.Fatalf("soft delete submission failed: %v", err)
	}
	if submitted.Applied || submitted.Pending == nil {
		t.Fatal("expected soft delete to queue for a normal user")
	}

	/* Untouched until the approval lands */
	item, err := queries.GetItemByID(ctx, *created.EntityID)
	if err != nil {
		t.Fatalf("item lookup failed: %v", err)
	}
	if item.IsDeleted {
		t.Error("item must stay live while the request is pending")
	}

	resolved, err := workflow.Resolve(ctx, manager.ID, submitted.Pending.ID, true)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if resolved.Status != db.StatusApproved {
		t.Errorf("status = %q, want approved", resolved.Status)
	}

	item, err = queries.GetItemByID(ctx, *created.EntityID)
	if err != nil {
		t.Fatalf("item lookup failed: %v", err)
	}
	if !item.IsDeleted || item.IsActive {
		t.Errorf("expected soft-deleted item, got deleted=%v active=%v", item.IsDeleted, item.IsActive)
	}

	entry, err := queries.GetHistoryLog(ctx, submitted.HistoryLogID)
	if err != nil {
		t.Fatalf("history log lookup failed: %v", err)
	}
	if entry.Details == nil || *entry.Details != "soft_delete - approved" {
		t.Errorf("details = %v, want %q", entry.Details, "soft_delete - approved")
	}
}

func TestApproveUserCreate(t *testing.T) {
	queries := setupTestDB(t)
	workflow := newWorkflow(queries)
	ctx := context.Background()

	manager := createTestUser(t, queries, "manager", nil)
	requester := createTestUser(t, queries, "worker", &manager.ID)

	payload := db.JSONBMap{
		"username":        "newhire",
		"email":           "newhire@example.com",
		"hashed_password": "x",
	}
	submitted, err := workflow.Submit(ctx, requester.ID, "user", nil, db.ActionCreate, payload)
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if _, err := workflow.Resolve(ctx, manager.ID, submitted.Pending.ID, true); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if user, err := queries.GetUserByUsername(ctx, "newhire"); err != nil || user == nil {
		t.Fatalf("expected user to exist after approval: %v", err)
	}

	/* A second create of the taken username must fail the replay */
	payload = db.JSONBMap{
		"username":        "newhire",
		"email":           "other@example.com",
		"hashed_password": "x",
	}
	submitted, err = workflow.Submit(ctx, requester.ID, "user", nil, db.ActionCreate, payload)
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if _, err := workflow.Resolve(ctx, manager.ID, submitted.Pending.ID, true); !errors.Is(err, approval.ErrReplayConflict) {
		t.Errorf("expected ErrReplayConflict, got %v", err)
	}
}

func TestPendingStockCreateDeduplicated(t *testing.T) {
	queries := setupTestDB(t)
	workflow := newWorkflow(queries)
	service := entities.NewService(queries, workflow, entities.DefaultHandlers())
	ctx := context.Background()

	manager := createTestUser(t, queries, "manager", nil)
	requester := createTestUser(t, queries, "worker", &manager.ID)

	location := &db.Location{Name: "north yard", Lifecycle: activeLifecycle()}
	if err := queries.CreateLocation(ctx, location); err != nil {
		t.Fatalf("location creation failed: %v", err)
	}
	warehouse := &db.Warehouse{Name: "main", LocationID: location.ID, Lifecycle: activeLifecycle()}
	if err := queries.CreateWarehouse(ctx, warehouse); err != nil {
		t.Fatalf("warehouse creation failed: %v", err)
	}
	item := &db.Item{ItemCode: "VLV-010", UnitOfMeasure: "pcs", Lifecycle: activeLifecycle()}
	if err := queries.CreateItem(ctx, item); err != nil {
		t.Fatalf("item creation failed: %v", err)
	}

	/* JSON-decoded payloads carry numbers as float64 */
	stockPayload := func() db.JSONBMap {
		return db.JSONBMap{
			"item_id":      float64(item.ID),
			"warehouse_id": float64(warehouse.ID),
			"quantity":     float64(5),
		}
	}

	first, err := service.SubmitCreate(ctx, requester.ID, "stock", stockPayload())
	if err != nil {
		t.Fatalf("first stock submission failed: %v", err)
	}
	if first.Applied || first.Pending == nil {
		t.Fatal("expected stock create to queue for a normal user")
	}

	if _, err := service.SubmitCreate(ctx, requester.ID, "stock", stockPayload()); !errors.Is(err, approval.ErrDuplicateRequest) {
		t.Errorf("expected ErrDuplicateRequest, got %v", err)
	}
}

func TestLifecycleRoundTrip(t *testing.T) {
	queries := setupTestDB(t)
	workflow := newWorkflow(queries)
	ctx := context.Background()

	lead := createTestUser(t, queries, "lead", nil)

	created, err := workflow.Submit(ctx, lead.ID, "item", nil, db.ActionCreate, itemPayload("VLV-008"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	id := *created.EntityID

	if _, err := workflow.Submit(ctx, lead.ID, "item", &id, db.ActionArchive, nil); err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	item, err := queries.GetItemByID(ctx, id)
	if err != nil {
		t.Fatalf("item lookup failed: %v", err)
	}
	if !item.IsArchived || item.IsActive {
		t.Errorf("expected archived inactive item, got archived=%v active=%v", item.IsArchived, item.IsActive)
	}

	if _, err := workflow.Submit(ctx, lead.ID, "item", &id, db.ActionRestore, nil); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	item, err = queries.GetItemByID(ctx, id)
	if err != nil {
		t.Fatalf("item lookup failed: %v", err)
	}
	if item.IsArchived || !item.IsActive {
		t.Errorf("expected restored active item, got archived=%v active=%v", item.IsArchived, item.IsActive)
	}

	if _, err := workflow.Submit(ctx, lead.ID, "item", &id, db.ActionSoftDelete, nil); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}
	item, err = queries.GetItemByID(ctx, id)
	if err != nil {
		t.Fatalf("item lookup failed: %v", err)
	}
	if !item.IsDeleted || item.IsActive {
		t.Errorf("expected soft-deleted item, got deleted=%v active=%v", item.IsDeleted, item.IsActive)
	}
}
