package parts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/partvault-backend/internal/data/repos/testutil"
	types "github.com/yungbote/partvault-backend/internal/domain"
	"github.com/yungbote/partvault-backend/internal/pkg/dbctx"
)

func TestPartRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPartRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	gpn := "GPN-1000"
	created, err := repo.Create(dbc, &types.Part{
		ID:               uuid.New(),
		CreatorID:        uuid.New(),
		GlobalPartNumber: &gpn,
		StatusInBOM:      "concept",
		LifecycleStatus:  "draft",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByID(dbc, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatalf("expected part, got nil")
	}
	if got.GlobalPartNumber == nil || *got.GlobalPartNumber != gpn {
		t.Fatalf("unexpected global part number: %v", got.GlobalPartNumber)
	}
	if got.StatusInBOM != "concept" {
		t.Fatalf("unexpected bom status: %q", got.StatusInBOM)
	}
}

func TestPartRepo_GetByID_MissingReturnsNil(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPartRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	got, err := repo.GetByID(dbc, uuid.New())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing part, got %+v", got)
	}
}

func TestPartRepo_LockByID_RequiresTx(t *testing.T) {
	db := testutil.DB(t)
	repo := NewPartRepo(db, testutil.Logger(t))

	_, err := repo.LockByID(dbctx.Context{Ctx: context.Background()}, uuid.New())
	if err == nil {
		t.Fatalf("expected error locking without tx")
	}
}

func TestPartRepo_DuplicateGlobalPartNumberRejected(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPartRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	gpn := "GPN-DUP-" + uuid.NewString()
	if _, err := repo.Create(dbc, &types.Part{ID: uuid.New(), CreatorID: uuid.New(), GlobalPartNumber: &gpn, StatusInBOM: "concept", LifecycleStatus: "draft"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := repo.Create(dbc, &types.Part{ID: uuid.New(), CreatorID: uuid.New(), GlobalPartNumber: &gpn, StatusInBOM: "concept", LifecycleStatus: "draft"}); err == nil {
		t.Fatalf("expected unique violation on duplicate global part number")
	}
}

func TestPartRepo_UpdateFieldsTouchesUpdatedAt(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPartRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	part, _ := testutil.SeedPart(t, tx, "Widget")
	before := part.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	if err := repo.UpdateFields(dbc, part.ID, map[string]interface{}{"status_in_bom": "design"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetByID(dbc, part.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.StatusInBOM != "design" {
		t.Fatalf("expected design, got %q", got.StatusInBOM)
	}
	if !got.UpdatedAt.After(before) {
		t.Fatalf("expected updated_at to advance: before=%v after=%v", before, got.UpdatedAt)
	}
}

func TestPartVersionRepo_GetByPartIDOrdersNewestFirst(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPartVersionRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	part, first := testutil.SeedPart(t, tx, "Widget")
	second := &types.PartVersion{
		ID:            uuid.New(),
		PartID:        part.ID,
		PartVersion:   "0.2.0",
		PartName:      "Widget",
		VersionStatus: "draft",
		CreatedBy:     part.CreatorID,
		CreatedAt:     first.CreatedAt.Add(time.Second),
		UpdatedAt:     first.CreatedAt.Add(time.Second),
	}
	if _, err := repo.Create(dbc, second); err != nil {
		t.Fatalf("create second: %v", err)
	}

	versions, err := repo.GetByPartID(dbc, part.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(versions))
	}
	if versions[0].PartVersion != "0.2.0" {
		t.Fatalf("expected newest first, got %q", versions[0].PartVersion)
	}
}

func TestPartVersionRepo_DuplicateVersionStringRejected(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPartVersionRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	part, first := testutil.SeedPart(t, tx, "Widget")
	dup := &types.PartVersion{
		ID:            uuid.New(),
		PartID:        part.ID,
		PartVersion:   first.PartVersion,
		PartName:      "Widget",
		VersionStatus: "draft",
		CreatedBy:     part.CreatorID,
	}
	if _, err := repo.Create(dbc, dup); err == nil {
		t.Fatalf("expected unique violation on duplicate (part_id, part_version)")
	}
}
