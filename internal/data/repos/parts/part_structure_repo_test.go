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

func TestPartStructureRepo_ActiveOnlyExcludesClosedEdges(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPartStructureRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	parent, _ := testutil.SeedPart(t, tx, "Assembly")
	childA, _ := testutil.SeedPart(t, tx, "Bolt")
	childB, _ := testutil.SeedPart(t, tx, "Nut")

	open := testutil.SeedEdge(t, tx, parent.ID, childA.ID)
	closed := testutil.SeedEdge(t, tx, parent.ID, childB.ID)
	closedAt := time.Now().UTC().Add(-30 * time.Second)
	if err := repo.UpdateFields(dbc, closed.ID, map[string]interface{}{"valid_until": closedAt}); err != nil {
		t.Fatalf("close edge: %v", err)
	}

	now := time.Now().UTC()
	active, err := repo.GetActiveByParentIDs(dbc, []uuid.UUID{parent.ID}, now)
	if err != nil {
		t.Fatalf("active edges: %v", err)
	}
	if len(active) != 1 || active[0].ID != open.ID {
		t.Fatalf("expected only the open edge, got %d rows", len(active))
	}

	all, err := repo.GetByPartIDs(dbc, []uuid.UUID{parent.ID}, false, now)
	if err != nil {
		t.Fatalf("all edges: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected both edges without the validity filter, got %d", len(all))
	}
}

func TestPartStructureRepo_GetByPartIDsMatchesEitherSide(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPartStructureRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	parent, _ := testutil.SeedPart(t, tx, "Assembly")
	child, _ := testutil.SeedPart(t, tx, "Bolt")
	edge := testutil.SeedEdge(t, tx, parent.ID, child.ID)

	rows, err := repo.GetByPartIDs(dbc, []uuid.UUID{child.ID}, true, time.Now().UTC())
	if err != nil {
		t.Fatalf("by child: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != edge.ID {
		t.Fatalf("expected edge via child side, got %d rows", len(rows))
	}
}

func TestPartStructureRepo_FullDeleteByPartIDsRemovesBothDirections(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPartStructureRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	a, _ := testutil.SeedPart(t, tx, "A")
	b, _ := testutil.SeedPart(t, tx, "B")
	c, _ := testutil.SeedPart(t, tx, "C")
	testutil.SeedEdge(t, tx, a.ID, b.ID)
	testutil.SeedEdge(t, tx, c.ID, a.ID)
	keep := testutil.SeedEdge(t, tx, b.ID, c.ID)

	if err := repo.FullDeleteByPartIDs(dbc, []uuid.UUID{a.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	rows, err := repo.GetByPartIDs(dbc, []uuid.UUID{a.ID, b.ID, c.ID}, false, time.Now().UTC())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != keep.ID {
		t.Fatalf("expected only the b->c edge to survive, got %d rows", len(rows))
	}
}

func TestPartRevisionRepo_NewestFirst(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPartRevisionRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	_, version := testutil.SeedPart(t, tx, "Widget")
	actor := uuid.New()
	base := time.Now().UTC().Add(-time.Minute)

	for i, ct := range []string{"INITIAL", "FIELD_CHANGE", "STATUS_CHANGE"} {
		_, err := repo.Create(dbc, &types.PartRevision{
			ID:            uuid.New(),
			PartVersionID: version.ID,
			ChangeType:    ct,
			ChangedBy:     actor,
			RevisionDate:  base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("create revision %d: %v", i, err)
		}
	}

	rows, err := repo.GetByVersionID(dbc, version.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 revisions, got %d", len(rows))
	}
	if rows[0].ChangeType != "STATUS_CHANGE" || rows[2].ChangeType != "INITIAL" {
		t.Fatalf("expected newest-first ordering, got %q .. %q", rows[0].ChangeType, rows[2].ChangeType)
	}
}
