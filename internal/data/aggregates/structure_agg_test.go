package aggregates_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/partvault-backend/internal/data/aggregates"
	partrepos "github.com/yungbote/partvault-backend/internal/data/repos/parts"
	repotestutil "github.com/yungbote/partvault-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/partvault-backend/internal/domain/aggregates"
	"github.com/yungbote/partvault-backend/internal/domain/parts"
	"github.com/yungbote/partvault-backend/internal/pkg/dbctx"
)

func dbcFor(ctx context.Context) dbctx.Context {
	return dbctx.Context{Ctx: ctx}
}

func newStructureAggregate(tb testing.TB, db *gorm.DB, base aggregates.BaseDeps) domainagg.StructureAggregate {
	tb.Helper()
	log := repotestutil.Logger(tb)
	if base.DB == nil {
		base.DB = db
	}
	if base.Log == nil {
		base.Log = log
	}
	return aggregates.NewStructureAggregate(aggregates.StructureAggregateDeps{
		Base:       base,
		Parts:      partrepos.NewPartRepo(db, log),
		Versions:   partrepos.NewPartVersionRepo(db, log),
		Structures: partrepos.NewPartStructureRepo(db, log),
		Revisions:  partrepos.NewPartRevisionRepo(db, log),
	})
}

func TestStructureAggregate_AddEdge_AppendsStructureRevision(t *testing.T) {
	db := repotestutil.DB(t)
	partAgg := newPartAggregate(t, db, aggregates.BaseDeps{})
	structAgg := newStructureAggregate(t, db, aggregates.BaseDeps{})
	ctx := context.Background()

	parent := createTestPart(t, partAgg, "Chassis")
	child := createTestPart(t, partAgg, "Bracket")

	qty := 4.0
	res, err := structAgg.AddEdge(ctx, domainagg.AddEdgeInput{
		ActorID:      uuid.New(),
		ParentPartID: parent.Part.ID,
		ChildPartID:  child.Part.ID,
		Quantity:     &qty,
	})
	if err != nil {
		t.Fatalf("add edge: %v", err)
	}
	if res.Edge.RelationType != parts.RelationAssembly {
		t.Fatalf("expected assembly default, got %q", res.Edge.RelationType)
	}
	if res.Edge.Quantity != 4 {
		t.Fatalf("expected quantity 4, got %v", res.Edge.Quantity)
	}

	view, err := partAgg.GetPart(ctx, parent.Part.ID)
	if err != nil {
		t.Fatalf("get parent: %v", err)
	}
	if view.Revisions[0].ChangeType != parts.ChangeTypeStructureChange {
		t.Fatalf("expected STRUCTURE_CHANGE revision, got %q", view.Revisions[0].ChangeType)
	}
}

func TestStructureAggregate_AddEdge_SelfReferenceRejected(t *testing.T) {
	db := repotestutil.DB(t)
	structAgg := newStructureAggregate(t, db, aggregates.BaseDeps{})

	id := uuid.New()
	_, err := structAgg.AddEdge(context.Background(), domainagg.AddEdgeInput{
		ActorID:      uuid.New(),
		ParentPartID: id,
		ChildPartID:  id,
	})
	if !domainagg.IsCode(err, domainagg.CodeSelfReference) {
		t.Fatalf("expected self_reference, got %v", err)
	}
}

func TestStructureAggregate_AddEdge_CycleRejected(t *testing.T) {
	db := repotestutil.DB(t)
	partAgg := newPartAggregate(t, db, aggregates.BaseDeps{})
	structAgg := newStructureAggregate(t, db, aggregates.BaseDeps{})
	ctx := context.Background()

	a := createTestPart(t, partAgg, "Alpha")
	b := createTestPart(t, partAgg, "Beta")
	c := createTestPart(t, partAgg, "Gamma")

	actor := uuid.New()
	if _, err := structAgg.AddEdge(ctx, domainagg.AddEdgeInput{ActorID: actor, ParentPartID: a.Part.ID, ChildPartID: b.Part.ID}); err != nil {
		t.Fatalf("a->b: %v", err)
	}
	if _, err := structAgg.AddEdge(ctx, domainagg.AddEdgeInput{ActorID: actor, ParentPartID: b.Part.ID, ChildPartID: c.Part.ID}); err != nil {
		t.Fatalf("b->c: %v", err)
	}

	_, err := structAgg.AddEdge(ctx, domainagg.AddEdgeInput{ActorID: actor, ParentPartID: b.Part.ID, ChildPartID: a.Part.ID})
	if !domainagg.IsCode(err, domainagg.CodeCircularReference) {
		t.Fatalf("expected circular_reference for direct cycle, got %v", err)
	}
	_, err = structAgg.AddEdge(ctx, domainagg.AddEdgeInput{ActorID: actor, ParentPartID: c.Part.ID, ChildPartID: a.Part.ID})
	if !domainagg.IsCode(err, domainagg.CodeCircularReference) {
		t.Fatalf("expected circular_reference for transitive cycle, got %v", err)
	}
}

func TestStructureAggregate_AddEdge_QuantityRules(t *testing.T) {
	db := repotestutil.DB(t)
	partAgg := newPartAggregate(t, db, aggregates.BaseDeps{})
	structAgg := newStructureAggregate(t, db, aggregates.BaseDeps{})
	ctx := context.Background()

	parent := createTestPart(t, partAgg, "Rack")
	child := createTestPart(t, partAgg, "Rail")

	zero := 0.0
	_, err := structAgg.AddEdge(ctx, domainagg.AddEdgeInput{
		ActorID:      uuid.New(),
		ParentPartID: parent.Part.ID,
		ChildPartID:  child.Part.ID,
		Quantity:     &zero,
	})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation for explicit zero quantity, got %v", err)
	}

	res, err := structAgg.AddEdge(ctx, domainagg.AddEdgeInput{
		ActorID:      uuid.New(),
		ParentPartID: parent.Part.ID,
		ChildPartID:  child.Part.ID,
	})
	if err != nil {
		t.Fatalf("add edge without quantity: %v", err)
	}
	if res.Edge.Quantity != 1 {
		t.Fatalf("expected omitted quantity to default to 1, got %v", res.Edge.Quantity)
	}
}

func TestStructureAggregate_AddEdge_UnknownRelationRejected(t *testing.T) {
	db := repotestutil.DB(t)
	structAgg := newStructureAggregate(t, db, aggregates.BaseDeps{})

	_, err := structAgg.AddEdge(context.Background(), domainagg.AddEdgeInput{
		ActorID:      uuid.New(),
		ParentPartID: uuid.New(),
		ChildPartID:  uuid.New(),
		RelationType: "sidegrade",
	})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation, got %v", err)
	}
}

func TestStructureAggregate_UpdateEdge_QuantityAndNotes(t *testing.T) {
	db := repotestutil.DB(t)
	partAgg := newPartAggregate(t, db, aggregates.BaseDeps{})
	structAgg := newStructureAggregate(t, db, aggregates.BaseDeps{})
	ctx := context.Background()

	parent := createTestPart(t, partAgg, "Frame")
	child := createTestPart(t, partAgg, "Bolt")
	added, err := structAgg.AddEdge(ctx, domainagg.AddEdgeInput{
		ActorID:      uuid.New(),
		ParentPartID: parent.Part.ID,
		ChildPartID:  child.Part.ID,
	})
	if err != nil {
		t.Fatalf("add edge: %v", err)
	}

	qty := 8.0
	notes := "torque to 12Nm"
	res, err := structAgg.UpdateEdge(ctx, domainagg.UpdateEdgeInput{
		ActorID:  uuid.New(),
		EdgeID:   added.Edge.ID,
		Quantity: &qty,
		Notes:    &notes,
	})
	if err != nil {
		t.Fatalf("update edge: %v", err)
	}
	if res.Edge.Quantity != 8 {
		t.Fatalf("expected quantity 8, got %v", res.Edge.Quantity)
	}
	if res.Edge.Notes == nil || *res.Edge.Notes != notes {
		t.Fatalf("expected notes applied, got %v", res.Edge.Notes)
	}
}

func TestStructureAggregate_UpdateEdge_ReparentRunsCycleCheck(t *testing.T) {
	db := repotestutil.DB(t)
	partAgg := newPartAggregate(t, db, aggregates.BaseDeps{})
	structAgg := newStructureAggregate(t, db, aggregates.BaseDeps{})
	ctx := context.Background()

	a := createTestPart(t, partAgg, "TopLevel")
	b := createTestPart(t, partAgg, "Middle")
	c := createTestPart(t, partAgg, "Leaf")

	actor := uuid.New()
	if _, err := structAgg.AddEdge(ctx, domainagg.AddEdgeInput{ActorID: actor, ParentPartID: a.Part.ID, ChildPartID: b.Part.ID}); err != nil {
		t.Fatalf("a->b: %v", err)
	}
	edge, err := structAgg.AddEdge(ctx, domainagg.AddEdgeInput{ActorID: actor, ParentPartID: b.Part.ID, ChildPartID: c.Part.ID})
	if err != nil {
		t.Fatalf("b->c: %v", err)
	}

	// Pointing b->c at b->a would close a cycle through a->b.
	_, err = structAgg.UpdateEdge(ctx, domainagg.UpdateEdgeInput{
		ActorID:     actor,
		EdgeID:      edge.Edge.ID,
		ChildPartID: &a.Part.ID,
	})
	if !domainagg.IsCode(err, domainagg.CodeCircularReference) {
		t.Fatalf("expected circular_reference, got %v", err)
	}
}

func TestStructureAggregate_SupersedeEdge_KeepsHistory(t *testing.T) {
	db := repotestutil.DB(t)
	partAgg := newPartAggregate(t, db, aggregates.BaseDeps{})
	structAgg := newStructureAggregate(t, db, aggregates.BaseDeps{})
	ctx := context.Background()

	parent := createTestPart(t, partAgg, "Gearbox")
	oldChild := createTestPart(t, partAgg, "GearV1")
	newChild := createTestPart(t, partAgg, "GearV2")

	actor := uuid.New()
	added, err := structAgg.AddEdge(ctx, domainagg.AddEdgeInput{
		ActorID:      actor,
		ParentPartID: parent.Part.ID,
		ChildPartID:  oldChild.Part.ID,
	})
	if err != nil {
		t.Fatalf("add edge: %v", err)
	}

	res, err := structAgg.SupersedeEdge(ctx, domainagg.SupersedeEdgeInput{
		ActorID:     actor,
		EdgeID:      added.Edge.ID,
		ChildPartID: &newChild.Part.ID,
	})
	if err != nil {
		t.Fatalf("supersede: %v", err)
	}
	if res.Closed.ValidUntil == nil {
		t.Fatalf("expected old edge closed")
	}
	if res.Replaced.ChildPartID != newChild.Part.ID {
		t.Fatalf("expected replacement child, got %s", res.Replaced.ChildPartID)
	}
	if !res.Replaced.ValidFrom.Equal(*res.Closed.ValidUntil) {
		t.Fatalf("expected contiguous validity windows: %v vs %v", res.Replaced.ValidFrom, res.Closed.ValidUntil)
	}

	active, err := structAgg.EdgesForPart(ctx, parent.Part.ID, true)
	if err != nil {
		t.Fatalf("active edges: %v", err)
	}
	if len(active) != 1 || active[0].ID != res.Replaced.ID {
		t.Fatalf("expected only the replacement active, got %d edges", len(active))
	}

	all, err := structAgg.EdgesForPart(ctx, parent.Part.ID, false)
	if err != nil {
		t.Fatalf("all edges: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("history should keep the closed edge, got %d edges", len(all))
	}
}

func TestStructureAggregate_SupersedeEdge_AlreadyClosedRejected(t *testing.T) {
	db := repotestutil.DB(t)
	partAgg := newPartAggregate(t, db, aggregates.BaseDeps{})
	structAgg := newStructureAggregate(t, db, aggregates.BaseDeps{})
	ctx := context.Background()

	parent := createTestPart(t, partAgg, "Housing")
	child := createTestPart(t, partAgg, "Seal")
	added, err := structAgg.AddEdge(ctx, domainagg.AddEdgeInput{
		ActorID:      uuid.New(),
		ParentPartID: parent.Part.ID,
		ChildPartID:  child.Part.ID,
	})
	if err != nil {
		t.Fatalf("add edge: %v", err)
	}

	past := time.Now().UTC().Add(-time.Hour)
	if _, err := structAgg.UpdateEdge(ctx, domainagg.UpdateEdgeInput{
		ActorID:    uuid.New(),
		EdgeID:     added.Edge.ID,
		ValidUntil: &past,
	}); err != nil {
		t.Fatalf("close edge: %v", err)
	}

	_, err = structAgg.SupersedeEdge(ctx, domainagg.SupersedeEdgeInput{
		ActorID: uuid.New(),
		EdgeID:  added.Edge.ID,
	})
	if !domainagg.IsCode(err, domainagg.CodeInvariantViolation) {
		t.Fatalf("expected invariant_violation for closed edge, got %v", err)
	}
}

func TestStructureAggregate_RemoveEdge(t *testing.T) {
	db := repotestutil.DB(t)
	partAgg := newPartAggregate(t, db, aggregates.BaseDeps{})
	structAgg := newStructureAggregate(t, db, aggregates.BaseDeps{})
	ctx := context.Background()

	parent := createTestPart(t, partAgg, "Panel")
	child := createTestPart(t, partAgg, "Rivet")
	added, err := structAgg.AddEdge(ctx, domainagg.AddEdgeInput{
		ActorID:      uuid.New(),
		ParentPartID: parent.Part.ID,
		ChildPartID:  child.Part.ID,
	})
	if err != nil {
		t.Fatalf("add edge: %v", err)
	}

	if err := structAgg.RemoveEdge(ctx, domainagg.RemoveEdgeInput{ActorID: uuid.New(), EdgeID: added.Edge.ID}); err != nil {
		t.Fatalf("remove: %v", err)
	}

	edges, err := structAgg.EdgesForPart(ctx, parent.Part.ID, false)
	if err != nil {
		t.Fatalf("edges: %v", err)
	}
	if len(edges) != 0 {
		t.Fatalf("expected no edges after removal, got %d", len(edges))
	}

	if err := structAgg.RemoveEdge(ctx, domainagg.RemoveEdgeInput{ActorID: uuid.New(), EdgeID: added.Edge.ID}); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found for missing edge, got %v", err)
	}
}
