package aggregates_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/partvault-backend/internal/data/aggregates"
	aggtestutil "github.com/yungbote/partvault-backend/internal/data/aggregates/testutil"
	partrepos "github.com/yungbote/partvault-backend/internal/data/repos/parts"
	repotestutil "github.com/yungbote/partvault-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/partvault-backend/internal/domain/aggregates"
	"github.com/yungbote/partvault-backend/internal/domain/parts"
	"github.com/yungbote/partvault-backend/internal/pkg/dbctx"
)

func newPartAggregate(tb testing.TB, db *gorm.DB, base aggregates.BaseDeps) domainagg.PartAggregate {
	tb.Helper()
	log := repotestutil.Logger(tb)
	if base.DB == nil {
		base.DB = db
	}
	if base.Log == nil {
		base.Log = log
	}
	return aggregates.NewPartAggregate(aggregates.PartAggregateDeps{
		Base:          base,
		Parts:         partrepos.NewPartRepo(db, log),
		Versions:      partrepos.NewPartVersionRepo(db, log),
		Structures:    partrepos.NewPartStructureRepo(db, log),
		Revisions:     partrepos.NewPartRevisionRepo(db, log),
		Links:         partrepos.NewPartLinkRepo(db, log),
		Manufacturers: partrepos.NewManufacturerPartRepo(db, log),
		Suppliers:     partrepos.NewSupplierPartRepo(db, log),
		VersionLinks:  partrepos.NewVersionLinkRepo(db, log),
	})
}

func createTestPart(tb testing.TB, agg domainagg.PartAggregate, name string) domainagg.CreatePartResult {
	tb.Helper()
	unit := "kg"
	res, err := agg.CreatePart(context.Background(), domainagg.CreatePartInput{
		ActorID: uuid.New(),
		Version: parts.VersionPayload{
			PartName:    name,
			PartVersion: "1.0.0",
			Weight:      parts.Number{Valid: true, Value: 0.5},
			WeightUnit:  &unit,
		},
	})
	if err != nil {
		tb.Fatalf("create part: %v", err)
	}
	tb.Cleanup(func() {
		_ = agg.DeletePart(context.Background(), domainagg.DeletePartInput{
			ActorID: uuid.New(),
			PartID:  res.Part.ID,
		})
	})
	return res
}

func TestPartAggregate_CreatePart_AtomicInitialVersion(t *testing.T) {
	db := repotestutil.DB(t)
	agg := newPartAggregate(t, db, aggregates.BaseDeps{})
	ctx := context.Background()

	gpn := "GPN-" + uuid.NewString()
	value := "8"
	res, err := agg.CreatePart(ctx, domainagg.CreatePartInput{
		ActorID:          uuid.New(),
		GlobalPartNumber: &gpn,
		Version:          parts.VersionPayload{PartName: "Main Board", PartVersion: "1.0.0"},
		CustomFields: []domainagg.CustomFieldInput{
			{FieldName: "layer_count", FieldValue: &value},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() {
		_ = agg.DeletePart(ctx, domainagg.DeletePartInput{ActorID: uuid.New(), PartID: res.Part.ID})
	})

	if res.Part.CurrentVersionID == nil || *res.Part.CurrentVersionID != res.Version.ID {
		t.Fatalf("expected part to point at the new version")
	}
	if len(res.Relationships) != 0 {
		t.Fatalf("unexpected relationship failures: %+v", res.Relationships)
	}

	view, err := agg.GetPart(ctx, res.Part.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.Current == nil || view.Current.PartVersion != "1.0.0" {
		t.Fatalf("unexpected current version: %+v", view.Current)
	}
	if len(view.Versions) != 1 {
		t.Fatalf("expected 1 version, got %d", len(view.Versions))
	}
	if len(view.Revisions) != 1 || view.Revisions[0].ChangeType != parts.ChangeTypeInitial {
		t.Fatalf("expected one INITIAL revision, got %+v", view.Revisions)
	}

	fields, err := partrepos.NewVersionLinkRepo(db, repotestutil.Logger(t)).
		GetCustomFieldsByVersionID(dbcFor(ctx), res.Version.ID)
	if err != nil {
		t.Fatalf("custom fields: %v", err)
	}
	if len(fields) != 1 || fields[0].FieldName != "layer_count" {
		t.Fatalf("expected custom field persisted, got %+v", fields)
	}
}

func TestPartAggregate_CreatePart_DuplicateGlobalNumberConflict(t *testing.T) {
	db := repotestutil.DB(t)
	agg := newPartAggregate(t, db, aggregates.BaseDeps{})
	ctx := context.Background()

	gpn := "GPN-" + uuid.NewString()
	first, err := agg.CreatePart(ctx, domainagg.CreatePartInput{
		ActorID:          uuid.New(),
		GlobalPartNumber: &gpn,
		Version:          parts.VersionPayload{PartName: "Original"},
	})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	t.Cleanup(func() {
		_ = agg.DeletePart(ctx, domainagg.DeletePartInput{ActorID: uuid.New(), PartID: first.Part.ID})
	})

	_, err = agg.CreatePart(ctx, domainagg.CreatePartInput{
		ActorID:          uuid.New(),
		GlobalPartNumber: &gpn,
		Version:          parts.VersionPayload{PartName: "Pretender"},
	})
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestPartAggregate_CreatePart_ValidationBeforeAnyWrite(t *testing.T) {
	db := repotestutil.DB(t)
	agg := newPartAggregate(t, db, aggregates.BaseDeps{})

	_, err := agg.CreatePart(context.Background(), domainagg.CreatePartInput{
		ActorID: uuid.New(),
		Version: parts.VersionPayload{PartName: "ab", PartVersion: "nope"},
	})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPartAggregate_CreatePart_SelfEdgeRejected(t *testing.T) {
	db := repotestutil.DB(t)
	agg := newPartAggregate(t, db, aggregates.BaseDeps{})

	id := uuid.New()
	_, err := agg.CreatePart(context.Background(), domainagg.CreatePartInput{
		ActorID: uuid.New(),
		Version: parts.VersionPayload{PartName: "Looper"},
		StructureEdges: []domainagg.StructureEdgeInput{
			{ParentPartID: id, ChildPartID: id},
		},
	})
	if !domainagg.IsCode(err, domainagg.CodeSelfReference) {
		t.Fatalf("expected self_reference, got %v", err)
	}
}

func TestPartAggregate_CreateNextVersion_MonotonicGuard(t *testing.T) {
	db := repotestutil.DB(t)
	agg := newPartAggregate(t, db, aggregates.BaseDeps{})
	ctx := context.Background()
	created := createTestPart(t, agg, "Controller")

	actor := uuid.New()
	next, err := agg.CreateNextVersion(ctx, domainagg.CreateNextVersionInput{
		ActorID: actor,
		PartID:  created.Part.ID,
		Version: parts.VersionPayload{PartVersion: "1.1.0"},
	})
	if err != nil {
		t.Fatalf("next version: %v", err)
	}
	if next.Version.PartVersion != "1.1.0" {
		t.Fatalf("unexpected version: %q", next.Version.PartVersion)
	}
	if next.Version.VersionStatus != parts.LifecycleDraft {
		t.Fatalf("new version should start as draft, got %q", next.Version.VersionStatus)
	}
	if next.Part.CurrentVersionID == nil || *next.Part.CurrentVersionID != next.Version.ID {
		t.Fatalf("expected pointer repointed to new version")
	}
	// Fields carry forward from the previous version.
	if next.Version.Weight == nil || *next.Version.Weight != 0.5 {
		t.Fatalf("expected inherited weight, got %v", next.Version.Weight)
	}

	view, err := agg.GetPart(ctx, created.Part.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(view.Versions) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(view.Versions))
	}
	if len(view.Revisions) != 2 {
		t.Fatalf("expected an INITIAL revision per version, got %d", len(view.Revisions))
	}

	_, err = agg.CreateNextVersion(ctx, domainagg.CreateNextVersionInput{
		ActorID: actor,
		PartID:  created.Part.ID,
		Version: parts.VersionPayload{PartVersion: "1.0.5"},
	})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation for non-increasing version, got %v", err)
	}
}

func TestPartAggregate_UpdatePartVersion_FieldChangeRevision(t *testing.T) {
	db := repotestutil.DB(t)
	agg := newPartAggregate(t, db, aggregates.BaseDeps{})
	ctx := context.Background()
	created := createTestPart(t, agg, "Sensor")

	editor := uuid.New()
	newWeight := parts.Number{Valid: true, Value: 0.75}
	res, err := agg.UpdatePartVersion(ctx, domainagg.UpdatePartVersionInput{
		ActorID:           editor,
		PartVersionID:     created.Version.ID,
		Patch:             parts.VersionPatch{Weight: &newWeight},
		ChangeDescription: "recalibrated weight",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(res.ChangedFields) != 1 || res.ChangedFields[0] != "weight" {
		t.Fatalf("expected weight change, got %v", res.ChangedFields)
	}
	if res.Version.Weight == nil || *res.Version.Weight != 0.75 {
		t.Fatalf("expected new weight applied, got %v", res.Version.Weight)
	}

	view, err := agg.GetPart(ctx, created.Part.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(view.Revisions) != 2 {
		t.Fatalf("expected INITIAL + FIELD_CHANGE, got %d revisions", len(view.Revisions))
	}
	if view.Revisions[0].ChangeType != parts.ChangeTypeFieldChange {
		t.Fatalf("expected newest revision FIELD_CHANGE, got %q", view.Revisions[0].ChangeType)
	}
	if view.Revisions[0].ChangeDescription != "recalibrated weight" {
		t.Fatalf("unexpected description: %q", view.Revisions[0].ChangeDescription)
	}

	// Re-sending the same value is a no-op: no new revision, and the
	// stored audit pair is reported back unchanged.
	firstUpdatedAt := res.UpdatedAt
	res, err = agg.UpdatePartVersion(ctx, domainagg.UpdatePartVersionInput{
		ActorID:       uuid.New(),
		PartVersionID: created.Version.ID,
		Patch:         parts.VersionPatch{Weight: &newWeight},
	})
	if err != nil {
		t.Fatalf("no-op update: %v", err)
	}
	if len(res.ChangedFields) != 0 {
		t.Fatalf("expected no changed fields, got %v", res.ChangedFields)
	}
	if res.UpdatedAt.After(firstUpdatedAt) {
		t.Fatalf("no-op must not advance updated_at: %v > %v", res.UpdatedAt, firstUpdatedAt)
	}
	if res.Version.UpdatedBy == nil || *res.Version.UpdatedBy != editor {
		t.Fatalf("no-op must keep the stored updated_by, got %v", res.Version.UpdatedBy)
	}
	view, err = agg.GetPart(ctx, created.Part.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(view.Revisions) != 2 {
		t.Fatalf("no-op should not append a revision, got %d", len(view.Revisions))
	}
}

func TestPartAggregate_UpdatePartVersion_FrozenVersionRejected(t *testing.T) {
	db := repotestutil.DB(t)
	agg := newPartAggregate(t, db, aggregates.BaseDeps{})
	ctx := context.Background()
	created := createTestPart(t, agg, "Frozen")

	versions := partrepos.NewPartVersionRepo(db, repotestutil.Logger(t))
	if err := versions.UpdateFields(dbcFor(ctx), created.Version.ID, map[string]interface{}{
		"version_status": parts.LifecycleReleased,
	}); err != nil {
		t.Fatalf("freeze version: %v", err)
	}

	name := "New Name"
	_, err := agg.UpdatePartVersion(ctx, domainagg.UpdatePartVersionInput{
		ActorID:       uuid.New(),
		PartVersionID: created.Version.ID,
		Patch:         parts.VersionPatch{PartName: &name},
	})
	if !domainagg.IsCode(err, domainagg.CodeInvariantViolation) {
		t.Fatalf("expected invariant_violation, got %v", err)
	}
}

func TestPartAggregate_UpdatePartVersion_EmptyPatchRejected(t *testing.T) {
	db := repotestutil.DB(t)
	agg := newPartAggregate(t, db, aggregates.BaseDeps{})

	_, err := agg.UpdatePartVersion(context.Background(), domainagg.UpdatePartVersionInput{
		ActorID:       uuid.New(),
		PartVersionID: uuid.New(),
	})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation for empty patch, got %v", err)
	}
}

func TestPartAggregate_UpdatePartWithStatus_OneWinner(t *testing.T) {
	db := repotestutil.DB(t)
	hooks := &aggtestutil.HooksRecorder{}
	agg := newPartAggregate(t, db, aggregates.BaseDeps{Hooks: hooks})
	ctx := context.Background()
	created := createTestPart(t, agg, "Racer")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = agg.UpdatePartWithStatus(ctx, domainagg.UpdatePartWithStatusInput{
				ActorID:       uuid.New(),
				PartID:        created.Part.ID,
				PartVersionID: created.Version.ID,
				StatusInBOM:   parts.BOMStatusDesign,
			})
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case domainagg.IsCode(err, domainagg.CodeConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one winner and one conflict, got wins=%d conflicts=%d", wins, conflicts)
	}
	if len(hooks.Conflicts) != 1 {
		t.Fatalf("expected one conflict recorded, got %d", len(hooks.Conflicts))
	}

	view, err := agg.GetPart(ctx, created.Part.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.Part.StatusInBOM != parts.BOMStatusDesign {
		t.Fatalf("expected design status, got %q", view.Part.StatusInBOM)
	}
	if view.Revisions[0].ChangeType != parts.ChangeTypeStatusChange {
		t.Fatalf("expected newest revision STATUS_CHANGE, got %q", view.Revisions[0].ChangeType)
	}
}

func TestPartAggregate_UpdatePartWithStatus_UnknownStatusRejected(t *testing.T) {
	db := repotestutil.DB(t)
	agg := newPartAggregate(t, db, aggregates.BaseDeps{})

	_, err := agg.UpdatePartWithStatus(context.Background(), domainagg.UpdatePartWithStatusInput{
		ActorID:       uuid.New(),
		PartID:        uuid.New(),
		PartVersionID: uuid.New(),
		StatusInBOM:   "shipped",
	})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPartAggregate_DeletePart_RemovesEverything(t *testing.T) {
	db := repotestutil.DB(t)
	agg := newPartAggregate(t, db, aggregates.BaseDeps{})
	structAgg := newStructureAggregate(t, db, aggregates.BaseDeps{})
	ctx := context.Background()

	a := createTestPart(t, agg, "Assembly")
	b := createTestPart(t, agg, "Component")

	if _, err := structAgg.AddEdge(ctx, domainagg.AddEdgeInput{
		ActorID:      uuid.New(),
		ParentPartID: a.Part.ID,
		ChildPartID:  b.Part.ID,
	}); err != nil {
		t.Fatalf("add edge: %v", err)
	}

	if err := agg.DeletePart(ctx, domainagg.DeletePartInput{ActorID: uuid.New(), PartID: a.Part.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := agg.GetPart(ctx, a.Part.ID); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found after delete, got %v", err)
	}
	edges, err := structAgg.EdgesForPart(ctx, b.Part.ID, false)
	if err != nil {
		t.Fatalf("edges: %v", err)
	}
	if len(edges) != 0 {
		t.Fatalf("expected edges touching the deleted part to be gone, got %d", len(edges))
	}
}

func TestPartAggregate_CreatePart_PersistsVersionDocuments(t *testing.T) {
	db := repotestutil.DB(t)
	agg := newPartAggregate(t, db, aggregates.BaseDeps{})
	ctx := context.Background()

	actor := uuid.New()
	contentType := "model/step"
	cert := "UL-2024-0042"
	res, err := agg.CreatePart(ctx, domainagg.CreatePartInput{
		ActorID: actor,
		Version: parts.VersionPayload{PartName: "Motor Mount", PartVersion: "1.0.0"},
		Attachments: []domainagg.AttachmentInput{
			{FileName: "datasheet.pdf", StorageKey: "parts/datasheet.pdf", ContentType: &contentType},
		},
		Representations: []domainagg.RepresentationInput{
			{Format: "step", StorageKey: "parts/mount.step", IsPrimary: true},
		},
		Compliance: []domainagg.ComplianceInput{
			{Standard: "UL94", CertificateNumber: &cert},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() {
		_ = agg.DeletePart(ctx, domainagg.DeletePartInput{ActorID: uuid.New(), PartID: res.Part.ID})
	})
	if len(res.Relationships) != 0 {
		t.Fatalf("unexpected relationship failures: %+v", res.Relationships)
	}

	var attachments []parts.PartAttachment
	if err := db.Where("part_version_id = ?", res.Version.ID).Find(&attachments).Error; err != nil {
		t.Fatalf("attachments: %v", err)
	}
	if len(attachments) != 1 || attachments[0].FileName != "datasheet.pdf" || attachments[0].UploadedBy != actor {
		t.Fatalf("expected one attachment by the actor, got %+v", attachments)
	}

	var reps []parts.PartRepresentation
	if err := db.Where("part_version_id = ?", res.Version.ID).Find(&reps).Error; err != nil {
		t.Fatalf("representations: %v", err)
	}
	if len(reps) != 1 || reps[0].Format != "step" || !reps[0].IsPrimary {
		t.Fatalf("expected one primary step representation, got %+v", reps)
	}

	var compliance []parts.PartCompliance
	if err := db.Where("part_version_id = ?", res.Version.ID).Find(&compliance).Error; err != nil {
		t.Fatalf("compliance: %v", err)
	}
	if len(compliance) != 1 || compliance[0].Standard != "UL94" ||
		compliance[0].CertificateNumber == nil || *compliance[0].CertificateNumber != cert {
		t.Fatalf("expected one UL94 compliance row, got %+v", compliance)
	}
}

// commitFailRunner runs the body inside a real transaction and then fails
// it, the shape of an error surfacing at commit time.
type commitFailRunner struct {
	inner aggregates.TxRunner
	err   error
}

func (r *commitFailRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return r.inner.InTx(ctx, func(dbc dbctx.Context) error {
		if err := fn(dbc); err != nil {
			return err
		}
		return r.err
	})
}

func TestPartAggregate_CreatePart_LateFailureLeavesNoRows(t *testing.T) {
	db := repotestutil.DB(t)
	runner := &commitFailRunner{inner: aggregates.NewGormTxRunner(db), err: errors.New("deadlock detected")}
	agg := newPartAggregate(t, db, aggregates.BaseDeps{Runner: runner})
	ctx := context.Background()

	gpn := "GPN-" + uuid.NewString()
	field := "field_" + uuid.NewString()
	_, err := agg.CreatePart(ctx, domainagg.CreatePartInput{
		ActorID:          uuid.New(),
		GlobalPartNumber: &gpn,
		Version:          parts.VersionPayload{PartName: "Ghost Board", PartVersion: "1.0.0"},
		CustomFields:     []domainagg.CustomFieldInput{{FieldName: field}},
	})
	if !domainagg.IsCode(err, domainagg.CodeRetryable) {
		t.Fatalf("expected retryable, got %v", err)
	}

	var partCount int64
	if err := db.Model(&parts.Part{}).Where("global_part_number = ?", gpn).Count(&partCount).Error; err != nil {
		t.Fatalf("count parts: %v", err)
	}
	if partCount != 0 {
		t.Fatalf("expected zero part rows after rollback, got %d", partCount)
	}
	var fieldCount int64
	if err := db.Model(&parts.PartCustomField{}).Where("field_name = ?", field).Count(&fieldCount).Error; err != nil {
		t.Fatalf("count custom fields: %v", err)
	}
	if fieldCount != 0 {
		t.Fatalf("expected custom field rows rolled back with the part, got %d", fieldCount)
	}
}

func TestPartAggregate_CreateNextVersion_DuplicateVersionRollsBack(t *testing.T) {
	db := repotestutil.DB(t)
	agg := newPartAggregate(t, db, aggregates.BaseDeps{})
	ctx := context.Background()
	created := createTestPart(t, agg, "Actuator")

	// Occupy 2.0.0 directly so the version insert inside the next write
	// trips the (part_id, part_version) unique index.
	versions := partrepos.NewPartVersionRepo(db, repotestutil.Logger(t))
	if _, err := versions.Create(dbcFor(ctx), &parts.PartVersion{
		ID:            uuid.New(),
		PartID:        created.Part.ID,
		PartVersion:   "2.0.0",
		PartName:      "Actuator",
		VersionStatus: parts.LifecycleDraft,
		CreatedBy:     uuid.New(),
	}); err != nil {
		t.Fatalf("seed version: %v", err)
	}

	_, err := agg.CreateNextVersion(ctx, domainagg.CreateNextVersionInput{
		ActorID: uuid.New(),
		PartID:  created.Part.ID,
		Version: parts.VersionPayload{PartVersion: "2.0.0"},
	})
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	// The failed write must leave no trace: pointer, version count, and
	// revision trail all stay as they were.
	view, err := agg.GetPart(ctx, created.Part.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.Part.CurrentVersionID == nil || *view.Part.CurrentVersionID != created.Version.ID {
		t.Fatalf("expected current_version_id untouched, got %v", view.Part.CurrentVersionID)
	}
	if len(view.Versions) != 2 {
		t.Fatalf("expected only the original and the seeded version, got %d", len(view.Versions))
	}
	if len(view.Revisions) != 1 {
		t.Fatalf("expected only the INITIAL revision, got %d", len(view.Revisions))
	}
}

func TestPartAggregate_RolledBackWriteNeverRuns(t *testing.T) {
	db := repotestutil.DB(t)
	runner := &aggtestutil.InjectedTxRunner{FailBeforeBody: errors.New("deadlock detected")}
	agg := newPartAggregate(t, db, aggregates.BaseDeps{Runner: runner})

	gpn := "GPN-" + uuid.NewString()
	_, err := agg.CreatePart(context.Background(), domainagg.CreatePartInput{
		ActorID:          uuid.New(),
		GlobalPartNumber: &gpn,
		Version:          parts.VersionPayload{PartName: "Never Born"},
	})
	if !domainagg.IsCode(err, domainagg.CodeRetryable) {
		t.Fatalf("expected retryable, got %v", err)
	}
	if runner.RollbackCalls != 1 {
		t.Fatalf("expected one rollback, got %d", runner.RollbackCalls)
	}

	var count int64
	if err := db.Model(&parts.Part{}).Where("global_part_number = ?", gpn).Count(&count).Error; err != nil {
		t.Fatalf("count parts: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no part rows, got %d", count)
	}
}

func TestPartAggregate_BeginFailureIsMappedAndRecorded(t *testing.T) {
	db := repotestutil.DB(t)
	hooks := &aggtestutil.HooksRecorder{}
	runner := &aggtestutil.InjectedTxRunner{FailBegin: errors.New("deadlock detected")}
	agg := newPartAggregate(t, db, aggregates.BaseDeps{Hooks: hooks, Runner: runner})

	_, err := agg.CreatePart(context.Background(), domainagg.CreatePartInput{
		ActorID: uuid.New(),
		Version: parts.VersionPayload{PartName: "Doomed"},
	})
	if !domainagg.IsCode(err, domainagg.CodeRetryable) {
		t.Fatalf("expected retryable, got %v", err)
	}
	if runner.BeginCalls != 1 {
		t.Fatalf("expected one begin, got %d", runner.BeginCalls)
	}
	if len(hooks.Retries) != 1 {
		t.Fatalf("expected one retry recorded, got %d", len(hooks.Retries))
	}
	if len(hooks.Operations) != 1 || hooks.Operations[0].Status != string(domainagg.CodeRetryable) {
		t.Fatalf("unexpected operation events: %+v", hooks.Operations)
	}
}
