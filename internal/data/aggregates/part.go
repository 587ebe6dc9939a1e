package aggregates

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	partrepos "github.com/yungbote/partvault-backend/internal/data/repos/parts"
	domainagg "github.com/yungbote/partvault-backend/internal/domain/aggregates"
	"github.com/yungbote/partvault-backend/internal/domain/parts"
	types "github.com/yungbote/partvault-backend/internal/domain"
	"github.com/yungbote/partvault-backend/internal/pkg/dbctx"
)

type PartAggregateDeps struct {
	Base BaseDeps

	Parts         partrepos.PartRepo
	Versions      partrepos.PartVersionRepo
	Structures    partrepos.PartStructureRepo
	Revisions     partrepos.PartRevisionRepo
	Links         partrepos.PartLinkRepo
	Manufacturers partrepos.ManufacturerPartRepo
	Suppliers     partrepos.SupplierPartRepo
	VersionLinks  partrepos.VersionLinkRepo
}

type partAggregate struct {
	deps PartAggregateDeps
}

func NewPartAggregate(deps PartAggregateDeps) domainagg.PartAggregate {
	deps.Base = deps.Base.withDefaults()
	return &partAggregate{deps: deps}
}

func (a *partAggregate) Contract() domainagg.Contract {
	return domainagg.PartAggregateContract
}

func (a *partAggregate) CreatePart(ctx context.Context, in domainagg.CreatePartInput) (domainagg.CreatePartResult, error) {
	const op = "Parts.Part.CreatePart"
	var out domainagg.CreatePartResult

	if in.ActorID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing actor_id", nil)
	}
	if a.deps.Parts == nil || a.deps.Versions == nil || a.deps.Revisions == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "part aggregate repos not configured", nil)
	}

	now := time.Now().UTC()
	partID := uuid.New()
	versionID := uuid.New()

	record := in.Version.ToVersionRecord(versionID, partID, in.ActorID, now)
	if violations := parts.ValidateVersion(record, parts.ValidateCreate); len(violations) > 0 {
		return out, validationErrorFrom(op, violations)
	}

	bomStatus := parts.BOMStatusConcept
	if s := parts.NormalizeEnum(in.StatusInBOM); s != nil {
		bomStatus = parts.NormalizeStatus(*s)
		if !parts.IsKnownBOMStatus(bomStatus) {
			return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("unknown status_in_bom %q", bomStatus), nil)
		}
	}
	for _, edge := range in.StructureEdges {
		if edge.ParentPartID == uuid.Nil {
			edge.ParentPartID = partID
		}
		if edge.ParentPartID == edge.ChildPartID {
			return out, domainagg.NewError(domainagg.CodeSelfReference, op, "structure edge cannot reference itself", nil)
		}
	}

	var failures []domainagg.RelationshipFailure

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		failures = failures[:0]

		row := &types.Part{
			ID:               partID,
			CreatorID:        in.ActorID,
			GlobalPartNumber: parts.NormalizeEnum(in.GlobalPartNumber),
			StatusInBOM:      bomStatus,
			LifecycleStatus:  parts.LifecycleDraft,
			IsPublic:         in.IsPublic,
			UpdatedBy:        &in.ActorID,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if _, err := a.deps.Parts.Create(dbc, row); err != nil {
			return err
		}
		if _, err := a.deps.Versions.Create(dbc, record); err != nil {
			return err
		}
		if err := a.deps.Parts.UpdateFields(dbc, partID, map[string]interface{}{
			"current_version_id": versionID,
			"updated_at":         now,
		}); err != nil {
			return err
		}

		a.insertRelationships(dbc, in, partID, versionID, now, &failures)

		for i, edge := range in.StructureEdges {
			parent := edge.ParentPartID
			if parent == uuid.Nil {
				parent = partID
			}
			if err := a.insertStructureEdge(dbc, parent, edge, in.ActorID, now, i, &failures); err != nil {
				return err
			}
		}

		rev, err := initialRevision(record, in.ActorID, now)
		if err != nil {
			return err
		}
		if _, err := a.deps.Revisions.Create(dbc, rev); err != nil {
			return err
		}

		row.CurrentVersionID = &versionID
		out = domainagg.CreatePartResult{
			Part:          row,
			Version:       record,
			Relationships: failures,
			CreatedAt:     now,
		}
		return nil
	})
	return out, err
}

// insertRelationships runs every best-effort insert under its own savepoint
// so one bad foreign key cannot poison the surrounding transaction.
func (a *partAggregate) insertRelationships(dbc dbctx.Context, in domainagg.CreatePartInput, partID, versionID uuid.UUID, now time.Time, failures *[]domainagg.RelationshipFailure) {
	attempt := func(kind, target string, fn func() error) {
		sp := fmt.Sprintf("rel_%s_%d", kind, len(*failures))
		dbc.Tx.SavePoint(sp)
		if err := fn(); err != nil {
			dbc.Tx.RollbackTo(sp)
			*failures = append(*failures, domainagg.RelationshipFailure{
				Kind:   kind,
				Target: target,
				Reason: err.Error(),
			})
		}
	}

	for _, id := range in.CategoryIDs {
		cid := id
		attempt("category", cid.String(), func() error {
			_, err := a.deps.Links.CreateCategoryLinks(dbc, []*types.PartCategoryLink{{ID: uuid.New(), PartID: partID, CategoryID: cid}})
			return err
		})
	}
	for _, id := range in.TagIDs {
		tid := id
		attempt("tag", tid.String(), func() error {
			_, err := a.deps.Links.CreateTagLinks(dbc, []*types.PartTagLink{{ID: uuid.New(), PartID: partID, TagID: tid}})
			return err
		})
	}
	for _, id := range in.FamilyIDs {
		fid := id
		attempt("family", fid.String(), func() error {
			_, err := a.deps.Links.CreateFamilyLinks(dbc, []*types.PartFamilyLink{{ID: uuid.New(), PartID: partID, FamilyID: fid}})
			return err
		})
	}
	for _, id := range in.GroupIDs {
		gid := id
		attempt("group", gid.String(), func() error {
			_, err := a.deps.Links.CreateGroupLinks(dbc, []*types.PartGroupLink{{ID: uuid.New(), PartID: partID, GroupID: gid}})
			return err
		})
	}
	for _, m := range in.Manufacturers {
		mIn := m
		attempt("manufacturer", mIn.ManufacturerID.String(), func() error {
			_, err := a.deps.Manufacturers.CreateIgnoreDuplicates(dbc, []*types.ManufacturerPart{{
				ID:                     uuid.New(),
				PartID:                 partID,
				ManufacturerID:         mIn.ManufacturerID,
				ManufacturerPartNumber: strings.TrimSpace(mIn.ManufacturerPartNumber),
				Description:            mIn.Description,
				CreatedAt:              now,
				UpdatedAt:              now,
			}})
			return err
		})
	}
	for _, s := range in.Suppliers {
		sIn := s
		attempt("supplier", sIn.SupplierID.String(), func() error {
			_, err := a.deps.Suppliers.CreateIgnoreDuplicates(dbc, []*types.SupplierPart{{
				ID:                 uuid.New(),
				PartID:             partID,
				SupplierID:         sIn.SupplierID,
				SupplierPartNumber: strings.TrimSpace(sIn.SupplierPartNumber),
				UnitPrice:          sIn.UnitPrice,
				Currency:           sIn.Currency,
				CreatedAt:          now,
				UpdatedAt:          now,
			}})
			return err
		})
	}
	for _, f := range in.CustomFields {
		fIn := f
		attempt("custom_field", fIn.FieldName, func() error {
			_, err := a.deps.VersionLinks.CreateCustomFields(dbc, []*types.PartCustomField{{
				ID:            uuid.New(),
				PartVersionID: versionID,
				FieldName:     strings.TrimSpace(fIn.FieldName),
				FieldValue:    fIn.FieldValue,
				FieldType:     fIn.FieldType,
				CreatedAt:     now,
				UpdatedAt:     now,
			}})
			return err
		})
	}
	for _, att := range in.Attachments {
		aIn := att
		attempt("attachment", aIn.FileName, func() error {
			_, err := a.deps.VersionLinks.CreateAttachments(dbc, []*types.PartAttachment{{
				ID:            uuid.New(),
				PartVersionID: versionID,
				FileName:      strings.TrimSpace(aIn.FileName),
				StorageKey:    strings.TrimSpace(aIn.StorageKey),
				ContentType:   aIn.ContentType,
				UploadedBy:    in.ActorID,
				CreatedAt:     now,
			}})
			return err
		})
	}
	for _, rep := range in.Representations {
		rIn := rep
		attempt("representation", rIn.Format, func() error {
			_, err := a.deps.VersionLinks.CreateRepresentations(dbc, []*types.PartRepresentation{{
				ID:            uuid.New(),
				PartVersionID: versionID,
				Format:        strings.TrimSpace(rIn.Format),
				StorageKey:    strings.TrimSpace(rIn.StorageKey),
				IsPrimary:     rIn.IsPrimary,
				CreatedAt:     now,
			}})
			return err
		})
	}
	for _, c := range in.Compliance {
		cIn := c
		attempt("compliance", cIn.Standard, func() error {
			_, err := a.deps.VersionLinks.CreateCompliance(dbc, []*types.PartCompliance{{
				ID:                uuid.New(),
				PartVersionID:     versionID,
				Standard:          strings.TrimSpace(cIn.Standard),
				CertificateNumber: cIn.CertificateNumber,
				ValidUntil:        cIn.ValidUntil,
				Details:           cIn.Details,
				CreatedAt:         now,
				UpdatedAt:         now,
			}})
			return err
		})
	}
}

func (a *partAggregate) insertStructureEdge(dbc dbctx.Context, parentID uuid.UUID, edge domainagg.StructureEdgeInput, actorID uuid.UUID, now time.Time, idx int, failures *[]domainagg.RelationshipFailure) error {
	relation := parts.RelationAssembly
	if r := parts.NormalizeEnum(&edge.RelationType); r != nil {
		relation = parts.NormalizeStatus(*r)
	}
	if !parts.IsKnownRelationType(relation) {
		return ValidationError(fmt.Sprintf("unknown relation_type %q", relation))
	}
	quantity := 1.0
	if edge.Quantity != nil {
		quantity = *edge.Quantity
	}
	if quantity <= 0 {
		return ValidationError("quantity must be > 0")
	}
	validFrom := now
	if edge.ValidFrom != nil {
		validFrom = edge.ValidFrom.UTC()
	}

	reachable, err := a.reachable(dbc, edge.ChildPartID, parentID, uuid.Nil, now)
	if err != nil {
		return err
	}
	if reachable {
		return CircularReferenceError("edge would close an assembly cycle")
	}

	sp := fmt.Sprintf("edge_%d", idx)
	dbc.Tx.SavePoint(sp)
	_, err = a.deps.Structures.Create(dbc, &types.PartStructure{
		ID:           uuid.New(),
		ParentPartID: parentID,
		ChildPartID:  edge.ChildPartID,
		RelationType: relation,
		Quantity:     quantity,
		Notes:        edge.Notes,
		ValidFrom:    validFrom,
		CreatedBy:    actorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		dbc.Tx.RollbackTo(sp)
		*failures = append(*failures, domainagg.RelationshipFailure{
			Kind:   "structure_edge",
			Target: edge.ChildPartID.String(),
			Reason: err.Error(),
		})
	}
	return nil
}

// reachable walks currently-valid edges breadth-first from `from`, reporting
// whether `to` can be reached. excludeEdge lets callers ignore an edge being
// replaced or re-parented.
func (a *partAggregate) reachable(dbc dbctx.Context, from, to uuid.UUID, excludeEdge uuid.UUID, at time.Time) (bool, error) {
	return reachableVia(a.deps.Structures, dbc, from, to, excludeEdge, at)
}

func reachableVia(structures partrepos.PartStructureRepo, dbc dbctx.Context, from, to uuid.UUID, excludeEdge uuid.UUID, at time.Time) (bool, error) {
	if from == to {
		return true, nil
	}
	seen := map[uuid.UUID]bool{from: true}
	frontier := []uuid.UUID{from}
	for len(frontier) > 0 {
		edges, err := structures.GetActiveByParentIDs(dbc, frontier, at)
		if err != nil {
			return false, err
		}
		frontier = frontier[:0]
		for _, e := range edges {
			if excludeEdge != uuid.Nil && e.ID == excludeEdge {
				continue
			}
			if e.ChildPartID == to {
				return true, nil
			}
			if !seen[e.ChildPartID] {
				seen[e.ChildPartID] = true
				frontier = append(frontier, e.ChildPartID)
			}
		}
	}
	return false, nil
}

func (a *partAggregate) CreateNextVersion(ctx context.Context, in domainagg.CreateNextVersionInput) (domainagg.CreateNextVersionResult, error) {
	const op = "Parts.Part.CreateNextVersion"
	var out domainagg.CreateNextVersionResult

	if in.ActorID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing actor_id", nil)
	}
	if in.PartID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing part_id", nil)
	}
	nextVersion := strings.TrimSpace(in.Version.PartVersion)
	if !parts.IsValidVersion(nextVersion) {
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("part_version must match MAJOR.MINOR.PATCH, got %q", nextVersion), nil)
	}

	now := time.Now().UTC()

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		part, err := a.deps.Parts.LockByID(dbc, in.PartID)
		if err != nil {
			return err
		}
		if part == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("part not found: %s", in.PartID), nil)
		}
		if part.CurrentVersionID == nil {
			return InvariantError("part has no current version")
		}
		current, err := a.deps.Versions.GetByID(dbc, *part.CurrentVersionID)
		if err != nil {
			return err
		}
		if current == nil {
			return InvariantError("current version row missing")
		}

		cmp, err := parts.CompareVersions(nextVersion, current.PartVersion)
		if err != nil {
			return ValidationError(err.Error())
		}
		if cmp <= 0 {
			return ValidationError(fmt.Sprintf("version %s must be greater than current %s", nextVersion, current.PartVersion))
		}

		record := copyVersionForward(current, uuid.New(), nextVersion, in.ActorID, now)
		if name := strings.TrimSpace(in.Version.PartName); name != "" {
			record.PartName = name
		}
		in.Patch.Apply(record)

		if violations := parts.ValidateVersion(record, parts.ValidateCreate); len(violations) > 0 {
			return validationErrorFrom(op, violations)
		}

		if _, err := a.deps.Versions.Create(dbc, record); err != nil {
			return err
		}
		if err := a.deps.Parts.UpdateFields(dbc, part.ID, map[string]interface{}{
			"current_version_id": record.ID,
			"updated_by":         in.ActorID,
			"updated_at":         now,
		}); err != nil {
			return err
		}

		rev, err := initialRevision(record, in.ActorID, now)
		if err != nil {
			return err
		}
		if _, err := a.deps.Revisions.Create(dbc, rev); err != nil {
			return err
		}

		part.CurrentVersionID = &record.ID
		part.UpdatedBy = &in.ActorID
		part.UpdatedAt = now
		out = domainagg.CreateNextVersionResult{Part: part, Version: record, CreatedAt: now}
		return nil
	})
	return out, err
}

func (a *partAggregate) UpdatePartVersion(ctx context.Context, in domainagg.UpdatePartVersionInput) (domainagg.UpdatePartVersionResult, error) {
	const op = "Parts.Part.UpdatePartVersion"
	var out domainagg.UpdatePartVersionResult

	if in.ActorID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing actor_id", nil)
	}
	if in.PartVersionID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing part_version_id", nil)
	}
	if in.Patch.IsEmpty() {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "patch carries no fields", nil)
	}

	now := time.Now().UTC()

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		version, err := a.deps.Versions.LockByID(dbc, in.PartVersionID)
		if err != nil {
			return err
		}
		if version == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("part version not found: %s", in.PartVersionID), nil)
		}
		if !parts.IsEditableStatus(version.VersionStatus) {
			return InvariantError(fmt.Sprintf("version with status %q is not editable", version.VersionStatus))
		}

		merged := *version
		changed, prev, next := in.Patch.Apply(&merged)

		if violations := parts.ValidateVersion(&merged, parts.ValidateEdit); len(violations) > 0 {
			return validationErrorFrom(op, violations)
		}

		if len(changed) > 0 {
			updates := versionColumnUpdates(&merged, changed)
			updates["updated_by"] = in.ActorID
			updates["updated_at"] = now
			if err := a.deps.Versions.UpdateFields(dbc, version.ID, updates); err != nil {
				return err
			}

			rev, err := fieldChangeRevision(version.ID, in.ActorID, in.ChangeDescription, changed, prev, next, now)
			if err != nil {
				return err
			}
			if _, err := a.deps.Revisions.Create(dbc, rev); err != nil {
				return err
			}
		}

		if in.Patch.CategoryIDs != nil {
			if err := a.deps.Links.ReplaceCategoryLinks(dbc, version.PartID, *in.Patch.CategoryIDs); err != nil {
				return err
			}
		}

		// A patch that changes nothing writes nothing; report the stored
		// audit pair rather than inventing a fresh one.
		if len(changed) > 0 {
			merged.UpdatedBy = &in.ActorID
			merged.UpdatedAt = now
		}
		out = domainagg.UpdatePartVersionResult{
			Version:       &merged,
			ChangedFields: changed,
			UpdatedAt:     merged.UpdatedAt,
		}
		return nil
	})
	return out, err
}

func (a *partAggregate) UpdatePartWithStatus(ctx context.Context, in domainagg.UpdatePartWithStatusInput) (domainagg.UpdatePartWithStatusResult, error) {
	const op = "Parts.Part.UpdatePartWithStatus"
	var out domainagg.UpdatePartWithStatusResult

	if in.ActorID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing actor_id", nil)
	}
	if in.PartID == uuid.Nil || in.PartVersionID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing part_id or part_version_id", nil)
	}
	status := parts.NormalizeStatus(in.StatusInBOM)
	if !parts.IsKnownBOMStatus(status) {
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("unknown status_in_bom %q", in.StatusInBOM), nil)
	}

	now := time.Now().UTC()

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		part, err := a.deps.Parts.LockByID(dbc, in.PartID)
		if err != nil {
			return err
		}
		if part == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("part not found: %s", in.PartID), nil)
		}
		version, err := a.deps.Versions.GetByID(dbc, in.PartVersionID)
		if err != nil {
			return err
		}
		if version == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("part version not found: %s", in.PartVersionID), nil)
		}
		if version.PartID != part.ID {
			return InvariantError("version does not belong to part")
		}

		// A concurrent writer that already landed the same transition loses
		// rather than silently double-applying.
		samePointer := part.CurrentVersionID != nil && *part.CurrentVersionID == version.ID
		if part.StatusInBOM == status && samePointer {
			return ConflictError("status already applied")
		}
		ok, err := a.deps.Base.CASGuard.UpdateByStatus(dbc, "part", "status_in_bom", part.ID, []string{part.StatusInBOM}, map[string]any{
			"current_version_id": version.ID,
			"status_in_bom":      status,
			"updated_by":         in.ActorID,
			"updated_at":         now,
		})
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "part changed while updating status"); err != nil {
			return err
		}

		rev, err := statusChangeRevision(version.ID, in.ActorID, part.StatusInBOM, status, now)
		if err != nil {
			return err
		}
		if _, err := a.deps.Revisions.Create(dbc, rev); err != nil {
			return err
		}

		part.CurrentVersionID = &version.ID
		part.StatusInBOM = status
		part.UpdatedBy = &in.ActorID
		part.UpdatedAt = now
		out = domainagg.UpdatePartWithStatusResult{Part: part, UpdatedAt: now}
		return nil
	})
	return out, err
}

func (a *partAggregate) DeletePart(ctx context.Context, in domainagg.DeletePartInput) error {
	const op = "Parts.Part.DeletePart"

	if in.ActorID == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "missing actor_id", nil)
	}
	if in.PartID == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "missing part_id", nil)
	}

	return executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		part, err := a.deps.Parts.LockByID(dbc, in.PartID)
		if err != nil {
			return err
		}
		if part == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("part not found: %s", in.PartID), nil)
		}

		versions, err := a.deps.Versions.GetByPartID(dbc, part.ID)
		if err != nil {
			return err
		}
		versionIDs := make([]uuid.UUID, 0, len(versions))
		for _, v := range versions {
			versionIDs = append(versionIDs, v.ID)
		}

		if err := a.deps.Structures.FullDeleteByPartIDs(dbc, []uuid.UUID{part.ID}); err != nil {
			return err
		}
		if err := a.deps.Revisions.FullDeleteByVersionIDs(dbc, versionIDs); err != nil {
			return err
		}
		if err := a.deps.VersionLinks.FullDeleteByVersionIDs(dbc, versionIDs); err != nil {
			return err
		}
		if err := a.deps.Links.FullDeleteByPartID(dbc, part.ID); err != nil {
			return err
		}
		if err := a.deps.Manufacturers.FullDeleteByPartID(dbc, part.ID); err != nil {
			return err
		}
		if err := a.deps.Suppliers.FullDeleteByPartID(dbc, part.ID); err != nil {
			return err
		}
		if err := a.deps.Versions.FullDeleteByPartID(dbc, part.ID); err != nil {
			return err
		}
		return a.deps.Parts.FullDeleteByID(dbc, part.ID)
	})
}

func (a *partAggregate) GetPart(ctx context.Context, partID uuid.UUID) (domainagg.PartView, error) {
	const op = "Parts.Part.GetPart"
	var out domainagg.PartView

	if partID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing part_id", nil)
	}

	start := time.Now()
	deps := a.deps.Base.withDefaults()
	dbc := dbctx.Context{Ctx: ctx}

	err := func() error {
		part, err := a.deps.Parts.GetByID(dbc, partID)
		if err != nil {
			return err
		}
		if part == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("part not found: %s", partID), nil)
		}
		versions, err := a.deps.Versions.GetByPartID(dbc, partID)
		if err != nil {
			return err
		}
		versionIDs := make([]uuid.UUID, 0, len(versions))
		var current *parts.PartVersion
		for _, v := range versions {
			versionIDs = append(versionIDs, v.ID)
			if part.CurrentVersionID != nil && v.ID == *part.CurrentVersionID {
				current = v
			}
		}
		revisions, err := a.deps.Revisions.GetByVersionIDs(dbc, versionIDs)
		if err != nil {
			return err
		}
		out = domainagg.PartView{
			Part:      part,
			Current:   current,
			Versions:  versions,
			Revisions: revisions,
		}
		return nil
	}()

	mapped := MapError(op, err)
	status := "success"
	if mapped != nil {
		status = aggregateErrorStatus(mapped)
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return out, mapped
}

func validationErrorFrom(op string, violations []parts.FieldViolation) error {
	msgs := make([]string, 0, len(violations))
	for _, v := range violations {
		msgs = append(msgs, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return domainagg.NewError(domainagg.CodeValidation, op, strings.Join(msgs, "; "), nil)
}

func copyVersionForward(current *parts.PartVersion, id uuid.UUID, version string, actorID uuid.UUID, now time.Time) *parts.PartVersion {
	next := *current
	next.ID = id
	next.PartVersion = version
	next.VersionStatus = parts.LifecycleDraft
	next.CreatedBy = actorID
	next.UpdatedBy = nil
	next.CreatedAt = now
	next.UpdatedAt = now
	return &next
}

func initialRevision(v *parts.PartVersion, actorID uuid.UUID, now time.Time) (*types.PartRevision, error) {
	snapshot, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &types.PartRevision{
		ID:                uuid.New(),
		PartVersionID:     v.ID,
		ChangeType:        parts.ChangeTypeInitial,
		ChangeDescription: fmt.Sprintf("version %s created", v.PartVersion),
		ChangedBy:         actorID,
		ChangedFields:     datatypes.JSON([]byte(`[]`)),
		PreviousValues:    datatypes.JSON([]byte(`{}`)),
		NewValues:         datatypes.JSON(snapshot),
		RevisionDate:      now,
	}, nil
}

func fieldChangeRevision(versionID, actorID uuid.UUID, description string, changed []string, prev, next map[string]any, now time.Time) (*types.PartRevision, error) {
	fieldsJSON, err := json.Marshal(changed)
	if err != nil {
		return nil, err
	}
	prevJSON, err := json.Marshal(prev)
	if err != nil {
		return nil, err
	}
	nextJSON, err := json.Marshal(next)
	if err != nil {
		return nil, err
	}
	description = strings.TrimSpace(description)
	if description == "" {
		description = fmt.Sprintf("%d field(s) changed", len(changed))
	}
	return &types.PartRevision{
		ID:                uuid.New(),
		PartVersionID:     versionID,
		ChangeType:        parts.ChangeTypeFieldChange,
		ChangeDescription: description,
		ChangedBy:         actorID,
		ChangedFields:     datatypes.JSON(fieldsJSON),
		PreviousValues:    datatypes.JSON(prevJSON),
		NewValues:         datatypes.JSON(nextJSON),
		RevisionDate:      now,
	}, nil
}

func statusChangeRevision(versionID, actorID uuid.UUID, fromStatus, toStatus string, now time.Time) (*types.PartRevision, error) {
	prevJSON, err := json.Marshal(map[string]any{"status_in_bom": fromStatus})
	if err != nil {
		return nil, err
	}
	nextJSON, err := json.Marshal(map[string]any{"status_in_bom": toStatus})
	if err != nil {
		return nil, err
	}
	return &types.PartRevision{
		ID:                uuid.New(),
		PartVersionID:     versionID,
		ChangeType:        parts.ChangeTypeStatusChange,
		ChangeDescription: fmt.Sprintf("status %s -> %s", fromStatus, toStatus),
		ChangedBy:         actorID,
		ChangedFields:     datatypes.JSON([]byte(`["status_in_bom","current_version_id"]`)),
		PreviousValues:    datatypes.JSON(prevJSON),
		NewValues:         datatypes.JSON(nextJSON),
		RevisionDate:      now,
	}, nil
}

// versionColumnUpdates maps changed field names back to column values on the
// merged record. Only fields named by Apply appear in the result.
func versionColumnUpdates(v *parts.PartVersion, changed []string) map[string]interface{} {
	updates := make(map[string]interface{}, len(changed)+2)
	for _, field := range changed {
		switch field {
		case "part_name":
			updates[field] = v.PartName
		case "electrical_properties":
			updates[field] = v.ElectricalProperties
		case "mechanical_properties":
			updates[field] = v.MechanicalProperties
		case "thermal_properties":
			updates[field] = v.ThermalProperties
		case "environmental_data":
			updates[field] = v.EnvironmentalData
		case "weight":
			updates[field] = v.Weight
		case "weight_unit":
			updates[field] = v.WeightUnit
		case "dimensions":
			updates[field] = v.Dimensions
		case "dimensions_unit":
			updates[field] = v.DimensionsUnit
		case "tolerance":
			updates[field] = v.Tolerance
		case "tolerance_unit":
			updates[field] = v.ToleranceUnit
		case "voltage_rating_min":
			updates[field] = v.VoltageRatingMin
		case "voltage_rating_max":
			updates[field] = v.VoltageRatingMax
		case "current_rating_min":
			updates[field] = v.CurrentRatingMin
		case "current_rating_max":
			updates[field] = v.CurrentRatingMax
		case "operating_temp_min":
			updates[field] = v.OperatingTempMin
		case "operating_temp_max":
			updates[field] = v.OperatingTempMax
		case "storage_temp_min":
			updates[field] = v.StorageTempMin
		case "storage_temp_max":
			updates[field] = v.StorageTempMax
		case "package_type":
			updates[field] = v.PackageType
		case "mounting_type":
			updates[field] = v.MountingType
		}
	}
	return updates
}
