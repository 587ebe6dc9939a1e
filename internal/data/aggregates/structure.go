package aggregates

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	partrepos "github.com/yungbote/partvault-backend/internal/data/repos/parts"
	domainagg "github.com/yungbote/partvault-backend/internal/domain/aggregates"
	"github.com/yungbote/partvault-backend/internal/domain/parts"
	types "github.com/yungbote/partvault-backend/internal/domain"
	"github.com/yungbote/partvault-backend/internal/pkg/dbctx"
)

type StructureAggregateDeps struct {
	Base BaseDeps

	Parts      partrepos.PartRepo
	Versions   partrepos.PartVersionRepo
	Structures partrepos.PartStructureRepo
	Revisions  partrepos.PartRevisionRepo
}

type structureAggregate struct {
	deps StructureAggregateDeps
}

func NewStructureAggregate(deps StructureAggregateDeps) domainagg.StructureAggregate {
	deps.Base = deps.Base.withDefaults()
	return &structureAggregate{deps: deps}
}

func (a *structureAggregate) Contract() domainagg.Contract {
	return domainagg.StructureAggregateContract
}

func (a *structureAggregate) AddEdge(ctx context.Context, in domainagg.AddEdgeInput) (domainagg.EdgeResult, error) {
	const op = "Parts.Structure.AddEdge"
	var out domainagg.EdgeResult

	if in.ActorID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing actor_id", nil)
	}
	if in.ParentPartID == uuid.Nil || in.ChildPartID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing parent_part_id or child_part_id", nil)
	}
	if in.ParentPartID == in.ChildPartID {
		return out, domainagg.NewError(domainagg.CodeSelfReference, op, "part cannot reference itself", nil)
	}
	relation := parts.RelationAssembly
	if r := parts.NormalizeEnum(&in.RelationType); r != nil {
		relation = parts.NormalizeStatus(*r)
	}
	if !parts.IsKnownRelationType(relation) {
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("unknown relation_type %q", relation), nil)
	}
	quantity := 1.0
	if in.Quantity != nil {
		quantity = *in.Quantity
	}
	if quantity <= 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "quantity must be > 0", nil)
	}

	now := time.Now().UTC()
	validFrom := now
	if in.ValidFrom != nil {
		validFrom = in.ValidFrom.UTC()
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		parent, err := a.deps.Parts.LockByID(dbc, in.ParentPartID)
		if err != nil {
			return err
		}
		if parent == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("parent part not found: %s", in.ParentPartID), nil)
		}
		child, err := a.deps.Parts.GetByID(dbc, in.ChildPartID)
		if err != nil {
			return err
		}
		if child == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("child part not found: %s", in.ChildPartID), nil)
		}

		reachable, err := reachableVia(a.deps.Structures, dbc, in.ChildPartID, in.ParentPartID, uuid.Nil, now)
		if err != nil {
			return err
		}
		if reachable {
			return CircularReferenceError("edge would close an assembly cycle")
		}

		edge := &types.PartStructure{
			ID:           uuid.New(),
			ParentPartID: in.ParentPartID,
			ChildPartID:  in.ChildPartID,
			RelationType: relation,
			Quantity:     quantity,
			Notes:        in.Notes,
			ValidFrom:    validFrom,
			CreatedBy:    in.ActorID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if _, err := a.deps.Structures.Create(dbc, edge); err != nil {
			return err
		}

		if err := a.appendStructureRevision(dbc, parent, in.ActorID, fmt.Sprintf("edge added: %s -> %s (%s)", in.ParentPartID, in.ChildPartID, relation), edge, now); err != nil {
			return err
		}

		out = domainagg.EdgeResult{Edge: edge, UpdatedAt: now}
		return nil
	})
	return out, err
}

func (a *structureAggregate) UpdateEdge(ctx context.Context, in domainagg.UpdateEdgeInput) (domainagg.EdgeResult, error) {
	const op = "Parts.Structure.UpdateEdge"
	var out domainagg.EdgeResult

	if in.ActorID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing actor_id", nil)
	}
	if in.EdgeID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing edge_id", nil)
	}
	if in.RelationType != nil {
		r := parts.NormalizeStatus(*in.RelationType)
		if !parts.IsKnownRelationType(r) {
			return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("unknown relation_type %q", r), nil)
		}
	}
	if in.Quantity != nil && *in.Quantity <= 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "quantity must be > 0", nil)
	}

	now := time.Now().UTC()

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		edge, err := a.deps.Structures.LockByID(dbc, in.EdgeID)
		if err != nil {
			return err
		}
		if edge == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("edge not found: %s", in.EdgeID), nil)
		}

		parentID := edge.ParentPartID
		childID := edge.ChildPartID
		if in.ParentPartID != nil {
			parentID = *in.ParentPartID
		}
		if in.ChildPartID != nil {
			childID = *in.ChildPartID
		}
		if parentID == childID {
			return SelfReferenceError("part cannot reference itself")
		}

		endpointsChanged := parentID != edge.ParentPartID || childID != edge.ChildPartID
		if endpointsChanged {
			for _, id := range []uuid.UUID{parentID, childID} {
				p, err := a.deps.Parts.GetByID(dbc, id)
				if err != nil {
					return err
				}
				if p == nil {
					return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("part not found: %s", id), nil)
				}
			}
			reachable, err := reachableVia(a.deps.Structures, dbc, childID, parentID, edge.ID, now)
			if err != nil {
				return err
			}
			if reachable {
				return CircularReferenceError("edge would close an assembly cycle")
			}
		}

		updates := map[string]interface{}{"updated_at": now}
		if in.ParentPartID != nil {
			updates["parent_part_id"] = parentID
			edge.ParentPartID = parentID
		}
		if in.ChildPartID != nil {
			updates["child_part_id"] = childID
			edge.ChildPartID = childID
		}
		if in.RelationType != nil {
			r := parts.NormalizeStatus(*in.RelationType)
			updates["relation_type"] = r
			edge.RelationType = r
		}
		if in.Quantity != nil {
			updates["quantity"] = *in.Quantity
			edge.Quantity = *in.Quantity
		}
		if in.Notes != nil {
			notes := parts.NormalizeEnum(in.Notes)
			updates["notes"] = notes
			edge.Notes = notes
		}
		if in.ValidFrom != nil {
			vf := in.ValidFrom.UTC()
			updates["valid_from"] = vf
			edge.ValidFrom = vf
		}
		if in.ValidUntil != nil {
			vu := in.ValidUntil.UTC()
			updates["valid_until"] = vu
			edge.ValidUntil = &vu
		}
		if err := a.deps.Structures.UpdateFields(dbc, edge.ID, updates); err != nil {
			return err
		}

		edge.UpdatedAt = now
		out = domainagg.EdgeResult{Edge: edge, UpdatedAt: now}
		return nil
	})
	return out, err
}

func (a *structureAggregate) RemoveEdge(ctx context.Context, in domainagg.RemoveEdgeInput) error {
	const op = "Parts.Structure.RemoveEdge"

	if in.ActorID == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "missing actor_id", nil)
	}
	if in.EdgeID == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "missing edge_id", nil)
	}

	now := time.Now().UTC()

	return executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		edge, err := a.deps.Structures.LockByID(dbc, in.EdgeID)
		if err != nil {
			return err
		}
		if edge == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("edge not found: %s", in.EdgeID), nil)
		}
		if err := a.deps.Structures.FullDeleteByID(dbc, edge.ID); err != nil {
			return err
		}

		parent, err := a.deps.Parts.GetByID(dbc, edge.ParentPartID)
		if err != nil {
			return err
		}
		if parent != nil {
			if err := a.appendStructureRevision(dbc, parent, in.ActorID, fmt.Sprintf("edge removed: %s -> %s", edge.ParentPartID, edge.ChildPartID), edge, now); err != nil {
				return err
			}
		}
		return nil
	})
}

func (a *structureAggregate) SupersedeEdge(ctx context.Context, in domainagg.SupersedeEdgeInput) (domainagg.SupersedeEdgeResult, error) {
	const op = "Parts.Structure.SupersedeEdge"
	var out domainagg.SupersedeEdgeResult

	if in.ActorID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing actor_id", nil)
	}
	if in.EdgeID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing edge_id", nil)
	}
	if in.RelationType != nil {
		r := parts.NormalizeStatus(*in.RelationType)
		if !parts.IsKnownRelationType(r) {
			return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("unknown relation_type %q", r), nil)
		}
	}
	if in.Quantity != nil && *in.Quantity <= 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "quantity must be > 0", nil)
	}

	now := time.Now().UTC()
	effectiveAt := now
	if in.EffectiveAt != nil {
		effectiveAt = in.EffectiveAt.UTC()
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		old, err := a.deps.Structures.LockByID(dbc, in.EdgeID)
		if err != nil {
			return err
		}
		if old == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("edge not found: %s", in.EdgeID), nil)
		}
		if !old.ValidAt(effectiveAt) {
			return InvariantError("edge is not valid at the supersede instant")
		}

		parent, err := a.deps.Parts.LockByID(dbc, old.ParentPartID)
		if err != nil {
			return err
		}
		if parent == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("parent part not found: %s", old.ParentPartID), nil)
		}

		childID := old.ChildPartID
		if in.ChildPartID != nil {
			childID = *in.ChildPartID
		}
		if childID == old.ParentPartID {
			return SelfReferenceError("part cannot reference itself")
		}
		if childID != old.ChildPartID {
			child, err := a.deps.Parts.GetByID(dbc, childID)
			if err != nil {
				return err
			}
			if child == nil {
				return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("child part not found: %s", childID), nil)
			}
		}

		// Cycle check against the valid set minus the edge being closed.
		reachable, err := reachableVia(a.deps.Structures, dbc, childID, old.ParentPartID, old.ID, effectiveAt)
		if err != nil {
			return err
		}
		if reachable {
			return CircularReferenceError("replacement edge would close an assembly cycle")
		}

		if err := a.deps.Structures.UpdateFields(dbc, old.ID, map[string]interface{}{
			"valid_until": effectiveAt,
			"updated_at":  now,
		}); err != nil {
			return err
		}
		vu := effectiveAt
		old.ValidUntil = &vu
		old.UpdatedAt = now

		relation := old.RelationType
		if in.RelationType != nil {
			relation = parts.NormalizeStatus(*in.RelationType)
		}
		quantity := old.Quantity
		if in.Quantity != nil {
			quantity = *in.Quantity
		}
		notes := old.Notes
		if in.Notes != nil {
			notes = parts.NormalizeEnum(in.Notes)
		}

		replacement := &types.PartStructure{
			ID:           uuid.New(),
			ParentPartID: old.ParentPartID,
			ChildPartID:  childID,
			RelationType: relation,
			Quantity:     quantity,
			Notes:        notes,
			ValidFrom:    effectiveAt,
			CreatedBy:    in.ActorID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if _, err := a.deps.Structures.Create(dbc, replacement); err != nil {
			return err
		}

		if err := a.appendStructureRevision(dbc, parent, in.ActorID, fmt.Sprintf("edge superseded: %s -> %s replaces %s", old.ParentPartID, childID, old.ID), replacement, now); err != nil {
			return err
		}

		out = domainagg.SupersedeEdgeResult{Closed: old, Replaced: replacement}
		return nil
	})
	return out, err
}

func (a *structureAggregate) EdgesForPart(ctx context.Context, partID uuid.UUID, activeOnly bool) ([]*parts.PartStructure, error) {
	const op = "Parts.Structure.EdgesForPart"

	if partID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing part_id", nil)
	}

	start := time.Now()
	deps := a.deps.Base.withDefaults()
	dbc := dbctx.Context{Ctx: ctx}

	edges, err := a.deps.Structures.GetByPartIDs(dbc, []uuid.UUID{partID}, activeOnly, time.Now().UTC())
	mapped := MapError(op, err)
	status := "success"
	if mapped != nil {
		status = aggregateErrorStatus(mapped)
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	if mapped != nil {
		return nil, mapped
	}
	return edges, nil
}

// appendStructureRevision logs a STRUCTURE_CHANGE entry on the parent's
// current version; parents without one have nowhere to hang the entry.
func (a *structureAggregate) appendStructureRevision(dbc dbctx.Context, parent *types.Part, actorID uuid.UUID, description string, edge *types.PartStructure, now time.Time) error {
	if parent.CurrentVersionID == nil {
		return nil
	}
	edgeJSON, err := json.Marshal(edge)
	if err != nil {
		return err
	}
	_, err = a.deps.Revisions.Create(dbc, &types.PartRevision{
		ID:                uuid.New(),
		PartVersionID:     *parent.CurrentVersionID,
		ChangeType:        parts.ChangeTypeStructureChange,
		ChangeDescription: description,
		ChangedBy:         actorID,
		ChangedFields:     datatypes.JSON([]byte(`["part_structure"]`)),
		PreviousValues:    datatypes.JSON([]byte(`{}`)),
		NewValues:         datatypes.JSON(edgeJSON),
		RevisionDate:      now,
	})
	return err
}
