package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/partvault-backend/internal/domain/parts"
)

var StructureAggregateContract = Contract{
	Name:             "Parts.StructureAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns acyclic assembly-graph consistency for structure edge writes.",
}

// StructureAggregate owns the assembly graph invariants: no self edges, and
// the currently-valid edge set stays acyclic after every write.
//
// Write method failures should return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeSelfReference, CodeCircularReference,
// CodeConflict, CodeRetryable, CodeInternal.
type StructureAggregate interface {
	Aggregate

	// AddEdge inserts a parent→child edge after self-reference and cycle
	// checks, appending a STRUCTURE_CHANGE revision on the parent's current
	// version when one exists.
	AddEdge(ctx context.Context, in AddEdgeInput) (EdgeResult, error)

	// UpdateEdge mutates an existing edge; endpoint changes re-run the
	// cycle check.
	UpdateEdge(ctx context.Context, in UpdateEdgeInput) (EdgeResult, error)

	// RemoveEdge hard-deletes an edge.
	RemoveEdge(ctx context.Context, in RemoveEdgeInput) error

	// SupersedeEdge closes the old edge's validity window and inserts its
	// replacement in the same transaction.
	SupersedeEdge(ctx context.Context, in SupersedeEdgeInput) (SupersedeEdgeResult, error)

	// EdgesForPart lists edges touching the part on either side.
	EdgesForPart(ctx context.Context, partID uuid.UUID, activeOnly bool) ([]*parts.PartStructure, error)
}

type AddEdgeInput struct {
	ActorID      uuid.UUID
	ParentPartID uuid.UUID
	ChildPartID  uuid.UUID
	RelationType string
	// Quantity nil means 1; a supplied value must be > 0.
	Quantity  *float64
	Notes     *string
	ValidFrom *time.Time
}

type EdgeResult struct {
	Edge      *parts.PartStructure
	UpdatedAt time.Time
}

type UpdateEdgeInput struct {
	ActorID uuid.UUID
	EdgeID  uuid.UUID

	ParentPartID *uuid.UUID
	ChildPartID  *uuid.UUID
	RelationType *string
	Quantity     *float64
	Notes        *string
	ValidFrom    *time.Time
	ValidUntil   *time.Time
}

type RemoveEdgeInput struct {
	ActorID uuid.UUID
	EdgeID  uuid.UUID
}

type SupersedeEdgeInput struct {
	ActorID uuid.UUID
	EdgeID  uuid.UUID

	// Replacement edge; zero-value endpoints inherit from the old edge.
	ChildPartID  *uuid.UUID
	RelationType *string
	Quantity     *float64
	Notes        *string
	EffectiveAt  *time.Time
}

type SupersedeEdgeResult struct {
	Closed   *parts.PartStructure
	Replaced *parts.PartStructure
}
