package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/partvault-backend/internal/domain/parts"
)

var PartAggregateContract = Contract{
	Name:             "Parts.PartAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns atomic part/version/revision consistency for part lifecycle writes.",
}

// PartAggregate owns part lifecycle invariants: every version bump, field
// edit, and status change lands atomically alongside its revision entry.
//
// Write method failures should return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeInvariantViolation,
// CodePreconditionFailed, CodeRetryable, CodeInternal.
type PartAggregate interface {
	Aggregate

	// CreatePart atomically persists a new part, its initial version, the
	// INITIAL revision, and any requested relationship rows.
	CreatePart(ctx context.Context, in CreatePartInput) (CreatePartResult, error)

	// CreateNextVersion inserts a strictly-greater version for an existing
	// part and repoints current_version_id at it.
	CreateNextVersion(ctx context.Context, in CreateNextVersionInput) (CreateNextVersionResult, error)

	// UpdatePartVersion applies a sparse patch to an editable version and
	// appends a FIELD_CHANGE revision naming what moved.
	UpdatePartVersion(ctx context.Context, in UpdatePartVersionInput) (UpdatePartVersionResult, error)

	// UpdatePartWithStatus repoints current_version_id and sets the BOM
	// status in one write, with a STATUS_CHANGE revision.
	UpdatePartWithStatus(ctx context.Context, in UpdatePartWithStatusInput) (UpdatePartWithStatusResult, error)

	// DeletePart hard-deletes the part, its versions, their dependents, and
	// every structure edge touching it.
	DeletePart(ctx context.Context, in DeletePartInput) error

	// GetPart composes the part with its current version and revision trail.
	GetPart(ctx context.Context, partID uuid.UUID) (PartView, error)
}

// RelationshipFailure reports one best-effort relationship insert that did
// not land. The surrounding create still succeeds.
type RelationshipFailure struct {
	Kind   string `json:"kind"`
	Target string `json:"target"`
	Reason string `json:"reason"`
}

// StructureEdgeInput describes an assembly edge requested at creation time.
type StructureEdgeInput struct {
	ParentPartID uuid.UUID
	ChildPartID  uuid.UUID
	RelationType string
	// Quantity nil means 1; a supplied value must be > 0.
	Quantity  *float64
	Notes     *string
	ValidFrom *time.Time
}

type ManufacturerLinkInput struct {
	ManufacturerID         uuid.UUID
	ManufacturerPartNumber string
	Description            *string
}

type SupplierLinkInput struct {
	SupplierID         uuid.UUID
	SupplierPartNumber string
	UnitPrice          *float64
	Currency           *string
}

type CustomFieldInput struct {
	FieldName  string
	FieldValue *string
	FieldType  *string
}

type AttachmentInput struct {
	FileName    string
	StorageKey  string
	ContentType *string
}

type RepresentationInput struct {
	Format     string
	StorageKey string
	IsPrimary  bool
}

type ComplianceInput struct {
	Standard          string
	CertificateNumber *string
	ValidUntil        *time.Time
	Details           datatypes.JSON
}

type CreatePartInput struct {
	ActorID          uuid.UUID
	GlobalPartNumber *string
	StatusInBOM      *string
	IsPublic         bool
	Version          parts.VersionPayload

	CategoryIDs   []uuid.UUID
	TagIDs        []uuid.UUID
	FamilyIDs     []uuid.UUID
	GroupIDs      []uuid.UUID
	Manufacturers   []ManufacturerLinkInput
	Suppliers       []SupplierLinkInput
	CustomFields    []CustomFieldInput
	Attachments     []AttachmentInput
	Representations []RepresentationInput
	Compliance      []ComplianceInput
	StructureEdges  []StructureEdgeInput
}

type CreatePartResult struct {
	Part          *parts.Part
	Version       *parts.PartVersion
	Relationships []RelationshipFailure
	CreatedAt     time.Time
}

type CreateNextVersionInput struct {
	ActorID uuid.UUID
	PartID  uuid.UUID
	// Version carries the next version string; empty payload fields inherit
	// from the current version.
	Version parts.VersionPayload
	Patch   parts.VersionPatch
}

type CreateNextVersionResult struct {
	Part      *parts.Part
	Version   *parts.PartVersion
	CreatedAt time.Time
}

type UpdatePartVersionInput struct {
	ActorID           uuid.UUID
	PartVersionID     uuid.UUID
	Patch             parts.VersionPatch
	ChangeDescription string
}

type UpdatePartVersionResult struct {
	Version       *parts.PartVersion
	ChangedFields []string
	UpdatedAt     time.Time
}

type UpdatePartWithStatusInput struct {
	ActorID       uuid.UUID
	PartID        uuid.UUID
	PartVersionID uuid.UUID
	StatusInBOM   string
}

type UpdatePartWithStatusResult struct {
	Part      *parts.Part
	UpdatedAt time.Time
}

type DeletePartInput struct {
	ActorID uuid.UUID
	PartID  uuid.UUID
}

// PartView is the composed read model for one part.
type PartView struct {
	Part      *parts.Part
	Current   *parts.PartVersion
	Versions  []*parts.PartVersion
	Revisions []*parts.PartRevision
}
