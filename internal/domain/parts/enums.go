package parts

import "strings"

// BOM status values for Part.StatusInBOM.
const (
	BOMStatusConcept    = "concept"
	BOMStatusDesign     = "design"
	BOMStatusValidation = "validation"
	BOMStatusProduction = "production"
	BOMStatusObsolete   = "obsolete"
)

// Lifecycle status values shared by Part.LifecycleStatus and
// PartVersion.VersionStatus. A version is editable only while draft or
// in_review; released and later states freeze it.
const (
	LifecycleDraft      = "draft"
	LifecycleInReview   = "in_review"
	LifecycleReleased   = "released"
	LifecycleDeprecated = "deprecated"
	LifecycleRetired    = "retired"
)

// Structure edge relation types.
const (
	RelationAssembly  = "assembly"
	RelationVariant   = "variant"
	RelationAlternate = "alternate"
	RelationReference = "reference"
)

// Revision change types.
const (
	ChangeTypeInitial         = "INITIAL"
	ChangeTypeFieldChange     = "FIELD_CHANGE"
	ChangeTypeStatusChange    = "STATUS_CHANGE"
	ChangeTypeStructureChange = "STRUCTURE_CHANGE"
)

func IsKnownBOMStatus(s string) bool {
	switch s {
	case BOMStatusConcept, BOMStatusDesign, BOMStatusValidation, BOMStatusProduction, BOMStatusObsolete:
		return true
	default:
		return false
	}
}

func IsKnownLifecycleStatus(s string) bool {
	switch s {
	case LifecycleDraft, LifecycleInReview, LifecycleReleased, LifecycleDeprecated, LifecycleRetired:
		return true
	default:
		return false
	}
}

// IsEditableStatus reports whether a PartVersion with this status may still
// have its fields mutated in place.
func IsEditableStatus(s string) bool {
	return s == LifecycleDraft || s == LifecycleInReview
}

func IsKnownRelationType(s string) bool {
	switch s {
	case RelationAssembly, RelationVariant, RelationAlternate, RelationReference:
		return true
	default:
		return false
	}
}

// NormalizeEnum trims an enum field submitted by a caller and converts the
// empty string to nil so persistence never attempts to cast "" to a SQL enum.
func NormalizeEnum(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}

func NormalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
