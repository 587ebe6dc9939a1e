package parts

import (
	"time"

	"github.com/google/uuid"
)

// PartStructure is a directed parent/child assembly edge with a quantity and
// a half-open validity window [ValidFrom, ValidUntil). The set of
// currently-valid edges must stay acyclic and an edge may never point a part
// at itself.
type PartStructure struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	ParentPartID uuid.UUID `gorm:"type:uuid;not null;index" json:"parent_part_id"`
	ChildPartID  uuid.UUID `gorm:"type:uuid;not null;index" json:"child_part_id"`

	RelationType string  `gorm:"type:text;not null;default:'assembly'" json:"relation_type"`
	Quantity     float64 `gorm:"type:double precision;not null;default:1" json:"quantity"`
	Notes        *string `gorm:"type:text" json:"notes,omitempty"`

	ValidFrom  time.Time  `gorm:"not null;default:now();index" json:"valid_from"`
	ValidUntil *time.Time `gorm:"index" json:"valid_until,omitempty"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (PartStructure) TableName() string { return "part_structure" }

// ValidAt reports whether the edge is valid at the given instant.
func (e *PartStructure) ValidAt(t time.Time) bool {
	if e == nil {
		return false
	}
	if e.ValidFrom.After(t) {
		return false
	}
	return e.ValidUntil == nil || e.ValidUntil.After(t)
}
