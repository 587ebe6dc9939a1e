package parts

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Part is the logical, mutable shell of a component. Its technical content
// lives in immutable PartVersions; CurrentVersionID points at the
// authoritative one.
type Part struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	CreatorID        uuid.UUID `gorm:"type:uuid;not null;index" json:"creator_id"`
	GlobalPartNumber *string   `gorm:"type:text;uniqueIndex:idx_part_global_part_number,where:global_part_number IS NOT NULL" json:"global_part_number,omitempty"`

	StatusInBOM     string `gorm:"type:text;not null;default:'concept';index" json:"status_in_bom"`
	LifecycleStatus string `gorm:"type:text;not null;default:'draft';index" json:"lifecycle_status"`
	IsPublic        bool   `gorm:"not null;default:false" json:"is_public"`

	// Invariant: once set, references a PartVersion whose PartID equals ID.
	CurrentVersionID *uuid.UUID `gorm:"type:uuid" json:"current_version_id,omitempty"`

	UpdatedBy *uuid.UUID     `gorm:"type:uuid" json:"updated_by,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Part) TableName() string { return "part" }
