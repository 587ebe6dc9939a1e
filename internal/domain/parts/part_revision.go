package parts

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PartRevision is one append-only ledger entry describing a logical mutation
// of a PartVersion: what changed, by whom, with before/after snapshots.
// No update or delete path exists for these rows.
type PartRevision struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PartVersionID uuid.UUID `gorm:"type:uuid;not null;index" json:"part_version_id"`

	ChangeType        string `gorm:"type:text;not null" json:"change_type"`
	ChangeDescription string `gorm:"type:text;not null;default:''" json:"change_description"`

	ChangedBy      uuid.UUID      `gorm:"type:uuid;not null" json:"changed_by"`
	ChangedFields  datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"changed_fields"`
	PreviousValues datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"previous_values"`
	NewValues      datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"new_values"`

	RevisionDate time.Time `gorm:"not null;default:now();index" json:"revision_date"`
}

func (PartRevision) TableName() string { return "part_revision" }
