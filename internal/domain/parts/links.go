package parts

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Classification and sourcing links. These rows are best-effort companions of
// a create: a failed link insert is reported but never fails the part itself.

type PartCategoryLink struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PartID     uuid.UUID `gorm:"type:uuid;not null;index:idx_part_category,unique,priority:1" json:"part_id"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index:idx_part_category,unique,priority:2" json:"category_id"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (PartCategoryLink) TableName() string { return "part_category_link" }

type PartTagLink struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PartID    uuid.UUID `gorm:"type:uuid;not null;index:idx_part_tag,unique,priority:1" json:"part_id"`
	TagID     uuid.UUID `gorm:"type:uuid;not null;index:idx_part_tag,unique,priority:2" json:"tag_id"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (PartTagLink) TableName() string { return "part_tag_link" }

type PartFamilyLink struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PartID    uuid.UUID `gorm:"type:uuid;not null;index:idx_part_family,unique,priority:1" json:"part_id"`
	FamilyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_part_family,unique,priority:2" json:"family_id"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (PartFamilyLink) TableName() string { return "part_family_link" }

type PartGroupLink struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PartID    uuid.UUID `gorm:"type:uuid;not null;index:idx_part_group,unique,priority:1" json:"part_id"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;index:idx_part_group,unique,priority:2" json:"group_id"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (PartGroupLink) TableName() string { return "part_group_link" }

type ManufacturerPart struct {
	ID                     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PartID                 uuid.UUID `gorm:"type:uuid;not null;index:idx_manufacturer_part,unique,priority:1" json:"part_id"`
	ManufacturerID         uuid.UUID `gorm:"type:uuid;not null;index:idx_manufacturer_part,unique,priority:2" json:"manufacturer_id"`
	ManufacturerPartNumber string    `gorm:"type:text;not null;index:idx_manufacturer_part,unique,priority:3" json:"manufacturer_part_number"`
	Description            *string   `gorm:"type:text" json:"description,omitempty"`
	CreatedAt              time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt              time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ManufacturerPart) TableName() string { return "manufacturer_part" }

type SupplierPart struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PartID             uuid.UUID `gorm:"type:uuid;not null;index:idx_supplier_part,unique,priority:1" json:"part_id"`
	SupplierID         uuid.UUID `gorm:"type:uuid;not null;index:idx_supplier_part,unique,priority:2" json:"supplier_id"`
	SupplierPartNumber string    `gorm:"type:text;not null;index:idx_supplier_part,unique,priority:3" json:"supplier_part_number"`
	UnitPrice          *float64  `gorm:"type:double precision" json:"unit_price,omitempty"`
	Currency           *string   `gorm:"type:text" json:"currency,omitempty"`
	CreatedAt          time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (SupplierPart) TableName() string { return "supplier_part" }

type PartAttachment struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PartVersionID uuid.UUID `gorm:"type:uuid;not null;index" json:"part_version_id"`
	FileName      string    `gorm:"type:text;not null" json:"file_name"`
	StorageKey    string    `gorm:"type:text;not null" json:"storage_key"`
	ContentType   *string   `gorm:"type:text" json:"content_type,omitempty"`
	UploadedBy    uuid.UUID `gorm:"type:uuid;not null" json:"uploaded_by"`
	CreatedAt     time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (PartAttachment) TableName() string { return "part_attachment" }

type PartRepresentation struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PartVersionID uuid.UUID `gorm:"type:uuid;not null;index" json:"part_version_id"`
	Format        string    `gorm:"type:text;not null" json:"format"`
	StorageKey    string    `gorm:"type:text;not null" json:"storage_key"`
	IsPrimary     bool      `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt     time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (PartRepresentation) TableName() string { return "part_representation" }

type PartCompliance struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PartVersionID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"part_version_id"`
	Standard          string         `gorm:"type:text;not null" json:"standard"`
	CertificateNumber *string        `gorm:"type:text" json:"certificate_number,omitempty"`
	ValidUntil        *time.Time     `json:"valid_until,omitempty"`
	Details           datatypes.JSON `gorm:"type:jsonb" json:"details,omitempty"`
	CreatedAt         time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (PartCompliance) TableName() string { return "part_compliance" }

type PartCustomField struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PartVersionID uuid.UUID `gorm:"type:uuid;not null;index:idx_custom_field,unique,priority:1" json:"part_version_id"`
	FieldName     string    `gorm:"type:text;not null;index:idx_custom_field,unique,priority:2" json:"field_name"`
	FieldValue    *string   `gorm:"type:text" json:"field_value,omitempty"`
	FieldType     *string   `gorm:"type:text" json:"field_type,omitempty"`
	CreatedAt     time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (PartCustomField) TableName() string { return "part_custom_field" }
