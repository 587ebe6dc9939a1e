package parts

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PartVersion is one numbered technical snapshot of a Part. Rows are created
// once per version bump and may only be mutated while VersionStatus is in the
// editable subset; once released they are treated as audit trail.
type PartVersion struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PartID uuid.UUID `gorm:"type:uuid;not null;index" json:"part_id"`

	PartVersion   string `gorm:"type:text;not null" json:"part_version"`
	PartName      string `gorm:"type:text;not null" json:"part_name"`
	VersionStatus string `gorm:"type:text;not null;default:'draft';index" json:"version_status"`

	// Free-form structured technical documents.
	ElectricalProperties datatypes.JSON `gorm:"type:jsonb" json:"electrical_properties,omitempty"`
	MechanicalProperties datatypes.JSON `gorm:"type:jsonb" json:"mechanical_properties,omitempty"`
	ThermalProperties    datatypes.JSON `gorm:"type:jsonb" json:"thermal_properties,omitempty"`
	EnvironmentalData    datatypes.JSON `gorm:"type:jsonb" json:"environmental_data,omitempty"`

	// Paired value/unit fields: both present or both absent.
	Weight         *float64 `gorm:"type:double precision" json:"weight,omitempty"`
	WeightUnit     *string  `gorm:"type:text" json:"weight_unit,omitempty"`
	Dimensions     *string  `gorm:"type:text" json:"dimensions,omitempty"`
	DimensionsUnit *string  `gorm:"type:text" json:"dimensions_unit,omitempty"`
	Tolerance      *float64 `gorm:"type:double precision" json:"tolerance,omitempty"`
	ToleranceUnit  *string  `gorm:"type:text" json:"tolerance_unit,omitempty"`

	// Ranged fields: max >= min whenever both are present.
	VoltageRatingMin *float64 `gorm:"type:double precision" json:"voltage_rating_min,omitempty"`
	VoltageRatingMax *float64 `gorm:"type:double precision" json:"voltage_rating_max,omitempty"`
	CurrentRatingMin *float64 `gorm:"type:double precision" json:"current_rating_min,omitempty"`
	CurrentRatingMax *float64 `gorm:"type:double precision" json:"current_rating_max,omitempty"`
	OperatingTempMin *float64 `gorm:"type:double precision" json:"operating_temp_min,omitempty"`
	OperatingTempMax *float64 `gorm:"type:double precision" json:"operating_temp_max,omitempty"`
	StorageTempMin   *float64 `gorm:"type:double precision" json:"storage_temp_min,omitempty"`
	StorageTempMax   *float64 `gorm:"type:double precision" json:"storage_temp_max,omitempty"`

	PackageType  *string `gorm:"type:text" json:"package_type,omitempty"`
	MountingType *string `gorm:"type:text" json:"mounting_type,omitempty"`

	CreatedBy uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid" json:"updated_by,omitempty"`
	CreatedAt time.Time  `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (PartVersion) TableName() string { return "part_version" }
