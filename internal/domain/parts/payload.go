package parts

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// VersionPayload is the caller-facing shape for creating a version. Numeric
// fields use Number so clients may send numbers, numeric strings, or
// ""/null for absent.
type VersionPayload struct {
	PartName      string  `json:"part_name"`
	PartVersion   string  `json:"part_version"`
	VersionStatus *string `json:"version_status,omitempty"`

	ElectricalProperties datatypes.JSON `json:"electrical_properties,omitempty"`
	MechanicalProperties datatypes.JSON `json:"mechanical_properties,omitempty"`
	ThermalProperties    datatypes.JSON `json:"thermal_properties,omitempty"`
	EnvironmentalData    datatypes.JSON `json:"environmental_data,omitempty"`

	Weight         Number  `json:"weight,omitempty"`
	WeightUnit     *string `json:"weight_unit,omitempty"`
	Dimensions     *string `json:"dimensions,omitempty"`
	DimensionsUnit *string `json:"dimensions_unit,omitempty"`
	Tolerance      Number  `json:"tolerance,omitempty"`
	ToleranceUnit  *string `json:"tolerance_unit,omitempty"`

	VoltageRatingMin Number `json:"voltage_rating_min,omitempty"`
	VoltageRatingMax Number `json:"voltage_rating_max,omitempty"`
	CurrentRatingMin Number `json:"current_rating_min,omitempty"`
	CurrentRatingMax Number `json:"current_rating_max,omitempty"`
	OperatingTempMin Number `json:"operating_temp_min,omitempty"`
	OperatingTempMax Number `json:"operating_temp_max,omitempty"`
	StorageTempMin   Number `json:"storage_temp_min,omitempty"`
	StorageTempMax   Number `json:"storage_temp_max,omitempty"`

	PackageType  *string `json:"package_type,omitempty"`
	MountingType *string `json:"mounting_type,omitempty"`
}

// ToVersionRecord materializes the payload as a persistable row, applying
// defaults for the version string and status.
func (p *VersionPayload) ToVersionRecord(id, partID, createdBy uuid.UUID, now time.Time) *PartVersion {
	version := strings.TrimSpace(p.PartVersion)
	if version == "" {
		version = DefaultInitialVersion
	}
	status := LifecycleDraft
	if s := NormalizeEnum(p.VersionStatus); s != nil {
		status = NormalizeStatus(*s)
	}
	return &PartVersion{
		ID:            id,
		PartID:        partID,
		PartVersion:   version,
		PartName:      strings.TrimSpace(p.PartName),
		VersionStatus: status,

		ElectricalProperties: p.ElectricalProperties,
		MechanicalProperties: p.MechanicalProperties,
		ThermalProperties:    p.ThermalProperties,
		EnvironmentalData:    p.EnvironmentalData,

		Weight:         p.Weight.Ptr(),
		WeightUnit:     NormalizeEnum(p.WeightUnit),
		Dimensions:     NormalizeEnum(p.Dimensions),
		DimensionsUnit: NormalizeEnum(p.DimensionsUnit),
		Tolerance:      p.Tolerance.Ptr(),
		ToleranceUnit:  NormalizeEnum(p.ToleranceUnit),

		VoltageRatingMin: p.VoltageRatingMin.Ptr(),
		VoltageRatingMax: p.VoltageRatingMax.Ptr(),
		CurrentRatingMin: p.CurrentRatingMin.Ptr(),
		CurrentRatingMax: p.CurrentRatingMax.Ptr(),
		OperatingTempMin: p.OperatingTempMin.Ptr(),
		OperatingTempMax: p.OperatingTempMax.Ptr(),
		StorageTempMin:   p.StorageTempMin.Ptr(),
		StorageTempMax:   p.StorageTempMax.Ptr(),

		PackageType:  NormalizeEnum(p.PackageType),
		MountingType: NormalizeEnum(p.MountingType),

		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// VersionPatch is a sparse edit. A nil pointer leaves the field untouched; a
// present pointer sets it. For strings, an explicit "" clears the column to
// NULL; for numbers, a present-but-invalid Number does the same.
type VersionPatch struct {
	PartName *string `json:"part_name,omitempty"`

	ElectricalProperties *datatypes.JSON `json:"electrical_properties,omitempty"`
	MechanicalProperties *datatypes.JSON `json:"mechanical_properties,omitempty"`
	ThermalProperties    *datatypes.JSON `json:"thermal_properties,omitempty"`
	EnvironmentalData    *datatypes.JSON `json:"environmental_data,omitempty"`

	Weight         *Number `json:"weight,omitempty"`
	WeightUnit     *string `json:"weight_unit,omitempty"`
	Dimensions     *string `json:"dimensions,omitempty"`
	DimensionsUnit *string `json:"dimensions_unit,omitempty"`
	Tolerance      *Number `json:"tolerance,omitempty"`
	ToleranceUnit  *string `json:"tolerance_unit,omitempty"`

	VoltageRatingMin *Number `json:"voltage_rating_min,omitempty"`
	VoltageRatingMax *Number `json:"voltage_rating_max,omitempty"`
	CurrentRatingMin *Number `json:"current_rating_min,omitempty"`
	CurrentRatingMax *Number `json:"current_rating_max,omitempty"`
	OperatingTempMin *Number `json:"operating_temp_min,omitempty"`
	OperatingTempMax *Number `json:"operating_temp_max,omitempty"`
	StorageTempMin   *Number `json:"storage_temp_min,omitempty"`
	StorageTempMax   *Number `json:"storage_temp_max,omitempty"`

	PackageType  *string `json:"package_type,omitempty"`
	MountingType *string `json:"mounting_type,omitempty"`

	// CategoryIDs, when present, replaces the full category link set.
	CategoryIDs *[]uuid.UUID `json:"category_ids,omitempty"`
}

// IsEmpty reports whether the patch carries no fields at all. Presence is
// what matters here, not effect: setting a field to its current value is
// still a non-empty patch.
func (p *VersionPatch) IsEmpty() bool {
	return p.PartName == nil &&
		p.ElectricalProperties == nil &&
		p.MechanicalProperties == nil &&
		p.ThermalProperties == nil &&
		p.EnvironmentalData == nil &&
		p.Weight == nil &&
		p.WeightUnit == nil &&
		p.Dimensions == nil &&
		p.DimensionsUnit == nil &&
		p.Tolerance == nil &&
		p.ToleranceUnit == nil &&
		p.VoltageRatingMin == nil &&
		p.VoltageRatingMax == nil &&
		p.CurrentRatingMin == nil &&
		p.CurrentRatingMax == nil &&
		p.OperatingTempMin == nil &&
		p.OperatingTempMax == nil &&
		p.StorageTempMin == nil &&
		p.StorageTempMax == nil &&
		p.PackageType == nil &&
		p.MountingType == nil &&
		p.CategoryIDs == nil
}

// Apply mutates v in place with every field the patch carries, and returns
// the list of changed column names plus before/after snapshots keyed the
// same way. Fields set to their existing value are not reported.
func (p *VersionPatch) Apply(v *PartVersion) (changed []string, prev map[string]any, next map[string]any) {
	prev = map[string]any{}
	next = map[string]any{}

	record := func(field string, before, after any) {
		changed = append(changed, field)
		prev[field] = before
		next[field] = after
	}

	applyString := func(field string, patch *string, target **string) {
		if patch == nil {
			return
		}
		want := NormalizeEnum(patch)
		if stringPtrEqual(*target, want) {
			return
		}
		record(field, stringPtrValue(*target), stringPtrValue(want))
		*target = want
	}

	applyNumber := func(field string, patch *Number, target **float64) {
		if patch == nil {
			return
		}
		want := patch.Ptr()
		if floatPtrEqual(*target, want) {
			return
		}
		record(field, floatPtrValue(*target), floatPtrValue(want))
		*target = want
	}

	applyJSON := func(field string, patch *datatypes.JSON, target *datatypes.JSON) {
		if patch == nil {
			return
		}
		if string(*target) == string(*patch) {
			return
		}
		record(field, string(*target), string(*patch))
		*target = *patch
	}

	if p.PartName != nil {
		want := strings.TrimSpace(*p.PartName)
		if want != v.PartName {
			record("part_name", v.PartName, want)
			v.PartName = want
		}
	}

	applyJSON("electrical_properties", p.ElectricalProperties, &v.ElectricalProperties)
	applyJSON("mechanical_properties", p.MechanicalProperties, &v.MechanicalProperties)
	applyJSON("thermal_properties", p.ThermalProperties, &v.ThermalProperties)
	applyJSON("environmental_data", p.EnvironmentalData, &v.EnvironmentalData)

	applyNumber("weight", p.Weight, &v.Weight)
	applyString("weight_unit", p.WeightUnit, &v.WeightUnit)
	applyString("dimensions", p.Dimensions, &v.Dimensions)
	applyString("dimensions_unit", p.DimensionsUnit, &v.DimensionsUnit)
	applyNumber("tolerance", p.Tolerance, &v.Tolerance)
	applyString("tolerance_unit", p.ToleranceUnit, &v.ToleranceUnit)

	applyNumber("voltage_rating_min", p.VoltageRatingMin, &v.VoltageRatingMin)
	applyNumber("voltage_rating_max", p.VoltageRatingMax, &v.VoltageRatingMax)
	applyNumber("current_rating_min", p.CurrentRatingMin, &v.CurrentRatingMin)
	applyNumber("current_rating_max", p.CurrentRatingMax, &v.CurrentRatingMax)
	applyNumber("operating_temp_min", p.OperatingTempMin, &v.OperatingTempMin)
	applyNumber("operating_temp_max", p.OperatingTempMax, &v.OperatingTempMax)
	applyNumber("storage_temp_min", p.StorageTempMin, &v.StorageTempMin)
	applyNumber("storage_temp_max", p.StorageTempMax, &v.StorageTempMax)

	applyString("package_type", p.PackageType, &v.PackageType)
	applyString("mounting_type", p.MountingType, &v.MountingType)

	return changed, prev, next
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func stringPtrValue(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func floatPtrValue(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
