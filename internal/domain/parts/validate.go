package parts

import (
	"fmt"
	"strings"
)

// ValidateMode selects the rule set: creation demands a fuller record than a
// sparse edit does.
type ValidateMode int

const (
	ValidateCreate ValidateMode = iota
	ValidateEdit
)

const (
	nameMinCreate = 3
	nameMinEdit   = 1
	nameMax       = 100
)

// FieldViolation names one field that failed validation and why.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateVersion runs every rule against the version record and collects all
// violations rather than stopping at the first, so a caller sees the full
// picture in one round trip.
func ValidateVersion(v *PartVersion, mode ValidateMode) []FieldViolation {
	var out []FieldViolation
	add := func(field, format string, args ...any) {
		out = append(out, FieldViolation{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	checkName(v.PartName, mode, add)

	if !IsValidVersion(v.PartVersion) {
		add("part_version", "must match MAJOR.MINOR.PATCH, got %q", v.PartVersion)
	}
	if v.VersionStatus != "" && !IsKnownLifecycleStatus(v.VersionStatus) {
		add("version_status", "unknown status %q", v.VersionStatus)
	}

	checkPair("weight", v.Weight, "weight_unit", v.WeightUnit, add)
	checkPairStr("dimensions", v.Dimensions, "dimensions_unit", v.DimensionsUnit, add)
	checkPair("tolerance", v.Tolerance, "tolerance_unit", v.ToleranceUnit, add)

	checkRange("voltage_rating", v.VoltageRatingMin, v.VoltageRatingMax, add)
	checkRange("current_rating", v.CurrentRatingMin, v.CurrentRatingMax, add)
	checkRange("operating_temp", v.OperatingTempMin, v.OperatingTempMax, add)
	checkRange("storage_temp", v.StorageTempMin, v.StorageTempMax, add)

	return out
}

func checkName(name string, mode ValidateMode, add func(field, format string, args ...any)) {
	trimmed := strings.TrimSpace(name)
	min := nameMinCreate
	if mode == ValidateEdit {
		min = nameMinEdit
	}
	if len(trimmed) < min {
		add("part_name", "must be at least %d characters", min)
		return
	}
	if len(trimmed) > nameMax {
		add("part_name", "must be at most %d characters", nameMax)
	}
}

// checkPair enforces value/unit coupling: both present or both absent.
func checkPair(valField string, val *float64, unitField string, unit *string, add func(field, format string, args ...any)) {
	if val != nil && unit == nil {
		add(unitField, "required when %s is set", valField)
	}
	if val == nil && unit != nil {
		add(valField, "required when %s is set", unitField)
	}
}

func checkPairStr(valField string, val *string, unitField string, unit *string, add func(field, format string, args ...any)) {
	if val != nil && unit == nil {
		add(unitField, "required when %s is set", valField)
	}
	if val == nil && unit != nil {
		add(valField, "required when %s is set", unitField)
	}
}

// checkRange enforces max >= min when both bounds are present; a single
// bound is always acceptable.
func checkRange(prefix string, min, max *float64, add func(field, format string, args ...any)) {
	if min == nil || max == nil {
		return
	}
	if *max < *min {
		add(prefix+"_max", "must be >= %s_min", prefix)
	}
}
