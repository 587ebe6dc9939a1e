package parts

import (
	"strings"
	"testing"
)

func violationFor(vs []FieldViolation, field string) *FieldViolation {
	for i := range vs {
		if vs[i].Field == field {
			return &vs[i]
		}
	}
	return nil
}

func TestValidateVersion_CollectsAllViolations(t *testing.T) {
	unit := "V"
	min := 10.0
	max := 5.0
	v := &PartVersion{
		PartName:         "ab",
		PartVersion:      "not-a-version",
		WeightUnit:       &unit,
		VoltageRatingMin: &min,
		VoltageRatingMax: &max,
	}

	out := ValidateVersion(v, ValidateCreate)
	if len(out) < 4 {
		t.Fatalf("expected at least 4 violations, got %d: %+v", len(out), out)
	}
	if violationFor(out, "part_name") == nil {
		t.Fatalf("expected part_name violation")
	}
	if violationFor(out, "part_version") == nil {
		t.Fatalf("expected part_version violation")
	}
	if violationFor(out, "weight") == nil {
		t.Fatalf("expected weight violation for orphan unit")
	}
	if violationFor(out, "voltage_rating_max") == nil {
		t.Fatalf("expected voltage_rating_max violation")
	}
}

func TestValidateVersion_NameLengthByMode(t *testing.T) {
	v := &PartVersion{PartName: "ab", PartVersion: "0.1.0"}
	if out := ValidateVersion(v, ValidateCreate); violationFor(out, "part_name") == nil {
		t.Fatalf("create mode should require 3 characters")
	}
	if out := ValidateVersion(v, ValidateEdit); violationFor(out, "part_name") != nil {
		t.Fatalf("edit mode should accept 2 characters")
	}

	v.PartName = strings.Repeat("x", 101)
	if out := ValidateVersion(v, ValidateEdit); violationFor(out, "part_name") == nil {
		t.Fatalf("expected max-length violation")
	}
}

func TestValidateVersion_PairBothOrNeither(t *testing.T) {
	w := 1.2
	v := &PartVersion{PartName: "Widget", PartVersion: "0.1.0", Weight: &w}
	if out := ValidateVersion(v, ValidateCreate); violationFor(out, "weight_unit") == nil {
		t.Fatalf("expected weight_unit violation for orphan value")
	}

	unit := "kg"
	v.WeightUnit = &unit
	if out := ValidateVersion(v, ValidateCreate); len(out) != 0 {
		t.Fatalf("expected clean record, got %+v", out)
	}
}

func TestValidateVersion_SingleBoundIsFine(t *testing.T) {
	min := -40.0
	v := &PartVersion{PartName: "Widget", PartVersion: "0.1.0", OperatingTempMin: &min}
	if out := ValidateVersion(v, ValidateCreate); len(out) != 0 {
		t.Fatalf("a lone min bound should pass, got %+v", out)
	}
}

func TestValidateVersion_UnknownStatusRejected(t *testing.T) {
	v := &PartVersion{PartName: "Widget", PartVersion: "0.1.0", VersionStatus: "shipped"}
	if out := ValidateVersion(v, ValidateCreate); violationFor(out, "version_status") == nil {
		t.Fatalf("expected version_status violation")
	}
	v.VersionStatus = LifecycleReleased
	if out := ValidateVersion(v, ValidateCreate); len(out) != 0 {
		t.Fatalf("expected known status to pass, got %+v", out)
	}
}
