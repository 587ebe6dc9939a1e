package parts

import (
	"encoding/json"
	"testing"
)

func TestNumber_UnmarshalAcceptsNumberStringAndNull(t *testing.T) {
	var n Number

	if err := json.Unmarshal([]byte(`12.5`), &n); err != nil {
		t.Fatalf("number: %v", err)
	}
	if !n.Valid || n.Value != 12.5 {
		t.Fatalf("unexpected: %+v", n)
	}

	if err := json.Unmarshal([]byte(`"3.3"`), &n); err != nil {
		t.Fatalf("quoted number: %v", err)
	}
	if !n.Valid || n.Value != 3.3 {
		t.Fatalf("unexpected: %+v", n)
	}

	if err := json.Unmarshal([]byte(`""`), &n); err != nil {
		t.Fatalf("empty string: %v", err)
	}
	if n.Valid {
		t.Fatalf("expected empty string to mean absent")
	}

	if err := json.Unmarshal([]byte(`null`), &n); err != nil {
		t.Fatalf("null: %v", err)
	}
	if n.Valid {
		t.Fatalf("expected null to mean absent")
	}
}

func TestNumber_UnmarshalRejectsGarbage(t *testing.T) {
	var n Number
	if err := json.Unmarshal([]byte(`"12kg"`), &n); err == nil {
		t.Fatalf("expected error for non-numeric string")
	}
}

func TestNumber_MarshalNullWhenInvalid(t *testing.T) {
	b, err := json.Marshal(Number{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "null" {
		t.Fatalf("expected null, got %s", b)
	}

	b, err = json.Marshal(Number{Valid: true, Value: 7})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "7" {
		t.Fatalf("expected 7, got %s", b)
	}
}

func TestNumber_Ptr(t *testing.T) {
	if (Number{}).Ptr() != nil {
		t.Fatalf("expected nil pointer for absent number")
	}
	p := (Number{Valid: true, Value: 1.5}).Ptr()
	if p == nil || *p != 1.5 {
		t.Fatalf("unexpected pointer: %v", p)
	}
}
