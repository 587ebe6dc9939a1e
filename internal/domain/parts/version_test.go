package parts

import "testing"

func TestIsValidVersion(t *testing.T) {
	valid := []string{"0.1.0", "1.0.0", "12.34.56", "0.0.0"}
	for _, v := range valid {
		if !IsValidVersion(v) {
			t.Fatalf("expected %q to be valid", v)
		}
	}
	invalid := []string{"", "1.0", "1.0.0.0", "v1.0.0", "1.0.x", "1..0", " 1.0.0"}
	for _, v := range invalid {
		if IsValidVersion(v) {
			t.Fatalf("expected %q to be invalid", v)
		}
	}
}

func TestCompareVersions_NumericNotLexical(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"0.1.0", "0.1.0", 0},
		{"0.2.0", "0.10.0", -1},
		{"2.0.0", "10.0.0", -1},
		{"1.2.3", "1.2.2", 1},
		{"1.0.0", "0.99.99", 1},
	}
	for _, c := range cases {
		got, err := CompareVersions(c.a, c.b)
		if err != nil {
			t.Fatalf("compare %q %q: %v", c.a, c.b, err)
		}
		if got != c.want {
			t.Fatalf("compare %q %q: want %d got %d", c.a, c.b, c.want, got)
		}
	}
}

func TestCompareVersions_RejectsMalformed(t *testing.T) {
	if _, err := CompareVersions("1.0", "1.0.0"); err == nil {
		t.Fatalf("expected error for malformed version")
	}
	if _, err := CompareVersions("1.0.0", "abc"); err == nil {
		t.Fatalf("expected error for malformed version")
	}
}
