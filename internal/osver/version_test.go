package osver

import "testing"

func TestParseVersion_Positive(t *testing.T) {
	cases := map[string]Version{
		"1.0":    {Major: 1, Minor: 0, Raw: "1.0"},
		"5.3":    {Major: 5, Minor: 3, Raw: "5.3"},
		"5.3.0":  {Major: 5, Minor: 3, Patch: 0, HasPatch: true, Raw: "5.3.0"},
		"2.55.1": {Major: 2, Minor: 55, Patch: 1, HasPatch: true, Raw: "2.55.1"},
		"0.0103": {Major: 0, Minor: 103, Raw: "0.0103"},
	}
	for in, want := range cases {
		got, err := ParseVersion(in)
		if err != nil {
			t.Fatalf("ParseVersion(%q) returned error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseVersion(%q) = %+v, want %+v", in, got, want)
		}
	}
}

func TestParseVersion_Negative(t *testing.T) {
	bad := []string{
		"",
		"5",
		"5.",
		".5",
		"5..3",
		"5.3.1.7",
		"5.x",
		"v5.3",
		"5. 3",
		"-1.0",
	}
	for _, in := range bad {
		if got, err := ParseVersion(in); err == nil {
			t.Fatalf("ParseVersion(%q) = %+v, want error", in, got)
		}
	}
}

func TestVersionCompare(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0", 0},
		{"1.0", "1.1", -1},
		{"2.0", "1.9", 1},
		{"1.2", "1.10", -1},
		{"5.3", "5.3.0", -1}, // absent patch sorts below a present zero patch
		{"5.3.0", "5.3", 1},
		{"5.3.0", "5.3.0", 0},
		{"5.3.1", "5.3.2", -1},
		{"5.3.2", "5.4", -1},
		{"0.0103", "1.0", -1},
	}
	for _, tc := range cases {
		a, b := MustParseVersion(tc.a), MustParseVersion(tc.b)
		if got := a.Compare(b); got != tc.want {
			t.Fatalf("Compare(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
		if got := b.Compare(a); got != -tc.want {
			t.Fatalf("Compare(%q, %q) = %d, want %d", tc.b, tc.a, got, -tc.want)
		}
	}
}

func TestVersionString(t *testing.T) {
	// The parsed spelling survives round trips, including leading zeros.
	for _, in := range []string{"1.0", "0.0103", "5.3.0"} {
		if got := MustParseVersion(in).String(); got != in {
			t.Fatalf("String() = %q, want %q", got, in)
		}
	}
	// Hand-built versions render canonically.
	if got := (Version{Major: 5, Minor: 3}).String(); got != "5.3" {
		t.Fatalf("String() = %q, want %q", got, "5.3")
	}
	if got := (Version{Major: 5, Minor: 3, Patch: 1, HasPatch: true}).String(); got != "5.3.1" {
		t.Fatalf("String() = %q, want %q", got, "5.3.1")
	}
}
