package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(root, "tokensheet.toml")
	if err := os.WriteFile(path, []byte("[sheet]\npath = \"tokens.xml\"\n"), 0o600); err != nil {
		t.Fatalf("write tokensheet.toml: %v", err)
	}

	found, ok, err := findManifest(nested)
	if err != nil {
		t.Fatalf("findManifest: %v", err)
	}
	if !ok {
		t.Fatalf("expected to find manifest above %s", nested)
	}
	if found != path {
		t.Fatalf("findManifest = %q, want %q", found, path)
	}
}

func TestLoadManifestConfig(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "tokensheet.toml")
	data := `[sheet]
path = "sheets/tokens.xml"

[defaults]
model = "TI-84+CE"
os = "5.3"
lang = "fr"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write tokensheet.toml: %v", err)
	}

	cfg, err := loadManifestConfig(path)
	if err != nil {
		t.Fatalf("loadManifestConfig: %v", err)
	}
	if cfg.Sheet.Path != "sheets/tokens.xml" {
		t.Fatalf("sheet.path = %q", cfg.Sheet.Path)
	}
	if cfg.Defaults.Model != "TI-84+CE" || cfg.Defaults.OS != "5.3" || cfg.Defaults.Lang != "fr" {
		t.Fatalf("defaults = %+v", cfg.Defaults)
	}

	m := &projectManifest{Path: path, Root: root, Config: cfg}
	want := filepath.Join(root, "sheets", "tokens.xml")
	if got := m.sheetPath(); got != want {
		t.Fatalf("sheetPath = %q, want %q", got, want)
	}
}

func TestLoadManifestConfigRejectsMissingSheet(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "tokensheet.toml")
	if err := os.WriteFile(path, []byte("[defaults]\nmodel = \"TI-83\"\n"), 0o600); err != nil {
		t.Fatalf("write tokensheet.toml: %v", err)
	}
	if _, err := loadManifestConfig(path); err == nil {
		t.Fatalf("expected error for manifest without [sheet]")
	}
}

func TestParseByteListing(t *testing.T) {
	cases := []struct {
		input string
		want  []byte
	}{
		{"$BB$31", []byte{0xBB, 0x31}},
		{"BB 31", []byte{0xBB, 0x31}},
		{"$ba, $2a\n", []byte{0xBA, 0x2A}},
	}
	for _, tc := range cases {
		got, err := parseByteListing(tc.input)
		if err != nil {
			t.Fatalf("parseByteListing(%q) error: %v", tc.input, err)
		}
		if !bytes.Equal(got, tc.want) {
			t.Fatalf("parseByteListing(%q) = % X, want % X", tc.input, got, tc.want)
		}
	}

	if _, err := parseByteListing("$B"); err == nil {
		t.Fatalf("expected error for odd-length listing")
	}
	if _, err := parseByteListing("$ZZ"); err == nil {
		t.Fatalf("expected error for non-hex listing")
	}
}
