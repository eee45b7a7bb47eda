// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRuleForBuiltins(t *testing.T) {
	reg := NewRegistry()

	tests := []struct {
		doi      string
		wantName string
		wantOK   bool
	}{
		{"10.1038/s41586-024-07386-0", "Nature", true},
		{"10.1016/j.physletb.2020.135425", "Elsevier", true},
		{"10.1109/TPAMI.2021.3059968", "IEEE", true},
		{"10.48550/arXiv.2301.07041", "arXiv", true},
		{"10.3847/1538-4357/ac8e04", "American Astronomical Society", true},
		{"10.9999/unknown.2020.1", "", false},
	}
	for _, tt := range tests {
		rule, ok := reg.RuleFor(tt.doi)
		if ok != tt.wantOK {
			t.Errorf("RuleFor(%q) ok = %v, want %v", tt.doi, ok, tt.wantOK)
			continue
		}
		if rule.Name != tt.wantName {
			t.Errorf("RuleFor(%q).Name = %q, want %q", tt.doi, rule.Name, tt.wantName)
		}
	}
}

func TestRuleForCaseInsensitive(t *testing.T) {
	reg := NewRegistry()
	if _, ok := reg.RuleFor("10.1038/S41586"); !ok {
		t.Error("prefix matching must ignore case")
	}
}

func TestLoadEmptyPathIsBuiltin(t *testing.T) {
	reg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if _, ok := reg.RuleFor("10.1038/x"); !ok {
		t.Error("empty path must yield the built-in table")
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	overlay := `rules:
  - prefix: "10.1038"
    name: "Nature (local)"
    pdf_template: "https://mirror.example/nature/{suffix}.pdf"
    supports_scraping: true
  - prefix: "10.1016/j.physletb"
    name: "Physics Letters B"
    pdf_template: "https://plb.example/{suffix}.pdf"
  - prefix: "10.21105"
    name: "JOSS"
    pdf_template: "https://joss.example/papers/{suffix}.pdf"
    supports_scraping: true
`
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatal(err)
	}

	reg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	// Replaced entry shadows the built-in rule completely.
	rule, ok := reg.RuleFor("10.1038/s41586-024-07386-0")
	if !ok || rule.Name != "Nature (local)" {
		t.Errorf("overlay rule = %+v, want the replacement", rule)
	}
	if rule.PDFSelector != "" {
		t.Error("a replaced rule must not inherit fields from the built-in")
	}

	// The longer journal-level prefix wins over the publisher prefix.
	rule, ok = reg.RuleFor("10.1016/j.physletb.2020.135425")
	if !ok || rule.Name != "Physics Letters B" {
		t.Errorf("journal rule = %+v, want the longest-prefix match", rule)
	}
	rule, ok = reg.RuleFor("10.1016/j.cell.2021.01.001")
	if !ok || rule.Name != "Elsevier" {
		t.Errorf("publisher rule = %+v, want the built-in Elsevier rule", rule)
	}

	// New prefixes extend the table.
	if rule, ok = reg.RuleFor("10.21105/joss.04101"); !ok || rule.Name != "JOSS" {
		t.Errorf("added rule = %+v, want JOSS", rule)
	}
}

func TestLoadRejectsMissingPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("rules:\n  - name: \"No Prefix\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load must reject entries without a prefix")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load must report a missing file")
	}
}

func TestSelectorFor(t *testing.T) {
	reg := NewRegistry()
	if sel := reg.SelectorFor("www.nature.com"); sel != "a.c-pdf-download__link" {
		t.Errorf("SelectorFor(nature) = %q", sel)
	}
	if sel := reg.SelectorFor("WWW.NATURE.COM"); sel != "a.c-pdf-download__link" {
		t.Error("host matching must ignore case")
	}
	if sel := reg.SelectorFor("dl.acm.org"); sel != "" {
		t.Errorf("SelectorFor(acm) = %q, want empty: no selector declared", sel)
	}
}

func TestAllSortedByPrefix(t *testing.T) {
	all := NewRegistry().All()
	if len(all) != len(builtin) {
		t.Fatalf("All() returned %d rules, want %d", len(all), len(builtin))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Prefix > all[i].Prefix {
			t.Fatalf("All() not sorted: %q before %q", all[i-1].Prefix, all[i].Prefix)
		}
	}
}
