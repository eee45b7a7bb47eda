// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolver

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType IdentifierType
		wantNorm string
	}{
		{"bare arxiv id", "2301.07041", TypeArxiv, "2301.07041"},
		{"arxiv prefix", "arXiv:2301.07041", TypeArxiv, "2301.07041"},
		{"arxiv with version", "2301.07041v2", TypeArxiv, "2301.07041v2"},
		{"bare doi", "10.1038/s41586-024-07386-0", TypeDOI, "10.1038/s41586-024-07386-0"},
		{"doi url form", "https://doi.org/10.1038/s41586-024-07386-0", TypeDOI, "10.1038/s41586-024-07386-0"},
		{"doi colon form", "doi:10.1145/3292500.3330701", TypeDOI, "10.1145/3292500.3330701"},
		{"bibcode", "1998ApJ...500..525S", TypeBibcode, "1998ApJ...500..525S"},
		{"whitespace", "  2301.07041  ", TypeArxiv, "2301.07041"},
		{"unknown", "hello-world", TypeUnknown, "hello-world"},
		{"empty", "", TypeUnknown, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotNorm := Classify(tt.input)
			if gotType != tt.wantType {
				t.Errorf("Classify(%q) type = %v, want %v", tt.input, gotType, tt.wantType)
			}
			if gotNorm != tt.wantNorm {
				t.Errorf("Classify(%q) norm = %q, want %q", tt.input, gotNorm, tt.wantNorm)
			}
		})
	}
}

func TestCanonicalDOI(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"10.1038/s41586-024-07386-0", "10.1038/s41586-024-07386-0"},
		{"https://doi.org/10.1038/x", "10.1038/x"},
		{"HTTP://DOI.ORG/10.1038/x", "10.1038/x"},
		{"doi:10.1038/x", "10.1038/x"},
		{"DOI:10.1038/x", "10.1038/x"},
		{"  doi:10.1038/x  ", "10.1038/x"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CanonicalDOI(tt.input); got != tt.want {
			t.Errorf("CanonicalDOI(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestArxivDOIRecognition(t *testing.T) {
	tests := []struct {
		doi     string
		isArxiv bool
		wantID  string
	}{
		{"10.48550/arXiv.2301.07041", true, "2301.07041"},
		{"10.48550/arxiv.2301.07041", true, "2301.07041"},
		{"10.1038/s41586-024-07386-0", false, ""},
		{"", false, ""},
	}
	for _, tt := range tests {
		if got := IsArxivDOI(tt.doi); got != tt.isArxiv {
			t.Errorf("IsArxivDOI(%q) = %v, want %v", tt.doi, got, tt.isArxiv)
		}
		if got := ArxivIDFromDOI(tt.doi); got != tt.wantID {
			t.Errorf("ArxivIDFromDOI(%q) = %q, want %q", tt.doi, got, tt.wantID)
		}
	}
}

func TestExpandTemplate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		doi      string
		want     string
	}{
		{
			"full doi placeholder",
			"https://dl.acm.org/doi/pdf/{doi}",
			"10.1145/3292500.3330701",
			"https://dl.acm.org/doi/pdf/10.1145/3292500.3330701",
		},
		{
			"suffix placeholder",
			"https://www.nature.com/articles/{suffix}.pdf",
			"10.1038/s41586-024-07386-0",
			"https://www.nature.com/articles/s41586-024-07386-0.pdf",
		},
		{
			"both placeholders",
			"https://x.example/{doi}/alt/{suffix}",
			"10.1088/1538-3873/aab1b2",
			"https://x.example/10.1088/1538-3873/aab1b2/alt/1538-3873/aab1b2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandTemplate(tt.template, tt.doi); got != tt.want {
				t.Errorf("ExpandTemplate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidDOI(t *testing.T) {
	tests := []struct {
		doi  string
		want bool
	}{
		{"10.1038/s41586-024-07386-0", true},
		{"10.48550/arXiv.2301.07041", true},
		{"not-a-doi", false},
		{"10.1038", false},
		{"10.1038/", false},
	}
	for _, tt := range tests {
		if got := ValidDOI(tt.doi); got != tt.want {
			t.Errorf("ValidDOI(%q) = %v, want %v", tt.doi, got, tt.want)
		}
	}
}
