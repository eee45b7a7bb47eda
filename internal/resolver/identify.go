// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolver

import (
	"regexp"
	"strings"
)

// IdentifierType classifies an input identifier string.
type IdentifierType int

const (
	TypeUnknown IdentifierType = iota
	TypeArxiv
	TypeDOI
	TypeBibcode
)

func (t IdentifierType) String() string {
	switch t {
	case TypeArxiv:
		return "arxiv"
	case TypeDOI:
		return "doi"
	case TypeBibcode:
		return "bibcode"
	default:
		return "unknown"
	}
}

// Base URLs for identifier resolution. Declared as vars so tests can
// substitute httptest servers.
var (
	arxivPDFBase = "https://arxiv.org/pdf/"
	doiBase      = "https://doi.org/"
)

// arxivDOIPrefix marks DOIs minted by arXiv itself; the suffix after it
// is the arXiv identifier.
const arxivDOIPrefix = "10.48550/arxiv."

// arxivPattern matches arXiv IDs: "2301.07041", "arXiv:2301.07041",
// "2301.07041v2".
var arxivPattern = regexp.MustCompile(`^(?:arXiv:)?(\d{4}\.\d{4,5}(?:v\d+)?)$`)

// doiPattern matches canonical DOIs: "10.1038/s41586-024-07386-0".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/[^\s]+$`)

// bibcodePattern matches the 19-character astronomy bibcode format:
// year, journal abbreviation, volume, page, first-author initial
// ("1998ApJ...500..525S").
var bibcodePattern = regexp.MustCompile(`^\d{4}[A-Za-z&.]{5}[A-Za-z0-9.&]{9}[A-Z.]$`)

// Classify determines the identifier type and returns the normalized
// form. arXiv IDs lose their optional "arXiv:" prefix; DOIs are
// canonicalized.
func Classify(identifier string) (IdentifierType, string) {
	identifier = strings.TrimSpace(identifier)

	if m := arxivPattern.FindStringSubmatch(identifier); m != nil {
		return TypeArxiv, m[1]
	}

	if doi := CanonicalDOI(identifier); doiPattern.MatchString(doi) {
		return TypeDOI, doi
	}

	if bibcodePattern.MatchString(identifier) {
		return TypeBibcode, identifier
	}

	return TypeUnknown, identifier
}

// CanonicalDOI strips doi.org URL forms and the "doi:" prefix
// (case-insensitive) plus surrounding whitespace, returning the bare DOI.
func CanonicalDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	lower := strings.ToLower(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "doi:"} {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(doi[len(prefix):])
		}
	}
	return doi
}

// ValidDOI reports whether a canonical DOI has the registered shape.
func ValidDOI(doi string) bool {
	return doiPattern.MatchString(doi)
}

// IsArxivDOI reports whether a canonical DOI was minted by arXiv.
func IsArxivDOI(doi string) bool {
	return strings.HasPrefix(strings.ToLower(doi), arxivDOIPrefix)
}

// ArxivIDFromDOI extracts the arXiv identifier from an arXiv DOI, or ""
// for any other DOI.
func ArxivIDFromDOI(doi string) string {
	if !IsArxivDOI(doi) {
		return ""
	}
	return doi[len(arxivDOIPrefix):]
}

// ArxivPDFURL returns the direct arXiv PDF URL for an identifier.
func ArxivPDFURL(arxivID string) string {
	return arxivPDFBase + arxivID + ".pdf"
}

// DOIURL returns the doi.org resolver URL for a canonical DOI.
func DOIURL(doi string) string {
	return doiBase + doi
}

// ExpandTemplate fills a publisher PDF template: {doi} is the full
// canonical DOI, {suffix} the part after the first slash.
func ExpandTemplate(template, doi string) string {
	suffix := doi
	if i := strings.Index(doi, "/"); i >= 0 {
		suffix = doi[i+1:]
	}
	out := strings.ReplaceAll(template, "{doi}", doi)
	return strings.ReplaceAll(out, "{suffix}", suffix)
}
