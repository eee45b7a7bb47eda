// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rules maps DOI prefixes to publisher access rules: how to
// construct a candidate PDF URL, whether the publisher needs the library
// proxy, and whether its landing pages tolerate scraping. A built-in
// table covers the major publishers; a YAML file can override or extend
// individual entries.
package rules

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf-resolver/pkg/types"
)

// builtin is the default rule table. Prefix matching is longest-first,
// so an overlay entry like "10.1016/j." can shadow the broader Elsevier
// rule for specific journals.
var builtin = []types.PublisherRule{
	{
		Prefix:           "10.1038",
		Name:             "Nature",
		Host:             "www.nature.com",
		PDFTemplate:      "https://www.nature.com/articles/{suffix}.pdf",
		PDFSelector:      "a.c-pdf-download__link",
		SupportsScraping: true,
	},
	{
		Prefix:        "10.1016",
		Name:          "Elsevier",
		Host:          "www.sciencedirect.com",
		RequiresProxy: true,
		CaptchaRisk:   true,
	},
	{
		Prefix:           "10.1007",
		Name:             "Springer",
		Host:             "link.springer.com",
		PDFTemplate:      "https://link.springer.com/content/pdf/{doi}.pdf",
		SupportsScraping: true,
	},
	{
		Prefix:        "10.1002",
		Name:          "Wiley",
		Host:          "onlinelibrary.wiley.com",
		PDFTemplate:   "https://onlinelibrary.wiley.com/doi/pdf/{doi}",
		RequiresProxy: true,
		CaptchaRisk:   true,
	},
	{
		Prefix:        "10.1109",
		Name:          "IEEE",
		Host:          "ieeexplore.ieee.org",
		RequiresProxy: true,
		CaptchaRisk:   true,
	},
	{
		Prefix:        "10.1145",
		Name:          "ACM",
		Host:          "dl.acm.org",
		PDFTemplate:   "https://dl.acm.org/doi/pdf/{doi}",
		RequiresProxy: true,
	},
	{
		Prefix:        "10.1080",
		Name:          "Taylor & Francis",
		Host:          "www.tandfonline.com",
		PDFTemplate:   "https://www.tandfonline.com/doi/pdf/{doi}",
		RequiresProxy: true,
	},
	{
		Prefix:        "10.1177",
		Name:          "SAGE",
		Host:          "journals.sagepub.com",
		PDFTemplate:   "https://journals.sagepub.com/doi/pdf/{doi}",
		RequiresProxy: true,
	},
	{
		Prefix:           "10.1093",
		Name:             "Oxford University Press",
		Host:             "academic.oup.com",
		RequiresProxy:    true,
		SupportsScraping: true,
	},
	{
		Prefix:           "10.1088",
		Name:             "IOP Publishing",
		Host:             "iopscience.iop.org",
		PDFTemplate:      "https://iopscience.iop.org/article/{doi}/pdf",
		SupportsScraping: true,
	},
	{
		Prefix:        "10.1103",
		Name:          "American Physical Society",
		Host:          "journals.aps.org",
		PDFTemplate:   "https://link.aps.org/pdf/{doi}",
		RequiresProxy: true,
	},
	{
		Prefix:        "10.1063",
		Name:          "AIP Publishing",
		Host:          "pubs.aip.org",
		RequiresProxy: true,
	},
	{
		Prefix:           "10.3847",
		Name:             "American Astronomical Society",
		Host:             "iopscience.iop.org",
		PDFTemplate:      "https://iopscience.iop.org/article/{doi}/pdf",
		SupportsScraping: true,
	},
	{
		// The arXiv DOI prefix; resolution goes through the direct arXiv
		// PDF path, never the publisher chain.
		Prefix: "10.48550",
		Name:   "arXiv",
	},
}

// Registry answers rule lookups for the resolver and selector lookups
// for the scraper. Immutable after construction.
type Registry struct {
	rules []types.PublisherRule
}

// NewRegistry returns a registry holding only the built-in table.
func NewRegistry() *Registry {
	rs := make([]types.PublisherRule, len(builtin))
	copy(rs, builtin)
	return newSorted(rs)
}

// Load returns a registry with the YAML rules file at path merged over
// the built-in table. Entries match by prefix: an overlay entry with a
// known prefix replaces the built-in rule, a new prefix is added. An
// empty path returns the built-in registry.
func Load(path string) (*Registry, error) {
	if path == "" {
		return NewRegistry(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file %s: %w", path, err)
	}

	var overlay struct {
		Rules []types.PublisherRule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parsing rules file %s: %w", path, err)
	}

	merged := make([]types.PublisherRule, len(builtin))
	copy(merged, builtin)
	for _, r := range overlay.Rules {
		if r.Prefix == "" {
			return nil, fmt.Errorf("rules file %s: entry for %q missing prefix", path, r.Name)
		}
		replaced := false
		for i := range merged {
			if merged[i].Prefix == r.Prefix {
				merged[i] = r
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, r)
		}
	}
	return newSorted(merged), nil
}

// newSorted orders rules longest-prefix-first so RuleFor can take the
// first match.
func newSorted(rs []types.PublisherRule) *Registry {
	sort.SliceStable(rs, func(i, j int) bool {
		return len(rs[i].Prefix) > len(rs[j].Prefix)
	})
	return &Registry{rules: rs}
}

// RuleFor returns the rule whose prefix is the longest match for the
// canonical DOI, and whether one matched.
func (r *Registry) RuleFor(doi string) (types.PublisherRule, bool) {
	doi = strings.ToLower(doi)
	for _, rule := range r.rules {
		if strings.HasPrefix(doi, strings.ToLower(rule.Prefix)) {
			return rule, true
		}
	}
	return types.PublisherRule{}, false
}

// SelectorFor returns the CSS selector for a publisher's PDF link given
// the landing page's host, or "" when no rule declares one.
func (r *Registry) SelectorFor(host string) string {
	host = strings.ToLower(host)
	for _, rule := range r.rules {
		if rule.Host != "" && strings.ToLower(rule.Host) == host && rule.PDFSelector != "" {
			return rule.PDFSelector
		}
	}
	return ""
}

// All returns every rule ordered by prefix, for display.
func (r *Registry) All() []types.PublisherRule {
	out := make([]types.PublisherRule, len(r.rules))
	copy(out, r.rules)
	sort.Slice(out, func(i, j int) bool { return out[i].Prefix < out[j].Prefix })
	return out
}
