// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolver turns a publication's identifiers into a PDF access
// status by trying sources in priority order: arXiv, the open-access
// index, landing-page scraping, publisher URL construction, and the
// scanned-archive fallback. Every sub-step absorbs its own failures, so
// a resolution always produces a status, never an error.
package resolver

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/pdf-resolver/internal/httputil"
	"github.com/pdiddy/pdf-resolver/pkg/types"
)

// OpenAccessIndex maps a DOI to the best known free-to-read copy.
// Results are trusted as pre-validated.
type OpenAccessIndex interface {
	Lookup(ctx context.Context, doi string) (*types.OpenAccessCopy, error)
}

// RuleProvider answers per-publisher rule lookups by DOI prefix.
type RuleProvider interface {
	RuleFor(doi string) (types.PublisherRule, bool)
}

// LandingScraper extracts a candidate PDF URL from a landing page.
type LandingScraper interface {
	Resolve(ctx context.Context, landingURL string, useProxy bool, proxyPrefix string) types.LandingPageResult
}

// URLValidator classifies a single candidate URL.
type URLValidator interface {
	Validate(ctx context.Context, url string) types.ValidationResult
}

// HistoryRecorder persists completed resolutions. Recording is
// best-effort; failures are logged and ignored.
type HistoryRecorder interface {
	Record(ctx context.Context, pub types.Publication, status types.PDFAccessStatus) error
}

// Resolver orchestrates the resolution chain. Collaborators are
// injected explicitly; History and Log may be left as constructed.
// Safe for concurrent use.
type Resolver struct {
	OpenAccess OpenAccessIndex
	Rules      RuleProvider
	Scraper    LandingScraper
	Validator  URLValidator
	History    HistoryRecorder
	Log        *zap.Logger

	// DisableScraping skips the landing-page step entirely, regardless
	// of publisher rules.
	DisableScraping bool
}

// New builds a Resolver with a no-op logger and no history store.
func New(index OpenAccessIndex, rules RuleProvider, scraper LandingScraper, validator URLValidator) *Resolver {
	return &Resolver{
		OpenAccess: index,
		Rules:      rules,
		Scraper:    scraper,
		Validator:  validator,
		Log:        zap.NewNop(),
	}
}

// Resolve computes the access status for one publication. It is
// deterministic for identical inputs and cache state; network responses
// are the only source of variation.
func (r *Resolver) Resolve(ctx context.Context, pub types.Publication, settings types.Settings) types.PDFAccessStatus {
	status := r.resolve(ctx, pub, settings)
	if r.History != nil {
		if err := r.History.Record(ctx, pub, status); err != nil {
			r.Log.Warn("recording resolution history", zap.Error(err))
		}
	}
	r.Log.Info("resolved publication",
		zap.String("doi", pub.DOI),
		zap.String("arxiv_id", pub.ArxivID),
		zap.String("state", string(status.State)))
	return status
}

func (r *Resolver) resolve(ctx context.Context, pub types.Publication, settings types.Settings) types.PDFAccessStatus {
	if !pub.HasIdentifier() {
		return types.Unavailable(types.ReasonNoIdentifier)
	}

	doi := CanonicalDOI(pub.DOI)
	arxivID := pub.ArxivID
	if arxivID == "" {
		arxivID = ArxivIDFromDOI(doi)
	}
	// A record is arXiv-only when the publisher chain has nothing to add:
	// no DOI at all, or a DOI minted by arXiv itself.
	arxivOnly := arxivID != "" && (doi == "" || IsArxivDOI(doi))

	// arXiv links are institutionally free; they are used without a
	// network probe.
	if arxivID != "" && (settings.SourcePriority == types.PriorityPreprint || arxivOnly) {
		return types.Available(arxivSource(arxivID, false))
	}

	if doi != "" && !ValidDOI(doi) {
		return types.Unavailable(types.ReasonInvalidDOI)
	}

	var landingURL string
	if doi != "" && r.OpenAccess != nil {
		oa, err := r.OpenAccess.Lookup(ctx, doi)
		switch {
		case err != nil:
			r.Log.Debug("open-access lookup failed", zap.String("doi", doi), zap.Error(err))
		case oa != nil && oa.PDFURL != "":
			name := oa.DisplayName
			if name == "" {
				name = "Open access"
			}
			return types.Available(types.AccessSource{
				Type:        types.SourceOpenAccess,
				URL:         oa.PDFURL,
				DisplayName: name,
			})
		case oa != nil:
			// No direct PDF, but the index knows where the paper lives.
			landingURL = oa.LandingURL
		}
	}

	if doi != "" && !IsArxivDOI(doi) {
		var rule types.PublisherRule
		hasRule := false
		if r.Rules != nil {
			rule, hasRule = r.Rules.RuleFor(doi)
		}
		if landingURL == "" {
			landingURL = DOIURL(doi)
		}

		if !r.DisableScraping && r.Scraper != nil && r.Validator != nil && (!hasRule || rule.SupportsScraping) {
			if st := r.tryLandingPage(ctx, landingURL, rule, settings); st != nil {
				return r.preferScan(pub, *st)
			}
		}

		if hasRule && rule.PDFTemplate != "" && r.Validator != nil {
			if st := r.tryPublisherRule(ctx, doi, rule, settings); st != nil {
				return r.preferScan(pub, *st)
			}
		}
	}

	if settings.SourcePriority == types.PriorityPublisher && arxivID != "" {
		return types.Available(arxivSource(arxivID, true))
	}
	if pub.ScanURL != "" {
		return types.Available(scanSource(pub.ScanURL))
	}
	return types.Unavailable(types.ReasonNoPDFFound)
}

// tryLandingPage runs the scrape-then-validate step. A nil return means
// the step was inconclusive and the chain continues.
func (r *Resolver) tryLandingPage(ctx context.Context, landingURL string, rule types.PublisherRule, settings types.Settings) *types.PDFAccessStatus {
	res := r.Scraper.Resolve(ctx, landingURL, false, "")
	name := rule.Name
	if name == "" {
		name = res.PublisherHost
	}

	switch res.Status.Kind {
	case types.ResolutionFound:
		if v := r.Validator.Validate(ctx, res.PDFURL); v.IsPDF() {
			st := types.Available(types.AccessSource{
				Type:        types.SourceLandingPage,
				URL:         res.PDFURL,
				DisplayName: name,
			})
			return &st
		}
		// The extracted URL did not validate; let the publisher rule try.
		return nil

	case types.ResolutionRequiresAuth:
		if settings.ProxyConfigured() {
			pres := r.Scraper.Resolve(ctx, landingURL, true, settings.ProxyURL)
			if pres.Found() {
				// Links extracted from a proxied page are already
				// proxy-qualified by the gateway.
				if v := r.Validator.Validate(ctx, pres.PDFURL); v.IsPDF() {
					st := types.RequiresProxy(types.AccessSource{
						Type:        types.SourceLandingPage,
						URL:         pres.PDFURL,
						DisplayName: name,
					})
					return &st
				}
			}
		}
		st := types.Paywalled(name, r.browserURL(landingURL, settings))
		return &st

	case types.ResolutionCaptchaBlocked:
		st := types.CaptchaBlocked(name, r.browserURL(landingURL, settings))
		return &st

	default:
		return nil
	}
}

// tryPublisherRule validates a rule-constructed candidate PDF URL,
// proxy-first when the rule calls for it. A nil return means the chain
// continues.
func (r *Resolver) tryPublisherRule(ctx context.Context, doi string, rule types.PublisherRule, settings types.Settings) *types.PDFAccessStatus {
	candidate := ExpandTemplate(rule.PDFTemplate, doi)

	if rule.RequiresProxy && settings.ProxyConfigured() {
		proxied := httputil.ApplyProxy(settings.ProxyURL, candidate)
		if v := r.Validator.Validate(ctx, proxied); v.IsPDF() {
			st := types.RequiresProxy(types.AccessSource{
				Type:        types.SourcePublisher,
				URL:         proxied,
				DisplayName: rule.Name,
			})
			return &st
		}
	}

	v := r.Validator.Validate(ctx, candidate)
	switch v.Kind {
	case types.ValidationPDF:
		st := types.Available(types.AccessSource{
			Type:        types.SourcePublisher,
			URL:         candidate,
			DisplayName: rule.Name,
		})
		return &st

	case types.ValidationRequiresAuth, types.ValidationPaywall:
		st := types.Paywalled(rule.Name, r.browserURL(candidate, settings))
		return &st

	case types.ValidationCaptcha:
		publisher := rule.Name
		if publisher == "" {
			publisher = v.Domain
		}
		st := types.CaptchaBlocked(publisher, r.browserURL(candidate, settings))
		return &st

	default:
		return nil
	}
}

// preferScan replaces a captcha/paywall block with the scanned-archive
// copy when one exists; a readable scan beats asking the user to fight
// a challenge page.
func (r *Resolver) preferScan(pub types.Publication, st types.PDFAccessStatus) types.PDFAccessStatus {
	if st.NeedsUserAction() && pub.ScanURL != "" {
		return types.Available(scanSource(pub.ScanURL))
	}
	return st
}

// browserURL is the URL surfaced for manual access, proxy-qualified
// when the user has a proxy configured.
func (r *Resolver) browserURL(rawURL string, settings types.Settings) string {
	if settings.ProxyConfigured() {
		return httputil.ApplyProxy(settings.ProxyURL, rawURL)
	}
	return rawURL
}

func arxivSource(arxivID string, fallback bool) types.AccessSource {
	return types.AccessSource{
		Type:        types.SourceArxiv,
		URL:         ArxivPDFURL(arxivID),
		DisplayName: "arXiv",
		Fallback:    fallback,
	}
}

func scanSource(scanURL string) types.AccessSource {
	return types.AccessSource{
		Type:        types.SourceScannedArchive,
		URL:         scanURL,
		DisplayName: "Scanned archive",
	}
}

// ResolveBatch resolves many publications with bounded concurrency,
// returning statuses in input order. Individual resolutions never abort
// the batch. concurrency <= 0 means 4.
func (r *Resolver) ResolveBatch(ctx context.Context, pubs []types.Publication, settings types.Settings, concurrency int) []types.PDFAccessStatus {
	if concurrency <= 0 {
		concurrency = 4
	}
	statuses := make([]types.PDFAccessStatus, len(pubs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, pub := range pubs {
		i, pub := i, pub
		g.Go(func() error {
			statuses[i] = r.Resolve(ctx, pub, settings)
			return nil
		})
	}
	// Group funcs never return errors; Wait is only a join point.
	_ = g.Wait()
	return statuses
}
