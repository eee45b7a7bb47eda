// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SourceType identifies which kind of source produced a PDF URL.
type SourceType string

const (
	SourceArxiv          SourceType = "arxiv"
	SourceOpenAccess     SourceType = "open_access"
	SourcePublisher      SourceType = "publisher"
	SourceLandingPage    SourceType = "landing_page"
	SourceScannedArchive SourceType = "scanned_archive"
)

// AccessSource describes where a resolvable PDF lives.
type AccessSource struct {
	// Type is the source category (arxiv, open_access, publisher,
	// landing_page, scanned_archive).
	Type SourceType `json:"type" yaml:"type"`

	// URL is the PDF URL to try. For requires-proxy results this is already
	// proxy-qualified.
	URL string `json:"url" yaml:"url"`

	// DisplayName is a human-readable source label (e.g. "Nature", "arXiv").
	DisplayName string `json:"display_name,omitempty" yaml:"display_name,omitempty"`

	// Fallback marks a source that was chosen only after the preferred
	// path failed (e.g. arXiv after all publisher paths).
	Fallback bool `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// AccessState is the outcome category of a full resolution.
type AccessState string

const (
	AccessAvailable      AccessState = "available"
	AccessRequiresProxy  AccessState = "requires_proxy"
	AccessCaptchaBlocked AccessState = "captcha_blocked"
	AccessPaywalled      AccessState = "paywalled"
	AccessUnavailable    AccessState = "unavailable"
	AccessChecking       AccessState = "checking"
)

// UnavailableReason explains an unavailable resolution.
type UnavailableReason string

const (
	ReasonNoPDFFound   UnavailableReason = "no_pdf_found"
	ReasonInvalidDOI   UnavailableReason = "invalid_doi"
	ReasonNoIdentifier UnavailableReason = "no_identifier"
)

// PDFAccessStatus is the resolver's answer for one publication: either a
// usable source, a block that needs user action, or a reason nothing worked.
// Constructed fresh per resolution and never mutated.
type PDFAccessStatus struct {
	State AccessState `json:"state" yaml:"state"`

	// Source is set for available and requires_proxy states.
	Source AccessSource `json:"source,omitempty" yaml:"source,omitempty"`

	// Publisher names the blocking publisher for captcha_blocked and
	// paywalled states.
	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`

	// BrowserURL is a URL the user can open manually to get past a CAPTCHA
	// or paywall (proxy-qualified when a proxy is configured).
	BrowserURL string `json:"browser_url,omitempty" yaml:"browser_url,omitempty"`

	// Reason is set for the unavailable state.
	Reason UnavailableReason `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Available reports a directly usable PDF source.
func Available(src AccessSource) PDFAccessStatus {
	return PDFAccessStatus{State: AccessAvailable, Source: src}
}

// RequiresProxy reports a PDF reachable only through the library proxy.
func RequiresProxy(src AccessSource) PDFAccessStatus {
	return PDFAccessStatus{State: AccessRequiresProxy, Source: src}
}

// CaptchaBlocked reports a publisher CAPTCHA the user must solve in a browser.
func CaptchaBlocked(publisher, browserURL string) PDFAccessStatus {
	return PDFAccessStatus{State: AccessCaptchaBlocked, Publisher: publisher, BrowserURL: browserURL}
}

// Paywalled reports a publisher paywall with a URL the user can open manually.
func Paywalled(publisher, browserURL string) PDFAccessStatus {
	return PDFAccessStatus{State: AccessPaywalled, Publisher: publisher, BrowserURL: browserURL}
}

// Unavailable reports that no PDF could be located.
func Unavailable(reason UnavailableReason) PDFAccessStatus {
	return PDFAccessStatus{State: AccessUnavailable, Reason: reason}
}

// Checking is the in-progress placeholder a host application displays while
// a resolution runs; Resolve never returns it.
func Checking() PDFAccessStatus {
	return PDFAccessStatus{State: AccessChecking}
}

// Accessible reports whether the status carries a usable source.
func (s PDFAccessStatus) Accessible() bool {
	return s.State == AccessAvailable || s.State == AccessRequiresProxy
}

// NeedsUserAction reports whether the user must intervene in a browser.
func (s PDFAccessStatus) NeedsUserAction() bool {
	return s.State == AccessCaptchaBlocked || s.State == AccessPaywalled
}
