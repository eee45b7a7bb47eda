// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ResolutionKind classifies the outcome of one landing-page fetch attempt.
type ResolutionKind string

const (
	ResolutionFound          ResolutionKind = "found"
	ResolutionRequiresAuth   ResolutionKind = "requires_authentication"
	ResolutionCaptchaBlocked ResolutionKind = "captcha_blocked"
	ResolutionRateLimited    ResolutionKind = "rate_limited"
	ResolutionNotFound       ResolutionKind = "not_found"
	ResolutionFetchFailed    ResolutionKind = "fetch_failed"
)

// ResolutionStatus is the outcome of one landing-page fetch. Only
// fetch_failed carries a payload.
type ResolutionStatus struct {
	Kind ResolutionKind `json:"kind" yaml:"kind"`

	// FailReason describes a fetch_failed outcome (e.g. "HTTP 503",
	// "could not decode HTML").
	FailReason string `json:"fail_reason,omitempty" yaml:"fail_reason,omitempty"`
}

// FetchFailed builds a fetch_failed status with the given reason.
func FetchFailed(reason string) ResolutionStatus {
	return ResolutionStatus{Kind: ResolutionFetchFailed, FailReason: reason}
}

// LandingPageResult is the outcome of scraping one landing page. Immutable
// once created; cached by value with an expiry that depends on whether a
// PDF URL was found.
type LandingPageResult struct {
	// PDFURL is the extracted candidate PDF URL, empty when none was found.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	Status ResolutionStatus `json:"status" yaml:"status"`

	// PublisherHost is the host that served the final response (or, for a
	// CAPTCHA redirect, the challenge host).
	PublisherHost string `json:"publisher_host,omitempty" yaml:"publisher_host,omitempty"`

	// Timestamp records when the scrape completed.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Found reports whether the scrape produced a usable PDF URL.
func (r LandingPageResult) Found() bool {
	return r.Status.Kind == ResolutionFound && r.PDFURL != ""
}

// ValidationKind classifies a single URL validation.
type ValidationKind string

const (
	ValidationPDF          ValidationKind = "valid_pdf"
	ValidationRequiresAuth ValidationKind = "requires_authentication"
	ValidationCaptcha      ValidationKind = "captcha_required"
	ValidationPaywall      ValidationKind = "paywall"
	ValidationHTML         ValidationKind = "html_content"
	ValidationRateLimited  ValidationKind = "rate_limited"
	ValidationNotFound     ValidationKind = "not_found"
	ValidationNetworkError ValidationKind = "network_error"
)

// AuthType is a heuristic guess at the authentication scheme behind a
// 401/403 response.
type AuthType string

const (
	AuthShibboleth AuthType = "shibboleth"
	AuthProxy      AuthType = "proxy"
	AuthUnknown    AuthType = "unknown"
)

// ValidationResult is the classification of one URL from a single HEAD
// probe. Produced per invocation and never cached.
type ValidationResult struct {
	Kind ValidationKind `json:"kind" yaml:"kind"`

	// URL is the validated URL (final, post-redirect).
	URL string `json:"url" yaml:"url"`

	// ContentLength is the reported PDF size in bytes for valid_pdf, when
	// the server sent a positive Content-Length.
	ContentLength int64 `json:"content_length,omitempty" yaml:"content_length,omitempty"`

	// AuthType is set for requires_authentication.
	AuthType AuthType `json:"auth_type,omitempty" yaml:"auth_type,omitempty"`

	// Domain is the CAPTCHA challenge host for captcha_required.
	Domain string `json:"domain,omitempty" yaml:"domain,omitempty"`

	// Publisher names the paywalling publisher for paywall.
	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`

	// Title is the page title for html_content, when one is known.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// RetryAfter is the server-requested wait for rate_limited, when the
	// Retry-After header was present and numeric.
	RetryAfter time.Duration `json:"retry_after,omitempty" yaml:"retry_after,omitempty"`

	// Err describes the transport failure for network_error.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`
}

// IsPDF reports whether validation confirmed a downloadable PDF.
func (v ValidationResult) IsPDF() bool {
	return v.Kind == ValidationPDF
}
