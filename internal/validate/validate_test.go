// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/pdf-resolver/pkg/types"
)

func newTestValidator() *Validator {
	return New(types.ValidateConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second},
	}, nil)
}

// testHandler serves one path per classification case.
func testHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/paper.pdf", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Length", "204800")
	})
	mux.HandleFunc("/landing", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	})
	mux.HandleFunc("/untyped", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
	})
	mux.HandleFunc("/saml/login", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/ezproxy/blocked", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	mux.HandleFunc("/forbidden", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/limited", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	})
	mux.HandleFunc("/limited-no-header", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	mux.HandleFunc("/challenge-redirect", func(w http.ResponseWriter, _ *http.Request) {
		// 300 is not auto-followed, so the redirect surfaces to the
		// classifier.
		w.Header().Set("Location", "https://gate.example.net/captcha-challenge")
		w.WriteHeader(http.StatusMultipleChoices)
	})
	mux.HandleFunc("/multiple-choices", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusMultipleChoices)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	return mux
}

func TestValidateClassification(t *testing.T) {
	ts := httptest.NewServer(testHandler())
	defer ts.Close()

	v := newTestValidator()

	tests := []struct {
		name     string
		path     string
		wantKind types.ValidationKind
		check    func(t *testing.T, r types.ValidationResult)
	}{
		{
			name:     "pdf content type",
			path:     "/paper.pdf",
			wantKind: types.ValidationPDF,
			check: func(t *testing.T, r types.ValidationResult) {
				if r.ContentLength != 204800 {
					t.Errorf("ContentLength = %d, want 204800", r.ContentLength)
				}
			},
		},
		{
			name:     "html content type",
			path:     "/landing",
			wantKind: types.ValidationHTML,
		},
		{
			// Publishers omit or misreport the content type often
			// enough that anything non-HTML counts as a PDF.
			name:     "unknown content type is optimistically a pdf",
			path:     "/untyped",
			wantKind: types.ValidationPDF,
		},
		{
			name:     "401 with saml marker",
			path:     "/saml/login",
			wantKind: types.ValidationRequiresAuth,
			check: func(t *testing.T, r types.ValidationResult) {
				if r.AuthType != types.AuthShibboleth {
					t.Errorf("AuthType = %q, want shibboleth", r.AuthType)
				}
			},
		},
		{
			name:     "403 with ezproxy marker",
			path:     "/ezproxy/blocked",
			wantKind: types.ValidationRequiresAuth,
			check: func(t *testing.T, r types.ValidationResult) {
				if r.AuthType != types.AuthProxy {
					t.Errorf("AuthType = %q, want proxy", r.AuthType)
				}
			},
		},
		{
			name:     "403 without auth markers",
			path:     "/forbidden",
			wantKind: types.ValidationRequiresAuth,
			check: func(t *testing.T, r types.ValidationResult) {
				if r.AuthType != types.AuthUnknown {
					t.Errorf("AuthType = %q, want unknown", r.AuthType)
				}
			},
		},
		{
			name:     "404",
			path:     "/gone",
			wantKind: types.ValidationNotFound,
		},
		{
			name:     "429 with numeric retry-after",
			path:     "/limited",
			wantKind: types.ValidationRateLimited,
			check: func(t *testing.T, r types.ValidationResult) {
				if r.RetryAfter != 30*time.Second {
					t.Errorf("RetryAfter = %s, want 30s", r.RetryAfter)
				}
			},
		},
		{
			name:     "429 without retry-after",
			path:     "/limited-no-header",
			wantKind: types.ValidationRateLimited,
			check: func(t *testing.T, r types.ValidationResult) {
				if r.RetryAfter != 0 {
					t.Errorf("RetryAfter = %s, want 0", r.RetryAfter)
				}
			},
		},
		{
			name:     "3xx with captcha location",
			path:     "/challenge-redirect",
			wantKind: types.ValidationCaptcha,
			check: func(t *testing.T, r types.ValidationResult) {
				if r.Domain != "gate.example.net" {
					t.Errorf("Domain = %q, want gate.example.net", r.Domain)
				}
			},
		},
		{
			name:     "3xx without captcha location",
			path:     "/multiple-choices",
			wantKind: types.ValidationHTML,
		},
		{
			name:     "unhandled status",
			path:     "/broken",
			wantKind: types.ValidationNetworkError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate(context.Background(), ts.URL+tt.path)
			if result.Kind != tt.wantKind {
				t.Fatalf("Validate(%s) kind = %q, want %q", tt.path, result.Kind, tt.wantKind)
			}
			if tt.check != nil {
				tt.check(t, result)
			}
		})
	}
}

func TestValidateUsesHEAD(t *testing.T) {
	var method string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		if r.Header.Get("Accept") != "application/pdf,*/*" {
			t.Errorf("Accept = %q, want application/pdf,*/*", r.Header.Get("Accept"))
		}
		w.Header().Set("Content-Type", "application/pdf")
	}))
	defer ts.Close()

	newTestValidator().Validate(context.Background(), ts.URL+"/a.pdf")
	if method != http.MethodHead {
		t.Errorf("method = %q, want HEAD", method)
	}
}

func TestValidateFollowsRedirects(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/start" {
			http.Redirect(w, r, "/final.pdf", http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
	}))
	defer ts.Close()

	result := newTestValidator().Validate(context.Background(), ts.URL+"/start")
	if result.Kind != types.ValidationPDF {
		t.Fatalf("kind = %q, want valid_pdf", result.Kind)
	}
	if !strings.HasSuffix(result.URL, "/final.pdf") {
		t.Errorf("URL = %q, want the post-redirect URL", result.URL)
	}
}

func TestValidateTransportError(t *testing.T) {
	// A closed server port yields a connection error.
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	result := newTestValidator().Validate(context.Background(), url+"/a.pdf")
	if result.Kind != types.ValidationNetworkError {
		t.Fatalf("kind = %q, want network_error", result.Kind)
	}
	if result.Err == "" {
		t.Error("network_error should carry the transport error text")
	}
}
