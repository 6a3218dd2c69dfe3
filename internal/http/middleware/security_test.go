package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nyumba-homes/storefront-api/internal/config"
	"github.com/nyumba-homes/storefront-api/internal/http/middleware"
	"github.com/stretchr/testify/assert"
)

func serveSecurity(cfg *config.SecurityConfig) *httptest.ResponseRecorder {
	handler := middleware.SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/properties", nil))
	return w
}

func TestSecurityHeaders_DefaultConfig(t *testing.T) {
	w := serveSecurity(&config.SecurityConfig{
		ContentTypeNosniff:    true,
		FrameOptions:          "DENY",
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		PermissionsPolicy:     "geolocation=(), microphone=(), camera=()",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
	assert.Equal(t, "geolocation=(), microphone=(), camera=()", w.Header().Get("Permissions-Policy"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"), "HSTS should not be set when disabled")
}

func TestSecurityHeaders_HSTS(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.SecurityConfig
		want string
	}{
		{
			name: "max age only",
			cfg:  config.SecurityConfig{EnableHSTS: true, HSTSMaxAge: 31536000},
			want: "max-age=31536000",
		},
		{
			name: "subdomains and preload",
			cfg:  config.SecurityConfig{EnableHSTS: true, HSTSMaxAge: 600, HSTSIncludeSubdomains: true, HSTSPreload: true},
			want: "max-age=600; includeSubDomains; preload",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveSecurity(&tt.cfg)
			assert.Equal(t, tt.want, w.Header().Get("Strict-Transport-Security"))
		})
	}
}

func TestSecurityHeaders_EmptyConfigSkipsOptionalHeaders(t *testing.T) {
	w := serveSecurity(&config.SecurityConfig{})

	assert.Empty(t, w.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, w.Header().Get("X-Frame-Options"))
	assert.Empty(t, w.Header().Get("Content-Security-Policy"))
}

func TestSecurityHeaders_RequestsColorSchemeHint(t *testing.T) {
	w := serveSecurity(&config.SecurityConfig{})

	assert.Equal(t, "Sec-CH-Prefers-Color-Scheme", w.Header().Get("Accept-CH"))
	assert.Contains(t, w.Header().Values("Vary"), "Sec-CH-Prefers-Color-Scheme")
}
