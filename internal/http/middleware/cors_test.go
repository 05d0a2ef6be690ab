package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		preflight   bool
		wantCode    int
		wantOrigin  string
		wantHandler bool
	}{
		{"listed origin", []string{"https://app.healthguard.dev/"}, http.MethodGet, "https://app.healthguard.dev", false, http.StatusOK, "https://app.healthguard.dev", true},
		{"unknown origin passes through without headers", []string{"https://app.healthguard.dev"}, http.MethodGet, "https://evil.example", false, http.StatusOK, "", true},
		{"wildcard", []string{"*"}, http.MethodPost, "https://random.example", false, http.StatusOK, "https://random.example", true},
		{"no origin", []string{"*"}, http.MethodGet, "", false, http.StatusOK, "", true},
		{"preflight allowed", []string{"https://app.healthguard.dev"}, http.MethodOptions, "https://app.healthguard.dev", true, http.StatusNoContent, "https://app.healthguard.dev", false},
		{"preflight denied", []string{"https://app.healthguard.dev"}, http.MethodOptions, "https://evil.example", true, http.StatusForbidden, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := CORS(tt.allowed)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, "/api/v1/chat/messages", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantHandler, called)
			if tt.wantOrigin != "" {
				assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
			}
		})
	}
}
