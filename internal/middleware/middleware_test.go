package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyAuth(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		path           string
		providedKey    string
		expectedStatus int
	}{
		{
			name:           "Valid API key",
			path:           "/api/products",
			providedKey:    "secret-key",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing API key",
			path:           "/api/products",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong API key",
			path:           "/api/products",
			providedKey:    "wrong-key",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Health endpoint exempt",
			path:           "/health",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := APIKeyAuth("secret-key", logger)(okHandler())

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.providedKey != "" {
				req.Header.Set("X-API-Key", tt.providedKey)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestIdentity(t *testing.T) {
	t.Run("Headers populate the context", func(t *testing.T) {
		var gotID string
		var gotOK bool
		var gotName string

		handler := Identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotID, gotOK = UserID(r.Context())
			gotName = UserName(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		req.Header.Set("X-User-ID", "buyer-1")
		req.Header.Set("X-User-Name", "Priya Sharma")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, gotOK)
		assert.Equal(t, "buyer-1", gotID)
		assert.Equal(t, "Priya Sharma", gotName)
	})

	t.Run("Absent headers leave no identity", func(t *testing.T) {
		var gotOK bool
		var gotName string

		handler := Identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, gotOK = UserID(r.Context())
			gotName = UserName(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.False(t, gotOK)
		assert.Equal(t, "Customer", gotName)
	})
}

func TestCORS(t *testing.T) {
	t.Run("Preflight request short-circuits", func(t *testing.T) {
		called := false
		handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.False(t, called)
		assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("Normal request passes through with headers", func(t *testing.T) {
		handler := CORS(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRecovery(t *testing.T) {
	logger := zerolog.Nop()

	handler := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		handler.ServeHTTP(rec, req)
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
