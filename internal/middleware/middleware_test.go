package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shams-elarab/internal/auth"
	"shams-elarab/internal/model"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORS(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		expectedStatus int
		expectHandler  bool
	}{
		{
			name:           "Preflight request",
			method:         http.MethodOptions,
			expectedStatus: http.StatusNoContent,
			expectHandler:  false,
		},
		{
			name:           "GET request",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:           "POST request",
			method:         http.MethodPost,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			handler := CORS(testHandler)

			req := httptest.NewRequest(tt.method, "/test", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, "Content-Type, Authorization, Idempotency-Key", w.Header().Get("Access-Control-Allow-Headers"))
		})
	}
}

func TestStaffAuth(t *testing.T) {
	logger := zerolog.Nop()
	verifier := auth.NewVerifier("test-secret", "admin", "")

	staffToken, err := verifier.Sign("u1", "staff@example.com", "admin", time.Hour)
	require.NoError(t, err)
	customerToken, err := verifier.Sign("u2", "c@example.com", "customer", time.Hour)
	require.NoError(t, err)
	expiredToken, err := verifier.Sign("u1", "staff@example.com", "admin", -time.Minute)
	require.NoError(t, err)
	foreignToken, err := auth.NewVerifier("other-secret", "admin", "").Sign("u1", "x@example.com", "admin", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectHandler  bool
	}{
		{
			name:           "Valid staff token",
			header:         "Bearer " + staffToken,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:           "Missing header",
			header:         "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong scheme",
			header:         "Basic " + staffToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Customer token",
			header:         "Bearer " + customerToken,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Expired token",
			header:         "Bearer " + expiredToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Token signed with another secret",
			header:         "Bearer " + foreignToken,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				claims, ok := ClaimsFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, "u1", claims.Subject)
				w.WriteHeader(http.StatusOK)
			})

			handler := StaffAuth(verifier, logger)(testHandler)

			req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)
		})
	}
}

func TestTimeout(t *testing.T) {
	var deadline time.Time
	var hasDeadline bool
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, hasDeadline = r.Context().Deadline()
		w.WriteHeader(http.StatusOK)
	})

	handler := Timeout(5 * time.Second)(testHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.True(t, hasDeadline)
	assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, time.Second)
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name          string
		method        string
		path          string
		handlerStatus int
		writeBody     bool
	}{
		{name: "Explicit status", method: http.MethodPost, path: "/api/checkout", handlerStatus: http.StatusCreated},
		{name: "Implicit 200 from body write", method: http.MethodGet, path: "/api/courses", writeBody: true, handlerStatus: http.StatusOK},
		{name: "Server error", method: http.MethodGet, path: "/api/admin/orders", handlerStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)

			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.writeBody {
					_, _ = w.Write([]byte("[]"))
					return
				}
				w.WriteHeader(tt.handlerStatus)
			})

			handler := chimw.RequestID(Logging(logger)(testHandler))

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set(chimw.RequestIDHeader, "req-42")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.handlerStatus, w.Code)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "req-42", entry["request_id"])
			assert.Equal(t, tt.method, entry["method"])
			assert.Equal(t, tt.path, entry["path"])
			assert.EqualValues(t, tt.handlerStatus, entry["status"])
			assert.Equal(t, "http request", entry["message"])
		})
	}
}

func TestRecovery(t *testing.T) {
	tests := []struct {
		name        string
		panicValue  any
		expectPanic bool
	}{
		{name: "Panic with string", panicValue: "something went wrong"},
		{name: "Panic with error", panicValue: assert.AnError},
		{name: "Aborted handler is re-raised", panicValue: http.ErrAbortHandler, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(tt.panicValue)
			})

			handler := Recovery(zerolog.New(&buf))(testHandler)

			req := httptest.NewRequest(http.MethodGet, "/api/quote", nil)
			w := httptest.NewRecorder()

			if tt.expectPanic {
				assert.PanicsWithValue(t, http.ErrAbortHandler, func() { handler.ServeHTTP(w, req) })
				assert.Empty(t, buf.String())
				return
			}

			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var resp model.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, model.ErrCodeInternalError, resp.Error)
			assert.Contains(t, buf.String(), "panic recovered")
		})
	}
}

func TestRecovery_NoPanic(t *testing.T) {
	handler := Recovery(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/admin/orders/x", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
}
