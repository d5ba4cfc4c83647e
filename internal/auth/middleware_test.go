package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sairajtravels/site-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"valid bearer", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"missing header", "", "", false},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "", false},
		{"bearer without token", "Bearer ", "", false},
		{"bare token", "abc.def.ghi", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/auth/validate", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			got, ok := BearerToken(r)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMiddleware_ValidToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	token, err := tm.Generate("ops_manager", models.RoleManager)
	require.NoError(t, err)

	var captured *models.TokenClaims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest("GET", "/api/admin/users", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	Middleware(tm)(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "ops_manager", captured.Username)
	assert.Equal(t, models.RoleManager, captured.Role)
}

func TestMiddleware_RejectsInvalidToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for invalid token")
	})

	r := httptest.NewRequest("GET", "/api/admin/users", nil)
	r.Header.Set("Authorization", "Bearer bogus")
	w := httptest.NewRecorder()

	Middleware(tm)(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_RejectsMissingHeader(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without authorization header")
	})

	r := httptest.NewRequest("GET", "/api/admin/users", nil)
	w := httptest.NewRecorder()

	Middleware(tm)(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	protected := Middleware(tm)(RequireRole(models.RoleAdmin)(handler))

	t.Run("admin allowed", func(t *testing.T) {
		token, err := tm.Generate("sairaj_admin", models.RoleAdmin)
		require.NoError(t, err)

		r := httptest.NewRequest("POST", "/api/admin/users", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("viewer forbidden", func(t *testing.T) {
		token, err := tm.Generate("front_desk", models.RoleViewer)
		require.NoError(t, err)

		r := httptest.NewRequest("POST", "/api/admin/users", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
