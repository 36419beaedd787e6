package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRequest(t *testing.T, header string) *httptest.ResponseRecorder {
	t.Helper()

	handler := Auth(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/series/1", nil)
	if header != "" {
		req.Header.Set(HeaderUserID, header)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuth_ValidHeader(t *testing.T) {
	var gotID int64
	var gotOK bool

	handler := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/series/1", nil)
	req.Header.Set(HeaderUserID, "42")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, gotOK)
	assert.Equal(t, int64(42), gotID)
}

func TestAuth_MissingHeader(t *testing.T) {
	rec := authRequest(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_MalformedHeader(t *testing.T) {
	for _, raw := range []string{"abc", "-1", "0", "1.5"} {
		t.Run(raw, func(t *testing.T) {
			rec := authRequest(t, raw)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestUserID_MissingFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := UserID(req.Context())
	assert.False(t, ok)
}
