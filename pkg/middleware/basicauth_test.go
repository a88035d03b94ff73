package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testUsers = map[string]string{"admin": "secret"}

func authProbe(authenticated *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*authenticated = IsAuthenticated(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestBasicAuthRejectsAnonymous(t *testing.T) {
	var authenticated bool
	handler := BasicAuth(testUsers)(authProbe(&authenticated))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")
	assert.False(t, authenticated)
}

func TestBasicAuthRejectsWrongPassword(t *testing.T) {
	var authenticated bool
	handler := BasicAuth(testUsers)(authProbe(&authenticated))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("admin", "wrong")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBasicAuthAcceptsValidCredentials(t *testing.T) {
	var authenticated bool
	handler := BasicAuth(testUsers)(authProbe(&authenticated))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("admin", "secret")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, authenticated)
}

func TestOptionalBasicAuthAllowsAnonymous(t *testing.T) {
	var authenticated bool
	handler := OptionalBasicAuth(testUsers)(authProbe(&authenticated))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, authenticated)
}

func TestOptionalBasicAuthRecordsCredentials(t *testing.T) {
	var authenticated bool
	handler := OptionalBasicAuth(testUsers)(authProbe(&authenticated))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("admin", "secret")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, authenticated)
}
