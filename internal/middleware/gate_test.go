package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/codegate/gate-server-go/internal/repository"
	"github.com/codegate/gate-server-go/internal/service"
)

const testFallback = "https://example.com/claims"

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("protected"))
}

func newGatedRouter(store repository.AccessCodeRepository) chi.Router {
	m := NewGateMiddleware(service.NewGate(store), testFallback)
	r := chi.NewRouter()
	r.Route("/{code}/{domain}", func(r chi.Router) {
		r.Use(m.Handler)
		r.Get("/", okHandler)
		r.Get("/*", okHandler)
	})
	return r
}

func TestGateMiddleware(t *testing.T) {
	store := repository.NewMemoryAccessCodeRepository()
	store.Insert("abcd1234abcd1234")
	router := newGatedRouter(store)

	t.Run("valid code reaches entry route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/abcd1234abcd1234/siteA", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "protected", rec.Body.String())
	})

	t.Run("valid code reaches deep sub-paths", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/abcd1234abcd1234/siteA/a/b/c/script.js", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown code redirects before any content", func(t *testing.T) {
		for _, path := range []string{"/nonexistentcode/siteA", "/nonexistentcode/siteA/script.js"} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusFound, rec.Code, path)
			assert.Equal(t, testFallback, rec.Header().Get("Location"), path)
			assert.NotContains(t, rec.Body.String(), "protected", path)
		}
	})

	t.Run("revoked code redirects identically to unknown code", func(t *testing.T) {
		store.Insert("ffff0000ffff0000")
		store.Remove("ffff0000ffff0000")

		revoked := httptest.NewRecorder()
		router.ServeHTTP(revoked, httptest.NewRequest(http.MethodGet, "/ffff0000ffff0000/siteA", nil))
		unknown := httptest.NewRecorder()
		router.ServeHTTP(unknown, httptest.NewRequest(http.MethodGet, "/0000000000000000/siteA", nil))

		assert.Equal(t, unknown.Code, revoked.Code)
		assert.Equal(t, unknown.Header().Get("Location"), revoked.Header().Get("Location"))
		assert.Equal(t, unknown.Body.String(), revoked.Body.String())
	})

	t.Run("domain segment does not matter", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/abcd1234abcd1234/whatever-else", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
