package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegate/gate-server-go/internal/model"
	"github.com/codegate/gate-server-go/internal/repository"
	"github.com/codegate/gate-server-go/internal/service"
)

func TestAccessHandler_GenerateLink(t *testing.T) {
	t.Run("returns a stored code", func(t *testing.T) {
		store := repository.NewMemoryAccessCodeRepository()
		h := NewAccessHandler(service.NewCodeIssuer(store), testFallback)

		rec := httptest.NewRecorder()
		h.GenerateLink(rec, httptest.NewRequest(http.MethodGet, "/generateLink", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body model.IssuedCode
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body.Code.String(), 16)
		assert.True(t, store.Contains(body.Code))
	})

	t.Run("every call issues a distinct code", func(t *testing.T) {
		store := repository.NewMemoryAccessCodeRepository()
		h := NewAccessHandler(service.NewCodeIssuer(store), testFallback)

		seen := make(map[model.AccessCode]bool)
		for i := 0; i < 10; i++ {
			rec := httptest.NewRecorder()
			h.GenerateLink(rec, httptest.NewRequest(http.MethodGet, "/generateLink", nil))

			var body model.IssuedCode
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, seen[body.Code])
			seen[body.Code] = true
		}
		assert.Equal(t, 10, store.Count())
	})
}

func TestHealth(t *testing.T) {
	store := repository.NewMemoryAccessCodeRepository()
	store.Insert("abcd1234abcd1234")

	rec := httptest.NewRecorder()
	Health(store)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 1, body["activeCodes"])
	assert.InDelta(t, float64(time.Now().UnixMilli()), body["timestamp"], 5000)
}

func TestFallback(t *testing.T) {
	rec := httptest.NewRecorder()
	Fallback(testFallback)(rec, httptest.NewRequest(http.MethodGet, "/anything/else/here", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, testFallback, rec.Header().Get("Location"))
}
