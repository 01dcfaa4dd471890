package locker

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckBlocksWhenLocked(t *testing.T) {
	l := New()
	h := l.Check(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(path string) int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("/laser/power"))
	l.Lock()
	assert.Equal(t, http.StatusLocked, do("/laser/power"))
	assert.Equal(t, http.StatusOK, do("/laser/lock"), "the lock route is never protected")
	l.Unlock()
	assert.Equal(t, http.StatusOK, do("/laser/power"))
}

func TestHTTPSet(t *testing.T) {
	l := New()
	rec := httptest.NewRecorder()
	l.HTTPSet(rec, httptest.NewRequest(http.MethodPost, "/lock", strings.NewReader(`{"bool": true}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, l.Locked())

	rec = httptest.NewRecorder()
	l.HTTPSet(rec, httptest.NewRequest(http.MethodPost, "/lock", strings.NewReader(`nope`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, l.Locked())

	rec = httptest.NewRecorder()
	l.HTTPGet(rec, httptest.NewRequest(http.MethodGet, "/lock", nil))
	assert.JSONEq(t, `{"bool": true}`, rec.Body.String())
}
