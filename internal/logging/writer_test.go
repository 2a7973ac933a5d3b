package logging

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseRecorderCapturesStatusAndSize(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseRecorder{
		ResponseWriter: rec,
		request:        httptest.NewRequest(http.MethodGet, "/", nil),
	}

	w.WriteHeader(http.StatusTeapot)
	w.WriteHeader(http.StatusOK) // only the first status counts

	n, err := w.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.Equal(t, 5, n)

	assert.Equal(t, http.StatusTeapot, w.status)
	assert.Equal(t, 5, w.bytes)
}

func TestResponseRecorderImplicitOK(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseRecorder{
		ResponseWriter: rec,
		request:        httptest.NewRequest(http.MethodGet, "/", nil),
	}

	w.Write([]byte("ok"))

	assert.Equal(t, http.StatusOK, w.status)
	assert.Equal(t, 2, w.bytes)
}
