package controllers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul4469/landmark-guide/internal/controllers"
)

func TestHealthCheck(t *testing.T) {
	ok := func(context.Context) error { return nil }

	rec := httptest.NewRecorder()
	controllers.HealthCheck(map[string]func(context.Context) error{"postgres": ok})(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealthCheck_degraded(t *testing.T) {
	down := func(context.Context) error { return errors.New("connection refused") }

	rec := httptest.NewRecorder()
	controllers.HealthCheck(map[string]func(context.Context) error{"redis": down})(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "connection refused", body["redis"])
}
