package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct{ err error }

func (s stubChecker) HealthCheck(context.Context) error { return s.err }

func healthApp(h *HealthHandler) *fiber.App {
	app := fiber.New()
	app.Get("/v1/health", h.HandleHealth)
	return app
}

func getHealth(t *testing.T, app *fiber.App) (int, OverallHealth) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body OverallHealth
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHandleHealthBeforeReady(t *testing.T) {
	h := NewHealthHandler(map[string]Checker{"redis": stubChecker{}})
	status, body := getHealth(t, healthApp(h))

	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "starting", body.OverallStatus)
	assert.False(t, body.Ready)
}

func TestHandleHealthReady(t *testing.T) {
	h := NewHealthHandler(map[string]Checker{"redis": stubChecker{}, "store": stubChecker{}})
	h.SetReady()
	status, body := getHealth(t, healthApp(h))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body.OverallStatus)
	assert.True(t, body.Ready)
	assert.Equal(t, "ok", body.Components["redis"].Status)
	assert.Equal(t, "ok", body.Components["store"].Status)
}

func TestHandleHealthComponentFailure(t *testing.T) {
	h := NewHealthHandler(map[string]Checker{
		"redis": stubChecker{},
		"store": stubChecker{err: errors.New("connection refused")},
	})
	h.SetReady()
	status, body := getHealth(t, healthApp(h))

	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "error", body.OverallStatus)
	assert.Equal(t, "error", body.Components["store"].Status)
	assert.Contains(t, body.Components["store"].Error, "connection refused")
}

func TestSetReadyConcurrentWithReads(t *testing.T) {
	h := NewHealthHandler(map[string]Checker{"redis": stubChecker{}})
	app := healthApp(h)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		h.SetReady()
	}()
	go func() {
		defer wg.Done()
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/v1/health", nil))
		assert.NoError(t, err)
		resp.Body.Close()
	}()
	wg.Wait()

	status, body := getHealth(t, app)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, body.Ready)
}
