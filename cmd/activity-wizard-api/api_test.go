package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/backend/file"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/cmd"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T, root string) *fiber.App {
	t.Helper()

	return setupTestAPI(t, root, slog.Default()).App()
}

func setupTestAPI(t *testing.T, root string, logger *slog.Logger) *API {
	t.Helper()

	eventBus, err := cmd.NewEventBus("gochannel", nil, logger)
	require.NoError(t, err)

	api := NewAPI(logger, file.NewBackend(root), eventBus)

	t.Cleanup(func() {
		_ = api.Shutdown(t.Context())
		_ = eventBus.Close()
	})

	return api
}

func seedStages(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	dir := filepath.Join(root, "developments", "DEV-1")

	require.NoError(t, os.MkdirAll(dir, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stages.json"),
		[]byte(`[{"id":1,"stage_name":"Definición","stage_code":"10"}]`), 0600))

	return root
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	t.Cleanup(func() {
		err := resp.Body.Close()
		if err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	})

	return resp
}

func TestAPI_RootEndpoint(t *testing.T) {
	app := setupTestApp(t, t.TempDir())

	resp := doRequest(t, app, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Activity Wizard API", string(body))
}

func TestAPI_LivenessAndReadiness(t *testing.T) {
	healthy := setupTestApp(t, t.TempDir())

	assert.Equal(t, http.StatusOK, doRequest(t, healthy, http.MethodGet, "/livez", "").StatusCode)
	assert.Equal(t, http.StatusOK, doRequest(t, healthy, http.MethodGet, "/readyz", "").StatusCode)

	missing := setupTestApp(t, filepath.Join(t.TempDir(), "missing"))

	assert.Equal(t, http.StatusOK, doRequest(t, missing, http.MethodGet, "/livez", "").StatusCode)
	assert.Equal(t, http.StatusServiceUnavailable, doRequest(t, missing, http.MethodGet, "/readyz", "").StatusCode)
}

func TestAPI_OpenAndFetchWizard(t *testing.T) {
	app := setupTestApp(t, seedStages(t))

	resp := doRequest(t, app, http.MethodPost, "/developments/DEV-1/activity-wizards", `{"default_stage_id":1}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var opened struct {
		ID            string `json:"id"`
		DevelopmentID string `json:"development_id"`
		CurrentStep   int    `json:"current_step"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&opened))
	assert.NotEmpty(t, opened.ID)
	assert.Equal(t, "DEV-1", opened.DevelopmentID)
	assert.Equal(t, 1, opened.CurrentStep)

	resp = doRequest(t, app, http.MethodGet, "/activity-wizards/"+opened.ID, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodDelete, "/activity-wizards/"+opened.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/activity-wizards/"+opened.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_HealthReportsOpenWizards(t *testing.T) {
	app := setupTestApp(t, seedStages(t))

	doRequest(t, app, http.MethodPost, "/developments/DEV-1/activity-wizards", "")

	resp := doRequest(t, app, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "healthy", health["status"])
	assert.InDelta(t, 1, health["open_wizards"], 0)
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestAPI_SubscribeEventsLogsWizardLifecycle(t *testing.T) {
	out := &lockedBuffer{}
	api := setupTestAPI(t, seedStages(t), slog.New(slog.NewTextHandler(out, nil)))

	require.NoError(t, api.SubscribeEvents(t.Context()))

	app := api.App()

	resp := doRequest(t, app, http.MethodPost, "/developments/DEV-1/activity-wizards", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var opened struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&opened))

	doRequest(t, app, http.MethodDelete, "/activity-wizards/"+opened.ID, "")

	require.Eventually(t, func() bool {
		logs := out.String()

		return strings.Contains(logs, "module=audit") &&
			strings.Contains(logs, "Activity wizard opened") &&
			strings.Contains(logs, "submitted=false")
	}, 2*time.Second, 10*time.Millisecond)
}
