package rest_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/backend"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/backend/rest"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return server
}

func TestClient_FetchStages(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/developments/DEV-7/stages", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":2,"stage_name":"Desarrollo","stage_code":"20"},{"id":1,"stage_name":"Definición","stage_code":"10"}]`)
	})

	client := rest.NewClient(server.URL+"/api/v1/", slog.Default(), rest.WithToken("secret"))

	stages, err := client.FetchStages(t.Context(), "DEV-7")

	require.NoError(t, err)
	assert.Equal(t, []models.Stage{
		{ID: 2, StageName: "Desarrollo", StageCode: "20"},
		{ID: 1, StageName: "Definición", StageCode: "10"},
	}, stages)
}

func TestClient_FetchStageFieldConfig(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/developments/DEV-7/stages/3/fields", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		_, _ = io.WriteString(w, `{"stage_id":3,"stage_name":"Pruebas","stage_code":"30","has_dynamic_fields":true,"required_fields":["Ticket"],"optional_fields":["Observaciones"]}`)
	})

	client := rest.NewClient(server.URL, slog.Default())

	cfg, err := client.FetchStageFieldConfig(t.Context(), "DEV-7", 3)

	require.NoError(t, err)
	assert.Equal(t, 3, cfg.StageID)
	assert.True(t, cfg.HasDynamicFields)
	assert.Equal(t, []string{"Ticket"}, cfg.RequiredFields)
	assert.Equal(t, []string{"Observaciones"}, cfg.OptionalFields)
}

func TestClient_SubmitActivity(t *testing.T) {
	t.Parallel()

	var received map[string]any

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/developments/DEV-7/activities", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":17,"activity_type":"reunion","stage_id":2,"start_date":"2026-02-10","created_at":"2026-02-01T10:00:00Z"}`)
	})

	client := rest.NewClient(server.URL, slog.Default())

	activity, err := client.SubmitActivity(t.Context(), "DEV-7", models.ActivityPayload{
		ActivityType:   models.ActivityTypeReunion,
		ActorType:      models.ActorTypeProveedor,
		StageID:        2,
		Status:         models.ActivityStatusPendiente,
		StartDate:      "2026-02-10",
		DynamicPayload: map[string]string{},
	})

	require.NoError(t, err)
	assert.Equal(t, 17, activity.ID)
	assert.Equal(t, "DEV-7", activity.DevelopmentID)
	assert.Equal(t, time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC), activity.CreatedAt)

	assert.Equal(t, "reunion", received["activity_type"])
	assert.Equal(t, "proveedor", received["actor_type"])
	assert.InDelta(t, 2, received["stage_id"], 0)
	assert.Contains(t, received, "dynamic_payload")
	assert.NotContains(t, received, "follow_up_config")
	assert.NotContains(t, received, "next_follow_up_at")
	assert.NotContains(t, received, "notes")
	assert.NotContains(t, received, "end_date")
}

func TestClient_ErrorStatuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		call       func(ctx context.Context, c *rest.Client) error
		wantErr    error
		wantStatus int
	}{
		{
			name:   "missing development",
			status: http.StatusNotFound,
			call: func(ctx context.Context, c *rest.Client) error {
				_, err := c.FetchStages(ctx, "DEV-7")

				return err
			},
			wantErr:    backend.ErrDevelopmentNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "missing stage",
			status: http.StatusNotFound,
			call: func(ctx context.Context, c *rest.Client) error {
				_, err := c.FetchStageFieldConfig(ctx, "DEV-7", 99)

				return err
			},
			wantErr:    backend.ErrStageNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "server failure",
			status: http.StatusInternalServerError,
			body:   `{"detail":"database down"}`,
			call: func(ctx context.Context, c *rest.Client) error {
				_, err := c.SubmitActivity(ctx, "DEV-7", models.ActivityPayload{})

				return err
			},
			wantErr:    backend.ErrUnexpectedStatus,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			err := tt.call(t.Context(), rest.NewClient(server.URL, slog.Default()))

			require.Error(t, err)
			require.ErrorIs(t, err, tt.wantErr)

			var requestErr *backend.RequestError
			require.ErrorAs(t, err, &requestErr)
			assert.Equal(t, tt.wantStatus, requestErr.StatusCode)
			assert.Equal(t, "DEV-7", requestErr.DevelopmentID)
		})
	}
}

func TestClient_MalformedResponse(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{not json`)
	})

	_, err := rest.NewClient(server.URL, slog.Default()).FetchStages(t.Context(), "DEV-7")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestClient_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := newTestServer(t, func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	client := rest.NewClient(server.URL, slog.Default(), rest.WithTimeout(50*time.Millisecond))

	_, err := client.FetchStages(t.Context(), "DEV-7")

	require.Error(t, err)

	var requestErr *backend.RequestError
	require.ErrorAs(t, err, &requestErr)
	assert.Zero(t, requestErr.StatusCode)
}

func TestClient_HealthCheck(t *testing.T) {
	t.Parallel()

	healthy := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	failing := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	require.NoError(t, rest.NewClient(healthy.URL, slog.Default()).HealthCheck(t.Context()))

	err := rest.NewClient(failing.URL, slog.Default()).HealthCheck(t.Context())
	require.ErrorIs(t, err, backend.ErrUnexpectedStatus)
}
