package cmd

import (
	"log/slog"
	"testing"
	"time"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/backend/file"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/backend/rest"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/channels/kafka"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/eventbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBackendProvider(t *testing.T) {
	tests := map[string]string{
		"https://portal.example.com/api": "https",
		"http://localhost:8000":          "http",
		"file:///var/lib/wizard":         "file",
		"./fixtures":                     "file",
		"postgres://db/portal":           "file",
	}

	for url, want := range tests {
		assert.Equal(t, want, parseBackendProvider(url), url)
	}
}

func TestNewBackend(t *testing.T) {
	be := NewBackend("https://portal.example.com/api", BackendConfig{Token: "t", Timeout: time.Second}, slog.Default())
	assert.IsType(t, &rest.Client{}, be)

	be = NewBackend("file://"+t.TempDir(), BackendConfig{}, slog.Default())
	assert.IsType(t, &file.Backend{}, be)
}

func TestNewEventBus(t *testing.T) {
	bus, err := NewEventBus("gochannel", nil, slog.Default())
	require.NoError(t, err)
	assert.IsType(t, &eventbus.WatermillEventBus{}, bus)
	assert.NoError(t, bus.Close())

	_, err = NewEventBus("kafka", nil, slog.Default())
	require.ErrorIs(t, err, kafka.ErrNoBrokers)

	_, err = NewEventBus("rabbitmq", nil, slog.Default())
	require.Error(t, err)
}
