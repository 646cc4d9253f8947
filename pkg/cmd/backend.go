// Package cmd builds the runtime dependencies selected by configuration.
package cmd

import (
	"log/slog"
	"strings"
	"time"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/backend"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/backend/file"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/backend/rest"
	"go.opentelemetry.io/otel/trace"
)

var supportedBackendProviders = []string{"http", "https", "file"}

// BackendConfig carries the settings of a rest backend; file backends ignore it.
type BackendConfig struct {
	Token   string
	Timeout time.Duration
	Tracer  trace.Tracer
}

// NewBackend selects the backend from the URL scheme: http(s) uses the portal
// API, file:// or a bare path uses a fixture directory.
func NewBackend(backendURL string, cfg BackendConfig, logger *slog.Logger) backend.Backend {
	switch parseBackendProvider(backendURL) {
	case "http", "https":
		opts := []rest.Option{rest.WithToken(cfg.Token)}

		if cfg.Timeout > 0 {
			opts = append(opts, rest.WithTimeout(cfg.Timeout))
		}

		if cfg.Tracer != nil {
			opts = append(opts, rest.WithTracer(cfg.Tracer))
		}

		return rest.NewClient(backendURL, logger, opts...)
	default:
		return file.NewBackend(backendURL)
	}
}

func parseBackendProvider(backendURL string) string {
	parts := strings.Split(backendURL, "://")

	provider := parts[0]
	for _, supported := range supportedBackendProviders {
		if provider == supported {
			return provider
		}
	}

	return "file"
}
