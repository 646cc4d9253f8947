// Package fields resolves the dynamic field schema of the currently selected stage.
package fields

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/models"
)

// ErrEmptyConfig is returned when the backend answers without a field configuration.
var ErrEmptyConfig = errors.New("empty stage field configuration")

// ConfigLoadError reports a failed field configuration fetch. It never blocks the
// wizard: the stage falls back to an empty schema.
type ConfigLoadError struct {
	DevelopmentID string
	StageID       int
	Err           error
}

func (e *ConfigLoadError) Error() string {
	return fmt.Sprintf("load field config for stage %d of development %s: %v", e.StageID, e.DevelopmentID, e.Err)
}

func (e *ConfigLoadError) Unwrap() error {
	return e.Err
}

// IsConfigLoadError checks if an error is a field configuration load failure.
func IsConfigLoadError(err error) bool {
	var target *ConfigLoadError

	return errors.As(err, &target)
}

// Fetcher loads the field configuration of one stage.
type Fetcher interface {
	FetchStageFieldConfig(ctx context.Context, developmentID string, stageID int) (*models.StageFieldConfig, error)
}

// Resolver tracks the selected stage and exposes the schema fetched for it.
// Every fetch is tagged with the stage it was issued for; a response is applied
// only when that stage is still selected at resolution time.
type Resolver struct {
	ctx           context.Context
	cancel        context.CancelFunc
	fetcher       Fetcher
	developmentID string
	logger        *slog.Logger

	mu       sync.Mutex
	selected int
	config   models.StageFieldConfig
	lastErr  error
	closed   bool
	inflight sync.WaitGroup

	// ready is closed once the selected stage resolves; nil when nothing is loading
	ready chan struct{}
}

// NewResolver creates a resolver for a development. Fetches run under ctx and are
// cancelled by Close.
func NewResolver(ctx context.Context, fetcher Fetcher, developmentID string, logger *slog.Logger) *Resolver {
	ctx, cancel := context.WithCancel(ctx)

	return &Resolver{
		ctx:           ctx,
		cancel:        cancel,
		fetcher:       fetcher,
		developmentID: developmentID,
		logger:        logger.With("development_id", developmentID),
		config:        models.EmptyStageFieldConfig(0),
	}
}

// Select makes stageID the current stage and starts fetching its configuration.
// Until the response arrives the stage has an empty schema; the previous stage's
// schema is never kept or merged. A non-positive stageID clears the selection
// without fetching.
func (r *Resolver) Select(stageID int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	r.markReady()

	r.selected = stageID
	r.config = models.EmptyStageFieldConfig(stageID)
	r.lastErr = nil

	if stageID <= 0 {
		return
	}

	r.ready = make(chan struct{})
	r.inflight.Add(1)

	go r.fetch(stageID)
}

func (r *Resolver) fetch(stageID int) {
	defer r.inflight.Done()

	cfg, err := r.fetcher.FetchStageFieldConfig(r.ctx, r.developmentID, stageID)
	if err == nil && cfg == nil {
		err = ErrEmptyConfig
	}

	r.apply(stageID, cfg, err)
}

func (r *Resolver) apply(stageID int, cfg *models.StageFieldConfig, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	if stageID != r.selected {
		r.logger.Debug("Discarding stale field config", "requested_stage_id", stageID, "selected_stage_id", r.selected)

		return
	}

	if err != nil {
		loadErr := &ConfigLoadError{DevelopmentID: r.developmentID, StageID: stageID, Err: err}
		r.logger.Warn("Field config unavailable, no dynamic fields will be required", "stage_id", stageID, "error", loadErr)
		r.config = models.EmptyStageFieldConfig(stageID)
		r.lastErr = loadErr
		r.markReady()

		return
	}

	resolved := cfg.Clone()
	if resolved.StageID == 0 {
		resolved.StageID = stageID
	}

	r.config = resolved
	r.lastErr = nil
	r.markReady()
}

// markReady releases the waiters of the current selection. Callers hold r.mu.
func (r *Resolver) markReady() {
	if r.ready != nil {
		close(r.ready)
		r.ready = nil
	}
}

// Config returns a copy of the schema of the selected stage.
func (r *Resolver) Config() models.StageFieldConfig {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.config.Clone()
}

// RequiredFields returns the field names that must be filled for the selected stage.
func (r *Resolver) RequiredFields() []string {
	return r.Config().RequiredFields
}

// OptionalFields returns the field names that may be filled for the selected stage.
func (r *Resolver) OptionalFields() []string {
	return r.Config().OptionalFields
}

// SelectedStage returns the stage whose schema is exposed.
func (r *Resolver) SelectedStage() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.selected
}

// Pending reports whether the schema of the selected stage is still loading.
// Outstanding fetches for stages no longer selected do not count.
func (r *Resolver) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.ready != nil
}

// WaitSelected blocks until the selected stage's schema has resolved or ctx is
// done. A selection made while waiting is waited for too. Close releases waiters.
func (r *Resolver) WaitSelected(ctx context.Context) error {
	for {
		r.mu.Lock()
		ready := r.ready
		r.mu.Unlock()

		if ready == nil {
			return nil
		}

		select {
		case <-ready:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// LastError returns the load error of the selected stage, if its fetch failed.
func (r *Resolver) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.lastErr
}

// Wait blocks until every started fetch has resolved.
func (r *Resolver) Wait() {
	r.inflight.Wait()
}

// Close cancels outstanding fetches. Responses arriving afterwards are ignored.
func (r *Resolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	r.closed = true
	r.markReady()
	r.cancel()
}
