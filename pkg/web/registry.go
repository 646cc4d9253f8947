package web

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/backend"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/eventbus"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/events"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/models"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/validation"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/wizard"
	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for an unknown or already closed wizard id.
var ErrSessionNotFound = errors.New("activity wizard not found")

// SessionRegistry keeps the open wizards of the process. A session leaves the
// registry as soon as it closes.
type SessionRegistry struct {
	backend   backend.Backend
	publisher eventbus.EventPublisher
	validator *validation.StepValidator
	logger    *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*wizard.Session
}

// NewSessionRegistry creates a registry. publisher may be nil.
func NewSessionRegistry(be backend.Backend, publisher eventbus.EventPublisher, logger *slog.Logger) *SessionRegistry {
	return &SessionRegistry{
		backend:   be,
		publisher: publisher,
		validator: validation.New(),
		logger:    logger,
		sessions:  make(map[string]*wizard.Session),
	}
}

// Open starts a wizard for a development and registers it.
func (r *SessionRegistry) Open(ctx context.Context, developmentID string, defaultStageID int) *wizard.Session {
	var submitted atomic.Bool

	id := uuid.NewString()

	session := wizard.Open(ctx, developmentID, r.backend, r.logger,
		wizard.WithID(id),
		wizard.WithDefaultStage(defaultStageID),
		wizard.WithValidator(r.validator),
		wizard.WithOnCreated(func(activity *models.Activity) {
			submitted.Store(true)
			r.publish(developmentID, events.NewActivityCreated(id, activity))
		}),
		wizard.WithOnClose(func() {
			r.remove(id)
			r.publish(developmentID, events.WizardClosed{
				BaseEvent: events.NewBaseEvent(events.WizardClosedEvent, developmentID, id),
				Submitted: submitted.Load(),
			})
		}),
	)

	r.mu.Lock()
	r.sessions[id] = session
	r.mu.Unlock()

	r.publish(developmentID, events.WizardOpened{
		BaseEvent: events.NewBaseEvent(events.WizardOpenedEvent, developmentID, id),
		StageID:   session.Form().StageID,
	})

	return session
}

// Get returns an open wizard.
func (r *SessionRegistry) Get(id string) (*wizard.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

// Close discards an open wizard.
func (r *SessionRegistry) Close(id string) error {
	session, err := r.Get(id)
	if err != nil {
		return err
	}

	session.Close()

	return nil
}

// CloseAll discards every open wizard.
func (r *SessionRegistry) CloseAll() {
	r.mu.RLock()
	sessions := make([]*wizard.Session, 0, len(r.sessions))

	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	r.mu.RUnlock()

	for _, session := range sessions {
		session.Close()
	}
}

// Len returns the number of open wizards.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

func (r *SessionRegistry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
}

func (r *SessionRegistry) publish(developmentID string, event eventbus.Event) {
	if r.publisher == nil {
		return
	}

	err := r.publisher.Publish(context.Background(), developmentID, event)
	if err != nil {
		r.logger.Warn("Failed to publish wizard event", "event_type", event.GetType(), "development_id", developmentID, "error", err)
	}
}
