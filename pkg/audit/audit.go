// Package audit logs the wizard events delivered by the event bus.
package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/eventbus"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/events"
)

// Logger writes one log record per wizard event.
type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger.With("module", "audit")}
}

// Register installs the handlers on subscriber. Call it before Subscribe.
func (l *Logger) Register(subscriber eventbus.EventSubscriber) error {
	handlers := map[events.EventType]eventbus.EventHandler{
		events.WizardOpenedEvent:    l.wizardOpened,
		events.WizardClosedEvent:    l.wizardClosed,
		events.ActivityCreatedEvent: l.activityCreated,
	}

	for eventType, handler := range handlers {
		err := subscriber.Handle(eventType, handler)
		if err != nil {
			return fmt.Errorf("failed to register %s handler: %w", eventType, err)
		}
	}

	return nil
}

func (l *Logger) wizardOpened(ctx context.Context, event any) error {
	opened, ok := event.(*events.WizardOpened)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}

	l.logger.InfoContext(ctx, "Activity wizard opened",
		"session_id", opened.SessionID,
		"development_id", opened.DevelopmentID,
		"stage_id", opened.StageID)

	return nil
}

func (l *Logger) wizardClosed(ctx context.Context, event any) error {
	closed, ok := event.(*events.WizardClosed)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}

	l.logger.InfoContext(ctx, "Activity wizard closed",
		"session_id", closed.SessionID,
		"development_id", closed.DevelopmentID,
		"submitted", closed.Submitted)

	return nil
}

func (l *Logger) activityCreated(ctx context.Context, event any) error {
	created, ok := event.(*events.ActivityCreated)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}

	attrs := []any{
		"session_id", created.SessionID,
		"development_id", created.DevelopmentID,
		"activity_id", created.ActivityID,
		"stage_id", created.StageID,
		"activity_type", created.ActivityType,
	}

	if created.NextFollowUpAt != nil {
		attrs = append(attrs, "next_follow_up_at", *created.NextFollowUpAt)
	}

	l.logger.InfoContext(ctx, "Activity created", attrs...)

	return nil
}
