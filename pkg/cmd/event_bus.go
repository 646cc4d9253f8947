package cmd

import (
	"fmt"
	"log/slog"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/channels/gochannel"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/channels/kafka"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/eventbus"
	"github.com/ThreeDotsLabs/watermill"
)

const serviceName = "activity-wizard"

// NewEventBus creates the event bus for provider: "gochannel" keeps events in
// process, "kafka" publishes to the given brokers.
func NewEventBus(provider string, brokers []string, logger *slog.Logger) (eventbus.EventBus, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	switch provider {
	case "", "gochannel":
		pub, sub, err := gochannel.CreateChannel(wmLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create in-process pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub), nil
	case "kafka":
		pub, sub, err := kafka.CreateChannel(wmLogger, serviceName, brokers)
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub), nil
	default:
		return nil, fmt.Errorf("unsupported event bus provider: %s", provider)
	}
}
