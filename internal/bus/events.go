package bus

import (
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/store"
)

// SnapshotEvent announces a committed snapshot change.
type SnapshotEvent struct {
	Version uint64    `json:"version"`
	Kind    string    `json:"kind"`
	ID      string    `json:"id,omitempty"`
	At      time.Time `json:"at"`
}

// EventPublisher is the subset of Publisher the forwarder needs.
type EventPublisher interface {
	Publish(subject string, payload any) error
}

// Forwarder returns a store listener that publishes every change on subject.
// Publish failures are logged and never reach the store.
func Forwarder(pub EventPublisher, subject string, logger *zap.Logger) store.Listener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c store.Change) {
		event := SnapshotEvent{
			Version: c.Snapshot.Version,
			Kind:    string(c.Kind),
			ID:      c.ID,
			At:      c.At,
		}
		if err := pub.Publish(subject, event); err != nil {
			logger.Warn("snapshot event not published", zap.String("subject", subject), zap.Uint64("version", event.Version), zap.Error(err))
		}
	}
}
