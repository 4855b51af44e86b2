package snapshot

import (
	"context"
	"encoding/json"

	"izakaya-order/internal/logger"
	"izakaya-order/internal/messaging"
	"izakaya-order/internal/models"
)

// Source delivers snapshot messages, typically a messaging.Consumer on the instance queue
type Source interface {
	StartConsuming(ctx context.Context, handler messaging.MessageHandler) error
}

// Replicator keeps this instance in step with the others by applying
// the snapshots they broadcast. Its own broadcasts are skipped.
type Replicator struct {
	origin  string
	applier *Applier
	logger  *logger.Logger
}

func NewReplicator(origin string, applier *Applier, log *logger.Logger) *Replicator {
	return &Replicator{origin: origin, applier: applier, logger: log}
}

// Run consumes snapshots until ctx is cancelled
func (r *Replicator) Run(ctx context.Context, src Source) error {
	return src.StartConsuming(ctx, r.Handle)
}

// Handle applies one snapshot message. Malformed messages are dropped rather than
// requeued, so it never returns an error for bad input.
func (r *Replicator) Handle(ctx context.Context, body []byte) error {
	var msg models.SnapshotMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		r.logger.Warn("snapshot_rejected", "Ignoring unreadable snapshot message", "", map[string]interface{}{
			"reason": err.Error(),
		})
		return nil
	}

	if msg.Origin == r.origin {
		return nil
	}

	switch msg.Kind {
	case models.SnapshotCatalog:
		r.applier.ApplyCatalog(msg.Data)
	case models.SnapshotOrders:
		r.applier.ApplyOrders(msg.Data)
	default:
		r.logger.Warn("snapshot_rejected", "Ignoring snapshot of unknown kind", "", map[string]interface{}{
			"kind":   string(msg.Kind),
			"origin": msg.Origin,
		})
	}
	return nil
}
