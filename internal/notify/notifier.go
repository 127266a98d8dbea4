package notify

import (
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/duel-backend/internal/registry"
)

// Audience picks who NotifyAll reaches.
type Audience int

const (
	// Joined reaches connections holding a role.
	Joined Audience = iota
	// Everyone also reaches connections that have not joined yet.
	Everyone
)

// Notifier fans messages out to the connections of one registry. Calls must be made
// under the same lock that guards the registry; the socket writes happen on the
// per-connection writers.
type Notifier struct {
	logger   *slog.Logger
	registry *registry.Registry
	audience Audience
}

func New(logger *slog.Logger, reg *registry.Registry, audience Audience) *Notifier {
	return &Notifier{
		logger:   logger.With("component", "notifier"),
		registry: reg,
		audience: audience,
	}
}

// NotifyOne - sends msg to a single connection, joined or not.
func (that *Notifier) NotifyOne(id uuid.UUID, msg any) {
	log := that.logger.With("method", "NotifyOne")

	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("failed to marshal message", "error", err)
		return
	}

	if !that.registry.Deliver(id, data) {
		log.Debug("message dropped", "connection", id)
	}
}

// NotifyAll - sends msg to every connection of the audience except exclude. Pass uuid.Nil
// to exclude nobody.
func (that *Notifier) NotifyAll(msg any, exclude uuid.UUID) int {
	log := that.logger.With("method", "NotifyAll")

	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("failed to marshal message", "error", err)
		return 0
	}

	delivered := 0
	for _, conn := range that.recipients() {
		if conn.ID == exclude {
			continue
		}

		if that.registry.Deliver(conn.ID, data) {
			delivered++
		} else {
			log.Debug("message dropped", "connection", conn.ID)
		}
	}

	return delivered
}

func (that *Notifier) recipients() []*registry.Connection {
	if that.audience == Everyone {
		return that.registry.Active()
	}

	return that.registry.Joined()
}
