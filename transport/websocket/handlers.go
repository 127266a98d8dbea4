package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/duel-backend/pkg/validation"
)

func (that *Server) handleJoin(ctx context.Context, id uuid.UUID, data []byte) error {
	var payload joinPayload
	if err := that.decode(id, data, &payload); err != nil {
		return err
	}

	if err := that.session.Join(ctx, id, strings.TrimSpace(payload.Username)); err != nil {
		return fmt.Errorf("failed to join: %w", err)
	}

	return nil
}

func (that *Server) handleMove(ctx context.Context, id uuid.UUID, data []byte) error {
	var payload movePayload
	if err := that.decode(id, data, &payload); err != nil {
		return err
	}

	if err := that.session.Move(ctx, id, *payload.Row, *payload.Col); err != nil {
		return fmt.Errorf("failed to move: %w", err)
	}

	return nil
}

func (that *Server) handleReset(ctx context.Context, id uuid.UUID, _ []byte) error {
	if err := that.session.Reset(ctx, id); err != nil {
		return fmt.Errorf("failed to reset: %w", err)
	}

	return nil
}

func (that *Server) handleChat(ctx context.Context, id uuid.UUID, data []byte) error {
	var payload chatPayload
	if err := that.decode(id, data, &payload); err != nil {
		return err
	}

	if err := that.session.Chat(ctx, id, payload.Message); err != nil {
		return fmt.Errorf("failed to chat: %w", err)
	}

	return nil
}

// decode - unmarshals and validates a payload, answering the sender when it is unusable.
func (that *Server) decode(id uuid.UUID, data []byte, payload any) error {
	if err := json.Unmarshal(data, payload); err != nil {
		that.session.ReportError(id, msgMalformed)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if err := that.validate.Struct(payload); err != nil {
		that.session.ReportError(id, validation.Describe(err))
		return fmt.Errorf("invalid payload: %w", err)
	}

	return nil
}
