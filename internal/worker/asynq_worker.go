package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/santa-next/internal/logger"
	"github.com/santa-next/internal/provider"
	"github.com/santa-next/internal/queue"
	"github.com/santa-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskParticipantInvite, c.handleParticipantInvite)
	mux.HandleFunc(queue.TaskOrganizerDrawn, c.handleOrganizerDrawn)
}

func (c *Consumer) handleParticipantInvite(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_participant_invite_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ParticipantInvitePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_participant_invite_unmarshal_failed", "error", err)
		return err
	}
	participantID := strings.TrimSpace(payload.ParticipantID)
	if participantID == "" {
		logger.Debugw("worker_participant_invite_skip_invalid_payload")
		return nil
	}
	if c.GameService == nil {
		logger.Warnw("worker_participant_invite_skip_game_service_nil", "participant_id", participantID)
		return nil
	}
	if err := c.GameService.SendParticipantResultEmail(participantID); err != nil {
		switch {
		case errors.Is(err, service.ErrParticipantNotFound):
			logger.Debugw("worker_participant_invite_skip_participant_not_found", "participant_id", participantID)
			return nil
		case errors.Is(err, service.ErrGameNotFound):
			logger.Debugw("worker_participant_invite_skip_game_not_found", "participant_id", participantID)
			return nil
		case errors.Is(err, service.ErrGameNotDrawn):
			logger.Debugw("worker_participant_invite_skip_not_drawn", "participant_id", participantID)
			return nil
		case errors.Is(err, service.ErrEmailRecipientRejected):
			// 收件地址被退信时重试也不会成功
			logger.Warnw("worker_participant_invite_recipient_rejected", "participant_id", participantID, "error", err)
			return nil
		default:
			logger.Warnw("worker_participant_invite_send_failed", "participant_id", participantID, "error", err)
			return err
		}
	}
	return nil
}

func (c *Consumer) handleOrganizerDrawn(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_organizer_drawn_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrganizerDrawnPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_organizer_drawn_unmarshal_failed", "error", err)
		return err
	}
	gameID := strings.TrimSpace(payload.GameID)
	if gameID == "" {
		logger.Debugw("worker_organizer_drawn_skip_invalid_payload")
		return nil
	}
	if c.GameService == nil {
		logger.Warnw("worker_organizer_drawn_skip_game_service_nil", "game_id", gameID)
		return nil
	}
	if err := c.GameService.SendOrganizerDrawnEmail(gameID); err != nil {
		switch {
		case errors.Is(err, service.ErrGameNotFound):
			logger.Debugw("worker_organizer_drawn_skip_game_not_found", "game_id", gameID)
			return nil
		case errors.Is(err, service.ErrGameNotDrawn):
			logger.Debugw("worker_organizer_drawn_skip_not_drawn", "game_id", gameID)
			return nil
		case errors.Is(err, service.ErrEmailRecipientRejected):
			logger.Warnw("worker_organizer_drawn_recipient_rejected", "game_id", gameID, "error", err)
			return nil
		default:
			logger.Warnw("worker_organizer_drawn_send_failed", "game_id", gameID, "error", err)
			return err
		}
	}
	return nil
}
