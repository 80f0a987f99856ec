package queue

import (
	"encoding/json"

	"github.com/santa-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskParticipantInvite 参与者抽签结果邮件任务
	TaskParticipantInvite = constants.TaskParticipantInvite
	// TaskOrganizerDrawn 组织者抽签完成确认邮件任务
	TaskOrganizerDrawn = constants.TaskOrganizerDrawn
)

// ParticipantInvitePayload 参与者结果邮件任务载荷
type ParticipantInvitePayload struct {
	ParticipantID string `json:"participant_id"`
}

// OrganizerDrawnPayload 组织者确认邮件任务载荷
type OrganizerDrawnPayload struct {
	GameID string `json:"game_id"`
}

// NewParticipantInviteTask 创建参与者结果邮件任务
func NewParticipantInviteTask(payload ParticipantInvitePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskParticipantInvite, body), nil
}

// NewOrganizerDrawnTask 创建组织者确认邮件任务
func NewOrganizerDrawnTask(payload OrganizerDrawnPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrganizerDrawn, body), nil
}
