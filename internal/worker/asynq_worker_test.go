package worker

import (
	"context"
	"testing"

	"github.com/santa-next/internal/provider"
	"github.com/santa-next/internal/queue"

	"github.com/hibiken/asynq"
)

func TestHandleParticipantInviteBadPayload(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})

	task := asynq.NewTask(queue.TaskParticipantInvite, []byte("{not-json"))
	if err := consumer.handleParticipantInvite(context.Background(), task); err == nil {
		t.Fatalf("malformed payload should fail so asynq can retry or archive")
	}
}

func TestHandleParticipantInviteEmptyIDSkipped(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})

	task, err := queue.NewParticipantInviteTask(queue.ParticipantInvitePayload{ParticipantID: "  "})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleParticipantInvite(context.Background(), task); err != nil {
		t.Fatalf("empty participant id should be skipped, got %v", err)
	}
}

func TestHandleOrganizerDrawnEmptyIDSkipped(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})

	task, err := queue.NewOrganizerDrawnTask(queue.OrganizerDrawnPayload{GameID: ""})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrganizerDrawn(context.Background(), task); err != nil {
		t.Fatalf("empty game id should be skipped, got %v", err)
	}
}
