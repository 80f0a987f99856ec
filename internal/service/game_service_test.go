package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/santa-next/internal/config"
	"github.com/santa-next/internal/models"
	"github.com/santa-next/internal/queue"
	"github.com/santa-next/internal/repository"
	"github.com/santa-next/internal/token"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupGameServiceTest(t *testing.T) (*GameService, *fakeEmailSender, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:game_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Game{},
		&models.Participant{},
		&models.EmailVerification{},
		&models.EmailResendLog{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := newTestConfig()
	sender := &fakeEmailSender{}
	codeRepo := repository.NewEmailVerificationRepository(db)
	verificationSvc := NewVerificationService(cfg, codeRepo, sender)
	queueClient, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("queue client failed: %v", err)
	}
	svc := NewGameService(
		cfg,
		repository.NewGameRepository(db),
		repository.NewParticipantRepository(db),
		repository.NewEmailResendRepository(db),
		verificationSvc,
		sender,
		queueClient,
	)
	return svc, sender, db
}

func seedVerifiedVerification(t *testing.T, db *gorm.DB, email, gameName, gameDate string) string {
	t.Helper()
	now := time.Now()
	record := models.EmailVerification{
		ID:         token.NewID(),
		Email:      email,
		Code:       "123456",
		GameName:   gameName,
		GameDate:   gameDate,
		Locale:     "zh",
		ExpiresAt:  now.Add(15 * time.Minute),
		VerifiedAt: &now,
		SentAt:     now,
		CreatedAt:  now,
	}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("seed verification failed: %v", err)
	}
	return record.ID
}

func createTestGame(t *testing.T, svc *GameService, db *gorm.DB) *models.Game {
	t.Helper()
	verificationID := seedVerifiedVerification(t, db, "organizer@example.com", "圣诞抽签", "2026-12-24")
	game, err := svc.CreateGame(verificationID)
	if err != nil {
		t.Fatalf("create game failed: %v", err)
	}
	return game
}

func addTestParticipants(t *testing.T, svc *GameService, adminToken string, n int) []models.Participant {
	t.Helper()
	participants := make([]models.Participant, 0, n)
	for i := 0; i < n; i++ {
		p, err := svc.AddParticipant(adminToken, fmt.Sprintf("参与者%d", i), fmt.Sprintf("p%d@example.com", i))
		if err != nil {
			t.Fatalf("add participant %d failed: %v", i, err)
		}
		participants = append(participants, *p)
	}
	return participants
}

func TestCreateGameConsumesVerification(t *testing.T) {
	svc, sender, db := setupGameServiceTest(t)

	verificationID := seedVerifiedVerification(t, db, "organizer@example.com", "圣诞抽签", "2026-12-24")
	game, err := svc.CreateGame(verificationID)
	if err != nil {
		t.Fatalf("create game failed: %v", err)
	}
	if len(game.AdminToken) != 32 {
		t.Fatalf("admin token length: %d", len(game.AdminToken))
	}
	if game.OrganizerEmail != "organizer@example.com" {
		t.Fatalf("organizer email: %s", game.OrganizerEmail)
	}
	// 活动信息取自验证请求暂存的内容
	if game.Name != "圣诞抽签" || game.GameDate != "2026-12-24" {
		t.Fatalf("game payload mismatch: %q / %q", game.Name, game.GameDate)
	}
	if len(sender.welcomeTo) != 1 {
		t.Fatalf("expected 1 welcome email, got %d", len(sender.welcomeTo))
	}

	// 验证请求单次有效
	if _, err := svc.CreateGame(verificationID); !errors.Is(err, ErrVerificationAlreadyUsed) {
		t.Fatalf("expected ErrVerificationAlreadyUsed, got %v", err)
	}
}

func TestCreateGameValidation(t *testing.T) {
	svc, _, db := setupGameServiceTest(t)

	cases := []struct {
		name     string
		gameName string
		gameDate string
	}{
		{"empty_name", "  ", "2026-12-24"},
		{"bad_date", "抽签", "24/12/2026"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verificationID := seedVerifiedVerification(t, db, "organizer@example.com", tc.gameName, tc.gameDate)
			if _, err := svc.CreateGame(verificationID); !errors.Is(err, ErrInvalidGameInput) {
				t.Fatalf("expected ErrInvalidGameInput, got %v", err)
			}
		})
	}
}

func TestAddParticipantLimit(t *testing.T) {
	svc, _, db := setupGameServiceTest(t)
	svc.cfg.Game.MaxParticipants = 3
	game := createTestGame(t, svc, db)

	addTestParticipants(t, svc, game.AdminToken, 3)
	if _, err := svc.AddParticipant(game.AdminToken, "多余", "extra@example.com"); !errors.Is(err, ErrParticipantLimitReached) {
		t.Fatalf("expected ErrParticipantLimitReached, got %v", err)
	}
}

func TestAdminTokenInvalid(t *testing.T) {
	svc, _, db := setupGameServiceTest(t)
	createTestGame(t, svc, db)

	if _, _, err := svc.GetGameByAdminToken("wrong-token"); !errors.Is(err, ErrAdminTokenInvalid) {
		t.Fatalf("expected ErrAdminTokenInvalid, got %v", err)
	}
	if _, _, err := svc.GetGameByAdminToken(""); !errors.Is(err, ErrAdminTokenInvalid) {
		t.Fatalf("expected ErrAdminTokenInvalid for empty token, got %v", err)
	}
}

func TestDrawAssignsDerangement(t *testing.T) {
	svc, sender, db := setupGameServiceTest(t)
	game := createTestGame(t, svc, db)
	addTestParticipants(t, svc, game.AdminToken, 5)

	drawn, err := svc.Draw(game.AdminToken)
	if err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	if !drawn.Drawn || drawn.DrawnAt == nil {
		t.Fatal("game not marked drawn")
	}

	_, participants, err := svc.GetGameByAdminToken(game.AdminToken)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	receivers := make(map[string]bool, len(participants))
	for _, p := range participants {
		if p.AssignedToID == nil {
			t.Fatalf("participant %s has no assignment", p.ID)
		}
		if *p.AssignedToID == p.ID {
			t.Fatalf("participant %s assigned to self", p.ID)
		}
		if receivers[*p.AssignedToID] {
			t.Fatalf("duplicate receiver %s", *p.AssignedToID)
		}
		receivers[*p.AssignedToID] = true
	}

	// 队列未启用时同步发送：5 封参与者邮件 + 1 封组织者确认
	if len(sender.participantTo) != 5 {
		t.Fatalf("expected 5 participant emails, got %d", len(sender.participantTo))
	}
	if len(sender.organizerTo) != 1 {
		t.Fatalf("expected 1 organizer email, got %d", len(sender.organizerTo))
	}

	// 抽签只能执行一次
	if _, err := svc.Draw(game.AdminToken); !errors.Is(err, ErrGameAlreadyDrawn) {
		t.Fatalf("expected ErrGameAlreadyDrawn, got %v", err)
	}
}

func TestDrawInsufficientParticipants(t *testing.T) {
	svc, _, db := setupGameServiceTest(t)
	game := createTestGame(t, svc, db)
	addTestParticipants(t, svc, game.AdminToken, 1)

	if _, err := svc.Draw(game.AdminToken); !errors.Is(err, ErrInsufficientParticipants) {
		t.Fatalf("expected ErrInsufficientParticipants, got %v", err)
	}
}

func TestDrawEmailFailureDoesNotFailDraw(t *testing.T) {
	svc, sender, db := setupGameServiceTest(t)
	game := createTestGame(t, svc, db)
	addTestParticipants(t, svc, game.AdminToken, 3)

	sender.failWith = ErrEmailServiceDisabled
	if _, err := svc.Draw(game.AdminToken); err != nil {
		t.Fatalf("draw should succeed despite email failure: %v", err)
	}
}

func TestRevealMarksViewedAndLocksParticipant(t *testing.T) {
	svc, _, db := setupGameServiceTest(t)
	game := createTestGame(t, svc, db)
	addTestParticipants(t, svc, game.AdminToken, 4)
	if _, err := svc.Draw(game.AdminToken); err != nil {
		t.Fatalf("draw failed: %v", err)
	}

	_, participants, err := svc.GetGameByAdminToken(game.AdminToken)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	giver := participants[0]

	result, err := svc.Reveal(giver.ViewToken)
	if err != nil {
		t.Fatalf("reveal failed: %v", err)
	}
	if result.Receiver.ID != *giver.AssignedToID {
		t.Fatalf("receiver mismatch: got %s expected %s", result.Receiver.ID, *giver.AssignedToID)
	}
	if !result.Giver.HasViewed {
		t.Fatal("giver not marked viewed")
	}

	// 查看后禁止修改该参与者
	name := "新名字"
	if _, err := svc.UpdateParticipant(game.AdminToken, giver.ID, UpdateParticipantInput{Name: &name}); !errors.Is(err, ErrParticipantLockedAfterView) {
		t.Fatalf("expected ErrParticipantLockedAfterView, got %v", err)
	}

	// 重复揭晓幂等
	again, err := svc.Reveal(giver.ViewToken)
	if err != nil {
		t.Fatalf("second reveal failed: %v", err)
	}
	if again.Receiver.ID != result.Receiver.ID {
		t.Fatal("reveal result changed between calls")
	}
}

func TestRevealBeforeDraw(t *testing.T) {
	svc, _, db := setupGameServiceTest(t)
	game := createTestGame(t, svc, db)
	participants := addTestParticipants(t, svc, game.AdminToken, 2)

	if _, err := svc.Reveal(participants[0].ViewToken); !errors.Is(err, ErrGameNotDrawn) {
		t.Fatalf("expected ErrGameNotDrawn, got %v", err)
	}
	if _, err := svc.Reveal("bogus-token"); !errors.Is(err, ErrViewTokenInvalid) {
		t.Fatalf("expected ErrViewTokenInvalid, got %v", err)
	}
}

func TestDeleteParticipantAfterDraw(t *testing.T) {
	svc, _, db := setupGameServiceTest(t)
	game := createTestGame(t, svc, db)
	participants := addTestParticipants(t, svc, game.AdminToken, 3)
	if _, err := svc.Draw(game.AdminToken); err != nil {
		t.Fatalf("draw failed: %v", err)
	}

	if err := svc.DeleteParticipant(game.AdminToken, participants[0].ID); !errors.Is(err, ErrGameAlreadyDrawn) {
		t.Fatalf("expected ErrGameAlreadyDrawn, got %v", err)
	}
	if _, err := svc.AddParticipant(game.AdminToken, "迟到", "late@example.com"); !errors.Is(err, ErrGameAlreadyDrawn) {
		t.Fatalf("expected ErrGameAlreadyDrawn on add, got %v", err)
	}
}

func TestResendAllQuota(t *testing.T) {
	svc, sender, db := setupGameServiceTest(t)
	game := createTestGame(t, svc, db)
	addTestParticipants(t, svc, game.AdminToken, 3)

	// 未抽签不能重发
	if _, err := svc.ResendAll(game.AdminToken); !errors.Is(err, ErrGameNotDrawn) {
		t.Fatalf("expected ErrGameNotDrawn, got %v", err)
	}

	if _, err := svc.Draw(game.AdminToken); err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	sender.participantTo = nil

	sent, err := svc.ResendAll(game.AdminToken)
	if err != nil {
		t.Fatalf("resend all failed: %v", err)
	}
	if sent != 3 || len(sender.participantTo) != 3 {
		t.Fatalf("expected 3 resends, got sent=%d emails=%d", sent, len(sender.participantTo))
	}

	// 一小时内再次群发被拒
	if _, err := svc.ResendAll(game.AdminToken); !errors.Is(err, ErrResendTooFrequent) {
		t.Fatalf("expected ErrResendTooFrequent, got %v", err)
	}

	// 回拨时间窗口后可继续，直至生命周期上限 3 次
	backdate := func() {
		if err := db.Model(&models.EmailResendLog{}).
			Where("game_id = ?", game.ID).
			Update("created_at", time.Now().Add(-2*time.Hour)).Error; err != nil {
			t.Fatalf("backdate resend logs failed: %v", err)
		}
	}
	backdate()
	if _, err := svc.ResendAll(game.AdminToken); err != nil {
		t.Fatalf("second resend failed: %v", err)
	}
	backdate()
	if _, err := svc.ResendAll(game.AdminToken); err != nil {
		t.Fatalf("third resend failed: %v", err)
	}
	backdate()
	if _, err := svc.ResendAll(game.AdminToken); !errors.Is(err, ErrResendLimitReached) {
		t.Fatalf("expected ErrResendLimitReached, got %v", err)
	}
}

func TestResendParticipantQuota(t *testing.T) {
	svc, _, db := setupGameServiceTest(t)
	game := createTestGame(t, svc, db)
	participants := addTestParticipants(t, svc, game.AdminToken, 2)
	if _, err := svc.Draw(game.AdminToken); err != nil {
		t.Fatalf("draw failed: %v", err)
	}

	target := participants[0]
	if err := svc.ResendParticipant(game.AdminToken, target.ID); err != nil {
		t.Fatalf("resend participant failed: %v", err)
	}
	if err := svc.ResendParticipant(game.AdminToken, target.ID); !errors.Is(err, ErrResendTooFrequent) {
		t.Fatalf("expected ErrResendTooFrequent, got %v", err)
	}

	// 其他参与者的额度互不影响
	if err := svc.ResendParticipant(game.AdminToken, participants[1].ID); err != nil {
		t.Fatalf("resend other participant failed: %v", err)
	}
}

func TestUpdateGameValidation(t *testing.T) {
	svc, _, db := setupGameServiceTest(t)
	game := createTestGame(t, svc, db)

	badDate := "12/24/2026"
	if _, err := svc.UpdateGame(game.AdminToken, UpdateGameInput{GameDate: &badDate}); !errors.Is(err, ErrInvalidGameInput) {
		t.Fatalf("expected ErrInvalidGameInput, got %v", err)
	}

	newName := "新名称"
	newDate := "2026-12-25"
	updated, err := svc.UpdateGame(game.AdminToken, UpdateGameInput{Name: &newName, GameDate: &newDate})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != newName || updated.GameDate != newDate {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestListAndAdminDeleteGames(t *testing.T) {
	svc, _, db := setupGameServiceTest(t)
	game := createTestGame(t, svc, db)

	games, total, err := svc.ListGames("圣诞", 1, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(games) != 1 {
		t.Fatalf("expected 1 game, got total=%d len=%d", total, len(games))
	}

	games, total, err = svc.ListGames("不存在", 1, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 0 || len(games) != 0 {
		t.Fatalf("expected no games, got total=%d len=%d", total, len(games))
	}

	if err := svc.AdminDeleteGame(game.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if err := svc.AdminDeleteGame(game.ID); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}
