package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/santa-next/internal/config"
	"github.com/santa-next/internal/models"
	"github.com/santa-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type fakeEmailSender struct {
	failWith error

	verifyCodeTo   []string
	lastVerifyCode string
	welcomeTo      []string
	participantTo  []string
	organizerTo    []string
}

func (f *fakeEmailSender) SendVerifyCode(toEmail, code string, expireMinutes int, locale string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.verifyCodeTo = append(f.verifyCodeTo, toEmail)
	f.lastVerifyCode = code
	return nil
}

func (f *fakeEmailSender) SendWelcome(toEmail string, in GameEmailInput, adminLink string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.welcomeTo = append(f.welcomeTo, toEmail)
	return nil
}

func (f *fakeEmailSender) SendParticipantResult(toEmail, participantName string, in GameEmailInput, viewLink string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.participantTo = append(f.participantTo, toEmail)
	return nil
}

func (f *fakeEmailSender) SendOrganizerDrawn(toEmail string, in GameEmailInput, participantCount int, adminLink string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.organizerTo = append(f.organizerTo, toEmail)
	return nil
}

func newTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "Santa-Next", BaseURL: "http://localhost:8080"},
		Email: config.EmailConfig{
			VerifyCode: config.VerifyCodeConfig{
				ExpireMinutes:       15,
				SendIntervalSeconds: 60,
				MaxAttempts:         5,
				Length:              6,
				HourlyLimit:         3,
			},
		},
		Game: config.GameConfig{
			MaxParticipants:     100,
			ResendHourlyLimit:   1,
			ResendLifetimeLimit: 3,
		},
		JWT: config.JWTConfig{SecretKey: "test-secret", ExpireHours: 24},
	}
}

func testRequestInput(email string) VerificationRequestInput {
	return VerificationRequestInput{
		Email:    email,
		GameName: "圣诞交换礼物",
		GameDate: "2026-12-24",
		Locale:   "zh",
	}
}

func setupVerificationServiceTest(t *testing.T) (*VerificationService, *fakeEmailSender, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:verification_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.EmailVerification{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	sender := &fakeEmailSender{}
	svc := NewVerificationService(newTestConfig(), repository.NewEmailVerificationRepository(db), sender)
	return svc, sender, db
}

func TestRequestAndVerifySuccess(t *testing.T) {
	svc, sender, _ := setupVerificationServiceTest(t)

	record, err := svc.Request(testRequestInput("Santa@Example.com"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if record.Email != "santa@example.com" {
		t.Fatalf("email not normalized: %s", record.Email)
	}
	if len(sender.lastVerifyCode) != 6 {
		t.Fatalf("expected 6 digit code, got %q", sender.lastVerifyCode)
	}

	verified, _, err := svc.Verify(record.ID, sender.lastVerifyCode)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if verified.VerifiedAt == nil {
		t.Fatal("verified_at not set")
	}
	// 暂存的活动信息随验证结果返回
	if verified.GameName != "圣诞交换礼物" || verified.GameDate != "2026-12-24" {
		t.Fatalf("game payload lost: %q / %q", verified.GameName, verified.GameDate)
	}

	// 验证通过后不可重复验证
	if _, _, err := svc.Verify(record.ID, sender.lastVerifyCode); !errors.Is(err, ErrVerificationAlreadyUsed) {
		t.Fatalf("expected ErrVerificationAlreadyUsed, got %v", err)
	}
}

func TestRequestInvalidEmail(t *testing.T) {
	svc, _, _ := setupVerificationServiceTest(t)
	for _, email := range []string{"", "   ", "not-an-email", "a@"} {
		if _, err := svc.Request(testRequestInput(email)); !errors.Is(err, ErrInvalidEmail) {
			t.Fatalf("expected ErrInvalidEmail for %q, got %v", email, err)
		}
	}
}

func TestRequestCooldown(t *testing.T) {
	svc, _, _ := setupVerificationServiceTest(t)

	if _, err := svc.Request(testRequestInput("santa@example.com")); err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	if _, err := svc.Request(testRequestInput("santa@example.com")); !errors.Is(err, ErrVerifyCodeTooFrequent) {
		t.Fatalf("expected ErrVerifyCodeTooFrequent, got %v", err)
	}
}

func TestRequestHourlyLimit(t *testing.T) {
	svc, _, db := setupVerificationServiceTest(t)

	// 三条一小时内的历史请求，最近一条已过冷却
	for i := 0; i < 3; i++ {
		record := models.EmailVerification{
			ID:        fmt.Sprintf("test-verification-%d", i),
			Email:     "santa@example.com",
			Code:      "123456",
			ExpiresAt: time.Now().Add(15 * time.Minute),
			SentAt:    time.Now().Add(-time.Duration(10+i*10) * time.Minute),
			CreatedAt: time.Now().Add(-time.Duration(10+i*10) * time.Minute),
		}
		if err := db.Create(&record).Error; err != nil {
			t.Fatalf("seed record failed: %v", err)
		}
	}

	if _, err := svc.Request(testRequestInput("santa@example.com")); !errors.Is(err, ErrVerificationRequestLimited) {
		t.Fatalf("expected ErrVerificationRequestLimited, got %v", err)
	}
}

func TestVerifyWrongCodeLockout(t *testing.T) {
	svc, sender, _ := setupVerificationServiceTest(t)

	record, err := svc.Request(testRequestInput("santa@example.com"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	wrong := "000000"
	if wrong == sender.lastVerifyCode {
		wrong = "000001"
	}

	for i := 0; i < 4; i++ {
		_, remaining, err := svc.Verify(record.ID, wrong)
		if !errors.Is(err, ErrVerifyCodeIncorrect) {
			t.Fatalf("attempt %d: expected ErrVerifyCodeIncorrect, got %v", i+1, err)
		}
		if remaining != 4-i {
			t.Fatalf("attempt %d: expected remaining=%d, got %d", i+1, 4-i, remaining)
		}
	}

	// 第 5 次失败进入锁定
	if _, _, err := svc.Verify(record.ID, wrong); !errors.Is(err, ErrVerifyCodeAttemptsExceeded) {
		t.Fatalf("expected ErrVerifyCodeAttemptsExceeded, got %v", err)
	}
	// 锁定后正确验证码也不再放行
	if _, _, err := svc.Verify(record.ID, sender.lastVerifyCode); !errors.Is(err, ErrVerifyCodeAttemptsExceeded) {
		t.Fatalf("expected ErrVerifyCodeAttemptsExceeded after lockout, got %v", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	svc, sender, db := setupVerificationServiceTest(t)

	record, err := svc.Request(testRequestInput("santa@example.com"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if err := db.Model(&models.EmailVerification{}).
		Where("id = ?", record.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error; err != nil {
		t.Fatalf("backdate expires_at failed: %v", err)
	}

	if _, _, err := svc.Verify(record.ID, sender.lastVerifyCode); !errors.Is(err, ErrVerifyCodeExpired) {
		t.Fatalf("expected ErrVerifyCodeExpired, got %v", err)
	}
}

func TestVerifyNotFound(t *testing.T) {
	svc, _, _ := setupVerificationServiceTest(t)
	if _, _, err := svc.Verify("missing-id", "123456"); !errors.Is(err, ErrVerificationNotFound) {
		t.Fatalf("expected ErrVerificationNotFound, got %v", err)
	}
}

func TestResendResetsCodeAndAttempts(t *testing.T) {
	svc, sender, db := setupVerificationServiceTest(t)

	record, err := svc.Request(testRequestInput("santa@example.com"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	oldCode := sender.lastVerifyCode
	wrong := "999999"
	if wrong == oldCode {
		wrong = "999998"
	}

	if _, _, err := svc.Verify(record.ID, wrong); !errors.Is(err, ErrVerifyCodeIncorrect) {
		t.Fatalf("expected ErrVerifyCodeIncorrect, got %v", err)
	}

	// 冷却期内重发被拒
	if _, err := svc.Resend(record.ID); !errors.Is(err, ErrVerifyCodeTooFrequent) {
		t.Fatalf("expected ErrVerifyCodeTooFrequent, got %v", err)
	}

	if err := db.Model(&models.EmailVerification{}).
		Where("id = ?", record.ID).
		Update("sent_at", time.Now().Add(-2*time.Minute)).Error; err != nil {
		t.Fatalf("backdate sent_at failed: %v", err)
	}

	renewed, err := svc.Resend(record.ID)
	if err != nil {
		t.Fatalf("resend failed: %v", err)
	}
	if renewed.AttemptCount != 0 {
		t.Fatalf("attempt count not reset: %d", renewed.AttemptCount)
	}
	if sender.lastVerifyCode == oldCode {
		t.Fatal("resend did not rotate code")
	}

	// 旧验证码随重发作废
	if _, _, err := svc.Verify(record.ID, oldCode); !errors.Is(err, ErrVerifyCodeIncorrect) {
		t.Fatalf("expected old code to be rejected, got %v", err)
	}

	if _, _, err := svc.Verify(record.ID, sender.lastVerifyCode); err != nil {
		t.Fatalf("verify with renewed code failed: %v", err)
	}
}

func TestResendExpiredRejected(t *testing.T) {
	svc, _, db := setupVerificationServiceTest(t)

	record, err := svc.Request(testRequestInput("santa@example.com"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if err := db.Model(&models.EmailVerification{}).
		Where("id = ?", record.ID).
		Updates(map[string]interface{}{
			"expires_at": time.Now().Add(-time.Minute),
			"sent_at":    time.Now().Add(-2 * time.Minute),
		}).Error; err != nil {
		t.Fatalf("backdate failed: %v", err)
	}

	if _, err := svc.Resend(record.ID); !errors.Is(err, ErrVerifyCodeExpired) {
		t.Fatalf("expected ErrVerifyCodeExpired, got %v", err)
	}
}

func TestConsumeSingleUse(t *testing.T) {
	svc, sender, _ := setupVerificationServiceTest(t)

	record, err := svc.Request(testRequestInput("santa@example.com"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	// 未验证的请求不可消费
	if _, err := svc.Consume(record.ID); !errors.Is(err, ErrVerificationNotVerified) {
		t.Fatalf("expected ErrVerificationNotVerified, got %v", err)
	}

	if _, _, err := svc.Verify(record.ID, sender.lastVerifyCode); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if _, err := svc.Consume(record.ID); err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if _, err := svc.Consume(record.ID); !errors.Is(err, ErrVerificationAlreadyUsed) {
		t.Fatalf("expected ErrVerificationAlreadyUsed, got %v", err)
	}
}

func TestRequestInvalidGamePayload(t *testing.T) {
	svc, _, _ := setupVerificationServiceTest(t)

	in := testRequestInput("santa@example.com")
	in.GameName = "   "
	if _, err := svc.Request(in); !errors.Is(err, ErrInvalidGameInput) {
		t.Fatalf("expected ErrInvalidGameInput for empty name, got %v", err)
	}

	in = testRequestInput("santa@example.com")
	in.GameDate = "2026/12/24"
	if _, err := svc.Request(in); !errors.Is(err, ErrInvalidGameInput) {
		t.Fatalf("expected ErrInvalidGameInput for bad date, got %v", err)
	}
}

func TestRequestDeliveryFailure(t *testing.T) {
	svc, sender, db := setupVerificationServiceTest(t)
	sender.failWith = errors.New("smtp: connection reset")

	record, err := svc.Request(testRequestInput("santa@example.com"))
	if !errors.Is(err, ErrEmailDeliveryFailed) {
		t.Fatalf("expected ErrEmailDeliveryFailed, got %v", err)
	}
	if record == nil {
		t.Fatal("expected record despite delivery failure")
	}

	// 投递失败记录照常落库，后续可走重发
	var count int64
	if err := db.Model(&models.EmailVerification{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected persisted record after failed delivery, got %d", count)
	}

	if err := db.Model(&models.EmailVerification{}).
		Where("id = ?", record.ID).
		Update("sent_at", time.Now().Add(-2*time.Minute)).Error; err != nil {
		t.Fatalf("backdate sent_at failed: %v", err)
	}
	sender.failWith = nil
	if _, err := svc.Resend(record.ID); err != nil {
		t.Fatalf("resend after delivery failure failed: %v", err)
	}
}

func TestRequestRecipientRejectedPassesThrough(t *testing.T) {
	svc, sender, _ := setupVerificationServiceTest(t)
	sender.failWith = ErrEmailRecipientRejected

	if _, err := svc.Request(testRequestInput("santa@example.com")); !errors.Is(err, ErrEmailRecipientRejected) {
		t.Fatalf("expected ErrEmailRecipientRejected, got %v", err)
	}
}
