package service

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/santa-next/internal/config"
	"github.com/santa-next/internal/logger"
	"github.com/santa-next/internal/models"
	"github.com/santa-next/internal/repository"
	"github.com/santa-next/internal/token"
)

// VerificationService 邮箱验证服务
// 状态机：pending -> verified（验证通过）/ expired（超时）/ locked（尝试耗尽）
// expired 与 locked 不落库，由读取时根据 expires_at 与 attempt_count 判定
type VerificationService struct {
	cfg          *config.Config
	codeRepo     repository.EmailVerificationRepository
	emailService EmailSender
}

// NewVerificationService 创建邮箱验证服务
func NewVerificationService(cfg *config.Config, codeRepo repository.EmailVerificationRepository, emailService EmailSender) *VerificationService {
	return &VerificationService{
		cfg:          cfg,
		codeRepo:     codeRepo,
		emailService: emailService,
	}
}

// VerificationRequestInput 发起邮箱验证的输入
// 活动名称与日期在此暂存，验证通过并消费后才会落地为 Game。
type VerificationRequestInput struct {
	Email    string
	GameName string
	GameDate string
	Locale   string
}

// Request 发起邮箱验证请求并发送验证码
// 发送失败时记录仍然落库并返回 ErrEmailDeliveryFailed，客户端可走重发流程。
func (s *VerificationService) Request(input VerificationRequestInput) (*models.EmailVerification, error) {
	normalized, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	gameName := strings.TrimSpace(input.GameName)
	if gameName == "" {
		return nil, ErrInvalidGameInput
	}
	gameDate := strings.TrimSpace(input.GameDate)
	if _, err := time.Parse("2006-01-02", gameDate); err != nil {
		return nil, ErrInvalidGameInput
	}

	now := time.Now()

	// 单邮箱每小时验证请求上限
	hourlyLimit := resolveHourlyLimit(s.cfg.Email.VerifyCode)
	if hourlyLimit > 0 {
		count, err := s.codeRepo.CountRecentByEmail(normalized, now.Add(-time.Hour))
		if err != nil {
			return nil, err
		}
		if count >= int64(hourlyLimit) {
			return nil, ErrVerificationRequestLimited
		}
	}

	// 发送冷却
	latest, err := s.codeRepo.GetLatestByEmail(normalized)
	if err != nil {
		return nil, err
	}
	interval := time.Duration(resolveSendIntervalSeconds(s.cfg.Email.VerifyCode)) * time.Second
	if latest != nil && !latest.SentAt.IsZero() && now.Sub(latest.SentAt) < interval {
		return nil, ErrVerifyCodeTooFrequent
	}

	code, err := token.NewVerifyCode(resolveCodeLength(s.cfg.Email.VerifyCode))
	if err != nil {
		return nil, err
	}

	expireMinutes := resolveExpireMinutes(s.cfg.Email.VerifyCode)
	record := &models.EmailVerification{
		ID:        token.NewID(),
		Email:     normalized,
		Code:      code,
		GameName:  gameName,
		GameDate:  gameDate,
		Locale:    normalizeLocale(input.Locale),
		ExpiresAt: now.Add(time.Duration(expireMinutes) * time.Minute),
		SentAt:    now,
		CreatedAt: now,
	}
	if err := s.codeRepo.Create(record); err != nil {
		return nil, err
	}

	if err := s.emailService.SendVerifyCode(normalized, code, expireMinutes, record.Locale); err != nil {
		return record, s.deliveryError(record.ID, err)
	}

	logger.Infow("verification_requested", "verification_id", record.ID, "email", normalized)
	return record, nil
}

// deliveryError 区分配置类错误与投递失败，投递细节只进日志不外泄
func (s *VerificationService) deliveryError(verificationID string, err error) error {
	switch {
	case errors.Is(err, ErrEmailServiceDisabled),
		errors.Is(err, ErrEmailServiceNotConfigured),
		errors.Is(err, ErrEmailRecipientRejected):
		return err
	default:
		logger.Warnw("verify_code_delivery_failed", "verification_id", verificationID, "error", err)
		return ErrEmailDeliveryFailed
	}
}

// Verify 校验验证码
// 返回的 remaining 仅在 ErrVerifyCodeIncorrect 时有意义，表示剩余尝试次数
func (s *VerificationService) Verify(id, code string) (*models.EmailVerification, int, error) {
	record, err := s.codeRepo.GetByID(strings.TrimSpace(id))
	if err != nil {
		return nil, 0, err
	}
	if record == nil {
		return nil, 0, ErrVerificationNotFound
	}
	if record.VerifiedAt != nil {
		return nil, 0, ErrVerificationAlreadyUsed
	}

	now := time.Now()
	if record.ExpiresAt.Before(now) {
		return nil, 0, ErrVerifyCodeExpired
	}

	maxAttempts := resolveMaxAttempts(s.cfg.Email.VerifyCode)
	if maxAttempts > 0 && record.AttemptCount >= maxAttempts {
		return nil, 0, ErrVerifyCodeAttemptsExceeded
	}

	if !token.Equal(strings.TrimSpace(record.Code), strings.TrimSpace(code)) {
		// 自增在数据库侧原子执行，并发误输不会丢失计数
		if err := s.codeRepo.IncrementAttempt(record.ID); err != nil {
			return nil, 0, err
		}
		remaining := maxAttempts - record.AttemptCount - 1
		if remaining < 0 {
			remaining = 0
		}
		if remaining == 0 {
			return nil, 0, ErrVerifyCodeAttemptsExceeded
		}
		return nil, remaining, ErrVerifyCodeIncorrect
	}

	// 条件更新保证并发校验只有一个请求能通过
	updated, err := s.codeRepo.MarkVerified(record.ID, now)
	if err != nil {
		return nil, 0, err
	}
	if !updated {
		return nil, 0, ErrVerificationAlreadyUsed
	}

	record.VerifiedAt = &now
	logger.Infow("verification_verified", "verification_id", record.ID, "email", record.Email)
	return record, 0, nil
}

// Resend 重新发送验证码（重置验证码与尝试次数，语言沿用首次请求）
func (s *VerificationService) Resend(id string) (*models.EmailVerification, error) {
	record, err := s.codeRepo.GetByID(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrVerificationNotFound
	}
	if record.VerifiedAt != nil {
		return nil, ErrVerificationAlreadyUsed
	}

	now := time.Now()
	if record.ExpiresAt.Before(now) {
		return nil, ErrVerifyCodeExpired
	}
	interval := time.Duration(resolveSendIntervalSeconds(s.cfg.Email.VerifyCode)) * time.Second
	if !record.SentAt.IsZero() && now.Sub(record.SentAt) < interval {
		return nil, ErrVerifyCodeTooFrequent
	}

	code, err := token.NewVerifyCode(resolveCodeLength(s.cfg.Email.VerifyCode))
	if err != nil {
		return nil, err
	}

	// 条件更新保证并发重发不会同时越过冷却
	expireMinutes := resolveExpireMinutes(s.cfg.Email.VerifyCode)
	renewed, err := s.codeRepo.RenewCode(record.ID, code, now.Add(time.Duration(expireMinutes)*time.Minute), now, record.SentAt)
	if err != nil {
		return nil, err
	}
	if !renewed {
		return nil, ErrVerifyCodeTooFrequent
	}
	record.Code = code
	record.ExpiresAt = now.Add(time.Duration(expireMinutes) * time.Minute)
	record.SentAt = now
	record.AttemptCount = 0

	if err := s.emailService.SendVerifyCode(record.Email, code, expireMinutes, record.Locale); err != nil {
		return record, s.deliveryError(record.ID, err)
	}

	logger.Infow("verification_resent", "verification_id", record.ID, "email", record.Email)
	return record, nil
}

// Consume 消费已验证的请求（用于创建活动，单次有效）
func (s *VerificationService) Consume(id string) (*models.EmailVerification, error) {
	record, err := s.codeRepo.GetByID(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrVerificationNotFound
	}
	if record.VerifiedAt == nil {
		return nil, ErrVerificationNotVerified
	}
	if record.ConsumedAt != nil {
		return nil, ErrVerificationAlreadyUsed
	}

	// 条件更新保证并发消费只有一个请求能成功
	consumed, err := s.codeRepo.MarkConsumed(record.ID, time.Now())
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, ErrVerificationAlreadyUsed
	}
	return record, nil
}

// SendInterval 当前配置的发送冷却时长
func (s *VerificationService) SendInterval() time.Duration {
	return time.Duration(resolveSendIntervalSeconds(s.cfg.Email.VerifyCode)) * time.Second
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

func resolveExpireMinutes(cfg config.VerifyCodeConfig) int {
	if cfg.ExpireMinutes <= 0 {
		return 15
	}
	return cfg.ExpireMinutes
}

func resolveSendIntervalSeconds(cfg config.VerifyCodeConfig) int {
	if cfg.SendIntervalSeconds <= 0 {
		return 60
	}
	return cfg.SendIntervalSeconds
}

func resolveMaxAttempts(cfg config.VerifyCodeConfig) int {
	if cfg.MaxAttempts <= 0 {
		return 5
	}
	return cfg.MaxAttempts
}

func resolveCodeLength(cfg config.VerifyCodeConfig) int {
	if cfg.Length < 4 || cfg.Length > 10 {
		return 6
	}
	return cfg.Length
}

func resolveHourlyLimit(cfg config.VerifyCodeConfig) int {
	if cfg.HourlyLimit < 0 {
		return 0
	}
	if cfg.HourlyLimit == 0 {
		return 3
	}
	return cfg.HourlyLimit
}
