package repository

import (
	"errors"
	"time"

	"github.com/santa-next/internal/models"

	"gorm.io/gorm"
)

// EmailVerificationRepository 邮箱验证请求数据访问接口
type EmailVerificationRepository interface {
	Create(record *models.EmailVerification) error
	GetByID(id string) (*models.EmailVerification, error)
	GetLatestByEmail(email string) (*models.EmailVerification, error)
	CountRecentByEmail(email string, since time.Time) (int64, error)
	IncrementAttempt(id string) error
	MarkVerified(id string, verifiedAt time.Time) (bool, error)
	MarkConsumed(id string, consumedAt time.Time) (bool, error)
	RenewCode(id, code string, expiresAt, sentAt, lastSentAt time.Time) (bool, error)
}

// GormEmailVerificationRepository GORM 实现
type GormEmailVerificationRepository struct {
	db *gorm.DB
}

// NewEmailVerificationRepository 创建邮箱验证请求仓库
func NewEmailVerificationRepository(db *gorm.DB) *GormEmailVerificationRepository {
	return &GormEmailVerificationRepository{db: db}
}

// Create 创建验证请求记录
func (r *GormEmailVerificationRepository) Create(record *models.EmailVerification) error {
	return r.db.Create(record).Error
}

// GetByID 根据 ID 获取验证请求
func (r *GormEmailVerificationRepository) GetByID(id string) (*models.EmailVerification, error) {
	var record models.EmailVerification
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetLatestByEmail 获取该邮箱最新的验证请求
func (r *GormEmailVerificationRepository) GetLatestByEmail(email string) (*models.EmailVerification, error) {
	var record models.EmailVerification
	if err := r.db.Where("email = ?", email).
		Order("sent_at desc, id desc").
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// CountRecentByEmail 统计该邮箱自 since 以来发起的验证请求数
func (r *GormEmailVerificationRepository) CountRecentByEmail(email string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.EmailVerification{}).
		Where("email = ? AND created_at >= ?", email, since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// IncrementAttempt 原子自增验证尝试次数
func (r *GormEmailVerificationRepository) IncrementAttempt(id string) error {
	return r.db.Model(&models.EmailVerification{}).
		Where("id = ?", id).
		UpdateColumn("attempt_count", gorm.Expr("attempt_count + 1")).Error
}

// MarkVerified 标记验证通过
// 条件更新保证并发下只有一个请求能成功，返回是否真正写入
func (r *GormEmailVerificationRepository) MarkVerified(id string, verifiedAt time.Time) (bool, error) {
	result := r.db.Model(&models.EmailVerification{}).
		Where("id = ? AND verified_at IS NULL", id).
		Update("verified_at", verifiedAt)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkConsumed 标记验证请求已被用于创建活动
// 仅允许消费已验证且未消费的请求，返回是否真正写入
func (r *GormEmailVerificationRepository) MarkConsumed(id string, consumedAt time.Time) (bool, error) {
	result := r.db.Model(&models.EmailVerification{}).
		Where("id = ? AND verified_at IS NOT NULL AND consumed_at IS NULL", id).
		Update("consumed_at", consumedAt)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RenewCode 重置验证码与有效期，并清零尝试次数
// 以上次发送时间做条件更新，并发重发只有一个请求能成功
func (r *GormEmailVerificationRepository) RenewCode(id, code string, expiresAt, sentAt, lastSentAt time.Time) (bool, error) {
	result := r.db.Model(&models.EmailVerification{}).
		Where("id = ? AND sent_at = ?", id, lastSentAt).
		Updates(map[string]interface{}{
			"code":          code,
			"expires_at":    expiresAt,
			"sent_at":       sentAt,
			"attempt_count": 0,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
