package repository

import (
	"time"

	"github.com/santa-next/internal/models"

	"gorm.io/gorm"
)

// EmailResendRepository 邮件重发记录数据访问接口
type EmailResendRepository interface {
	Create(record *models.EmailResendLog) error
	CountByGameSince(gameID, resendType string, since time.Time) (int64, error)
	CountByGame(gameID, resendType string) (int64, error)
	CountByParticipantSince(participantID string, since time.Time) (int64, error)
	CountByParticipant(participantID string) (int64, error)
}

// GormEmailResendRepository GORM 实现
type GormEmailResendRepository struct {
	db *gorm.DB
}

// NewEmailResendRepository 创建邮件重发记录仓库
func NewEmailResendRepository(db *gorm.DB) *GormEmailResendRepository {
	return &GormEmailResendRepository{db: db}
}

// Create 创建重发记录
func (r *GormEmailResendRepository) Create(record *models.EmailResendLog) error {
	return r.db.Create(record).Error
}

// CountByGameSince 统计活动自 since 以来的群发重发次数
func (r *GormEmailResendRepository) CountByGameSince(gameID, resendType string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.EmailResendLog{}).
		Where("game_id = ? AND resend_type = ? AND created_at >= ?", gameID, resendType, since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountByGame 统计活动的群发重发总次数
func (r *GormEmailResendRepository) CountByGame(gameID, resendType string) (int64, error) {
	var count int64
	err := r.db.Model(&models.EmailResendLog{}).
		Where("game_id = ? AND resend_type = ?", gameID, resendType).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountByParticipantSince 统计参与者自 since 以来的单发重发次数
func (r *GormEmailResendRepository) CountByParticipantSince(participantID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.EmailResendLog{}).
		Where("participant_id = ? AND created_at >= ?", participantID, since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountByParticipant 统计参与者的单发重发总次数
func (r *GormEmailResendRepository) CountByParticipant(participantID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.EmailResendLog{}).
		Where("participant_id = ?", participantID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
