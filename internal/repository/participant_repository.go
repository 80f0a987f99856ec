package repository

import (
	"errors"
	"time"

	"github.com/santa-next/internal/models"

	"gorm.io/gorm"
)

// ParticipantRepository 参与者数据访问接口
type ParticipantRepository interface {
	Create(participant *models.Participant) error
	GetByID(id string) (*models.Participant, error)
	GetByViewToken(token string) (*models.Participant, error)
	ListByGame(gameID string) ([]models.Participant, error)
	CountByGame(gameID string) (int64, error)
	Update(participant *models.Participant) error
	AssignReceiverTx(tx *gorm.DB, id, receiverID string) error
	MarkViewed(id string, viewedAt time.Time) error
	MarkEmailSent(id string, sentAt time.Time) error
	Delete(id string) error
}

// GormParticipantRepository GORM 实现
type GormParticipantRepository struct {
	db *gorm.DB
}

// NewParticipantRepository 创建参与者仓库
func NewParticipantRepository(db *gorm.DB) *GormParticipantRepository {
	return &GormParticipantRepository{db: db}
}

// Create 创建参与者
func (r *GormParticipantRepository) Create(participant *models.Participant) error {
	return r.db.Create(participant).Error
}

// GetByID 根据 ID 获取参与者
func (r *GormParticipantRepository) GetByID(id string) (*models.Participant, error) {
	var participant models.Participant
	if err := r.db.Where("id = ?", id).First(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &participant, nil
}

// GetByViewToken 根据查看令牌获取参与者
func (r *GormParticipantRepository) GetByViewToken(token string) (*models.Participant, error) {
	var participant models.Participant
	if err := r.db.Where("view_token = ?", token).First(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &participant, nil
}

// ListByGame 获取活动的全部参与者
func (r *GormParticipantRepository) ListByGame(gameID string) ([]models.Participant, error) {
	participants := make([]models.Participant, 0)
	err := r.db.Where("game_id = ?", gameID).
		Order("created_at asc, id asc").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// CountByGame 统计活动参与者数量
func (r *GormParticipantRepository) CountByGame(gameID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Participant{}).
		Where("game_id = ?", gameID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Update 更新参与者
func (r *GormParticipantRepository) Update(participant *models.Participant) error {
	return r.db.Save(participant).Error
}

// AssignReceiverTx 在事务中写入抽签配对结果
func (r *GormParticipantRepository) AssignReceiverTx(tx *gorm.DB, id, receiverID string) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Model(&models.Participant{}).
		Where("id = ?", id).
		Update("assigned_to_id", receiverID).Error
}

// MarkViewed 标记参与者已查看结果（首次查看后不再更新时间）
func (r *GormParticipantRepository) MarkViewed(id string, viewedAt time.Time) error {
	return r.db.Model(&models.Participant{}).
		Where("id = ? AND has_viewed = ?", id, false).
		Updates(map[string]interface{}{
			"has_viewed": true,
			"viewed_at":  viewedAt,
		}).Error
}

// MarkEmailSent 记录结果邮件发送时间
func (r *GormParticipantRepository) MarkEmailSent(id string, sentAt time.Time) error {
	return r.db.Model(&models.Participant{}).
		Where("id = ?", id).
		Update("email_sent_at", sentAt).Error
}

// Delete 删除参与者（软删除）
func (r *GormParticipantRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.Participant{}).Error
}
