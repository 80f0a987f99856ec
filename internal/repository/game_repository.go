package repository

import (
	"errors"
	"time"

	"github.com/santa-next/internal/models"

	"gorm.io/gorm"
)

// GameRepository 抽签活动数据访问接口
type GameRepository interface {
	Create(game *models.Game) error
	GetByID(id string) (*models.Game, error)
	GetByAdminToken(token string) (*models.Game, error)
	GetWithParticipants(id string) (*models.Game, error)
	Update(game *models.Game) error
	MarkDrawnTx(tx *gorm.DB, id string, drawnAt time.Time) (bool, error)
	Delete(id string) error
	List(keyword string, page, pageSize int) ([]models.Game, int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
}

// GormGameRepository GORM 实现
type GormGameRepository struct {
	db *gorm.DB
}

// NewGameRepository 创建活动仓库
func NewGameRepository(db *gorm.DB) *GormGameRepository {
	return &GormGameRepository{db: db}
}

// Create 创建活动
func (r *GormGameRepository) Create(game *models.Game) error {
	return r.db.Create(game).Error
}

// GetByID 根据 ID 获取活动
func (r *GormGameRepository) GetByID(id string) (*models.Game, error) {
	var game models.Game
	if err := r.db.Where("id = ?", id).First(&game).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &game, nil
}

// GetByAdminToken 根据管理令牌获取活动
func (r *GormGameRepository) GetByAdminToken(token string) (*models.Game, error) {
	var game models.Game
	if err := r.db.Where("admin_token = ?", token).First(&game).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &game, nil
}

// GetWithParticipants 获取活动并预加载参与者
func (r *GormGameRepository) GetWithParticipants(id string) (*models.Game, error) {
	var game models.Game
	err := r.db.Preload("Participants", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at asc, id asc")
	}).Where("id = ?", id).First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &game, nil
}

// Update 更新活动
func (r *GormGameRepository) Update(game *models.Game) error {
	return r.db.Save(game).Error
}

// MarkDrawnTx 在事务中标记活动已抽签
// 条件更新保证并发抽签只有一个请求能成功，返回是否真正写入
func (r *GormGameRepository) MarkDrawnTx(tx *gorm.DB, id string, drawnAt time.Time) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	result := tx.Model(&models.Game{}).
		Where("id = ? AND drawn = ?", id, false).
		Updates(map[string]interface{}{
			"drawn":    true,
			"drawn_at": drawnAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete 删除活动，参与者与重发记录在同一事务内一并清理
func (r *GormGameRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", id).Delete(&models.Participant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", id).Delete(&models.EmailResendLog{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Game{}).Error
	})
}

// List 按关键字分页查询活动（站点管理端）
func (r *GormGameRepository) List(keyword string, page, pageSize int) ([]models.Game, int64, error) {
	query := r.db.Model(&models.Game{})
	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("name LIKE ? OR organizer_email LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	games := make([]models.Game, 0)
	err := applyPagination(query.Order("created_at desc"), page, pageSize).Find(&games).Error
	if err != nil {
		return nil, 0, err
	}
	return games, total, nil
}

// Transaction 执行事务
func (r *GormGameRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if r.db == nil {
		return errors.New("repository: db is nil")
	}
	return r.db.Transaction(fn)
}
