package models

import (
	"time"

	"gorm.io/gorm"
)

// Participant 参与者表
type Participant struct {
	ID           string         `gorm:"primarykey;size:36" json:"id"`              // 主键（UUIDv7）
	GameID       string         `gorm:"index;size:36;not null" json:"game_id"`     // 所属活动ID
	Name         string         `gorm:"not null" json:"name"`                      // 参与者姓名
	Email        string         `gorm:"index;not null" json:"email"`               // 参与者邮箱
	ViewToken    string         `gorm:"uniqueIndex;size:32;not null" json:"-"`     // 查看令牌（不返回给前端）
	AssignedToID *string        `gorm:"size:36" json:"-"`                          // 抽中的接收者ID（不返回给前端）
	HasViewed    bool           `gorm:"not null;default:false" json:"has_viewed"`  // 是否已查看结果
	ViewedAt     *time.Time     `json:"viewed_at"`                                 // 首次查看时间
	EmailSentAt  *time.Time     `json:"email_sent_at"`                             // 结果邮件发送时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                   // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                            // 软删除时间
}

// TableName 指定表名
func (Participant) TableName() string {
	return "participants"
}
