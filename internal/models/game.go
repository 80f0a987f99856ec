package models

import (
	"time"

	"gorm.io/gorm"
)

// Game 抽签活动表
type Game struct {
	ID             string         `gorm:"primarykey;size:36" json:"id"`                   // 主键（UUIDv7）
	Name           string         `gorm:"not null" json:"name"`                           // 活动名称
	GameDate       string         `gorm:"not null" json:"game_date"`                      // 活动日期（YYYY-MM-DD）
	OrganizerEmail string         `gorm:"index;not null" json:"organizer_email"`          // 组织者邮箱（已验证）
	AdminToken     string         `gorm:"uniqueIndex;size:32;not null" json:"-"`          // 管理令牌（不返回给前端）
	Locale         string         `gorm:"size:8;not null;default:zh" json:"locale"`       // 活动语言
	Drawn          bool           `gorm:"not null;default:false;index" json:"drawn"`      // 是否已抽签
	DrawnAt        *time.Time     `json:"drawn_at"`                                       // 抽签完成时间
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                        // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                     // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                 // 软删除时间

	Participants []Participant `gorm:"foreignKey:GameID" json:"participants,omitempty"` // 参与者列表
}

// TableName 指定表名
func (Game) TableName() string {
	return "games"
}
