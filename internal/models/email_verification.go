package models

import (
	"time"

	"gorm.io/gorm"
)

// EmailVerification 邮箱验证请求记录
// 同时暂存待创建活动的名称与日期，验证通过并消费后据此落地 Game。
type EmailVerification struct {
	ID           string         `gorm:"primarykey;size:36" json:"id"`    // 主键（UUIDv7）
	Email        string         `gorm:"index;not null" json:"email"`     // 待验证邮箱（组织者）
	Code         string         `gorm:"not null" json:"-"`               // 验证码（不返回给前端）
	GameName     string         `gorm:"size:255" json:"game_name"`       // 待创建活动名称
	GameDate     string         `gorm:"size:10" json:"game_date"`        // 待创建活动日期 YYYY-MM-DD
	Locale       string         `gorm:"size:8;default:zh" json:"locale"` // 请求语言
	ExpiresAt    time.Time      `gorm:"index" json:"expires_at"`         // 过期时间
	VerifiedAt   *time.Time     `gorm:"index" json:"verified_at"`        // 验证通过时间
	ConsumedAt   *time.Time     `gorm:"index" json:"-"`                  // 被用于创建活动的时间
	AttemptCount int            `gorm:"default:0" json:"attempt_count"`  // 尝试次数
	SentAt       time.Time      `gorm:"index" json:"sent_at"`            // 发送时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`         // 创建时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                  // 软删除时间
}

// TableName 指定表名
func (EmailVerification) TableName() string {
	return "email_verifications"
}
