package models

import "time"

// EmailResendLog 邮件重发记录
type EmailResendLog struct {
	ID            uint      `gorm:"primarykey" json:"id"`                   // 主键
	GameID        string    `gorm:"index;size:36;not null" json:"game_id"`  // 所属活动ID
	ParticipantID *string   `gorm:"index;size:36" json:"participant_id"`    // 单发时的参与者ID（群发为空）
	ResendType    string    `gorm:"index;not null" json:"resend_type"`      // 重发类型（bulk/individual）
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                // 创建时间
}

// TableName 指定表名
func (EmailResendLog) TableName() string {
	return "email_resend_logs"
}
