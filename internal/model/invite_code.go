package model

import "time"

// InviteCode 邀请码表，对应 users_invitation
// 一个账号可多次签发；码值全表唯一，used_by 至多被写入一次（先到先得）。
type InviteCode struct {
	ID         int       `gorm:"primaryKey;autoIncrement"             json:"id"`
	UserID     int       `gorm:"not null;index"                       json:"user_id"`
	Time       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"   json:"time"`
	UsedBy     *int      `json:"used_by,omitempty"`
	InviteCode string    `gorm:"type:varchar(16);not null;uniqueIndex" json:"invite_code"`
}

// TableName 指定表名
func (InviteCode) TableName() string { return "users_invitation" }
