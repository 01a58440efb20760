package model

import "time"

// VerifyCode 验证码表，对应 discord_verify
// 每个 Discord 身份至多一行（主键约束），只插入不更新；
// 玩家在游戏内完成验证后由游戏服务器消费，机器人不删除（留作审计）。
type VerifyCode struct {
	DiscordID int64     `gorm:"primaryKey;autoIncrement:false"       json:"discord_id"`
	Time      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"   json:"time"`
	VerifyKey string    `gorm:"type:char(16);not null"               json:"verify_key"`
}

// TableName 指定表名
func (VerifyCode) TableName() string { return "discord_verify" }
