package model

// User 游戏账号表，对应游戏服务器的 users 表
// 此表由游戏服务器拥有，机器人只读取与局部更新（name/safe_name/available_invite），
// 账号的创建走外部注册 API，机器人从不直接插入。
type User struct {
	ID              int    `gorm:"primaryKey;autoIncrement"            json:"id"`
	Name            string `gorm:"type:varchar(32);not null"           json:"name"`
	SafeName        string `gorm:"type:varchar(32);not null;uniqueIndex" json:"safe_name"`
	Email           string `gorm:"type:varchar(254);not null"          json:"email"`
	Priv            int    `gorm:"not null;default:1"                  json:"priv"`
	PwBcrypt        string `gorm:"type:varchar(60);not null"           json:"-"`
	Country         string `gorm:"type:char(2);not null;default:'vn'"  json:"country"`
	SilenceEnd      int    `gorm:"not null;default:0"                  json:"silence_end"`
	DonorEnd        int    `gorm:"not null;default:0"                  json:"donor_end"`
	CreationTime    int    `gorm:"not null;default:0"                  json:"creation_time"`
	LatestActivity  int    `gorm:"not null;default:0"                  json:"latest_activity"`
	ClanID          int    `gorm:"not null;default:0"                  json:"clan_id"`
	ClanPriv        int    `gorm:"not null;default:0"                  json:"clan_priv"`
	PreferredMode   int    `gorm:"not null;default:0"                  json:"preferred_mode"`
	PlayStyle       int    `gorm:"not null;default:0"                  json:"play_style"`
	CustomBadgeName string `gorm:"type:varchar(16)"                    json:"custom_badge_name"`
	CustomBadgeIcon string `gorm:"type:varchar(64)"                    json:"custom_badge_icon"`
	UserpageContent string `gorm:"type:varchar(2048)"                  json:"userpage_content"`
	APIKey          string `gorm:"type:varchar(32)"                    json:"-"`
	ClanRank        int    `gorm:"not null;default:0"                  json:"clan_rank"`
	AvailableInvite int    `gorm:"not null;default:0"                  json:"available_invite"`
	// DiscordID 通过 verify 流程绑定后写入；非空时全表唯一（一个 Discord 身份至多绑定一个账号）
	DiscordID *int64 `gorm:"uniqueIndex"                         json:"discord_id,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
