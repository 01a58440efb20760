package service

// Role 请求者在 Discord 服务器内持有的一个身份组
type Role struct {
	ID string
	// Booster 该身份组是否带有平台级付费助力标记
	Booster bool
}

// HasUnlimitedInvite 判定请求者是否享有无限邀请特权
// 纯函数：持有捐赠者或管理员身份组，或任一身份组带助力标记即为 true。
func HasUnlimitedInvite(roles []Role, donorRoleID, modRoleID string) bool {
	for _, r := range roles {
		if r.ID != "" && (r.ID == donorRoleID || r.ID == modRoleID) {
			return true
		}
		if r.Booster {
			return true
		}
	}
	return false
}
