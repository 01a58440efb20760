package service

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// codeLength 一次性验证码 / 邀请码的长度
const codeLength = 16

// GenerateCode 由纳秒级时间戳经 MD5 摘要截断生成 16 位不透明码
// 碰撞概率可忽略但非零；调用方必须把插入时的唯一约束冲突当作可恢复条件处理。
func GenerateCode() string {
	sum := md5.Sum([]byte(strconv.FormatInt(time.Now().UnixNano(), 10)))
	return hex.EncodeToString(sum[:])[:codeLength]
}

// MakeSafeName 生成用户名的规范化形式：小写并将空格折叠为下划线
// 与游戏服务器的 safe_name 规则一致，用于注册时的大小写不敏感查重。
func MakeSafeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
