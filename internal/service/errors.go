package service

import "errors"

// 核心流程的业务错误分类。全部在机器人层就地转换为单行用户提示，不向上传播为致命错误。
var (
	// ErrAlreadyVerified 该 Discord 身份已绑定游戏账号，不再签发验证码
	ErrAlreadyVerified = errors.New("该 Discord 账号已完成验证")
	// ErrNotVerified 请求者尚未绑定游戏账号
	ErrNotVerified = errors.New("该 Discord 账号尚未验证")
	// ErrNoInvitesLeft 邀请余量耗尽且无特权
	ErrNoInvitesLeft = errors.New("邀请余量已用完")
	// ErrInvalidInviteCode 邀请码不存在
	ErrInvalidInviteCode = errors.New("邀请码无效")
	// ErrInviteAlreadyUsed 邀请码已被兑换
	ErrInviteAlreadyUsed = errors.New("邀请码已被使用")
	// ErrAlreadyRegistered 请求者已注册过账号
	ErrAlreadyRegistered = errors.New("该 Discord 账号已注册过游戏账号")
	// ErrNameTaken 用户名已被占用
	ErrNameTaken = errors.New("用户名已被占用")
	// ErrInvalidName 用户名不符合命名规则
	ErrInvalidName = errors.New("用户名不符合命名规则")
	// ErrNoAccountFound 按邮箱找不到账号
	ErrNoAccountFound = errors.New("未找到对应账号")
)
