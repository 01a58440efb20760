package gameapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/stiendat/osuvnfc-discord-bot/config"
)

// ErrSubmissionFailed 外部注册接口调用失败（非 200），对用户呈现为"稍后重试"
var ErrSubmissionFailed = errors.New("账号注册接口调用失败")

// RejectionError 注册接口以 200 返回但拒绝了请求，Reason 原样转发给用户
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return "账号注册被拒绝: " + e.Reason
}

// Client 游戏服务器账号 API 客户端
// 单次调用、无重试；失败对当前会话是终态。
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient 创建游戏 API 客户端
func NewClient(cfg *config.GameAPIConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// successBody 注册成功时接口返回的字面量
const successBody = "ok"

// CreateAccount 调用 POST /users 创建游戏账号
// 成功 = 状态码 200 且响应体为 "ok"；200 + 其他响应体视为业务拒绝（RejectionError）
func (c *Client) CreateAccount(ctx context.Context, username, password, email, inviteCode string) error {
	form := url.Values{}
	form.Set("user[username]", username)
	form.Set("user[password]", password)
	form.Set("user[user_email]", email)
	form.Set("user[invite_code]", inviteCode)
	form.Set("check", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/users", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("构造注册请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: 读取响应失败: %v", ErrSubmissionFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: 状态码 %d", ErrSubmissionFailed, resp.StatusCode)
	}
	if string(body) != successBody {
		return &RejectionError{Reason: string(body)}
	}
	return nil
}
