package bot

import (
	"context"
	"sync"
	"time"
)

// Flow 一段多轮交互会话的状态机
// 每收到发起者的一条后续消息驱动一步；done=true 表示会话终结。
type Flow interface {
	Step(ctx context.Context, input string) (replies []string, done bool)
}

// SessionManager 按 Discord 身份持有进行中的交互会话
// 会话只存在于内存，超过闲置时限后被清扫；被放弃的会话不产生任何账号变更。
type SessionManager struct {
	mu       sync.Mutex
	sessions map[int64]*session
	ttl      time.Duration
}

type session struct {
	flow     Flow
	deadline time.Time

	// stepMu 串行化对 flow 的驱动。Discord 网关的事件处理各自运行在独立
	// goroutine 上，同一发起者的两条消息可能同时到达。
	stepMu sync.Mutex
	done   bool
}

// NewSessionManager 创建会话管理器
func NewSessionManager(ttl time.Duration) *SessionManager {
	return &SessionManager{
		sessions: make(map[int64]*session),
		ttl:      ttl,
	}
}

// Start 为发起者开启新会话；同一身份的旧会话直接被替换
func (m *SessionManager) Start(discordID int64, flow Flow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[discordID] = &session{
		flow:     flow,
		deadline: time.Now().Add(m.ttl),
	}
}

// Advance 将一条入站消息路由给发起者的会话并驱动一步
// handled=false 表示该身份没有活跃会话（或会话已过期被丢弃）。
func (m *SessionManager) Advance(ctx context.Context, discordID int64, input string) ([]string, bool) {
	m.mu.Lock()
	s, ok := m.sessions[discordID]
	if !ok {
		m.mu.Unlock()
		return nil, false
	}
	if time.Now().After(s.deadline) {
		delete(m.sessions, discordID)
		m.mu.Unlock()
		return nil, false
	}
	// 每走一步刷新闲置时限
	s.deadline = time.Now().Add(m.ttl)
	m.mu.Unlock()

	// flow 的驱动按会话串行；已终结的会话不再接收排队中的消息
	s.stepMu.Lock()
	if s.done {
		s.stepMu.Unlock()
		return nil, false
	}
	replies, done := s.flow.Step(ctx, input)
	if done {
		s.done = true
	}
	s.stepMu.Unlock()

	if done {
		m.mu.Lock()
		// 仅当会话未被 Start 替换时移除
		if cur, ok := m.sessions[discordID]; ok && cur == s {
			delete(m.sessions, discordID)
		}
		m.mu.Unlock()
	}
	return replies, true
}

// Active 返回该身份是否有未过期的活跃会话
func (m *SessionManager) Active(discordID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[discordID]
	return ok && time.Now().Before(s.deadline)
}

// Sweep 移除所有已过期会话，返回清理数量
func (m *SessionManager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	n := 0
	for id, s := range m.sessions {
		if now.After(s.deadline) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// RunSweeper 周期性清扫过期会话，直到 ctx 结束
func (m *SessionManager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
