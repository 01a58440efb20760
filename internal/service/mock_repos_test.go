package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/stiendat/osuvnfc-discord-bot/internal/model"
	"github.com/stiendat/osuvnfc-discord-bot/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users  map[int]*model.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int]*model.User), nextID: 1}
}

func (m *mockUserRepo) add(user *model.User) *model.User {
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	}
	m.users[user.ID] = user
	return user
}

func (m *mockUserRepo) GetByDiscordID(_ context.Context, discordID int64) (*model.User, error) {
	for _, u := range m.users {
		if u.DiscordID != nil && *u.DiscordID == discordID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByDiscordIDForUpdate(ctx context.Context, discordID int64) (*model.User, error) {
	// 与真实仓库一致：返回查询时刻的独立快照，后续 UPDATE 不会反向修改它
	u, err := m.GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, err
	}
	snapshot := *u
	return &snapshot, nil
}

func (m *mockUserRepo) GetBySafeName(_ context.Context, safeName string) (*model.User, error) {
	for _, u := range m.users {
		if u.SafeName == safeName {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByName(_ context.Context, name string) (*model.User, error) {
	for _, u := range m.users {
		if u.Name == name {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) UpdateName(_ context.Context, id int, name, safeName string) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Name = name
	u.SafeName = safeName
	return nil
}

func (m *mockUserRepo) DecrementInvites(_ context.Context, id int) (bool, error) {
	u, ok := m.users[id]
	if !ok || u.AvailableInvite <= 0 {
		return false, nil
	}
	u.AvailableInvite--
	return true, nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

// ── Mock VerifyCodeRepository ──

type mockVerifyCodeRepo struct {
	codes map[int64]*model.VerifyCode
}

func newMockVerifyCodeRepo() *mockVerifyCodeRepo {
	return &mockVerifyCodeRepo{codes: make(map[int64]*model.VerifyCode)}
}

func (m *mockVerifyCodeRepo) Create(_ context.Context, code *model.VerifyCode) error {
	if _, ok := m.codes[code.DiscordID]; ok {
		// 主键冲突
		return gorm.ErrDuplicatedKey
	}
	m.codes[code.DiscordID] = code
	return nil
}

func (m *mockVerifyCodeRepo) GetByDiscordID(_ context.Context, discordID int64) (*model.VerifyCode, error) {
	if c, ok := m.codes[discordID]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVerifyCodeRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.codes)), nil
}

// ── Mock InviteCodeRepository ──

type mockInviteCodeRepo struct {
	codes  map[string]*model.InviteCode
	nextID int
}

func newMockInviteCodeRepo() *mockInviteCodeRepo {
	return &mockInviteCodeRepo{codes: make(map[string]*model.InviteCode), nextID: 1}
}

func (m *mockInviteCodeRepo) Create(_ context.Context, code *model.InviteCode) error {
	if _, ok := m.codes[code.InviteCode]; ok {
		// 码值唯一约束冲突
		return gorm.ErrDuplicatedKey
	}
	code.ID = m.nextID
	m.nextID++
	m.codes[code.InviteCode] = code
	return nil
}

func (m *mockInviteCodeRepo) GetByCode(_ context.Context, code string) (*model.InviteCode, error) {
	if c, ok := m.codes[code]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInviteCodeRepo) MarkUsed(_ context.Context, code string, usedBy int) (bool, error) {
	c, ok := m.codes[code]
	if !ok || c.UsedBy != nil {
		return false, nil
	}
	c.UsedBy = &usedBy
	return true, nil
}

func (m *mockInviteCodeRepo) CountIssued(_ context.Context) (int64, error) {
	return int64(len(m.codes)), nil
}

func (m *mockInviteCodeRepo) CountUsed(_ context.Context) (int64, error) {
	var n int64
	for _, c := range m.codes {
		if c.UsedBy != nil {
			n++
		}
	}
	return n, nil
}

// newMockRepository 以 mock 实现构造 Repository 聚合（无底层连接，事务退化为直接执行）
func newMockRepository() (*repository.Repository, *mockUserRepo, *mockVerifyCodeRepo, *mockInviteCodeRepo) {
	mu := newMockUserRepo()
	mv := newMockVerifyCodeRepo()
	mi := newMockInviteCodeRepo()
	repo := &repository.Repository{
		User:       mu,
		VerifyCode: mv,
		InviteCode: mi,
	}
	return repo, mu, mv, mi
}

func int64Ptr(v int64) *int64 { return &v }
