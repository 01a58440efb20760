package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/stiendat/osuvnfc-discord-bot/config"
	"github.com/stiendat/osuvnfc-discord-bot/internal/model"
	"github.com/stiendat/osuvnfc-discord-bot/internal/service"
)

type testEnv struct {
	dispatcher *Dispatcher
	sessions   *SessionManager
	users      *mockUserRepo
	verifies   *mockVerifyCodeRepo
	invites    *mockInviteCodeRepo
	creator    *mockCreator
}

func newTestEnv(t *testing.T, cooldown Cooldown) *testEnv {
	t.Helper()
	repo, mu, mv, mi := newMockRepository()
	creator := &mockCreator{}
	svc := service.NewService(repo, creator, zap.NewNop())

	cfg := &config.BotConfig{
		Prefix:          "!",
		DonorRoleID:     "role-donor",
		ModRoleID:       "role-mod",
		SessionTTL:      time.Minute,
		CommandCooldown: 30 * time.Second,
	}
	sessions := NewSessionManager(cfg.SessionTTL)
	return &testEnv{
		dispatcher: NewDispatcher(cfg, svc, sessions, cooldown, zap.NewNop()),
		sessions:   sessions,
		users:      mu,
		verifies:   mv,
		invites:    mi,
		creator:    creator,
	}
}

func (e *testEnv) send(discordID int64, content string, roles ...service.Role) []string {
	return e.dispatcher.HandleMessage(context.Background(), Message{
		DiscordID: discordID,
		Content:   content,
		Roles:     roles,
	})
}

func TestDispatcherIgnoresNoise(t *testing.T) {
	env := newTestEnv(t, nil)

	if replies := env.send(1, "!bogus"); replies != nil {
		t.Errorf("未知命令不应有回应，实际 %v", replies)
	}
	if replies := env.send(1, "!"); replies != nil {
		t.Errorf("裸前缀不应有回应，实际 %v", replies)
	}
	if replies := env.send(1, "hello there"); replies != nil {
		t.Errorf("无会话的非命令消息不应有回应，实际 %v", replies)
	}
}

func TestDispatcherHelpme(t *testing.T) {
	env := newTestEnv(t, nil)

	replies := env.send(1, "!helpme")
	if len(replies) != 1 {
		t.Fatalf("期望 1 条回复，实际 %d", len(replies))
	}
	for _, cmd := range []string{"!verify", "!invite", "!register", "!rename", "!findme"} {
		if !strings.Contains(replies[0], cmd) {
			t.Errorf("帮助信息缺少 %s", cmd)
		}
	}
}

func TestDispatcherVerify(t *testing.T) {
	env := newTestEnv(t, nil)

	replies := env.send(100, "!verify")
	if len(replies) != 1 || !strings.Contains(replies[0], "Your verify code is") {
		t.Fatalf("意外的首次回复 %v", replies)
	}
	issued := env.verifies.codes[100].VerifyKey
	if !strings.Contains(replies[0], issued) {
		t.Error("回复中应包含签发的验证码")
	}

	// 重复请求：提示沿用 + 原码回显
	replies = env.send(100, "!verify")
	if len(replies) != 2 {
		t.Fatalf("期望 2 条回复，实际 %v", replies)
	}
	if replies[0] != "You already have a verify code. Please use that one." {
		t.Errorf("意外的沿用提示 %q", replies[0])
	}
	if !strings.Contains(replies[1], issued) {
		t.Error("重复请求应回显同一验证码")
	}
}

func TestDispatcherVerifyAlreadyLinked(t *testing.T) {
	env := newTestEnv(t, nil)
	env.users.add(&model.User{Name: "Alice", SafeName: "alice", DiscordID: int64Ptr(100)})

	replies := env.send(100, "!verify")
	if len(replies) != 1 || replies[0] != "You are already verified" {
		t.Errorf("意外的回复 %v", replies)
	}
}

func TestDispatcherCooldown(t *testing.T) {
	env := newTestEnv(t, &mockCooldown{allow: false})

	for _, cmd := range []string{"!verify", "!invite"} {
		replies := env.send(100, cmd)
		if len(replies) != 1 || replies[0] != msgCooldown {
			t.Errorf("%s 冷却期内应收到冷却提示，实际 %v", cmd, replies)
		}
	}
}

func TestDispatcherInvite(t *testing.T) {
	env := newTestEnv(t, nil)

	// 未验证
	replies := env.send(200, "!invite")
	if len(replies) != 1 || !strings.Contains(replies[0], "not verified") {
		t.Fatalf("意外的未验证回复 %v", replies)
	}

	env.users.add(&model.User{Name: "Bob", SafeName: "bob", DiscordID: int64Ptr(200), AvailableInvite: 1})

	// 最后一张：签发成功且余量归零
	replies = env.send(200, "!invite")
	if len(replies) != 2 || !strings.Contains(replies[0], "Your invite code is") {
		t.Fatalf("意外的签发回复 %v", replies)
	}
	if replies[1] != "You have 0 invites left." {
		t.Errorf("意外的余量提示 %q", replies[1])
	}

	// 余量耗尽
	replies = env.send(200, "!invite")
	if len(replies) != 1 || replies[0] != "You have no invite available." {
		t.Errorf("意外的耗尽回复 %v", replies)
	}
}

func TestDispatcherInviteUnlimited(t *testing.T) {
	env := newTestEnv(t, nil)
	env.users.add(&model.User{Name: "Carol", SafeName: "carol", DiscordID: int64Ptr(300), AvailableInvite: 0})

	replies := env.send(300, "!invite", service.Role{ID: "role-donor"})
	if len(replies) != 2 {
		t.Fatalf("期望 2 条回复，实际 %v", replies)
	}
	if replies[1] != "Thanks to your generous. You have unlimited invites." {
		t.Errorf("意外的特权提示 %q", replies[1])
	}
	// 特权签发不触碰余量
	if u, _ := env.users.GetByDiscordID(context.Background(), 300); u.AvailableInvite != 0 {
		t.Errorf("特权签发后余量应保持 0，实际 %d", u.AvailableInvite)
	}
}

func TestDispatcherRegisterRoundTrip(t *testing.T) {
	env := newTestEnv(t, nil)
	env.users.add(&model.User{Name: "Alice", SafeName: "alice", DiscordID: int64Ptr(100), AvailableInvite: 3})

	// 好友 Alice 先签发邀请码
	env.send(100, "!invite")
	var code string
	for c := range env.invites.codes {
		code = c
	}
	if code == "" {
		t.Fatal("邀请码未入库")
	}

	// 注册成功时游戏服务器落库新账号
	env.creator.onSuccess = func(username string) {
		env.users.add(&model.User{Name: username, SafeName: service.MakeSafeName(username)})
	}

	steps := []struct {
		input string
		want  string
	}{
		{"!register", "Please enter your invite code."},
		{code, "Please enter your username."},
		{"NewPlayer", "Please enter your password."},
		{"hunter2", "Please enter your email."},
		{"new@example.com", "Your account has been created. Please use !verify to verify your account."},
	}
	for _, step := range steps {
		replies := env.send(400, step.input)
		if len(replies) != 1 || replies[0] != step.want {
			t.Fatalf("输入 %q 期望 %q，实际 %v", step.input, step.want, replies)
		}
	}

	if env.creator.calls != 1 {
		t.Errorf("外部创建接口应被调用一次，实际 %d", env.creator.calls)
	}

	// 邀请码已被标记兑换，二次兑换被拒
	if env.invites.codes[code].UsedBy == nil {
		t.Fatal("注册成功后邀请码应标记兑换人")
	}
	replies := env.send(500, "!register")
	replies = env.send(500, code)
	if len(replies) != 1 || replies[0] != "Invite code already used." {
		t.Errorf("二次兑换应被拒绝，实际 %v", replies)
	}
}

func TestDispatcherRegisterInvalidCode(t *testing.T) {
	env := newTestEnv(t, nil)

	env.send(400, "!register")
	replies := env.send(400, "deadbeef00000000")
	if len(replies) != 1 || replies[0] != "Invalid invite code." {
		t.Fatalf("意外的回复 %v", replies)
	}
	// 校验失败即终结会话
	if env.sessions.Active(400) {
		t.Error("邀请码校验失败后会话应已终结")
	}
	if env.creator.calls != 0 {
		t.Error("校验失败不应触达外部创建接口")
	}
}

func TestDispatcherRename(t *testing.T) {
	env := newTestEnv(t, nil)

	// 未验证用户不开启会话
	replies := env.send(600, "!rename")
	if len(replies) != 1 || !strings.Contains(replies[0], "not verified") {
		t.Fatalf("意外的未验证回复 %v", replies)
	}
	if env.sessions.Active(600) {
		t.Fatal("未验证用户不应进入改名会话")
	}

	env.users.add(&model.User{Name: "Dave", SafeName: "dave", DiscordID: int64Ptr(600)})

	replies = env.send(600, "!rename")
	if len(replies) != 1 || !strings.Contains(replies[0], "Please enter your new username.") {
		t.Fatalf("意外的开场回复 %v", replies)
	}

	// 不合规候选名留在会话中重试
	replies = env.send(600, "x")
	if len(replies) != 1 || replies[0] != "That username doesn't follow the rules. Please try another one." {
		t.Fatalf("意外的回复 %v", replies)
	}
	if !env.sessions.Active(600) {
		t.Fatal("候选名不合规时会话应保留")
	}

	replies = env.send(600, "Dave the 2nd")
	if len(replies) != 1 || replies[0] != "Your username has been changed to Dave the 2nd." {
		t.Fatalf("意外的回复 %v", replies)
	}
	u, _ := env.users.GetByDiscordID(context.Background(), 600)
	if u.Name != "Dave the 2nd" || u.SafeName != "dave_the_2nd" {
		t.Errorf("改名未落库，name=%q safe_name=%q", u.Name, u.SafeName)
	}
}

func TestDispatcherFindme(t *testing.T) {
	env := newTestEnv(t, nil)
	env.users.add(&model.User{Name: "Eve", SafeName: "eve", Email: "eve@example.com"})

	env.send(700, "!findme")
	replies := env.send(700, "eve@example.com")
	if len(replies) != 1 || replies[0] != "Your username is Eve" {
		t.Errorf("意外的回复 %v", replies)
	}

	env.send(700, "!findme")
	replies = env.send(700, "nobody@example.com")
	if len(replies) != 1 || replies[0] != "No account found." {
		t.Errorf("意外的回复 %v", replies)
	}
}
