package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stiendat/osuvnfc-discord-bot/internal/model"
)

// UserRepository 游戏账号数据访问接口
type UserRepository interface {
	GetByDiscordID(ctx context.Context, discordID int64) (*model.User, error)
	// GetByDiscordIDForUpdate 使用 SELECT ... FOR UPDATE 行级锁查询，防止并发签发竞争同一余量
	GetByDiscordIDForUpdate(ctx context.Context, discordID int64) (*model.User, error)
	GetBySafeName(ctx context.Context, safeName string) (*model.User, error)
	GetByName(ctx context.Context, name string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateName(ctx context.Context, id int, name, safeName string) error
	// DecrementInvites 原子扣减邀请余量；余量为 0 时不生效并返回 false
	DecrementInvites(ctx context.Context, id int) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByDiscordID(ctx context.Context, discordID int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("discord_id = ?", discordID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByDiscordIDForUpdate 必须在已有事务的 *gorm.DB 上调用（通过 Repository.WithTx 注入事务连接）
func (r *userRepo) GetByDiscordIDForUpdate(ctx context.Context, discordID int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("discord_id = ?", discordID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetBySafeName 按规范化用户名查询（注册流程的大小写不敏感查重入口）
func (r *userRepo) GetBySafeName(ctx context.Context, safeName string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("safe_name = ?", safeName).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByName 按展示名精确查询（rename 流程沿用大小写敏感比较）
func (r *userRepo) GetByName(ctx context.Context, name string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateName 同步更新展示名与规范化名
func (r *userRepo) UpdateName(ctx context.Context, id int, name, safeName string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":      name,
			"safe_name": safeName,
		}).Error
}

// DecrementInvites 条件化 UPDATE：余量耗尽时 RowsAffected 为 0，余量不会变负
func (r *userRepo) DecrementInvites(ctx context.Context, id int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND available_invite > 0", id).
		Update("available_invite", gorm.Expr("available_invite - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error
	return total, err
}
