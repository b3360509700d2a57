package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"marketsync_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// AccountRepository 同步账号仓储接口
type AccountRepository interface {
	Create(ctx context.Context, acc *model.SyncAccount) error
	GetByID(ctx context.Context, id int64) (*model.SyncAccount, error)
	Update(ctx context.Context, acc *model.SyncAccount) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error

	// 列表查询
	List(ctx context.Context, filter AccountFilter) ([]model.SyncAccount, int64, error)
	ListActive(ctx context.Context) ([]model.SyncAccount, error)
	ListByMarketplace(ctx context.Context, marketplace string) ([]model.SyncAccount, error)

	// Token 状态
	UpdateTokenStatus(ctx context.Context, id int64, tokenStatus string) error
	FindExpiringAccounts(ctx context.Context, within time.Duration) ([]model.SyncAccount, error)
	MarkSynced(ctx context.Context, id int64) error
}

// ==================== 过滤条件 ====================

// AccountFilter 账号过滤条件
type AccountFilter struct {
	Marketplace string
	Status      int // -1 表示不筛选
	Name        string
	Page        int
	PageSize    int
}

// ==================== 仓储实现 ====================

type accountRepo struct {
	db *gorm.DB
}

// NewAccountRepository 创建账号仓储
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) Create(ctx context.Context, acc *model.SyncAccount) error {
	return r.db.WithContext(ctx).Create(acc).Error
}

func (r *accountRepo) GetByID(ctx context.Context, id int64) (*model.SyncAccount, error) {
	var acc model.SyncAccount
	if err := r.db.WithContext(ctx).First(&acc, id).Error; err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *accountRepo) Update(ctx context.Context, acc *model.SyncAccount) error {
	return r.db.WithContext(ctx).Save(acc).Error
}

func (r *accountRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.SyncAccount{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *accountRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.SyncAccount{}, id).Error
}

func (r *accountRepo) List(ctx context.Context, filter AccountFilter) ([]model.SyncAccount, int64, error) {
	var accounts []model.SyncAccount
	var total int64

	query := r.db.WithContext(ctx).Model(&model.SyncAccount{})
	if filter.Marketplace != "" {
		query = query.Where("marketplace = ?", filter.Marketplace)
	}
	if filter.Status >= 0 {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Name != "" {
		query = query.Where("name LIKE ?", "%"+filter.Name+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	err := query.Order("updated_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&accounts).Error

	return accounts, total, err
}

func (r *accountRepo) ListActive(ctx context.Context) ([]model.SyncAccount, error) {
	var accounts []model.SyncAccount
	err := r.db.WithContext(ctx).
		Where("status = ?", model.AccountStatusActive).
		Find(&accounts).Error
	return accounts, err
}

func (r *accountRepo) ListByMarketplace(ctx context.Context, marketplace string) ([]model.SyncAccount, error) {
	var accounts []model.SyncAccount
	err := r.db.WithContext(ctx).
		Where("marketplace = ?", marketplace).
		Find(&accounts).Error
	return accounts, err
}

func (r *accountRepo) UpdateTokenStatus(ctx context.Context, id int64, tokenStatus string) error {
	return r.db.WithContext(ctx).
		Model(&model.SyncAccount{}).
		Where("id = ?", id).
		Update("token_status", tokenStatus).Error
}

// FindExpiringAccounts 查出 Token 即将过期的正常账号（OAuth 平台专用）
func (r *accountRepo) FindExpiringAccounts(ctx context.Context, within time.Duration) ([]model.SyncAccount, error) {
	var accounts []model.SyncAccount
	threshold := time.Now().Add(within)
	err := r.db.WithContext(ctx).
		Where("status = ?", model.AccountStatusActive).
		Where("marketplace IN ?", []string{model.MarketplaceAmazon, model.MarketplaceEbay}).
		Where("token_expires_at < ?", threshold).
		Find(&accounts).Error
	return accounts, err
}

func (r *accountRepo) MarkSynced(ctx context.Context, id int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&model.SyncAccount{}).
		Where("id = ?", id).
		Update("last_synced_at", &now).Error
}
