package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketsync_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// ProductRepository 商品仓储接口
type ProductRepository interface {
	// 基础 CRUD
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	GetBySKU(ctx context.Context, accountID int64, sku string) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)

	// 同步相关
	ListPendingSync(ctx context.Context, accountID int64, limit int) ([]model.Product, error)
	MarkSyncResult(ctx context.Context, id int64, status int, remoteID, errMsg string) error

	// 批量操作
	BatchUpsert(ctx context.Context, products []model.Product) error
}

// ==================== 过滤条件 ====================

// ProductFilter 商品过滤条件
type ProductFilter struct {
	AccountID int64
	State     string
	SKU       string
	Page      int
	PageSize  int
}

// ==================== 仓储实现 ====================

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) GetBySKU(ctx context.Context, accountID int64, sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND sku = ?", accountID, sku).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

func (r *productRepo) List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.AccountID > 0 {
		query = query.Where("account_id = ?", filter.AccountID)
	}
	if filter.State != "" {
		query = query.Where("state = ?", filter.State)
	}
	if filter.SKU != "" {
		query = query.Where("sku = ?", filter.SKU)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	err := query.Order("updated_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&products).Error

	return products, total, err
}

// ListPendingSync 查出待推送商品（供 SyncService 批量下发）
func (r *productRepo) ListPendingSync(ctx context.Context, accountID int64, limit int) ([]model.Product, error) {
	var products []model.Product
	query := r.db.WithContext(ctx).
		Where("account_id = ? AND sync_status = ?", accountID, model.SyncStatusPending)
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Order("updated_at ASC").Find(&products).Error
	return products, err
}

// MarkSyncResult 回写单个商品的推送结果
func (r *productRepo) MarkSyncResult(ctx context.Context, id int64, status int, remoteID, errMsg string) error {
	fields := map[string]interface{}{
		"sync_status": status,
		"last_error":  errMsg,
	}
	if remoteID != "" {
		fields["remote_id"] = remoteID
	}
	return r.UpdateFields(ctx, id, fields)
}

// BatchUpsert 批量入库，account_id+sku 冲突时更新业务字段
func (r *productRepo) BatchUpsert(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account_id"}, {Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "brand", "condition", "state", "remote_id",
			"price_amount", "currency_code", "quantity", "images", "attributes",
			"updated_at",
		}),
	}).Create(&products).Error
}
