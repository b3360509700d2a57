package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"marketsync_v1_202608/internal/adapter"
	"marketsync_v1_202608/internal/model"
	"marketsync_v1_202608/internal/repository"
)

// ==================== SyncService 同步编排 ====================

// SyncService 本地商品库与各平台之间的双向同步编排
// 推送方向：待推送商品 -> adapter 批量下发 -> 回写每条结果
// 拉取方向：adapter 列表读取 -> 批量落库
type SyncService struct {
	accountRepo repository.AccountRepository
	productRepo repository.ProductRepository
	registry    *RegistryService
	bulk        *adapter.BulkCoordinator
	log         *zap.SugaredLogger

	pushBatchLimit int
}

func NewSyncService(
	accountRepo repository.AccountRepository,
	productRepo repository.ProductRepository,
	registry *RegistryService,
	log *zap.SugaredLogger,
) *SyncService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &SyncService{
		accountRepo:    accountRepo,
		productRepo:    productRepo,
		registry:       registry,
		bulk:           adapter.NewBulkCoordinator(log),
		log:            log,
		pushBatchLimit: 100,
	}
}

// PushPendingProducts 把账号下全部待推送商品下发到平台
// 每条结果独立回写，单条失败不影响批次内其他商品
func (s *SyncService) PushPendingProducts(ctx context.Context, accountID int64) (*adapter.BatchResult, error) {
	acc, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("账号查询失败: %w", err)
	}
	mkt, err := s.registry.Get(acc)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.ListPendingSync(ctx, accountID, s.pushBatchLimit)
	if err != nil {
		return nil, fmt.Errorf("待推送商品查询失败: %w", err)
	}
	if len(products) == 0 {
		return &adapter.BatchResult{Success: true}, nil
	}

	items := make([]adapter.BulkItem, len(products))
	for i, p := range products {
		items[i] = adapter.BulkItem{Identifier: p.SKU}
	}

	result := s.bulk.Run(ctx, items, func(ctx context.Context, i int) adapter.OperationResult {
		p := products[i]
		canonical := p.ToCanonical()

		// 平台侧已有身份走更新，否则走创建
		var res adapter.OperationResult
		if p.RemoteID != "" {
			res = mkt.UpdateProduct(ctx, canonical)
		} else {
			res = mkt.CreateProduct(ctx, canonical)
		}

		s.recordPushResult(ctx, p.ID, res)
		return res
	})

	if err := s.accountRepo.MarkSynced(ctx, accountID); err != nil {
		s.log.Warnw("账号同步时间回写失败", "account_id", accountID, "err", err)
	}
	return &result, nil
}

// recordPushResult 单条推送结果落库
// 异步平台（feed/batch）的回执只有追踪号，remote id 以 sku 兜底标记已提交
func (s *SyncService) recordPushResult(ctx context.Context, productID int64, res adapter.OperationResult) {
	status := model.SyncStatusSynced
	errMsg := ""
	remoteID := ""

	if res.Success {
		if data, ok := res.Data.(map[string]interface{}); ok {
			if v, ok := data["offer_id"].(string); ok {
				remoteID = v
			} else if v, ok := data["feed_id"].(string); ok {
				remoteID = v
			} else if v, ok := data["batch_request_id"].(string); ok {
				remoteID = v
			}
		}
		if p, ok := res.Data.(model.CanonicalProduct); ok {
			remoteID = p.RemoteID
		}
	} else {
		status = model.SyncStatusFailed
		errMsg = res.Message
	}

	if err := s.productRepo.MarkSyncResult(ctx, productID, status, remoteID, errMsg); err != nil {
		s.log.Errorw("推送结果回写失败", "product_id", productID, "err", err)
	}
}

// PullProducts 从平台拉取商品列表并落库（account_id+sku 冲突更新）
func (s *SyncService) PullProducts(ctx context.Context, accountID int64, filters adapter.Filters) (int, error) {
	acc, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("账号查询失败: %w", err)
	}
	mkt, err := s.registry.Get(acc)
	if err != nil {
		return 0, err
	}

	res := mkt.ListProducts(ctx, filters)
	if !res.Success {
		return 0, fmt.Errorf("平台商品拉取失败: %s", res.Message)
	}

	data, ok := res.Data.(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("平台商品响应格式异常")
	}
	canonicals, ok := data["products"].([]model.CanonicalProduct)
	if !ok || len(canonicals) == 0 {
		return 0, nil
	}

	rows := make([]model.Product, 0, len(canonicals))
	for _, c := range canonicals {
		rows = append(rows, canonicalToRow(accountID, c))
	}
	if err := s.productRepo.BatchUpsert(ctx, rows); err != nil {
		return 0, fmt.Errorf("商品落库失败: %w", err)
	}

	s.log.Infow("products pulled", "account_id", accountID, "marketplace", mkt.Name(), "count", len(rows))
	return len(rows), nil
}

// canonicalToRow 统一模型 -> 持久层行（ToCanonical 的逆）
func canonicalToRow(accountID int64, c model.CanonicalProduct) model.Product {
	var attrs datatypes.JSON
	if len(c.Attributes) > 0 {
		if b, err := json.Marshal(c.Attributes); err == nil {
			attrs = b
		}
	}
	return model.Product{
		AccountID:    accountID,
		SKU:          c.SKU,
		SyncStatus:   model.SyncStatusSynced,
		RemoteID:     c.RemoteID,
		State:        c.Status,
		Title:        c.Title,
		Description:  c.Description,
		Brand:        c.Brand,
		Condition:    c.Condition,
		PriceAmount:  c.Price,
		CurrencyCode: c.Currency,
		Quantity:     c.Quantity,
		Images:       pq.StringArray(c.Images),
		Attributes:   attrs,
	}
}

// PushInventory 把本地数量批量推到平台
func (s *SyncService) PushInventory(ctx context.Context, accountID int64, records []model.CanonicalInventoryRecord) (*adapter.BatchResult, error) {
	acc, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("账号查询失败: %w", err)
	}
	mkt, err := s.registry.Get(acc)
	if err != nil {
		return nil, err
	}

	items := make([]adapter.BulkItem, len(records))
	for i, r := range records {
		items[i] = adapter.BulkItem{Identifier: r.SKU}
	}
	result := s.bulk.Run(ctx, items, func(ctx context.Context, i int) adapter.OperationResult {
		return mkt.UpdateInventory(ctx, records[i])
	})
	return &result, nil
}

// CheckConnections 对全部启用账号做连通性探测，返回 account_id -> 结果
func (s *SyncService) CheckConnections(ctx context.Context) (map[int64]adapter.OperationResult, error) {
	accounts, err := s.accountRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("账号列表查询失败: %w", err)
	}

	results := make(map[int64]adapter.OperationResult, len(accounts))
	for _, acc := range accounts {
		mkt, err := s.registry.Get(&acc)
		if err != nil {
			results[acc.ID] = adapter.Fail(adapter.KindConfigurationInvalid, 0, err.Error())
			continue
		}
		res := mkt.TestConnection(ctx)
		results[acc.ID] = res

		// 鉴权失败顺手降级 token 状态，供保活任务和运营侧甄别
		if res.ErrorKind == adapter.KindAuthenticationFailed {
			if err := s.accountRepo.UpdateTokenStatus(ctx, acc.ID, model.TokenStatusInvalid); err != nil {
				s.log.Warnw("token 状态回写失败", "account_id", acc.ID, "err", err)
			}
		}
	}
	return results, nil
}
