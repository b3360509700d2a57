package service

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"marketsync_v1_202608/internal/adapter"
	"marketsync_v1_202608/internal/adapter/amazon"
	"marketsync_v1_202608/internal/adapter/ebay"
	"marketsync_v1_202608/internal/adapter/shopify"
	"marketsync_v1_202608/internal/adapter/trendyol"
	"marketsync_v1_202608/internal/auth"
	"marketsync_v1_202608/internal/model"
)

// ==================== RegistryService 适配器注册中心 ====================

// accountSettings 账号 Settings JSON 的松散字段
// 各平台只认自己的键，未知键忽略
type accountSettings struct {
	MarketplaceID     string `json:"marketplace_id"`     // amazon / ebay
	FulfillmentPolicy string `json:"fulfillment_policy"` // ebay
	PaymentPolicy     string `json:"payment_policy"`     // ebay
	ReturnPolicy      string `json:"return_policy"`      // ebay
	MerchantLocation  string `json:"merchant_location"`  // ebay
	Endpoint          string `json:"endpoint"`           // 测试/代理覆盖
	TokenEndpoint     string `json:"token_endpoint"`
}

// RegistryService 按账号构建并缓存 adapter 实例
// adapter 持有的 Config 不可变，账号凭证变更后必须 Invalidate 重建
type RegistryService struct {
	log *zap.SugaredLogger

	mu        sync.RWMutex
	instances map[int64]adapter.MarketplaceAdapter
}

func NewRegistryService(log *zap.SugaredLogger) *RegistryService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &RegistryService{
		log:       log,
		instances: make(map[int64]adapter.MarketplaceAdapter),
	}
}

// Get 取账号的 adapter，没有则构建并缓存
func (s *RegistryService) Get(acc *model.SyncAccount) (adapter.MarketplaceAdapter, error) {
	s.mu.RLock()
	if inst, ok := s.instances[acc.ID]; ok {
		s.mu.RUnlock()
		return inst, nil
	}
	s.mu.RUnlock()

	inst, err := s.Build(acc)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.instances[acc.ID] = inst
	s.mu.Unlock()
	return inst, nil
}

// Invalidate 账号凭证/配置变更后丢弃旧实例
func (s *RegistryService) Invalidate(accountID int64) {
	s.mu.Lock()
	delete(s.instances, accountID)
	s.mu.Unlock()
}

// Refresher 取账号 adapter 的 token 刷新能力，静态密钥平台返回 false
func (s *RegistryService) Refresher(acc *model.SyncAccount) (auth.Refresher, bool) {
	inst, err := s.Get(acc)
	if err != nil {
		return nil, false
	}
	type refreshable interface {
		Refresher() auth.Refresher
	}
	if r, ok := inst.(refreshable); ok {
		return r.Refresher(), true
	}
	return nil, false
}

// Build 账号 -> adapter，凭证一次性固化进平台 Config
func (s *RegistryService) Build(acc *model.SyncAccount) (adapter.MarketplaceAdapter, error) {
	var settings accountSettings
	if len(acc.Settings) > 0 {
		if err := json.Unmarshal(acc.Settings, &settings); err != nil {
			return nil, fmt.Errorf("账号 [%s] settings 解析失败: %w", acc.Name, err)
		}
	}

	switch acc.Marketplace {
	case model.MarketplaceAmazon:
		return amazon.New(amazon.Config{
			SellerID:      acc.SellerID,
			MarketplaceID: settings.MarketplaceID,
			Region:        acc.Region,
			ClientID:      acc.APIKey,
			ClientSecret:  acc.APISecret,
			RefreshToken:  acc.RefreshToken,
			Currency:      acc.CurrencyCode,
			Endpoint:      settings.Endpoint,
			TokenEndpoint: settings.TokenEndpoint,
		}, s.log), nil

	case model.MarketplaceEbay:
		return ebay.New(ebay.Config{
			ClientID:          acc.APIKey,
			ClientSecret:      acc.APISecret,
			Environment:       acc.Environment,
			MarketplaceID:     settings.MarketplaceID,
			FulfillmentPolicy: settings.FulfillmentPolicy,
			PaymentPolicy:     settings.PaymentPolicy,
			ReturnPolicy:      settings.ReturnPolicy,
			MerchantLocation:  settings.MerchantLocation,
			Currency:          acc.CurrencyCode,
			Endpoint:          settings.Endpoint,
			TokenEndpoint:     settings.TokenEndpoint,
		}, s.log), nil

	case model.MarketplaceTrendyol:
		return trendyol.New(trendyol.Config{
			SupplierID: acc.SellerID,
			APIKey:     acc.APIKey,
			APISecret:  acc.APISecret,
			Operator:   acc.Region,
			Currency:   acc.CurrencyCode,
			Endpoint:   settings.Endpoint,
		}, s.log), nil

	case model.MarketplaceShopify:
		return shopify.New(shopify.Config{
			StoreDomain: acc.StoreDomain,
			AccessToken: acc.APIKey,
			Currency:    acc.CurrencyCode,
			Endpoint:    settings.Endpoint,
		}, s.log), nil
	}

	return nil, fmt.Errorf("不支持的平台: %q", acc.Marketplace)
}
