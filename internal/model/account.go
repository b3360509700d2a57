package model

import (
	"time"

	"gorm.io/datatypes"
)

// 平台标识常量
const (
	MarketplaceAmazon   = "amazon"
	MarketplaceEbay     = "ebay"
	MarketplaceTrendyol = "trendyol"
	MarketplaceShopify  = "shopify"
)

// 账号状态常量
const (
	AccountStatusPending  = 0 // 待配置
	AccountStatusActive   = 1 // 正常
	AccountStatusInactive = 2 // 已停用
)

// Token 状态常量
const (
	TokenStatusValid   = "valid"        // 有效
	TokenStatusExpired = "expired"      // 已过期
	TokenStatusInvalid = "auth_invalid" // 需重新授权
)

// SyncAccount 同步账号：一行对应一个平台店铺/卖家账号
// 凭证在此处只做存取，构建 adapter 时一次性转为各平台的不可变 Config
type SyncAccount struct {
	BaseModel

	// 1. 核心身份
	Name        string `gorm:"size:100;not null"`            // 内部展示名
	Marketplace string `gorm:"size:20;index;not null"`       // amazon / ebay / trendyol / shopify
	SellerID    string `gorm:"size:100;index"`               // 平台侧卖家/店铺标识
	Region      string `gorm:"size:20;default:'na'"`         // amazon: na/eu/fe; trendyol: operator key
	Environment string `gorm:"size:20;default:'production'"` // ebay: production/sandbox

	// 2. 凭证 (静态或 OAuth 原料)
	APIKey       string `gorm:"size:255"` // client_id / apiKey / access token (按平台语义)
	APISecret    string `gorm:"size:255"` // client_secret / apiSecret
	RefreshToken string `gorm:"size:512"` // amazon LWA refresh token
	StoreDomain  string `gorm:"size:255"` // shopify *.myshopify.com

	// 3. 业务默认值
	CurrencyCode string `gorm:"size:5;default:'USD'"`
	Locale       string `gorm:"size:10;default:'en-US'"`

	// 4. 平台差异化配置 (marketplaceId, 政策 ID 等松散字段)
	Settings datatypes.JSON `gorm:"type:jsonb"`

	// 5. 同步与 Token 状态
	Status         int        `gorm:"default:0;comment:状态 0-待配置 1-正常 2-已停用"`
	TokenStatus    string     `gorm:"index;size:20;default:'auth_invalid'"`
	TokenExpiresAt time.Time  // Token 具体的过期时间点
	LastSyncedAt   *time.Time `gorm:"comment:最后同步时间"`

	// 6. 关联商品
	Products []Product `gorm:"foreignKey:AccountID"`
}

func (SyncAccount) TableName() string {
	return "sync_accounts"
}
