package repository

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"marketsync_v1_202608/internal/model"
)

// ==================== 测试模型 ====================

// 测试用账号表（sqlite 友好的列类型，表名与生产一致）
type testSyncAccount struct {
	ID             int64 `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
	Name           string
	Marketplace    string
	SellerID       string
	Region         string
	Environment    string
	APIKey         string
	APISecret      string
	RefreshToken   string
	StoreDomain    string
	CurrencyCode   string
	Locale         string
	Settings       string
	Status         int
	TokenStatus    string
	TokenExpiresAt time.Time
	LastSyncedAt   *time.Time
}

func (testSyncAccount) TableName() string { return "sync_accounts" }

func setupAccountTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&testSyncAccount{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

// ==================== 单元测试 ====================

func TestAccountRepo_FindExpiringAccounts(t *testing.T) {
	db := setupAccountTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	now := time.Now()
	seed := []testSyncAccount{
		// 命中：OAuth 平台 + 启用 + 即将过期
		{ID: 1, Name: "amz-soon", Marketplace: model.MarketplaceAmazon, Status: model.AccountStatusActive, TokenExpiresAt: now.Add(30 * time.Minute)},
		{ID: 2, Name: "ebay-soon", Marketplace: model.MarketplaceEbay, Status: model.AccountStatusActive, TokenExpiresAt: now.Add(time.Hour)},
		// 不命中：过期时间在窗口之外
		{ID: 3, Name: "amz-fresh", Marketplace: model.MarketplaceAmazon, Status: model.AccountStatusActive, TokenExpiresAt: now.Add(48 * time.Hour)},
		// 不命中：静态密钥平台没有 token 生命周期
		{ID: 4, Name: "ty", Marketplace: model.MarketplaceTrendyol, Status: model.AccountStatusActive, TokenExpiresAt: now.Add(-time.Hour)},
		// 不命中：已停用
		{ID: 5, Name: "amz-off", Marketplace: model.MarketplaceAmazon, Status: model.AccountStatusInactive, TokenExpiresAt: now.Add(-time.Hour)},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("写入测试数据失败: %v", err)
		}
	}

	got, err := repo.FindExpiringAccounts(ctx, 2*time.Hour)
	if err != nil {
		t.Fatalf("FindExpiringAccounts() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("命中账号数 = %d, want 2: %+v", len(got), got)
	}
	for _, acc := range got {
		if acc.Marketplace != model.MarketplaceAmazon && acc.Marketplace != model.MarketplaceEbay {
			t.Errorf("静态密钥平台混入结果: %s", acc.Marketplace)
		}
	}
}

func TestAccountRepo_UpdateTokenStatus(t *testing.T) {
	db := setupAccountTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	db.Create(&testSyncAccount{ID: 1, Name: "a", Marketplace: model.MarketplaceAmazon, TokenStatus: model.TokenStatusValid})

	if err := repo.UpdateTokenStatus(ctx, 1, model.TokenStatusInvalid); err != nil {
		t.Fatalf("UpdateTokenStatus() error = %v", err)
	}

	var got testSyncAccount
	db.First(&got, 1)
	if got.TokenStatus != model.TokenStatusInvalid {
		t.Errorf("token_status = %s, want %s", got.TokenStatus, model.TokenStatusInvalid)
	}
}

func TestAccountRepo_ListActive(t *testing.T) {
	db := setupAccountTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	db.Create(&testSyncAccount{ID: 1, Name: "on", Marketplace: model.MarketplaceEbay, Status: model.AccountStatusActive})
	db.Create(&testSyncAccount{ID: 2, Name: "off", Marketplace: model.MarketplaceEbay, Status: model.AccountStatusInactive})
	db.Create(&testSyncAccount{ID: 3, Name: "pending", Marketplace: model.MarketplaceEbay, Status: model.AccountStatusPending})

	got, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "on" {
		t.Errorf("active accounts = %+v, want only [on]", got)
	}
}

func TestAccountRepo_MarkSynced(t *testing.T) {
	db := setupAccountTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	db.Create(&testSyncAccount{ID: 1, Name: "a", Marketplace: model.MarketplaceShopify})

	if err := repo.MarkSynced(ctx, 1); err != nil {
		t.Fatalf("MarkSynced() error = %v", err)
	}

	var got testSyncAccount
	db.First(&got, 1)
	if got.LastSyncedAt == nil {
		t.Error("last_synced_at 应被写入")
	}
}

func TestAccountRepo_ListFilters(t *testing.T) {
	db := setupAccountTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	db.Create(&testSyncAccount{ID: 1, Name: "us-store", Marketplace: model.MarketplaceAmazon, Status: model.AccountStatusActive})
	db.Create(&testSyncAccount{ID: 2, Name: "de-store", Marketplace: model.MarketplaceEbay, Status: model.AccountStatusActive})

	got, total, err := repo.List(ctx, AccountFilter{Marketplace: model.MarketplaceAmazon, Status: -1})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].Name != "us-store" {
		t.Errorf("got total=%d rows=%+v", total, got)
	}

	got, total, _ = repo.List(ctx, AccountFilter{Name: "store", Status: -1})
	if total != 2 {
		t.Errorf("name fuzzy match total = %d, want 2", total)
	}
	_ = got
}
