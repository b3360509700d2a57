package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"marketsync_v1_202608/internal/model"
	"marketsync_v1_202608/internal/repository"
)

// ==================== 测试模型 ====================

// sqlite 友好的表结构，表名与生产一致
type testAccount struct {
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

func (testAccount) TableName() string { return "sync_accounts" }

type testProductRow struct {
	ID           int64 `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
	AccountID    int64          `gorm:"uniqueIndex:idx_account_sku"`
	SKU          string         `gorm:"uniqueIndex:idx_account_sku"`
	SyncStatus   int
	RemoteID     string
	State        string
	Title        string
	Description  string
	Brand        string
	Condition    string
	PriceAmount  string
	CurrencyCode string
	Quantity     int
	Images       *string
	Attributes   *string
	LastError    string
}

func (testProductRow) TableName() string { return "products" }

func setupSyncTest(t *testing.T, gatewayURL string) (*SyncService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&testAccount{}, &testProductRow{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}

	db.Create(&testAccount{
		ID:          1,
		Name:        "ty-store",
		Marketplace: model.MarketplaceTrendyol,
		SellerID:    "1001",
		APIKey:      "key",
		APISecret:   "secret",
		Status:      model.AccountStatusActive,
		Settings:    `{"endpoint":"` + gatewayURL + `"}`,
	})

	svc := NewSyncService(
		repository.NewAccountRepository(db),
		repository.NewProductRepository(db),
		NewRegistryService(nil),
		nil,
	)
	return svc, db
}

// 最小平台网关：创建回执 batch id，列表回吐一个商品
func newSyncGateway(t *testing.T, failCreate bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/integration/product/sellers/1001/products", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			if failCreate {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"errors":[{"key":"barcode","message":"barcode invalid"}]}`))
				return
			}
			w.Write([]byte(`{"batchRequestId":"batch-42"}`))
			return
		}
		w.Write([]byte(`{"totalElements":1,"totalPages":1,"page":0,"size":50,"content":[{"barcode":"SKU-PULL","title":"Pulled Mug","quantity":4,"salePrice":9.9,"listPrice":9.9,"approved":true,"onSale":true,"id":"remote-9"}]}`))
	})
	return httptest.NewServer(mux)
}

// ==================== 单元测试 ====================

func TestPushPendingProducts(t *testing.T) {
	server := newSyncGateway(t, false)
	defer server.Close()
	svc, db := setupSyncTest(t, server.URL)

	db.Create(&testProductRow{ID: 1, AccountID: 1, SKU: "A", Title: "First", SyncStatus: model.SyncStatusPending, PriceAmount: "10"})
	db.Create(&testProductRow{ID: 2, AccountID: 1, SKU: "B", Title: "Second", SyncStatus: model.SyncStatusPending, PriceAmount: "12"})

	result, err := svc.PushPendingProducts(context.Background(), 1)
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Succeeded)

	// 每条商品的批次回执要回写成 remote id
	var rows []testProductRow
	db.Order("id").Find(&rows)
	for _, row := range rows {
		assert.Equal(t, model.SyncStatusSynced, row.SyncStatus, "sku %s", row.SKU)
		assert.Equal(t, "batch-42", row.RemoteID, "sku %s", row.SKU)
	}

	// 账号最后同步时间要更新
	var acc testAccount
	db.First(&acc, 1)
	assert.NotNil(t, acc.LastSyncedAt)
}

func TestPushPendingProducts_RecordsFailure(t *testing.T) {
	server := newSyncGateway(t, true)
	defer server.Close()
	svc, db := setupSyncTest(t, server.URL)

	db.Create(&testProductRow{ID: 1, AccountID: 1, SKU: "A", Title: "First", SyncStatus: model.SyncStatusPending, PriceAmount: "10"})

	result, err := svc.PushPendingProducts(context.Background(), 1)
	assert.NoError(t, err, "单条失败不上抛，落在批次结果里")
	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Failed)

	var row testProductRow
	db.First(&row, 1)
	assert.Equal(t, model.SyncStatusFailed, row.SyncStatus)
	assert.NotEmpty(t, row.LastError)
}

func TestPushPendingProducts_EmptyQueue(t *testing.T) {
	server := newSyncGateway(t, false)
	defer server.Close()
	svc, _ := setupSyncTest(t, server.URL)

	result, err := svc.PushPendingProducts(context.Background(), 1)
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 0, result.Total)
}

func TestPullProducts(t *testing.T) {
	server := newSyncGateway(t, false)
	defer server.Close()
	svc, db := setupSyncTest(t, server.URL)

	count, err := svc.PullProducts(context.Background(), 1, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	var row testProductRow
	err = db.Where("account_id = ? AND sku = ?", 1, "SKU-PULL").First(&row).Error
	assert.NoError(t, err)
	assert.Equal(t, "Pulled Mug", row.Title)
	assert.Equal(t, 4, row.Quantity)
	assert.Equal(t, model.SyncStatusSynced, row.SyncStatus)
}

func TestPushPendingProducts_UnknownAccount(t *testing.T) {
	server := newSyncGateway(t, false)
	defer server.Close()
	svc, _ := setupSyncTest(t, server.URL)

	_, err := svc.PushPendingProducts(context.Background(), 404)
	assert.Error(t, err, "不存在的账号应报错")
}
