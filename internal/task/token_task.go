package task

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"marketsync_v1_202608/internal/model"
	"marketsync_v1_202608/internal/repository"
	"marketsync_v1_202608/internal/service"
)

// TokenTask OAuth 平台的 token 保活任务
// 只覆盖 amazon / ebay 这类有刷新生命周期的账号，静态密钥平台不在查询范围内
type TokenTask struct {
	AccountRepo repository.AccountRepository
	Registry    *service.RegistryService
	Cron        *cron.Cron
	log         *zap.SugaredLogger

	// 控制并发探测的数量，防止把本地带宽打满
	concurrencyLimit int
	sleepTime        time.Duration
	expiryWindow     time.Duration
}

func NewTokenTask(accountRepo repository.AccountRepository, registry *service.RegistryService, log *zap.SugaredLogger) *TokenTask {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &TokenTask{
		AccountRepo:      accountRepo,
		Registry:         registry,
		Cron:             cron.New(cron.WithSeconds()), // 支持秒级控制
		log:              log,
		concurrencyLimit: 20,
		sleepTime:        50 * time.Millisecond, // 每个协程启动间隔，平滑波峰
		expiryWindow:     2 * time.Hour,         // 提前量：2 小时内要过期的都刷
	}
}

// Start 启动定时任务
func (t *TokenTask) Start() {
	// 首次执行
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		t.log.Info("服务启动，正在执行首次 Token 检查...")
		t.refreshJob(ctx)
	}()

	// 定时策略
	_, err := t.Cron.AddFunc("0 0/40 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		t.refreshJob(ctx)
	})
	if err != nil {
		t.log.Fatalf("无法启动 Token 定时任务: %v", err)
	}

	t.Cron.Start()
	t.log.Info("Token 保活任务已启动 (每40分钟检查一次)")
}

// Stop 停止定时任务
func (t *TokenTask) Stop() {
	t.Cron.Stop()
}

// 自动刷新逻辑
func (t *TokenTask) refreshJob(ctx context.Context) {
	accounts, err := t.AccountRepo.FindExpiringAccounts(ctx, t.expiryWindow)
	if err != nil {
		t.log.Errorw("账号过期状态查询失败", "err", err)
		return
	}
	if len(accounts) == 0 {
		return
	}

	// 信号量通道，容量即为并发上限
	sem := make(chan struct{}, t.concurrencyLimit)
	var wg sync.WaitGroup

	t.log.Infow("开始处理 Token 刷新", "count", len(accounts), "concurrency", t.concurrencyLimit)

	for _, acc := range accounts {
		select {
		case <-ctx.Done():
			t.log.Warn("Token 刷新任务超时停止")
			return
		default:
		}

		sem <- struct{}{}
		wg.Add(1)

		// 平滑波峰
		time.Sleep(t.sleepTime)

		go func(a model.SyncAccount) {
			defer wg.Done()
			defer func() { <-sem }()

			t.refreshOne(ctx, &a)
		}(acc)
	}

	wg.Wait()
	t.log.Info("本轮 Token 刷新任务完成")
}

// refreshOne 刷单个账号并回写状态
func (t *TokenTask) refreshOne(ctx context.Context, acc *model.SyncAccount) {
	refresher, ok := t.Registry.Refresher(acc)
	if !ok {
		// 静态密钥平台混进查询结果属于数据问题，记一条即可
		t.log.Debugw("账号无刷新能力，跳过", "account_id", acc.ID, "marketplace", acc.Marketplace)
		return
	}

	if err := refresher.ForceRefresh(ctx); err != nil {
		t.log.Warnw("账号刷新失败", "account", acc.Name, "err", err)
		if uerr := t.AccountRepo.UpdateTokenStatus(ctx, acc.ID, model.TokenStatusInvalid); uerr != nil {
			t.log.Errorw("token 状态回写失败", "account_id", acc.ID, "err", uerr)
		}
		return
	}

	fields := map[string]interface{}{
		"token_status":     model.TokenStatusValid,
		"token_expires_at": refresher.ExpiresAt(),
	}
	if err := t.AccountRepo.UpdateFields(ctx, acc.ID, fields); err != nil {
		t.log.Errorw("token 过期时间回写失败", "account_id", acc.ID, "err", err)
	}
}
