package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"marketsync_v1_202608/internal/model"
	"marketsync_v1_202608/internal/repository"
	"marketsync_v1_202608/internal/service"
	"marketsync_v1_202608/internal/task"
	"marketsync_v1_202608/pkg/database"
)

func main() {
	// ------------------------------------------------
	// 1. 日志
	// ------------------------------------------------
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	// ------------------------------------------------
	// 2. 数据库连接与迁移
	// ------------------------------------------------
	db := database.InitDB(database.DSNFromEnv(),
		&model.SyncAccount{},
		&model.Product{},
	)

	// ------------------------------------------------
	// 3. 依赖装配
	// ------------------------------------------------
	accountRepo := repository.NewAccountRepository(db)
	productRepo := repository.NewProductRepository(db)

	registry := service.NewRegistryService(log)
	syncSvc := service.NewSyncService(accountRepo, productRepo, registry, log)

	// ------------------------------------------------
	// 4. 启动期连通性体检
	// ------------------------------------------------
	{
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		results, err := syncSvc.CheckConnections(ctx)
		cancel()
		if err != nil {
			log.Warnw("启动期连通性检查失败", "err", err)
		}
		for accountID, res := range results {
			if res.Success {
				log.Infow("账号连通正常", "account_id", accountID)
			} else {
				log.Warnw("账号连通异常", "account_id", accountID, "kind", res.ErrorKind, "msg", res.Message)
			}
		}
	}

	// ------------------------------------------------
	// 5. Token 保活任务
	// ------------------------------------------------
	tokenTask := task.NewTokenTask(accountRepo, registry, log)
	tokenTask.Start()

	log.Info("marketsync 已启动")

	// ------------------------------------------------
	// 6. 等待退出信号
	// ------------------------------------------------
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	tokenTask.Stop()
	log.Info("marketsync 已退出")
}
