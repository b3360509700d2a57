package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// 批量执行默认参数：超过 5 个才开始限速，限速间隔 500ms
// 串行执行是刻意设计（尊重平台 QPS 限制），不是偷懒
const (
	defaultPacingThreshold = 5
	defaultPacingInterval  = 500 * time.Millisecond
)

// BulkItem 批量输入的一项
type BulkItem struct {
	Identifier string // 业务标识（通常为 sku），写进失败记录
}

// BulkFunc 单项执行函数，下标对应输入切片的原始位置
type BulkFunc func(ctx context.Context, index int) OperationResult

// BulkCoordinator 批量操作协调器：串行下发 + 限速 + 逐项记账
type BulkCoordinator struct {
	threshold int
	interval  time.Duration
	log       *zap.SugaredLogger
}

func NewBulkCoordinator(log *zap.SugaredLogger) *BulkCoordinator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &BulkCoordinator{
		threshold: defaultPacingThreshold,
		interval:  defaultPacingInterval,
		log:       log,
	}
}

// Run 顺序执行 N 项写操作
// 聚合结果满足：Succeeded+Failed == Total；Success == (Failed == 0)
// ctx 取消时在"步与步之间"中止，绝不打断进行中的单次调用；
// 未执行到的项按取消原因记为失败，保证记账完整
func (b *BulkCoordinator) Run(ctx context.Context, items []BulkItem, fn BulkFunc) BatchResult {
	result := BatchResult{
		BatchID: uuid.NewString(),
		Total:   len(items),
	}

	// 小批量不限速；超过阈值后用令牌桶匀速下发
	var limiter *rate.Limiter
	if len(items) > b.threshold {
		limiter = rate.NewLimiter(rate.Every(b.interval), 1)
	}

	// cancelFrom 从第 i 项起全部按取消记失败，保证记账完整
	cancelFrom := func(i int, err error) {
		b.log.Warnw("bulk run cancelled", "batch_id", result.BatchID, "done", i, "total", result.Total)
		for j := i; j < len(items); j++ {
			result.Failed++
			result.Errors = append(result.Errors, BatchItemError{
				Index:      j,
				Identifier: items[j].Identifier,
				Message:    "cancelled: " + err.Error(),
			})
		}
	}

	for i, item := range items {
		// 1. 步间取消检查
		if err := ctx.Err(); err != nil {
			cancelFrom(i, err)
			break
		}

		// 2. 限速等待（Wait 只在 ctx 取消时报错）
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				cancelFrom(i, err)
				break
			}
		}

		// 3. 执行并记账
		r := fn(ctx, i)
		if r.Success {
			result.Succeeded++
		} else {
			result.Failed++
			result.Errors = append(result.Errors, BatchItemError{
				Index:      i,
				Identifier: item.Identifier,
				Message:    r.Message,
			})
		}
	}

	result.Success = result.Failed == 0
	b.log.Infow("bulk run finished",
		"batch_id", result.BatchID, "total", result.Total,
		"succeeded", result.Succeeded, "failed", result.Failed)
	return result
}
