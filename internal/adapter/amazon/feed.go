package amazon

import (
	"context"
	"fmt"
	"net/http"

	"marketsync_v1_202608/internal/adapter"
)

// feedSubmission 提交成功后的追踪信息
type feedSubmission struct {
	FeedID         string `json:"feed_id"`
	FeedDocumentID string `json:"feed_document_id"`
	FeedType       string `json:"feed_type"`
	Status         string `json:"status"` // 始终为 submitted，完成态由外部轮询方负责
}

// submitFeed 三步提交状态机：
//
//	(start) -> 创建上传槽 -> 上传 payload -> 注册 feed -> (pending)
//
// 任一步失败立即中止并返回该步的错误（第一现场），不做回滚——
// 失败时平台侧尚未产生任何资源，没有可补偿的对象。
// 注意：此处的终态只到 submitted/pending，feed 的完成轮询不在本层职责内。
func (a *Adapter) submitFeed(ctx context.Context, feedType, payload string) (*feedSubmission, *adapter.OperationResult) {
	// 1. 创建上传槽
	var doc createDocumentResp
	res := a.exec.Post(ctx,
		a.cfg.baseURL()+feedAPIPath+"/documents",
		map[string]string{"contentType": feedContentType},
		&doc)
	if !res.Success {
		res.Message = "create feed document: " + res.Message
		return nil, &res
	}
	if doc.URL == "" || doc.FeedDocumentID == "" {
		bad := adapter.Fail(adapter.KindMarketplaceAPIError, res.StatusCode, "create feed document: empty document slot in response")
		return nil, &bad
	}

	// 2. 上传 payload 到预签名地址
	// 预签名 URL 自带授权，不能再附加鉴权头，所以不走 executor
	uploadResp, err := a.uploader.R().
		SetContext(ctx).
		SetHeader("Content-Type", feedContentType).
		SetBody(payload).
		Put(doc.URL)
	if err != nil {
		bad := adapter.Failf(adapter.KindMarketplaceAPIError, 0, "upload feed payload: network error: %v", err)
		return nil, &bad
	}
	if uploadResp.StatusCode() != http.StatusOK {
		bad := adapter.Failf(adapter.KindMarketplaceAPIError, uploadResp.StatusCode(),
			"upload feed payload: status %d", uploadResp.StatusCode())
		return nil, &bad
	}

	// 3. 注册 feed
	var feed createFeedResp
	res = a.exec.Post(ctx,
		a.cfg.baseURL()+feedAPIPath+"/feeds",
		createFeedReq{
			FeedType:            feedType,
			MarketplaceIDs:      []string{a.cfg.MarketplaceID},
			InputFeedDocumentID: doc.FeedDocumentID,
		},
		&feed)
	if !res.Success {
		res.Message = "register feed: " + res.Message
		return nil, &res
	}

	a.log.Infow("feed submitted", "feed_id", feed.FeedID, "feed_type", feedType)
	return &feedSubmission{
		FeedID:         feed.FeedID,
		FeedDocumentID: doc.FeedDocumentID,
		FeedType:       feedType,
		Status:         "submitted",
	}, nil
}

// submitFeedResult 把提交回执包装成 pending 语义的成功结果
func submitFeedResult(sub *feedSubmission, sku string) adapter.OperationResult {
	data := map[string]interface{}{
		"status":   "pending",
		"feed_id":  sub.FeedID,
		"tracking": fmt.Sprintf("%s:%s", sub.FeedType, sub.FeedID),
	}
	if sku != "" {
		data["sku"] = sku
	}
	return adapter.OK(http.StatusAccepted, data)
}
