// Package feed 动态流分页：数据源接口、模拟数据源、带加载中/还有更多判断的分页器，以及按用户管理分页器的注册表。
package feed

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"Knudge/internal/mockdata"
	"Knudge/internal/model"
)

// ActivityProvider 按游标拉取下一页动态，cursor 为本页第一条记录的序号
type ActivityProvider interface {
	FetchPage(ctx context.Context, cursor, limit int) ([]model.Activity, error)
}

// MockProvider 延迟一段时间后生成随机动态，每个字段独立均匀抽取
type MockProvider struct {
	delay time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewMockProvider seed 固定时生成结果可复现
func NewMockProvider(delay time.Duration, seed int64) *MockProvider {
	return &MockProvider{
		delay: delay,
		rnd:   rand.New(rand.NewSource(seed)),
	}
}

// FetchPage 等待期间 ctx 取消则直接返回 ctx 的错误
func (p *MockProvider) FetchPage(ctx context.Context, cursor, limit int) ([]model.Activity, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	batch := make([]model.Activity, 0, limit)
	for i := 0; i < limit; i++ {
		batch = append(batch, model.Activity{
			ID:        fmt.Sprintf("gen_%d", cursor+i),
			Type:      mockdata.ActivityTypes[p.rnd.Intn(len(mockdata.ActivityTypes))],
			Contact:   mockdata.ActivityContacts[p.rnd.Intn(len(mockdata.ActivityContacts))],
			Platform:  mockdata.ActivityPlatforms[p.rnd.Intn(len(mockdata.ActivityPlatforms))],
			Message:   mockdata.ActivityMessages[p.rnd.Intn(len(mockdata.ActivityMessages))],
			Timestamp: fmt.Sprintf("%d hours ago", p.rnd.Intn(24)+1),
		})
	}

	return batch, nil
}
