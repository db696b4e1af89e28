package feed

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"Knudge/internal/mockdata"
	"Knudge/internal/model"
	pkgerrors "Knudge/pkg/errors"
	"Knudge/pkg/logger"
	"Knudge/pkg/metrics"
)

const (
	DefaultPageSize = 10
	DefaultMaxTotal = 40
)

// Snapshot 分页器当前状态
type Snapshot struct {
	Activities []model.Activity
	Loading    bool
	HasMore    bool
}

// Pager 单个动态视图的分页状态。
// 同一时间只允许一次拉取；拉取前记录数已达到 maxTotal 时，本页追加后不再有更多。
type Pager struct {
	provider ActivityProvider
	pageSize int
	maxTotal int

	mu         sync.Mutex
	activities []model.Activity
	loading    bool
	hasMore    bool

	// 视图生命周期，Close 之后到达的结果全部丢弃
	viewCtx context.Context
	cancel  context.CancelFunc
}

type Option func(*Pager)

func WithPageSize(n int) Option {
	return func(p *Pager) {
		if n > 0 {
			p.pageSize = n
		}
	}
}

func WithMaxTotal(n int) Option {
	return func(p *Pager) {
		if n >= 0 {
			p.maxTotal = n
		}
	}
}

// WithSeed 替换初始记录，默认使用 10 条静态动态
func WithSeed(seed []model.Activity) Option {
	return func(p *Pager) {
		p.activities = append([]model.Activity{}, seed...)
	}
}

func NewPager(provider ActivityProvider, opts ...Option) *Pager {
	viewCtx, cancel := context.WithCancel(context.Background())
	p := &Pager{
		provider:   provider,
		pageSize:   DefaultPageSize,
		maxTotal:   DefaultMaxTotal,
		activities: mockdata.SeedActivities(),
		hasMore:    true,
		viewCtx:    viewCtx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FetchMore 拉取并追加下一页，返回本次追加的记录。
// 已有拉取进行中时直接拒绝，不排队；没有更多时返回空批次。
func (p *Pager) FetchMore(ctx context.Context) ([]model.Activity, error) {
	p.mu.Lock()
	if p.viewCtx.Err() != nil {
		p.mu.Unlock()
		return nil, pkgerrors.FeedViewClosed
	}
	if p.loading {
		p.mu.Unlock()
		metrics.RecordFeedFetch(ctx, "rejected", 0)
		return nil, pkgerrors.FeedFetchInFlight
	}
	if !p.hasMore {
		p.mu.Unlock()
		metrics.RecordFeedFetch(ctx, "exhausted", 0)
		return []model.Activity{}, nil
	}
	p.loading = true
	cursor := len(p.activities)
	viewCtx := p.viewCtx
	p.mu.Unlock()

	fetchCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(viewCtx, cancel)
	start := time.Now()
	batch, err := p.provider.FetchPage(fetchCtx, cursor, p.pageSize)
	stop()
	cancel()
	duration := time.Since(start).Seconds()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false

	if viewCtx.Err() != nil {
		logger.Logger.Debug("Discarded activity page for closed view", zap.Int("cursor", cursor))
		metrics.RecordFeedFetch(ctx, "discarded", duration)
		return nil, pkgerrors.FeedViewClosed
	}
	if err != nil {
		metrics.RecordFeedFetch(ctx, "failed", duration)
		return nil, err
	}

	// 按拉取前的记录数判断，与原型一致：10 条初始记录最终停在 50 条
	if cursor >= p.maxTotal {
		p.hasMore = false
	}
	p.activities = append(p.activities, batch...)
	metrics.RecordFeedFetch(ctx, "appended", duration)

	return append([]model.Activity{}, batch...), nil
}

func (p *Pager) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Snapshot{
		Activities: append([]model.Activity{}, p.activities...),
		Loading:    p.loading,
		HasMore:    p.hasMore,
	}
}

// Close 使视图失效，进行中的拉取会被取消且结果不会追加
func (p *Pager) Close() {
	p.cancel()
}

func (p *Pager) Closed() bool {
	return p.viewCtx.Err() != nil
}
