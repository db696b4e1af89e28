package feed

import (
	"context"
	"sync"

	"Knudge/pkg/metrics"
)

// Registry 每个用户一个动态视图，首次打开时创建
type Registry struct {
	newPager func() *Pager

	mu     sync.Mutex
	pagers map[string]*Pager
}

func NewRegistry(newPager func() *Pager) *Registry {
	return &Registry{
		newPager: newPager,
		pagers:   make(map[string]*Pager),
	}
}

// Open 返回用户当前视图，不存在或已关闭时新建
func (r *Registry) Open(ctx context.Context, userID string) *Pager {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.pagers[userID]; ok && !p.Closed() {
		return p
	}

	p := r.newPager()
	r.pagers[userID] = p
	metrics.AddOpenPagers(ctx, 1)
	return p
}

// Close 关闭并移除用户视图，返回是否存在
func (r *Registry) Close(ctx context.Context, userID string) bool {
	r.mu.Lock()
	p, ok := r.pagers[userID]
	delete(r.pagers, userID)
	r.mu.Unlock()

	if !ok {
		return false
	}
	p.Close()
	metrics.AddOpenPagers(ctx, -1)
	return true
}

// CloseAll 服务退出时调用
func (r *Registry) CloseAll() {
	r.mu.Lock()
	pagers := r.pagers
	r.pagers = make(map[string]*Pager)
	r.mu.Unlock()

	for _, p := range pagers {
		p.Close()
	}
	metrics.AddOpenPagers(context.Background(), -int64(len(pagers)))
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pagers)
}
