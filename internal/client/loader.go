package client

import (
	"context"
	"sync"
)

// LoadState 描述 DetailLoader 当前所处的阶段。
// 未加载与加载失败是两个不同状态：前者展示占位，后者展示错误与重试入口。
type LoadState int

const (
	StateNotLoaded LoadState = iota
	StateLoading
	StateLoaded
	StateFailed
)

// DetailLoader 按 id 做一次性详情加载，并防止过期响应覆盖新数据：
// 每次 Load 递增代号，慢请求返回时若代号已变则结果被丢弃。
// 没有自动重试，失败后由调用方再次 Load。
type DetailLoader[T any] struct {
	fetch func(ctx context.Context, id uint) (*T, error)

	mu    sync.Mutex
	gen   uint64
	id    uint
	state LoadState
	value *T
	err   error
}

// NewDetailLoader 构造加载器。fetch 是实际的取数函数。
func NewDetailLoader[T any](fetch func(ctx context.Context, id uint) (*T, error)) *DetailLoader[T] {
	return &DetailLoader[T]{fetch: fetch}
}

// Load 为指定 id 发起加载并返回结果。
// 若加载期间又有新的 Load 或 Reset 发生，本次结果不会写入 loader 状态。
func (l *DetailLoader[T]) Load(ctx context.Context, id uint) (*T, error) {
	l.mu.Lock()
	l.gen++
	myGen := l.gen
	l.id = id
	l.state = StateLoading
	l.value = nil
	l.err = nil
	l.mu.Unlock()

	value, err := l.fetch(ctx, id)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen != myGen {
		// 已被更新的请求取代，丢弃本次结果。
		return value, err
	}
	if err != nil {
		l.state = StateFailed
		l.err = err
		return nil, err
	}
	l.state = StateLoaded
	l.value = value
	return value, nil
}

// Reset 清空状态。再次打开详情时总是重新拉取，不会看到上一个 id 的残影。
func (l *DetailLoader[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.id = 0
	l.state = StateNotLoaded
	l.value = nil
	l.err = nil
}

// State 返回当前阶段。
func (l *DetailLoader[T]) State() LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Value 返回已加载的数据；未加载、加载中或失败时为 nil。
func (l *DetailLoader[T]) Value() *T {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateLoaded {
		return nil
	}
	return l.value
}

// Err 返回最近一次失败的错误；非失败状态下为 nil。
func (l *DetailLoader[T]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateFailed {
		return nil
	}
	return l.err
}

// ID 返回最近一次 Load 的目标 id。
func (l *DetailLoader[T]) ID() uint {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.id
}
