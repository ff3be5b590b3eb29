package client

import "sync"

// Guard 以引用计数管理一个共享资源的占用（例如打开弹层时锁定页面滚动）。
// 资源在计数大于零时保持占用，嵌套获取可以叠加：内层释放不会提前解除占用，
// 最后一次释放才触发 release 回调。
type Guard struct {
	acquire func()
	release func()

	mu    sync.Mutex
	count int
}

// NewGuard 构造守卫。acquire 在计数 0→1 时调用，release 在计数 1→0 时调用。
func NewGuard(acquire, release func()) *Guard {
	return &Guard{acquire: acquire, release: release}
}

// Acquire 占用资源并返回对应的释放函数。
// 返回的函数可以在任何退出路径上调用，重复调用只生效一次。
func (g *Guard) Acquire() (release func()) {
	g.mu.Lock()
	g.count++
	first := g.count == 1
	g.mu.Unlock()

	if first && g.acquire != nil {
		g.acquire()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			g.count--
			last := g.count == 0
			g.mu.Unlock()

			if last && g.release != nil {
				g.release()
			}
		})
	}
}

// Held 报告资源当前是否被占用。
func (g *Guard) Held() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.count > 0
}
