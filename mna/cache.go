package mna

import "sync"

// Cache 结果缓存: (图结构指纹, 模式, 请求) -> Result。
// 图不可变，条目永不失效，随缓存本身一同丢弃。
// 键为结构指纹而非构建路径，不同路径构建的同构图共享条目。
type Cache struct {
	mu sync.Mutex
	m  map[string]*Result
}

// NewCache 创建空缓存
func NewCache() *Cache {
	return &Cache{m: map[string]*Result{}}
}

// Get 查缓存
func (c *Cache) Get(key string) (*Result, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.m[key]
	return r, ok
}

// Put 写缓存
func (c *Cache) Put(key string, r *Result) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = r
}

// Len 缓存条目数
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}
