package dedup

import (
	"sync"
	"time"
)

type entry struct {
	key  string
	seen time.Time
}

// WindowCache 进程内的滑动窗口去重缓存。
// 容量有限，超出时淘汰最旧的记录；窗口外的记录视为未出现过。
// 单用户部署不需要跨进程共享，进程重启后窗口清空是可接受的
type WindowCache struct {
	mu       sync.Mutex
	window   time.Duration
	capacity int
	entries  []entry
	now      func() time.Time
}

func NewWindowCache(window time.Duration, capacity int) *WindowCache {
	return &WindowCache{
		window:   window,
		capacity: capacity,
		now:      time.Now,
	}
}

// Seen 判断 key 是否在窗口内出现过；未出现则记录并返回 false。
// 判断与记录在同一把锁内完成，并发调用同一 key 只有一个返回 false
func (c *WindowCache) Seen(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.evictExpired(now)

	for _, e := range c.entries {
		if e.key == key {
			return true
		}
	}

	if len(c.entries) >= c.capacity {
		c.entries = c.entries[1:]
	}
	c.entries = append(c.entries, entry{key: key, seen: now})
	return false
}

// evictExpired 移除窗口外的记录。entries 按写入时间有序，找到首个未过期即可截断
func (c *WindowCache) evictExpired(now time.Time) {
	cutoff := now.Add(-c.window)
	i := 0
	for ; i < len(c.entries); i++ {
		if c.entries[i].seen.After(cutoff) {
			break
		}
	}
	if i > 0 {
		c.entries = c.entries[i:]
	}
}

// Len 返回当前窗口内的记录数
func (c *WindowCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evictExpired(c.now())
	return len(c.entries)
}
