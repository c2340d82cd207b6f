package cache

import (
	"container/list"
	"sync"
	"time"
)

// TTLLRU: TTL 기반 LRU 캐시입니다. nil 캐시는 항상 miss 로 동작한다.
type TTLLRU[K comparable, V any] struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	items      map[K]*list.Element
	order      *list.List
	now        func() time.Time
}

type ttlLRUEntry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// NewTTLLRU: TTL LRU 캐시를 생성합니다. 크기나 TTL 이 0 이하면 nil (캐시 비활성화).
func NewTTLLRU[K comparable, V any](maxEntries int, ttl time.Duration) *TTLLRU[K, V] {
	if maxEntries <= 0 || ttl <= 0 {
		return nil
	}
	return &TTLLRU[K, V]{
		maxEntries: maxEntries,
		ttl:        ttl,
		items:      make(map[K]*list.Element, maxEntries),
		order:      list.New(),
		now:        time.Now,
	}
}

// Get: 캐시에서 값을 조회합니다. 만료된 항목은 이때 제거된다.
func (c *TTLLRU[K, V]) Get(key K) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}

	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}
	entry := elem.Value.(ttlLRUEntry[K, V])
	if !entry.expiresAt.After(now) {
		c.removeElement(elem)
		return zero, false
	}
	c.order.MoveToFront(elem)
	return entry.value, true
}

// Set: 캐시에 값을 저장합니다. 용량을 넘으면 가장 오래 쓰이지 않은 항목부터 버린다.
func (c *TTLLRU[K, V]) Set(key K, value V) {
	if c == nil {
		return
	}

	entry := ttlLRUEntry[K, V]{key: key, value: value, expiresAt: c.now().Add(c.ttl)}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		elem.Value = entry
		c.order.MoveToFront(elem)
		return
	}
	c.items[key] = c.order.PushFront(entry)

	for len(c.items) > c.maxEntries {
		back := c.order.Back()
		if back == nil {
			break
		}
		c.removeElement(back)
	}
}

// Purge: 모든 항목을 제거합니다.
func (c *TTLLRU[K, V]) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*list.Element, c.maxEntries)
	c.order.Init()
}

// Len: 현재 항목 수 (만료되었지만 아직 조회되지 않은 항목 포함).
func (c *TTLLRU[K, V]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *TTLLRU[K, V]) removeElement(elem *list.Element) {
	entry := elem.Value.(ttlLRUEntry[K, V])
	delete(c.items, entry.key)
	c.order.Remove(elem)
}
