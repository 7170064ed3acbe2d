// Package cache keeps recently touched orders in memory so the public
// order-status page doesn't hit postgres on every poll.
package cache

import (
	"sync"
	"time"

	"tapseal/internal/models"
)

type entry struct {
	order models.Order
	exp   time.Time
}

type OrderCacheRepo struct {
	mu   sync.RWMutex
	data map[string]entry

	ttl       time.Duration
	ticker    *time.Ticker
	noJanitor bool
	stop      chan struct{}
	now       func() time.Time
}

type Option func(*OrderCacheRepo)

func WithTTL(ttl time.Duration) Option { return func(c *OrderCacheRepo) { c.ttl = ttl } }

// WithNoJanitor disables the background sweep; expired entries are still
// dropped lazily on read.
func WithNoJanitor() Option { return func(c *OrderCacheRepo) { c.noJanitor = true } }

func NewOrderCache(opts ...Option) *OrderCacheRepo {
	c := &OrderCacheRepo{
		data: make(map[string]entry),
		stop: make(chan struct{}),
		now:  time.Now,
	}
	for _, o := range opts {
		o(c)
	}

	if c.ttl > 0 && !c.noJanitor {
		c.ticker = time.NewTicker(c.ttl / 2)
		go func() {
			for {
				select {
				case <-c.ticker.C:
					c.purgeExpired()
				case <-c.stop:
					return
				}
			}
		}()
	}
	return c
}

func (c *OrderCacheRepo) Close() {
	if c.ticker != nil {
		c.ticker.Stop()
	}
	close(c.stop)
}

func (c *OrderCacheRepo) PutOrder(id string, ord models.Order) {
	e := entry{order: ord}
	if c.ttl > 0 {
		e.exp = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.data[id] = e
	c.mu.Unlock()
}

func (c *OrderCacheRepo) GetOrder(id string) (models.Order, bool) {
	c.mu.RLock()
	e, ok := c.data[id]
	c.mu.RUnlock()
	if !ok {
		return models.Order{}, false
	}
	if !e.exp.IsZero() && c.now().After(e.exp) {
		c.DeleteOrder(id)
		return models.Order{}, false
	}
	return e.order, true
}

func (c *OrderCacheRepo) DeleteOrder(id string) {
	c.mu.Lock()
	delete(c.data, id)
	c.mu.Unlock()
}

func (c *OrderCacheRepo) purgeExpired() {
	now := c.now()
	c.mu.Lock()
	for k, e := range c.data {
		if !e.exp.IsZero() && now.After(e.exp) {
			delete(c.data, k)
		}
	}
	c.mu.Unlock()
}
