// Package policycache holds the process-local provisional copy of the
// free-period policy, used only while the primary store is unreachable.
package policycache

import (
	"sync"

	"github.com/MyDadTheFixItMan/UrbanGarageSale-sub000/services/api/internal/domain"
)

type Cache struct {
	mu     sync.Mutex
	policy domain.FreePeriodPolicy
	set    bool
}

func New() *Cache {
	return &Cache{}
}

// Get returns the cached policy, if one is held.
func (c *Cache) Get() (domain.FreePeriodPolicy, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.policy, c.set
}

// Put parks a policy value that could not reach the primary store.
func (c *Cache) Put(policy domain.FreePeriodPolicy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policy = policy
	c.set = true
}

// Clear drops the provisional copy; called after a primary write succeeds.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policy = domain.FreePeriodPolicy{}
	c.set = false
}
