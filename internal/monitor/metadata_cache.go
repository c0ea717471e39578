package monitor

import (
	"sync"

	"poolmon/internal/model"
)

// metadataCache holds pool metadata that never changes once read: the token
// pair and each token's decimals. The first stored value wins.
type metadataCache struct {
	mu       sync.RWMutex
	pair     *[2]model.Address
	decimals map[model.Address]uint8
}

func newMetadataCache() *metadataCache {
	return &metadataCache{decimals: make(map[model.Address]uint8)}
}

func (c *metadataCache) tokens() (x, y model.Address, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.pair == nil {
		return model.Address{}, model.Address{}, false
	}
	return c.pair[0], c.pair[1], true
}

// storeTokens records the pair and reports whether this call set it.
func (c *metadataCache) storeTokens(x, y model.Address) (model.Address, model.Address, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pair != nil {
		return c.pair[0], c.pair[1], false
	}
	c.pair = &[2]model.Address{x, y}
	return x, y, true
}

func (c *metadataCache) tokenDecimals(token model.Address) (uint8, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	decimals, ok := c.decimals[token]
	return decimals, ok
}

func (c *metadataCache) storeDecimals(token model.Address, decimals uint8) uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.decimals[token]; ok {
		return existing
	}
	c.decimals[token] = decimals
	return decimals
}
