package services

import (
	"slices"
	"sync"
	"time"

	"gestao-vendas/models"
)

// VendasCache holds the full sale listing for a fixed TTL. There is one
// global slot: filters are applied on read and any write empties it.
//
// Every Invalidate bumps a generation. A listing read from the store is only
// kept if no write happened since the reader took Generation, otherwise a
// slow read would put back a snapshot older than the write.
type VendasCache struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	data      []models.Venda
	timestamp time.Time
	geracao   uint64
}

func NewVendasCache(ttl time.Duration, now func() time.Time) *VendasCache {
	if now == nil {
		now = time.Now
	}
	return &VendasCache{ttl: ttl, now: now}
}

// Get returns the cached sales matching keep, or false when the slot is
// empty or expired. The returned sales share no items or plan with the
// cache.
func (c *VendasCache) Get(keep func(models.Venda) bool) ([]models.Venda, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.data == nil || c.now().Sub(c.timestamp) >= c.ttl {
		return nil, false
	}
	return filtrar(c.data, keep), true
}

// Generation is taken before reading the store and handed back to Put.
func (c *VendasCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.geracao
}

// Put stores vendas unless the cache was invalidated after geracao was
// taken. It reports whether the listing was kept.
func (c *VendasCache) Put(vendas []models.Venda, geracao uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if geracao != c.geracao {
		return false
	}
	if vendas == nil {
		vendas = []models.Venda{}
	}
	c.data = vendas
	c.timestamp = c.now()
	return true
}

func (c *VendasCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.geracao++
	c.data = nil
	c.timestamp = time.Time{}
}

func filtrar(vendas []models.Venda, keep func(models.Venda) bool) []models.Venda {
	out := make([]models.Venda, 0, len(vendas))
	for _, v := range vendas {
		if keep == nil || keep(v) {
			v.Itens = slices.Clone(v.Itens)
			if v.Parcelamento != nil {
				plano := *v.Parcelamento
				v.Parcelamento = &plano
			}
			out = append(out, v)
		}
	}
	return out
}
