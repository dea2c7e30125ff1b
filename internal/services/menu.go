package services

import (
	"context"
	"fmt"
	"storefront-delivery-service/internal/catalog"
	"storefront-delivery-service/internal/ports"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultMenuTTL       = 5 * time.Minute
	DefaultMenuLoadLimit = 15 * time.Second
)

// Menu caches the published catalog. Concurrent reloads are collapsed into
// one fetch, and a failed reload keeps serving the previous catalog.
type Menu struct {
	source ports.CatalogSource
	ttl    time.Duration
	now    func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	current   *catalog.Catalog
	fetchedAt time.Time
}

func NewMenu(source ports.CatalogSource, ttl time.Duration) *Menu {
	if ttl <= 0 {
		ttl = DefaultMenuTTL
	}
	return &Menu{source: source, ttl: ttl, now: time.Now}
}

// Get returns the cached catalog, reloading it once the TTL has passed.
func (m *Menu) Get(ctx context.Context) (*catalog.Catalog, error) {
	m.mu.RLock()
	cur, fetchedAt := m.current, m.fetchedAt
	m.mu.RUnlock()

	if cur != nil && m.now().Sub(fetchedAt) < m.ttl {
		return cur, nil
	}

	v, err, _ := m.group.Do("menu", func() (any, error) {
		// Shared by every waiting caller, so the leader's cancellation must not end it.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultMenuLoadLimit)
		defer cancel()

		products, err := m.source.ListProducts(loadCtx)
		if err != nil {
			return nil, err
		}
		c := catalog.New(products)

		m.mu.Lock()
		m.current, m.fetchedAt = c, m.now()
		m.mu.Unlock()
		return c, nil
	})
	if err != nil {
		if cur != nil {
			log.WithError(err).Warn("menu reload failed, serving cached catalog")
			return cur, nil
		}
		return nil, fmt.Errorf("load menu: %w", err)
	}

	return v.(*catalog.Catalog), nil
}
