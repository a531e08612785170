package backend

import (
	"context"
	"io"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/secureai/docshield-console/internal/core/domain"
	"github.com/secureai/docshield-console/internal/core/ports"
)

// CachedGateway memoizes the read-only lookups of a BackendGateway for a
// TTL. Example tables and per-category listings change rarely server-side
// and are re-requested on every accordion open, so a short cache removes
// most of that traffic. Mutating operations pass straight through.
type CachedGateway struct {
	next  ports.BackendGateway
	cache *gocache.Cache
}

func NewCachedGateway(next ports.BackendGateway, ttl time.Duration) *CachedGateway {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedGateway{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (g *CachedGateway) Upload(ctx context.Context, filename string, body io.Reader) (string, error) {
	return g.next.Upload(ctx, filename, body)
}

func (g *CachedGateway) FetchResult(ctx context.Context, id string) (domain.TransformResult, error) {
	return g.next.FetchResult(ctx, id)
}

func (g *CachedGateway) Ask(ctx context.Context, docID, question string) (domain.Answer, error) {
	return g.next.Ask(ctx, docID, question)
}

func (g *CachedGateway) ExampleData(ctx context.Context, category domain.CategoryKey) (map[string][]domain.ExampleSentence, error) {
	key := "example:" + string(category)
	if hit, ok := g.cache.Get(key); ok {
		return hit.(map[string][]domain.ExampleSentence), nil
	}

	table, err := g.next.ExampleData(ctx, category)
	if err != nil {
		return nil, err
	}
	g.cache.SetDefault(key, table)
	return table, nil
}

func (g *CachedGateway) DocumentsByType(ctx context.Context, category domain.CategoryKey) ([]domain.DocumentDescriptor, error) {
	key := "documents:" + string(category)
	if hit, ok := g.cache.Get(key); ok {
		return hit.([]domain.DocumentDescriptor), nil
	}

	list, err := g.next.DocumentsByType(ctx, category)
	if err != nil {
		return nil, err
	}
	g.cache.SetDefault(key, list)
	return list, nil
}
