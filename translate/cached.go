package translate

import (
	"context"
	"log/slog"
	"time"

	"go.aimuz.me/livesub/cache"
)

// cachedEngine serves repeated translations from a cache.
type cachedEngine struct {
	engine Engine
	cache  *cache.Cache
	name   string
}

// WithCache wraps engine so each (from, to, text) result is cached under name.
// A nil cache returns engine unchanged.
func WithCache(engine Engine, c *cache.Cache, name string) Engine {
	if c == nil {
		return engine
	}
	return &cachedEngine{engine: engine, cache: c, name: name}
}

func (e *cachedEngine) Translate(ctx context.Context, text, from, to string) (string, error) {
	key := cache.GenerateKey(e.name, from, to, text)
	if entry, ok := e.cache.Get(key); ok {
		return entry.Text, nil
	}

	out, err := e.engine.Translate(ctx, text, from, to)
	if err != nil {
		return "", err
	}

	// Caching is best effort.
	entry := &cache.Entry{Text: out, Engine: e.name, CreatedAt: time.Now()}
	if err := e.cache.Set(key, entry, cache.DefaultTTL); err != nil {
		slog.Warn("cache translation", "error", err)
	}
	return out, nil
}
