// Package cache provides a generic Cache interface with in-memory and Redis
// implementations that can be swapped without touching callers.
//
// TTL semantics for Set are shared by both backends: a positive duration
// expires the entry after that long, zero uses the backend default and a
// negative duration keeps the entry until it is deleted or evicted.
//
// # In-memory
//
// [NewMemory] builds a bounded LRU (hashicorp/golang-lru) with per-entry
// expiry and a background janitor:
//
//	c := cache.NewMemory[[]catalog.Genre](cache.WithDefaultTTL(5 * time.Minute))
//	defer c.Close()
//
// # Redis
//
// [NewRedis] stores values encoded by a [Marshaler]; the default
// [JSONMarshaler] decodes numbers held in interface values as json.Number.
//
//	c := cache.NewRedis[session.Session](client, nil, cache.WithPrefix("sessions"))
//
// # Stampede protection
//
// [GetOrSet] collapses concurrent misses on one key into a single loader call:
//
//	genres, err := cache.GetOrSet(ctx, c, "genres", func(ctx context.Context) ([]catalog.Genre, time.Duration, error) {
//		g, err := repo.ListGenres(ctx)
//		return g, 5 * time.Minute, err
//	})
package cache
