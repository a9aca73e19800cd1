package simulation

import (
	"context"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *testCatalog) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cat := newTestCatalog()
	engine := NewEngine(cat, DefaultTargetIRR)
	cache := NewCache(client, 0)
	return NewService(engine, cache, slog.Default(), nil), cat
}

func TestServiceRunServesRepeatRequestsFromCache(t *testing.T) {
	svc, cat := newTestService(t)
	ctx := context.Background()

	req := Request{
		Investment: 1000,
		Horizon:    3,
		Selections: []Selection{{ProductID: "prod-a", ZoneID: "zona1", Quantity: 1}},
	}

	first, err := svc.Run(ctx, req)
	require.NoError(t, err)
	require.Len(t, first.Rows, 4)
	lookupsAfterFirst := cat.lookups
	require.Positive(t, lookupsAfterFirst)

	second, err := svc.Run(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, lookupsAfterFirst, cat.lookups, "cache hit must not re-run the engine")
}

func TestServiceInvalidateForcesRecompute(t *testing.T) {
	svc, cat := newTestService(t)
	ctx := context.Background()

	req := Request{
		Investment: 1000,
		Horizon:    3,
		Selections: []Selection{{ProductID: "prod-a", ZoneID: "zona1", Quantity: 1}},
	}

	_, err := svc.Run(ctx, req)
	require.NoError(t, err)
	lookupsAfterFirst := cat.lookups

	require.NoError(t, svc.Invalidate(ctx))

	_, err = svc.Run(ctx, req)
	require.NoError(t, err)
	assert.Greater(t, cat.lookups, lookupsAfterFirst, "version bump must drop cached results")
}

func TestServiceDistinctRequestsCachedSeparately(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	base := Request{
		Investment: 1000,
		Horizon:    3,
		Selections: []Selection{{ProductID: "prod-a", ZoneID: "zona1", Quantity: 1}},
	}
	bigger := base
	bigger.Investment = 2000

	a, err := svc.Run(ctx, base)
	require.NoError(t, err)
	b, err := svc.Run(ctx, bigger)
	require.NoError(t, err)

	assert.NotEqual(t, a.Metrics.NPV, b.Metrics.NPV)
}

func TestServiceRunWithoutCache(t *testing.T) {
	cat := newTestCatalog()
	engine := NewEngine(cat, DefaultTargetIRR)
	svc := NewService(engine, nil, slog.Default(), nil)

	res, err := svc.Run(context.Background(), Request{
		Investment: 1000,
		Horizon:    2,
		Selections: []Selection{{ProductID: "prod-a", ZoneID: "zona1", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Len(t, res.Rows, 3)
}
