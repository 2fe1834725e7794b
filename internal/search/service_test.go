package search

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardKey(t *testing.T) {
	t.Run("stable for equal filters", func(t *testing.T) {
		from := 2020
		a := Filters{Query: "ทางพิเศษ", SectorIDs: []int64{1, 2}, YearFrom: &from}
		b := Filters{Query: "ทางพิเศษ", SectorIDs: []int64{1, 2}, YearFrom: &from}
		assert.Equal(t, dashboardKey(a), dashboardKey(b))
	})

	t.Run("distinct for different filters", func(t *testing.T) {
		a := Filters{SectorIDs: []int64{1}}
		b := Filters{SectorIDs: []int64{2}}
		assert.NotEqual(t, dashboardKey(a), dashboardKey(b))
		assert.NotEqual(t, dashboardKey(Filters{}), dashboardKey(a))
	})

	t.Run("carries the portal prefix", func(t *testing.T) {
		assert.Contains(t, dashboardKey(Filters{}), "portal:dashboard:")
	})
}

func TestService_DashboardCache(t *testing.T) {
	ctx := context.Background()

	t.Run("serves a cached payload without touching the repository", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

		var cached Statistics
		cached.Summary.TotalProjects = 7
		cached.Summary.TotalInvestment = 12_500_000_000
		raw, err := json.Marshal(&cached)
		require.NoError(t, err)
		require.NoError(t, mr.Set(dashboardKey(Filters{}), string(raw)))

		// nil repository: any DB round trip would panic.
		svc := NewService(nil, client, time.Hour)
		got, err := svc.Dashboard(ctx, Filters{})
		require.NoError(t, err)
		assert.Equal(t, 7, got.Summary.TotalProjects)
		assert.Equal(t, float64(12_500_000_000), got.Summary.TotalInvestment)
	})

	t.Run("different filters miss the shared entry", func(t *testing.T) {
		mr := miniredis.RunT(t)

		var cached Statistics
		cached.Summary.TotalProjects = 7
		raw, err := json.Marshal(&cached)
		require.NoError(t, err)
		require.NoError(t, mr.Set(dashboardKey(Filters{}), string(raw)))

		exists := mr.Exists(dashboardKey(Filters{SectorIDs: []int64{1}}))
		assert.False(t, exists)
	})

	t.Run("cache entries expire with the ttl", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

		key := dashboardKey(Filters{})
		require.NoError(t, client.Set(ctx, key, `{"summary":{"totalProjects":1}}`, time.Minute).Err())
		require.True(t, mr.Exists(key))

		mr.FastForward(2 * time.Minute)
		assert.False(t, mr.Exists(key))
	})
}
