// Package cache stores finished analyses keyed by their input.
package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardleyscope/core/internal/analysis"
	"github.com/wardleyscope/core/internal/models"
)

func snapshot() models.Snapshot {
	return models.Snapshot{
		Components: []models.Component{
			{ID: "a", Name: "A", X: 0.1, Y: 0.9},
			{ID: "b", Name: "B", X: 0.8, Y: 0.2},
		},
		Relationships: []models.Relationship{
			{Source: "a", Target: "b", Type: models.DependsOn},
		},
	}
}

func TestKey(t *testing.T) {
	defaults := analysis.DefaultThresholds()

	t.Run("deterministic", func(t *testing.T) {
		k1, err := Key(snapshot(), defaults)
		require.NoError(t, err)
		k2, err := Key(snapshot(), defaults)
		require.NoError(t, err)

		assert.Equal(t, k1, k2)
		assert.Len(t, k1, 64)
	})

	t.Run("ignores comment", func(t *testing.T) {
		s := snapshot()
		s.Comment = "something else"

		k1, _ := Key(snapshot(), defaults)
		k2, _ := Key(s, defaults)
		assert.Equal(t, k1, k2)
	})

	t.Run("changes with positions", func(t *testing.T) {
		s := snapshot()
		s.Components[0].X = 0.2

		k1, _ := Key(snapshot(), defaults)
		k2, _ := Key(s, defaults)
		assert.NotEqual(t, k1, k2)
	})

	t.Run("changes with thresholds", func(t *testing.T) {
		custom := defaults
		custom.GenesisLimit = 0.3

		k1, _ := Key(snapshot(), defaults)
		k2, _ := Key(snapshot(), custom)
		assert.NotEqual(t, k1, k2)
	})
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("WARDLEY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("WARDLEY_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	c, err := DialRedis(ctx, addr, "", 0, time.Minute)
	require.NoError(t, err)
	defer c.Close()

	key, err := Key(snapshot(), analysis.DefaultThresholds())
	require.NoError(t, err)
	c.client.Del(ctx, c.prefix+key)

	_, err = c.Get(ctx, key)
	assert.ErrorIs(t, err, ErrMiss)

	result := analysis.NewDefault().Analyze(snapshot())
	require.NoError(t, c.Set(ctx, key, result))

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, result.Overall, got.Overall)
	assert.Equal(t, result.Recommendations, got.Recommendations)
}
