package battle

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/samdwyer/storybrawl/internal/entity"
	"github.com/samdwyer/storybrawl/internal/gamedata"
)

// counterTotal sums the data points of the named counter recorded for team.
func counterTotal(t *testing.T, rm metricdata.ResourceMetrics, name string, team entity.Team) int64 {
	t.Helper()
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "%s should be an int64 sum", name)
			for _, dp := range sum.DataPoints {
				if v, ok := dp.Attributes.Value(attribute.Key("team")); ok && v.AsString() == team.String() {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestSwingCounters(t *testing.T) {
	rules := gamedata.MustLoadRules()
	rules.AI.BlockChance = 0
	rules.Knight.BlockDuration = 2 * rules.Knight.SwingDuration

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	hero := knightAt(rules, 0, "Hero", entity.TeamLeft, entity.ControllerPlayer, 500, 400, 0)
	dummy := knightAt(rules, 1, "Dummy", entity.TeamRight, entity.ControllerAI, 530, 400, math.Pi)
	shield := knightAt(rules, 2, "Shield", entity.TeamRight, entity.ControllerAI, 530, 410, math.Pi)
	weak := knightAt(rules, 3, "Weak", entity.TeamRight, entity.ControllerAI, 520, 395, math.Pi)
	require.True(t, shield.StartBlock())
	weak.TakeDamage(weak.MaxHP() - 1)

	b := New(context.Background(), []*entity.Knight{hero, dummy, shield, weak}, Config{
		Rules: rules,
		RNG:   rand.New(rand.NewSource(1)),
		Meter: mp.Meter("test"),
	})

	b.Tick(context.Background(), Input{Attack: true})
	for i := 1; i < rules.Knight.SwingDuration/2; i++ {
		b.Tick(context.Background(), Input{})
	}
	require.False(t, weak.IsAlive(), "the swing should have reached its hit check")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	assert.Equal(t, int64(2), counterTotal(t, rm, "storybrawl.battle.hits", entity.TeamLeft))
	assert.Equal(t, int64(1), counterTotal(t, rm, "storybrawl.battle.blocks", entity.TeamLeft))
	assert.Equal(t, int64(1), counterTotal(t, rm, "storybrawl.battle.kills", entity.TeamLeft))
	assert.Equal(t, dummy.MaxHP()-hero.Damage(), dummy.HP())
	assert.Equal(t, shield.MaxHP(), shield.HP())
}
