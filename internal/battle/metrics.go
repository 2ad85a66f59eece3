package battle

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

type counters struct {
	hits   metric.Int64Counter
	blocks metric.Int64Counter
	kills  metric.Int64Counter
}

func newCounters(m metric.Meter) counters {
	return counters{
		hits:   counter(m, "storybrawl.battle.hits", "Swings that landed damage"),
		blocks: counter(m, "storybrawl.battle.blocks", "Swings stopped by a shield"),
		kills:  counter(m, "storybrawl.battle.kills", "Knights defeated"),
	}
}

func counter(m metric.Meter, name, desc string) metric.Int64Counter {
	c, err := m.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit("{event}"))
	if err != nil {
		return noop.Int64Counter{}
	}
	return c
}
