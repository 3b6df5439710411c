package main

import (
	"time"

	"van-route-service/internal/domain"
	"van-route-service/internal/platform/metrics"
	"van-route-service/internal/services"
)

// wrapOptimizerMetrics adapts the Collector to the services.OptimizerMetrics interface.
func wrapOptimizerMetrics(c *metrics.Collector) services.OptimizerMetrics {
	if c == nil {
		return nil
	}
	return &optimizerMetrics{c: c}
}

type optimizerMetrics struct{ c *metrics.Collector }

func (m *optimizerMetrics) ProviderCallInc(outcome string) {
	m.c.ProviderCalls.WithLabelValues(outcome).Inc()
}

func (m *optimizerMetrics) EstimatedEntriesAdd(n int) { m.c.EstimatedEntries.Add(float64(n)) }

func (m *optimizerMetrics) StageObserve(stage string, d time.Duration) {
	m.c.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *optimizerMetrics) ResultObserve(status domain.Status, unassigned int) {
	for _, flag := range status.Flags() {
		m.c.Results.WithLabelValues(flag).Inc()
	}
	m.c.Unassigned.Add(float64(unassigned))
}
