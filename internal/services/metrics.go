package services

import (
	"time"

	"van-route-service/internal/domain"
)

// Provider call outcomes reported to OptimizerMetrics.
const (
	OutcomeOK     = "ok"
	OutcomeRetry  = "retry"
	OutcomeFailed = "failed"
)

// OptimizerMetrics receives pipeline observations. A nil value disables them.
type OptimizerMetrics interface {
	ProviderCallInc(outcome string)
	EstimatedEntriesAdd(n int)
	StageObserve(stage string, d time.Duration)
	ResultObserve(status domain.Status, unassigned int)
}
