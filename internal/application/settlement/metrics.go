package settlement

import (
	"context"
	"time"
)

// Settlement outcomes reported to Metrics
const (
	OutcomeSettled  = "settled"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics receives business measurements from the settlement services
type Metrics interface {
	RecordSettlement(ctx context.Context, outcome string, duration time.Duration)
	RecordPosting(ctx context.Context, status string, duration time.Duration)
	RecordStockWarning(ctx context.Context, kind string)
}

type nopMetrics struct{}

func (nopMetrics) RecordSettlement(context.Context, string, time.Duration) {}
func (nopMetrics) RecordPosting(context.Context, string, time.Duration)    {}
func (nopMetrics) RecordStockWarning(context.Context, string)              {}
