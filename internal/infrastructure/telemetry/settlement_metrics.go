package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics component is built without a meter
var ErrMeterNil = errors.New("telemetry: meter is nil")

// SettlementMetrics records settlement, posting and outbox delivery
// measurements.
type SettlementMetrics struct {
	settlements       *Counter
	settlementLatency *Histogram
	postings          *Counter
	postingLatency    *Histogram
	stockWarnings     *Counter
	outboxDeliveries  *Counter
}

// NewSettlementMetrics registers the settlement instruments on meter
func NewSettlementMetrics(meter metric.Meter) (*SettlementMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &SettlementMetrics{}
	var err error

	if m.settlements, err = NewCounter(meter,
		"settlement_orders_total", "Settlement attempts by outcome", "{orders}"); err != nil {
		return nil, err
	}
	if m.settlementLatency, err = NewHistogram(meter, HistogramOpts{
		Name:        "settlement_duration_seconds",
		Description: "Time spent settling an order",
		Unit:        "s",
		Boundaries:  DurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.postings, err = NewCounter(meter,
		"settlement_ledger_postings_total", "Ledger posting attempts by resulting status", "{postings}"); err != nil {
		return nil, err
	}
	if m.postingLatency, err = NewHistogram(meter, HistogramOpts{
		Name:        "settlement_ledger_posting_duration_seconds",
		Description: "Time spent posting an order to the ledger",
		Unit:        "s",
		Boundaries:  DurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.stockWarnings, err = NewCounter(meter,
		"settlement_stock_warnings_total", "Stock warnings raised while depleting inventory", "{warnings}"); err != nil {
		return nil, err
	}
	if m.outboxDeliveries, err = NewCounter(meter,
		"settlement_outbox_deliveries_total", "Outbox deliveries by event type and outcome", "{events}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordSettlement counts one settlement attempt and its latency
func (m *SettlementMetrics) RecordSettlement(ctx context.Context, outcome string, d time.Duration) {
	m.settlements.Inc(ctx, AttrOutcome.String(outcome))
	m.settlementLatency.RecordDuration(ctx, d, AttrOutcome.String(outcome))
}

// RecordPosting counts one posting attempt and its latency
func (m *SettlementMetrics) RecordPosting(ctx context.Context, status string, d time.Duration) {
	m.postings.Inc(ctx, AttrStatus.String(status))
	m.postingLatency.RecordDuration(ctx, d, AttrStatus.String(status))
}

// RecordStockWarning counts one negative or low stock warning
func (m *SettlementMetrics) RecordStockWarning(ctx context.Context, kind string) {
	m.stockWarnings.Inc(ctx, AttrKind.String(kind))
}

// RecordOutboxDelivery counts one outbox delivery outcome
func (m *SettlementMetrics) RecordOutboxDelivery(ctx context.Context, eventType, outcome string) {
	m.outboxDeliveries.Inc(ctx, AttrEventType.String(eventType), AttrOutcome.String(outcome))
}
