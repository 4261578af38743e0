package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
var (
	AttrRemoteService = attribute.Key("remote.service")
	AttrOutcome       = attribute.Key("outcome")
)

// Outcome values recorded with remote calls and enrichments
const (
	OutcomeSuccess     = "success"
	OutcomeNotFound    = "not_found"
	OutcomeUnavailable = "unavailable"
	OutcomeTimeout     = "timeout"
)

// BillingMetrics records the service's business and dependency metrics.
// A nil *BillingMetrics records nothing.
type BillingMetrics struct {
	remoteCalls    *Counter
	remoteDuration *Histogram
	enrichments    *Counter
	billsCreated   *Counter
}

// NewBillingMetrics creates the billing instruments on meter.
func NewBillingMetrics(meter metric.Meter) (*BillingMetrics, error) {
	remoteCalls, err := NewCounter(meter, "billing.remote.calls", "Calls to the customer and inventory services", "{call}")
	if err != nil {
		return nil, err
	}
	remoteDuration, err := NewHistogram(meter, "billing.remote.duration", "Duration of remote calls", "s", RemoteDurationBuckets)
	if err != nil {
		return nil, err
	}
	enrichments, err := NewCounter(meter, "billing.enrichments", "Enriched bill reads", "{bill}")
	if err != nil {
		return nil, err
	}
	billsCreated, err := NewCounter(meter, "billing.bills.created", "Bills created", "{bill}")
	if err != nil {
		return nil, err
	}
	return &BillingMetrics{
		remoteCalls:    remoteCalls,
		remoteDuration: remoteDuration,
		enrichments:    enrichments,
		billsCreated:   billsCreated,
	}, nil
}

// RecordRemoteCall records one call to a remote service.
func (m *BillingMetrics) RecordRemoteCall(ctx context.Context, service, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{AttrRemoteService.String(service), AttrOutcome.String(outcome)}
	m.remoteCalls.Inc(ctx, attrs...)
	m.remoteDuration.RecordDuration(ctx, elapsed, attrs...)
}

// RecordEnrichment records the outcome of one enriched bill read.
func (m *BillingMetrics) RecordEnrichment(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.enrichments.Inc(ctx, AttrOutcome.String(outcome))
}

// RecordBillCreated counts a newly created bill.
func (m *BillingMetrics) RecordBillCreated(ctx context.Context) {
	if m == nil {
		return
	}
	m.billsCreated.Inc(ctx)
}
