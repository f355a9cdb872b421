package observer

import (
	"context"
	"time"

	docchat "github.com/nevindra/docchat"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ObservedIndex wraps a docchat.SearchIndex with OTEL instrumentation.
// Clear and upload outcomes are recorded from the boolean results; search
// failures are recorded from the returned error.
type ObservedIndex struct {
	inner docchat.SearchIndex
	inst  *Instruments
	index string
}

var _ docchat.SearchIndex = (*ObservedIndex)(nil)

// WrapIndex returns an instrumented index that emits traces and metrics.
func WrapIndex(inner docchat.SearchIndex, indexName string, inst *Instruments) *ObservedIndex {
	return &ObservedIndex{inner: inner, inst: inst, index: indexName}
}

func (o *ObservedIndex) ClearAll(ctx context.Context) bool {
	ctx, span := o.inst.Tracer.Start(ctx, "index.clear", trace.WithAttributes(
		AttrIndexName.String(o.index),
		AttrIndexOp.String("clear"),
	))
	defer span.End()
	start := time.Now()

	ok := o.inner.ClearAll(ctx)

	o.recordMutation(ctx, span, "clear", ok, time.Since(start))
	return ok
}

func (o *ObservedIndex) Upload(ctx context.Context, chunks []string) bool {
	ctx, span := o.inst.Tracer.Start(ctx, "index.upload", trace.WithAttributes(
		AttrIndexName.String(o.index),
		AttrIndexOp.String("upload"),
		AttrChunkCount.Int(len(chunks)),
	))
	defer span.End()
	start := time.Now()

	ok := o.inner.Upload(ctx, chunks)

	o.recordMutation(ctx, span, "upload", ok, time.Since(start))
	return ok
}

func (o *ObservedIndex) Search(ctx context.Context, query string, topK int) ([]docchat.Record, error) {
	ctx, span := o.inst.Tracer.Start(ctx, "index.search", trace.WithAttributes(
		AttrIndexName.String(o.index),
		AttrSearchTopK.Int(topK),
	))
	defer span.End()
	start := time.Now()

	records, err := o.inner.Search(ctx, query, topK)

	durationMs := float64(time.Since(start).Milliseconds())
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(AttrResultCount.Int(len(records)))
	}

	o.inst.SearchRequests.Add(ctx, 1, metric.WithAttributes(
		AttrIndexName.String(o.index),
		attribute.String("status", status),
	))
	o.inst.SearchDuration.Record(ctx, durationMs, metric.WithAttributes(
		AttrIndexName.String(o.index),
	))
	return records, err
}

func (o *ObservedIndex) recordMutation(ctx context.Context, span trace.Span, op string, ok bool, elapsed time.Duration) {
	status := "ok"
	if !ok {
		status = "error"
		span.SetStatus(codes.Error, op+" failed")
	}
	o.inst.IndexRequests.Add(ctx, 1, metric.WithAttributes(
		AttrIndexName.String(o.index),
		AttrIndexOp.String(op),
		attribute.String("status", status),
	))
	o.inst.IndexDuration.Record(ctx, float64(elapsed.Milliseconds()), metric.WithAttributes(
		AttrIndexName.String(o.index),
		AttrIndexOp.String(op),
	))
}
