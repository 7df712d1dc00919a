package source

import (
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type instrumentCtx struct {
	tracer trace.Tracer
	log    *zap.Logger
}

// instrument wraps every request in a span and logs its lifecycle at debug
// level. Cancellations are logged as such, never as errors.
func instrument(client *resty.Client, tracer trace.Tracer, log *zap.Logger) {
	i := instrumentCtx{tracer: tracer, log: log}
	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

func (i instrumentCtx) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	ctx, _ := i.tracer.Start(req.Context(), "http "+req.Method)
	req.SetContext(ctx)
	i.log.Debug("start request", zap.String("method", req.Method), zap.String("url", req.URL))
	return nil
}

func (i instrumentCtx) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	span := trace.SpanFromContext(res.Request.Context())
	defer span.End()

	span.SetAttributes(
		attribute.String("http.method", res.Request.Method),
		attribute.String("http.url", res.Request.URL),
		attribute.Int("http.status_code", res.StatusCode()),
	)
	if res.IsError() {
		span.SetStatus(codes.Error, fmt.Sprintf("status %d", res.StatusCode()))
	}

	i.log.Debug("request done",
		zap.String("method", res.Request.Method),
		zap.String("url", res.Request.URL),
		zap.Int("status", res.StatusCode()),
		zap.Duration("took", res.Time()),
	)
	return nil
}

func (i instrumentCtx) onError(req *resty.Request, err error) {
	span := trace.SpanFromContext(req.Context())
	defer span.End()

	span.SetAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.url", req.URL),
	)
	if IsCanceled(err) {
		span.SetStatus(codes.Unset, "canceled")
		i.log.Debug("request canceled", zap.String("url", req.URL))
		return
	}
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
	i.log.Debug("request failed", zap.String("url", req.URL), zap.Error(err))
}
