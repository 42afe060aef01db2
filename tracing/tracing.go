// Package tracing reports container resolutions as OpenTelemetry spans.
package tracing

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/danpasecinic/bantam"
)

const (
	SpanName = "bantam.resolve"

	AttrTypeID    = "bantam.type_id"
	AttrErrorCode = "bantam.error_code"
)

// Interceptor returns a resolve interceptor that records one span per
// resolution. A dependency's span is a child of the span of the type that
// needs it, and constructors taking a context see their own span in it. A
// nil tracer yields an interceptor that does nothing.
func Interceptor(tracer trace.Tracer) bantam.ResolveInterceptor {
	if tracer == nil {
		return func(ctx context.Context, _ string) (context.Context, func(error)) {
			return ctx, nil
		}
	}

	return func(ctx context.Context, typeID string) (context.Context, func(error)) {
		if ctx == nil {
			ctx = context.Background()
		}

		ctx, span := tracer.Start(
			ctx, SpanName,
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attribute.String(AttrTypeID, typeID)),
		)

		return ctx, func(err error) {
			defer span.End()
			record(span, err)
		}
	}
}

func record(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var e *bantam.Error
	if errors.As(err, &e) {
		span.SetAttributes(attribute.String(AttrErrorCode, e.Code.String()))
	}
}
