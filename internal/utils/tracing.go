package utils

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TraceOperation starts a span for a portal operation
func TraceOperation(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer("edital360-portal").Start(ctx, name, trace.WithAttributes(attrs...))
}

// TraceUpstreamCall starts a span for a backend API call
func TraceUpstreamCall(ctx context.Context, operation string) (context.Context, trace.Span) {
	return TraceOperation(ctx, "upstream."+operation,
		attribute.String("upstream.operation", operation),
		attribute.String("upstream.system", "concursos-api"),
	)
}

// RecordErrorInSpan records an error with optional attributes
func RecordErrorInSpan(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if err == nil {
		return
	}
	span.SetAttributes(attrs...)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
