package agent

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("vibecode.agent")

// startOperationSpan opens the span covering one solve or feedback attempt.
func startOperationSpan(ctx context.Context, kind WorkKind, project string, attempt int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "agent."+string(kind),
		trace.WithAttributes(
			attribute.String("agent.project", project),
			attribute.Int("agent.attempt", attempt),
		),
	)
}

// startPhaseSpan opens a child span for one loop phase.
func startPhaseSpan(ctx context.Context, phase State) (context.Context, trace.Span) {
	return tracer.Start(ctx, "agent.phase."+phase.String())
}

// endSpan records the final state and error on span and ends it.
func endSpan(span trace.Span, state State, err error) {
	span.SetAttributes(attribute.String("agent.state", state.String()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
