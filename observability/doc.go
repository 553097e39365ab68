// Package observability wires OpenTelemetry tracing and metrics for chat
// clients.
//
// Programs start the OTLP exporters once:
//
//	shutdown, err := observability.Setup(ctx, "ollamachat", version, env, cfg.Telemetry)
//	defer shutdown(ctx)
//
// Clients record calls on ChatMetrics and open one span per call:
//
//	metrics, err := observability.NewChatMetrics(observability.Meter("chatkit"))
//	ctx, span := observability.StartSpan(ctx, observability.SpanChatCreate)
//	defer span.End()
//
// Components that can report their state implement HealthChecker.
package observability
