// Package observability wires OpenTelemetry metrics and tracing for livesse.
//
// Providers export over OTLP/HTTP:
//
//	mp, err := observability.InitMeter(ctx, &meterCfg)
//	defer mp.Shutdown(ctx)
//
//	tp, err := observability.InitTracer(ctx, &tracerCfg)
//	defer tp.Shutdown(ctx)
//
// Subscription instruments are created once and shared by managers:
//
//	metrics, err := observability.NewSubscriptionMetrics(observability.Meter("livesse"))
//	mgr := subscription.New[Job](url, transport, subscription.WithMetrics(metrics))
//
// A nil *SubscriptionMetrics records nothing.
package observability
