// Package monitoring provides Prometheus metrics, recording helpers and
// OpenTelemetry spans for the Kafka operator. It exposes domain-specific
// gauges and counters that complement the generic controller-runtime metrics
// already registered by the framework.
//
// All metrics follow the naming convention kafka_operator_<metric>_<unit>
// and are registered against controller-runtime's default Prometheus registry
// on import.
//
// Usage in the reconcile loop:
//
//	monitoring.RecordReconciliation("Kafka", monitoring.ResultSuccess, elapsed)
//	monitoring.SetCaState(kafka.Name, kafka.Namespace, "cluster", ca.Generation(), ca.NotAfter())
//
// Usage in webhooks:
//
//	monitoring.RecordWebhookRequest("CREATE", "Kafka", err, elapsed)
package monitoring
