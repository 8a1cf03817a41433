package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

// Reconciliation results used as the result label of reconciliationsTotal.
const (
	ResultSuccess     = "success"
	ResultError       = "error"
	ResultLockTimeout = "lock_timeout"
	ResultInvalidSpec = "invalid_spec"
)

// Rolling restart outcomes used as the outcome label of rollingRestartsTotal.
const (
	RollRolled   = "rolled"
	RollDeferred = "deferred"
)

// Domain-specific metric collectors.
//
// These complement the generic controller-runtime metrics (work queue depth,
// client latency, etc.) with the state of the managed Kafka resources and the
// outcome of each reconciliation pass.
var (
	reconciliationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_operator_reconciliations_total",
			Help: "Total number of reconciliation passes by kind and result.",
		},
		[]string{"kind", "result"},
	)

	reconciliationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kafka_operator_reconciliation_duration_seconds",
			Help:    "Duration of reconciliation passes in seconds, lock wait excluded.",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"kind"},
	)

	lockTimeoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_operator_lock_timeouts_total",
			Help: "Total number of passes skipped because the resource lock was held.",
		},
		[]string{"kind"},
	)

	resourceInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kafka_operator_resource_info",
			Help: "Info-style metric for managed resource discovery and phase tracking. Always 1.",
		},
		[]string{"kind", "name", "namespace", "phase"},
	)

	resourceReplicas = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kafka_operator_resource_replicas",
			Help: "Desired and ready replica counts of a managed resource.",
		},
		[]string{"kind", "name", "namespace", "state"},
	)

	caGeneration = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kafka_operator_ca_generation",
			Help: "Current generation of a certificate authority.",
		},
		[]string{"cluster", "namespace", "role"},
	)

	caExpiryTimestamp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kafka_operator_ca_expiry_timestamp_seconds",
			Help: "Unix time at which a certificate authority certificate expires.",
		},
		[]string{"cluster", "namespace", "role"},
	)

	rollingRestartsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_operator_rolling_restarts_total",
			Help: "Total number of broker restarts performed or deferred by a maintenance window.",
		},
		[]string{"cluster", "namespace", "outcome"},
	)

	connectorState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kafka_operator_connector_state",
			Help: "Info-style metric for the reported state of a managed connector. Always 1.",
		},
		[]string{"cluster", "namespace", "connector", "state"},
	)

	webhookRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_operator_webhook_request_total",
			Help: "Total number of webhook admission requests.",
		},
		[]string{"operation", "resource", "result"},
	)

	webhookRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kafka_operator_webhook_request_duration_seconds",
			Help:    "Latency of webhook admission handling in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "resource"},
	)
)

func init() {
	metrics.Registry.MustRegister(Collectors()...)
}

// Collectors returns all registered metric collectors. This is useful for
// testing that metrics are properly registered.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		reconciliationsTotal,
		reconciliationDuration,
		lockTimeoutsTotal,
		resourceInfo,
		resourceReplicas,
		caGeneration,
		caExpiryTimestamp,
		rollingRestartsTotal,
		connectorState,
		webhookRequestTotal,
		webhookRequestDuration,
	}
}
