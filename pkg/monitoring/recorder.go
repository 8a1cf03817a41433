package monitoring

import "time"

// RecordReconciliation counts a finished pass and observes its duration.
func RecordReconciliation(kind, result string, duration time.Duration) {
	reconciliationsTotal.WithLabelValues(kind, result).Inc()
	if result != ResultLockTimeout {
		reconciliationDuration.WithLabelValues(kind).Observe(duration.Seconds())
	}
}

// RecordLockTimeout counts a pass that gave up waiting for the resource lock.
func RecordLockTimeout(kind string) {
	lockTimeoutsTotal.WithLabelValues(kind).Inc()
}

// SetResourceInfo sets the info-style gauge for a managed resource.
// Old phase labels are automatically cleaned up via DeletePartialMatch.
func SetResourceInfo(kind, name, namespace, phase string) {
	resourceInfo.DeletePartialMatch(map[string]string{
		"kind":      kind,
		"name":      name,
		"namespace": namespace,
	})
	resourceInfo.WithLabelValues(kind, name, namespace, phase).Set(1)
}

// SetResourceReplicas sets the desired and ready replica gauges of a resource.
func SetResourceReplicas(kind, name, namespace string, desired, ready int32) {
	resourceReplicas.WithLabelValues(kind, name, namespace, "desired").Set(float64(desired))
	resourceReplicas.WithLabelValues(kind, name, namespace, "ready").Set(float64(ready))
}

// SetCaState publishes the generation and expiry of a certificate authority.
func SetCaState(cluster, namespace, role string, generation int32, notAfter time.Time) {
	caGeneration.WithLabelValues(cluster, namespace, role).Set(float64(generation))
	caExpiryTimestamp.WithLabelValues(cluster, namespace, role).Set(float64(notAfter.Unix()))
}

// RecordRollingRestart counts a broker restart that was performed or deferred.
func RecordRollingRestart(cluster, namespace, outcome string) {
	rollingRestartsTotal.WithLabelValues(cluster, namespace, outcome).Inc()
}

// SetConnectorStates replaces the connector state gauges of one cluster.
// Connectors that are no longer listed are dropped.
func SetConnectorStates(cluster, namespace string, states map[string]string) {
	connectorState.DeletePartialMatch(map[string]string{
		"cluster":   cluster,
		"namespace": namespace,
	})
	for connector, state := range states {
		connectorState.WithLabelValues(cluster, namespace, connector, state).Set(1)
	}
}

// DeleteResourceMetrics drops every gauge of a deleted resource.
func DeleteResourceMetrics(kind, name, namespace string) {
	resourceInfo.DeletePartialMatch(map[string]string{"kind": kind, "name": name, "namespace": namespace})
	resourceReplicas.DeletePartialMatch(map[string]string{"kind": kind, "name": name, "namespace": namespace})
	caGeneration.DeletePartialMatch(map[string]string{"cluster": name, "namespace": namespace})
	caExpiryTimestamp.DeletePartialMatch(map[string]string{"cluster": name, "namespace": namespace})
	connectorState.DeletePartialMatch(map[string]string{"cluster": name, "namespace": namespace})
}

// RecordWebhookRequest records a webhook admission request's result and duration.
func RecordWebhookRequest(operation, resource string, err error, duration time.Duration) {
	result := "success"
	if err != nil {
		result = "error"
	}
	webhookRequestTotal.WithLabelValues(operation, resource, result).Inc()
	webhookRequestDuration.WithLabelValues(operation, resource).Observe(duration.Seconds())
}
