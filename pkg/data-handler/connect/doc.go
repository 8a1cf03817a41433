// Package connect drives connectors through the Kafka Connect REST API.
//
// Client implements API over HTTP. ReconcileConnectors converges the desired
// connectors of one Connect cluster, polling status with a wait.Backoff and
// isolating failures per connector.
package connect
