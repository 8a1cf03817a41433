// Package assembly runs reconciliation passes for top-level resources.
//
// Each resource kind implements Operator. A Loop wraps an Operator with the
// per-resource lock so that passes for the same namespace and name never
// overlap, while passes for different names run concurrently:
//
//	loop := assembly.NewLoop(kafkaAssembly, locks, cfg)
//	res, err := loop.ReconcileOne(ctx, "default", "my-cluster")
//
// ReconcileOne fetches the resource and either creates/updates its dependents
// or, when the resource is gone, tears every dependent down. ReconcileAll
// unions the names of live resources and of dependents found by label, so a
// resource whose delete notification was missed is still cleaned up.
//
// Reconciler adapts a Loop to controller-runtime and Resync drives
// ReconcileAll on a fixed interval.
package assembly
