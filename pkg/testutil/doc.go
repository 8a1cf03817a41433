// Package testutil provides test utilities for the operator's controllers.
//
// The main support is a controller-runtime fake client wrapper that injects
// failures per operation, so error paths of an assembly can be exercised
// without a running API server.
//
// Example:
//
//	base := fake.NewClientBuilder().WithScheme(testutil.NewScheme()).Build()
//	c := testutil.NewFakeClientWithFailures(base, &testutil.FailureConfig{
//	    OnCreate: testutil.FailOnObjectName("my-cluster-kafka", testutil.ErrInjected),
//	})
package testutil
