// Package handlers implements the admission handlers of the operator.
//
// The validators run the same spec validation as the reconciliation loop, so
// a resource that would end in an InvalidSpec condition is rejected at
// admission time instead. Deprecation notices are returned as admission
// warnings. Update validation additionally rejects changes the dependents
// cannot follow, such as switching broker storage between ephemeral and
// persistent volumes.
//
// The defaulters make implicit defaults explicit in the stored object, so
// that users can see which certificate authority settings are in effect.
package handlers
