// Package apply reconciles the dependent objects of a managed resource.
//
// Diff compares a desired object with the observed one: the hash annotation
// written on every apply catches changes to desired, and a semantic
// comparison of the fields desired sets catches edits made to the live
// object. Apply always sends a server side apply patch with a fixed field
// owner, so both kinds of change converge.
//
// Usage:
//
//	op, err := apply.Apply(ctx, c, desiredService)
//	deleted, err := apply.DeleteAllWithLabels(ctx, c, ns, selector,
//		&corev1.ServiceAccountList{}, &corev1.ServiceList{}, &appsv1.StatefulSetList{})
package apply
