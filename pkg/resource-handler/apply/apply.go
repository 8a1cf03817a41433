package apply

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"

	"k8s.io/apimachinery/pkg/api/equality"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/apiutil"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/numtide/kafka-operator/pkg/cluster-handler/names"
)

const (
	// AnnotationDesiredHash records the hash of the desired object that was
	// last applied.
	AnnotationDesiredHash = "kafka.numtide.com/desired-hash"

	// FieldOwner is the server side apply field manager.
	FieldOwner = "kafka-operator"
)

// Operation is the change Diff selects for one dependent object.
type Operation string

const (
	NoOp   Operation = "NoOp"
	Create Operation = "Create"
	Update Operation = "Update"
	Delete Operation = "Delete"
)

// ResourceApplyError wraps a failed API call for a dependent object.
type ResourceApplyError struct {
	Kind      string
	Namespace string
	Name      string
	Op        Operation
	Err       error
}

func (e *ResourceApplyError) Error() string {
	return fmt.Sprintf("failed to %s %s %s/%s: %v", verb(e.Op), e.Kind, e.Namespace, e.Name, e.Err)
}

func (e *ResourceApplyError) Unwrap() error {
	return e.Err
}

func verb(op Operation) string {
	switch op {
	case Create:
		return "create"
	case Update:
		return "update"
	case Delete:
		return "delete"
	default:
		return "get"
	}
}

// Hash returns the hash of obj's content, ignoring the hash annotation itself.
func Hash(obj client.Object) (string, error) {
	data, err := json.Marshal(content(obj))
	if err != nil {
		return "", fmt.Errorf("failed to hash %T: %w", obj, err)
	}
	return names.Hash([]string{string(data)}), nil
}

// Diff selects the operation that turns observed into desired. A nil desired
// means the object should not exist; a nil observed means it does not. An
// observed object whose hash annotation matches still needs an Update when a
// field set in desired was changed on the live object.
func Diff(desired, observed client.Object) (Operation, error) {
	switch {
	case isNil(desired) && isNil(observed):
		return NoOp, nil
	case isNil(desired):
		return Delete, nil
	case isNil(observed):
		return Create, nil
	}

	hash, err := Hash(desired)
	if err != nil {
		return NoOp, err
	}
	if observed.GetAnnotations()[AnnotationDesiredHash] != hash {
		return Update, nil
	}
	if !equality.Semantic.DeepDerivative(content(desired), content(observed)) {
		return Update, nil
	}
	return NoOp, nil
}

// content strips the fields the API server owns so that only what a desired
// object sets is compared.
func content(obj client.Object) client.Object {
	clone := obj.DeepCopyObject().(client.Object)
	clone.GetObjectKind().SetGroupVersionKind(schema.GroupVersionKind{})
	clone.SetResourceVersion("")
	clone.SetManagedFields(nil)
	clone.SetUID("")
	clone.SetGeneration(0)
	clone.SetCreationTimestamp(metav1.Time{})
	if annotations := clone.GetAnnotations(); annotations != nil {
		annotations = maps.Clone(annotations)
		delete(annotations, AnnotationDesiredHash)
		clone.SetAnnotations(annotations)
	}
	return clone
}

// Apply creates or updates desired with server side apply and returns the
// operation Diff selected. The patch is sent on every call: it is idempotent,
// and it takes back fields edited on the live object.
func Apply(ctx context.Context, c client.Client, desired client.Object) (Operation, error) {
	logger := log.FromContext(ctx)

	gvk, err := apiutil.GVKForObject(desired, c.Scheme())
	if err != nil {
		return NoOp, fmt.Errorf("failed to resolve kind of %T: %w", desired, err)
	}

	observed := desired.DeepCopyObject().(client.Object)
	if err := c.Get(ctx, client.ObjectKeyFromObject(desired), observed); err != nil {
		if !apierrors.IsNotFound(err) {
			return NoOp, &ResourceApplyError{Kind: gvk.Kind, Namespace: desired.GetNamespace(), Name: desired.GetName(), Op: NoOp, Err: err}
		}
		observed = nil
	}

	op, err := Diff(desired, observed)
	if err != nil {
		return NoOp, err
	}

	hash, err := Hash(desired)
	if err != nil {
		return NoOp, err
	}
	annotations := maps.Clone(desired.GetAnnotations())
	if annotations == nil {
		annotations = map[string]string{}
	}
	annotations[AnnotationDesiredHash] = hash
	desired.SetAnnotations(annotations)
	desired.GetObjectKind().SetGroupVersionKind(gvk)
	desired.SetResourceVersion("")
	desired.SetManagedFields(nil)

	if err := c.Patch(
		ctx,
		desired,
		client.Apply,
		client.ForceOwnership,
		client.FieldOwner(FieldOwner),
	); err != nil {
		failed := op
		if failed == NoOp {
			failed = Update
		}
		return op, &ResourceApplyError{Kind: gvk.Kind, Namespace: desired.GetNamespace(), Name: desired.GetName(), Op: failed, Err: err}
	}

	if op != NoOp {
		logger.V(1).Info("Applied dependent", "kind", gvk.Kind, "name", desired.GetName(), "operation", op)
	}
	return op, nil
}

// Remove deletes obj, treating an already missing object as success. It
// returns whether a delete was issued.
func Remove(ctx context.Context, c client.Client, obj client.Object) (bool, error) {
	if err := c.Delete(ctx, obj, client.PropagationPolicy("Background")); err != nil {
		if apierrors.IsNotFound(err) {
			return false, nil
		}
		kind := kindOf(c, obj)
		return false, &ResourceApplyError{Kind: kind, Namespace: obj.GetNamespace(), Name: obj.GetName(), Op: Delete, Err: err}
	}
	log.FromContext(ctx).V(1).Info("Deleted dependent", "kind", kindOf(c, obj), "name", obj.GetName())
	return true, nil
}

// DeleteAllWithLabels deletes every object of the given list kinds matching
// labels in namespace. Lists are processed in reverse order so dependents
// listed in apply order are torn down in the opposite order. Every kind is
// attempted and the errors are joined.
func DeleteAllWithLabels(
	ctx context.Context,
	c client.Client,
	namespace string,
	labels map[string]string,
	lists ...client.ObjectList,
) ([]string, error) {
	var deleted []string
	var errs []error

	for _, list := range slices.Backward(lists) {
		if err := c.List(ctx, list, client.InNamespace(namespace), client.MatchingLabels(labels)); err != nil {
			errs = append(errs, fmt.Errorf("failed to list %T: %w", list, err))
			continue
		}
		items, err := meta.ExtractList(list)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to extract %T: %w", list, err))
			continue
		}
		for _, item := range items {
			obj, ok := item.(client.Object)
			if !ok {
				continue
			}
			removed, err := Remove(ctx, c, obj)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if removed {
				deleted = append(deleted, fmt.Sprintf("%s/%s", kindOf(c, obj), obj.GetName()))
			}
		}
	}
	return deleted, errors.Join(errs...)
}

func kindOf(c client.Client, obj client.Object) string {
	if gvk, err := apiutil.GVKForObject(obj, c.Scheme()); err == nil {
		return gvk.Kind
	}
	return fmt.Sprintf("%T", obj)
}

func isNil(obj client.Object) bool {
	if obj == nil {
		return true
	}
	v := reflect.ValueOf(obj)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
