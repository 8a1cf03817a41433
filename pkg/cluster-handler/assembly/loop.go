package assembly

import (
	"context"
	"errors"
	"maps"
	"runtime/debug"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/config"
	"github.com/numtide/kafka-operator/pkg/monitoring"
	"github.com/numtide/kafka-operator/pkg/util/lock"
)

// Result is the outcome of a successful pass.
type Result struct {
	// RequeueAfter asks for another pass after the given delay, for example
	// when a rolling restart was deferred or held back.
	RequeueAfter time.Duration
}

// Operator is the per-kind part of a reconciliation pass. Implementations are
// only ever called with the resource lock held.
type Operator interface {
	// Kind is the resource kind, used in lock keys, logs and metrics.
	Kind() string

	// Get returns the live resource, or a nil interface when it does not exist.
	Get(ctx context.Context, namespace, name string) (client.Object, error)

	// CreateOrUpdate converges the dependents of obj toward its spec.
	CreateOrUpdate(ctx context.Context, obj client.Object) (Result, error)

	// Delete tears down every dependent of the named resource.
	Delete(ctx context.Context, namespace, name string) error

	// ListNames returns the live resources in namespace. An empty namespace
	// means all namespaces.
	ListNames(ctx context.Context, namespace string) ([]types.NamespacedName, error)

	// ListDependentNames returns the owners named by labelled dependents.
	ListDependentNames(ctx context.Context, namespace string) ([]types.NamespacedName, error)
}

// Loop serializes passes per resource and fans out across resources.
type Loop struct {
	Operator    Operator
	Locks       *lock.Table
	LockTimeout time.Duration
	Workers     int
}

// NewLoop creates a Loop for op. Loops of different kinds may share a lock
// table since keys include the kind.
func NewLoop(op Operator, locks *lock.Table, cfg *config.Config) *Loop {
	return &Loop{
		Operator:    op,
		Locks:       locks,
		LockTimeout: cfg.LockTimeout,
		Workers:     cfg.Workers,
	}
}

// ReconcileOne runs one pass for namespace/name.
//
// The lock is acquired with LockTimeout; on timeout a *lock.TimeoutError is
// returned and nothing is touched. A resource that is absent or being deleted
// is torn down, otherwise its dependents are created or updated. The lock is
// released on every exit path, including panics, which are returned as a
// *PanicError.
func (l *Loop) ReconcileOne(ctx context.Context, namespace, name string) (Result, error) {
	return l.reconcile(ctx, namespace, name, false)
}

func (l *Loop) reconcile(ctx context.Context, namespace, name string, skipInvalid bool) (res Result, err error) {
	kind := l.Operator.Kind()
	logger := log.FromContext(ctx).WithValues(
		"reconciliation", uuid.NewString(),
		"kind", kind,
		"namespace", namespace,
		"name", name,
	)
	ctx = log.IntoContext(ctx, logger)

	key := lock.Key(kind, namespace, name)
	release, err := l.Locks.TryLock(ctx, key, l.LockTimeout)
	if err != nil {
		var timeout *lock.TimeoutError
		if errors.As(err, &timeout) {
			logger.Info("Another pass holds the lock, abandoning", "timeout", l.LockTimeout)
			monitoring.RecordLockTimeout(kind)
			monitoring.RecordReconciliation(kind, monitoring.ResultLockTimeout, 0)
		}
		return Result{}, err
	}
	defer release()

	start := time.Now()
	ctx, span := monitoring.StartReconcileSpan(ctx, kind+".Reconcile", name, namespace, kind)
	defer span.End()
	ctx = monitoring.EnrichLoggerWithTrace(ctx)

	defer func() {
		if r := recover(); r != nil {
			log.FromContext(ctx).Error(nil, "Reconciliation panicked", "panic", r, "stack", string(debug.Stack()))
			err = &PanicError{Value: r}
		}
		monitoring.RecordSpanError(span, err)
		monitoring.RecordReconciliation(kind, resultLabel(err), time.Since(start))
	}()

	return l.run(ctx, namespace, name, skipInvalid)
}

func (l *Loop) run(ctx context.Context, namespace, name string, skipInvalid bool) (Result, error) {
	logger := log.FromContext(ctx)

	obj, err := l.Operator.Get(ctx, namespace, name)
	if err != nil {
		return Result{}, err
	}

	if obj == nil || !obj.GetDeletionTimestamp().IsZero() {
		logger.Info("Resource is absent, tearing down dependents")
		if err := l.Operator.Delete(ctx, namespace, name); err != nil {
			return Result{}, err
		}
		monitoring.DeleteResourceMetrics(l.Operator.Kind(), name, namespace)
		return Result{}, nil
	}

	if skipInvalid && rejectedAsInvalid(obj) {
		logger.V(1).Info("Skipping resource whose spec is invalid", "generation", obj.GetGeneration())
		return Result{}, nil
	}

	logger.V(1).Info("Reconciling resource", "generation", obj.GetGeneration())
	return l.Operator.CreateOrUpdate(ctx, obj)
}

// ReconcileAll runs ReconcileOne once for every name that is either a live
// resource or the owner of labelled dependents, with at most Workers passes
// in flight. A resource whose last pass rejected its current generation as
// invalid is not retried until its spec changes. Passes abandoned on a lock
// timeout are skipped; every other failure is joined into the returned error.
func (l *Loop) ReconcileAll(ctx context.Context, namespace string) error {
	logger := log.FromContext(ctx).WithValues("kind", l.Operator.Kind(), "namespace", namespace)

	names, err := l.Operator.ListNames(ctx, namespace)
	if err != nil {
		return err
	}
	dependents, err := l.Operator.ListDependentNames(ctx, namespace)
	if err != nil {
		return err
	}

	set := make(map[types.NamespacedName]struct{}, len(names)+len(dependents))
	for _, n := range names {
		set[n] = struct{}{}
	}
	for _, n := range dependents {
		set[n] = struct{}{}
	}
	all := slices.SortedFunc(maps.Keys(set), func(a, b types.NamespacedName) int {
		return strings.Compare(a.String(), b.String())
	})
	logger.V(1).Info("Periodic reconciliation", "resources", len(all))

	var (
		mu   sync.Mutex
		errs []error
	)
	var g errgroup.Group
	if l.Workers > 0 {
		g.SetLimit(l.Workers)
	}
	for _, key := range all {
		g.Go(func() error {
			_, err := l.reconcile(ctx, key.Namespace, key.Name, true)
			var timeout *lock.TimeoutError
			if err == nil || errors.As(err, &timeout) {
				return nil
			}
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// statusReporter is implemented by resources that publish conditions.
type statusReporter interface {
	GetConditions() []metav1.Condition
	GetObservedGeneration() int64
}

// rejectedAsInvalid reports whether the last pass over obj failed validation
// of its current generation.
func rejectedAsInvalid(obj client.Object) bool {
	s, ok := obj.(statusReporter)
	if !ok {
		return false
	}
	ready := meta.FindStatusCondition(s.GetConditions(), kafkav1alpha1.ConditionReady)
	return ready != nil &&
		ready.Status == metav1.ConditionFalse &&
		ready.Reason == kafkav1alpha1.ReasonInvalidSpec &&
		s.GetObservedGeneration() == obj.GetGeneration()
}

func resultLabel(err error) string {
	var invalid *InvalidSpecError
	switch {
	case err == nil:
		return monitoring.ResultSuccess
	case errors.As(err, &invalid):
		return monitoring.ResultInvalidSpec
	default:
		return monitoring.ResultError
	}
}
