package assembly

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/config"
	"github.com/numtide/kafka-operator/pkg/testutil"
	"github.com/numtide/kafka-operator/pkg/util/lock"
)

const testKind = "Fake"

// fakeOperator keeps its resources in memory. onUpdate, when set, runs inside
// CreateOrUpdate with the lock held.
type fakeOperator struct {
	mu         sync.Mutex
	live       map[string]client.Object
	dependents []string
	listErr    error
	getErr     error
	deleteErr  error
	requeue    time.Duration
	onUpdate   func(ctx context.Context, name string) error

	updated []string
	deleted []string
}

func newFakeOperator(names ...string) *fakeOperator {
	op := &fakeOperator{live: map[string]client.Object{}}
	for _, n := range names {
		op.live[n] = liveObject(n)
	}
	return op
}

func liveObject(name string) client.Object {
	return &corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "default"}}
}

func (f *fakeOperator) Kind() string { return testKind }

func (f *fakeOperator) Get(_ context.Context, _, name string) (client.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	obj, ok := f.live[name]
	if !ok {
		return nil, nil
	}
	return obj, nil
}

func (f *fakeOperator) CreateOrUpdate(ctx context.Context, obj client.Object) (Result, error) {
	if f.onUpdate != nil {
		if err := f.onUpdate(ctx, obj.GetName()); err != nil {
			return Result{}, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, obj.GetName())
	return Result{RequeueAfter: f.requeue}, nil
}

func (f *fakeOperator) Delete(_ context.Context, _, name string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeOperator) ListNames(_ context.Context, namespace string) ([]types.NamespacedName, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []types.NamespacedName
	for n := range f.live {
		keys = append(keys, types.NamespacedName{Namespace: namespace, Name: n})
	}
	return keys, nil
}

func (f *fakeOperator) ListDependentNames(_ context.Context, namespace string) ([]types.NamespacedName, error) {
	keys := make([]types.NamespacedName, 0, len(f.dependents))
	for _, n := range f.dependents {
		keys = append(keys, types.NamespacedName{Namespace: namespace, Name: n})
	}
	return keys, nil
}

func (f *fakeOperator) calls() (updated, deleted []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	updated = slices.Sorted(slices.Values(f.updated))
	deleted = slices.Sorted(slices.Values(f.deleted))
	return updated, deleted
}

func newTestLoop(op Operator) *Loop {
	cfg := config.Default()
	cfg.LockTimeout = time.Second
	return NewLoop(op, lock.NewTable(), cfg)
}

func TestLoop_ReconcileOne(t *testing.T) {
	t.Parallel()

	deleting := &corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{
		Name:              "my-cluster",
		Namespace:         "default",
		DeletionTimestamp: &metav1.Time{Time: time.Now()},
		Finalizers:        []string{"example.com/keep"},
	}}

	tests := map[string]struct {
		setup       func(*fakeOperator)
		wantUpdated []string
		wantDeleted []string
		wantRequeue time.Duration
		wantErr     error
	}{
		"present resource is created or updated": {
			setup:       func(f *fakeOperator) { f.live["my-cluster"] = liveObject("my-cluster") },
			wantUpdated: []string{"my-cluster"},
		},
		"absent resource is torn down": {
			setup:       func(*fakeOperator) {},
			wantDeleted: []string{"my-cluster"},
		},
		"resource being deleted is torn down": {
			setup:       func(f *fakeOperator) { f.live["my-cluster"] = deleting },
			wantDeleted: []string{"my-cluster"},
		},
		"requeue is propagated": {
			setup: func(f *fakeOperator) {
				f.live["my-cluster"] = liveObject("my-cluster")
				f.requeue = 10 * time.Second
			},
			wantUpdated: []string{"my-cluster"},
			wantRequeue: 10 * time.Second,
		},
		"get failure aborts the pass": {
			setup:   func(f *fakeOperator) { f.getErr = testutil.ErrInjected },
			wantErr: testutil.ErrInjected,
		},
		"update failure is returned": {
			setup: func(f *fakeOperator) {
				f.live["my-cluster"] = liveObject("my-cluster")
				f.onUpdate = func(context.Context, string) error { return testutil.ErrInjected }
			},
			wantErr: testutil.ErrInjected,
		},
		"teardown failure is returned": {
			setup:   func(f *fakeOperator) { f.deleteErr = testutil.ErrNetworkTimeout },
			wantErr: testutil.ErrNetworkTimeout,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			op := newFakeOperator()
			tc.setup(op)
			loop := newTestLoop(op)

			res, err := loop.ReconcileOne(t.Context(), "default", "my-cluster")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("ReconcileOne() error = %v, want %v", err, tc.wantErr)
			}
			if res.RequeueAfter != tc.wantRequeue {
				t.Errorf("RequeueAfter = %v, want %v", res.RequeueAfter, tc.wantRequeue)
			}

			updated, deleted := op.calls()
			if diff := cmp.Diff(tc.wantUpdated, updated); diff != "" {
				t.Errorf("updated mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantDeleted, deleted); diff != "" {
				t.Errorf("deleted mismatch (-want +got):\n%s", diff)
			}
			if got := loop.Locks.Len(); got != 0 {
				t.Errorf("lock table has %d entries after the pass, want 0", got)
			}
		})
	}
}

func TestLoop_ReconcileOne_SameNameIsExclusive(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	unblock := make(chan struct{})
	op := newFakeOperator("my-cluster")
	op.onUpdate = func(context.Context, string) error {
		close(entered)
		<-unblock
		return nil
	}
	loop := newTestLoop(op)
	loop.LockTimeout = 50 * time.Millisecond

	first := make(chan error, 1)
	go func() {
		_, err := loop.ReconcileOne(t.Context(), "default", "my-cluster")
		first <- err
	}()
	<-entered

	_, err := loop.ReconcileOne(t.Context(), "default", "my-cluster")
	var timeout *lock.TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("second pass error = %v, want *lock.TimeoutError", err)
	}
	if timeout.Key != lock.Key(testKind, "default", "my-cluster") {
		t.Errorf("timeout key = %q", timeout.Key)
	}

	close(unblock)
	if err := <-first; err != nil {
		t.Fatalf("first pass error = %v", err)
	}

	updated, _ := op.calls()
	if diff := cmp.Diff([]string{"my-cluster"}, updated); diff != "" {
		t.Errorf("timed out pass must not touch the resource (-want +got):\n%s", diff)
	}
}

func TestLoop_ReconcileOne_DifferentNamesRunConcurrently(t *testing.T) {
	t.Parallel()

	var arrived sync.WaitGroup
	arrived.Add(2)
	all := make(chan struct{})
	go func() {
		arrived.Wait()
		close(all)
	}()

	op := newFakeOperator("a", "b")
	op.onUpdate = func(context.Context, string) error {
		arrived.Done()
		select {
		case <-all:
			return nil
		case <-time.After(5 * time.Second):
			return errors.New("passes for different names were serialized")
		}
	}
	loop := newTestLoop(op)

	errs := make(chan error, 2)
	for _, name := range []string{"a", "b"} {
		go func() {
			_, err := loop.ReconcileOne(t.Context(), "default", name)
			errs <- err
		}()
	}
	for range 2 {
		if err := <-errs; err != nil {
			t.Fatalf("ReconcileOne() error = %v", err)
		}
	}
}

func TestLoop_ReconcileOne_RecoversPanics(t *testing.T) {
	t.Parallel()

	op := newFakeOperator("my-cluster")
	panicking := true
	op.onUpdate = func(context.Context, string) error {
		if panicking {
			panic("boom")
		}
		return nil
	}
	loop := newTestLoop(op)

	_, err := loop.ReconcileOne(t.Context(), "default", "my-cluster")
	var p *PanicError
	if !errors.As(err, &p) {
		t.Fatalf("ReconcileOne() error = %v, want *PanicError", err)
	}
	if p.Value != "boom" {
		t.Errorf("panic value = %v, want boom", p.Value)
	}
	if got := loop.Locks.Len(); got != 0 {
		t.Fatalf("lock must be released after a panic, table has %d entries", got)
	}

	panicking = false
	if _, err := loop.ReconcileOne(t.Context(), "default", "my-cluster"); err != nil {
		t.Fatalf("pass after panic error = %v", err)
	}
}

func TestLoop_ReconcileAll(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		live        []string
		dependents  []string
		failOn      string
		listErr     error
		wantUpdated []string
		wantDeleted []string
		wantErr     error
	}{
		"orphaned dependents are torn down": {
			live:        []string{"a", "b"},
			dependents:  []string{"b", "orphan"},
			wantUpdated: []string{"a", "b"},
			wantDeleted: []string{"orphan"},
		},
		"nothing to do": {},
		"failures do not stop siblings": {
			live:        []string{"a", "b", "c"},
			failOn:      "b",
			wantUpdated: []string{"a", "c"},
			wantErr:     testutil.ErrInjected,
		},
		"list failure": {
			live:    []string{"a"},
			listErr: testutil.ErrPermissionError,
			wantErr: testutil.ErrPermissionError,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			op := newFakeOperator(tc.live...)
			op.dependents = tc.dependents
			op.listErr = tc.listErr
			if tc.failOn != "" {
				op.onUpdate = func(_ context.Context, name string) error {
					if name == tc.failOn {
						return testutil.ErrInjected
					}
					return nil
				}
			}
			loop := newTestLoop(op)
			loop.Workers = 2

			err := loop.ReconcileAll(t.Context(), "default")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("ReconcileAll() error = %v, want %v", err, tc.wantErr)
			}

			updated, deleted := op.calls()
			if diff := cmp.Diff(tc.wantUpdated, updated); diff != "" {
				t.Errorf("updated mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantDeleted, deleted); diff != "" {
				t.Errorf("deleted mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoop_ReconcileAll_SkipsInvalidSpecUntilChanged(t *testing.T) {
	t.Parallel()

	invalid := func(generation, observed int64) *kafkav1alpha1.Kafka {
		k := &kafkav1alpha1.Kafka{ObjectMeta: metav1.ObjectMeta{
			Name:       "my-cluster",
			Namespace:  "default",
			Generation: generation,
		}}
		k.Status.ObservedGeneration = observed
		k.Status.Conditions = []metav1.Condition{{
			Type:   kafkav1alpha1.ConditionReady,
			Status: metav1.ConditionFalse,
			Reason: kafkav1alpha1.ReasonInvalidSpec,
		}}
		return k
	}

	tests := map[string]struct {
		obj         client.Object
		wantUpdated []string
	}{
		"rejected generation is skipped": {
			obj: invalid(3, 3),
		},
		"changed spec is retried": {
			obj:         invalid(4, 3),
			wantUpdated: []string{"my-cluster"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			op := newFakeOperator()
			op.live["my-cluster"] = tc.obj
			loop := newTestLoop(op)

			if err := loop.ReconcileAll(t.Context(), "default"); err != nil {
				t.Fatalf("ReconcileAll() error = %v", err)
			}
			updated, _ := op.calls()
			if diff := cmp.Diff(tc.wantUpdated, updated); diff != "" {
				t.Errorf("updated mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("events still reconcile a rejected generation", func(t *testing.T) {
		t.Parallel()

		op := newFakeOperator()
		op.live["my-cluster"] = invalid(3, 3)
		loop := newTestLoop(op)

		if _, err := loop.ReconcileOne(t.Context(), "default", "my-cluster"); err != nil {
			t.Fatalf("ReconcileOne() error = %v", err)
		}
		updated, _ := op.calls()
		if diff := cmp.Diff([]string{"my-cluster"}, updated); diff != "" {
			t.Errorf("updated mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestLoop_ReconcileAll_SkipsLockedResources(t *testing.T) {
	t.Parallel()

	op := newFakeOperator("a", "b")
	loop := newTestLoop(op)
	loop.LockTimeout = 20 * time.Millisecond

	release, err := loop.Locks.TryLock(t.Context(), lock.Key(testKind, "default", "a"), time.Second)
	if err != nil {
		t.Fatalf("TryLock() error = %v", err)
	}
	defer release()

	if err := loop.ReconcileAll(t.Context(), "default"); err != nil {
		t.Fatalf("ReconcileAll() error = %v, want nil for abandoned passes", err)
	}
	updated, _ := op.calls()
	if diff := cmp.Diff([]string{"b"}, updated); diff != "" {
		t.Errorf("updated mismatch (-want +got):\n%s", diff)
	}
}
