package mirrormaker2

import (
	"context"
	"errors"
	"fmt"
	"strings"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	policyv1 "k8s.io/api/policy/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/log"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/cluster-handler/assembly"
	"github.com/numtide/kafka-operator/pkg/config"
	"github.com/numtide/kafka-operator/pkg/data-handler/connect"
	"github.com/numtide/kafka-operator/pkg/monitoring"
	"github.com/numtide/kafka-operator/pkg/resource-handler/apply"
	"github.com/numtide/kafka-operator/pkg/util/metadata"
)

// +kubebuilder:rbac:groups=kafka.numtide.com,resources=kafkamirrormaker2s,verbs=get;list;watch
// +kubebuilder:rbac:groups=kafka.numtide.com,resources=kafkamirrormaker2s/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=apps,resources=deployments,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups="",resources=services;configmaps;serviceaccounts,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=policy,resources=poddisruptionbudgets,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups="",resources=events,verbs=create;patch

// ConnectorsError is returned when at least one connector could not be
// reconciled.
type ConnectorsError struct {
	Err error
}

func (e *ConnectorsError) Error() string {
	return "failed to reconcile connectors: " + e.Err.Error()
}

func (e *ConnectorsError) Unwrap() error {
	return e.Err
}

// Reason is the Ready condition reason for this error.
func (e *ConnectorsError) Reason() string {
	return kafkav1alpha1.ReasonConnectorError
}

// Assembly reconciles KafkaMirrorMaker2 resources.
type Assembly struct {
	Client   client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder
	Config   *config.Config

	// NewConnectAPI returns the client of the Connect REST API at baseURL.
	// It defaults to connect.NewClient.
	NewConnectAPI func(baseURL string) connect.API
}

var _ assembly.Operator = (*Assembly)(nil)

// NewAssembly creates an Assembly backed by the manager's client.
func NewAssembly(mgr ctrl.Manager, cfg *config.Config) *Assembly {
	return &Assembly{
		Client:   mgr.GetClient(),
		Scheme:   mgr.GetScheme(),
		Recorder: mgr.GetEventRecorderFor("mirrormaker2-controller"),
		Config:   cfg,
	}
}

func (a *Assembly) connectAPI(baseURL string) connect.API {
	if a.NewConnectAPI != nil {
		return a.NewConnectAPI(baseURL)
	}
	return connect.NewClient(baseURL)
}

// Kind implements assembly.Operator.
func (a *Assembly) Kind() string {
	return Kind
}

// Get implements assembly.Operator.
func (a *Assembly) Get(ctx context.Context, namespace, name string) (client.Object, error) {
	mm2 := &kafkav1alpha1.KafkaMirrorMaker2{}
	if err := a.Client.Get(ctx, types.NamespacedName{Namespace: namespace, Name: name}, mm2); err != nil {
		if apierrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get KafkaMirrorMaker2: %w", err)
	}
	return mm2, nil
}

// CreateOrUpdate implements assembly.Operator. The status is written after
// every pass, failed or not.
func (a *Assembly) CreateOrUpdate(ctx context.Context, obj client.Object) (assembly.Result, error) {
	mm2, ok := obj.(*kafkav1alpha1.KafkaMirrorMaker2)
	if !ok {
		return assembly.Result{}, fmt.Errorf("unexpected object type %T", obj)
	}

	out, err := a.reconcile(ctx, mm2)
	if statusErr := a.updateStatus(ctx, mm2, out, err); statusErr != nil {
		if err == nil {
			return assembly.Result{}, statusErr
		}
		log.FromContext(ctx).Error(statusErr, "Failed to record failed pass in status")
	}
	if err != nil {
		return assembly.Result{}, err
	}

	a.Recorder.Event(mm2, corev1.EventTypeNormal, "Synced", "Successfully reconciled KafkaMirrorMaker2")
	return assembly.Result{}, nil
}

func (a *Assembly) reconcile(ctx context.Context, mm2 *kafkav1alpha1.KafkaMirrorMaker2) (passOutcome, error) {
	logger := log.FromContext(ctx)
	var out passOutcome

	problems, warnings := Validate(mm2)
	for _, w := range warnings {
		logger.Info(w)
		a.Recorder.Event(mm2, corev1.EventTypeWarning, "DeprecatedField", w)
	}
	if len(problems) > 0 {
		a.Recorder.Event(mm2, corev1.EventTypeWarning, "InvalidSpec", strings.Join(problems, "; "))
		return out, &assembly.InvalidSpecError{
			Kind:      Kind,
			Namespace: mm2.Namespace,
			Name:      mm2.Name,
			Problems:  problems,
		}
	}

	if err := a.step(ctx, mm2, "ServiceAccount", func(ctx context.Context) error {
		sa, err := BuildServiceAccount(mm2, a.Scheme)
		if err != nil {
			return err
		}
		return a.apply(ctx, sa)
	}); err != nil {
		return out, err
	}

	if err := a.step(ctx, mm2, "Service", func(ctx context.Context) error {
		svc, err := BuildService(mm2, a.Scheme)
		if err != nil {
			return err
		}
		return a.apply(ctx, svc)
	}); err != nil {
		return out, err
	}

	var configHash string
	if err := a.step(ctx, mm2, "ConfigMap", func(ctx context.Context) error {
		cm, ignored, err := BuildConfigMap(mm2, a.Scheme)
		if err != nil {
			return err
		}
		for _, key := range ignored {
			log.FromContext(ctx).Info(fmt.Sprintf("Configuration option %q is forbidden and will be ignored", key))
		}
		configHash = ConfigurationHash(cm)
		return a.apply(ctx, cm)
	}); err != nil {
		return out, err
	}

	if err := a.step(ctx, mm2, "PodDisruptionBudget", func(ctx context.Context) error {
		pdb, err := BuildPodDisruptionBudget(mm2, a.Scheme)
		if err != nil {
			return err
		}
		return a.apply(ctx, pdb)
	}); err != nil {
		return out, err
	}

	if err := a.step(ctx, mm2, "Deployment", func(ctx context.Context) error {
		deploy, err := BuildDeployment(mm2, a.Scheme, configHash)
		if err != nil {
			return err
		}
		return a.apply(ctx, deploy)
	}); err != nil {
		return out, err
	}

	deploy, err := a.waitReady(ctx, mm2)
	out.ready = deploy.Status.ReadyReplicas
	if err != nil {
		return out, err
	}

	// Without workers there is no REST API to talk to.
	if mm2.Spec.Replicas == 0 {
		return out, nil
	}

	err = a.step(ctx, mm2, "Connectors", func(ctx context.Context) error {
		result, err := a.reconcileConnectors(ctx, mm2)
		out.connectors = result.Connectors
		out.connectorsSynced = true
		return err
	})
	return out, err
}

// reconcileConnectors converges the connectors of every mirror. Listing is
// retried while the REST API is unreachable, since workers may report ready
// before every one of them joined the group.
func (a *Assembly) reconcileConnectors(ctx context.Context, mm2 *kafkav1alpha1.KafkaMirrorMaker2) (connect.Result, error) {
	api := a.connectAPI(URL(mm2))
	b := a.Config.ConnectorBackOff

	var live []string
	if err := connect.Retry(ctx, b, isUnreachable, func(ctx context.Context) error {
		var err error
		live, err = api.List(ctx)
		return err
	}); err != nil {
		return connect.Result{}, &ConnectorsError{Err: fmt.Errorf("failed to list connectors: %w", err)}
	}

	result, err := connect.ReconcileConnectors(ctx, api, BuildConnectors(mm2), live, b)
	if err != nil {
		return result, &ConnectorsError{Err: err}
	}
	return result, nil
}

func isUnreachable(err error) bool {
	var restErr *connect.ConnectRestError
	return !errors.As(err, &restErr)
}

// step runs one named step of a pass in its own span, and reports a failure
// as a FailedApply event.
func (a *Assembly) step(
	ctx context.Context,
	mm2 *kafkav1alpha1.KafkaMirrorMaker2,
	name string,
	fn func(ctx context.Context) error,
) error {
	ctx, span := monitoring.StartChildSpan(ctx, "KafkaMirrorMaker2."+name)
	defer span.End()

	err := fn(ctx)
	if err != nil {
		monitoring.RecordSpanError(span, err)
		log.FromContext(ctx).Error(err, "Failed to reconcile "+name)
		a.Recorder.Eventf(mm2, corev1.EventTypeWarning, "FailedApply", "Failed to reconcile %s: %v", name, err)
	}
	return err
}

func (a *Assembly) apply(ctx context.Context, desired client.Object) error {
	_, err := apply.Apply(ctx, a.Client, desired)
	return err
}

// Delete implements assembly.Operator. Connectors live in the internal
// topics of the connect cluster and are left there.
func (a *Assembly) Delete(ctx context.Context, namespace, name string) error {
	deleted, err := apply.DeleteAllWithLabels(ctx, a.Client, namespace, ownedLabels(name),
		&corev1.ServiceAccountList{},
		&corev1.ServiceList{},
		&corev1.ConfigMapList{},
		&policyv1.PodDisruptionBudgetList{},
		&appsv1.DeploymentList{},
	)
	if len(deleted) > 0 {
		log.FromContext(ctx).Info("Deleted dependents", "objects", deleted)
	}
	return err
}

// ListNames implements assembly.Operator.
func (a *Assembly) ListNames(ctx context.Context, namespace string) ([]types.NamespacedName, error) {
	list := &kafkav1alpha1.KafkaMirrorMaker2List{}
	if err := a.Client.List(ctx, list, client.InNamespace(namespace)); err != nil {
		return nil, fmt.Errorf("failed to list KafkaMirrorMaker2 resources: %w", err)
	}
	out := make([]types.NamespacedName, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, client.ObjectKeyFromObject(&list.Items[i]))
	}
	return out, nil
}

// ListDependentNames implements assembly.Operator using the labels of the
// worker Deployments.
func (a *Assembly) ListDependentNames(ctx context.Context, namespace string) ([]types.NamespacedName, error) {
	list := &appsv1.DeploymentList{}
	if err := a.Client.List(ctx, list,
		client.InNamespace(namespace),
		client.MatchingLabels{metadata.LabelKind: Kind},
	); err != nil {
		return nil, fmt.Errorf("failed to list MirrorMaker 2 Deployments: %w", err)
	}
	out := make([]types.NamespacedName, 0, len(list.Items))
	for i := range list.Items {
		if name := list.Items[i].Labels[metadata.LabelCluster]; name != "" {
			out = append(out, types.NamespacedName{Namespace: list.Items[i].Namespace, Name: name})
		}
	}
	return out, nil
}

// SetupWithManager registers a controller that runs the loop for
// KafkaMirrorMaker2 resources and their dependents.
func SetupWithManager(mgr ctrl.Manager, loop *assembly.Loop, workers int) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&kafkav1alpha1.KafkaMirrorMaker2{}).
		Owns(&appsv1.Deployment{}).
		Owns(&corev1.Service{}).
		Owns(&corev1.ConfigMap{}).
		Owns(&corev1.ServiceAccount{}).
		Owns(&policyv1.PodDisruptionBudget{}).
		WithOptions(controller.Options{
			MaxConcurrentReconciles: workers,
			RateLimiter:             assembly.NewRateLimiter(),
		}).
		Named("kafkamirrormaker2").
		Complete(&assembly.Reconciler{Loop: loop})
}
