package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

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
	"github.com/numtide/kafka-operator/pkg/cert"
	"github.com/numtide/kafka-operator/pkg/cluster-handler/assembly"
	"github.com/numtide/kafka-operator/pkg/cluster-handler/names"
	"github.com/numtide/kafka-operator/pkg/config"
	"github.com/numtide/kafka-operator/pkg/monitoring"
	"github.com/numtide/kafka-operator/pkg/resource-handler/apply"
	"github.com/numtide/kafka-operator/pkg/rolling"
	"github.com/numtide/kafka-operator/pkg/util/metadata"
)

// +kubebuilder:rbac:groups=kafka.numtide.com,resources=kafkas,verbs=get;list;watch
// +kubebuilder:rbac:groups=kafka.numtide.com,resources=kafkas/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=apps,resources=statefulsets,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups="",resources=services;configmaps;serviceaccounts,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups="",resources=pods,verbs=get;list;watch;delete
// +kubebuilder:rbac:groups=policy,resources=poddisruptionbudgets,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups="",resources=events,verbs=create;patch

// RollingRequeueInterval is the delay before the next pass when broker
// restarts are still pending.
const RollingRequeueInterval = 10 * time.Second

// Assembly reconciles Kafka resources.
type Assembly struct {
	Client   client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder
	Config   *config.Config
	Certs    *cert.Store

	// Now returns the current time. It defaults to time.Now.
	Now func() time.Time
}

var _ assembly.Operator = (*Assembly)(nil)

// NewAssembly creates an Assembly backed by the manager's client.
func NewAssembly(mgr ctrl.Manager, cfg *config.Config) *Assembly {
	recorder := mgr.GetEventRecorderFor("kafka-controller")
	return &Assembly{
		Client:   mgr.GetClient(),
		Scheme:   mgr.GetScheme(),
		Recorder: recorder,
		Config:   cfg,
		Certs:    cert.NewStore(mgr.GetClient(), recorder),
	}
}

func (a *Assembly) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Kind implements assembly.Operator.
func (a *Assembly) Kind() string {
	return Kind
}

// Get implements assembly.Operator.
func (a *Assembly) Get(ctx context.Context, namespace, name string) (client.Object, error) {
	kafka := &kafkav1alpha1.Kafka{}
	if err := a.Client.Get(ctx, types.NamespacedName{Namespace: namespace, Name: name}, kafka); err != nil {
		if apierrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get Kafka: %w", err)
	}
	return kafka, nil
}

// CreateOrUpdate implements assembly.Operator. The status is written after
// every pass, failed or not.
func (a *Assembly) CreateOrUpdate(ctx context.Context, obj client.Object) (assembly.Result, error) {
	kafka, ok := obj.(*kafkav1alpha1.Kafka)
	if !ok {
		return assembly.Result{}, fmt.Errorf("unexpected object type %T", obj)
	}
	logger := log.FromContext(ctx)

	out, err := a.reconcile(ctx, kafka)
	if statusErr := a.updateStatus(ctx, kafka, out, err); statusErr != nil {
		if err == nil {
			return assembly.Result{}, statusErr
		}
		logger.Error(statusErr, "Failed to record failed pass in status")
	}
	if err != nil {
		return assembly.Result{}, err
	}

	a.Recorder.Event(kafka, corev1.EventTypeNormal, "Synced", "Successfully reconciled Kafka")
	if out.rolls.Pending {
		return assembly.Result{RequeueAfter: RollingRequeueInterval}, nil
	}
	return assembly.Result{}, nil
}

func (a *Assembly) reconcile(ctx context.Context, kafka *kafkav1alpha1.Kafka) (passOutcome, error) {
	var out passOutcome

	if problems := Validate(kafka); len(problems) > 0 {
		a.Recorder.Event(kafka, corev1.EventTypeWarning, "InvalidSpec", strings.Join(problems, "; "))
		return out, &assembly.InvalidSpecError{
			Kind:      Kind,
			Namespace: kafka.Namespace,
			Name:      kafka.Name,
			Problems:  problems,
		}
	}

	var clusterCa, clientsCa managedCa
	if err := a.step(ctx, kafka, "Certificates", func(ctx context.Context) error {
		var err error
		if clusterCa, err = a.reconcileCa(ctx, kafka, cert.RoleCluster, kafka.Spec.ClusterCa); err != nil {
			return err
		}
		clientsCa, err = a.reconcileCa(ctx, kafka, cert.RoleClients, kafka.Spec.ClientsCa)
		return err
	}); err != nil {
		return out, err
	}
	out.clusterCaGeneration = clusterCa.ca.Generation()
	out.clientsCaGeneration = clientsCa.ca.Generation()

	if err := a.step(ctx, kafka, "ServiceAccount", func(ctx context.Context) error {
		sa, err := BuildServiceAccount(kafka, a.Scheme)
		if err != nil {
			return err
		}
		return a.apply(ctx, sa)
	}); err != nil {
		return out, err
	}

	current, err := a.currentStatefulSet(ctx, kafka)
	if err != nil {
		return out, err
	}
	if current != nil && replicasOf(current) > kafka.Spec.Replicas {
		if err := a.step(ctx, kafka, "ScaleDown", func(ctx context.Context) error {
			return a.scale(ctx, current, kafka.Spec.Replicas)
		}); err != nil {
			return out, err
		}
	}

	if err := a.step(ctx, kafka, "Services", func(ctx context.Context) error {
		return a.reconcileServices(ctx, kafka)
	}); err != nil {
		return out, err
	}

	var configHash string
	if err := a.step(ctx, kafka, "ConfigMap", func(ctx context.Context) error {
		cm, ignored, err := BuildConfigMap(kafka, a.Scheme)
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

	if err := a.step(ctx, kafka, "BrokersSecret", func(ctx context.Context) error {
		return a.reconcileBrokersSecret(ctx, kafka, clusterCa.ca)
	}); err != nil {
		return out, err
	}

	if err := a.step(ctx, kafka, "PodDisruptionBudget", func(ctx context.Context) error {
		pdb, err := BuildPodDisruptionBudget(kafka, a.Scheme)
		if err != nil {
			return err
		}
		return a.apply(ctx, pdb)
	}); err != nil {
		return out, err
	}

	// New brokers are only added after the rolling step.
	replicas := kafka.Spec.Replicas
	if current != nil {
		replicas = min(replicas, replicasOf(current))
	}
	if err := a.step(ctx, kafka, "StatefulSet", func(ctx context.Context) error {
		sts, err := BuildStatefulSet(kafka, a.Scheme, PodInputs{
			Replicas:            replicas,
			ClusterCaGeneration: clusterCa.ca.Generation(),
			ClientsCaGeneration: clientsCa.ca.Generation(),
			ConfigurationHash:   configHash,
		})
		if err != nil {
			return err
		}
		return a.apply(ctx, sts)
	}); err != nil {
		return out, err
	}

	if current != nil {
		cas := []rolling.CaState{
			clusterCa.rollingState(AnnotationClusterCaGeneration),
			clientsCa.rollingState(AnnotationClientsCaGeneration),
		}
		if err := a.step(ctx, kafka, "RollingUpdate", func(ctx context.Context) error {
			rolls, err := a.rollBrokers(ctx, kafka, current, cas)
			out.rolls = rolls
			return err
		}); err != nil {
			return out, err
		}

		if replicas < kafka.Spec.Replicas {
			if err := a.step(ctx, kafka, "ScaleUp", func(ctx context.Context) error {
				latest, err := a.currentStatefulSet(ctx, kafka)
				if err != nil || latest == nil {
					return err
				}
				return a.scale(ctx, latest, kafka.Spec.Replicas)
			}); err != nil {
				return out, err
			}
		}
	}

	sts, err := a.waitReady(ctx, kafka)
	out.ready = sts.Status.ReadyReplicas
	return out, err
}

// step runs one named step of a pass in its own span, and reports a failure
// as a FailedApply event.
func (a *Assembly) step(
	ctx context.Context,
	kafka *kafkav1alpha1.Kafka,
	name string,
	fn func(ctx context.Context) error,
) error {
	ctx, span := monitoring.StartChildSpan(ctx, "Kafka."+name)
	defer span.End()

	err := fn(ctx)
	if err != nil {
		monitoring.RecordSpanError(span, err)
		log.FromContext(ctx).Error(err, "Failed to reconcile "+name)
		a.Recorder.Eventf(kafka, corev1.EventTypeWarning, "FailedApply", "Failed to reconcile %s: %v", name, err)
	}
	return err
}

func (a *Assembly) apply(ctx context.Context, desired client.Object) error {
	_, err := apply.Apply(ctx, a.Client, desired)
	return err
}

// reconcileServices applies every wanted Service and deletes labelled
// Services that are no longer wanted, such as external Services after the
// external listener was removed or brokers were scaled down.
func (a *Assembly) reconcileServices(ctx context.Context, kafka *kafkav1alpha1.Kafka) error {
	desired, err := BuildServices(kafka, a.Scheme)
	if err != nil {
		return err
	}
	wanted := make(map[string]bool, len(desired))
	for _, svc := range desired {
		wanted[svc.Name] = true
		if err := a.apply(ctx, svc); err != nil {
			return err
		}
	}

	existing := &corev1.ServiceList{}
	if err := a.Client.List(ctx, existing,
		client.InNamespace(kafka.Namespace),
		client.MatchingLabels(ownedLabels(kafka.Name)),
	); err != nil {
		return fmt.Errorf("failed to list Services: %w", err)
	}
	var errs []error
	for i := range existing.Items {
		if wanted[existing.Items[i].Name] {
			continue
		}
		if _, err := apply.Remove(ctx, a.Client, &existing.Items[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *Assembly) currentStatefulSet(ctx context.Context, kafka *kafkav1alpha1.Kafka) (*appsv1.StatefulSet, error) {
	sts := &appsv1.StatefulSet{}
	key := client.ObjectKey{Namespace: kafka.Namespace, Name: names.KafkaStatefulSet(kafka.Name)}
	if err := a.Client.Get(ctx, key, sts); err != nil {
		if apierrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get StatefulSet: %w", err)
	}
	return sts, nil
}

// scale patches only the replica count of sts.
func (a *Assembly) scale(ctx context.Context, sts *appsv1.StatefulSet, replicas int32) error {
	if replicasOf(sts) == replicas {
		return nil
	}
	log.FromContext(ctx).Info("Scaling brokers", "from", replicasOf(sts), "to", replicas)
	patch := client.MergeFrom(sts.DeepCopy())
	sts.Spec.Replicas = &replicas
	if err := a.Client.Patch(ctx, sts, patch); err != nil {
		return fmt.Errorf("failed to scale StatefulSet to %d replicas: %w", replicas, err)
	}
	return nil
}

func replicasOf(sts *appsv1.StatefulSet) int32 {
	if sts.Spec.Replicas == nil {
		return 1
	}
	return *sts.Spec.Replicas
}

// Delete implements assembly.Operator. Dependents are found by label so that
// those without an owner reference are removed too.
func (a *Assembly) Delete(ctx context.Context, namespace, name string) error {
	deleted, err := apply.DeleteAllWithLabels(ctx, a.Client, namespace, ownedLabels(name),
		&corev1.ServiceAccountList{},
		&corev1.ServiceList{},
		&corev1.ConfigMapList{},
		&corev1.SecretList{},
		&policyv1.PodDisruptionBudgetList{},
		&appsv1.StatefulSetList{},
	)
	if len(deleted) > 0 {
		log.FromContext(ctx).Info("Deleted dependents", "objects", deleted)
	}
	return err
}

// ListNames implements assembly.Operator.
func (a *Assembly) ListNames(ctx context.Context, namespace string) ([]types.NamespacedName, error) {
	list := &kafkav1alpha1.KafkaList{}
	if err := a.Client.List(ctx, list, client.InNamespace(namespace)); err != nil {
		return nil, fmt.Errorf("failed to list Kafka resources: %w", err)
	}
	out := make([]types.NamespacedName, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, client.ObjectKeyFromObject(&list.Items[i]))
	}
	return out, nil
}

// ListDependentNames implements assembly.Operator. StatefulSets are the last
// dependent removed, so their labels name every cluster that may still have
// dependents.
func (a *Assembly) ListDependentNames(ctx context.Context, namespace string) ([]types.NamespacedName, error) {
	list := &appsv1.StatefulSetList{}
	if err := a.Client.List(ctx, list,
		client.InNamespace(namespace),
		client.MatchingLabels{metadata.LabelKind: Kind},
	); err != nil {
		return nil, fmt.Errorf("failed to list broker StatefulSets: %w", err)
	}
	out := make([]types.NamespacedName, 0, len(list.Items))
	for i := range list.Items {
		if cluster := list.Items[i].Labels[metadata.LabelCluster]; cluster != "" {
			out = append(out, types.NamespacedName{Namespace: list.Items[i].Namespace, Name: cluster})
		}
	}
	return out, nil
}

// SetupWithManager registers a controller that runs the loop for Kafka
// resources and their dependents.
func SetupWithManager(mgr ctrl.Manager, loop *assembly.Loop, workers int) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&kafkav1alpha1.Kafka{}).
		Owns(&appsv1.StatefulSet{}).
		Owns(&corev1.Service{}).
		Owns(&corev1.ConfigMap{}).
		Owns(&corev1.Secret{}).
		Owns(&corev1.ServiceAccount{}).
		Owns(&policyv1.PodDisruptionBudget{}).
		WithOptions(controller.Options{
			MaxConcurrentReconciles: workers,
			RateLimiter:             assembly.NewRateLimiter(),
		}).
		Named("kafka").
		Complete(&assembly.Reconciler{Loop: loop})
}
