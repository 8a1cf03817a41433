package mirrormaker2

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/util/wait"
	"sigs.k8s.io/controller-runtime/pkg/client"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/cluster-handler/names"
	"github.com/numtide/kafka-operator/pkg/data-handler/connect"
	"github.com/numtide/kafka-operator/pkg/monitoring"
	"github.com/numtide/kafka-operator/pkg/util/status"
)

const readinessPollInterval = 2 * time.Second

// ReadinessTimeoutError is returned when the workers did not become ready
// within the operation timeout.
type ReadinessTimeoutError struct {
	Namespace string
	Name      string
	Ready     int32
	Desired   int32
	Err       error
}

func (e *ReadinessTimeoutError) Error() string {
	return fmt.Sprintf("Deployment %s/%s not ready: %d/%d replicas ready: %v",
		e.Namespace, e.Name, e.Ready, e.Desired, e.Err)
}

func (e *ReadinessTimeoutError) Unwrap() error {
	return e.Err
}

func (e *ReadinessTimeoutError) Reason() string {
	return kafkav1alpha1.ReasonNotReady
}

// waitReady polls the Deployment until its controller observed the latest
// generation and every desired worker is updated and ready.
func (a *Assembly) waitReady(ctx context.Context, mm2 *kafkav1alpha1.KafkaMirrorMaker2) (*appsv1.Deployment, error) {
	key := client.ObjectKey{Namespace: mm2.Namespace, Name: names.MirrorMaker2Deployment(mm2.Name)}
	desired := mm2.Spec.Replicas
	deploy := &appsv1.Deployment{}

	err := wait.PollUntilContextTimeout(ctx, readinessPollInterval, a.Config.OperationTimeout, true,
		func(ctx context.Context) (bool, error) {
			if err := a.Client.Get(ctx, key, deploy); err != nil {
				if apierrors.IsNotFound(err) {
					return false, nil
				}
				return false, err
			}
			observed := deploy.Status.ObservedGeneration >= deploy.Generation
			return observed &&
				deploy.Status.UpdatedReplicas >= desired &&
				deploy.Status.ReadyReplicas >= desired, nil
		})
	if err != nil {
		if wait.Interrupted(err) {
			return deploy, &ReadinessTimeoutError{
				Namespace: key.Namespace,
				Name:      key.Name,
				Ready:     deploy.Status.ReadyReplicas,
				Desired:   desired,
				Err:       err,
			}
		}
		return deploy, fmt.Errorf("failed to get Deployment: %w", err)
	}
	return deploy, nil
}

// passOutcome is what a pass learned that ends up in the status.
type passOutcome struct {
	ready int32
	// connectorsSynced is set once the connectors step ran, so a pass that
	// failed earlier keeps the connectors of the previous status.
	connectorsSynced bool
	connectors       []connect.ConnectorResult
}

// updateStatus writes the outcome of a pass, failed or not.
func (a *Assembly) updateStatus(
	ctx context.Context,
	mm2 *kafkav1alpha1.KafkaMirrorMaker2,
	out passOutcome,
	passErr error,
) error {
	total := mm2.Spec.Replicas
	st := &mm2.Status

	st.ObservedGeneration = mm2.Generation
	st.Phase = status.ComputePhaseWithError(out.ready, total, passErr)
	st.URL = URL(mm2)
	st.Replicas = total
	st.LabelSelector = labels.SelectorFromSet(buildSelectorLabels(mm2)).String()
	if out.connectorsSynced {
		st.Connectors = connectorStatuses(out.connectors)
	}
	meta.SetStatusCondition(&st.Conditions, status.ReadyCondition(mm2.Generation, out.ready, total, passErr))

	if err := a.Client.Status().Update(ctx, mm2); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	monitoring.SetResourceInfo(Kind, mm2.Name, mm2.Namespace, string(st.Phase))
	monitoring.SetResourceReplicas(Kind, mm2.Name, mm2.Namespace, total, out.ready)
	if out.connectorsSynced {
		states := make(map[string]string, len(out.connectors))
		for _, c := range out.connectors {
			states[c.Name] = stateOf(c)
		}
		monitoring.SetConnectorStates(mm2.Name, mm2.Namespace, states)
	}
	return nil
}

func connectorStatuses(results []connect.ConnectorResult) []kafkav1alpha1.ConnectorStatus {
	if len(results) == 0 {
		return nil
	}
	out := make([]kafkav1alpha1.ConnectorStatus, 0, len(results))
	for _, r := range results {
		out = append(out, kafkav1alpha1.ConnectorStatus{
			Name:  r.Name,
			State: stateOf(r),
			Error: r.Error,
		})
	}
	return out
}

// stateOf reports connectors whose state could not be read as UNKNOWN.
func stateOf(r connect.ConnectorResult) string {
	if r.State == "" {
		return "UNKNOWN"
	}
	return string(r.State)
}
