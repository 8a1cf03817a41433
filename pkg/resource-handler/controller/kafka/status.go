package kafka

import (
	"context"
	"fmt"
	"strconv"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
	"sigs.k8s.io/controller-runtime/pkg/client"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/cluster-handler/names"
	"github.com/numtide/kafka-operator/pkg/monitoring"
	"github.com/numtide/kafka-operator/pkg/util/status"
)

// readinessPollInterval is how often the StatefulSet is checked while waiting
// for the brokers.
const readinessPollInterval = 2 * time.Second

// ReadinessTimeoutError is returned when the brokers did not become ready
// within the operation timeout.
type ReadinessTimeoutError struct {
	Namespace string
	Name      string
	Ready     int32
	Desired   int32
	Err       error
}

func (e *ReadinessTimeoutError) Error() string {
	return fmt.Sprintf("StatefulSet %s/%s not ready: %d/%d replicas ready: %v",
		e.Namespace, e.Name, e.Ready, e.Desired, e.Err)
}

func (e *ReadinessTimeoutError) Unwrap() error {
	return e.Err
}

// Reason is the Ready condition reason for this error.
func (e *ReadinessTimeoutError) Reason() string {
	return kafkav1alpha1.ReasonNotReady
}

// waitReady polls the StatefulSet until its controller observed the latest
// generation and the desired number of brokers is ready.
func (a *Assembly) waitReady(ctx context.Context, kafka *kafkav1alpha1.Kafka) (*appsv1.StatefulSet, error) {
	key := client.ObjectKey{Namespace: kafka.Namespace, Name: names.KafkaStatefulSet(kafka.Name)}
	desired := kafka.Spec.Replicas
	sts := &appsv1.StatefulSet{}

	err := wait.PollUntilContextTimeout(ctx, readinessPollInterval, a.Config.OperationTimeout, true,
		func(ctx context.Context) (bool, error) {
			if err := a.Client.Get(ctx, key, sts); err != nil {
				if apierrors.IsNotFound(err) {
					return false, nil
				}
				return false, err
			}
			observed := sts.Status.ObservedGeneration >= sts.Generation
			return observed && sts.Status.ReadyReplicas >= desired, nil
		})
	if err != nil {
		if wait.Interrupted(err) {
			return sts, &ReadinessTimeoutError{
				Namespace: key.Namespace,
				Name:      key.Name,
				Ready:     sts.Status.ReadyReplicas,
				Desired:   desired,
				Err:       err,
			}
		}
		return sts, fmt.Errorf("failed to get StatefulSet: %w", err)
	}
	return sts, nil
}

// listenerStatuses returns the bootstrap address of each enabled listener.
func listenerStatuses(kafka *kafkav1alpha1.Kafka) []kafkav1alpha1.ListenerStatus {
	bootstrap := names.KafkaBootstrapService(kafka.Name) + "." + kafka.Namespace + ".svc"
	address := func(host string, port int32) string {
		return host + ":" + strconv.Itoa(int(port))
	}

	var out []kafkav1alpha1.ListenerStatus
	if kafka.Spec.Listeners.Plain != nil {
		out = append(out, kafkav1alpha1.ListenerStatus{Type: "plain", BootstrapServers: address(bootstrap, PlainPort)})
	}
	if kafka.Spec.Listeners.TLS != nil {
		out = append(out, kafkav1alpha1.ListenerStatus{Type: "tls", BootstrapServers: address(bootstrap, TLSPort)})
	}
	if ext := kafka.Spec.Listeners.External; ext != nil {
		ls := kafkav1alpha1.ListenerStatus{Type: "external"}
		if ext.BootstrapHost != "" {
			ls.BootstrapServers = address(ext.BootstrapHost, ExternalPort)
		}
		out = append(out, ls)
	}
	return out
}

// passOutcome is what a pass learned that ends up in the status.
type passOutcome struct {
	ready               int32
	clusterCaGeneration int32
	clientsCaGeneration int32
	rolls               rollOutcome
}

// updateStatus writes the outcome of a pass. It is called for failed passes
// too, so the Ready condition carries the failure.
func (a *Assembly) updateStatus(
	ctx context.Context,
	kafka *kafkav1alpha1.Kafka,
	out passOutcome,
	passErr error,
) error {
	total := kafka.Spec.Replicas
	st := &kafka.Status

	st.ObservedGeneration = kafka.Generation
	st.Replicas = total
	st.ReadyReplicas = out.ready
	st.Phase = status.ComputePhaseWithError(out.ready, total, passErr)
	if out.clusterCaGeneration > st.ClusterCaGeneration {
		st.ClusterCaGeneration = out.clusterCaGeneration
	}
	if out.clientsCaGeneration > st.ClientsCaGeneration {
		st.ClientsCaGeneration = out.clientsCaGeneration
	}
	st.Listeners = listenerStatuses(kafka)

	meta.SetStatusCondition(&st.Conditions, status.ReadyCondition(kafka.Generation, out.ready, total, passErr))
	if out.rolls.Deferred {
		meta.SetStatusCondition(&st.Conditions, metav1.Condition{
			Type:               kafkav1alpha1.ConditionRollingUpdatePending,
			Status:             metav1.ConditionTrue,
			ObservedGeneration: kafka.Generation,
			Reason:             kafkav1alpha1.ReasonRollDeferred,
			Message:            "Broker restarts wait for the next maintenance time window",
		})
	} else if passErr == nil {
		meta.RemoveStatusCondition(&st.Conditions, kafkav1alpha1.ConditionRollingUpdatePending)
	}

	if err := a.Client.Status().Update(ctx, kafka); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	monitoring.SetResourceInfo(Kind, kafka.Name, kafka.Namespace, string(st.Phase))
	monitoring.SetResourceReplicas(Kind, kafka.Name, kafka.Namespace, total, out.ready)
	return nil
}
