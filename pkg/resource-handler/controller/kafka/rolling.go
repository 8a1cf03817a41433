package kafka

import (
	"context"
	"fmt"
	"slices"
	"strings"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/monitoring"
	"github.com/numtide/kafka-operator/pkg/resource-handler/apply"
	"github.com/numtide/kafka-operator/pkg/rolling"
)

// rollOutcome summarizes the rolling step of a pass.
type rollOutcome struct {
	Rolled   []string
	Deferred bool
	// Pending is true when some broker still needs a restart after this pass.
	Pending bool
}

// rollBrokers restarts the brokers that run with outdated CA generations or
// an outdated pod template.
//
// Non-urgent restarts are held back while any broker is terminating or not
// ready so that at most one broker is down because of the operator.
func (a *Assembly) rollBrokers(
	ctx context.Context,
	kafka *kafkav1alpha1.Kafka,
	sts *appsv1.StatefulSet,
	cas []rolling.CaState,
) (rollOutcome, error) {
	logger := log.FromContext(ctx)

	pods := &corev1.PodList{}
	if err := a.Client.List(ctx, pods,
		client.InNamespace(kafka.Namespace),
		client.MatchingLabels(buildSelectorLabels(kafka)),
	); err != nil {
		return rollOutcome{}, fmt.Errorf("failed to list broker pods: %w", err)
	}
	slices.SortFunc(pods.Items, func(x, y corev1.Pod) int { return strings.Compare(x.Name, y.Name) })

	now := a.now()
	byName := make(map[string]*corev1.Pod, len(pods.Items))
	decisions := make([]rolling.Decision, 0, len(pods.Items))
	disrupted := false
	for i := range pods.Items {
		pod := &pods.Items[i]
		byName[pod.Name] = pod
		if pod.DeletionTimestamp != nil || !podReady(pod) {
			disrupted = true
		}
		if pod.DeletionTimestamp != nil {
			continue
		}

		inst := rolling.Instance{
			Name:          pod.Name,
			Annotations:   pod.Annotations,
			RevisionStale: revisionStale(sts, pod),
		}
		d, err := rolling.Decide(inst, cas, kafka.Spec.MaintenanceTimeWindows, now)
		if err != nil {
			logger.Error(err, "Ignoring invalid maintenance time windows")
		}
		decisions = append(decisions, d)
	}

	planned := rolling.Plan(decisions)
	if disrupted {
		planned = slices.DeleteFunc(planned, func(d rolling.Decision) bool { return !d.Urgent })
	}

	out := rollOutcome{
		Deferred: rolling.Deferred(decisions),
		Pending:  rolling.Pending(decisions, planned),
	}
	for _, d := range planned {
		logger.Info("Restarting broker", "pod", d.Instance, "urgent", d.Urgent, "reasons", d.Reasons)
		if _, err := apply.Remove(ctx, a.Client, byName[d.Instance]); err != nil {
			return out, err
		}
		a.Recorder.Eventf(kafka, corev1.EventTypeNormal, "RollingRestart",
			"Restarting pod %s: %s", d.Instance, strings.Join(d.Reasons, ", "))
		monitoring.RecordRollingRestart(kafka.Name, kafka.Namespace, monitoring.RollRolled)
		out.Rolled = append(out.Rolled, d.Instance)
	}

	if out.Deferred {
		logger.Info("Broker restarts deferred until the next maintenance time window")
		a.Recorder.Event(kafka, corev1.EventTypeWarning, "RollingDeferred",
			"Broker restarts for CA changes deferred until the next maintenance time window")
		monitoring.RecordRollingRestart(kafka.Name, kafka.Namespace, monitoring.RollDeferred)
	}
	return out, nil
}

// revisionStale reports whether pod was created from an older template
// revision than the StatefulSet's current one.
func revisionStale(sts *appsv1.StatefulSet, pod *corev1.Pod) bool {
	if sts.Status.UpdateRevision == "" {
		return false
	}
	return pod.Labels[appsv1.ControllerRevisionHashLabelKey] != sts.Status.UpdateRevision
}

func podReady(pod *corev1.Pod) bool {
	for _, c := range pod.Status.Conditions {
		if c.Type == corev1.PodReady {
			return c.Status == corev1.ConditionTrue
		}
	}
	return false
}
