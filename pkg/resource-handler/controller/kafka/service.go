package kafka

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/cluster-handler/names"
	"github.com/numtide/kafka-operator/pkg/util/metadata"
)

// BuildHeadlessService creates the headless Service giving each broker a
// stable DNS name. Not ready addresses are published so brokers can find each
// other while starting.
func BuildHeadlessService(
	kafka *kafkav1alpha1.Kafka,
	scheme *runtime.Scheme,
) (*corev1.Service, error) {
	svc := newService(kafka, names.KafkaHeadlessService(kafka.Name))
	svc.Spec.ClusterIP = corev1.ClusterIPNone
	svc.Spec.PublishNotReadyAddresses = true
	svc.Spec.Selector = buildSelectorLabels(kafka)
	svc.Spec.Ports = buildServicePorts(kafka)

	return withOwner(kafka, svc, scheme)
}

// BuildBootstrapService creates the ClusterIP Service clients use for the
// initial connection.
func BuildBootstrapService(
	kafka *kafkav1alpha1.Kafka,
	scheme *runtime.Scheme,
) (*corev1.Service, error) {
	svc := newService(kafka, names.KafkaBootstrapService(kafka.Name))
	svc.Spec.Type = corev1.ServiceTypeClusterIP
	svc.Spec.Selector = buildSelectorLabels(kafka)
	svc.Spec.Ports = buildServicePorts(kafka)

	return withOwner(kafka, svc, scheme)
}

// BuildExternalServices creates the external bootstrap Service and one Service
// per broker. It returns nil when no external listener is configured.
func BuildExternalServices(
	kafka *kafkav1alpha1.Kafka,
	scheme *runtime.Scheme,
) ([]*corev1.Service, error) {
	ext := kafka.Spec.Listeners.External
	if ext == nil {
		return nil, nil
	}
	svcType := corev1.ServiceTypeLoadBalancer
	if ext.Type == kafkav1alpha1.ExternalListenerNodePort {
		svcType = corev1.ServiceTypeNodePort
	}

	bootstrap := newService(kafka, names.KafkaExternalBootstrapService(kafka.Name))
	bootstrap.Spec.Type = svcType
	bootstrap.Spec.Selector = buildSelectorLabels(kafka)
	bootstrap.Spec.Ports = []corev1.ServicePort{servicePort(portNameExternal, ExternalPort)}

	out := make([]*corev1.Service, 0, 1+kafka.Spec.Replicas)
	svc, err := withOwner(kafka, bootstrap, scheme)
	if err != nil {
		return nil, err
	}
	out = append(out, svc)

	for ordinal := range int(kafka.Spec.Replicas) {
		broker := newService(kafka, names.KafkaExternalBrokerService(kafka.Name, ordinal))
		broker.Spec.Type = svcType
		selector := buildSelectorLabels(kafka)
		selector[LabelPodName] = names.KafkaPod(kafka.Name, ordinal)
		broker.Spec.Selector = selector
		broker.Spec.Ports = []corev1.ServicePort{servicePort(portNameExternal, ExternalPort)}

		svc, err := withOwner(kafka, broker, scheme)
		if err != nil {
			return nil, err
		}
		out = append(out, svc)
	}
	return out, nil
}

// BuildServices returns every Service the cluster should have.
func BuildServices(
	kafka *kafkav1alpha1.Kafka,
	scheme *runtime.Scheme,
) ([]*corev1.Service, error) {
	headless, err := BuildHeadlessService(kafka, scheme)
	if err != nil {
		return nil, fmt.Errorf("failed to build headless Service: %w", err)
	}
	bootstrap, err := BuildBootstrapService(kafka, scheme)
	if err != nil {
		return nil, fmt.Errorf("failed to build bootstrap Service: %w", err)
	}
	external, err := BuildExternalServices(kafka, scheme)
	if err != nil {
		return nil, fmt.Errorf("failed to build external Services: %w", err)
	}
	return append([]*corev1.Service{headless, bootstrap}, external...), nil
}

func newService(kafka *kafkav1alpha1.Kafka, name string) *corev1.Service {
	tmpl := templateMetadata(kafka, serviceTemplate)
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:        name,
			Namespace:   kafka.Namespace,
			Labels:      metadata.MergeLabels(buildLabels(kafka), tmpl.Labels),
			Annotations: metadata.MergeAnnotations(nil, tmpl.Annotations),
		},
	}
}

func withOwner[T metav1.Object](kafka *kafkav1alpha1.Kafka, obj T, scheme *runtime.Scheme) (T, error) {
	if err := ctrl.SetControllerReference(kafka, obj, scheme); err != nil {
		var zero T
		return zero, fmt.Errorf("failed to set controller reference: %w", err)
	}
	return obj, nil
}
