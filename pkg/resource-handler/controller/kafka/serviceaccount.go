package kafka

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/cluster-handler/names"
)

// BuildServiceAccount creates the ServiceAccount the brokers run as.
func BuildServiceAccount(
	kafka *kafkav1alpha1.Kafka,
	scheme *runtime.Scheme,
) (*corev1.ServiceAccount, error) {
	sa := &corev1.ServiceAccount{
		ObjectMeta: metav1.ObjectMeta{
			Name:      names.KafkaServiceAccount(kafka.Name),
			Namespace: kafka.Namespace,
			Labels:    buildLabels(kafka),
		},
	}

	if err := ctrl.SetControllerReference(kafka, sa, scheme); err != nil {
		return nil, fmt.Errorf("failed to set controller reference: %w", err)
	}
	return sa, nil
}
