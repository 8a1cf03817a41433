package handlers

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/webhook"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
)

// +kubebuilder:webhook:path=/mutate-kafka-numtide-com-v1alpha1-kafka,mutating=true,failurePolicy=fail,sideEffects=None,groups=kafka.numtide.com,resources=kafkas,verbs=create;update,versions=v1alpha1,name=mkafka.kb.io,admissionReviewVersions=v1

// KafkaDefaulter fills the certificate authority settings of Kafka clusters.
type KafkaDefaulter struct{}

var _ webhook.CustomDefaulter = &KafkaDefaulter{}

// NewKafkaDefaulter creates a new defaulter handler.
func NewKafkaDefaulter() *KafkaDefaulter {
	return &KafkaDefaulter{}
}

// Default implements webhook.CustomDefaulter. The values match the ones the
// reconciler falls back to, so defaulting never changes behavior.
func (d *KafkaDefaulter) Default(ctx context.Context, obj runtime.Object) error {
	cluster, ok := obj.(*kafkav1alpha1.Kafka)
	if !ok {
		return fmt.Errorf("expected Kafka, got %T", obj)
	}

	defaultCa(&cluster.Spec.ClusterCa)
	defaultCa(&cluster.Spec.ClientsCa)
	return nil
}

func defaultCa(ca *kafkav1alpha1.CertificateAuthority) {
	if ca.GenerateCertificateAuthority == nil {
		ca.GenerateCertificateAuthority = ptr.To(true)
	}
	if ca.ValidityDays == 0 {
		ca.ValidityDays = int32(ca.Validity())
	}
	if ca.RenewalDays == 0 {
		ca.RenewalDays = int32(ca.Renewal())
	}
}
