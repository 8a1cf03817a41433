package kafka

import (
	policyv1 "k8s.io/api/policy/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/cluster-handler/names"
	"github.com/numtide/kafka-operator/pkg/util/metadata"
)

// DefaultMaxUnavailable is the number of brokers voluntary disruptions may
// take down at once.
const DefaultMaxUnavailable int32 = 1

// BuildPodDisruptionBudget creates the PodDisruptionBudget of the brokers.
func BuildPodDisruptionBudget(
	kafka *kafkav1alpha1.Kafka,
	scheme *runtime.Scheme,
) (*policyv1.PodDisruptionBudget, error) {
	maxUnavailable := DefaultMaxUnavailable
	var tmpl kafkav1alpha1.MetadataTemplate
	if t := kafka.Spec.Template; t != nil && t.PodDisruptionBudget != nil {
		tmpl = t.PodDisruptionBudget.Metadata
		if t.PodDisruptionBudget.MaxUnavailable != nil {
			maxUnavailable = *t.PodDisruptionBudget.MaxUnavailable
		}
	}
	mu := intstr.FromInt32(maxUnavailable)

	pdb := &policyv1.PodDisruptionBudget{
		ObjectMeta: metav1.ObjectMeta{
			Name:        names.KafkaPodDisruptionBudget(kafka.Name),
			Namespace:   kafka.Namespace,
			Labels:      metadata.MergeLabels(buildLabels(kafka), tmpl.Labels),
			Annotations: metadata.MergeAnnotations(nil, tmpl.Annotations),
		},
		Spec: policyv1.PodDisruptionBudgetSpec{
			MaxUnavailable: &mu,
			Selector: &metav1.LabelSelector{
				MatchLabels: buildSelectorLabels(kafka),
			},
		},
	}
	return withOwner(kafka, pdb, scheme)
}
