package mirrormaker2

import (
	policyv1 "k8s.io/api/policy/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/cluster-handler/names"
	"github.com/numtide/kafka-operator/pkg/util/metadata"
)

// BuildPodDisruptionBudget creates the PodDisruptionBudget of the workers.
// At most one worker is voluntarily disrupted unless the template says
// otherwise.
func BuildPodDisruptionBudget(
	mm2 *kafkav1alpha1.KafkaMirrorMaker2,
	scheme *runtime.Scheme,
) (*policyv1.PodDisruptionBudget, error) {
	maxUnavailable := int32(1)
	var tmpl kafkav1alpha1.MetadataTemplate
	if t := template(mm2).PodDisruptionBudget; t != nil {
		tmpl = t.Metadata
		if t.MaxUnavailable != nil {
			maxUnavailable = *t.MaxUnavailable
		}
	}
	mu := intstr.FromInt32(maxUnavailable)

	pdb := &policyv1.PodDisruptionBudget{
		ObjectMeta: metav1.ObjectMeta{
			Name:        names.MirrorMaker2PodDisruptionBudget(mm2.Name),
			Namespace:   mm2.Namespace,
			Labels:      metadata.MergeLabels(buildLabels(mm2), tmpl.Labels),
			Annotations: metadata.MergeAnnotations(nil, tmpl.Annotations),
		},
		Spec: policyv1.PodDisruptionBudgetSpec{
			MaxUnavailable: &mu,
			Selector: &metav1.LabelSelector{
				MatchLabels: buildSelectorLabels(mm2),
			},
		},
	}
	return withOwner(mm2, pdb, scheme)
}
