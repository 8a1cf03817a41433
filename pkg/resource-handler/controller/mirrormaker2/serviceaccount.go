package mirrormaker2

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/cluster-handler/names"
)

// BuildServiceAccount creates the ServiceAccount the Connect workers run as.
func BuildServiceAccount(
	mm2 *kafkav1alpha1.KafkaMirrorMaker2,
	scheme *runtime.Scheme,
) (*corev1.ServiceAccount, error) {
	sa := &corev1.ServiceAccount{
		ObjectMeta: metav1.ObjectMeta{
			Name:      names.MirrorMaker2ServiceAccount(mm2.Name),
			Namespace: mm2.Namespace,
			Labels:    buildLabels(mm2),
		},
	}
	return withOwner(mm2, sa, scheme)
}
