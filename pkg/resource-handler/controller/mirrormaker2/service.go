package mirrormaker2

import (
	"fmt"
	"strconv"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"
	ctrl "sigs.k8s.io/controller-runtime"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/cluster-handler/names"
	"github.com/numtide/kafka-operator/pkg/util/metadata"
)

const (
	// RESTAPIPort serves the Kafka Connect REST API.
	RESTAPIPort int32 = 8083

	// MetricsPort serves the Prometheus exporter when metrics are configured.
	MetricsPort int32 = 9404
)

const (
	portNameREST    = "rest-api"
	portNameMetrics = "metrics"
)

// BuildService creates the ClusterIP Service in front of the Connect REST API.
func BuildService(
	mm2 *kafkav1alpha1.KafkaMirrorMaker2,
	scheme *runtime.Scheme,
) (*corev1.Service, error) {
	tmpl := metadataOf(template(mm2).Service)
	ports := []corev1.ServicePort{servicePort(portNameREST, RESTAPIPort)}
	if mm2.Spec.MetricsConfig != nil {
		ports = append(ports, servicePort(portNameMetrics, MetricsPort))
	}

	svc := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:        names.MirrorMaker2APIService(mm2.Name),
			Namespace:   mm2.Namespace,
			Labels:      metadata.MergeLabels(buildLabels(mm2), tmpl.Labels),
			Annotations: metadata.MergeAnnotations(nil, tmpl.Annotations),
		},
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeClusterIP,
			Selector: buildSelectorLabels(mm2),
			Ports:    ports,
		},
	}
	return withOwner(mm2, svc, scheme)
}

// URL returns the address of the Connect REST API of mm2.
func URL(mm2 *kafkav1alpha1.KafkaMirrorMaker2) string {
	return "http://" + names.MirrorMaker2APIService(mm2.Name) + "." + mm2.Namespace + ".svc:" +
		strconv.Itoa(int(RESTAPIPort))
}

func servicePort(name string, port int32) corev1.ServicePort {
	return corev1.ServicePort{
		Name:       name,
		Port:       port,
		TargetPort: intstr.FromString(name),
		Protocol:   corev1.ProtocolTCP,
	}
}

func withOwner[T metav1.Object](mm2 *kafkav1alpha1.KafkaMirrorMaker2, obj T, scheme *runtime.Scheme) (T, error) {
	if err := ctrl.SetControllerReference(mm2, obj, scheme); err != nil {
		var zero T
		return zero, fmt.Errorf("failed to set controller reference: %w", err)
	}
	return obj, nil
}
