package kafka

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
)

const (
	// ReplicationPort is the TLS listener used between brokers.
	ReplicationPort int32 = 9091

	// PlainPort is the unencrypted client listener.
	PlainPort int32 = 9092

	// TLSPort is the encrypted client listener.
	TLSPort int32 = 9093

	// ExternalPort is the listener exposed outside of the cluster.
	ExternalPort int32 = 9094

	// MetricsPort serves the Prometheus exporter when metrics are configured.
	MetricsPort int32 = 9404
)

const (
	portNameReplication = "replication"
	portNamePlain       = "clients"
	portNameTLS         = "clientstls"
	portNameExternal    = "external"
	portNameMetrics     = "metrics"
)

// buildContainerPorts creates the port definitions for the broker container.
func buildContainerPorts(kafka *kafkav1alpha1.Kafka) []corev1.ContainerPort {
	ports := []corev1.ContainerPort{
		{Name: portNameReplication, ContainerPort: ReplicationPort, Protocol: corev1.ProtocolTCP},
	}
	if kafka.Spec.Listeners.Plain != nil {
		ports = append(ports, corev1.ContainerPort{Name: portNamePlain, ContainerPort: PlainPort, Protocol: corev1.ProtocolTCP})
	}
	if kafka.Spec.Listeners.TLS != nil {
		ports = append(ports, corev1.ContainerPort{Name: portNameTLS, ContainerPort: TLSPort, Protocol: corev1.ProtocolTCP})
	}
	if kafka.Spec.Listeners.External != nil {
		ports = append(ports, corev1.ContainerPort{Name: portNameExternal, ContainerPort: ExternalPort, Protocol: corev1.ProtocolTCP})
	}
	if kafka.Spec.MetricsConfig != nil {
		ports = append(ports, corev1.ContainerPort{Name: portNameMetrics, ContainerPort: MetricsPort, Protocol: corev1.ProtocolTCP})
	}
	return ports
}

// buildServicePorts creates the ports of the headless and bootstrap Services.
// The replication port is always present; client ports follow the listeners.
func buildServicePorts(kafka *kafkav1alpha1.Kafka) []corev1.ServicePort {
	ports := []corev1.ServicePort{
		servicePort(portNameReplication, ReplicationPort),
	}
	if kafka.Spec.Listeners.Plain != nil {
		ports = append(ports, servicePort(portNamePlain, PlainPort))
	}
	if kafka.Spec.Listeners.TLS != nil {
		ports = append(ports, servicePort(portNameTLS, TLSPort))
	}
	return ports
}

func servicePort(name string, port int32) corev1.ServicePort {
	return corev1.ServicePort{
		Name:       name,
		Port:       port,
		TargetPort: intstr.FromString(name),
		Protocol:   corev1.ProtocolTCP,
	}
}
