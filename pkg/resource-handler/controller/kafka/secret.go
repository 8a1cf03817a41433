package kafka

import (
	"slices"
	"strconv"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/cert"
	"github.com/numtide/kafka-operator/pkg/cluster-handler/names"
)

// brokerOrganization is the subject organization of broker certificates.
const brokerOrganization = "io.numtide.kafka"

// brokerPEMKey is the data key of the combined key and certificate file used
// as the broker keystore.
func brokerPEMKey(pod string) string { return pod + ".pem" }

// BrokerSubject returns the certificate subject of the broker with the given
// ordinal. The SANs cover the pod DNS names behind the headless Service, the
// bootstrap Services and, when configured, the external addresses.
func BrokerSubject(kafka *kafkav1alpha1.Kafka, dnsDomain string, ordinal int) cert.Subject {
	pod := names.KafkaPod(kafka.Name, ordinal)
	headless := names.KafkaHeadlessService(kafka.Name)
	ns := kafka.Namespace

	sans := []string{
		names.PodDNSName(pod, headless, ns, dnsDomain),
		pod + "." + headless + "." + ns + ".svc",
		pod + "." + headless + "." + ns,
	}
	for _, svc := range []string{names.KafkaBootstrapService(kafka.Name), headless} {
		sans = append(sans,
			svc,
			svc+"."+ns,
			svc+"."+ns+".svc",
			names.ServiceDNSName(svc, ns, dnsDomain),
		)
	}
	if ext := kafka.Spec.Listeners.External; ext != nil {
		if ext.BootstrapHost != "" {
			sans = append(sans, ext.BootstrapHost)
		}
		for _, h := range ext.AdvertisedHosts {
			if int(h.Broker) == ordinal {
				sans = append(sans, h.Host)
			}
		}
	}
	slices.Sort(sans)

	return cert.Subject{
		CommonName:   names.KafkaStatefulSet(kafka.Name),
		Organization: brokerOrganization,
		DNSNames:     slices.Compact(sans),
	}
}

// BuildBrokersSecret creates the Secret holding the certificate and key of
// every broker, keyed by pod name.
func BuildBrokersSecret(
	kafka *kafkav1alpha1.Kafka,
	scheme *runtime.Scheme,
	certs map[string]cert.CertAndKey,
	clusterCaGeneration int32,
) (*corev1.Secret, error) {
	data := make(map[string][]byte, 3*len(certs))
	for pod, ck := range certs {
		data[cert.LeafCertKey(pod)] = ck.Cert
		data[cert.LeafKeyKey(pod)] = ck.Key
		data[brokerPEMKey(pod)] = append(slices.Clone(ck.Key), ck.Cert...)
	}

	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      names.KafkaBrokersSecret(kafka.Name),
			Namespace: kafka.Namespace,
			Labels:    buildLabels(kafka),
			Annotations: map[string]string{
				cert.AnnotationCaCertGeneration: strconv.Itoa(int(clusterCaGeneration)),
			},
		},
		Type: corev1.SecretTypeOpaque,
		Data: data,
	}
	return withOwner(kafka, secret, scheme)
}
