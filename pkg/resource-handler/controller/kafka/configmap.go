package kafka

import (
	"fmt"
	"strconv"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/yaml"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/cluster-handler/names"
	"github.com/numtide/kafka-operator/pkg/util/properties"
)

// ConfigMap data keys read by the broker start script.
const (
	ServerConfigKey          = "server.config"
	AdvertisedHostsConfigKey = "advertised-hosts.config"
	LoggingConfigKey         = "log4j.properties"
	MetricsConfigKey         = "metrics-config.yml"
)

// Placeholders substituted by the broker start script.
const (
	placeholderBrokerID = "${KAFKA_BROKER_ID}"
	placeholderPodName  = "${POD_NAME}"

	// placeholderExternalAddress resolves to the advertised host of the
	// broker, or the address of its external Service.
	placeholderExternalAddress = "${EXTERNAL_ADDRESS}"
)

// Listener names used in the broker configuration.
const (
	listenerReplication = "REPLICATION"
	listenerPlain       = "PLAIN"
	listenerTLS         = "TLS"
	listenerExternal    = "EXTERNAL"
)

// BuildConfigMap creates the broker configuration. It also returns the user
// supplied options that were dropped because the operator owns them.
func BuildConfigMap(
	kafka *kafkav1alpha1.Kafka,
	scheme *runtime.Scheme,
) (*corev1.ConfigMap, []string, error) {
	accepted, ignored := properties.Filter(
		kafka.Spec.Config,
		properties.BrokerForbiddenPrefixes,
		properties.BrokerForbiddenExceptions,
	)
	server := properties.Merge(accepted, brokerConfig(kafka))

	data := map[string]string{
		ServerConfigKey:  properties.Render(server),
		LoggingConfigKey: properties.RenderLog4j(kafka.Spec.Logging),
	}
	if ext := kafka.Spec.Listeners.External; ext != nil && len(ext.AdvertisedHosts) > 0 {
		hosts := make(map[string]string, len(ext.AdvertisedHosts))
		for _, h := range ext.AdvertisedHosts {
			hosts[strconv.Itoa(int(h.Broker))] = h.Host
		}
		data[AdvertisedHostsConfigKey] = properties.Render(hosts)
	}
	if kafka.Spec.MetricsConfig != nil && len(kafka.Spec.MetricsConfig.Raw) > 0 {
		metricsYAML, err := yaml.JSONToYAML(kafka.Spec.MetricsConfig.Raw)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to render metrics config: %w", err)
		}
		data[MetricsConfigKey] = string(metricsYAML)
	}

	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      names.KafkaConfigMap(kafka.Name),
			Namespace: kafka.Namespace,
			Labels:    buildLabels(kafka),
		},
		Data: data,
	}
	cm, err := withOwner(kafka, cm, scheme)
	if err != nil {
		return nil, nil, err
	}
	return cm, ignored, nil
}

// brokerConfig returns the options owned by the operator. They are applied
// after the user options so they always win.
func brokerConfig(kafka *kafkav1alpha1.Kafka) map[string]string {
	headless := names.KafkaHeadlessService(kafka.Name)
	podHost := fmt.Sprintf("%s.%s.%s.svc", placeholderPodName, headless, kafka.Namespace)

	type listener struct {
		name     string
		port     int32
		protocol string
		host     string
	}
	listeners := []listener{{listenerReplication, ReplicationPort, "SSL", podHost}}
	if l := kafka.Spec.Listeners.Plain; l != nil {
		listeners = append(listeners, listener{listenerPlain, PlainPort, securityProtocol(false, l.Authentication), podHost})
	}
	if l := kafka.Spec.Listeners.TLS; l != nil {
		listeners = append(listeners, listener{listenerTLS, TLSPort, securityProtocol(true, l.Authentication), podHost})
	}
	if l := kafka.Spec.Listeners.External; l != nil {
		listeners = append(listeners, listener{listenerExternal, ExternalPort, securityProtocol(l.TLS, l.Authentication), placeholderExternalAddress})
	}

	var bind, advertised, protocols []string
	for _, l := range listeners {
		bind = append(bind, fmt.Sprintf("%s://0.0.0.0:%d", l.name, l.port))
		advertised = append(advertised, fmt.Sprintf("%s://%s:%d", l.name, l.host, l.port))
		protocols = append(protocols, l.name+":"+l.protocol)
	}

	config := map[string]string{
		"broker.id":                      placeholderBrokerID,
		"log.dirs":                       DataMountPath + "/kafka-log" + placeholderBrokerID,
		"listeners":                      strings.Join(bind, ","),
		"advertised.listeners":           strings.Join(advertised, ","),
		"listener.security.protocol.map": strings.Join(protocols, ","),
		"inter.broker.listener.name":     listenerReplication,
		"ssl.keystore.type":              "PEM",
		"ssl.keystore.location":          BrokerCertsMountPath + "/" + placeholderPodName + ".pem",
		"ssl.truststore.type":            "PEM",
		"ssl.truststore.location":        ClusterCaMountPath + "/ca.crt",
	}
	// Brokers authenticate each other with their cluster CA signed certificates.
	config["listener.name.replication.ssl.client.auth"] = "required"

	for _, l := range listeners {
		auth := authenticationOf(kafka, l.name)
		if auth == nil {
			continue
		}
		prefix := "listener.name." + strings.ToLower(l.name) + "."
		switch auth.Type {
		case kafkav1alpha1.AuthenticationTLS:
			config[prefix+"ssl.client.auth"] = "required"
			config[prefix+"ssl.truststore.type"] = "PEM"
			config[prefix+"ssl.truststore.location"] = ClientsCaMountPath + "/ca.crt"
		case kafkav1alpha1.AuthenticationScramSha512:
			config[prefix+"sasl.enabled.mechanisms"] = "SCRAM-SHA-512"
		case kafkav1alpha1.AuthenticationPlain:
			config[prefix+"sasl.enabled.mechanisms"] = "PLAIN"
		}
	}
	return config
}

func authenticationOf(kafka *kafkav1alpha1.Kafka, listener string) *kafkav1alpha1.ListenerAuthentication {
	l := kafka.Spec.Listeners
	switch listener {
	case listenerPlain:
		return l.Plain.Authentication
	case listenerTLS:
		return l.TLS.Authentication
	case listenerExternal:
		return l.External.Authentication
	}
	return nil
}

// securityProtocol maps encryption and authentication onto a Kafka security
// protocol name.
func securityProtocol(tls bool, auth *kafkav1alpha1.ListenerAuthentication) string {
	sasl := auth != nil && auth.Type != kafkav1alpha1.AuthenticationTLS
	switch {
	case tls && sasl:
		return "SASL_SSL"
	case tls:
		return "SSL"
	case sasl:
		return "SASL_PLAINTEXT"
	default:
		return "PLAINTEXT"
	}
}
