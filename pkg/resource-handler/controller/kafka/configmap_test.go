package kafka

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"k8s.io/apimachinery/pkg/runtime"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/testutil"
)

// parseProperties reads key=value lines back into a map.
func parseProperties(t *testing.T, s string) map[string]string {
	t.Helper()
	out := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		if line == "" {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			t.Fatalf("malformed line %q", line)
		}
		out[k] = v
	}
	return out
}

func TestBuildConfigMap(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mutate      func(*kafkav1alpha1.Kafka)
		wantIgnored []string
		wantServer  map[string]string
		wantAbsent  []string
		check       func(t *testing.T, data map[string]string)
	}{
		"internal listeners": {
			mutate: func(*kafkav1alpha1.Kafka) {},
			wantServer: map[string]string{
				"broker.id":                      "${KAFKA_BROKER_ID}",
				"listeners":                      "REPLICATION://0.0.0.0:9091,PLAIN://0.0.0.0:9092,TLS://0.0.0.0:9093",
				"listener.security.protocol.map": "REPLICATION:SSL,PLAIN:PLAINTEXT,TLS:SSL",
				"inter.broker.listener.name":     "REPLICATION",
				"ssl.keystore.location":          "/opt/kafka/broker-certs/${POD_NAME}.pem",
				"ssl.truststore.location":        "/opt/kafka/cluster-ca-certs/ca.crt",
			},
			wantAbsent: []string{AdvertisedHostsConfigKey, MetricsConfigKey},
			check: func(t *testing.T, data map[string]string) {
				server := parseProperties(t, data[ServerConfigKey])
				want := "REPLICATION://${POD_NAME}.my-cluster-kafka-brokers.default.svc:9091," +
					"PLAIN://${POD_NAME}.my-cluster-kafka-brokers.default.svc:9092," +
					"TLS://${POD_NAME}.my-cluster-kafka-brokers.default.svc:9093"
				if got := server["advertised.listeners"]; got != want {
					t.Errorf("advertised.listeners = %q, want %q", got, want)
				}
				if got := server["listener.name.replication.ssl.client.auth"]; got != "required" {
					t.Errorf("replication client auth = %q, want required", got)
				}
			},
		},
		"forbidden options are ignored": {
			mutate: func(k *kafkav1alpha1.Kafka) {
				k.Spec.Config = map[string]string{
					"num.partitions": "3",
					"listeners":      "PLAINTEXT://:1234",
					"broker.id":      "7",
					"ssl.protocol":   "TLSv1.3",
				}
			},
			wantIgnored: []string{"broker.id", "listeners"},
			wantServer: map[string]string{
				"num.partitions": "3",
				"ssl.protocol":   "TLSv1.3",
				"broker.id":      "${KAFKA_BROKER_ID}",
				"listeners":      "REPLICATION://0.0.0.0:9091,PLAIN://0.0.0.0:9092,TLS://0.0.0.0:9093",
			},
		},
		"external listener with authentication": {
			mutate: func(k *kafkav1alpha1.Kafka) {
				k.Spec.Listeners.Plain = nil
				k.Spec.Listeners.TLS = &kafkav1alpha1.TLSListener{
					Authentication: &kafkav1alpha1.ListenerAuthentication{Type: kafkav1alpha1.AuthenticationTLS},
				}
				k.Spec.Listeners.External = &kafkav1alpha1.ExternalListener{
					Type:           kafkav1alpha1.ExternalListenerLoadBalancer,
					TLS:            true,
					Authentication: &kafkav1alpha1.ListenerAuthentication{Type: kafkav1alpha1.AuthenticationScramSha512},
					AdvertisedHosts: []kafkav1alpha1.AdvertisedHost{
						{Broker: 0, Host: "b0.example.com"},
						{Broker: 1, Host: "b1.example.com"},
					},
				}
			},
			wantServer: map[string]string{
				"listeners":                                      "REPLICATION://0.0.0.0:9091,TLS://0.0.0.0:9093,EXTERNAL://0.0.0.0:9094",
				"listener.security.protocol.map":                 "REPLICATION:SSL,TLS:SSL,EXTERNAL:SASL_SSL",
				"listener.name.tls.ssl.client.auth":              "required",
				"listener.name.tls.ssl.truststore.location":      "/opt/kafka/client-ca-certs/ca.crt",
				"listener.name.external.sasl.enabled.mechanisms": "SCRAM-SHA-512",
			},
			check: func(t *testing.T, data map[string]string) {
				want := "0=b0.example.com\n1=b1.example.com\n"
				if got := data[AdvertisedHostsConfigKey]; got != want {
					t.Errorf("advertised hosts = %q, want %q", got, want)
				}
				server := parseProperties(t, data[ServerConfigKey])
				if !strings.HasSuffix(server["advertised.listeners"], "EXTERNAL://${EXTERNAL_ADDRESS}:9094") {
					t.Errorf("advertised.listeners = %q", server["advertised.listeners"])
				}
			},
		},
		"logging and metrics": {
			mutate: func(k *kafkav1alpha1.Kafka) {
				k.Spec.Logging = map[string]string{"root": "WARN", "kafka.controller": "DEBUG"}
				k.Spec.MetricsConfig = &runtime.RawExtension{Raw: []byte(`{"lowercaseOutputName":true}`)}
			},
			check: func(t *testing.T, data map[string]string) {
				logging := data[LoggingConfigKey]
				for _, want := range []string{
					"log4j.rootLogger=WARN, CONSOLE\n",
					"log4j.logger.kafka.controller=DEBUG\n",
				} {
					if !strings.Contains(logging, want) {
						t.Errorf("logging config missing %q:\n%s", want, logging)
					}
				}
				if got := data[MetricsConfigKey]; got != "lowercaseOutputName: true\n" {
					t.Errorf("metrics config = %q", got)
				}
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			kafka := newKafka()
			tc.mutate(kafka)

			cm, ignored, err := BuildConfigMap(kafka, testutil.NewScheme())
			if err != nil {
				t.Fatalf("BuildConfigMap() error = %v", err)
			}
			if cm.Name != "my-cluster-kafka-config" {
				t.Errorf("ConfigMap name = %q", cm.Name)
			}
			if diff := cmp.Diff(tc.wantIgnored, ignored); diff != "" {
				t.Errorf("ignored mismatch (-want +got):\n%s", diff)
			}

			server := parseProperties(t, cm.Data[ServerConfigKey])
			for k, want := range tc.wantServer {
				if got := server[k]; got != want {
					t.Errorf("server config %s = %q, want %q", k, got, want)
				}
			}
			for _, key := range tc.wantAbsent {
				if _, ok := cm.Data[key]; ok {
					t.Errorf("unexpected data key %s", key)
				}
			}
			if tc.check != nil {
				tc.check(t, cm.Data)
			}
		})
	}
}

func TestBuildConfigMap_InvalidMetrics(t *testing.T) {
	t.Parallel()

	kafka := newKafka()
	kafka.Spec.MetricsConfig = &runtime.RawExtension{Raw: []byte(`{not json`)}
	if _, _, err := BuildConfigMap(kafka, testutil.NewScheme()); err == nil {
		t.Fatal("BuildConfigMap() expected error for invalid metrics config")
	}
}
