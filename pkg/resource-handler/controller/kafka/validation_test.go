package kafka

import (
	"strings"
	"testing"

	"k8s.io/utils/ptr"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mutate func(*kafkav1alpha1.Kafka)
		// want lists substrings of the expected problems, in order.
		want []string
	}{
		"valid minimal cluster": {
			mutate: func(*kafkav1alpha1.Kafka) {},
		},
		"valid full cluster": {
			mutate: func(k *kafkav1alpha1.Kafka) {
				k.Spec.Storage.Size = "10Gi"
				k.Spec.MaintenanceTimeWindows = []string{"* * 0-1 ? * SUN,SAT *"}
				k.Spec.ClusterCa = kafkav1alpha1.CertificateAuthority{ValidityDays: 100, RenewalDays: 10}
				k.Spec.Listeners.External = &kafkav1alpha1.ExternalListener{
					Type: kafkav1alpha1.ExternalListenerNodePort,
					AdvertisedHosts: []kafkav1alpha1.AdvertisedHost{
						{Broker: 0, Host: "b0.example.com"},
						{Broker: 2, Host: "b2.example.com"},
					},
				}
			},
		},
		"invalid name": {
			mutate: func(k *kafkav1alpha1.Kafka) { k.Name = "My_Cluster" },
			want:   []string{"metadata.name:"},
		},
		"zero replicas and no image": {
			mutate: func(k *kafkav1alpha1.Kafka) {
				k.Spec.Replicas = 0
				k.Spec.Image = ""
			},
			want: []string{
				"spec.replicas must be at least 1, got 0",
				"spec.image is required",
			},
		},
		"renewal not shorter than validity": {
			mutate: func(k *kafkav1alpha1.Kafka) {
				k.Spec.ClientsCa = kafkav1alpha1.CertificateAuthority{
					GenerateCertificateAuthority: ptr.To(true),
					ValidityDays:                 30,
					RenewalDays:                  30,
				}
			},
			want: []string{"spec.clientsCa: renewalDays (30) must be less than validityDays (30)"},
		},
		"invalid maintenance window": {
			mutate: func(k *kafkav1alpha1.Kafka) {
				k.Spec.MaintenanceTimeWindows = []string{"not a cron expression"}
			},
			want: []string{"spec.maintenanceTimeWindows:"},
		},
		"unsupported external type": {
			mutate: func(k *kafkav1alpha1.Kafka) {
				k.Spec.Listeners.External = &kafkav1alpha1.ExternalListener{Type: "route"}
			},
			want: []string{`spec.listeners.external.type "route" is not supported`},
		},
		"advertised host out of range and duplicated": {
			mutate: func(k *kafkav1alpha1.Kafka) {
				k.Spec.Listeners.External = &kafkav1alpha1.ExternalListener{
					Type: kafkav1alpha1.ExternalListenerLoadBalancer,
					AdvertisedHosts: []kafkav1alpha1.AdvertisedHost{
						{Broker: 1, Host: "a.example.com"},
						{Broker: 1, Host: "b.example.com"},
						{Broker: 3, Host: "c.example.com"},
					},
				}
			},
			want: []string{
				"advertisedHosts[1]: broker 1 is listed more than once",
				"advertisedHosts[2]: broker 3 is out of range for 3 replicas",
			},
		},
		"invalid storage size": {
			mutate: func(k *kafkav1alpha1.Kafka) { k.Spec.Storage.Size = "lots" },
			want:   []string{"spec.storage.size:"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			kafka := newKafka()
			tc.mutate(kafka)

			got := Validate(kafka)
			if len(got) != len(tc.want) {
				t.Fatalf("Validate() = %q, want %d problems", got, len(tc.want))
			}
			for i, want := range tc.want {
				if !strings.Contains(got[i], want) {
					t.Errorf("Validate()[%d] = %q, want it to contain %q", i, got[i], want)
				}
			}
		})
	}
}
