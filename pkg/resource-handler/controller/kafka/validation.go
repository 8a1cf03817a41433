package kafka

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/validation"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/rolling"
)

// Validate returns every problem of the Kafka spec that prevents a pass from
// building its dependents. An empty result means the spec is usable.
func Validate(kafka *kafkav1alpha1.Kafka) []string {
	var problems []string

	for _, msg := range validation.IsDNS1035Label(kafka.Name) {
		problems = append(problems, fmt.Sprintf("metadata.name: %s", msg))
	}
	if kafka.Spec.Replicas < 1 {
		problems = append(problems, fmt.Sprintf("spec.replicas must be at least 1, got %d", kafka.Spec.Replicas))
	}
	if kafka.Spec.Image == "" {
		problems = append(problems, "spec.image is required")
	}

	problems = append(problems, validateCa("spec.clusterCa", kafka.Spec.ClusterCa)...)
	problems = append(problems, validateCa("spec.clientsCa", kafka.Spec.ClientsCa)...)

	if _, err := rolling.ParseWindows(kafka.Spec.MaintenanceTimeWindows); err != nil {
		problems = append(problems, fmt.Sprintf("spec.maintenanceTimeWindows: %v", err))
	}

	if ext := kafka.Spec.Listeners.External; ext != nil {
		switch ext.Type {
		case kafkav1alpha1.ExternalListenerLoadBalancer, kafkav1alpha1.ExternalListenerNodePort:
		default:
			problems = append(problems, fmt.Sprintf("spec.listeners.external.type %q is not supported", ext.Type))
		}
		seen := make(map[int32]bool, len(ext.AdvertisedHosts))
		for i, h := range ext.AdvertisedHosts {
			if h.Broker < 0 || h.Broker >= kafka.Spec.Replicas {
				problems = append(problems, fmt.Sprintf(
					"spec.listeners.external.advertisedHosts[%d]: broker %d is out of range for %d replicas",
					i, h.Broker, kafka.Spec.Replicas))
			}
			if seen[h.Broker] {
				problems = append(problems, fmt.Sprintf(
					"spec.listeners.external.advertisedHosts[%d]: broker %d is listed more than once", i, h.Broker))
			}
			seen[h.Broker] = true
		}
	}

	if kafka.Spec.Storage.Size != "" {
		if _, err := buildDataVolumeClaim(kafka); err != nil {
			problems = append(problems, fmt.Sprintf("spec.storage.size: %v", err))
		}
	}

	return problems
}

func validateCa(path string, ca kafkav1alpha1.CertificateAuthority) []string {
	if ca.Renewal() >= ca.Validity() {
		return []string{fmt.Sprintf("%s: renewalDays (%d) must be less than validityDays (%d)",
			path, ca.Renewal(), ca.Validity())}
	}
	return nil
}
