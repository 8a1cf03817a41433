/*
Copyright 2026 Numtide.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package names

import (
	"fmt"
	"strconv"
	"strings"
)

// Kafka broker dependents.

func KafkaStatefulSet(cluster string) string {
	return Join(MaxStatefulSetLength, cluster, "kafka")
}

// KafkaPod is the name of the broker with the given ordinal. It only depends
// on the cluster name and the ordinal.
func KafkaPod(cluster string, ordinal int) string {
	return KafkaStatefulSet(cluster) + "-" + strconv.Itoa(ordinal)
}

// KafkaPodOrdinal parses the ordinal back out of a broker pod name.
func KafkaPodOrdinal(cluster, pod string) (int, error) {
	prefix := KafkaStatefulSet(cluster) + "-"
	if !strings.HasPrefix(pod, prefix) {
		return 0, fmt.Errorf("pod %q does not belong to cluster %q", pod, cluster)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(pod, prefix))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("pod %q has no valid ordinal", pod)
	}
	return n, nil
}

func KafkaHeadlessService(cluster string) string {
	return Join(MaxLabelLength, cluster, "kafka-brokers")
}

func KafkaBootstrapService(cluster string) string {
	return Join(MaxLabelLength, cluster, "kafka-bootstrap")
}

func KafkaExternalBootstrapService(cluster string) string {
	return Join(MaxLabelLength, cluster, "kafka-external-bootstrap")
}

// KafkaExternalBrokerService is the per broker Service of an external listener.
func KafkaExternalBrokerService(cluster string, ordinal int) string {
	return Join(MaxLabelLength, cluster, "kafka", strconv.Itoa(ordinal))
}

func KafkaConfigMap(cluster string) string {
	return Join(MaxNameLength, cluster, "kafka-config")
}

func KafkaPodDisruptionBudget(cluster string) string {
	return Join(MaxNameLength, cluster, "kafka")
}

func KafkaServiceAccount(cluster string) string {
	return Join(MaxNameLength, cluster, "kafka")
}

// KafkaBrokersSecret holds the per broker certificates and keys.
func KafkaBrokersSecret(cluster string) string {
	return Join(MaxNameLength, cluster, "kafka-brokers")
}

// CA secrets. The key Secret is never mounted into workloads.

func ClusterCaCertSecret(cluster string) string {
	return Join(MaxNameLength, cluster, "cluster-ca-cert")
}

func ClusterCaKeySecret(cluster string) string {
	return Join(MaxNameLength, cluster, "cluster-ca")
}

func ClientsCaCertSecret(cluster string) string {
	return Join(MaxNameLength, cluster, "clients-ca-cert")
}

func ClientsCaKeySecret(cluster string) string {
	return Join(MaxNameLength, cluster, "clients-ca")
}

// MirrorMaker 2 dependents.

func MirrorMaker2Deployment(cluster string) string {
	return Join(MaxNameLength, cluster, "mirrormaker2")
}

func MirrorMaker2APIService(cluster string) string {
	return Join(MaxLabelLength, cluster, "mirrormaker2-api")
}

func MirrorMaker2ConfigMap(cluster string) string {
	return Join(MaxNameLength, cluster, "mirrormaker2-config")
}

func MirrorMaker2PodDisruptionBudget(cluster string) string {
	return Join(MaxNameLength, cluster, "mirrormaker2")
}

func MirrorMaker2ServiceAccount(cluster string) string {
	return Join(MaxNameLength, cluster, "mirrormaker2")
}

// DNS names.

// ServiceDNSName returns the fully qualified in-cluster name of a Service.
func ServiceDNSName(service, namespace, domain string) string {
	return fmt.Sprintf("%s.%s.svc.%s", service, namespace, domain)
}

// PodDNSName returns the fully qualified name of a pod behind a headless
// Service.
func PodDNSName(pod, headless, namespace, domain string) string {
	return fmt.Sprintf("%s.%s.%s.svc.%s", pod, headless, namespace, domain)
}
