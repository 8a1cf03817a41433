package kafka

import (
	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/cluster-handler/names"
	"github.com/numtide/kafka-operator/pkg/util/metadata"
)

// Kind is the kind label value of every Kafka dependent.
const Kind = "Kafka"

// LabelPodName is set by the StatefulSet controller on each pod and selects a
// single broker.
const LabelPodName = "statefulset.kubernetes.io/pod-name"

func buildLabels(kafka *kafkav1alpha1.Kafka) map[string]string {
	return metadata.BuildResourceLabels(Kind, kafka.Name, names.KafkaStatefulSet(kafka.Name), metadata.ComponentKafka)
}

func buildSelectorLabels(kafka *kafkav1alpha1.Kafka) map[string]string {
	return metadata.GetSelectorLabels(buildLabels(kafka))
}

// ownedLabels select every dependent of the named cluster.
func ownedLabels(cluster string) map[string]string {
	return map[string]string{
		metadata.LabelCluster: cluster,
		metadata.LabelKind:    Kind,
	}
}

func templateMetadata(kafka *kafkav1alpha1.Kafka, pick func(*kafkav1alpha1.ResourceTemplate) *kafkav1alpha1.MetadataTemplate) kafkav1alpha1.MetadataTemplate {
	if kafka.Spec.Template == nil {
		return kafkav1alpha1.MetadataTemplate{}
	}
	if m := pick(kafka.Spec.Template); m != nil {
		return *m
	}
	return kafkav1alpha1.MetadataTemplate{}
}

func serviceTemplate(t *kafkav1alpha1.ResourceTemplate) *kafkav1alpha1.MetadataTemplate {
	return t.Service
}

func workloadTemplate(t *kafkav1alpha1.ResourceTemplate) *kafkav1alpha1.MetadataTemplate {
	return t.Workload
}

func podTemplate(kafka *kafkav1alpha1.Kafka) *kafkav1alpha1.PodTemplate {
	if kafka.Spec.Template == nil || kafka.Spec.Template.Pod == nil {
		return &kafkav1alpha1.PodTemplate{}
	}
	return kafka.Spec.Template.Pod
}
