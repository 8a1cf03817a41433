package mirrormaker2

import (
	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/cluster-handler/names"
	"github.com/numtide/kafka-operator/pkg/util/metadata"
)

// Kind is the kind label value of every KafkaMirrorMaker2 dependent.
const Kind = "KafkaMirrorMaker2"

func buildLabels(mm2 *kafkav1alpha1.KafkaMirrorMaker2) map[string]string {
	return metadata.BuildResourceLabels(Kind, mm2.Name, names.MirrorMaker2Deployment(mm2.Name), metadata.ComponentMirrorMaker2)
}

func buildSelectorLabels(mm2 *kafkav1alpha1.KafkaMirrorMaker2) map[string]string {
	return metadata.GetSelectorLabels(buildLabels(mm2))
}

func ownedLabels(name string) map[string]string {
	return map[string]string{
		metadata.LabelCluster: name,
		metadata.LabelKind:    Kind,
	}
}

func template(mm2 *kafkav1alpha1.KafkaMirrorMaker2) kafkav1alpha1.ResourceTemplate {
	if mm2.Spec.Template == nil {
		return kafkav1alpha1.ResourceTemplate{}
	}
	return *mm2.Spec.Template
}

func metadataOf(m *kafkav1alpha1.MetadataTemplate) kafkav1alpha1.MetadataTemplate {
	if m == nil {
		return kafkav1alpha1.MetadataTemplate{}
	}
	return *m
}
