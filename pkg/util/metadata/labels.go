package metadata

import (
	"maps"
)

// Standard Kubernetes label keys following kubernetes.io conventions.
//
// See: https://kubernetes.io/docs/concepts/overview/working-with-objects/common-labels/
const (
	// LabelAppName is the standard label key for the application name.
	LabelAppName = "app.kubernetes.io/name"

	// LabelAppInstance is the standard label key for the unique instance name.
	LabelAppInstance = "app.kubernetes.io/instance"

	// LabelAppVersion is the standard label key for the application version.
	LabelAppVersion = "app.kubernetes.io/version"

	// LabelAppComponent is the standard label key for the component within the
	// application.
	LabelAppComponent = "app.kubernetes.io/component"

	// LabelAppPartOf is the standard label key for the name of a higher level
	// application this one is part of.
	LabelAppPartOf = "app.kubernetes.io/part-of"

	// LabelAppManagedBy is the standard label key for the tool managing the
	// resource.
	LabelAppManagedBy = "app.kubernetes.io/managed-by"
)

const (
	// AppNameKafka is the fixed application name for all operator resources.
	AppNameKafka = "kafka"

	// ManagedByKafkaOperator identifies the operator managing these resources.
	ManagedByKafkaOperator = "kafka-operator"
)

const (
	// ComponentKafka identifies the broker component.
	ComponentKafka = "kafka"

	// ComponentMirrorMaker2 identifies the MirrorMaker 2 Connect component.
	ComponentMirrorMaker2 = "mirrormaker2"
)

const (
	// LabelCluster identifies which custom resource a dependent belongs to.
	// Dependents are listed by this label during deletion and resync.
	LabelCluster = "kafka.numtide.com/cluster"

	// LabelKind identifies the kind of the owning custom resource.
	LabelKind = "kafka.numtide.com/kind"

	// LabelName identifies the workload a pod belongs to.
	LabelName = "kafka.numtide.com/name"
)

// BuildStandardLabels returns a map of standard kubernetes labels.
// clusterName should be the name of the owning custom resource.
// component is the name of the component (e.g. kafka, mirrormaker2).
func BuildStandardLabels(clusterName, component string) map[string]string {
	return map[string]string{
		LabelAppName:      AppNameKafka,
		LabelAppInstance:  clusterName,
		LabelAppComponent: component,
		LabelAppPartOf:    AppNameKafka,
		LabelAppManagedBy: ManagedByKafkaOperator,
	}
}

// BuildResourceLabels returns the standard labels plus the operator identity
// labels for a dependent of the named custom resource.
func BuildResourceLabels(kind, clusterName, workloadName, component string) map[string]string {
	labels := BuildStandardLabels(clusterName, component)
	AddClusterLabel(labels, clusterName)
	AddKindLabel(labels, kind)
	AddNameLabel(labels, workloadName)
	return labels
}

// AddClusterLabel adds the cluster label to the provided labels map.
func AddClusterLabel(labels map[string]string, clusterName string) map[string]string {
	labels[LabelCluster] = clusterName
	return labels
}

// AddKindLabel adds the kind label to the provided labels map.
func AddKindLabel(labels map[string]string, kind string) map[string]string {
	labels[LabelKind] = kind
	return labels
}

// AddNameLabel adds the workload name label to the provided labels map.
func AddNameLabel(labels map[string]string, name string) map[string]string {
	labels[LabelName] = name
	return labels
}

// selectorLabelsAllowList contains the keys that are allowed in label selectors.
// These must be stable identity labels, not mutable metadata.
var selectorLabelsAllowList = map[string]bool{
	LabelAppComponent: true,
	LabelAppInstance:  true,
	LabelCluster:      true,
	LabelKind:         true,
	LabelName:         true,
}

// GetSelectorLabels filters the provided labels map to return only those keys
// allowed in resource selectors (Identity Labels).
//
// This separates stable identity labels from mutable metadata labels like
// versions, so that changes to the latter never touch immutable selectors.
func GetSelectorLabels(labels map[string]string) map[string]string {
	selectorLabels := make(map[string]string)
	for k, v := range labels {
		if selectorLabelsAllowList[k] {
			selectorLabels[k] = v
		}
	}
	return selectorLabels
}

// MergeLabels merges custom labels with standard labels.
//
// Note that standard labels take precedence over custom labels to prevent users
// from overriding critical operator-managed labels.
func MergeLabels(standardLabels, customLabels map[string]string) map[string]string {
	merged := make(map[string]string)

	// Copy custom labels first (if provided)
	maps.Copy(merged, customLabels)

	// Copy standard labels (overwriting any duplicates from custom)
	maps.Copy(merged, standardLabels)

	return merged
}

// MergeAnnotations copies operator and user annotations into a new map.
// Operator annotations win on conflict. It returns nil when both are empty.
func MergeAnnotations(operatorAnnotations, customAnnotations map[string]string) map[string]string {
	if len(operatorAnnotations) == 0 && len(customAnnotations) == 0 {
		return nil
	}
	return MergeLabels(operatorAnnotations, customAnnotations)
}
