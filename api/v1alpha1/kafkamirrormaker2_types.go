/*
Copyright 2025.

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

package v1alpha1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// ============================================================================
// KafkaMirrorMaker2 Spec
// ============================================================================

// KafkaMirrorMaker2Spec defines the desired state of KafkaMirrorMaker2.
type KafkaMirrorMaker2Spec struct {
	// Replicas is the desired number of Connect workers.
	// +kubebuilder:validation:Minimum=0
	Replicas int32 `json:"replicas"`

	// Image is the Kafka Connect container image.
	// +kubebuilder:validation:MinLength=1
	// +kubebuilder:validation:MaxLength=512
	Image string `json:"image"`

	// +optional
	Version string `json:"version,omitempty"`

	// ConnectCluster is the alias of the cluster the Connect workers use for
	// their internal topics. It must match one of Clusters.
	// +kubebuilder:validation:MinLength=1
	ConnectCluster string `json:"connectCluster"`

	// Clusters lists every Kafka cluster referenced by the mirrors.
	// +kubebuilder:validation:MinItems=1
	// +listType=map
	// +listMapKey=alias
	Clusters []MirrorMaker2ClusterSpec `json:"clusters"`

	// Mirrors lists the replication flows.
	// +optional
	Mirrors []MirrorMaker2MirrorSpec `json:"mirrors,omitempty"`

	// Config holds Connect worker configuration. Options owned by the operator are ignored.
	// +optional
	Config map[string]string `json:"config,omitempty"`

	// +optional
	Resources corev1.ResourceRequirements `json:"resources,omitempty"`

	// +optional
	Logging map[string]string `json:"logging,omitempty"`

	// +optional
	// +kubebuilder:pruning:PreserveUnknownFields
	MetricsConfig *runtime.RawExtension `json:"metricsConfig,omitempty"`

	// +optional
	Template *ResourceTemplate `json:"template,omitempty"`
}

// MirrorMaker2ClusterSpec describes one Kafka cluster.
type MirrorMaker2ClusterSpec struct {
	// +kubebuilder:validation:MinLength=1
	Alias string `json:"alias"`

	// +kubebuilder:validation:MinLength=1
	BootstrapServers string `json:"bootstrapServers"`

	// +optional
	TLS *ClientTLS `json:"tls,omitempty"`

	// +optional
	Authentication *ClientAuthentication `json:"authentication,omitempty"`

	// Config holds client configuration for this cluster.
	// +optional
	Config map[string]string `json:"config,omitempty"`
}

// MirrorMaker2MirrorSpec describes one replication flow between two clusters.
type MirrorMaker2MirrorSpec struct {
	// +optional
	SourceCluster string `json:"sourceCluster,omitempty"`

	// +optional
	TargetCluster string `json:"targetCluster,omitempty"`

	// +optional
	SourceConnector *MirrorMaker2ConnectorSpec `json:"sourceConnector,omitempty"`

	// +optional
	CheckpointConnector *MirrorMaker2ConnectorSpec `json:"checkpointConnector,omitempty"`

	// +optional
	HeartbeatConnector *MirrorMaker2ConnectorSpec `json:"heartbeatConnector,omitempty"`

	// TopicsPattern is a regular expression of topics to mirror.
	// +optional
	TopicsPattern string `json:"topicsPattern,omitempty"`

	// +optional
	TopicsBlacklistPattern string `json:"topicsBlacklistPattern,omitempty"`

	// GroupsPattern is a regular expression of consumer groups to mirror.
	// +optional
	GroupsPattern string `json:"groupsPattern,omitempty"`

	// +optional
	GroupsBlacklistPattern string `json:"groupsBlacklistPattern,omitempty"`

	// Include is a regular expression of topics to mirror. It replaces Whitelist.
	// +optional
	Include string `json:"include,omitempty"`

	// Whitelist is the deprecated name of Include. It is ignored when Include is set.
	// +optional
	Whitelist string `json:"whitelist,omitempty"`
}

// MirrorMaker2ConnectorSpec configures one connector of a mirror.
type MirrorMaker2ConnectorSpec struct {
	// +kubebuilder:validation:Minimum=1
	// +optional
	TasksMax *int32 `json:"tasksMax,omitempty"`

	// +optional
	Config map[string]string `json:"config,omitempty"`

	// Pause stops the connector without deleting it.
	// +optional
	Pause bool `json:"pause,omitempty"`
}

// ============================================================================
// KafkaMirrorMaker2 Status
// ============================================================================

// KafkaMirrorMaker2Status defines the observed state of KafkaMirrorMaker2.
type KafkaMirrorMaker2Status struct {
	// +optional
	// +listType=map
	// +listMapKey=type
	Conditions []metav1.Condition `json:"conditions,omitempty"`

	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`

	// +optional
	Phase Phase `json:"phase,omitempty"`

	// URL is the address of the Connect REST API.
	// +optional
	URL string `json:"url,omitempty"`

	// Connectors reports the state of each managed connector.
	// +optional
	Connectors []ConnectorStatus `json:"connectors,omitempty"`

	// +optional
	Replicas int32 `json:"replicas,omitempty"`

	// +optional
	LabelSelector string `json:"labelSelector,omitempty"`
}

// ConnectorStatus is the reported state of one connector.
type ConnectorStatus struct {
	Name string `json:"name"`

	// +optional
	State string `json:"state,omitempty"`

	// +optional
	Error string `json:"error,omitempty"`
}

// ============================================================================
// Kind Definition and registration
// ============================================================================

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:subresource:scale:specpath=.spec.replicas,statuspath=.status.replicas,selectorpath=.status.labelSelector
// +kubebuilder:resource:shortName=kmm2
// +kubebuilder:printcolumn:name="Ready",type="string",JSONPath=".status.conditions[?(@.type=='Ready')].status"

// KafkaMirrorMaker2 is the Schema for the kafkamirrormaker2s API
type KafkaMirrorMaker2 struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   KafkaMirrorMaker2Spec   `json:"spec,omitempty"`
	Status KafkaMirrorMaker2Status `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// KafkaMirrorMaker2List contains a list of KafkaMirrorMaker2
type KafkaMirrorMaker2List struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []KafkaMirrorMaker2 `json:"items"`
}

func init() {
	SchemeBuilder.Register(&KafkaMirrorMaker2{}, &KafkaMirrorMaker2List{})
}
