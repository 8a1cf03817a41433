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
// Kafka Spec
// ============================================================================

// KafkaSpec defines the desired state of a Kafka broker cluster.
type KafkaSpec struct {
	// Replicas is the desired number of brokers.
	// +kubebuilder:validation:Minimum=1
	Replicas int32 `json:"replicas"`

	// Image is the broker container image.
	// +kubebuilder:validation:MinLength=1
	// +kubebuilder:validation:MaxLength=512
	Image string `json:"image"`

	// Version is the Kafka version running in the image.
	// +optional
	Version string `json:"version,omitempty"`

	// Config holds broker configuration. Options owned by the operator are ignored.
	// +optional
	Config map[string]string `json:"config,omitempty"`

	// Resources defines the compute resource requirements.
	// +optional
	Resources corev1.ResourceRequirements `json:"resources,omitempty"`

	// Storage configuration for broker data.
	// +optional
	Storage StorageSpec `json:"storage,omitempty"`

	// Listeners configures how clients reach the brokers.
	// +optional
	Listeners KafkaListeners `json:"listeners,omitempty"`

	// ClusterCa configures the CA that signs broker certificates.
	// +optional
	ClusterCa CertificateAuthority `json:"clusterCa,omitempty"`

	// ClientsCa configures the CA that signs client certificates.
	// +optional
	ClientsCa CertificateAuthority `json:"clientsCa,omitempty"`

	// MaintenanceTimeWindows are cron expressions (seconds first, "?" allowed)
	// during which disruptive broker restarts are permitted. Expressions are
	// evaluated in UTC unless prefixed with CRON_TZ=<zone>. An empty list means
	// restarts are permitted at any time.
	// +optional
	// +kubebuilder:validation:MaxItems=16
	MaintenanceTimeWindows []string `json:"maintenanceTimeWindows,omitempty"`

	// Logging configures broker log levels as logger -> level.
	// +optional
	Logging map[string]string `json:"logging,omitempty"`

	// MetricsConfig is the Prometheus JMX exporter configuration.
	// +optional
	// +kubebuilder:pruning:PreserveUnknownFields
	MetricsConfig *runtime.RawExtension `json:"metricsConfig,omitempty"`

	// Template overrides parts of the generated resources.
	// +optional
	Template *ResourceTemplate `json:"template,omitempty"`
}

// KafkaListeners configures the broker listeners.
type KafkaListeners struct {
	// Plain enables the unencrypted listener on port 9092.
	// +optional
	Plain *PlainListener `json:"plain,omitempty"`

	// TLS enables the encrypted listener on port 9093.
	// +optional
	TLS *TLSListener `json:"tls,omitempty"`

	// External exposes the brokers outside of the Kubernetes cluster.
	// +optional
	External *ExternalListener `json:"external,omitempty"`
}

// PlainListener configures the plain listener.
type PlainListener struct {
	// +optional
	Authentication *ListenerAuthentication `json:"authentication,omitempty"`
}

// TLSListener configures the TLS listener.
type TLSListener struct {
	// +optional
	Authentication *ListenerAuthentication `json:"authentication,omitempty"`
}

// ListenerAuthentication names the authentication mechanism of a listener.
type ListenerAuthentication struct {
	Type AuthenticationType `json:"type"`
}

// ExternalListenerType enumerates the ways brokers can be exposed externally.
// +kubebuilder:validation:Enum=loadbalancer;nodeport
type ExternalListenerType string

const (
	ExternalListenerLoadBalancer ExternalListenerType = "loadbalancer"
	ExternalListenerNodePort     ExternalListenerType = "nodeport"
)

// ExternalListener configures the external listener on port 9094.
type ExternalListener struct {
	Type ExternalListenerType `json:"type"`

	// TLS encrypts the external listener.
	// +optional
	TLS bool `json:"tls,omitempty"`

	// +optional
	Authentication *ListenerAuthentication `json:"authentication,omitempty"`

	// BootstrapHost is the advertised bootstrap address, added to broker certificates.
	// +optional
	BootstrapHost string `json:"bootstrapHost,omitempty"`

	// AdvertisedHosts overrides the advertised address per broker.
	// +optional
	AdvertisedHosts []AdvertisedHost `json:"advertisedHosts,omitempty"`
}

// AdvertisedHost is the externally reachable address of one broker.
type AdvertisedHost struct {
	// +kubebuilder:validation:Minimum=0
	Broker int32 `json:"broker"`

	// +kubebuilder:validation:MinLength=1
	Host string `json:"host"`
}

// ============================================================================
// Kafka Status
// ============================================================================

// KafkaStatus defines the observed state of Kafka.
type KafkaStatus struct {
	// Conditions represent the latest available observations.
	// +optional
	// +listType=map
	// +listMapKey=type
	Conditions []metav1.Condition `json:"conditions,omitempty"`

	// ObservedGeneration is the most recent generation observed.
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`

	// +optional
	Phase Phase `json:"phase,omitempty"`

	// +optional
	Replicas int32 `json:"replicas,omitempty"`

	// +optional
	ReadyReplicas int32 `json:"readyReplicas,omitempty"`

	// ClusterCaGeneration is the generation of the cluster CA in use.
	// +optional
	ClusterCaGeneration int32 `json:"clusterCaGeneration,omitempty"`

	// ClientsCaGeneration is the generation of the clients CA in use.
	// +optional
	ClientsCaGeneration int32 `json:"clientsCaGeneration,omitempty"`

	// Listeners lists the bootstrap addresses per listener.
	// +optional
	Listeners []ListenerStatus `json:"listeners,omitempty"`
}

// ListenerStatus reports the bootstrap address of a listener.
type ListenerStatus struct {
	Type string `json:"type"`

	// +optional
	BootstrapServers string `json:"bootstrapServers,omitempty"`
}

// ============================================================================
// Kind Definition and registration
// ============================================================================

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Replicas",type="integer",JSONPath=".spec.replicas"
// +kubebuilder:printcolumn:name="Ready",type="string",JSONPath=".status.conditions[?(@.type=='Ready')].status"
// +kubebuilder:printcolumn:name="Phase",type="string",JSONPath=".status.phase"

// Kafka is the Schema for the kafkas API
type Kafka struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   KafkaSpec   `json:"spec,omitempty"`
	Status KafkaStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// KafkaList contains a list of Kafka
type KafkaList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Kafka `json:"items"`
}

func init() {
	SchemeBuilder.Register(&Kafka{}, &KafkaList{})
}
