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
)

// ============================================================================
// Shared Configuration Structs
// ============================================================================
//
// These structs are used by both Kafka and KafkaMirrorMaker2 to keep
// configuration shapes consistent.

// Phase represents the aggregated lifecycle state of a resource.
// +kubebuilder:validation:Enum=Initializing;Progressing;Healthy;Degraded;Unknown
type Phase string

const (
	PhaseInitializing Phase = "Initializing"
	PhaseProgressing  Phase = "Progressing"
	PhaseHealthy      Phase = "Healthy"
	PhaseDegraded     Phase = "Degraded"
	PhaseUnknown      Phase = "Unknown"
)

// Condition types and reasons published on top-level resources.
const (
	ConditionReady = "Ready"

	// ConditionRollingUpdatePending is true while restarts wait for a
	// maintenance time window.
	ConditionRollingUpdatePending = "RollingUpdatePending"

	ReasonReady          = "Ready"
	ReasonInvalidSpec    = "InvalidSpec"
	ReasonApplyFailed    = "ApplyFailed"
	ReasonCaInitFailed   = "CaInitializationFailed"
	ReasonNotReady       = "NotReady"
	ReasonConnectorError = "ConnectorReconcileFailed"
	ReasonRollDeferred   = "RollingUpdateDeferred"
)

// CertificateAuthority configures how a certificate authority is managed.
type CertificateAuthority struct {
	// GenerateCertificateAuthority controls whether the operator creates and
	// renews the CA. When false, the CA material must be provided by the user
	// in the CA Secrets.
	// +optional
	GenerateCertificateAuthority *bool `json:"generateCertificateAuthority,omitempty"`

	// ValidityDays is the number of days a generated CA certificate is valid.
	// +kubebuilder:validation:Minimum=1
	// +optional
	ValidityDays int32 `json:"validityDays,omitempty"`

	// RenewalDays is the number of days before expiry at which the CA is renewed.
	// +kubebuilder:validation:Minimum=1
	// +optional
	RenewalDays int32 `json:"renewalDays,omitempty"`
}

// StorageSpec defines the storage configuration.
type StorageSpec struct {
	// Size of the persistent volume. Ephemeral storage is used when empty.
	// +kubebuilder:validation:Pattern="^([0-9]+)(.+)$"
	// +kubebuilder:validation:MaxLength=63
	// +optional
	Size string `json:"size,omitempty"`

	// Class is the StorageClass name.
	// +optional
	// +kubebuilder:validation:MaxLength=63
	Class string `json:"class,omitempty"`

	// DeleteClaim deletes the volume claims when the cluster is deleted or scaled down.
	// +optional
	DeleteClaim bool `json:"deleteClaim,omitempty"`
}

// MetadataTemplate carries extra labels and annotations for a generated object.
type MetadataTemplate struct {
	// +optional
	// +kubebuilder:validation:MaxProperties=64
	Labels map[string]string `json:"labels,omitempty"`

	// +optional
	// +kubebuilder:validation:MaxProperties=64
	Annotations map[string]string `json:"annotations,omitempty"`
}

// PodTemplate overrides scheduling and metadata of generated pods.
type PodTemplate struct {
	// +optional
	Metadata MetadataTemplate `json:"metadata,omitempty"`

	// +optional
	Affinity *corev1.Affinity `json:"affinity,omitempty"`

	// +optional
	Tolerations []corev1.Toleration `json:"tolerations,omitempty"`

	// +optional
	TerminationGracePeriodSeconds *int64 `json:"terminationGracePeriodSeconds,omitempty"`

	// +optional
	ImagePullSecrets []corev1.LocalObjectReference `json:"imagePullSecrets,omitempty"`
}

// PodDisruptionBudgetTemplate overrides the generated PodDisruptionBudget.
type PodDisruptionBudgetTemplate struct {
	// +optional
	Metadata MetadataTemplate `json:"metadata,omitempty"`

	// MaxUnavailable defaults to 1.
	// +kubebuilder:validation:Minimum=0
	// +optional
	MaxUnavailable *int32 `json:"maxUnavailable,omitempty"`
}

// ResourceTemplate overrides parts of the generated dependent resources.
type ResourceTemplate struct {
	// Workload applies to the StatefulSet or Deployment.
	// +optional
	Workload *MetadataTemplate `json:"workload,omitempty"`

	// +optional
	Pod *PodTemplate `json:"pod,omitempty"`

	// Service applies to every generated Service.
	// +optional
	Service *MetadataTemplate `json:"service,omitempty"`

	// +optional
	PodDisruptionBudget *PodDisruptionBudgetTemplate `json:"podDisruptionBudget,omitempty"`
}

// PasswordSecretSource references a password stored in a Secret.
type PasswordSecretSource struct {
	// +kubebuilder:validation:MinLength=1
	SecretName string `json:"secretName"`

	// +kubebuilder:validation:MinLength=1
	Password string `json:"password"`
}

// CertSecretSource references a certificate stored in a Secret.
type CertSecretSource struct {
	// +kubebuilder:validation:MinLength=1
	SecretName string `json:"secretName"`

	// +kubebuilder:validation:MinLength=1
	Certificate string `json:"certificate"`
}

// ClientTLS configures TLS trust for a client connection.
type ClientTLS struct {
	// +optional
	TrustedCertificates []CertSecretSource `json:"trustedCertificates,omitempty"`
}

// AuthenticationType enumerates client authentication mechanisms.
// +kubebuilder:validation:Enum=tls;scram-sha-512;plain
type AuthenticationType string

const (
	AuthenticationTLS         AuthenticationType = "tls"
	AuthenticationScramSha512 AuthenticationType = "scram-sha-512"
	AuthenticationPlain       AuthenticationType = "plain"
)

// ClientAuthentication configures how a client authenticates to a cluster.
type ClientAuthentication struct {
	Type AuthenticationType `json:"type"`

	// +optional
	Username string `json:"username,omitempty"`

	// +optional
	PasswordSecret *PasswordSecretSource `json:"passwordSecret,omitempty"`

	// CertificateAndKey is used by tls authentication.
	// +optional
	CertificateAndKey *CertAndKeySecretSource `json:"certificateAndKey,omitempty"`
}

// CertAndKeySecretSource references a certificate and key stored in a Secret.
type CertAndKeySecretSource struct {
	SecretName  string `json:"secretName"`
	Certificate string `json:"certificate"`
	Key         string `json:"key"`
}

// GetConditions returns the status conditions of the Kafka cluster.
func (k *Kafka) GetConditions() []metav1.Condition { return k.Status.Conditions }

// GetObservedGeneration returns the generation the last pass acted on.
func (k *Kafka) GetObservedGeneration() int64 { return k.Status.ObservedGeneration }

// GetConditions returns the status conditions of the MirrorMaker 2 cluster.
func (m *KafkaMirrorMaker2) GetConditions() []metav1.Condition { return m.Status.Conditions }

// GetObservedGeneration returns the generation the last pass acted on.
func (m *KafkaMirrorMaker2) GetObservedGeneration() int64 { return m.Status.ObservedGeneration }
