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

// Package v1alpha1 defines the API types for the Kafka Operator.
//
// This package contains the Go type definitions for all Custom Resources in the
// kafka.numtide.com API group. These types are used by kubebuilder to generate:
//   - CustomResourceDefinitions (CRDs)
//   - DeepCopy methods
//   - Client code
//
// # Custom Resources
//
//   - Kafka: A broker cluster. The operator owns its certificate authorities,
//     broker certificates, services, configuration, disruption budget and
//     StatefulSet, and rolls brokers when trusted CA material changes.
//   - KafkaMirrorMaker2: A Kafka Connect deployment running the MirrorMaker 2
//     connectors. Connectors are managed through the Connect REST API once the
//     deployment is ready.
//
// # Resource Hierarchy
//
//	Kafka
//	├── Secrets (cluster CA, clients CA, broker certificates)
//	├── ServiceAccount, Services, ConfigMap, PodDisruptionBudget
//	└── StatefulSet (brokers)
//
//	KafkaMirrorMaker2
//	├── ServiceAccount, Service, ConfigMap, PodDisruptionBudget
//	├── Deployment (Connect workers)
//	└── Connectors (source, checkpoint, heartbeat per mirror)
//
// # Versioning
//
// This is the v1alpha1 version, indicating the API is in early development
// and may change in backward-incompatible ways.
package v1alpha1
