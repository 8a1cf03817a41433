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

// Package webhook provides the entry point for configuring Kubernetes admission
// webhooks for the Kafka Operator.
//
// The package exposes a [Setup] function that registers all webhook handlers with
// the controller-runtime manager. It wires together:
//
//   - Mutating Webhooks: Make the certificate authority defaults of Kafka
//     resources explicit before they are persisted.
//
//   - Validating Webhooks: Run the spec validation of the Kafka and
//     KafkaMirrorMaker2 reconcilers at admission time (see pkg/webhook/handlers).
//
// # TLS Certificates
//
// The webhook server reads its serving certificate from the directory set on
// the manager's webhook server. Provisioning it is left to the deployment,
// typically cert-manager.
package webhook
