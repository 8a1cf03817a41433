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

// Package mirrormaker2 implements the reconciliation pass for the
// KafkaMirrorMaker2 resource.
//
// A pass validates the spec, applies the ServiceAccount, REST API Service,
// worker ConfigMap, PodDisruptionBudget and Deployment, and waits for the
// workers to be ready. It then converges the MirrorMaker 2 connectors of
// every mirror through the Connect REST API: connectors that no mirror
// references any more are deleted, the others are created, updated, paused
// or resumed. The state of each connector is reported in the status.
//
// Credentials of the mirrored clusters are projected into one directory per
// cluster alias and referenced from connector configs through the Kafka
// directory config provider.
package mirrormaker2
