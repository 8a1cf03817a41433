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

// Package kafka implements the reconciliation pass for the Kafka resource.
//
// Assembly implements assembly.Operator. One pass runs these steps in order
// and stops at the first failure, leaving earlier steps applied:
//
//  1. Validate the spec.
//  2. Load, generate or renew the cluster and clients CAs and persist them.
//  3. ServiceAccount.
//  4. Scale the StatefulSet down when fewer brokers are wanted.
//  5. Headless, bootstrap and external Services.
//  6. Broker configuration ConfigMap.
//  7. Broker certificates Secret, signed by the cluster CA.
//  8. PodDisruptionBudget.
//  9. StatefulSet.
//  10. Rolling restarts for CA generation or pod spec changes.
//  11. Scale up, then wait for the StatefulSet to be observed and ready.
//  12. Status.
//
// # Rolling restarts
//
// The StatefulSet uses the OnDelete update strategy, so the operator decides
// when each broker restarts. Pod templates carry the desired CA generations
// as annotations and a pod keeps the annotations of the template it was
// created from. Brokers whose annotations lag behind are restarted one per
// pass, inside the configured maintenance time windows, unless the old CA has
// already expired.
//
// # Teardown
//
// Dependents are owned by the Kafka resource and labelled with its name. When
// the resource is gone, every labelled dependent is deleted in reverse apply
// order, which also cleans up dependents whose owner reference was lost.
package kafka
