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

// Package status derives the Phase and the Ready condition reported on Kafka
// and KafkaMirrorMaker2 resources.
//
// Each assembly reduces its outcome to a replica count and an optional error;
// the helpers here turn that into a consistent status across kinds.
package status

import (
	"errors"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
)

// ComputePhase determines the phase of a resource based on its readiness.
func ComputePhase(ready, total int32) kafkav1alpha1.Phase {
	if total == 0 {
		return kafkav1alpha1.PhaseInitializing
	}
	if ready == total {
		return kafkav1alpha1.PhaseHealthy
	}
	return kafkav1alpha1.PhaseProgressing
}

// ComputePhaseWithError is ComputePhase for a pass that may have failed.
// A failed pass always reports Degraded.
func ComputePhaseWithError(ready, total int32, err error) kafkav1alpha1.Phase {
	if err != nil {
		return kafkav1alpha1.PhaseDegraded
	}
	return ComputePhase(ready, total)
}

// Reasoned is implemented by errors that carry a condition reason.
type Reasoned interface {
	Reason() string
}

// ReadyCondition builds the Ready condition for the given pass outcome.
func ReadyCondition(generation int64, ready, total int32, err error) metav1.Condition {
	cond := metav1.Condition{
		Type:               kafkav1alpha1.ConditionReady,
		ObservedGeneration: generation,
		LastTransitionTime: metav1.Now(),
	}

	switch {
	case err != nil:
		cond.Status = metav1.ConditionFalse
		cond.Reason = kafkav1alpha1.ReasonApplyFailed
		var r Reasoned
		if errors.As(err, &r) {
			cond.Reason = r.Reason()
		}
		cond.Message = err.Error()
	case total > 0 && ready == total:
		cond.Status = metav1.ConditionTrue
		cond.Reason = kafkav1alpha1.ReasonReady
		cond.Message = "All replicas are ready"
	default:
		cond.Status = metav1.ConditionFalse
		cond.Reason = kafkav1alpha1.ReasonNotReady
		cond.Message = "Waiting for replicas to become ready"
	}
	return cond
}
