package handlers

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/webhook"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/cluster-handler/assembly"
	"github.com/numtide/kafka-operator/pkg/monitoring"
	"github.com/numtide/kafka-operator/pkg/resource-handler/controller/kafka"
	"github.com/numtide/kafka-operator/pkg/resource-handler/controller/mirrormaker2"
)

// ============================================================================
// Kafka Validator
// ============================================================================

// +kubebuilder:webhook:path=/validate-kafka-numtide-com-v1alpha1-kafka,mutating=false,failurePolicy=fail,sideEffects=None,groups=kafka.numtide.com,resources=kafkas,verbs=create;update,versions=v1alpha1,name=vkafka.kb.io,admissionReviewVersions=v1

// KafkaValidator validates Create and Update events for Kafka clusters.
type KafkaValidator struct{}

var _ webhook.CustomValidator = &KafkaValidator{}

// NewKafkaValidator creates a new validator for Kafka clusters.
func NewKafkaValidator() *KafkaValidator {
	return &KafkaValidator{}
}

func (v *KafkaValidator) ValidateCreate(
	ctx context.Context,
	obj runtime.Object,
) (admission.Warnings, error) {
	start := time.Now()
	cluster, err := asKafka(obj)
	if err == nil {
		err = invalid(kafka.Kind, cluster.Namespace, cluster.Name, kafka.Validate(cluster))
	}
	monitoring.RecordWebhookRequest("create", kafka.Kind, err, time.Since(start))
	return nil, err
}

func (v *KafkaValidator) ValidateUpdate(
	ctx context.Context,
	oldObj, newObj runtime.Object,
) (admission.Warnings, error) {
	start := time.Now()
	err := v.validateUpdate(oldObj, newObj)
	monitoring.RecordWebhookRequest("update", kafka.Kind, err, time.Since(start))
	return nil, err
}

func (v *KafkaValidator) validateUpdate(oldObj, newObj runtime.Object) error {
	previous, err := asKafka(oldObj)
	if err != nil {
		return err
	}
	cluster, err := asKafka(newObj)
	if err != nil {
		return err
	}

	problems := kafka.Validate(cluster)
	problems = append(problems, storageChanges(previous.Spec.Storage, cluster.Spec.Storage)...)
	return invalid(kafka.Kind, cluster.Namespace, cluster.Name, problems)
}

func (v *KafkaValidator) ValidateDelete(
	ctx context.Context,
	obj runtime.Object,
) (admission.Warnings, error) {
	return nil, nil
}

// storageChanges reports the storage edits a StatefulSet cannot apply, since
// its volume claim templates are immutable.
func storageChanges(previous, next kafkav1alpha1.StorageSpec) []string {
	var problems []string
	if (previous.Size == "") != (next.Size == "") {
		problems = append(problems, "spec.storage cannot switch between ephemeral and persistent storage")
	}
	if previous.Size != "" && next.Size != "" && previous.Class != next.Class {
		problems = append(problems, fmt.Sprintf(
			"spec.storage.class cannot change from %q to %q", previous.Class, next.Class))
	}
	return problems
}

func asKafka(obj runtime.Object) (*kafkav1alpha1.Kafka, error) {
	cluster, ok := obj.(*kafkav1alpha1.Kafka)
	if !ok {
		return nil, fmt.Errorf("expected Kafka, got %T", obj)
	}
	return cluster, nil
}

// ============================================================================
// KafkaMirrorMaker2 Validator
// ============================================================================

// +kubebuilder:webhook:path=/validate-kafka-numtide-com-v1alpha1-kafkamirrormaker2,mutating=false,failurePolicy=fail,sideEffects=None,groups=kafka.numtide.com,resources=kafkamirrormaker2s,verbs=create;update,versions=v1alpha1,name=vkafkamirrormaker2.kb.io,admissionReviewVersions=v1

// MirrorMaker2Validator validates Create and Update events for
// KafkaMirrorMaker2 resources.
type MirrorMaker2Validator struct{}

var _ webhook.CustomValidator = &MirrorMaker2Validator{}

// NewMirrorMaker2Validator creates a new validator for KafkaMirrorMaker2
// resources.
func NewMirrorMaker2Validator() *MirrorMaker2Validator {
	return &MirrorMaker2Validator{}
}

func (v *MirrorMaker2Validator) ValidateCreate(
	ctx context.Context,
	obj runtime.Object,
) (admission.Warnings, error) {
	return v.validate("create", obj)
}

func (v *MirrorMaker2Validator) ValidateUpdate(
	ctx context.Context,
	oldObj, newObj runtime.Object,
) (admission.Warnings, error) {
	return v.validate("update", newObj)
}

func (v *MirrorMaker2Validator) ValidateDelete(
	ctx context.Context,
	obj runtime.Object,
) (admission.Warnings, error) {
	return nil, nil
}

func (v *MirrorMaker2Validator) validate(operation string, obj runtime.Object) (admission.Warnings, error) {
	start := time.Now()
	mm2, ok := obj.(*kafkav1alpha1.KafkaMirrorMaker2)
	if !ok {
		err := fmt.Errorf("expected KafkaMirrorMaker2, got %T", obj)
		monitoring.RecordWebhookRequest(operation, mirrormaker2.Kind, err, time.Since(start))
		return nil, err
	}

	problems, warnings := mirrormaker2.Validate(mm2)
	err := invalid(mirrormaker2.Kind, mm2.Namespace, mm2.Name, problems)
	monitoring.RecordWebhookRequest(operation, mirrormaker2.Kind, err, time.Since(start))
	return admission.Warnings(warnings), err
}

// invalid returns the rejection for problems, or nil when there are none.
func invalid(kind, namespace, name string, problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return &assembly.InvalidSpecError{Kind: kind, Namespace: namespace, Name: name, Problems: problems}
}
