// Package pvc provides utilities for broker volume lifecycle management.
package pvc

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
)

// DefaultStorageSize is used when the storage spec leaves the size empty.
const DefaultStorageSize = "10Gi"

// BuildRetentionPolicy converts the storage deleteClaim flag to a StatefulSet
// retention policy. Claims are retained unless deleteClaim is set, in which
// case they are removed both on deletion and on scale down.
func BuildRetentionPolicy(
	storage kafkav1alpha1.StorageSpec,
) *appsv1.StatefulSetPersistentVolumeClaimRetentionPolicy {
	if !storage.DeleteClaim {
		return &appsv1.StatefulSetPersistentVolumeClaimRetentionPolicy{
			WhenDeleted: appsv1.RetainPersistentVolumeClaimRetentionPolicyType,
			WhenScaled:  appsv1.RetainPersistentVolumeClaimRetentionPolicyType,
		}
	}
	return &appsv1.StatefulSetPersistentVolumeClaimRetentionPolicy{
		WhenDeleted: appsv1.DeletePersistentVolumeClaimRetentionPolicyType,
		WhenScaled:  appsv1.DeletePersistentVolumeClaimRetentionPolicyType,
	}
}

// BuildClaimTemplate creates a PersistentVolumeClaim for a StatefulSet's
// volumeClaimTemplates. An empty class uses the cluster default.
func BuildClaimTemplate(name string, storage kafkav1alpha1.StorageSpec) (corev1.PersistentVolumeClaim, error) {
	size := storage.Size
	if size == "" {
		size = DefaultStorageSize
	}
	quantity, err := resource.ParseQuantity(size)
	if err != nil {
		return corev1.PersistentVolumeClaim{}, err
	}

	claim := corev1.PersistentVolumeClaim{
		ObjectMeta: metav1.ObjectMeta{
			Name: name,
		},
		Spec: corev1.PersistentVolumeClaimSpec{
			AccessModes: []corev1.PersistentVolumeAccessMode{
				corev1.ReadWriteOnce,
			},
			Resources: corev1.VolumeResourceRequirements{
				Requests: corev1.ResourceList{
					corev1.ResourceStorage: quantity,
				},
			},
		},
	}
	if storage.Class != "" {
		class := storage.Class
		claim.Spec.StorageClassName = &class
	}
	return claim, nil
}
