package kafka

import (
	"fmt"
	"slices"
	"strconv"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/cluster-handler/names"
	"github.com/numtide/kafka-operator/pkg/util/metadata"
	"github.com/numtide/kafka-operator/pkg/util/pvc"
)

const (
	// ContainerName is the name of the broker container.
	ContainerName = "kafka"

	DataVolumeName    = "data"
	ConfigVolumeName  = "kafka-config"
	BrokerCertsVolume = "broker-certs"
	ClusterCaVolume   = "cluster-ca"
	ClientsCaVolume   = "clients-ca"

	DataMountPath        = "/var/lib/kafka/data"
	ConfigMountPath      = "/opt/kafka/custom-config"
	BrokerCertsMountPath = "/opt/kafka/broker-certs"
	ClusterCaMountPath   = "/opt/kafka/cluster-ca-certs"
	ClientsCaMountPath   = "/opt/kafka/client-ca-certs"
)

// Pod template annotations. A pod keeps the values of the template revision
// it was created from, which is what the rolling decision compares against.
const (
	AnnotationClusterCaGeneration = "kafka.numtide.com/cluster-ca-cert-generation"
	AnnotationClientsCaGeneration = "kafka.numtide.com/clients-ca-cert-generation"
	AnnotationConfigurationHash   = "kafka.numtide.com/configuration-hash"
)

// PodInputs are the values of a pass that end up in the pod template.
type PodInputs struct {
	// Replicas is the replica count to apply, which may lag behind the spec
	// while a scale up waits for pending restarts.
	Replicas            int32
	ClusterCaGeneration int32
	ClientsCaGeneration int32
	ConfigurationHash   string
}

// BuildStatefulSet creates the broker StatefulSet. Pods are only replaced
// when the operator deletes them.
func BuildStatefulSet(
	kafka *kafkav1alpha1.Kafka,
	scheme *runtime.Scheme,
	in PodInputs,
) (*appsv1.StatefulSet, error) {
	labels := buildLabels(kafka)
	workload := templateMetadata(kafka, workloadTemplate)
	pod := podTemplate(kafka)

	podAnnotations := map[string]string{
		AnnotationClusterCaGeneration: strconv.Itoa(int(in.ClusterCaGeneration)),
		AnnotationClientsCaGeneration: strconv.Itoa(int(in.ClientsCaGeneration)),
		AnnotationConfigurationHash:   in.ConfigurationHash,
	}

	volumes := []corev1.Volume{
		configMapVolume(ConfigVolumeName, names.KafkaConfigMap(kafka.Name)),
		secretVolume(BrokerCertsVolume, names.KafkaBrokersSecret(kafka.Name)),
		secretVolume(ClusterCaVolume, names.ClusterCaCertSecret(kafka.Name)),
		secretVolume(ClientsCaVolume, names.ClientsCaCertSecret(kafka.Name)),
	}
	var claims []corev1.PersistentVolumeClaim
	if kafka.Spec.Storage.Size == "" {
		volumes = append([]corev1.Volume{{
			Name:         DataVolumeName,
			VolumeSource: corev1.VolumeSource{EmptyDir: &corev1.EmptyDirVolumeSource{}},
		}}, volumes...)
	} else {
		claim, err := buildDataVolumeClaim(kafka)
		if err != nil {
			return nil, fmt.Errorf("failed to build volume claim template: %w", err)
		}
		claims = []corev1.PersistentVolumeClaim{claim}
	}

	sts := &appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{
			Name:        names.KafkaStatefulSet(kafka.Name),
			Namespace:   kafka.Namespace,
			Labels:      metadata.MergeLabels(labels, workload.Labels),
			Annotations: metadata.MergeAnnotations(nil, workload.Annotations),
		},
		Spec: appsv1.StatefulSetSpec{
			ServiceName: names.KafkaHeadlessService(kafka.Name),
			Replicas:    ptr.To(in.Replicas),
			Selector: &metav1.LabelSelector{
				MatchLabels: buildSelectorLabels(kafka),
			},
			PodManagementPolicy: appsv1.ParallelPodManagement,
			UpdateStrategy: appsv1.StatefulSetUpdateStrategy{
				Type: appsv1.OnDeleteStatefulSetStrategyType,
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels:      metadata.MergeLabels(labels, pod.Metadata.Labels),
					Annotations: metadata.MergeAnnotations(podAnnotations, pod.Metadata.Annotations),
				},
				Spec: corev1.PodSpec{
					ServiceAccountName:            names.KafkaServiceAccount(kafka.Name),
					Affinity:                      pod.Affinity,
					Tolerations:                   pod.Tolerations,
					TerminationGracePeriodSeconds: pod.TerminationGracePeriodSeconds,
					ImagePullSecrets:              pod.ImagePullSecrets,
					Containers: []corev1.Container{
						buildContainer(kafka),
					},
					Volumes: volumes,
				},
			},
			VolumeClaimTemplates: claims,
		},
	}
	if len(claims) > 0 {
		sts.Spec.PersistentVolumeClaimRetentionPolicy = pvc.BuildRetentionPolicy(kafka.Spec.Storage)
	}

	return withOwner(kafka, sts, scheme)
}

func buildContainer(kafka *kafkav1alpha1.Kafka) corev1.Container {
	probe := func(initialDelay int32) *corev1.Probe {
		return &corev1.Probe{
			ProbeHandler: corev1.ProbeHandler{
				TCPSocket: &corev1.TCPSocketAction{Port: intstr.FromString(portNameReplication)},
			},
			InitialDelaySeconds: initialDelay,
			TimeoutSeconds:      5,
		}
	}

	return corev1.Container{
		Name:      ContainerName,
		Image:     kafka.Spec.Image,
		Resources: kafka.Spec.Resources,
		Env: []corev1.EnvVar{
			{
				Name: "POD_NAME",
				ValueFrom: &corev1.EnvVarSource{
					FieldRef: &corev1.ObjectFieldSelector{FieldPath: "metadata.name"},
				},
			},
			{
				Name: "POD_NAMESPACE",
				ValueFrom: &corev1.EnvVarSource{
					FieldRef: &corev1.ObjectFieldSelector{FieldPath: "metadata.namespace"},
				},
			},
			{Name: "KAFKA_VERSION", Value: kafka.Spec.Version},
			{Name: "KAFKA_METRICS_ENABLED", Value: strconv.FormatBool(kafka.Spec.MetricsConfig != nil)},
		},
		Ports:          buildContainerPorts(kafka),
		ReadinessProbe: probe(15),
		LivenessProbe:  probe(60),
		VolumeMounts: []corev1.VolumeMount{
			{Name: DataVolumeName, MountPath: DataMountPath},
			{Name: ConfigVolumeName, MountPath: ConfigMountPath},
			{Name: BrokerCertsVolume, MountPath: BrokerCertsMountPath, ReadOnly: true},
			{Name: ClusterCaVolume, MountPath: ClusterCaMountPath, ReadOnly: true},
			{Name: ClientsCaVolume, MountPath: ClientsCaMountPath, ReadOnly: true},
		},
	}
}

func buildDataVolumeClaim(kafka *kafkav1alpha1.Kafka) (corev1.PersistentVolumeClaim, error) {
	return pvc.BuildClaimTemplate(DataVolumeName, kafka.Spec.Storage)
}

func configMapVolume(name, configMap string) corev1.Volume {
	return corev1.Volume{
		Name: name,
		VolumeSource: corev1.VolumeSource{
			ConfigMap: &corev1.ConfigMapVolumeSource{
				LocalObjectReference: corev1.LocalObjectReference{Name: configMap},
			},
		},
	}
}

func secretVolume(name, secret string) corev1.Volume {
	return corev1.Volume{
		Name: name,
		VolumeSource: corev1.VolumeSource{
			Secret: &corev1.SecretVolumeSource{SecretName: secret},
		},
	}
}

// ConfigurationHash returns a hash of the ConfigMap data. It changes the pod
// template, and so restarts brokers, whenever the configuration changes.
func ConfigurationHash(cm *corev1.ConfigMap) string {
	keys := make([]string, 0, len(cm.Data))
	for k := range cm.Data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		parts = append(parts, k, cm.Data[k])
	}
	return names.Hash(parts)
}
