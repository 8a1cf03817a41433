package mirrormaker2

import (
	"maps"
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
)

const (
	// ContainerName is the name of the Connect worker container.
	ContainerName = "mirrormaker2"

	ConfigVolumeName = "mirrormaker2-config"
	ConfigMountPath  = "/opt/kafka/custom-config"
)

// AnnotationConfigurationHash changes with the worker configuration, which
// rolls the Deployment.
const AnnotationConfigurationHash = "kafka.numtide.com/configuration-hash"

// BuildDeployment creates the Deployment of the Connect workers.
func BuildDeployment(
	mm2 *kafkav1alpha1.KafkaMirrorMaker2,
	scheme *runtime.Scheme,
	configHash string,
) (*appsv1.Deployment, error) {
	labels := buildLabels(mm2)
	tmpl := template(mm2)
	workload := metadataOf(tmpl.Workload)
	pod := kafkav1alpha1.PodTemplate{}
	if tmpl.Pod != nil {
		pod = *tmpl.Pod
	}

	volumes := []corev1.Volume{{
		Name: ConfigVolumeName,
		VolumeSource: corev1.VolumeSource{
			ConfigMap: &corev1.ConfigMapVolumeSource{
				LocalObjectReference: corev1.LocalObjectReference{Name: names.MirrorMaker2ConfigMap(mm2.Name)},
			},
		},
	}}
	mounts := []corev1.VolumeMount{{Name: ConfigVolumeName, MountPath: ConfigMountPath}}
	for _, c := range mm2.Spec.Clusters {
		v, ok := clusterVolume(c)
		if !ok {
			continue
		}
		volumes = append(volumes, v)
		mounts = append(mounts, corev1.VolumeMount{Name: v.Name, MountPath: clusterMountPath(c.Alias), ReadOnly: true})
	}

	maxUnavailable := intstr.FromInt32(0)
	maxSurge := intstr.FromInt32(1)

	deploy := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:        names.MirrorMaker2Deployment(mm2.Name),
			Namespace:   mm2.Namespace,
			Labels:      metadata.MergeLabels(labels, workload.Labels),
			Annotations: metadata.MergeAnnotations(nil, workload.Annotations),
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To(mm2.Spec.Replicas),
			Selector: &metav1.LabelSelector{
				MatchLabels: buildSelectorLabels(mm2),
			},
			Strategy: appsv1.DeploymentStrategy{
				Type: appsv1.RollingUpdateDeploymentStrategyType,
				RollingUpdate: &appsv1.RollingUpdateDeployment{
					MaxUnavailable: &maxUnavailable,
					MaxSurge:       &maxSurge,
				},
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: metadata.MergeLabels(labels, pod.Metadata.Labels),
					Annotations: metadata.MergeAnnotations(
						map[string]string{AnnotationConfigurationHash: configHash},
						pod.Metadata.Annotations,
					),
				},
				Spec: corev1.PodSpec{
					ServiceAccountName:            names.MirrorMaker2ServiceAccount(mm2.Name),
					Affinity:                      pod.Affinity,
					Tolerations:                   pod.Tolerations,
					TerminationGracePeriodSeconds: pod.TerminationGracePeriodSeconds,
					ImagePullSecrets:              pod.ImagePullSecrets,
					Containers:                    []corev1.Container{buildContainer(mm2, mounts)},
					Volumes:                       volumes,
				},
			},
		},
	}
	return withOwner(mm2, deploy, scheme)
}

func buildContainer(mm2 *kafkav1alpha1.KafkaMirrorMaker2, mounts []corev1.VolumeMount) corev1.Container {
	probe := func(initialDelay int32) *corev1.Probe {
		return &corev1.Probe{
			ProbeHandler: corev1.ProbeHandler{
				HTTPGet: &corev1.HTTPGetAction{Path: "/", Port: intstr.FromString(portNameREST)},
			},
			InitialDelaySeconds: initialDelay,
			TimeoutSeconds:      5,
		}
	}

	ports := []corev1.ContainerPort{
		{Name: portNameREST, ContainerPort: RESTAPIPort, Protocol: corev1.ProtocolTCP},
	}
	if mm2.Spec.MetricsConfig != nil {
		ports = append(ports, corev1.ContainerPort{Name: portNameMetrics, ContainerPort: MetricsPort, Protocol: corev1.ProtocolTCP})
	}

	return corev1.Container{
		Name:      ContainerName,
		Image:     mm2.Spec.Image,
		Command:   []string{"/opt/kafka/kafka_connect_run.sh"},
		Resources: mm2.Spec.Resources,
		Env: []corev1.EnvVar{
			{
				Name: "POD_IP",
				ValueFrom: &corev1.EnvVarSource{
					FieldRef: &corev1.ObjectFieldSelector{FieldPath: "status.podIP"},
				},
			},
			{Name: "KAFKA_VERSION", Value: mm2.Spec.Version},
			{Name: "KAFKA_CONNECT_CONFIGURATION", Value: ConfigMountPath + "/" + ConnectConfigKey},
			{Name: "KAFKA_METRICS_ENABLED", Value: strconv.FormatBool(mm2.Spec.MetricsConfig != nil)},
		},
		Ports:          ports,
		ReadinessProbe: probe(15),
		LivenessProbe:  probe(60),
		VolumeMounts:   mounts,
	}
}

// ConfigurationHash returns a hash of the ConfigMap data.
func ConfigurationHash(cm *corev1.ConfigMap) string {
	keys := slices.Sorted(maps.Keys(cm.Data))
	parts := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		parts = append(parts, k, cm.Data[k])
	}
	return names.Hash(parts)
}
