package mirrormaker2

import (
	"fmt"
	"maps"
	"strconv"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/yaml"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/cluster-handler/names"
	"github.com/numtide/kafka-operator/pkg/util/properties"
)

// ConfigMap data keys read by the Connect start script.
const (
	ConnectConfigKey = "connect.properties"
	LoggingConfigKey = "log4j.properties"
	MetricsConfigKey = "metrics-config.yml"
)

// PluginPath is where the image ships the MirrorMaker 2 connectors.
const PluginPath = "/opt/kafka/plugins"

// placeholderPodIP is substituted by the start script.
const placeholderPodIP = "${POD_IP}"

// defaultWorkerConfig may be overridden by the user.
var defaultWorkerConfig = map[string]string{
	"group.id":                          "mirrormaker2-cluster",
	"offset.storage.topic":              "mirrormaker2-cluster-offsets",
	"config.storage.topic":              "mirrormaker2-cluster-configs",
	"status.storage.topic":              "mirrormaker2-cluster-status",
	"config.storage.replication.factor": "3",
	"offset.storage.replication.factor": "3",
	"status.storage.replication.factor": "3",
	"key.converter":                     "org.apache.kafka.connect.converters.ByteArrayConverter",
	"value.converter":                   "org.apache.kafka.connect.converters.ByteArrayConverter",
}

// BuildConfigMap creates the Connect worker configuration. It also returns
// the user supplied options that were dropped because the operator owns them.
func BuildConfigMap(
	mm2 *kafkav1alpha1.KafkaMirrorMaker2,
	scheme *runtime.Scheme,
) (*corev1.ConfigMap, []string, error) {
	connectCluster, ok := findCluster(mm2, mm2.Spec.ConnectCluster)
	if !ok {
		return nil, nil, fmt.Errorf("connect cluster %q is not listed in spec.clusters", mm2.Spec.ConnectCluster)
	}

	accepted, ignored := properties.Filter(
		mm2.Spec.Config,
		properties.ConnectForbiddenPrefixes,
		properties.ConnectForbiddenExceptions,
	)
	worker := properties.Merge(defaultWorkerConfig, accepted, workerConfig(connectCluster))

	data := map[string]string{
		ConnectConfigKey: properties.Render(worker),
		LoggingConfigKey: properties.RenderLog4j(mm2.Spec.Logging),
	}
	if mm2.Spec.MetricsConfig != nil && len(mm2.Spec.MetricsConfig.Raw) > 0 {
		metricsYAML, err := yaml.JSONToYAML(mm2.Spec.MetricsConfig.Raw)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to render metrics config: %w", err)
		}
		data[MetricsConfigKey] = string(metricsYAML)
	}

	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      names.MirrorMaker2ConfigMap(mm2.Name),
			Namespace: mm2.Namespace,
			Labels:    buildLabels(mm2),
		},
		Data: data,
	}
	cm, err := withOwner(mm2, cm, scheme)
	if err != nil {
		return nil, nil, err
	}
	return cm, ignored, nil
}

// workerConfig returns the worker options owned by the operator. The worker
// and its embedded clients connect to the connect cluster.
func workerConfig(cluster kafkav1alpha1.MirrorMaker2ClusterSpec) map[string]string {
	config := map[string]string{
		"rest.port":                        strconv.Itoa(int(RESTAPIPort)),
		"rest.advertised.host.name":        placeholderPodIP,
		"rest.advertised.port":             strconv.Itoa(int(RESTAPIPort)),
		"plugin.path":                      PluginPath,
		"config.providers":                 configProviderDirectory,
		"config.providers.directory.class": configProviderDirectoryClass,
	}
	// Properties files need the newline escaped.
	client := clientConfig(cluster, "", `\n`)
	maps.Copy(config, client)
	for k, v := range client {
		if k == "bootstrap.servers" {
			continue
		}
		config["producer."+k] = v
		config["consumer."+k] = v
		config["admin."+k] = v
	}
	return config
}
