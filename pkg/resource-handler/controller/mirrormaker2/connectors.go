package mirrormaker2

import (
	"maps"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/data-handler/connect"
)

// ConnectorPackage holds the MirrorMaker 2 connector classes.
const ConnectorPackage = "org.apache.kafka.connect.mirror"

// Connector types, used as class names and connector name suffixes.
const (
	SourceConnector     = "MirrorSourceConnector"
	CheckpointConnector = "MirrorCheckpointConnector"
	HeartbeatConnector  = "MirrorHeartbeatConnector"
)

const (
	sourceClusterPrefix = "source.cluster."
	targetClusterPrefix = "target.cluster."
)

type mirrorConnector struct {
	field string
	typ   string
	spec  *kafkav1alpha1.MirrorMaker2ConnectorSpec
}

// mirrorConnectors returns the connectors configured on m, in a fixed order.
func mirrorConnectors(m kafkav1alpha1.MirrorMaker2MirrorSpec) []mirrorConnector {
	var out []mirrorConnector
	for _, c := range []mirrorConnector{
		{"sourceConnector", SourceConnector, m.SourceConnector},
		{"checkpointConnector", CheckpointConnector, m.CheckpointConnector},
		{"heartbeatConnector", HeartbeatConnector, m.HeartbeatConnector},
	} {
		if c.spec != nil {
			out = append(out, c)
		}
	}
	return out
}

// ConnectorName returns the name of a connector of the mirror from source to
// target, for example "a->b.MirrorSourceConnector".
func ConnectorName(source, target, typ string) string {
	return source + "->" + target + "." + typ
}

// BuildConnectors returns the desired connectors of every mirror. Mirrors
// naming an unknown cluster are skipped; Validate reports them.
func BuildConnectors(mm2 *kafkav1alpha1.KafkaMirrorMaker2) []connect.Connector {
	var out []connect.Connector
	for _, m := range mm2.Spec.Mirrors {
		source, ok := findCluster(mm2, m.SourceCluster)
		if !ok {
			continue
		}
		target, ok := findCluster(mm2, m.TargetCluster)
		if !ok {
			continue
		}

		mirrorConfig := map[string]string{
			sourceClusterPrefix + "alias": source.Alias,
			targetClusterPrefix + "alias": target.Alias,
		}
		maps.Copy(mirrorConfig, clusterConnectorConfig(source, sourceClusterPrefix))
		maps.Copy(mirrorConfig, clusterConnectorConfig(target, targetClusterPrefix))
		setIfNotEmpty(mirrorConfig, "topics", m.IncludePattern())
		setIfNotEmpty(mirrorConfig, "topics.blacklist", m.TopicsBlacklistPattern)
		setIfNotEmpty(mirrorConfig, "groups", m.GroupsPattern)
		setIfNotEmpty(mirrorConfig, "groups.blacklist", m.GroupsBlacklistPattern)

		for _, c := range mirrorConnectors(m) {
			config := maps.Clone(c.spec.Config)
			if config == nil {
				config = map[string]string{}
			}
			maps.Copy(config, mirrorConfig)

			conn := connect.Connector{
				Name:   ConnectorName(source.Alias, target.Alias, c.typ),
				Class:  ConnectorPackage + "." + c.typ,
				Config: config,
				Pause:  c.spec.Pause,
			}
			if c.spec.TasksMax != nil {
				conn.TasksMax = *c.spec.TasksMax
			}
			out = append(out, conn)
		}
	}
	return out
}

// clusterConnectorConfig is the client config of cluster under prefix. The
// user config of the cluster is applied first so operator options win.
func clusterConnectorConfig(cluster kafkav1alpha1.MirrorMaker2ClusterSpec, prefix string) map[string]string {
	out := make(map[string]string, len(cluster.Config))
	for k, v := range cluster.Config {
		out[prefix+k] = v
	}
	maps.Copy(out, clientConfig(cluster, prefix, "\n"))
	return out
}

func setIfNotEmpty(config map[string]string, key, value string) {
	if value != "" {
		config[key] = value
	}
}
