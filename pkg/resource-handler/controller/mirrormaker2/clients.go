package mirrormaker2

import (
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/cluster-handler/names"
)

// ClustersMountPath is where the credentials of each cluster are mounted,
// one directory per alias.
const ClustersMountPath = "/opt/kafka/mm2-clusters"

// Files in the directory of a cluster. Connect resolves them through the
// directory config provider, so secrets never appear in connector configs.
const (
	userCertFile     = "user.crt"
	userKeyFile      = "user.key"
	saslPasswordFile = "sasl.password"
)

const (
	configProviderDirectory      = "directory"
	configProviderDirectoryClass = "org.apache.kafka.common.config.provider.DirectoryConfigProvider"

	scramLoginModule = "org.apache.kafka.common.security.scram.ScramLoginModule"
	plainLoginModule = "org.apache.kafka.common.security.plain.PlainLoginModule"
)

func clusterMountPath(alias string) string {
	return ClustersMountPath + "/" + alias
}

func trustedCertFile(i int) string {
	return fmt.Sprintf("ca-%d.crt", i)
}

// fileRef references a file of the cluster directory in a Connect config.
func fileRef(alias, file string) string {
	return fmt.Sprintf("${%s:%s:%s}", configProviderDirectory, clusterMountPath(alias), file)
}

// clientConfig returns the client options for reaching cluster, with every
// key prefixed by prefix. Trusted certificates are joined with sep, which is
// a newline escape in properties files and a newline in JSON configs.
func clientConfig(cluster kafkav1alpha1.MirrorMaker2ClusterSpec, prefix, sep string) map[string]string {
	config := map[string]string{
		prefix + "bootstrap.servers": cluster.BootstrapServers,
	}

	tls := cluster.TLS != nil
	if tls {
		config[prefix+"ssl.truststore.type"] = "PEM"
		var refs []string
		for i := range cluster.TLS.TrustedCertificates {
			refs = append(refs, fileRef(cluster.Alias, trustedCertFile(i)))
		}
		if len(refs) > 0 {
			config[prefix+"ssl.truststore.certificates"] = strings.Join(refs, sep)
		}
	}

	sasl := false
	if auth := cluster.Authentication; auth != nil {
		var module, mechanism string
		switch auth.Type {
		case kafkav1alpha1.AuthenticationTLS:
			config[prefix+"ssl.keystore.type"] = "PEM"
			config[prefix+"ssl.keystore.certificate.chain"] = fileRef(cluster.Alias, userCertFile)
			config[prefix+"ssl.keystore.key"] = fileRef(cluster.Alias, userKeyFile)
		case kafkav1alpha1.AuthenticationScramSha512:
			module, mechanism = scramLoginModule, "SCRAM-SHA-512"
		case kafkav1alpha1.AuthenticationPlain:
			module, mechanism = plainLoginModule, "PLAIN"
		}
		if module != "" {
			sasl = true
			config[prefix+"sasl.mechanism"] = mechanism
			config[prefix+"sasl.jaas.config"] = fmt.Sprintf(`%s required username="%s" password="%s";`,
				module, auth.Username, fileRef(cluster.Alias, saslPasswordFile))
		}
	}

	if protocol := securityProtocol(tls, sasl); protocol != "" {
		config[prefix+"security.protocol"] = protocol
	}
	return config
}

// securityProtocol returns the Kafka security protocol, or "" for plaintext
// which is the client default.
func securityProtocol(tls, sasl bool) string {
	switch {
	case tls && sasl:
		return "SASL_SSL"
	case tls:
		return "SSL"
	case sasl:
		return "SASL_PLAINTEXT"
	default:
		return ""
	}
}

// clusterVolumeName is the volume holding the credentials of alias.
func clusterVolumeName(alias string) string {
	return names.Join(names.MaxLabelLength, "cluster", alias)
}

// clusterVolume projects the trusted certificates and credentials of cluster
// into one directory. It returns false when the cluster needs no files.
func clusterVolume(cluster kafkav1alpha1.MirrorMaker2ClusterSpec) (corev1.Volume, bool) {
	var sources []corev1.VolumeProjection
	secret := func(name string, items ...corev1.KeyToPath) {
		sources = append(sources, corev1.VolumeProjection{
			Secret: &corev1.SecretProjection{
				LocalObjectReference: corev1.LocalObjectReference{Name: name},
				Items:                items,
			},
		})
	}

	if cluster.TLS != nil {
		for i, c := range cluster.TLS.TrustedCertificates {
			secret(c.SecretName, corev1.KeyToPath{Key: c.Certificate, Path: trustedCertFile(i)})
		}
	}
	if auth := cluster.Authentication; auth != nil {
		switch {
		case auth.Type == kafkav1alpha1.AuthenticationTLS && auth.CertificateAndKey != nil:
			ck := auth.CertificateAndKey
			secret(ck.SecretName,
				corev1.KeyToPath{Key: ck.Certificate, Path: userCertFile},
				corev1.KeyToPath{Key: ck.Key, Path: userKeyFile},
			)
		case auth.PasswordSecret != nil:
			secret(auth.PasswordSecret.SecretName,
				corev1.KeyToPath{Key: auth.PasswordSecret.Password, Path: saslPasswordFile})
		}
	}

	if len(sources) == 0 {
		return corev1.Volume{}, false
	}
	return corev1.Volume{
		Name: clusterVolumeName(cluster.Alias),
		VolumeSource: corev1.VolumeSource{
			Projected: &corev1.ProjectedVolumeSource{Sources: sources},
		},
	}, true
}

func findCluster(mm2 *kafkav1alpha1.KafkaMirrorMaker2, alias string) (kafkav1alpha1.MirrorMaker2ClusterSpec, bool) {
	for _, c := range mm2.Spec.Clusters {
		if c.Alias == alias {
			return c, true
		}
	}
	return kafkav1alpha1.MirrorMaker2ClusterSpec{}, false
}
