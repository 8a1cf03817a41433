// Package properties filters user-supplied Kafka configuration and renders it
// in the Java properties format read by brokers and Connect workers.
package properties

import (
	"sort"
	"strings"
)

// BrokerForbiddenPrefixes are broker options owned by the operator.
var BrokerForbiddenPrefixes = []string{
	"listeners",
	"advertised.",
	"broker.",
	"listener.",
	"host.name",
	"port",
	"inter.broker.listener.name",
	"sasl.",
	"ssl.",
	"security.",
	"password.",
	"principal.builder.class",
	"log.dir",
	"zookeeper.connect",
	"zookeeper.set.acl",
	"authorizer.",
	"super.user",
	"cruise.control.metrics.topic",
	"cruise.control.metrics.reporter.bootstrap.servers",
}

// BrokerForbiddenExceptions pass through even when they match a forbidden prefix.
var BrokerForbiddenExceptions = []string{
	"zookeeper.connection.timeout.ms",
	"ssl.cipher.suites",
	"ssl.protocol",
	"ssl.enabled.protocols",
	"cruise.control.metrics.topic.num.partitions",
	"cruise.control.metrics.topic.replication.factor",
	"cruise.control.metrics.topic.retention.ms",
	"cruise.control.metrics.topic.auto.create.retries",
	"cruise.control.metrics.topic.auto.create.timeout.ms",
}

// ConnectForbiddenPrefixes are Connect worker options owned by the operator.
var ConnectForbiddenPrefixes = []string{
	"ssl.",
	"sasl.",
	"security.",
	"listeners",
	"plugin.path",
	"rest.",
	"bootstrap.servers",
	"consumer.interceptor.classes",
	"producer.interceptor.classes",
}

// ConnectForbiddenExceptions pass through even when they match a forbidden prefix.
var ConnectForbiddenExceptions = []string{
	"ssl.endpoint.identification.algorithm",
	"ssl.cipher.suites",
	"ssl.protocol",
	"ssl.enabled.protocols",
}

// Filter splits config into the accepted options and the sorted list of
// ignored keys. A key is ignored when it equals or starts with a forbidden
// prefix and is not listed as an exception.
func Filter(config map[string]string, forbidden, exceptions []string) (map[string]string, []string) {
	accepted := make(map[string]string, len(config))
	var ignored []string

	for key, value := range config {
		if isForbidden(key, forbidden, exceptions) {
			ignored = append(ignored, key)
			continue
		}
		accepted[key] = value
	}
	sort.Strings(ignored)
	return accepted, ignored
}

func isForbidden(key string, forbidden, exceptions []string) bool {
	for _, e := range exceptions {
		if key == e {
			return false
		}
	}
	for _, prefix := range forbidden {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// Render writes config as sorted key=value lines.
func Render(config map[string]string) string {
	keys := make([]string, 0, len(config))
	for k := range config {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(config[k])
		b.WriteByte('\n')
	}
	return b.String()
}

// Merge returns a new map with the entries of each layer applied in order, so
// later layers win.
func Merge(layers ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}

// RootLoggerKey selects the root log level in a logging map.
const RootLoggerKey = "root"

// DefaultRootLevel is used when the logging map sets no root level.
const DefaultRootLevel = "INFO"

// RenderLog4j renders a logger -> level map as a log4j configuration writing
// to the console. The "root" entry sets the root logger level.
func RenderLog4j(levels map[string]string) string {
	root := DefaultRootLevel
	loggers := make(map[string]string, len(levels))
	for name, level := range levels {
		if name == RootLoggerKey {
			root = level
			continue
		}
		loggers["log4j.logger."+name] = level
	}

	var b strings.Builder
	b.WriteString("log4j.appender.CONSOLE=org.apache.log4j.ConsoleAppender\n")
	b.WriteString("log4j.appender.CONSOLE.layout=org.apache.log4j.PatternLayout\n")
	b.WriteString("log4j.appender.CONSOLE.layout.ConversionPattern=%d{ISO8601} %p %m (%c) [%t]%n\n")
	b.WriteString("log4j.rootLogger=" + root + ", CONSOLE\n")
	b.WriteString(Render(loggers))
	return b.String()
}
