// Package config holds the operator configuration. It is resolved once in
// main from flags and the process environment and passed to every component
// that needs it.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/numtide/kafka-operator/pkg/data-handler/connect"
)

const (
	EnvWatchNamespace    = "WATCH_NAMESPACE"
	EnvOperatorNamespace = "POD_NAMESPACE"
	EnvDNSDomain         = "KUBERNETES_SERVICE_DNS_DOMAIN"

	DefaultDNSDomain                  = "cluster.local"
	DefaultOperatorNamespace          = "kafka-operator-system"
	DefaultLockTimeout                = 60 * time.Second
	DefaultOperationTimeout           = 5 * time.Minute
	DefaultFullReconciliationInterval = 2 * time.Minute
	DefaultWorkers                    = 4
)

// Config is the resolved operator configuration.
type Config struct {
	// WatchNamespace restricts the operator to one namespace. Empty watches all.
	WatchNamespace string
	// OperatorNamespace is where the operator itself runs.
	OperatorNamespace string
	// DNSDomain is the cluster DNS suffix used in broker SANs.
	DNSDomain string

	LockTimeout                time.Duration
	OperationTimeout           time.Duration
	FullReconciliationInterval time.Duration
	Workers                    int

	ConnectorBackOff wait.Backoff
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OperatorNamespace:          DefaultOperatorNamespace,
		DNSDomain:                  DefaultDNSDomain,
		LockTimeout:                DefaultLockTimeout,
		OperationTimeout:           DefaultOperationTimeout,
		FullReconciliationInterval: DefaultFullReconciliationInterval,
		Workers:                    DefaultWorkers,
		ConnectorBackOff:           connect.DefaultBackOff(),
	}
}

// ApplyEnv overrides fields from the environment. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvWatchNamespace); v != "" {
		c.WatchNamespace = v
	}
	if v := getenv(EnvOperatorNamespace); v != "" {
		c.OperatorNamespace = v
	}
	if v := getenv(EnvDNSDomain); v != "" {
		c.DNSDomain = v
	}
}

// BindFlags registers flags for every field, using the current values as
// defaults.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.WatchNamespace, "watch-namespace", c.WatchNamespace,
		"Namespace to watch for Kafka resources. Empty watches all namespaces.")
	fs.StringVar(&c.OperatorNamespace, "operator-namespace", c.OperatorNamespace,
		"Namespace the operator runs in")
	fs.StringVar(&c.DNSDomain, "dns-domain", c.DNSDomain,
		"Cluster DNS domain used in certificate SANs")
	fs.DurationVar(&c.LockTimeout, "lock-timeout", c.LockTimeout,
		"How long a reconciliation waits for the per-resource lock")
	fs.DurationVar(&c.OperationTimeout, "operation-timeout", c.OperationTimeout,
		"How long a reconciliation waits for workloads to become ready")
	fs.DurationVar(&c.FullReconciliationInterval, "full-reconciliation-interval", c.FullReconciliationInterval,
		"Interval between periodic reconciliations of all resources")
	fs.IntVar(&c.Workers, "max-concurrent-reconciles", c.Workers,
		"Maximum number of resources reconciled concurrently")
	fs.DurationVar(&c.ConnectorBackOff.Duration, "connector-backoff-initial", c.ConnectorBackOff.Duration,
		"Initial delay between connector status polls")
	fs.Float64Var(&c.ConnectorBackOff.Factor, "connector-backoff-multiplier", c.ConnectorBackOff.Factor,
		"Multiplier applied to the connector status poll delay")
	fs.IntVar(&c.ConnectorBackOff.Steps, "connector-backoff-max-attempts", c.ConnectorBackOff.Steps,
		"Maximum number of connector status polls")
}

// Load resolves the configuration: defaults, then environment, then flags
// parsed from args. Flags already registered on fs are parsed too.
func Load(fs *flag.FlagSet, args []string, getenv func(string) string) (*Config, error) {
	cfg := Default()
	cfg.ApplyEnv(getenv)
	cfg.BindFlags(fs)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if c.DNSDomain == "" {
		errs = append(errs, errors.New("dns domain must not be empty"))
	}
	if c.LockTimeout <= 0 {
		errs = append(errs, fmt.Errorf("lock timeout must be positive, got %s", c.LockTimeout))
	}
	if c.OperationTimeout <= 0 {
		errs = append(errs, fmt.Errorf("operation timeout must be positive, got %s", c.OperationTimeout))
	}
	if c.FullReconciliationInterval <= 0 {
		errs = append(errs, fmt.Errorf("full reconciliation interval must be positive, got %s", c.FullReconciliationInterval))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("max concurrent reconciles must be at least 1, got %d", c.Workers))
	}
	if err := connect.ValidateBackOff(c.ConnectorBackOff); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid operator configuration: %w", err)
	}
	return nil
}
