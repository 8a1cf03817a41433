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

package main

import (
	"crypto/tls"
	"flag"
	"os"

	// Import all Kubernetes client auth plugins (e.g. Azure, GCP, OIDC, etc.)
	_ "k8s.io/client-go/plugin/pkg/client/auth"

	"go.uber.org/zap/zapcore"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/cache"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	"sigs.k8s.io/controller-runtime/pkg/metrics/filters"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"
	ctrlwebhook "sigs.k8s.io/controller-runtime/pkg/webhook"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/cluster-handler/assembly"
	"github.com/numtide/kafka-operator/pkg/config"
	kafkacontroller "github.com/numtide/kafka-operator/pkg/resource-handler/controller/kafka"
	mirrormaker2controller "github.com/numtide/kafka-operator/pkg/resource-handler/controller/mirrormaker2"
	"github.com/numtide/kafka-operator/pkg/util/lock"
	kafkawebhook "github.com/numtide/kafka-operator/pkg/webhook"
)

var (
	scheme   = runtime.NewScheme()
	setupLog = ctrl.Log.WithName("setup")
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(kafkav1alpha1.AddToScheme(scheme))
	// +kubebuilder:scaffold:scheme
}

func main() {
	var metricsAddr string
	var enableLeaderElection bool
	var probeAddr string
	var secureMetrics bool
	var enableHTTP2 bool
	var tlsOpts []func(*tls.Config)

	var webhookEnabled bool
	var webhookCertDir string

	flag.StringVar(&metricsAddr, "metrics-bind-address", "0", "The address the metrics endpoint binds to.")
	flag.StringVar(&probeAddr, "health-probe-bind-address", ":8081", "The address the probe endpoint binds to.")
	flag.BoolVar(&enableLeaderElection, "leader-elect", false, "Enable leader election for controller manager.")
	flag.BoolVar(&secureMetrics, "metrics-secure", true, "If set, the metrics endpoint is served securely via HTTPS.")
	flag.BoolVar(&enableHTTP2, "enable-http2", false, "If set, HTTP/2 will be enabled for the metrics and webhook servers")

	flag.BoolVar(&webhookEnabled, "webhook-enable", true, "Enable the admission webhook server")
	flag.StringVar(&webhookCertDir, "webhook-cert-dir", "/var/run/secrets/webhook", "Directory to read webhook certificates from")

	opts := zap.Options{
		Development: true,
		TimeEncoder: zapcore.ISO8601TimeEncoder,
	}
	opts.BindFlags(flag.CommandLine)

	// Load parses the command line, including the flags registered above.
	cfg, err := config.Load(flag.CommandLine, os.Args[1:], os.Getenv)
	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))
	if err != nil {
		setupLog.Error(err, "invalid configuration")
		os.Exit(1)
	}

	disableHTTP2 := func(c *tls.Config) {
		setupLog.Info("disabling http/2")
		c.NextProtos = []string{"http/1.1"}
	}
	if !enableHTTP2 {
		tlsOpts = append(tlsOpts, disableHTTP2)
	}

	metricsServerOptions := metricsserver.Options{
		BindAddress:   metricsAddr,
		SecureServing: secureMetrics,
		TLSOpts:       tlsOpts,
	}

	if secureMetrics {
		metricsServerOptions.FilterProvider = filters.WithAuthenticationAndAuthorization
	}

	cacheOptions := cache.Options{}
	if cfg.WatchNamespace != "" {
		cacheOptions.DefaultNamespaces = map[string]cache.Config{cfg.WatchNamespace: {}}
	}

	mgr, err := ctrl.NewManager(ctrl.GetConfigOrDie(), ctrl.Options{
		Scheme:                 scheme,
		Metrics:                metricsServerOptions,
		HealthProbeBindAddress: probeAddr,
		LeaderElection:         enableLeaderElection,
		LeaderElectionID:       "kafka-operator.kafka.numtide.com",
		Cache:                  cacheOptions,
		WebhookServer: ctrlwebhook.NewServer(ctrlwebhook.Options{
			Port:    9443,
			CertDir: webhookCertDir,
			TLSOpts: tlsOpts,
		}),
	})
	if err != nil {
		setupLog.Error(err, "unable to start manager")
		os.Exit(1)
	}

	// Both kinds share one lock table so that a resync and an event driven
	// pass for the same resource never overlap.
	locks := lock.NewTable()

	kafkaLoop := assembly.NewLoop(kafkacontroller.NewAssembly(mgr, cfg), locks, cfg)
	if err := kafkacontroller.SetupWithManager(mgr, kafkaLoop, cfg.Workers); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", kafkacontroller.Kind)
		os.Exit(1)
	}

	mm2Loop := assembly.NewLoop(mirrormaker2controller.NewAssembly(mgr, cfg), locks, cfg)
	if err := mirrormaker2controller.SetupWithManager(mgr, mm2Loop, cfg.Workers); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", mirrormaker2controller.Kind)
		os.Exit(1)
	}

	if err := mgr.Add(&assembly.Resync{
		Loops:     []*assembly.Loop{kafkaLoop, mm2Loop},
		Namespace: cfg.WatchNamespace,
		Interval:  cfg.FullReconciliationInterval,
	}); err != nil {
		setupLog.Error(err, "unable to add periodic reconciliation")
		os.Exit(1)
	}

	if err := kafkawebhook.Setup(mgr, kafkawebhook.Options{Enable: webhookEnabled}); err != nil {
		setupLog.Error(err, "unable to set up webhook")
		os.Exit(1)
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up health check")
		os.Exit(1)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up ready check")
		os.Exit(1)
	}

	setupLog.Info("starting manager",
		"watchNamespace", cfg.WatchNamespace,
		"dnsDomain", cfg.DNSDomain,
		"fullReconciliationInterval", cfg.FullReconciliationInterval,
	)
	if err := mgr.Start(ctrl.SetupSignalHandler()); err != nil {
		setupLog.Error(err, "problem running manager")
		os.Exit(1)
	}
}
