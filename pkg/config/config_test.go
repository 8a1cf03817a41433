package config

import (
	"flag"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"k8s.io/apimachinery/pkg/util/wait"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		args    []string
		env     map[string]string
		want    func(*Config)
		wantErr string
	}{
		"defaults": {
			want: func(*Config) {},
		},
		"environment": {
			env: map[string]string{
				EnvWatchNamespace:    "kafka",
				EnvOperatorNamespace: "ops",
				EnvDNSDomain:         "example.internal",
			},
			want: func(c *Config) {
				c.WatchNamespace = "kafka"
				c.OperatorNamespace = "ops"
				c.DNSDomain = "example.internal"
			},
		},
		"flags override environment": {
			args: []string{"--dns-domain=flag.local", "--lock-timeout=5s", "--max-concurrent-reconciles=8"},
			env:  map[string]string{EnvDNSDomain: "env.local"},
			want: func(c *Config) {
				c.DNSDomain = "flag.local"
				c.LockTimeout = 5 * time.Second
				c.Workers = 8
			},
		},
		"connector backoff flags": {
			args: []string{
				"--connector-backoff-initial=1s",
				"--connector-backoff-multiplier=3",
				"--connector-backoff-max-attempts=4",
			},
			want: func(c *Config) {
				c.ConnectorBackOff = wait.Backoff{Duration: time.Second, Factor: 3, Steps: 4}
			},
		},
		"empty env value keeps default": {
			env:  map[string]string{EnvDNSDomain: ""},
			want: func(*Config) {},
		},
		"invalid workers": {
			args:    []string{"--max-concurrent-reconciles=0"},
			wantErr: "max concurrent reconciles must be at least 1",
		},
		"unknown flag": {
			args:    []string{"--no-such-flag"},
			wantErr: "flag provided but not defined",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.SetOutput(io.Discard)

			got, err := Load(fs, tc.args, envFrom(tc.env))
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("Load() error = %v, want containing %q", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}

			want := Default()
			tc.want(want)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mutate  func(*Config)
		wantErr []string
	}{
		"default is valid": {
			mutate: func(*Config) {},
		},
		"reports every problem": {
			mutate: func(c *Config) {
				c.DNSDomain = ""
				c.LockTimeout = 0
				c.OperationTimeout = -time.Second
				c.FullReconciliationInterval = 0
				c.ConnectorBackOff.Steps = 0
			},
			wantErr: []string{
				"dns domain must not be empty",
				"lock timeout must be positive",
				"operation timeout must be positive",
				"full reconciliation interval must be positive",
				"backoff max attempts must be at least 1",
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if len(tc.wantErr) == 0 {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			for _, want := range tc.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("Validate() error %q missing %q", err, want)
				}
			}
		})
	}
}
