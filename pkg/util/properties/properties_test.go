package properties

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFilter(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		config       map[string]string
		forbidden    []string
		exceptions   []string
		wantAccepted map[string]string
		wantIgnored  []string
	}{
		"broker options": {
			config: map[string]string{
				"num.partitions":       "3",
				"listeners":            "PLAINTEXT://:9092",
				"advertised.listeners": "x",
				"ssl.protocol":         "TLSv1.3",
				"ssl.keystore.type":    "PKCS12",
				"log.dirs":             "/tmp",
			},
			forbidden:  BrokerForbiddenPrefixes,
			exceptions: BrokerForbiddenExceptions,
			wantAccepted: map[string]string{
				"num.partitions": "3",
				"ssl.protocol":   "TLSv1.3",
			},
			wantIgnored: []string{"advertised.listeners", "listeners", "log.dirs", "ssl.keystore.type"},
		},
		"connect options": {
			config: map[string]string{
				"config.storage.replication.factor":     "3",
				"bootstrap.servers":                     "other:9092",
				"ssl.endpoint.identification.algorithm": "HTTPS",
				"rest.port":                             "1234",
			},
			forbidden:  ConnectForbiddenPrefixes,
			exceptions: ConnectForbiddenExceptions,
			wantAccepted: map[string]string{
				"config.storage.replication.factor":     "3",
				"ssl.endpoint.identification.algorithm": "HTTPS",
			},
			wantIgnored: []string{"bootstrap.servers", "rest.port"},
		},
		"nil config": {
			forbidden:    BrokerForbiddenPrefixes,
			wantAccepted: map[string]string{},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			accepted, ignored := Filter(tc.config, tc.forbidden, tc.exceptions)
			if diff := cmp.Diff(tc.wantAccepted, accepted); diff != "" {
				t.Errorf("accepted mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantIgnored, ignored); diff != "" {
				t.Errorf("ignored mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRender(t *testing.T) {
	got := Render(map[string]string{"b": "2", "a": "1", "c.d": "x=y"})
	want := "a=1\nb=2\nc.d=x=y\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
	if got := Render(nil); got != "" {
		t.Errorf("Render(nil) = %q, want empty", got)
	}
}

func TestMerge(t *testing.T) {
	got := Merge(map[string]string{"a": "1", "b": "1"}, nil, map[string]string{"b": "2"})
	want := map[string]string{"a": "1", "b": "2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderLog4j(t *testing.T) {
	t.Parallel()

	header := "log4j.appender.CONSOLE=org.apache.log4j.ConsoleAppender\n" +
		"log4j.appender.CONSOLE.layout=org.apache.log4j.PatternLayout\n" +
		"log4j.appender.CONSOLE.layout.ConversionPattern=%d{ISO8601} %p %m (%c) [%t]%n\n"

	tests := map[string]struct {
		levels map[string]string
		want   string
	}{
		"defaults": {
			want: header + "log4j.rootLogger=INFO, CONSOLE\n",
		},
		"root and named loggers": {
			levels: map[string]string{
				"root":                 "WARN",
				"kafka.request.logger": "DEBUG",
				"kafka.controller":     "TRACE",
			},
			want: header +
				"log4j.rootLogger=WARN, CONSOLE\n" +
				"log4j.logger.kafka.controller=TRACE\n" +
				"log4j.logger.kafka.request.logger=DEBUG\n",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tc.want, RenderLog4j(tc.levels)); diff != "" {
				t.Errorf("RenderLog4j() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
