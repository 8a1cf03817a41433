package webhook

import (
	"net/http"
	"slices"
	"sync"
	"testing"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/manager"
	"sigs.k8s.io/controller-runtime/pkg/webhook"

	"github.com/numtide/kafka-operator/pkg/testutil"
)

// mockManager implements the parts of manager.Manager used by Setup.
type mockManager struct {
	manager.Manager
	scheme *runtime.Scheme
	server *mockServer
}

func (m *mockManager) GetScheme() *runtime.Scheme {
	return m.scheme
}

func (m *mockManager) GetWebhookServer() webhook.Server {
	return m.server
}

func (m *mockManager) GetLogger() logr.Logger {
	return logr.Discard()
}

type mockServer struct {
	webhook.Server
	mu    sync.Mutex
	paths []string
}

func (s *mockServer) Register(path string, handler http.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, path)
}

func TestSetup(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		opts      Options
		wantPaths []string
	}{
		"Happy Path: Standard Configuration": {
			opts: Options{Enable: true},
			wantPaths: []string{
				PathMutateKafka,
				PathValidateKafka,
				PathValidateMirrorMaker2,
			},
		},
		"Happy Path: Disabled": {
			opts: Options{Enable: false},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			server := &mockServer{}
			mgr := &mockManager{scheme: testutil.NewScheme(), server: server}
			if err := Setup(mgr, tc.opts); err != nil {
				t.Fatalf("Setup() error = %v", err)
			}

			slices.Sort(server.paths)
			want := slices.Sorted(slices.Values(tc.wantPaths))
			if diff := cmp.Diff(want, server.paths); diff != "" {
				t.Errorf("registered paths mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
