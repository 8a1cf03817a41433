package connect

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/wait"
)

var testBackOff = wait.Backoff{Duration: time.Millisecond, Factor: 2, Steps: 6}

const sourceClass = "org.apache.kafka.connect.mirror.MirrorSourceConnector"

func sourceConnector(name string, pause bool) Connector {
	return Connector{
		Name:     name,
		Class:    sourceClass,
		TasksMax: 2,
		Config:   map[string]string{"topics": "orders.*"},
		Pause:    pause,
	}
}

func TestConnector_RestConfig(t *testing.T) {
	t.Parallel()

	c := sourceConnector("a", false)
	got := c.RestConfig()
	assert.Equal(t, map[string]string{
		"connector.class": sourceClass,
		"tasks.max":       "2",
		"topics":          "orders.*",
	}, got)
	assert.NotContains(t, c.Config, "connector.class", "input config must not be modified")

	got = Connector{Name: "b", Class: sourceClass}.RestConfig()
	assert.Equal(t, map[string]string{"connector.class": sourceClass}, got)
}

func TestReconcileConnectors(t *testing.T) {
	t.Parallel()

	t.Run("creates missing connectors", func(t *testing.T) {
		t.Parallel()
		fake, srv := newFakeConnect(t)

		res, err := ReconcileConnectors(t.Context(), NewClient(srv.URL),
			[]Connector{sourceConnector("a->b.MirrorSourceConnector", false)}, nil, testBackOff)
		require.NoError(t, err)
		require.Len(t, res.Connectors, 1)
		assert.Equal(t, StateRunning, res.Connectors[0].State)
		assert.True(t, res.Connectors[0].Updated)
		assert.True(t, fake.has("a->b.MirrorSourceConnector"))
		assert.Equal(t, 0, fake.count("config:a->b.MirrorSourceConnector"), "new connector config is not read")
	})

	t.Run("deletes undesired connectors", func(t *testing.T) {
		t.Parallel()
		fake, srv := newFakeConnect(t)
		fake.add("old", map[string]string{}, StateRunning)
		fake.add("keep", sourceConnector("keep", false).RestConfig(), StateRunning)

		res, err := ReconcileConnectors(t.Context(), NewClient(srv.URL),
			[]Connector{sourceConnector("keep", false)}, []string{"keep", "old"}, testBackOff)
		require.NoError(t, err)
		assert.Equal(t, []string{"old"}, res.Deleted)
		assert.False(t, fake.has("old"))
		assert.True(t, fake.has("keep"))
	})

	t.Run("unchanged config is not rewritten", func(t *testing.T) {
		t.Parallel()
		fake, srv := newFakeConnect(t)
		c := sourceConnector("a", false)
		fake.add("a", c.RestConfig(), StateRunning)

		res, err := ReconcileConnectors(t.Context(), NewClient(srv.URL), []Connector{c}, []string{"a"}, testBackOff)
		require.NoError(t, err)
		assert.False(t, res.Connectors[0].Updated)
		assert.Equal(t, 0, fake.count("put:a"))
	})

	t.Run("changed config is written", func(t *testing.T) {
		t.Parallel()
		fake, srv := newFakeConnect(t)
		fake.add("a", map[string]string{"connector.class": sourceClass, "tasks.max": "1"}, StateRunning)

		res, err := ReconcileConnectors(t.Context(), NewClient(srv.URL),
			[]Connector{sourceConnector("a", false)}, []string{"a"}, testBackOff)
		require.NoError(t, err)
		assert.True(t, res.Connectors[0].Updated)
		assert.Equal(t, 1, fake.count("put:a"))
	})

	t.Run("running connector is paused exactly once", func(t *testing.T) {
		t.Parallel()
		fake, srv := newFakeConnect(t)
		c := sourceConnector("a", true)
		fake.add("a", c.RestConfig(), StateRunning)

		res, err := ReconcileConnectors(t.Context(), NewClient(srv.URL), []Connector{c}, []string{"a"}, testBackOff)
		require.NoError(t, err)
		assert.Equal(t, 1, fake.count("pause:a"))
		assert.Equal(t, 0, fake.count("resume:a"))
		assert.Equal(t, 2, fake.count("status:a"))
		assert.Equal(t, StatePaused, res.Connectors[0].State)
	})

	t.Run("paused connector is resumed", func(t *testing.T) {
		t.Parallel()
		fake, srv := newFakeConnect(t)
		c := sourceConnector("a", false)
		fake.add("a", c.RestConfig(), StatePaused)

		res, err := ReconcileConnectors(t.Context(), NewClient(srv.URL), []Connector{c}, []string{"a"}, testBackOff)
		require.NoError(t, err)
		assert.Equal(t, 1, fake.count("resume:a"))
		assert.Equal(t, 0, fake.count("pause:a"))
		assert.Equal(t, StateRunning, res.Connectors[0].State)
	})

	t.Run("paused connector that should stay paused", func(t *testing.T) {
		t.Parallel()
		fake, srv := newFakeConnect(t)
		c := sourceConnector("a", true)
		fake.add("a", c.RestConfig(), StatePaused)

		res, err := ReconcileConnectors(t.Context(), NewClient(srv.URL), []Connector{c}, []string{"a"}, testBackOff)
		require.NoError(t, err)
		assert.Equal(t, 0, fake.count("pause:a")+fake.count("resume:a"))
		assert.Equal(t, StatePaused, res.Connectors[0].State)
	})

	t.Run("status lag is retried", func(t *testing.T) {
		t.Parallel()
		fake, srv := newFakeConnect(t)
		fake.failStatus("a", 3)

		res, err := ReconcileConnectors(t.Context(), NewClient(srv.URL),
			[]Connector{sourceConnector("a", false)}, nil, testBackOff)
		require.NoError(t, err)
		assert.Equal(t, StateRunning, res.Connectors[0].State)
		assert.Equal(t, 4, fake.count("status:a"))
	})

	t.Run("failures are isolated per connector", func(t *testing.T) {
		t.Parallel()
		fake, srv := newFakeConnect(t)
		fake.failStatus("bad", 100)

		res, err := ReconcileConnectors(t.Context(), NewClient(srv.URL), []Connector{
			sourceConnector("bad", false),
			sourceConnector("good", false),
		}, nil, testBackOff)
		require.Error(t, err)

		var connErr *ConnectorReconcileError
		require.ErrorAs(t, err, &connErr)
		assert.Equal(t, "bad", connErr.Name)
		assert.True(t, IsNotFound(err))

		require.Len(t, res.Connectors, 2)
		assert.NotEmpty(t, res.Connectors[0].Error)
		assert.Equal(t, StateRunning, res.Connectors[1].State)
		assert.Empty(t, res.Connectors[1].Error)
		assert.Equal(t, 6, fake.count("status:bad"))
	})

	t.Run("failed connector reports trace", func(t *testing.T) {
		t.Parallel()
		fake, srv := newFakeConnect(t)
		c := sourceConnector("a", false)
		fake.add("a", c.RestConfig(), StateRunning)
		fake.setTrace("a", StateFailed, "org.apache.kafka.connect.errors.ConnectException: boom\n\tat ...")

		res, err := ReconcileConnectors(t.Context(), NewClient(srv.URL), []Connector{c}, []string{"a"}, testBackOff)
		require.NoError(t, err)
		assert.Equal(t, StateFailed, res.Connectors[0].State)
		assert.Equal(t, "org.apache.kafka.connect.errors.ConnectException: boom", res.Connectors[0].Error)
	})
}

// failingAPI fails every call with err.
type failingAPI struct {
	err error
}

func (f failingAPI) List(context.Context) ([]string, error) { return nil, f.err }
func (f failingAPI) Config(context.Context, string) (map[string]string, error) { return nil, f.err }
func (f failingAPI) PutConfig(context.Context, string, map[string]string) error { return f.err }
func (f failingAPI) Delete(context.Context, string) error { return f.err }
func (f failingAPI) Status(context.Context, string) (*ConnectorStatus, error) { return nil, f.err }
func (f failingAPI) Pause(context.Context, string) error { return f.err }
func (f failingAPI) Resume(context.Context, string) error { return f.err }

func TestReconcileConnectors_AggregatesErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	res, err := ReconcileConnectors(t.Context(), failingAPI{err: boom},
		[]Connector{sourceConnector("a", false), sourceConnector("b", false)},
		[]string{"a", "stale"}, testBackOff)
	require.Error(t, err)
	require.ErrorIs(t, err, boom)

	var joined interface{ Unwrap() []error }
	require.ErrorAs(t, err, &joined)
	assert.Len(t, joined.Unwrap(), 3, "one error per failing connector including the delete")
	assert.Empty(t, res.Deleted)
	assert.Len(t, res.Connectors, 2)
}
