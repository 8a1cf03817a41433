package mirrormaker2

import (
	"encoding/json"
	"maps"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"

	"github.com/numtide/kafka-operator/pkg/data-handler/connect"
)

// fakeConnect is an in-memory Kafka Connect REST API. New connectors start
// in the state given by initialState, RUNNING by default.
type fakeConnect struct {
	mu           sync.Mutex
	connectors   map[string]*fakeConnector
	initialState map[string]connect.ConnectorState
	puts         int
}

type fakeConnector struct {
	config map[string]string
	state  connect.ConnectorState
}

func newFakeConnect(t *testing.T) (*fakeConnect, *httptest.Server) {
	t.Helper()

	f := &fakeConnect{
		connectors:   map[string]*fakeConnector{},
		initialState: map[string]connect.ConnectorState{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /connectors", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, f.names())
	})
	mux.HandleFunc("GET /connectors/{name}/config", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		c, ok := f.connectors[r.PathValue("name")]
		if !ok {
			writeError(w, http.StatusNotFound, "Connector not found")
			return
		}
		out := maps.Clone(c.config)
		out["name"] = r.PathValue("name")
		writeJSON(w, http.StatusOK, out)
	})
	mux.HandleFunc("PUT /connectors/{name}/config", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		name := r.PathValue("name")
		var config map[string]string
		if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		f.puts++
		if c, ok := f.connectors[name]; ok {
			c.config = config
			writeJSON(w, http.StatusOK, map[string]any{"name": name, "config": config})
			return
		}
		state := connect.StateRunning
		if s, ok := f.initialState[name]; ok {
			state = s
		}
		f.connectors[name] = &fakeConnector{config: config, state: state}
		writeJSON(w, http.StatusCreated, map[string]any{"name": name, "config": config})
	})
	mux.HandleFunc("DELETE /connectors/{name}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.connectors, r.PathValue("name"))
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /connectors/{name}/status", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		name := r.PathValue("name")
		c, ok := f.connectors[name]
		if !ok {
			writeError(w, http.StatusNotFound, "No status found for connector "+name)
			return
		}
		trace := ""
		if c.state == connect.StateFailed {
			trace = "org.apache.kafka.common.KafkaException: boom\n\tat Mirror.start"
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"name":      name,
			"connector": map[string]any{"state": c.state, "worker_id": "10.0.0.1:8083", "trace": trace},
			"tasks":     []map[string]any{},
			"type":      "source",
		})
	})
	mux.HandleFunc("PUT /connectors/{name}/pause", func(w http.ResponseWriter, r *http.Request) {
		f.setState(w, r.PathValue("name"), connect.StatePaused)
	})
	mux.HandleFunc("PUT /connectors/{name}/resume", func(w http.ResponseWriter, r *http.Request) {
		f.setState(w, r.PathValue("name"), connect.StateRunning)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeConnect) setState(w http.ResponseWriter, name string, state connect.ConnectorState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.connectors[name]
	if !ok {
		writeError(w, http.StatusNotFound, "Connector "+name+" not found")
		return
	}
	c.state = state
	w.WriteHeader(http.StatusAccepted)
}

func (f *fakeConnect) add(name string, state connect.ConnectorState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connectors[name] = &fakeConnector{config: map[string]string{}, state: state}
}

func (f *fakeConnect) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Sorted(maps.Keys(f.connectors))
}

func (f *fakeConnect) state(name string) connect.ConnectorState {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.connectors[name]; ok {
		return c.state
	}
	return ""
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]any{"error_code": code, "message": message})
}
