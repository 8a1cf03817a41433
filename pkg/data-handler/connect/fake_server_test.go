package connect

import (
	"encoding/json"
	"maps"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeConnect is an in-memory Kafka Connect REST API.
type fakeConnect struct {
	mu         sync.Mutex
	connectors map[string]*fakeConnector
	// statusNotFound makes the next n status calls of a connector return 404.
	statusNotFound map[string]int
	calls          map[string]int
}

type fakeConnector struct {
	config map[string]string
	state  ConnectorState
	trace  string
}

func newFakeConnect(t *testing.T) (*fakeConnect, *httptest.Server) {
	t.Helper()

	f := &fakeConnect{
		connectors:     map[string]*fakeConnector{},
		statusNotFound: map[string]int{},
		calls:          map[string]int{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /connectors", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.calls["list"]++
		names := []string{}
		for name := range f.connectors {
			names = append(names, name)
		}
		writeJSON(w, http.StatusOK, names)
	})
	mux.HandleFunc("GET /connectors/{name}/config", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		name := r.PathValue("name")
		f.calls["config:"+name]++
		c, ok := f.connectors[name]
		if !ok {
			writeError(w, http.StatusNotFound, "Connector "+name+" not found")
			return
		}
		out := maps.Clone(c.config)
		out["name"] = name
		writeJSON(w, http.StatusOK, out)
	})
	mux.HandleFunc("PUT /connectors/{name}/config", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		name := r.PathValue("name")
		f.calls["put:"+name]++
		var config map[string]string
		if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if c, ok := f.connectors[name]; ok {
			c.config = config
			writeJSON(w, http.StatusOK, map[string]any{"name": name, "config": config})
			return
		}
		f.connectors[name] = &fakeConnector{config: config, state: StateRunning}
		writeJSON(w, http.StatusCreated, map[string]any{"name": name, "config": config})
	})
	mux.HandleFunc("DELETE /connectors/{name}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		name := r.PathValue("name")
		f.calls["delete:"+name]++
		if _, ok := f.connectors[name]; !ok {
			writeError(w, http.StatusNotFound, "Connector "+name+" not found")
			return
		}
		delete(f.connectors, name)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /connectors/{name}/status", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		name := r.PathValue("name")
		f.calls["status:"+name]++
		if f.statusNotFound[name] > 0 {
			f.statusNotFound[name]--
			writeError(w, http.StatusNotFound, "No status found for connector "+name)
			return
		}
		c, ok := f.connectors[name]
		if !ok {
			writeError(w, http.StatusNotFound, "No status found for connector "+name)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"name":      name,
			"connector": map[string]any{"state": c.state, "worker_id": "10.0.0.1:8083", "trace": c.trace},
			"tasks":     []map[string]any{{"id": 0, "state": c.state, "worker_id": "10.0.0.1:8083"}},
			"type":      "source",
		})
	})
	mux.HandleFunc("PUT /connectors/{name}/pause", func(w http.ResponseWriter, r *http.Request) {
		f.transition(w, r, "pause", StatePaused)
	})
	mux.HandleFunc("PUT /connectors/{name}/resume", func(w http.ResponseWriter, r *http.Request) {
		f.transition(w, r, "resume", StateRunning)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeConnect) transition(w http.ResponseWriter, r *http.Request, op string, to ConnectorState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := r.PathValue("name")
	f.calls[op+":"+name]++
	c, ok := f.connectors[name]
	if !ok {
		writeError(w, http.StatusNotFound, "Connector "+name+" not found")
		return
	}
	c.state = to
	w.WriteHeader(http.StatusAccepted)
}

func (f *fakeConnect) add(name string, config map[string]string, state ConnectorState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connectors[name] = &fakeConnector{config: config, state: state}
}

func (f *fakeConnect) setTrace(name string, state ConnectorState, trace string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connectors[name].state = state
	f.connectors[name].trace = trace
}

func (f *fakeConnect) failStatus(name string, times int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusNotFound[name] = times
}

func (f *fakeConnect) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeConnect) has(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.connectors[name]
	return ok
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]any{"error_code": code, "message": message})
}
