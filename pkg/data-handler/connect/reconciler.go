package connect

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/util/wait"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

const (
	configConnectorClass = "connector.class"
	configTasksMax       = "tasks.max"
	configName           = "name"
)

// Connector is the desired state of one connector.
type Connector struct {
	Name     string
	Class    string
	TasksMax int32
	Config   map[string]string
	Pause    bool
}

// RestConfig returns the body of PUT /connectors/{name}/config.
func (c Connector) RestConfig() map[string]string {
	out := maps.Clone(c.Config)
	if out == nil {
		out = map[string]string{}
	}
	out[configConnectorClass] = c.Class
	if c.TasksMax > 0 {
		out[configTasksMax] = strconv.Itoa(int(c.TasksMax))
	}
	return out
}

// ConnectorReconcileError is the failure of a single connector. It does not
// affect its siblings.
type ConnectorReconcileError struct {
	Name string
	Err  error
}

func (e *ConnectorReconcileError) Error() string {
	return fmt.Sprintf("connector %s: %v", e.Name, e.Err)
}

func (e *ConnectorReconcileError) Unwrap() error {
	return e.Err
}

// ConnectorResult is the observed outcome for one desired connector.
type ConnectorResult struct {
	Name    string
	State   ConnectorState
	Updated bool
	Error   string
}

// Result summarizes a ReconcileConnectors call.
type Result struct {
	Connectors []ConnectorResult
	Deleted    []string
}

// ReconcileConnectors converges the connectors of one Connect cluster.
//
// Live connectors that are not desired are deleted. Each desired connector is
// written with an idempotent PUT unless its running config already matches,
// then its status is polled with b. A RUNNING connector that should be paused
// is paused, and a PAUSED one that should run is resumed; both are followed by
// a single status re-poll. Failures are collected per connector and returned
// joined; every connector is attempted.
func ReconcileConnectors(ctx context.Context, api API, desired []Connector, live []string, b wait.Backoff) (Result, error) {
	logger := log.FromContext(ctx)
	var result Result
	var errs []error

	wanted := make(map[string]struct{}, len(desired))
	for _, c := range desired {
		wanted[c.Name] = struct{}{}
	}

	for _, name := range slices.Sorted(slices.Values(live)) {
		if _, ok := wanted[name]; ok {
			continue
		}
		if err := api.Delete(ctx, name); err != nil && !IsNotFound(err) {
			errs = append(errs, &ConnectorReconcileError{Name: name, Err: fmt.Errorf("failed to delete: %w", err)})
			continue
		}
		logger.Info("Deleted connector", "connector", name)
		result.Deleted = append(result.Deleted, name)
	}

	isLive := make(map[string]struct{}, len(live))
	for _, name := range live {
		isLive[name] = struct{}{}
	}

	for _, c := range desired {
		_, exists := isLive[c.Name]
		res, err := reconcileConnector(ctx, api, c, exists, b)
		if err != nil {
			res.Error = err.Error()
			errs = append(errs, &ConnectorReconcileError{Name: c.Name, Err: err})
			logger.Error(err, "Failed to reconcile connector", "connector", c.Name)
		}
		result.Connectors = append(result.Connectors, res)
	}

	return result, errors.Join(errs...)
}

func reconcileConnector(ctx context.Context, api API, c Connector, exists bool, b wait.Backoff) (ConnectorResult, error) {
	logger := log.FromContext(ctx).WithValues("connector", c.Name)
	res := ConnectorResult{Name: c.Name}

	desired := c.RestConfig()
	update := true
	if exists {
		current, err := api.Config(ctx, c.Name)
		switch {
		case err == nil:
			update = !configEqual(desired, current)
		case !IsNotFound(err):
			return res, fmt.Errorf("failed to get config: %w", err)
		}
	}
	if update {
		if err := api.PutConfig(ctx, c.Name, desired); err != nil {
			return res, fmt.Errorf("failed to put config: %w", err)
		}
		res.Updated = true
		logger.V(1).Info("Updated connector config")
	}

	status, err := StatusWithBackOff(ctx, api, c.Name, b)
	if err != nil {
		return res, err
	}

	switch {
	case status.State() == StateRunning && c.Pause:
		if err := api.Pause(ctx, c.Name); err != nil {
			return res, fmt.Errorf("failed to pause: %w", err)
		}
		logger.Info("Paused connector")
		if status, err = StatusWithBackOff(ctx, api, c.Name, b); err != nil {
			return res, err
		}
	case status.State() == StatePaused && !c.Pause:
		if err := api.Resume(ctx, c.Name); err != nil {
			return res, fmt.Errorf("failed to resume: %w", err)
		}
		logger.Info("Resumed connector")
		if status, err = StatusWithBackOff(ctx, api, c.Name, b); err != nil {
			return res, err
		}
	}

	res.State = status.State()
	if res.State == StateFailed {
		res.Error = firstLine(status.Connector.Trace)
	}
	return res, nil
}

// configEqual compares connector configs. Connect echoes the connector name
// back in GET /config, so the key is ignored.
func configEqual(desired, current map[string]string) bool {
	current = maps.Clone(current)
	delete(current, configName)
	if _, ok := desired[configName]; ok {
		desired = maps.Clone(desired)
		delete(desired, configName)
	}
	return maps.Equal(desired, current)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
