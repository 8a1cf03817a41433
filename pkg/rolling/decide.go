package rolling

import (
	"fmt"
	"time"

	"github.com/numtide/kafka-operator/pkg/cert"
)

// Action is the outcome of Decide for one instance.
type Action string

const (
	// ActionNone leaves the instance running.
	ActionNone Action = "None"
	// ActionRoll restarts the instance in this pass.
	ActionRoll Action = "Roll"
	// ActionDefer postpones a CA driven restart to a later pass.
	ActionDefer Action = "Defer"
)

// CaState describes one CA as seen by the rolling decision.
type CaState struct {
	Role cert.Role
	// Annotation is the instance annotation carrying the generation the
	// instance trusts.
	Annotation string
	// Generation is the desired generation.
	Generation int32
	// Renewed is true when the CA was renewed in this pass.
	Renewed bool
	// Expired is true when the CA the instances currently trust is past its
	// NotAfter. Restarting can no longer be postponed.
	Expired bool
}

// Instance is one running member of the managed set.
type Instance struct {
	Name        string
	Annotations map[string]string
	// RevisionStale is true when the instance runs an older workload revision
	// for reasons other than CA generations.
	RevisionStale bool
}

// Decision is the rolling decision for one instance.
type Decision struct {
	Instance string
	Action   Action
	// Urgent decisions bypass maintenance windows.
	Urgent  bool
	Reasons []string
}

// Decide computes the decision for inst.
//
// An instance whose CA generation annotations all equal the desired
// generations only rolls when RevisionStale is set. A generation mismatch
// rolls the instance when a maintenance window permits it at now, or
// unconditionally when a mismatched CA has expired; otherwise the restart is
// deferred and the instance keeps its old annotations. The returned error
// reports invalid window expressions and never changes the decision.
func Decide(inst Instance, cas []CaState, windows []string, now time.Time) (Decision, error) {
	d := Decision{Instance: inst.Name, Action: ActionNone}

	var mismatched bool
	for _, ca := range cas {
		current := cert.ParseGenerationAnnotation(inst.Annotations, ca.Annotation)
		if current == ca.Generation {
			continue
		}
		mismatched = true
		reason := fmt.Sprintf("%s CA generation %d does not match desired %d", ca.Role, current, ca.Generation)
		if ca.Renewed {
			reason = fmt.Sprintf("%s CA renewed, generation %d -> %d", ca.Role, current, ca.Generation)
		}
		d.Reasons = append(d.Reasons, reason)
		if ca.Expired {
			d.Urgent = true
			d.Reasons = append(d.Reasons, fmt.Sprintf("%s CA certificate expired", ca.Role))
		}
	}

	if !mismatched {
		if inst.RevisionStale {
			d.Action = ActionRoll
			d.Reasons = append(d.Reasons, "pod spec changed")
		}
		return d, nil
	}

	if d.Urgent {
		d.Action = ActionRoll
		return d, nil
	}

	permitted, err := Permitted(windows, now)
	if permitted {
		d.Action = ActionRoll
		return d, nil
	}
	d.Action = ActionDefer
	d.Reasons = append(d.Reasons, "outside maintenance time windows")
	return d, err
}

// Plan selects the instances to restart in this pass. Every urgent instance
// is restarted; otherwise at most one instance rolls so that availability is
// preserved while the rest wait for the next pass.
func Plan(decisions []Decision) []Decision {
	var urgent []Decision
	var first *Decision
	for i := range decisions {
		if decisions[i].Action != ActionRoll {
			continue
		}
		if decisions[i].Urgent {
			urgent = append(urgent, decisions[i])
			continue
		}
		if first == nil {
			first = &decisions[i]
		}
	}
	if len(urgent) > 0 {
		return urgent
	}
	if first != nil {
		return []Decision{*first}
	}
	return nil
}

// Deferred reports whether any decision was deferred.
func Deferred(decisions []Decision) bool {
	for _, d := range decisions {
		if d.Action == ActionDefer {
			return true
		}
	}
	return false
}

// Pending reports whether any instance still needs a restart after this
// pass, either because it was deferred or because Plan held it back.
func Pending(decisions []Decision, planned []Decision) bool {
	rolled := make(map[string]struct{}, len(planned))
	for _, d := range planned {
		rolled[d.Instance] = struct{}{}
	}
	for _, d := range decisions {
		if d.Action == ActionNone {
			continue
		}
		if _, ok := rolled[d.Instance]; !ok {
			return true
		}
	}
	return false
}
