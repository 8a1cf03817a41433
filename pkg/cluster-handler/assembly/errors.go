package assembly

import (
	"fmt"
	"strings"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
)

// InvalidSpecError is returned when a resource fails validation. It is
// reported on the Ready condition and not retried until the spec changes.
type InvalidSpecError struct {
	Kind      string
	Namespace string
	Name      string
	Problems  []string
}

func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("invalid %s %s/%s: %s", e.Kind, e.Namespace, e.Name, strings.Join(e.Problems, "; "))
}

// Reason is the Ready condition reason for this error.
func (e *InvalidSpecError) Reason() string {
	return kafkav1alpha1.ReasonInvalidSpec
}

// PanicError wraps a value recovered from a panicking pass.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("reconciliation panicked: %v", e.Value)
}
