package testutil

import (
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
)

// NewScheme returns a scheme with the built-in types and the operator's API group.
func NewScheme() *runtime.Scheme {
	s := runtime.NewScheme()
	utilruntime.Must(clientgoscheme.AddToScheme(s))
	utilruntime.Must(kafkav1alpha1.AddToScheme(s))
	return s
}
