package webhook

import (
	"net/http"

	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/webhook/handlers"
)

// Paths of the admission handlers. They must match the +kubebuilder:webhook
// markers in pkg/webhook/handlers.
const (
	PathMutateKafka          = "/mutate-kafka-numtide-com-v1alpha1-kafka"
	PathValidateKafka        = "/validate-kafka-numtide-com-v1alpha1-kafka"
	PathValidateMirrorMaker2 = "/validate-kafka-numtide-com-v1alpha1-kafkamirrormaker2"
)

// Options contains the configuration required to set up the webhook server.
type Options struct {
	// Enable indicates whether to register the admission handlers.
	Enable bool
}

// Setup registers the admission handlers with the manager's webhook server.
func Setup(mgr ctrl.Manager, opts Options) error {
	if !opts.Enable {
		return nil
	}

	logger := mgr.GetLogger().WithName("webhook-setup")
	scheme := mgr.GetScheme()
	server := mgr.GetWebhookServer()

	hooks := map[string]http.Handler{
		PathMutateKafka: admission.WithCustomDefaulter(
			scheme, &kafkav1alpha1.Kafka{}, handlers.NewKafkaDefaulter()),
		PathValidateKafka: admission.WithCustomValidator(
			scheme, &kafkav1alpha1.Kafka{}, handlers.NewKafkaValidator()),
		PathValidateMirrorMaker2: admission.WithCustomValidator(
			scheme, &kafkav1alpha1.KafkaMirrorMaker2{}, handlers.NewMirrorMaker2Validator()),
	}
	for path, hook := range hooks {
		server.Register(path, hook)
		logger.V(1).Info("Registered webhook", "path", path)
	}
	return nil
}
