package cert

// +kubebuilder:rbac:groups="",resources=secrets,verbs=get;list;watch;create;update;patch;delete

import (
	"context"
	"fmt"
	"maps"
	"strconv"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

const (
	// CACertKey is the data key of the CA certificate Secret.
	CACertKey = "ca.crt"
	// CAKeyKey is the data key of the CA private key Secret.
	CAKeyKey = "ca.key"

	// AnnotationCaCertGeneration holds the CA generation on both CA Secrets.
	AnnotationCaCertGeneration = "kafka.numtide.com/ca-cert-generation"
)

// SecretNames locates the two Secrets backing one CA.
type SecretNames struct {
	Namespace  string
	CertSecret string
	KeySecret  string
	// Labels are applied to both Secrets.
	Labels map[string]string
}

// Store persists CA material in a certificate Secret and a separate key
// Secret. The key Secret should never be mounted into workloads.
type Store struct {
	Client   client.Client
	Recorder record.EventRecorder
}

// NewStore creates a Store.
func NewStore(c client.Client, recorder record.EventRecorder) *Store {
	return &Store{Client: c, Recorder: recorder}
}

// Load reads the CA material. Missing Secrets or keys yield empty fields.
func (s *Store) Load(ctx context.Context, names SecretNames) (Material, error) {
	var m Material

	certSecret, err := s.get(ctx, names.Namespace, names.CertSecret)
	if err != nil {
		return m, fmt.Errorf("failed to get CA cert secret: %w", err)
	}
	keySecret, err := s.get(ctx, names.Namespace, names.KeySecret)
	if err != nil {
		return m, fmt.Errorf("failed to get CA key secret: %w", err)
	}

	if certSecret != nil {
		m.CertPEM = certSecret.Data[CACertKey]
		m.Generation = ParseGeneration(certSecret.Annotations)
	}
	if keySecret != nil {
		m.KeyPEM = keySecret.Data[CAKeyKey]
	}
	return m, nil
}

// Save writes the CA material when it changed during the pass. owner, when
// non-nil, becomes the controller of both Secrets and receives the event.
func (s *Store) Save(ctx context.Context, owner client.Object, names SecretNames, ca *Ca) error {
	if !ca.Dirty() {
		return nil
	}
	logger := log.FromContext(ctx)

	annotations := map[string]string{
		AnnotationCaCertGeneration: strconv.Itoa(int(ca.Generation())),
	}
	if err := s.upsert(ctx, owner, names, names.CertSecret, annotations,
		map[string][]byte{CACertKey: ca.CertPEM()}); err != nil {
		return fmt.Errorf("failed to save CA cert secret: %w", err)
	}
	if err := s.upsert(ctx, owner, names, names.KeySecret, annotations,
		map[string][]byte{CAKeyKey: ca.KeyPEM()}); err != nil {
		return fmt.Errorf("failed to save CA key secret: %w", err)
	}

	if ca.CertRenewed() {
		logger.Info("CA renewed", "role", ca.Role(), "generation", ca.Generation())
		s.recorderEvent(owner, corev1.EventTypeNormal, "CaRenewed",
			fmt.Sprintf("Renewed %s CA, generation %d", ca.Role(), ca.Generation()))
	} else {
		logger.Info("CA generated", "role", ca.Role())
		s.recorderEvent(owner, corev1.EventTypeNormal, "CaGenerated",
			fmt.Sprintf("Generated new %s CA", ca.Role()))
	}
	for _, w := range ca.Warnings() {
		s.recorderEvent(owner, corev1.EventTypeWarning, "CaWarning", w)
	}
	return nil
}

// ParseGeneration reads the CA generation annotation. Missing or malformed
// values count as generation 0.
func ParseGeneration(annotations map[string]string) int32 {
	return ParseGenerationAnnotation(annotations, AnnotationCaCertGeneration)
}

// ParseGenerationAnnotation reads a generation from the named annotation.
func ParseGenerationAnnotation(annotations map[string]string, key string) int32 {
	v, ok := annotations[key]
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil || n < 0 {
		return 0
	}
	return int32(n)
}

func (s *Store) get(ctx context.Context, namespace, name string) (*corev1.Secret, error) {
	secret := &corev1.Secret{}
	if err := s.Client.Get(ctx, types.NamespacedName{Namespace: namespace, Name: name}, secret); err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return secret, nil
}

func (s *Store) upsert(
	ctx context.Context,
	owner client.Object,
	names SecretNames,
	name string,
	annotations map[string]string,
	data map[string][]byte,
) error {
	existing, err := s.get(ctx, names.Namespace, name)
	if err != nil {
		return err
	}

	if existing == nil {
		secret := &corev1.Secret{
			ObjectMeta: metav1.ObjectMeta{
				Name:        name,
				Namespace:   names.Namespace,
				Labels:      maps.Clone(names.Labels),
				Annotations: annotations,
			},
			Type: corev1.SecretTypeOpaque,
			Data: data,
		}
		if err := s.setOwner(owner, secret); err != nil {
			return err
		}
		return s.Client.Create(ctx, secret)
	}

	if existing.Labels == nil {
		existing.Labels = map[string]string{}
	}
	maps.Copy(existing.Labels, names.Labels)
	if existing.Annotations == nil {
		existing.Annotations = map[string]string{}
	}
	maps.Copy(existing.Annotations, annotations)
	existing.Data = data
	if err := s.setOwner(owner, existing); err != nil {
		return err
	}
	return s.Client.Update(ctx, existing)
}

func (s *Store) setOwner(owner client.Object, secret *corev1.Secret) error {
	if owner == nil {
		return nil
	}

	if err := controllerutil.SetControllerReference(
		owner,
		secret,
		s.Client.Scheme(),
	); err != nil {
		return fmt.Errorf("failed to set controller reference: %w", err)
	}
	return nil
}

func (s *Store) recorderEvent(object runtime.Object, eventtype, reason, message string) {
	if s.Recorder != nil && object != nil {
		s.Recorder.Event(object, eventtype, reason, message)
	}
}
