package kafka

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
	"github.com/numtide/kafka-operator/pkg/cert"
	"github.com/numtide/kafka-operator/pkg/cluster-handler/names"
	"github.com/numtide/kafka-operator/pkg/monitoring"
	"github.com/numtide/kafka-operator/pkg/rolling"
)

// managedCa is one CA after the load, generate and renew steps of a pass.
type managedCa struct {
	ca      *cert.Ca
	outcome cert.RenewalOutcome
}

// rollingState describes the CA to the rolling decision.
func (m managedCa) rollingState(annotation string) rolling.CaState {
	return rolling.CaState{
		Role:       m.ca.Role(),
		Annotation: annotation,
		Generation: m.ca.Generation(),
		Renewed:    m.ca.CertRenewed(),
		Expired:    m.outcome.Expired,
	}
}

func caSecretNames(kafka *kafkav1alpha1.Kafka, role cert.Role) cert.SecretNames {
	sn := cert.SecretNames{
		Namespace: kafka.Namespace,
		Labels:    buildLabels(kafka),
	}
	switch role {
	case cert.RoleClients:
		sn.CertSecret = names.ClientsCaCertSecret(kafka.Name)
		sn.KeySecret = names.ClientsCaKeySecret(kafka.Name)
	default:
		sn.CertSecret = names.ClusterCaCertSecret(kafka.Name)
		sn.KeySecret = names.ClusterCaKeySecret(kafka.Name)
	}
	return sn
}

// reconcileCa loads the CA of role, generates or renews it when needed and
// persists the result.
func (a *Assembly) reconcileCa(
	ctx context.Context,
	kafka *kafkav1alpha1.Kafka,
	role cert.Role,
	spec kafkav1alpha1.CertificateAuthority,
) (managedCa, error) {
	secretNames := caSecretNames(kafka, role)

	material, err := a.Certs.Load(ctx, secretNames)
	if err != nil {
		return managedCa{}, err
	}
	now := a.now()
	commonName := fmt.Sprintf("%s-%s-ca", kafka.Name, role)
	ca, err := cert.LoadOrGenerate(material, cert.OptionsFromSpec(role, commonName, spec), now)
	if err != nil {
		return managedCa{}, err
	}
	outcome, err := ca.RenewIfNeeded(now)
	if err != nil {
		return managedCa{}, err
	}
	if err := a.Certs.Save(ctx, kafka, secretNames, ca); err != nil {
		return managedCa{}, err
	}

	monitoring.SetCaState(kafka.Name, kafka.Namespace, string(role), ca.Generation(), ca.NotAfter())
	return managedCa{ca: ca, outcome: outcome}, nil
}

// reconcileBrokersSecret issues the broker certificates from the cluster CA,
// keeping existing certificates that are still valid for their broker.
func (a *Assembly) reconcileBrokersSecret(
	ctx context.Context,
	kafka *kafkav1alpha1.Kafka,
	clusterCa *cert.Ca,
) error {
	existing := &corev1.Secret{}
	key := client.ObjectKey{Namespace: kafka.Namespace, Name: names.KafkaBrokersSecret(kafka.Name)}
	if err := a.Client.Get(ctx, key, existing); err != nil {
		if !apierrors.IsNotFound(err) {
			return fmt.Errorf("failed to get brokers secret: %w", err)
		}
		existing = &corev1.Secret{}
	}

	certs, err := clusterCa.IssueLeafCertificates(
		int(kafka.Spec.Replicas),
		func(ordinal int) cert.Subject { return BrokerSubject(kafka, a.Config.DNSDomain, ordinal) },
		func(ordinal int) string { return names.KafkaPod(kafka.Name, ordinal) },
		existing.Data,
		a.now(),
	)
	if err != nil {
		return err
	}

	desired, err := BuildBrokersSecret(kafka, a.Scheme, certs, clusterCa.Generation())
	if err != nil {
		return fmt.Errorf("failed to build brokers secret: %w", err)
	}
	return a.apply(ctx, desired)
}
