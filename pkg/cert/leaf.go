package cert

import (
	"crypto/x509"
	"fmt"
	"slices"
	"time"
)

// Subject describes the leaf certificate of one instance.
type Subject struct {
	CommonName   string
	Organization string
	// DNSNames are the SANs of the certificate. IP literals become IP SANs.
	DNSNames []string
}

// CertAndKey is the PEM encoded certificate and key of one instance.
type CertAndKey struct {
	Cert []byte
	Key  []byte
}

// LeafCertKey and LeafKeyKey return the Secret data keys holding the
// certificate and key of the named instance.
func LeafCertKey(instance string) string { return instance + ".crt" }
func LeafKeyKey(instance string) string  { return instance + ".key" }

// IssueLeafCertificates returns a certificate for each of the replicas
// instances, keyed by the instance name from nameFn. An existing certificate
// from the instance Secret data is kept when its SANs equal the computed SANs,
// it was signed by the current CA, and it is outside the renewal period.
// Every other instance gets a fresh certificate signed by the current CA.
func (c *Ca) IssueLeafCertificates(
	replicas int,
	subjectFn func(ordinal int) Subject,
	nameFn func(ordinal int) string,
	existing map[string][]byte,
	now time.Time,
) (map[string]CertAndKey, error) {
	out := make(map[string]CertAndKey, replicas)

	for ordinal := range replicas {
		instance := nameFn(ordinal)
		subject := subjectFn(ordinal)

		if reused, ok := c.reusable(existing, instance, subject, now); ok {
			out[instance] = reused
			continue
		}

		leaf, err := GenerateLeafCert(c.artifacts, subject.CommonName, subject.DNSNames,
			WithOrganization(subject.Organization),
			WithIssuedAt(now),
			WithValidityDays(c.opts.ValidityDays))
		if err != nil {
			return nil, fmt.Errorf("failed to issue certificate for %s: %w", instance, err)
		}
		out[instance] = CertAndKey{Cert: leaf.CertPEM, Key: leaf.KeyPEM}
	}
	return out, nil
}

func (c *Ca) reusable(existing map[string][]byte, instance string, subject Subject, now time.Time) (CertAndKey, bool) {
	certPEM := existing[LeafCertKey(instance)]
	keyPEM := existing[LeafKeyKey(instance)]
	if len(certPEM) == 0 || len(keyPEM) == 0 {
		return CertAndKey{}, false
	}

	leaf, err := ParseCertificatePEM(certPEM)
	if err != nil {
		return CertAndKey{}, false
	}
	if !sameSANs(leaf, subject.DNSNames) {
		return CertAndKey{}, false
	}
	if err := leaf.CheckSignatureFrom(c.artifacts.Cert); err != nil {
		return CertAndKey{}, false
	}
	renewAt := leaf.NotAfter.Add(-time.Duration(c.opts.RenewalDays) * 24 * time.Hour)
	if !now.Before(renewAt) {
		return CertAndKey{}, false
	}
	return CertAndKey{Cert: certPEM, Key: keyPEM}, true
}

// sameSANs compares the SANs of cert with the wanted names, ignoring order.
func sameSANs(cert *x509.Certificate, want []string) bool {
	have := slices.Clone(cert.DNSNames)
	for _, ip := range cert.IPAddresses {
		have = append(have, ip.String())
	}
	wanted := slices.Clone(want)
	slices.Sort(have)
	slices.Sort(wanted)
	return slices.Equal(slices.Compact(have), slices.Compact(wanted))
}
