package cert

import (
	"crypto/x509"
	"fmt"
	"time"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
)

// Role tells the cluster CA apart from the clients CA. Both share the same
// lifecycle; only the secrets they are stored in and the certificates they
// sign differ.
type Role string

const (
	RoleCluster Role = "cluster"
	RoleClients Role = "clients"
)

// Material is the persisted form of a CA as read from its Secrets. Nil slices
// mean the Secret or key was absent.
type Material struct {
	CertPEM    []byte
	KeyPEM     []byte
	Generation int32
}

// Absent reports whether neither the certificate nor the key is present.
func (m Material) Absent() bool {
	return len(m.CertPEM) == 0 && len(m.KeyPEM) == 0
}

// Options configures LoadOrGenerate.
type Options struct {
	Role           Role
	CommonName     string
	ValidityDays   int
	RenewalDays    int
	ShouldGenerate bool
}

// OptionsFromSpec maps a CertificateAuthority spec onto Options.
func OptionsFromSpec(role Role, commonName string, spec kafkav1alpha1.CertificateAuthority) Options {
	return Options{
		Role:           role,
		CommonName:     commonName,
		ValidityDays:   spec.Validity(),
		RenewalDays:    spec.Renewal(),
		ShouldGenerate: spec.ShouldGenerate(),
	}
}

// CaInitializationError is returned when persisted CA material cannot be used
// and the operator is not allowed to replace it.
type CaInitializationError struct {
	Role    Role
	Message string
	Err     error
}

func (e *CaInitializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s CA initialization failed: %s: %v", e.Role, e.Message, e.Err)
	}
	return fmt.Sprintf("%s CA initialization failed: %s", e.Role, e.Message)
}

func (e *CaInitializationError) Unwrap() error {
	return e.Err
}

// Reason is the Ready condition reason for this error.
func (e *CaInitializationError) Reason() string {
	return kafkav1alpha1.ReasonCaInitFailed
}

// RenewalOutcome describes the result of RenewIfNeeded.
type RenewalOutcome struct {
	// Renewed is true when new CA material was generated.
	Renewed bool
	// Generation is the CA generation after the call.
	Generation int32
	// Expired is true when the CA in use before the call was already past
	// its NotAfter.
	Expired bool
}

// Ca is a certificate authority together with its generation counter. A Ca is
// owned by a single reconciliation pass; it is not safe for concurrent use.
type Ca struct {
	opts       Options
	artifacts  *CAArtifacts
	generation int32
	renewed    bool
	dirty      bool
	warnings   []string
}

// LoadOrGenerate builds a Ca from persisted material.
//
// Absent material is generated with generation 0 when ShouldGenerate is set
// and is an error otherwise. Material that fails to parse is an error unless
// ShouldGenerate is set, in which case it is replaced, the generation is
// incremented and a warning is recorded.
func LoadOrGenerate(m Material, opts Options, now time.Time) (*Ca, error) {
	c := &Ca{opts: opts, generation: m.Generation}

	if m.Absent() {
		if !opts.ShouldGenerate {
			return nil, &CaInitializationError{
				Role:    opts.Role,
				Message: "CA certificate and key are missing and generation is disabled",
			}
		}
		if err := c.generate(now); err != nil {
			return nil, err
		}
		c.generation = 0
		return c, nil
	}

	artifacts, err := ParseCA(m.CertPEM, m.KeyPEM)
	if err != nil {
		if !opts.ShouldGenerate {
			return nil, &CaInitializationError{
				Role:    opts.Role,
				Message: "existing CA material is invalid",
				Err:     err,
			}
		}
		if err := c.generate(now); err != nil {
			return nil, err
		}
		c.generation = m.Generation + 1
		c.renewed = true
		c.warnings = append(c.warnings,
			fmt.Sprintf("%s CA material was invalid and has been replaced: %v", opts.Role, err))
		return c, nil
	}

	c.artifacts = artifacts
	return c, nil
}

// RenewIfNeeded replaces the CA key and certificate when now is inside the
// renewal period, that is now >= NotAfter - RenewalDays. The generation is
// incremented by one on renewal. At most one renewal happens per call, and a
// CA whose material is not operator-managed is never renewed.
func (c *Ca) RenewIfNeeded(now time.Time) (RenewalOutcome, error) {
	expired := !now.Before(c.artifacts.Cert.NotAfter)
	out := RenewalOutcome{Generation: c.generation, Expired: expired}

	// Material generated during this pass is never renewed again in the same pass.
	if c.dirty || !c.renewalDue(now) {
		return out, nil
	}
	if !c.opts.ShouldGenerate {
		c.warnings = append(c.warnings, fmt.Sprintf(
			"%s CA certificate expires at %s and is not managed by the operator",
			c.opts.Role, c.artifacts.Cert.NotAfter.UTC().Format(time.RFC3339)))
		return out, nil
	}

	if err := c.generate(now); err != nil {
		return out, err
	}
	c.generation++
	c.renewed = true

	out.Renewed = true
	out.Generation = c.generation
	return out, nil
}

func (c *Ca) renewalDue(now time.Time) bool {
	renewAt := c.artifacts.Cert.NotAfter.Add(-time.Duration(c.opts.RenewalDays) * 24 * time.Hour)
	return !now.Before(renewAt)
}

func (c *Ca) generate(now time.Time) error {
	artifacts, err := GenerateCA(c.opts.CommonName,
		WithIssuedAt(now),
		WithValidityDays(c.opts.ValidityDays))
	if err != nil {
		return fmt.Errorf("failed to generate %s CA: %w", c.opts.Role, err)
	}
	c.artifacts = artifacts
	c.dirty = true
	return nil
}

// CertRenewed reports whether this Ca was renewed or replaced during the
// current pass.
func (c *Ca) CertRenewed() bool {
	return c.renewed
}

// Dirty reports whether the material differs from what was loaded and must be
// persisted.
func (c *Ca) Dirty() bool {
	return c.dirty
}

// Generation returns the current generation.
func (c *Ca) Generation() int32 {
	return c.generation
}

// Role returns the CA role.
func (c *Ca) Role() Role {
	return c.opts.Role
}

// CertPEM returns the PEM encoded CA certificate.
func (c *Ca) CertPEM() []byte {
	return c.artifacts.CertPEM
}

// KeyPEM returns the PEM encoded CA private key.
func (c *Ca) KeyPEM() []byte {
	return c.artifacts.KeyPEM
}

// Certificate returns the parsed CA certificate.
func (c *Ca) Certificate() *x509.Certificate {
	return c.artifacts.Cert
}

// NotAfter returns the CA certificate expiry.
func (c *Ca) NotAfter() time.Time {
	return c.artifacts.Cert.NotAfter
}

// Warnings returns the warnings recorded during this pass.
func (c *Ca) Warnings() []string {
	return c.warnings
}
