package cert

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"time"
)

const (
	// Organization is the default organization name used in generated certificates.
	Organization = "io.numtide.kafka"
	// DefaultValidity is used when no validity option is given.
	DefaultValidity = 365 * 24 * time.Hour
	// clockSkew backdates NotBefore so freshly issued certs are valid on peers
	// whose clocks lag slightly.
	clockSkew = time.Hour
)

// CAArtifacts holds the Certificate Authority keys and PEM-encoded data.
type CAArtifacts struct {
	Cert    *x509.Certificate
	Key     *ecdsa.PrivateKey
	CertPEM []byte
	KeyPEM  []byte
}

// LeafArtifacts holds a signed leaf certificate and its key.
type LeafArtifacts struct {
	Cert    *x509.Certificate
	CertPEM []byte
	KeyPEM  []byte
}

// certConfig holds the resolved configuration for certificate generation.
type certConfig struct {
	organization string
	issuedAt     time.Time
	validity     time.Duration
	extKeyUsages []x509.ExtKeyUsage
}

func newCertConfig(extKeyUsages []x509.ExtKeyUsage, opts []Option) certConfig {
	cfg := certConfig{
		organization: Organization,
		issuedAt:     time.Now(),
		validity:     DefaultValidity,
		extKeyUsages: extKeyUsages,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures optional behavior for GenerateCA and GenerateLeafCert.
type Option func(*certConfig)

// WithExtKeyUsages overrides the default extended key usage for the generated
// certificate. Leaf certificates default to ServerAuth and ClientAuth since
// brokers talk TLS to each other in both directions.
func WithExtKeyUsages(usages ...x509.ExtKeyUsage) Option {
	return func(cfg *certConfig) {
		cfg.extKeyUsages = usages
	}
}

// WithOrganization sets the subject organization.
func WithOrganization(org string) Option {
	return func(cfg *certConfig) {
		if org != "" {
			cfg.organization = org
		}
	}
}

// WithIssuedAt sets the issue instant. NotAfter is issuedAt plus the validity.
func WithIssuedAt(t time.Time) Option {
	return func(cfg *certConfig) {
		cfg.issuedAt = t
	}
}

// WithValidityDays sets the validity period in days.
func WithValidityDays(days int) Option {
	return func(cfg *certConfig) {
		if days > 0 {
			cfg.validity = time.Duration(days) * 24 * time.Hour
		}
	}
}

// internal variables for mocking in tests
var (
	marshalECPrivateKey = x509.MarshalECPrivateKey
	parseCertificate    = x509.ParseCertificate
)

// GenerateCA creates a new self-signed Root CA using ECDSA P-256.
func GenerateCA(commonName string, opts ...Option) (*CAArtifacts, error) {
	if commonName == "" {
		commonName = "cluster-ca"
	}
	cfg := newCertConfig(nil, opts)

	privKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CA private key: %w", err)
	}

	serialNumber, err := randomSerial()
	if err != nil {
		return nil, fmt.Errorf("failed to generate CA serial number: %w", err)
	}

	template := x509.Certificate{
		SerialNumber: serialNumber,
		Subject: pkix.Name{
			CommonName:   commonName,
			Organization: []string{cfg.organization},
		},
		NotBefore:             cfg.issuedAt.Add(-clockSkew),
		NotAfter:              cfg.issuedAt.Add(cfg.validity),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	derBytes, err := x509.CreateCertificate(
		rand.Reader,
		&template,
		&template,
		&privKey.PublicKey,
		privKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CA certificate: %w", err)
	}

	caCert, err := parseCertificate(derBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse generated CA: %w", err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: derBytes})

	keyBytes, err := marshalECPrivateKey(privKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal CA key: %w", err)
	}
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyBytes})

	return &CAArtifacts{
		Cert:    caCert,
		Key:     privKey,
		CertPEM: certPEM,
		KeyPEM:  keyPEM,
	}, nil
}

// GenerateLeafCert creates a leaf certificate signed by the provided CA.
// By default, the certificate carries both ServerAuth and ClientAuth.
// Any dnsNames entry that parses as an IP is added as an IP SAN instead.
func GenerateLeafCert(
	ca *CAArtifacts,
	commonName string,
	dnsNames []string,
	opts ...Option,
) (*LeafArtifacts, error) {
	if ca == nil {
		return nil, fmt.Errorf("CA artifacts cannot be nil")
	}

	cfg := newCertConfig(
		[]x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		opts,
	)

	privKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate leaf private key: %w", err)
	}

	serialNumber, err := randomSerial()
	if err != nil {
		return nil, fmt.Errorf("failed to generate leaf serial number: %w", err)
	}

	template := x509.Certificate{
		SerialNumber: serialNumber,
		Subject: pkix.Name{
			CommonName:   commonName,
			Organization: []string{cfg.organization},
		},
		NotBefore:   cfg.issuedAt.Add(-clockSkew),
		NotAfter:    cfg.issuedAt.Add(cfg.validity),
		KeyUsage:    x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage: cfg.extKeyUsages,
	}

	for _, name := range dnsNames {
		if ip := net.ParseIP(name); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
			continue
		}
		template.DNSNames = append(template.DNSNames, name)
	}
	if ip := net.ParseIP(commonName); ip != nil {
		template.IPAddresses = append(template.IPAddresses, ip)
	}

	derBytes, err := x509.CreateCertificate(
		rand.Reader,
		&template,
		ca.Cert,
		&privKey.PublicKey,
		ca.Key,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sign leaf certificate: %w", err)
	}

	leaf, err := parseCertificate(derBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse generated leaf certificate: %w", err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: derBytes})

	keyBytes, err := marshalECPrivateKey(privKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal leaf key: %w", err)
	}
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyBytes})

	return &LeafArtifacts{
		Cert:    leaf,
		CertPEM: certPEM,
		KeyPEM:  keyPEM,
	}, nil
}

// ParseCA decodes PEM data back into crypto objects for signing usage.
func ParseCA(certPEM, keyPEM []byte) (*CAArtifacts, error) {
	cert, err := ParseCertificatePEM(certPEM)
	if err != nil {
		return nil, fmt.Errorf("invalid CA cert: %w", err)
	}
	if !cert.IsCA {
		return nil, fmt.Errorf("certificate %q is not a CA", cert.Subject.CommonName)
	}

	// Parse Key
	block, _ := pem.Decode(keyPEM)
	if block == nil {
		return nil, fmt.Errorf("failed to decode CA key PEM")
	}
	// We optimistically try EC, then fallback to PKCS8 if needed, strictly P-256 for us.
	key, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		// Fallback for older keys or PKCS8 wrapping
		if k, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
			switch k := k.(type) {
			case *ecdsa.PrivateKey:
				key = k
			default:
				return nil, fmt.Errorf("found non-ECDSA private key type in CA secret")
			}
		} else {
			return nil, fmt.Errorf("failed to parse CA private key: %w", err)
		}
	}

	if !key.PublicKey.Equal(cert.PublicKey) {
		return nil, fmt.Errorf("CA private key does not match certificate")
	}

	return &CAArtifacts{
		Cert:    cert,
		Key:     key,
		CertPEM: certPEM,
		KeyPEM:  keyPEM,
	}, nil
}

// ParseCertificatePEM decodes the first CERTIFICATE block in data.
func ParseCertificatePEM(data []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("failed to decode cert PEM")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cert: %w", err)
	}
	return cert, nil
}

func randomSerial() (*big.Int, error) {
	limit := new(big.Int).Lsh(big.NewInt(1), 128)
	return rand.Int(rand.Reader, limit)
}
