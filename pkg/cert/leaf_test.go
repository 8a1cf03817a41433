package cert

import (
	"fmt"
	"testing"
	"time"
)

func brokerName(ordinal int) string {
	return fmt.Sprintf("my-cluster-kafka-%d", ordinal)
}

func brokerSubject(ordinal int) Subject {
	pod := brokerName(ordinal)
	return Subject{
		CommonName:   pod,
		Organization: Organization,
		DNSNames: []string{
			"my-cluster-kafka-bootstrap",
			pod + ".my-cluster-kafka-brokers.kafka.svc.cluster.local",
		},
	}
}

func flatten(certs map[string]CertAndKey) map[string][]byte {
	out := map[string][]byte{}
	for name, ck := range certs {
		out[LeafCertKey(name)] = ck.Cert
		out[LeafKeyKey(name)] = ck.Key
	}
	return out
}

func newTestCa(t *testing.T, now time.Time) *Ca {
	t.Helper()
	ca, err := LoadOrGenerate(Material{}, testOptions(true), now)
	if err != nil {
		t.Fatalf("LoadOrGenerate() error = %v", err)
	}
	return ca
}

func TestIssueLeafCertificates(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("issues one certificate per replica", func(t *testing.T) {
		t.Parallel()

		ca := newTestCa(t, now)
		certs, err := ca.IssueLeafCertificates(3, brokerSubject, brokerName, nil, now)
		if err != nil {
			t.Fatalf("IssueLeafCertificates() error = %v", err)
		}
		if len(certs) != 3 {
			t.Fatalf("got %d certificates, want 3", len(certs))
		}
		for i := range 3 {
			ck, ok := certs[brokerName(i)]
			if !ok {
				t.Fatalf("missing certificate for %s", brokerName(i))
			}
			leaf, err := ParseCertificatePEM(ck.Cert)
			if err != nil {
				t.Fatalf("parse leaf: %v", err)
			}
			if err := leaf.CheckSignatureFrom(ca.Certificate()); err != nil {
				t.Errorf("leaf not signed by CA: %v", err)
			}
			if leaf.Subject.CommonName != brokerName(i) {
				t.Errorf("CN = %q, want %q", leaf.Subject.CommonName, brokerName(i))
			}
			if !sameSANs(leaf, brokerSubject(i).DNSNames) {
				t.Errorf("SANs = %v", leaf.DNSNames)
			}
		}
	})

	t.Run("reuses certificates with matching SANs", func(t *testing.T) {
		t.Parallel()

		ca := newTestCa(t, now)
		first, err := ca.IssueLeafCertificates(2, brokerSubject, brokerName, nil, now)
		if err != nil {
			t.Fatalf("first issue: %v", err)
		}
		second, err := ca.IssueLeafCertificates(2, brokerSubject, brokerName, flatten(first), now.Add(time.Hour))
		if err != nil {
			t.Fatalf("second issue: %v", err)
		}
		for name := range first {
			if string(first[name].Cert) != string(second[name].Cert) {
				t.Errorf("%s was reissued", name)
			}
		}
	})

	t.Run("reissues when SANs change", func(t *testing.T) {
		t.Parallel()

		ca := newTestCa(t, now)
		first, err := ca.IssueLeafCertificates(2, brokerSubject, brokerName, nil, now)
		if err != nil {
			t.Fatalf("first issue: %v", err)
		}
		withExternal := func(ordinal int) Subject {
			s := brokerSubject(ordinal)
			if ordinal == 1 {
				s.DNSNames = append(s.DNSNames, "broker-1.example.com")
			}
			return s
		}
		second, err := ca.IssueLeafCertificates(2, withExternal, brokerName, flatten(first), now)
		if err != nil {
			t.Fatalf("second issue: %v", err)
		}
		if string(first[brokerName(0)].Cert) != string(second[brokerName(0)].Cert) {
			t.Error("broker 0 should have been reused")
		}
		if string(first[brokerName(1)].Cert) == string(second[brokerName(1)].Cert) {
			t.Error("broker 1 should have been reissued")
		}
	})

	t.Run("reissues after CA renewal", func(t *testing.T) {
		t.Parallel()

		ca := newTestCa(t, now)
		first, err := ca.IssueLeafCertificates(1, brokerSubject, brokerName, nil, now)
		if err != nil {
			t.Fatalf("first issue: %v", err)
		}

		renewed, err := LoadOrGenerate(Material{CertPEM: ca.CertPEM(), KeyPEM: ca.KeyPEM()}, testOptions(true), now)
		if err != nil {
			t.Fatalf("reload: %v", err)
		}
		later := now.Add(340 * 24 * time.Hour)
		if out, err := renewed.RenewIfNeeded(later); err != nil || !out.Renewed {
			t.Fatalf("RenewIfNeeded() = %+v, %v", out, err)
		}

		second, err := renewed.IssueLeafCertificates(1, brokerSubject, brokerName, flatten(first), later)
		if err != nil {
			t.Fatalf("second issue: %v", err)
		}
		leaf, err := ParseCertificatePEM(second[brokerName(0)].Cert)
		if err != nil {
			t.Fatalf("parse leaf: %v", err)
		}
		if err := leaf.CheckSignatureFrom(renewed.Certificate()); err != nil {
			t.Errorf("leaf not signed by renewed CA: %v", err)
		}
	})

	t.Run("reissues malformed existing entries", func(t *testing.T) {
		t.Parallel()

		ca := newTestCa(t, now)
		existing := map[string][]byte{
			LeafCertKey(brokerName(0)): []byte("not a cert"),
			LeafKeyKey(brokerName(0)):  []byte("not a key"),
		}
		certs, err := ca.IssueLeafCertificates(1, brokerSubject, brokerName, existing, now)
		if err != nil {
			t.Fatalf("IssueLeafCertificates() error = %v", err)
		}
		if _, err := ParseCertificatePEM(certs[brokerName(0)].Cert); err != nil {
			t.Errorf("expected a valid certificate, got %v", err)
		}
	})

	t.Run("zero replicas", func(t *testing.T) {
		t.Parallel()

		ca := newTestCa(t, now)
		certs, err := ca.IssueLeafCertificates(0, brokerSubject, brokerName, nil, now)
		if err != nil {
			t.Fatalf("IssueLeafCertificates() error = %v", err)
		}
		if len(certs) != 0 {
			t.Errorf("got %d certificates, want 0", len(certs))
		}
	})
}

func TestSameSANs(t *testing.T) {
	t.Parallel()

	ca, err := GenerateCA("test", WithIssuedAt(time.Now()))
	if err != nil {
		t.Fatalf("GenerateCA() error = %v", err)
	}
	leaf, err := GenerateLeafCert(ca, "broker", []string{"b.example.com", "a.example.com", "10.0.0.1"})
	if err != nil {
		t.Fatalf("GenerateLeafCert() error = %v", err)
	}

	tests := map[string]struct {
		want []string
		ok   bool
	}{
		"same order":      {want: []string{"b.example.com", "a.example.com", "10.0.0.1"}, ok: true},
		"different order": {want: []string{"10.0.0.1", "a.example.com", "b.example.com"}, ok: true},
		"duplicate entry": {want: []string{"a.example.com", "a.example.com", "b.example.com", "10.0.0.1"}, ok: true},
		"missing IP":      {want: []string{"a.example.com", "b.example.com"}, ok: false},
		"extra name":      {want: []string{"a.example.com", "b.example.com", "10.0.0.1", "c.example.com"}, ok: false},
		"empty":           {want: nil, ok: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := sameSANs(leaf.Cert, tc.want); got != tc.ok {
				t.Errorf("sameSANs() = %v, want %v", got, tc.ok)
			}
		})
	}
}
