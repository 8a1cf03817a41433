// Package cert manages the certificate authorities of a Kafka cluster.
//
// Each cluster has two CAs with the same lifecycle, told apart by Role:
//
//   - Cluster CA: signs the broker certificates used on the replication and
//     TLS listeners. Brokers trust it, so replacing it means rolling brokers.
//   - Clients CA: signs client certificates. Brokers trust it for mutual TLS.
//
// Lifecycle of a CA within one reconciliation pass:
//
//  1. Store.Load reads the certificate Secret, the key Secret and the
//     generation annotation.
//  2. LoadOrGenerate parses the material, generating it when absent (and
//     allowed) with generation 0.
//  3. Ca.RenewIfNeeded replaces the key pair once the renewal period starts,
//     incrementing the generation by exactly one.
//  4. Ca.IssueLeafCertificates signs per-broker certificates, reusing existing
//     ones whose SANs still match.
//  5. Store.Save persists the material only when it changed.
//
// CertRenewed is a per-pass signal. It feeds the rolling update decision and
// is never persisted; the generation annotation is the durable record.
//
// Usage:
//
//	store := cert.NewStore(client, recorder)
//	material, err := store.Load(ctx, names)
//	ca, err := cert.LoadOrGenerate(material, opts, now)
//	outcome, err := ca.RenewIfNeeded(now)
//	err = store.Save(ctx, kafka, names, ca)
package cert
