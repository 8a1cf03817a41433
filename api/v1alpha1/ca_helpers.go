/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

// Certificate authority defaults applied when the spec leaves a field unset.
const (
	DefaultCaValidityDays = 365
	DefaultCaRenewalDays  = 30
)

// ShouldGenerate reports whether the operator owns the CA material.
func (c CertificateAuthority) ShouldGenerate() bool {
	return c.GenerateCertificateAuthority == nil || *c.GenerateCertificateAuthority
}

// Validity returns the CA validity in days.
func (c CertificateAuthority) Validity() int {
	if c.ValidityDays > 0 {
		return int(c.ValidityDays)
	}
	return DefaultCaValidityDays
}

// Renewal returns the renewal period in days.
func (c CertificateAuthority) Renewal() int {
	if c.RenewalDays > 0 {
		return int(c.RenewalDays)
	}
	return DefaultCaRenewalDays
}

// IncludePattern returns the topic pattern for the mirror. Include wins over the
// deprecated Whitelist, and TopicsPattern is used when neither is set.
func (m MirrorMaker2MirrorSpec) IncludePattern() string {
	switch {
	case m.Include != "":
		return m.Include
	case m.Whitelist != "":
		return m.Whitelist
	default:
		return m.TopicsPattern
	}
}
