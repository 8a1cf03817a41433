/*
Copyright 2026 Numtide.

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


// Package names generates deterministic names for the objects the operator
// manages.
//
// A dependent is named after its Kafka or KafkaMirrorMaker2 resource plus a
// fixed suffix, so every name can be computed from the resource name alone.
// Names that are too long for their kind, or that had to be cleaned up, end
// in a short hash of the original parts so they stay unique.
package names

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Length limits of generated names.
const (
	// MaxNameLength applies to ConfigMaps, Secrets, Deployments and most
	// other kinds.
	MaxNameLength = 253
	// MaxLabelLength applies to Services and volumes, whose names are DNS
	// labels and must start with a letter.
	MaxLabelLength = 63
	// MaxStatefulSetLength leaves room for the "-<ordinal>" pod suffix and the
	// controller-revision-hash label derived from the StatefulSet name.
	MaxStatefulSetLength = 52
)

// hashBytes must not change: it would rename every truncated object.
const hashBytes = 4

// Hash returns a short hex hash of parts. Parts are separated by a NUL byte,
// so ("a-b", "c") and ("a", "b-c") hash differently.
func Hash(parts []string) string {
	h := md5.New()
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)[:hashBytes])
}

// Join joins parts with '-'. Upper case letters are lowered and other
// characters outside [a-z0-9-] become '-'. When that changed anything, or the
// name is longer than maxLength, the name is cut to fit and suffixed with the
// hash of the original parts.
func Join(maxLength int, parts ...string) string {
	plain := strings.Join(parts, "-")
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, plain)
	if maxLength <= MaxLabelLength && (name == "" || name[0] < 'a' || name[0] > 'z') {
		name = "x" + name
	}
	if name == plain && len(name) <= maxLength {
		return name
	}

	suffix := "-" + Hash(parts)
	if len(name)+len(suffix) > maxLength {
		name = strings.TrimRight(name[:maxLength-len(suffix)], "-")
	}
	return name + suffix
}
