/*
Copyright 2026 jr42.

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

package dhcp6

import "strings"

// maxHostnameLength mirrors wicked's config->hostname buffer
// (device.c:845, strncpy into a fixed-size field); we cap rather than
// allocate unbounded strings from an untrusted request.
const maxHostnameLength = 255

// isValidDomainName implements the RFC 1035 label rules device.c's
// ni_check_domain_name call site (device.c:843-850) delegates to: a
// sequence of dot-separated labels, each 1-63 characters, starting and
// ending with an alphanumeric character, containing only letters,
// digits, and hyphens; total length capped at maxHostnameLength.
func isValidDomainName(name string) bool {
	if name == "" || len(name) > maxHostnameLength {
		return false
	}
	labels := strings.Split(name, ".")
	for _, label := range labels {
		if !isValidDomainLabel(label) {
			return false
		}
	}
	return true
}

func isValidDomainLabel(label string) bool {
	if len(label) == 0 || len(label) > 63 {
		return false
	}
	if !isAlphaNumeric(label[0]) || !isAlphaNumeric(label[len(label)-1]) {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		if !isAlphaNumeric(c) && c != '-' {
			return false
		}
	}
	return true
}

func isAlphaNumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// printSuspect renders a truncated, non-verbatim form of a hostname that
// failed validation, for the log line at device.c:847-849
// ("Discarded request to use suspect hostname") -- we avoid printing the
// raw string so a malicious caller can't inject control characters or
// multi-KB garbage into the log.
func printSuspect(s string) string {
	const limit = 32
	if len(s) <= limit {
		return sanitizeForLog(s)
	}
	return sanitizeForLog(s[:limit]) + "...(truncated)"
}

func sanitizeForLog(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c == 0x7f {
			b[i] = '.'
		} else {
			b[i] = c
		}
	}
	return string(b)
}
