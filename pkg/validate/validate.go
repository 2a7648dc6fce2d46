// SPDX-License-Identifier: Apache-2.0

// Package validate contains the pure input validators used by the send
// pipeline: address syntax checks, timing-safe secret comparison and
// error-message scrubbing for API responses.
package validate

import (
	"crypto/subtle"
	"regexp"
	"strings"
)

// MaxEmailLength is the maximum accepted length of a single address (RFC 5321).
const MaxEmailLength = 254

var (
	// emailPattern only allows common safe characters. Domain labels are
	// alphanumeric with internal hyphens and at least one dot-separated
	// label pair must exist.
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)

	// platformIDPattern restricts tenant identifiers to alphanumerics,
	// underscores and hyphens.
	platformIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	stackFramePattern = regexp.MustCompile(`at\s+.*:\d+:\d+`)
	absPathPattern    = regexp.MustCompile(`/[\w/.-]+`)

	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#039;",
	)
)

// IsValidEmailAddress reports whether s is an acceptable recipient address.
// The checks are deliberately stricter than RFC 5322 to keep SMTP header
// injection and lookalike addresses out of the transport.
func IsValidEmailAddress(s string) bool {
	if s == "" || len(s) > MaxEmailLength {
		return false
	}
	if strings.ContainsAny(s, "\r\n") {
		return false
	}
	if strings.Contains(s, "..") || strings.HasPrefix(s, ".") ||
		strings.Contains(s, ".@") || strings.HasSuffix(s, ".") {
		return false
	}
	return emailPattern.MatchString(s)
}

// IsValidPlatformID reports whether id is a well-formed tenant identifier.
func IsValidPlatformID(id string) bool {
	return platformIDPattern.MatchString(id)
}

// ConstantTimeEquals compares two secrets without leaking, through timing,
// where the first differing byte sits. Unequal lengths return false
// immediately; secret length is not the protected property. The equal-length
// path must never short-circuit on a byte mismatch.
func ConstantTimeEquals(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// SanitizeErrorMessage strips stack-frame fragments and absolute paths from
// msg so transport errors can be returned to API callers without exposing
// process internals.
func SanitizeErrorMessage(msg string) string {
	if msg == "" {
		return "Unknown error"
	}
	sanitized := stackFramePattern.ReplaceAllString(msg, "")
	sanitized = absPathPattern.ReplaceAllString(sanitized, "[path]")
	sanitized = strings.TrimSpace(sanitized)
	if sanitized == "" {
		return "Email sending failed"
	}
	return sanitized
}

// EscapeHTML replaces HTML metacharacters with their entities. Used for
// untrusted values interpolated into HTML body fragments.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
