package errors

import (
	"unicode"
)

// MaxTokenLength bounds token input. Tokens are opaque identifiers; anything
// longer than this will not fit a scannable QR payload anyway.
const MaxTokenLength = 512

// ValidateToken validates a seal token before any generation work starts.
//
// The subsystem does not decide whether a token is authorized — that is the
// caller's job — but it rejects inputs that cannot form a stable payload:
//   - empty tokens
//   - tokens above MaxTokenLength bytes
//   - tokens containing control characters or null bytes
func ValidateToken(token string) error {
	if token == "" {
		return New(ErrCodeInvalidToken, "token cannot be empty")
	}

	if len(token) > MaxTokenLength {
		return New(ErrCodeInvalidToken, "token too long (max %d bytes)", MaxTokenLength)
	}

	for _, r := range token {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidToken, "token contains control characters")
		}
	}

	return nil
}

// ValidateVersion validates a seal version tag. Versions select generation
// behavior and are baked into the seed, so they follow the same byte rules
// as tokens but with a tighter length bound.
func ValidateVersion(version string) error {
	if version == "" {
		return New(ErrCodeInvalidVersion, "version cannot be empty")
	}

	if len(version) > 32 {
		return New(ErrCodeInvalidVersion, "version too long (max 32 bytes)")
	}

	for _, r := range version {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidVersion, "version contains invalid characters")
		}
	}

	return nil
}
