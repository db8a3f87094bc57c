package lib

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateRandomToken generates a cryptographically secure random token
func GenerateRandomToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

func GenerateCSRFToken() (string, error) {
	token, err := GenerateRandomToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate CSRF token: %w", err)
	}
	return token, nil
}

// randomCode returns n characters from alphabet using crypto/rand.
func randomCode(alphabet string, n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = alphabet[int(b[i])%len(alphabet)]
	}
	return string(b), nil
}

// GenerateGiftCardCode returns a code like WZGC-7KQ2-M9XD-4HTP. The
// alphabet skips 0/O and 1/I so codes survive being read aloud.
func GenerateGiftCardCode() (string, error) {
	groups := make([]string, 0, 4)
	groups = append(groups, "WZGC")
	for range 3 {
		g, err := randomCode(codeAlphabet, 4)
		if err != nil {
			return "", fmt.Errorf("failed to generate gift card code: %w", err)
		}
		groups = append(groups, g)
	}
	return strings.Join(groups, "-"), nil
}

// NormalizeCode upper-cases and trims a customer-entered code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Slugify lower-cases s and joins its alphanumeric runs with hyphens.
func Slugify(s string) string {
	var sb strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingDash = false
			sb.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return sb.String()
}
