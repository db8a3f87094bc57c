package lib

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"woodzire_server/structs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	ciphertext, err := Encrypt("rzp_secret_123", testKey)
	require.NoError(t, err)
	assert.NotEqual(t, "rzp_secret_123", ciphertext)

	plaintext, err := Decrypt(ciphertext, testKey)
	require.NoError(t, err)
	assert.Equal(t, "rzp_secret_123", plaintext)
}

func TestEncrypt_UsesFreshNonce(t *testing.T) {
	a, err := Encrypt("same", testKey)
	require.NoError(t, err)
	b, err := Encrypt("same", testKey)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestEncrypt_RejectsShortKey(t *testing.T) {
	_, err := Encrypt("x", "short")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	ciphertext, err := Encrypt("secret", testKey)
	require.NoError(t, err)

	_, err = Decrypt(ciphertext, strings.Repeat("z", 32))
	assert.Error(t, err)
}

func TestEncryptEmptyIsEmpty(t *testing.T) {
	out, err := Encrypt("", testKey)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMapPgError(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, IsUniqueViolation(MapPgError(unique)))
	assert.ErrorIs(t, MapPgError(unique), unique)

	fk := &pgconn.PgError{Code: "23503"}
	assert.ErrorIs(t, MapPgError(fk), ErrInvalid)

	other := errors.New("boom")
	assert.Equal(t, other, MapPgError(other))
	assert.NoError(t, MapPgError(nil))
}

func TestGenerateOrderNumber(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^WZ-261014-[A-Z0-9]{6}$`)

	seen := map[string]bool{}
	for range 50 {
		n, err := GenerateOrderNumber(now)
		require.NoError(t, err)
		assert.Regexp(t, pattern, n)
		seen[n] = true
	}
	assert.Greater(t, len(seen), 45)
}

func TestGenerateGiftCardCode(t *testing.T) {
	code, err := GenerateGiftCardCode()
	require.NoError(t, err)
	assert.Regexp(t, `^WZGC-[A-HJ-NP-Z2-9]{4}-[A-HJ-NP-Z2-9]{4}-[A-HJ-NP-Z2-9]{4}$`, code)
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Teak Wood Chair":        "teak-wood-chair",
		"  Sheesham -- Table!! ": "sheesham-table",
		"Mango & Oak (Set of 2)": "mango-oak-set-of-2",
		"":                       "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "WZGC-ABCD", NormalizeCode("  wzgc-abcd "))
}

func TestPasswordHashAndVerify(t *testing.T) {
	params := &structs.ArgonParams{Memory: 8 * 1024, Time: 1, Threads: 1, KeyLen: 32, SaltLen: 16}
	hash, err := HashPassword("correct horse", params)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$"))

	ok, err := VerifyPassword("correct horse", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyPassword("x", "not-a-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestSignAndParseToken(t *testing.T) {
	sub := uuid.New()
	signed, claims, err := SignToken(sub, "a@b.in", "admin", time.Minute, "secret")
	require.NoError(t, err)

	parsed, err := ParseToken(signed, "secret")
	require.NoError(t, err)
	assert.Equal(t, sub, parsed.Sub)
	assert.Equal(t, "admin", parsed.Role)
	assert.Equal(t, claims.Jti, parsed.Jti)

	_, err = ParseToken(signed, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	signed, _, err := SignToken(uuid.New(), "a@b.in", "user", -time.Minute, "secret")
	require.NoError(t, err)

	_, err = ParseToken(signed, "secret")
	assert.ErrorIs(t, err, ErrExpiredToken)
}

type sampleBody struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
	Qty   int    `json:"qty" validate:"gte=1"`
	Inner struct {
		City string `json:"city" validate:"required"`
	} `json:"inner"`
}

func TestExtractAndValidateBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Asha","email":"asha@example.in","qty":2,"inner":{"city":"Pune"}}`))
	body, err := ExtractAndValidateBody[sampleBody](r)
	require.NoError(t, err)
	assert.Equal(t, "Asha", body.Name)
}

func TestExtractAndValidateBody_FieldErrors(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"A","email":"nope","qty":0,"inner":{}}`))
	_, err := ExtractAndValidateBody[sampleBody](r)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	fields := map[string]string{}
	for _, fe := range ve.Errors {
		fields[fe.Field] = fe.Message
	}
	assert.Equal(t, "must be at least 2 characters", fields["name"])
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Equal(t, "must be greater than or equal to 1", fields["qty"])
	assert.Equal(t, "is required", fields["inner.city"])
}

func TestExtractAndValidateBody_UnknownField(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Asha","bogus":true}`))
	_, err := ExtractAndValidateBody[sampleBody](r)
	assert.Error(t, err)
}

func TestFormatINR(t *testing.T) {
	assert.Equal(t, "₹2,223", FormatINR(decimal.NewFromInt(2223)))
	assert.Equal(t, "₹100", FormatINR(decimal.RequireFromString("99.5")))
}

func TestRoundRupees(t *testing.T) {
	assert.True(t, RoundRupees(decimal.RequireFromString("323.5")).Equal(decimal.NewFromInt(324)))
	assert.True(t, RoundRupees(decimal.RequireFromString("323.49")).Equal(decimal.NewFromInt(323)))
}
