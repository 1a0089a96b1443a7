package otp

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// base32 of the RFC 6238 20-byte ascii seed "12345678901234567890".
const rfcSeed = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func TestGenerate_RFC6238Vectors(t *testing.T) {
	uri := "otpauth://totp/Example:alice?secret=" + rfcSeed + "&digits=8"

	tests := []struct {
		unix int64
		want string
	}{
		{59, "94287082"},
		{1111111109, "07081804"},
		{1111111111, "14050471"},
		{1234567890, "89005924"},
		{2000000000, "69279037"},
	}

	for _, tc := range tests {
		code, err := Generate(uri, time.Unix(tc.unix, 0))
		require.NoError(t, err)
		assert.Equal(t, tc.want, code.Code, "at t=%d", tc.unix)
	}
}

func TestGenerate_DefaultsToSixDigits(t *testing.T) {
	uri := "otpauth://totp/Example:alice?secret=" + rfcSeed

	code, err := Generate(uri, time.Unix(59, 0))
	require.NoError(t, err)

	assert.Len(t, code.Code, 6)
	assert.Equal(t, "287082", code.Code)
}

func TestGenerate_ValidForCountsDownWithinPeriod(t *testing.T) {
	uri := "otpauth://totp/Example:alice?secret=" + rfcSeed

	code, err := Generate(uri, time.Unix(59, 0))
	require.NoError(t, err)
	assert.Equal(t, "1s", code.ValidFor)

	code, err = Generate(uri, time.Unix(60, 0))
	require.NoError(t, err)
	assert.Equal(t, "30s", code.ValidFor)
}

func TestGenerate_SHA256Algorithm(t *testing.T) {
	// RFC 6238 uses a 32-byte seed for the SHA256 vectors.
	uri := "otpauth://totp/Example:alice?secret=GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQGEZA&digits=8&algorithm=SHA256"

	code, err := Generate(uri, time.Unix(59, 0))
	require.NoError(t, err)
	assert.Equal(t, "46119246", code.Code)
}

func TestGenerate_SteamVariant(t *testing.T) {
	uri := "otpauth://totp/Steam:gabe?secret=" + rfcSeed + "&issuer=Steam"

	require.True(t, IsSteamURI(uri))

	code, err := Generate(uri, time.Unix(59, 0))
	require.NoError(t, err)

	assert.Len(t, code.Code, 5)
	for _, r := range code.Code {
		assert.True(t, strings.ContainsRune(steamAlphabet, r), "symbol %q outside steam alphabet", r)
	}
}

func TestGenerate_SteamDiffersFromStandard(t *testing.T) {
	now := time.Unix(1234567890, 0)

	std, err := Generate("otpauth://totp/Example:alice?secret="+rfcSeed, now)
	require.NoError(t, err)
	steam, err := Generate("otpauth://totp/Steam:alice?secret="+rfcSeed, now)
	require.NoError(t, err)

	assert.NotEqual(t, std.Code, steam.Code)
}

func TestGenerate_MalformedURIs(t *testing.T) {
	now := time.Now()

	for _, uri := range []string{
		"not a uri at all ::",
		"https://example.com?secret=" + rfcSeed,
		"otpauth://hotp/Example?secret=" + rfcSeed,
		"otpauth://totp/Example",
		"otpauth://totp/Example?secret=" + rfcSeed + "&digits=zero",
		"otpauth://totp/Example?secret=" + rfcSeed + "&period=-1",
		"otpauth://totp/Example?secret=" + rfcSeed + "&algorithm=MD5",
	} {
		_, err := Generate(uri, now)
		assert.ErrorIs(t, err, ErrMalformedURI, "uri %q", uri)
	}
}

func TestGenerate_BadSecret(t *testing.T) {
	_, err := Generate("otpauth://totp/Example?secret=0189!!", time.Now())
	require.ErrorIs(t, err, ErrSecretDecode)
}

func TestGenerate_SecretNormalization(t *testing.T) {
	// lower case, spaces and padding are all tolerated
	uri := "otpauth://totp/Example?secret=" + strings.ToLower(rfcSeed[:16]) + " " + rfcSeed[16:] + "===="

	code, err := Generate(uri, time.Unix(59, 0))
	require.NoError(t, err)
	assert.Equal(t, "287082", code.Code)
}
