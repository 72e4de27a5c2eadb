package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func newTestClaims(issuer string, exp time.Time) *testClaims {
	return &testClaims{
		Email: "a@b.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(exp.Add(-time.Hour)),
		},
	}
}

func TestSignAndParseClaims(t *testing.T) {
	now := time.Now()
	signed, err := SignClaims(newTestClaims("oni", now.Add(time.Hour)), "secret-key")
	require.NoError(t, err)
	assert.NotEmpty(t, signed)

	var got testClaims
	require.NoError(t, ParseClaims(signed, &got, "secret-key", "oni", nil))
	assert.Equal(t, "a@b.com", got.Email)
	assert.Equal(t, "oni", got.Issuer)
}

func TestSignClaims_EmptyKey(t *testing.T) {
	_, err := SignClaims(newTestClaims("oni", time.Now().Add(time.Hour)), "")
	assert.Error(t, err)
}

func TestParseClaims_Rejects(t *testing.T) {
	now := time.Now()
	valid, err := SignClaims(newTestClaims("oni", now.Add(time.Hour)), "secret-key")
	require.NoError(t, err)
	expired, err := SignClaims(newTestClaims("oni", now.Add(-time.Minute)), "secret-key")
	require.NoError(t, err)
	noExp, err := SignClaims(&testClaims{Email: "a@b.com", RegisteredClaims: jwt.RegisteredClaims{Issuer: "oni"}}, "secret-key")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, newTestClaims("oni", now.Add(time.Hour)))
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		key    string
		issuer string
		want   error
	}{
		{name: "wrong key", token: valid, key: "other-key", issuer: "oni", want: jwt.ErrTokenSignatureInvalid},
		{name: "wrong issuer", token: valid, key: "secret-key", issuer: "someone", want: jwt.ErrTokenInvalidIssuer},
		{name: "expired", token: expired, key: "secret-key", issuer: "oni", want: jwt.ErrTokenExpired},
		{name: "no expiry", token: noExp, key: "secret-key", issuer: "oni", want: jwt.ErrTokenRequiredClaimMissing},
		{name: "alg none", token: unsigned, key: "secret-key", issuer: "oni", want: jwt.ErrTokenSignatureInvalid},
		{name: "garbage", token: "not.a.token", key: "secret-key", issuer: "oni", want: jwt.ErrTokenMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got testClaims
			err := ParseClaims(tt.token, &got, tt.key, tt.issuer, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseClaims_UsesInjectedClock(t *testing.T) {
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	signed, err := SignClaims(newTestClaims("oni", issued.Add(time.Hour)), "secret-key")
	require.NoError(t, err)

	var got testClaims
	before := func() time.Time { return issued.Add(30 * time.Minute) }
	assert.NoError(t, ParseClaims(signed, &got, "secret-key", "oni", before))

	after := func() time.Time { return issued.Add(2 * time.Hour) }
	assert.ErrorIs(t, ParseClaims(signed, &got, "secret-key", "oni", after), jwt.ErrTokenExpired)
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc", want: "abc"},
		{name: "padded", header: "  Bearer abc  ", want: "abc"},
		{name: "missing token", header: "Bearer", wantErr: true},
		{name: "wrong scheme", header: "Basic abc", wantErr: true},
		{name: "empty", header: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBearerToken(tt.header)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
