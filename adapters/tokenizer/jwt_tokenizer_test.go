package tokenizer

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/layer-3/signa/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return key
}

func TestJWTTokenizer_RoundTrip(t *testing.T) {
	tok := NewJWTTokenizer(newKey(t), "signa")
	now := time.Now()
	grant := &core.Grant{
		ID:          "grant-1",
		Address:     "0xA",
		ChainType:   core.ChainEVM,
		IssuedAt:    now,
		ExpiresAt:   now.Add(5 * time.Minute),
		ChallengeAt: time.UnixMilli(now.Add(-time.Hour).UnixMilli()),
	}

	token, err := tok.GrantToAccessToken(grant)
	require.NoError(t, err)

	parsed, err := tok.AccessTokenToGrant(token)
	require.NoError(t, err)
	assert.Equal(t, grant.ID, parsed.ID)
	assert.Equal(t, grant.Address, parsed.Address)
	assert.Equal(t, grant.ChainType, parsed.ChainType)
	assert.True(t, grant.ChallengeAt.Equal(parsed.ChallengeAt), "challenge time keeps millisecond precision")
	assert.Equal(t, grant.ExpiresAt.Unix(), parsed.ExpiresAt.Unix())
}

func TestJWTTokenizer_Expired(t *testing.T) {
	tok := NewJWTTokenizer(newKey(t), "signa")
	past := time.Now().Add(-time.Hour)

	token, err := tok.GrantToAccessToken(&core.Grant{ID: "g", Address: "0xA", IssuedAt: past, ExpiresAt: past.Add(time.Minute)})
	require.NoError(t, err)

	_, err = tok.AccessTokenToGrant(token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestJWTTokenizer_Rejects(t *testing.T) {
	key := newKey(t)
	tok := NewJWTTokenizer(key, "signa")
	grant := &core.Grant{ID: "g", Address: "0xA", IssuedAt: time.Now(), ExpiresAt: time.Now().Add(time.Minute)}

	t.Run("foreign key", func(t *testing.T) {
		token, err := NewJWTTokenizer(newKey(t), "signa").GrantToAccessToken(grant)
		require.NoError(t, err)

		_, err = tok.AccessTokenToGrant(token)
		assert.ErrorIs(t, err, core.ErrInvalidToken)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		token, err := NewJWTTokenizer(key, "someone-else").GrantToAccessToken(grant)
		require.NoError(t, err)

		_, err = tok.AccessTokenToGrant(token)
		assert.ErrorIs(t, err, core.ErrInvalidToken)
	})

	t.Run("hmac token", func(t *testing.T) {
		claims := AccessClaims{RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "signa",
			Subject:   "0xA",
			Audience:  jwt.ClaimStrings{AudienceAccess},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = tok.AccessTokenToGrant(token)
		assert.ErrorIs(t, err, core.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tok.AccessTokenToGrant("not.a.token")
		assert.ErrorIs(t, err, core.ErrInvalidToken)
	})
}
