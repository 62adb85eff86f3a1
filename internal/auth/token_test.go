package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuePairAndParse(t *testing.T) {
	issuer := NewIssuer("secret", 30*time.Minute, 24*time.Hour)
	userID := uuid.NewString()

	pair, err := issuer.IssuePair(userID)
	require.NoError(t, err)

	claims, err := issuer.Parse(pair.Access, TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)

	_, err = issuer.Parse(pair.Refresh, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken, "refresh token must not authenticate requests")

	_, err = issuer.Parse(pair.Access, TokenRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	issuer := NewIssuer("secret", time.Minute, time.Hour)
	start := time.Now()
	issuer.now = func() time.Time { return start }

	pair, err := issuer.IssuePair(uuid.NewString())
	require.NoError(t, err)

	issuer.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = issuer.Parse(pair.Access, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	access, err := issuer.Refresh(pair.Refresh)
	require.NoError(t, err)
	_, err = issuer.Parse(access, TokenAccess)
	assert.NoError(t, err)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	ours := NewIssuer("secret", time.Minute, time.Hour)
	theirs := NewIssuer("other", time.Minute, time.Hour)

	pair, err := theirs.IssuePair(uuid.NewString())
	require.NoError(t, err)

	_, err = ours.Parse(pair.Access, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsNoneAlgorithm(t *testing.T) {
	issuer := NewIssuer("secret", time.Minute, time.Hour)
	claims := Claims{
		UserID:    uuid.NewString(),
		TokenType: TokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Parse(raw, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	issuer := NewIssuer("secret", time.Minute, time.Hour)
	pair, err := issuer.IssuePair(uuid.NewString())
	require.NoError(t, err)

	_, err = issuer.Refresh(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
