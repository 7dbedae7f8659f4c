package utils

import (
	"testing"
	"time"

	"droppay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionToken(t *testing.T) {
	m := &models.Merchant{ID: "m-1", PiUserID: "uid-1", PiUsername: "alice", IsAdmin: true}

	token, err := GenerateSessionToken("secret", m, time.Hour)
	require.NoError(t, err)

	claims, err := ParseSessionToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "m-1", claims.MerchantID)
	assert.Equal(t, "alice", claims.PiUsername)
	assert.True(t, claims.IsAdmin)

	_, err = ParseSessionToken("other-secret", token)
	assert.Error(t, err)

	expired, err := GenerateSessionToken("secret", m, -time.Minute)
	require.NoError(t, err)
	_, err = ParseSessionToken("secret", expired)
	assert.Error(t, err)

	_, err = GenerateSessionToken("", m, time.Hour)
	assert.Error(t, err)
}

func TestAPIKeyFormat(t *testing.T) {
	prefix, secret, err := NewAPIKeySecret()
	require.NoError(t, err)
	assert.Len(t, prefix, 8)

	gotPrefix, gotSecret, ok := ParseAPIKey(FormatAPIKey(prefix, secret))
	require.True(t, ok)
	assert.Equal(t, prefix, gotPrefix)
	assert.Equal(t, secret, gotSecret)

	_, secretWithSep, ok := ParseAPIKey("dp_abcd1234_se_cr_et")
	require.True(t, ok)
	assert.Equal(t, "se_cr_et", secretWithSep)

	for _, bad := range []string{"", "dp_only", "sk_abcd_secret", "dp__secret", "dp_abcd_"} {
		_, _, ok := ParseAPIKey(bad)
		assert.False(t, ok, bad)
	}
}
