package authenticator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_jwtEngine_RoundTrip(t *testing.T) {
	engine := NewTokenEngine("secret", time.Hour)

	token, err := engine.Generate("user1")
	require.NoError(t, err)

	sub, err := engine.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user1", sub)
}

func Test_jwtEngine_RejectsBadTokens(t *testing.T) {
	engine := NewTokenEngine("secret", time.Hour)

	_, err := engine.Verify("not-a-token")
	require.Error(t, err)

	// A token signed with another secret fails verification.
	otherEngine := NewTokenEngine("other-secret", time.Hour)
	token, err := otherEngine.Generate("user1")
	require.NoError(t, err)

	_, err = engine.Verify(token)
	require.Error(t, err)
}

func Test_jwtEngine_RejectsExpiredTokens(t *testing.T) {
	engine := NewTokenEngine("secret", -time.Minute)

	token, err := engine.Generate("user1")
	require.NoError(t, err)

	_, err = engine.Verify(token)
	require.Error(t, err)
}
