package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pulsespace/backend/internal/model"
	"github.com/pulsespace/backend/internal/repository"
	"github.com/pulsespace/backend/pkg/testutil"
	"github.com/pulsespace/backend/pkg/xcontext"
)

func Test_authDomain_FullScenario(t *testing.T) {
	ctx := testutil.MockContext()
	authDomain := NewAuthDomain(repository.NewUserRepository())

	// Signup successfully.
	signupResp, err := authDomain.Signup(ctx, &model.SignupRequest{
		Email:    "alice@example.com",
		Password: "super-secret",
		Name:     "Alice",
	})
	require.NoError(t, err)
	require.NotEmpty(t, signupResp.User.ID)
	require.Equal(t, "alice@example.com", signupResp.User.Email)

	// Cannot signup twice with the same email.
	_, err = authDomain.Signup(ctx, &model.SignupRequest{
		Email:    "alice@example.com",
		Password: "another-secret",
	})
	require.Error(t, err)
	require.Equal(t, "The email was registered before", err.Error())

	// Login with the right password issues a verifiable token.
	loginResp, err := authDomain.Login(ctx, &model.LoginRequest{
		Email:    "alice@example.com",
		Password: "super-secret",
	})
	require.NoError(t, err)

	sub, err := xcontext.TokenEngine(ctx).Verify(loginResp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, signupResp.User.ID, sub)

	// A wrong password is rejected.
	_, err = authDomain.Login(ctx, &model.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
	require.Equal(t, "Invalid password", err.Error())

	// So is an unknown email.
	_, err = authDomain.Login(ctx, &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "super-secret",
	})
	require.Error(t, err)
	require.Equal(t, "Not found user", err.Error())
}

func Test_authDomain_Signup_requireEmailAndPassword(t *testing.T) {
	ctx := testutil.MockContext()
	authDomain := NewAuthDomain(repository.NewUserRepository())

	_, err := authDomain.Signup(ctx, &model.SignupRequest{Email: "", Password: "x"})
	require.Error(t, err)

	_, err = authDomain.Signup(ctx, &model.SignupRequest{Email: "a@b.c", Password: ""})
	require.Error(t, err)
}
