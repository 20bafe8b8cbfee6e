package auth

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikanow/infinite-sdk-go/internal/fakeapi"
	"github.com/ikanow/infinite-sdk-go/pkg/infinite"
)

func TestLogin(t *testing.T) {
	api := fakeapi.New(t)
	api.Reply(http.MethodGet, "/auth/login", fakeapi.NoData("Login successful"))
	svc := NewService(api.Client(t))

	override := false
	_, err := svc.Login(context.Background(), "jane@example.com", "secret", LoginOptions{
		ReturnTempKey: true,
		Override:      &override,
		ReturnURL:     "/home",
	})
	require.NoError(t, err)

	q := api.Last().Query
	assert.Equal(t, "jane@example.com", q.Get("username"))
	assert.Equal(t, infinite.HashPassword("secret"), q.Get("password"))
	assert.Equal(t, "true", q.Get("return_tmp_key"))
	assert.Equal(t, "false", q.Get("override"))
	assert.Equal(t, "/home", q.Get("returnurl"))
	assert.False(t, q.Has("multi"))
}

func TestLogin_Failure(t *testing.T) {
	api := fakeapi.New(t)
	api.Reply(http.MethodGet, "/auth/login", fakeapi.Fail("Authentication failed"))
	svc := NewService(api.Client(t))

	_, err := svc.Login(context.Background(), "jane", "wrong", LoginOptions{})
	require.Error(t, err)
	assert.True(t, infinite.IsLogicalFailure(err))
	assert.Contains(t, err.Error(), "Authentication failed")
}

func TestLoginAdmin_EscapesDigest(t *testing.T) {
	api := fakeapi.New(t)
	digest := infinite.HashPassword("admin-pass")
	path := "/auth/admin/" + url.PathEscape("ad min") + "/" + url.PathEscape(digest)
	api.Reply(http.MethodGet, path, fakeapi.NoData("ok"))
	svc := NewService(api.Client(t))

	_, err := svc.LoginAdmin(context.Background(), "ad min", "admin-pass")
	require.NoError(t, err)
	assert.Equal(t, path, api.Last().Path)
}

func TestDeactivate(t *testing.T) {
	api := fakeapi.New(t)
	api.Reply(http.MethodGet, "/auth/deactivate", fakeapi.NoData("ok"))
	svc := NewService(api.Client(t))

	_, err := svc.Deactivate(context.Background(), "bob", "", "root-pass")
	require.NoError(t, err)

	q := api.Last().Query
	assert.Equal(t, "bob", q.Get("user"))
	assert.False(t, q.Has("aduser"))
	assert.Equal(t, infinite.HashPassword("root-pass"), q.Get("adpass"))
}

func TestForgotPassword(t *testing.T) {
	api := fakeapi.New(t)
	api.Reply(http.MethodGet, "/auth/forgotpassword", fakeapi.NoData("ok"))
	svc := NewService(api.Client(t))

	_, err := svc.ForgotPassword(context.Background(), ForgotPasswordOptions{Username: "bob", NewPassword: "n3w"})
	require.NoError(t, err)

	q := api.Last().Query
	assert.Equal(t, "bob", q.Get("username"))
	assert.Equal(t, infinite.HashPassword("n3w"), q.Get("new_password"))
}

func TestSessionVerbs(t *testing.T) {
	api := fakeapi.New(t)
	api.Reply(http.MethodGet, "/auth/logout", fakeapi.NoData("bye"))
	api.Reply(http.MethodGet, "/auth/keepalive", fakeapi.NoData("alive"))
	svc := NewService(api.Client(t))

	env, err := svc.KeepAlive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alive", env.Response.Message)

	_, err = svc.Logout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, api.Count())
}
