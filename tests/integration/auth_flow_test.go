package integration

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"pitchboard/tests/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationAndLogin_Integration(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	t.Run("Register_Success", func(t *testing.T) {
		client := app.server.NewSession()
		resp := client.PostForm("/register", url.Values{
			"username": {"alice"},
			"email":    {"alice@example.com"},
			"password": {"hunter2hunter2"},
		})
		resp.Body.Close()

		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))

		stored, err := app.userRepo.FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "alice", stored.Username)
		// Password must be stored hashed, never as plaintext
		assert.NotEqual(t, "hunter2hunter2", stored.PasswordHash)
		assert.NotContains(t, stored.PasswordHash, "hunter2")
	})

	t.Run("Register_DuplicateEmail", func(t *testing.T) {
		client := app.server.NewSession()
		resp := client.PostForm("/register", url.Values{
			"username": {"alice2"},
			"email":    {"alice@example.com"},
			"password": {"different"},
		})

		body := testutils.ReadBody(t, resp)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "already registered")

		// The original account is untouched
		stored, err := app.userRepo.FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "alice", stored.Username)
	})

	t.Run("Login_WrongPassword", func(t *testing.T) {
		client := app.server.NewSession()
		resp := client.PostForm("/login", url.Values{
			"email":    {"alice@example.com"},
			"password": {"wrong-password"},
		})

		body := testutils.ReadBody(t, resp)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "Login unsuccessful")

		// No session was created: a protected page still redirects
		resp = client.GET("/account")
		resp.Body.Close()
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/login?next=%2Faccount", resp.Header.Get("Location"))
	})

	t.Run("Login_UnknownEmail", func(t *testing.T) {
		client := app.server.NewSession()
		resp := client.PostForm("/login", url.Values{
			"email":    {"nobody@example.com"},
			"password": {"whatever"},
		})

		body := testutils.ReadBody(t, resp)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "Login unsuccessful")
	})

	t.Run("Login_Success_Then_Logout", func(t *testing.T) {
		client := app.server.NewSession()
		resp := client.PostForm("/login", url.Values{
			"email":    {"alice@example.com"},
			"password": {"hunter2hunter2"},
		})
		resp.Body.Close()
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))

		resp = client.GET("/account")
		body := testutils.ReadBody(t, resp)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "alice@example.com")

		resp = client.GET("/logout")
		resp.Body.Close()
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

		resp = client.GET("/account")
		resp.Body.Close()
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/login?next=%2Faccount", resp.Header.Get("Location"))
	})

	t.Run("Authenticated_Register_Redirects", func(t *testing.T) {
		app.seedUser(t, "bob", "bob@example.com")
		client := app.login(t, "bob@example.com")

		resp := client.GET("/register")
		resp.Body.Close()
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/home", resp.Header.Get("Location"))

		resp = client.GET("/login")
		resp.Body.Close()
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/home", resp.Header.Get("Location"))
	})
}

func TestLoginNextRedirect_Integration(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "carol", "carol@example.com")

	client := app.server.NewSession()

	// Hitting a protected page anonymously preserves the target
	resp := client.GET("/post/new")
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login?next=%2Fpost%2Fnew", resp.Header.Get("Location"))

	// Logging in with the next field set lands back on the target
	resp = client.PostForm("/login", url.Values{
		"email":    {"carol@example.com"},
		"password": {testutils.TestPassword},
		"next":     {"/post/new"},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/post/new", resp.Header.Get("Location"))

	resp = client.GET("/post/new")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginRejectsExternalNext_Integration(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "dave", "dave@example.com")

	client := app.server.NewSession()
	resp := client.PostForm("/login", url.Values{
		"email":    {"dave@example.com"},
		"password": {testutils.TestPassword},
		"next":     {"https://evil.example.com/"},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}
