package integration

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"pitchboard/db"
	"pitchboard/internal/api"
	"pitchboard/internal/auth"
	"pitchboard/internal/avatar"
	"pitchboard/internal/config"
	"pitchboard/internal/post"
	"pitchboard/internal/quote"
	"pitchboard/internal/user"
	"pitchboard/internal/web"
	"pitchboard/middleware"
	"pitchboard/models"
	"pitchboard/tests/testutils"

	"github.com/stretchr/testify/require"
)

type testApp struct {
	server   *testutils.TestServer
	cfg      *config.Config
	users    *user.UserService
	posts    *post.PostService
	userRepo db.UserRepository
	postRepo db.PostRepository
}

// newTestApp wires the full application against a temp database and returns
// it behind an httptest server.
func newTestApp(t *testing.T) *testApp {
	factory, cleanup := testutils.SetupTestRepositoryFactory(t)
	t.Cleanup(cleanup)

	userRepo := factory.NewUserRepository()
	postRepo := factory.NewPostRepository()

	dbManager := db.NewDBManager()
	t.Cleanup(dbManager.Stop)

	cfg := testutils.GetTestConfig(t)

	userService := user.NewUserService(userRepo, dbManager)
	postService := post.NewPostService(postRepo, dbManager)
	quoteService := quote.NewQuoteService(cfg.QuotesURL)
	avatarService := avatar.NewAvatarService(cfg.UploadDir)

	authHandlers := auth.NewAuthHandlers(cfg, userService)
	postAPI := api.NewPostHandlers(postService)
	mw := middleware.NewMiddleware(cfg)

	webHandler := web.NewWebHandler(userService, postService, quoteService, avatarService, cfg)
	router := webHandler.SetupRoutes(authHandlers, postAPI, mw)

	return &testApp{
		server:   testutils.NewTestServer(t, router),
		cfg:      cfg,
		users:    userService,
		posts:    postService,
		userRepo: userRepo,
		postRepo: postRepo,
	}
}

// seedUser stores a fixture user directly in the repository.
func (a *testApp) seedUser(t *testing.T, username, email string) *models.User {
	account := testutils.CreateTestUser(username, email)
	require.NoError(t, a.userRepo.Create(context.Background(), account))
	return account
}

// login opens a fresh browser session and logs the fixture user in.
func (a *testApp) login(t *testing.T, email string) *testutils.TestClient {
	client := a.server.NewSession()
	resp := client.PostForm("/login", url.Values{
		"email":    {email},
		"password": {testutils.TestPassword},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
	return client
}
