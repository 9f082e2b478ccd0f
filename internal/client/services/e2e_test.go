package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/authapp/internal/client/client"
	"github.com/dmitrijs2005/authapp/internal/client/models"
	"github.com/dmitrijs2005/authapp/internal/client/router"
	"github.com/dmitrijs2005/authapp/internal/client/session"
	"github.com/dmitrijs2005/authapp/internal/client/storage"
	"github.com/dmitrijs2005/authapp/internal/logging"
	"github.com/dmitrijs2005/authapp/internal/server/config"
	"github.com/dmitrijs2005/authapp/internal/server/httpapi"
	"github.com/dmitrijs2005/authapp/internal/server/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type liveClient struct {
	store  *storage.SessionStore
	state  *session.Store
	router *router.Router
	mgr    *SessionManager
}

// newLiveClient builds a client session wired to srv with its own store, as
// a fresh process would.
func newLiveClient(t *testing.T, baseURL string, store *storage.SessionStore) *liveClient {
	t.Helper()
	state := session.NewStore()
	api, err := client.NewHTTPClient(baseURL, state, 5*time.Second, logging.Discard())
	require.NoError(t, err)
	nav := router.New()
	return &liveClient{
		store:  store,
		state:  state,
		router: nav,
		mgr:    NewSessionManager(api, store, state, nav, logging.Discard()),
	}
}

func newLiveServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := users.NewService(users.NewMemoryRepository(),
		&config.Config{SecretKey: "e2e-secret", TokenTTL: time.Hour},
		users.WithHashCost(bcrypt.MinCost))
	srv := httptest.NewServer(httpapi.NewRouter(svc, logging.Discard()))
	t.Cleanup(srv.Close)
	return srv
}

func newSessionStore(t *testing.T) *storage.SessionStore {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), storage.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return storage.NewSessionStore(db)
}

func TestEndToEnd_AccountLifecycle(t *testing.T) {
	ctx := context.Background()
	srv := newLiveServer(t)
	store := newSessionStore(t)

	c := newLiveClient(t, srv.URL, store)
	c.mgr.Start(ctx)
	assert.False(t, c.state.Get().IsAuthenticated)
	assert.False(t, c.state.Get().IsLoading)

	require.NoError(t, c.mgr.Register(ctx, models.RegisterRequest{Username: "alice", Email: "alice@example.org", Password: "secret1"}))
	assert.Equal(t, router.RouteProfile, c.router.Current())
	assert.Equal(t, "alice", c.state.Get().Username())

	form, err := c.mgr.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.ProfileForm{Username: "alice", Email: "alice@example.org"}, form)

	form.Email = "alice@new.example.org"
	form.Password = "secret2"
	require.NoError(t, c.mgr.UpdateProfile(ctx, form))
	assert.Empty(t, form.Password)

	// A second process restores the session from the shared store.
	restarted := newLiveClient(t, srv.URL, store)
	restarted.mgr.Start(ctx)
	st := restarted.state.Get()
	require.True(t, st.IsAuthenticated)
	assert.Equal(t, "alice@new.example.org", st.User.Email)

	restarted.mgr.Logout(ctx)
	assert.Equal(t, router.RouteLogin, restarted.router.Current())

	err = restarted.mgr.Login(ctx, models.LoginRequest{Username: "alice", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, "Invalid username or password.", err.Error())
	assert.False(t, restarted.state.Get().IsAuthenticated)

	require.NoError(t, restarted.mgr.Login(ctx, models.LoginRequest{Username: "alice", Password: "secret2"}))
	require.NoError(t, restarted.mgr.DeleteAccount(ctx))
	assert.Equal(t, router.RouteRegister, restarted.router.Current())

	creds, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestEndToEnd_DeletedUserTokenIsDroppedAtStartup(t *testing.T) {
	ctx := context.Background()
	srv := newLiveServer(t)

	first := newLiveClient(t, srv.URL, newSessionStore(t))
	first.mgr.Start(ctx)
	require.NoError(t, first.mgr.Register(ctx, models.RegisterRequest{Username: "bob", Email: "bob@example.org", Password: "secret1"}))
	st := first.state.Get()

	// The same credentials persisted elsewhere outlive the account.
	other := newSessionStore(t)
	require.NoError(t, other.Save(ctx, st.Token, *st.User))
	require.NoError(t, first.mgr.DeleteAccount(ctx))

	second := newLiveClient(t, srv.URL, other)
	second.mgr.Start(ctx)
	assert.False(t, second.state.Get().IsAuthenticated)
	assert.Equal(t, router.RouteHome, second.router.Current())

	creds, err := other.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestEndToEnd_DuplicateRegistration(t *testing.T) {
	ctx := context.Background()
	srv := newLiveServer(t)

	a := newLiveClient(t, srv.URL, newSessionStore(t))
	require.NoError(t, a.mgr.Register(ctx, models.RegisterRequest{Username: "carol", Email: "carol@example.org", Password: "secret1"}))

	b := newLiveClient(t, srv.URL, newSessionStore(t))
	b.state.Set(session.Anonymous())
	err := b.mgr.Register(ctx, models.RegisterRequest{Username: "carol", Email: "c2@example.org", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, "Username is already taken.", err.Error())

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 409, apiErr.StatusCode)
	assert.False(t, b.state.Get().IsAuthenticated)
}

func TestEndToEnd_BareOKKeepsSession(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	store := newSessionStore(t)
	require.NoError(t, store.Save(ctx, "opaque", models.Identity{ID: 42, Username: "alice"}))

	c := newLiveClient(t, srv.URL, store)
	c.mgr.Start(ctx)

	st := c.state.Get()
	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, "opaque", st.Token)
	assert.Equal(t, int64(42), st.UserID())

	creds, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "opaque", creds.Token)
}
