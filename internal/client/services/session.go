package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authapp/internal/client/client"
	"github.com/dmitrijs2005/authapp/internal/client/models"
	"github.com/dmitrijs2005/authapp/internal/client/router"
	"github.com/dmitrijs2005/authapp/internal/client/session"
	"github.com/dmitrijs2005/authapp/internal/client/storage"
	"github.com/dmitrijs2005/authapp/internal/jwtx"
	"github.com/dmitrijs2005/authapp/internal/logging"
)

// CredentialStore is the persistent half of the session. storage.SessionStore
// implements it.
type CredentialStore interface {
	Load(ctx context.Context) (*storage.Credentials, error)
	Save(ctx context.Context, token string, user models.Identity) error
	SaveUser(ctx context.Context, user models.Identity) error
	PurgeUser(ctx context.Context) error
	Clear(ctx context.Context) error
}

// SessionManager keeps the persistent store and the shared session state in
// step with the remote API.
//
// Operations are not serialised against each other. If two of them race,
// whichever settles last decides the shared state.
type SessionManager struct {
	api    client.Client
	store  CredentialStore
	state  *session.Store
	nav    router.Navigator
	logger logging.Logger
	now    func() time.Time
}

// NewSessionManager wires a manager. The state store is expected to be fresh
// (loading) until Start returns.
func NewSessionManager(api client.Client, store CredentialStore, state *session.Store, nav router.Navigator, logger logging.Logger) *SessionManager {
	return &SessionManager{
		api:    api,
		store:  store,
		state:  state,
		nav:    nav,
		logger: logger.With("component", "session"),
		now:    time.Now,
	}
}

// Start runs the startup validation. It never fails: every problem ends in
// the anonymous state. Until it returns the state stays loading, so a hung
// liveness check keeps the client loading until ctx is done.
func (m *SessionManager) Start(ctx context.Context) {
	creds, err := m.store.Load(ctx)

	var perr *storage.ParseError
	switch {
	case errors.As(err, &perr):
		m.logger.Warn(ctx, "purging malformed session entry", "key", perr.Key, "error", perr.Err)
		if err := m.store.PurgeUser(context.WithoutCancel(ctx)); err != nil {
			m.logger.Error(ctx, "purge session entry", "error", err)
		}
		m.reset(ctx, router.RouteHome)
		return
	case err != nil:
		m.logger.Error(ctx, "read persisted session", "error", err)
		m.reset(ctx, router.RouteHome)
		return
	case creds == nil:
		// Leftovers such as a token without a user are dropped too.
		m.clearStore(ctx)
		m.reset(ctx, router.RouteHome)
		return
	}

	if jwtx.Expired(creds.Token, m.now()) {
		m.logger.Info(ctx, "persisted token expired", "user_id", creds.User.ID)
		m.clearStore(ctx)
		m.reset(ctx, router.RouteHome)
		return
	}

	// Any 2xx proves the token; the profile body is not needed here.
	_, err = m.api.GetProfile(client.WithToken(ctx, creds.Token), creds.User.ID)
	if err != nil && !errors.Is(err, client.ErrMalformedResponse) {
		m.logger.Info(ctx, "persisted session rejected", "user_id", creds.User.ID, "error", err)
		m.clearStore(ctx)
		m.reset(ctx, router.RouteHome)
		return
	}

	m.logger.Info(ctx, "session restored", "user_id", creds.User.ID)
	m.state.Set(session.Authenticated(creds.User, creds.Token))
}

// Login authenticates with username and password. On failure neither the
// store nor the state changes.
func (m *SessionManager) Login(ctx context.Context, req models.LoginRequest) error {
	resp, err := m.api.Login(ctx, req)
	if err != nil {
		return fail("login", MsgLoginFailed, err)
	}
	if resp.Token == "" || resp.UserID == 0 {
		return fail("login", MsgLoginFailed, client.ErrMalformedResponse)
	}

	return m.establish(ctx, "login", MsgLoginFailed, resp.Token, resp.Identity())
}

// Register creates an account and signs in as it. Pre-submit validation is
// up to the caller.
func (m *SessionManager) Register(ctx context.Context, req models.RegisterRequest) error {
	resp, err := m.api.Register(ctx, req)
	if err != nil {
		return fail("register", MsgRegisterFailed, err)
	}
	if resp.Token == "" || !resp.User.Valid() {
		return fail("register", MsgRegisterFailed, client.ErrMalformedResponse)
	}

	return m.establish(ctx, "register", MsgRegisterFailed, resp.Token, resp.User)
}

func (m *SessionManager) establish(ctx context.Context, op, fallback, token string, user models.Identity) error {
	if err := m.store.Save(ctx, token, user); err != nil {
		return fail(op, fallback, fmt.Errorf("persist session: %w", err))
	}

	m.logger.Info(ctx, "signed in", "op", op, "user_id", user.ID)
	m.state.Set(session.Authenticated(user, token))
	m.nav.Navigate(router.RouteProfile)
	return nil
}

// LoadProfile fetches the current profile to pre-fill the edit form.
func (m *SessionManager) LoadProfile(ctx context.Context) (*models.ProfileForm, error) {
	st := m.state.Get()
	if !st.IsAuthenticated {
		return nil, &OpError{Op: "load profile", Message: MsgNotAuthenticated, Err: ErrNotAuthenticated}
	}

	p, err := m.api.GetProfile(ctx, st.UserID())
	if err != nil {
		return nil, fail("load profile", MsgLoadProfileFailed, err)
	}
	return &models.ProfileForm{Username: p.Username, Email: p.Email}, nil
}

// UpdateProfile submits form for the current user. On success the password
// is wiped from form and the user fields of the session follow the form;
// the token and authentication flag stay as they were.
func (m *SessionManager) UpdateProfile(ctx context.Context, form *models.ProfileForm) error {
	st := m.state.Get()
	if !st.IsAuthenticated {
		return &OpError{Op: "update profile", Message: MsgNotAuthenticated, Err: ErrNotAuthenticated}
	}

	id := st.UserID()
	if err := m.api.UpdateProfile(ctx, id, form.Update()); err != nil {
		return fail("update profile", MsgUpdateFailed, err)
	}
	form.Password = ""

	user := *st.User
	if form.Username != "" {
		user.Username = form.Username
	}
	if form.Email != "" {
		user.Email = form.Email
	}

	if err := m.store.SaveUser(ctx, user); err != nil {
		// The server already holds the change; only the local copy is stale.
		m.logger.Error(ctx, "persist updated user", "user_id", id, "error", err)
	}

	m.state.Update(func(s *session.State) {
		if s.User != nil && s.User.ID == id {
			s.User.Username = user.Username
			s.User.Email = user.Email
		}
	})
	m.logger.Info(ctx, "profile updated", "user_id", id)
	return nil
}

// Logout ends the session from any state. It cannot fail; store errors are
// logged.
func (m *SessionManager) Logout(ctx context.Context) {
	m.clearStore(ctx)
	m.reset(ctx, router.RouteLogin)
}

// DeleteAccount removes the authenticated user on the server, logs out and
// shows the registration view. On failure the session is kept.
func (m *SessionManager) DeleteAccount(ctx context.Context) error {
	st := m.state.Get()
	if !st.IsAuthenticated {
		return &OpError{Op: "delete account", Message: MsgNotAuthenticated, Err: ErrNotAuthenticated}
	}

	if err := m.api.DeleteProfile(ctx, st.UserID()); err != nil {
		return fail("delete account", MsgDeleteFailed, err)
	}

	m.logger.Info(ctx, "account deleted", "user_id", st.UserID())
	m.Logout(ctx)
	m.nav.Navigate(router.RouteRegister)
	return nil
}

func (m *SessionManager) clearStore(ctx context.Context) {
	// A cancelled ctx must not leave stale credentials behind.
	if err := m.store.Clear(context.WithoutCancel(ctx)); err != nil {
		m.logger.Error(ctx, "clear persisted session", "error", err)
	}
}

func (m *SessionManager) reset(ctx context.Context, to router.Route) {
	m.state.Set(session.Anonymous())
	m.nav.Navigate(to)
	m.logger.Debug(ctx, "session reset", "route", string(to))
}
