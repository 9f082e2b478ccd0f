package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/authapp/internal/client/client"
	"github.com/dmitrijs2005/authapp/internal/client/config"
	"github.com/dmitrijs2005/authapp/internal/client/router"
	"github.com/dmitrijs2005/authapp/internal/client/services"
	"github.com/dmitrijs2005/authapp/internal/client/session"
	"github.com/dmitrijs2005/authapp/internal/client/storage"
	"github.com/dmitrijs2005/authapp/internal/logging"
)

// MsgLoginFirst is printed by commands that need a session.
const MsgLoginFirst = "Please log in first."

type App struct {
	state   *session.Store
	manager sessionManager
	router  *router.Router
	reader  *bufio.Reader
	out     io.Writer
	logger  logging.Logger

	views    map[router.Route]view
	login    *loginView
	register *registerView
	profile  *profileView

	closers []func() error
}

// NewApp builds the whole client from cfg: logger, session store database,
// API client, session manager and views.
func NewApp(cfg *config.Config) (*App, error) {
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()

	db, err := storage.InitDatabase(ctx, cfg.StorePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", cfg.StorePath, "error", err)
		return nil, err
	}

	state := session.NewStore()

	api, err := client.NewHTTPClient(cfg.APIBaseURL, state, cfg.RequestTimeout, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	nav := router.New()
	manager := services.NewSessionManager(api, storage.NewSessionStore(db), state, nav, logger)

	app := New(state, manager, nav, os.Stdin, os.Stdout, logger)
	app.closers = append(app.closers, db.Close)
	return app, nil
}

// New assembles an App from ready parts. The router is hooked so that every
// navigation renders its view to out.
func New(state *session.Store, manager sessionManager, nav *router.Router, in io.Reader, out io.Writer, logger logging.Logger) *App {
	reader := bufio.NewReader(in)

	a := &App{
		state:    state,
		manager:  manager,
		router:   nav,
		reader:   reader,
		out:      out,
		logger:   logger,
		login:    newLoginView(state, manager, reader, out),
		register: newRegisterView(state, manager, reader, out),
		profile:  newProfileView(state, manager, reader, out),
	}
	a.views = routeViews(newHomeView(state, out), a.login, a.register, a.profile)
	nav.OnNavigate(a.render)
	return a
}

func (a *App) render(route router.Route) {
	if v, ok := a.views[route]; ok {
		v.Render()
	}
}

// Run validates the persisted session and then serves the REPL until the
// user exits, input ends or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.close(ctx)

	fmt.Fprintln(a.out, "Welcome to authapp CLI (type 'help' for commands)")
	a.start(ctx)
	runREPL(ctx, a, a.reader, a.out)
}

func (a *App) start(ctx context.Context) {
	fmt.Fprintln(a.out, "Loading...")
	a.manager.Start(ctx)

	// A restored session does not navigate, so show the landing view here.
	if a.state.Get().IsAuthenticated {
		a.render(router.RouteHome)
	}
}

func (a *App) close(ctx context.Context) {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn(ctx, "close", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.state.Get().IsAuthenticated
}

func (a *App) status() string {
	if st := a.state.Get(); st.IsAuthenticated {
		return fmt.Sprintf(" (%s)", st.Username())
	}
	return ""
}

func (a *App) Home(ctx context.Context) error {
	a.router.Navigate(router.RouteHome)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	a.router.Navigate(router.RouteLogin)
	return a.login.Submit(ctx)
}

func (a *App) Register(ctx context.Context) error {
	a.router.Navigate(router.RouteRegister)
	return a.register.Submit(ctx)
}

func (a *App) Profile(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, MsgLoginFirst)
		return services.ErrNotAuthenticated
	}
	a.router.Navigate(router.RouteProfile)
	return a.profile.Show(ctx)
}

func (a *App) Update(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, MsgLoginFirst)
		return services.ErrNotAuthenticated
	}
	return a.profile.Edit(ctx)
}

func (a *App) Delete(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, MsgLoginFirst)
		return services.ErrNotAuthenticated
	}
	return a.profile.Delete(ctx)
}

// Logout always succeeds; the manager navigates to the login view.
func (a *App) Logout(ctx context.Context) error {
	a.manager.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}
