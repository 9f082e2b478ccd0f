package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/authapp/internal/client/models"
	"github.com/dmitrijs2005/authapp/internal/client/router"
	"github.com/dmitrijs2005/authapp/internal/client/session"
	"github.com/dmitrijs2005/authapp/internal/common"
	validation "github.com/go-ozzo/ozzo-validation"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// sessionManager is the part of services.SessionManager the views use.
type sessionManager interface {
	Start(ctx context.Context)
	Login(ctx context.Context, req models.LoginRequest) error
	Register(ctx context.Context, req models.RegisterRequest) error
	LoadProfile(ctx context.Context) (*models.ProfileForm, error)
	UpdateProfile(ctx context.Context, form *models.ProfileForm) error
	Logout(ctx context.Context)
	DeleteAccount(ctx context.Context) error
}

// view is what the App renders after a navigation.
type view interface {
	Render()
}

// firstViolation picks the first failing field, in form order, of an ozzo
// validation error.
func firstViolation(err error, fields ...string) string {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for _, f := range fields {
			if e, ok := verrs[f]; ok && e != nil {
				return f + ": " + e.Error()
			}
		}
	}
	return err.Error()
}

type homeView struct {
	state *session.Store
	out   io.Writer
}

func newHomeView(state *session.Store, out io.Writer) *homeView {
	return &homeView{state: state, out: out}
}

func (v *homeView) Render() {
	st := v.state.Get()
	fmt.Fprintln(v.out, "== Home ==")
	if st.IsAuthenticated {
		fmt.Fprintf(v.out, "Welcome back, %s. Type 'profile' to see your account.\n", st.Username())
		return
	}
	fmt.Fprintln(v.out, "Welcome to authapp. Type 'register' to create an account or 'login' to sign in.")
}

type loginView struct {
	state   *session.Store
	manager sessionManager
	reader  *bufio.Reader
	out     io.Writer
}

func newLoginView(state *session.Store, manager sessionManager, reader *bufio.Reader, out io.Writer) *loginView {
	return &loginView{state: state, manager: manager, reader: reader, out: out}
}

func (v *loginView) Render() {
	fmt.Fprintln(v.out, "== Login ==")
	if st := v.state.Get(); st.IsAuthenticated {
		fmt.Fprintf(v.out, "Already signed in as %s.\n", st.Username())
	}
}

// Submit reads the credentials and signs in. On success the manager moves
// on to the profile view.
func (v *loginView) Submit(ctx context.Context) error {
	username, err := getSimpleText(v.reader, "Username", v.out)
	if err != nil {
		return err
	}
	password, err := getPassword(v.reader, "Password", v.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	req := models.LoginRequest{Username: username, Password: string(password)}
	if err := req.Validate(); err != nil {
		fmt.Fprintln(v.out, firstViolation(err, "username", "password"))
		return err
	}

	if err := v.manager.Login(ctx, req); err != nil {
		fmt.Fprintln(v.out, err.Error())
		return err
	}
	return nil
}

type registerView struct {
	state   *session.Store
	manager sessionManager
	reader  *bufio.Reader
	out     io.Writer
}

func newRegisterView(state *session.Store, manager sessionManager, reader *bufio.Reader, out io.Writer) *registerView {
	return &registerView{state: state, manager: manager, reader: reader, out: out}
}

func (v *registerView) Render() {
	fmt.Fprintln(v.out, "== Register ==")
	if !v.state.Get().IsAuthenticated {
		fmt.Fprintln(v.out, "Username needs 3+ characters, password 6+.")
	}
}

// Submit reads the registration form, checks it locally and creates the
// account.
func (v *registerView) Submit(ctx context.Context) error {
	username, err := getSimpleText(v.reader, "Username", v.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(v.reader, "Email", v.out)
	if err != nil {
		return err
	}
	password, err := getPassword(v.reader, "Password", v.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	req := models.RegisterRequest{Username: username, Email: email, Password: string(password)}
	if err := req.Validate(); err != nil {
		fmt.Fprintln(v.out, firstViolation(err, "username", "email", "password"))
		return err
	}

	if err := v.manager.Register(ctx, req); err != nil {
		fmt.Fprintln(v.out, err.Error())
		return err
	}
	return nil
}

type profileView struct {
	state   *session.Store
	manager sessionManager
	reader  *bufio.Reader
	out     io.Writer
}

func newProfileView(state *session.Store, manager sessionManager, reader *bufio.Reader, out io.Writer) *profileView {
	return &profileView{state: state, manager: manager, reader: reader, out: out}
}

func (v *profileView) Render() {
	st := v.state.Get()
	fmt.Fprintln(v.out, "== Profile ==")
	if !st.IsAuthenticated {
		fmt.Fprintln(v.out, "You are not logged in.")
		return
	}
	fmt.Fprintf(v.out, "Signed in as %s. Commands: update, logout, delete.\n", st.Username())
}

// Show prints the profile as the server has it.
func (v *profileView) Show(ctx context.Context) error {
	form, err := v.manager.LoadProfile(ctx)
	if err != nil {
		fmt.Fprintln(v.out, err.Error())
		return err
	}
	fmt.Fprintf(v.out, "Username: %s\nEmail:    %s\n", form.Username, form.Email)
	return nil
}

// Edit pre-fills the form from the server, lets the user change it and
// submits the result. Empty answers keep the current values.
func (v *profileView) Edit(ctx context.Context) error {
	form, err := v.manager.LoadProfile(ctx)
	if err != nil {
		fmt.Fprintln(v.out, err.Error())
		return err
	}

	username, err := getSimpleText(v.reader, fmt.Sprintf("Username [%s]", form.Username), v.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(v.reader, fmt.Sprintf("Email [%s]", form.Email), v.out)
	if err != nil {
		return err
	}
	password, err := getPassword(v.reader, "New password (empty keeps the current one)", v.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if username != "" {
		form.Username = username
	}
	if email != "" {
		form.Email = email
	}
	form.Password = string(password)

	if err := form.Validate(); err != nil {
		fmt.Fprintln(v.out, firstViolation(err, "username", "email", "password"))
		return err
	}

	if err := v.manager.UpdateProfile(ctx, form); err != nil {
		fmt.Fprintln(v.out, err.Error())
		return err
	}
	fmt.Fprintln(v.out, "Profile updated.")
	return nil
}

// Delete asks for confirmation and removes the account.
func (v *profileView) Delete(ctx context.Context) error {
	answer, err := getSimpleText(v.reader, "Type 'yes' to delete your account permanently", v.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(v.out, "Cancelled.")
		return nil
	}

	if err := v.manager.DeleteAccount(ctx); err != nil {
		fmt.Fprintln(v.out, err.Error())
		return err
	}
	fmt.Fprintln(v.out, "Account deleted.")
	return nil
}

func routeViews(home *homeView, login *loginView, register *registerView, profile *profileView) map[router.Route]view {
	return map[router.Route]view{
		router.RouteHome:     home,
		router.RouteLogin:    login,
		router.RouteRegister: register,
		router.RouteProfile:  profile,
	}
}
