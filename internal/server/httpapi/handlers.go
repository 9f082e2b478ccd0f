package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/authapp/internal/logging"
	"github.com/dmitrijs2005/authapp/internal/server/users"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// UserService is the part of users.Service the API needs.
type UserService interface {
	Register(ctx context.Context, in users.RegisterInput) (*users.User, string, error)
	Login(ctx context.Context, userName, password string) (*users.User, string, error)
	Get(ctx context.Context, id int64) (*users.User, error)
	Update(ctx context.Context, id int64, in users.UpdateInput) (*users.User, error)
	Delete(ctx context.Context, id int64) error
	Authenticate(ctx context.Context, token string) (int64, error)
}

type handler struct {
	svc    UserService
	logger logging.Logger
}

// NewRouter returns the API routes backed by svc.
func NewRouter(svc UserService, logger logging.Logger) http.Handler {
	h := &handler{svc: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog(logger))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)

		r.Route("/profile/{id}", func(r chi.Router) {
			r.Use(bearerAuth(svc.Authenticate))
			r.Use(sameUser)
			r.Get("/", h.getProfile)
			r.Put("/", h.updateProfile)
			r.Delete("/", h.deleteProfile)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	return r
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := statusOf(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(r.Context(), op+" failed", "request_id", RequestIDFromContext(r.Context()), "error", err)
	}
	writeMessage(w, status, msg)
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, "register", err)
		return
	}

	user, token, err := h.svc.Register(r.Context(), users.RegisterInput(req))
	if err != nil {
		h.fail(w, r, "register", err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		Token: token,
		User:  identity{ID: user.ID, Username: user.UserName, Email: user.Email},
	})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, "login", err)
		return
	}

	user, token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, r, "login", err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, UserID: user.ID, Username: user.UserName})
}

func (h *handler) getProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := UserIDFromContext(r.Context())

	user, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Username: user.UserName, Email: user.Email})
}

func (h *handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := UserIDFromContext(r.Context())

	var req updateRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, "update profile", err)
		return
	}

	user, err := h.svc.Update(r.Context(), id, users.UpdateInput(req))
	if err != nil {
		h.fail(w, r, "update profile", err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Username: user.UserName, Email: user.Email})
}

func (h *handler) deleteProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := UserIDFromContext(r.Context())

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.fail(w, r, "delete profile", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
