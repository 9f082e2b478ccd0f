package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/authapp/internal/common"
	"github.com/dmitrijs2005/authapp/internal/logging"
	"github.com/dmitrijs2005/authapp/internal/server/config"
	"github.com/dmitrijs2005/authapp/internal/server/users"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAPI(t *testing.T) http.Handler {
	t.Helper()
	svc := users.NewService(users.NewMemoryRepository(),
		&config.Config{SecretKey: "test-secret", TokenTTL: time.Hour},
		users.WithHashCost(bcrypt.MinCost))
	return NewRouter(svc, logging.Discard())
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func register(t *testing.T, h http.Handler, name string) registerResponse {
	t.Helper()
	rec := call(t, h, http.MethodPost, "/api/register", "", registerRequest{
		Username: name, Email: name + "@example.org", Password: "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[registerResponse](t, rec)
}

func TestRegister(t *testing.T) {
	h := newAPI(t)

	resp := register(t, h, "alice")
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, identity{ID: 1, Username: "alice", Email: "alice@example.org"}, resp.User)

	rec := call(t, h, http.MethodPost, "/api/register", "", registerRequest{Username: "Alice", Email: "x@example.org", Password: "secret1"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Username is already taken.", decode[errorResponse](t, rec).Message)

	rec = call(t, h, http.MethodPost, "/api/register", "", registerRequest{Username: "bo", Email: "bo@example.org", Password: "secret1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Message, "username")

	rec = call(t, h, http.MethodPost, "/api/register", "", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	h := newAPI(t)
	register(t, h, "alice")

	rec := call(t, h, http.MethodPost, "/api/login", "", loginRequest{Username: "alice", Password: "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[loginResponse](t, rec)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int64(1), resp.UserID)
	assert.Equal(t, "alice", resp.Username)

	rec = call(t, h, http.MethodPost, "/api/login", "", loginRequest{Username: "alice", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid username or password.", decode[errorResponse](t, rec).Message)
}

func TestProfile_Auth(t *testing.T) {
	h := newAPI(t)
	alice := register(t, h, "alice")
	bob := register(t, h, "bobby")

	tests := []struct {
		name   string
		path   string
		token  string
		header string
		want   int
	}{
		{name: "missing token", path: "/api/profile/1", want: http.StatusUnauthorized},
		{name: "wrong scheme", path: "/api/profile/1", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "garbage token", path: "/api/profile/1", token: "garbage", want: http.StatusUnauthorized},
		{name: "someone else", path: fmt.Sprintf("/api/profile/%d", bob.User.ID), token: alice.Token, want: http.StatusForbidden},
		{name: "bad id", path: "/api/profile/abc", token: alice.Token, want: http.StatusBadRequest},
		{name: "own profile", path: "/api/profile/1", token: alice.Token, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			switch {
			case tt.header != "":
				req.Header.Set(common.AuthorizationHeaderName, tt.header)
			case tt.token != "":
				req.Header.Set(common.AuthorizationHeaderName, "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			if tt.want == http.StatusForbidden {
				assert.Equal(t, "Access denied.", decode[errorResponse](t, rec).Message)
			}
			if tt.want != http.StatusOK {
				assert.NotEmpty(t, decode[errorResponse](t, rec).Message)
			}
		})
	}
}

func TestProfile_Lifecycle(t *testing.T) {
	h := newAPI(t)
	alice := register(t, h, "alice")
	path := fmt.Sprintf("/api/profile/%d", alice.User.ID)

	rec := call(t, h, http.MethodGet, path, alice.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, profileResponse{Username: "alice", Email: "alice@example.org"}, decode[profileResponse](t, rec))

	rec = call(t, h, http.MethodPut, path, alice.Token, updateRequest{Username: "alice", Email: "new@example.org"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, h, http.MethodGet, path, alice.Token, nil)
	assert.Equal(t, "new@example.org", decode[profileResponse](t, rec).Email)

	rec = call(t, h, http.MethodPut, path, alice.Token, updateRequest{Email: "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, h, http.MethodDelete, path, alice.Token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = call(t, h, http.MethodGet, path, alice.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "token of a deleted user")

	rec = call(t, h, http.MethodPost, "/api/login", "", loginRequest{Username: "alice", Password: "secret1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestID(t *testing.T) {
	h := newAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/profile/1", nil)
	req.Header.Set(common.RequestIDHeaderName, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(common.RequestIDHeaderName))

	req = httptest.NewRequest(http.MethodGet, "/api/profile/1", nil)
	req.Header.Set(common.RequestIDHeaderName, strings.Repeat("x", maxRequestIDLen+1))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	got := rec.Header().Get(common.RequestIDHeaderName)
	assert.NotEmpty(t, got)
	assert.Len(t, got, 36)
}

func TestUnknownRoute(t *testing.T) {
	rec := call(t, newAPI(t), http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found.", decode[errorResponse](t, rec).Message)
}

type stubService struct {
	UserService
	authErr error
}

func (s stubService) Authenticate(context.Context, string) (int64, error) { return 0, s.authErr }

func TestBearerAuth_StoreFailureIs500(t *testing.T) {
	h := NewRouter(stubService{authErr: errors.New("disk on fire")}, logging.Discard())
	rec := call(t, h, http.MethodGet, "/api/profile/1", "tok", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error.", decode[errorResponse](t, rec).Message)
}

func TestCheckOwner(t *testing.T) {
	require.NoError(t, checkOwner(7, 7))
	err := checkOwner(7, 8)
	assert.ErrorIs(t, err, common.ErrorForbidden)
	status, _ := statusOf(err)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: %w", common.ErrorValidation, validation.Errors{"email": errors.New("must be a valid email address")}), http.StatusBadRequest},
		{common.ErrorValidation, http.StatusBadRequest},
		{fmt.Errorf("error creating user: %w", common.ErrorAlreadyExists), http.StatusConflict},
		{common.ErrorUnauthorized, http.StatusUnauthorized},
		{common.ErrTokenExpired, http.StatusUnauthorized},
		{common.ErrorForbidden, http.StatusForbidden},
		{common.ErrorNotFound, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got, msg := statusOf(tt.err)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, msg)
		})
	}
}
