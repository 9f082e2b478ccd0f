package client

import (
	"net/http"

	"github.com/dmitrijs2005/authapp/internal/common"
	"github.com/google/uuid"
)

// bearerTransport decorates outgoing requests with the bearer token and a
// request id. The caller's request is never modified.
type bearerTransport struct {
	base   http.RoundTripper
	tokens TokenSource
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())

	token, ok := TokenFromContext(r.Context())
	if !ok && t.tokens != nil {
		token = t.tokens.Token()
	}
	if token != "" && r.Header.Get(common.AuthorizationHeaderName) == "" {
		r.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	if r.Header.Get(common.RequestIDHeaderName) == "" {
		r.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	}

	return t.base.RoundTrip(r)
}
