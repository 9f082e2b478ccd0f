// Package common contains shared constants and sentinel errors used across
// authapp components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token on
// authenticated requests; BearerScheme is its scheme prefix.
const (
	AuthorizationHeaderName = "Authorization"
	BearerScheme            = "Bearer"
)

// RequestIDHeaderName correlates client log lines with server log lines.
const RequestIDHeaderName = "X-Request-ID"

// Persistent store keys.
const (
	StoreKeyToken = "token"
	StoreKeyUser  = "user"
)
