// Package models holds the client-side data shapes exchanged with the
// authentication API and kept in the persistent store.
package models

// Identity is the authenticated user as the client knows it. It is the
// record persisted under the "user" store key.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Valid reports whether the identity can key profile requests.
func (i *Identity) Valid() bool {
	return i != nil && i.ID != 0
}
