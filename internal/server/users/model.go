// Package users holds the accounts of the reference API server: an
// in-memory repository and the service that registers, authenticates,
// updates and deletes users.
package users

import "time"

type User struct {
	ID           int64
	UserName     string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
