package models

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Validate checks the registration constraints shown to the user before
// submitting. The server stays authoritative; these rules only save a round
// trip for obvious mistakes.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.RuneLength(3, 0)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.RuneLength(6, 0)),
	)
}

// Validate requires both login fields.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// ProfileForm is the editable profile as shown by the profile view. Password
// is the optional new password; it is cleared after a successful update and
// never stored.
type ProfileForm struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Update converts the form into the request body.
func (f *ProfileForm) Update() ProfileUpdate {
	return ProfileUpdate{Username: f.Username, Email: f.Email, Password: f.Password}
}

// Validate checks the optional fields only when they are filled in.
func (f ProfileForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Username, validation.RuneLength(3, 0)),
		validation.Field(&f.Email, is.Email),
		validation.Field(&f.Password, validation.RuneLength(6, 0)),
	)
}
