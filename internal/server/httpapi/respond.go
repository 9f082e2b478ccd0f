package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/authapp/internal/common"
	validation "github.com/go-ozzo/ozzo-validation"
)

const maxBodySize = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

// statusOf maps service errors onto HTTP statuses and the message shown to
// the caller. Internal failures never leak their details.
func statusOf(err error) (int, string) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		return http.StatusBadRequest, verrs.Error()
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, "Invalid request."
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, "Username is already taken."
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "Invalid username or password."
	case errors.Is(err, common.ErrTokenExpired), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid or expired token."
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, "Access denied."
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "User not found."
	default:
		return http.StatusInternalServerError, "Internal server error."
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		return common.ErrorValidation
	}
	return nil
}
