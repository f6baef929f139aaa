package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/Nixie-Tech-LLC/namaz/internal/http/api"
	"github.com/Nixie-Tech-LLC/namaz/internal/tracker"
)

// trackerError maps a tracker failure onto a status code. The notice message
// becomes the error shown to the user and details carry the state to roll
// back to.
func trackerError(err error, message string, details any) *api.APIError {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, tracker.ErrNotAuthenticated):
		code = http.StatusUnauthorized
	case errors.Is(err, tracker.ErrUnknownPrayer),
		errors.Is(err, tracker.ErrInvalidDays),
		errors.Is(err, tracker.ErrInvalidDate):
		code = http.StatusBadRequest
	}
	return &api.APIError{Code: code, Message: message, Details: details}
}

type clock func() time.Time
