package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/metinatakli/movie-booking-api/api"
	"github.com/metinatakli/movie-booking-api/internal/domain"
)

const (
	msgMissingFields     = "Missing required fields"
	msgInvalidBooking    = "Invalid booking request"
	msgShowNotFound      = "Show not found"
	msgMovieNotFound     = "Movie not found"
	msgBookingNotFound   = "Booking not found"
	msgInsufficientSeats = "Not enough seats available"
)

func (app *Application) logError(r *http.Request, err error) {
	app.contextGetLogger(r).Error(err.Error())
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.writeError(w, r, status, api.ErrorResponse{Message: message})
}

func (app *Application) writeError(w http.ResponseWriter, r *http.Request, status int, resp api.ErrorResponse) {
	resp.Success = false
	resp.RequestId = middleware.GetReqID(r.Context())
	resp.Timestamp = time.Now()

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	message := "The server encountered a problem and could not process your request"
	app.errorResponse(w, r, http.StatusInternalServerError, message)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "The requested resource not found"
	app.errorResponse(w, r, http.StatusNotFound, message)
}

func (app *Application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := "The method " + r.Method + " is not supported for this resource"
	app.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

// failedValidationResponse reports every rejected field. A missing required
// field keeps the short message clients already match on.
func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		app.badRequestResponse(w, r, err)
		return
	}

	resp := api.ErrorResponse{
		Message: msgInvalidBooking,
		Errors:  make([]api.ValidationIssue, len(vErr.Fields)),
	}

	for i, f := range vErr.Fields {
		resp.Errors[i] = api.ValidationIssue{Field: f.Field, Issue: f.Issue}

		if f.Issue == "is required" {
			resp.Message = msgMissingFields
		}
	}

	app.writeError(w, r, http.StatusBadRequest, resp)
}
