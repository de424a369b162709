package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/metinatakli/movie-booking-api/api"
	"github.com/metinatakli/movie-booking-api/internal/jsonutil"
)

// ValidateRequest checks path and query parameters against the operation the
// router resolves for each request. Bodies are left to the handlers.
// Requests the document does not describe pass through untouched so the
// mux can answer them with 404 or 405.
func ValidateRequest(router routers.Router) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options: &openapi3filter.Options{
					ExcludeRequestBody: true,
					AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				},
			}

			err = openapi3filter.ValidateRequest(r.Context(), input)
			if err != nil {
				writeBadRequest(w, r, requestErrorMessage(err))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requestErrorMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) && reqErr.Parameter != nil {
		return fmt.Sprintf("invalid %s parameter %q", reqErr.Parameter.In, reqErr.Parameter.Name)
	}

	return "invalid request"
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	resp := api.ErrorResponse{
		Success:   false,
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	jsonutil.WriteJSON(w, http.StatusBadRequest, resp, nil)
}
