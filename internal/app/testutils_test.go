package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/metinatakli/movie-booking-api/api"
	"github.com/metinatakli/movie-booking-api/internal/booking"
	"github.com/metinatakli/movie-booking-api/internal/domain"
	"github.com/metinatakli/movie-booking-api/internal/mocks"
	"github.com/metinatakli/movie-booking-api/internal/validator"
)

type stubBookingService struct {
	createFunc func(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error)
}

func (s *stubBookingService) Create(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	return s.createFunc(ctx, input)
}

func newTestApplication(t *testing.T, opts ...func(*Application)) *Application {
	t.Helper()

	router, err := api.NewRouter()
	if err != nil {
		t.Fatalf("Failed to build OpenAPI router: %v", err)
	}

	app := &Application{
		config:         Config{Env: "test", Currency: "INR"},
		validator:      validator.NewValidator(),
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		openapi:        router,
		movieRepo:      &mocks.MockMovieRepo{},
		showRepo:       &mocks.MockShowRepo{},
		bookingRepo:    &mocks.MockBookingRepo{},
		bookingService: &stubBookingService{},
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// serve runs a request through the full router, middleware included.
func serve(app *Application, method, url string, body any) *httptest.ResponseRecorder {
	var reader io.Reader

	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		jsonData, err := json.Marshal(b)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	app.Routes().ServeHTTP(w, r)

	return w
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantErrMessage string) api.ErrorResponse {
	t.Helper()

	if w.Code != wantStatus {
		t.Fatalf("Status = %d, want %d, body: %s", w.Code, wantStatus, w.Body.String())
	}

	var errorResp api.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}

	if errorResp.Success {
		t.Errorf("Error response has success = true")
	}

	if wantErrMessage != "" && errorResp.Message != wantErrMessage {
		t.Errorf("Error message = %v, want %v", errorResp.Message, wantErrMessage)
	}

	return errorResp
}

func decodeEnvelope[T any](t *testing.T, w *httptest.ResponseRecorder) api.Envelope[T] {
	t.Helper()

	var resp api.Envelope[T]
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if !resp.Success {
		t.Errorf("Response has success = false")
	}

	return resp
}

func ptr[T any](v T) *T {
	return &v
}
