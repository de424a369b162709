package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/movie-booking-api/api"
	"github.com/metinatakli/movie-booking-api/internal/booking"
	"github.com/metinatakli/movie-booking-api/internal/domain"
	"github.com/oapi-codegen/runtime/types"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 50
)

func (app *Application) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var input api.CreateBookingRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	created, err := app.bookingService.Create(r.Context(), booking.CreateBookingInput{
		ShowID:        input.ShowID,
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		CustomerPhone: input.CustomerPhone,
		SeatsBooked:   input.SeatsBooked,
	})
	if err != nil {
		var vErr *domain.ValidationError

		switch {
		case errors.As(err, &vErr):
			app.failedValidationResponse(w, r, vErr)
		case errors.Is(err, domain.ErrShowNotFound):
			app.errorResponse(w, r, http.StatusNotFound, msgShowNotFound)
		case errors.Is(err, domain.ErrInsufficientSeats):
			app.errorResponse(w, r, http.StatusBadRequest, msgInsufficientSeats)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := api.Envelope[api.BookingCreated]{
		Success: true,
		Message: "Booking confirmed successfully!",
		Data: api.BookingCreated{
			BookingID:   created.BookingID,
			ID:          created.ID,
			TotalAmount: int64(created.TotalAmount),
		},
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/api/bookings/%s", created.BookingID))

	err = app.writeJSON(w, http.StatusCreated, resp, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBookings(w http.ResponseWriter, r *http.Request) {
	params := api.GetBookingsParams{
		Page:     readIntQuery(r, "page"),
		PageSize: readIntQuery(r, "pageSize"),
	}

	err := app.validator.Struct(params)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid pagination parameters"))
		return
	}

	pagination := toPagination(params)

	bookings, metadata, err := app.bookingRepo.GetLatest(r.Context(), pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.Envelope[[]api.BookingSummary]{
		Success:  true,
		Data:     toBookingSummaries(bookings),
		Metadata: toApiMetadata(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// GetBookingByReference accepts either the public booking id or the
// internal numeric id.
func (app *Application) GetBookingByReference(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "id")

	detail, err := app.bookingRepo.GetByReference(r.Context(), ref)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.errorResponse(w, r, http.StatusNotFound, msgBookingNotFound)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := api.Envelope[api.BookingDetail]{
		Success: true,
		Data: api.BookingDetail{
			BookingSummary:       toBookingSummary(detail.BookingSummary),
			TheaterLocation:      detail.TheaterLocation,
			Price:                int64(detail.Price),
			PosterUrl:            detail.MoviePosterUrl,
			TotalAmountFormatted: detail.TotalAmount.Format(app.config.Currency),
		},
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toPagination(params api.GetBookingsParams) domain.Pagination {
	pagination := domain.Pagination{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}

	if params.Page != nil {
		pagination.Page = *params.Page
	}
	if params.PageSize != nil {
		pagination.PageSize = *params.PageSize
	}

	return pagination
}

func toBookingSummaries(bookings []domain.BookingSummary) []api.BookingSummary {
	res := make([]api.BookingSummary, len(bookings))

	for i, b := range bookings {
		res[i] = toBookingSummary(b)
	}

	return res
}

func toBookingSummary(b domain.BookingSummary) api.BookingSummary {
	return api.BookingSummary{
		ID:            b.ID,
		BookingID:     b.BookingID,
		ShowID:        b.ShowID,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		CustomerPhone: b.CustomerPhone,
		SeatsBooked:   b.SeatsBooked,
		TotalAmount:   int64(b.TotalAmount),
		Status:        b.Status,
		BookingDate:   b.BookingDate,
		ShowDate:      types.Date{Time: b.ShowDate},
		ShowTime:      b.ShowTime,
		TheaterName:   b.TheaterName,
		MovieName:     b.MovieName,
	}
}

func toApiMetadata(metadata *domain.Metadata) *api.Metadata {
	if metadata == nil {
		return nil
	}

	return &api.Metadata{
		CurrentPage:  metadata.CurrentPage,
		FirstPage:    metadata.FirstPage,
		LastPage:     metadata.LastPage,
		PageSize:     metadata.PageSize,
		TotalRecords: metadata.TotalRecords,
	}
}
