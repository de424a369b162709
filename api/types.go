package api

import (
	"time"

	"github.com/oapi-codegen/runtime/types"
)

// Envelope is the body of every successful response.
type Envelope[T any] struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message,omitempty"`
	Data     T         `json:"data"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

type ErrorResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Errors    []ValidationIssue `json:"errors,omitempty"`
	RequestId string            `json:"requestId,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

type ValidationIssue struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type HealthcheckResponse struct {
	Success    bool       `json:"success"`
	Message    string     `json:"message"`
	Timestamp  time.Time  `json:"timestamp"`
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type CreateBookingRequest struct {
	ShowID        int    `json:"show_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	SeatsBooked   int    `json:"seats_booked"`
}

// BookingCreated keeps both id spellings the web client reads: booking_id is
// the public id and bookingId the internal one.
type BookingCreated struct {
	BookingID   string `json:"booking_id"`
	ID          int64  `json:"bookingId"`
	TotalAmount int64  `json:"total_amount"`
}

type GetBookingsParams struct {
	Page     *int `validate:"omitempty,min=1"`
	PageSize *int `validate:"omitempty,min=1,max=100"`
}

type BookingSummary struct {
	ID            int64      `json:"id"`
	BookingID     string     `json:"booking_id"`
	ShowID        int        `json:"show_id"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	CustomerPhone string     `json:"customer_phone,omitempty"`
	SeatsBooked   int        `json:"seats_booked"`
	TotalAmount   int64      `json:"total_amount"`
	Status        string     `json:"status"`
	BookingDate   time.Time  `json:"booking_date"`
	ShowDate      types.Date `json:"show_date"`
	ShowTime      string     `json:"show_time"`
	TheaterName   string     `json:"theater_name"`
	MovieName     string     `json:"movie_name"`
}

type BookingDetail struct {
	BookingSummary
	TheaterLocation      string `json:"theater_location"`
	Price                int64  `json:"price"`
	PosterUrl            string `json:"poster_url"`
	TotalAmountFormatted string `json:"total_amount_formatted"`
}

type Movie struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Genre       string     `json:"genre"`
	Language    string     `json:"language"`
	Duration    int        `json:"duration"`
	Rating      *float64   `json:"rating"`
	ReleaseDate types.Date `json:"release_date"`
	PosterUrl   string     `json:"poster_url"`
	IsActive    bool       `json:"is_active"`
}

type MovieSummary struct {
	Movie
	MinPrice       *int64   `json:"min_price"`
	MaxPrice       *int64   `json:"max_price"`
	AvailableDates []string `json:"available_dates"`
}

type Show struct {
	ID              int        `json:"id"`
	MovieID         int        `json:"movie_id"`
	TheaterName     string     `json:"theater_name"`
	TheaterLocation string     `json:"theater_location"`
	ShowDate        types.Date `json:"show_date"`
	ShowTime        string     `json:"show_time"`
	Price           int64      `json:"price"`
	PriceFormatted  string     `json:"price_formatted"`
	TotalSeats      int        `json:"total_seats"`
	AvailableSeats  int        `json:"available_seats"`
	MovieName       string     `json:"movie_name"`
	PosterUrl       string     `json:"poster_url"`
}
