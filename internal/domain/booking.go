package domain

import (
	"context"
	"time"
)

// BookingStatusConfirmed is the only status a booking ever has.
const BookingStatusConfirmed = "confirmed"

type Booking struct {
	ID            int64
	BookingID     string
	ShowID        int
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	SeatsBooked   int
	TotalAmount   Amount
	Status        string
	BookingDate   time.Time
}

type BookingSummary struct {
	Booking
	ShowDate    time.Time
	ShowTime    string
	TheaterName string
	MovieName   string
}

type BookingDetail struct {
	BookingSummary
	TheaterLocation string
	Price           Amount
	MoviePosterUrl  string
}

type BookingRepository interface {
	// Create reserves booking.SeatsBooked seats on the show and inserts the
	// booking in a single transaction. On success it fills in ID, TotalAmount,
	// Status and BookingDate. It returns ErrShowNotFound, ErrInsufficientSeats
	// or ErrDuplicateBookingID without having written anything.
	Create(ctx context.Context, booking *Booking) error
	GetLatest(ctx context.Context, pagination Pagination) ([]BookingSummary, *Metadata, error)
	GetByReference(ctx context.Context, ref string) (*BookingDetail, error)
}
