package domain

import (
	"context"
	"time"
)

const DateLayout = "2006-01-02"

type Show struct {
	ID              int
	MovieID         int
	TheaterName     string
	TheaterLocation string
	Date            time.Time
	Time            string
	Price           Amount
	TotalSeats      int
	AvailableSeats  int
}

type ShowListing struct {
	Show
	MovieName      string
	MoviePosterUrl string
}

type ShowRepository interface {
	// GetByMovie returns the shows of a movie that still have seats left. A
	// nil date returns every date.
	GetByMovie(ctx context.Context, movieID int, date *time.Time) ([]ShowListing, error)
	GetByID(ctx context.Context, id int) (*ShowListing, error)
}
