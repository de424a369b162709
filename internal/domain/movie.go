package domain

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type Movie struct {
	ID          int
	Name        string
	Description string
	Genre       string
	Language    string
	Duration    int
	Rating      pgtype.Numeric
	ReleaseDate time.Time
	PosterUrl   string
	IsActive    bool
}

// MovieSummary is a movie as listed in the catalogue, with its price range and
// the dates it has shows on. MinPrice and MaxPrice are nil for movies without
// any show.
type MovieSummary struct {
	Movie
	MinPrice       *Amount
	MaxPrice       *Amount
	AvailableDates []string
}

type MovieRepository interface {
	GetAllActive(ctx context.Context) ([]MovieSummary, error)
	GetByID(ctx context.Context, id int) (*Movie, error)
}
