package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/movie-booking-api/internal/domain"
)

const showListingColumns = `
	s.id,
	s.movie_id,
	s.theater_name,
	s.theater_location,
	s.show_date,
	s.show_time::text,
	s.price,
	s.total_seats,
	s.available_seats,
	m.name,
	m.poster_url
`

type PostgresShowRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowRepository(db *pgxpool.Pool) *PostgresShowRepository {
	return &PostgresShowRepository{
		db: db,
	}
}

func (p *PostgresShowRepository) GetByMovie(ctx context.Context, movieID int, date *time.Time) ([]domain.ShowListing, error) {
	query := `
		SELECT ` + showListingColumns + `
		FROM shows s
		JOIN movies m ON s.movie_id = m.id
		WHERE s.movie_id = $1
			AND s.available_seats > 0
			AND ($2::date IS NULL OR s.show_date = $2::date)
		ORDER BY s.show_date, s.show_time, s.id
	`

	rows, err := p.db.Query(ctx, query, movieID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shows := make([]domain.ShowListing, 0)

	for rows.Next() {
		show, err := scanShowListing(rows)
		if err != nil {
			return nil, err
		}

		shows = append(shows, *show)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return shows, nil
}

func (p *PostgresShowRepository) GetByID(ctx context.Context, id int) (*domain.ShowListing, error) {
	query := `
		SELECT ` + showListingColumns + `
		FROM shows s
		JOIN movies m ON s.movie_id = m.id
		WHERE s.id = $1
	`

	show, err := scanShowListing(p.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrShowNotFound
		}

		return nil, err
	}

	return show, nil
}

func scanShowListing(row pgx.Row) (*domain.ShowListing, error) {
	var show domain.ShowListing

	err := row.Scan(
		&show.ID,
		&show.MovieID,
		&show.TheaterName,
		&show.TheaterLocation,
		&show.Date,
		&show.Time,
		&show.Price,
		&show.TotalSeats,
		&show.AvailableSeats,
		&show.MovieName,
		&show.MoviePosterUrl,
	)
	if err != nil {
		return nil, err
	}

	return &show, nil
}
