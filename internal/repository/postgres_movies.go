package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/movie-booking-api/internal/domain"
)

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

func (p *PostgresMovieRepository) GetAllActive(ctx context.Context) ([]domain.MovieSummary, error) {
	query := `
		SELECT
			m.id,
			m.name,
			m.description,
			m.genre,
			m.language,
			m.duration,
			m.rating,
			m.release_date,
			m.poster_url,
			m.is_active,
			MIN(s.price),
			MAX(s.price),
			COALESCE(
				array_agg(DISTINCT to_char(s.show_date, 'YYYY-MM-DD') ORDER BY to_char(s.show_date, 'YYYY-MM-DD'))
					FILTER (WHERE s.id IS NOT NULL),
				'{}'
			)
		FROM movies m
		LEFT JOIN shows s ON m.id = s.movie_id
		WHERE m.is_active
		GROUP BY m.id
		ORDER BY m.release_date DESC, m.id
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := make([]domain.MovieSummary, 0)

	for rows.Next() {
		var movie domain.MovieSummary
		var minPrice, maxPrice pgtype.Int8

		err := rows.Scan(
			&movie.ID,
			&movie.Name,
			&movie.Description,
			&movie.Genre,
			&movie.Language,
			&movie.Duration,
			&movie.Rating,
			&movie.ReleaseDate,
			&movie.PosterUrl,
			&movie.IsActive,
			&minPrice,
			&maxPrice,
			&movie.AvailableDates,
		)
		if err != nil {
			return nil, err
		}

		movie.MinPrice = toAmount(minPrice)
		movie.MaxPrice = toAmount(maxPrice)

		movies = append(movies, movie)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return movies, nil
}

func (p *PostgresMovieRepository) GetByID(ctx context.Context, id int) (*domain.Movie, error) {
	query := `
		SELECT id, name, description, genre, language, duration, rating, release_date, poster_url, is_active
		FROM movies
		WHERE id = $1 AND is_active
	`

	var movie domain.Movie

	err := p.db.QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Name,
		&movie.Description,
		&movie.Genre,
		&movie.Language,
		&movie.Duration,
		&movie.Rating,
		&movie.ReleaseDate,
		&movie.PosterUrl,
		&movie.IsActive,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovieNotFound
		}

		return nil, err
	}

	return &movie, nil
}

func toAmount(v pgtype.Int8) *domain.Amount {
	if !v.Valid {
		return nil
	}

	amount := domain.Amount(v.Int64)

	return &amount
}
