package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/metinatakli/movie-booking-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

const activeMoviesKey = "movies:active"

// CachedMovieRepository keeps the movie catalogue in Redis for a short TTL.
// Redis failures are logged and the read falls through to the wrapped
// repository.
type CachedMovieRepository struct {
	next   domain.MovieRepository
	redis  redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedMovieRepository(
	next domain.MovieRepository,
	client redis.UniversalClient,
	ttl time.Duration,
	logger *slog.Logger) *CachedMovieRepository {

	return &CachedMovieRepository{
		next:   next,
		redis:  client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedMovieRepository) GetAllActive(ctx context.Context) ([]domain.MovieSummary, error) {
	var movies []domain.MovieSummary

	if c.load(ctx, activeMoviesKey, &movies) {
		return movies, nil
	}

	movies, err := c.next.GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, activeMoviesKey, movies)

	return movies, nil
}

func (c *CachedMovieRepository) GetByID(ctx context.Context, id int) (*domain.Movie, error) {
	key := movieKey(id)

	var movie domain.Movie

	if c.load(ctx, key, &movie) {
		return &movie, nil
	}

	m, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, m)

	return m, nil
}

func (c *CachedMovieRepository) load(ctx context.Context, key string, dst any) bool {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("movie cache read failed", "key", key, "error", err)
		}

		return false
	}

	err = json.Unmarshal(data, dst)
	if err != nil {
		c.logger.Warn("discarding corrupt movie cache entry", "key", key, "error", err)
		return false
	}

	return true
}

func (c *CachedMovieRepository) store(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("movie cache encode failed", "key", key, "error", err)
		return
	}

	err = c.redis.Set(ctx, key, data, c.ttl).Err()
	if err != nil {
		c.logger.Warn("movie cache write failed", "key", key, "error", err)
	}
}

func movieKey(id int) string {
	return fmt.Sprintf("movies:%d", id)
}
