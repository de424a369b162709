package mocks

import (
	"context"

	"github.com/metinatakli/movie-booking-api/internal/domain"
)

type MockMovieRepo struct {
	domain.MovieRepository
	GetAllActiveFunc func(ctx context.Context) ([]domain.MovieSummary, error)
	GetByIDFunc      func(ctx context.Context, id int) (*domain.Movie, error)
}

func (m *MockMovieRepo) GetAllActive(ctx context.Context) ([]domain.MovieSummary, error) {
	return m.GetAllActiveFunc(ctx)
}

func (m *MockMovieRepo) GetByID(ctx context.Context, id int) (*domain.Movie, error) {
	return m.GetByIDFunc(ctx, id)
}
