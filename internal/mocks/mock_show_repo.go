package mocks

import (
	"context"
	"time"

	"github.com/metinatakli/movie-booking-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockShowRepo struct {
	mock.Mock
	domain.ShowRepository
}

func (m *MockShowRepo) GetByMovie(ctx context.Context, movieID int, date *time.Time) ([]domain.ShowListing, error) {
	args := m.Called(ctx, movieID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShowListing), args.Error(1)
}

func (m *MockShowRepo) GetByID(ctx context.Context, id int) (*domain.ShowListing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShowListing), args.Error(1)
}
