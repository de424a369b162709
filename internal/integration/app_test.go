package integration_test

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/movie-booking-api/internal/app"
	"github.com/metinatakli/movie-booking-api/internal/booking"
	"github.com/metinatakli/movie-booking-api/internal/broker"
	"github.com/metinatakli/movie-booking-api/internal/mailer"
	"github.com/metinatakli/movie-booking-api/internal/repository"
	appvalidator "github.com/metinatakli/movie-booking-api/internal/validator"
	"github.com/redis/go-redis/v9"
)

type TestApp struct {
	App       *app.Application
	Handler   http.Handler
	DB        *pgxpool.Pool
	Redis     *redis.Client
	Bookings  *booking.Service
	Mailer    *mailer.MockMailer
	Publisher *broker.MockPublisher

	cfg    app.Config
	logger *slog.Logger
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	testApp := &TestApp{
		DB:        db,
		Redis:     redisClient,
		Mailer:    mailer.NewMockMailer(),
		Publisher: broker.NewMockPublisher(),
		cfg:       cfg,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	err = testApp.build()
	if err != nil {
		redisClient.Close()
		db.Close()
		return nil, err
	}

	return testApp, nil
}

// build wires repositories, the booking service and the router over the
// shared pools. opts are applied after the default booking options.
func (a *TestApp) build(opts ...booking.Option) error {
	validator := appvalidator.NewValidator()

	movieRepo := repository.NewCachedMovieRepository(
		repository.NewPostgresMovieRepository(a.DB),
		a.Redis,
		a.cfg.Cache.MovieTTL,
		a.logger,
	)
	showRepo := repository.NewPostgresShowRepository(a.DB)
	bookingRepo := repository.NewPostgresBookingRepository(a.DB)

	bookingOpts := []booking.Option{
		booking.WithCurrency(a.cfg.Currency),
		booking.WithMailer(a.Mailer),
		booking.WithPublisher(a.Publisher),
	}

	bookingService := booking.NewService(
		bookingRepo,
		showRepo,
		validator,
		a.logger,
		append(bookingOpts, opts...)...,
	)

	application, err := app.NewApp(
		a.cfg,
		a.logger,
		a.DB,
		a.Redis,
		validator,
		movieRepo,
		showRepo,
		bookingRepo,
		bookingService,
	)
	if err != nil {
		return err
	}

	a.App = application
	a.Handler = application.Routes()
	a.Bookings = bookingService

	return nil
}

// withBookingOptions returns an app sharing this one's pools and mocks whose
// booking service is built with opts. Close only the original.
func (a *TestApp) withBookingOptions(opts ...booking.Option) (*TestApp, error) {
	clone := *a

	err := clone.build(opts...)
	if err != nil {
		return nil, err
	}

	return &clone, nil
}

func (a *TestApp) Close() {
	a.Bookings.Wait()
	a.Redis.Close()
	a.DB.Close()
}
