package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/getkin/kin-openapi/routers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/metinatakli/movie-booking-api/api"
	"github.com/metinatakli/movie-booking-api/internal/booking"
	"github.com/metinatakli/movie-booking-api/internal/broker"
	"github.com/metinatakli/movie-booking-api/internal/domain"
	"github.com/metinatakli/movie-booking-api/internal/mailer"
	appmiddleware "github.com/metinatakli/movie-booking-api/internal/middleware"
	"github.com/metinatakli/movie-booking-api/internal/repository"
	appvalidator "github.com/metinatakli/movie-booking-api/internal/validator"
	"github.com/metinatakli/movie-booking-api/internal/vcs"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
)

const serviceName = "movie-booking-api"

var (
	version = vcs.Version()
)

// BookingService is the part of booking.Service the handlers depend on.
type BookingService interface {
	Create(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error)
}

type Application struct {
	config    Config
	logger    *slog.Logger
	db        *pgxpool.Pool
	redis     redis.UniversalClient
	validator *validator.Validate
	openapi   routers.Router

	movieRepo   domain.MovieRepository
	showRepo    domain.ShowRepository
	bookingRepo domain.BookingRepository

	bookingService BookingService
}

type Config struct {
	Port             int
	Env              string
	Currency         string
	OtelCollectorUrl string
	DB               DBConfig
	Redis            RedisConfig
	Cache            CacheConfig
	SMTP             SMTPConfig
	Broker           BrokerConfig
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type CacheConfig struct {
	MovieTTL time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

type BrokerConfig struct {
	URL string
}

// Run parses the configuration, connects the backing services and serves
// HTTP until SIGINT or SIGTERM.
func Run() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	var cfg Config

	flag.IntVar(&cfg.Port, "port", envInt("PORT", 5000), "server port")
	flag.StringVar(&cfg.Env, "env", envString("APP_ENV", "dev"), "Environment (dev|staging|prod)")
	flag.StringVar(&cfg.Currency, "currency", envString("CURRENCY", "INR"), "Currency code used in formatted amounts")
	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", envString("OTEL_COLLECTOR_URL", ""), "OpenTelemetry collector gRPC endpoint")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", envString("DB_DSN", ""), "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.Redis.URL, "redis-url", envString("REDIS_URL", ""), "Redis address, caching is disabled when empty")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")
	flag.DurationVar(&cfg.Cache.MovieTTL, "movie-cache-ttl", 30*time.Second, "How long movie reads stay cached")

	flag.StringVar(&cfg.SMTP.Host, "smtp-host", envString("SMTP_HOST", ""), "SMTP host, confirmation emails are disabled when empty")
	flag.IntVar(&cfg.SMTP.Port, "smtp-port", envInt("SMTP_PORT", 2525), "SMTP port")
	flag.StringVar(&cfg.SMTP.Username, "smtp-username", envString("SMTP_USERNAME", ""), "SMTP username")
	flag.StringVar(&cfg.SMTP.Password, "smtp-password", envString("SMTP_PASSWORD", ""), "SMTP password")
	flag.StringVar(&cfg.SMTP.Sender, "smtp-sender", envString("SMTP_SENDER", "BookMyShow <no-reply@bookmyshow.local>"), "SMTP sender")

	flag.StringVar(&cfg.Broker.URL, "rabbitmq-url", envString("RABBITMQ_URL", ""), "RabbitMQ URL, booking events are disabled when empty")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	logger, shutdownTelemetry, err := InitTelemetry(cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	validator := appvalidator.NewValidator()

	db, err := NewDatabasePool(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	var redisClient redis.UniversalClient
	var movieRepo domain.MovieRepository = repository.NewPostgresMovieRepository(db)

	if cfg.Redis.URL != "" {
		client, err := NewRedisClient(cfg)
		if err != nil {
			return err
		}
		defer client.Close()

		redisClient = client
		movieRepo = repository.NewCachedMovieRepository(movieRepo, client, cfg.Cache.MovieTTL, logger)
	}

	showRepo := repository.NewPostgresShowRepository(db)
	bookingRepo := repository.NewPostgresBookingRepository(db)

	opts := []booking.Option{booking.WithCurrency(cfg.Currency)}

	if cfg.Broker.URL != "" {
		publisher, err := broker.NewAMQPPublisher(cfg.Broker.URL)
		if err != nil {
			return err
		}
		defer publisher.Close()

		opts = append(opts, booking.WithPublisher(publisher))
	}

	if cfg.SMTP.Host != "" {
		m := mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender)
		opts = append(opts, booking.WithMailer(m))
	}

	bookingService := booking.NewService(bookingRepo, showRepo, validator, logger, opts...)

	app, err := NewApp(cfg, logger, db, redisClient, validator, movieRepo, showRepo, bookingRepo, bookingService)
	if err != nil {
		return err
	}

	err = app.run()

	// notifications still in flight must finish before the broker
	// connection is closed
	bookingService.Wait()

	return err
}

func NewApp(
	cfg Config,
	logger *slog.Logger,
	db *pgxpool.Pool,
	redisClient redis.UniversalClient,
	validator *validator.Validate,
	movieRepo domain.MovieRepository,
	showRepo domain.ShowRepository,
	bookingRepo domain.BookingRepository,
	bookingService BookingService) (*Application, error) {

	router, err := api.NewRouter()
	if err != nil {
		return nil, err
	}

	return &Application{
		config:         cfg,
		logger:         logger,
		db:             db,
		redis:          redisClient,
		validator:      validator,
		openapi:        router,
		movieRepo:      movieRepo,
		showRepo:       showRepo,
		bookingRepo:    bookingRepo,
		bookingService: bookingService,
	}, nil
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	err := errors.Join(redisotel.InstrumentTracing(rdb), redisotel.InstrumentMetrics(rdb))
	if err != nil {
		rdb.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = rdb.Ping(ctx).Err()
	if err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(middleware.Logger)
	r.Use(app.recoverPanic)
	r.Use(app.enableCORS)

	r.Route("/api", func(r chi.Router) {
		r.Use(appmiddleware.ValidateRequest(app.openapi))

		r.Get("/health", app.GetHealth)
		r.Get("/openapi.yaml", app.GetOpenAPISpec)

		r.Get("/movies", app.GetMovies)
		r.Get("/movies/{id}", app.GetMovieByID)
		r.Get("/movies/{id}/shows", app.GetMovieShows)

		r.Get("/shows/{id}", app.GetShowByID)

		r.Post("/bookings", app.CreateBooking)
		r.Get("/bookings", app.GetBookings)
		r.Get("/bookings/{id}", app.GetBookingByReference)
	})

	return r
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}

	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return v
}
