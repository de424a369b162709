// Package booking creates bookings: it validates a request, mints the public
// booking id and hands the seat reservation to the repository, which
// decrements the show's seats and inserts the booking in one transaction.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/movie-booking-api/internal/broker"
	"github.com/metinatakli/movie-booking-api/internal/domain"
	"github.com/metinatakli/movie-booking-api/internal/mailer"
	appvalidator "github.com/metinatakli/movie-booking-api/internal/validator"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	maxIDAttempts           = 3
	notificationTimeout     = 10 * time.Second
	ConfirmationTemplate    = "booking_confirmation.tmpl"
	instrumentationName     = "github.com/metinatakli/movie-booking-api/internal/booking"
	rejectReasonValidation  = "validation"
	rejectReasonNoShow      = "show_not_found"
	rejectReasonSoldOut     = "insufficient_seats"
	rejectReasonIDExhausted = "booking_id_exhausted"
	rejectReasonStore       = "store_error"
)

type CreateBookingInput struct {
	ShowID        int    `json:"show_id" validate:"required,gt=0"`
	CustomerName  string `json:"customer_name" validate:"required,max=100"`
	CustomerEmail string `json:"customer_email" validate:"required,email,max=255"`
	CustomerPhone string `json:"customer_phone" validate:"omitempty,phone"`
	SeatsBooked   int    `json:"seats_booked" validate:"required,gt=0"`
}

type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, event broker.BookingConfirmedEvent) error
}

type Service struct {
	bookings  domain.BookingRepository
	shows     domain.ShowRepository
	validator *validator.Validate
	logger    *slog.Logger
	publisher EventPublisher
	mailer    mailer.Mailer
	currency  string
	newID     func() (string, error)
	metrics   *metrics
	wg        sync.WaitGroup
}

type Option func(*Service)

func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithMailer(m mailer.Mailer) Option {
	return func(s *Service) { s.mailer = m }
}

func WithCurrency(currency string) Option {
	return func(s *Service) { s.currency = currency }
}

// WithIDGenerator replaces domain.NewBookingID.
func WithIDGenerator(fn func() (string, error)) Option {
	return func(s *Service) { s.newID = fn }
}

func NewService(
	bookings domain.BookingRepository,
	shows domain.ShowRepository,
	validator *validator.Validate,
	logger *slog.Logger,
	opts ...Option) *Service {

	s := &Service{
		bookings:  bookings,
		shows:     shows,
		validator: validator,
		logger:    logger,
		publisher: broker.NopPublisher{},
		mailer:    mailer.NopMailer{},
		newID:     domain.NewBookingID,
		metrics:   newMetrics(logger),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create books input.SeatsBooked seats on a show. The returned booking carries
// the public and internal ids and the total amount. Errors are a
// *domain.ValidationError, domain.ErrShowNotFound, domain.ErrInsufficientSeats
// or an internal failure; in every error case nothing has been written.
func (s *Service) Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	input.CustomerName = strings.TrimSpace(input.CustomerName)
	input.CustomerEmail = strings.TrimSpace(input.CustomerEmail)
	input.CustomerPhone = strings.TrimSpace(input.CustomerPhone)

	err := s.validator.Struct(input)
	if err != nil {
		s.metrics.rejected(ctx, rejectReasonValidation)
		return nil, appvalidator.ToValidationError(err)
	}

	// shows.id and available_seats are int4 columns
	if input.ShowID > math.MaxInt32 {
		s.metrics.rejected(ctx, rejectReasonNoShow)
		return nil, domain.ErrShowNotFound
	}

	if input.SeatsBooked > math.MaxInt32 {
		s.metrics.rejected(ctx, rejectReasonSoldOut)
		return nil, fmt.Errorf("%w: requested %d", domain.ErrInsufficientSeats, input.SeatsBooked)
	}

	booking := domain.Booking{
		ShowID:        input.ShowID,
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		CustomerPhone: input.CustomerPhone,
		SeatsBooked:   input.SeatsBooked,
	}

	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		booking.BookingID, err = s.newID()
		if err != nil {
			s.metrics.rejected(ctx, rejectReasonStore)
			return nil, fmt.Errorf("mint booking id: %w", err)
		}

		err = s.bookings.Create(ctx, &booking)
		if !errors.Is(err, domain.ErrDuplicateBookingID) {
			break
		}

		s.logger.Warn("booking id collision, minting a new one",
			"booking_id", booking.BookingID, "attempt", attempt)
	}

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateBookingID):
			s.metrics.rejected(ctx, rejectReasonIDExhausted)
			return nil, fmt.Errorf("%w after %d attempts", domain.ErrBookingIDExhausted, maxIDAttempts)
		case errors.Is(err, domain.ErrShowNotFound):
			s.metrics.rejected(ctx, rejectReasonNoShow)
		case errors.Is(err, domain.ErrInsufficientSeats):
			s.metrics.rejected(ctx, rejectReasonSoldOut)
		default:
			s.metrics.rejected(ctx, rejectReasonStore)
		}

		return nil, err
	}

	s.metrics.created(ctx, booking)
	s.logger.Info("booking confirmed",
		"booking_id", booking.BookingID,
		"show_id", booking.ShowID,
		"seats_booked", booking.SeatsBooked,
		"total_amount", int64(booking.TotalAmount))

	s.notify(ctx, booking)

	return &booking, nil
}

// Wait blocks until every pending notification has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// notify publishes the confirmation event and emails the customer in the
// background. Failures are logged and never reach the caller.
func (s *Service) notify(ctx context.Context, booking domain.Booking) {
	ctx = context.WithoutCancel(ctx)

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("panic while sending booking notifications", "panic", err, "booking_id", booking.BookingID)
			}
		}()

		ctx, cancel := context.WithTimeout(ctx, notificationTimeout)
		defer cancel()

		err := s.publisher.PublishBookingConfirmed(ctx, toConfirmedEvent(booking))
		if err != nil {
			s.logger.Error("failed to publish booking event", "error", err, "booking_id", booking.BookingID)
		}

		err = s.sendConfirmation(ctx, booking)
		if err != nil {
			s.logger.Error("failed to send booking confirmation", "error", err, "booking_id", booking.BookingID)
		}
	}()
}

func (s *Service) sendConfirmation(ctx context.Context, booking domain.Booking) error {
	show, err := s.shows.GetByID(ctx, booking.ShowID)
	if err != nil {
		return fmt.Errorf("load show: %w", err)
	}

	data := map[string]any{
		"bookingID":       booking.BookingID,
		"customerName":    booking.CustomerName,
		"movieName":       show.MovieName,
		"theaterName":     show.TheaterName,
		"theaterLocation": show.TheaterLocation,
		"showDate":        show.Date.Format(domain.DateLayout),
		"showTime":        show.Time,
		"seatsBooked":     booking.SeatsBooked,
		"totalAmount":     booking.TotalAmount.Format(s.currency),
	}

	return s.mailer.Send(booking.CustomerEmail, ConfirmationTemplate, data)
}

func toConfirmedEvent(booking domain.Booking) broker.BookingConfirmedEvent {
	return broker.BookingConfirmedEvent{
		BookingID:     booking.BookingID,
		ID:            booking.ID,
		ShowID:        booking.ShowID,
		CustomerName:  booking.CustomerName,
		CustomerEmail: booking.CustomerEmail,
		SeatsBooked:   booking.SeatsBooked,
		TotalAmount:   int64(booking.TotalAmount),
		Status:        booking.Status,
		ConfirmedAt:   booking.BookingDate,
	}
}

type metrics struct {
	bookings metric.Int64Counter
	seats    metric.Int64Counter
	rejects  metric.Int64Counter
}

func newMetrics(logger *slog.Logger) *metrics {
	meter := otel.Meter(instrumentationName)

	bookings, err := meter.Int64Counter("bookings.created",
		metric.WithDescription("Number of confirmed bookings"))
	if err != nil {
		logger.Error("failed to create bookings.created counter", "error", err)
	}

	seats, err := meter.Int64Counter("bookings.seats",
		metric.WithDescription("Number of seats sold"),
		metric.WithUnit("{seat}"))
	if err != nil {
		logger.Error("failed to create bookings.seats counter", "error", err)
	}

	rejects, err := meter.Int64Counter("bookings.rejected",
		metric.WithDescription("Number of booking requests that wrote nothing"))
	if err != nil {
		logger.Error("failed to create bookings.rejected counter", "error", err)
	}

	return &metrics{
		bookings: bookings,
		seats:    seats,
		rejects:  rejects,
	}
}

func (m *metrics) created(ctx context.Context, booking domain.Booking) {
	attrs := metric.WithAttributes(attribute.Int("show_id", booking.ShowID))

	if m.bookings != nil {
		m.bookings.Add(ctx, 1, attrs)
	}
	if m.seats != nil {
		m.seats.Add(ctx, int64(booking.SeatsBooked), attrs)
	}
}

func (m *metrics) rejected(ctx context.Context, reason string) {
	if m.rejects != nil {
		m.rejects.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
}
