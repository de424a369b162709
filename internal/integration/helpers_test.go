package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp":    {},
	"requestId":    {},
	"booking_date": {},
	"booking_id":   {},
	"bookingId":    {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanValue(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ids and timestamps are generated per run
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanValue(v any) {
	switch v := v.(type) {
	case map[string]any:
		for k := range v {
			if _, ok := keysToIgnore[k]; ok {
				delete(v, k)
				continue
			}
			cleanValue(v[k])
		}
	case []any:
		for _, item := range v {
			cleanValue(item)
		}
	}
}

func resetState(t testing.TB, app *TestApp) {
	t.Helper()

	// in-flight notifications would otherwise land in the next test
	app.Bookings.Wait()

	_, err := app.DB.Exec(context.Background(),
		`TRUNCATE bookings, shows, movies RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	require.NoError(t, app.Redis.FlushAll(context.Background()).Err())

	app.Mailer.Reset()
	app.Publisher.Reset()
}

func insertTestMovie(t testing.TB, db *pgxpool.Pool, name, releaseDate string, active bool) int {
	t.Helper()

	var id int
	err := db.QueryRow(context.Background(), `
		INSERT INTO movies (name, description, genre, language, duration, rating, release_date, poster_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::date, $8, $9)
		RETURNING id`,
		name,
		TestMovieDescription,
		TestMovieGenre,
		TestMovieLanguage,
		TestMovieDuration,
		TestMovieRating,
		releaseDate,
		TestMoviePosterUrl,
		active,
	).Scan(&id)
	require.NoError(t, err)

	return id
}

func insertTestShow(t testing.TB, db *pgxpool.Pool, movieID int, date, showTime string, price int64, seats int) int {
	t.Helper()

	var id int
	err := db.QueryRow(context.Background(), `
		INSERT INTO shows (movie_id, theater_name, theater_location, show_date, show_time, price, total_seats, available_seats)
		VALUES ($1, $2, $3, $4::date, $5::time, $6, $7, $7)
		RETURNING id`,
		movieID,
		TestTheaterName,
		TestTheaterLocation,
		date,
		showTime,
		price,
		seats,
	).Scan(&id)
	require.NoError(t, err)

	return id
}

// seedShow inserts the default movie with one show and returns the show id.
func seedShow(t testing.TB, db *pgxpool.Pool, seats int) int {
	t.Helper()

	movieID := insertTestMovie(t, db, TestMovieName, TestMovieReleaseDate, true)

	return insertTestShow(t, db, movieID, TestShowDate, TestShowTime, TestShowPrice, seats)
}

// insertTestBooking stores a booking row directly. The show's seat count is
// left as is.
func insertTestBooking(t testing.TB, db *pgxpool.Pool, bookingID string, showID, seats int) {
	t.Helper()

	_, err := db.Exec(context.Background(), `
		INSERT INTO bookings (booking_id, show_id, customer_name, customer_email, seats_booked, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		bookingID,
		showID,
		TestCustomerName,
		TestCustomerEmail,
		seats,
		int64(seats)*TestShowPrice,
	)
	require.NoError(t, err)
}

func availableSeats(t testing.TB, db *pgxpool.Pool, showID int) int {
	t.Helper()

	var seats int
	err := db.QueryRow(context.Background(),
		`SELECT available_seats FROM shows WHERE id = $1`, showID).Scan(&seats)
	require.NoError(t, err)

	return seats
}

func countBookings(t testing.TB, db *pgxpool.Pool) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), `SELECT COUNT(*) FROM bookings`).Scan(&n)
	require.NoError(t, err)

	return n
}

func bookedSeats(t testing.TB, db *pgxpool.Pool, showID int) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(seats_booked), 0) FROM bookings WHERE show_id = $1`, showID).Scan(&n)
	require.NoError(t, err)

	return n
}

func serveRecorder(app *TestApp, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, req)

	return rec
}
