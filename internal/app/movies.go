package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/metinatakli/movie-booking-api/api"
	"github.com/metinatakli/movie-booking-api/internal/domain"
	"github.com/oapi-codegen/runtime/types"
)

func (app *Application) GetMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := app.movieRepo.GetAllActive(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.Envelope[[]api.MovieSummary]{
		Success: true,
		Data:    toMovieSummaries(movies),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetMovieByID(w http.ResponseWriter, r *http.Request) {
	id := readIDParam(r)
	if id == 0 {
		app.errorResponse(w, r, http.StatusNotFound, msgMovieNotFound)
		return
	}

	movie, err := app.movieRepo.GetByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.errorResponse(w, r, http.StatusNotFound, msgMovieNotFound)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := api.Envelope[api.Movie]{
		Success: true,
		Data:    toApiMovie(*movie),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// GetMovieShows lists the shows of a movie that still have seats, optionally
// limited to one date. An unknown movie yields an empty list.
func (app *Application) GetMovieShows(w http.ResponseWriter, r *http.Request) {
	id := readIDParam(r)
	if id == 0 {
		app.errorResponse(w, r, http.StatusNotFound, msgMovieNotFound)
		return
	}

	var date *time.Time

	if v := r.URL.Query().Get("date"); v != "" {
		d, err := time.Parse(domain.DateLayout, v)
		if err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("date must be formatted as %s", "YYYY-MM-DD"))
			return
		}
		date = &d
	}

	shows, err := app.showRepo.GetByMovie(r.Context(), id, date)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.Envelope[[]api.Show]{
		Success: true,
		Data:    app.toApiShows(shows),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toMovieSummaries(movies []domain.MovieSummary) []api.MovieSummary {
	summaries := make([]api.MovieSummary, len(movies))

	for i, m := range movies {
		summaries[i] = api.MovieSummary{
			Movie:          toApiMovie(m.Movie),
			MinPrice:       amountPtr(m.MinPrice),
			MaxPrice:       amountPtr(m.MaxPrice),
			AvailableDates: m.AvailableDates,
		}

		if summaries[i].AvailableDates == nil {
			summaries[i].AvailableDates = []string{}
		}
	}

	return summaries
}

func toApiMovie(movie domain.Movie) api.Movie {
	return api.Movie{
		ID:          movie.ID,
		Name:        movie.Name,
		Description: movie.Description,
		Genre:       movie.Genre,
		Language:    movie.Language,
		Duration:    movie.Duration,
		Rating:      toFloat64(movie.Rating),
		ReleaseDate: types.Date{Time: movie.ReleaseDate},
		PosterUrl:   movie.PosterUrl,
		IsActive:    movie.IsActive,
	}
}

func toFloat64(n pgtype.Numeric) *float64 {
	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return nil
	}

	return &f.Float64
}

func amountPtr(a *domain.Amount) *int64 {
	if a == nil {
		return nil
	}

	v := int64(*a)
	return &v
}
