package app

import (
	"errors"
	"net/http"

	"github.com/metinatakli/movie-booking-api/api"
	"github.com/metinatakli/movie-booking-api/internal/domain"
	"github.com/oapi-codegen/runtime/types"
)

func (app *Application) GetShowByID(w http.ResponseWriter, r *http.Request) {
	id := readIDParam(r)
	if id == 0 {
		app.errorResponse(w, r, http.StatusNotFound, msgShowNotFound)
		return
	}

	show, err := app.showRepo.GetByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.errorResponse(w, r, http.StatusNotFound, msgShowNotFound)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := api.Envelope[api.Show]{
		Success: true,
		Data:    app.toApiShow(*show),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) toApiShows(shows []domain.ShowListing) []api.Show {
	res := make([]api.Show, len(shows))

	for i, s := range shows {
		res[i] = app.toApiShow(s)
	}

	return res
}

func (app *Application) toApiShow(s domain.ShowListing) api.Show {
	return api.Show{
		ID:              s.ID,
		MovieID:         s.MovieID,
		TheaterName:     s.TheaterName,
		TheaterLocation: s.TheaterLocation,
		ShowDate:        types.Date{Time: s.Date},
		ShowTime:        s.Time,
		Price:           int64(s.Price),
		PriceFormatted:  s.Price.Format(app.config.Currency),
		TotalSeats:      s.TotalSeats,
		AvailableSeats:  s.AvailableSeats,
		MovieName:       s.MovieName,
		PosterUrl:       s.MoviePosterUrl,
	}
}
