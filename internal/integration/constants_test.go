package integration_test

const (
	TestMovieName        = "Interstellar"
	TestMovieDescription = "A team of explorers travel through a wormhole in space."
	TestMovieGenre       = "Sci-Fi"
	TestMovieLanguage    = "English"
	TestMovieDuration    = 169
	TestMovieRating      = "8.6"
	TestMovieReleaseDate = "2014-11-07"
	TestMoviePosterUrl   = "https://example.com/interstellar.jpg"

	TestTheaterName     = "PVR Phoenix"
	TestTheaterLocation = "Lower Parel, Mumbai"
	TestShowDate        = "2024-01-15"
	TestShowTime        = "18:30:00"
	TestShowPrice       = 200
	TestShowSeats       = 5

	TestCustomerName  = "Asha Rao"
	TestCustomerEmail = "asha@example.com"
	TestCustomerPhone = "+919876543210"
)
