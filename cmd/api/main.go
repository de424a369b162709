package main

import (
	"fmt"
	"os"

	"github.com/metinatakli/movie-booking-api/internal/app"
)

func main() {
	err := app.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
