package ui

import (
	"errors"

	"github.com/movierecs/movierecs/internal/metadata/tmdb"
)

// errorMessage maps a load failure to text safe to show in the page.
func errorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, tmdb.ErrAPIKeyMissing):
		return "The TMDB API key is not configured."
	case errors.Is(err, tmdb.ErrRateLimited):
		return "The movie service is busy, try again shortly."
	case errors.Is(err, tmdb.ErrAPIError):
		return "The movie service rejected the request."
	default:
		return "The movie service could not be reached."
	}
}
