package metadata

import "github.com/movierecs/movierecs/internal/metadata/tmdb"

// Genre is an entry of the remote genre taxonomy.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieSummary is the subset of a remote movie the browser displays.
// Nullable remote fields are empty strings.
type MovieSummary struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"posterPath,omitempty"`
	VoteAverage float64 `json:"voteAverage"`
	Overview    string  `json:"overview,omitempty"`
}

// DiscoverParams selects a discover listing. A zero GenreID means all genres.
type DiscoverParams struct {
	SortBy  string
	GenreID int
}

func tmdbGenresToGenres(in []tmdb.Genre) []Genre {
	out := make([]Genre, len(in))
	for i, g := range in {
		out[i] = Genre{ID: g.ID, Name: g.Name}
	}
	return out
}

func tmdbMoviesToSummaries(in []tmdb.MovieResult) []MovieSummary {
	out := make([]MovieSummary, len(in))
	for i, m := range in {
		out[i] = MovieSummary{
			ID:          m.ID,
			Title:       m.Title,
			VoteAverage: m.VoteAverage,
		}
		if m.PosterPath != nil {
			out[i].PosterPath = *m.PosterPath
		}
		if m.Overview != nil {
			out[i].Overview = *m.Overview
		}
	}
	return out
}
