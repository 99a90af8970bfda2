// Package mock provides an in-process TMDB catalog for developer mode and tests.
package mock

import (
	"context"
	"sort"
	"strings"

	"github.com/movierecs/movierecs/internal/metadata/tmdb"
)

// TMDBClient is a mock implementation of the TMDB client.
type TMDBClient struct {
	movies []tmdb.MovieResult
	genres []tmdb.Genre
}

// NewTMDBClient creates a mock TMDB client backed by a fixed catalog.
func NewTMDBClient() *TMDBClient {
	return &TMDBClient{movies: mockMovies, genres: mockGenres}
}

func (c *TMDBClient) Name() string {
	return "tmdb-mock"
}

func (c *TMDBClient) IsConfigured() bool {
	return true
}

func (c *TMDBClient) GetGenres(ctx context.Context) ([]tmdb.Genre, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]tmdb.Genre, len(c.genres))
	copy(out, c.genres)
	return out, nil
}

// SearchMovies matches the query case-insensitively against titles.
func (c *TMDBClient) SearchMovies(ctx context.Context, query string) ([]tmdb.MovieResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	results := []tmdb.MovieResult{}
	for _, movie := range c.movies {
		if strings.Contains(strings.ToLower(movie.Title), query) {
			results = append(results, movie)
		}
	}
	return results, nil
}

// DiscoverMovies filters by genre and orders by the sort_by directive.
func (c *TMDBClient) DiscoverMovies(ctx context.Context, opts tmdb.DiscoverOptions) ([]tmdb.MovieResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := []tmdb.MovieResult{}
	for _, movie := range c.movies {
		if opts.GenreID == 0 || hasGenre(movie, opts.GenreID) {
			results = append(results, movie)
		}
	}

	field, dir, _ := strings.Cut(opts.SortBy, ".")
	less := func(a, b tmdb.MovieResult) bool {
		switch field {
		case "vote_average":
			return a.VoteAverage < b.VoteAverage
		case "release_date":
			return a.ReleaseDate < b.ReleaseDate
		default:
			return a.Popularity < b.Popularity
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		if dir == "asc" {
			return less(results[i], results[j])
		}
		return less(results[j], results[i])
	})

	return results, nil
}

func hasGenre(movie tmdb.MovieResult, id int) bool {
	for _, g := range movie.GenreIDs {
		if g == id {
			return true
		}
	}
	return false
}

func ptr(s string) *string { return &s }

var mockGenres = []tmdb.Genre{
	{ID: 28, Name: "Action"},
	{ID: 12, Name: "Adventure"},
	{ID: 16, Name: "Animation"},
	{ID: 35, Name: "Comedy"},
	{ID: 80, Name: "Crime"},
	{ID: 18, Name: "Drama"},
	{ID: 878, Name: "Science Fiction"},
	{ID: 53, Name: "Thriller"},
}

var mockMovies = []tmdb.MovieResult{
	{
		ID: 155, Title: "The Dark Knight", ReleaseDate: "2008-07-16",
		PosterPath:  ptr("/qJ2tW6WMUDux911r6m7haRef0WH.jpg"),
		Overview:    ptr("Batman raises the stakes in his war on crime. With the help of Lt. Jim Gordon and District Attorney Harvey Dent, Batman sets out to dismantle the remaining criminal organizations that plague the streets. The partnership proves to be effective, but they soon find themselves prey to a reign of chaos unleashed by a rising criminal mastermind known to the terrified citizens of Gotham as the Joker."),
		VoteAverage: 8.5, Popularity: 120.4, GenreIDs: []int{18, 28, 80, 53},
	},
	{
		ID: 272, Title: "Batman Begins", ReleaseDate: "2005-06-10",
		PosterPath:  ptr("/4MpN4kIEqUjW8OPtOQJXlTdHiJV.jpg"),
		Overview:    ptr("Driven by tragedy, billionaire Bruce Wayne dedicates his life to uncovering and defeating the corruption that plagues his home, Gotham City. Unable to work within the system, he instead creates a new identity, a symbol of fear for the criminal underworld - The Batman."),
		VoteAverage: 7.7, Popularity: 60.2, GenreIDs: []int{18, 80, 28},
	},
	{
		ID: 268, Title: "Batman", ReleaseDate: "1989-06-21",
		PosterPath:  ptr("/cij4dd21v2Rk2YtUQbV5kW69WB2.jpg"),
		Overview:    ptr("Batman must face his most ruthless nemesis when a deformed madman calling himself \"The Joker\" seizes control of Gotham's criminal underworld."),
		VoteAverage: 7.2, Popularity: 40.8, GenreIDs: []int{14, 28, 80},
	},
	{
		ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-31",
		PosterPath:  ptr("/f89U3ADr1oiB1s9GkdPOEpXUk5H.jpg"),
		Overview:    ptr("Set in the 22nd century, The Matrix tells the story of a computer hacker who joins a group of underground insurgents fighting the vast and powerful computers who now rule the earth."),
		VoteAverage: 8.2, Popularity: 85.1, GenreIDs: []int{28, 878},
	},
	{
		ID: 27205, Title: "Inception", ReleaseDate: "2010-07-15",
		PosterPath:  ptr("/oYuLEt3zVCKq57qu2F8dT7NIa6f.jpg"),
		Overview:    ptr("Cobb, a skilled thief who commits corporate espionage by infiltrating the subconscious of his targets is offered a chance to regain his old life as payment for a task considered to be impossible: \"inception\", the implantation of another person's idea into a target's subconscious."),
		VoteAverage: 8.4, Popularity: 98.7, GenreIDs: []int{28, 878, 12},
	},
	{
		ID: 862, Title: "Toy Story", ReleaseDate: "1995-10-30",
		PosterPath:  ptr("/uXDfjJbdP4ijW5hWSBrPrlKpxab.jpg"),
		Overview:    ptr("Led by Woody, Andy's toys live happily in his room until Andy's birthday brings Buzz Lightyear onto the scene."),
		VoteAverage: 8.0, Popularity: 70.3, GenreIDs: []int{16, 12, 35},
	},
	{
		ID: 550, Title: "Fight Club", ReleaseDate: "1999-10-15",
		PosterPath:  ptr("/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg"),
		Overview:    ptr("A ticking-time-bomb insomniac and a slippery soap salesman channel primal male aggression into a shocking new form of therapy."),
		VoteAverage: 8.4, Popularity: 64.9, GenreIDs: []int{18, 53},
	},
	{
		ID: 680, Title: "Pulp Fiction", ReleaseDate: "1994-09-10",
		PosterPath:  ptr("/d5iIlFn5s0ImszYzBPb8JPIfbXD.jpg"),
		Overview:    ptr("A burger-loving hit man, his philosophical partner, a drug-addled gangster's moll and a washed-up boxer converge in this sprawling, comedic crime caper."),
		VoteAverage: 8.5, Popularity: 55.6, GenreIDs: []int{53, 80},
	},
	{
		ID: 120, Title: "The Lord of the Rings: The Fellowship of the Ring", ReleaseDate: "2001-12-18",
		PosterPath:  ptr("/6oom5QYQ2yQTMJIbnvbkBL9cHo6.jpg"),
		Overview:    ptr("Young hobbit Frodo Baggins, after inheriting a mysterious ring from his uncle Bilbo, must leave his home in order to keep it from falling into the hands of its evil creator."),
		VoteAverage: 8.4, Popularity: 90.2, GenreIDs: []int{12, 14, 28},
	},
	{
		ID: 13, Title: "Forrest Gump", ReleaseDate: "1994-06-23",
		Overview:    nil,
		VoteAverage: 8.5, Popularity: 50.1, GenreIDs: []int{35, 18},
	},
}
