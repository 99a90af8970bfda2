package tmdb

// GenreListResponse is the response from the movie genre list endpoint.
type GenreListResponse struct {
	Genres []Genre `json:"genres"`
}

// Genre represents a genre from TMDB.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieListResponse is the response shared by the search and discover endpoints.
type MovieListResponse struct {
	Page         int           `json:"page"`
	Results      []MovieResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

func (r MovieListResponse) movies() []MovieResult {
	if r.Results == nil {
		return []MovieResult{}
	}
	return r.Results
}

// MovieResult is a movie from TMDB search or discover results.
type MovieResult struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title,omitempty"`
	Overview      *string `json:"overview"`
	ReleaseDate   string  `json:"release_date,omitempty"`
	PosterPath    *string `json:"poster_path"`
	BackdropPath  *string `json:"backdrop_path,omitempty"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count,omitempty"`
	Popularity    float64 `json:"popularity,omitempty"`
	GenreIDs      []int   `json:"genre_ids,omitempty"`
}

// ErrorResponse is an error from the TMDB API.
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}
