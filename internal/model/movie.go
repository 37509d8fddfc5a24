package model

import "fmt"

// MediaTypeTV marks a summary that is a TV show. Movies leave MediaType empty or set it to "movie".
const MediaTypeTV = "tv"

// MovieSummary holds the fields needed to display a movie card or the featured banner
type MovieSummary struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	Overview     string  `json:"overview"`
	VoteAverage  float64 `json:"vote_average"`
	Popularity   float64 `json:"popularity"`
	MediaType    string  `json:"media_type,omitempty"`
}

// DetailURL is where a card leads. Only movies have a local detail page, TV shows open on TMDB.
func (m MovieSummary) DetailURL() string {
	if m.MediaType == MediaTypeTV {
		return fmt.Sprintf("https://www.themoviedb.org/tv/%d", m.ID)
	}
	return fmt.Sprintf("/movie/%d", m.ID)
}

// MovieDetail holds everything displayed on the movie page
type MovieDetail struct {
	MovieSummary

	Runtime             int      `json:"runtime"`
	Budget              int64    `json:"budget"`
	Revenue             int64    `json:"revenue"`
	Tagline             string   `json:"tagline"`
	Status              string   `json:"status"`
	OriginalLanguage    string   `json:"original_language"`
	IMDbID              string   `json:"imdb_id"`
	Genres              []string `json:"genres"`
	ProductionCountries []string `json:"production_countries"` // ISO 3166-1 codes

	// Filled from the credits crew, the detail resource never carries them
	Directors []CrewEntry `json:"directors"`
	Writers   []CrewEntry `json:"writers"`
}

type CastEntry struct {
	ID          int64  `json:"id"`
	CastID      int64  `json:"cast_id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
}

type CrewEntry struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// Credits is the cast and crew of a movie
type Credits struct {
	Cast []CastEntry
	Crew []CrewEntry
}

type Review struct {
	ID      string `json:"id"`
	Author  string `json:"author"`
	Content string `json:"content"`
}

// LikeState maps a movie ID to its like toggle. A missing ID is not liked.
type LikeState map[int64]bool

// CatalogState is a consistent copy of a visitor's catalog, ready to be rendered
type CatalogState struct {
	Movies        []MovieSummary `json:"movies"`
	Loading       bool           `json:"loading"`
	Heading       string         `json:"heading"`
	Category      string         `json:"category"`
	FeaturedIndex int            `json:"featured_index"`
	Featured      *MovieSummary  `json:"featured"` // nil when the index is past the end of Movies
	Likes         LikeState      `json:"likes"`
	MenuOpen      bool           `json:"menu_open"`
}
