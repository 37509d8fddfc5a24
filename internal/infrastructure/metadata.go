package infrastructure

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	tmdb "github.com/cyruzin/golang-tmdb"
	"github.com/rs/zerolog/log"

	"github.com/Agurato/cineverse/internal/model"
)

type MetadataWrapper struct {
	client     *tmdb.Client
	httpClient *http.Client
	apiKey     string
}

// NewMetadataWrapper initializes a MetadataWrapper. Every TMDB call, including the
// ones made by golang-tmdb, goes through httpClient.
func NewMetadataWrapper(tmdbAPIKey string, httpClient *http.Client) (*MetadataWrapper, error) {
	client, err := tmdb.Init(tmdbAPIKey)
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	client.SetClientConfig(*httpClient)
	return &MetadataWrapper{
		client:     client,
		httpClient: httpClient,
		apiKey:     tmdbAPIKey,
	}, nil
}

const (
	tmdbAPIURL   = "https://api.themoviedb.org/3"
	tmdbImageURL = "https://image.tmdb.org/t/p/"
)

// Image sizes used by the pages
const (
	PosterSize   = tmdb.W500
	BackdropSize = tmdb.Original
	ProfileSize  = tmdb.W185
)

// GetImageLink returns the CDN URL of an image path at the given size
func (mw MetadataWrapper) GetImageLink(size, key string) string {
	return tmdbImageURL + size + "/" + strings.TrimPrefix(key, "/")
}

// GetPopularMovies fetches the first page of popular movies
func (mw MetadataWrapper) GetPopularMovies() ([]model.MovieSummary, error) {
	res, err := mw.client.GetMoviePopular(nil)
	if err != nil {
		return nil, fmt.Errorf("could not fetch popular movies: %w", err)
	}
	movies := make([]model.MovieSummary, 0, len(res.Results))
	for _, r := range res.Results {
		movies = append(movies, model.MovieSummary{
			ID:           int64(r.ID),
			Title:        r.Title,
			PosterPath:   r.PosterPath,
			BackdropPath: r.BackdropPath,
			ReleaseDate:  r.ReleaseDate,
			Overview:     r.Overview,
			VoteAverage:  float64(r.VoteAverage),
			Popularity:   float64(r.Popularity),
		})
	}
	return movies, nil
}

// GetPopularTV fetches the first page of popular TV shows, mapped onto movie summaries
func (mw MetadataWrapper) GetPopularTV() ([]model.MovieSummary, error) {
	res, err := mw.client.GetTVPopular(nil)
	if err != nil {
		return nil, fmt.Errorf("could not fetch popular TV shows: %w", err)
	}
	shows := make([]model.MovieSummary, 0, len(res.Results))
	for _, r := range res.Results {
		shows = append(shows, model.MovieSummary{
			ID:           int64(r.ID),
			Title:        r.Name,
			PosterPath:   r.PosterPath,
			BackdropPath: r.BackdropPath,
			ReleaseDate:  r.FirstAirDate,
			Overview:     r.Overview,
			VoteAverage:  float64(r.VoteAverage),
			Popularity:   float64(r.Popularity),
			MediaType:    model.MediaTypeTV,
		})
	}
	return shows, nil
}

// DiscoverMovies runs a discover query with the given filters
func (mw MetadataWrapper) DiscoverMovies(filters map[string]string) ([]model.MovieSummary, error) {
	res, err := mw.client.GetDiscoverMovie(filters)
	if err != nil {
		return nil, fmt.Errorf("could not discover movies: %w", err)
	}
	movies := make([]model.MovieSummary, 0, len(res.Results))
	for _, r := range res.Results {
		movies = append(movies, model.MovieSummary{
			ID:           int64(r.ID),
			Title:        r.Title,
			PosterPath:   r.PosterPath,
			BackdropPath: r.BackdropPath,
			ReleaseDate:  r.ReleaseDate,
			Overview:     r.Overview,
			VoteAverage:  float64(r.VoteAverage),
			Popularity:   float64(r.Popularity),
		})
	}
	return movies, nil
}

// SearchMovies runs a keyword search
func (mw MetadataWrapper) SearchMovies(query string) ([]model.MovieSummary, error) {
	res, err := mw.client.GetSearchMovies(query, nil)
	if err != nil {
		return nil, fmt.Errorf("could not search movies for '%s': %w", query, err)
	}
	movies := make([]model.MovieSummary, 0, len(res.Results))
	for _, r := range res.Results {
		movies = append(movies, model.MovieSummary{
			ID:           int64(r.ID),
			Title:        r.Title,
			PosterPath:   r.PosterPath,
			BackdropPath: r.BackdropPath,
			ReleaseDate:  r.ReleaseDate,
			Overview:     r.Overview,
			VoteAverage:  float64(r.VoteAverage),
			Popularity:   float64(r.Popularity),
		})
	}
	return movies, nil
}

// GetTrending fetches trending items. mediaType is one of all, movie, tv; window is day or week.
func (mw MetadataWrapper) GetTrending(mediaType, window string) ([]model.MovieSummary, error) {
	return mw.GetList(fmt.Sprintf("/trending/%s/%s", mediaType, window))
}

// GetList fetches any endpoint answering with a page of movie or TV results
func (mw MetadataWrapper) GetList(path string) ([]model.MovieSummary, error) {
	var page listPage
	if err := mw.getJSON(path, nil, &page); err != nil {
		return nil, err
	}
	movies := make([]model.MovieSummary, 0, len(page.Results))
	for _, r := range page.Results {
		movies = append(movies, r.summary())
	}
	return movies, nil
}

// GetMovieDetails fetches a movie's details
func (mw MetadataWrapper) GetMovieDetails(movieID int64) (*model.MovieDetail, error) {
	details, err := mw.client.GetMovieDetails(int(movieID), nil)
	if err != nil {
		return nil, fmt.Errorf("could not fetch details of movie %d: %w", movieID, err)
	}
	movie := &model.MovieDetail{
		MovieSummary: model.MovieSummary{
			ID:           int64(details.ID),
			Title:        details.Title,
			PosterPath:   details.PosterPath,
			BackdropPath: details.BackdropPath,
			ReleaseDate:  details.ReleaseDate,
			Overview:     details.Overview,
			VoteAverage:  float64(details.VoteAverage),
			Popularity:   float64(details.Popularity),
		},
		Runtime:          int(details.Runtime),
		Budget:           int64(details.Budget),
		Revenue:          int64(details.Revenue),
		Tagline:          details.Tagline,
		Status:           details.Status,
		OriginalLanguage: details.OriginalLanguage,
		IMDbID:           details.IMDbID,
	}
	for _, genre := range details.Genres {
		movie.Genres = append(movie.Genres, genre.Name)
	}
	for _, country := range details.ProductionCountries {
		movie.ProductionCountries = append(movie.ProductionCountries, country.Iso3166_1)
	}
	return movie, nil
}

// GetMovieCredits fetches the cast and crew of a movie
func (mw MetadataWrapper) GetMovieCredits(movieID int64) (*model.Credits, error) {
	res, err := mw.client.GetMovieCredits(int(movieID), nil)
	if err != nil {
		return nil, fmt.Errorf("could not fetch credits of movie %d: %w", movieID, err)
	}
	credits := &model.Credits{}
	for _, cast := range res.Cast {
		credits.Cast = append(credits.Cast, model.CastEntry{
			ID:          int64(cast.ID),
			CastID:      int64(cast.CastID),
			Name:        cast.Name,
			Character:   cast.Character,
			ProfilePath: cast.ProfilePath,
		})
	}
	for _, crew := range res.Crew {
		credits.Crew = append(credits.Crew, model.CrewEntry{
			ID:         int64(crew.ID),
			Name:       crew.Name,
			Job:        crew.Job,
			Department: crew.Department,
		})
	}
	return credits, nil
}

// GetMovieReviews fetches the first page of reviews of a movie
func (mw MetadataWrapper) GetMovieReviews(movieID int64) ([]model.Review, error) {
	res, err := mw.client.GetMovieReviews(int(movieID), nil)
	if err != nil {
		return nil, fmt.Errorf("could not fetch reviews of movie %d: %w", movieID, err)
	}
	reviews := make([]model.Review, 0, len(res.Results))
	for _, r := range res.Results {
		reviews = append(reviews, model.Review{
			ID:      fmt.Sprint(r.ID),
			Author:  r.Author,
			Content: r.Content,
		})
	}
	return reviews, nil
}

// GetTMDBIDFromLink returns the TMDB ID from a TMDB, IMDb, or Letterboxd URL
func (mw MetadataWrapper) GetTMDBIDFromLink(inputUrl string) (tmdbID int64, err error) {
	urlParsed, err := url.Parse(inputUrl)
	if err != nil {
		return tmdbID, err
	}
	switch urlParsed.Host {
	case "www.themoviedb.org", "themoviedb.org":
		tmdbID, err = model.ParseTheMovieDBLink(urlParsed)
	case "www.imdb.com", "imdb.com", "m.imdb.com":
		tmdbID, err = mw.getTMDBIDFromIMDb(urlParsed)
	case "letterboxd.com", "www.letterboxd.com":
		tmdbID, err = mw.getTMDBIDFromLetterboxd(inputUrl)
	default:
		err = errors.New("the host could not be found")
	}

	return tmdbID, err
}

// getTMDBIDFromIMDb returns the TMDB ID from an IMDb URL, using the TMDB find endpoint
func (mw MetadataWrapper) getTMDBIDFromIMDb(u *url.URL) (int64, error) {
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] != "title" || !strings.HasPrefix(parts[1], "tt") {
		return 0, errors.New("cannot fetch TMDB ID from IMDb")
	}
	res, err := mw.client.GetFindByID(parts[1], map[string]string{"external_source": "imdb_id"})
	if err != nil {
		return 0, err
	}
	if len(res.MovieResults) == 0 {
		return 0, model.ErrMovieNotFound
	}
	return int64(res.MovieResults[0].ID), nil
}

// getTMDBIDFromLetterboxd returns the TMDB ID from a Letterboxd URL
func (mw MetadataWrapper) getTMDBIDFromLetterboxd(inputUrl string) (int64, error) {
	// Get the page's HTML
	res, err := mw.httpClient.Get(inputUrl)
	if err != nil {
		log.Error().Str("url", inputUrl).Err(err).Msg("Cannot fetch TMDB ID from Letterboxd")
		return 0, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return 0, errors.New("cannot fetch TMDB ID from Letterboxd")
	}
	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return 0, err
	}

	// Get TMDB anchor from the page
	tmdbUrl, exists := doc.Find("a[data-track-action=TMDb]").First().Attr("href")
	if !exists {
		return 0, errors.New("cannot fetch TMDB ID from Letterboxd")
	}
	u, err := url.Parse(tmdbUrl)
	if err != nil {
		return 0, err
	}
	return model.ParseTheMovieDBLink(u)
}

// getJSON performs a GET on a TMDB path golang-tmdb does not cover and decodes the body in out
func (mw MetadataWrapper) getJSON(path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", mw.apiKey)

	resp, err := mw.httpClient.Get(tmdbAPIURL + path + "?" + params.Encode())
	if err != nil {
		return fmt.Errorf("could not fetch %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &model.UpstreamStatusError{Path: path, StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not decode %s: %w", path, err)
	}
	return nil
}

type listPage struct {
	Page    int          `json:"page"`
	Results []listResult `json:"results"`
}

// listResult covers both movie and TV items, trending lists mix them
type listResult struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	Overview     string  `json:"overview"`
	VoteAverage  float64 `json:"vote_average"`
	Popularity   float64 `json:"popularity"`
	MediaType    string  `json:"media_type"`
}

func (r listResult) summary() model.MovieSummary {
	s := model.MovieSummary{
		ID:           r.ID,
		Title:        r.Title,
		PosterPath:   r.PosterPath,
		BackdropPath: r.BackdropPath,
		ReleaseDate:  r.ReleaseDate,
		Overview:     r.Overview,
		VoteAverage:  r.VoteAverage,
		Popularity:   r.Popularity,
		MediaType:    r.MediaType,
	}
	if s.Title == "" {
		s.Title = r.Name
	}
	if s.ReleaseDate == "" {
		s.ReleaseDate = r.FirstAirDate
	}
	return s
}
