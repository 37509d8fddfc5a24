package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Agurato/cineverse/internal/business"
	"github.com/Agurato/cineverse/internal/model"
)

type MovieDetailViewer interface {
	LoadDetail(movieID int64) *business.MovieDetailPage
}

type MovieResolver interface {
	ResolveLink(inputUrl string) (int64, error)
	ResolveTitle(query string) (int64, error)
}

type MovieHandler struct {
	MovieDetailViewer
	MovieResolver
}

func NewMovieHandler(mdv MovieDetailViewer, mr MovieResolver) *MovieHandler {
	return &MovieHandler{
		MovieDetailViewer: mdv,
		MovieResolver:     mr,
	}
}

// GETMovie displays the details, cast and reviews of a movie
func (mh MovieHandler) GETMovie(c *gin.Context) {
	movieID, err := model.ParseMovieID(c.Param("id"))
	if err != nil {
		movieNotFound(c, "")
		return
	}
	page := mh.MovieDetailViewer.LoadDetail(movieID)
	if !page.Found {
		movieNotFound(c, "")
		return
	}

	view := business.NewDetailView(page, c.Query("cast") == "all", c.Query("reviews") == "all")
	title := page.Movie.Title
	if year := business.FormatYear(page.Movie.ReleaseDate); year != "" {
		title = fmt.Sprintf("%s (%s)", title, year)
	}
	RenderHTML(c, http.StatusOK, "pages/movie.go.html", gin.H{
		"title": title,
		"view":  view,
		"movie": page.Movie,
	})
}

// GETLookup opens the movie a TMDB, IMDb or Letterboxd link points to
func (mh MovieHandler) GETLookup(c *gin.Context) {
	link := c.Query("link")
	movieID, err := mh.MovieResolver.ResolveLink(link)
	if err != nil {
		log.Error().Err(err).Str("link", link).Msg("Could not resolve link")
		movieNotFound(c, "This link does not lead to a known movie")
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/movie/%d", movieID))
}

// GETLucky opens the best match for a title
func (mh MovieHandler) GETLucky(c *gin.Context) {
	query := c.Query("query")
	movieID, err := mh.MovieResolver.ResolveTitle(query)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("Could not find a movie matching the query")
		movieNotFound(c, "No movie matches this title")
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/movie/%d", movieID))
}

func movieNotFound(c *gin.Context, reason string) {
	RenderHTML(c, http.StatusNotFound, "pages/404.go.html", gin.H{
		"title":   "Movie not found",
		"message": "Movie not found",
		"reason":  reason,
	})
}
