package server

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Agurato/cineverse/internal/business"
	"github.com/Agurato/cineverse/internal/model"
)

type CatalogVisitors interface {
	Get(visitorID string) (catalog *business.Catalog, created bool)
	Peek(visitorID string) (*business.Catalog, bool)
}

type CatalogPaginater[T model.MovieSummary] interface {
	GetPagination(currentPage int64, items []T) ([]T, []model.Pagination)
}

type CatalogImageLinker interface {
	ImageURL(kind, key string) string
}

type CatalogHandler struct {
	CatalogVisitors
	CatalogPaginater[model.MovieSummary]
	CatalogImageLinker
	featuredInterval time.Duration
}

func NewCatalogHandler(cv CatalogVisitors, cp CatalogPaginater[model.MovieSummary], cil CatalogImageLinker, featuredInterval time.Duration) *CatalogHandler {
	return &CatalogHandler{
		CatalogVisitors:    cv,
		CatalogPaginater:   cp,
		CatalogImageLinker: cil,
		featuredInterval:   featuredInterval,
	}
}

// GETIndex lists the popular movies
func (ch CatalogHandler) GETIndex(c *gin.Context) {
	catalog, created := ch.catalog(c)
	if !created {
		catalog.LoadPopular()
	}
	ch.renderCatalog(c, catalog, "/?", "")
}

// GETCategory lists the movies of a menu category
func (ch CatalogHandler) GETCategory(c *gin.Context) {
	token := c.Param("token")
	catalog, _ := ch.catalog(c)
	if err := catalog.LoadCategory(token); errors.Is(err, model.ErrUnknownCategory) {
		RenderHTML(c, http.StatusNotFound, "pages/404.go.html", gin.H{
			"title": "404 - Not Found",
		})
		return
	}
	ch.renderCatalog(c, catalog, "/category/"+url.PathEscape(token)+"?", "")
}

// GETSearch lists the movies matching the query. Blank queries go back to the home page.
func (ch CatalogHandler) GETSearch(c *gin.Context) {
	query, ok := business.NormalizeQuery(c.Query("query"))
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	catalog, _ := ch.catalog(c)
	catalog.Search(query)
	ch.renderCatalog(c, catalog, "/search?"+url.Values{"query": {query}}.Encode()+"&", query)
}

// POSTLike toggles the like of a movie
func (ch CatalogHandler) POSTLike(c *gin.Context) {
	movieID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || movieID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie ID"})
		return
	}
	catalog := ch.knownCatalog(c)
	liked := catalog.ToggleLike(movieID)

	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		c.JSON(http.StatusOK, gin.H{"id": movieID, "liked": liked})
		return
	}
	c.Redirect(http.StatusSeeOther, backTo(c))
}

// POSTMenu opens or closes the side menu
func (ch CatalogHandler) POSTMenu(c *gin.Context) {
	catalog := ch.knownCatalog(c)
	catalog.ToggleMenu()
	c.Redirect(http.StatusSeeOther, backTo(c))
}

// GETFeatured returns the movie currently shown in the banner
func (ch CatalogHandler) GETFeatured(c *gin.Context) {
	catalog := ch.knownCatalog(c)
	movie, index, ok := catalog.Featured()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"index": index, "movie": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"index":    index,
		"movie":    movie,
		"link":     movie.DetailURL(),
		"backdrop": ch.CatalogImageLinker.ImageURL("backdrop", movie.BackdropPath),
	})
}

// GETState returns the whole catalog state
func (ch CatalogHandler) GETState(c *gin.Context) {
	catalog := ch.knownCatalog(c)
	c.JSON(http.StatusOK, catalog.Snapshot())
}

func (ch CatalogHandler) catalog(c *gin.Context) (*business.Catalog, bool) {
	return ch.CatalogVisitors.Get(c.GetString(VisitorKey))
}

// knownCatalog returns the catalog of a visitor who already opened a page. Anyone else gets
// an empty catalog that is not kept.
func (ch CatalogHandler) knownCatalog(c *gin.Context) *business.Catalog {
	if catalog, ok := ch.CatalogVisitors.Peek(c.GetString(VisitorKey)); ok {
		return catalog
	}
	return business.NewCatalog(nil, 0)
}

func (ch CatalogHandler) renderCatalog(c *gin.Context, catalog *business.Catalog, pageURL, query string) {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil {
		page = 1
	}
	state := catalog.Snapshot()
	movies, pages := ch.CatalogPaginater.GetPagination(page, state.Movies)

	RenderHTML(c, http.StatusOK, "pages/index.go.html", gin.H{
		"title":            "cineverse",
		"state":            state,
		"movies":           movies,
		"pages":            pages,
		"pageURL":          pageURL + "page=",
		"query":            query,
		"featuredInterval": ch.featuredInterval.Milliseconds(),
	})
}

// backTo returns the local page the request came from, or the home page
func backTo(c *gin.Context) string {
	referer, err := url.Parse(c.Request.Referer())
	if err != nil || referer.Path == "" || referer.Host != c.Request.Host {
		return "/"
	}
	if referer.RawQuery != "" {
		return referer.Path + "?" + referer.RawQuery
	}
	return referer.Path
}
