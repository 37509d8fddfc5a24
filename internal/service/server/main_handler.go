package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Agurato/cineverse/internal/business"
)

const placeholderImage = "/static/img/placeholder.svg"

type MainCacher interface {
	Fetch(sourceUrl, filePath string) (cachedPath string, hasToWait bool, err error)
}

type MainImageLinker interface {
	GetImageLink(size, key string) string
}

type MainHandler struct {
	MainCacher
	MainImageLinker
	sizes business.ImageSizes
}

// NewMainHandler creates the handler for error pages and images. mc may be nil, images are
// then linked straight to the CDN.
func NewMainHandler(mc MainCacher, mil MainImageLinker, sizes business.ImageSizes) *MainHandler {
	return &MainHandler{
		MainCacher:      mc,
		MainImageLinker: mil,
		sizes:           sizes,
	}
}

// Error404 displays the 404 page
func (mh MainHandler) Error404(c *gin.Context) {
	RenderHTML(c, http.StatusNotFound, "pages/404.go.html", gin.H{
		"title": "404 - Not Found",
	})
}

// ImageURL returns the URL of an image of the given kind (poster, backdrop or profile).
// Missing images get a placeholder.
func (mh MainHandler) ImageURL(kind, key string) string {
	size := mh.size(kind)
	if key == "" || size == "" {
		return placeholderImage
	}
	if mh.MainCacher == nil {
		return mh.MainImageLinker.GetImageLink(size, key)
	}
	return "/images/" + size + key
}

// GETImage serves an image from the cache, downloading it first if needed
func (mh MainHandler) GETImage(c *gin.Context) {
	size := c.Param("size")
	key := c.Param("path")
	if key == "" || key == "/" || !mh.knownSize(size) {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	sourceUrl := mh.MainImageLinker.GetImageLink(size, key)
	if mh.MainCacher == nil {
		c.Redirect(http.StatusFound, sourceUrl)
		return
	}

	cachedPath, hasToWait, err := mh.MainCacher.Fetch(sourceUrl, size+key)
	if err != nil {
		log.Error().Err(err).Str("url", sourceUrl).Msg("Could not cache image")
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	if hasToWait {
		c.Redirect(http.StatusFound, sourceUrl)
		return
	}
	c.File(cachedPath)
}

func (mh MainHandler) size(kind string) string {
	switch kind {
	case "poster":
		return mh.sizes.Poster
	case "backdrop":
		return mh.sizes.Backdrop
	case "profile":
		return mh.sizes.Profile
	}
	return ""
}

func (mh MainHandler) knownSize(size string) bool {
	return size != "" && (size == mh.sizes.Poster || size == mh.sizes.Backdrop || size == mh.sizes.Profile)
}
