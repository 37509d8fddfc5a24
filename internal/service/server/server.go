package server

import (
	"encoding/json"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Agurato/cineverse/internal/business"
	"github.com/Agurato/cineverse/internal/model"
	"github.com/Agurato/cineverse/web"
)

const (
	// VisitorKey is the session key holding the visitor ID
	VisitorKey = "visitor"
	// SessionName is the name of the visitor cookie
	SessionName = "cineverse-session"
)

// NewServer initializes the router
func NewServer(cookieSecret string, mainHandler *MainHandler, catalogHandler *CatalogHandler, movieHandler *MovieHandler) (*gin.Engine, error) {
	router := gin.Default()

	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	// The cookie dies with the browser session, so do the likes
	store := cookie.NewStore([]byte(cookieSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   0,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(SessionName, store))

	tmpl, err := template.New("").Funcs(templateFuncs(mainHandler)).ParseFS(web.Files, "templates/*/*.go.html")
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(web.Files, "static")
	if err != nil {
		return nil, err
	}
	router.StaticFS("/static", http.FS(static))

	// 404
	router.NoRoute(mainHandler.Error404)

	router.GET("/images/:size/*path", mainHandler.GETImage)

	router.GET("/movie/:id", movieHandler.GETMovie).
		GET("/lookup", movieHandler.GETLookup).
		GET("/lucky", movieHandler.GETLucky)

	// Only pages create visitors, the other routes act on an existing one
	pageRouter := router.Group("/", visitorRequired)
	pageRouter.GET("/", catalogHandler.GETIndex).
		GET("/category/:token", catalogHandler.GETCategory).
		GET("/search", catalogHandler.GETSearch)

	actionRouter := router.Group("/", visitorKnown)
	actionRouter.POST("/like/:id", catalogHandler.POSTLike).
		POST("/menu", catalogHandler.POSTMenu).
		GET("/api/featured", catalogHandler.GETFeatured).
		GET("/api/state", catalogHandler.GETState)

	return router, nil
}

func templateFuncs(mainHandler *MainHandler) template.FuncMap {
	return template.FuncMap{
		"add": func(a int, b int) int {
			return a + b
		},
		"contentScore": business.ContentScore,
		"countryName":  business.CountryName,
		"crewNames": func(crew []model.CrewEntry) string {
			return strings.Join(lo.Map(crew, func(c model.CrewEntry, _ int) string {
				return c.Name
			}), ", ")
		},
		"imageURL": mainHandler.ImageURL,
		"join":     strings.Join,
		"json": func(input any) string {
			ret, _ := json.Marshal(input)
			return string(ret)
		},
		"languageName": business.LanguageName,
		"liked": func(likes model.LikeState, movieID int64) bool {
			return likes[movieID]
		},
		"money":       business.FormatMoney,
		"releaseDate": business.FormatReleaseDate,
		"runtime":     business.FormatRuntime,
		"title":       cases.Title(language.English).String,
		"vote":        business.FormatVote,
		"year":        business.FormatYear,
	}
}

// RenderHTML renders HTML pages and adds useful objects for templates
func RenderHTML(c *gin.Context, code int, name string, obj gin.H) {
	obj["categories"] = model.Categories
	if _, ok := obj["query"]; !ok {
		obj["query"] = ""
	}
	c.HTML(code, name, obj)
}

// visitorRequired makes sure every visitor has an ID stored in its session
func visitorRequired(c *gin.Context) {
	session := sessions.Default(c)
	visitorID, _ := session.Get(VisitorKey).(string)
	if visitorID == "" {
		visitorID = uuid.NewString()
		session.Set(VisitorKey, visitorID)
		if err := session.Save(); err != nil {
			log.Error().Err(err).Msg("Could not save visitor session")
		}
	}
	c.Set(VisitorKey, visitorID)
	c.Next()
}

// visitorKnown reads the visitor ID from the session without creating one
func visitorKnown(c *gin.Context) {
	if visitorID, ok := sessions.Default(c).Get(VisitorKey).(string); ok {
		c.Set(VisitorKey, visitorID)
	}
	c.Next()
}
