package business

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Agurato/cineverse/internal/model"
)

type CatalogMetadataGetter interface {
	GetPopularMovies() ([]model.MovieSummary, error)
	GetPopularTV() ([]model.MovieSummary, error)
	DiscoverMovies(filters map[string]string) ([]model.MovieSummary, error)
	SearchMovies(query string) ([]model.MovieSummary, error)
	GetTrending(mediaType, window string) ([]model.MovieSummary, error)
	GetList(path string) ([]model.MovieSummary, error)
}

const (
	// MaxListedMovies caps the popular and category lists
	MaxListedMovies = 20
	// FeaturedCount is the number of movies the banner cycles through
	FeaturedCount = 5
	// DefaultFeaturedInterval is the time between two banner movies
	DefaultFeaturedInterval = 3 * time.Second
)

// freeToWatchPath is not a TMDB endpoint: the category always ends up empty
const freeToWatchPath = "/movie/free"

var bollywoodFilters = map[string]string{
	"region":                 "IN",
	"with_original_language": "hi",
	"sort_by":                "popularity.desc",
}

var categoryFetchers = map[string]func(CatalogMetadataGetter) ([]model.MovieSummary, error){
	model.CategoryTrending: func(mg CatalogMetadataGetter) ([]model.MovieSummary, error) {
		return mg.GetTrending("all", "week")
	},
	model.CategoryPopular: CatalogMetadataGetter.GetPopularMovies,
	model.CategoryTV:      CatalogMetadataGetter.GetPopularTV,
	model.CategoryBollywood: func(mg CatalogMetadataGetter) ([]model.MovieSummary, error) {
		return mg.DiscoverMovies(bollywoodFilters)
	},
	model.CategoryFree: func(mg CatalogMetadataGetter) ([]model.MovieSummary, error) {
		return mg.GetList(freeToWatchPath)
	},
}

// Catalog is the state behind one visitor's home page: the listed movies, the heading,
// the featured banner and the likes.
//
// Every fetch is numbered. A response is applied only if no fetch started after it,
// so a slow request can never overwrite the result of a newer one.
type Catalog struct {
	CatalogMetadataGetter

	mu            sync.Mutex
	movies        []model.MovieSummary
	loading       bool
	heading       string
	category      string
	featuredIndex int
	likes         model.LikeState
	menuOpen      bool
	generation    uint64

	interval time.Duration
	started  bool
	stopped  bool
	stop     chan struct{}
	stopOnce sync.Once
}

// NewCatalog creates a Catalog. Rotation of the featured movie starts with Start.
func NewCatalog(mg CatalogMetadataGetter, featuredInterval time.Duration) *Catalog {
	if featuredInterval <= 0 {
		featuredInterval = DefaultFeaturedInterval
	}
	return &Catalog{
		CatalogMetadataGetter: mg,
		heading:               model.DefaultHeading,
		likes:                 make(model.LikeState),
		interval:              featuredInterval,
		stop:                  make(chan struct{}),
	}
}

// LoadPopular lists the first popular movies. On failure the list is emptied.
func (c *Catalog) LoadPopular() {
	gen := c.begin(func() {
		c.heading = model.DefaultHeading
		c.category = ""
	})
	movies, err := c.CatalogMetadataGetter.GetPopularMovies()
	if err != nil {
		log.Error().Err(err).Msg("Error fetching popular movies")
		movies = nil
	}
	c.finish(gen, capMovies(movies))
}

// LoadCategory lists the movies of a menu category. The heading changes before the
// request is sent. Failures leave an empty list.
func (c *Catalog) LoadCategory(token string) error {
	category, ok := model.GetCategory(token)
	fetch, hasFetcher := categoryFetchers[token]
	if !ok || !hasFetcher {
		return model.ErrUnknownCategory
	}

	gen := c.begin(func() {
		c.heading = category.Heading
		c.category = category.Token
	})
	movies, err := fetch(c.CatalogMetadataGetter)
	if err != nil {
		log.Error().Err(err).Str("category", token).Msg("Error fetching category")
		movies = nil
	}
	c.finish(gen, capMovies(movies))
	return nil
}

// Search lists the results of a keyword search. The heading is left untouched.
// No result and a failed request both leave an empty list.
func (c *Catalog) Search(query string) {
	if strings.TrimSpace(query) == "" {
		return
	}
	gen := c.begin(nil)
	movies, err := c.CatalogMetadataGetter.SearchMovies(query)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("Error searching movies")
		movies = nil
	}
	if len(movies) == 0 {
		movies = nil
	}
	c.finish(gen, movies)
}

// ToggleLike flips the like state of a movie and returns the new state
func (c *Catalog) ToggleLike(movieID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.likes[movieID] = !c.likes[movieID]
	return c.likes[movieID]
}

// IsLiked returns the like state of a movie
func (c *Catalog) IsLiked(movieID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.likes[movieID]
}

// ToggleMenu opens or closes the side menu and returns its new state
func (c *Catalog) ToggleMenu() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.menuOpen = !c.menuOpen
	return c.menuOpen
}

// AdvanceFeatured moves the banner to the next movie, wrapping after FeaturedCount
// whatever the length of the list
func (c *Catalog) AdvanceFeatured() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.featuredIndex = (c.featuredIndex + 1) % FeaturedCount
	return c.featuredIndex
}

// Featured returns the movie the banner currently shows. ok is false when the index
// points past the end of the list.
func (c *Catalog) Featured() (movie model.MovieSummary, index int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.featuredIndex < len(c.movies) {
		return c.movies[c.featuredIndex], c.featuredIndex, true
	}
	return model.MovieSummary{}, c.featuredIndex, false
}

// Snapshot returns a copy of the state safe to use after the lock is released
func (c *Catalog) Snapshot() model.CatalogState {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := model.CatalogState{
		Movies:        append([]model.MovieSummary(nil), c.movies...),
		Loading:       c.loading,
		Heading:       c.heading,
		Category:      c.category,
		FeaturedIndex: c.featuredIndex,
		Likes:         make(model.LikeState, len(c.likes)),
		MenuOpen:      c.menuOpen,
	}
	if c.featuredIndex < len(state.Movies) {
		featured := state.Movies[c.featuredIndex]
		state.Featured = &featured
	}
	for id, liked := range c.likes {
		state.Likes[id] = liked
	}
	return state
}

// Start launches the featured movie rotation. It does nothing once the catalog is stopped.
func (c *Catalog) Start() {
	c.mu.Lock()
	if c.started || c.stopped {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	go c.rotate()
}

// Stop releases the rotation ticker. It can be called several times.
func (c *Catalog) Stop() {
	c.stopOnce.Do(func() {
		c.mu.Lock()
		c.stopped = true
		c.mu.Unlock()
		close(c.stop)
	})
}

// Stopped returns true once Stop has been called
func (c *Catalog) Stopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

func (c *Catalog) rotate() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.AdvanceFeatured()
		case <-c.stop:
			return
		}
	}
}

// begin marks the start of a fetch and returns its number. update runs under the same
// lock, so the heading always belongs to the latest fetch.
func (c *Catalog) begin(update func()) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if update != nil {
		update()
	}
	c.generation++
	c.loading = true
	return c.generation
}

// finish applies the result of fetch gen, unless a newer fetch was started since
func (c *Catalog) finish(gen uint64, movies []model.MovieSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		log.Debug().Uint64("generation", gen).Uint64("latest", c.generation).Msg("Dropping stale catalog response")
		return
	}
	c.movies = movies
	c.loading = false
}

func capMovies(movies []model.MovieSummary) []model.MovieSummary {
	if len(movies) > MaxListedMovies {
		return movies[:MaxListedMovies]
	}
	return movies
}
