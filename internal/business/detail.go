package business

import (
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/Agurato/cineverse/internal/model"
)

type DetailMetadataGetter interface {
	GetMovieDetails(movieID int64) (*model.MovieDetail, error)
	GetMovieCredits(movieID int64) (*model.Credits, error)
	GetMovieReviews(movieID int64) ([]model.Review, error)
}

// DetailCacher downloads images ahead of the page being rendered
type DetailCacher interface {
	Fetch(sourceUrl, filePath string) (cachedPath string, hasToWait bool, err error)
}

// DetailImageLinker builds the upstream URL of an image
type DetailImageLinker interface {
	GetImageLink(size, key string) string
}

const (
	CollapsedCastCount    = 6
	CollapsedReviewCount  = 2
	CollapsedReviewLength = 1000
)

// MovieDetailPage is everything the detail page shows for one movie
type MovieDetailPage struct {
	ID      int64
	Found   bool
	Movie   model.MovieDetail
	Cast    []model.CastEntry
	Reviews []model.Review
}

type DetailViewer struct {
	DetailMetadataGetter
	cacher DetailCacher
	linker DetailImageLinker
	sizes  ImageSizes
}

// ImageSizes are the upstream sizes used for each kind of image
type ImageSizes struct {
	Poster   string
	Backdrop string
	Profile  string
}

func NewDetailViewer(dmg DetailMetadataGetter) *DetailViewer {
	return &DetailViewer{
		DetailMetadataGetter: dmg,
	}
}

// WithImageCache makes LoadDetail warm the image cache for the movie it loaded
func (dv *DetailViewer) WithImageCache(cacher DetailCacher, linker DetailImageLinker, sizes ImageSizes) *DetailViewer {
	dv.cacher = cacher
	dv.linker = linker
	dv.sizes = sizes
	return dv
}

// LoadDetail reads the details, credits and reviews of a movie, one after the other.
// A failed read is logged and does not stop the next ones.
func (dv DetailViewer) LoadDetail(movieID int64) *MovieDetailPage {
	page := &MovieDetailPage{ID: movieID}

	movie, err := dv.DetailMetadataGetter.GetMovieDetails(movieID)
	if err != nil {
		log.Error().Err(err).Int64("movieID", movieID).Msg("Unable to fetch movie details")
	} else if movie != nil {
		page.Found = true
		page.Movie = *movie
	}

	credits, err := dv.DetailMetadataGetter.GetMovieCredits(movieID)
	if err != nil {
		log.Error().Err(err).Int64("movieID", movieID).Msg("Unable to fetch movie credits")
	} else if credits != nil {
		page.Cast = credits.Cast
		page.Movie.Directors = Directors(credits.Crew)
		page.Movie.Writers = Writers(credits.Crew)
	}

	reviews, err := dv.DetailMetadataGetter.GetMovieReviews(movieID)
	if err != nil {
		log.Error().Err(err).Int64("movieID", movieID).Msg("Unable to fetch movie reviews")
	} else {
		page.Reviews = reviews
	}

	if page.Found && dv.cacher != nil {
		go dv.cacheImages(page)
	}
	return page
}

// Directors returns the crew members credited as director, once each
func Directors(crew []model.CrewEntry) []model.CrewEntry {
	directors := lo.Filter(crew, func(c model.CrewEntry, _ int) bool {
		return c.Job == "Director"
	})
	return lo.UniqBy(directors, func(c model.CrewEntry) int64 { return c.ID })
}

// Writers returns the crew members of the writing department, once each
func Writers(crew []model.CrewEntry) []model.CrewEntry {
	writers := lo.Filter(crew, func(c model.CrewEntry, _ int) bool {
		return c.Department == "Writing"
	})
	return lo.UniqBy(writers, func(c model.CrewEntry) int64 { return c.ID })
}

func (dv DetailViewer) cacheImages(page *MovieDetailPage) {
	dv.cacheImage(dv.sizes.Poster, page.Movie.PosterPath)
	dv.cacheImage(dv.sizes.Backdrop, page.Movie.BackdropPath)
	for _, cast := range dv.visibleCast(page.Cast) {
		dv.cacheImage(dv.sizes.Profile, cast.ProfilePath)
	}
}

func (dv DetailViewer) visibleCast(cast []model.CastEntry) []model.CastEntry {
	if len(cast) > CollapsedCastCount {
		return cast[:CollapsedCastCount]
	}
	return cast
}

func (dv DetailViewer) cacheImage(size, key string) {
	if key == "" || size == "" {
		return
	}
	_, hasToWait, err := dv.cacher.Fetch(dv.linker.GetImageLink(size, key), size+key)
	if err != nil {
		log.Error().Err(err).Str("image", key).Msg("Could not cache image")
	}
	if hasToWait {
		log.Warn().Str("image", key).Msg("Will try to cache image later")
	}
}

// DetailView is the detail page with its expansion toggles
type DetailView struct {
	*MovieDetailPage
	CastExpanded    bool
	ReviewsExpanded bool
}

func NewDetailView(page *MovieDetailPage, castExpanded, reviewsExpanded bool) DetailView {
	return DetailView{
		MovieDetailPage: page,
		CastExpanded:    castExpanded,
		ReviewsExpanded: reviewsExpanded,
	}
}

// VisibleCast returns the first 6 cast members, or all of them when expanded
func (v DetailView) VisibleCast() []model.CastEntry {
	if v.CastExpanded || len(v.Cast) <= CollapsedCastCount {
		return v.Cast
	}
	return v.Cast[:CollapsedCastCount]
}

// ShowCastToggle is true when some cast members are hidden or can be hidden
func (v DetailView) ShowCastToggle() bool {
	return len(v.Cast) > CollapsedCastCount
}

// VisibleReviews returns the first 2 reviews, or all of them when expanded
func (v DetailView) VisibleReviews() []model.Review {
	if v.ReviewsExpanded || len(v.Reviews) <= CollapsedReviewCount {
		return v.Reviews
	}
	return v.Reviews[:CollapsedReviewCount]
}

// ShowReviewToggle is true only when there are more than 2 reviews
func (v DetailView) ShowReviewToggle() bool {
	return len(v.Reviews) > CollapsedReviewCount
}

// ReviewText cuts the review content at 1000 characters while reviews are collapsed
func (v DetailView) ReviewText(review model.Review) string {
	if v.ReviewsExpanded || utf8.RuneCountInString(review.Content) <= CollapsedReviewLength {
		return review.Content
	}
	return string([]rune(review.Content)[:CollapsedReviewLength]) + "..."
}
