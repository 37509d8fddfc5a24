package business_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agurato/cineverse/internal/business"
	"github.com/Agurato/cineverse/internal/model"
)

type fakeDetailMetadata struct {
	detail     *model.MovieDetail
	credits    *model.Credits
	reviews    []model.Review
	detailErr  error
	creditsErr error
	reviewsErr error
	calls      []string
}

func (f *fakeDetailMetadata) GetMovieDetails(movieID int64) (*model.MovieDetail, error) {
	f.calls = append(f.calls, "details")
	return f.detail, f.detailErr
}

func (f *fakeDetailMetadata) GetMovieCredits(movieID int64) (*model.Credits, error) {
	f.calls = append(f.calls, "credits")
	return f.credits, f.creditsErr
}

func (f *fakeDetailMetadata) GetMovieReviews(movieID int64) ([]model.Review, error) {
	f.calls = append(f.calls, "reviews")
	return f.reviews, f.reviewsErr
}

func castOf(n int) []model.CastEntry {
	cast := make([]model.CastEntry, n)
	for i := range cast {
		cast[i] = model.CastEntry{ID: int64(i + 1), Name: "Actor", ProfilePath: "/p.jpg"}
	}
	return cast
}

func matrix() *fakeDetailMetadata {
	return &fakeDetailMetadata{
		detail: &model.MovieDetail{MovieSummary: model.MovieSummary{ID: 603, Title: "The Matrix", PosterPath: "/poster.jpg"}},
		credits: &model.Credits{
			Cast: castOf(10),
			Crew: []model.CrewEntry{
				{ID: 9340, Name: "Lana Wachowski", Job: "Director", Department: "Directing"},
				{ID: 9339, Name: "Lilly Wachowski", Job: "Director", Department: "Directing"},
				{ID: 9340, Name: "Lana Wachowski", Job: "Writer", Department: "Writing"},
				{ID: 9340, Name: "Lana Wachowski", Job: "Screenplay", Department: "Writing"},
				{ID: 9339, Name: "Lilly Wachowski", Job: "Writer", Department: "Writing"},
				{ID: 1091, Name: "Joel Silver", Job: "Producer", Department: "Production"},
			},
		},
		reviews: []model.Review{{ID: "a", Author: "x", Content: "Great."}},
	}
}

func TestLoadDetail(t *testing.T) {
	t.Run("all reads succeed", func(t *testing.T) {
		fake := matrix()
		page := business.NewDetailViewer(fake).LoadDetail(603)

		assert.True(t, page.Found)
		assert.Equal(t, "The Matrix", page.Movie.Title)
		assert.Len(t, page.Cast, 10)
		assert.Len(t, page.Reviews, 1)
		assert.Equal(t, []string{"details", "credits", "reviews"}, fake.calls)

		require.Len(t, page.Movie.Directors, 2)
		assert.Equal(t, "Lana Wachowski", page.Movie.Directors[0].Name)
		assert.Equal(t, "Lilly Wachowski", page.Movie.Directors[1].Name)
		require.Len(t, page.Movie.Writers, 2)
		assert.Equal(t, int64(9340), page.Movie.Writers[0].ID)
		assert.Equal(t, int64(9339), page.Movie.Writers[1].ID)
	})

	t.Run("detail failure", func(t *testing.T) {
		fake := matrix()
		fake.detail = nil
		fake.detailErr = errFake
		page := business.NewDetailViewer(fake).LoadDetail(603)

		assert.False(t, page.Found)
		assert.Equal(t, []string{"details", "credits", "reviews"}, fake.calls)
		assert.Len(t, page.Cast, 10)
	})

	t.Run("credits and reviews failures are independent", func(t *testing.T) {
		fake := matrix()
		fake.credits = nil
		fake.creditsErr = errFake
		page := business.NewDetailViewer(fake).LoadDetail(603)
		assert.True(t, page.Found)
		assert.Empty(t, page.Cast)
		assert.Empty(t, page.Movie.Directors)
		assert.Len(t, page.Reviews, 1)

		fake = matrix()
		fake.reviews = nil
		fake.reviewsErr = errFake
		page = business.NewDetailViewer(fake).LoadDetail(603)
		assert.True(t, page.Found)
		assert.Len(t, page.Cast, 10)
		assert.Empty(t, page.Reviews)
	})
}

type fakeCacher struct {
	mu      sync.Mutex
	fetched []string
	done    chan struct{}
	want    int
}

func (f *fakeCacher) Fetch(sourceUrl, filePath string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, sourceUrl+" "+filePath)
	if len(f.fetched) == f.want {
		close(f.done)
	}
	return "/cache/" + filePath, false, nil
}

type fakeLinker struct{}

func (fakeLinker) GetImageLink(size, key string) string {
	return "https://img/" + size + key
}

func TestLoadDetailWarmsCache(t *testing.T) {
	// poster and the 6 first cast photos, the backdrop path is empty
	cacher := &fakeCacher{done: make(chan struct{}), want: 7}
	viewer := business.NewDetailViewer(matrix()).WithImageCache(cacher, fakeLinker{}, business.ImageSizes{
		Poster: "w500", Backdrop: "original", Profile: "w185",
	})
	viewer.LoadDetail(603)
	<-cacher.done

	cacher.mu.Lock()
	defer cacher.mu.Unlock()
	assert.Equal(t, "https://img/w500/poster.jpg w500/poster.jpg", cacher.fetched[0])
	assert.Equal(t, "https://img/w185/p.jpg w185/p.jpg", cacher.fetched[1])
}

func TestDetailView(t *testing.T) {
	page := &business.MovieDetailPage{Found: true, Cast: castOf(10)}

	t.Run("cast", func(t *testing.T) {
		collapsed := business.NewDetailView(page, false, false)
		assert.Len(t, collapsed.VisibleCast(), 6)
		assert.True(t, collapsed.ShowCastToggle())
		expanded := business.NewDetailView(page, true, false)
		assert.Len(t, expanded.VisibleCast(), 10)

		short := business.NewDetailView(&business.MovieDetailPage{Cast: castOf(3)}, false, false)
		assert.Len(t, short.VisibleCast(), 3)
		assert.False(t, short.ShowCastToggle())
	})

	t.Run("reviews", func(t *testing.T) {
		reviews := []model.Review{{ID: "1"}, {ID: "2"}, {ID: "3"}}
		collapsed := business.NewDetailView(&business.MovieDetailPage{Reviews: reviews}, false, false)
		assert.Len(t, collapsed.VisibleReviews(), 2)
		assert.True(t, collapsed.ShowReviewToggle())
		expanded := business.NewDetailView(&business.MovieDetailPage{Reviews: reviews}, false, true)
		assert.Len(t, expanded.VisibleReviews(), 3)

		two := business.NewDetailView(&business.MovieDetailPage{Reviews: reviews[:2]}, false, false)
		assert.False(t, two.ShowReviewToggle())
		assert.Len(t, two.VisibleReviews(), 2)
	})

	t.Run("review text", func(t *testing.T) {
		long := model.Review{Content: strings.Repeat("a", 1500)}
		short := model.Review{Content: strings.Repeat("b", 1000)}
		collapsed := business.NewDetailView(page, false, false)
		expanded := business.NewDetailView(page, false, true)

		text := collapsed.ReviewText(long)
		assert.Equal(t, strings.Repeat("a", 1000)+"...", text)
		assert.Equal(t, long.Content, expanded.ReviewText(long))
		assert.Equal(t, short.Content, collapsed.ReviewText(short))

		accents := model.Review{Content: strings.Repeat("é", 1001)}
		assert.Equal(t, strings.Repeat("é", 1000)+"...", collapsed.ReviewText(accents))
	})
}
