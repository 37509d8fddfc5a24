package business_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Agurato/cineverse/internal/business"
	"github.com/Agurato/cineverse/internal/model"
)

type fakeResolverMetadata struct {
	links   map[string]int64
	results []model.MovieSummary
	err     error
	queries []string
}

func (f *fakeResolverMetadata) GetTMDBIDFromLink(inputUrl string) (int64, error) {
	id, ok := f.links[inputUrl]
	if !ok {
		return 0, errFake
	}
	return id, nil
}

func (f *fakeResolverMetadata) SearchMovies(query string) ([]model.MovieSummary, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

func TestResolveLink(t *testing.T) {
	resolver := business.NewResolver(&fakeResolverMetadata{links: map[string]int64{
		"https://www.themoviedb.org/movie/1817-phone-booth": 1817,
	}})

	id, err := resolver.ResolveLink(" https://www.themoviedb.org/movie/1817-phone-booth ")
	assert.NoError(t, err)
	assert.Equal(t, int64(1817), id)

	_, err = resolver.ResolveLink("https://example.com/")
	assert.ErrorIs(t, err, errFake)

	_, err = resolver.ResolveLink("  ")
	assert.ErrorIs(t, err, model.ErrMovieNotFound)
}

func TestResolveTitle(t *testing.T) {
	t.Run("most popular close title", func(t *testing.T) {
		fake := &fakeResolverMetadata{results: []model.MovieSummary{
			{ID: 1, Title: "Batman Returns", Popularity: 10},
			{ID: 2, Title: "Batman", Popularity: 30},
			{ID: 3, Title: "Batwoman", Popularity: 50},
			{ID: 4, Title: "batman", Popularity: 20},
		}}
		id, err := business.NewResolver(fake).ResolveTitle("  Batman ")
		assert.NoError(t, err)
		assert.Equal(t, int64(2), id)
		assert.Equal(t, []string{"Batman"}, fake.queries)
	})

	t.Run("falls back on first result", func(t *testing.T) {
		fake := &fakeResolverMetadata{results: []model.MovieSummary{
			{ID: 7, Title: "Something Else", Popularity: 1},
			{ID: 8, Title: "Unrelated", Popularity: 100},
		}}
		id, err := business.NewResolver(fake).ResolveTitle("matrix")
		assert.NoError(t, err)
		assert.Equal(t, int64(7), id)
	})

	t.Run("no result", func(t *testing.T) {
		_, err := business.NewResolver(&fakeResolverMetadata{}).ResolveTitle("zzzz")
		assert.ErrorIs(t, err, model.ErrMovieNotFound)
	})

	t.Run("blank query", func(t *testing.T) {
		fake := &fakeResolverMetadata{}
		_, err := business.NewResolver(fake).ResolveTitle("   ")
		assert.ErrorIs(t, err, model.ErrMovieNotFound)
		assert.Empty(t, fake.queries)
	})

	t.Run("search failure", func(t *testing.T) {
		_, err := business.NewResolver(&fakeResolverMetadata{err: errFake}).ResolveTitle("matrix")
		assert.ErrorIs(t, err, errFake)
	})
}
