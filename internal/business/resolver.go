package business

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/Agurato/cineverse/internal/model"
)

type ResolverMetadataGetter interface {
	GetTMDBIDFromLink(inputUrl string) (tmdbID int64, err error)
	SearchMovies(query string) ([]model.MovieSummary, error)
}

// Resolver finds the movie a link or a free text points to
type Resolver struct {
	ResolverMetadataGetter
}

func NewResolver(rmg ResolverMetadataGetter) *Resolver {
	return &Resolver{
		ResolverMetadataGetter: rmg,
	}
}

// ResolveLink returns the TMDB ID of a TMDB, IMDb or Letterboxd movie page
func (r Resolver) ResolveLink(inputUrl string) (int64, error) {
	inputUrl = strings.TrimSpace(inputUrl)
	if inputUrl == "" {
		return 0, model.ErrMovieNotFound
	}
	tmdbID, err := r.ResolverMetadataGetter.GetTMDBIDFromLink(inputUrl)
	if err != nil {
		return 0, fmt.Errorf("error getting TMDB ID from URL '%s': %w", inputUrl, err)
	}
	return tmdbID, nil
}

// ResolveTitle searches for a title and returns the most popular result whose title is
// close enough to the query. The first result is kept if none is close enough.
func (r Resolver) ResolveTitle(raw string) (int64, error) {
	query, ok := NormalizeQuery(raw)
	if !ok {
		return 0, model.ErrMovieNotFound
	}
	results, err := r.ResolverMetadataGetter.SearchMovies(query)
	if err != nil {
		return 0, fmt.Errorf("could not search for '%s': %w", query, err)
	}
	if len(results) == 0 {
		return 0, model.ErrMovieNotFound
	}

	var (
		tmdbID      int64
		mostPopular float64
		found       bool
		lowerQuery  = strings.ToLower(query)
	)
	for _, res := range results {
		if found && res.Popularity <= mostPopular {
			continue
		}
		// Levenshtein distance so that the title corresponds at least a little bit
		if !found || levenshtein.ComputeDistance(lowerQuery, strings.ToLower(res.Title)) < len(lowerQuery)/3 {
			tmdbID = res.ID
			mostPopular = res.Popularity
			found = true
		}
	}
	return tmdbID, nil
}
