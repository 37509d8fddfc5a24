package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/Agurato/cineverse/internal/business"
	"github.com/Agurato/cineverse/internal/config"
	"github.com/Agurato/cineverse/internal/infrastructure"
)

// devtest checks the TMDB setup: it resolves each argument, a title or a movie link, and
// prints the matching movie
func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	log.Logger = conf.Logger(os.Stderr)

	metadata, err := infrastructure.NewMetadataWrapper(conf.TMDBAPIKey, &http.Client{Timeout: conf.TMDBTimeout})
	if err != nil {
		log.Fatal().Err(err).Msg("Could not create TMDB client")
	}
	resolver := business.NewResolver(metadata)
	viewer := business.NewDetailViewer(metadata)

	queries := os.Args[1:]
	if len(queries) == 0 {
		queries = []string{"1917"}
	}
	for _, query := range queries {
		movieID, err := resolver.ResolveLink(query)
		if err != nil {
			movieID, err = resolver.ResolveTitle(query)
		}
		if err != nil {
			fmt.Printf("%s: %v\n", query, err)
			continue
		}
		page := viewer.LoadDetail(movieID)
		fmt.Printf("%s: %d %s (%s) %s\n", query, movieID, page.Movie.Title,
			business.FormatYear(page.Movie.ReleaseDate), business.FormatRuntime(page.Movie.Runtime))
	}
}
