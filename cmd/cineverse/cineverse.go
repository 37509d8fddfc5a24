package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Agurato/cineverse/internal/business"
	"github.com/Agurato/cineverse/internal/config"
	"github.com/Agurato/cineverse/internal/infrastructure"
	"github.com/Agurato/cineverse/internal/model"
	"github.com/Agurato/cineverse/internal/service/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	zerolog.SetGlobalLevel(conf.LogLevel)
	log.Logger = conf.Logger(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpClient := &http.Client{Timeout: conf.TMDBTimeout}
	metadata, err := infrastructure.NewMetadataWrapper(conf.TMDBAPIKey, httpClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not create TMDB client")
	}
	sizes := business.ImageSizes{
		Poster:   infrastructure.PosterSize,
		Backdrop: infrastructure.BackdropSize,
		Profile:  infrastructure.ProfileSize,
	}

	detailViewer := business.NewDetailViewer(metadata)
	var cacher server.MainCacher
	if conf.CachePath != "" {
		cache, err := infrastructure.NewCache(conf.CachePath, httpClient)
		if err != nil {
			log.Fatal().Err(err).Msg("Could not create image cache")
		}
		cacher = cache
		detailViewer.WithImageCache(cache, metadata, sizes)
	}

	visitors := business.NewVisitorRegistry(metadata, conf.FeaturedInterval, conf.VisitorIdleTimeout).
		WithMaxVisitors(conf.MaxVisitors)
	go visitors.Run(ctx)

	mainHandler := server.NewMainHandler(cacher, metadata, sizes)
	catalogHandler := server.NewCatalogHandler(visitors, business.NewPaginater[model.MovieSummary](conf.ItemsPerPage), mainHandler, conf.FeaturedInterval)
	movieHandler := server.NewMovieHandler(detailViewer, business.NewResolver(metadata))

	router, err := server.NewServer(conf.CookieSecret, mainHandler, catalogHandler, movieHandler)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not create server")
	}

	srv := &http.Server{
		Addr:              conf.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", conf.ListenAddr).Msg("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Could not shut down gracefully")
	}
	visitors.Close()
}
