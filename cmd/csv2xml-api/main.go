// @title         csv2xml API
// @version       1.0
// @description   Converts delimited text with CUEX_ customer extension columns to XML

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"csv2xml/internal/platform/config"
	"csv2xml/internal/platform/logger"
	phttp "csv2xml/internal/platform/net/http"
	"csv2xml/internal/services/api"
	"csv2xml/internal/services/watch"
)

func main() {
	started := time.Now()

	// service-scoped config for HTTP etc (CORE_API_*)
	apiCfg := config.New().Prefix("CORE_API_")
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	mounted := api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Started:        started,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	// optional drop directory served by the same converter
	if dir := apiCfg.MayString("WATCH_DIR", ""); dir != "" {
		w, err := watch.New(mounted.Convert.Converter, watch.Options{
			InDir:    dir,
			OutDir:   apiCfg.MayString("WATCH_OUT_DIR", ""),
			Debounce: apiCfg.MayDuration("WATCH_DEBOUNCE", watch.DefaultDebounce),
			Convert:  watchOptions(apiCfg),
			Initial:  apiCfg.MayBool("WATCH_INITIAL", true),
		})
		if err != nil {
			l.Fatal().Err(err).Msg("watch setup failed")
		}
		go func() {
			if err := w.Run(ctx); err != nil {
				l.Error().Err(err).Msg("watcher stopped")
			}
		}()
	}

	if err := srv.Run(ctx); err != nil {
		l.Fatal().Err(err).Msg("http server stopped")
	}
	l.Info().Dur("uptime", time.Since(started)).Msg("bye")
}
