package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/coreman2200/statusmonitor/internal/ws"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the indicator bank with a websocket control and status hub",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.HTTP.Addr, _ = cmd.Flags().GetString("addr")
		}

		mon, drv, selected, err := openMonitor(cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := drv.Close(); err != nil {
				log.Warn().Err(err).Msg("close driver")
			}
		}()

		state := ws.NewState(mon, selected, log.Logger)
		mux := http.NewServeMux()
		state.Routes(mux)
		mux.Handle("/metrics", promhttp.Handler())

		srv := &http.Server{
			Addr:         cfg.HTTP.Addr,
			Handler:      withCORS(mux),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		errc := make(chan error, 1)
		go func() {
			log.Info().Str("addr", cfg.HTTP.Addr).Str("driver", selected).Msg("HTTP server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- err
			}
		}()

		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(ch)

		select {
		case s := <-ch:
			log.Info().Str("signal", s.String()).Msg("shutting down")
		case err := <-errc:
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "HTTP listen address")
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
