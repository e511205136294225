package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	tomb "gopkg.in/tomb.v2"

	"matchbook/internal/httpapi"
	"matchbook/internal/market"
)

// runServe wires the Market, the HTTP adapter and a tomb-supervised
// listener goroutine, and blocks until SIGINT/SIGTERM.
func runServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := market.New(
		market.WithJournalCapacity(viper.GetInt("journal-capacity")),
		market.WithMetrics(market.NewMetrics(prometheus.DefaultRegisterer)),
	)

	addr := fmt.Sprintf("%s:%d", viper.GetString("address"), viper.GetInt("port"))
	httpServer := &http.Server{
		Addr:    addr,
		Handler: httpapi.NewServer(m),
	}

	t, ctx := tomb.WithContext(ctx)
	t.Go(func() error {
		log.Info().Str("address", addr).Msg("matchbookd listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	t.Go(func() error {
		<-t.Dying()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("matchbookd shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})

	<-ctx.Done()
	t.Kill(nil)
	return t.Wait()
}
