// The poller periodically samples a running server's aggregate occupancy and
// persists the readings, including "Server Down" rows when the server is
// unreachable.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/avlowe/watchroom/internal/app"
	"github.com/avlowe/watchroom/internal/config"
	"github.com/avlowe/watchroom/internal/snapshot"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	store, err := snapshot.Open(cfg.SnapshotPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.SnapshotPath).Msg("failed to open snapshot store")
	}
	defer store.Close()

	client := &http.Client{Timeout: 15 * time.Second}
	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	log.Info().Str("server", cfg.ServerURL).Dur("interval", cfg.PollInterval).Msg("occupancy poller started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("poller exiting")
			return
		case <-ticker.C:
			pollOnce(client, cfg.ServerURL, store)
		}
	}
}

func pollOnce(client *http.Client, serverURL string, store *snapshot.Store) {
	stats, err := fetchStats(client, serverURL)
	if err != nil {
		log.Warn().Err(err).Msg("server unreachable")
		insert(store, snapshot.Snapshot{
			TakenAt: time.Now(),
			Status:  snapshot.StatusDown,
		})
		return
	}

	log.Info().Int("rooms", stats.CurrNumRooms).Int("users", stats.CurrNumUsers).Msg("occupancy sampled")
	insert(store, snapshot.Snapshot{
		TakenAt:  time.Now(),
		NumRooms: stats.CurrNumRooms,
		NumUsers: stats.CurrNumUsers,
		Status:   snapshot.StatusUp,
	})
}

func fetchStats(client *http.Client, serverURL string) (app.Stats, error) {
	var stats app.Stats

	resp, err := client.Get(serverURL + "/rooms/data")
	if err != nil {
		return stats, err
	}
	defer resp.Body.Close()

	err = json.NewDecoder(resp.Body).Decode(&stats)
	return stats, err
}

func insert(store *snapshot.Store, snap snapshot.Snapshot) {
	if err := store.Insert(snap); err != nil {
		log.Error().Err(err).Msg("failed to insert snapshot")
	}
}
