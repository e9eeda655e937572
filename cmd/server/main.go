package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mkhare/splitledger/internal/config"
	"github.com/mkhare/splitledger/internal/events"
	"github.com/mkhare/splitledger/internal/server"
	"github.com/mkhare/splitledger/internal/service"
	"github.com/mkhare/splitledger/internal/storage"
	"github.com/mkhare/splitledger/internal/storage/postgres"
	"github.com/mkhare/splitledger/internal/storage/sqlite"
	"github.com/mkhare/splitledger/pkg/logging"
)

func main() {
	logging.Setup()
	cfg := config.Load()

	// The storage backend is chosen exactly once here and injected;
	// nothing downstream consults the environment.
	store, err := openStore(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.DBDriver)

	var publisher events.Publisher = events.Nop{}
	if cfg.NATSURL != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			slog.Error("Failed to connect to NATS", "url", cfg.NATSURL, "error", err)
			os.Exit(1)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
		slog.Info("Event publishing enabled", "url", cfg.NATSURL)
	}

	srv := server.New(
		service.NewUserService(store),
		service.NewGroupService(store),
		service.NewLedgerService(store, publisher),
	)

	// h2c allows HTTP/2 without TLS for clients that want it.
	handler := h2c.NewHandler(srv.Handler(), &http2.Server{})

	addr := fmt.Sprintf(":%s", cfg.Port)
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func openStore(cfg config.Config) (storage.Store, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		return sqlite.New(cfg.DBPath)
	case config.DriverPostgres:
		return postgres.New(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}
