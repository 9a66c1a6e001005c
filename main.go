package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/boardroom/cliparse"
	"github.com/danielhkuo/boardroom/db"
	"github.com/danielhkuo/boardroom/logging"
	"github.com/danielhkuo/boardroom/middleware"
	"github.com/danielhkuo/boardroom/router"
	"github.com/danielhkuo/boardroom/seed"
	"github.com/danielhkuo/boardroom/store"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	logger, err := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		slog.Error("Error configuring logging", "error", err)
		os.Exit(1)
	}

	// Load seed data; relative tender dates resolve against today
	data, err := seed.Load(cfg.SeedFile, time.Now())
	if err != nil {
		slog.Error("seed load failed", "error", err, "file", cfg.SeedFile)
		os.Exit(1)
	}
	slog.Info("Seed data loaded",
		"members", len(data.Members),
		"meetings", len(data.Meetings),
		"tenders", len(data.Tenders))

	opts := store.Options{
		AllowClosedVoting: cfg.AllowClosedVoting,
		Logger:            logger,
	}
	board, closeBoard, err := openBoard(cfg, data, opts)
	if err != nil {
		slog.Error("board store failed", "error", err, "store", cfg.Store)
		os.Exit(1)
	}
	defer closeBoard()

	if err := checkCurrentMember(context.Background(), board, cfg.CurrentMemberID); err != nil {
		slog.Error("current member check failed", "error", err)
		closeBoard()
		os.Exit(1)
	}

	catalog := store.NewCatalog(data.Documents, data.Compliance, data.Tenders)

	// Create router
	mux := router.NewRouter(board, catalog, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	// Start server
	slog.Info("Listening",
		"port", cfg.Port,
		"store", cfg.Store,
		"member", cfg.CurrentMemberID,
		"allow_member_header", cfg.AllowMemberHeader,
		"allow_closed_voting", cfg.AllowClosedVoting)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// openBoard builds the configured Board and imports the seed into it.
// The returned func releases the store's resources.
func openBoard(cfg cliparse.Config, data seed.Data, opts store.Options) (store.Board, func(), error) {
	switch cfg.Store {
	case cliparse.StoreSQLite:
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = db.DefaultDSN
		}

		conn, err := db.Open(dsn)
		if err != nil {
			return nil, nil, err
		}

		// Create schema (tables)
		if err := db.CreateSchema(conn); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("schema creation failed: %w", err)
		}
		slog.Info("Database schema ready")

		s := db.NewStore(conn, opts)
		empty, err := s.Empty(context.Background())
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		if !empty {
			slog.Info("Database already holds a board, skipping seed import")
			return s, func() { conn.Close() }, nil
		}
		if err := s.Import(context.Background(), data.Members, data.Meetings); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("seed import failed: %w", err)
		}
		return s, func() { conn.Close() }, nil

	default:
		s, err := store.NewMemory(data.Members, data.Meetings, opts)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}

// checkCurrentMember fails when the configured acting member is not on the
// board; every vote would otherwise be rejected.
func checkCurrentMember(ctx context.Context, board store.Board, memberID string) error {
	if _, err := board.Member(ctx, memberID); err != nil {
		return fmt.Errorf("--member %q: %w", memberID, err)
	}
	return nil
}
