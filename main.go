package main

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-chi/chi/v5"

	"github.com/fragmede/cpphub/internal/api"
	"github.com/fragmede/cpphub/internal/cache"
	"github.com/fragmede/cpphub/internal/cli"
	"github.com/fragmede/cpphub/internal/config"
	"github.com/fragmede/cpphub/internal/devapi"
	"github.com/fragmede/cpphub/internal/logging"
	"github.com/fragmede/cpphub/internal/session"
	"github.com/fragmede/cpphub/internal/ui"
	"github.com/fragmede/cpphub/internal/ui/messages"
)

// envDevSecret signs dev API tokens. Unset means a random per-process key.
const envDevSecret = "CPPHUB_DEV_SECRET"

func main() {
	cfg, args, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case len(args) > 0 && args[0] == "devapi":
		err = serveDevAPI(ctx, cfg, args[1:])
	case len(args) > 0 && cli.IsCommand(args[0]):
		err = runCommand(ctx, cfg, args)
	case len(args) > 0:
		err = fmt.Errorf("%w: %s", cli.ErrUnknownCommand, args[0])
	default:
		err = runTUI(ctx, cfg)
	}
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openCache(cfg config.Config) (*cache.DB, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	db, err := cache.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return db, nil
}

func newSession(cfg config.Config, db *cache.DB, logger logging.Logger) (*api.Client, *session.Store) {
	client := api.NewClient(cfg.APIURL, api.WithTimeout(cfg.Timeout))
	store := session.New(client, db.TokenStore(), session.WithLogger(logger))
	client.SetTokenSource(store.Token)
	return client, store
}

func runCommand(ctx context.Context, cfg config.Config, args []string) error {
	db, err := openCache(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	logger := logging.NewTextLogger(os.Stderr, slog.LevelWarn)
	client, store := newSession(cfg, db, logger)
	defer store.Wait()

	app := cli.New(cli.Deps{
		Store:      store,
		Catalog:    db,
		Courses:    client,
		CatalogTTL: cfg.CatalogTTL,
	})
	return app.Run(ctx, args)
}

func runTUI(ctx context.Context, cfg config.Config) error {
	db, err := openCache(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger, closer, err := logging.OpenFile(cfg.LogPath(), level)
	if err != nil {
		return err
	}
	defer closer.Close()

	client, store := newSession(cfg, db, logger)
	defer store.Wait()

	app := ui.NewApp(ctx, cfg, client, db, store, logger)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	// Deliver changes off the listener's goroutine so Update never waits on itself.
	store.OnChange(func(session.State) {
		go p.Send(messages.SessionChangedMsg{})
	})

	logger.Info(ctx, "starting", "api", cfg.APIURL)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func serveDevAPI(ctx context.Context, cfg config.Config, args []string) error {
	fset := flag.NewFlagSet("devapi", flag.ContinueOnError)
	addr := fset.String("addr", ":8000", "listen address")
	demo := fset.Bool("demo", true, "seed the demo account")
	if err := fset.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := logging.NewTextLogger(os.Stderr, level)

	secret, err := devSecret()
	if err != nil {
		return err
	}
	opts := []devapi.Option{devapi.WithLogger(logger)}
	if *demo {
		opts = append(opts, devapi.WithDemoUser())
	}
	srv, err := devapi.NewServer(secret, opts...)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Mount("/api", srv.Router())
	httpSrv := &http.Server{
		Addr:              *addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "dev api listening", "addr", *addr, "demo_email", devapi.DemoEmail)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func devSecret() ([]byte, error) {
	if s := os.Getenv(envDevSecret); s != "" {
		return []byte(s), nil
	}
	b := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("generating secret: %w", err)
	}
	return b, nil
}
