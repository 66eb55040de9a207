package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/good-yellow-bee/adminnotices/internal/metrics"
	"github.com/good-yellow-bee/adminnotices/internal/noticefiles"
	"github.com/good-yellow-bee/adminnotices/internal/notices"
	"github.com/good-yellow-bee/adminnotices/internal/pointers"
	"github.com/good-yellow-bee/adminnotices/internal/storage"
	"github.com/good-yellow-bee/adminnotices/internal/web"
	"github.com/good-yellow-bee/adminnotices/internal/web/handlers"
	"github.com/good-yellow-bee/adminnotices/internal/web/health"
	"github.com/good-yellow-bee/adminnotices/internal/web/session"
	"github.com/good-yellow-bee/adminnotices/pkg/config"
)

var (
	configFile  string
	httpAddr    string
	metricsAddr string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "anm-server",
	Short: "Admin Notices Manager - admin console server",
	Long: `anm-server serves the admin console. Notices rendered on admin pages
are gathered into one panel, counted in the admin bar, and can be hidden
forever per notice.`,
	RunE: runServer,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		rel := config.Current("anm-server")
		fmt.Println(rel)
		if rel.BuildTime != "" {
			fmt.Printf("  built: %s\n", rel.BuildTime)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (optional)")
	rootCmd.PersistentFlags().StringVarP(&httpAddr, "address", "a", "", "HTTP listen address (overrides config)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-address", "", "metrics listen address, or none (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every request")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	var cfg *Config

	// Load configuration from file if provided
	if configFile != "" {
		var err error
		cfg, err = LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = DefaultConfig()
	}

	// Override with CLI flags
	if httpAddr != "" {
		cfg.Server.HTTPAddress = httpAddr
	}
	if metricsAddr != "" {
		cfg.Server.MetricsAddress = metricsAddr
	}
	cfg.Verbose = verbose
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	secrets, err := LoadSecrets()
	if err != nil {
		return err
	}

	store, err := openStorage(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	sessionTTL, _ := cfg.SessionTTL()
	lockoutDuration, _ := cfg.LockoutDuration()
	loc, _ := cfg.Location()

	ledger := notices.NewLedger(store.Options(), notices.LedgerConfig{
		Salt:       secrets.HashSalt,
		Location:   loc,
		DateFormat: cfg.Notices.DateFormat,
		TimeFormat: cfg.Notices.TimeFormat,
	})

	registry := notices.NewRegistry()
	if static := cfg.StaticNotices(); len(static) > 0 {
		registry.Add(notices.PhaseAll, notices.DefaultPriority, "config", notices.StaticProducer(static))
	}

	probes := health.NewHandler(health.NewStorageChecker(store.Options()))

	var files *noticefiles.Source
	if cfg.Notices.Directory != "" {
		if err := os.MkdirAll(cfg.Notices.Directory, 0750); err != nil {
			return fmt.Errorf("create notice directory: %w", err)
		}
		files = noticefiles.New(cfg.Notices.Directory)
		if err := files.Load(); err != nil {
			return err
		}
		registry.Add(notices.PhaseAdmin, notices.DefaultPriority, "files", files)
		probes.RegisterChecker(health.NewDirChecker(cfg.Notices.Directory))
	}

	sessions := session.NewStore([]byte(secrets.SessionSecret), sessionTTL)
	lockout := handlers.NewLockoutTracker(cfg.Security.LockoutThreshold, lockoutDuration)

	h := handlers.NewHandler(handlers.Config{
		Storage:     store,
		Sessions:    sessions,
		Ledger:      ledger,
		Notices:     registry,
		Pointers:    pointers.NewSequencer(store.Options(), store.UserMeta(), nil),
		Lockout:     lockout,
		HidingRoles: cfg.Notices.HidingRoles,
		Screen:      notices.PhaseAdmin,
		SessionTTL:  sessionTTL,
	})

	site := web.NewServer(h, probes, sessions, web.Options{
		CSRFKey:       secrets.CSRFKeyBytes(),
		SecureCookies: cfg.Server.SecureCookies,
		RequireNonce:  cfg.Security.RequireNonce,
		AjaxPerMinute: cfg.RateLimit.AjaxPerMinute,
		AjaxBurst:     cfg.RateLimit.Burst,
		Verbose:       cfg.Verbose,
	})

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddress,
		Handler:           site.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	rel := config.Current("anm-server")
	metrics.SetBuildInfo(rel.Version, rel.Commit, rel.BuildTime)

	// Setup signal handling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("starting %s", rel)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runHTTP(gctx, httpServer)
	})
	if cfg.MetricsEnabled() {
		g.Go(func() error {
			return metrics.NewServer(cfg.Server.MetricsAddress).Run(gctx)
		})
	}
	if files != nil {
		g.Go(func() error {
			return files.Watch(gctx)
		})
	}
	g.Go(func() error {
		return lockout.Run(gctx, 5*time.Minute)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run server: %w", err)
	}

	log.Printf("server stopped")
	return nil
}

// openStorage opens and migrates the store and creates the first admin.
func openStorage(path string) (storage.Storage, error) {
	var store storage.Storage
	if path == MemoryDatabase {
		store = storage.NewMemoryStorage()
	} else {
		// Auto-create data directory
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
		store = storage.NewSQLiteStorage(path)
	}

	if err := store.Open(); err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	// Create default admin user on first run
	if err := store.EnsureAdminUser(); err != nil {
		store.Close()
		return nil, fmt.Errorf("ensure admin user: %w", err)
	}

	log.Printf("database initialized at %s", path)
	return store, nil
}

// runHTTP serves until ctx is cancelled, then shuts down gracefully.
func runHTTP(ctx context.Context, srv *http.Server) error {
	errChan := make(chan error, 1)

	go func() {
		log.Printf("admin console listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Printf("shutting down admin console...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("http server: %w", err)
	}
}
