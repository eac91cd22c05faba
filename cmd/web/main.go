// cmd/web/main.go
//
// BrokerKit – HTTP entry point.
//
// Startup sequence
// ----------------
//
//  1. Start daily rotating logger (tees to console when running in a TTY).
//
//  2. Load layered configuration (conf/.env → conf/global.yaml →
//     BROKERKIT_ env overrides, with vault: references resolved).
//
//  3. Open the control-plane DB and log the published-site count.
//
//  4. Open the optional GeoLite2 database for visitor enrichment.
//
//  5. Build the published-site cache (lazy slug loader + evictor) over
//     the theme manager.
//
//  6. Wire the outbound clients (automation webhook, AI) and the router,
//     then serve with production timeouts until SIGINT/SIGTERM.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/brokerkit/brokerkit/internal/ai"
	"github.com/brokerkit/brokerkit/internal/config"
	"github.com/brokerkit/brokerkit/internal/database"
	"github.com/brokerkit/brokerkit/internal/logger"
	"github.com/brokerkit/brokerkit/internal/middleware"
	"github.com/brokerkit/brokerkit/internal/requestinfo"
	"github.com/brokerkit/brokerkit/internal/schedule"
	"github.com/brokerkit/brokerkit/internal/server"
	"github.com/brokerkit/brokerkit/internal/sitecache"
	"github.com/brokerkit/brokerkit/internal/theme"
	"github.com/brokerkit/brokerkit/internal/web"
	"github.com/brokerkit/brokerkit/internal/webhook"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	//
	// ── 1.  Configuration ───────────────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		logOut.Fatalf("load config: %v", err)
	}

	//
	// ── 2.  Control-plane DB ────────────────────────────────────────────
	//
	logOut.Info("connecting to DB …")
	db, err := database.Open(cfg.Database.ResolvedDSN())
	if err != nil {
		logOut.Fatalf("connect DB: %v", err)
	}
	defer db.Close()
	logOut.Info("DB online")

	// Published-site count as an early sanity check.
	var published int
	_ = db.Get(&published, `SELECT COUNT(*) FROM site_config`)
	logOut.Infof("%d published site(s) found", published)

	//
	// ── 3.  Visitor enrichment (optional Geo DB) ────────────────────────
	//
	requestinfo.InitGeo(cfg.Geo.MMDBPath)

	//
	// ── 4.  Themes and site cache ───────────────────────────────────────
	//
	themes := &theme.Manager{BaseDir: filepath.Join(cfg.Paths.Root, "themes")}
	cache := sitecache.New(db, themes, sitecache.IdleTTL, sitecache.MaxEntries)
	defer cache.Close()

	//
	// ── 5.  Outbound clients and background work ────────────────────────
	//
	notify := webhook.New(cfg.Automation, cfg.Broker)
	aiClient := ai.New(cfg.AI)

	rootCtx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go schedule.NewReminder(db, notify).Run(rootCtx)

	//
	// ── 6.  Router and server ───────────────────────────────────────────
	//
	var handler http.Handler = web.NewServer(db, cache, themes, notify, aiClient, cfg).Router()
	if cfg.HTTP.ForceHTTPS {
		handler = middleware.ForceHTTPS(handler)
	}

	srv := server.New(cfg.HTTP.ListenAddr, handler)
	go func() {
		logOut.Infof("listening on %s", cfg.HTTP.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logOut.Fatalf("serve: %v", err)
		}
	}()

	<-rootCtx.Done()
	logOut.Info("shutting down …")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logOut.Errorf("shutdown: %v", err)
	}
}
