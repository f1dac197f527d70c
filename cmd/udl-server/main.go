package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/jeeva562/Universal-Downloader/internal/config"
	"github.com/jeeva562/Universal-Downloader/internal/extractor"
	"github.com/jeeva562/Universal-Downloader/internal/server"
)

func main() {
	var (
		configFlag = flag.String("config", "", "Path to YAML config file")
		portFlag   = flag.Int("port", 0, "Listen port (overrides config and PORT)")
		debugFlag  = flag.Bool("debug", false, "Run gin in debug mode")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalf("Error in environment: %v", err)
	}
	if *portFlag != 0 {
		cfg.Server.Port = *portFlag
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid -port: %v", err)
		}
	}

	if !*debugFlag {
		gin.SetMode(gin.ReleaseMode)
	}

	path, found := cfg.ResolveExtractor()
	if !found {
		log.Printf("Warning: extractor %q not found; media downloads will fail until it is installed", path)
	}

	srv := server.NewServer(cfg, extractor.NewRunner(path, cfg.Extractor))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	case <-ctx.Done():
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}
}
