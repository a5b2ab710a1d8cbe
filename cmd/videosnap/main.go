package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"videosnap/internal/api"
	"videosnap/internal/cache"
	"videosnap/internal/config"
	"videosnap/internal/downloader"
	"videosnap/internal/media"
	"videosnap/internal/toolchain"
	"videosnap/pkg/models"
)

const Version = "0.1.0"

func main() {
	var (
		flConfig = flag.String("config", "config.json", "Path to configuration file")
		flPort   = flag.Int("port", 0, "Override the configured web server port")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	logger.Info("videosnap starting", "version", Version)

	os.Exit(run(*flConfig, *flPort, logger))
}

func run(configPath string, port int, logger *slog.Logger) int {
	cfgMgr, err := config.NewManager(configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}

	cfg := cfgMgr.Get()
	if port != 0 {
		cfg.WebServerPort = port
	}

	if err := toolchain.Verify(cfg.FfmpegPath, cfg.FfprobePath); err != nil {
		logger.Error("media toolchain check failed", "error", err)
		return 1
	}

	if err := toolchain.EnsureYtdlp(cfg.YtdlPath); err != nil {
		// Metadata and thumbnails still work without yt-dlp, only
		// /set_video is degraded
		logger.Warn("yt-dlp unavailable", "error", err)
	}

	server, err := buildServer(cfg, logger)
	if err != nil {
		logger.Error("failed to build server", "error", err)
		return 1
	}

	if err := server.Start(); err != nil {
		logger.Error("failed to start server", "error", err)
		return 1
	}
	logger.Info("server listening", "addr", server.GetActualAddr())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", "signal", sig.String())

	if err := server.Stop(); err != nil {
		logger.Error("shutdown failed", "error", err)
		return 1
	}

	return 0
}

func buildServer(cfg *models.Config, logger *slog.Logger) (*api.Server, error) {
	if err := os.MkdirAll(cfg.CachePath, 0755); err != nil {
		return nil, err
	}

	locator := cache.NewLocator(cfg.DefaultVideoPath, cfg.CachePath)
	prober := media.NewProber(media.NewFFprobeInspector(cfg.FfprobePath))
	extractor := media.NewExtractor(media.NewFFmpegExtractor(cfg.FfmpegPath))
	dl := downloader.NewDownloader(cfg, locator)

	return api.NewServer(cfg, locator, prober, extractor, dl, logger), nil
}
