// Package main provides the worker command that runs a crawl and then uploads the resulting CSV.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"newsharvest/internal/config"
	"newsharvest/internal/formatter"
	"newsharvest/internal/logger"
	"newsharvest/internal/pipeline"
	"newsharvest/internal/upload"
)

func main() {
	// 1. Define Command-Line Flags
	// ---------------------------
	configFile := flag.String("config", "configs/harvest.yaml", "Path to YAML configuration file")
	envFile := flag.String("env-file", ".env", "Path to .env file holding API_KEY and AWS credentials")
	skipUpload := flag.Bool("skip-upload", false, "Crawl only, leave the CSV on disk")

	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "could not load %s: %v\n", *envFile, err)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.ValidateSearch(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid search configuration: %v\n", err)
		os.Exit(1)
	}

	if cfg.Upload.LocalPath == "" {
		cfg.Upload.LocalPath = cfg.DefaultLocalPath()
	}

	if !*skipUpload {
		if err := cfg.ValidateUpload(); err != nil {
			fmt.Fprintf(os.Stderr, "invalid upload configuration: %v\n", err)
			os.Exit(1)
		}
	}

	base := logger.NewLoggerWithFile(cfg.Logging.Level, logger.FileOptions{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	defer func() { _ = base.Close() }()

	log := base.With("run_id", uuid.NewString())

	log.Info("🚀 Starting harvest worker")
	log.Info(fmt.Sprintf("📍 Config: %s", cfg))

	if err := run(context.Background(), cfg, log, *skipUpload); err != nil {
		_ = base.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, skipUpload bool) error {
	startTime := time.Now()

	// 2. Crawl
	// --------
	log.Info("Phase 1: Crawling...")

	driver, err := pipeline.New(cfg, log)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Setup failed: %v", err))

		return err
	}

	res, err := driver.Run(ctx)

	fmt.Print(formatter.FormatRunSummary(res))

	if err != nil {
		log.Error(fmt.Sprintf("❌ Crawl failed: %v", err))

		return err
	}

	log.Info(fmt.Sprintf("✅ Appended %d articles in %v", res.ArticlesWritten, time.Since(startTime)))

	if skipUpload {
		log.Info("Skipping upload")

		return nil
	}

	// 3. Upload
	// ---------
	log.Info("Phase 2: Uploading...")

	uploader, err := upload.NewUploader(cfg.Upload, log)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Upload setup failed: %v", err))

		return err
	}

	localPath := res.OutputPath
	if localPath == "" {
		localPath = cfg.Upload.LocalPath
	}

	result, err := uploader.Upload(ctx, localPath, cfg.Upload.RemotePath)
	if err != nil {
		return err
	}

	log.Info("✨ Harvest complete!",
		"bucket", result.Bucket,
		"key", result.Key,
		"size", result.Size,
		"duration", time.Since(startTime).String())

	return nil
}
