// Package main provides the uploader command-line tool for copying a finished
// CSV file to an S3-compatible object store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"newsharvest/internal/config"
	"newsharvest/internal/logger"
	"newsharvest/internal/upload"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	envFile := flag.String("env-file", ".env", "Path to .env file holding AWS credentials")
	localPath := flag.String("input", "", "Local file to upload (defaults to the crawler output)")
	remotePath := flag.String("dest", "", "Destination, e.g. s3://bucket/mydata.csv (overrides config)")
	endpoint := flag.String("endpoint", "", "Object store endpoint (overrides config)")
	region := flag.String("region", "", "Object store region (overrides config)")

	flag.Parse()

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			color.Yellow("⚠️  Could not load %s: %v", *envFile, err)
		}
	}

	cfg := config.DefaultConfig()

	if *configFile != "" {
		loaded, err := config.LoadConfig(*configFile)
		if err != nil {
			color.Red("❌ Failed to load config: %v", err)
			os.Exit(1)
		}

		cfg = loaded
	} else {
		cfg.ApplyEnv()
	}

	if *localPath != "" {
		cfg.Upload.LocalPath = *localPath
	}

	if cfg.Upload.LocalPath == "" && cfg.Output.Name != "" {
		cfg.Upload.LocalPath = cfg.DefaultLocalPath()
	}

	if *remotePath != "" {
		cfg.Upload.RemotePath = *remotePath
	}

	if *endpoint != "" {
		cfg.Upload.Endpoint = *endpoint
	}

	if *region != "" {
		cfg.Upload.Region = *region
	}

	if err := cfg.ValidateUpload(); err != nil {
		color.Red("❌ Invalid configuration: %v", err)
		fmt.Println("Usage: uploader -input <path> -dest s3://bucket/key [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Logging.Level).With("run_id", uuid.NewString())
	log.Info(fmt.Sprintf("Starting uploader: input=%s, dest=%s, endpoint=%s",
		cfg.Upload.LocalPath, cfg.Upload.RemotePath, cfg.Upload.Endpoint))

	uploader, err := upload.NewUploader(cfg.Upload, log)
	if err != nil {
		log.Error("failed to create uploader", "error", err)
		os.Exit(1)
	}

	result, err := uploader.Upload(context.Background(), cfg.Upload.LocalPath, cfg.Upload.RemotePath)
	if err != nil {
		color.Red("❌ Upload failed: %v", err)
		os.Exit(1)
	}

	color.Green("✅ Uploaded %d bytes to s3://%s/%s", result.Size, result.Bucket, result.Key)
}
