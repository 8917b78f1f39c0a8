// Package main provides the crawler command-line tool that pages through the
// search API and appends every article to a CSV file.
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
	"newsharvest/internal/formatter"
	"newsharvest/internal/logger"
	"newsharvest/internal/pipeline"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	envFile := flag.String("env-file", ".env", "Path to .env file holding API_KEY")
	term := flag.String("term", "", "Search term (overrides config)")
	fromDate := flag.String("from", "", "Earliest publication date, YYYY-MM-DD (overrides config)")
	toDate := flag.String("to", "", "Latest publication date, YYYY-MM-DD (overrides config)")
	pageSize := flag.Int("page-size", 0, "Results per page, 1-200 (overrides config)")
	output := flag.String("output", "", "Output file name under the output directory (overrides config)")
	outputDir := flag.String("output-dir", "", "Output directory (overrides config)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	writeConfig := flag.String("write-config", "", "Write the resolved configuration (without secrets) to this path and exit")
	showUsage := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *showUsage {
		printUsage()
		os.Exit(0)
	}

	loadEnvFile(*envFile)

	cfg, err := loadConfig(*configFile)
	if err != nil {
		color.Red("❌ Failed to load config: %v", err)
		os.Exit(1)
	}

	applyOverrides(cfg, *term, *fromDate, *toDate, *pageSize, *output, *outputDir, *logLevel)

	if *writeConfig != "" {
		if err := cfg.SaveConfig(*writeConfig); err != nil {
			color.Red("❌ Failed to write config: %v", err)
			os.Exit(1)
		}

		color.Green("✅ Configuration written to %s", *writeConfig)
		os.Exit(0)
	}

	if err := cfg.ValidateSearch(); err != nil {
		color.Red("❌ Invalid configuration: %v", err)
		os.Exit(1)
	}

	base := logger.NewLoggerWithFile(cfg.Logging.Level, logger.FileOptions{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	log := base.With("run_id", uuid.NewString())

	log.Info(fmt.Sprintf("Starting crawler: %s", cfg))

	res, runErr := run(cfg, log)

	fmt.Println()
	fmt.Print(formatter.FormatRunSummary(res))

	if runErr != nil {
		log.Error("run aborted", "error", runErr, "last_page", lastPage(res))
		color.Red("❌ Run aborted: %v", runErr)
		_ = base.Close()
		os.Exit(1)
	}

	color.Green("✅ Done: %d articles appended", res.ArticlesWritten)
	_ = base.Close()
}

func run(cfg *config.Config, log *logger.Logger) (*pipeline.Result, error) {
	driver, err := pipeline.New(cfg, log)
	if err != nil {
		return nil, err
	}

	return driver.Run(context.Background())
}

func loadEnvFile(path string) {
	if path == "" {
		return
	}

	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		color.Yellow("⚠️  Could not load %s: %v", path, err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		defaultConfig := "configs/harvest.yaml"
		if _, statErr := os.Stat(defaultConfig); statErr != nil {
			cfg := config.DefaultConfig()
			cfg.ApplyEnv()

			return cfg, nil
		}

		path = defaultConfig
	}

	fmt.Printf("⚙️  Loading configuration from: %s\n", path)

	return config.LoadConfig(path)
}

func applyOverrides(cfg *config.Config, term, from, to string, pageSize int, output, outputDir, logLevel string) {
	if term != "" {
		cfg.Search.Term = term
	}

	if from != "" {
		cfg.Search.FromDate = from
	}

	if to != "" {
		cfg.Search.ToDate = to
	}

	if pageSize > 0 {
		cfg.Search.PageSize = pageSize
	}

	if output != "" {
		cfg.Output.Name = output
	}

	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
}

func lastPage(res *pipeline.Result) int {
	if res == nil {
		return 0
	}

	return res.LastPage
}

func printUsage() {
	fmt.Println(`Usage: crawler [options]

Pages through the search API and appends every article to <output-dir>/<output>.csv.
Re-running with the same output name appends duplicate rows.

Options:`)
	flag.PrintDefaults()
	fmt.Println(`
Environment:
  API_KEY   search API key (may be set in the .env file)

Examples:
  crawler -config configs/harvest.yaml
  crawler -term Nigeria -from 2024-01-01 -to 2025-01-01 -output mydata
  crawler -term Nigeria -output mydata -write-config configs/harvest.yaml`)
}
