package pipeline

import (
	"newsharvest/internal/config"
	"newsharvest/internal/extractor"
	"newsharvest/internal/fetcher"
	"newsharvest/internal/logger"
	"newsharvest/internal/sink"
)

// New wires a driver with the HTTP fetcher, JSON extractor and CSV sink
// described by cfg. cfg should already have passed ValidateSearch.
func New(cfg *config.Config, log *logger.Logger) (*Driver, error) {
	writer, err := sink.NewCSVWriter(cfg.Output.Dir, log)
	if err != nil {
		return nil, err
	}

	f := fetcher.NewFetcher(cfg.Search.BaseURL, cfg.Search.APIKey, cfg.Search.GetTimeout(), log)

	driver, err := NewDriver(cfg.Search, cfg.Output, f, extractor.NewExtractor(log), writer, log)
	if err != nil {
		return nil, err
	}

	driver.SetSampleSize(cfg.Logging.SampleArticles)

	return driver, nil
}
