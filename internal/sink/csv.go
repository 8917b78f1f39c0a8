// Package sink appends extracted records to CSV files.
package sink

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"newsharvest/internal/logger"
	"newsharvest/internal/models"
	"newsharvest/pkg/utils"
)

// Extension is forced onto every output file name.
const Extension = ".csv"

// Sink errors.
var (
	ErrEmptyBatch = errors.New("cannot create output file from an empty batch")
	ErrEmptyName  = errors.New("output file name is required")
)

// CSVWriter appends record batches to files under a fixed output directory.
//
// The header is written once, when the file is created, from the keys of the
// first record of that batch. Later batches are appended without checking
// their keys against it, so a batch with a different shape produces
// misaligned columns. Appending is not idempotent.
type CSVWriter struct {
	log       *logger.Logger
	outputDir string
}

// NewCSVWriter creates a writer rooted at outputDir, creating it if needed.
func NewCSVWriter(outputDir string, log *logger.Logger) (*CSVWriter, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating output directory: %w", err)
	}

	return &CSVWriter{
		log:       log,
		outputDir: outputDir,
	}, nil
}

// Path returns the file that Append would write for name.
func (w *CSVWriter) Path(name string) string {
	return filepath.Join(w.outputDir, utils.WithExtension(name, Extension))
}

// Append writes records to the file for name and returns its path.
func (w *CSVWriter) Append(name string, records []models.Record) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}

	path := w.Path(name)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return path, fmt.Errorf("error creating output directory: %w", err)
	}

	_, statErr := os.Stat(path)
	exists := statErr == nil

	if statErr != nil && !os.IsNotExist(statErr) {
		return path, fmt.Errorf("failed to stat %s: %w", path, statErr)
	}

	if !exists && len(records) == 0 {
		return path, fmt.Errorf("%w: %s", ErrEmptyBatch, path)
	}

	if len(records) == 0 {
		return path, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return path, fmt.Errorf("failed to open %s: %w", path, err)
	}

	cw := csv.NewWriter(f)

	if !exists {
		w.log.Info("creating new CSV file", "file", filepath.Base(path))

		if err := cw.Write(records[0].Keys()); err != nil {
			_ = f.Close()

			return path, fmt.Errorf("failed to write header: %w", err)
		}
	}

	columns := batchColumns(records)

	w.log.Info(fmt.Sprintf("appending %d articles to %s", len(records), filepath.Base(path)))

	for _, rec := range records {
		if err := cw.Write(rowValues(rec, columns)); err != nil {
			_ = f.Close()

			return path, fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		_ = f.Close()

		return path, fmt.Errorf("failed to flush %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return path, fmt.Errorf("failed to close %s: %w", path, err)
	}

	w.log.Info("successfully updated " + filepath.Base(path))

	return path, nil
}

// batchColumns is the union of keys across the batch in first-seen order.
func batchColumns(records []models.Record) []string {
	seen := make(map[string]bool)

	var columns []string

	for _, rec := range records {
		for _, f := range rec {
			if !seen[f.Key] {
				seen[f.Key] = true
				columns = append(columns, f.Key)
			}
		}
	}

	return columns
}

func rowValues(rec models.Record, columns []string) []string {
	row := make([]string, len(columns))
	for i, col := range columns {
		row[i], _ = rec.Get(col)
	}

	return row
}
