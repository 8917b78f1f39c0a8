// Package pipeline drives the fetch, extract and append loop across all
// result pages of a search.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"newsharvest/internal/config"
	"newsharvest/internal/logger"
	"newsharvest/internal/models"
)

// Step errors. The underlying cause is wrapped alongside.
var (
	ErrFetch   = errors.New("fetch failed")
	ErrExtract = errors.New("extraction failed")
	ErrSink    = errors.New("append failed")
)

// PageFetcher fetches one page of search results.
type PageFetcher interface {
	Fetch(ctx context.Context, q models.SearchQuery) (*models.ResponseDocument, error)
}

// DocumentExtractor reads counters and articles out of a response.
type DocumentExtractor interface {
	TotalResults(doc *models.ResponseDocument) (int, error)
	TotalPages(doc *models.ResponseDocument) (int, error)
	CurrentPage(doc *models.ResponseDocument) (int, error)
	Articles(doc *models.ResponseDocument) ([]models.ArticleRecord, error)
}

// RecordSink appends rows to a named output.
type RecordSink interface {
	Append(name string, records []models.Record) (string, error)
}

// State is a position in the pagination run.
type State int

// Driver states.
const (
	StateFirstPage State = iota
	StateSubsequentPages
	StateDone
)

func (s State) String() string {
	switch s {
	case StateFirstPage:
		return "first_page"
	case StateSubsequentPages:
		return "subsequent_pages"
	case StateDone:
		return "done"
	}

	return fmt.Sprintf("State(%d)", int(s))
}

// Result summarizes a run. On failure it describes what was written before
// the run aborted.
type Result struct {
	OutputPath      string
	Sample          []models.ArticleRecord
	TotalResults    int
	TotalPages      int
	PagesFetched    int
	ArticlesWritten int
	LastPage        int
	State           State
}

// Driver runs the pagination loop. It is single-use and not safe for
// concurrent use.
type Driver struct {
	fetcher    PageFetcher
	extractor  DocumentExtractor
	sink       RecordSink
	log        *logger.Logger
	query      models.SearchQuery
	outputName string
	sampleSize int
}

// NewDriver creates a driver for the configured search and output.
func NewDriver(
	search config.SearchConfig,
	output config.OutputConfig,
	fetcher PageFetcher,
	extractor DocumentExtractor,
	sink RecordSink,
	log *logger.Logger,
) (*Driver, error) {
	query, err := search.Query()
	if err != nil {
		return nil, err
	}

	return &Driver{
		fetcher:    fetcher,
		extractor:  extractor,
		sink:       sink,
		log:        log,
		query:      query,
		outputName: output.Name,
	}, nil
}

// SetSampleSize keeps the first n articles written in Result.Sample.
func (d *Driver) SetSampleSize(n int) {
	d.sampleSize = n
}

// Run fetches page 1, then pages currentPage+1 through totalPages in order.
//
// The first error aborts the run. Pages appended before the failure stay in
// the output file; the failing page and everything after it are missing.
// Nothing is retried.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	res := &Result{State: StateFirstPage}

	var (
		nextPage int
		lastPage int
		runErr   error
	)

	for res.State != StateDone {
		switch res.State {
		case StateFirstPage:
			nextPage, lastPage, runErr = d.firstPage(ctx, res)
			if runErr != nil {
				return res, runErr
			}

			res.State = StateSubsequentPages

		case StateSubsequentPages:
			if nextPage > lastPage {
				res.State = StateDone

				continue
			}

			if runErr = d.page(ctx, res, nextPage); runErr != nil {
				return res, runErr
			}

			nextPage++
		}
	}

	d.log.Info("run complete",
		"pages", res.PagesFetched,
		"articles", res.ArticlesWritten,
		"output", res.OutputPath)

	return res, nil
}

// firstPage handles page 1 and returns the range of pages still to visit.
func (d *Driver) firstPage(ctx context.Context, res *Result) (int, int, error) {
	doc, err := d.fetch(ctx, res, 1)
	if err != nil {
		return 0, 0, err
	}

	total, err := d.extractor.TotalResults(doc)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: page 1: %w", ErrExtract, err)
	}

	pages, err := d.extractor.TotalPages(doc)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: page 1: %w", ErrExtract, err)
	}

	current, err := d.extractor.CurrentPage(doc)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: page 1: %w", ErrExtract, err)
	}

	res.TotalResults = total
	res.TotalPages = pages

	if current == 1 {
		d.log.Info(fmt.Sprintf("found %d results in total", total), "pages", pages)
	}

	if err := d.store(doc, res, current); err != nil {
		return 0, 0, err
	}

	return current + 1, pages, nil
}

func (d *Driver) page(ctx context.Context, res *Result, pageNo int) error {
	doc, err := d.fetch(ctx, res, pageNo)
	if err != nil {
		return err
	}

	return d.store(doc, res, pageNo)
}

func (d *Driver) fetch(ctx context.Context, res *Result, pageNo int) (*models.ResponseDocument, error) {
	doc, err := d.fetcher.Fetch(ctx, d.query.WithPage(pageNo))
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: %w", ErrFetch, pageNo, err)
	}

	res.PagesFetched++

	return doc, nil
}

// store extracts and appends one page, updating the counters in res.
func (d *Driver) store(doc *models.ResponseDocument, res *Result, pageNo int) error {
	articles, err := d.extractor.Articles(doc)
	if err != nil {
		return fmt.Errorf("%w: page %d: %w", ErrExtract, pageNo, err)
	}

	if len(articles) == 0 {
		d.log.Warn("page has no results, nothing to append", "page", pageNo)

		res.LastPage = pageNo

		return nil
	}

	path, err := d.sink.Append(d.outputName, models.ArticleRecords(articles))
	if path != "" {
		res.OutputPath = path
	}

	if err != nil {
		return fmt.Errorf("%w: page %d: %w", ErrSink, pageNo, err)
	}

	res.ArticlesWritten += len(articles)
	res.LastPage = pageNo

	if room := d.sampleSize - len(res.Sample); room > 0 {
		res.Sample = append(res.Sample, articles[:min(room, len(articles))]...)
	}

	return nil
}
