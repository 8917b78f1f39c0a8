// Package extractor reads pagination metadata and article fields out of a
// search response document.
package extractor

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"newsharvest/internal/logger"
	"newsharvest/internal/models"
)

// JSON paths inside a search response.
const (
	PathTotal       = "response.total"
	PathPages       = "response.pages"
	PathCurrentPage = "response.currentPage"
	PathResults     = "response.results"

	PathPublicationDate = "webPublicationDate"
	PathTitle           = "webTitle"
	PathURL             = "webUrl"
	PathBody            = "fields.body"
)

// Extraction errors.
var (
	ErrNilDocument  = errors.New("nil response document")
	ErrInvalidJSON  = errors.New("response document is not valid JSON")
	ErrMissingField = errors.New("missing field")
	ErrWrongType    = errors.New("field has unexpected type")
)

// Extractor pulls counters and article records from response documents.
// It performs no filtering, sorting or deduplication.
type Extractor struct {
	log *logger.Logger
}

// NewExtractor creates a new extractor.
func NewExtractor(log *logger.Logger) *Extractor {
	return &Extractor{log: log}
}

// TotalResults returns response.total.
func (e *Extractor) TotalResults(doc *models.ResponseDocument) (int, error) {
	return intField(doc, PathTotal)
}

// TotalPages returns response.pages.
func (e *Extractor) TotalPages(doc *models.ResponseDocument) (int, error) {
	return intField(doc, PathPages)
}

// CurrentPage returns response.currentPage.
func (e *Extractor) CurrentPage(doc *models.ResponseDocument) (int, error) {
	return intField(doc, PathCurrentPage)
}

// Articles maps every result to an ArticleRecord in server order.
//
// Every result must carry fields.body. A result without it is an error and
// aborts the whole page; results are never skipped.
func (e *Extractor) Articles(doc *models.ResponseDocument) ([]models.ArticleRecord, error) {
	root, err := parse(doc)
	if err != nil {
		return nil, err
	}

	pageNo, err := intField(doc, PathCurrentPage)
	if err != nil {
		return nil, err
	}

	results := root.Get(PathResults)
	if !results.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, PathResults)
	}

	if !results.IsArray() {
		return nil, fmt.Errorf("%w: %s is not an array", ErrWrongType, PathResults)
	}

	raw := results.Array()
	e.log.Info(fmt.Sprintf("found %d results on current page", len(raw)), "page", pageNo)

	articles := make([]models.ArticleRecord, 0, len(raw))

	for i, item := range raw {
		article, err := toArticle(item, pageNo)
		if err != nil {
			return nil, fmt.Errorf("result %d on page %d: %w", i, pageNo, err)
		}

		articles = append(articles, article)
	}

	e.log.Debug("extraction successful", "page", pageNo, "articles", len(articles))

	return articles, nil
}

func toArticle(item gjson.Result, pageNo int) (models.ArticleRecord, error) {
	date, err := stringAt(item, PathPublicationDate)
	if err != nil {
		return models.ArticleRecord{}, err
	}

	title, err := stringAt(item, PathTitle)
	if err != nil {
		return models.ArticleRecord{}, err
	}

	url, err := stringAt(item, PathURL)
	if err != nil {
		return models.ArticleRecord{}, err
	}

	body, err := stringAt(item, PathBody)
	if err != nil {
		return models.ArticleRecord{}, fmt.Errorf("%w (url %s)", err, url)
	}

	return models.ArticleRecord{
		PageNo:     pageNo,
		DatePosted: date,
		Title:      title,
		URL:        url,
		Body:       body,
	}, nil
}

func stringAt(item gjson.Result, path string) (string, error) {
	v := item.Get(path)
	if !v.Exists() || v.Type == gjson.Null {
		return "", fmt.Errorf("%w: %s", ErrMissingField, path)
	}

	return v.String(), nil
}

func intField(doc *models.ResponseDocument, path string) (int, error) {
	root, err := parse(doc)
	if err != nil {
		return 0, err
	}

	v := root.Get(path)
	if !v.Exists() {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, path)
	}

	if v.Type != gjson.Number {
		return 0, fmt.Errorf("%w: %s is %s, want number", ErrWrongType, path, v.Type)
	}

	return int(v.Int()), nil
}

func parse(doc *models.ResponseDocument) (gjson.Result, error) {
	if doc == nil {
		return gjson.Result{}, ErrNilDocument
	}

	if !gjson.ValidBytes(doc.Raw) {
		return gjson.Result{}, ErrInvalidJSON
	}

	return gjson.ParseBytes(doc.Raw), nil
}
