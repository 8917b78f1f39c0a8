package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsharvest/internal/logger"
	"newsharvest/internal/models"
)

const samplePage = `{
  "response": {
    "status": "ok",
    "total": 45,
    "pages": 3,
    "currentPage": 2,
    "pageSize": 20,
    "results": [
      {
        "webPublicationDate": "2024-03-01T08:00:00Z",
        "webTitle": "First headline",
        "webUrl": "https://www.theguardian.com/world/1",
        "fields": {"body": "<p>one</p>"}
      },
      {
        "webPublicationDate": "2024-03-02T09:30:00Z",
        "webTitle": "Second, with comma",
        "webUrl": "https://www.theguardian.com/world/2",
        "fields": {"body": "<p>two</p>"}
      }
    ]
  }
}`

func doc(raw string) *models.ResponseDocument {
	return &models.ResponseDocument{Raw: []byte(raw)}
}

func newTestExtractor() *Extractor {
	return NewExtractor(logger.NewLogger("error"))
}

func TestExtractor_Counters(t *testing.T) {
	e := newTestExtractor()
	d := doc(samplePage)

	total, err := e.TotalResults(d)
	require.NoError(t, err)
	assert.Equal(t, 45, total)

	pages, err := e.TotalPages(d)
	require.NoError(t, err)
	assert.Equal(t, 3, pages)

	current, err := e.CurrentPage(d)
	require.NoError(t, err)
	assert.Equal(t, 2, current)
}

func TestExtractor_Articles(t *testing.T) {
	articles, err := newTestExtractor().Articles(doc(samplePage))
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, models.ArticleRecord{
		PageNo:     2,
		DatePosted: "2024-03-01T08:00:00Z",
		Title:      "First headline",
		URL:        "https://www.theguardian.com/world/1",
		Body:       "<p>one</p>",
	}, articles[0])
	assert.Equal(t, "Second, with comma", articles[1].Title)
}

func TestExtractor_Articles_MissingBodyFails(t *testing.T) {
	raw := `{"response":{"total":2,"pages":1,"currentPage":1,"results":[
	  {"webPublicationDate":"d","webTitle":"ok","webUrl":"u1","fields":{"body":"b"}},
	  {"webPublicationDate":"d","webTitle":"no body","webUrl":"u2"}
	]}}`

	articles, err := newTestExtractor().Articles(doc(raw))

	assert.Nil(t, articles)
	require.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "fields.body")
	assert.Contains(t, err.Error(), "result 1")
}

func TestExtractor_Articles_NullBodyFails(t *testing.T) {
	raw := `{"response":{"currentPage":1,"results":[
	  {"webPublicationDate":"d","webTitle":"t","webUrl":"u","fields":{"body":null}}
	]}}`

	_, err := newTestExtractor().Articles(doc(raw))
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestExtractor_Articles_EmptyResults(t *testing.T) {
	raw := `{"response":{"total":0,"pages":0,"currentPage":1,"results":[]}}`

	articles, err := newTestExtractor().Articles(doc(raw))
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestExtractor_Errors(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{"nil document", func() error { _, err := e.TotalPages(nil); return err }, ErrNilDocument},
		{"invalid json", func() error { _, err := e.TotalPages(doc("{")); return err }, ErrInvalidJSON},
		{"missing total", func() error { _, err := e.TotalResults(doc(`{"response":{}}`)); return err }, ErrMissingField},
		{"string pages", func() error { _, err := e.TotalPages(doc(`{"response":{"pages":"3"}}`)); return err }, ErrWrongType},
		{"missing results", func() error {
			_, err := e.Articles(doc(`{"response":{"currentPage":1}}`))
			return err
		}, ErrMissingField},
		{"results not array", func() error {
			_, err := e.Articles(doc(`{"response":{"currentPage":1,"results":{}}}`))
			return err
		}, ErrWrongType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), tt.wantErr)
		})
	}
}
