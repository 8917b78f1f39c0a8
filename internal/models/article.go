// Package models defines data structures shared by the fetcher, extractor and sink.
package models

import "strconv"

// CSV column names for an article row.
const (
	ColumnPageNo       = "page_no"
	ColumnDatePosted   = "date_posted"
	ColumnArticleTitle = "article_title"
	ColumnArticleURL   = "article_url"
	ColumnArticleBody  = "article_body"
)

// ArticleColumns is the column order of ArticleRecord.Record.
var ArticleColumns = []string{
	ColumnPageNo,
	ColumnDatePosted,
	ColumnArticleTitle,
	ColumnArticleURL,
	ColumnArticleBody,
}

// ArticleRecord is a single extracted search result.
type ArticleRecord struct {
	DatePosted string `json:"datePosted"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Body       string `json:"body"`
	PageNo     int    `json:"pageNo"`
}

// Record converts the article into an ordered row for the sink.
func (a ArticleRecord) Record() Record {
	return Record{
		{Key: ColumnPageNo, Value: strconv.Itoa(a.PageNo)},
		{Key: ColumnDatePosted, Value: a.DatePosted},
		{Key: ColumnArticleTitle, Value: a.Title},
		{Key: ColumnArticleURL, Value: a.URL},
		{Key: ColumnArticleBody, Value: a.Body},
	}
}

// ArticleRecords converts a batch of articles into sink rows.
func ArticleRecords(articles []ArticleRecord) []Record {
	records := make([]Record, 0, len(articles))
	for _, a := range articles {
		records = append(records, a.Record())
	}

	return records
}
