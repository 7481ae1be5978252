package storage

import "keyword-planner-go/pkg/api"

// Header is the column layout of the results file.
var Header = []string{
	"keyword",
	"avg_monthly_searches",
	"competition",
	"competition_index",
	"low_top_of_page_bid_micros",
	"high_top_of_page_bid_micros",
}

// ResultWriter persists keyword ideas as they arrive.
type ResultWriter interface {
	WriteIdeas(ideas []api.KeywordIdea) error
	Close() error
}
