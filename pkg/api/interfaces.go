package api

import (
	"context"
	"strings"
)

// Competition is the keyword competition level reported by Google Ads.
type Competition string

const (
	CompetitionUnspecified Competition = "UNSPECIFIED"
	CompetitionUnknown     Competition = "UNKNOWN"
	CompetitionLow         Competition = "LOW"
	CompetitionMedium      Competition = "MEDIUM"
	CompetitionHigh        Competition = "HIGH"
)

// IdeaMetrics holds historical metrics for one keyword idea. Bids are in
// micros: 1/1,000,000 of the account currency unit.
type IdeaMetrics struct {
	AvgMonthlySearches     int64
	Competition            Competition
	CompetitionIndex       int64
	LowTopOfPageBidMicros  int64
	HighTopOfPageBidMicros int64
}

// KeywordIdea is one suggestion returned for a keyword seed. Metrics is nil
// when the service has no data for the idea.
type KeywordIdea struct {
	Text    string
	Metrics *IdeaMetrics
}

// IdeaRequest is a single GenerateKeywordIdeas call.
type IdeaRequest struct {
	CustomerID           string
	Language             string   // languageConstants/{id}
	GeoTargetConstants   []string // geoTargetConstants/{id}
	SeedKeywords         []string
	IncludeAdultKeywords bool
}

type IdeaResponse struct {
	Ideas     []KeywordIdea
	TotalSize int64
}

// IdeaService generates keyword ideas for a seed.
type IdeaService interface {
	GenerateKeywordIdeas(ctx context.Context, req *IdeaRequest) (*IdeaResponse, error)
}

const (
	languageResourcePrefix  = "languageConstants/"
	geoTargetResourcePrefix = "geoTargetConstants/"
)

// LanguageResource turns a language constant id into its resource name.
// Resource names are returned unchanged.
func LanguageResource(id string) string {
	if strings.HasPrefix(id, languageResourcePrefix) {
		return id
	}
	return languageResourcePrefix + id
}

// GeoTargetResource turns a geo target constant id into its resource name.
func GeoTargetResource(id string) string {
	if strings.HasPrefix(id, geoTargetResourcePrefix) {
		return id
	}
	return geoTargetResourcePrefix + id
}
