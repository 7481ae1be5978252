package api

import (
	"bytes"
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Wire types for the REST form of KeywordPlanIdeaService.GenerateKeywordIdeas.
// Field names follow proto3 JSON mapping (lowerCamelCase).

type generateKeywordIdeasBody struct {
	Language             string       `json:"language,omitempty"`
	GeoTargetConstants   []string     `json:"geoTargetConstants,omitempty"`
	IncludeAdultKeywords bool         `json:"includeAdultKeywords"`
	KeywordSeed          *keywordSeed `json:"keywordSeed,omitempty"`
	PageToken            string       `json:"pageToken,omitempty"`
}

type keywordSeed struct {
	Keywords []string `json:"keywords"`
}

type generateKeywordIdeasPage struct {
	Results       []wireIdea  `json:"results"`
	NextPageToken string      `json:"nextPageToken"`
	TotalSize     int64String `json:"totalSize"`
}

type wireIdea struct {
	Text               string       `json:"text"`
	KeywordIdeaMetrics *wireMetrics `json:"keywordIdeaMetrics"`
}

type wireMetrics struct {
	AvgMonthlySearches     int64String `json:"avgMonthlySearches"`
	Competition            string      `json:"competition"`
	CompetitionIndex       int64String `json:"competitionIndex"`
	LowTopOfPageBidMicros  int64String `json:"lowTopOfPageBidMicros"`
	HighTopOfPageBidMicros int64String `json:"highTopOfPageBidMicros"`
}

// int64String decodes proto3 int64 values, which are sent as JSON strings,
// while still accepting bare numbers.
type int64String int64

func (v *int64String) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*v = 0
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid int64 value %q: %w", data, err)
	}
	*v = int64String(n)
	return nil
}

func newRequestBody(req *IdeaRequest, pageToken string) generateKeywordIdeasBody {
	return generateKeywordIdeasBody{
		Language:             req.Language,
		GeoTargetConstants:   req.GeoTargetConstants,
		IncludeAdultKeywords: req.IncludeAdultKeywords,
		KeywordSeed:          &keywordSeed{Keywords: req.SeedKeywords},
		PageToken:            pageToken,
	}
}

func (w wireIdea) toKeywordIdea() KeywordIdea {
	idea := KeywordIdea{Text: w.Text}
	if m := w.KeywordIdeaMetrics; m != nil {
		idea.Metrics = &IdeaMetrics{
			AvgMonthlySearches:     int64(m.AvgMonthlySearches),
			Competition:            parseCompetition(m.Competition),
			CompetitionIndex:       int64(m.CompetitionIndex),
			LowTopOfPageBidMicros:  int64(m.LowTopOfPageBidMicros),
			HighTopOfPageBidMicros: int64(m.HighTopOfPageBidMicros),
		}
	}
	return idea
}

func parseCompetition(value string) Competition {
	switch Competition(value) {
	case CompetitionUnknown, CompetitionLow, CompetitionMedium, CompetitionHigh:
		return Competition(value)
	default:
		return CompetitionUnspecified
	}
}
