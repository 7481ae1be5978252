package planner

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyword-planner-go/pkg/api"
	"keyword-planner-go/pkg/logger"
)

// fakeIdeaService returns one idea per seed keyword, suffixed "-idea",
// unless failOn names a seed in the request.
type fakeIdeaService struct {
	requests []*api.IdeaRequest
	failOn   map[string]error
	onCall   func(call int)
}

func (f *fakeIdeaService) GenerateKeywordIdeas(ctx context.Context, req *api.IdeaRequest) (*api.IdeaResponse, error) {
	f.requests = append(f.requests, req)
	if f.onCall != nil {
		f.onCall(len(f.requests))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, kw := range req.SeedKeywords {
		if err, ok := f.failOn[kw]; ok {
			return nil, err
		}
	}

	resp := &api.IdeaResponse{}
	for _, kw := range req.SeedKeywords {
		resp.Ideas = append(resp.Ideas, api.KeywordIdea{
			Text:    kw + "-idea",
			Metrics: &api.IdeaMetrics{AvgMonthlySearches: int64(len(kw))},
		})
	}
	return resp, nil
}

type recordingSink struct {
	batches [][]api.KeywordIdea
	err     error
}

func (s *recordingSink) WriteIdeas(ideas []api.KeywordIdea) error {
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, ideas)
	return nil
}

func (s *recordingSink) texts() []string {
	var out []string
	for _, batch := range s.batches {
		for _, idea := range batch {
			out = append(out, idea.Text)
		}
	}
	return out
}

func testParams(chunkSize int) Params {
	return Params{
		CustomerID:           "1234567890",
		LanguageID:           "1000",
		GeoTargetIDs:         []string{"2840", "geoTargetConstants/2250"},
		ChunkSize:            chunkSize,
		IncludeAdultKeywords: true,
	}
}

func TestRequester_BuildRequest(t *testing.T) {
	r := NewRequester(&fakeIdeaService{}, testParams(2))

	req := r.BuildRequest([]string{"a", "b"})

	assert.Equal(t, "1234567890", req.CustomerID)
	assert.Equal(t, "languageConstants/1000", req.Language)
	assert.Equal(t, []string{"geoTargetConstants/2840", "geoTargetConstants/2250"}, req.GeoTargetConstants)
	assert.Equal(t, []string{"a", "b"}, req.SeedKeywords)
	assert.True(t, req.IncludeAdultKeywords)
}

func TestRequester_RunWritesEveryChunk(t *testing.T) {
	service := &fakeIdeaService{}
	sink := &recordingSink{}

	summary, err := NewRequester(service, testParams(2)).Run(context.Background(), []string{"a", "b", "c"}, sink)
	require.NoError(t, err)

	require.Len(t, service.requests, 2)
	assert.Equal(t, []string{"a", "b"}, service.requests[0].SeedKeywords)
	assert.Equal(t, []string{"c"}, service.requests[1].SeedKeywords)

	assert.Equal(t, []string{"a-idea", "b-idea", "c-idea"}, sink.texts())
	assert.Len(t, sink.batches, 2)

	assert.Equal(t, 3, summary.Keywords)
	assert.Equal(t, 2, summary.Chunks)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 3, summary.Rows)
	assert.Empty(t, summary.Failures)
}

func TestRequester_FailedChunkIsSkipped(t *testing.T) {
	quotaErr := &api.APIError{StatusCode: 429, Status: "RESOURCE_EXHAUSTED"}
	service := &fakeIdeaService{failOn: map[string]error{"c": quotaErr}}
	sink := &recordingSink{}

	keywords := []string{"a", "b", "c", "d", "e"}
	summary, err := NewRequester(service, testParams(2)).Run(context.Background(), keywords, sink)
	require.NoError(t, err)

	// the failing chunk is attempted once and later chunks still run
	require.Len(t, service.requests, 3)
	assert.Equal(t, []string{"a-idea", "b-idea", "e-idea"}, sink.texts())

	require.Len(t, summary.Failures, 1)
	failure := summary.Failures[0]
	assert.Equal(t, 2, failure.Index)
	assert.Equal(t, []string{"c", "d"}, failure.Keywords)
	assert.ErrorIs(t, failure.Err, quotaErr)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 3, summary.Rows)
}

func TestRequester_AllChunksFail(t *testing.T) {
	boom := errors.New("boom")
	service := &fakeIdeaService{failOn: map[string]error{"a": boom, "b": boom}}
	sink := &recordingSink{}

	summary, err := NewRequester(service, testParams(1)).Run(context.Background(), []string{"a", "b"}, sink)
	require.NoError(t, err)

	assert.Len(t, service.requests, 2)
	assert.Empty(t, sink.batches)
	assert.Len(t, summary.Failures, 2)
	assert.Zero(t, summary.Rows)
}

func TestRequester_NoKeywords(t *testing.T) {
	service := &fakeIdeaService{}
	sink := &recordingSink{}

	summary, err := NewRequester(service, testParams(10)).Run(context.Background(), nil, sink)
	require.NoError(t, err)

	assert.Empty(t, service.requests)
	assert.Empty(t, sink.batches)
	assert.Zero(t, summary.Chunks)
}

func TestRequester_PausesBetweenChunks(t *testing.T) {
	params := testParams(1)
	params.SleepInterval = 60 * time.Millisecond

	start := time.Now()
	_, err := NewRequester(&fakeIdeaService{}, params).Run(context.Background(), []string{"a", "b", "c"}, &recordingSink{})
	require.NoError(t, err)
	elapsed := time.Since(start)

	// two pauses between three calls, none after the last
	assert.GreaterOrEqual(t, elapsed, 115*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

func TestRequester_CancellationStopsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	service := &fakeIdeaService{onCall: func(call int) {
		if call == 2 {
			cancel()
		}
	}}
	sink := &recordingSink{}

	summary, err := NewRequester(service, testParams(1)).Run(ctx, []string{"a", "b", "c"}, sink)
	require.ErrorIs(t, err, context.Canceled)

	assert.Len(t, service.requests, 2)
	assert.Equal(t, []string{"a-idea"}, sink.texts())
	assert.Equal(t, 1, summary.Succeeded)
	assert.Empty(t, summary.Failures)
}

func TestRequester_SinkFailureAbortsRun(t *testing.T) {
	service := &fakeIdeaService{}
	sink := &recordingSink{err: errors.New("disk full")}

	_, err := NewRequester(service, testParams(1)).Run(context.Background(), []string{"a", "b"}, sink)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "chunk 1"))
	assert.Len(t, service.requests, 1)
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logger.GetLogger()
	logger.SetLogger(logger.NewWithWriter(logger.Config{Level: "info"}, &buf))
	t.Cleanup(func() { logger.SetLogger(prev) })
	return &buf
}

func TestRequester_FailureLogIsMasked(t *testing.T) {
	logs := captureLogs(t)
	service := &fakeIdeaService{failOn: map[string]error{
		"b": errors.New("upstream rejected token=ya29.secret-value"),
	}}

	_, err := NewRequester(service, testParams(1)).Run(context.Background(), []string{"a", "b"}, &recordingSink{})
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "Keyword ideas request failed, skipping chunk")
	assert.Contains(t, out, "***-***-7890")
	assert.NotContains(t, out, "1234567890")
	assert.NotContains(t, out, "ya29.secret-value")
}

func TestRequester_ReportsCompletion(t *testing.T) {
	logs := captureLogs(t)

	_, err := NewRequester(&fakeIdeaService{}, testParams(2)).Run(context.Background(), []string{"a", "b", "c"}, &recordingSink{})
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "Keyword chunks: 1/2")
	assert.Contains(t, out, "Keyword chunks: 2/2 (100.0%)")
}
