// Package planner drives the keyword ideas run: chunking, pacing and
// per-chunk failure handling.
package planner

import (
	"context"
	"fmt"
	"time"

	"keyword-planner-go/pkg/api"
	"keyword-planner-go/pkg/logger"
)

// Params are the per-run request settings.
type Params struct {
	CustomerID           string
	LanguageID           string
	GeoTargetIDs         []string
	ChunkSize            int
	SleepInterval        time.Duration
	IncludeAdultKeywords bool
}

// Sink receives the ideas of each successful chunk.
type Sink interface {
	WriteIdeas(ideas []api.KeywordIdea) error
}

// ChunkFailure records a chunk whose API call failed. Its keywords produce no rows.
type ChunkFailure struct {
	Index    int // 1-based
	Keywords []string
	Err      error
}

// Summary describes a finished (or interrupted) run.
type Summary struct {
	Keywords  int
	Chunks    int
	Succeeded int
	Rows      int
	Failures  []ChunkFailure
	Duration  time.Duration
}

// Requester issues one GenerateKeywordIdeas call per chunk, in order.
type Requester struct {
	service  api.IdeaService
	params   Params
	executor *api.SequentialExecutor
	log      *logger.Logger
}

func NewRequester(service api.IdeaService, params Params) *Requester {
	if params.ChunkSize < 1 {
		params.ChunkSize = 1
	}
	return &Requester{
		service:  service,
		params:   params,
		executor: api.NewSequentialExecutor(params.SleepInterval),
		log:      logger.GetLogger().WithField("component", "requester"),
	}
}

// BuildRequest turns one chunk into an API request.
func (r *Requester) BuildRequest(chunk []string) *api.IdeaRequest {
	geo := make([]string, 0, len(r.params.GeoTargetIDs))
	for _, id := range r.params.GeoTargetIDs {
		geo = append(geo, api.GeoTargetResource(id))
	}

	return &api.IdeaRequest{
		CustomerID:           r.params.CustomerID,
		Language:             api.LanguageResource(r.params.LanguageID),
		GeoTargetConstants:   geo,
		SeedKeywords:         chunk,
		IncludeAdultKeywords: r.params.IncludeAdultKeywords,
	}
}

// Run processes keywords chunk by chunk. A failed API call is logged and the
// run moves on to the next chunk; it is never retried. Run stops early only
// when ctx is cancelled or the sink fails, returning the partial summary
// together with the error.
func (r *Requester) Run(ctx context.Context, keywords []string, sink Sink) (*Summary, error) {
	start := time.Now()
	summary := &Summary{Keywords: len(keywords)}
	if len(keywords) == 0 {
		return summary, nil
	}

	chunks := Chunk(keywords, r.params.ChunkSize)
	summary.Chunks = len(chunks)
	progress := logger.NewProgressReporter(len(chunks), "Keyword chunks")

	r.log.WithFields(map[string]interface{}{
		"keywords":   len(keywords),
		"chunks":     len(chunks),
		"chunk_size": r.params.ChunkSize,
		"interval":   r.params.SleepInterval.String(),
	}).Info("Starting keyword ideas run")

	for i, chunk := range chunks {
		index := i + 1

		var resp *api.IdeaResponse
		err := r.executor.Execute(ctx, func() error {
			var callErr error
			resp, callErr = r.service.GenerateKeywordIdeas(ctx, r.BuildRequest(chunk))
			return callErr
		})

		if err != nil && ctx.Err() != nil {
			summary.Duration = time.Since(start)
			r.log.WithField("chunk", index).Warn("Run interrupted")
			return summary, ctx.Err()
		}

		if err != nil {
			summary.Failures = append(summary.Failures, ChunkFailure{Index: index, Keywords: chunk, Err: err})
			logger.GetSecurityLogger().SafeError("Keyword ideas request failed, skipping chunk", err, map[string]interface{}{
				"component":   "requester",
				"chunk":       index,
				"chunks":      len(chunks),
				"keywords":    chunk,
				"customer_id": r.params.CustomerID,
			})
			progress.Update(1)
			continue
		}

		if err := sink.WriteIdeas(resp.Ideas); err != nil {
			summary.Duration = time.Since(start)
			return summary, fmt.Errorf("failed to write results for chunk %d: %w", index, err)
		}

		summary.Succeeded++
		summary.Rows += len(resp.Ideas)
		r.log.WithFields(map[string]interface{}{
			"chunk":  index,
			"chunks": len(chunks),
			"ideas":  len(resp.Ideas),
		}).Info(fmt.Sprintf("Processed chunk %d/%d, saved %d ideas", index, len(chunks), len(resp.Ideas)))
		progress.Update(1)
	}

	progress.Complete()
	summary.Duration = time.Since(start)
	return summary, nil
}
