// Package service wires configuration, input, the Google Ads client and the
// results file into a single keyword ideas run.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"keyword-planner-go/internal/config"
	"keyword-planner-go/pkg/api"
	"keyword-planner-go/pkg/keywords"
	"keyword-planner-go/pkg/logger"
	"keyword-planner-go/pkg/planner"
	"keyword-planner-go/pkg/storage"
)

// Options are the file locations of one run.
type Options struct {
	ConfigPath string
	InputPath  string
	OutputPath string
	Debug      bool
}

// Result is what the CLI reports once a run ends.
type Result struct {
	RunID      string
	OutputPath string
	// Written is false when there was nothing to query and no file was created.
	Written bool
	Summary *planner.Summary
}

// Runner executes keyword ideas runs.
type Runner struct {
	configs    config.Manager
	newService ServiceFactory
	newWriter  WriterFactory
}

type RunnerOption func(*Runner)

// WithServiceFactory replaces the Google Ads backend.
func WithServiceFactory(f ServiceFactory) RunnerOption {
	return func(r *Runner) { r.newService = f }
}

// WithWriterFactory replaces the CSV results file.
func WithWriterFactory(f WriterFactory) RunnerOption {
	return func(r *Runner) { r.newWriter = f }
}

func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		configs:    config.NewManager(),
		newService: NewGoogleAdsService,
		newWriter: func(path string) (storage.ResultWriter, error) {
			return storage.NewCSVResultWriter(path)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run loads the configuration and keywords, then queries keyword ideas chunk
// by chunk and appends them to the output file. Setup failures are returned
// before any request is made. Failed chunks are reported in the summary and
// do not fail the run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	cfg, err := r.configs.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	base, err := configureLogger(cfg.Logger, opts.Debug, runID)
	if err != nil {
		return nil, err
	}
	defer base.Close()
	log := logger.GetLogger().WithField("component", "runner")
	logConfig(cfg, opts)

	service, err := r.newService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Ads client: %w", err)
	}
	if c, ok := service.(closer); ok {
		defer c.Close()
	}

	kws, err := keywords.Load(opts.InputPath)
	if err != nil {
		return nil, err
	}

	result := &Result{RunID: runID, OutputPath: opts.OutputPath}
	if len(kws) == 0 {
		log.WithField("input", opts.InputPath).Warn("No keywords found in input, nothing to do")
		result.Summary = &planner.Summary{}
		return result, nil
	}
	log.WithField("keywords", len(kws)).Info("Loaded keywords")

	writer, err := r.newWriter(opts.OutputPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := writer.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("Failed to close output file cleanly")
		}
	}()
	result.Written = true

	requester := planner.NewRequester(service, paramsFrom(cfg))
	summary, err := requester.Run(ctx, kws, writer)
	result.Summary = summary
	if err != nil {
		return result, err
	}

	log.WithFields(map[string]interface{}{
		"chunks":        summary.Chunks,
		"failed_chunks": len(summary.Failures),
		"rows":          summary.Rows,
		"duration":      summary.Duration.Round(time.Millisecond).String(),
	}).Info("Keyword ideas run completed")
	return result, nil
}

// NewGoogleAdsService builds the REST client with OAuth credentials from cfg.
func NewGoogleAdsService(ctx context.Context, cfg *config.Config) (api.IdeaService, error) {
	tokens, err := api.NewTokenSource(ctx, api.Credentials{
		ClientID:          cfg.GoogleAds.ClientID,
		ClientSecret:      cfg.GoogleAds.ClientSecret,
		RefreshToken:      cfg.GoogleAds.RefreshToken,
		JSONKeyFilePath:   cfg.GoogleAds.JSONKeyFilePath,
		ImpersonatedEmail: cfg.GoogleAds.ImpersonatedEmail,
	})
	if err != nil {
		return nil, err
	}
	return api.NewClient(ClientConfigFrom(cfg), tokens)
}

func ClientConfigFrom(cfg *config.Config) api.ClientConfig {
	return api.ClientConfig{
		Endpoint:        cfg.GoogleAds.Endpoint,
		APIVersion:      cfg.GoogleAds.APIVersion,
		DeveloperToken:  cfg.GoogleAds.DeveloperToken,
		LoginCustomerID: cfg.GoogleAds.LoginCustomerID,
		Timeout:         cfg.GoogleAds.Timeout(),
	}
}

func paramsFrom(cfg *config.Config) planner.Params {
	sp := cfg.ScriptParameters
	return planner.Params{
		CustomerID:           sp.CustomerID,
		LanguageID:           sp.LanguageID,
		GeoTargetIDs:         sp.GeoTargetIDs,
		ChunkSize:            sp.ChunkSize,
		SleepInterval:        sp.SleepInterval(),
		IncludeAdultKeywords: sp.IncludeAdultKeywords,
	}
}

// configureLogger installs the run's global logger; every later component
// logger inherits the run_id field. The returned base logger owns the log
// file and is closed when the run ends.
func configureLogger(lc logger.Config, debug bool, runID string) (*logger.Logger, error) {
	if debug {
		lc.Level = "debug"
	}
	base, err := logger.New(lc)
	if err != nil {
		return nil, err
	}
	logger.SetLogger(base.WithField("run_id", runID))
	return base, nil
}

func logConfig(cfg *config.Config, opts Options) {
	ga := cfg.GoogleAds
	sp := cfg.ScriptParameters
	logger.GetSecurityLogger().SafeInfo("Configuration loaded", map[string]interface{}{
		"config":            opts.ConfigPath,
		"input":             opts.InputPath,
		"output":            opts.OutputPath,
		"developer_token":   ga.DeveloperToken,
		"refresh_token":     ga.RefreshToken,
		"client_secret":     ga.ClientSecret,
		"customer_id":       sp.CustomerID,
		"login_customer_id": ga.LoginCustomerID,
		"endpoint":          ga.Endpoint,
		"api_version":       ga.APIVersion,
		"service_account":   ga.JSONKeyFilePath != "",
		"language_id":       sp.LanguageID,
		"geo_target_ids":    sp.GeoTargetIDs,
		"chunk_size":        sp.ChunkSize,
		"sleep_interval":    sp.SleepInterval().String(),
		"include_adult":     sp.IncludeAdultKeywords,
	})
}
