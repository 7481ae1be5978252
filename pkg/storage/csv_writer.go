package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"keyword-planner-go/pkg/api"
	"keyword-planner-go/pkg/logger"
)

// CSVResultWriter writes one row per keyword idea. Every WriteIdeas call is
// flushed to disk before it returns so a crash loses at most the chunk in flight.
type CSVResultWriter struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	writer *csv.Writer
	rows   int
	closed bool
	log    *logger.Logger
}

// NewCSVResultWriter creates (or truncates) the file at path and writes the header.
func NewCSVResultWriter(path string) (*CSVResultWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	w := &CSVResultWriter{
		path:   path,
		file:   file,
		writer: csv.NewWriter(file),
		log:    logger.GetLogger().WithField("component", "csv_writer"),
	}

	if err := w.writer.Write(Header); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.flush(); err != nil {
		file.Close()
		return nil, err
	}

	return w, nil
}

// WriteIdeas appends ideas and flushes.
func (w *CSVResultWriter) WriteIdeas(ideas []api.KeywordIdea) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("result writer for %s is closed", w.path)
	}

	for _, idea := range ideas {
		if err := w.writer.Write(Row(idea)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	if err := w.flush(); err != nil {
		return err
	}

	w.rows += len(ideas)
	w.log.WithField("rows", len(ideas)).Debug("Rows flushed")
	return nil
}

func (w *CSVResultWriter) flush() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return fmt.Errorf("failed to flush results: %w", err)
	}
	return nil
}

// Rows is the number of data rows written so far.
func (w *CSVResultWriter) Rows() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rows
}

// Close flushes and closes the file. Calling it twice is a no-op.
func (w *CSVResultWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	flushErr := w.flush()
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return flushErr
}

// Row flattens an idea into the Header column order. Missing metrics become
// zeros and UNSPECIFIED competition.
func Row(idea api.KeywordIdea) []string {
	metrics := idea.Metrics
	if metrics == nil {
		metrics = &api.IdeaMetrics{}
	}

	competition := metrics.Competition
	if competition == "" {
		competition = api.CompetitionUnspecified
	}

	return []string{
		idea.Text,
		strconv.FormatInt(metrics.AvgMonthlySearches, 10),
		string(competition),
		strconv.FormatInt(metrics.CompetitionIndex, 10),
		strconv.FormatInt(metrics.LowTopOfPageBidMicros, 10),
		strconv.FormatInt(metrics.HighTopOfPageBidMicros, 10),
	}
}
