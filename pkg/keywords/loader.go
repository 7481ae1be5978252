// Package keywords reads the seed keyword list from a CSV file.
package keywords

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ColumnName is the header the loader looks for.
const ColumnName = "keyword"

var (
	ErrInputNotFound        = errors.New("input file not found")
	ErrKeywordColumnMissing = errors.New(`input file has no "keyword" column`)
)

// Load reads keywords from the CSV file at path. See Read.
func Load(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	keywords, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return keywords, nil
}

// Read parses CSV with a "keyword" header column and returns the trimmed,
// non-blank values in file order. Duplicates are kept. A leading UTF-8 BOM,
// as written by spreadsheet exports, is dropped. An empty input yields no
// keywords and no error.
func Read(r io.Reader) ([]string, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	// inch marks like 10" tablet appear unescaped in hand-written lists
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	column := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), ColumnName) {
			column = i
			break
		}
	}
	if column < 0 {
		return nil, ErrKeywordColumnMissing
	}

	var keywords []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read keywords: %w", err)
		}
		if column >= len(record) {
			continue
		}
		if keyword := strings.TrimSpace(record[column]); keyword != "" {
			keywords = append(keywords, keyword)
		}
	}

	return keywords, nil
}
