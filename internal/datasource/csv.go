package datasource

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

const csvSourceName = "csv"

// CSVSource serves race history from a directory of per-horse CSV files.
// Each file is named <horseID>.csv and holds one race per row in the
// column-indexed table layout.
type CSVSource struct {
	dir    string
	logger *logrus.Logger
}

// NewCSVSource creates a new CSV race-history source rooted at dir.
func NewCSVSource(dir string, logger *logrus.Logger) (*CSVSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, NewSourceError(csvSourceName, ErrCodeInvalidData, fmt.Sprintf("cannot open directory %s", dir), err)
	}
	if !info.IsDir() {
		return nil, NewSourceError(csvSourceName, ErrCodeInvalidData, fmt.Sprintf("%s is not a directory", dir), nil)
	}

	return &CSVSource{
		dir:    dir,
		logger: logger,
	}, nil
}

// Name returns the name of the source
func (s *CSVSource) Name() string {
	return csvSourceName
}

// ListHorses returns one horse ID per .csv file in the directory.
func (s *CSVSource) ListHorses(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, NewSourceError(csvSourceName, ErrCodeInvalidData, "failed to read directory", err)
	}

	horses := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".csv") {
			continue
		}
		horses = append(horses, strings.TrimSuffix(name, filepath.Ext(name)))
	}

	sort.Strings(horses)
	return horses, nil
}

// FetchHistory reads the horse's CSV file into raw cell rows.
func (s *CSVSource) FetchHistory(ctx context.Context, horseID string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, horseID+".csv")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewSourceError(csvSourceName, ErrCodeNotFound, fmt.Sprintf("no history file for horse %s", horseID), ErrHorseNotFound)
		}
		return nil, NewSourceError(csvSourceName, ErrCodeInvalidData, fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Rows vary in width across table variants, and course cells carry
	// bare quotes like ST / "A+3" / Turf
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, NewSourceError(csvSourceName, ErrCodeInvalidData, fmt.Sprintf("malformed CSV for horse %s", horseID), err)
	}

	return rows, nil
}
