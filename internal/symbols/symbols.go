package symbols

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// DefaultColumns are the header names tried when no column is configured.
var DefaultColumns = []string{"Symbol", "symbol"}

// Load returns explicit verbatim when it is non-empty. Otherwise it reads
// the symbol column of the CSV file at path. Any failure is logged and
// yields an empty list.
func Load(explicit []string, path string, logger *zap.Logger, columns ...string) []string {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(explicit) > 0 {
		logger.Info("processing explicit symbols", zap.Int("count", len(explicit)), zap.Strings("symbols", explicit))
		return explicit
	}
	logger.Info("loading stock symbols from CSV", zap.String("path", path))
	syms, err := ReadFile(path, columns...)
	if err != nil {
		logger.Error("error loading stock symbols", zap.String("path", path), zap.Error(err))
		return []string{}
	}
	logger.Info("loaded stock symbols", zap.Int("count", len(syms)))
	return syms
}

// ReadFile reads the first header column matching one of columns
// (DefaultColumns when none are given). Empty cells are skipped.
func ReadFile(path string, columns ...string) ([]string, error) {
	if path == "" {
		return nil, errors.New("no symbols file configured")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	if len(columns) == 0 {
		columns = DefaultColumns
	}
	idx := columnIndex(records[0], columns)
	if idx < 0 {
		return nil, fmt.Errorf("%s: no column named %s", path, strings.Join(columns, " or "))
	}

	syms := make([]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if idx >= len(rec) {
			continue
		}
		if s := strings.TrimSpace(rec[idx]); s != "" {
			syms = append(syms, s)
		}
	}
	return syms, nil
}

func columnIndex(header []string, columns []string) int {
	for _, want := range columns {
		for i, h := range header {
			if strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) == want {
				return i
			}
		}
	}
	return -1
}
