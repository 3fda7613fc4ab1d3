package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/i474232898/geoflix/internal/recommend"
)

var csvHeader = []string{"condition", "temperature", "category", "city"}

// CSVStore keeps the log in a flat CSV file. Every operation opens and
// closes the file under an exclusive lock.
type CSVStore struct {
	mu   sync.Mutex
	path string
}

// NewCSVStore returns a store backed by path. The file is created on the
// first append.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Append writes r as one row. A new file gets the current header; an
// existing file keeps its own layout, so older files without a city
// column stay readable.
func (s *CSVStore) Append(_ context.Context, r recommend.Record) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close log file: %w", cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat log file: %w", err)
	}

	w := csv.NewWriter(f)
	l := currentLayout
	if info.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	} else {
		if l, err = readLayout(f); err != nil {
			return err
		}
		if err := terminateLastLine(f, info.Size()); err != nil {
			return err
		}
	}

	if err := w.Write(l.encode(r)); err != nil {
		return fmt.Errorf("write row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush log file: %w", err)
	}
	return nil
}

// readLayout parses the header of an existing file. Writes are unaffected
// by the read offset because the file is opened with O_APPEND.
func readLayout(f *os.File) (layout, error) {
	header, err := csv.NewReader(f).Read()
	if err != nil {
		return layout{}, fmt.Errorf("%w: read header: %v", recommend.ErrCorruptStore, err)
	}
	return parseHeader(header)
}

// terminateLastLine adds the newline a hand-edited file may be missing so
// the next row does not run into the last one.
func terminateLastLine(f *os.File, size int64) error {
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, size-1); err != nil {
		return fmt.Errorf("read log file: %w", err)
	}
	if last[0] == '\n' {
		return nil
	}
	if _, err := f.Write([]byte{'\n'}); err != nil {
		return fmt.Errorf("write log file: %w", err)
	}
	return nil
}

// All reads every row. A missing file is an empty log. Any row that
// cannot be decoded fails the whole read.
func (s *CSVStore) All(_ context.Context) ([]recommend.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	return decodeCSV(f)
}

// Close is a no-op; the file is only held open during an operation.
func (s *CSVStore) Close() error {
	return nil
}

// layout records which column holds what. City is -1 for the older
// three- and four-column files that never tracked it; predicted is -1
// everywhere but the file that echoed the category a second time.
type layout struct {
	condition, temperature, category, city, predicted int
	width                                             int
}

var currentLayout = layout{condition: 0, temperature: 1, category: 2, city: 3, predicted: -1, width: 4}

func (l layout) encode(r recommend.Record) []string {
	row := make([]string, l.width)
	row[l.condition] = r.Condition
	row[l.temperature] = strconv.FormatFloat(r.Temperature, 'f', -1, 64)
	row[l.category] = string(r.Category)
	if l.city >= 0 {
		row[l.city] = r.City
	}
	if l.predicted >= 0 {
		row[l.predicted] = string(r.Category)
	}
	return row
}

func parseHeader(header []string) (layout, error) {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.ToLower(strings.TrimSpace(h))
	}

	switch {
	case slices.Equal(cols, csvHeader):
		return currentLayout, nil
	case slices.Equal(cols, []string{"condition", "temperature", "category"}):
		return layout{condition: 0, temperature: 1, category: 2, city: -1, predicted: -1, width: 3}, nil
	case slices.Equal(cols, []string{"condition", "temperature", "category", "predicted_category"}):
		return layout{condition: 0, temperature: 1, category: 2, city: -1, predicted: 3, width: 4}, nil
	default:
		return layout{}, fmt.Errorf("%w: unrecognised header %q", recommend.ErrCorruptStore, strings.Join(header, ","))
	}
}

func decodeCSV(r io.Reader) ([]recommend.Record, error) {
	cr := csv.NewReader(r)
	// Arity is checked per row against the header so the error can name the line.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", recommend.ErrCorruptStore, err)
	}

	l, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	var out []recommend.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", recommend.ErrCorruptStore, err)
		}
		line, _ := cr.FieldPos(0)
		if len(row) != l.width {
			return nil, fmt.Errorf("%w: line %d: expected %d fields, got %d", recommend.ErrCorruptStore, line, l.width, len(row))
		}

		temp, err := strconv.ParseFloat(strings.TrimSpace(row[l.temperature]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid temperature %q", recommend.ErrCorruptStore, line, row[l.temperature])
		}

		rec := recommend.Record{
			Condition:   row[l.condition],
			Temperature: temp,
			Category:    recommend.Category(row[l.category]),
			City:        recommend.UnknownCity,
		}
		if l.city >= 0 && row[l.city] != "" {
			rec.City = row[l.city]
		}
		out = append(out, rec)
	}
	return out, nil
}
