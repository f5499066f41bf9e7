package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/okian/launchdash/internal/domain/model"
	"github.com/okian/launchdash/pkg/logger"
	"github.com/okian/launchdash/pkg/metrics"
)

const utf8BOM = "\ufeff"

// CSVSource reads launch records from a comma-separated file with a header row.
type CSVSource struct {
	path      string
	delimiter rune
	logger    logger.Logger
}

// NewCSVSource creates a source reading path.
func NewCSVSource(path string, opts ...Option) *CSVSource {
	s := &CSVSource{
		path:      path,
		delimiter: ',',
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load opens the file and parses it.
func (s *CSVSource) Load(ctx context.Context) (*model.Dataset, error) {
	start := time.Now()
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer func() { _ = f.Close() }()

	ds, err := Parse(ctx, f, s.delimiter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	payloadMissing, classMissing := ds.MissingCounts()
	metrics.UpdateDatasetRecords(ds.Len())
	metrics.UpdateDatasetMissing(ColumnPayloadMass, payloadMissing)
	metrics.UpdateDatasetMissing(ColumnClass, classMissing)

	if s.logger != nil {
		s.logger.Info(ctx, "dataset loaded",
			logger.String("path", s.path),
			logger.Int("records", ds.Len()),
			logger.Int("missingPayload", payloadMissing),
			logger.Int("missingClass", classMissing),
			logger.Duration("took", time.Since(start)),
		)
	}
	return ds, nil
}

// columns holds header positions of the columns we read.
type columns struct {
	site, payload, class, booster int
}

func locateColumns(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	find := func(name string) (int, error) {
		i, ok := pos[name]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		return i, nil
	}

	var c columns
	var err error
	if c.site, err = find(ColumnSite); err != nil {
		return c, err
	}
	if c.payload, err = find(ColumnPayloadMass); err != nil {
		return c, err
	}
	if c.class, err = find(ColumnClass); err != nil {
		return c, err
	}
	if c.booster, err = find(ColumnBoosterCategory); err != nil {
		return c, err
	}
	return c, nil
}

// Parse reads a launch table from r. The first row is the header; columns
// other than the four used by the dashboard are ignored.
func Parse(ctx context.Context, r io.Reader, delimiter rune) (*model.Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrRead)
		}
		return nil, fmt.Errorf("%w: header: %w", ErrRead, err)
	}
	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	var records []model.LaunchRecord
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrRead, line, err)
		}
		records = append(records, model.LaunchRecord{
			Site:            strings.TrimSpace(cell(row, cols.site)),
			PayloadMass:     toNumeric(cell(row, cols.payload)),
			Class:           toNumeric(cell(row, cols.class)),
			BoosterCategory: strings.TrimSpace(cell(row, cols.booster)),
		})
	}
	return model.NewDataset(records), nil
}

// cell returns row[i], or "" for short rows.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// toNumeric coerces s to a number; blanks, non-numeric text, NaN and
// infinities (including overflowing literals) become missing.
func toNumeric(s string) model.NullFloat {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return model.Missing()
	}
	return model.Float(v)
}
