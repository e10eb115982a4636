package producer

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/fxarb/arbiter/arbtypes"
)

// OnError selects how CsvStreamer handles a malformed row.
type OnError int

const (
	// OnErrorSkip logs the malformed row and continues parsing.
	OnErrorSkip OnError = iota
	// OnErrorFail aborts parsing on the first malformed row.
	OnErrorFail
)

// ParseOnError parses the producer.on_error configuration value.
func ParseOnError(s string) (OnError, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip":
		return OnErrorSkip, nil
	case "fail":
		return OnErrorFail, nil
	default:
		return 0, fmt.Errorf("producer: unknown on_error policy %q", s)
	}
}

// CsvStreamer replays edges parsed from a CSV file in fixed-size batches. It
// loads and validates the whole file up front so Run's per-tick cost is just
// a slice, matching spec.md's "terminates when the file is exhausted"
// contract for NextBatch.
type CsvStreamer struct {
	edges     []arbtypes.Edge
	batchSize int
	pos       int
}

// OpenCsvStreamer opens path and parses it into a CsvStreamer. Rows are
// `from,to,rate`; an optional header is detected and skipped automatically.
// Malformed rows are skipped-and-logged or fail the open call, per onError.
func OpenCsvStreamer(path string, batchSize int, onError OnError, logger *slog.Logger) (*CsvStreamer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("producer: open %s: %w", path, err)
	}
	defer f.Close()

	return NewCsvStreamer(f, batchSize, onError, logger)
}

// NewCsvStreamer parses CSV rows from r into a CsvStreamer. It is exported
// separately from OpenCsvStreamer so tests can feed an in-memory reader.
func NewCsvStreamer(r io.Reader, batchSize int, onError OnError, logger *slog.Logger) (*CsvStreamer, error) {
	if batchSize < 1 {
		batchSize = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("producer: reading csv: %w", err)
	}

	edges := make([]arbtypes.Edge, 0, len(records))
	for i, record := range records {
		if len(record) == 0 || (len(record) == 1 && record[0] == "") {
			continue
		}
		edge, err := parseRow(record)
		if err != nil {
			if i == 0 {
				if _, perr := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64); perr != nil {
					// A non-numeric "from" column on row 0 is treated as an
					// optional header, not a malformed row.
					continue
				}
			}
			if onError == OnErrorFail {
				return nil, fmt.Errorf("producer: row %d: %w", i+1, err)
			}
			logger.Warn("skipping malformed csv row", "row", i+1, "error", err)
			continue
		}
		edges = append(edges, edge)
	}

	return &CsvStreamer{edges: edges, batchSize: batchSize}, nil
}

func parseRow(record []string) (arbtypes.Edge, error) {
	if len(record) < 3 {
		return arbtypes.Edge{}, fmt.Errorf("%w: want 3 fields, got %d", arbtypes.ErrMalformedRow, len(record))
	}
	from, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
	if err != nil || from < 0 {
		return arbtypes.Edge{}, fmt.Errorf("%w: from=%q", arbtypes.ErrMalformedRow, record[0])
	}
	to, err := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
	if err != nil || to < 0 {
		return arbtypes.Edge{}, fmt.Errorf("%w: to=%q", arbtypes.ErrMalformedRow, record[1])
	}
	rate, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil || rate <= 0 {
		return arbtypes.Edge{}, fmt.Errorf("%w: rate=%q", arbtypes.ErrMalformedRow, record[2])
	}

	return arbtypes.Edge{From: arbtypes.NodeID(from), To: arbtypes.NodeID(to), Rate: rate}, nil
}

// NextBatch returns the next batch_size edges, or ErrStreamDone once every
// row has been returned.
func (s *CsvStreamer) NextBatch() (arbtypes.EdgeBatch, error) {
	if s.pos >= len(s.edges) {
		return nil, ErrStreamDone
	}
	end := s.pos + s.batchSize
	if end > len(s.edges) {
		end = len(s.edges)
	}
	batch := append(arbtypes.EdgeBatch(nil), s.edges[s.pos:end]...)
	s.pos = end
	return batch, nil
}
