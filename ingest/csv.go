package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pellicle-io/pellicle/log"
	"github.com/pellicle-io/pellicle/types"
)

// Required columns. Additional columns in the input are ignored.
var requiredColumns = []string{
	"tick_num", "agent_type", "pos_X", "pos_Y",
	"diameter", "length", "orientation_X", "orientation_Y",
}

// Drop reason labels for Stats.DroppedByReason.
const (
	DropBlank       = "blank"
	DropSeparator   = "separator"
	DropCoercion    = "coercion"
	DropNegTick     = "negative_tick"
	DropBadDiameter = "nonpositive_diameter"
)

// Stats summarizes one ingestion pass for observability.
type Stats struct {
	// RowsRead is the number of data rows seen, header excluded.
	RowsRead int64
	// RowsKept is the number of rows that became AgentRecords.
	RowsKept int64
	// RowsDropped is the total number of rows dropped.
	RowsDropped int64
	// DroppedByReason maps drop reason labels to counts.
	DroppedByReason map[string]int64
	// Unclassified is the number of kept records whose agent_type was
	// not recognized. They are excluded from both render partitions.
	Unclassified int64
}

// Result is the outcome of ingesting one input file.
type Result struct {
	// Source is the path the records came from.
	Source string
	// Records holds every surviving record in input order.
	Records []types.AgentRecord
	// Stats summarizes cleaning decisions.
	Stats Stats
}

// ReadFile ingests a simulation output CSV into typed agent records.
//
// Returns an *IngestionError only when the source itself is unusable:
// missing, unreadable, or lacking a header with the required columns.
// Individual bad rows are dropped, counted, and debug-logged.
func ReadFile(path string, logger *log.Logger) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newIngestionError(ErrSourceMissing, path, err)
		}
		return nil, newIngestionError(ErrSourceUnreadable, path, err)
	}
	defer func() { _ = f.Close() }()

	return Read(f, path, logger)
}

// Read ingests from an open reader. The path is used only for error
// context and the Result's Source field.
func Read(r io.Reader, path string, logger *log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.Nop()
	}

	cr := csv.NewReader(r)
	// Part files carry separator rows of arbitrary width; length
	// validation happens per-row below.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		// io.EOF here means an empty file with no header.
		return nil, newIngestionError(ErrNoHeader, path, err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, newIngestionError(ErrNoHeader, path, err)
	}

	result := &Result{
		Source: path,
		Stats:  Stats{DroppedByReason: make(map[string]int64)},
	}

	for rowIdx := 1; ; rowIdx++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// csv-level parse errors on a single row are a row
			// problem, not a source problem.
			result.Stats.RowsRead++
			result.drop(DropCoercion, rowIdx, "csv", logger)
			continue
		}

		result.Stats.RowsRead++

		rec, reason, field := parseRow(row, cols)
		if reason != "" {
			result.drop(reason, rowIdx, field, logger)
			continue
		}

		if rec.Type == types.AgentUnclassified {
			result.Stats.Unclassified++
			logger.Warn("unclassified agent_type", map[string]any{
				"row":  rowIdx,
				"tick": rec.Tick,
			})
		}

		result.Records = append(result.Records, rec)
		result.Stats.RowsKept++
	}

	return result, nil
}

func (r *Result) drop(reason string, rowIdx int, field string, logger *log.Logger) {
	r.Stats.RowsDropped++
	r.Stats.DroppedByReason[reason]++
	logger.Debug("row dropped", map[string]any{
		"row":    rowIdx,
		"reason": reason,
		"field":  field,
	})
}

// mapColumns resolves required column names to indices.
func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, &missingColumnError{Column: name}
		}
	}
	return cols, nil
}

type missingColumnError struct {
	Column string
}

func (e *missingColumnError) Error() string {
	return "missing required column: " + e.Column
}

// parseRow converts one raw row into an AgentRecord.
// A non-empty reason means the row must be dropped; field names the
// offending column when one can be identified.
func parseRow(row []string, cols map[string]int) (rec types.AgentRecord, reason, field string) {
	if isBlank(row) {
		return rec, DropBlank, ""
	}
	if hasSeparatorMarker(row) {
		return rec, DropSeparator, ""
	}

	get := func(name string) (string, bool) {
		idx := cols[name]
		if idx >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[idx]), true
	}

	tickStr, ok := get("tick_num")
	if !ok {
		return rec, DropCoercion, "tick_num"
	}
	tick, err := coerceTick(tickStr)
	if err != nil {
		return rec, DropCoercion, "tick_num"
	}
	if tick < 0 {
		return rec, DropNegTick, "tick_num"
	}

	floats := make(map[string]float64, 6)
	for _, name := range []string{"pos_X", "pos_Y", "diameter", "length", "orientation_X", "orientation_Y"} {
		s, ok := get(name)
		if !ok {
			return rec, DropCoercion, name
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return rec, DropCoercion, name
		}
		floats[name] = v
	}

	if floats["diameter"] <= 0 {
		return rec, DropBadDiameter, "diameter"
	}

	typeStr, _ := get("agent_type")
	agentType := classify(typeStr)

	rec = types.AgentRecord{
		Tick:        tick,
		Type:        agentType,
		Pos:         types.Vec2{X: floats["pos_X"], Y: floats["pos_Y"]},
		Diameter:    floats["diameter"],
		Length:      floats["length"],
		Orientation: types.Vec2{X: floats["orientation_X"], Y: floats["orientation_Y"]},
	}
	return rec, "", ""
}

// coerceTick parses a tick value, accepting float spellings like
// "12.0" that the upstream writer sometimes emits.
func coerceTick(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	n := int(f)
	if float64(n) != f {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}

func classify(s string) types.AgentType {
	switch s {
	case string(types.AgentCell):
		return types.AgentCell
	case string(types.AgentEPS):
		return types.AgentEPS
	default:
		return types.AgentUnclassified
	}
}

func isBlank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// hasSeparatorMarker reports whether any field carries the '#' marker
// the upstream writer uses to delimit output sections.
func hasSeparatorMarker(row []string) bool {
	for _, f := range row {
		if strings.Contains(f, "#") {
			return true
		}
	}
	return false
}
