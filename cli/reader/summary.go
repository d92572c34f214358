// Package reader assembles read-only dataset summaries for the CLI.
// The same payloads feed json/table/yaml rendering and the TUI, so the
// structs carry both tag sets.
package reader

import (
	"github.com/pellicle-io/pellicle/ingest"
	"github.com/pellicle-io/pellicle/timeline"
	"github.com/pellicle-io/pellicle/types"
)

// TrendPoint is the per-tick agent census used for trend plots.
type TrendPoint struct {
	Tick  int `json:"tick" yaml:"tick"`
	Cells int `json:"cells" yaml:"cells"`
	EPS   int `json:"eps" yaml:"eps"`
}

// ViewportSummary is the render viewport in world coordinates.
type ViewportSummary struct {
	MinX float64 `json:"min_x" yaml:"min_x"`
	MaxX float64 `json:"max_x" yaml:"max_x"`
	MinY float64 `json:"min_y" yaml:"min_y"`
	MaxY float64 `json:"max_y" yaml:"max_y"`
}

// Summary is the full dataset inspection payload.
type Summary struct {
	Source    string `json:"source" yaml:"source"`
	Path      string `json:"path" yaml:"path"`
	TickCount int    `json:"tick_count" yaml:"tick_count"`
	FirstTick int    `json:"first_tick" yaml:"first_tick"`
	LastTick  int    `json:"last_tick" yaml:"last_tick"`

	// Final-tick census.
	FinalCells int `json:"final_cells" yaml:"final_cells"`
	FinalEPS   int `json:"final_eps" yaml:"final_eps"`

	// Ingestion quality.
	RowsRead        int64            `json:"rows_read" yaml:"rows_read"`
	RowsKept        int64            `json:"rows_kept" yaml:"rows_kept"`
	RowsDropped     int64            `json:"rows_dropped" yaml:"rows_dropped"`
	DroppedByReason map[string]int64 `json:"dropped_by_reason,omitempty" yaml:"dropped_by_reason,omitempty"`
	Unclassified    int64            `json:"unclassified" yaml:"unclassified"`

	Viewport ViewportSummary `json:"viewport" yaml:"viewport"`
	Trend    []TrendPoint    `json:"trend,omitempty" yaml:"trend,omitempty"`
}

// Summarize builds the inspection payload from an ingested dataset.
func Summarize(res *ingest.Result, ix *timeline.Index, vp types.Viewport) *Summary {
	s := &Summary{
		Source:          res.Source,
		TickCount:       ix.Len(),
		RowsRead:        res.Stats.RowsRead,
		RowsKept:        res.Stats.RowsKept,
		RowsDropped:     res.Stats.RowsDropped,
		DroppedByReason: res.Stats.DroppedByReason,
		Unclassified:    res.Stats.Unclassified,
		Viewport: ViewportSummary{
			MinX: vp.MinX,
			MaxX: vp.MaxX,
			MinY: vp.MinY,
			MaxY: vp.MaxY,
		},
	}

	ticks := ix.Ticks()
	if len(ticks) == 0 {
		return s
	}
	s.FirstTick = ticks[0]
	s.LastTick = ticks[len(ticks)-1]

	s.Trend = make([]TrendPoint, 0, len(ticks))
	for _, tick := range ticks {
		point := TrendPoint{Tick: tick}
		for _, rec := range ix.At(tick) {
			switch rec.Type {
			case types.AgentCell:
				point.Cells++
			case types.AgentEPS:
				point.EPS++
			}
		}
		s.Trend = append(s.Trend, point)
	}

	final := s.Trend[len(s.Trend)-1]
	s.FinalCells = final.Cells
	s.FinalEPS = final.EPS
	return s
}

// CellTrend extracts the cell counts as a float series for plotting.
func (s *Summary) CellTrend() []float64 {
	series := make([]float64, len(s.Trend))
	for i, p := range s.Trend {
		series[i] = float64(p.Cells)
	}
	return series
}

// EPSTrend extracts the EPS counts as a float series for plotting.
func (s *Summary) EPSTrend() []float64 {
	series := make([]float64, len(s.Trend))
	for i, p := range s.Trend {
		series[i] = float64(p.EPS)
	}
	return series
}
