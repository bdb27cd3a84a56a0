// Package extract implements the passes that populate the graph document
// from a parsed score: metadata, structure, notation, and expression. Each
// pass recomputes node ids from structural position alone and merges into
// the document via get-or-create, so passes can run in any combination and
// still land on the same nodes.
package extract

import "github.com/mvaldes/scoregraph/internal/score"

// Segment is one detected movement: a half-open measure range [Start, End)
// over the flat measure sequence, with a 1-based movement index assigned in
// document order.
type Segment struct {
	MovementIndex int
	Start         int
	End           int
}

// Segmenter splits a flat measure sequence into movements. It sits behind an
// interface because the default detection is a heuristic that callers may
// need to replace (pickup measures and renumbered works defeat it).
type Segmenter interface {
	Segment(measures []score.Measure) []Segment
}

// LabelSegmenter opens a new movement at every measure whose label is the
// literal "1". A work that never labels a measure "1" is treated as a single
// movement spanning the whole sequence.
type LabelSegmenter struct{}

// Segment implements Segmenter.
func (LabelSegmenter) Segment(measures []score.Measure) []Segment {
	var starts []int
	for i, m := range measures {
		if m.Number == "1" {
			starts = append(starts, i)
		}
	}
	if len(starts) == 0 {
		return []Segment{{MovementIndex: 1, Start: 0, End: len(measures)}}
	}

	segments := make([]Segment, 0, len(starts))
	for i, start := range starts {
		end := len(measures)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		segments = append(segments, Segment{MovementIndex: i + 1, Start: start, End: end})
	}
	return segments
}
