package complexity

// Weights control the relative contribution of each raw metric to the local
// complexity index. All weights must be >= 0; negative values are clamped to
// zero before normalization.
type Weights struct {
	NoteCount         float64
	AccidentalCount   float64
	SubdivisionIndex  float64
	MinNoteValue      float64
	DynamicCount      float64
	ArticulationCount float64
}

// DefaultWeights returns the calibrated default weighting.
func DefaultWeights() Weights {
	return Weights{
		NoteCount:         3.06,
		AccidentalCount:   4.31,
		SubdivisionIndex:  3.75,
		MinNoteValue:      3.68,
		DynamicCount:      3.68,
		ArticulationCount: 4.43,
	}
}

// normalized returns the weights scaled to sum to 1. When every weight is
// zero (or negative) each metric gets an equal 1/6 share.
func (w Weights) normalized() Weights {
	clamp := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	}
	c := Weights{
		NoteCount:         clamp(w.NoteCount),
		AccidentalCount:   clamp(w.AccidentalCount),
		SubdivisionIndex:  clamp(w.SubdivisionIndex),
		MinNoteValue:      clamp(w.MinNoteValue),
		DynamicCount:      clamp(w.DynamicCount),
		ArticulationCount: clamp(w.ArticulationCount),
	}
	sum := c.NoteCount + c.AccidentalCount + c.SubdivisionIndex +
		c.MinNoteValue + c.DynamicCount + c.ArticulationCount
	if sum <= 0 {
		equal := 1.0 / 6.0
		return Weights{equal, equal, equal, equal, equal, equal}
	}
	return Weights{
		NoteCount:         c.NoteCount / sum,
		AccidentalCount:   c.AccidentalCount / sum,
		SubdivisionIndex:  c.SubdivisionIndex / sum,
		MinNoteValue:      c.MinNoteValue / sum,
		DynamicCount:      c.DynamicCount / sum,
		ArticulationCount: c.ArticulationCount / sum,
	}
}
