// Package complexity derives the technical complexity layer from a fully
// extracted graph document: one local complexity index per measure and one
// global complexity profile per movement. It works on the graph alone, so it
// can be re-run over a document loaded from disk without the source score.
package complexity

import (
	"math"

	"github.com/mvaldes/scoregraph/internal/graph"
	"github.com/mvaldes/scoregraph/internal/ident"
)

// noteBaseDenominators maps a note-type text to the denominator of the
// fraction of a whole note it stands for. Multi-whole values map to zero and
// are excluded from the rhythmic metrics.
var noteBaseDenominators = map[string]int{
	"maxima":  0,
	"long":    0,
	"breve":   0,
	"whole":   1,
	"half":    2,
	"quarter": 4,
	"eighth":  8,
	"16th":    16,
	"32nd":    32,
	"64th":    64,
	"128th":   128,
	"256th":   256,
}

// NoteBaseDenominator returns the whole-note fraction denominator for a
// note-type text; ok is false for unknown types.
func NoteBaseDenominator(noteType string) (den int, ok bool) {
	den, ok = noteBaseDenominators[noteType]
	return den, ok
}

// Metrics are the raw per-measure counts the index is built from.
type Metrics struct {
	NoteCount         int
	AccidentalCount   int
	SubdivisionIndex  int
	MinNoteValue      int
	DynamicCount      int
	ArticulationCount int
}

// Engine computes and writes the complexity layer.
type Engine struct {
	Weights Weights
}

// New returns an engine with the given weights.
func New(w Weights) *Engine {
	return &Engine{Weights: w}
}

// Run computes the raw metrics for every measure in the document, min-max
// normalizes each metric across all measures, writes one local complexity
// index node per measure, and one global complexity profile per movement
// that has at least one measure. Re-running replaces every previously
// computed value; the retired noteDensity key is removed whenever an index
// node is rewritten.
func (e *Engine) Run(doc *graph.Document) error {
	measures := doc.NodesByType(graph.TypeMeasure)
	if len(measures) == 0 {
		return nil
	}

	raw := make(map[string]Metrics, len(measures))
	for _, m := range measures {
		raw[m.ID] = e.measureMetrics(doc, m)
	}

	var bounds struct {
		nc, acc, sub, minv, dyn, art minmax
	}
	for _, m := range measures {
		mt := raw[m.ID]
		bounds.nc.observe(float64(mt.NoteCount))
		bounds.acc.observe(float64(mt.AccidentalCount))
		bounds.sub.observe(float64(mt.SubdivisionIndex))
		bounds.minv.observe(float64(mt.MinNoteValue))
		bounds.dyn.observe(float64(mt.DynamicCount))
		bounds.art.observe(float64(mt.ArticulationCount))
	}

	w := e.Weights.normalized()
	lciByMeasure := make(map[string]float64, len(measures))

	for _, m := range measures {
		mt := raw[m.ID]
		lci := w.NoteCount*bounds.nc.normalize(float64(mt.NoteCount)) +
			w.AccidentalCount*bounds.acc.normalize(float64(mt.AccidentalCount)) +
			w.SubdivisionIndex*bounds.sub.normalize(float64(mt.SubdivisionIndex)) +
			w.MinNoteValue*bounds.minv.normalize(float64(mt.MinNoteValue)) +
			w.DynamicCount*bounds.dyn.normalize(float64(mt.DynamicCount)) +
			w.ArticulationCount*bounds.art.normalize(float64(mt.ArticulationCount))
		lciByMeasure[m.ID] = lci

		node := doc.GetOrCreate(ident.LCI(m.ID),
			graph.TypeLocalComplexityIndex, graph.TypeComplexityProfile)
		node.Delete(graph.PropNoteDensity)
		node.Set(graph.PropNoteCount, mt.NoteCount)
		node.Set(graph.PropMeasureAccidentalCount, mt.AccidentalCount)
		node.Set(graph.PropSubdivisionIndex, mt.SubdivisionIndex)
		node.Set(graph.PropMinNoteValue, mt.MinNoteValue)
		node.Set(graph.PropDynamicCount, mt.DynamicCount)
		node.Set(graph.PropArticulationCount, mt.ArticulationCount)
		node.Set(graph.PropLCIValue, round4(lci))

		m.SetRef(graph.PropHasLCI, node.ID)
	}

	for _, mv := range doc.NodesByType(graph.TypeSonataMovement) {
		var sum float64
		var count int
		for _, ref := range mv.Refs(graph.PropMovementHasMeasure) {
			if lci, ok := lciByMeasure[ref.ID]; ok {
				sum += lci
				count++
			}
		}
		if count == 0 {
			continue
		}

		node := doc.GetOrCreate(ident.GCP(mv.ID),
			graph.TypeGlobalComplexityProfile, graph.TypeComplexityProfile)
		node.Set(graph.PropGlobalComplexityIndex, round4(sum/float64(count)))
		mv.SetRef(graph.PropHasGCP, node.ID)
	}
	return nil
}

// measureMetrics walks the measure's symbolic events and their sub-entities.
func (e *Engine) measureMetrics(doc *graph.Document, m *graph.Node) Metrics {
	var mt Metrics

	beatDen := 4
	if ts := doc.Lookup(m.RefID(graph.PropHasTimeSignature)); ts != nil {
		if den, ok := ts.Int(graph.PropDenominator); ok {
			beatDen = den
		}
	}

	for _, ref := range m.Refs(graph.PropHasSymbolicEvent) {
		ev := doc.Lookup(ref.ID)
		if ev == nil {
			continue
		}

		// Dynamics and articulations count on any event, rests included: a
		// pending dynamic flushes onto whatever event follows it.
		for _, dynRef := range ev.Refs(graph.PropHasDynamic) {
			if dyn := doc.Lookup(dynRef.ID); dyn != nil && dyn.HasType(graph.TypeLoudnessDynamic) {
				mt.DynamicCount++
			}
		}
		for _, artRef := range ev.Refs(graph.PropHasArticulation) {
			if art := doc.Lookup(artRef.ID); art != nil && art.HasType(graph.TypeStaccato) {
				mt.ArticulationCount++
			}
		}

		if !ev.HasType(graph.TypeNote) {
			continue
		}
		mt.NoteCount++

		if pitch := doc.Lookup(ev.RefID(graph.PropHasPitch)); pitch != nil {
			if pitch.Get(graph.PropHasAccidental) != nil {
				mt.AccidentalCount++
			}
		}

		dur := doc.Lookup(ev.RefID(graph.PropHasDuration))
		if dur == nil {
			continue
		}
		noteType, ok := dur.String(graph.PropNoteType)
		if !ok {
			continue
		}
		baseDen := noteBaseDenominators[noteType]
		if baseDen <= 0 {
			continue
		}

		// minNoteValue is the largest denominator, i.e. the shortest note.
		if baseDen > mt.MinNoteValue {
			mt.MinNoteValue = baseDen
		}
		sub := baseDen
		if beatDen > 0 {
			sub = int(math.Ceil(float64(baseDen) / float64(beatDen)))
		}
		if sub > mt.SubdivisionIndex {
			mt.SubdivisionIndex = sub
		}
	}
	return mt
}

// minmax accumulates the observed range of one metric.
type minmax struct {
	min, max float64
	seen     bool
}

func (b *minmax) observe(v float64) {
	if !b.seen {
		b.min, b.max = v, v
		b.seen = true
		return
	}
	if v < b.min {
		b.min = v
	}
	if v > b.max {
		b.max = v
	}
}

// normalize maps v into [0, 1] over the observed range. A degenerate range
// (all measures equal) normalizes to 0 so a constant metric contributes
// nothing.
func (b *minmax) normalize(v float64) float64 {
	if b.max <= b.min {
		return 0
	}
	return (v - b.min) / (b.max - b.min)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
