package complexity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvaldes/scoregraph/internal/graph"
)

// measureSpec describes one hand-built measure for the engine tests.
type measureSpec struct {
	id         string
	beatType   int
	notes      []noteSpec
	restEvents int
}

type noteSpec struct {
	noteType   string
	accidental bool
	dynamics   int
	staccatos  int
}

func buildDoc(t *testing.T, movementID string, measures []measureSpec) *graph.Document {
	t.Helper()
	doc := graph.NewDocument()

	movement := doc.GetOrCreate(movementID, graph.TypeMovement, graph.TypeSonataMovement)
	movement.Set(graph.PropMovementIndex, 1)

	event := 0
	for _, ms := range measures {
		m := doc.GetOrCreate(ms.id, graph.TypeMeasure)
		movement.AppendRef(graph.PropMovementHasMeasure, ms.id)

		if ms.beatType > 0 {
			ts := doc.GetOrCreate(ms.id+"_TimeSig", graph.TypeTimeSignature)
			ts.Set(graph.PropNumerator, 4)
			ts.Set(graph.PropDenominator, ms.beatType)
			m.SetRef(graph.PropHasTimeSignature, ts.ID)
		}

		addEvent := func(isNote bool, ns noteSpec) {
			event++
			evID := ms.id + "_Event_" + string(rune('a'+event))
			types := []string{graph.TypeSymbolicEvent}
			if isNote {
				types = append(types, graph.TypeNote)
			} else {
				types = append(types, graph.TypeRest)
			}
			ev := doc.GetOrCreate(evID, types...)
			ev.SetRef(graph.PropIsInMeasure, ms.id)
			m.AppendRef(graph.PropHasSymbolicEvent, evID)

			if ns.noteType != "" {
				dur := doc.GetOrCreate(evID+"_Dur", graph.TypeDuration)
				dur.Set(graph.PropNoteType, ns.noteType)
				ev.SetRef(graph.PropHasDuration, dur.ID)
			}
			if ns.accidental {
				pitch := doc.GetOrCreate(evID+"_Pitch", graph.TypePitch)
				pitch.SetRef(graph.PropHasAccidental, evID+"_Accidental")
				doc.GetOrCreate(evID+"_Accidental", graph.TypeAccidental)
				ev.SetRef(graph.PropHasPitch, pitch.ID)
			}
			for i := 0; i < ns.dynamics; i++ {
				dynID := evID + "_Dyn_" + string(rune('1'+i))
				dyn := doc.GetOrCreate(dynID, graph.TypeDynamic, graph.TypeLoudnessDynamic)
				dyn.SetRef(graph.PropIsDynamicOf, evID)
				ev.AppendRef(graph.PropHasDynamic, dynID)
			}
			for i := 0; i < ns.staccatos; i++ {
				artID := evID + "_Art_" + string(rune('1'+i))
				art := doc.GetOrCreate(artID, graph.TypeArticulation, graph.TypeStaccato)
				art.SetRef(graph.PropIsArticulationOf, evID)
				ev.AppendRef(graph.PropHasArticulation, artID)
			}
		}

		for _, ns := range ms.notes {
			addEvent(true, ns)
		}
		for i := 0; i < ms.restEvents; i++ {
			addEvent(false, noteSpec{})
		}
	}
	return doc
}

// noteCountOnly weights everything except noteCount to zero, making the LCI
// equal to the normalized note count.
func noteCountOnly() Weights {
	return Weights{NoteCount: 1}
}

func TestRun_EmptyDocument(t *testing.T) {
	e := New(DefaultWeights())
	require.NoError(t, e.Run(graph.NewDocument()))
}

func TestRun_RawMetrics(t *testing.T) {
	doc := buildDoc(t, "sg:W_M1", []measureSpec{
		{
			id:       "sg:W_M1_Measure_1",
			beatType: 4,
			notes: []noteSpec{
				{noteType: "quarter", accidental: true, dynamics: 1},
				{noteType: "16th", staccatos: 1},
				{noteType: "half"},
			},
			restEvents: 1,
		},
		{
			id:       "sg:W_M1_Measure_2",
			beatType: 4,
			notes:    []noteSpec{{noteType: "quarter"}},
		},
	})

	e := New(DefaultWeights())
	require.NoError(t, e.Run(doc))

	lci := doc.Lookup("sg:W_M1_Measure_1_LCI")
	require.NotNil(t, lci)
	assert.True(t, lci.HasType(graph.TypeLocalComplexityIndex))
	assert.True(t, lci.HasType(graph.TypeComplexityProfile))

	count, _ := lci.Int(graph.PropNoteCount)
	assert.Equal(t, 3, count, "rests are not notes")
	acc, _ := lci.Int(graph.PropMeasureAccidentalCount)
	assert.Equal(t, 1, acc)
	// 16th against beat denominator 4: ceil(16/4) = 4.
	sub, _ := lci.Int(graph.PropSubdivisionIndex)
	assert.Equal(t, 4, sub)
	// Shortest note is the 16th: denominator 16.
	minv, _ := lci.Int(graph.PropMinNoteValue)
	assert.Equal(t, 16, minv)
	dyn, _ := lci.Int(graph.PropDynamicCount)
	assert.Equal(t, 1, dyn)
	art, _ := lci.Int(graph.PropArticulationCount)
	assert.Equal(t, 1, art)

	measure := doc.Lookup("sg:W_M1_Measure_1")
	assert.Equal(t, lci.ID, measure.RefID(graph.PropHasLCI))
}

func TestRun_MissingTimeSignatureDefaultsToFourFour(t *testing.T) {
	doc := buildDoc(t, "sg:W_M1", []measureSpec{
		{id: "sg:W_M1_Measure_1", notes: []noteSpec{{noteType: "eighth"}}},
	})

	e := New(DefaultWeights())
	require.NoError(t, e.Run(doc))

	lci := doc.Lookup("sg:W_M1_Measure_1_LCI")
	sub, _ := lci.Int(graph.PropSubdivisionIndex)
	assert.Equal(t, 2, sub, "ceil(8/4) against the implied 4/4")
}

func TestRun_NormalizationBounds(t *testing.T) {
	doc := buildDoc(t, "sg:W_M1", []measureSpec{
		{id: "sg:W_M1_Measure_1", notes: []noteSpec{{noteType: "quarter"}}},
		{id: "sg:W_M1_Measure_2", notes: []noteSpec{
			{noteType: "quarter"}, {noteType: "quarter"}, {noteType: "quarter"},
		}},
	})

	e := New(noteCountOnly())
	require.NoError(t, e.Run(doc))

	low := doc.Lookup("sg:W_M1_Measure_1_LCI")
	lowVal, ok := graph.AsFloat(low.Get(graph.PropLCIValue))
	require.True(t, ok)
	assert.Equal(t, 0.0, lowVal)

	high := doc.Lookup("sg:W_M1_Measure_2_LCI")
	highVal, _ := graph.AsFloat(high.Get(graph.PropLCIValue))
	assert.Equal(t, 1.0, highVal)
}

func TestRun_SingleMeasureDegenerateRange(t *testing.T) {
	doc := buildDoc(t, "sg:W_M1", []measureSpec{
		{id: "sg:W_M1_Measure_1", notes: []noteSpec{
			{noteType: "16th", accidental: true, dynamics: 2, staccatos: 1},
		}},
	})

	e := New(DefaultWeights())
	require.NoError(t, e.Run(doc))

	lci := doc.Lookup("sg:W_M1_Measure_1_LCI")
	val, ok := graph.AsFloat(lci.Get(graph.PropLCIValue))
	require.True(t, ok)
	assert.Equal(t, 0.0, val, "a constant metric contributes nothing")
}

func TestRun_GlobalProfileIsMeanOfLCIs(t *testing.T) {
	doc := buildDoc(t, "sg:W_M1", []measureSpec{
		{id: "sg:W_M1_Measure_1", notes: []noteSpec{{noteType: "quarter"}}},
		{id: "sg:W_M1_Measure_2", notes: []noteSpec{
			{noteType: "quarter"}, {noteType: "quarter"},
		}},
	})

	e := New(noteCountOnly())
	require.NoError(t, e.Run(doc))

	gcp := doc.Lookup("sg:W_M1_GCP")
	require.NotNil(t, gcp)
	assert.True(t, gcp.HasType(graph.TypeGlobalComplexityProfile))
	assert.True(t, gcp.HasType(graph.TypeComplexityProfile))
	gci, ok := graph.AsFloat(gcp.Get(graph.PropGlobalComplexityIndex))
	require.True(t, ok)
	assert.InDelta(t, 0.5, gci, 1e-9)

	movement := doc.Lookup("sg:W_M1")
	assert.Equal(t, gcp.ID, movement.RefID(graph.PropHasGCP))
}

func TestRun_MovementWithoutMeasuresGetsNoProfile(t *testing.T) {
	doc := graph.NewDocument()
	doc.GetOrCreate("sg:W_M1", graph.TypeMovement, graph.TypeSonataMovement)

	e := New(DefaultWeights())
	require.NoError(t, e.Run(doc))

	assert.Nil(t, doc.Lookup("sg:W_M1_GCP"))
}

func TestRun_PurgesRetiredNoteDensity(t *testing.T) {
	doc := buildDoc(t, "sg:W_M1", []measureSpec{
		{id: "sg:W_M1_Measure_1", notes: []noteSpec{{noteType: "quarter"}}},
	})
	stale := doc.GetOrCreate("sg:W_M1_Measure_1_LCI", graph.TypeLocalComplexityIndex)
	stale.Set(graph.PropNoteDensity, 0.75)

	e := New(DefaultWeights())
	require.NoError(t, e.Run(doc))

	assert.Nil(t, stale.Get(graph.PropNoteDensity))
	_, ok := stale.Int(graph.PropNoteCount)
	assert.True(t, ok, "metrics rewritten on the reused node")
}

func TestRun_RoundsToFourDecimals(t *testing.T) {
	doc := buildDoc(t, "sg:W_M1", []measureSpec{
		{id: "sg:W_M1_Measure_1", notes: []noteSpec{{noteType: "quarter"}}},
		{id: "sg:W_M1_Measure_2", notes: []noteSpec{
			{noteType: "quarter"}, {noteType: "quarter"},
		}},
		{id: "sg:W_M1_Measure_3", notes: []noteSpec{
			{noteType: "quarter"}, {noteType: "quarter"}, {noteType: "quarter"}, {noteType: "quarter"},
		}},
	})

	e := New(noteCountOnly())
	require.NoError(t, e.Run(doc))

	// Measure 2 normalizes to 1/3.
	lci := doc.Lookup("sg:W_M1_Measure_2_LCI")
	val, _ := graph.AsFloat(lci.Get(graph.PropLCIValue))
	assert.Equal(t, 0.3333, val)
}

func TestWeights_NormalizedSumsToOne(t *testing.T) {
	w := DefaultWeights().normalized()
	sum := w.NoteCount + w.AccidentalCount + w.SubdivisionIndex +
		w.MinNoteValue + w.DynamicCount + w.ArticulationCount
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Greater(t, w.ArticulationCount, w.NoteCount, "relative order preserved")
}

func TestWeights_ZeroFallsBackToEqualShares(t *testing.T) {
	w := Weights{}.normalized()
	assert.InDelta(t, 1.0/6.0, w.NoteCount, 1e-9)
	assert.InDelta(t, 1.0/6.0, w.ArticulationCount, 1e-9)
}

func TestWeights_NegativeClampedToZero(t *testing.T) {
	w := Weights{NoteCount: -5, AccidentalCount: 1}.normalized()
	assert.Equal(t, 0.0, w.NoteCount)
	assert.InDelta(t, 1.0, w.AccidentalCount, 1e-9)
}

func TestNoteBaseDenominator(t *testing.T) {
	den, ok := NoteBaseDenominator("quarter")
	require.True(t, ok)
	assert.Equal(t, 4, den)

	den, ok = NoteBaseDenominator("breve")
	require.True(t, ok)
	assert.Equal(t, 0, den, "multi-whole values are excluded from rhythm metrics")

	_, ok = NoteBaseDenominator("grace")
	assert.False(t, ok)
}
