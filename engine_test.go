package scoregraph

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvaldes/scoregraph/internal/graph"
	"github.com/mvaldes/scoregraph/internal/score"
)

// twoMovementXML is a minimal two-movement piano score: the measure numbering
// restarts at "1" where the second movement begins.
const twoMovementXML = `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="3.1">
  <work><work-title>Little Sonata</work-title></work>
  <identification><creator type="composer">Anonymous</creator></identification>
  <part-list>
    <score-part id="P1"><part-name>Piano</part-name></score-part>
  </part-list>
  <part id="P1">
    <measure number="1">
      <attributes>
        <staves>2</staves>
        <key><fifths>0</fifths><mode>major</mode></key>
        <time><beats>4</beats><beat-type>4</beat-type></time>
        <clef number="1"><sign>G</sign><line>2</line></clef>
        <clef number="2"><sign>F</sign><line>4</line></clef>
      </attributes>
      <direction>
        <direction-type><dynamics><f/></dynamics></direction-type>
        <staff>1</staff>
      </direction>
      <note>
        <pitch><step>C</step><octave>4</octave></pitch>
        <duration>4</duration><type>quarter</type><staff>1</staff>
        <notations><articulations><staccato/></articulations></notations>
      </note>
      <note>
        <pitch><step>F</step><octave>4</octave></pitch>
        <duration>1</duration><type>16th</type><staff>1</staff>
        <accidental>sharp</accidental>
      </note>
    </measure>
    <measure number="2">
      <note><rest/><duration>16</duration><type>whole</type><staff>1</staff></note>
    </measure>
    <measure number="1">
      <attributes>
        <time><beats>3</beats><beat-type>8</beat-type></time>
      </attributes>
      <note>
        <pitch><step>A</step><octave>3</octave></pitch>
        <duration>2</duration><type>eighth</type><staff>2</staff>
      </note>
      <note>
        <pitch><step>B</step><octave>3</octave></pitch>
        <duration>4</duration><type>quarter</type><staff>2</staff>
      </note>
      <note>
        <pitch><step>C</step><octave>4</octave></pitch>
        <duration>4</duration><type>quarter</type><staff>2</staff>
      </note>
    </measure>
  </part>
</score-partwise>`

func extractTestDoc(t *testing.T) (*Document, Summary) {
	t.Helper()
	sc, err := ParseScore(strings.NewReader(twoMovementXML), "Little")
	require.NoError(t, err)
	engine := New()
	doc, sum, err := engine.Extract(sc)
	require.NoError(t, err)
	return doc, sum
}

func TestExtract_Summary(t *testing.T) {
	_, sum := extractTestDoc(t)

	assert.Equal(t, 2, sum.Movements)
	assert.Equal(t, 3, sum.Measures)
	assert.Equal(t, 5, sum.Notes)
	assert.Equal(t, 1, sum.Rests)
	assert.Equal(t, 1, sum.Dynamics)
	assert.Equal(t, 1, sum.Articulations)
	assert.Equal(t, 0, sum.SkippedPitches)
}

func TestExtract_LayersCooperateOnSharedNodes(t *testing.T) {
	doc, _ := extractTestDoc(t)

	work := doc.Lookup("sg:Little")
	require.NotNil(t, work)
	// Metadata and structure both touched the work node.
	title, _ := work.String("sg:title")
	assert.Equal(t, "Little Sonata", title)
	assert.Len(t, work.Refs("sg:hasMovement"), 2)

	// The first note carries notation, expression, and clef layers.
	event := doc.Lookup("sg:Little_M1_Measure_1_Event_000001")
	require.NotNil(t, event)
	assert.True(t, event.HasType("mso:Note"))
	assert.Equal(t, "sg:Little_M1_Staff_1_Clef", event.RefID("sg:hasClef"))
	assert.Len(t, event.Refs("sg:hasDynamic"), 1)
	assert.Len(t, event.Refs("sg:hasArticulation"), 1)
}

func TestExtract_SecondMovementRestartsMeasuresNotEvents(t *testing.T) {
	doc, _ := extractTestDoc(t)

	// Measure labels restart per movement, event ordinals do not.
	assert.NotNil(t, doc.Lookup("sg:Little_M2_Measure_1"))
	assert.NotNil(t, doc.Lookup("sg:Little_M2_Measure_1_Event_000004"))
	assert.Nil(t, doc.Lookup("sg:Little_M2_Measure_1_Event_000001"))
}

func TestExtract_ComplexityLayerPresent(t *testing.T) {
	doc, _ := extractTestDoc(t)

	lci := doc.Lookup("sg:Little_M1_Measure_1_LCI")
	require.NotNil(t, lci)
	notes, _ := lci.Int("sg:noteCount")
	assert.Equal(t, 2, notes)
	acc, _ := lci.Int("sg:measureAccidentalCount")
	assert.Equal(t, 1, acc)

	val, ok := graph.AsFloat(lci.Get("sg:LCIvalue"))
	require.True(t, ok)
	assert.GreaterOrEqual(t, val, 0.0)
	assert.LessOrEqual(t, val, 1.0)

	gcp := doc.Lookup("sg:Little_M1_GCP")
	require.NotNil(t, gcp)
	gcp2 := doc.Lookup("sg:Little_M2_GCP")
	require.NotNil(t, gcp2)
}

func TestExtractInto_Idempotent(t *testing.T) {
	sc, err := ParseScore(strings.NewReader(twoMovementXML), "Little")
	require.NoError(t, err)
	engine := New()

	doc, _, err := engine.Extract(sc)
	require.NoError(t, err)
	before := doc.Len()

	_, err = engine.ExtractInto(doc, sc)
	require.NoError(t, err)
	assert.Equal(t, before, doc.Len())
}

func TestSaveLoadDocument_RoundTrip(t *testing.T) {
	doc, _ := extractTestDoc(t)
	path := filepath.Join(t.TempDir(), "little.jsonld")

	require.NoError(t, SaveDocument(doc, path))
	loaded, err := LoadDocument(path)
	require.NoError(t, err)

	require.Equal(t, doc.Len(), loaded.Len())
	for i, n := range doc.Nodes {
		assert.Equal(t, n.ID, loaded.Nodes[i].ID, "node order must survive the round trip")
	}

	lci := loaded.Lookup("sg:Little_M1_Measure_1_LCI")
	require.NotNil(t, lci)
	orig, _ := graph.AsFloat(doc.Lookup("sg:Little_M1_Measure_1_LCI").Get("sg:LCIvalue"))
	got, ok := graph.AsFloat(lci.Get("sg:LCIvalue"))
	require.True(t, ok)
	assert.Equal(t, orig, got)
}

func TestProfile_RecomputeOnLoadedDocument(t *testing.T) {
	doc, _ := extractTestDoc(t)
	path := filepath.Join(t.TempDir(), "little.jsonld")
	require.NoError(t, SaveDocument(doc, path))

	loaded, err := LoadDocument(path)
	require.NoError(t, err)

	engine := New()
	require.NoError(t, engine.Profile(loaded))

	orig, _ := graph.AsFloat(doc.Lookup("sg:Little_M1_Measure_1_LCI").Get("sg:LCIvalue"))
	recomputed, ok := graph.AsFloat(loaded.Lookup("sg:Little_M1_Measure_1_LCI").Get("sg:LCIvalue"))
	require.True(t, ok)
	assert.Equal(t, orig, recomputed)
}

func TestWithWeights_ChangesLCI(t *testing.T) {
	sc, err := ParseScore(strings.NewReader(twoMovementXML), "Little")
	require.NoError(t, err)

	defaultDoc, _, err := New().Extract(sc)
	require.NoError(t, err)
	skewedDoc, _, err := New(WithWeights(Weights{AccidentalCount: 1})).Extract(sc)
	require.NoError(t, err)

	d, _ := graph.AsFloat(defaultDoc.Lookup("sg:Little_M1_Measure_1_LCI").Get("sg:LCIvalue"))
	s, _ := graph.AsFloat(skewedDoc.Lookup("sg:Little_M1_Measure_1_LCI").Get("sg:LCIvalue"))
	assert.NotEqual(t, d, s)
}

type singleSegmenter struct{}

func (singleSegmenter) Segment(measures []score.Measure) []Segment {
	return []Segment{{MovementIndex: 1, Start: 0, End: len(measures)}}
}

func TestWithSegmenter_SingleMovement(t *testing.T) {
	sc, err := ParseScore(strings.NewReader(twoMovementXML), "Little")
	require.NoError(t, err)

	engine := New(WithSegmenter(singleSegmenter{}))
	doc, sum, err := engine.Extract(sc)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Movements)
	assert.NotNil(t, doc.Lookup("sg:Little_M1"))
	assert.Nil(t, doc.Lookup("sg:Little_M2"))
}
