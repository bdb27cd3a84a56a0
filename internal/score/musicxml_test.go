package score

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sonataXML = `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="3.1">
  <work><work-title>Sonata No. 1</work-title></work>
  <identification>
    <creator type="composer">L. van Beethoven</creator>
  </identification>
  <part-list>
    <score-part id="P1">
      <part-name>Piano</part-name>
      <score-instrument id="P1-I1"><instrument-name>Grand Piano</instrument-name></score-instrument>
    </score-part>
  </part-list>
  <part id="P1">
    <measure number="1">
      <attributes>
        <staves>2</staves>
        <key><fifths>-4</fifths><mode>minor</mode></key>
        <time><beats>3</beats><beat-type>4</beat-type></time>
        <clef number="1"><sign>G</sign><line>2</line></clef>
        <clef number="2"><sign>F</sign><line>4</line></clef>
      </attributes>
      <direction placement="below">
        <direction-type><dynamics><p/></dynamics></direction-type>
        <staff>1</staff>
      </direction>
      <note>
        <pitch><step>C</step><octave>4</octave></pitch>
        <duration>2</duration>
        <type>quarter</type>
        <staff>1</staff>
      </note>
      <note>
        <pitch><step>E</step><alter>-1</alter><octave>4</octave></pitch>
        <duration>1</duration>
        <type>eighth</type>
        <accidental>flat</accidental>
        <staff>1</staff>
        <notations>
          <articulations><staccato/></articulations>
          <slur type="start" number="1"/>
        </notations>
      </note>
      <note>
        <rest/>
        <duration>1</duration>
        <type>eighth</type>
        <staff>2</staff>
      </note>
    </measure>
    <measure number="2">
      <direction>
        <direction-type><metronome><beat-unit>quarter</beat-unit><per-minute>96</per-minute></metronome></direction-type>
        <direction-type><words>Allegro</words></direction-type>
        <sound tempo="96"/>
      </direction>
      <note>
        <pitch><step>G</step><octave>3</octave></pitch>
        <duration>2</duration>
        <type>half</type>
        <dot/>
        <staff>2</staff>
      </note>
    </measure>
  </part>
</score-partwise>`

func parseTestScore(t *testing.T) *Score {
	t.Helper()
	sc, err := Parse(strings.NewReader(sonataXML), "TestWork")
	require.NoError(t, err)
	return sc
}

func TestParse_Metadata(t *testing.T) {
	sc := parseTestScore(t)

	assert.Equal(t, "TestWork", sc.WorkID)
	assert.Equal(t, "Sonata No. 1", sc.Title)
	assert.Equal(t, "L. van Beethoven", sc.Composer)
	assert.Equal(t, "Piano", sc.Instrument)
	require.NotNil(t, sc.Key)
	assert.Equal(t, -4, sc.Key.Fifths)
	assert.Equal(t, "minor", sc.Key.Mode)
}

func TestParse_NoParts(t *testing.T) {
	_, err := Parse(strings.NewReader(`<score-partwise version="3.1"></score-partwise>`), "W")
	assert.ErrorIs(t, err, ErrNoParts)
}

func TestParse_NoMeasures(t *testing.T) {
	_, err := Parse(strings.NewReader(`<score-partwise><part id="P1"></part></score-partwise>`), "W")
	assert.ErrorIs(t, err, ErrNoMeasures)
}

func TestParse_MeasureAttributes(t *testing.T) {
	sc := parseTestScore(t)
	part := sc.FirstPart()
	require.NotNil(t, part)
	require.Len(t, part.Measures, 2)

	m1 := part.Measures[0]
	assert.Equal(t, "1", m1.Number)
	require.NotNil(t, m1.Attributes)
	assert.Equal(t, 2, m1.Attributes.Staves)
	require.NotNil(t, m1.Attributes.Time)
	assert.Equal(t, "3", m1.Attributes.Time.Beats)
	assert.Equal(t, "4", m1.Attributes.Time.BeatType)
	require.Len(t, m1.Attributes.Clefs, 2)
	assert.Equal(t, "G", m1.Attributes.Clefs[0].Sign)
	assert.Equal(t, 1, m1.Attributes.Clefs[0].StaffIndex())
	assert.Equal(t, "F", m1.Attributes.Clefs[1].Sign)
	assert.Equal(t, 2, m1.Attributes.Clefs[1].StaffIndex())

	m2 := part.Measures[1]
	assert.Nil(t, m2.Attributes)
}

func TestParse_ElementsPreserveDocumentOrder(t *testing.T) {
	sc := parseTestScore(t)
	m1 := sc.FirstPart().Measures[0]

	require.Len(t, m1.Elements, 4)
	_, isDirection := m1.Elements[0].(*Direction)
	assert.True(t, isDirection, "direction must precede the notes it applies to")
	for _, el := range m1.Elements[1:] {
		_, isNote := el.(*Note)
		assert.True(t, isNote)
	}
}

func TestParse_Notes(t *testing.T) {
	sc := parseTestScore(t)
	notes := sc.FirstPart().Measures[0].Notes()
	require.Len(t, notes, 3)

	first := notes[0]
	assert.False(t, first.Rest)
	require.NotNil(t, first.Pitch)
	assert.Equal(t, "C", first.Pitch.Step)
	assert.Equal(t, "4", first.Pitch.Octave)
	assert.Equal(t, "quarter", first.Type)
	assert.Equal(t, 0, first.Dots)
	assert.Equal(t, 1, first.StaffIndex())

	second := notes[1]
	assert.Equal(t, "flat", second.Accidental)
	assert.Equal(t, []string{"staccato"}, second.Articulations)
	assert.Equal(t, []string{"start"}, second.Slurs)

	rest := notes[2]
	assert.True(t, rest.Rest)
	assert.Nil(t, rest.Pitch)
	assert.Equal(t, 2, rest.StaffIndex())
}

func TestParse_DottedNote(t *testing.T) {
	sc := parseTestScore(t)
	notes := sc.FirstPart().Measures[1].Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "half", notes[0].Type)
	assert.Equal(t, 1, notes[0].Dots)
}

func TestParse_DirectionTempoAndMetronome(t *testing.T) {
	sc := parseTestScore(t)
	m2 := sc.FirstPart().Measures[1]

	var dir *Direction
	for _, el := range m2.Elements {
		if d, ok := el.(*Direction); ok {
			dir = d
			break
		}
	}
	require.NotNil(t, dir)
	assert.Equal(t, "Allegro", dir.Words)
	require.NotNil(t, dir.Metronome)
	assert.Equal(t, "quarter", dir.Metronome.BeatUnit)
	assert.Equal(t, "96", dir.Metronome.PerMinute)
	require.NotNil(t, dir.Sound)
	assert.Equal(t, "96", dir.Sound.Tempo)
}

func TestParse_DirectionDynamicsTokens(t *testing.T) {
	sc := parseTestScore(t)
	m1 := sc.FirstPart().Measures[0]

	dir, ok := m1.Elements[0].(*Direction)
	require.True(t, ok)
	assert.Equal(t, []string{"p"}, dir.Tokens)
	assert.Equal(t, 1, dir.StaffIndex())
}

func TestStaffIndex_DefaultsToOne(t *testing.T) {
	n := &Note{}
	assert.Equal(t, 0, n.Staff)
	assert.Equal(t, 1, n.StaffIndex())

	c := Clef{}
	assert.Equal(t, 1, c.StaffIndex())
}

func TestParse_TitleFallsBackToCredit(t *testing.T) {
	xml := `<score-partwise>
		<credit><credit-type>title</credit-type><credit-words>From Credit</credit-words></credit>
		<part id="P1"><measure number="1"><note><rest/><duration>4</duration></note></measure></part>
	</score-partwise>`
	sc, err := Parse(strings.NewReader(xml), "W")
	require.NoError(t, err)
	assert.Equal(t, "From Credit", sc.Title)
}

func TestParse_InstrumentDefaultsToPiano(t *testing.T) {
	xml := `<score-partwise>
		<part id="P1"><measure number="1"><note><rest/><duration>4</duration></note></measure></part>
	</score-partwise>`
	sc, err := Parse(strings.NewReader(xml), "W")
	require.NoError(t, err)
	assert.Equal(t, "Piano", sc.Instrument)
}
