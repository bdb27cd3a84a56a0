// Package score models the parsed input document the extraction passes walk:
// an ordered sequence of measure records per part, each exposing its label,
// attributes block, and interleaved direction/sound/note children in
// document order. The package also reads this model out of MusicXML.
package score

import "errors"

// Structural errors. A document with no parts or no measures cannot be
// processed at all; passes surface these immediately and produce nothing.
var (
	ErrNoParts    = errors.New("score: no part element found")
	ErrNoMeasures = errors.New("score: no measure elements found in first part")
)

// Score is one parsed work.
type Score struct {
	// WorkID is the work-local identifier, derived from the source
	// document's base name.
	WorkID string

	// Source is the source file name including extension, when known.
	Source string

	Title      string
	Composer   string
	Instrument string

	// Key is the first key signature found in the document, if any.
	Key *Key

	Parts []Part
}

// FirstPart returns the first part, which is the one the extraction passes
// operate on, or nil when the score has none.
func (s *Score) FirstPart() *Part {
	if len(s.Parts) == 0 {
		return nil
	}
	return &s.Parts[0]
}

// Key is a key signature given as a position on the circle of fifths plus an
// optional mode ("major"/"minor").
type Key struct {
	Fifths int
	Mode   string
}

// Part is one instrumental part: an ordered measure sequence.
type Part struct {
	ID       string
	Measures []Measure
}

// Measure is one measure record. Elements preserves the document order of
// direction, sound, and note children, which matters for binding pending
// dynamics to the following note.
type Measure struct {
	// Number is the raw textual label; may be empty.
	Number string

	// Attributes is the measure's first attributes block, if any.
	Attributes *Attributes

	Elements []Element
}

// Notes returns the measure's note elements in document order.
func (m *Measure) Notes() []*Note {
	var notes []*Note
	for _, el := range m.Elements {
		if n, ok := el.(*Note); ok {
			notes = append(notes, n)
		}
	}
	return notes
}

// Sounds returns the measure's direct sound children in document order.
func (m *Measure) Sounds() []*Sound {
	var sounds []*Sound
	for _, el := range m.Elements {
		if s, ok := el.(*Sound); ok {
			sounds = append(sounds, s)
		}
	}
	return sounds
}

// Attributes is a measure's attributes block.
type Attributes struct {
	// Staves is the explicit staff count, 0 when not declared.
	Staves int
	Time   *TimeSig
	Clefs  []Clef
	Key    *Key
}

// TimeSig carries the raw time signature fields. Beats and BeatType are kept
// textual; they are usually numeric but may not be.
type TimeSig struct {
	Beats    string
	BeatType string
	Symbol   string
}

// Clef is a clef declaration. Staff is 0 when not declared.
type Clef struct {
	Sign  string
	Line  string
	Staff int
}

// StaffIndex returns the declared staff, defaulting to 1.
func (c Clef) StaffIndex() int {
	if c.Staff < 1 {
		return 1
	}
	return c.Staff
}

// Element is a measure child in document order: *Direction, *Sound or *Note.
type Element interface {
	element()
}

// Direction is a direction-level marking. Tokens carries the child tag names
// of the first dynamics block (e.g. "p", "ff", "sf"); Words the first words
// text; Metronome the first metronome mark. Staff is 0 when not declared.
type Direction struct {
	Tokens    []string
	Words     string
	Metronome *Metronome
	Staff     int
	Sound     *Sound
}

func (*Direction) element() {}

// StaffIndex returns the declared target staff, defaulting to 1.
func (d *Direction) StaffIndex() int {
	if d.Staff < 1 {
		return 1
	}
	return d.Staff
}

// Sound is a sound element; Tempo is the raw tempo attribute, "" when absent.
type Sound struct {
	Tempo string
}

func (*Sound) element() {}

// Metronome is a metronome mark: a beat unit and a per-minute count.
type Metronome struct {
	BeatUnit  string
	PerMinute string
}

// Note is a note-or-rest element. Staff is 0 when not declared, so staff
// inference can distinguish explicit staff numbers from the default.
type Note struct {
	Rest       bool
	Staff      int
	Duration   string
	Type       string
	Dots       int
	Pitch      *Pitch
	Accidental string

	// Articulations carries the child tag names of the notations
	// articulations block; Slurs the type attributes of slur elements;
	// Dynamics the child tag names of a note-embedded dynamics block.
	Articulations []string
	Slurs         []string
	Dynamics      []string
}

func (*Note) element() {}

// StaffIndex returns the declared staff, defaulting to 1.
func (n *Note) StaffIndex() int {
	if n.Staff < 1 {
		return 1
	}
	return n.Staff
}

// Pitch holds the raw step and octave text. Either may be empty, in which
// case downstream treats the note as having no usable pitch.
type Pitch struct {
	Step   string
	Octave string
}
