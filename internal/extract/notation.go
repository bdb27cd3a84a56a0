package extract

import (
	"strings"

	"github.com/mvaldes/scoregraph/internal/graph"
	"github.com/mvaldes/scoregraph/internal/ident"
	"github.com/mvaldes/scoregraph/internal/score"
)

// Summary counts what a pass processed and what it had to skip. Skipped
// elements are silent data loss by design: they are reported here instead of
// raised as errors.
type Summary struct {
	Movements     int
	Measures      int
	Notes         int
	Rests         int
	Tempi         int
	Dynamics      int
	Articulations int

	// SkippedPitches counts pitched notes whose pitch was missing its step
	// or octave and therefore got no pitch node.
	SkippedPitches int
}

// Merge folds another summary into this one.
func (s *Summary) Merge(other Summary) {
	s.Movements += other.Movements
	s.Measures += other.Measures
	s.Notes += other.Notes
	s.Rests += other.Rests
	s.Tempi += other.Tempi
	s.Dynamics += other.Dynamics
	s.Articulations += other.Articulations
	s.SkippedPitches += other.SkippedPitches
}

// Duration classes by note-type text. Only three dotted forms have a class;
// everything else (including dotted whole) stays unclassified while the
// duration node still records the raw fields.
var durationClasses = map[string]string{
	"whole":   "sg:WholeNote",
	"half":    "sg:HalfNote",
	"quarter": "sg:QuarterNote",
	"eighth":  "sg:EighthNote",
	"16th":    "sg:SixteenthNote",
	"32nd":    "sg:ThirtySecondNote",
	"64th":    "sg:SixtyFourthNote",
}

var dottedDurationClasses = map[string]string{
	"half":    "sg:DottedHalf",
	"quarter": "sg:DottedQuarter",
	"eighth":  "sg:DottedEighth",
}

// DurationClass maps a note-type text and dot count to a duration class
// tag. The empty string means no class applies.
func DurationClass(noteType string, dots int) string {
	noteType = strings.ToLower(strings.TrimSpace(noteType))
	switch dots {
	case 0:
		return durationClasses[noteType]
	case 1:
		return dottedDurationClasses[noteType]
	}
	return ""
}

// accidentalShifts maps accidental text to its class tag and semitone shift.
var accidentalShifts = map[string]struct {
	class string
	shift int
}{
	"flat":         {"sg:Flat", -1},
	"natural":      {"sg:Natural", 0},
	"sharp":        {"sg:Sharp", 1},
	"double-flat":  {"sg:DoubleFlat", -2},
	"double-sharp": {"sg:DoubleSharp", 2},
	"flat-flat":    {"sg:FlatFlat", -2},
	"sharp-sharp":  {"sg:SharpSharp", 2},
}

// AccidentalShift maps accidental text to its class tag and semitone shift.
// ok is false for unrecognized text, in which case the accidental node is
// still created but carries neither class nor shift.
func AccidentalShift(text string) (class string, shift int, ok bool) {
	entry, ok := accidentalShifts[strings.ToLower(strings.TrimSpace(text))]
	return entry.class, entry.shift, ok
}

var pitchSteps = map[string]bool{
	"A": true, "B": true, "C": true, "D": true, "E": true, "F": true, "G": true,
}

// Notation walks each movement's measures in order and populates time
// signatures, clefs, tempi, and the symbolic events with their duration,
// pitch, and accidental sub-entities. The events counter must count across
// the whole work; the caller owns it so a later pass can replay the same
// ordinal sequence.
type Notation struct {
	Seg Segmenter
}

func (p *Notation) segmenter() Segmenter {
	if p.Seg != nil {
		return p.Seg
	}
	return LabelSegmenter{}
}

// Run merges the notation layer into the document.
func (p *Notation) Run(doc *graph.Document, sc *score.Score, events *ident.Counter) (Summary, error) {
	var sum Summary

	part := sc.FirstPart()
	if part == nil {
		return sum, score.ErrNoParts
	}
	if len(part.Measures) == 0 {
		return sum, score.ErrNoMeasures
	}

	segments := p.segmenter().Segment(part.Measures)
	sum.Movements = len(segments)

	// Active clef instance per (movement, staff). Clefs are deduplicated at
	// that granularity, not per measure.
	type staffKey struct{ movement, staff int }
	activeClef := make(map[staffKey]string)

	for _, seg := range segments {
		for i := seg.Start; i < seg.End; i++ {
			m := &part.Measures[i]
			sum.Measures++

			label := ident.SanitizeLabel(m.Number, i+1)
			measureID := ident.Measure(sc.WorkID, seg.MovementIndex, label)
			measure := doc.GetOrCreate(measureID, graph.TypeMeasure)
			if _, ok := measure.Props[graph.PropNumber]; !ok {
				if m.Number != "" {
					measure.Set(graph.PropNumber, graph.IntOrString(m.Number))
				} else {
					measure.Set(graph.PropNumber, i+1)
				}
			}

			if m.Attributes != nil {
				p.timeSignature(doc, measure, m.Attributes.Time)
				for _, clef := range m.Attributes.Clefs {
					clefID := ident.Clef(sc.WorkID, seg.MovementIndex, clef.StaffIndex())
					node := doc.GetOrCreate(clefID, graph.TypeClef, graph.TypeNotationElement)
					if clef.Sign != "" {
						node.Set(graph.PropSign, clef.Sign)
					}
					if clef.Line != "" {
						node.Set(graph.PropLine, graph.IntOrString(clef.Line))
					}
					activeClef[staffKey{seg.MovementIndex, clef.StaffIndex()}] = clefID

					// Link the staff only when the structure pass created
					// it; a clef never forces a staff into existence.
					staffID := ident.Staff(sc.WorkID, seg.MovementIndex, clef.StaffIndex())
					if staff := doc.Lookup(staffID); staff != nil {
						staff.AppendRef(graph.PropStaffHasClef, clefID)
					}
					measure.AppendRef(graph.PropHasClef, clefID)
				}
			}

			sum.Tempi += p.tempi(doc, measure, m)

			for _, n := range m.Notes() {
				eventID := ident.Event(measureID, events.Next())

				types := []string{graph.TypeSymbolicEvent, graph.TypeNotationElement}
				if n.Rest {
					types = append(types, graph.TypeRest)
					sum.Rests++
				} else {
					types = append(types, graph.TypeNote)
					sum.Notes++
				}
				event := doc.GetOrCreate(eventID, types...)
				event.SetRef(graph.PropIsInMeasure, measureID)
				measure.AppendRef(graph.PropHasSymbolicEvent, eventID)

				p.duration(doc, event, n)

				if clefID, ok := activeClef[staffKey{seg.MovementIndex, n.StaffIndex()}]; ok {
					event.SetRef(graph.PropHasClef, clefID)
				}

				if !n.Rest {
					if !p.pitch(doc, event, n) {
						sum.SkippedPitches++
					}
				}
			}
		}
	}
	return sum, nil
}

func (p *Notation) timeSignature(doc *graph.Document, measure *graph.Node, ts *score.TimeSig) {
	if ts == nil || ts.Beats == "" || ts.BeatType == "" {
		return
	}
	numerator := graph.IntOrString(ts.Beats)
	denominator := graph.IntOrString(ts.BeatType)

	tsID := ident.TimeSignature(measure.ID)
	node := doc.GetOrCreate(tsID,
		graph.TypeTimeSignature, graph.TypeNotationElement, graph.TypeSignature)
	node.Set(graph.PropNumerator, numerator)
	node.Set(graph.PropDenominator, denominator)
	if ts.Symbol != "" {
		node.Set(graph.PropSymbol, ts.Symbol)
	}

	if num, ok := numerator.(int); ok {
		if den, ok := denominator.(int); ok {
			node.AddType(graph.TimeSignatureClass(num, den))
		}
	}

	measure.SetRef(graph.PropHasTimeSignature, tsID)
	node.SetRef(graph.PropTimeSignatureOf, measure.ID)
}

// tempi creates one tempo node per occurrence, never deduplicated: first
// from the measure's direct sound children, then from directions carrying
// either a sound tempo attribute or a metronome mark.
func (p *Notation) tempi(doc *graph.Document, measure *graph.Node, m *score.Measure) int {
	local := 1
	add := func() *graph.Node {
		node := doc.GetOrCreate(ident.Tempo(measure.ID, local), graph.TypeTempo, graph.TypeNotationElement)
		local++
		measure.AppendRef(graph.PropHasTempo, node.ID)
		node.SetRef(graph.PropIsTempoOf, measure.ID)
		return node
	}

	for _, snd := range m.Sounds() {
		if snd.Tempo == "" {
			continue
		}
		node := add()
		node.Set(graph.PropBPM, graph.IntOrString(snd.Tempo))
	}

	for _, el := range m.Elements {
		dir, ok := el.(*score.Direction)
		if !ok {
			continue
		}
		if dir.Sound != nil {
			node := add()
			node.Set(graph.PropBPM, graph.IntOrString(dir.Sound.Tempo))
			if dir.Words != "" {
				node.Set(graph.PropTempoText, dir.Words)
			}
			continue
		}
		if dir.Metronome != nil && dir.Metronome.PerMinute != "" {
			node := add()
			node.Set(graph.PropBPM, graph.IntOrString(dir.Metronome.PerMinute))
			if dir.Words != "" {
				node.Set(graph.PropTempoText, dir.Words)
			}
			if dir.Metronome.BeatUnit != "" {
				node.Set(graph.PropBeatUnit, dir.Metronome.BeatUnit)
			}
		}
	}
	return local - 1
}

func (p *Notation) duration(doc *graph.Document, event *graph.Node, n *score.Note) {
	durID := ident.Duration(event.ID)
	node := doc.GetOrCreate(durID, graph.TypeDuration, graph.TypeNotationElement)
	if n.Type != "" {
		node.Set(graph.PropNoteType, n.Type)
	}
	node.Set(graph.PropDots, n.Dots)
	if class := DurationClass(n.Type, n.Dots); class != "" {
		node.AddType(class)
	}
	event.SetRef(graph.PropHasDuration, durID)
}

// pitch creates the pitch (and optional accidental) sub-entities. A pitch
// missing its step or octave is not created at all; the caller counts the
// note as skipped.
func (p *Notation) pitch(doc *graph.Document, event *graph.Node, n *score.Note) bool {
	if n.Pitch == nil {
		return false
	}
	step := strings.ToUpper(strings.TrimSpace(n.Pitch.Step))
	if !pitchSteps[step] || n.Pitch.Octave == "" {
		return false
	}
	event.Set(graph.PropOctave, graph.IntOrString(n.Pitch.Octave))

	pitchID := ident.Pitch(event.ID)
	pitch := doc.GetOrCreate(pitchID, graph.TypePitch, graph.TypeMelodicElement, graph.PitchClass(step))
	event.SetRef(graph.PropHasPitch, pitchID)

	if n.Accidental != "" {
		accID := ident.Accidental(event.ID)
		acc := doc.GetOrCreate(accID, graph.TypeAccidental, graph.TypeMelodicElement)
		if class, shift, ok := AccidentalShift(n.Accidental); ok {
			acc.AddType(class)
			acc.Set(graph.PropSemitoneShift, shift)
		}
		pitch.SetRef(graph.PropHasAccidental, accID)
	}
	return true
}
