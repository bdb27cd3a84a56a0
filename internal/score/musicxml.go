package score

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ParseFile reads a MusicXML file. The work-local id is the file's base name
// without extension.
func ParseFile(path string) (*Score, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("score: open %s: %w", path, err)
	}
	defer f.Close()

	base := filepath.Base(path)
	workID := strings.TrimSuffix(base, filepath.Ext(base))
	s, err := Parse(f, workID)
	if err != nil {
		return nil, err
	}
	s.Source = base
	return s, nil
}

// Parse decodes a partwise MusicXML document into the score model. It fails
// with ErrNoParts / ErrNoMeasures when the document lacks the structure the
// passes require.
func Parse(r io.Reader, workID string) (*Score, error) {
	var doc xmlScore
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("score: decode musicxml: %w", err)
	}
	if len(doc.Parts) == 0 {
		return nil, ErrNoParts
	}
	if len(doc.Parts[0].Measures) == 0 {
		return nil, ErrNoMeasures
	}

	s := &Score{
		WorkID:     workID,
		Title:      doc.title(),
		Composer:   doc.composer(),
		Instrument: doc.instrument(),
	}
	for _, p := range doc.Parts {
		s.Parts = append(s.Parts, Part{ID: p.ID, Measures: p.Measures})
	}
	s.Key = firstKey(s.Parts)
	return s, nil
}

// firstKey returns the first key signature declared anywhere in the score,
// in document order. A key without a parseable fifths value is unusable and
// skipped.
func firstKey(parts []Part) *Key {
	for _, p := range parts {
		for _, m := range p.Measures {
			if m.Attributes == nil || m.Attributes.Key == nil {
				continue
			}
			return m.Attributes.Key
		}
	}
	return nil
}

// Wire structs for the document-level metadata.

type xmlScore struct {
	Work struct {
		Title string `xml:"work-title"`
	} `xml:"work"`
	Identification struct {
		Creators []struct {
			Type string `xml:"type,attr"`
			Name string `xml:",chardata"`
		} `xml:"creator"`
	} `xml:"identification"`
	Credits []struct {
		Type  string `xml:"credit-type"`
		Words string `xml:"credit-words"`
	} `xml:"credit"`
	PartList struct {
		ScoreParts []struct {
			PartName       string `xml:"part-name"`
			InstrumentName string `xml:"score-instrument>instrument-name"`
		} `xml:"score-part"`
	} `xml:"part-list"`
	Parts []xmlPart `xml:"part"`
}

type xmlPart struct {
	ID       string    `xml:"id,attr"`
	Measures []Measure `xml:"measure"`
}

// title prefers work/work-title, falling back to a credit entry typed
// "title".
func (d *xmlScore) title() string {
	if t := collapseSpace(d.Work.Title); t != "" {
		return t
	}
	for _, c := range d.Credits {
		if c.Type == "title" {
			if w := collapseSpace(c.Words); w != "" {
				return w
			}
		}
	}
	return ""
}

// composer prefers identification/creator[@type=composer], falling back to a
// credit entry typed "composer".
func (d *xmlScore) composer() string {
	for _, c := range d.Identification.Creators {
		if c.Type == "composer" {
			if n := collapseSpace(c.Name); n != "" {
				return n
			}
		}
	}
	for _, c := range d.Credits {
		if c.Type == "composer" {
			if w := collapseSpace(c.Words); w != "" {
				return w
			}
		}
	}
	return ""
}

// instrument prefers the first part-name, then the first instrument-name.
// The corpus default is Piano.
func (d *xmlScore) instrument() string {
	for _, sp := range d.PartList.ScoreParts {
		if n := collapseSpace(sp.PartName); n != "" {
			return n
		}
	}
	for _, sp := range d.PartList.ScoreParts {
		if n := collapseSpace(sp.InstrumentName); n != "" {
			return n
		}
	}
	return "Piano"
}

// UnmarshalXML decodes a measure element, preserving the document order of
// its direction, sound, and note children. Only the first attributes block
// is kept.
func (m *Measure) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		if attr.Name.Local == "number" {
			m.Number = strings.TrimSpace(attr.Value)
		}
	}
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "attributes":
				var wire xmlAttributes
				if err := d.DecodeElement(&wire, &t); err != nil {
					return err
				}
				if m.Attributes == nil {
					m.Attributes = wire.model()
				}
			case "direction":
				var wire xmlDirection
				if err := d.DecodeElement(&wire, &t); err != nil {
					return err
				}
				m.Elements = append(m.Elements, wire.model())
			case "sound":
				var wire xmlSound
				if err := d.DecodeElement(&wire, &t); err != nil {
					return err
				}
				m.Elements = append(m.Elements, &Sound{Tempo: strings.TrimSpace(wire.Tempo)})
			case "note":
				var wire xmlNote
				if err := d.DecodeElement(&wire, &t); err != nil {
					return err
				}
				m.Elements = append(m.Elements, wire.model())
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

type xmlAttributes struct {
	Staves string `xml:"staves"`
	Key    *struct {
		Fifths string `xml:"fifths"`
		Mode   string `xml:"mode"`
	} `xml:"key"`
	Time *struct {
		Beats    string `xml:"beats"`
		BeatType string `xml:"beat-type"`
		Symbol   string `xml:"symbol"`
	} `xml:"time"`
	Clefs []struct {
		Number string `xml:"number,attr"`
		Sign   string `xml:"sign"`
		Line   string `xml:"line"`
		Staff  string `xml:"staff"`
	} `xml:"clef"`
}

func (w *xmlAttributes) model() *Attributes {
	a := &Attributes{}
	if n, err := strconv.Atoi(strings.TrimSpace(w.Staves)); err == nil && n > 0 {
		a.Staves = n
	}
	if w.Key != nil {
		if fifths, err := strconv.Atoi(strings.TrimSpace(w.Key.Fifths)); err == nil {
			a.Key = &Key{Fifths: fifths, Mode: strings.ToLower(strings.TrimSpace(w.Key.Mode))}
		}
	}
	if w.Time != nil {
		a.Time = &TimeSig{
			Beats:    strings.TrimSpace(w.Time.Beats),
			BeatType: strings.TrimSpace(w.Time.BeatType),
			Symbol:   strings.TrimSpace(w.Time.Symbol),
		}
	}
	for _, c := range w.Clefs {
		clef := Clef{
			Sign: strings.TrimSpace(c.Sign),
			Line: strings.TrimSpace(c.Line),
		}
		// A staff child wins over the number attribute, which most scores
		// use to say which staff the clef belongs to.
		if n, err := strconv.Atoi(strings.TrimSpace(c.Staff)); err == nil {
			clef.Staff = n
		} else if n, err := strconv.Atoi(strings.TrimSpace(c.Number)); err == nil {
			clef.Staff = n
		}
		a.Clefs = append(a.Clefs, clef)
	}
	return a
}

type xmlDirection struct {
	Types []struct {
		Dynamics  *nameList `xml:"dynamics"`
		Words     []string  `xml:"words"`
		Metronome *struct {
			BeatUnit  string `xml:"beat-unit"`
			PerMinute string `xml:"per-minute"`
		} `xml:"metronome"`
	} `xml:"direction-type"`
	Staff string    `xml:"staff"`
	Sound *xmlSound `xml:"sound"`
}

type xmlSound struct {
	Tempo string `xml:"tempo,attr"`
}

func (w *xmlDirection) model() *Direction {
	dir := &Direction{}
	for _, dt := range w.Types {
		if dir.Tokens == nil && dt.Dynamics != nil {
			for _, tok := range *dt.Dynamics {
				dir.Tokens = append(dir.Tokens, strings.ToLower(tok))
			}
		}
		if dir.Words == "" {
			for _, words := range dt.Words {
				if t := collapseSpace(words); t != "" {
					dir.Words = t
					break
				}
			}
		}
		if dir.Metronome == nil && dt.Metronome != nil {
			dir.Metronome = &Metronome{
				BeatUnit:  strings.TrimSpace(dt.Metronome.BeatUnit),
				PerMinute: strings.TrimSpace(dt.Metronome.PerMinute),
			}
		}
	}
	if n, err := strconv.Atoi(strings.TrimSpace(w.Staff)); err == nil {
		dir.Staff = n
	}
	if w.Sound != nil && strings.TrimSpace(w.Sound.Tempo) != "" {
		dir.Sound = &Sound{Tempo: strings.TrimSpace(w.Sound.Tempo)}
	}
	return dir
}

type xmlNote struct {
	Rest  *struct{} `xml:"rest"`
	Pitch *struct {
		Step   string `xml:"step"`
		Octave string `xml:"octave"`
	} `xml:"pitch"`
	Duration   string     `xml:"duration"`
	Type       string     `xml:"type"`
	Dots       []struct{} `xml:"dot"`
	Accidental string     `xml:"accidental"`
	Staff      string     `xml:"staff"`
	Notations  []struct {
		Articulations *nameList `xml:"articulations"`
		Slurs         []struct {
			Type string `xml:"type,attr"`
		} `xml:"slur"`
		Dynamics *nameList `xml:"dynamics"`
	} `xml:"notations"`
}

func (w *xmlNote) model() *Note {
	n := &Note{
		Rest:       w.Rest != nil,
		Duration:   strings.TrimSpace(w.Duration),
		Type:       strings.TrimSpace(w.Type),
		Dots:       len(w.Dots),
		Accidental: strings.TrimSpace(w.Accidental),
	}
	if idx, err := strconv.Atoi(strings.TrimSpace(w.Staff)); err == nil {
		n.Staff = idx
	}
	if w.Pitch != nil {
		n.Pitch = &Pitch{
			Step:   strings.TrimSpace(w.Pitch.Step),
			Octave: strings.TrimSpace(w.Pitch.Octave),
		}
	}
	if len(w.Notations) > 0 {
		// Only the first notations block carries expression, matching the
		// upstream contract.
		nt := w.Notations[0]
		if nt.Articulations != nil {
			for _, a := range *nt.Articulations {
				n.Articulations = append(n.Articulations, strings.ToLower(a))
			}
		}
		for _, s := range nt.Slurs {
			n.Slurs = append(n.Slurs, strings.ToLower(strings.TrimSpace(s.Type)))
		}
		if nt.Dynamics != nil {
			for _, tok := range *nt.Dynamics {
				n.Dynamics = append(n.Dynamics, strings.ToLower(tok))
			}
		}
	}
	return n
}

// nameList collects the local names of an element's children, used for
// blocks like <dynamics> and <articulations> whose children are the tokens
// themselves (<p/>, <staccato/>, ...).
type nameList []string

func (l *nameList) UnmarshalXML(d *xml.Decoder, _ xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			*l = append(*l, t.Name.Local)
			if err := d.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
