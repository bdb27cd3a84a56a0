package extract

import (
	"strings"

	"github.com/mvaldes/scoregraph/internal/graph"
	"github.com/mvaldes/scoregraph/internal/ident"
	"github.com/mvaldes/scoregraph/internal/score"
)

// loudnessTokens is the closed set of dynamic marks treated as loudness
// dynamics. Anything outside it (wedges, niente, ...) is ignored entirely.
var loudnessTokens = map[string]bool{
	"ppp": true, "pp": true, "p": true, "mp": true,
	"mf": true, "f": true, "ff": true, "fff": true,
	"sf": true, "sfp": true, "fp": true, "pf": true,
}

// dynamicLevels maps loudness tokens onto a relative 1..8 scale. The accent
// forms are approximations.
var dynamicLevels = map[string]int{
	"ppp": 1, "pp": 2, "p": 3, "mp": 4,
	"mf": 5, "f": 6, "ff": 7, "fff": 8,
	"sf": 7, "sfp": 7, "fp": 6, "pf": 6,
}

// IsLoudnessDynamic reports whether a dynamic token is a recognized loudness
// mark.
func IsLoudnessDynamic(token string) bool {
	return loudnessTokens[strings.ToLower(token)]
}

// DynamicLevel returns the relative loudness level of a token on a 1..8
// scale; ok is false for tokens outside the table.
func DynamicLevel(token string) (level int, ok bool) {
	level, ok = dynamicLevels[strings.ToLower(token)]
	return level, ok
}

// articulationClasses maps the articulation marks that get a specific class.
// Unmapped marks produce no articulation node at all.
var articulationClasses = map[string]string{
	"staccato": graph.TypeStaccato,
	"accent":   graph.TypeAccent,
	"tenuto":   graph.TypeTenuto,
}

// Expression attaches dynamics and articulations to the symbolic events the
// notation layer created. It replays the same event ordinal sequence, so the
// caller must hand it a fresh counter, not the one the notation pass
// advanced.
type Expression struct {
	Seg Segmenter
}

func (p *Expression) segmenter() Segmenter {
	if p.Seg != nil {
		return p.Seg
	}
	return LabelSegmenter{}
}

// Run merges the expressive layer into the document.
func (p *Expression) Run(doc *graph.Document, sc *score.Score, events *ident.Counter) (Summary, error) {
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

	for _, seg := range segments {
		for i := seg.Start; i < seg.End; i++ {
			m := &part.Measures[i]
			sum.Measures++

			label := ident.SanitizeLabel(m.Number, i+1)
			measureID := ident.Measure(sc.WorkID, seg.MovementIndex, label)

			// Dynamics from directions bind to the next note on the same
			// staff. The queue never crosses a barline.
			pending := make(map[int][]string)

			for _, el := range m.Elements {
				switch el := el.(type) {
				case *score.Direction:
					tokens := loudnessOnly(el.Tokens)
					if len(tokens) > 0 {
						staff := el.StaffIndex()
						pending[staff] = append(pending[staff], tokens...)
					}

				case *score.Note:
					eventID := ident.Event(measureID, events.Next())
					event := doc.GetOrCreate(eventID,
						graph.TypeSymbolicEvent, graph.TypeNotationElement)

					dynN := 0
					staff := el.StaffIndex()
					for _, token := range pending[staff] {
						dynN++
						p.dynamic(doc, event, token, dynN)
						sum.Dynamics++
					}
					pending[staff] = nil

					for _, token := range loudnessOnly(el.Dynamics) {
						dynN++
						p.dynamic(doc, event, token, dynN)
						sum.Dynamics++
					}

					artN := 0
					for _, mark := range el.Articulations {
						class, ok := articulationClasses[strings.ToLower(mark)]
						if !ok {
							continue
						}
						artN++
						p.articulation(doc, event, strings.ToLower(mark), class, artN)
						sum.Articulations++
					}
					// The start of a slur counts as a legato articulation.
					for _, slur := range el.Slurs {
						if slur != "start" {
							continue
						}
						artN++
						p.articulation(doc, event, "legato", graph.TypeLegato, artN)
						sum.Articulations++
					}
				}
			}
		}
	}
	return sum, nil
}

func (p *Expression) dynamic(doc *graph.Document, event *graph.Node, token string, n int) {
	dynID := ident.Dynamic(event.ID, n)
	node := doc.GetOrCreate(dynID,
		graph.TypeDynamic, graph.TypeExpressiveElement, graph.TypeLoudnessDynamic)
	node.Set(graph.PropDynamicValue, token)
	if level, ok := DynamicLevel(token); ok {
		node.Set(graph.PropDynamicLevel, level)
	}
	node.SetRef(graph.PropIsDynamicOf, event.ID)
	event.AppendRef(graph.PropHasDynamic, dynID)
}

func (p *Expression) articulation(doc *graph.Document, event *graph.Node, text, class string, n int) {
	artID := ident.Articulation(event.ID, n)
	node := doc.GetOrCreate(artID,
		graph.TypeArticulation, graph.TypeExpressiveElement, class)
	node.Set(graph.PropArticulationText, text)
	node.SetRef(graph.PropIsArticulationOf, event.ID)
	event.AppendRef(graph.PropHasArticulation, artID)
}

func loudnessOnly(tokens []string) []string {
	var out []string
	for _, t := range tokens {
		t = strings.ToLower(t)
		if loudnessTokens[t] {
			out = append(out, t)
		}
	}
	return out
}
