package extract

import (
	"strings"

	"github.com/mvaldes/scoregraph/internal/graph"
	"github.com/mvaldes/scoregraph/internal/ident"
	"github.com/mvaldes/scoregraph/internal/score"
)

// KeyAnalyzer supplies the work-level tonality. Key inference proper is an
// external collaborator; the default implementation just reports the first
// key signature the score declares.
type KeyAnalyzer interface {
	AnalyzeKey(sc *score.Score) (score.Key, bool)
}

// SignatureKeyAnalyzer reads the score's first key signature.
type SignatureKeyAnalyzer struct{}

// AnalyzeKey implements KeyAnalyzer.
func (SignatureKeyAnalyzer) AnalyzeKey(sc *score.Score) (score.Key, bool) {
	if sc.Key == nil {
		return score.Key{}, false
	}
	return *sc.Key, true
}

// Theoretical tonics by position on the circle of fifths.
var fifthsToMajorTonic = map[int]string{
	-7: "C_flat", -6: "G_flat", -5: "D_flat", -4: "A_flat",
	-3: "E_flat", -2: "B_flat", -1: "F", 0: "C",
	1: "G", 2: "D", 3: "A", 4: "E", 5: "B",
	6: "F_sharp", 7: "C_sharp",
}

var fifthsToMinorTonic = map[int]string{
	-7: "A_flat", -6: "E_flat", -5: "B_flat", -4: "F",
	-3: "C", -2: "G", -1: "D", 0: "A",
	1: "E", 2: "B", 3: "F_sharp", 4: "C_sharp",
	5: "G_sharp", 6: "D_sharp", 7: "A_sharp",
}

// Metadata populates the work node with title, composer, and source, the
// instrument node, and the global key and key signature nodes.
type Metadata struct {
	Keys KeyAnalyzer
}

func (p *Metadata) analyzer() KeyAnalyzer {
	if p.Keys != nil {
		return p.Keys
	}
	return SignatureKeyAnalyzer{}
}

// Run merges the metadata layer into the document.
func (p *Metadata) Run(doc *graph.Document, sc *score.Score) error {
	workID := ident.Work(sc.WorkID)
	work := doc.GetOrCreate(workID, graph.TypeMusicalWork, graph.TypeSonata, graph.TypeMetadata)

	if sc.Title != "" {
		work.Set(graph.PropTitle, sc.Title)
	}
	if sc.Composer != "" {
		work.Set(graph.PropComposer, sc.Composer)
	}
	source := sc.Source
	if source == "" {
		source = sc.WorkID
	}
	work.Set(graph.PropSource, source)

	p.attachInstrument(doc, sc, work)
	p.attachKey(doc, sc, work)
	return nil
}

func (p *Metadata) attachInstrument(doc *graph.Document, sc *score.Score, work *graph.Node) {
	label := sc.Instrument
	if label == "" {
		label = "Piano"
	}
	class := graph.TypeInstrument
	if strings.Contains(strings.ToLower(label), "piano") {
		class = graph.TypePiano
	}

	instID := ident.Instrument(sc.WorkID)
	inst := doc.GetOrCreate(instID, class, graph.TypeMetadata)
	inst.Set(graph.PropLabel, label)
	work.SetRef(graph.PropHasInstrument, instID)
}

func (p *Metadata) attachKey(doc *graph.Document, sc *score.Score, work *graph.Node) {
	key, ok := p.analyzer().AnalyzeKey(sc)
	if !ok {
		return
	}

	keyID := ident.GlobalKey(sc.WorkID)
	keyNode := doc.GetOrCreate(keyID, graph.TypeKey, graph.TypeHarmonicElement)

	mode := strings.ToLower(key.Mode)
	tonic := ""
	switch mode {
	case "major":
		tonic = fifthsToMajorTonic[key.Fifths]
	case "minor":
		tonic = fifthsToMinorTonic[key.Fifths]
	}
	if tonic != "" {
		keyNode.AddType(graph.KeyClass(tonic, mode))
		keyNode.Set(graph.PropHasTonic, tonic)
	}
	if mode != "" {
		keyNode.Set(graph.PropHasMode, mode)
	}
	work.SetRef(graph.PropHasKey, keyID)

	sigID := ident.GlobalKeySignature(sc.WorkID)
	sig := doc.GetOrCreate(sigID,
		graph.TypeKeySignature, graph.TypeSignature, graph.TypeNotationElement,
		graph.KeySignatureClass(key.Fifths))

	count := key.Fifths
	accType := "sharp"
	switch {
	case count == 0:
		accType = "none"
	case count < 0:
		count = -count
		accType = "flat"
	}
	sig.Set(graph.PropAccidentalCount, count)
	sig.Set(graph.PropAccidentalType, accType)
	sig.SetRef(graph.PropRepresentsKey, keyID)
}
