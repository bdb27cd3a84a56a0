package scoregraph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mvaldes/scoregraph/internal/complexity"
	"github.com/mvaldes/scoregraph/internal/extract"
	"github.com/mvaldes/scoregraph/internal/graph"
	"github.com/mvaldes/scoregraph/internal/ident"
	"github.com/mvaldes/scoregraph/internal/score"
)

// Engine orchestrates the extraction pipeline: metadata, structure, notation,
// expression, and the complexity profile. Every pass merges into the shared
// document through positional node ids, so passes can also be run
// individually over a document loaded from disk.
type Engine struct {
	seg           extract.Segmenter
	keys          extract.KeyAnalyzer
	weights       complexity.Weights
	defaultStaves int
}

// Option configures an Engine.
type Option func(*Engine)

// WithSegmenter replaces the movement segmentation heuristic.
func WithSegmenter(seg extract.Segmenter) Option {
	return func(e *Engine) {
		e.seg = seg
	}
}

// WithKeyAnalyzer replaces the work-level key analysis.
func WithKeyAnalyzer(keys extract.KeyAnalyzer) Option {
	return func(e *Engine) {
		e.keys = keys
	}
}

// WithWeights replaces the complexity metric weighting.
func WithWeights(w Weights) Option {
	return func(e *Engine) {
		e.weights = w
	}
}

// WithDefaultStaves sets the staff count assumed when a score neither
// declares one nor references staves from its notes.
func WithDefaultStaves(n int) Option {
	return func(e *Engine) {
		e.defaultStaves = n
	}
}

// New creates an Engine with the default segmenter, key analyzer, and
// weights.
func New(opts ...Option) *Engine {
	e := &Engine{
		seg:     extract.LabelSegmenter{},
		keys:    extract.SignatureKeyAnalyzer{},
		weights: complexity.DefaultWeights(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ParseFile reads a MusicXML file into the score model.
func ParseFile(path string) (*Score, error) {
	return score.ParseFile(path)
}

// ParseScore reads MusicXML from a reader; workID becomes the work-local
// identifier every node id is minted under.
func ParseScore(r io.Reader, workID string) (*Score, error) {
	return score.Parse(r, workID)
}

// Extract runs the full pipeline over a score and returns the populated
// document.
func (e *Engine) Extract(sc *Score) (*Document, Summary, error) {
	doc := graph.NewDocument()
	sum, err := e.ExtractInto(doc, sc)
	if err != nil {
		return nil, sum, err
	}
	return doc, sum, nil
}

// ExtractInto runs the full pipeline over a score, merging into an existing
// document. Re-running over a previously extracted document updates values
// in place without duplicating nodes or edges.
func (e *Engine) ExtractInto(doc *Document, sc *Score) (Summary, error) {
	var sum Summary

	if err := e.Metadata(doc, sc); err != nil {
		return sum, fmt.Errorf("scoregraph: metadata: %w", err)
	}
	if err := e.Structure(doc, sc); err != nil {
		return sum, fmt.Errorf("scoregraph: structure: %w", err)
	}
	notation, err := e.Notation(doc, sc)
	if err != nil {
		return sum, fmt.Errorf("scoregraph: notation: %w", err)
	}
	sum = notation
	expression, err := e.Expression(doc, sc)
	if err != nil {
		return sum, fmt.Errorf("scoregraph: expression: %w", err)
	}
	sum.Dynamics = expression.Dynamics
	sum.Articulations = expression.Articulations

	if err := e.Profile(doc); err != nil {
		return sum, fmt.Errorf("scoregraph: profile: %w", err)
	}
	return sum, nil
}

// ExtractFile parses a MusicXML file and runs the full pipeline over it.
func (e *Engine) ExtractFile(path string) (*Document, Summary, error) {
	sc, err := ParseFile(path)
	if err != nil {
		return nil, Summary{}, err
	}
	return e.Extract(sc)
}

// Metadata runs the metadata pass: work identity, instrument, and global
// key.
func (e *Engine) Metadata(doc *Document, sc *Score) error {
	p := extract.Metadata{Keys: e.keys}
	return p.Run(doc, sc)
}

// Structure runs the structural pass: movements, staves, and measures.
func (e *Engine) Structure(doc *Document, sc *Score) error {
	p := extract.Structure{Seg: e.seg, DefaultStaves: e.defaultStaves}
	return p.Run(doc, sc)
}

// Notation runs the notation pass: time signatures, clefs, tempi, and the
// symbolic events with their duration, pitch, and accidental sub-entities.
func (e *Engine) Notation(doc *Document, sc *Score) (Summary, error) {
	p := extract.Notation{Seg: e.seg}
	return p.Run(doc, sc, ident.NewCounter())
}

// Expression runs the expressive pass: dynamics and articulations. It
// replays the notation pass's event ordinals from a fresh counter, so the
// two passes may run in either order as long as the score is unchanged.
func (e *Engine) Expression(doc *Document, sc *Score) (Summary, error) {
	p := extract.Expression{Seg: e.seg}
	return p.Run(doc, sc, ident.NewCounter())
}

// Profile computes the complexity layer over an extracted document.
func (e *Engine) Profile(doc *Document) error {
	return complexity.New(e.weights).Run(doc)
}

// LoadDocument reads a JSON-LD graph document from disk, preserving node
// order and filling in any missing context prefixes.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scoregraph: read document: %w", err)
	}
	doc := graph.NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("scoregraph: decode document %s: %w", path, err)
	}
	doc.EnsureContext()
	return doc, nil
}

// SaveDocument writes a graph document to disk as indented JSON-LD.
func SaveDocument(doc *Document, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("scoregraph: encode document: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("scoregraph: write document: %w", err)
	}
	return nil
}
