package scoregraph

import (
	"github.com/mvaldes/scoregraph/internal/complexity"
	"github.com/mvaldes/scoregraph/internal/extract"
	"github.com/mvaldes/scoregraph/internal/graph"
	"github.com/mvaldes/scoregraph/internal/score"
	"github.com/mvaldes/scoregraph/internal/store"
)

// Re-exported types so callers only import the root package.

// Document is the in-memory property graph a run operates on.
type Document = graph.Document

// Node is one graph entity.
type Node = graph.Node

// Ref is a reference to another node by id.
type Ref = graph.Ref

// Score is one parsed work.
type Score = score.Score

// Summary counts what the extraction passes processed and skipped.
type Summary = extract.Summary

// Segment is one movement's measure range.
type Segment = extract.Segment

// Segmenter splits a measure sequence into movements.
type Segmenter = extract.Segmenter

// LabelSegmenter is the default label-based movement heuristic.
type LabelSegmenter = extract.LabelSegmenter

// KeyAnalyzer supplies the work-level tonality.
type KeyAnalyzer = extract.KeyAnalyzer

// Weights control the relative contribution of each complexity metric.
type Weights = complexity.Weights

// Metrics are the raw per-measure complexity counts.
type Metrics = complexity.Metrics

// MeasureComplexity is one measure joined with its local complexity index.
type MeasureComplexity = store.MeasureComplexity

// MovementProfile is one movement joined with its global complexity profile.
type MovementProfile = store.MovementProfile

// TypeCount is one row of the per-type node census.
type TypeCount = store.TypeCount

// NewDocument returns an empty graph document with the standard context.
func NewDocument() *Document {
	return graph.NewDocument()
}

// DefaultWeights returns the calibrated default metric weighting.
func DefaultWeights() Weights {
	return complexity.DefaultWeights()
}
