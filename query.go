package scoregraph

import (
	"fmt"

	"github.com/mvaldes/scoregraph/internal/graph"
	"github.com/mvaldes/scoregraph/internal/store"
)

// QueryBuilder answers relational questions about an extracted document. It
// holds an in-memory SQLite projection of the graph, so it must be closed
// when done.
type QueryBuilder struct {
	store *store.Store
}

// Query projects a document into a fresh in-memory database and returns a
// QueryBuilder over it.
func (e *Engine) Query(doc *Document) (*QueryBuilder, error) {
	s, err := store.Open()
	if err != nil {
		return nil, fmt.Errorf("scoregraph: open projection: %w", err)
	}
	if err := s.Load(doc); err != nil {
		s.Close()
		return nil, fmt.Errorf("scoregraph: load projection: %w", err)
	}
	return &QueryBuilder{store: s}, nil
}

// Close releases the projection database.
func (q *QueryBuilder) Close() error {
	return q.store.Close()
}

// GraphSummary is the size census of a projected document.
type GraphSummary struct {
	Nodes int
	Edges int
	Types []TypeCount
}

// Summary returns node and edge totals plus the per-type census.
func (q *QueryBuilder) Summary() (*GraphSummary, error) {
	nodes, err := q.store.NodeCount()
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	edges, err := q.store.EdgeCount()
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	types, err := q.store.TypeCounts()
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	return &GraphSummary{Nodes: nodes, Edges: edges, Types: types}, nil
}

// WorkInfo is the identifying metadata of one work node.
type WorkInfo struct {
	ID       string
	Title    string
	Composer string
	Source   string
}

// Works returns the works in the document, in document order.
func (q *QueryBuilder) Works() ([]WorkInfo, error) {
	ids, err := q.store.NodesOfType(graph.TypeMusicalWork)
	if err != nil {
		return nil, fmt.Errorf("works: %w", err)
	}
	var works []WorkInfo
	for _, id := range ids {
		w := WorkInfo{ID: id}
		if w.Title, err = q.store.Property(id, graph.PropTitle); err != nil {
			return nil, fmt.Errorf("works: %w", err)
		}
		if w.Composer, err = q.store.Property(id, graph.PropComposer); err != nil {
			return nil, fmt.Errorf("works: %w", err)
		}
		if w.Source, err = q.store.Property(id, graph.PropSource); err != nil {
			return nil, fmt.Errorf("works: %w", err)
		}
		works = append(works, w)
	}
	return works, nil
}

// TopMeasures returns the measures with the highest local complexity, most
// complex first. A limit of 0 returns all measures carrying an index.
func (q *QueryBuilder) TopMeasures(limit int) ([]MeasureComplexity, error) {
	return q.store.MeasuresByComplexity(limit)
}

// MovementProfiles returns each movement's global complexity profile in
// movement order.
func (q *QueryBuilder) MovementProfiles() ([]MovementProfile, error) {
	return q.store.MovementProfiles()
}

// Neighbors returns the ids a node references under the given property key.
func (q *QueryBuilder) Neighbors(nodeID, key string) ([]string, error) {
	return q.store.Neighbors(nodeID, key)
}

// NodesOfType returns the ids of every node carrying a type tag, in document
// order.
func (q *QueryBuilder) NodesOfType(t string) ([]string, error) {
	return q.store.NodesOfType(t)
}
