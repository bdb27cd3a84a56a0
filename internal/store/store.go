// Package store projects a graph document into an in-memory SQLite database
// so it can be queried relationally. The projection is throwaway: the graph
// document stays the single source of truth and the database is rebuilt from
// it on every load.
package store

import (
	"database/sql"
	"fmt"
	"strconv"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mvaldes/scoregraph/internal/graph"
)

// Store is the SQLite projection of one graph document.
type Store struct {
	db *sql.DB
}

// Open creates a fresh in-memory database with the projection schema.
func Open() (*Store, error) {
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS nodes (
  node_id  TEXT PRIMARY KEY,
  ord      INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS node_types (
  node_id  TEXT NOT NULL REFERENCES nodes(node_id),
  type     TEXT NOT NULL,
  PRIMARY KEY (node_id, type)
);

CREATE TABLE IF NOT EXISTS properties (
  node_id  TEXT NOT NULL REFERENCES nodes(node_id),
  key      TEXT NOT NULL,
  text_val TEXT,
  num_val  REAL,
  PRIMARY KEY (node_id, key)
);

CREATE TABLE IF NOT EXISTS edges (
  source   TEXT NOT NULL REFERENCES nodes(node_id),
  key      TEXT NOT NULL,
  target   TEXT NOT NULL,
  ord      INTEGER NOT NULL,
  PRIMARY KEY (source, key, target)
);

CREATE INDEX IF NOT EXISTS idx_node_types_type ON node_types(type);
CREATE INDEX IF NOT EXISTS idx_properties_key ON properties(key);
CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target);
CREATE INDEX IF NOT EXISTS idx_edges_key ON edges(key);
`

// Load replaces the projection with the given document's contents.
func (s *Store) Load(doc *graph.Document) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM edges",
		"DELETE FROM properties",
		"DELETE FROM node_types",
		"DELETE FROM nodes",
	} {
		if _, err := tx.Exec(q); err != nil {
			return fmt.Errorf("clear projection: %w", err)
		}
	}

	insNode, err := tx.Prepare("INSERT INTO nodes (node_id, ord) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare nodes insert: %w", err)
	}
	defer insNode.Close()
	insType, err := tx.Prepare("INSERT OR IGNORE INTO node_types (node_id, type) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare types insert: %w", err)
	}
	defer insType.Close()
	insProp, err := tx.Prepare("INSERT OR REPLACE INTO properties (node_id, key, text_val, num_val) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare properties insert: %w", err)
	}
	defer insProp.Close()
	insEdge, err := tx.Prepare("INSERT OR IGNORE INTO edges (source, key, target, ord) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare edges insert: %w", err)
	}
	defer insEdge.Close()

	for ord, n := range doc.Nodes {
		if _, err := insNode.Exec(n.ID, ord); err != nil {
			return fmt.Errorf("insert node %s: %w", n.ID, err)
		}
		for _, t := range n.Types {
			if _, err := insType.Exec(n.ID, t); err != nil {
				return fmt.Errorf("insert type for %s: %w", n.ID, err)
			}
		}
		for key, value := range n.Props {
			refs := refsOf(value)
			if refs != nil {
				for i, r := range refs {
					if _, err := insEdge.Exec(n.ID, key, r.ID, i); err != nil {
						return fmt.Errorf("insert edge %s -%s-> %s: %w", n.ID, key, r.ID, err)
					}
				}
				continue
			}
			text, num := scalarColumns(value)
			if _, err := insProp.Exec(n.ID, key, text, num); err != nil {
				return fmt.Errorf("insert property %s.%s: %w", n.ID, key, err)
			}
		}
	}
	return tx.Commit()
}

func refsOf(value any) []graph.Ref {
	switch v := value.(type) {
	case graph.Ref:
		return []graph.Ref{v}
	case []graph.Ref:
		return v
	}
	return nil
}

// scalarColumns splits a property value into the text and numeric columns.
// Numeric values populate both, so queries can order numerically and still
// render text.
func scalarColumns(value any) (text sql.NullString, num sql.NullFloat64) {
	switch v := value.(type) {
	case string:
		text = sql.NullString{String: v, Valid: true}
	case int:
		text = sql.NullString{String: strconv.Itoa(v), Valid: true}
		num = sql.NullFloat64{Float64: float64(v), Valid: true}
	case int64:
		text = sql.NullString{String: strconv.FormatInt(v, 10), Valid: true}
		num = sql.NullFloat64{Float64: float64(v), Valid: true}
	case float64:
		text = sql.NullString{String: strconv.FormatFloat(v, 'g', -1, 64), Valid: true}
		num = sql.NullFloat64{Float64: v, Valid: true}
	case fmt.Stringer:
		text = sql.NullString{String: v.String(), Valid: true}
		if f, err := strconv.ParseFloat(v.String(), 64); err == nil {
			num = sql.NullFloat64{Float64: f, Valid: true}
		}
	default:
		text = sql.NullString{String: fmt.Sprint(v), Valid: true}
	}
	return text, num
}
