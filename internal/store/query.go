package store

import (
	"database/sql"
	"fmt"
)

// TypeCount is one row of the per-type node census.
type TypeCount struct {
	Type  string
	Count int
}

// TypeCounts returns the number of nodes per type tag, most frequent first.
func (s *Store) TypeCounts() ([]TypeCount, error) {
	rows, err := s.db.Query(
		"SELECT type, COUNT(*) FROM node_types GROUP BY type ORDER BY COUNT(*) DESC, type")
	if err != nil {
		return nil, fmt.Errorf("type counts: %w", err)
	}
	defer rows.Close()

	var counts []TypeCount
	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.Type, &tc.Count); err != nil {
			return nil, fmt.Errorf("type counts: scan: %w", err)
		}
		counts = append(counts, tc)
	}
	return counts, rows.Err()
}

// NodeCount returns the total number of nodes in the projection.
func (s *Store) NodeCount() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM nodes").Scan(&n); err != nil {
		return 0, fmt.Errorf("node count: %w", err)
	}
	return n, nil
}

// EdgeCount returns the total number of reference edges in the projection.
func (s *Store) EdgeCount() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM edges").Scan(&n); err != nil {
		return 0, fmt.Errorf("edge count: %w", err)
	}
	return n, nil
}

// MeasureComplexity is one measure joined with its local complexity index.
type MeasureComplexity struct {
	MeasureID string
	Number    string
	LCI       float64
	NoteCount int
}

// MeasuresByComplexity returns measures ordered by descending local
// complexity, limited to the given count (0 means all).
func (s *Store) MeasuresByComplexity(limit int) ([]MeasureComplexity, error) {
	query := `
		SELECT e.source, COALESCE(num.text_val, ''), lci.num_val, COALESCE(nc.num_val, 0)
		FROM edges e
		JOIN properties lci ON lci.node_id = e.target AND lci.key = 'sg:LCIvalue'
		LEFT JOIN properties num ON num.node_id = e.source AND num.key = 'sg:number'
		LEFT JOIN properties nc ON nc.node_id = e.target AND nc.key = 'sg:noteCount'
		WHERE e.key = 'sg:hasLocalComplexityIndex'
		ORDER BY lci.num_val DESC, e.source`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("measures by complexity: %w", err)
	}
	defer rows.Close()

	var out []MeasureComplexity
	for rows.Next() {
		var mc MeasureComplexity
		var noteCount float64
		if err := rows.Scan(&mc.MeasureID, &mc.Number, &mc.LCI, &noteCount); err != nil {
			return nil, fmt.Errorf("measures by complexity: scan: %w", err)
		}
		mc.NoteCount = int(noteCount)
		out = append(out, mc)
	}
	return out, rows.Err()
}

// MovementProfile is one movement joined with its global complexity profile.
type MovementProfile struct {
	MovementID   string
	Index        int
	GCI          float64
	MeasureCount int
}

// MovementProfiles returns one row per movement carrying a global complexity
// profile, in movement order.
func (s *Store) MovementProfiles() ([]MovementProfile, error) {
	rows, err := s.db.Query(`
		SELECT e.source, COALESCE(idx.num_val, 0), gci.num_val,
		       (SELECT COUNT(*) FROM edges me
		        WHERE me.source = e.source AND me.key = 'sg:movementHasMeasure')
		FROM edges e
		JOIN properties gci ON gci.node_id = e.target AND gci.key = 'sg:globalComplexityIndex'
		LEFT JOIN properties idx ON idx.node_id = e.source AND idx.key = 'sg:movementIndex'
		WHERE e.key = 'sg:hasGlobalComplexityProfile'
		ORDER BY idx.num_val`)
	if err != nil {
		return nil, fmt.Errorf("movement profiles: %w", err)
	}
	defer rows.Close()

	var out []MovementProfile
	for rows.Next() {
		var mp MovementProfile
		var idx float64
		if err := rows.Scan(&mp.MovementID, &idx, &mp.GCI, &mp.MeasureCount); err != nil {
			return nil, fmt.Errorf("movement profiles: scan: %w", err)
		}
		mp.Index = int(idx)
		out = append(out, mp)
	}
	return out, rows.Err()
}

// Property returns the text value of a node property, "" when absent.
func (s *Store) Property(nodeID, key string) (string, error) {
	var v sql.NullString
	err := s.db.QueryRow(
		"SELECT text_val FROM properties WHERE node_id = ? AND key = ?", nodeID, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("property %s.%s: %w", nodeID, key, err)
	}
	return v.String, nil
}

// NodesOfType returns the ids of every node carrying the type tag, in
// document order.
func (s *Store) NodesOfType(t string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT nt.node_id FROM node_types nt
		JOIN nodes n ON n.node_id = nt.node_id
		WHERE nt.type = ? ORDER BY n.ord`, t)
	if err != nil {
		return nil, fmt.Errorf("nodes of type %s: %w", t, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("nodes of type: scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Neighbors returns the targets of a node's edges under the given key, in
// insertion order.
func (s *Store) Neighbors(nodeID, key string) ([]string, error) {
	rows, err := s.db.Query(
		"SELECT target FROM edges WHERE source = ? AND key = ? ORDER BY ord", nodeID, key)
	if err != nil {
		return nil, fmt.Errorf("neighbors of %s: %w", nodeID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("neighbors: scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
