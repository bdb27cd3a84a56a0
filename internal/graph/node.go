// Package graph holds the typed property-graph document that every
// extraction pass reads and writes. Nodes are identified solely by their id
// string; passes cooperate through Document.GetOrCreate, which unions type
// tags into an existing node instead of creating a duplicate.
package graph

import "encoding/json"

// Ref is a reference to another node by id. It marshals to the JSON-LD
// reference shape {"@id": "..."}.
type Ref struct {
	ID string
}

// MarshalJSON renders the reference as {"@id": id}.
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"@id": r.ID})
}

// Node is one graph entity: an id, an accumulate-only ordered set of type
// tags, and a property map with last-write-wins semantics per key.
// Property values are scalars (string, int, float64, json.Number), a Ref,
// or a []Ref.
type Node struct {
	ID    string
	Types []string
	Props map[string]any
}

// HasType reports whether the node carries the given type tag.
func (n *Node) HasType(t string) bool {
	for _, existing := range n.Types {
		if existing == t {
			return true
		}
	}
	return false
}

// AddType appends a type tag if not already present. Types are never removed.
func (n *Node) AddType(types ...string) {
	for _, t := range types {
		if !n.HasType(t) {
			n.Types = append(n.Types, t)
		}
	}
}

// Set assigns a property, overwriting any previous value for the key.
func (n *Node) Set(key string, value any) {
	if n.Props == nil {
		n.Props = make(map[string]any)
	}
	n.Props[key] = value
}

// Get returns the raw property value, or nil when absent.
func (n *Node) Get(key string) any {
	return n.Props[key]
}

// Delete removes a property key if present.
func (n *Node) Delete(key string) {
	delete(n.Props, key)
}

// SetRef assigns a single-valued reference property.
func (n *Node) SetRef(key, id string) {
	n.Set(key, Ref{ID: id})
}

// AppendRef appends a reference to a list-valued property, de-duplicating by
// target id. The prior value may be absent, a single Ref, or a []Ref; the
// stored value is always a []Ref afterwards.
func (n *Node) AppendRef(key, id string) {
	var refs []Ref
	switch v := n.Props[key].(type) {
	case nil:
	case Ref:
		refs = []Ref{v}
	case []Ref:
		refs = v
	}
	for _, r := range refs {
		if r.ID == id {
			n.Set(key, refs)
			return
		}
	}
	n.Set(key, append(refs, Ref{ID: id}))
}

// Refs returns every reference stored under key, whether the property holds
// a single Ref or a list. Missing or non-reference values yield nil.
func (n *Node) Refs(key string) []Ref {
	switch v := n.Props[key].(type) {
	case Ref:
		return []Ref{v}
	case []Ref:
		return v
	}
	return nil
}

// RefID returns the first referenced id under key, or "" when the property
// is absent or not a reference.
func (n *Node) RefID(key string) string {
	refs := n.Refs(key)
	if len(refs) == 0 {
		return ""
	}
	return refs[0].ID
}

// Int returns the property as an int. Values decoded from JSON may arrive as
// json.Number or float64; values written by passes are plain ints. Strings
// that parse as integers are accepted too, since measure numbers and beat
// counts occasionally carry suffixes upstream.
func (n *Node) Int(key string) (int, bool) {
	return AsInt(n.Props[key])
}

// String returns the property as a string, when it is one.
func (n *Node) String(key string) (string, bool) {
	s, ok := n.Props[key].(string)
	return s, ok
}
