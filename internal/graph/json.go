package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// The wire shape is the JSON-LD document the upstream and downstream
// collaborators exchange: an @context object of namespace prefixes and an
// @graph list of node records. Node records always serialize @id first,
// @type second (as a list), then the remaining properties in sorted key
// order so output is deterministic.

// MarshalJSON renders the document in the external JSON-LD shape.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"@context":`)
	ctx, err := json.Marshal(d.Context)
	if err != nil {
		return nil, err
	}
	buf.Write(ctx)
	buf.WriteString(`,"@graph":[`)
	for i, n := range d.Nodes {
		if i > 0 {
			buf.WriteByte(',')
		}
		nb, err := marshalNode(n)
		if err != nil {
			return nil, fmt.Errorf("marshal node %s: %w", n.ID, err)
		}
		buf.Write(nb)
	}
	buf.WriteString("]}")
	return buf.Bytes(), nil
}

func marshalNode(n *Node) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.WriteString(`"@id":`)
	id, err := json.Marshal(n.ID)
	if err != nil {
		return nil, err
	}
	buf.Write(id)
	buf.WriteString(`,"@type":`)
	types, err := json.Marshal(n.Types)
	if err != nil {
		return nil, err
	}
	buf.Write(types)

	keys := make([]string, 0, len(n.Props))
	for k := range n.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		buf.WriteByte(',')
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(n.Props[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a document in the external JSON-LD shape. Node order
// is preserved; @type may be a single string or a list; property values that
// look like references ({"@id": ...} or lists of them) become Ref values,
// numbers become json.Number.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		Context map[string]string `json:"@context"`
		Graph   []json.RawMessage `json:"@graph"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	d.Context = raw.Context
	d.Nodes = nil
	d.index = make(map[string]*Node)
	d.EnsureContext()

	for i, rawNode := range raw.Graph {
		n, err := unmarshalNode(rawNode)
		if err != nil {
			return fmt.Errorf("parse node %d: %w", i, err)
		}
		if n.ID == "" {
			continue // records without an id cannot be merged into
		}
		if existing := d.index[n.ID]; existing != nil {
			// Duplicate id in the input: union types, overwrite props,
			// keep the first-seen list position.
			existing.AddType(n.Types...)
			for k, v := range n.Props {
				existing.Set(k, v)
			}
			continue
		}
		d.Nodes = append(d.Nodes, n)
		d.index[n.ID] = n
	}
	return nil
}

func unmarshalNode(data []byte) (*Node, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	n := &Node{Props: make(map[string]any)}

	if rawID, ok := fields["@id"]; ok {
		if err := json.Unmarshal(rawID, &n.ID); err != nil {
			return nil, fmt.Errorf("@id: %w", err)
		}
	}
	if rawTypes, ok := fields["@type"]; ok {
		types, err := decodeTypes(rawTypes)
		if err != nil {
			return nil, fmt.Errorf("@type: %w", err)
		}
		n.AddType(types...)
	}
	for key, rawValue := range fields {
		if key == "@id" || key == "@type" {
			continue
		}
		v, err := decodeValue(rawValue)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		n.Props[key] = v
	}
	return n, nil
}

// decodeTypes accepts both the single-string and list forms of @type.
func decodeTypes(raw json.RawMessage) ([]string, error) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// decodeValue maps a raw JSON property value onto the in-memory forms the
// passes work with: Ref / []Ref for reference shapes, json.Number for
// numbers, plain Go values otherwise.
func decodeValue(raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty value")
	}
	switch trimmed[0] {
	case '{':
		var obj map[string]string
		if err := json.Unmarshal(raw, &obj); err == nil {
			if id, ok := obj["@id"]; ok && len(obj) == 1 {
				return Ref{ID: id}, nil
			}
		}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		refs := make([]Ref, 0, len(items))
		for _, item := range items {
			v, err := decodeValue(item)
			if err != nil {
				return nil, err
			}
			r, ok := v.(Ref)
			if !ok {
				// Mixed list: keep the raw decoded values.
				return decodeAny(raw)
			}
			refs = append(refs, r)
		}
		return refs, nil
	}
	return decodeAny(raw)
}

func decodeAny(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
