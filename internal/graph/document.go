package graph

// Namespace IRIs for the compact prefixes used in node ids, type tags and
// property keys. They are written into the document @context so downstream
// consumers can expand the graph into full IRIs.
const (
	IRIScoregraph = "https://github.com/mvaldes/scoregraph/vocab#"
	IRIMusic      = "http://purl.org/ontology/mo/"
	IRITheory     = "http://purl.org/ontology/mto/"
	IRIScore      = "http://linkeddata.uni-muenster.de/ontology/musicscore#"
	IRIHamse      = "https://github.com/andreamust/HaMSE_Ontology/schema#"
	IRIDCTerms    = "http://purl.org/dc/terms/"
	IRIRDFS       = "http://www.w3.org/2000/01/rdf-schema#"
)

// defaultContext maps every prefix the passes mint ids and tags under.
func defaultContext() map[string]string {
	return map[string]string{
		"sg":   IRIScoregraph,
		"mo":   IRIMusic,
		"mto":  IRITheory,
		"mso":  IRIScore,
		"ho":   IRIHamse,
		"dct":  IRIDCTerms,
		"rdfs": IRIRDFS,
	}
}

// Document is the single in-memory graph a run operates on: a namespace
// context plus the node list in insertion order. First-seen wins for list
// position even when later passes keep updating a node.
type Document struct {
	Context map[string]string
	Nodes   []*Node

	index map[string]*Node
}

// NewDocument returns an empty document carrying the default context.
func NewDocument() *Document {
	return &Document{
		Context: defaultContext(),
		index:   make(map[string]*Node),
	}
}

// EnsureContext fills in any default prefix missing from the context,
// preserving prefixes an input document already declares.
func (d *Document) EnsureContext() {
	if d.Context == nil {
		d.Context = make(map[string]string)
	}
	for prefix, iri := range defaultContext() {
		if _, ok := d.Context[prefix]; !ok {
			d.Context[prefix] = iri
		}
	}
}

// Lookup returns the node with the given id, or nil.
func (d *Document) Lookup(id string) *Node {
	return d.index[id]
}

// GetOrCreate returns the node with the given id, creating it with the base
// types when absent. When the node exists the base types are unioned into
// its type set and existing properties are left untouched. This merge
// protocol is what lets independent passes resolve to the same node.
func (d *Document) GetOrCreate(id string, baseTypes ...string) *Node {
	if n := d.index[id]; n != nil {
		n.AddType(baseTypes...)
		return n
	}
	n := &Node{ID: id, Props: make(map[string]any)}
	n.AddType(baseTypes...)
	d.Nodes = append(d.Nodes, n)
	if d.index == nil {
		d.index = make(map[string]*Node)
	}
	d.index[id] = n
	return n
}

// Len returns the number of nodes in the document.
func (d *Document) Len() int {
	return len(d.Nodes)
}

// NodesByType returns every node carrying the given type tag, in insertion
// order.
func (d *Document) NodesByType(t string) []*Node {
	var out []*Node
	for _, n := range d.Nodes {
		if n.HasType(t) {
			out = append(out, n)
		}
	}
	return out
}
