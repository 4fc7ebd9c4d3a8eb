package lint

import (
	"iter"

	"nestlint/css"
)

// PropertyMap maps property names of a single scope to declaration nodes.
// Iteration follows the order in which properties were first seen, Set on an
// existing property replaces the node but keeps its position.
type PropertyMap struct {
	keys  []string
	decls map[string]css.NodeID
}

func newPropertyMap() *PropertyMap {
	return &PropertyMap{decls: make(map[string]css.NodeID)}
}

// Set records declaration node for property.
func (m *PropertyMap) Set(property string, decl css.NodeID) {
	if _, ok := m.decls[property]; !ok {
		m.keys = append(m.keys, property)
	}
	m.decls[property] = decl
}

// Get returns declaration node for property.
func (m *PropertyMap) Get(property string) (css.NodeID, bool) {
	id, ok := m.decls[property]
	return id, ok
}

func (m *PropertyMap) Has(property string) bool {
	_, ok := m.decls[property]
	return ok
}

func (m *PropertyMap) Len() int {
	return len(m.keys)
}

// Keys returns properties in map order.
func (m *PropertyMap) Keys() []string {
	return append([]string(nil), m.keys...)
}

// All iterates over properties and their declarations in map order.
func (m *PropertyMap) All() iter.Seq2[string, css.NodeID] {
	return func(yield func(string, css.NodeID) bool) {
		for _, k := range m.keys {
			if !yield(k, m.decls[k]) {
				return
			}
		}
	}
}

// OwnDeclarations collects declarations belonging to the scope of node id:
// every declaration below it whose parent is the node itself. Declarations of
// nested rules and at-rules are not part of the scope, neither are
// declarations without property name.
func OwnDeclarations(sheet *css.Stylesheet, id css.NodeID) *PropertyMap {
	m := newPropertyMap()
	sheet.Descendants(id, func(did css.NodeID, n *css.Node) {
		if n.Kind == css.NodeDeclaration && n.Parent == id && n.Decl.Property != "" {
			m.Set(n.Decl.Property, did)
		}
	})
	return m
}
