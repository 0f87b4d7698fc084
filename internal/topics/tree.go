// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package topics

import (
	"fmt"

	"github.com/pdiddy/flashcard-engine/pkg/types"
)

const noParent = -1

// node is one topic in the arena. parent and children are arena indexes.
type node struct {
	topic    types.Topic
	parent   int
	depth    int
	children []int
}

// Tree indexes a topic outline by name. Nodes live in a flat slice and
// refer to each other by index.
type Tree struct {
	nodes []node
	index map[string]int
	roots []int
}

// NewTree builds the tree from the top-level topics. Names must be unique.
func NewTree(topics []types.Topic) (*Tree, error) {
	t := &Tree{index: make(map[string]int)}
	for _, tp := range topics {
		i, err := t.add(tp, noParent, 0)
		if err != nil {
			return nil, err
		}
		t.roots = append(t.roots, i)
	}
	return t, nil
}

func (t *Tree) add(tp types.Topic, parent, depth int) (int, error) {
	if _, dup := t.index[tp.Name]; dup {
		return 0, fmt.Errorf("duplicate topic name %q", tp.Name)
	}
	i := len(t.nodes)
	t.nodes = append(t.nodes, node{topic: tp, parent: parent, depth: depth})
	t.index[tp.Name] = i

	for _, sub := range tp.Subtopics {
		c, err := t.add(sub, i, depth+1)
		if err != nil {
			return 0, err
		}
		t.nodes[i].children = append(t.nodes[i].children, c)
	}
	return i, nil
}

// Len returns the number of topics.
func (t *Tree) Len() int { return len(t.nodes) }

// Roots returns the top-level topic names in declared order.
func (t *Tree) Roots() []string {
	return t.names(t.roots)
}

// Children returns the direct subtopics of name in declared order.
func (t *Tree) Children(name string) []string {
	i, ok := t.index[name]
	if !ok {
		return nil
	}
	return t.names(t.nodes[i].children)
}

// Depth returns the distance of name from its root topic.
func (t *Tree) Depth(name string) (int, bool) {
	i, ok := t.index[name]
	if !ok {
		return 0, false
	}
	return t.nodes[i].depth, true
}

// Parent returns the parent topic name, or "" for roots and unknown names.
func (t *Tree) Parent(name string) string {
	i, ok := t.index[name]
	if !ok || t.nodes[i].parent == noParent {
		return ""
	}
	return t.nodes[t.nodes[i].parent].topic.Name
}

// Root returns the root ancestor of name, or "" when name is unknown.
func (t *Tree) Root(name string) string {
	i, ok := t.index[name]
	if !ok {
		return ""
	}
	for t.nodes[i].parent != noParent {
		i = t.nodes[i].parent
	}
	return t.nodes[i].topic.Name
}

// Lookup returns the topic stored under name.
func (t *Tree) Lookup(name string) (types.Topic, bool) {
	i, ok := t.index[name]
	if !ok {
		return types.Topic{}, false
	}
	return t.nodes[i].topic, true
}

// Walk visits topics in pre-order. It stops at the first error fn returns.
func (t *Tree) Walk(fn func(topic types.Topic, parent string, depth int) error) error {
	var visit func(i int) error
	visit = func(i int) error {
		n := t.nodes[i]
		parent := ""
		if n.parent != noParent {
			parent = t.nodes[n.parent].topic.Name
		}
		if err := fn(n.topic, parent, n.depth); err != nil {
			return err
		}
		for _, c := range n.children {
			if err := visit(c); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range t.roots {
		if err := visit(r); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) names(idx []int) []string {
	out := make([]string, len(idx))
	for i, n := range idx {
		out[i] = t.nodes[n].topic.Name
	}
	return out
}
