package jsondoc

import "sort"

// SelectorTrie is a prefix tree over pointer levels. A node is an endpoint
// when some pointer ends there; an endpoint selects its whole subtree, so any
// deeper children it has are irrelevant.
type SelectorTrie struct {
	children map[Key]*SelectorTrie
	endpoint bool
}

// NewSelectorTrie builds a trie from pointers
func NewSelectorTrie(pointers ...Pointer) *SelectorTrie {
	root := &SelectorTrie{}
	for _, p := range pointers {
		root.add(p)
	}
	return root
}

func (t *SelectorTrie) add(p Pointer) {
	node := t
	for _, key := range p.levels {
		child, ok := node.children[key]
		if !ok {
			if node.children == nil {
				node.children = make(map[Key]*SelectorTrie)
			}
			child = &SelectorTrie{}
			node.children[key] = child
		}
		node = child
	}
	node.endpoint = true
}

// IsEndpoint reports whether a pointer ends at this node
func (t *SelectorTrie) IsEndpoint() bool {
	return t.endpoint
}

// IsLeaf reports whether the node has no children
func (t *SelectorTrie) IsLeaf() bool {
	return len(t.children) == 0
}

// selectsAll reports whether the node selects its whole subtree
func (t *SelectorTrie) selectsAll() bool {
	return t.endpoint || len(t.children) == 0
}

// Descend returns the child node for key
func (t *SelectorTrie) Descend(key Key) (*SelectorTrie, bool) {
	child, ok := t.children[key]
	return child, ok
}

// Keys returns the child keys in sorted order
func (t *SelectorTrie) Keys() []Key {
	keys := make([]Key, 0, len(t.children))
	for k := range t.children {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Select projects o onto the pointers of selector. Members appear in the
// order of o; selected pointers missing from o contribute nothing.
func (o *Object) Select(selector *FieldSelector) *Object {
	trie := selector.Trie()
	if trie.endpoint {
		return o
	}
	return o.project(trie)
}

// SelectPointers projects o onto pointers without keeping a selector around
func (o *Object) SelectPointers(pointers ...Pointer) *Object {
	return o.Select(NewFieldSelector(pointers...))
}

func (o *Object) project(node *SelectorTrie) *Object {
	var fields []Field
	for _, f := range o.fields {
		child, ok := node.children[f.Key]
		if !ok {
			continue
		}
		if child.selectsAll() {
			fields = append(fields, f)
			continue
		}
		if f.Value.kind != KindObject {
			continue
		}
		f.Value = f.Value.obj.project(child).AsValue()
		fields = append(fields, f)
	}
	return newObject(fields)
}
