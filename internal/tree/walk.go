package tree

import "strings"

// Find resolves segs below root, returning nil when any segment is missing.
// An empty segs returns root.
func Find(root *Node, segs []string) *Node {
	cur := root
	for _, seg := range segs {
		if cur = cur.Child(seg); cur == nil {
			return nil
		}
	}
	return cur
}

// Count counts all nodes in a tree, root included.
func Count(root *Node) int {
	if root == nil {
		return 0
	}
	count := 1
	for _, child := range root.Children {
		count += Count(child)
	}
	return count
}

// Walk visits root's descendants depth-first in insertion order. path holds
// the segment names from the first level below root down to n. Returning
// false from fn skips n's children.
func Walk(root *Node, fn func(path []string, n *Node) bool) {
	if root == nil {
		return
	}
	var rec func(prefix []string, n *Node)
	rec = func(prefix []string, n *Node) {
		for _, child := range n.Children {
			p := append(prefix[:len(prefix):len(prefix)], child.Name)
			if fn(p, child) {
				rec(p, child)
			}
		}
	}
	rec(nil, root)
}

// LeafPaths returns the '/'-joined path of every leaf, in walk order.
func LeafPaths(root *Node) []string {
	var out []string
	Walk(root, func(path []string, n *Node) bool {
		if n.Leaf {
			out = append(out, strings.Join(path, "/"))
		}
		return true
	})
	return out
}

// Selection returns the full selection path for entry, root label first,
// the form a presentation layer hands back to navigation.
func Selection(root *Node, entry string) []string {
	out := []string{root.Name}
	if entry == "" {
		return out
	}
	return append(out, strings.Split(entry, "/")...)
}
