// Package tree rebuilds a directory hierarchy from a flat list of archive
// entry names.
//
// The insertion order is fixed so navigation order is reproducible:
// metadata entries first, then directories deepest-first with each
// directory's direct files, then the remaining top-level files. Within a
// parent, children keep insertion order; nothing is re-sorted at render time.
package tree

import (
	"sort"
	"strings"

	"class-browser/internal/sortutil"
)

// DefaultMetadataDir is the metadata directory emitted ahead of everything else.
const DefaultMetadataDir = "META-INF/"

// Node is one path segment.
type Node struct {
	Name     string
	Leaf     bool // a terminal archive entry ends at this node
	Children []*Node

	byName map[string]*Node
}

// Options tunes tree construction.
type Options struct {
	// MetadataDir is the directory prefix (with trailing '/') whose entries
	// are emitted first. Empty means DefaultMetadataDir.
	MetadataDir string
}

func (o Options) metadataDir() string {
	if o.MetadataDir == "" {
		return DefaultMetadataDir
	}
	if !strings.HasSuffix(o.MetadataDir, "/") {
		return o.MetadataDir + "/"
	}
	return o.MetadataDir
}

// NewRoot returns an empty root labeled label.
func NewRoot(label string) *Node {
	return &Node{Name: label}
}

// Child returns the direct child named name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil || n.byName == nil {
		return nil
	}
	return n.byName[name]
}

// Build returns a tree labeled rootLabel holding every name in names.
// An empty list yields a root with no children.
func Build(rootLabel string, names []string, opts Options) *Node {
	root := NewRoot(rootLabel)
	for _, name := range Order(names, opts) {
		root.Insert(strings.Split(name, "/"))
	}
	return root
}

// Insert walks segs from n, reusing children with matching names and
// creating the missing ones. The node for the last segment is marked Leaf.
// Empty segments are skipped.
func (n *Node) Insert(segs []string) *Node {
	cur := n
	inserted := false
	for _, seg := range segs {
		if seg == "" {
			continue
		}
		next := cur.Child(seg)
		if next == nil {
			next = &Node{Name: seg}
			if cur.byName == nil {
				cur.byName = make(map[string]*Node)
			}
			cur.byName[seg] = next
			cur.Children = append(cur.Children, next)
		}
		cur = next
		inserted = true
	}
	if inserted {
		cur.Leaf = true
	}
	return cur
}

// Order returns names in tree insertion order:
//
//  1. sort case-insensitively;
//  2. metadata entries first;
//  3. collect every directory prefix (text up to and including the last '/');
//  4. sort prefixes case-insensitively, then stably by descending depth;
//  5. per prefix, append entries containing it whose remainder, after
//     removing the prefix, has no '/';
//  6. append remaining top-level entries.
//
// Deepest-first keeps a child directory's files ahead of its parent's files.
func Order(names []string, opts Options) []string {
	meta := opts.metadataDir()
	sorted := sortutil.FoldPathSort(names)

	out := make([]string, 0, len(sorted))
	added := make(map[string]struct{}, len(sorted))
	add := func(name string) {
		if _, ok := added[name]; ok {
			return
		}
		added[name] = struct{}{}
		out = append(out, name)
	}

	for _, name := range sorted {
		if isMetadata(name, meta) {
			add(name)
		}
	}

	prefixSet := make(map[string]struct{})
	for _, name := range sorted {
		if i := strings.LastIndex(name, "/"); i != -1 {
			prefixSet[name[:i+1]] = struct{}{}
		}
	}
	prefixes := make([]string, 0, len(prefixSet))
	for p := range prefixSet {
		prefixes = append(prefixes, p)
	}
	// byte order first so fold-equal prefixes do not depend on map order
	prefixes = sortutil.FoldPathSort(sortutil.StablePathSort(prefixes))
	sortByDepthDesc(prefixes)

	for _, prefix := range prefixes {
		for _, name := range sorted {
			if isMetadata(name, meta) || !strings.Contains(name, prefix) {
				continue
			}
			if strings.Contains(strings.ReplaceAll(name, prefix, ""), "/") {
				continue
			}
			add(name)
		}
	}

	for _, name := range sorted {
		if !isMetadata(name, meta) && !strings.Contains(name, "/") {
			add(name)
		}
	}
	return out
}

// isMetadata reports whether name lives under a metadata directory at any depth.
func isMetadata(name, meta string) bool {
	return strings.HasPrefix(name, meta) || strings.Contains(name, "/"+meta)
}

// depth counts the '/'-separated segments of a directory prefix.
func depth(prefix string) int {
	return strings.Count(strings.Trim(prefix, "/"), "/") + 1
}

func sortByDepthDesc(prefixes []string) {
	sort.SliceStable(prefixes, func(i, j int) bool { return depth(prefixes[i]) > depth(prefixes[j]) })
}
