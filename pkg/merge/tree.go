// File: pkg/merge/tree.go
package merge

import (
	"sort"
	"strings"
)

type treeNode struct {
	name     string
	children map[string]*treeNode
	isDir    bool
}

// RenderTree renders slash-separated relative paths as a tree, one entry per
// line. Directories come first, then files, each group sorted
// case-insensitively.
func RenderTree(relPaths []string) []string {
	root := &treeNode{isDir: true, children: map[string]*treeNode{}}
	for _, p := range relPaths {
		parts := strings.Split(p, "/")
		node := root
		for i, part := range parts {
			child, ok := node.children[part]
			if !ok {
				child = &treeNode{name: part, children: map[string]*treeNode{}}
				node.children[part] = child
			}
			if i < len(parts)-1 {
				child.isDir = true
			}
			node = child
		}
	}

	var lines []string
	renderTreeRecursively(root, "", &lines)
	return lines
}

func renderTreeRecursively(node *treeNode, prefix string, lines *[]string) {
	entries := make([]*treeNode, 0, len(node.children))
	for _, c := range node.children {
		entries = append(entries, c)
	}

	// Sort entries: directories first, then files, alphabetically
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].isDir != entries[j].isDir {
			return entries[i].isDir
		}
		li, lj := strings.ToLower(entries[i].name), strings.ToLower(entries[j].name)
		if li != lj {
			return li < lj
		}
		return entries[i].name < entries[j].name
	})

	for i, entry := range entries {
		connector := "├── "
		extension := "│   "
		if i == len(entries)-1 {
			connector = "└── "
			extension = "    "
		}

		if entry.isDir {
			*lines = append(*lines, prefix+connector+entry.name+"/")
			renderTreeRecursively(entry, prefix+extension, lines)
			continue
		}
		*lines = append(*lines, prefix+connector+entry.name)
	}
}
