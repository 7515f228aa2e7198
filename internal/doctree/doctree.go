// Package doctree nests a flat outline into a section tree.
package doctree

import (
	"github.com/dgallion1/docoutline/internal/outline"
)

// DocTree is the root of a reconstructed outline.
type DocTree struct {
	Title    string     `json:"title" yaml:"title"`       // Inferred document title
	Children []*DocNode `json:"children" yaml:"children"` // Top-level sections
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string        `json:"title" yaml:"title"` // Heading text
	Level    outline.Level `json:"level" yaml:"level"`
	Page     int           `json:"page" yaml:"page"` // Page the heading is on
	Children []*DocNode    `json:"children,omitempty" yaml:"children,omitempty"`
}

// Build nests the outline entries of res by level. An entry becomes a child
// of the nearest preceding entry with a smaller level; skipped levels are
// not filled in.
func Build(res outline.Result) *DocTree {
	tree := &DocTree{Title: res.Title, Children: []*DocNode{}}

	type stackEntry struct {
		node  *DocNode
		depth int
	}

	// Root is depth 0, all H1+ nest under it.
	root := &DocNode{}
	stack := []stackEntry{{node: root, depth: 0}}

	for _, e := range res.Outline {
		depth := e.Level.Depth()
		node := &DocNode{Title: e.Text, Level: e.Level, Page: e.Page}

		// Pop until the top is shallower than this entry.
		for len(stack) > 1 && stack[len(stack)-1].depth >= depth {
			stack = stack[:len(stack)-1]
		}

		parent := stack[len(stack)-1].node
		parent.Children = append(parent.Children, node)
		stack = append(stack, stackEntry{node: node, depth: depth})
	}

	if len(root.Children) > 0 {
		tree.Children = root.Children
	}
	return tree
}

// WalkFunc is called for every node with the titles of its ancestors.
type WalkFunc func(node *DocNode, breadcrumb []string) error

// Walk visits the tree depth-first in document order. An error from fn
// stops the walk and is returned.
func Walk(tree *DocTree, fn WalkFunc) error {
	for _, child := range tree.Children {
		if err := walkNode(child, nil, fn); err != nil {
			return err
		}
	}
	return nil
}

func walkNode(node *DocNode, breadcrumb []string, fn WalkFunc) error {
	if err := fn(node, copyBreadcrumb(breadcrumb)); err != nil {
		return err
	}

	bc := append(copyBreadcrumb(breadcrumb), node.Title)
	for _, child := range node.Children {
		if err := walkNode(child, bc, fn); err != nil {
			return err
		}
	}
	return nil
}

func copyBreadcrumb(bc []string) []string {
	out := make([]string, len(bc))
	copy(out, bc)
	return out
}
