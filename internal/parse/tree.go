package parse

import (
	"fmt"
	"strings"
)

const (
	treeLevelEmpty               = "        "
	treeLevelOngoing             = "  |     "
	treeLevelPrefix              = "  |%s: "
	treeLevelPrefixLast          = `  \%s: `
	treeLevelPrefixNamePadChar   = '-'
	treeLevelPrefixNamePadAmount = 3
)

func makeTreeLevelPrefix(msg string) string {
	for len([]rune(msg)) < treeLevelPrefixNamePadAmount {
		msg = string(treeLevelPrefixNamePadChar) + msg
	}
	return fmt.Sprintf(treeLevelPrefix, msg)
}

func makeTreeLevelPrefixLast(msg string) string {
	for len([]rune(msg)) < treeLevelPrefixNamePadAmount {
		msg = string(treeLevelPrefixNamePadChar) + msg
	}
	return fmt.Sprintf(treeLevelPrefixLast, msg)
}

// Tree is a parse tree. Interior nodes are labeled with the category of the
// non-terminal they expand; leaves are terminals. An epsilon leaf is a
// terminal leaf with an empty Value.
type Tree struct {
	// Terminal is whether this node is for a terminal symbol.
	Terminal bool

	// Value is the category label for interior nodes and the matched text for
	// terminal leaves.
	Value string

	// Children is all children of the node in order.
	Children []*Tree
}

// Leaf creates a terminal node.
func Leaf(value string) *Tree {
	return &Tree{Terminal: true, Value: value}
}

// Node creates a non-terminal node with the given children.
func Node(label string, children ...*Tree) *Tree {
	return &Tree{Value: label, Children: children}
}

// Leaves returns the text of every non-empty terminal leaf under t from left
// to right.
func (t *Tree) Leaves() []string {
	if t == nil {
		return nil
	}
	if t.Terminal {
		if t.Value == "" {
			return nil
		}
		return []string{t.Value}
	}

	var leaves []string
	for _, c := range t.Children {
		leaves = append(leaves, c.Leaves()...)
	}
	return leaves
}

// Text returns the leaves of t joined by single spaces.
func (t *Tree) Text() string {
	return strings.Join(t.Leaves(), " ")
}

// Child returns the first direct child of t labeled with the given category,
// or nil if there is none.
func (t *Tree) Child(label string) *Tree {
	if t == nil {
		return nil
	}
	for _, c := range t.Children {
		if !c.Terminal && c.Value == label {
			return c
		}
	}
	return nil
}

// String returns the single-line bracketed form of the tree, such as
//
//	(S (QRY (Q_PRICE (NP (FOOD phở bò)) (Q_PRICE_SUFFIX giá bao nhiêu))))
//
// Epsilon leaves are omitted.
func (t *Tree) String() string {
	if t == nil {
		return "()"
	}

	var sb strings.Builder
	t.writeBracketed(&sb)
	return sb.String()
}

func (t *Tree) writeBracketed(sb *strings.Builder) {
	if t.Terminal {
		sb.WriteString(t.Value)
		return
	}

	sb.WriteRune('(')
	sb.WriteString(t.Value)
	for _, c := range t.Children {
		if c.Terminal && c.Value == "" {
			continue
		}
		sb.WriteRune(' ')
		c.writeBracketed(sb)
	}
	sb.WriteRune(')')
}

// Pretty returns a multi-line rendering of the tree suitable for line-by-line
// comparison of tree structure.
func (t *Tree) Pretty() string {
	if t == nil {
		return "()"
	}
	return t.leveledStr("", "")
}

func (t *Tree) leveledStr(firstPrefix, contPrefix string) string {
	var sb strings.Builder

	sb.WriteString(firstPrefix)
	if t.Terminal {
		if t.Value == "" {
			sb.WriteString("(TERM ε)")
		} else {
			sb.WriteString(fmt.Sprintf("(TERM %q)", t.Value))
		}
	} else {
		sb.WriteString(fmt.Sprintf("( %s )", t.Value))
	}

	for i := range t.Children {
		sb.WriteRune('\n')
		var leveledFirstPrefix string
		var leveledContPrefix string
		if i+1 < len(t.Children) {
			leveledFirstPrefix = contPrefix + makeTreeLevelPrefix("")
			leveledContPrefix = contPrefix + treeLevelOngoing
		} else {
			leveledFirstPrefix = contPrefix + makeTreeLevelPrefixLast("")
			leveledContPrefix = contPrefix + treeLevelEmpty
		}
		sb.WriteString(t.Children[i].leveledStr(leveledFirstPrefix, leveledContPrefix))
	}

	return sb.String()
}

// Copy returns a duplicate, deeply-copied tree.
func (t *Tree) Copy() *Tree {
	if t == nil {
		return nil
	}

	newT := &Tree{
		Terminal: t.Terminal,
		Value:    t.Value,
		Children: make([]*Tree, len(t.Children)),
	}
	for i := range t.Children {
		newT.Children[i] = t.Children[i].Copy()
	}
	return newT
}

// Equal returns whether t and other have exactly the same structure and
// values.
func (t *Tree) Equal(other *Tree) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Terminal != other.Terminal || t.Value != other.Value {
		return false
	}
	if len(t.Children) != len(other.Children) {
		return false
	}
	for i := range t.Children {
		if !t.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}
