package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

var ErrEmptyDocument = errors.New("document has no elements")

// Node is a generic XML element. Attributes keep document order.
type Node struct {
	Name     string
	Attrs    []xml.Attr
	Children []*Node
	text     strings.Builder
	parent   *Node
}

// Parse builds an element tree from doc. Decoding is lenient: unknown
// entities are accepted, unclosed tags are tolerated, and a syntax error after
// the first element keeps whatever was read up to that point.
func Parse(doc []byte) (*Node, error) {
	d := xml.NewDecoder(bytes.NewReader(doc))
	d.CharsetReader = charset.NewReaderLabel
	d.Strict = false
	d.Entity = xml.HTMLEntity

	root := &Node{}
	current := root
	for {
		tok, err := d.Token()
		if tok == nil || err == io.EOF {
			break
		} else if err != nil {
			if len(root.Children) == 0 {
				return nil, err
			}
			break
		}

		switch ty := tok.(type) {
		case xml.StartElement:
			node := &Node{Name: ty.Name.Local, Attrs: ty.Copy().Attr, parent: current}
			current.Children = append(current.Children, node)
			current = node
		case xml.EndElement:
			for n := current; n != root; n = n.parent {
				if n.Name == ty.Name.Local {
					current = n.parent
					break
				}
			}
		case xml.CharData:
			for n := current; n != root; n = n.parent {
				n.text.Write(ty)
			}
		}
	}

	if len(root.Children) == 0 {
		return nil, ErrEmptyDocument
	}
	return root, nil
}

func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Text returns the trimmed character data of n and all of its descendants.
func (n *Node) Text() string {
	return strings.TrimSpace(n.text.String())
}

// FindAll returns every descendant named tag in document order.
func (n *Node) FindAll(tag string) []*Node {
	var found []*Node
	n.walk(func(d *Node) {
		if d.Name == tag {
			found = append(found, d)
		}
	})
	return found
}

// Find returns the first descendant named tag, or nil.
func (n *Node) Find(tag string) *Node {
	for _, c := range n.Children {
		if c.Name == tag {
			return c
		}
		if d := c.Find(tag); d != nil {
			return d
		}
	}
	return nil
}

// Select matches a descendant path such as "league team": every descendant
// named by the last element that has ancestors matching the earlier elements
// in order, below n.
func (n *Node) Select(path ...string) []*Node {
	if len(path) == 0 {
		return nil
	}

	var found []*Node
	for _, candidate := range n.FindAll(path[len(path)-1]) {
		if candidate.hasAncestors(n, path[:len(path)-1]) {
			found = append(found, candidate)
		}
	}
	return found
}

func (n *Node) hasAncestors(stop *Node, names []string) bool {
	i := len(names) - 1
	for a := n.parent; a != nil && a != stop && i >= 0; a = a.parent {
		if a.Name == names[i] {
			i--
		}
	}
	return i < 0
}

func (n *Node) walk(fn func(*Node)) {
	for _, c := range n.Children {
		fn(c)
		c.walk(fn)
	}
}
