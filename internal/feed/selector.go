package feed

import "strings"

// Strategy is one way of locating elements inside a document.
type Strategy struct {
	Name string
	Find func(*Node) []*Node
}

// Tag matches every descendant with the given name.
func Tag(name string) Strategy {
	return Strategy{
		Name: name,
		Find: func(n *Node) []*Node { return n.FindAll(name) },
	}
}

// Path matches descendants by ancestor chain, e.g. Path("league", "team").
func Path(names ...string) Strategy {
	return Strategy{
		Name: strings.Join(names, " "),
		Find: func(n *Node) []*Node { return n.Select(names...) },
	}
}

// Chain is an ordered fallback list. The first strategy that yields any
// elements wins.
type Chain []Strategy

func (c Chain) Resolve(n *Node) (string, []*Node) {
	for _, s := range c {
		if found := s.Find(n); len(found) > 0 {
			return s.Name, found
		}
	}
	return "", nil
}

var (
	// Any element the path strategies of TeamChain and PlayerChain match is
	// already a descendant Tag match, so the paths only name the nesting
	// Goalserve documents use and never win on their own.
	TeamChain    = Chain{Tag("team"), Path("league", "team"), Path("teams", "team")}
	PlayerChain  = Chain{Tag("player"), Path("players", "player")}
	FixtureChain = Chain{Tag("match"), Tag("fixture"), Path("week", "game")}
)
