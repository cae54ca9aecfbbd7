package graphtxn

import "github.com/dd0wney/graphlayer/pkg/cellstore"

// Direction selects which of a vertex's three adjacency slots an operation
// reads or writes.
type Direction int

const (
	Outbound Direction = iota
	Inbound
	UndirectedDir
)

func (d Direction) String() string {
	switch d {
	case Outbound:
		return "outbound"
	case Inbound:
		return "inbound"
	case UndirectedDir:
		return "undirected"
	default:
		return "unknown"
	}
}

// slot returns the reserved vertex-body field id backing this direction.
func (d Direction) slot() cellstore.FieldID {
	switch d {
	case Outbound:
		return cellstore.FieldOutbound
	case Inbound:
		return cellstore.FieldInbound
	default:
		return cellstore.FieldUndirected
	}
}

// opposite returns the direction an edge's id is filed under at its
// opposite endpoint: an Outbound entry at F corresponds to an Inbound entry
// at T, and vice versa; Undirected is its own opposite.
func (d Direction) opposite() Direction {
	switch d {
	case Outbound:
		return Inbound
	case Inbound:
		return Outbound
	default:
		return UndirectedDir
	}
}
