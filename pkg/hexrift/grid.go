package hexrift

import "fmt"

// TileType classifies what stands on a tile.
type TileType string

const (
	TileEmpty    TileType = "empty"
	TileMonolith TileType = "monolith"
	TileBastion  TileType = "bastion"
	TileNexus    TileType = "nexus"
)

// Coord is an axial hex coordinate.
type Coord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Tile is a single hex on the board. A tile exclusively owns the unit
// standing on it; at most one unit occupies a tile at any time.
type Tile struct {
	ID      string
	Q, R    int
	Owner   string // player ID, "" if unclaimed
	Type    TileType
	Unit    *Unit
	Dormant bool // owned but unreachable from the owner's nexus; recomputed each tick
}

// TileID returns the stable key for an axial coordinate.
func TileID(q, r int) string {
	return fmt.Sprintf("%d,%d", q, r)
}

// hexDirections are the six axial neighbor offsets.
var hexDirections = [6][2]int{
	{1, 0}, {1, -1}, {0, -1},
	{-1, 0}, {-1, 1}, {0, 1},
}

// HexGrid holds the hexagonal tile lattice for one match. Tile membership is
// fixed at construction; only tile contents mutate afterwards.
type HexGrid struct {
	Radius int

	tiles map[string]*Tile
	order []string // enumeration order, stable for the life of the grid
}

// NewHexGrid generates a hexagonal region of the given radius: every (q, r)
// with max(|q|, |r|, |q+r|) <= radius gets one empty, unowned tile.
func NewHexGrid(radius int) *HexGrid {
	g := &HexGrid{
		Radius: radius,
		tiles:  make(map[string]*Tile),
	}
	for q := -radius; q <= radius; q++ {
		r1 := max(-radius, -q-radius)
		r2 := min(radius, -q+radius)
		for r := r1; r <= r2; r++ {
			id := TileID(q, r)
			g.tiles[id] = &Tile{
				ID:   id,
				Q:    q,
				R:    r,
				Type: TileEmpty,
			}
			g.order = append(g.order, id)
		}
	}
	return g
}

// Tile returns the tile at (q, r), or nil if the coordinate is off the map.
// Callers must treat nil as a validation failure, never as a no-op.
func (g *HexGrid) Tile(q, r int) *Tile {
	return g.tiles[TileID(q, r)]
}

// Neighbors returns the existing tiles at the six axial offsets around
// (q, r). Edge tiles have fewer than six.
func (g *HexGrid) Neighbors(q, r int) []*Tile {
	neighbors := make([]*Tile, 0, 6)
	for _, d := range hexDirections {
		if t := g.Tile(q+d[0], r+d[1]); t != nil {
			neighbors = append(neighbors, t)
		}
	}
	return neighbors
}

// Tiles returns all tiles in stable enumeration order.
func (g *HexGrid) Tiles() []*Tile {
	out := make([]*Tile, len(g.order))
	for i, id := range g.order {
		out[i] = g.tiles[id]
	}
	return out
}

// Len returns the number of tiles on the grid.
func (g *HexGrid) Len() int {
	return len(g.tiles)
}
