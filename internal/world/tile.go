// Package world provides the level board: terrain, walls, pickups and who stands where.
package world

// Tile represents the static ground of a cell.
type Tile rune

const (
	// TileOuterWall is the indestructible ring around the board.
	TileOuterWall Tile = '#'
	// TileFloor is walkable ground.
	TileFloor Tile = '.'
	// TileExit leads to the next day.
	TileExit Tile = '>'
)

// IsPassable returns true if the tile can be walked on.
func (t Tile) IsPassable() bool {
	return t == TileFloor || t == TileExit
}

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	return rune(t)
}

// Point is a cell position. X grows to the right, Y grows downwards.
type Point struct {
	X, Y int
}

// Add returns p moved by (dx, dy).
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}
