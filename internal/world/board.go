package world

import (
	"errors"
	"fmt"

	"github.com/samdwyer/scavenger/internal/gamedata"
)

var (
	// ErrOutOfBounds is returned for positions off the playable area.
	ErrOutOfBounds = errors.New("position out of bounds")
	// ErrOccupied is returned when placing onto a blocked cell.
	ErrOccupied = errors.New("position occupied")
)

// Occupant is anything that stands on a cell and blocks movement.
type Occupant interface {
	GetName() string
}

// Wall is a destructible inner wall.
type Wall struct {
	HP, MaxHP int
}

// NewWall creates a wall with full hit points.
func NewWall(hp int) *Wall {
	return &Wall{HP: hp, MaxHP: hp}
}

// GetName returns the wall's display name.
func (w *Wall) GetName() string { return "wall" }

// IsAlive returns true while the wall still stands.
func (w *Wall) IsAlive() bool { return w.HP > 0 }

// TakeDamage reduces HP and returns actual damage taken.
func (w *Wall) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if actual > w.HP {
		actual = w.HP
	}
	w.HP -= actual
	return actual
}

// Damaged returns true once the wall has been hit at least once.
func (w *Wall) Damaged() bool {
	return w.HP < w.MaxHP
}

// Board is the map of one level. The playable area spans
// (0,0)..(Columns-1,Rows-1); the outer wall ring lies just outside it.
type Board struct {
	Columns int
	Rows    int

	walls     map[Point]*Wall
	items     map[Point]*gamedata.PickupDef
	occupants map[Point]Occupant
	exit      Point
}

// NewBoard creates an empty board with the exit in the top-right corner.
func NewBoard(columns, rows int) *Board {
	b := &Board{
		Columns: columns,
		Rows:    rows,
	}
	b.Reset()
	return b
}

// Reset clears walls, pickups and occupants.
func (b *Board) Reset() {
	b.walls = make(map[Point]*Wall)
	b.items = make(map[Point]*gamedata.PickupDef)
	b.occupants = make(map[Point]Occupant)
	b.exit = Point{X: b.Columns - 1, Y: 0}
}

// InBounds returns true if p is on the playable area.
func (b *Board) InBounds(p Point) bool {
	return p.X >= 0 && p.X < b.Columns && p.Y >= 0 && p.Y < b.Rows
}

// TileAt returns the static tile at p. Anything outside the playable area
// is outer wall.
func (b *Board) TileAt(p Point) Tile {
	if !b.InBounds(p) {
		return TileOuterWall
	}
	if p == b.exit {
		return TileExit
	}
	return TileFloor
}

// Exit returns the position of the exit.
func (b *Board) Exit() Point {
	return b.exit
}

// PlaceWall puts a wall with the given HP at p.
func (b *Board) PlaceWall(p Point, hp int) error {
	if err := b.checkFree(p); err != nil {
		return err
	}
	b.walls[p] = NewWall(hp)
	return nil
}

// WallAt returns the standing wall at p, or nil.
func (b *Board) WallAt(p Point) *Wall {
	w := b.walls[p]
	if w == nil || !w.IsAlive() {
		return nil
	}
	return w
}

// ClearWall removes a destroyed wall so the cell becomes walkable.
func (b *Board) ClearWall(p Point) {
	delete(b.walls, p)
}

// WallCount returns the number of standing walls.
func (b *Board) WallCount() int {
	n := 0
	for _, w := range b.walls {
		if w.IsAlive() {
			n++
		}
	}
	return n
}

// PlaceItem drops a pickup at p.
func (b *Board) PlaceItem(p Point, item *gamedata.PickupDef) error {
	if !b.InBounds(p) {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, p)
	}
	if _, ok := b.items[p]; ok {
		return fmt.Errorf("%w: item at %v", ErrOccupied, p)
	}
	b.items[p] = item
	return nil
}

// ItemAt returns the pickup lying at p, or nil.
func (b *Board) ItemAt(p Point) *gamedata.PickupDef {
	return b.items[p]
}

// TakeItem removes and returns the pickup at p, or nil.
func (b *Board) TakeItem(p Point) *gamedata.PickupDef {
	item := b.items[p]
	delete(b.items, p)
	return item
}

// ItemCount returns the number of pickups on the board.
func (b *Board) ItemCount() int {
	return len(b.items)
}

// Place puts an occupant at p.
func (b *Board) Place(p Point, o Occupant) error {
	if err := b.checkFree(p); err != nil {
		return err
	}
	b.occupants[p] = o
	return nil
}

// Relocate moves the occupant at from to to.
func (b *Board) Relocate(from, to Point) error {
	o, ok := b.occupants[from]
	if !ok {
		return fmt.Errorf("no occupant at %v", from)
	}
	if err := b.checkFree(to); err != nil {
		return err
	}
	delete(b.occupants, from)
	b.occupants[to] = o
	return nil
}

// Remove takes whatever occupant stands at p off the board.
func (b *Board) Remove(p Point) {
	delete(b.occupants, p)
}

// OccupantAt returns the occupant at p, or nil.
func (b *Board) OccupantAt(p Point) Occupant {
	return b.occupants[p]
}

// Occupants returns a copy of every occupant keyed by position.
func (b *Board) Occupants() map[Point]Occupant {
	out := make(map[Point]Occupant, len(b.occupants))
	for p, o := range b.occupants {
		out[p] = o
	}
	return out
}

// Blocked returns true if nothing may step onto p.
func (b *Board) Blocked(p Point) bool {
	return b.checkFree(p) != nil
}

func (b *Board) checkFree(p Point) error {
	if !b.InBounds(p) {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, p)
	}
	if b.WallAt(p) != nil {
		return fmt.Errorf("%w: wall at %v", ErrOccupied, p)
	}
	if o := b.occupants[p]; o != nil {
		return fmt.Errorf("%w: %s at %v", ErrOccupied, o.GetName(), p)
	}
	return nil
}
