package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/samdwyer/scavenger/internal/entity"
	"github.com/samdwyer/scavenger/internal/gamedata"
	"github.com/samdwyer/scavenger/internal/world"
)

const (
	// Board cell (0,0) is drawn here; the outer wall ring sits one cell further out.
	originX = 1
	originY = 1

	innerWallRune = '%'
	wallColor     = "#A08060"
)

// View is everything the renderer needs for one frame.
type View struct {
	Board   *world.Board
	Player  *entity.Player
	Day     int
	Status  string // Whose turn it is
	Message string // Last thing that happened
}

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws one frame. While the HUD overlay is up it hides the board.
func (r *Renderer) Render(view View, hud *HUD) {
	r.screen.Clear()

	if hud != nil && hud.OverlayVisible {
		r.renderOverlay(hud.LevelText, view.Message, view.Status)
		r.screen.Show()
		return
	}

	r.renderBoard(view.Board)
	r.renderStatus(view)
	r.screen.Show()
}

// CellOrigin returns the screen position of board cell p.
func CellOrigin(p world.Point) (int, int) {
	return p.X + originX, p.Y + originY
}

func (r *Renderer) renderBoard(board *world.Board) {
	if board == nil {
		return
	}

	for y := -1; y <= board.Rows; y++ {
		for x := -1; x <= board.Columns; x++ {
			p := world.Point{X: x, Y: y}
			sx, sy := CellOrigin(p)
			ch, style := r.cellLook(board, p)
			r.screen.SetContent(sx, sy, ch, style)
		}
	}
}

// cellLook picks what to draw for a cell, topmost layer first.
func (r *Renderer) cellLook(board *world.Board, p world.Point) (rune, tcell.Style) {
	switch o := board.OccupantAt(p).(type) {
	case *entity.Player:
		return o.Symbol, tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	case *entity.Enemy:
		return o.Symbol, tcell.StyleDefault.Foreground(o.Color()).Bold(true)
	}

	if w := board.WallAt(p); w != nil {
		color := gamedata.MustParseHexColor(wallColor)
		if w.Damaged() {
			color = gamedata.Dim(wallColor, 0.4)
		}
		return innerWallRune, tcell.StyleDefault.Foreground(color)
	}

	if item := board.ItemAt(p); item != nil {
		return item.GlyphRune(), tcell.StyleDefault.Foreground(item.TCellColor())
	}

	tile := board.TileAt(p)
	return tile.Rune(), r.getTileStyle(tile)
}

// getTileStyle returns the appropriate style for a tile type.
func (r *Renderer) getTileStyle(tile world.Tile) tcell.Style {
	switch tile {
	case world.TileOuterWall:
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	case world.TileFloor:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	case world.TileExit:
		return tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	default:
		return tcell.StyleDefault
	}
}

func (r *Renderer) renderStatus(view View) {
	y := originY + 1
	if view.Board != nil {
		y += view.Board.Rows + 1
	}

	food := 0
	if view.Player != nil {
		food = view.Player.Food
	}
	line := fmt.Sprintf("Food: %d  Day %d", food, view.Day)
	if view.Status != "" {
		line += "  " + view.Status
	}
	r.RenderMessage(line, 0, y)

	if view.Message != "" {
		r.RenderMessage(view.Message, 0, y+1)
	}
}

// renderOverlay blanks the screen and centres the card text on it. Any
// further non-empty lines go below the card, one blank row apart.
func (r *Renderer) renderOverlay(text string, below ...string) {
	w, h := r.screen.Size()
	bg := tcell.StyleDefault.Background(tcell.ColorBlack)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r.screen.SetContent(x, y, ' ', bg)
		}
	}

	y := h / 2
	r.renderCentred(text, w, y)
	y += 2
	for _, line := range below {
		if line == "" {
			continue
		}
		r.renderCentred(line, w, y)
		y++
	}
}

func (r *Renderer) renderCentred(text string, width, y int) {
	x := (width - uniseg.StringWidth(text)) / 2
	if x < 0 {
		x = 0
	}
	r.RenderMessage(text, x, y)
}

// RenderMessage writes text starting at (x, y), one grapheme cluster per cell.
func (r *Renderer) RenderMessage(msg string, x, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	g := uniseg.NewGraphemes(msg)
	for g.Next() {
		r.screen.SetCluster(x, y, g.Runes(), style)
		width := g.Width()
		if width < 1 {
			width = 1
		}
		x += width
	}
}
