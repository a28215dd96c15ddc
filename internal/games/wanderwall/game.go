// Package wanderwall implements a top-down maze: walk the player around a
// world larger than the screen, collect every pickup, don't walk through
// walls.
package wanderwall

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-charstage/internal/compositor"
	"github.com/vovakirdan/tui-charstage/internal/core"
	"github.com/vovakirdan/tui-charstage/internal/registry"
	"github.com/vovakirdan/tui-charstage/internal/scene"
	"github.com/vovakirdan/tui-charstage/internal/shape"
	"github.com/vovakirdan/tui-charstage/internal/sink"
)

// Collision codes used by the maze.
const (
	CodeSolid  uint32 = 0x1
	CodePickup uint32 = 0x2
	CodePlayer uint32 = 0x10000000
)

const (
	sceneName   = "wanderwall"
	pickupScore = 10
	followEdge  = 8 // max cells kept between the player and the view edge
)

// Facing glyphs.
const (
	glyphUp    = '^'
	glyphDown  = 'v'
	glyphLeft  = '<'
	glyphRight = '>'
)

// Game implements the Wanderwall maze.
type Game struct {
	cfg  core.RuntimeConfig
	comp *compositor.Compositor

	sceneName    string
	player       *shape.Point
	worldW       uint16
	worldH       uint16
	camX, camY   uint16
	pickupsLeft  int
	pickupsTotal int

	score      int
	moves      int
	gameOver   bool
	confirming bool
	quit       bool
	lastInput  string
}

var scenePath string

// SetScenePath sets a custom scene file. Empty means the default search.
func SetScenePath(path string) {
	scenePath = path
}

// New creates a new Wanderwall game.
func New() *Game {
	return &Game{}
}

func init() {
	registry.Register(sceneName, func() registry.Game {
		return New()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string { return sceneName }

// Title returns the display name.
func (g *Game) Title() string { return "Wanderwall" }

// Reset loads the scene and places the player at its spawn point.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	if g.comp != nil {
		g.comp.Release()
	}

	g.cfg = cfg
	g.score = 0
	g.moves = 0
	g.gameOver = false
	g.confirming = false
	g.quit = false
	g.lastInput = ""

	doc, shapes := loadScene()

	g.sceneName = doc.Name
	g.worldW, g.worldH = doc.World.Width, doc.World.Height
	if g.worldW == 0 || g.worldH == 0 {
		g.worldW, g.worldH = cfg.ViewW, cfg.ViewH
	}

	g.comp = compositor.New(cfg.ViewW, cfg.ViewH, compositor.WithViewOffset(cfg.ViewX, cfg.ViewY))
	g.pickupsTotal = 0
	for _, s := range shapes {
		if s.CollisionCode() == CodePickup {
			g.pickupsTotal++
		}
		g.comp.Add(s)
	}
	g.pickupsLeft = g.pickupsTotal

	// Added last so it is drawn over everything else.
	g.player = shape.NewPoint(CodePlayer, glyphUp, doc.Spawn.X, doc.Spawn.Y)
	g.comp.Add(g.player)

	g.camX = centre(doc.Spawn.X, cfg.ViewW, g.worldW)
	g.camY = centre(doc.Spawn.Y, cfg.ViewH, g.worldH)
	g.comp.SetScroll(-g.camX, -g.camY)
	g.comp.Redraw()
}

// loadScene returns the configured scene, falling back to the built-in one
// when it cannot be loaded.
func loadScene() (scene.Document, []shape.Shape) {
	doc, err := scene.Load(scenePath, sceneName)
	if err == nil {
		var shapes []shape.Shape
		if shapes, err = doc.Build(); err == nil {
			return doc, shapes
		}
	}
	log.Error("cannot load scene, using built-in maze", "path", scenePath, "error", err)

	doc, err = scene.Default(sceneName)
	if err != nil {
		log.Error("built-in scene is broken", "error", err)
		return scene.Document{}, nil
	}
	shapes, err := doc.Build()
	if err != nil {
		log.Error("built-in scene is broken", "error", err)
		return scene.Document{}, nil
	}
	return doc, shapes
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if label := in.Last(); label != "" {
		g.lastInput = label
	}

	if in.Has(core.ActionQuit) {
		g.quit = true
		return core.StepResult{State: g.State()}
	}

	if g.confirming {
		g.answerPrompt(in)
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionBack) {
		g.confirming = true
		return core.StepResult{State: g.State()}
	}

	if g.gameOver {
		if in.Typed('r') || in.Typed('R') || in.Has(core.ActionConfirm) {
			g.Reset(g.cfg)
		}
		return core.StepResult{State: g.State()}
	}

	if g.tryMove(in) {
		g.moves++
		g.collect()
		g.follow()
		g.comp.Redraw()
	}

	return core.StepResult{State: g.State()}
}

// answerPrompt handles input while "Quit? [Y/N]" is shown.
func (g *Game) answerPrompt(in core.InputFrame) {
	switch {
	case in.Typed('y') || in.Typed('Y'):
		g.quit = true
	case !in.Empty():
		g.confirming = false
	}
}

// tryMove moves the player one cell in the first requested direction.
// The facing glyph always turns; the position is reverted on a wall.
// Reports whether anything changed on screen.
func (g *Game) tryMove(in core.InputFrame) bool {
	x, y := g.player.Position()
	nx, ny := x, y

	switch {
	case in.Has(core.ActionUp):
		g.player.SetGlyph(glyphUp)
		if y > 0 {
			ny--
		}
	case in.Has(core.ActionDown):
		g.player.SetGlyph(glyphDown)
		if y+1 < g.worldH {
			ny++
		}
	case in.Has(core.ActionRight):
		g.player.SetGlyph(glyphRight)
		if x+1 < g.worldW {
			nx++
		}
	case in.Has(core.ActionLeft):
		g.player.SetGlyph(glyphLeft)
		if x > 0 {
			nx--
		}
	default:
		return false
	}

	g.player.SetX(nx)
	g.player.SetY(ny)
	if g.comp.HasCollisionCode(nx, ny, CodeSolid) {
		g.player.SetX(x)
		g.player.SetY(y)
	}
	return true
}

// collect removes a pickup under the player, if any.
func (g *Game) collect() {
	x, y := g.player.Position()
	i, _, ok := g.comp.ShapeWithCode(x, y, CodePickup)
	if !ok {
		return
	}
	g.comp.Remove(i)
	g.score += pickupScore
	g.pickupsLeft--
	log.Debug("pickup collected", "x", x, "y", y, "left", g.pickupsLeft)

	if g.pickupsLeft == 0 && g.pickupsTotal > 0 {
		g.gameOver = true
	}
}

// follow scrolls the view so the player stays away from its edges.
func (g *Game) follow() {
	x, y := g.player.Position()
	camX := track(g.camX, x, g.cfg.ViewW, g.worldW)
	camY := track(g.camY, y, g.cfg.ViewH, g.worldH)
	if camX == g.camX && camY == g.camY {
		return
	}
	g.comp.Scroll(int16(g.camX-camX), int16(g.camY-camY))
	g.camX, g.camY = camX, camY
}

// centre returns the camera origin that puts pos in the middle of the view.
func centre(pos, view, world uint16) uint16 {
	cam := uint16(0)
	if pos > view/2 {
		cam = pos - view/2
	}
	return min(cam, maxCamera(view, world))
}

// track returns the camera origin after pos moved, keeping a margin of up
// to a quarter of the view between pos and either edge.
func track(cam, pos, view, world uint16) uint16 {
	if view == 0 {
		return 0
	}
	margin := min(uint16(followEdge), view/4)

	switch {
	case pos < cam+margin:
		cam = 0
		if pos > margin {
			cam = pos - margin
		}
	case pos >= cam+view-margin:
		cam = pos + margin + 1 - view
	}
	return min(cam, maxCamera(view, world))
}

func maxCamera(view, world uint16) uint16 {
	if world > view {
		return world - view
	}
	return 0
}

// Render flushes the maze into its region and writes the two HUD rows
// above it.
func (g *Game) Render(dst sink.Sink) error {
	dst.SetCursorVisible(false)
	if err := g.comp.Flush(dst); err != nil {
		return fmt.Errorf("wanderwall: render: %w", err)
	}

	x, y := g.player.Position()
	lines := []string{
		fmt.Sprintf("===Wanderwall===  Score: %d  Pickups left: %d/%d", g.score, g.pickupsLeft, g.pickupsTotal),
		fmt.Sprintf("Player Pos: X:%3d Y:%3d  Moves: %d  Last key: %s", x, y, g.moves, g.lastInput),
	}
	switch {
	case g.confirming:
		lines[1] = "Quit? [Y/N]"
	case g.gameOver:
		lines[1] = fmt.Sprintf("All pickups collected in %d moves! [R] play again  [Esc] quit", g.moves)
	}

	for row, text := range lines {
		if uint16(row) >= g.cfg.ViewY || uint16(row) >= dst.Height() {
			break
		}
		if err := sink.WriteLine(dst, uint16(row), text); err != nil {
			return fmt.Errorf("wanderwall: hud: %w", err)
		}
	}
	return nil
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:      g.score,
		GameOver:   g.gameOver,
		Confirming: g.confirming,
		Quit:       g.quit,
	}
}

// Player returns the player's world position.
func (g *Game) Player() (x, y uint16) {
	return g.player.Position()
}

// Facing returns the player's current glyph.
func (g *Game) Facing() rune {
	return g.player.Glyph()
}

// Camera returns the world coordinate shown at the top-left of the view.
func (g *Game) Camera() (x, y uint16) {
	return g.camX, g.camY
}

// PickupsLeft returns how many pickups remain in the world.
func (g *Game) PickupsLeft() int {
	return g.pickupsLeft
}

// SceneName returns the name of the loaded scene.
func (g *Game) SceneName() string {
	return g.sceneName
}

// Moves returns the number of movement ticks since the last reset.
func (g *Game) Moves() int {
	return g.moves
}
