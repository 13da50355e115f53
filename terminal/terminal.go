// Package terminal runs the interactive mind map view on a tcell screen.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"mindmap/diagram"
	"mindmap/editor"
	"mindmap/render"
)

// Mode is the input mode of the view.
type Mode int

const (
	ModeNormal Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "EDIT"
	}
	return "NORMAL"
}

// moveStep is how far Shift+arrow drags a node, in canvas units.
const moveStep = 20

// SaveFunc persists the current map.
type SaveFunc func(ctx context.Context, doc diagram.Document) error

// App is the interactive view. It owns no map state of its own beyond the
// text being typed; everything else lives in the editor.
type App struct {
	editor   *editor.Editor
	screen   tcell.Screen
	renderer *render.Renderer
	logger   *zap.Logger

	name    string
	save    SaveFunc
	pan     [2]int
	mode    Mode
	editing int
	buffer  []rune
	message string

	script *Script
	player *Player
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger. Logging to the terminal would corrupt the
// screen, so pass a file logger or leave the default no-op.
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithName sets the map name shown in the status line.
func WithName(name string) Option {
	return func(a *App) {
		a.name = name
	}
}

// WithSave enables the s key.
func WithSave(fn SaveFunc) Option {
	return func(a *App) {
		a.save = fn
	}
}

// WithTheme replaces the default colored theme.
func WithTheme(theme render.Theme) Option {
	return func(a *App) {
		a.renderer.Theme = theme
	}
}

// WithScript replays script into the view once it starts.
func WithScript(script *Script, player *Player) Option {
	if player == nil {
		player = NewPlayer()
	}
	return func(a *App) {
		a.script = script
		a.player = player
	}
}

// New creates a view over ed drawing to screen. The screen must not be
// initialized yet when Run is used.
func New(ed *editor.Editor, screen tcell.Screen, opts ...Option) *App {
	a := &App{
		editor:   ed,
		screen:   screen,
		renderer: render.NewRenderer(ed.Config().Metrics.NodeHeight, render.DefaultTheme()),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run initializes the screen and processes events until q is pressed or ctx
// is done.
func (a *App) Run(ctx context.Context) error {
	if err := a.screen.Init(); err != nil {
		return fmt.Errorf("failed to setup terminal: %w", err)
	}
	defer a.screen.Fini()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	if a.script != nil {
		go func() {
			err := a.player.Play(ctx, a.script, a.screen.PostEvent)
			if err != nil && ctx.Err() == nil {
				a.logger.Warn("Demo script stopped", zap.Error(err))
			}
		}()
	}

	a.Draw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok {
			return ctx.Err()
		}
		if a.HandleEvent(ctx, ev) {
			return nil
		}
		a.Draw()
	}
}

// Mode returns the current input mode.
func (a *App) Mode() Mode {
	return a.mode
}

// Message returns the last status message.
func (a *App) Message() string {
	return a.message
}

// HandleEvent applies one event and reports whether the view should exit.
func (a *App) HandleEvent(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		a.message = ""
		if a.mode == ModeEdit {
			a.handleEditKey(ctx, ev)
			return false
		}
		return a.handleNormalKey(ctx, ev)
	}
	return false
}

func (a *App) handleNormalKey(ctx context.Context, ev *tcell.EventKey) bool {
	sel, ok := a.editor.Selected()

	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyCtrlR:
		a.report(a.editor.Redo(ctx))
		return false
	case tcell.KeyUp, tcell.KeyDown, tcell.KeyLeft, tcell.KeyRight:
		dir := arrowDirection(ev.Key())
		if !ok {
			a.selectFirstRoot(ctx)
			return false
		}
		if ev.Modifiers()&tcell.ModShift != 0 {
			dx, dy := dir.Vector()
			a.report(a.editor.MoveNode(ctx, sel, dx*moveStep, dy*moveStep))
			return false
		}
		a.navigate(ctx, sel, dir)
		return false
	case tcell.KeyTab:
		if ok {
			a.create(ctx, a.editor.CreateChild, sel)
		}
		return false
	case tcell.KeyEnter:
		if ok {
			a.create(ctx, a.editor.CreateSibling, sel)
		}
		return false
	case tcell.KeyDelete:
		if ok {
			a.delete(ctx, sel)
		}
		return false
	case tcell.KeyRune:
	default:
		return false
	}

	switch ev.Rune() {
	case 'q':
		return true
	case 'n':
		a.newRoot(ctx)
	case 'x':
		if ok {
			a.delete(ctx, sel)
		}
	case ' ':
		if ok {
			a.report(a.editor.ToggleCollapse(ctx, sel))
		}
	case 'e':
		if ok {
			a.startEdit(ctx, sel)
		}
	case 'u':
		a.report(a.editor.Undo(ctx))
	case 's':
		a.saveMap(ctx)
	case 'H':
		a.pan[0] -= 4
	case 'L':
		a.pan[0] += 4
	case 'K':
		a.pan[1] -= 2
	case 'J':
		a.pan[1] += 2
	case '0':
		a.pan = [2]int{}
	}
	return false
}

func (a *App) handleEditKey(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyEnter:
		a.commit(ctx)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.buffer) > 0 {
			a.buffer = a.buffer[:len(a.buffer)-1]
		}
	case tcell.KeyCtrlU:
		a.buffer = a.buffer[:0]
	case tcell.KeyRune:
		a.buffer = append(a.buffer, ev.Rune())
	}
}

func arrowDirection(k tcell.Key) diagram.Direction {
	switch k {
	case tcell.KeyUp:
		return diagram.North
	case tcell.KeyDown:
		return diagram.South
	case tcell.KeyLeft:
		return diagram.West
	default:
		return diagram.East
	}
}

func (a *App) navigate(ctx context.Context, from int, dir diagram.Direction) {
	n, found, err := a.editor.FindNearestNode(from, dir)
	if err != nil {
		a.report(err)
		return
	}
	if !found {
		a.message = "No node " + strings.ToLower(dir.String())
		return
	}
	a.report(a.editor.Select(ctx, n.ID))
}

func (a *App) selectFirstRoot(ctx context.Context) {
	if roots := a.editor.Roots(); len(roots) > 0 {
		a.report(a.editor.Select(ctx, roots[0]))
	}
}

// create runs a command that adds a node and starts editing it.
func (a *App) create(ctx context.Context, cmd func(context.Context, int) (int, error), from int) {
	id, err := cmd(ctx, from)
	if err != nil {
		a.report(err)
		return
	}
	a.beginEdit(id, "")
}

// newRoot starts the first map, or adds a root below the last one.
func (a *App) newRoot(ctx context.Context) {
	roots := a.editor.Roots()
	if len(roots) > 0 {
		a.create(ctx, a.editor.CreateSibling, roots[len(roots)-1])
		return
	}
	id, err := a.editor.NewRoot(ctx, "", 0, 0)
	if err != nil {
		a.report(err)
		return
	}
	if err := a.editor.Select(ctx, id); err != nil {
		a.report(err)
		return
	}
	a.startEdit(ctx, id)
}

func (a *App) startEdit(ctx context.Context, id int) {
	n, err := a.editor.Node(id)
	if err != nil {
		a.report(err)
		return
	}
	if err := a.editor.Edit(ctx, id); err != nil {
		a.report(err)
		return
	}
	a.beginEdit(id, n.Content)
}

func (a *App) beginEdit(id int, text string) {
	a.mode = ModeEdit
	a.editing = id
	a.buffer = []rune(text)
}

// commit ends editing. An empty commit on a new child removes it, so the
// parent takes the selection back.
func (a *App) commit(ctx context.Context) {
	id := a.editing
	a.mode = ModeNormal
	a.editing = 0

	n, err := a.editor.Node(id)
	if err != nil {
		a.report(err)
		return
	}
	if err := a.editor.CommitContent(ctx, id, string(a.buffer)); err != nil {
		a.report(err)
		return
	}
	if _, err := a.editor.Node(id); err != nil && n.ParentID != nil {
		a.report(a.editor.Select(ctx, *n.ParentID))
	}
}

func (a *App) delete(ctx context.Context, id int) {
	n, err := a.editor.Node(id)
	if err != nil {
		a.report(err)
		return
	}
	if err := a.editor.DeleteNode(ctx, id); err != nil {
		a.report(err)
		return
	}
	if n.ParentID != nil {
		a.report(a.editor.Select(ctx, *n.ParentID))
	}
}

func (a *App) saveMap(ctx context.Context) {
	if a.save == nil {
		a.message = "Saving is not configured"
		return
	}
	if err := a.save(ctx, a.editor.Export("")); err != nil {
		a.report(err)
		return
	}
	a.message = "Saved"
}

func (a *App) report(err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, diagram.ErrRootDeletion):
		a.message = "Root nodes cannot be deleted"
	case errors.Is(err, editor.ErrNothingToUndo):
		a.message = "Nothing to undo"
	case errors.Is(err, editor.ErrNothingToRedo):
		a.message = "Nothing to redo"
	default:
		a.message = "Error: " + err.Error()
		a.logger.Warn("Command failed", zap.Error(err))
	}
}

// Draw repaints the map and the status line.
func (a *App) Draw() {
	t := a.editor.Snapshot()
	if a.mode == ModeEdit {
		if n := t.Node(a.editing); n != nil {
			n.Content = string(a.buffer)
		}
	}

	a.screen.Clear()
	v, _, _ := a.renderer.Fit(t, render.DefaultViewport(), 2)
	v = v.Pan(a.pan[0], a.pan[1])
	a.renderer.Draw(a.screen, t, a.editor.Connections(), v)
	a.renderer.DrawStatus(a.screen, a.statusLine(t))
	a.screen.Show()
}

func (a *App) statusLine(t *diagram.Tree) string {
	if a.mode == ModeEdit {
		return fmt.Sprintf("Edit: %s│", string(a.buffer))
	}

	name := a.name
	if name == "" {
		name = "untitled"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "[ %s ] Nodes: %d | Mode: %s", name, t.Len(), a.mode)
	if current, total := a.editor.HistoryStats(); total > 1 {
		fmt.Fprintf(&sb, " | History: %d/%d", current, total)
	}
	if t.Len() == 0 {
		sb.WriteString(" | n: new root")
	}
	if a.message != "" {
		sb.WriteString(" | " + a.message)
	}
	return sb.String()
}
