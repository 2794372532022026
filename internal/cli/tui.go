package cli

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/layerpaste/pkg/errors"
	"github.com/matzehuels/layerpaste/pkg/export"
	"github.com/matzehuels/layerpaste/pkg/geom"
	"github.com/matzehuels/layerpaste/pkg/interaction"
	"github.com/matzehuels/layerpaste/pkg/layer"
)

// =============================================================================
// Geometry
// =============================================================================

// A terminal cell stands for an 8x16 block of screen pixels. Each cell shows
// two samples, one per half, using the upper half block glyph.
const (
	cellWidth  = 8
	cellHeight = 16

	statusLines = 2
	thumbSize   = 256
)

// keyReleaseDelay is how long a movement key must stay silent before it is
// treated as released. Terminals report presses (and auto-repeats) only,
// and the first auto-repeat typically arrives after 250-500ms.
const keyReleaseDelay = 550 * time.Millisecond

var canvasBackground = color.RGBA{R: 0x1c, G: 0x1c, B: 0x1c, A: 0xff}

// =============================================================================
// Messages
// =============================================================================

type keyReleaseMsg struct {
	key interaction.Key
	seq int
}

type loadedMsg struct {
	spec string
	ev   interaction.PasteEvent
	err  error
}

type exportDoneMsg struct {
	res *export.Result
	err error
}

// =============================================================================
// editorModel
// =============================================================================

// editorModel is the bubbletea model of the canvas editor. It translates
// terminal input into interaction events and renders the canvas.
type editorModel struct {
	ctx context.Context
	ws  *workspace

	width, height int // terminal size in cells

	pending []string
	pressed interaction.Button
	keySeq  map[interaction.Key]int

	status  string
	style   lipgloss.Style
	exports []string
}

func newEditorModel(ctx context.Context, ws *workspace, preload []string) *editorModel {
	return &editorModel{
		ctx:     ctx,
		ws:      ws,
		pending: preload,
		keySeq:  make(map[interaction.Key]int),
		status:  "paste an image path or URL to begin",
		style:   StyleDim,
	}
}

func (m *editorModel) Init() tea.Cmd {
	return tea.SetWindowTitle(appName)
}

func (m *editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ws.ctrl.SetViewportSize(float64(m.width*cellWidth), float64(m.canvasRows()*cellHeight))
		if len(m.pending) > 0 {
			cmds := m.loadAll(m.pending)
			m.pending = nil
			return m, cmds
		}

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case keyReleaseMsg:
		if m.keySeq[msg.key] == msg.seq {
			delete(m.keySeq, msg.key)
			m.handle(interaction.KeyEvent{Kind: interaction.KeyRelease, Key: msg.key})
		}

	case tea.MouseMsg:
		m.handleMouse(tea.MouseEvent(msg))

	case loadedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		if err := m.ws.ctrl.Handle(m.ctx, msg.ev); err != nil {
			m.setError(err)
			return m, nil
		}
		m.setInfo(fmt.Sprintf("pasted %s (%dx%d)", shortName(msg.spec), msg.ev.Width, msg.ev.Height))

	case exportDoneMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.exports = append(m.exports, msg.res.Path)
		m.setSuccess(fmt.Sprintf("exported %s (%dx%d)", msg.res.Path, msg.res.Width, msg.res.Height))
	}
	return m, nil
}

func (m *editorModel) handle(ev interaction.Event) {
	if err := m.ws.ctrl.Handle(m.ctx, ev); err != nil {
		m.setError(err)
	}
}

func (m *editorModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Paste {
		return m.loadAll(strings.Split(string(msg.Runes), "\n"))
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit
	case "ctrl+e":
		return m.startExport()
	case "0":
		m.ws.view.Reset()
		return nil
	}

	ev, ok := translateKey(msg)
	if !ok {
		return nil
	}
	m.handle(ev)
	if !ev.Nudges() {
		return nil
	}

	m.keySeq[ev.Key]++
	key, seq := ev.Key, m.keySeq[ev.Key]
	return tea.Tick(keyReleaseDelay, func(time.Time) tea.Msg {
		return keyReleaseMsg{key: key, seq: seq}
	})
}

func (m *editorModel) handleMouse(msg tea.MouseEvent) {
	p := cellCenter(msg.X, msg.Y)
	var mods interaction.Modifiers
	if msg.Shift {
		mods |= interaction.ModShift
	}
	if msg.Ctrl {
		mods |= interaction.ModCtrl
	}
	if msg.Alt {
		mods |= interaction.ModAlt
	}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.handle(interaction.WheelEvent{DeltaY: -1, X: p.X, Y: p.Y, Mods: mods})
			return
		case tea.MouseButtonWheelDown:
			m.handle(interaction.WheelEvent{DeltaY: 1, X: p.X, Y: p.Y, Mods: mods})
			return
		}
		button := translateButton(msg.Button)
		if button == interaction.ButtonNone {
			return
		}
		m.pressed = button
		m.handle(interaction.PointerEvent{
			Kind:   interaction.PointerDown,
			Button: button,
			X:      p.X,
			Y:      p.Y,
			Target: m.hitTest(p),
		})

	case tea.MouseActionMotion:
		m.handle(interaction.PointerEvent{Kind: interaction.PointerMove, X: p.X, Y: p.Y})

	case tea.MouseActionRelease:
		button := translateButton(msg.Button)
		if button == interaction.ButtonNone {
			button = m.pressed
		}
		m.pressed = interaction.ButtonNone
		m.handle(interaction.PointerEvent{Kind: interaction.PointerUp, Button: button, X: p.X, Y: p.Y})
	}
}

// hitTest returns the topmost layer under screen point p.
func (m *editorModel) hitTest(p geom.Point) layer.ID {
	if l, ok := m.ws.store.LayerAt(m.ws.view.ScreenToContent(p)); ok {
		return l.ID
	}
	return layer.None
}

func (m *editorModel) loadAll(specs []string) tea.Cmd {
	var cmds []tea.Cmd
	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		cmds = append(cmds, func() tea.Msg {
			ev, err := m.ws.load(m.ctx, spec)
			return loadedMsg{spec: spec, ev: ev, err: err}
		})
	}
	if len(cmds) == 0 {
		return nil
	}
	m.setInfo("loading...")
	return tea.Sequence(cmds...)
}

// startExport snapshots the canvas on the update loop and rasterizes in
// the background.
func (m *editorModel) startExport() tea.Cmd {
	job, err := m.ws.exporter.Start(m.ctx)
	if err != nil {
		m.setError(err)
		return nil
	}
	m.setInfo("exporting...")
	return func() tea.Msg {
		res, err := job.Run(m.ctx)
		return exportDoneMsg{res: res, err: err}
	}
}

func (m *editorModel) setInfo(s string) { m.status, m.style = s, StyleDim }

func (m *editorModel) setSuccess(s string) { m.status, m.style = s, StyleSuccess }

func (m *editorModel) setError(err error) {
	msg := errors.UserMessage(err)
	if hint := errors.Hint(err); hint != "" {
		msg += " (" + hint + ")"
	}
	if errors.IsWarning(err) {
		m.status, m.style = msg, StyleWarning
		return
	}
	m.status, m.style = msg, styleIconError
}

func (m *editorModel) canvasRows() int { return max(0, m.height-statusLines) }

// =============================================================================
// Input translation
// =============================================================================

// translateKey maps a terminal key to an interaction key event.
func translateKey(msg tea.KeyMsg) (interaction.KeyEvent, bool) {
	var key interaction.Key
	var mods interaction.Modifiers

	switch msg.Type {
	case tea.KeyUp:
		key = interaction.KeyArrowUp
	case tea.KeyDown:
		key = interaction.KeyArrowDown
	case tea.KeyLeft:
		key = interaction.KeyArrowLeft
	case tea.KeyRight:
		key = interaction.KeyArrowRight
	case tea.KeyShiftUp:
		key, mods = interaction.KeyArrowUp, interaction.ModShift
	case tea.KeyShiftDown:
		key, mods = interaction.KeyArrowDown, interaction.ModShift
	case tea.KeyShiftLeft:
		key, mods = interaction.KeyArrowLeft, interaction.ModShift
	case tea.KeyShiftRight:
		key, mods = interaction.KeyArrowRight, interaction.ModShift
	case tea.KeyCtrlUp:
		key, mods = interaction.KeyArrowUp, interaction.ModCtrl
	case tea.KeyCtrlDown:
		key, mods = interaction.KeyArrowDown, interaction.ModCtrl
	case tea.KeyPgUp:
		key = interaction.KeyPageUp
	case tea.KeyPgDown:
		key = interaction.KeyPageDown
	case tea.KeyDelete:
		key = interaction.KeyDelete
	case tea.KeyBackspace:
		key = interaction.KeyBackspace
	case tea.KeyEsc:
		key = interaction.KeyEscape
	default:
		return interaction.KeyEvent{}, false
	}
	if msg.Alt {
		mods |= interaction.ModAlt
	}
	return interaction.KeyEvent{Kind: interaction.KeyPress, Key: key, Mods: mods}, true
}

func translateButton(b tea.MouseButton) interaction.Button {
	switch b {
	case tea.MouseButtonLeft:
		return interaction.ButtonPrimary
	case tea.MouseButtonMiddle:
		return interaction.ButtonMiddle
	case tea.MouseButtonRight:
		return interaction.ButtonSecondary
	}
	return interaction.ButtonNone
}

// cellCenter returns the screen pixel at the centre of cell (x, y).
func cellCenter(x, y int) geom.Point {
	return geom.Pt(float64(x*cellWidth+cellWidth/2), float64(y*cellHeight+cellHeight/2))
}

func shortName(spec string) string {
	if i := strings.LastIndexAny(spec, "/\\"); i >= 0 && i < len(spec)-1 {
		return spec[i+1:]
	}
	return spec
}

// =============================================================================
// Rendering
// =============================================================================

func (m *editorModel) View() string {
	if m.width == 0 {
		return ""
	}
	var b strings.Builder
	newCanvasPainter(m).paint(&b, m.width, m.canvasRows())
	b.WriteString(m.statusBar())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(truncate(
		"drag move · arrows nudge · ctrl+↑/↓ order · alt+↑/↓ front/back · del remove · wheel zoom · 0 reset · ctrl+e export · q quit",
		m.width)))
	return b.String()
}

func (m *editorModel) statusBar() string {
	store := m.ws.store
	parts := []string{
		StyleTitle.Render(appName),
		StyleHighlight.Render(fmt.Sprintf("%d%%", int(math.Round(m.ws.view.Scale()*100)))),
		fmt.Sprintf("%d layers", store.Len()),
	}
	if id := store.Focused(); id != layer.None {
		parts = append(parts, fmt.Sprintf("#%d", id))
	}
	if store.Dragging() != layer.None {
		parts = append(parts, "dragging")
	}
	if store.KeyboardMoving() {
		parts = append(parts, "moving")
	}
	if m.ws.exporter.Exporting() {
		parts = append(parts, StyleWarning.Render("exporting"))
	}
	line := strings.Join(parts, StyleDim.Render(" · "))
	if m.status != "" {
		line += StyleDim.Render(" · ") + m.style.Render(m.status)
	}
	return line
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:max(0, width)])
	}
	return string(r[:width-1]) + "…"
}

// paintedLayer is a layer projected to screen space with its thumbnail.
type paintedLayer struct {
	layer.Layer
	screen geom.Rect
	thumb  image.Image
}

// canvasPainter samples the layers once per frame.
type canvasPainter struct {
	layers  []paintedLayer // paint order, bottom first
	focused *paintedLayer
	styles  map[[2]color.RGBA]lipgloss.Style
}

func newCanvasPainter(m *editorModel) *canvasPainter {
	view := m.ws.view
	p := &canvasPainter{styles: make(map[[2]color.RGBA]lipgloss.Style)}
	focused := m.ws.store.Focused()

	for _, l := range m.ws.store.Sorted() {
		thumb, err := m.ws.library.Thumbnail(l.ImageRef, thumbSize)
		if err != nil {
			continue
		}
		origin := view.ContentToScreen(geom.Pt(l.X, l.Y))
		p.layers = append(p.layers, paintedLayer{
			Layer:  l,
			screen: geom.Rect{X: origin.X, Y: origin.Y, Width: l.Width * view.Scale(), Height: l.Height * view.Scale()},
			thumb:  thumb,
		})
	}
	for i := range p.layers {
		if p.layers[i].ID == focused {
			p.focused = &p.layers[i]
		}
	}
	return p
}

func (p *canvasPainter) paint(b *strings.Builder, cols, rows int) {
	for cy := range rows {
		for cx := range cols {
			x := float64(cx*cellWidth + cellWidth/2)
			top := p.sample(geom.Pt(x, float64(cy*cellHeight+cellHeight/4)))
			bottom := p.sample(geom.Pt(x, float64(cy*cellHeight+3*cellHeight/4)))
			glyph := "▀"
			fg := top
			if border := p.border(cx, cy); border != "" {
				glyph, fg = border, focusRingColor
			}
			b.WriteString(p.style(fg, bottom).Render(glyph))
		}
		b.WriteString("\n")
	}
}

// sample returns the colour at screen point s.
func (p *canvasPainter) sample(s geom.Point) color.RGBA {
	for i := len(p.layers) - 1; i >= 0; i-- {
		l := &p.layers[i]
		if !l.screen.Contains(s) {
			continue
		}
		tb := l.thumb.Bounds()
		u := int((s.X - l.screen.X) / l.screen.Width * float64(tb.Dx()))
		v := int((s.Y - l.screen.Y) / l.screen.Height * float64(tb.Dy()))
		c := color.RGBAModel.Convert(l.thumb.At(tb.Min.X+u, tb.Min.Y+v)).(color.RGBA)
		if c.A >= 0x80 {
			c.A = 0xff
			return c
		}
	}
	return canvasBackground
}

var focusRingColor = color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}

// border returns the box-drawing glyph for cell (cx, cy) when it lies on
// the focused layer's outline.
func (p *canvasPainter) border(cx, cy int) string {
	if p.focused == nil {
		return ""
	}
	r := p.focused.screen
	left := int(math.Floor(r.X / cellWidth))
	right := int(math.Floor((r.Right() - 1) / cellWidth))
	top := int(math.Floor(r.Y / cellHeight))
	bottom := int(math.Floor((r.Bottom() - 1) / cellHeight))
	if cx < left || cx > right || cy < top || cy > bottom {
		return ""
	}

	onLeft, onRight := cx == left, cx == right
	onTop, onBottom := cy == top, cy == bottom
	switch {
	case onTop && onLeft:
		return "┌"
	case onTop && onRight:
		return "┐"
	case onBottom && onLeft:
		return "└"
	case onBottom && onRight:
		return "┘"
	case onTop || onBottom:
		return "─"
	case onLeft || onRight:
		return "│"
	}
	return ""
}

func (p *canvasPainter) style(fg, bg color.RGBA) lipgloss.Style {
	key := [2]color.RGBA{fg, bg}
	if s, ok := p.styles[key]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(hex(fg)).Background(hex(bg))
	p.styles[key] = s
	return s
}

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
