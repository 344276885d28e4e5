// Package tui provides the Bubble Tea drawing interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/knagaya/kakitori/internal/dataset"
	"github.com/knagaya/kakitori/internal/model"
	"github.com/knagaya/kakitori/internal/recognizer"
	"github.com/knagaya/kakitori/internal/session"
	"github.com/knagaya/kakitori/internal/tracker"
)

const (
	frameInterval   = 80 * time.Millisecond
	advanceDelay    = 1200 * time.Millisecond
	loadTimeout     = 30 * time.Second
	animPauseFrames = 12
)

// CharSource resolves glyphs to practice-ready characters.
type CharSource interface {
	Load(ctx context.Context, glyph string) (model.Character, error)
}

// Options wires the practice UI to the engine and its collaborators. Samples
// and OCR are optional.
type Options struct {
	Config  model.Config
	Tracker *tracker.Tracker
	Source  CharSource
	Glyphs  []string
	Samples *dataset.Writer
	OCR     *recognizer.Client
}

// Model implements the Bubble Tea drawing UI.
type Model struct {
	cfg     model.Config
	tracker *tracker.Tracker
	source  CharSource
	queue   []string
	pos     int
	samples *dataset.Writer
	ocr     *recognizer.Client

	sess    *session.Session
	inked   []model.Stroke
	current model.Stroke
	drawing bool

	width  int
	height int

	status    string
	statusErr bool
	loading   string
	animFrame int
	ticking   bool

	glyphInput textinput.Model
	inputMode  bool
}

var (
	titleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	silhouetteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	guideStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	doneInkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	inkStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	numberStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6FA8DC"))
	statusOKStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8FBC6F"))
	statusErrStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	borderStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

var canvasStyles = map[cellStyle]lipgloss.Style{
	styleSilhouette: silhouetteStyle,
	styleGuide:      guideStyle,
	styleDoneInk:    doneInkStyle,
	styleInk:        inkStyle,
	styleNumber:     numberStyle,
}

type charLoadedMsg struct {
	glyph string
	ch    model.Character
	err   error
}

type recognizedMsg struct {
	text string
	err  error
}

type frameMsg time.Time

type advanceMsg struct{}

// NewModel constructs the practice UI model.
func NewModel(opts Options) *Model {
	input := textinput.New()
	input.Prompt = "Character: "
	input.CharLimit = 4
	input.Cursor.SetMode(cursor.CursorBlink)
	return &Model{
		cfg:        opts.Config,
		tracker:    opts.Tracker,
		source:     opts.Source,
		queue:      opts.Glyphs,
		samples:    opts.Samples,
		ocr:        opts.OCR,
		glyphInput: input,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if len(m.queue) == 0 {
		m.setStatus("No characters queued. Press g to enter one.", false)
		return nil
	}
	return m.loadCmd(m.queue[m.pos])
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case charLoadedMsg:
		return m.handleLoaded(msg)
	case recognizedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Recognition failed: %v", msg.err), true)
		} else {
			m.setStatus(m.recognitionStatus(msg.text), false)
		}
		return m, nil
	case frameMsg:
		m.animFrame++
		if m.shouldAnimate() {
			return m, frameCmd()
		}
		m.ticking = false
		return m, nil
	case advanceMsg:
		return m, m.advance()
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		if m.inputMode {
			return m.updateGlyphInput(msg)
		}
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "c":
		return m.handleClear()
	case "h":
		if m.sess != nil && m.sess.Render().HintEnabled {
			m.sess.RequestHint()
			return m, m.startTicking()
		}
		return m, nil
	case "n", "enter":
		return m, m.advance()
	case "g", "/":
		m.inputMode = true
		m.glyphInput.SetValue("")
		return m, m.glyphInput.Focus()
	case "r":
		return m.handleRecognize()
	case "x":
		if m.sess != nil {
			if err := m.sess.ResetStats(); err != nil {
				m.setStatus(fmt.Sprintf("Failed to reset stats: %v", err), true)
			} else {
				m.setStatus("Stats reset. "+m.sess.StatsMessage(), false)
			}
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) handleClear() (tea.Model, tea.Cmd) {
	if m.sess == nil || m.sess.Done() {
		return m, nil
	}
	m.current = nil
	m.drawing = false
	if _, err := m.sess.Clear(); err != nil {
		logErrf("failed to record redraw: %v\n", err)
	}
	m.setStatus("Cleared. Draw the stroke again.", false)
	return m, nil
}

func (m *Model) handleRecognize() (tea.Model, tea.Cmd) {
	if m.ocr == nil {
		m.setStatus("No OCR server configured.", true)
		return m, nil
	}
	if len(m.inked) == 0 {
		m.setStatus("Nothing drawn yet.", true)
		return m, nil
	}
	png, err := dataset.Render(m.inked)
	if err != nil {
		m.setStatus(fmt.Sprintf("Recognition failed: %v", err), true)
		return m, nil
	}
	m.setStatus("Recognizing...", false)
	client := m.ocr
	return m, func() tea.Msg {
		text, err := client.Recognize(context.Background(), png)
		return recognizedMsg{text: text, err: err}
	}
}

func (m *Model) recognitionStatus(text string) string {
	if m.sess != nil && text == m.sess.Character().Glyph {
		return fmt.Sprintf("Recognized: %s (match)", text)
	}
	return fmt.Sprintf("Recognized: %s", text)
}

func (m *Model) updateGlyphInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.inputMode = false
		return m, nil
	case tea.KeyEnter:
		m.inputMode = false
		glyph := firstGlyph(m.glyphInput.Value())
		if glyph == "" {
			return m, nil
		}
		return m, m.loadCmd(glyph)
	}
	var cmd tea.Cmd
	m.glyphInput, cmd = m.glyphInput.Update(msg)
	return m, cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.sess == nil || m.sess.Done() || m.inputMode {
		return m, nil
	}
	cv := m.layoutCanvas()
	if cv == nil {
		return m, nil
	}
	// Header line plus the top and left border.
	cx := msg.X - 1
	cy := msg.Y - 2
	inside := cx >= 0 && cx < cv.cols && cy >= 0 && cy < cv.rows

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && inside {
			m.drawing = true
			m.current = model.Stroke{cv.toPoint(cx, cy)}
		}
		return m, nil
	case tea.MouseActionMotion:
		if m.drawing && inside {
			m.current = append(m.current, cv.toPoint(cx, cy))
		}
		return m, nil
	case tea.MouseActionRelease:
		if !m.drawing {
			return m, nil
		}
		m.drawing = false
		drawn := m.current
		m.current = nil
		if len(drawn) < 2 {
			return m, nil
		}
		return m.submit(drawn)
	default:
		return m, nil
	}
}

func (m *Model) submit(drawn model.Stroke) (tea.Model, tea.Cmd) {
	ev, err := m.sess.Submit(drawn)
	if err != nil {
		logErrf("failed to save stats: %v\n", err)
	}
	switch ev.Outcome {
	case model.OutcomeAccepted:
		m.inked = append(m.inked, drawn)
		m.setStatus(fmt.Sprintf("Stroke %d accepted.", ev.StrokeIndex), false)
	case model.OutcomeShapeRejected:
		m.setStatus(fmt.Sprintf("Not quite. Stay on the stroke path (%.0f%% on track).", ev.Result.HitRatio*100), true)
	case model.OutcomeDirectionRejected:
		m.setStatus("Right shape, wrong direction. Follow the stroke direction.", true)
	case model.OutcomeCharacterComplete:
		m.inked = append(m.inked, drawn)
		m.setStatus("Complete! "+m.sess.StatsMessage(), false)
		m.saveSample()
		if ev.AutoAdvance {
			return m, tea.Tick(advanceDelay, func(time.Time) tea.Msg { return advanceMsg{} })
		}
	}
	return m, m.startTicking()
}

func (m *Model) saveSample() {
	if m.samples == nil || m.sess == nil {
		return
	}
	if _, err := m.samples.Save(m.sess.Character().Glyph, m.inked); err != nil {
		logErrf("failed to save handwriting sample: %v\n", err)
	}
}

func (m *Model) advance() tea.Cmd {
	if len(m.queue) == 0 {
		return nil
	}
	m.pos = (m.pos + 1) % len(m.queue)
	return m.loadCmd(m.queue[m.pos])
}

func (m *Model) loadCmd(glyph string) tea.Cmd {
	m.loading = glyph
	m.setStatus(fmt.Sprintf("Loading %s...", glyph), false)
	source := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		ch, err := source.Load(ctx, glyph)
		return charLoadedMsg{glyph: glyph, ch: ch, err: err}
	}
}

func (m *Model) handleLoaded(msg charLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.glyph != m.loading {
		// A newer load superseded this one.
		return m, nil
	}
	m.loading = ""
	if msg.err != nil {
		m.sess = nil
		m.setStatus(fmt.Sprintf("Failed to load %s: %v", msg.glyph, msg.err), true)
		return m, nil
	}
	card := m.tracker.CardState(msg.glyph)
	sess, err := session.New(msg.ch, m.cfg, card, m.tracker)
	if err != nil {
		m.sess = nil
		m.setStatus(fmt.Sprintf("Cannot practice %s: %v", msg.glyph, err), true)
		return m, nil
	}
	m.sess = sess
	m.inked = nil
	m.current = nil
	m.drawing = false
	m.animFrame = 0
	m.setStatus(sess.StatsMessage(), false)
	return m, m.startTicking()
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) shouldAnimate() bool {
	if m.sess == nil {
		return false
	}
	state := m.sess.Render()
	if state.HintActive {
		return true
	}
	for _, view := range state.Strokes {
		if view.Animated {
			return true
		}
	}
	return false
}

func (m *Model) startTicking() tea.Cmd {
	if m.ticking || !m.shouldAnimate() {
		return nil
	}
	m.ticking = true
	return frameCmd()
}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// layoutCanvas sizes the drawing raster for the current window, or nil when
// the window is too small.
func (m *Model) layoutCanvas() *canvas {
	if m.width == 0 || m.height == 0 {
		return nil
	}
	rows := m.height - 5
	cols := rows * 2
	if cols > m.width-2 {
		cols = m.width - 2
		rows = cols / 2
	}
	if rows < 4 || cols < 8 {
		return nil
	}
	return newCanvas(cols, rows)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.inputMode {
		return m.glyphInput.View()
	}
	cv := m.layoutCanvas()
	if cv == nil {
		return "Window too small."
	}
	m.paint(cv)

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')
	b.WriteString(borderStyle.Render(cv.render(canvasStyles)))
	b.WriteByte('\n')
	b.WriteString(m.renderStatus())
	b.WriteByte('\n')
	b.WriteString(m.renderFooter())
	return b.String()
}

// paint layers the reference strokes, user ink, and stroke numbers.
func (m *Model) paint(cv *canvas) {
	if m.sess == nil {
		return
	}
	ch := m.sess.Character()
	state := m.sess.Render()

	for i, view := range state.Strokes {
		if view.Silhouette {
			cv.plotStroke(ch.Strokes[i].Points, '·', styleSilhouette)
		}
	}
	for i, view := range state.Strokes {
		if !view.Animated {
			continue
		}
		steps := cv.strokeSteps(ch.Strokes[i].Points)
		frame := m.animFrame % (steps + animPauseFrames)
		cv.plotStrokePrefix(ch.Strokes[i].Points, frame, '●', styleGuide)
	}
	for _, stroke := range m.inked {
		cv.plotStroke(stroke, '█', styleDoneInk)
	}
	if len(m.current) > 0 {
		cv.plotStroke(m.current, '█', styleInk)
	}
	for i, view := range state.Strokes {
		if view.Number {
			cv.plotLabel(ch.Strokes[i], strconv.Itoa(ch.Strokes[i].Index))
		}
	}
}

func (m *Model) renderHeader() string {
	if m.sess == nil {
		return titleStyle.Render("kakitori")
	}
	ch := m.sess.Character()
	target := m.sess.CurrentTarget()
	progress := fmt.Sprintf("stroke %d/%d", target, len(ch.Strokes))
	if m.sess.Done() {
		progress = "complete"
	}
	return titleStyle.Render(ch.Glyph) + footerStyle.Render(fmt.Sprintf("  %s", progress))
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return statusErrStyle.Render(m.status)
	}
	return statusOKStyle.Render(m.status)
}

func (m *Model) renderFooter() string {
	parts := []string{"draw: mouse", "c clear", "n next", "g character", "x reset stats"}
	if m.sess != nil && m.sess.Render().HintEnabled {
		parts = append(parts, "h hint")
	}
	if m.ocr != nil {
		parts = append(parts, "r recognize")
	}
	parts = append(parts, "q quit")
	return footerStyle.Render(strings.Join(parts, "  "))
}

// firstGlyph extracts the first non-space rune of the input.
func firstGlyph(input string) string {
	for _, r := range strings.TrimSpace(input) {
		return string(r)
	}
	return ""
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
